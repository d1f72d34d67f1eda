package viewer

import (
	"image"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/1049861657/yolo-draw/internal/label"
)

// viewerWithImage builds a viewer showing a 1000x1000 image at zoom 1 with
// an empty label record.
func viewerWithImage(t *testing.T) *Viewer {
	t.Helper()
	test.NewApp()

	dir := t.TempDir()
	imgPath := filepath.Join(dir, "snap_v1.png")
	f, err := os.Create(imgPath)
	require.NoError(t, err)
	require.NoError(t, png.Encode(f, image.NewRGBA(image.Rect(0, 0, 1000, 1000))))
	require.NoError(t, f.Close())

	v := NewViewer()
	rec := label.NewRecord(imgPath, filepath.Join(dir, "snap_v1.txt"))
	require.NoError(t, v.ShowImage(imgPath, rec))
	return v
}

func dragEvent(x, y, dx, dy float32) *fyne.DragEvent {
	return &fyne.DragEvent{
		PointEvent: fyne.PointEvent{Position: fyne.NewPos(x, y)},
		Dragged:    fyne.Delta{DX: dx, DY: dy},
	}
}

// The drag-end event carries no position, so the finished rect must come
// from the editor's tracked points. A gesture dragged toward the origin
// exercises the case where the press point is the rect's max corner.
func TestDrawDragUpLeftThroughPointerEvents(t *testing.T) {
	v := viewerWithImage(t)
	v.Editor().ArmDraw()

	got := -1
	v.OnNewBox(func(box int) { got = box })

	v.content.Dragged(dragEvent(280, 280, -20, -20)) // press point (300,300)
	v.content.Dragged(dragEvent(100, 100, -180, -180))
	v.content.DragEnd()

	require.Equal(t, 0, got)
	row, ok := v.Editor().Record().Row(0)
	require.True(t, ok)
	assert.InDelta(t, 0.2, row.CX, 1e-9)
	assert.InDelta(t, 0.2, row.CY, 1e-9)
	assert.InDelta(t, 0.2, row.W, 1e-9)
	assert.InDelta(t, 0.2, row.H, 1e-9)
}

func TestTapKeepsDrawModeArmed(t *testing.T) {
	v := viewerWithImage(t)
	v.Editor().ArmDraw()

	v.content.Tapped(&fyne.PointEvent{Position: fyne.NewPos(50, 50)})
	assert.True(t, v.Editor().DrawArmed())
}
