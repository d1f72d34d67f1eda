package viewer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/1049861657/yolo-draw/internal/label"
	"github.com/1049861657/yolo-draw/pkg/geometry"
)

// recordWithBox returns a 1000x1000 editor with one box spanning
// (400,400)-(600,600).
func editorWithBox(t *testing.T) *Editor {
	t.Helper()
	rec := &label.Record{}
	rec.Add(0, 0.5, 0.5, 0.2, 0.2)

	e := NewEditor()
	e.SetRecord(rec, 1000, 1000)
	return e
}

func TestPressHitPriority(t *testing.T) {
	e := editorWithBox(t)

	// Near the top-left corner.
	res := e.Press(geometry.NewPoint2D(405, 403))
	assert.Equal(t, PressCorner, res.Kind)
	assert.Equal(t, 0, res.Box)
	assert.Equal(t, 0, e.Selected())
	e.Cancel()

	// On the right edge, away from corners.
	res = e.Press(geometry.NewPoint2D(603, 500))
	assert.Equal(t, PressEdge, res.Kind)
	e.Cancel()

	// Inside, away from corners and edges.
	res = e.Press(geometry.NewPoint2D(500, 500))
	assert.Equal(t, PressInside, res.Kind)
	assert.False(t, e.Dragging())
	e.Cancel()

	// Outside everything clears the selection.
	res = e.Press(geometry.NewPoint2D(100, 100))
	assert.Equal(t, PressNone, res.Kind)
	assert.Equal(t, -1, e.Selected())
}

func TestCornerDragReshapesBox(t *testing.T) {
	e := editorWithBox(t)

	res := e.Press(geometry.NewPoint2D(400, 400))
	require.Equal(t, PressCorner, res.Kind)
	assert.True(t, e.Dragging())

	e.Move(geometry.NewPoint2D(300, 350))
	_, added := e.Release()
	assert.False(t, added)
	assert.False(t, e.Dragging())

	row, ok := e.Record().Row(0)
	require.True(t, ok)
	// New box spans (300,350)-(600,600).
	assert.InDelta(t, 0.45, row.CX, 1e-9)
	assert.InDelta(t, 0.475, row.CY, 1e-9)
	assert.InDelta(t, 0.3, row.W, 1e-9)
	assert.InDelta(t, 0.25, row.H, 1e-9)
	assert.True(t, e.Record().Modified())
}

func TestEdgeDragMovesOneSide(t *testing.T) {
	e := editorWithBox(t)

	res := e.Press(geometry.NewPoint2D(500, 400)) // top edge
	require.Equal(t, PressEdge, res.Kind)

	e.Move(geometry.NewPoint2D(500, 300))
	e.Release()

	row, _ := e.Record().Row(0)
	// Top moved to 300, bottom stays at 600.
	assert.InDelta(t, 0.45, row.CY, 1e-9)
	assert.InDelta(t, 0.3, row.H, 1e-9)
	assert.InDelta(t, 0.2, row.W, 1e-9, "width untouched")
}

func TestDrawGestureAddsRow(t *testing.T) {
	e := editorWithBox(t)
	e.ArmDraw()
	require.True(t, e.DrawArmed())

	res := e.Press(geometry.NewPoint2D(100, 100))
	assert.Equal(t, PressDraw, res.Kind)

	e.Move(geometry.NewPoint2D(200, 150))
	r, drawing := e.Drawing()
	require.True(t, drawing)
	assert.Equal(t, 100.0, r.Width)

	box, added := e.Release()
	require.True(t, added)
	assert.Equal(t, 1, box)
	assert.False(t, e.DrawArmed(), "draw disarms after one box")

	row, ok := e.Record().Row(1)
	require.True(t, ok)
	assert.Equal(t, 0, row.Class, "new boxes start at class 0")
	assert.InDelta(t, 0.15, row.CX, 1e-9)
	assert.InDelta(t, 0.125, row.CY, 1e-9)
	assert.InDelta(t, 0.1, row.W, 1e-9)
	assert.InDelta(t, 0.05, row.H, 1e-9)
}

func TestDrawGestureUpLeftAddsRow(t *testing.T) {
	e := editorWithBox(t)
	e.ArmDraw()

	// Press at the bottom-right corner of the gesture and drag toward the
	// origin; the finished box must match a left-to-right drag of the same
	// span.
	e.Press(geometry.NewPoint2D(300, 300))
	e.Move(geometry.NewPoint2D(100, 100))
	box, added := e.Release()
	require.True(t, added)

	row, ok := e.Record().Row(box)
	require.True(t, ok)
	assert.InDelta(t, 0.2, row.CX, 1e-9)
	assert.InDelta(t, 0.2, row.CY, 1e-9)
	assert.InDelta(t, 0.2, row.W, 1e-9)
	assert.InDelta(t, 0.2, row.H, 1e-9)
}

func TestDrawTooSmallIsDiscarded(t *testing.T) {
	e := editorWithBox(t)
	e.ArmDraw()

	e.Press(geometry.NewPoint2D(100, 100))
	e.Move(geometry.NewPoint2D(103, 102))
	_, added := e.Release()

	assert.False(t, added)
	assert.Equal(t, 1, e.Record().Len())
}

func TestDrawClampsToImageBounds(t *testing.T) {
	e := editorWithBox(t)
	e.ArmDraw()

	e.Press(geometry.NewPoint2D(900, 900))
	e.Move(geometry.NewPoint2D(1500, 1200))
	_, added := e.Release()
	require.True(t, added)

	row, _ := e.Record().Row(1)
	// Box spans (900,900)-(1000,1000).
	assert.InDelta(t, 0.95, row.CX, 1e-9)
	assert.InDelta(t, 0.95, row.CY, 1e-9)
	assert.InDelta(t, 0.1, row.W, 1e-9)
	assert.InDelta(t, 0.1, row.H, 1e-9)
}

func TestRemoveSelected(t *testing.T) {
	e := editorWithBox(t)
	e.Select(0)
	assert.True(t, e.RemoveSelected())
	assert.Equal(t, 0, e.Record().Len())
	assert.Equal(t, -1, e.Selected())
	assert.False(t, e.RemoveSelected(), "nothing selected")
}

func TestSetSelectedClass(t *testing.T) {
	e := editorWithBox(t)
	e.Select(0)
	require.True(t, e.SetSelectedClass(3))
	row, _ := e.Record().Row(0)
	assert.Equal(t, 3, row.Class)
}

func TestSelectOutOfRangeClears(t *testing.T) {
	e := editorWithBox(t)
	e.Select(5)
	assert.Equal(t, -1, e.Selected())
}

func TestPressWithoutRecord(t *testing.T) {
	e := NewEditor()
	res := e.Press(geometry.NewPoint2D(1, 1))
	assert.Equal(t, PressNone, res.Kind)
}
