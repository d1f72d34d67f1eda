package viewer

import (
	"github.com/1049861657/yolo-draw/internal/label"
	"github.com/1049861657/yolo-draw/pkg/geometry"
)

// editState tracks what the current pointer gesture is doing.
type editState int

const (
	stateIdle editState = iota
	stateCornerDrag
	stateEdgeDrag
	stateDrawing
)

// minDrawPixels is the smallest box a draw gesture may create.
const minDrawPixels = 5.0

// PressKind tells the widget what a press landed on, so it can pick a
// cursor and decide whether an unclaimed press should pan the view.
type PressKind int

const (
	PressNone PressKind = iota
	PressCorner
	PressEdge
	PressInside
	PressDraw
)

// PressResult reports the outcome of a press gesture.
type PressResult struct {
	Kind PressKind
	Box  int // row index for corner/edge/inside presses
}

// Editor turns pointer gestures in image-pixel space into mutations on the
// current label record. It holds no widget state; the viewer feeds it
// already-unprojected coordinates.
type Editor struct {
	rec        *label.Record
	imgW, imgH float64

	state    editState
	selected int

	dragBox    int
	dragCorner int
	dragEdge   int

	drawArmed bool
	drawStart geometry.Point2D
	drawCur   geometry.Point2D
}

// NewEditor creates an editor with no record attached.
func NewEditor() *Editor {
	return &Editor{selected: -1, dragBox: -1}
}

// SetRecord attaches a record and resets all gesture state.
func (e *Editor) SetRecord(rec *label.Record, imgW, imgH float64) {
	e.rec = rec
	e.imgW, e.imgH = imgW, imgH
	e.reset()
	e.drawArmed = false
	e.selected = -1
}

// Record returns the attached record.
func (e *Editor) Record() *label.Record { return e.rec }

// Selected returns the selected row index, or -1.
func (e *Editor) Selected() int { return e.selected }

// Select sets the selected row index. Out-of-range indices clear the
// selection.
func (e *Editor) Select(i int) {
	if e.rec == nil || i < 0 || i >= e.rec.Len() {
		e.selected = -1
		return
	}
	e.selected = i
}

// ArmDraw makes the next press start a new box instead of hit-testing.
func (e *Editor) ArmDraw() {
	e.drawArmed = true
	e.reset()
}

// DrawArmed reports whether the next press starts a draw gesture.
func (e *Editor) DrawArmed() bool { return e.drawArmed }

// Cancel abandons any in-progress gesture.
func (e *Editor) Cancel() {
	e.drawArmed = false
	e.reset()
}

func (e *Editor) reset() {
	e.state = stateIdle
	e.dragBox = -1
	e.dragCorner = -1
	e.dragEdge = -1
}

// boxes denormalizes the record rows into pixel-space rects for hit-testing.
func (e *Editor) boxes() []geometry.Rect {
	if e.rec == nil {
		return nil
	}
	rows := e.rec.Rows()
	rects := make([]geometry.Rect, len(rows))
	for i, row := range rows {
		rects[i] = geometry.DenormalizeBox(row.CX, row.CY, row.W, row.H, e.imgW, e.imgH)
	}
	return rects
}

// Press starts a gesture at an image-space point. Hit priority is corner,
// then edge, then containment; an armed draw bypasses hit-testing.
func (e *Editor) Press(p geometry.Point2D) PressResult {
	if e.rec == nil {
		return PressResult{Kind: PressNone, Box: -1}
	}

	if e.drawArmed {
		e.state = stateDrawing
		e.drawStart = geometry.ClampToImage(p, e.imgW, e.imgH)
		e.drawCur = e.drawStart
		return PressResult{Kind: PressDraw, Box: -1}
	}

	rects := e.boxes()

	if box, corner, ok := geometry.CornerAt(p, rects); ok {
		e.state = stateCornerDrag
		e.dragBox = box
		e.dragCorner = corner
		e.selected = box
		return PressResult{Kind: PressCorner, Box: box}
	}
	if box, edge, ok := geometry.EdgeAt(p, rects); ok {
		e.state = stateEdgeDrag
		e.dragBox = box
		e.dragEdge = edge
		e.selected = box
		return PressResult{Kind: PressEdge, Box: box}
	}
	if box, ok := geometry.BoxAt(p, rects); ok {
		e.selected = box
		return PressResult{Kind: PressInside, Box: box}
	}

	e.selected = -1
	return PressResult{Kind: PressNone, Box: -1}
}

// Move continues the current gesture. Drag gestures write the reshaped box
// back into the record on every move so the overlay tracks the pointer.
func (e *Editor) Move(p geometry.Point2D) {
	switch e.state {
	case stateDrawing:
		e.drawCur = geometry.ClampToImage(p, e.imgW, e.imgH)
	case stateCornerDrag:
		rects := e.boxes()
		if e.dragBox < 0 || e.dragBox >= len(rects) {
			return
		}
		moved := geometry.DragCorner(rects[e.dragBox], e.dragCorner,
			geometry.ClampToImage(p, e.imgW, e.imgH))
		e.applyRect(e.dragBox, moved)
	case stateEdgeDrag:
		rects := e.boxes()
		if e.dragBox < 0 || e.dragBox >= len(rects) {
			return
		}
		moved := geometry.DragEdge(rects[e.dragBox], e.dragEdge,
			geometry.ClampToImage(p, e.imgW, e.imgH))
		e.applyRect(e.dragBox, moved)
	}
}

// Release finishes the gesture. For a draw gesture it adds a new row with
// class 0 when the rubber box is at least minDrawPixels in both dimensions,
// and reports the new row's index so the widget can ask for a class. The
// rubber box spans the press point and the last Move point, so a drag in
// any direction produces the same box.
func (e *Editor) Release() (newBox int, added bool) {
	defer e.reset()

	if e.state != stateDrawing {
		return -1, false
	}
	e.drawArmed = false

	r := geometry.RectFromCorners(e.drawStart, e.drawCur)
	if r.Width < minDrawPixels || r.Height < minDrawPixels {
		return -1, false
	}

	cx, cy, w, h := geometry.NormalizeBox(r, e.imgW, e.imgH)
	e.rec.Add(0, cx, cy, w, h)
	e.selected = e.rec.Len() - 1
	return e.selected, true
}

// Drawing reports whether a draw gesture is in progress, with the current
// rubber-band rect for the overlay.
func (e *Editor) Drawing() (geometry.Rect, bool) {
	if e.state != stateDrawing {
		return geometry.Rect{}, false
	}
	return geometry.RectFromCorners(e.drawStart, e.drawCur), true
}

// Dragging reports whether a resize gesture is in progress.
func (e *Editor) Dragging() bool {
	return e.state == stateCornerDrag || e.state == stateEdgeDrag
}

// applyRect clamps a pixel rect and writes it back to the record row.
func (e *Editor) applyRect(i int, r geometry.Rect) {
	cx, cy, w, h := geometry.NormalizeBox(r, e.imgW, e.imgH)
	e.rec.UpdateCoords(i, cx, cy, w, h)
}

// RemoveSelected deletes the selected row.
func (e *Editor) RemoveSelected() bool {
	if e.rec == nil || e.selected < 0 {
		return false
	}
	ok := e.rec.Remove(e.selected)
	e.selected = -1
	e.reset()
	return ok
}

// SetSelectedClass re-tags the selected row.
func (e *Editor) SetSelectedClass(classID int) bool {
	if e.rec == nil || e.selected < 0 {
		return false
	}
	return e.rec.UpdateClass(e.selected, classID)
}
