// Package viewer provides the annotation canvas: image display with pan and
// zoom, box overlays, and pointer-driven box editing.
package viewer

import (
	"image"
	"image/draw"

	"fyne.io/fyne/v2"
	fynecanvas "fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"github.com/1049861657/yolo-draw/internal/dataset"
	"github.com/1049861657/yolo-draw/internal/detect"
	"github.com/1049861657/yolo-draw/internal/label"
	"github.com/1049861657/yolo-draw/pkg/geometry"
)

const (
	minZoom  = 0.1
	maxZoom  = 10.0
	zoomStep = 1.25
)

// Viewer displays the current image with its label boxes and routes pointer
// gestures to the edit state machine.
type Viewer struct {
	widget.BaseWidget

	editor *Editor

	img        image.Image
	imgW, imgH float64

	predictions     []detect.Prediction
	showPredictions bool

	raster  *fynecanvas.Raster
	content *pointerContent
	scroll  *zoomScroll
	zoom    float64
	imgSize fyne.Size

	dragActive bool
	panning    bool

	// Callbacks into the main window.
	onRowsChanged    func()
	onBoxSelected    func(box int)
	onClassMenu      func(box int, pos fyne.Position)
	onPredictionMenu func(pred int, pos fyne.Position)
	onNewBox         func(box int)
	onZoomChange     func(zoom float64)
}

// NewViewer creates an empty viewer.
func NewViewer() *Viewer {
	v := &Viewer{
		editor:  NewEditor(),
		zoom:    1.0,
		imgSize: fyne.NewSize(400, 300),
	}
	v.raster = fynecanvas.NewRaster(v.draw)
	v.raster.ScaleMode = fynecanvas.ImageScalePixels
	v.raster.SetMinSize(v.imgSize)
	v.content = newPointerContent(v, v.raster)
	v.scroll = newZoomScroll(v.content, v)
	v.ExtendBaseWidget(v)
	return v
}

// Container returns the scrollable canvas for embedding in layouts.
func (v *Viewer) Container() fyne.CanvasObject { return v.scroll }

// Editor exposes the edit state machine for keyboard-driven operations.
func (v *Viewer) Editor() *Editor { return v.editor }

// ShowImage loads an image file and attaches its label record.
func (v *Viewer) ShowImage(imagePath string, rec *label.Record) error {
	img, err := dataset.LoadImage(imagePath)
	if err != nil {
		return err
	}
	v.img = img
	bounds := img.Bounds()
	v.imgW, v.imgH = float64(bounds.Dx()), float64(bounds.Dy())
	v.editor.SetRecord(rec, v.imgW, v.imgH)
	v.ClearPredictions()
	v.updateContentSize()
	return nil
}

// Clear empties the viewer.
func (v *Viewer) Clear() {
	v.img = nil
	v.imgW, v.imgH = 0, 0
	v.editor.SetRecord(nil, 0, 0)
	v.ClearPredictions()
	v.updateContentSize()
}

// SetPredictions installs model output for display.
func (v *Viewer) SetPredictions(preds []detect.Prediction) {
	v.predictions = preds
	v.showPredictions = true
	v.Refresh()
}

// Predictions returns the currently displayed predictions.
func (v *Viewer) Predictions() []detect.Prediction {
	if !v.showPredictions {
		return nil
	}
	return v.predictions
}

// ClearPredictions hides and drops model output.
func (v *Viewer) ClearPredictions() {
	v.predictions = nil
	v.showPredictions = false
	v.Refresh()
}

// AcceptPrediction promotes one prediction into a label row.
func (v *Viewer) AcceptPrediction(i int) bool {
	if i < 0 || i >= len(v.predictions) {
		return false
	}
	p := v.predictions[i]
	v.editor.Record().Add(p.Class, p.CX, p.CY, p.W, p.H)
	v.predictions = append(v.predictions[:i], v.predictions[i+1:]...)
	v.rowsChanged()
	return true
}

// AcceptAllPredictions promotes every prediction into label rows.
func (v *Viewer) AcceptAllPredictions() int {
	n := len(v.predictions)
	for _, p := range v.predictions {
		v.editor.Record().Add(p.Class, p.CX, p.CY, p.W, p.H)
	}
	v.predictions = nil
	if n > 0 {
		v.rowsChanged()
	}
	return n
}

// RejectPrediction drops one prediction.
func (v *Viewer) RejectPrediction(i int) bool {
	if i < 0 || i >= len(v.predictions) {
		return false
	}
	v.predictions = append(v.predictions[:i], v.predictions[i+1:]...)
	v.Refresh()
	return true
}

// PredictionAt hit-tests the predictions at an image-space point.
func (v *Viewer) PredictionAt(p geometry.Point2D) (int, bool) {
	rects := make([]geometry.Rect, len(v.predictions))
	for i, pred := range v.predictions {
		rects[i] = geometry.DenormalizeBox(pred.CX, pred.CY, pred.W, pred.H, v.imgW, v.imgH)
	}
	return geometry.BoxAt(p, rects)
}

// OnRowsChanged registers a callback fired after any row mutation.
func (v *Viewer) OnRowsChanged(fn func()) { v.onRowsChanged = fn }

// OnBoxSelected registers a callback fired when a box is selected.
func (v *Viewer) OnBoxSelected(fn func(box int)) { v.onBoxSelected = fn }

// OnClassMenu registers the right-click class menu callback.
func (v *Viewer) OnClassMenu(fn func(box int, pos fyne.Position)) { v.onClassMenu = fn }

// OnPredictionMenu registers the right-click prediction menu callback.
func (v *Viewer) OnPredictionMenu(fn func(pred int, pos fyne.Position)) { v.onPredictionMenu = fn }

// OnNewBox registers a callback fired when a draw gesture creates a row.
func (v *Viewer) OnNewBox(fn func(box int)) { v.onNewBox = fn }

// OnZoomChange registers a zoom-change callback.
func (v *Viewer) OnZoomChange(fn func(zoom float64)) { v.onZoomChange = fn }

func (v *Viewer) rowsChanged() {
	if v.onRowsChanged != nil {
		v.onRowsChanged()
	}
	v.Refresh()
}

// SetZoom sets the zoom level, clamped to the supported range.
func (v *Viewer) SetZoom(zoom float64) {
	if zoom < minZoom {
		zoom = minZoom
	}
	if zoom > maxZoom {
		zoom = maxZoom
	}
	v.zoom = zoom
	v.updateContentSize()
	if v.onZoomChange != nil {
		v.onZoomChange(zoom)
	}
}

// Zoom returns the current zoom level.
func (v *Viewer) Zoom() float64 { return v.zoom }

// ZoomIn increases the zoom level one step.
func (v *Viewer) ZoomIn() { v.SetZoom(v.zoom * zoomStep) }

// ZoomOut decreases the zoom level one step.
func (v *Viewer) ZoomOut() { v.SetZoom(v.zoom / zoomStep) }

// FitToWindow adjusts zoom so the whole image is visible.
func (v *Viewer) FitToWindow() {
	if v.imgW == 0 || v.imgH == 0 {
		return
	}
	viewSize := v.scroll.Size()
	if viewSize.Width <= 0 || viewSize.Height <= 0 {
		return
	}
	zoomX := float64(viewSize.Width) / v.imgW
	zoomY := float64(viewSize.Height) / v.imgH
	zoom := zoomX
	if zoomY < zoomX {
		zoom = zoomY
	}
	v.SetZoom(zoom * 0.95)
}

// Refresh redraws the canvas.
func (v *Viewer) Refresh() {
	v.raster.Refresh()
}

// toImageSpace converts a viewport position to image-pixel coordinates.
func (v *Viewer) toImageSpace(pos fyne.Position) geometry.Point2D {
	offset := v.scroll.Offset()
	return geometry.NewPoint2D(
		float64(pos.X+offset.X)/v.zoom,
		float64(pos.Y+offset.Y)/v.zoom)
}

func (v *Viewer) updateContentSize() {
	if v.imgW == 0 || v.imgH == 0 {
		v.imgSize = fyne.NewSize(400, 300)
	} else {
		v.imgSize = fyne.NewSize(float32(v.imgW*v.zoom), float32(v.imgH*v.zoom))
	}
	v.raster.SetMinSize(v.imgSize)
	v.raster.Resize(v.imgSize)
	if v.content != nil {
		v.content.Resize(v.imgSize)
		v.content.Refresh()
	}
	v.raster.Refresh()
	if v.scroll != nil {
		v.scroll.Refresh()
	}
}

// draw composites the image and overlays into the raster output.
func (v *Viewer) draw(w, h int) image.Image {
	out := image.NewRGBA(image.Rect(0, 0, w, h))
	for i := 3; i < len(out.Pix); i += 4 {
		out.Pix[i] = 255
	}
	if v.img == nil {
		return out
	}

	v.compositeImage(out, w, h)

	rec := v.editor.Record()
	if rec != nil {
		drawBoxes(out, rec.Rows(), v.editor.Selected(), v.imgW, v.imgH, v.zoom)
	}
	if v.showPredictions {
		drawPredictions(out, v.predictions, v.imgW, v.imgH, v.zoom)
	}
	if r, ok := v.editor.Drawing(); ok {
		drawRubberBox(out, r, v.zoom)
	}
	return out
}

// compositeImage renders the zoomed source image with nearest-neighbor
// sampling; at zoom 1 it degenerates to a plain copy.
func (v *Viewer) compositeImage(out *image.RGBA, w, h int) {
	if v.zoom == 1.0 {
		draw.Draw(out, v.img.Bounds(), v.img, v.img.Bounds().Min, draw.Src)
		return
	}
	srcBounds := v.img.Bounds()
	for y := 0; y < h; y++ {
		srcY := int(float64(y)/v.zoom) + srcBounds.Min.Y
		if srcY >= srcBounds.Max.Y {
			break
		}
		for x := 0; x < w; x++ {
			srcX := int(float64(x)/v.zoom) + srcBounds.Min.X
			if srcX >= srcBounds.Max.X {
				break
			}
			out.Set(x, y, v.img.At(srcX, srcY))
		}
	}
}

// CreateRenderer implements fyne.Widget.
func (v *Viewer) CreateRenderer() fyne.WidgetRenderer {
	return &viewerRenderer{viewer: v}
}

type viewerRenderer struct {
	viewer *Viewer
}

func (r *viewerRenderer) Layout(size fyne.Size) {
	r.viewer.scroll.Resize(size)
}

func (r *viewerRenderer) MinSize() fyne.Size {
	return fyne.NewSize(100, 100)
}

func (r *viewerRenderer) Refresh() {
	r.viewer.raster.Refresh()
}

func (r *viewerRenderer) Objects() []fyne.CanvasObject {
	return []fyne.CanvasObject{r.viewer.scroll}
}

func (r *viewerRenderer) Destroy() {}

// zoomScroll wraps a scroll container but claims the wheel for zoom.
type zoomScroll struct {
	widget.BaseWidget
	scroll *container.Scroll
	viewer *Viewer
}

func newZoomScroll(content fyne.CanvasObject, v *Viewer) *zoomScroll {
	scroll := container.NewScroll(content)
	scroll.Direction = container.ScrollBoth
	zs := &zoomScroll{scroll: scroll, viewer: v}
	zs.ExtendBaseWidget(zs)
	return zs
}

func (zs *zoomScroll) Scrolled(ev *fyne.ScrollEvent) {
	if ev.Scrolled.DY > 0 {
		zs.viewer.ZoomIn()
	} else if ev.Scrolled.DY < 0 {
		zs.viewer.ZoomOut()
	}
}

func (zs *zoomScroll) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(zs.scroll)
}

func (zs *zoomScroll) Offset() fyne.Position { return zs.scroll.Offset }

func (zs *zoomScroll) ScrollBy(dx, dy float32) {
	zs.scroll.Offset = fyne.NewPos(zs.scroll.Offset.X-dx, zs.scroll.Offset.Y-dy)
	zs.scroll.Refresh()
}

func (zs *zoomScroll) Size() fyne.Size { return zs.scroll.Size() }

func (zs *zoomScroll) Refresh() {
	zs.scroll.Refresh()
	zs.BaseWidget.Refresh()
}

func (zs *zoomScroll) Resize(size fyne.Size) {
	zs.scroll.Resize(size)
	zs.BaseWidget.Resize(size)
}

// pointerContent wraps the raster and translates Fyne pointer events into
// editor gestures.
type pointerContent struct {
	widget.BaseWidget
	viewer *Viewer
	raster *fynecanvas.Raster
}

func newPointerContent(v *Viewer, raster *fynecanvas.Raster) *pointerContent {
	pc := &pointerContent{viewer: v, raster: raster}
	pc.ExtendBaseWidget(pc)
	return pc
}

func (pc *pointerContent) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(pc.raster)
}

func (pc *pointerContent) MinSize() fyne.Size {
	return pc.raster.MinSize()
}

// Dragged drives press/move: the first event of a drag carries the start
// position in its delta, which becomes the press point.
func (pc *pointerContent) Dragged(ev *fyne.DragEvent) {
	v := pc.viewer
	if v.img == nil {
		return
	}

	if !v.dragActive {
		v.dragActive = true
		start := fyne.NewPos(ev.Position.X-ev.Dragged.DX, ev.Position.Y-ev.Dragged.DY)
		res := v.editor.Press(v.toImageSpace(start))
		switch res.Kind {
		case PressCorner, PressEdge:
			if v.onBoxSelected != nil {
				v.onBoxSelected(res.Box)
			}
		case PressInside, PressNone:
			// Unclaimed drags pan the zoomed view.
			if v.zoom > 1.01 {
				v.panning = true
			}
		}
	}

	if v.panning {
		v.scroll.ScrollBy(ev.Dragged.DX, ev.Dragged.DY)
		return
	}
	v.editor.Move(v.toImageSpace(ev.Position))
	v.Refresh()
}

func (pc *pointerContent) DragEnd() {
	v := pc.viewer
	if !v.dragActive {
		return
	}
	v.dragActive = false
	if v.panning {
		v.panning = false
		return
	}

	wasDragging := v.editor.Dragging()
	// DragEnd carries no position; the editor finishes from its last Move
	// point.
	box, added := v.editor.Release()
	if added {
		if v.onNewBox != nil {
			v.onNewBox(box)
		}
		v.rowsChanged()
		return
	}
	if wasDragging {
		v.rowsChanged()
	}
}

// Tapped selects the box under the pointer. While draw mode is armed a
// plain click is ignored so the mode stays armed until a drag completes a
// box.
func (pc *pointerContent) Tapped(ev *fyne.PointEvent) {
	v := pc.viewer
	if v.img == nil || v.editor.DrawArmed() {
		return
	}
	res := v.editor.Press(v.toImageSpace(ev.Position))
	if res.Box >= 0 && v.onBoxSelected != nil {
		v.onBoxSelected(res.Box)
	}
	v.editor.Cancel()
	v.editor.Select(res.Box)
	v.Refresh()
}

// TappedSecondary opens the class menu for the box under the pointer, or
// the prediction menu when the pointer is over a prediction.
func (pc *pointerContent) TappedSecondary(ev *fyne.PointEvent) {
	v := pc.viewer
	if v.img == nil {
		return
	}
	p := v.toImageSpace(ev.Position)

	if v.showPredictions {
		if i, ok := v.PredictionAt(p); ok {
			if v.onPredictionMenu != nil {
				v.onPredictionMenu(i, ev.AbsolutePosition)
			}
			return
		}
	}

	rec := v.editor.Record()
	if rec == nil {
		return
	}
	rects := make([]geometry.Rect, rec.Len())
	for i, row := range rec.Rows() {
		rects[i] = geometry.DenormalizeBox(row.CX, row.CY, row.W, row.H, v.imgW, v.imgH)
	}
	if i, ok := geometry.BoxAt(p, rects); ok {
		v.editor.Select(i)
		if v.onClassMenu != nil {
			v.onClassMenu(i, ev.AbsolutePosition)
		}
	}
}
