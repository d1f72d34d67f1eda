package geometry

import "math"

// Corner indices, clockwise from top-left.
const (
	CornerTopLeft = iota
	CornerTopRight
	CornerBottomRight
	CornerBottomLeft
)

// Edge indices, clockwise from the top edge.
const (
	EdgeTop = iota
	EdgeRight
	EdgeBottom
	EdgeLeft
)

const (
	// CornerRadius is the pick-up distance for corner handles, in image pixels.
	CornerRadius = 15.0
	// EdgeBand is the pick-up distance for edge handles, in image pixels.
	EdgeBand = 10.0
	// MinBoxPixels is the smallest box dimension a drag may produce.
	MinBoxPixels = 1.0
)

// DenormalizeBox converts a YOLO box (normalized center and size) to a pixel
// rectangle within an image of the given dimensions.
func DenormalizeBox(cx, cy, w, h, imgW, imgH float64) Rect {
	bw := w * imgW
	bh := h * imgH
	return Rect{
		X:      cx*imgW - bw/2,
		Y:      cy*imgH - bh/2,
		Width:  bw,
		Height: bh,
	}
}

// NormalizeBox converts a pixel rectangle back to YOLO center/size form.
func NormalizeBox(r Rect, imgW, imgH float64) (cx, cy, w, h float64) {
	c := r.Center()
	return c.X / imgW, c.Y / imgH, r.Width / imgW, r.Height / imgH
}

// BoxAt returns the index of the first box containing p, in row order.
// Overlapping boxes are not tie-broken by area or z-order; first match wins.
func BoxAt(p Point2D, boxes []Rect) (int, bool) {
	for i, r := range boxes {
		if r.Contains(p) {
			return i, true
		}
	}
	return -1, false
}

// CornerAt returns the first (box, corner) pair whose corner lies within
// CornerRadius of p, scanning boxes in row order and corners clockwise from
// top-left. Proximity is a per-axis test, matching the square handles drawn
// by the viewer.
func CornerAt(p Point2D, boxes []Rect) (box, corner int, ok bool) {
	for i, r := range boxes {
		for c := CornerTopLeft; c <= CornerBottomLeft; c++ {
			pt := r.Corner(c)
			if math.Abs(p.X-pt.X) <= CornerRadius && math.Abs(p.Y-pt.Y) <= CornerRadius {
				return i, c, true
			}
		}
	}
	return -1, -1, false
}

// EdgeAt returns the first (box, edge) pair where p lies within EdgeBand of
// the edge line, constrained to the edge's span along the perpendicular axis.
func EdgeAt(p Point2D, boxes []Rect) (box, edge int, ok bool) {
	for i, r := range boxes {
		x1, y1 := r.X, r.Y
		x2, y2 := r.MaxX(), r.MaxY()

		if math.Abs(p.Y-y1) <= EdgeBand && p.X >= x1 && p.X <= x2 {
			return i, EdgeTop, true
		}
		if math.Abs(p.X-x2) <= EdgeBand && p.Y >= y1 && p.Y <= y2 {
			return i, EdgeRight, true
		}
		if math.Abs(p.Y-y2) <= EdgeBand && p.X >= x1 && p.X <= x2 {
			return i, EdgeBottom, true
		}
		if math.Abs(p.X-x1) <= EdgeBand && p.Y >= y1 && p.Y <= y2 {
			return i, EdgeLeft, true
		}
	}
	return -1, -1, false
}

// DragCorner moves one corner of r to p, keeping the opposite corner fixed.
// The result is clamped so both dimensions stay at least MinBoxPixels.
func DragCorner(r Rect, corner int, p Point2D) Rect {
	x1, y1 := r.X, r.Y
	x2, y2 := r.MaxX(), r.MaxY()

	switch corner {
	case CornerTopLeft:
		x1, y1 = p.X, p.Y
	case CornerTopRight:
		x2, y1 = p.X, p.Y
	case CornerBottomRight:
		x2, y2 = p.X, p.Y
	case CornerBottomLeft:
		x1, y2 = p.X, p.Y
	}
	return clampSpan(x1, y1, x2, y2)
}

// DragEdge moves one edge of r to the matching coordinate of p.
func DragEdge(r Rect, edge int, p Point2D) Rect {
	x1, y1 := r.X, r.Y
	x2, y2 := r.MaxX(), r.MaxY()

	switch edge {
	case EdgeTop:
		y1 = p.Y
	case EdgeRight:
		x2 = p.X
	case EdgeBottom:
		y2 = p.Y
	case EdgeLeft:
		x1 = p.X
	}
	return clampSpan(x1, y1, x2, y2)
}

// clampSpan enforces x2>x1 and y2>y1 with a minimum one-pixel span.
func clampSpan(x1, y1, x2, y2 float64) Rect {
	if x2 <= x1 {
		x2 = x1 + MinBoxPixels
	}
	if y2 <= y1 {
		y2 = y1 + MinBoxPixels
	}
	return Rect{X: x1, Y: y1, Width: x2 - x1, Height: y2 - y1}
}

// ClampToImage limits p to the image bounds.
func ClampToImage(p Point2D, imgW, imgH float64) Point2D {
	return Point2D{
		X: math.Max(0, math.Min(imgW, p.X)),
		Y: math.Max(0, math.Min(imgH, p.Y)),
	}
}
