package viewer

import (
	"fmt"
	"image"
	"image/color"

	"github.com/1049861657/yolo-draw/internal/classify"
	"github.com/1049861657/yolo-draw/internal/detect"
	"github.com/1049861657/yolo-draw/internal/label"
	"github.com/1049861657/yolo-draw/pkg/geometry"
)

const (
	boxThickness      = 2
	selectedThickness = 3
	handleSize        = 6
	dashLength        = 6
)

var (
	drawRubberColor = color.RGBA{R: 0xFF, A: 0xFF}
	handleColor     = color.RGBA{R: 0xFF, G: 0xFF, B: 0xFF, A: 0xFF}
)

// digitPatterns is a 3x5 bitmap font for the characters the overlay needs:
// class IDs and confidence percentages.
var digitPatterns = [10][5]uint8{
	{0b111, 0b101, 0b101, 0b101, 0b111}, // 0
	{0b010, 0b110, 0b010, 0b010, 0b111}, // 1
	{0b111, 0b001, 0b111, 0b100, 0b111}, // 2
	{0b111, 0b001, 0b111, 0b001, 0b111}, // 3
	{0b101, 0b101, 0b111, 0b001, 0b001}, // 4
	{0b111, 0b100, 0b111, 0b001, 0b111}, // 5
	{0b111, 0b100, 0b111, 0b101, 0b111}, // 6
	{0b111, 0b001, 0b010, 0b010, 0b010}, // 7
	{0b111, 0b101, 0b111, 0b101, 0b111}, // 8
	{0b111, 0b101, 0b111, 0b001, 0b111}, // 9
}

// percentPattern renders the % character.
var percentPattern = [5]uint8{0b101, 0b001, 0b010, 0b100, 0b101}

// drawBoxes renders label rows onto the output in canvas space. The
// selected row gets a thicker outline and corner handles.
func drawBoxes(out *image.RGBA, rows []label.Row, selected int, imgW, imgH, zoom float64) {
	for i, row := range rows {
		r := geometry.DenormalizeBox(row.CX, row.CY, row.W, row.H, imgW, imgH)
		col := classify.BoxColor(row.Class)
		thickness := boxThickness
		if i == selected {
			thickness = selectedThickness
		}
		drawRectOutline(out, scaleRect(r, zoom), col, thickness, false)
		drawText(out, fmt.Sprintf("%d", row.Class),
			int(r.X*zoom)+3, int(r.Y*zoom)+3, col)
		if i == selected {
			drawHandles(out, scaleRect(r, zoom))
		}
	}
}

// drawPredictions renders model output as dashed boxes with a confidence
// percentage, visually distinct from committed rows.
func drawPredictions(out *image.RGBA, preds []detect.Prediction, imgW, imgH, zoom float64) {
	for _, p := range preds {
		r := geometry.DenormalizeBox(p.CX, p.CY, p.W, p.H, imgW, imgH)
		col := classify.BoxColor(p.Class)
		sr := scaleRect(r, zoom)
		drawRectOutline(out, sr, col, boxThickness, true)
		drawText(out, fmt.Sprintf("%d %d%%", p.Class, int(p.Confidence*100)),
			sr.Min.X+3, sr.Max.Y-10, col)
	}
}

// drawRubberBox renders the in-progress draw gesture.
func drawRubberBox(out *image.RGBA, r geometry.Rect, zoom float64) {
	drawRectOutline(out, scaleRect(r, zoom), drawRubberColor, boxThickness, true)
}

func scaleRect(r geometry.Rect, zoom float64) image.Rectangle {
	return image.Rect(
		int(r.X*zoom), int(r.Y*zoom),
		int(r.MaxX()*zoom), int(r.MaxY()*zoom))
}

// drawRectOutline draws a rectangle outline, optionally dashed.
func drawRectOutline(out *image.RGBA, r image.Rectangle, col color.RGBA, thickness int, dashed bool) {
	for t := 0; t < thickness; t++ {
		drawHLine(out, r.Min.X, r.Max.X, r.Min.Y+t, col, dashed)
		drawHLine(out, r.Min.X, r.Max.X, r.Max.Y-t, col, dashed)
		drawVLine(out, r.Min.X+t, r.Min.Y, r.Max.Y, col, dashed)
		drawVLine(out, r.Max.X-t, r.Min.Y, r.Max.Y, col, dashed)
	}
}

func drawHLine(out *image.RGBA, x1, x2, y int, col color.RGBA, dashed bool) {
	bounds := out.Bounds()
	if y < bounds.Min.Y || y >= bounds.Max.Y {
		return
	}
	for x := x1; x <= x2; x++ {
		if x < bounds.Min.X || x >= bounds.Max.X {
			continue
		}
		if dashed && (x-x1)/dashLength%2 == 1 {
			continue
		}
		out.SetRGBA(x, y, col)
	}
}

func drawVLine(out *image.RGBA, x, y1, y2 int, col color.RGBA, dashed bool) {
	bounds := out.Bounds()
	if x < bounds.Min.X || x >= bounds.Max.X {
		return
	}
	for y := y1; y <= y2; y++ {
		if y < bounds.Min.Y || y >= bounds.Max.Y {
			continue
		}
		if dashed && (y-y1)/dashLength%2 == 1 {
			continue
		}
		out.SetRGBA(x, y, col)
	}
}

// drawHandles marks the four corners of the selected box with filled
// squares so the grab targets are visible.
func drawHandles(out *image.RGBA, r image.Rectangle) {
	for _, c := range []image.Point{
		{r.Min.X, r.Min.Y}, {r.Max.X, r.Min.Y},
		{r.Max.X, r.Max.Y}, {r.Min.X, r.Max.Y},
	} {
		fillSquare(out, c.X, c.Y, handleSize, handleColor)
	}
}

func fillSquare(out *image.RGBA, cx, cy, size int, col color.RGBA) {
	bounds := out.Bounds()
	half := size / 2
	for y := cy - half; y <= cy+half; y++ {
		for x := cx - half; x <= cx+half; x++ {
			if x >= bounds.Min.X && x < bounds.Max.X && y >= bounds.Min.Y && y < bounds.Max.Y {
				out.SetRGBA(x, y, col)
			}
		}
	}
}

// drawText renders digits, spaces and percent signs with the bitmap font.
func drawText(out *image.RGBA, text string, x, y int, col color.RGBA) {
	const scale = 2
	for _, ch := range text {
		var pattern [5]uint8
		switch {
		case ch >= '0' && ch <= '9':
			pattern = digitPatterns[ch-'0']
		case ch == '%':
			pattern = percentPattern
		default:
			x += 4 * scale
			continue
		}
		drawPattern(out, pattern, x, y, scale, col)
		x += 4 * scale
	}
}

func drawPattern(out *image.RGBA, pattern [5]uint8, x, y, scale int, col color.RGBA) {
	bounds := out.Bounds()
	for row := 0; row < 5; row++ {
		for colBit := 0; colBit < 3; colBit++ {
			if pattern[row]&(1<<(2-colBit)) == 0 {
				continue
			}
			for dy := 0; dy < scale; dy++ {
				for dx := 0; dx < scale; dx++ {
					px := x + colBit*scale + dx
					py := y + row*scale + dy
					if px >= bounds.Min.X && px < bounds.Max.X &&
						py >= bounds.Min.Y && py < bounds.Max.Y {
						out.SetRGBA(px, py, col)
					}
				}
			}
		}
	}
}
