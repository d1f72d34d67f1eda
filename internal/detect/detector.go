// Package detect runs the pretrained ship-detection model over dataset
// images and turns its raw output into normalized prediction rows.
package detect

import (
	"fmt"
	"image"
	"sort"

	"gocv.io/x/gocv"

	"github.com/1049861657/yolo-draw/internal/label"
)

const (
	// DefaultConfidence is the score threshold below which detections are
	// discarded before NMS.
	DefaultConfidence = 0.4

	nmsThreshold = 0.45
	inputSize    = 640
)

// Prediction is a detected box in label-row shape plus a confidence score.
// Predictions are never persisted directly; the user promotes them into
// label rows by accepting them.
type Prediction struct {
	label.Row
	Confidence float64
}

// Detector wraps a YOLO network loaded through the OpenCV DNN module.
// Not safe for concurrent Predict calls; the UI serializes inference.
type Detector struct {
	net       gocv.Net
	modelPath string
	confThr   float32
}

// NewDetector loads an ONNX-exported YOLO model from disk.
func NewDetector(modelPath string) (*Detector, error) {
	net := gocv.ReadNetFromONNX(modelPath)
	if net.Empty() {
		return nil, fmt.Errorf("load model %s: network is empty", modelPath)
	}
	return &Detector{net: net, modelPath: modelPath, confThr: DefaultConfidence}, nil
}

// ModelPath returns the path the detector was loaded from.
func (d *Detector) ModelPath() string { return d.modelPath }

// Close releases the underlying network.
func (d *Detector) Close() error { return d.net.Close() }

// Predict runs inference on an image file and returns the surviving boxes
// in normalized coordinates, highest confidence first.
func (d *Detector) Predict(imagePath string) ([]Prediction, error) {
	img := gocv.IMRead(imagePath, gocv.IMReadColor)
	if img.Empty() {
		return nil, fmt.Errorf("read image %s", imagePath)
	}
	defer img.Close()

	blob := gocv.BlobFromImage(img, 1.0/255.0,
		image.Pt(inputSize, inputSize), gocv.NewScalar(0, 0, 0, 0), true, false)
	defer blob.Close()

	d.net.SetInput(blob, "")
	out := d.net.Forward("")
	defer out.Close()

	dims := out.Size()
	if len(dims) != 3 {
		return nil, fmt.Errorf("unexpected model output rank %d", len(dims))
	}
	data, err := out.DataPtrFloat32()
	if err != nil {
		return nil, fmt.Errorf("read model output: %w", err)
	}

	cands := decodeOutput(data, dims[1], dims[2], d.confThr)
	return applyNMS(cands, d.confThr), nil
}

// candidate is a raw above-threshold detection in model input space.
type candidate struct {
	class      int
	cx, cy     float32 // pixels in the inputSize x inputSize model frame
	w, h       float32
	confidence float32
}

// decodeOutput parses a YOLO detection head. Ultralytics ONNX exports emit
// [1, 4+numClasses, N]; older exports emit the transpose with an objectness
// column at index 4. Orientation is inferred from the dimension sizes.
func decodeOutput(data []float32, d1, d2 int, confThr float32) []candidate {
	attrs, n := d1, d2
	transposed := false
	if d1 > d2 {
		// [1, N, attrs] layout.
		attrs, n = d2, d1
		transposed = true
	}
	if attrs < 5 || len(data) < attrs*n {
		return nil
	}

	at := func(box, attr int) float32 {
		if transposed {
			return data[box*attrs+attr]
		}
		return data[attr*n+box]
	}

	// Objectness-style heads carry 5+nc attributes with a score at index 4
	// that is itself a probability, not a coordinate.
	hasObjectness := transposed

	var cands []candidate
	for i := 0; i < n; i++ {
		classOff := 4
		obj := float32(1)
		if hasObjectness {
			classOff = 5
			obj = at(i, 4)
		}

		best := -1
		var bestScore float32
		for c := classOff; c < attrs; c++ {
			if s := at(i, c); s > bestScore {
				bestScore = s
				best = c - classOff
			}
		}
		score := bestScore * obj
		if best < 0 || score < confThr {
			continue
		}
		cands = append(cands, candidate{
			class:      best,
			cx:         at(i, 0),
			cy:         at(i, 1),
			w:          at(i, 2),
			h:          at(i, 3),
			confidence: score,
		})
	}
	return cands
}

// applyNMS suppresses overlapping candidates and converts the survivors to
// normalized prediction rows.
func applyNMS(cands []candidate, confThr float32) []Prediction {
	if len(cands) == 0 {
		return nil
	}

	boxes := make([]image.Rectangle, len(cands))
	scores := make([]float32, len(cands))
	for i, c := range cands {
		boxes[i] = image.Rect(
			int(c.cx-c.w/2), int(c.cy-c.h/2),
			int(c.cx+c.w/2), int(c.cy+c.h/2))
		scores[i] = c.confidence
	}

	indices := make([]int, len(cands))
	for i := range indices {
		indices[i] = -1
	}
	gocv.NMSBoxes(boxes, scores, confThr, nmsThreshold, indices)

	var preds []Prediction
	for _, idx := range indices {
		if idx < 0 || idx >= len(cands) {
			break
		}
		preds = append(preds, toPrediction(cands[idx]))
	}
	sort.SliceStable(preds, func(i, j int) bool {
		return preds[i].Confidence > preds[j].Confidence
	})
	return preds
}

// toPrediction normalizes a model-frame candidate. The blob is a plain
// square resize, so dividing by the input size yields image-normalized
// coordinates directly.
func toPrediction(c candidate) Prediction {
	return Prediction{
		Row: label.Row{
			Class: c.class,
			CX:    float64(c.cx) / inputSize,
			CY:    float64(c.cy) / inputSize,
			W:     float64(c.w) / inputSize,
			H:     float64(c.h) / inputSize,
		},
		Confidence: float64(c.confidence),
	}
}
