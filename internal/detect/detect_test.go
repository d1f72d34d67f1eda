package detect

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/1049861657/yolo-draw/internal/settings"
)

// buildOutput lays out candidates in the [1, attrs, n] head format used by
// current ONNX exports.
func buildOutput(attrs, n int, fill func(box, attr int) float32) []float32 {
	data := make([]float32, attrs*n)
	for a := 0; a < attrs; a++ {
		for b := 0; b < n; b++ {
			data[a*n+b] = fill(b, a)
		}
	}
	return data
}

func TestDecodeOutputThresholds(t *testing.T) {
	// Two classes, eight boxes; only boxes 0 and 2 score above threshold.
	scores := map[int][2]float32{0: {0.9, 0.1}, 1: {0.2, 0.1}, 2: {0.1, 0.6}}
	data := buildOutput(6, 8, func(box, attr int) float32 {
		if attr < 4 {
			return 320 // center of the model frame
		}
		return scores[box][attr-4]
	})

	cands := decodeOutput(data, 6, 8, DefaultConfidence)
	require.Len(t, cands, 2)
	assert.Equal(t, 0, cands[0].class)
	assert.InDelta(t, 0.9, float64(cands[0].confidence), 1e-6)
	assert.Equal(t, 1, cands[1].class)
	assert.InDelta(t, 0.6, float64(cands[1].confidence), 1e-6)
}

func TestDecodeOutputTransposedObjectness(t *testing.T) {
	// [1, n, attrs] layout with objectness at index 4: eight boxes of seven
	// attributes, only the first one confident.
	data := make([]float32, 8*7)
	copy(data, []float32{100, 200, 50, 80, 0.8, 0.1, 0.9})

	cands := decodeOutput(data, 8, 7, DefaultConfidence)
	require.Len(t, cands, 1)
	assert.Equal(t, 1, cands[0].class)
	// Class score is scaled by objectness.
	assert.InDelta(t, 0.72, float64(cands[0].confidence), 1e-6)
	assert.Equal(t, float32(100), cands[0].cx)
}

func TestDecodeOutputEmptyAndShort(t *testing.T) {
	assert.Nil(t, decodeOutput(nil, 6, 3, DefaultConfidence))
	assert.Nil(t, decodeOutput([]float32{1, 2}, 3, 1, DefaultConfidence))
}

func TestToPredictionNormalizes(t *testing.T) {
	p := toPrediction(candidate{class: 2, cx: 320, cy: 160, w: 64, h: 32, confidence: 0.5})
	assert.Equal(t, 2, p.Class)
	assert.InDelta(t, 0.5, p.CX, 1e-9)
	assert.InDelta(t, 0.25, p.CY, 1e-9)
	assert.InDelta(t, 0.1, p.W, 1e-9)
	assert.InDelta(t, 0.05, p.H, 1e-9)
	assert.InDelta(t, 0.5, p.Confidence, 1e-9)
}

func TestTaskPollAndWait(t *testing.T) {
	release := make(chan struct{})
	task := Run(func() ([]Prediction, error) {
		<-release
		return []Prediction{{Confidence: 0.9}}, nil
	})

	_, ok, _ := task.Poll()
	assert.False(t, ok, "task still running")

	close(release)
	preds, err := task.Wait()
	require.NoError(t, err)
	require.Len(t, preds, 1)

	preds, ok, err = task.Poll()
	assert.True(t, ok)
	require.NoError(t, err)
	assert.Len(t, preds, 1)
}

func TestTaskError(t *testing.T) {
	task := Run(func() ([]Prediction, error) {
		return nil, errors.New("boom")
	})
	_, err := task.Wait()
	assert.EqualError(t, err, "boom")
}

func newTestManager(t *testing.T, models ...string) (*ModelManager, *settings.Settings) {
	t.Helper()
	dir := t.TempDir()
	for _, m := range models {
		require.NoError(t, os.WriteFile(filepath.Join(dir, m), []byte("weights"), 0o644))
	}
	s := settings.LoadFrom(filepath.Join(t.TempDir(), "settings.json"))
	return NewModelManager(dir, s), s
}

func TestModelManagerAvailable(t *testing.T) {
	m, _ := newTestManager(t, "b.onnx", "a.onnx", "notes.txt")
	assert.Equal(t, []string{"a.onnx", "b.onnx"}, m.Available())
}

func TestModelManagerSelectedFallsBack(t *testing.T) {
	m, s := newTestManager(t, "a.onnx", "b.onnx")
	s.SelectedModel = "gone.onnx"

	assert.Equal(t, "a.onnx", m.Selected())
	assert.Equal(t, "a.onnx", s.SelectedModel, "fallback is persisted")

	require.NoError(t, m.Select("b.onnx"))
	assert.Equal(t, "b.onnx", m.Selected())
	assert.Equal(t, m.Path("b.onnx"), m.SelectedPath())
}

func TestModelManagerSelectMissing(t *testing.T) {
	m, _ := newTestManager(t, "a.onnx")
	assert.Error(t, m.Select("nope.onnx"))
}

func TestModelManagerEmptyDir(t *testing.T) {
	m, _ := newTestManager(t)
	assert.Empty(t, m.Available())
	assert.Equal(t, "", m.Selected())
	assert.Equal(t, "", m.SelectedPath())
}

func TestModelInfo(t *testing.T) {
	m, _ := newTestManager(t, "a.onnx")
	info, err := m.Info("a.onnx")
	require.NoError(t, err)
	assert.Equal(t, "a.onnx", info.Name)
	assert.Greater(t, info.SizeMB, 0.0)
}
