package detect

// Task is a single in-flight inference run. Inference blocks for long
// enough to matter on the UI thread, so Predict runs on a goroutine and the
// UI polls the task from its event loop.
type Task struct {
	done  chan struct{}
	preds []Prediction
	err   error
}

// Run starts fn on a goroutine and returns a pollable task handle.
func Run(fn func() ([]Prediction, error)) *Task {
	t := &Task{done: make(chan struct{})}
	go func() {
		defer close(t.done)
		t.preds, t.err = fn()
	}()
	return t
}

// PredictAsync runs Predict in the background.
func (d *Detector) PredictAsync(imagePath string) *Task {
	return Run(func() ([]Prediction, error) {
		return d.Predict(imagePath)
	})
}

// Done returns a channel closed when the task finishes.
func (t *Task) Done() <-chan struct{} { return t.done }

// Poll returns the result if the task has finished.
func (t *Task) Poll() (preds []Prediction, ok bool, err error) {
	select {
	case <-t.done:
		return t.preds, true, t.err
	default:
		return nil, false, nil
	}
}

// Wait blocks until the task finishes and returns its result.
func (t *Task) Wait() ([]Prediction, error) {
	<-t.Done()
	return t.preds, t.err
}
