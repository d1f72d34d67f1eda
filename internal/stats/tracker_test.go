package stats

import (
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/stretchr/testify/assert"
)

func TestRateNeedsTwoAnnotations(t *testing.T) {
	mock := clock.NewMock()
	tr := NewTrackerWithClock(mock)

	rate, total := tr.Rate()
	assert.Zero(t, rate)
	assert.Zero(t, total)

	tr.Record(1)
	rate, total = tr.Rate()
	assert.Zero(t, rate)
	assert.Equal(t, 1, total)
}

func TestRateOverWindow(t *testing.T) {
	mock := clock.NewMock()
	tr := NewTrackerWithClock(mock)

	tr.Record(1)
	mock.Add(10 * time.Second)
	tr.Record(1)
	mock.Add(10 * time.Second)

	// Two annotations, the first 20s ago: 2/20 = 0.1 images/sec.
	rate, total := tr.Rate()
	assert.InDelta(t, 0.1, rate, 1e-9)
	assert.Equal(t, 2, total)
}

func TestOldAnnotationsAgeOut(t *testing.T) {
	mock := clock.NewMock()
	tr := NewTrackerWithClock(mock)

	tr.Record(2)
	mock.Add(2 * time.Minute)

	rate, total := tr.Rate()
	assert.Zero(t, rate, "annotations older than the window do not count")
	assert.Equal(t, 2, total, "session total never ages out")
}

func TestRecentQueueBounded(t *testing.T) {
	mock := clock.NewMock()
	tr := NewTrackerWithClock(mock)

	for i := 0; i < 30; i++ {
		tr.Record(1)
		mock.Add(time.Second)
	}
	assert.LessOrEqual(t, len(tr.recent), recentCap)
	assert.Equal(t, 30, tr.Total())
}

func TestBatchStagger(t *testing.T) {
	mock := clock.NewMock()
	tr := NewTrackerWithClock(mock)

	tr.Record(5)
	mock.Add(10 * time.Second)

	rate, _ := tr.Rate()
	assert.Greater(t, rate, 0.0)
}

func TestReset(t *testing.T) {
	mock := clock.NewMock()
	tr := NewTrackerWithClock(mock)

	tr.Record(3)
	tr.Reset()

	rate, total := tr.Rate()
	assert.Zero(t, rate)
	assert.Zero(t, total)
}

func TestTickInvokesCallback(t *testing.T) {
	mock := clock.NewMock()
	tr := NewTrackerWithClock(mock)

	got := make(chan int, 10)
	stop := make(chan struct{})
	done := make(chan struct{})
	go func() {
		tr.Tick(stop, func(rate float64, total int) { got <- total })
		close(done)
	}()

	tr.Record(2)
	// Let the goroutine reach the ticker before advancing time.
	time.Sleep(10 * time.Millisecond)
	mock.Add(time.Second)

	select {
	case total := <-got:
		assert.Equal(t, 2, total)
	case <-time.After(time.Second):
		t.Fatal("tick callback never fired")
	}

	close(stop)
	<-done
}
