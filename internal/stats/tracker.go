// Package stats tracks annotation throughput over a rolling window.
package stats

import (
	"sync"
	"time"

	"github.com/benbjohnson/clock"
)

const (
	// recentCap bounds the timestamp queue to the most recent annotations.
	recentCap = 20

	// window is the rolling span used for the rate computation.
	window = 60 * time.Second

	// batchStagger spreads a multi-image batch across distinct timestamps so
	// the rate reflects per-image throughput.
	batchStagger = time.Millisecond
)

// Tracker records annotation events and computes images-per-second over the
// recent window. Safe for use from UI callbacks and the refresh ticker.
type Tracker struct {
	clock clock.Clock

	mu     sync.Mutex
	recent []time.Time
	total  int
	start  time.Time
}

// NewTracker creates a tracker on the real clock.
func NewTracker() *Tracker {
	return NewTrackerWithClock(clock.New())
}

// NewTrackerWithClock creates a tracker on an injected clock, used by tests.
func NewTrackerWithClock(c clock.Clock) *Tracker {
	return &Tracker{clock: c, start: c.Now()}
}

// Record logs count annotated images at the current time.
func (t *Tracker) Record(count int) {
	if count <= 0 {
		return
	}
	now := t.clock.Now()

	t.mu.Lock()
	defer t.mu.Unlock()
	for i := 0; i < count; i++ {
		t.recent = append(t.recent, now.Add(time.Duration(i)*batchStagger))
	}
	if len(t.recent) > recentCap {
		t.recent = t.recent[len(t.recent)-recentCap:]
	}
	t.total += count
}

// Rate returns the current speed in images per second, computed over the
// annotations inside the rolling window, plus the session total. Fewer than
// two recent annotations yield a zero rate.
func (t *Tracker) Rate() (float64, int) {
	now := t.clock.Now()

	t.mu.Lock()
	defer t.mu.Unlock()

	cutoff := now.Add(-window)
	firstIdx := -1
	n := 0
	for i, ts := range t.recent {
		if ts.Before(cutoff) {
			continue
		}
		if firstIdx < 0 {
			firstIdx = i
		}
		n++
	}
	if n < 2 {
		return 0, t.total
	}
	span := now.Sub(t.recent[firstIdx]).Seconds()
	if span <= 0 {
		return 0, t.total
	}
	return float64(n) / span, t.total
}

// Total returns the session annotation count.
func (t *Tracker) Total() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.total
}

// Reset clears all statistics and restarts the session.
func (t *Tracker) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.recent = nil
	t.total = 0
	t.start = t.clock.Now()
}

// Tick runs fn once per second with the current rate until stop is closed.
// The UI uses this to refresh the speed display.
func (t *Tracker) Tick(stop <-chan struct{}, fn func(rate float64, total int)) {
	ticker := t.clock.Ticker(time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			rate, total := t.Rate()
			fn(rate, total)
		}
	}
}
