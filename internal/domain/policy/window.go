package policy

import (
	"sync"
	"time"
)

// Window tracks the end of the timed-block period. It is re-armed by each
// epoch event (a server wipe or equivalent external reset signal) and
// expires purely by clock advance; there is no timer, the Active predicate
// is polled on every evaluation.
//
// Epoch events arrive on their own goroutine (signal handler) while
// evaluations run on the console loop, so all state is mutex-guarded.
// The clock is injectable so tests can drive time explicitly.
type Window struct {
	mu       sync.Mutex
	blockEnd time.Time
	duration time.Duration
	now      func() time.Time
}

// NewWindow creates a Window with the given duration in hours, anchored to
// the last known epoch timestamp. Negative durations are clamped to zero,
// so a misconfigured value degrades to "no timed blocking" rather than an
// error. A nil clock defaults to time.Now.
func NewWindow(durationHours int, lastEpoch time.Time, now func() time.Time) *Window {
	if durationHours < 0 {
		durationHours = 0
	}
	if now == nil {
		now = time.Now
	}
	d := time.Duration(durationHours) * time.Hour
	return &Window{
		blockEnd: lastEpoch.Add(d),
		duration: d,
		now:      now,
	}
}

// Active reports whether the window is still open (now < blockEnd).
func (w *Window) Active() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.now().Before(w.blockEnd)
}

// Rearm restarts the window from now, unconditionally. An epoch event
// received while the window is already active restarts it rather than
// extending it; rapid repeated events are idempotent (last one wins).
func (w *Window) Rearm() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.blockEnd = w.now().Add(w.duration)
}

// SetDuration updates the configured duration without moving blockEnd.
// Used on configuration reload; the new duration takes effect at the next
// epoch event. Negative values clamp to zero.
func (w *Window) SetDuration(durationHours int) {
	if durationHours < 0 {
		durationHours = 0
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	w.duration = time.Duration(durationHours) * time.Hour
}

// Remaining returns the time left until the window expires, clamped at
// zero so display code never sees a negative value.
func (w *Window) Remaining() time.Duration {
	w.mu.Lock()
	defer w.mu.Unlock()
	r := w.blockEnd.Sub(w.now())
	if r < 0 {
		return 0
	}
	return r
}

// End returns the absolute end-of-block timestamp.
func (w *Window) End() time.Time {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.blockEnd
}
