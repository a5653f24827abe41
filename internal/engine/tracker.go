package engine

import (
	"time"

	"github.com/proctorly/invigil/internal/domain"
)

type violationWindow struct {
	count       int
	windowStart time.Time
	lastSeen    time.Time
}

// ViolationTracker counts same-kind occurrences within a rolling window.
// Each kind's window resets independently: a gap longer than the window
// duration makes the next event start a fresh window with count 1.
// Guarded by the monitor's pipeline lock.
type ViolationTracker struct {
	window time.Duration
	kinds  map[domain.EventKind]*violationWindow
}

func NewViolationTracker(window time.Duration) *ViolationTracker {
	return &ViolationTracker{
		window: window,
		kinds:  make(map[domain.EventKind]*violationWindow),
	}
}

// RecordAndCount registers one occurrence of kind at now and returns the
// post-increment count for the current window. The returned count is the
// sole input driving escalation; the tracker itself never decides severity.
func (t *ViolationTracker) RecordAndCount(kind domain.EventKind, now time.Time) int {
	w, ok := t.kinds[kind]
	if !ok || now.Sub(w.lastSeen) > t.window {
		w = &violationWindow{count: 0, windowStart: now}
		t.kinds[kind] = w
	}
	w.count++
	w.lastSeen = now
	return w.count
}

// Count returns the in-window count for kind without recording anything.
// Returns 0 when the window has lapsed.
func (t *ViolationTracker) Count(kind domain.EventKind, now time.Time) int {
	w, ok := t.kinds[kind]
	if !ok || now.Sub(w.lastSeen) > t.window {
		return 0
	}
	return w.count
}

// Reset clears every kind's window. Called when a fresh session starts.
func (t *ViolationTracker) Reset() {
	t.kinds = make(map[domain.EventKind]*violationWindow)
}
