package domain

import (
	"time"
)

// EventKind identifies the sensor observation that produced a detection event.
// The set is closed: detectors classify raw signals into one of these kinds
// before the event reaches the engine.
type EventKind string

const (
	KindFaceMissing     EventKind = "face_missing"
	KindMultipleFaces   EventKind = "multiple_faces"
	KindHeadMovement    EventKind = "head_movement"
	KindBackgroundVoice EventKind = "background_voice"
	KindTabSwitch       EventKind = "tab_switch"
)

// Kinds lists every valid event kind.
var Kinds = []EventKind{
	KindFaceMissing,
	KindMultipleFaces,
	KindHeadMovement,
	KindBackgroundVoice,
	KindTabSwitch,
}

// Valid reports whether k is a known event kind.
func (k EventKind) Valid() bool {
	switch k {
	case KindFaceMissing, KindMultipleFaces, KindHeadMovement, KindBackgroundVoice, KindTabSwitch:
		return true
	}
	return false
}

// DetectionEvent is a single classified observation from a detector.
// Immutable once created; consumed exactly once by the engine.
type DetectionEvent struct {
	Kind       EventKind `json:"kind"`
	OccurredAt time.Time `json:"occurred_at"`
	Weight     float64   `json:"weight"`
}

// SubmitResult is the outcome of submitting a detection event.
type SubmitResult string

const (
	// SubmitAccepted means the event updated score, counters and alerts.
	SubmitAccepted SubmitResult = "accepted"
	// SubmitSuppressed means an event of the same kind was accepted within
	// its cooldown interval and this one was discarded.
	SubmitSuppressed SubmitResult = "suppressed"
	// SubmitRejected means the session was not running; the event was
	// dropped without touching any state.
	SubmitRejected SubmitResult = "rejected"
)
