package engine

import (
	"time"

	"github.com/proctorly/invigil/internal/domain"
)

// Rule holds the per-kind tuning for one detection event kind: how much it
// raises the suspicion score, the minimum spacing between accepted events,
// the severity tier before escalation, and the operator-facing message.
type Rule struct {
	Weight       float64
	Cooldown     time.Duration
	BaseSeverity domain.Severity
	Message      string
}

// DefaultRules returns the stock rule table. Values are configuration
// constants, not policy baked into the pipeline; callers may override any
// entry before constructing the monitor.
func DefaultRules() map[domain.EventKind]Rule {
	return map[domain.EventKind]Rule{
		domain.KindMultipleFaces: {
			Weight:       3,
			Cooldown:     3 * time.Second,
			BaseSeverity: domain.SeverityCritical,
			Message:      "Multiple faces detected",
		},
		domain.KindFaceMissing: {
			Weight:       2,
			Cooldown:     5 * time.Second,
			BaseSeverity: domain.SeverityWarning,
			Message:      "No face detected",
		},
		domain.KindHeadMovement: {
			Weight:       1,
			Cooldown:     2 * time.Second,
			BaseSeverity: domain.SeverityWarning,
			Message:      "Abnormal head movement",
		},
		domain.KindBackgroundVoice: {
			Weight:       1,
			Cooldown:     6 * time.Second,
			BaseSeverity: domain.SeverityWarning,
			Message:      "Background voice detected",
		},
		domain.KindTabSwitch: {
			Weight:       2,
			Cooldown:     10 * time.Second,
			BaseSeverity: domain.SeverityWarning,
			Message:      "User switched browser tab",
		},
	}
}
