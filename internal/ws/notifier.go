package ws

import (
	"github.com/proctorly/invigil/internal/domain"
)

// Notifier adapts the hub to the engine's observer interface so alert and
// score changes reach the dashboard as they happen.
type Notifier struct {
	hub *Hub
}

func NewNotifier(hub *Hub) *Notifier {
	return &Notifier{hub: hub}
}

func (n *Notifier) EventSubmitted(_ domain.EventKind, _ domain.SubmitResult) {
	// Only accepted events matter to the dashboard and those arrive as
	// alert and score updates.
}

func (n *Notifier) AlertRaised(alert domain.Alert) {
	n.hub.Broadcast(EventAlert, alert)
}

func (n *Notifier) ScoreUpdated(score float64) {
	n.hub.Broadcast(EventScore, map[string]float64{"score": score})
}

// SessionChanged pushes a session state transition to the dashboard.
func (n *Notifier) SessionChanged(session domain.ExamSession) {
	n.hub.Broadcast(EventSession, session)
}
