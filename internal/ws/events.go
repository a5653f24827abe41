package ws

import (
	"time"
)

type EventType string

const (
	EventAlert   EventType = "alert.raised"
	EventScore   EventType = "score.updated"
	EventSession EventType = "session.changed"
)

type Event struct {
	Type      EventType   `json:"type"`
	Data      interface{} `json:"data"`
	Timestamp time.Time   `json:"timestamp"`
}
