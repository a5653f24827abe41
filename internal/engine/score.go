package engine

import (
	"time"
)

const (
	scoreMin = 0.0
	scoreMax = 100.0
)

// ScoreAggregator owns the suspicion score: a scalar in [0, 100] that every
// accepted event raises by its weight and that decays toward zero over time.
// It is not safe for concurrent use on its own; the monitor serializes all
// access under its pipeline lock.
type ScoreAggregator struct {
	score     float64
	decayRate float64 // points shed per second with no new events
}

func NewScoreAggregator(decayRate float64) *ScoreAggregator {
	if decayRate < 0 {
		decayRate = 0
	}
	return &ScoreAggregator{decayRate: decayRate}
}

// Apply adds an accepted event's weight to the score, clamped to [0, 100].
func (s *ScoreAggregator) Apply(weight float64) {
	s.score += weight
	if s.score > scoreMax {
		s.score = scoreMax
	}
	if s.score < scoreMin {
		s.score = scoreMin
	}
}

// Decay moves the score toward zero for the elapsed interval. Decay never
// pushes the score below zero and never raises it.
func (s *ScoreAggregator) Decay(dt time.Duration) {
	if dt <= 0 || s.decayRate == 0 {
		return
	}
	s.score -= s.decayRate * dt.Seconds()
	if s.score < scoreMin {
		s.score = scoreMin
	}
}

// Current returns the score as a plain snapshot.
func (s *ScoreAggregator) Current() float64 {
	return s.score
}

// Reset zeroes the score. Called when a fresh session starts.
func (s *ScoreAggregator) Reset() {
	s.score = scoreMin
}
