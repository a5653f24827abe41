// Package metrics exposes engine activity as Prometheus collectors.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/proctorly/invigil/internal/domain"
)

// Collector implements engine.Observer and counts pipeline activity.
type Collector struct {
	registry *prometheus.Registry

	events *prometheus.CounterVec
	alerts *prometheus.CounterVec
	score  prometheus.Gauge
}

func NewCollector() *Collector {
	registry := prometheus.NewRegistry()

	c := &Collector{
		registry: registry,
		events: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "invigil",
			Name:      "events_total",
			Help:      "Detection events by kind and submission result.",
		}, []string{"kind", "result"}),
		alerts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "invigil",
			Name:      "alerts_total",
			Help:      "Alerts raised by severity.",
		}, []string{"severity"}),
		score: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "invigil",
			Name:      "suspicion_score",
			Help:      "Current suspicion score (0-100).",
		}),
	}

	registry.MustRegister(
		c.events,
		c.alerts,
		c.score,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return c
}

func (c *Collector) EventSubmitted(kind domain.EventKind, result domain.SubmitResult) {
	c.events.WithLabelValues(string(kind), string(result)).Inc()
}

func (c *Collector) AlertRaised(alert domain.Alert) {
	c.alerts.WithLabelValues(string(alert.Severity)).Inc()
}

func (c *Collector) ScoreUpdated(score float64) {
	c.score.Set(score)
}

// Handler serves the registry in the Prometheus exposition format.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}
