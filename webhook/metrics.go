package webhook

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	OutcomeAccepted     = "accepted"
	OutcomeRejected     = "rejected"
	OutcomeUnauthorized = "unauthorized"
	OutcomeFailed       = "failed"
)

type Metrics struct {
	events   *prometheus.CounterVec
	duration prometheus.Histogram
}

// NewMetrics registers the webhook collectors on registerer. A nil registerer
// leaves the collectors unregistered.
func NewMetrics(registerer prometheus.Registerer) *Metrics {
	factory := promauto.With(registerer)
	return &Metrics{
		events: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "soldo_webhook_events_total",
			Help: "Webhook deliveries by event type and outcome.",
		}, []string{"type", "outcome"}),
		duration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "soldo_webhook_verify_duration_seconds",
			Help:    "Duration of webhook verification.",
			Buckets: prometheus.DefBuckets,
		}),
	}
}

func (m *Metrics) observe(eventType string, outcome string, seconds float64) {
	if m == nil {
		return
	}
	if eventType == "" {
		eventType = "unknown"
	}
	m.events.WithLabelValues(eventType, outcome).Inc()
	m.duration.Observe(seconds)
}

// EventsCounter exposes the events counter for inspection.
func (m *Metrics) EventsCounter() *prometheus.CounterVec {
	return m.events
}
