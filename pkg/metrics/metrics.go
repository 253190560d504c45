// Package metrics exposes prometheus instrumentation for notice rendering and
// dismissal handling.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	DismissRequests *prometheus.CounterVec
	NoticesRendered prometheus.Counter
	RenderDuration  prometheus.Histogram
}

// New registers the collectors with reg. A nil reg builds unregistered
// collectors, which suits tests and hosts without a metrics endpoint.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		DismissRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "notices_dismiss_requests_total",
			Help: "Total number of dismiss requests handled, by outcome",
		}, []string{"outcome"}),
		NoticesRendered: factory.NewCounter(prometheus.CounterOpts{
			Name: "notices_rendered_total",
			Help: "Total number of notices written to admin pages",
		}),
		RenderDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "notices_render_duration_seconds",
			Help:    "Duration of a full notice render pass",
			Buckets: []float64{0.0005, 0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25},
		}),
	}
}

func (m *Metrics) IncrementDismissOutcome(outcome string) {
	if m == nil {
		return
	}
	m.DismissRequests.WithLabelValues(outcome).Inc()
}

func (m *Metrics) AddRendered(count int) {
	if m == nil || count <= 0 {
		return
	}
	m.NoticesRendered.Add(float64(count))
}

func (m *Metrics) ObserveRender(start time.Time) {
	if m == nil {
		return
	}
	m.RenderDuration.Observe(time.Since(start).Seconds())
}
