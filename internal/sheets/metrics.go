package sheets

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics instruments persistence API calls.
type Metrics struct {
	// Call latency by action and outcome category ("ok" on success)
	CallLatency *prometheus.HistogramVec
}

// NewMetrics registers the client metrics with reg. A nil reg leaves them
// unregistered.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	return &Metrics{
		CallLatency: promauto.With(reg).NewHistogramVec(prometheus.HistogramOpts{
			Name:    "titling_sheets_call_duration_seconds",
			Help:    "Duration of persistence API calls by action and outcome",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}, []string{"action", "outcome"}),
	}
}

// ObserveCall records one call.
func (m *Metrics) ObserveCall(action Action, outcome string, d time.Duration) {
	if m != nil {
		m.CallLatency.WithLabelValues(string(action), outcome).Observe(d.Seconds())
	}
}
