package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the customer orchestrator.
type Metrics struct {
	// Mutations by operation and outcome ("ok", "failed", "rejected")
	Mutations *prometheus.CounterVec

	// Full collection refetches by trigger and outcome
	Refetches *prometheus.CounterVec

	// Bulk CSV rows by result ("updated", "skipped", "failed")
	CSVRows *prometheus.CounterVec

	// LOG_HISTORY calls that failed and were queued for retry
	HistoryFailures prometheus.Counter

	// Customers currently held by the repository
	Customers prometheus.Gauge
}

// New registers the orchestrator metrics with reg. A nil reg leaves them
// unregistered, which is what tests use.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		Mutations: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "titling_customer_mutations_total",
			Help: "Total customer mutations by operation and outcome",
		}, []string{"operation", "outcome"}),

		Refetches: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "titling_customer_refetches_total",
			Help: "Total full customer list refetches by trigger and outcome",
		}, []string{"trigger", "outcome"}), // trigger: "refresh", "write_failure", "import"

		CSVRows: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "titling_customer_csv_rows_total",
			Help: "Total rows processed by the local CSV updater by result",
		}, []string{"result"}),

		HistoryFailures: factory.NewCounter(prometheus.CounterOpts{
			Name: "titling_customer_history_failures_total",
			Help: "Total change-log submissions that failed and were queued for retry",
		}),

		Customers: factory.NewGauge(prometheus.GaugeOpts{
			Name: "titling_customers",
			Help: "Number of customers held in memory",
		}),
	}
}

// IncrementMutation records the outcome of one orchestrator operation.
func (m *Metrics) IncrementMutation(operation, outcome string) {
	if m != nil {
		m.Mutations.WithLabelValues(operation, outcome).Inc()
	}
}

func (m *Metrics) IncrementRefetch(trigger, outcome string) {
	if m != nil {
		m.Refetches.WithLabelValues(trigger, outcome).Inc()
	}
}

func (m *Metrics) IncrementCSVRow(result string) {
	if m != nil {
		m.CSVRows.WithLabelValues(result).Inc()
	}
}

func (m *Metrics) IncrementHistoryFailure() {
	if m != nil {
		m.HistoryFailures.Inc()
	}
}

// SetCustomers records the repository size.
func (m *Metrics) SetCustomers(n int) {
	if m != nil {
		m.Customers.Set(float64(n))
	}
}
