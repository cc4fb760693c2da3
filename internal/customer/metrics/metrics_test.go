package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestNilMetricsAreNoOps(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.IncrementMutation("update_details", "ok")
		m.IncrementRefetch("refresh", "ok")
		m.IncrementCSVRow("updated")
		m.IncrementHistoryFailure()
		m.SetCustomers(3)
	})
}

func TestCounters(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.IncrementMutation("update_details", "ok")
	m.IncrementMutation("update_details", "ok")
	m.IncrementCSVRow("skipped")
	m.IncrementHistoryFailure()
	m.SetCustomers(7)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.Mutations.WithLabelValues("update_details", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.CSVRows.WithLabelValues("skipped")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.HistoryFailures))
	assert.Equal(t, 7.0, testutil.ToFloat64(m.Customers))
}
