package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.IncrementMutation("create")
	m.IncrementMutation("create")
	m.ObserveOperation("create", time.Now())

	assert.InDelta(t, 2, testutil.ToFloat64(m.Mutations.WithLabelValues("create")), 0)
	assert.Equal(t, 1, testutil.CollectAndCount(m.OperationDuration))
}

func TestNilMetricsAreSafe(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.IncrementMutation("delete")
		m.ObserveOperation("delete", time.Now())
	})
}
