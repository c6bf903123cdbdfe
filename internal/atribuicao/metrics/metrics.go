package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the atribuição module.
type Metrics struct {
	Mutations         *prometheus.CounterVec
	SituacaoChanges   *prometheus.CounterVec
	OperationDuration *prometheus.HistogramVec
}

func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		Mutations: f.NewCounterVec(prometheus.CounterOpts{
			Name: "escriba_atribuicao_mutations_total",
			Help: "Committed atribuição mutations by operation",
		}, []string{"operation"}),
		SituacaoChanges: f.NewCounterVec(prometheus.CounterOpts{
			Name: "escriba_atribuicao_situacao_changes_total",
			Help: "Atribuição activations and deactivations",
		}, []string{"active"}),
		OperationDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "escriba_atribuicao_operation_duration_seconds",
			Help:    "Duration of atribuição service operations",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}, []string{"operation"}),
	}
}

func (m *Metrics) IncrementMutation(operation string) {
	if m == nil {
		return
	}
	m.Mutations.WithLabelValues(operation).Inc()
}

// IncrementSituacaoChange records an activation (true) or deactivation.
func (m *Metrics) IncrementSituacaoChange(active bool) {
	if m == nil {
		return
	}
	label := "false"
	if active {
		label = "true"
	}
	m.SituacaoChanges.WithLabelValues(label).Inc()
}

// ObserveOperation records the duration of an operation.
// Call with time.Now() at the start of the operation.
func (m *Metrics) ObserveOperation(operation string, start time.Time) {
	if m == nil {
		return
	}
	m.OperationDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
}
