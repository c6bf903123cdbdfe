package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the cartório module.
type Metrics struct {
	Mutations         *prometheus.CounterVec
	LinkChanges       *prometheus.CounterVec
	OperationDuration *prometheus.HistogramVec
}

func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		Mutations: f.NewCounterVec(prometheus.CounterOpts{
			Name: "escriba_cartorio_mutations_total",
			Help: "Committed cartório mutations by operation",
		}, []string{"operation"}),
		LinkChanges: f.NewCounterVec(prometheus.CounterOpts{
			Name: "escriba_cartorio_atribuicao_links_total",
			Help: "Atribuição links added to or removed from cartórios",
		}, []string{"change"}),
		OperationDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "escriba_cartorio_operation_duration_seconds",
			Help:    "Duration of cartório service operations",
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

// IncrementLinkChange records an atribuição link change; change is "added"
// or "removed".
func (m *Metrics) IncrementLinkChange(change string) {
	if m == nil {
		return
	}
	m.LinkChanges.WithLabelValues(change).Inc()
}

// ObserveOperation records the duration of an operation.
// Call with time.Now() at the start of the operation.
func (m *Metrics) ObserveOperation(operation string, start time.Time) {
	if m == nil {
		return
	}
	m.OperationDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
}
