package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	Decisions *prometheus.CounterVec
	Degraded  prometheus.Gauge
}

func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		Decisions: f.NewCounterVec(prometheus.CounterOpts{
			Name: "escriba_ratelimit_decisions_total",
			Help: "Rate limit decisions by outcome (allowed, limited, error)",
		}, []string{"outcome"}),
		Degraded: f.NewGauge(prometheus.GaugeOpts{
			Name: "escriba_ratelimit_degraded",
			Help: "1 while the shared limiter is bypassed for the in-memory fallback",
		}),
	}
}

func (m *Metrics) IncrementDecision(outcome string) {
	if m == nil {
		return
	}
	m.Decisions.WithLabelValues(outcome).Inc()
}

func (m *Metrics) SetDegraded(degraded bool) {
	if m == nil {
		return
	}
	v := 0.0
	if degraded {
		v = 1
	}
	m.Degraded.Set(v)
}
