// Package metrics exposes the engine's Prometheus instruments.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/fx"
)

// Moderation counts review-workflow transitions by entity and target state.
type Moderation struct {
	Transitions *prometheus.CounterVec
}

func NewModeration(reg prometheus.Registerer) *Moderation {
	m := &Moderation{
		Transitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "goodenergy",
			Name:      "moderation_transitions_total",
			Help:      "Moderation state transitions applied.",
		}, []string{"entity", "to_status"}),
	}
	reg.MustRegister(m.Transitions)
	return m
}

// Observe records one applied transition.
func (m *Moderation) Observe(entity, toStatus string) {
	if m == nil || m.Transitions == nil {
		return
	}
	m.Transitions.WithLabelValues(entity, toStatus).Inc()
}

func NewRegistry() *prometheus.Registry {
	return prometheus.NewRegistry()
}

var Module = fx.Module("metrics",
	fx.Provide(
		NewRegistry,
		func(r *prometheus.Registry) prometheus.Registerer { return r },
		NewModeration,
	),
)
