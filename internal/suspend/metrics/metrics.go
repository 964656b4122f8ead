package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the suspension engine.
type Metrics struct {
	Suspended prometheus.Counter
	Denied    *prometheus.CounterVec
}

// New creates a new Metrics instance with all suspension metrics registered.
func New() *Metrics {
	return &Metrics{
		Suspended: promauto.NewCounter(prometheus.CounterOpts{
			Name: "gatecheck_suspensions_total",
			Help: "Total number of passes suspended",
		}),
		Denied: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "gatecheck_suspensions_denied_total",
			Help: "Total number of denied suspension attempts by reason",
		}, []string{"reason"}),
	}
}

// IncrementSuspended records a successful suspension.
func (m *Metrics) IncrementSuspended() {
	m.Suspended.Inc()
}

// IncrementDenied records a denied suspension attempt with its reason.
func (m *Metrics) IncrementDenied(reason string) {
	m.Denied.WithLabelValues(reason).Inc()
}
