package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the check-in engine.
type Metrics struct {
	Granted      prometheus.Counter
	Denied       *prometheus.CounterVec
	ScanDuration prometheus.Histogram
}

// New creates a new Metrics instance with all check-in metrics registered.
func New() *Metrics {
	return &Metrics{
		Granted: promauto.NewCounter(prometheus.CounterOpts{
			Name: "gatecheck_checkins_granted_total",
			Help: "Total number of granted check-ins",
		}),
		Denied: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "gatecheck_checkins_denied_total",
			Help: "Total number of denied check-ins by reason",
		}, []string{"reason"}),
		ScanDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "gatecheck_checkin_scan_duration_seconds",
			Help:    "Duration of check-in scans (resolve plus mutation)",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		}),
	}
}

// IncrementGranted records a granted check-in.
func (m *Metrics) IncrementGranted() {
	m.Granted.Inc()
}

// IncrementDenied records a denied check-in with its reason.
func (m *Metrics) IncrementDenied(reason string) {
	m.Denied.WithLabelValues(reason).Inc()
}

// ObserveScan records the duration of one scan.
// Call with time.Now() at the start of the operation.
func (m *Metrics) ObserveScan(start time.Time) {
	m.ScanDuration.Observe(time.Since(start).Seconds())
}
