package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the aggregation service.
type Metrics struct {
	SnapshotDuration  prometheus.Histogram
	PartitionFailures prometheus.Counter
	TotalAttended     prometheus.Gauge
}

// New creates a new Metrics instance with all aggregation metrics registered.
func New() *Metrics {
	return &Metrics{
		SnapshotDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "gatecheck_snapshot_duration_seconds",
			Help:    "Duration of full aggregate snapshot computations",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}),
		PartitionFailures: promauto.NewCounter(prometheus.CounterOpts{
			Name: "gatecheck_snapshot_partition_failures_total",
			Help: "Total partition fetches that failed during snapshot computation",
		}),
		TotalAttended: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "gatecheck_attended_total",
			Help: "Attended count from the most recent snapshot",
		}),
	}
}

// ObserveSnapshot records the duration of one snapshot computation.
// Call with time.Now() at the start of the operation.
func (m *Metrics) ObserveSnapshot(start time.Time) {
	m.SnapshotDuration.Observe(time.Since(start).Seconds())
}

// IncrementPartitionFailure records one degraded partition fetch.
func (m *Metrics) IncrementPartitionFailure() {
	m.PartitionFailures.Inc()
}

// SetTotalAttended publishes the latest snapshot total.
func (m *Metrics) SetTotalAttended(total int) {
	m.TotalAttended.Set(float64(total))
}
