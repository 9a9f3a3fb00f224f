package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all application metrics
type Metrics struct {
	// HTTP metrics
	HTTPRequests *prometheus.CounterVec
	HTTPLatency  *prometheus.HistogramVec

	// Store metrics
	StoreOperations *prometheus.CounterVec
	StoreLatency    *prometheus.HistogramVec
	BatchSize       prometheus.Histogram

	// Cascade metrics
	CascadeDeletes        *prometheus.CounterVec
	CascadeRecordsRemoved *prometheus.CounterVec

	// Reconciliation metrics
	ReconciliationQueued    prometheus.Counter
	ReconciliationProcessed prometheus.Counter
	ReconciliationFailed    prometheus.Counter
	ReconciliationPending   prometheus.Gauge
}

// NewMetrics creates and registers all application metrics
func NewMetrics(namespace, subsystem string) *Metrics {
	return &Metrics{
		HTTPRequests: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		}, []string{"method", "path", "status"}),
		HTTPLatency: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "http_request_duration_seconds",
			Help:      "Duration of HTTP requests",
			Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
		}, []string{"method", "path"}),

		StoreOperations: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "store_operations_total",
			Help:      "Total number of document store operations",
		}, []string{"operation", "collection", "status"}),
		StoreLatency: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "store_operation_duration_seconds",
			Help:      "Duration of document store operations",
			Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
		}, []string{"operation", "collection"}),
		BatchSize: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "store_batch_size",
			Help:      "Number of operations per committed batch",
			Buckets:   []float64{1, 5, 10, 25, 50, 100, 250, 500},
		}),

		CascadeDeletes: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "cascade_deletes_total",
			Help:      "Total number of cascade delete operations",
		}, []string{"entity", "status"}),
		CascadeRecordsRemoved: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "cascade_records_removed_total",
			Help:      "Total number of records removed by cascades",
		}, []string{"collection"}),

		ReconciliationQueued: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "reconciliation_tasks_queued_total",
			Help:      "Total number of reconciliation tasks enqueued",
		}),
		ReconciliationProcessed: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "reconciliation_tasks_processed_total",
			Help:      "Total number of successfully processed reconciliation tasks",
		}),
		ReconciliationFailed: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "reconciliation_tasks_failed_total",
			Help:      "Total number of failed reconciliation tasks",
		}),
		ReconciliationPending: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "reconciliation_tasks_pending",
			Help:      "Current number of pending reconciliation tasks",
		}),
	}
}
