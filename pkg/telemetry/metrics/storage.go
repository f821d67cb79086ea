package metrics

import (
	"time"

	"mercator-hq/jobscan/pkg/config"

	"github.com/prometheus/client_golang/prometheus"
)

// StorageMetrics tracks calls into the analysis storage backend.
//
// Metrics:
//   - jobscan_storage_operations_total: operations by name and status
//   - jobscan_storage_operation_duration_seconds: operation duration
type StorageMetrics struct {
	operationsTotal   *prometheus.CounterVec
	operationDuration *prometheus.HistogramVec
}

// NewStorageMetrics creates and registers storage metrics with the provided registry.
func NewStorageMetrics(cfg *config.MetricsConfig, registry *prometheus.Registry) *StorageMetrics {
	sm := &StorageMetrics{
		operationsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: "storage",
				Name:      "operations_total",
				Help:      "Total number of storage operations",
			},
			[]string{"operation", "status"},
		),

		operationDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: cfg.Namespace,
				Subsystem: "storage",
				Name:      "operation_duration_seconds",
				Help:      "Duration of storage operations in seconds",
				Buckets:   cfg.DurationBuckets,
			},
			[]string{"operation"},
		),
	}

	registry.MustRegister(sm.operationsTotal, sm.operationDuration)

	return sm
}

// Record records one storage operation.
func (sm *StorageMetrics) Record(operation, status string, duration time.Duration) {
	sm.operationsTotal.WithLabelValues(operation, status).Inc()
	sm.operationDuration.WithLabelValues(operation).Observe(duration.Seconds())
}

// RetentionMetrics tracks the pruner.
//
// Metrics:
//   - jobscan_retention_pruned_total: records deleted
//   - jobscan_retention_runs_total: completed prune runs
type RetentionMetrics struct {
	prunedTotal prometheus.Counter
	runsTotal   prometheus.Counter
}

// NewRetentionMetrics creates and registers retention metrics with the provided registry.
func NewRetentionMetrics(cfg *config.MetricsConfig, registry *prometheus.Registry) *RetentionMetrics {
	rm := &RetentionMetrics{
		prunedTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: cfg.Namespace,
			Subsystem: "retention",
			Name:      "pruned_total",
			Help:      "Total number of analyses deleted by retention",
		}),
		runsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: cfg.Namespace,
			Subsystem: "retention",
			Name:      "runs_total",
			Help:      "Total number of completed retention runs",
		}),
	}

	registry.MustRegister(rm.prunedTotal, rm.runsTotal)

	return rm
}

// RecordRun records a completed prune run.
func (rm *RetentionMetrics) RecordRun(deleted int64) {
	rm.runsTotal.Inc()
	if deleted > 0 {
		rm.prunedTotal.Add(float64(deleted))
	}
}
