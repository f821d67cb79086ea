// Package metrics provides Prometheus metrics collection for jobscan.
//
// # Metrics Categories
//
//   - Analysis Metrics: verdicts by risk level, rule hits and faults,
//     score distribution and engine duration
//   - Storage Metrics: storage operations by outcome and their duration
//   - HTTP Metrics: request count and duration by route and status
//   - Retention Metrics: records removed by the pruner
//
// # Usage
//
//	collector := metrics.NewCollector(&cfg.Telemetry.Metrics, nil)
//
//	outcomes := engine.Evaluate(text)
//	collector.RecordAnalysis(rules.Fold(outcomes), outcomes, time.Since(start))
//	collector.RecordStorageOperation("store", elapsed, err)
//
//	mux.Handle(cfg.Telemetry.Metrics.Path, collector.Handler())
//
// Every Record method is a no-op on a nil Collector or when metrics are
// disabled, so components take an optional *Collector.
//
// # Prometheus Endpoint
//
//	# HELP jobscan_analysis_total Total number of job postings analyzed
//	# TYPE jobscan_analysis_total counter
//	jobscan_analysis_total{risk_level="HIGH"} 12
//
// # Cardinality Management
//
// HTTP path labels are limited to registered routes. Unknown paths are
// reported as "other".
package metrics
