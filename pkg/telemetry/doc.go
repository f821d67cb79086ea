// Package telemetry groups the observability packages used by jobscan.
//
// # Components
//
//   - logging: structured slog logging with request and trace correlation
//   - metrics: Prometheus collectors for analyses, storage, retention and HTTP
//   - tracing: OpenTelemetry spans exported over OTLP gRPC
//   - health: liveness, readiness and version endpoints
//
// # Usage
//
//	logger, _ := logging.New(logging.FromConfig(&cfg.Telemetry.Logging))
//	collector := metrics.NewCollector(&cfg.Telemetry.Metrics, prometheus.NewRegistry())
//	tracer, _ := tracing.New(&cfg.Telemetry.Tracing, version)
//	defer tracer.Shutdown(ctx)
//
//	checker := health.New(cfg.Telemetry.Health.CheckTimeout)
//	checker.RegisterCheck(health.CheckDatabase, store.Ping)
//
// Posting text never reaches the logs. Only its length and hash do.
package telemetry
