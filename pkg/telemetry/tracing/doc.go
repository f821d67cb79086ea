// Package tracing provides OpenTelemetry tracing for jobscan.
//
// Spans are exported over OTLP gRPC when telemetry.tracing.enabled is set.
// Otherwise a noop tracer is used and span creation costs next to nothing.
//
// # Spans
//
//   - http.request: one per API request, started by the HTTP middleware
//   - analysis.analyze: rule evaluation of one posting
//   - analysis.store: the storage write of one result
//   - retention.prune: one retention run
//
// # Trace Context Propagation
//
// Incoming W3C traceparent headers are honored, so a browser or gateway that
// starts a trace sees the jobscan spans as children.
//
// # Usage
//
//	tracer, err := tracing.New(&cfg.Telemetry.Tracing)
//	if err != nil {
//	    return err
//	}
//	defer tracer.Shutdown(context.Background())
//
//	ctx, span := tracer.Start(ctx, tracing.SpanAnalyze)
//	defer span.End()
//
// A nil *Tracer is valid and behaves like a disabled one.
package tracing
