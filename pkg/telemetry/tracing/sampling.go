package tracing

import (
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

// samplerFor maps a sample ratio to a sampler: 1 or more samples every
// trace, 0 or less samples none, anything between samples by trace ID.
//
// The sampler is wrapped in ParentBased so a sampled upstream trace stays
// sampled here.
func samplerFor(ratio float64) sdktrace.Sampler {
	var base sdktrace.Sampler
	switch {
	case ratio >= 1:
		base = sdktrace.AlwaysSample()
	case ratio <= 0:
		base = sdktrace.NeverSample()
	default:
		base = sdktrace.TraceIDRatioBased(ratio)
	}
	return sdktrace.ParentBased(base)
}
