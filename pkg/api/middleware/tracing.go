package middleware

import (
	"net/http"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"mercator-hq/jobscan/pkg/telemetry/logging"
	"mercator-hq/jobscan/pkg/telemetry/tracing"
)

// HTTP span attribute keys.
const (
	attrHTTPMethod = "http.request.method"
	attrURLPath    = "url.path"
	attrHTTPStatus = "http.response.status_code"
)

// Tracing starts a server span per request, continuing any trace carried in
// the W3C traceparent header.
func Tracing(tracer *tracing.Tracer) Middleware {
	return func(next http.Handler) http.Handler {
		if !tracer.Enabled() {
			return next
		}

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := tracing.Extract(r.Context(), r.Header)
			ctx, span := tracer.Start(ctx, tracing.SpanHTTPRequest,
				trace.WithSpanKind(trace.SpanKindServer),
				trace.WithAttributes(
					attribute.String(attrHTTPMethod, r.Method),
					attribute.String(attrURLPath, r.URL.Path),
				),
			)
			defer span.End()

			if id := logging.GetRequestID(ctx); id != "" {
				span.SetAttributes(attribute.String(tracing.AttrRequestID, id))
			}

			rw := newResponseWriter(w)
			next.ServeHTTP(rw, r.WithContext(ctx))

			span.SetAttributes(attribute.Int(attrHTTPStatus, rw.statusCode))
			if rw.statusCode >= 500 {
				span.SetStatus(codes.Error, http.StatusText(rw.statusCode))
			}
		})
	}
}
