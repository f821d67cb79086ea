package middleware

import (
	"net/http"
	"time"

	"mercator-hq/jobscan/pkg/telemetry/metrics"
)

// Metrics records request count and latency on collector. A nil collector
// disables the middleware.
func Metrics(collector *metrics.Collector) Middleware {
	return func(next http.Handler) http.Handler {
		if collector == nil {
			return next
		}

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rw := newResponseWriter(w)

			next.ServeHTTP(rw, r)

			collector.RecordHTTPRequest(r.Method, r.URL.Path, rw.statusCode, time.Since(start))
		})
	}
}
