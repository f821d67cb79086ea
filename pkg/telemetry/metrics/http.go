package metrics

import (
	"strconv"
	"time"

	"mercator-hq/jobscan/pkg/config"

	"github.com/prometheus/client_golang/prometheus"
)

// HTTPMetrics tracks API requests.
//
// Metrics:
//   - jobscan_http_requests_total: requests by method, path and status
//   - jobscan_http_request_duration_seconds: request duration
type HTTPMetrics struct {
	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
}

// NewHTTPMetrics creates and registers HTTP metrics with the provided registry.
func NewHTTPMetrics(cfg *config.MetricsConfig, registry *prometheus.Registry) *HTTPMetrics {
	hm := &HTTPMetrics{
		requestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: "http",
				Name:      "requests_total",
				Help:      "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),

		requestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: cfg.Namespace,
				Subsystem: "http",
				Name:      "request_duration_seconds",
				Help:      "Duration of HTTP requests in seconds",
				Buckets:   cfg.DurationBuckets,
			},
			[]string{"method", "path"},
		),
	}

	registry.MustRegister(hm.requestsTotal, hm.requestDuration)

	return hm
}

// Record records one HTTP request.
func (hm *HTTPMetrics) Record(method, path string, status int, duration time.Duration) {
	hm.requestsTotal.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	hm.requestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}
