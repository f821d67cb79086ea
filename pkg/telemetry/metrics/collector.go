package metrics

import (
	"sync"
	"time"

	"mercator-hq/jobscan/pkg/config"
	"mercator-hq/jobscan/pkg/rules"

	"github.com/prometheus/client_golang/prometheus"
)

// Collector owns the Prometheus registry and every jobscan metric.
type Collector struct {
	config   *config.MetricsConfig
	registry *prometheus.Registry

	analysisMetrics  *AnalysisMetrics
	storageMetrics   *StorageMetrics
	httpMetrics      *HTTPMetrics
	retentionMetrics *RetentionMetrics

	// Cardinality tracking for HTTP path labels
	cardinalityLimiter *CardinalityLimiter
}

// maxPathLabels bounds the distinct path label values.
const maxPathLabels = 64

// NewCollector creates a new metrics collector with the specified configuration
// and Prometheus registry. If registry is nil, a new registry is created.
func NewCollector(cfg *config.MetricsConfig, registry *prometheus.Registry) *Collector {
	if registry == nil {
		registry = prometheus.NewRegistry()
	}

	if cfg.Namespace == "" {
		cfg.Namespace = config.DefaultMetricsNamespace
	}
	if len(cfg.DurationBuckets) == 0 {
		cfg.DurationBuckets = append([]float64(nil), config.DefaultDurationBuckets...)
	}

	c := &Collector{
		config:             cfg,
		registry:           registry,
		cardinalityLimiter: NewCardinalityLimiter(maxPathLabels),
	}

	c.analysisMetrics = NewAnalysisMetrics(cfg, registry)
	c.storageMetrics = NewStorageMetrics(cfg, registry)
	c.httpMetrics = NewHTTPMetrics(cfg, registry)
	c.retentionMetrics = NewRetentionMetrics(cfg, registry)

	return c
}

// Enabled reports whether metrics are collected.
func (c *Collector) Enabled() bool {
	return c != nil && c.config.Enabled
}

// RecordAnalysis records one engine run: the verdict, which rules matched
// or faulted, and how long evaluation took.
func (c *Collector) RecordAnalysis(result rules.Result, outcomes []rules.RuleOutcome, duration time.Duration) {
	if !c.Enabled() {
		return
	}

	c.analysisMetrics.RecordResult(result, duration)
	for _, o := range outcomes {
		switch o.Outcome {
		case rules.Matched:
			c.analysisMetrics.RecordHit(o.Rule.Key)
		case rules.Faulted:
			c.analysisMetrics.RecordFault(o.Rule.Key)
		}
	}
}

// RecordStorageOperation records a storage call. A nil err counts as
// "success".
func (c *Collector) RecordStorageOperation(operation string, duration time.Duration, err error) {
	if !c.Enabled() {
		return
	}

	status := "success"
	if err != nil {
		status = "error"
	}
	c.storageMetrics.Record(operation, status, duration)
}

// RecordHTTPRequest records a completed HTTP request. path should be the
// matched route, not the raw URL.
func (c *Collector) RecordHTTPRequest(method, path string, status int, duration time.Duration) {
	if !c.Enabled() {
		return
	}

	if !c.cardinalityLimiter.Allow(path) {
		path = "other"
	}
	c.httpMetrics.Record(method, path, status, duration)
}

// RecordPruned records records removed by a retention run.
func (c *Collector) RecordPruned(deleted int64) {
	if !c.Enabled() {
		return
	}
	c.retentionMetrics.RecordRun(deleted)
}

// Registry returns the Prometheus registry used by this collector.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// CardinalityLimiter prevents metric cardinality explosion by limiting
// the number of unique label values.
type CardinalityLimiter struct {
	maxCardinality int
	current        map[string]struct{}
	mu             sync.RWMutex
}

// NewCardinalityLimiter creates a new cardinality limiter with the specified
// maximum cardinality.
func NewCardinalityLimiter(maxCardinality int) *CardinalityLimiter {
	return &CardinalityLimiter{
		maxCardinality: maxCardinality,
		current:        make(map[string]struct{}),
	}
}

// Allow reports whether label may be used: it is already known or the limit
// has not been reached yet.
func (cl *CardinalityLimiter) Allow(label string) bool {
	cl.mu.RLock()
	if _, exists := cl.current[label]; exists {
		cl.mu.RUnlock()
		return true
	}
	cl.mu.RUnlock()

	cl.mu.Lock()
	defer cl.mu.Unlock()

	// Double-check after acquiring write lock
	if _, exists := cl.current[label]; exists {
		return true
	}

	if len(cl.current) >= cl.maxCardinality {
		return false
	}

	cl.current[label] = struct{}{}
	return true
}

// Count returns the current cardinality.
func (cl *CardinalityLimiter) Count() int {
	cl.mu.RLock()
	defer cl.mu.RUnlock()
	return len(cl.current)
}
