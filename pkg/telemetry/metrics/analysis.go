package metrics

import (
	"time"

	"mercator-hq/jobscan/pkg/config"
	"mercator-hq/jobscan/pkg/rules"

	"github.com/prometheus/client_golang/prometheus"
)

// AnalysisMetrics tracks the scam-risk engine.
//
// Metrics:
//   - jobscan_analysis_total: verdicts by risk level
//   - jobscan_analysis_rule_hits_total: matches per rule
//   - jobscan_analysis_rule_faults_total: rules that failed to evaluate
//   - jobscan_analysis_score: distribution of risk scores
//   - jobscan_analysis_duration_seconds: engine evaluation time
type AnalysisMetrics struct {
	total       *prometheus.CounterVec
	ruleHits    *prometheus.CounterVec
	ruleFaults  *prometheus.CounterVec
	score       prometheus.Histogram
	evalSeconds prometheus.Histogram
}

// NewAnalysisMetrics creates and registers analysis metrics with the provided registry.
func NewAnalysisMetrics(cfg *config.MetricsConfig, registry *prometheus.Registry) *AnalysisMetrics {
	am := &AnalysisMetrics{
		total: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: "analysis",
				Name:      "total",
				Help:      "Total number of job postings analyzed",
			},
			[]string{"risk_level"},
		),

		ruleHits: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: "analysis",
				Name:      "rule_hits_total",
				Help:      "Number of times a scam rule matched",
			},
			[]string{"rule"},
		),

		ruleFaults: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: "analysis",
				Name:      "rule_faults_total",
				Help:      "Number of times a scam rule failed to evaluate",
			},
			[]string{"rule"},
		),

		score: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: cfg.Namespace,
				Subsystem: "analysis",
				Name:      "score",
				Help:      "Distribution of risk scores",
				// Level boundaries fall on 30 and 60
				Buckets: []float64{0, 10, 20, 30, 40, 50, 60, 70, 80, 90, 100},
			},
		),

		evalSeconds: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: cfg.Namespace,
				Subsystem: "analysis",
				Name:      "duration_seconds",
				Help:      "Duration of rule evaluation in seconds",
				Buckets:   cfg.DurationBuckets,
			},
		),
	}

	registry.MustRegister(
		am.total,
		am.ruleHits,
		am.ruleFaults,
		am.score,
		am.evalSeconds,
	)

	return am
}

// RecordResult records a verdict.
func (am *AnalysisMetrics) RecordResult(result rules.Result, duration time.Duration) {
	am.total.WithLabelValues(result.RiskLevel.String()).Inc()
	am.score.Observe(float64(result.RiskScore))
	am.evalSeconds.Observe(duration.Seconds())
}

// RecordHit records a rule match.
func (am *AnalysisMetrics) RecordHit(rule string) {
	am.ruleHits.WithLabelValues(rule).Inc()
}

// RecordFault records a rule that could not be evaluated.
func (am *AnalysisMetrics) RecordFault(rule string) {
	am.ruleFaults.WithLabelValues(rule).Inc()
}
