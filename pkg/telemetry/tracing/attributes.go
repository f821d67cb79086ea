package tracing

import (
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"mercator-hq/jobscan/pkg/rules"
)

// Attribute keys use the "jobscan.*" namespace.
const (
	AttrRequestID    = "jobscan.request_id"
	AttrRiskScore    = "jobscan.risk_score"
	AttrRiskLevel    = "jobscan.risk_level"
	AttrMatchedRules = "jobscan.matched_rules"
	AttrFaultedRules = "jobscan.faulted_rules"
	AttrTextLength   = "jobscan.text_length"
	AttrRecordID     = "jobscan.record_id"
	AttrBackend      = "db.system"
	AttrPruned       = "jobscan.pruned"
)

// SetAnalysisAttributes records an engine run on span.
func SetAnalysisAttributes(span trace.Span, textLen int, outcomes []rules.RuleOutcome, result rules.Result) {
	var matched, faulted []string
	for _, o := range outcomes {
		switch o.Outcome {
		case rules.Matched:
			matched = append(matched, o.Rule.Key)
		case rules.Faulted:
			faulted = append(faulted, o.Rule.Key)
		}
	}

	attrs := []attribute.KeyValue{
		attribute.Int(AttrTextLength, textLen),
		attribute.Int(AttrRiskScore, result.RiskScore),
		attribute.String(AttrRiskLevel, result.RiskLevel.String()),
		attribute.StringSlice(AttrMatchedRules, matched),
	}
	if len(faulted) > 0 {
		attrs = append(attrs, attribute.StringSlice(AttrFaultedRules, faulted))
	}
	span.SetAttributes(attrs...)
}
