package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"mercator-hq/jobscan/pkg/analysis/recorder"
	"mercator-hq/jobscan/pkg/api"
	"mercator-hq/jobscan/pkg/rules"
	"mercator-hq/jobscan/pkg/telemetry/logging"
	"mercator-hq/jobscan/pkg/telemetry/metrics"
	"mercator-hq/jobscan/pkg/telemetry/tracing"
)

// Request validation messages for POST /analyze-job.
const (
	MsgInvalidJSON        = "Invalid JSON body"
	MsgMissingDescription = "Missing 'job_description' in request body"
	MsgEmptyDescription   = "'job_description' must be a non-empty string"
)

// fieldJobDescription is the request body field holding the posting text.
const fieldJobDescription = "job_description"

// AnalyzeResponse is the body of a successful POST /analyze-job.
type AnalyzeResponse struct {
	RiskScore int      `json:"risk_score"`
	RiskLevel string   `json:"risk_level"`
	Reasons   []string `json:"reasons"`
	Persisted bool     `json:"persisted"`
	ID        *int64   `json:"id,omitempty"`
}

// AnalyzeHandler scores job postings and records the results.
type AnalyzeHandler struct {
	engine       *rules.Engine
	recorder     *recorder.Recorder
	maxBodyBytes int64
	metrics      *metrics.Collector
	tracer       *tracing.Tracer
}

// AnalyzeOption configures an AnalyzeHandler.
type AnalyzeOption func(*AnalyzeHandler)

// WithMetrics records analysis metrics on c.
func WithMetrics(c *metrics.Collector) AnalyzeOption {
	return func(h *AnalyzeHandler) { h.metrics = c }
}

// WithTracer wraps each engine run in an analysis.analyze span.
func WithTracer(t *tracing.Tracer) AnalyzeOption {
	return func(h *AnalyzeHandler) { h.tracer = t }
}

// NewAnalyzeHandler creates the POST /analyze-job handler. A nil recorder
// disables persistence; maxBodyBytes of 0 leaves the body size unbounded.
func NewAnalyzeHandler(engine *rules.Engine, rec *recorder.Recorder, maxBodyBytes int64, opts ...AnalyzeOption) *AnalyzeHandler {
	if engine == nil {
		engine = rules.Default()
	}

	h := &AnalyzeHandler{
		engine:       engine,
		recorder:     rec,
		maxBodyBytes: maxBodyBytes,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// ServeHTTP implements http.Handler.
func (h *AnalyzeHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodPost) {
		return
	}

	text, status, msg := h.readDescription(w, r)
	if status != 0 {
		api.WriteError(w, status, msg)
		return
	}

	ctx, span := h.tracer.Start(r.Context(), tracing.SpanAnalyze)
	start := time.Now()
	outcomes := h.engine.Evaluate(text)
	result := rules.Fold(outcomes)
	duration := time.Since(start)

	h.metrics.RecordAnalysis(result, outcomes, duration)
	tracing.SetAnalysisAttributes(span, len(text), outcomes, result)
	span.End()

	for _, fault := range rules.Faults(outcomes) {
		logger().WarnContext(ctx, "rule evaluation faulted",
			"rule", fault.Rule.Key,
			"error", fault.Err,
		)
	}

	resp := AnalyzeResponse{
		RiskScore: result.RiskScore,
		RiskLevel: result.RiskLevel.String(),
		Reasons:   result.Reasons,
	}

	if h.recorder.Enabled() {
		record, err := h.recorder.Record(r.Context(), logging.GetRequestID(r.Context()), text, result)
		if err == nil {
			resp.Persisted = true
			resp.ID = &record.ID
		}
	}

	logger().InfoContext(ctx, "job posting analyzed",
		"risk_score", result.RiskScore,
		"risk_level", result.RiskLevel,
		"text_length", len(text),
		"persisted", resp.Persisted,
	)

	api.WriteJSON(w, http.StatusOK, resp)
}

// readDescription extracts job_description from the request body. A non-zero
// status means the request is rejected with msg.
func (h *AnalyzeHandler) readDescription(w http.ResponseWriter, r *http.Request) (string, int, string) {
	body := io.Reader(r.Body)
	if h.maxBodyBytes > 0 {
		body = http.MaxBytesReader(w, r.Body, h.maxBodyBytes)
	}

	data, err := io.ReadAll(body)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return "", http.StatusRequestEntityTooLarge, api.MsgBodyTooLarge
		}
		return "", http.StatusBadRequest, MsgInvalidJSON
	}

	var payload any
	if err := json.Unmarshal(data, &payload); err != nil {
		return "", http.StatusBadRequest, MsgInvalidJSON
	}

	fields, ok := payload.(map[string]any)
	if !ok || len(fields) == 0 {
		return "", http.StatusBadRequest, MsgMissingDescription
	}

	raw, ok := fields[fieldJobDescription]
	if !ok {
		return "", http.StatusBadRequest, MsgMissingDescription
	}

	text, ok := raw.(string)
	if !ok || strings.TrimSpace(text) == "" {
		return "", http.StatusBadRequest, MsgEmptyDescription
	}

	return text, 0, ""
}
