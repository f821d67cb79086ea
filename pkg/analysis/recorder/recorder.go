package recorder

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"mercator-hq/jobscan/pkg/analysis"
	"mercator-hq/jobscan/pkg/config"
	"mercator-hq/jobscan/pkg/rules"
	"mercator-hq/jobscan/pkg/telemetry/logging"
	"mercator-hq/jobscan/pkg/telemetry/metrics"
	"mercator-hq/jobscan/pkg/telemetry/tracing"
)

// ErrDisabled is returned by Record when recording is turned off.
var ErrDisabled = errors.New("analysis recording disabled")

// Recorder writes analysis records to storage.
type Recorder struct {
	storage      analysis.Storage
	enabled      bool
	writeTimeout time.Duration

	metrics *metrics.Collector
	tracer  *tracing.Tracer
	logger  *slog.Logger
	now     func() time.Time
}

// Option configures a Recorder.
type Option func(*Recorder)

// WithMetrics records storage operation metrics on c.
func WithMetrics(c *metrics.Collector) Option {
	return func(r *Recorder) { r.metrics = c }
}

// WithTracer wraps each write in an analysis.store span.
func WithTracer(t *tracing.Tracer) Option {
	return func(r *Recorder) { r.tracer = t }
}

// WithClock overrides the timestamp source.
func WithClock(now func() time.Time) Option {
	return func(r *Recorder) { r.now = now }
}

// New creates a recorder. A nil cfg uses the configuration defaults.
func New(storage analysis.Storage, cfg *config.RecorderConfig, opts ...Option) *Recorder {
	if cfg == nil {
		cfg = &config.DefaultConfig().Recorder
	}

	r := &Recorder{
		storage:      storage,
		enabled:      cfg.Enabled && storage != nil,
		writeTimeout: cfg.WriteTimeout,
		logger:       slog.Default().With("component", "analysis.recorder"),
		now:          time.Now,
	}
	if r.writeTimeout <= 0 {
		r.writeTimeout = config.DefaultRecorderWriteTimeout
	}
	for _, opt := range opts {
		opt(r)
	}

	return r
}

// Enabled reports whether Record writes to storage.
func (r *Recorder) Enabled() bool {
	return r != nil && r.enabled
}

// Record builds a record for text and result and stores it. On success the
// returned record carries the ID assigned by storage.
func (r *Recorder) Record(ctx context.Context, requestID, text string, result rules.Result) (*analysis.Record, error) {
	if !r.Enabled() {
		return nil, ErrDisabled
	}

	record := r.buildRecord(requestID, text, result)

	ctx, span := r.tracer.Start(ctx, tracing.SpanStore)
	defer span.End()

	writeCtx, cancel := context.WithTimeout(ctx, r.writeTimeout)
	defer cancel()

	start := time.Now()
	err := r.storage.Store(writeCtx, record)
	duration := time.Since(start)

	r.metrics.RecordStorageOperation("store", duration, err)
	tracing.SetStatus(span, err)

	logger := logging.FromContext(ctx, r.logger)
	if err != nil {
		logger.Error("failed to store analysis",
			"error", err,
			"content_hash", record.ContentHash,
			"duration", duration,
		)
		return nil, err
	}

	span.SetAttributes(attribute.Int64(tracing.AttrRecordID, record.ID))
	logger.Debug("analysis stored",
		"id", record.ID,
		"risk_level", record.RiskLevel,
		"content_hash", record.ContentHash,
		"duration", duration,
	)

	return record, nil
}

func (r *Recorder) buildRecord(requestID, text string, result rules.Result) *analysis.Record {
	reasons := make([]string, len(result.Reasons))
	copy(reasons, result.Reasons)

	return &analysis.Record{
		RequestID:      requestID,
		JobDescription: text,
		ContentHash:    HashString(text),
		RiskScore:      result.RiskScore,
		RiskLevel:      result.RiskLevel.String(),
		Reasons:        reasons,
		CreatedAt:      r.now().UTC(),
	}
}
