package retention

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"mercator-hq/jobscan/pkg/analysis"
	"mercator-hq/jobscan/pkg/config"
	"mercator-hq/jobscan/pkg/telemetry/metrics"
	"mercator-hq/jobscan/pkg/telemetry/tracing"
)

// Pruner enforces the retention policy on stored analyses.
type Pruner struct {
	storage    analysis.Storage
	days       int
	maxRecords int64

	metrics *metrics.Collector
	tracer  *tracing.Tracer
	logger  *slog.Logger
	now     func() time.Time
}

// Option configures a Pruner.
type Option func(*Pruner)

// WithMetrics counts pruned records on c.
func WithMetrics(c *metrics.Collector) Option {
	return func(p *Pruner) { p.metrics = c }
}

// WithTracer wraps each run in a retention.prune span.
func WithTracer(t *tracing.Tracer) Option {
	return func(p *Pruner) { p.tracer = t }
}

// WithClock overrides the time source used for the age cutoff.
func WithClock(now func() time.Time) Option {
	return func(p *Pruner) { p.now = now }
}

// NewPruner creates a pruner for cfg. Days of 0 disables age pruning and
// MaxRecords of 0 disables count pruning.
func NewPruner(storage analysis.Storage, cfg *config.RetentionConfig, opts ...Option) *Pruner {
	p := &Pruner{
		storage:    storage,
		days:       cfg.Days,
		maxRecords: cfg.MaxRecords,
		logger:     slog.Default().With("component", "analysis.retention"),
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Days returns the retention window in days.
func (p *Pruner) Days() int {
	return p.days
}

// MaxRecords returns the record cap.
func (p *Pruner) MaxRecords() int64 {
	return p.maxRecords
}

// Prune runs both phases and returns the total number of records deleted.
// Errors are *analysis.RetentionError.
func (p *Pruner) Prune(ctx context.Context) (int64, error) {
	ctx, span := p.tracer.Start(ctx, tracing.SpanPrune)
	defer span.End()

	var total int64

	if p.days > 0 {
		deleted, err := p.pruneByAge(ctx)
		if err != nil {
			tracing.SetStatus(span, err)
			return total, analysis.NewRetentionError(p.days, fmt.Errorf("prune by age: %w", err))
		}
		total += deleted
	}

	if p.maxRecords > 0 {
		deleted, err := p.pruneByCount(ctx)
		if err != nil {
			tracing.SetStatus(span, err)
			return total, analysis.NewRetentionError(p.days, fmt.Errorf("prune by count: %w", err))
		}
		total += deleted
	}

	p.metrics.RecordPruned(total)
	span.SetAttributes(attribute.Int64(tracing.AttrPruned, total))

	if total == 0 {
		p.logger.Debug("no analyses pruned",
			"retention_days", p.days,
			"max_records", p.maxRecords,
		)
	} else {
		p.logger.Info("analysis pruning completed",
			"total_deleted", total,
			"retention_days", p.days,
			"max_records", p.maxRecords,
		)
	}

	return total, nil
}

func (p *Pruner) pruneByAge(ctx context.Context) (int64, error) {
	cutoff := p.now().UTC().AddDate(0, 0, -p.days)

	deleted, err := p.storage.Delete(ctx, &analysis.Query{EndTime: &cutoff})
	if err != nil {
		return 0, err
	}

	p.logger.Debug("pruned analyses by age",
		"deleted_count", deleted,
		"cutoff_time", cutoff,
	)
	return deleted, nil
}

// pruneByCount deletes everything up to and including the created_at of the
// newest record that falls outside the cap. Records sharing that timestamp go
// too, so the result may end slightly below MaxRecords.
func (p *Pruner) pruneByCount(ctx context.Context) (int64, error) {
	count, err := p.storage.Count(ctx, &analysis.Query{})
	if err != nil {
		return 0, fmt.Errorf("count records: %w", err)
	}
	if count <= p.maxRecords {
		return 0, nil
	}

	excess := count - p.maxRecords
	oldest, err := p.storage.Query(ctx, &analysis.Query{
		SortOrder: analysis.SortAsc,
		Limit:     int(excess),
	})
	if err != nil {
		return 0, fmt.Errorf("query oldest records: %w", err)
	}
	if len(oldest) == 0 {
		return 0, nil
	}

	cutoff := oldest[len(oldest)-1].CreatedAt
	deleted, err := p.storage.Delete(ctx, &analysis.Query{EndTime: &cutoff})
	if err != nil {
		return 0, fmt.Errorf("delete oldest records: %w", err)
	}

	p.logger.Info("record count exceeded limit, pruned oldest",
		"current_count", count,
		"max_records", p.maxRecords,
		"deleted_count", deleted,
	)
	return deleted, nil
}
