package recorder

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"mercator-hq/jobscan/pkg/analysis"
	"mercator-hq/jobscan/pkg/analysis/storage"
	"mercator-hq/jobscan/pkg/config"
	"mercator-hq/jobscan/pkg/rules"
	"mercator-hq/jobscan/pkg/telemetry/metrics"
	"mercator-hq/jobscan/pkg/telemetry/tracing"
)

// blockingStorage blocks Store until the context is done.
type blockingStorage struct {
	*storage.MemoryStorage
}

func (s *blockingStorage) Store(ctx context.Context, record *analysis.Record) error {
	<-ctx.Done()
	return ctx.Err()
}

// failingStorage fails every Store.
type failingStorage struct {
	*storage.MemoryStorage
}

func (s *failingStorage) Store(ctx context.Context, record *analysis.Record) error {
	return analysis.NewStorageError("memory", "store", errors.New("disk full"))
}

func TestRecorder_Record(t *testing.T) {
	store := storage.NewMemoryStorage()
	fixed := time.Date(2025, 3, 1, 12, 0, 0, 0, time.FixedZone("EST", -5*3600))

	rec := New(store, &config.RecorderConfig{Enabled: true, WriteTimeout: time.Second},
		WithClock(func() time.Time { return fixed }),
	)

	text := "Immediate hire. Please pay a registration fee of $25. Contact on WhatsApp only."
	result := rules.AnalyzeText(text)

	record, err := rec.Record(context.Background(), "req-123", text, result)
	if err != nil {
		t.Fatalf("Record() failed: %v", err)
	}

	if record.ID == 0 {
		t.Error("expected storage to assign an ID")
	}
	if record.RequestID != "req-123" {
		t.Errorf("RequestID = %q, want req-123", record.RequestID)
	}
	if record.RiskScore != result.RiskScore || record.RiskLevel != "HIGH" {
		t.Errorf("got score %d level %s, want %d HIGH", record.RiskScore, record.RiskLevel, result.RiskScore)
	}
	if record.ContentHash != HashString(text) {
		t.Errorf("ContentHash = %q", record.ContentHash)
	}
	if !record.CreatedAt.Equal(fixed) || record.CreatedAt.Location() != time.UTC {
		t.Errorf("CreatedAt = %v, want %v in UTC", record.CreatedAt, fixed)
	}

	stored := store.GetByID(record.ID)
	if stored == nil {
		t.Fatal("record not found in storage")
	}
	if stored.JobDescription != text {
		t.Errorf("stored description = %q", stored.JobDescription)
	}
	if len(stored.Reasons) != len(result.Reasons) {
		t.Errorf("stored %d reasons, want %d", len(stored.Reasons), len(result.Reasons))
	}
}

func TestRecorder_ReasonsAreCopied(t *testing.T) {
	store := storage.NewMemoryStorage()
	rec := New(store, &config.RecorderConfig{Enabled: true})

	result := rules.Result{RiskScore: 25, RiskLevel: rules.LevelLow, Reasons: []string{"a"}}
	record, err := rec.Record(context.Background(), "", "text", result)
	if err != nil {
		t.Fatalf("Record() failed: %v", err)
	}

	result.Reasons[0] = "mutated"
	if record.Reasons[0] != "a" {
		t.Errorf("record shares the result's reasons slice")
	}
}

func TestRecorder_Disabled(t *testing.T) {
	tests := []struct {
		name  string
		store analysis.Storage
		cfg   *config.RecorderConfig
	}{
		{"config disabled", storage.NewMemoryStorage(), &config.RecorderConfig{Enabled: false}},
		{"nil storage", nil, &config.RecorderConfig{Enabled: true}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := New(tt.store, tt.cfg)
			if rec.Enabled() {
				t.Fatal("expected recorder to be disabled")
			}
			_, err := rec.Record(context.Background(), "", "text", rules.AnalyzeText("text"))
			if !errors.Is(err, ErrDisabled) {
				t.Errorf("err = %v, want ErrDisabled", err)
			}
		})
	}

	var nilRecorder *Recorder
	if nilRecorder.Enabled() {
		t.Error("nil recorder reports enabled")
	}
}

func TestRecorder_WriteTimeout(t *testing.T) {
	rec := New(&blockingStorage{storage.NewMemoryStorage()},
		&config.RecorderConfig{Enabled: true, WriteTimeout: 20 * time.Millisecond})

	start := time.Now()
	_, err := rec.Record(context.Background(), "", "text", rules.AnalyzeText("text"))
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("err = %v, want deadline exceeded", err)
	}
	if elapsed := time.Since(start); elapsed > time.Second {
		t.Errorf("Record took %v, write timeout not applied", elapsed)
	}
}

func TestRecorder_StorageFailureMetrics(t *testing.T) {
	cfg := config.DefaultConfig().Telemetry.Metrics
	cfg.Enabled = true
	collector := metrics.NewCollector(&cfg, prometheus.NewRegistry())

	rec := New(&failingStorage{storage.NewMemoryStorage()},
		&config.RecorderConfig{Enabled: true}, WithMetrics(collector))

	_, err := rec.Record(context.Background(), "", "text", rules.AnalyzeText("text"))
	var storageErr *analysis.StorageError
	if !errors.As(err, &storageErr) {
		t.Fatalf("err = %v, want *analysis.StorageError", err)
	}

	count, err := testutil.GatherAndCount(collector.Registry(), "jobscan_storage_operations_total")
	if err != nil {
		t.Fatal(err)
	}
	if count != 1 {
		t.Errorf("storage operation series = %d, want 1", count)
	}
}

func TestRecorder_Span(t *testing.T) {
	sr := tracetest.NewSpanRecorder()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))
	defer provider.Shutdown(context.Background())

	rec := New(storage.NewMemoryStorage(), &config.RecorderConfig{Enabled: true},
		WithTracer(tracing.NewWithProvider(provider)))

	if _, err := rec.Record(context.Background(), "", "text", rules.AnalyzeText("text")); err != nil {
		t.Fatal(err)
	}

	spans := sr.Ended()
	if len(spans) != 1 {
		t.Fatalf("got %d spans, want 1", len(spans))
	}
	if spans[0].Name() != tracing.SpanStore {
		t.Errorf("span name = %q, want %q", spans[0].Name(), tracing.SpanStore)
	}
	found := false
	for _, attr := range spans[0].Attributes() {
		if string(attr.Key) == tracing.AttrRecordID {
			found = true
		}
	}
	if !found {
		t.Error("span missing record id attribute")
	}
}

func TestHashContent(t *testing.T) {
	tests := []struct {
		name    string
		content []byte
		want    string
	}{
		{"empty", nil, ""},
		{"hello", []byte("hello"), "2cf24dba5fb0a30e26e83b2ac5b9e29e1b161e5c1fa7425e73043362938b9824"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := HashContent(tt.content); got != tt.want {
				t.Errorf("HashContent() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestHashContent_Truncates(t *testing.T) {
	prefix := strings.Repeat("a", MaxHashSize)
	if HashString(prefix) != HashString(prefix+"tail") {
		t.Error("content beyond MaxHashSize changed the hash")
	}
}
