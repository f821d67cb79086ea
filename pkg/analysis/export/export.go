package export

import (
	"context"
	"fmt"
	"io"
	"strings"

	"mercator-hq/jobscan/pkg/analysis"
)

// Supported formats.
const (
	FormatJSON = "json"
	FormatCSV  = "csv"
)

// StreamExporter exports records as they arrive on a channel.
type StreamExporter interface {
	analysis.Exporter
	ExportStream(ctx context.Context, records <-chan *analysis.Record, w io.Writer) (int, error)
}

// New returns the exporter for format. JSON is pretty-printed and CSV has a
// header row.
func New(format string) (StreamExporter, error) {
	switch strings.ToLower(format) {
	case FormatJSON:
		return NewJSONExporter(true), nil
	case FormatCSV:
		return NewCSVExporter(true), nil
	default:
		return nil, fmt.Errorf("unsupported export format %q (want json or csv)", format)
	}
}

// ProgressFunc is called after each exported record with the number written
// so far and the expected total.
type ProgressFunc func(done, total int64)

// QueryOption configures Query.
type QueryOption func(*queryOptions)

type queryOptions struct {
	progress ProgressFunc
}

// WithProgress reports export progress to fn.
func WithProgress(fn ProgressFunc) QueryOption {
	return func(o *queryOptions) { o.progress = fn }
}

// Query streams the records matching query from store into exporter and
// returns the number of records written. A query without a limit exports
// every match.
func Query(ctx context.Context, store analysis.Storage, query *analysis.Query, exporter StreamExporter, w io.Writer, opts ...QueryOption) (int, error) {
	var o queryOptions
	for _, opt := range opts {
		opt(&o)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var total int64 = -1
	if query.Limit <= 0 || o.progress != nil {
		count, err := store.Count(ctx, query)
		if err != nil {
			return 0, err
		}
		total = count
	}

	if query.Limit <= 0 {
		q := *query
		q.Limit = int(max(total, 1))
		query = &q
	}

	recordsCh, errCh, err := store.QueryStream(ctx, query)
	if err != nil {
		return 0, err
	}

	if o.progress != nil {
		expected := min(max(total-int64(query.Offset), 0), int64(query.Limit))
		recordsCh = observe(ctx, recordsCh, expected, o.progress)
	}

	n, exportErr := exporter.ExportStream(ctx, recordsCh, w)
	if exportErr != nil {
		// Unblock the producer before draining its error.
		cancel()
		for range recordsCh {
		}
		<-errCh
		return n, exportErr
	}

	if err := <-errCh; err != nil {
		return n, err
	}
	return n, nil
}

// observe relays records from in, calling fn after each one is handed on.
func observe(ctx context.Context, in <-chan *analysis.Record, total int64, fn ProgressFunc) <-chan *analysis.Record {
	out := make(chan *analysis.Record)
	go func() {
		defer close(out)
		var done int64
		for record := range in {
			select {
			case out <- record:
				done++
				fn(done, total)
			case <-ctx.Done():
				for range in {
				}
				return
			}
		}
	}()
	return out
}
