package export

import (
	"context"
	"encoding/csv"
	"io"
	"strconv"
	"strings"
	"time"

	"mercator-hq/jobscan/pkg/analysis"
)

// ReasonSeparator joins reasons within a single CSV cell.
const ReasonSeparator = "; "

// flushEvery is how many streamed rows are buffered between flushes.
const flushEvery = 100

// Header is the CSV column order.
var Header = []string{
	"id", "request_id", "created_at",
	"risk_score", "risk_level", "reasons",
	"content_hash", "job_description",
}

// CSVExporter exports records as CSV.
type CSVExporter struct {
	// IncludeHeader writes Header as the first row.
	IncludeHeader bool
}

// NewCSVExporter creates a new CSV exporter.
func NewCSVExporter(includeHeader bool) *CSVExporter {
	return &CSVExporter{IncludeHeader: includeHeader}
}

// Export writes records as CSV.
func (e *CSVExporter) Export(ctx context.Context, records []*analysis.Record, w io.Writer) error {
	writer := csv.NewWriter(w)

	if e.IncludeHeader {
		if err := writer.Write(Header); err != nil {
			return analysis.NewExportError(FormatCSV, len(records), err)
		}
	}

	for _, record := range records {
		if err := writer.Write(Row(record)); err != nil {
			return analysis.NewExportError(FormatCSV, len(records), err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return analysis.NewExportError(FormatCSV, len(records), err)
	}
	return nil
}

// ExportStream writes records from recordsCh as CSV, flushing periodically.
// It returns the number of records written.
func (e *CSVExporter) ExportStream(ctx context.Context, recordsCh <-chan *analysis.Record, w io.Writer) (int, error) {
	writer := csv.NewWriter(w)

	if e.IncludeHeader {
		if err := writer.Write(Header); err != nil {
			return 0, analysis.NewExportError(FormatCSV, 0, err)
		}
	}

	count := 0
	for {
		select {
		case <-ctx.Done():
			writer.Flush()
			return count, ctx.Err()

		case record, ok := <-recordsCh:
			if !ok {
				writer.Flush()
				if err := writer.Error(); err != nil {
					return count, analysis.NewExportError(FormatCSV, count, err)
				}
				return count, nil
			}

			if err := writer.Write(Row(record)); err != nil {
				return count, analysis.NewExportError(FormatCSV, count, err)
			}
			count++

			if count%flushEvery == 0 {
				writer.Flush()
				if err := writer.Error(); err != nil {
					return count, analysis.NewExportError(FormatCSV, count, err)
				}
			}
		}
	}
}

// Row converts a record to CSV cells in Header order.
func Row(record *analysis.Record) []string {
	createdAt := ""
	if !record.CreatedAt.IsZero() {
		createdAt = record.CreatedAt.UTC().Format(time.RFC3339)
	}

	return []string{
		strconv.FormatInt(record.ID, 10),
		record.RequestID,
		createdAt,
		strconv.Itoa(record.RiskScore),
		record.RiskLevel,
		strings.Join(record.Reasons, ReasonSeparator),
		record.ContentHash,
		record.JobDescription,
	}
}
