package export

import (
	"context"
	"encoding/json"
	"io"

	"mercator-hq/jobscan/pkg/analysis"
)

// JSONExporter exports records as a JSON array.
type JSONExporter struct {
	// Pretty enables indentation.
	Pretty bool
}

// NewJSONExporter creates a new JSON exporter.
func NewJSONExporter(pretty bool) *JSONExporter {
	return &JSONExporter{Pretty: pretty}
}

// Export writes records as a JSON array. No records produce "[]".
func (e *JSONExporter) Export(ctx context.Context, records []*analysis.Record, w io.Writer) error {
	if records == nil {
		records = []*analysis.Record{}
	}

	var data []byte
	var err error
	if e.Pretty {
		data, err = json.MarshalIndent(records, "", "  ")
	} else {
		data, err = json.Marshal(records)
	}
	if err != nil {
		return analysis.NewExportError(FormatJSON, len(records), err)
	}

	if _, err := w.Write(append(data, '\n')); err != nil {
		return analysis.NewExportError(FormatJSON, len(records), err)
	}
	return nil
}

// ExportStream writes records from recordsCh as a JSON array without
// buffering the whole result set. It returns the number of records written.
func (e *JSONExporter) ExportStream(ctx context.Context, recordsCh <-chan *analysis.Record, w io.Writer) (int, error) {
	if _, err := io.WriteString(w, "["); err != nil {
		return 0, analysis.NewExportError(FormatJSON, 0, err)
	}

	count := 0
	for {
		select {
		case <-ctx.Done():
			return count, ctx.Err()

		case record, ok := <-recordsCh:
			if !ok {
				closing := "]\n"
				if e.Pretty && count > 0 {
					closing = "\n]\n"
				}
				if _, err := io.WriteString(w, closing); err != nil {
					return count, analysis.NewExportError(FormatJSON, count, err)
				}
				return count, nil
			}

			sep := ","
			if count == 0 {
				sep = ""
			}
			if e.Pretty {
				sep += "\n  "
			}
			if _, err := io.WriteString(w, sep); err != nil {
				return count, analysis.NewExportError(FormatJSON, count, err)
			}

			data, err := e.marshal(record)
			if err != nil {
				return count, analysis.NewExportError(FormatJSON, count, err)
			}
			if _, err := w.Write(data); err != nil {
				return count, analysis.NewExportError(FormatJSON, count, err)
			}

			count++
		}
	}
}

func (e *JSONExporter) marshal(record *analysis.Record) ([]byte, error) {
	if e.Pretty {
		return json.MarshalIndent(record, "  ", "  ")
	}
	return json.Marshal(record)
}
