// Package export writes analysis records as JSON or CSV.
//
// Both exporters support a slice API for small result sets and a streaming
// API fed by analysis.Storage.QueryStream for large ones:
//
//	exporter, err := export.New(export.FormatCSV)
//	if err != nil {
//	    return err
//	}
//	n, err := export.Query(ctx, store, query, exporter, os.Stdout)
//
// JSON output is always an array. CSV output has one row per record with the
// reasons joined by "; ".
package export
