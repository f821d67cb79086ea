// Package query parses and validates audit listing parameters.
//
// # List Parameters
//
// ParseListParams turns the query string of GET /analyses into ListParams:
//
//   - page (default 1, values below 1 become 1)
//   - per_page (default 20, clamped to 1..200)
//   - risk_level (matched upper case)
//   - start_date, end_date (ISO 8601, inclusive)
//   - q (case-insensitive substring of the job description)
//   - sort ("created_at" for oldest first, anything else newest first)
//
// Errors are *analysis.QueryError values whose messages are returned to API
// clients verbatim.
//
// # Basic Usage
//
//	params, err := query.ParseListParams(r.URL.Query())
//	if err != nil {
//	    return err
//	}
//	page, err := analysis.FetchPage(ctx, store, params.ToQuery())
package query
