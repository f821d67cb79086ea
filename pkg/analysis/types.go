package analysis

import (
	"context"
	"io"
	"time"
	"unicode/utf8"
)

// SnippetLength is the number of characters of a job description returned in
// listings.
const SnippetLength = 500

// Record is a persisted analysis of one job posting.
type Record struct {
	ID             int64     `json:"id"`              // Assigned by storage on Store
	RequestID      string    `json:"request_id"`      // From the X-Request-ID header, if any
	JobDescription string    `json:"job_description"` // Submitted text
	ContentHash    string    `json:"content_hash"`    // SHA-256 of JobDescription
	RiskScore      int       `json:"risk_score"`      // 0-100
	RiskLevel      string    `json:"risk_level"`      // LOW, MEDIUM, HIGH
	Reasons        []string  `json:"reasons"`         // Matched rule reasons, catalog order
	CreatedAt      time.Time `json:"created_at"`      // UTC
}

// Snippet returns the job description truncated for listings.
func (r *Record) Snippet() string {
	return Snippet(r.JobDescription, SnippetLength)
}

// Snippet truncates s to n characters, appending "..." when truncated.
func Snippet(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	runes := []rune(s)
	return string(runes[:n]) + "..."
}

// Sort orders.
const (
	SortAsc  = "asc"
	SortDesc = "desc"
)

// Query defines filter parameters for querying analysis records.
type Query struct {
	// Filters
	RiskLevel string     `json:"risk_level,omitempty"` // Exact match, upper case
	StartTime *time.Time `json:"start_time,omitempty"` // Inclusive lower bound on CreatedAt
	EndTime   *time.Time `json:"end_time,omitempty"`   // Inclusive upper bound on CreatedAt
	Search    string     `json:"search,omitempty"`     // Case-insensitive substring of JobDescription

	// Pagination
	Limit  int `json:"limit,omitempty"`  // Max records to return
	Offset int `json:"offset,omitempty"` // Skip N records

	// Sorting by created_at: "asc" or "desc" (default)
	SortOrder string `json:"sort_order,omitempty"`
}

// Page is one page of query results together with the total match count.
type Page struct {
	Total      int64     `json:"total"`
	Page       int       `json:"page"`
	PerPage    int       `json:"per_page"`
	TotalPages int64     `json:"total_pages"`
	Items      []*Record `json:"items"`
}

// TotalPages returns the number of pages needed for total items.
func TotalPages(total int64, perPage int) int64 {
	if perPage <= 0 {
		return 1
	}
	return (total + int64(perPage) - 1) / int64(perPage)
}

// Storage defines the interface for analysis storage backends.
// Implementations must be safe for concurrent use.
type Storage interface {
	// Store persists a record and sets its ID.
	Store(ctx context.Context, record *Record) error

	// Query retrieves records matching the query filters.
	// Returns an empty slice if no records match.
	Query(ctx context.Context, query *Query) ([]*Record, error)

	// QueryStream streams matching records for exports of large result sets.
	// Both channels are closed when the query completes; errCh carries at most
	// one error.
	QueryStream(ctx context.Context, query *Query) (<-chan *Record, <-chan error, error)

	// Count returns the number of records matching the query filters.
	// Limit and Offset are ignored.
	Count(ctx context.Context, query *Query) (int64, error)

	// Delete removes records matching the query filters and returns the
	// number removed. Limit and Offset are ignored.
	Delete(ctx context.Context, query *Query) (int64, error)

	// Ping verifies the backend is reachable.
	Ping(ctx context.Context) error

	// Close releases any resources held by the backend.
	Close() error
}

// Exporter writes analysis records in a specific format.
type Exporter interface {
	Export(ctx context.Context, records []*Record, w io.Writer) error
}

// FetchPage runs query and its count against s and assembles a Page.
// query.Limit must be positive.
func FetchPage(ctx context.Context, s Storage, query *Query) (*Page, error) {
	if query.Limit <= 0 {
		return nil, NewQueryError("limit", "must be positive")
	}

	total, err := s.Count(ctx, query)
	if err != nil {
		return nil, err
	}

	items, err := s.Query(ctx, query)
	if err != nil {
		return nil, err
	}

	return &Page{
		Total:      total,
		Page:       query.Offset/query.Limit + 1,
		PerPage:    query.Limit,
		TotalPages: TotalPages(total, query.Limit),
		Items:      items,
	}, nil
}
