// Package analysis defines the persisted form of a scam-risk verdict and the
// storage contract used by the HTTP API, the CLI and the retention pruner.
//
// # Records
//
// A Record is written once per analyzed job posting. It captures the original
// text, a SHA-256 hash of that text, the verdict produced by package rules and
// the time the record was created (UTC). Records are immutable once stored;
// the only mutation is deletion by the retention pruner.
//
// # Querying
//
// Query filters records by risk level, creation time window and a
// case-insensitive substring of the job description. Results are ordered by
// creation time (newest first unless SortOrder is "asc"), with the record ID
// breaking ties so that pagination is stable.
//
//	page, err := analysis.FetchPage(ctx, store, &analysis.Query{
//	    RiskLevel: "HIGH",
//	    Limit:     20,
//	})
//
// # Backends
//
// Implementations live in the storage subpackage (SQLite, MySQL and an
// in-memory store for tests).
package analysis
