package query

import (
	"fmt"
	"strings"

	"mercator-hq/jobscan/pkg/analysis"
	"mercator-hq/jobscan/pkg/rules"
)

// MaxLimit is the largest Limit accepted by Validate. Exports stream and are
// not bound by it.
const MaxLimit = 10000

// Validate validates a storage query and returns a *analysis.QueryError if
// any parameter is invalid.
func Validate(q *analysis.Query) error {
	if q.Limit < 0 {
		return analysis.NewQueryError("limit", fmt.Sprintf("must be >= 0, got %d", q.Limit))
	}
	if q.Limit > MaxLimit {
		return analysis.NewQueryError("limit", fmt.Sprintf("must be <= %d, got %d", MaxLimit, q.Limit))
	}

	if q.Offset < 0 {
		return analysis.NewQueryError("offset", fmt.Sprintf("must be >= 0, got %d", q.Offset))
	}

	switch q.SortOrder {
	case "", analysis.SortAsc, analysis.SortDesc:
	default:
		return analysis.NewQueryError("sort_order", fmt.Sprintf("must be 'asc' or 'desc', got %q", q.SortOrder))
	}

	if q.StartTime != nil && q.EndTime != nil && q.StartTime.After(*q.EndTime) {
		return analysis.NewQueryError("start_time", "must not be after end_time")
	}

	return nil
}

// ValidateRiskLevel rejects risk levels other than LOW, MEDIUM and HIGH. The
// HTTP listing does not call it: an unknown level there simply matches no
// records. The CLI does, to catch typos.
func ValidateRiskLevel(level string) error {
	if level == "" {
		return nil
	}
	if _, err := rules.ParseLevel(level); err != nil {
		return analysis.NewQueryError("risk_level", fmt.Sprintf("must be one of %s, got %q", levelList(), level))
	}
	return nil
}

func levelList() string {
	names := make([]string, 0, 3)
	for _, l := range rules.Levels() {
		names = append(names, l.String())
	}
	return strings.Join(names, ", ")
}

// ApplyDefaults applies default values to a storage query.
func ApplyDefaults(q *analysis.Query) {
	if q.Limit == 0 {
		q.Limit = DefaultPerPage
	}
	if q.SortOrder == "" {
		q.SortOrder = analysis.SortDesc
	}
	q.RiskLevel = strings.ToUpper(q.RiskLevel)
}
