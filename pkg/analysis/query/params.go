package query

import (
	"math"
	"net/url"
	"strconv"
	"strings"
	"time"

	"mercator-hq/jobscan/pkg/analysis"
)

const (
	// DefaultPerPage is the page size used when per_page is absent.
	DefaultPerPage = 20

	// MaxPerPage is the upper clamp for per_page.
	MaxPerPage = 200

	// SortCreatedAsc is the only sort value that selects ascending order.
	SortCreatedAsc = "created_at"

	// SortCreatedDesc is the default sort.
	SortCreatedDesc = "-created_at"
)

// Client-facing parse errors.
const (
	MsgInvalidPagination = "Invalid pagination parameters"
	MsgInvalidStartDate  = "start_date must be ISO 8601"
	MsgInvalidEndDate    = "end_date must be ISO 8601"
)

// ListParams are the parsed parameters of an audit listing.
type ListParams struct {
	Page      int
	PerPage   int
	RiskLevel string
	StartDate *time.Time
	EndDate   *time.Time
	Search    string
	Sort      string
}

// Limits bounds the page size.
type Limits struct {
	DefaultPerPage int
	MaxPerPage     int
}

// DefaultLimits returns the standard page size limits.
func DefaultLimits() Limits {
	return Limits{DefaultPerPage: DefaultPerPage, MaxPerPage: MaxPerPage}
}

// ParseListParams parses values with DefaultLimits.
func ParseListParams(values url.Values) (*ListParams, error) {
	return DefaultLimits().Parse(values)
}

// Parse parses listing parameters from values.
func (l Limits) Parse(values url.Values) (*ListParams, error) {
	l = l.normalized()

	p := &ListParams{
		Page:    1,
		PerPage: l.DefaultPerPage,
		Sort:    SortCreatedDesc,
	}

	if raw := values.Get("page"); raw != "" {
		page, err := strconv.Atoi(strings.TrimSpace(raw))
		if err != nil {
			return nil, analysis.NewQueryError("", MsgInvalidPagination)
		}
		p.Page = max(page, 1)
	}

	if raw := values.Get("per_page"); raw != "" {
		perPage, err := strconv.Atoi(strings.TrimSpace(raw))
		if err != nil {
			return nil, analysis.NewQueryError("", MsgInvalidPagination)
		}
		p.PerPage = min(max(perPage, 1), l.MaxPerPage)
	}

	p.Page = min(p.Page, LastPage(p.PerPage))

	p.RiskLevel = strings.ToUpper(strings.TrimSpace(values.Get("risk_level")))

	if raw := values.Get("start_date"); raw != "" {
		t, err := ParseTime(raw)
		if err != nil {
			return nil, analysis.NewQueryError("", MsgInvalidStartDate)
		}
		p.StartDate = &t
	}

	if raw := values.Get("end_date"); raw != "" {
		t, err := ParseTime(raw)
		if err != nil {
			return nil, analysis.NewQueryError("", MsgInvalidEndDate)
		}
		p.EndDate = &t
	}

	p.Search = values.Get("q")

	if values.Get("sort") == SortCreatedAsc {
		p.Sort = SortCreatedAsc
	}

	return p, nil
}

func (l Limits) normalized() Limits {
	if l.MaxPerPage <= 0 {
		l.MaxPerPage = MaxPerPage
	}
	if l.DefaultPerPage <= 0 {
		l.DefaultPerPage = DefaultPerPage
	}
	if l.DefaultPerPage > l.MaxPerPage {
		l.DefaultPerPage = l.MaxPerPage
	}
	return l
}

// LastPage is the highest page number whose offset fits in an int.
func LastPage(perPage int) int {
	if perPage <= 1 {
		return math.MaxInt
	}
	return math.MaxInt / perPage
}

// ToQuery converts the parameters to a storage query. Pages past LastPage
// are treated as LastPage.
func (p *ListParams) ToQuery() *analysis.Query {
	order := analysis.SortDesc
	if p.Sort == SortCreatedAsc {
		order = analysis.SortAsc
	}

	return &analysis.Query{
		RiskLevel: p.RiskLevel,
		StartTime: p.StartDate,
		EndTime:   p.EndDate,
		Search:    p.Search,
		Limit:     p.PerPage,
		Offset:    p.offset(),
		SortOrder: order,
	}
}

func (p *ListParams) offset() int {
	if p.Page <= 1 || p.PerPage <= 0 {
		return 0
	}
	return (min(p.Page, LastPage(p.PerPage)) - 1) * p.PerPage
}

// isoLayouts are tried in order by ParseTime. Layouts without a zone are
// interpreted as UTC, matching how timestamps are stored.
var isoLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04Z07:00",
	"2006-01-02T15:04",
	"2006-01-02 15:04",
	"2006-01-02",
}

// ParseTime parses an ISO 8601 date or date-time and returns it in UTC.
func ParseTime(s string) (time.Time, error) {
	s = strings.TrimSpace(s)

	var firstErr error
	for _, layout := range isoLayouts {
		t, err := time.Parse(layout, s)
		if err == nil {
			return t.UTC(), nil
		}
		if firstErr == nil {
			firstErr = err
		}
	}
	return time.Time{}, firstErr
}
