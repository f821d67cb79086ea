package query

import (
	"errors"
	"math"
	"net/url"
	"testing"
	"time"

	"mercator-hq/jobscan/pkg/analysis"
)

func TestParseListParams_Defaults(t *testing.T) {
	p, err := ParseListParams(url.Values{})
	if err != nil {
		t.Fatalf("ParseListParams() error = %v", err)
	}

	if p.Page != 1 {
		t.Errorf("Page = %d, want 1", p.Page)
	}
	if p.PerPage != DefaultPerPage {
		t.Errorf("PerPage = %d, want %d", p.PerPage, DefaultPerPage)
	}
	if p.Sort != SortCreatedDesc {
		t.Errorf("Sort = %q, want %q", p.Sort, SortCreatedDesc)
	}
	if p.RiskLevel != "" || p.Search != "" || p.StartDate != nil || p.EndDate != nil {
		t.Errorf("expected no filters, got %+v", p)
	}
}

func TestParseListParams_Pagination(t *testing.T) {
	tests := []struct {
		name        string
		page        string
		perPage     string
		wantPage    int
		wantPerPage int
	}{
		{"explicit", "3", "50", 3, 50},
		{"per_page clamped high", "1", "1000", 1, MaxPerPage},
		{"per_page clamped low", "1", "0", 1, 1},
		{"negative per_page", "1", "-5", 1, 1},
		{"page zero", "0", "10", 1, 10},
		{"negative page", "-2", "10", 1, 10},
		{"whitespace", " 2 ", " 5 ", 2, 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := ParseListParams(url.Values{"page": {tt.page}, "per_page": {tt.perPage}})
			if err != nil {
				t.Fatalf("ParseListParams() error = %v", err)
			}
			if p.Page != tt.wantPage {
				t.Errorf("Page = %d, want %d", p.Page, tt.wantPage)
			}
			if p.PerPage != tt.wantPerPage {
				t.Errorf("PerPage = %d, want %d", p.PerPage, tt.wantPerPage)
			}
		})
	}
}

func TestParseListParams_Errors(t *testing.T) {
	tests := []struct {
		name   string
		values url.Values
		want   string
	}{
		{"non-integer page", url.Values{"page": {"abc"}}, MsgInvalidPagination},
		{"float per_page", url.Values{"per_page": {"2.5"}}, MsgInvalidPagination},
		{"bad start_date", url.Values{"start_date": {"yesterday"}}, MsgInvalidStartDate},
		{"bad end_date", url.Values{"end_date": {"2024-13-01"}}, MsgInvalidEndDate},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseListParams(tt.values)
			if err == nil {
				t.Fatal("expected error, got nil")
			}

			var qe *analysis.QueryError
			if !errors.As(err, &qe) {
				t.Fatalf("expected *analysis.QueryError, got %T", err)
			}
			if qe.Message != tt.want || err.Error() != tt.want {
				t.Errorf("error = %q, want %q", err.Error(), tt.want)
			}
		})
	}
}

func TestParseListParams_Filters(t *testing.T) {
	p, err := ParseListParams(url.Values{
		"risk_level": {"high"},
		"q":          {"WhatsApp"},
		"sort":       {"created_at"},
		"start_date": {"2024-01-01"},
		"end_date":   {"2024-01-31T23:59:59"},
	})
	if err != nil {
		t.Fatalf("ParseListParams() error = %v", err)
	}

	if p.RiskLevel != "HIGH" {
		t.Errorf("RiskLevel = %q, want HIGH", p.RiskLevel)
	}
	if p.Search != "WhatsApp" {
		t.Errorf("Search = %q", p.Search)
	}
	if p.Sort != SortCreatedAsc {
		t.Errorf("Sort = %q, want %q", p.Sort, SortCreatedAsc)
	}

	wantStart := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	if p.StartDate == nil || !p.StartDate.Equal(wantStart) {
		t.Errorf("StartDate = %v, want %v", p.StartDate, wantStart)
	}
	wantEnd := time.Date(2024, 1, 31, 23, 59, 59, 0, time.UTC)
	if p.EndDate == nil || !p.EndDate.Equal(wantEnd) {
		t.Errorf("EndDate = %v, want %v", p.EndDate, wantEnd)
	}
}

func TestParseListParams_UnknownSortIsDescending(t *testing.T) {
	for _, sort := range []string{"-created_at", "risk_score", "CREATED_AT"} {
		p, err := ParseListParams(url.Values{"sort": {sort}})
		if err != nil {
			t.Fatalf("ParseListParams() error = %v", err)
		}
		if p.Sort != SortCreatedDesc {
			t.Errorf("sort %q: Sort = %q, want %q", sort, p.Sort, SortCreatedDesc)
		}
	}
}

func TestLimits_Parse(t *testing.T) {
	limits := Limits{DefaultPerPage: 5, MaxPerPage: 10}

	p, err := limits.Parse(url.Values{})
	if err != nil {
		t.Fatal(err)
	}
	if p.PerPage != 5 {
		t.Errorf("PerPage = %d, want 5", p.PerPage)
	}

	p, err = limits.Parse(url.Values{"per_page": {"50"}})
	if err != nil {
		t.Fatal(err)
	}
	if p.PerPage != 10 {
		t.Errorf("PerPage = %d, want 10", p.PerPage)
	}

	p, err = Limits{}.Parse(url.Values{})
	if err != nil {
		t.Fatal(err)
	}
	if p.PerPage != DefaultPerPage {
		t.Errorf("zero Limits: PerPage = %d, want %d", p.PerPage, DefaultPerPage)
	}
}

func TestListParams_ToQuery(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	p := &ListParams{
		Page:      3,
		PerPage:   25,
		RiskLevel: "LOW",
		StartDate: &start,
		Search:    "fee",
		Sort:      SortCreatedAsc,
	}

	q := p.ToQuery()
	if q.Limit != 25 || q.Offset != 50 {
		t.Errorf("Limit/Offset = %d/%d, want 25/50", q.Limit, q.Offset)
	}
	if q.SortOrder != analysis.SortAsc {
		t.Errorf("SortOrder = %q, want asc", q.SortOrder)
	}
	if q.RiskLevel != "LOW" || q.Search != "fee" || q.StartTime != &start {
		t.Errorf("filters not carried over: %+v", q)
	}

	p.Sort = SortCreatedDesc
	if got := p.ToQuery().SortOrder; got != analysis.SortDesc {
		t.Errorf("SortOrder = %q, want desc", got)
	}
}

func TestParseListParams_HugePage(t *testing.T) {
	p, err := ParseListParams(url.Values{"page": {"9223372036854775807"}, "per_page": {"200"}})
	if err != nil {
		t.Fatalf("ParseListParams() error = %v", err)
	}
	if p.Page != LastPage(200) {
		t.Errorf("Page = %d, want %d", p.Page, LastPage(200))
	}

	q := p.ToQuery()
	if q.Offset < 0 {
		t.Fatalf("Offset overflowed: %d", q.Offset)
	}
	if want := (LastPage(200) - 1) * 200; q.Offset != want {
		t.Errorf("Offset = %d, want %d", q.Offset, want)
	}
	if q.Limit != 200 {
		t.Errorf("Limit = %d, want 200", q.Limit)
	}
}

func TestListParams_ToQueryHugePage(t *testing.T) {
	p := &ListParams{Page: math.MaxInt, PerPage: 3}

	q := p.ToQuery()
	if q.Offset < 0 {
		t.Fatalf("Offset overflowed: %d", q.Offset)
	}
	if q.Offset/q.Limit+1 != LastPage(3) {
		t.Errorf("Offset %d does not address the last page", q.Offset)
	}
}

func TestParseTime(t *testing.T) {
	tests := []struct {
		input string
		want  time.Time
	}{
		{"2024-03-05", time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC)},
		{"2024-03-05T10:20:30", time.Date(2024, 3, 5, 10, 20, 30, 0, time.UTC)},
		{"2024-03-05T10:20:30.123456", time.Date(2024, 3, 5, 10, 20, 30, 123456000, time.UTC)},
		{"2024-03-05 10:20:30", time.Date(2024, 3, 5, 10, 20, 30, 0, time.UTC)},
		{"2024-03-05T10:20", time.Date(2024, 3, 5, 10, 20, 0, 0, time.UTC)},
		{"2024-03-05T10:20:30Z", time.Date(2024, 3, 5, 10, 20, 30, 0, time.UTC)},
		{"2024-03-05T12:20:30+02:00", time.Date(2024, 3, 5, 10, 20, 30, 0, time.UTC)},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseTime(tt.input)
			if err != nil {
				t.Fatalf("ParseTime(%q) error = %v", tt.input, err)
			}
			if !got.Equal(tt.want) {
				t.Errorf("ParseTime(%q) = %v, want %v", tt.input, got, tt.want)
			}
			if got.Location() != time.UTC {
				t.Errorf("ParseTime(%q) location = %v, want UTC", tt.input, got.Location())
			}
		})
	}

	for _, bad := range []string{"", "03/05/2024", "2024-3-5", "2024-03-05T25:00:00"} {
		if _, err := ParseTime(bad); err == nil {
			t.Errorf("ParseTime(%q) expected error", bad)
		}
	}
}
