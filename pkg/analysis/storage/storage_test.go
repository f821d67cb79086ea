package storage

import (
	"context"
	"math"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"mercator-hq/jobscan/pkg/analysis"
)

// backendFactories returns one constructor per backend so the same behaviour
// tests run against all of them.
func backendFactories() map[string]func(t *testing.T) analysis.Storage {
	return map[string]func(t *testing.T) analysis.Storage{
		"memory": func(t *testing.T) analysis.Storage {
			return NewMemoryStorage()
		},
		"sqlite3": func(t *testing.T) analysis.Storage {
			return createTempDB(t, DriverCGO)
		},
		"sqlite_pure_go": func(t *testing.T) analysis.Storage {
			return createTempDB(t, DriverPureGo)
		},
	}
}

// createTempDB creates a temporary SQLite database for testing.
func createTempDB(t *testing.T, driver string) *SQLiteStorage {
	t.Helper()

	config := &SQLiteConfig{
		Path:         filepath.Join(t.TempDir(), "test.db"),
		Driver:       driver,
		MaxOpenConns: 5,
		MaxIdleConns: 2,
		WALMode:      true,
		BusyTimeout:  5 * time.Second,
	}

	s, err := NewSQLiteStorage(config)
	if err != nil {
		t.Fatalf("Failed to create SQLite storage: %v", err)
	}
	return s
}

var baseTime = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

// seed stores n records one hour apart, cycling through levels.
func seed(t *testing.T, s analysis.Storage, descriptions ...string) []*analysis.Record {
	t.Helper()

	levels := []string{"LOW", "MEDIUM", "HIGH"}
	records := make([]*analysis.Record, 0, len(descriptions))
	for i, desc := range descriptions {
		r := &analysis.Record{
			RequestID:      "req-" + desc,
			JobDescription: desc,
			ContentHash:    "hash",
			RiskScore:      i * 10,
			RiskLevel:      levels[i%len(levels)],
			Reasons:        []string{"reason " + desc},
			CreatedAt:      baseTime.Add(time.Duration(i) * time.Hour),
		}
		if err := s.Store(context.Background(), r); err != nil {
			t.Fatalf("Store() failed: %v", err)
		}
		records = append(records, r)
	}
	return records
}

func ids(records []*analysis.Record) []int64 {
	out := make([]int64, len(records))
	for i, r := range records {
		out[i] = r.ID
	}
	return out
}

func TestStorage_StoreAndQuery(t *testing.T) {
	for name, factory := range backendFactories() {
		t.Run(name, func(t *testing.T) {
			s := factory(t)
			defer s.Close()
			ctx := context.Background()

			record := &analysis.Record{
				RequestID:      "req-1",
				JobDescription: "Pay a registration fee",
				ContentHash:    "abc123",
				RiskScore:      30,
				RiskLevel:      "LOW",
				Reasons:        []string{"Mentions registration fee"},
				CreatedAt:      baseTime.Add(123456 * time.Microsecond),
			}
			if err := s.Store(ctx, record); err != nil {
				t.Fatalf("Store() failed: %v", err)
			}
			if record.ID == 0 {
				t.Fatal("Expected Store to assign an ID")
			}

			results, err := s.Query(ctx, &analysis.Query{})
			if err != nil {
				t.Fatalf("Query() failed: %v", err)
			}
			if len(results) != 1 {
				t.Fatalf("Expected 1 record, got %d", len(results))
			}

			got := results[0]
			if got.ID != record.ID {
				t.Errorf("Expected ID %d, got %d", record.ID, got.ID)
			}
			if got.JobDescription != record.JobDescription || got.ContentHash != "abc123" || got.RequestID != "req-1" {
				t.Errorf("Text fields did not round-trip: %+v", got)
			}
			if got.RiskScore != 30 || got.RiskLevel != "LOW" {
				t.Errorf("Expected 30/LOW, got %d/%s", got.RiskScore, got.RiskLevel)
			}
			if !reflect.DeepEqual(got.Reasons, record.Reasons) {
				t.Errorf("Expected reasons %v, got %v", record.Reasons, got.Reasons)
			}
			if !got.CreatedAt.Equal(record.CreatedAt) {
				t.Errorf("Expected created_at %v, got %v", record.CreatedAt, got.CreatedAt)
			}
			if got.CreatedAt.Location() != time.UTC {
				t.Errorf("Expected UTC created_at, got %v", got.CreatedAt.Location())
			}
		})
	}
}

func TestStorage_IDsIncrease(t *testing.T) {
	for name, factory := range backendFactories() {
		t.Run(name, func(t *testing.T) {
			s := factory(t)
			defer s.Close()

			records := seed(t, s, "a", "b", "c")
			for i := 1; i < len(records); i++ {
				if records[i].ID <= records[i-1].ID {
					t.Errorf("Expected increasing IDs, got %v", ids(records))
				}
			}
		})
	}
}

func TestStorage_SortOrder(t *testing.T) {
	for name, factory := range backendFactories() {
		t.Run(name, func(t *testing.T) {
			s := factory(t)
			defer s.Close()
			ctx := context.Background()

			records := seed(t, s, "first", "second", "third")

			desc, err := s.Query(ctx, &analysis.Query{})
			if err != nil {
				t.Fatalf("Query() failed: %v", err)
			}
			want := []int64{records[2].ID, records[1].ID, records[0].ID}
			if !reflect.DeepEqual(ids(desc), want) {
				t.Errorf("Expected newest first %v, got %v", want, ids(desc))
			}

			asc, err := s.Query(ctx, &analysis.Query{SortOrder: analysis.SortAsc})
			if err != nil {
				t.Fatalf("Query() failed: %v", err)
			}
			want = []int64{records[0].ID, records[1].ID, records[2].ID}
			if !reflect.DeepEqual(ids(asc), want) {
				t.Errorf("Expected oldest first %v, got %v", want, ids(asc))
			}
		})
	}
}

func TestStorage_Filters(t *testing.T) {
	for name, factory := range backendFactories() {
		t.Run(name, func(t *testing.T) {
			s := factory(t)
			defer s.Close()
			ctx := context.Background()

			// Levels cycle LOW, MEDIUM, HIGH; times are baseTime + 0h..5h.
			records := seed(t, s,
				"Registration FEE required",
				"Normal job",
				"WhatsApp only",
				"training fee",
				"100% commission_based",
				"Nothing here",
			)

			start := baseTime.Add(2 * time.Hour)
			end := baseTime.Add(4 * time.Hour)

			tests := []struct {
				name  string
				query *analysis.Query
				want  []int64
			}{
				{
					name:  "risk level",
					query: &analysis.Query{RiskLevel: "HIGH", SortOrder: analysis.SortAsc},
					want:  []int64{records[2].ID, records[5].ID},
				},
				{
					name:  "time window inclusive",
					query: &analysis.Query{StartTime: &start, EndTime: &end, SortOrder: analysis.SortAsc},
					want:  []int64{records[2].ID, records[3].ID, records[4].ID},
				},
				{
					name:  "search is case-insensitive",
					query: &analysis.Query{Search: "fee", SortOrder: analysis.SortAsc},
					want:  []int64{records[0].ID, records[3].ID},
				},
				{
					name:  "search treats wildcards literally",
					query: &analysis.Query{Search: "100%"},
					want:  []int64{records[4].ID},
				},
				{
					name:  "underscore is literal",
					query: &analysis.Query{Search: "n_b"},
					want:  []int64{records[4].ID},
				},
				{
					name:  "combined filters",
					query: &analysis.Query{RiskLevel: "LOW", Search: "fee", SortOrder: analysis.SortAsc},
					want:  []int64{records[0].ID, records[3].ID},
				},
				{
					name:  "no match",
					query: &analysis.Query{Search: "nonexistent"},
					want:  []int64{},
				},
			}

			for _, tt := range tests {
				t.Run(tt.name, func(t *testing.T) {
					results, err := s.Query(ctx, tt.query)
					if err != nil {
						t.Fatalf("Query() failed: %v", err)
					}
					if !reflect.DeepEqual(ids(results), tt.want) {
						t.Errorf("Expected %v, got %v", tt.want, ids(results))
					}

					count, err := s.Count(ctx, tt.query)
					if err != nil {
						t.Fatalf("Count() failed: %v", err)
					}
					if count != int64(len(tt.want)) {
						t.Errorf("Expected count %d, got %d", len(tt.want), count)
					}
				})
			}
		})
	}
}

func TestStorage_SearchFoldsUnicodeCase(t *testing.T) {
	for name, factory := range backendFactories() {
		t.Run(name, func(t *testing.T) {
			s := factory(t)
			defer s.Close()
			ctx := context.Background()

			records := seed(t, s, "Barista wanted at our café", "ÜBERSTUNDEN bezahlt", "plain cafe job")

			tests := []struct {
				search string
				want   []int64
			}{
				{"CAFÉ", []int64{records[0].ID}},
				{"überstunden", []int64{records[1].ID}},
				{"Café", []int64{records[0].ID}},
				{"CAFE", []int64{records[2].ID}},
			}

			for _, tt := range tests {
				results, err := s.Query(ctx, &analysis.Query{Search: tt.search, SortOrder: analysis.SortAsc})
				if err != nil {
					t.Fatalf("Query(%q) failed: %v", tt.search, err)
				}
				if !reflect.DeepEqual(ids(results), tt.want) {
					t.Errorf("Search %q: expected %v, got %v", tt.search, tt.want, ids(results))
				}
			}
		})
	}
}

func TestStorage_Pagination(t *testing.T) {
	for name, factory := range backendFactories() {
		t.Run(name, func(t *testing.T) {
			s := factory(t)
			defer s.Close()
			ctx := context.Background()

			records := seed(t, s, "a", "b", "c", "d", "e")

			page, err := s.Query(ctx, &analysis.Query{Limit: 2, Offset: 2, SortOrder: analysis.SortAsc})
			if err != nil {
				t.Fatalf("Query() failed: %v", err)
			}
			want := []int64{records[2].ID, records[3].ID}
			if !reflect.DeepEqual(ids(page), want) {
				t.Errorf("Expected %v, got %v", want, ids(page))
			}

			past, err := s.Query(ctx, &analysis.Query{Limit: 2, Offset: 10})
			if err != nil {
				t.Fatalf("Query() failed: %v", err)
			}
			if len(past) != 0 {
				t.Errorf("Expected empty page past the end, got %d records", len(past))
			}

			farOut, err := s.Query(ctx, &analysis.Query{Limit: 200, Offset: math.MaxInt - 200})
			if err != nil {
				t.Fatalf("Query() failed: %v", err)
			}
			if len(farOut) != 0 {
				t.Errorf("Expected empty page at a very large offset, got %d records", len(farOut))
			}

			count, err := s.Count(ctx, &analysis.Query{Limit: 1, Offset: 3})
			if err != nil {
				t.Fatalf("Count() failed: %v", err)
			}
			if count != 5 {
				t.Errorf("Expected Count to ignore pagination, got %d", count)
			}
		})
	}
}

func TestStorage_Delete(t *testing.T) {
	for name, factory := range backendFactories() {
		t.Run(name, func(t *testing.T) {
			s := factory(t)
			defer s.Close()
			ctx := context.Background()

			seed(t, s, "a", "b", "c", "d")

			cutoff := baseTime.Add(90 * time.Minute)
			deleted, err := s.Delete(ctx, &analysis.Query{EndTime: &cutoff})
			if err != nil {
				t.Fatalf("Delete() failed: %v", err)
			}
			if deleted != 2 {
				t.Errorf("Expected 2 deleted, got %d", deleted)
			}

			remaining, err := s.Count(ctx, &analysis.Query{})
			if err != nil {
				t.Fatalf("Count() failed: %v", err)
			}
			if remaining != 2 {
				t.Errorf("Expected 2 remaining, got %d", remaining)
			}
		})
	}
}

func TestStorage_QueryStream(t *testing.T) {
	for name, factory := range backendFactories() {
		t.Run(name, func(t *testing.T) {
			s := factory(t)
			defer s.Close()

			seed(t, s, "a", "b", "c")

			recordsCh, errCh, err := s.QueryStream(context.Background(), &analysis.Query{Limit: 10})
			if err != nil {
				t.Fatalf("QueryStream() failed: %v", err)
			}

			count := 0
			for range recordsCh {
				count++
			}
			if err := <-errCh; err != nil {
				t.Fatalf("Stream error: %v", err)
			}
			if count != 3 {
				t.Errorf("Expected 3 streamed records, got %d", count)
			}
		})
	}
}

func TestStorage_Ping(t *testing.T) {
	for name, factory := range backendFactories() {
		t.Run(name, func(t *testing.T) {
			s := factory(t)
			defer s.Close()

			if err := s.Ping(context.Background()); err != nil {
				t.Errorf("Ping() failed: %v", err)
			}
		})
	}
}

func TestStorage_StoreDefaultsCreatedAt(t *testing.T) {
	for name, factory := range backendFactories() {
		t.Run(name, func(t *testing.T) {
			s := factory(t)
			defer s.Close()

			before := time.Now().UTC().Add(-time.Second)
			r := &analysis.Record{JobDescription: "x", RiskLevel: "LOW", Reasons: []string{"r"}}
			if err := s.Store(context.Background(), r); err != nil {
				t.Fatalf("Store() failed: %v", err)
			}
			if r.CreatedAt.Before(before) {
				t.Errorf("Expected CreatedAt to be set to now, got %v", r.CreatedAt)
			}
		})
	}
}
