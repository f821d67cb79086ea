package storage

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"mercator-hq/jobscan/pkg/analysis"
)

// MemoryStorage implements analysis.Storage in memory. It backs tests and the
// "memory" backend; records are lost on restart.
type MemoryStorage struct {
	records map[int64]*analysis.Record
	nextID  int64
	pingErr error
	mu      sync.RWMutex
}

// NewMemoryStorage creates a new in-memory storage backend.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{
		records: make(map[int64]*analysis.Record),
		nextID:  1,
	}
}

// Store saves a copy of record and assigns its ID.
func (s *MemoryStorage) Store(ctx context.Context, record *analysis.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now().UTC()
	}
	record.ID = s.nextID
	s.nextID++

	s.records[record.ID] = copyRecord(record)
	return nil
}

// Query retrieves records matching the query filters.
func (s *MemoryStorage) Query(ctx context.Context, query *analysis.Query) ([]*analysis.Record, error) {
	matched := s.sorted(query)

	start := query.Offset
	if start > len(matched) {
		return []*analysis.Record{}, nil
	}

	limit := query.Limit
	if limit <= 0 {
		limit = defaultLimit
	}
	end := start + limit
	if end > len(matched) {
		end = len(matched)
	}

	return matched[start:end], nil
}

// QueryStream streams records matching the query filters.
func (s *MemoryStorage) QueryStream(ctx context.Context, query *analysis.Query) (<-chan *analysis.Record, <-chan error, error) {
	records, err := s.Query(ctx, query)
	if err != nil {
		return nil, nil, err
	}

	recordsCh := make(chan *analysis.Record, 100)
	errCh := make(chan error, 1)

	go func() {
		defer close(recordsCh)
		defer close(errCh)

		for _, record := range records {
			select {
			case <-ctx.Done():
				errCh <- ctx.Err()
				return
			case recordsCh <- record:
			}
		}
	}()

	return recordsCh, errCh, nil
}

// Count returns the number of records matching the query filters.
func (s *MemoryStorage) Count(ctx context.Context, query *analysis.Query) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var count int64
	for _, record := range s.records {
		if matchesQuery(record, query) {
			count++
		}
	}

	return count, nil
}

// Delete removes records matching the query filters.
func (s *MemoryStorage) Delete(ctx context.Context, query *analysis.Query) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var deleted int64
	for id, record := range s.records {
		if matchesQuery(record, query) {
			delete(s.records, id)
			deleted++
		}
	}

	return deleted, nil
}

// Ping returns the error set by SetPingError, if any.
func (s *MemoryStorage) Ping(ctx context.Context) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.pingErr != nil {
		return analysis.NewStorageError("memory", "ping", s.pingErr)
	}
	return nil
}

// Close releases resources held by the storage backend.
func (s *MemoryStorage) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.records = make(map[int64]*analysis.Record)
	return nil
}

// SetPingError makes Ping fail with err (for testing). A nil err restores it.
func (s *MemoryStorage) SetPingError(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.pingErr = err
}

// GetByID retrieves a single record by ID (for testing).
func (s *MemoryStorage) GetByID(id int64) *analysis.Record {
	s.mu.RLock()
	defer s.mu.RUnlock()

	record, ok := s.records[id]
	if !ok {
		return nil
	}
	return copyRecord(record)
}

// Size returns the number of records in storage (for testing).
func (s *MemoryStorage) Size() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.records)
}

func (s *MemoryStorage) sorted(query *analysis.Query) []*analysis.Record {
	s.mu.RLock()
	defer s.mu.RUnlock()

	matched := []*analysis.Record{}
	for _, record := range s.records {
		if matchesQuery(record, query) {
			matched = append(matched, copyRecord(record))
		}
	}

	asc := strings.EqualFold(query.SortOrder, analysis.SortAsc)
	sort.Slice(matched, func(i, j int) bool {
		a, b := matched[i], matched[j]
		if !a.CreatedAt.Equal(b.CreatedAt) {
			if asc {
				return a.CreatedAt.Before(b.CreatedAt)
			}
			return a.CreatedAt.After(b.CreatedAt)
		}
		if asc {
			return a.ID < b.ID
		}
		return a.ID > b.ID
	})

	return matched
}

func matchesQuery(record *analysis.Record, query *analysis.Query) bool {
	if query.RiskLevel != "" && record.RiskLevel != query.RiskLevel {
		return false
	}

	if query.StartTime != nil && record.CreatedAt.Before(*query.StartTime) {
		return false
	}
	if query.EndTime != nil && record.CreatedAt.After(*query.EndTime) {
		return false
	}

	if query.Search != "" &&
		!strings.Contains(strings.ToLower(record.JobDescription), strings.ToLower(query.Search)) {
		return false
	}

	return true
}

func copyRecord(record *analysis.Record) *analysis.Record {
	c := *record
	c.Reasons = append([]string(nil), record.Reasons...)
	return &c
}
