package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"mercator-hq/jobscan/pkg/analysis"
)

// timestampLayout is the fixed-width UTC layout used for created_at. Being
// fixed width, lexical order equals chronological order on every backend.
const timestampLayout = "2006-01-02 15:04:05.000000"

// likeEscape is the escape character for LIKE patterns built from user input.
const likeEscape = "!"

// defaultLimit caps Query when no limit is given.
const defaultLimit = 100

const selectColumns = "id, request_id, job_description, content_hash, risk_score, risk_level, reasons, created_at"

// sqlStore implements analysis.Storage over database/sql. The SQLite and
// MySQL backends share it; only connection setup and schema differ.
type sqlStore struct {
	db      *sql.DB
	backend string
	logger  *slog.Logger
}

// Store inserts a record and sets record.ID from the generated key.
func (s *sqlStore) Store(ctx context.Context, record *analysis.Record) error {
	reasons, err := json.Marshal(record.Reasons)
	if err != nil {
		return analysis.NewStorageError(s.backend, "store", err)
	}

	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now().UTC()
	}

	res, err := s.db.ExecContext(ctx, `
		INSERT INTO analyses (
			request_id, job_description, content_hash, risk_score, risk_level, reasons, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		record.RequestID, record.JobDescription, record.ContentHash,
		record.RiskScore, record.RiskLevel, string(reasons), formatTimestamp(record.CreatedAt),
	)
	if err != nil {
		return analysis.NewStorageError(s.backend, "store", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return analysis.NewStorageError(s.backend, "last_insert_id", err)
	}
	record.ID = id

	return nil
}

// Query retrieves records matching the query filters.
func (s *sqlStore) Query(ctx context.Context, query *analysis.Query) ([]*analysis.Record, error) {
	sqlQuery, args := s.selectQuery(query)

	rows, err := s.db.QueryContext(ctx, sqlQuery, args...)
	if err != nil {
		return nil, analysis.NewStorageError(s.backend, "query", err)
	}
	defer rows.Close()

	records := []*analysis.Record{}
	for rows.Next() {
		record, err := scanRow(rows)
		if err != nil {
			return nil, analysis.NewStorageError(s.backend, "scan", err)
		}
		records = append(records, record)
	}

	if err := rows.Err(); err != nil {
		return nil, analysis.NewStorageError(s.backend, "query", err)
	}

	return records, nil
}

// QueryStream streams records matching the query filters.
func (s *sqlStore) QueryStream(ctx context.Context, query *analysis.Query) (<-chan *analysis.Record, <-chan error, error) {
	recordsCh := make(chan *analysis.Record, 100)
	errCh := make(chan error, 1)

	sqlQuery, args := s.selectQuery(query)

	go func() {
		defer close(recordsCh)
		defer close(errCh)

		rows, err := s.db.QueryContext(ctx, sqlQuery, args...)
		if err != nil {
			errCh <- analysis.NewStorageError(s.backend, "query_stream", err)
			return
		}
		defer rows.Close()

		for rows.Next() {
			record, err := scanRow(rows)
			if err != nil {
				errCh <- analysis.NewStorageError(s.backend, "scan", err)
				return
			}

			select {
			case <-ctx.Done():
				errCh <- ctx.Err()
				return
			case recordsCh <- record:
			}
		}

		if err := rows.Err(); err != nil {
			errCh <- analysis.NewStorageError(s.backend, "query_stream", err)
		}
	}()

	return recordsCh, errCh, nil
}

// Count returns the number of records matching the query filters.
func (s *sqlStore) Count(ctx context.Context, query *analysis.Query) (int64, error) {
	sqlQuery := "SELECT COUNT(*) FROM analyses"
	whereClause, args := buildWhereClause(query)
	if whereClause != "" {
		sqlQuery += " WHERE " + whereClause
	}

	var count int64
	if err := s.db.QueryRowContext(ctx, sqlQuery, args...).Scan(&count); err != nil {
		return 0, analysis.NewStorageError(s.backend, "count", err)
	}

	return count, nil
}

// Delete removes records matching the query filters.
func (s *sqlStore) Delete(ctx context.Context, query *analysis.Query) (int64, error) {
	sqlQuery := "DELETE FROM analyses"
	whereClause, args := buildWhereClause(query)
	if whereClause != "" {
		sqlQuery += " WHERE " + whereClause
	}

	result, err := s.db.ExecContext(ctx, sqlQuery, args...)
	if err != nil {
		return 0, analysis.NewStorageError(s.backend, "delete", err)
	}

	count, err := result.RowsAffected()
	if err != nil {
		return 0, analysis.NewStorageError(s.backend, "delete", err)
	}

	return count, nil
}

// Ping verifies the database connection.
func (s *sqlStore) Ping(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return analysis.NewStorageError(s.backend, "ping", err)
	}
	return nil
}

// Close closes the database connection.
func (s *sqlStore) Close() error {
	if err := s.db.Close(); err != nil {
		return analysis.NewStorageError(s.backend, "close", err)
	}

	s.logger.Info("storage closed")
	return nil
}

// DB exposes the underlying handle for health checks and tests.
func (s *sqlStore) DB() *sql.DB {
	return s.db
}

func (s *sqlStore) selectQuery(query *analysis.Query) (string, []interface{}) {
	sqlQuery := "SELECT " + selectColumns + " FROM analyses"
	whereClause, args := buildWhereClause(query)
	if whereClause != "" {
		sqlQuery += " WHERE " + whereClause
	}

	order := "DESC"
	if strings.EqualFold(query.SortOrder, analysis.SortAsc) {
		order = "ASC"
	}
	sqlQuery += fmt.Sprintf(" ORDER BY created_at %s, id %s", order, order)

	limit := defaultLimit
	if query.Limit > 0 {
		limit = query.Limit
	}
	sqlQuery += fmt.Sprintf(" LIMIT %d", limit)

	if query.Offset > 0 {
		sqlQuery += fmt.Sprintf(" OFFSET %d", query.Offset)
	}

	return sqlQuery, args
}

// buildWhereClause builds a SQL WHERE clause (without the keyword) and its
// arguments from query filters.
func buildWhereClause(query *analysis.Query) (string, []interface{}) {
	var conditions []string
	var args []interface{}

	if query.RiskLevel != "" {
		conditions = append(conditions, "risk_level = ?")
		args = append(args, query.RiskLevel)
	}

	if query.StartTime != nil {
		conditions = append(conditions, "created_at >= ?")
		args = append(args, formatTimestamp(*query.StartTime))
	}
	if query.EndTime != nil {
		conditions = append(conditions, "created_at <= ?")
		args = append(args, formatTimestamp(*query.EndTime))
	}

	if query.Search != "" {
		conditions = append(conditions, "LOWER(job_description) LIKE ? ESCAPE '"+likeEscape+"'")
		args = append(args, "%"+escapeLike(strings.ToLower(query.Search))+"%")
	}

	return strings.Join(conditions, " AND "), args
}

func escapeLike(s string) string {
	r := strings.NewReplacer(likeEscape, likeEscape+likeEscape, "%", likeEscape+"%", "_", likeEscape+"_")
	return r.Replace(s)
}

func scanRow(rows *sql.Rows) (*analysis.Record, error) {
	var record analysis.Record
	var reasons []byte
	var createdAt interface{}

	err := rows.Scan(
		&record.ID, &record.RequestID, &record.JobDescription, &record.ContentHash,
		&record.RiskScore, &record.RiskLevel, &reasons, &createdAt,
	)
	if err != nil {
		return nil, err
	}

	if len(reasons) > 0 {
		if err := json.Unmarshal(reasons, &record.Reasons); err != nil {
			return nil, fmt.Errorf("decode reasons for id %d: %w", record.ID, err)
		}
	}

	record.CreatedAt, err = parseTimestamp(createdAt)
	if err != nil {
		return nil, fmt.Errorf("decode created_at for id %d: %w", record.ID, err)
	}

	return &record, nil
}

func formatTimestamp(t time.Time) string {
	return t.UTC().Format(timestampLayout)
}

// parseTimestamp accepts the forms drivers hand back for created_at: the text
// written by formatTimestamp, or a time.Time for drivers that parse DATETIME
// columns themselves.
func parseTimestamp(v interface{}) (time.Time, error) {
	switch t := v.(type) {
	case time.Time:
		return t.UTC(), nil
	case []byte:
		return parseTimestampString(string(t))
	case string:
		return parseTimestampString(t)
	case nil:
		return time.Time{}, fmt.Errorf("created_at is NULL")
	default:
		return time.Time{}, fmt.Errorf("unsupported created_at type %T", v)
	}
}

func parseTimestampString(s string) (time.Time, error) {
	for _, layout := range []string{timestampLayout, "2006-01-02 15:04:05", time.RFC3339Nano} {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", s)
}
