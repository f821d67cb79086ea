package storage

import (
	"database/sql"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"mercator-hq/jobscan/pkg/analysis"
)

// SQLite driver names registered with database/sql.
const (
	// DriverCGO is github.com/mattn/go-sqlite3.
	DriverCGO = "sqlite3"
	// DriverPureGo is modernc.org/sqlite.
	DriverPureGo = "sqlite"
)

// SQLiteConfig contains configuration for the SQLite storage backend.
type SQLiteConfig struct {
	// Path is the database file path, or ":memory:".
	Path string

	// Driver selects the database/sql driver: "sqlite3" (CGO) or "sqlite"
	// (pure Go). Default: "sqlite3"
	Driver string

	// MaxOpenConns is the maximum number of open connections to the database.
	// Default: 10
	MaxOpenConns int

	// MaxIdleConns is the maximum number of idle connections.
	// Default: 5
	MaxIdleConns int

	// WALMode enables Write-Ahead Logging mode for better concurrency.
	// Default: true
	WALMode bool

	// BusyTimeout is the duration to wait when the database is locked.
	// Default: 5 seconds
	BusyTimeout time.Duration
}

// DefaultSQLiteConfig returns the default SQLite configuration.
func DefaultSQLiteConfig() *SQLiteConfig {
	return &SQLiteConfig{
		Path:         "data/jobscan.db",
		Driver:       DriverCGO,
		MaxOpenConns: 10,
		MaxIdleConns: 5,
		WALMode:      true,
		BusyTimeout:  5 * time.Second,
	}
}

// SQLiteStorage implements analysis.Storage using SQLite.
type SQLiteStorage struct {
	sqlStore
	config *SQLiteConfig
}

// NewSQLiteStorage opens the database, applies pragmas and creates the schema.
func NewSQLiteStorage(config *SQLiteConfig) (*SQLiteStorage, error) {
	if config == nil {
		config = DefaultSQLiteConfig()
	}
	if config.Driver == "" {
		config.Driver = DriverCGO
	}

	logger := slog.Default().With("component", "analysis.storage.sqlite")

	dsn, err := sqliteDSN(config)
	if err != nil {
		return nil, analysis.NewStorageError("sqlite", "open", err)
	}

	db, err := sql.Open(openDriverName(config.Driver), dsn)
	if err != nil {
		return nil, analysis.NewStorageError("sqlite", "open", err)
	}

	// Every connection to ":memory:" is a separate database.
	if isMemoryPath(config.Path) {
		db.SetMaxOpenConns(1)
	} else {
		db.SetMaxOpenConns(config.MaxOpenConns)
		db.SetMaxIdleConns(config.MaxIdleConns)
	}

	s := &SQLiteStorage{
		sqlStore: sqlStore{db: db, backend: "sqlite", logger: logger},
		config:   config,
	}

	if err := s.initialize(); err != nil {
		db.Close()
		return nil, err
	}

	logger.Info("SQLite storage initialized",
		"path", config.Path,
		"driver", config.Driver,
		"wal_mode", config.WALMode,
		"max_open_conns", config.MaxOpenConns,
	)

	return s, nil
}

// sqliteDSN builds a DSN carrying the busy timeout so that every pooled
// connection gets it. The two drivers spell connection pragmas differently.
func sqliteDSN(config *SQLiteConfig) (string, error) {
	if config.Path == "" {
		return "", fmt.Errorf("sqlite path is required")
	}

	busyMs := config.BusyTimeout.Milliseconds()
	params := url.Values{}

	switch config.Driver {
	case DriverCGO:
		params.Set("_busy_timeout", fmt.Sprintf("%d", busyMs))
	case DriverPureGo:
		params.Add("_pragma", fmt.Sprintf("busy_timeout(%d)", busyMs))
	default:
		return "", fmt.Errorf("unknown sqlite driver %q (must be %q or %q)", config.Driver, DriverCGO, DriverPureGo)
	}

	if isMemoryPath(config.Path) {
		return config.Path, nil
	}

	return "file:" + config.Path + "?" + params.Encode(), nil
}

func isMemoryPath(path string) bool {
	return path == ":memory:" || strings.Contains(path, "mode=memory")
}

func (s *SQLiteStorage) initialize() error {
	if s.config.WALMode && !isMemoryPath(s.config.Path) {
		if _, err := s.db.Exec("PRAGMA journal_mode=WAL;"); err != nil {
			return analysis.NewStorageError("sqlite", "enable_wal", err)
		}
		s.logger.Debug("WAL mode enabled")
	}

	if _, err := s.db.Exec(fmt.Sprintf("PRAGMA busy_timeout=%d;", s.config.BusyTimeout.Milliseconds())); err != nil {
		return analysis.NewStorageError("sqlite", "set_busy_timeout", err)
	}

	if _, err := s.db.Exec(SQLiteSchema); err != nil {
		return analysis.NewStorageError("sqlite", "create_schema", err)
	}

	if _, err := s.db.Exec(SQLiteInsertSchemaVersion, SchemaVersion, formatTimestamp(time.Now())); err != nil {
		return analysis.NewStorageError("sqlite", "insert_schema_version", err)
	}

	return verifySchemaVersion(s.db, "sqlite", s.logger)
}

func verifySchemaVersion(db *sql.DB, backend string, logger *slog.Logger) error {
	var version int
	err := db.QueryRow(GetSchemaVersion).Scan(&version)
	if err != nil && err != sql.ErrNoRows {
		return analysis.NewStorageError(backend, "get_schema_version", err)
	}

	if version != SchemaVersion {
		return analysis.NewStorageError(backend, "schema_version_mismatch",
			fmt.Errorf("expected schema version %d, got %d", SchemaVersion, version))
	}

	logger.Debug("schema version verified", "version", version)
	return nil
}
