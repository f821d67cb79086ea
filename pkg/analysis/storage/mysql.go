package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net"
	"strconv"
	"time"

	"github.com/go-sql-driver/mysql"

	"mercator-hq/jobscan/pkg/analysis"
)

// MySQLConfig contains configuration for the MySQL storage backend.
type MySQLConfig struct {
	// DSN is a go-sql-driver/mysql data source name. When set, the
	// individual connection fields below are ignored.
	DSN string

	Host     string
	Port     int
	User     string
	Password string
	Database string

	// MaxOpenConns is the maximum number of open connections.
	// Default: 10
	MaxOpenConns int

	// MaxIdleConns is the maximum number of idle connections.
	// Default: 5
	MaxIdleConns int

	// ConnMaxLifetime recycles connections older than this.
	// Default: 30 minutes
	ConnMaxLifetime time.Duration

	// ConnectTimeout bounds the initial dial.
	// Default: 5 seconds
	ConnectTimeout time.Duration
}

// DefaultMySQLConfig returns the default MySQL configuration.
func DefaultMySQLConfig() *MySQLConfig {
	return &MySQLConfig{
		Host:            "127.0.0.1",
		Port:            3306,
		User:            "root",
		Database:        "scam_detector",
		MaxOpenConns:    10,
		MaxIdleConns:    5,
		ConnMaxLifetime: 30 * time.Minute,
		ConnectTimeout:  5 * time.Second,
	}
}

// FormatDSN returns the driver DSN for the configuration. created_at is
// written and read as UTC text, so parseTime is always off.
func (c *MySQLConfig) FormatDSN() (string, error) {
	var cfg *mysql.Config
	if c.DSN != "" {
		parsed, err := mysql.ParseDSN(c.DSN)
		if err != nil {
			return "", fmt.Errorf("invalid mysql dsn: %w", err)
		}
		cfg = parsed
	} else {
		cfg = mysql.NewConfig()
		cfg.Net = "tcp"
		cfg.Addr = net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
		cfg.User = c.User
		cfg.Passwd = c.Password
		cfg.DBName = c.Database
	}

	if cfg.DBName == "" {
		return "", fmt.Errorf("mysql database name is required")
	}

	cfg.ParseTime = false
	cfg.Loc = time.UTC
	if c.ConnectTimeout > 0 {
		cfg.Timeout = c.ConnectTimeout
	}

	return cfg.FormatDSN(), nil
}

// MySQLStorage implements analysis.Storage using MySQL.
type MySQLStorage struct {
	sqlStore
	config *MySQLConfig
}

// NewMySQLStorage connects to MySQL and creates the schema if needed.
func NewMySQLStorage(ctx context.Context, config *MySQLConfig) (*MySQLStorage, error) {
	if config == nil {
		config = DefaultMySQLConfig()
	}

	logger := slog.Default().With("component", "analysis.storage.mysql")

	dsn, err := config.FormatDSN()
	if err != nil {
		return nil, analysis.NewStorageError("mysql", "open", err)
	}

	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, analysis.NewStorageError("mysql", "open", err)
	}

	db.SetMaxOpenConns(config.MaxOpenConns)
	db.SetMaxIdleConns(config.MaxIdleConns)
	db.SetConnMaxLifetime(config.ConnMaxLifetime)

	s := &MySQLStorage{
		sqlStore: sqlStore{db: db, backend: "mysql", logger: logger},
		config:   config,
	}

	if err := s.initialize(ctx); err != nil {
		db.Close()
		return nil, err
	}

	logger.Info("MySQL storage initialized",
		"max_open_conns", config.MaxOpenConns,
		"conn_max_lifetime", config.ConnMaxLifetime,
	)

	return s, nil
}

func (s *MySQLStorage) initialize(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return analysis.NewStorageError("mysql", "connect", err)
	}

	for _, stmt := range MySQLSchema {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return analysis.NewStorageError("mysql", "create_schema", err)
		}
	}

	if _, err := s.db.ExecContext(ctx, MySQLInsertSchemaVersion, SchemaVersion, formatTimestamp(time.Now())); err != nil {
		return analysis.NewStorageError("mysql", "insert_schema_version", err)
	}

	return verifySchemaVersion(s.db, "mysql", s.logger)
}
