package storage

import (
	"context"
	"fmt"

	"mercator-hq/jobscan/pkg/analysis"
	"mercator-hq/jobscan/pkg/config"
)

// New builds the storage backend selected by cfg.Backend.
func New(ctx context.Context, cfg *config.StorageConfig) (analysis.Storage, error) {
	switch cfg.Backend {
	case config.BackendSQLite, "":
		s, err := NewSQLiteStorage(&SQLiteConfig{
			Path:         cfg.SQLite.Path,
			Driver:       cfg.SQLite.Driver,
			MaxOpenConns: cfg.SQLite.MaxOpenConns,
			MaxIdleConns: cfg.SQLite.MaxIdleConns,
			WALMode:      cfg.SQLite.WALMode,
			BusyTimeout:  cfg.SQLite.BusyTimeout,
		})
		if err != nil {
			return nil, err
		}
		return s, nil
	case config.BackendMySQL:
		s, err := NewMySQLStorage(ctx, &MySQLConfig{
			DSN:             cfg.MySQL.DSN,
			Host:            cfg.MySQL.Host,
			Port:            cfg.MySQL.Port,
			User:            cfg.MySQL.User,
			Password:        cfg.MySQL.Password,
			Database:        cfg.MySQL.Database,
			MaxOpenConns:    cfg.MySQL.MaxOpenConns,
			MaxIdleConns:    cfg.MySQL.MaxIdleConns,
			ConnMaxLifetime: cfg.MySQL.ConnMaxLifetime,
			ConnectTimeout:  cfg.MySQL.ConnectTimeout,
		})
		if err != nil {
			return nil, err
		}
		return s, nil
	case config.BackendMemory:
		return NewMemoryStorage(), nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Backend)
	}
}
