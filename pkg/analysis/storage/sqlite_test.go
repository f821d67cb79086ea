package storage

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"mercator-hq/jobscan/pkg/analysis"
)

func TestSQLiteStorage_Initialize(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "init.db")

	s, err := NewSQLiteStorage(&SQLiteConfig{Path: dbPath, MaxOpenConns: 2, WALMode: true, BusyTimeout: time.Second})
	if err != nil {
		t.Fatalf("NewSQLiteStorage failed: %v", err)
	}
	defer s.Close()

	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Database file was not created")
	}

	var mode string
	if err := s.DB().QueryRow("PRAGMA journal_mode;").Scan(&mode); err != nil {
		t.Fatalf("Failed to read journal mode: %v", err)
	}
	if !strings.EqualFold(mode, "wal") {
		t.Errorf("Expected WAL journal mode, got %q", mode)
	}
}

func TestSQLiteStorage_Reopen(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "reopen.db")
	cfg := &SQLiteConfig{Path: dbPath, MaxOpenConns: 2, BusyTimeout: time.Second}

	s, err := NewSQLiteStorage(cfg)
	if err != nil {
		t.Fatalf("NewSQLiteStorage failed: %v", err)
	}
	seed(t, s, "persisted")
	s.Close()

	s, err = NewSQLiteStorage(cfg)
	if err != nil {
		t.Fatalf("Reopen failed: %v", err)
	}
	defer s.Close()

	count, err := s.Count(context.Background(), &analysis.Query{})
	if err != nil {
		t.Fatalf("Count() failed: %v", err)
	}
	if count != 1 {
		t.Errorf("Expected 1 record after reopen, got %d", count)
	}
}

func TestSQLiteStorage_InMemory(t *testing.T) {
	for _, driver := range []string{DriverCGO, DriverPureGo} {
		t.Run(driver, func(t *testing.T) {
			s, err := NewSQLiteStorage(&SQLiteConfig{Path: ":memory:", Driver: driver, MaxOpenConns: 4, BusyTimeout: time.Second})
			if err != nil {
				t.Fatalf("NewSQLiteStorage failed: %v", err)
			}
			defer s.Close()

			seed(t, s, "a", "b")
			count, err := s.Count(context.Background(), &analysis.Query{})
			if err != nil {
				t.Fatalf("Count() failed: %v", err)
			}
			if count != 2 {
				t.Errorf("Expected 2 records, got %d", count)
			}
		})
	}
}

func TestSQLiteStorage_ClosedErrors(t *testing.T) {
	s := createTempDB(t, DriverCGO)
	s.Close()

	_, err := s.Query(context.Background(), &analysis.Query{})
	var se *analysis.StorageError
	if !errors.As(err, &se) {
		t.Fatalf("Expected StorageError after close, got %v", err)
	}
	if se.Backend != "sqlite" || se.Operation != "query" {
		t.Errorf("Unexpected error fields: %+v", se)
	}

	if err := s.Ping(context.Background()); err == nil {
		t.Error("Expected Ping to fail after close")
	}
}

func TestSQLiteDSN(t *testing.T) {
	tests := []struct {
		name    string
		cfg     *SQLiteConfig
		want    string
		wantErr bool
	}{
		{
			name: "cgo driver",
			cfg:  &SQLiteConfig{Path: "data/a.db", Driver: DriverCGO, BusyTimeout: 5 * time.Second},
			want: "file:data/a.db?_busy_timeout=5000",
		},
		{
			name: "pure go driver",
			cfg:  &SQLiteConfig{Path: "data/a.db", Driver: DriverPureGo, BusyTimeout: 2 * time.Second},
			want: "file:data/a.db?_pragma=busy_timeout%282000%29",
		},
		{
			name: "memory",
			cfg:  &SQLiteConfig{Path: ":memory:", Driver: DriverCGO},
			want: ":memory:",
		},
		{
			name:    "unknown driver",
			cfg:     &SQLiteConfig{Path: "a.db", Driver: "postgres"},
			wantErr: true,
		},
		{
			name:    "empty path",
			cfg:     &SQLiteConfig{Driver: DriverCGO},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := sqliteDSN(tt.cfg)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("Expected error, got DSN %q", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("Expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestNewSQLiteStorage_UnknownDriver(t *testing.T) {
	_, err := NewSQLiteStorage(&SQLiteConfig{Path: filepath.Join(t.TempDir(), "x.db"), Driver: "bogus"})
	if err == nil {
		t.Fatal("Expected error for unknown driver")
	}
}
