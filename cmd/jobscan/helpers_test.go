package main

import (
	"bytes"
	"context"
	"io"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/cobra"

	"mercator-hq/jobscan/pkg/analysis"
	"mercator-hq/jobscan/pkg/analysis/storage"
)

// useTempStore points the commands at a fresh SQLite file through the
// environment and returns a storage handle for seeding and inspection.
func useTempStore(t *testing.T) analysis.Storage {
	t.Helper()

	cfgFile = ""
	logLevel = "error"
	t.Setenv("SQLALCHEMY_DATABASE_URI", "")
	t.Setenv("DATABASE_URL", "")
	t.Setenv("JOBSCAN_STORAGE_BACKEND", "sqlite")
	t.Setenv("JOBSCAN_STORAGE_SQLITE_DRIVER", "sqlite")
	t.Setenv("JOBSCAN_STORAGE_SQLITE_PATH", filepath.Join(t.TempDir(), "jobscan.db"))
	t.Cleanup(func() { logLevel = "" })

	cfg, err := loadConfig()
	if err != nil {
		t.Fatalf("loadConfig() failed: %v", err)
	}
	store, err := storage.New(context.Background(), &cfg.Storage)
	if err != nil {
		t.Fatalf("storage.New() failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func seedRecords(t *testing.T, store analysis.Storage, records ...*analysis.Record) {
	t.Helper()
	for _, r := range records {
		if err := store.Store(context.Background(), r); err != nil {
			t.Fatalf("Store() failed: %v", err)
		}
	}
}

func record(desc, level string, score int, created time.Time, reasons ...string) *analysis.Record {
	return &analysis.Record{
		JobDescription: desc,
		RiskLevel:      level,
		RiskScore:      score,
		Reasons:        reasons,
		CreatedAt:      created,
	}
}

// testCommand returns a command whose output is captured in the returned
// buffer.
func testCommand(stdin string) (*cobra.Command, *bytes.Buffer) {
	cmd := &cobra.Command{}
	out := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetErr(io.Discard)
	cmd.SetIn(strings.NewReader(stdin))
	return cmd, out
}
