package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestNewWatcher_RequiresPath(t *testing.T) {
	if _, err := NewWatcher("", 0, nil); err == nil {
		t.Error("expected error for empty path")
	}
}

func TestWatcher_ReloadsOnChange(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, "telemetry:\n  logging:\n    level: info\n")

	w, err := NewWatcher(path, 20*time.Millisecond, nil)
	if err != nil {
		t.Fatalf("NewWatcher() error = %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	reloaded := make(chan *Config, 4)
	done := make(chan error, 1)
	go func() {
		done <- w.Watch(ctx, func(cfg *Config) { reloaded <- cfg })
	}()

	// Give the watcher a moment to start
	time.Sleep(50 * time.Millisecond)

	if err := os.WriteFile(path, []byte("telemetry:\n  logging:\n    level: debug\n"), 0644); err != nil {
		t.Fatal(err)
	}

	select {
	case cfg := <-reloaded:
		if cfg.Telemetry.Logging.Level != "debug" {
			t.Errorf("reloaded level = %q, want debug", cfg.Telemetry.Logging.Level)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for reload")
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Watch() error = %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("watcher did not stop")
	}
}

func TestWatcher_IgnoresInvalidAndUnrelatedFiles(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, "")

	w, err := NewWatcher(path, 20*time.Millisecond, nil)
	if err != nil {
		t.Fatalf("NewWatcher() error = %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	reloaded := make(chan *Config, 4)
	go func() { _ = w.Watch(ctx, func(cfg *Config) { reloaded <- cfg }) }()
	time.Sleep(50 * time.Millisecond)

	other := filepath.Join(filepath.Dir(path), "other.yaml")
	if err := os.WriteFile(other, []byte("x: 1\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("storage:\n  backend: postgres\n"), 0644); err != nil {
		t.Fatal(err)
	}

	select {
	case cfg := <-reloaded:
		t.Fatalf("unexpected reload: %+v", cfg.Storage)
	case <-time.After(300 * time.Millisecond):
	}
}
