package config

import "testing"

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Server.ListenAddress != "0.0.0.0:5000" {
		t.Errorf("listen address = %q", cfg.Server.ListenAddress)
	}
	if cfg.Storage.Backend != BackendSQLite {
		t.Errorf("backend = %q", cfg.Storage.Backend)
	}
	if cfg.Storage.MySQL.Database != "scam_detector" {
		t.Errorf("mysql database = %q", cfg.Storage.MySQL.Database)
	}
	if cfg.Query.DefaultPerPage != 20 || cfg.Query.MaxPerPage != 200 {
		t.Errorf("query = %+v", cfg.Query)
	}
	if !cfg.Recorder.Enabled {
		t.Error("recorder disabled by default")
	}
	if !cfg.Storage.SQLite.WALMode {
		t.Error("WAL mode disabled by default")
	}
	if cfg.Retention.Enabled {
		t.Error("retention enabled by default")
	}
	if cfg.Retention.Days != 90 {
		t.Errorf("retention days = %d", cfg.Retention.Days)
	}
	if cfg.Telemetry.Tracing.Enabled {
		t.Error("tracing enabled by default")
	}
}

func TestApplyDefaults_Idempotent(t *testing.T) {
	cfg := &Config{}
	ApplyDefaults(cfg)
	first := *cfg
	ApplyDefaults(cfg)

	if cfg.Server.ListenAddress != first.Server.ListenAddress {
		t.Error("listen address changed on second call")
	}
	if len(cfg.Telemetry.Metrics.DurationBuckets) != len(DefaultDurationBuckets) {
		t.Errorf("buckets = %v", cfg.Telemetry.Metrics.DurationBuckets)
	}
}

func TestApplyDefaults_PreservesExplicitValues(t *testing.T) {
	cfg := &Config{}
	cfg.Server.ListenAddress = "127.0.0.1:1"
	cfg.Query.MaxPerPage = 50
	cfg.Telemetry.Metrics.DurationBuckets = []float64{1}

	ApplyDefaults(cfg)

	if cfg.Server.ListenAddress != "127.0.0.1:1" {
		t.Errorf("listen address overwritten: %q", cfg.Server.ListenAddress)
	}
	if cfg.Query.MaxPerPage != 50 {
		t.Errorf("max per page overwritten: %d", cfg.Query.MaxPerPage)
	}
	if len(cfg.Telemetry.Metrics.DurationBuckets) != 1 {
		t.Errorf("buckets overwritten: %v", cfg.Telemetry.Metrics.DurationBuckets)
	}
}

func TestApplyDefaults_BucketsAreCopied(t *testing.T) {
	cfg := &Config{}
	ApplyDefaults(cfg)
	cfg.Telemetry.Metrics.DurationBuckets[0] = 42

	if DefaultDurationBuckets[0] == 42 {
		t.Error("ApplyDefaults shares the DefaultDurationBuckets backing array")
	}
}
