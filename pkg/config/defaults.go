package config

import "time"

// Default values for configuration fields.
const (
	// Server defaults
	DefaultListenAddress   = "0.0.0.0:5000"
	DefaultReadTimeout     = 15 * time.Second
	DefaultWriteTimeout    = 30 * time.Second
	DefaultIdleTimeout     = 120 * time.Second
	DefaultShutdownTimeout = 30 * time.Second
	DefaultRequestTimeout  = 20 * time.Second
	DefaultMaxHeaderBytes  = 1048576 // 1MB
	DefaultMaxBodyBytes    = 1048576 // 1MB

	// CORS defaults
	DefaultCORSEnabled = true
	DefaultCORSMaxAge  = 3600

	// Rate limit defaults
	DefaultRateLimitEnabled = false
	DefaultRateLimitRPS     = 10.0
	DefaultRateLimitBurst   = 20

	// Storage defaults
	DefaultStorageBackend       = BackendSQLite
	DefaultSQLitePath           = "data/jobscan.db"
	DefaultSQLiteDriver         = "sqlite3"
	DefaultSQLiteMaxOpenConns   = 10
	DefaultSQLiteMaxIdleConns   = 5
	DefaultSQLiteWALMode        = true
	DefaultSQLiteBusyTimeout    = 5 * time.Second
	DefaultMySQLHost            = "127.0.0.1"
	DefaultMySQLPort            = 3306
	DefaultMySQLUser            = "root"
	DefaultMySQLDatabase        = "scam_detector"
	DefaultMySQLMaxOpenConns    = 10
	DefaultMySQLMaxIdleConns    = 5
	DefaultMySQLConnMaxLifetime = 30 * time.Minute
	DefaultMySQLConnectTimeout  = 5 * time.Second

	// Recorder defaults
	DefaultRecorderEnabled      = true
	DefaultRecorderWriteTimeout = 5 * time.Second

	// Retention defaults
	DefaultRetentionEnabled  = false
	DefaultRetentionDays     = 90
	DefaultRetentionSchedule = "0 3 * * *"

	// Query defaults
	DefaultPerPage      = 20
	DefaultMaxPerPage   = 200
	DefaultQueryTimeout = 10 * time.Second

	// Telemetry defaults
	DefaultLoggingLevel       = "info"
	DefaultLoggingFormat      = "json"
	DefaultMetricsEnabled     = true
	DefaultMetricsPath        = "/metrics"
	DefaultMetricsNamespace   = "jobscan"
	DefaultTracingEnabled     = false
	DefaultTracingServiceName = "jobscan"
	DefaultTracingSampleRatio = 1.0
	DefaultTracingTimeout     = 10 * time.Second
	DefaultLivenessPath       = "/health/live"
	DefaultReadinessPath      = "/health/ready"
	DefaultVersionPath        = "/version"
	DefaultHealthCheckTimeout = 2 * time.Second
)

// DefaultDurationBuckets are histogram buckets (seconds) sized for an engine
// that runs in microseconds and a storage write that runs in milliseconds.
var DefaultDurationBuckets = []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5}

// DefaultConfig returns a configuration with every field at its default.
// YAML is decoded on top of it, so boolean defaults survive unless the file
// sets them explicitly.
func DefaultConfig() *Config {
	cfg := &Config{
		Server: ServerConfig{
			CORS: CORSConfig{Enabled: DefaultCORSEnabled},
			RateLimit: RateLimitConfig{
				Enabled: DefaultRateLimitEnabled,
			},
		},
		Storage: StorageConfig{
			SQLite: SQLiteConfig{WALMode: DefaultSQLiteWALMode},
		},
		Recorder: RecorderConfig{Enabled: DefaultRecorderEnabled},
		Retention: RetentionConfig{
			Enabled: DefaultRetentionEnabled,
			Days:    DefaultRetentionDays,
		},
		Telemetry: TelemetryConfig{
			Metrics: MetricsConfig{Enabled: DefaultMetricsEnabled},
			Tracing: TracingConfig{Enabled: DefaultTracingEnabled, SampleRatio: DefaultTracingSampleRatio},
		},
	}
	ApplyDefaults(cfg)
	return cfg
}

// ApplyDefaults sets defaults for any fields that have zero values.
// It is idempotent. Booleans are not touched; see DefaultConfig.
func ApplyDefaults(cfg *Config) {
	applyServerDefaults(&cfg.Server)
	applyStorageDefaults(&cfg.Storage)

	if cfg.Recorder.WriteTimeout == 0 {
		cfg.Recorder.WriteTimeout = DefaultRecorderWriteTimeout
	}

	if cfg.Retention.Schedule == "" {
		cfg.Retention.Schedule = DefaultRetentionSchedule
	}

	if cfg.Query.DefaultPerPage == 0 {
		cfg.Query.DefaultPerPage = DefaultPerPage
	}
	if cfg.Query.MaxPerPage == 0 {
		cfg.Query.MaxPerPage = DefaultMaxPerPage
	}
	if cfg.Query.Timeout == 0 {
		cfg.Query.Timeout = DefaultQueryTimeout
	}

	applyTelemetryDefaults(&cfg.Telemetry)
}

func applyServerDefaults(s *ServerConfig) {
	if s.ListenAddress == "" {
		s.ListenAddress = DefaultListenAddress
	}
	if s.ReadTimeout == 0 {
		s.ReadTimeout = DefaultReadTimeout
	}
	if s.WriteTimeout == 0 {
		s.WriteTimeout = DefaultWriteTimeout
	}
	if s.IdleTimeout == 0 {
		s.IdleTimeout = DefaultIdleTimeout
	}
	if s.ShutdownTimeout == 0 {
		s.ShutdownTimeout = DefaultShutdownTimeout
	}
	if s.RequestTimeout == 0 {
		s.RequestTimeout = DefaultRequestTimeout
	}
	if s.MaxHeaderBytes == 0 {
		s.MaxHeaderBytes = DefaultMaxHeaderBytes
	}
	if s.MaxBodyBytes == 0 {
		s.MaxBodyBytes = DefaultMaxBodyBytes
	}

	if len(s.CORS.AllowedOrigins) == 0 {
		s.CORS.AllowedOrigins = []string{"*"}
	}
	if len(s.CORS.AllowedMethods) == 0 {
		s.CORS.AllowedMethods = []string{"GET", "POST", "OPTIONS"}
	}
	if len(s.CORS.AllowedHeaders) == 0 {
		s.CORS.AllowedHeaders = []string{"Content-Type", "X-Request-ID"}
	}
	if s.CORS.MaxAge == 0 {
		s.CORS.MaxAge = DefaultCORSMaxAge
	}

	if s.RateLimit.RequestsPerSecond == 0 {
		s.RateLimit.RequestsPerSecond = DefaultRateLimitRPS
	}
	if s.RateLimit.Burst == 0 {
		s.RateLimit.Burst = DefaultRateLimitBurst
	}
}

func applyStorageDefaults(s *StorageConfig) {
	if s.Backend == "" {
		s.Backend = DefaultStorageBackend
	}

	if s.SQLite.Path == "" {
		s.SQLite.Path = DefaultSQLitePath
	}
	if s.SQLite.Driver == "" {
		s.SQLite.Driver = DefaultSQLiteDriver
	}
	if s.SQLite.MaxOpenConns == 0 {
		s.SQLite.MaxOpenConns = DefaultSQLiteMaxOpenConns
	}
	if s.SQLite.MaxIdleConns == 0 {
		s.SQLite.MaxIdleConns = DefaultSQLiteMaxIdleConns
	}
	if s.SQLite.BusyTimeout == 0 {
		s.SQLite.BusyTimeout = DefaultSQLiteBusyTimeout
	}

	if s.MySQL.Host == "" {
		s.MySQL.Host = DefaultMySQLHost
	}
	if s.MySQL.Port == 0 {
		s.MySQL.Port = DefaultMySQLPort
	}
	if s.MySQL.User == "" {
		s.MySQL.User = DefaultMySQLUser
	}
	if s.MySQL.Database == "" {
		s.MySQL.Database = DefaultMySQLDatabase
	}
	if s.MySQL.MaxOpenConns == 0 {
		s.MySQL.MaxOpenConns = DefaultMySQLMaxOpenConns
	}
	if s.MySQL.MaxIdleConns == 0 {
		s.MySQL.MaxIdleConns = DefaultMySQLMaxIdleConns
	}
	if s.MySQL.ConnMaxLifetime == 0 {
		s.MySQL.ConnMaxLifetime = DefaultMySQLConnMaxLifetime
	}
	if s.MySQL.ConnectTimeout == 0 {
		s.MySQL.ConnectTimeout = DefaultMySQLConnectTimeout
	}
}

func applyTelemetryDefaults(t *TelemetryConfig) {
	if t.Logging.Level == "" {
		t.Logging.Level = DefaultLoggingLevel
	}
	if t.Logging.Format == "" {
		t.Logging.Format = DefaultLoggingFormat
	}

	if t.Metrics.Path == "" {
		t.Metrics.Path = DefaultMetricsPath
	}
	if t.Metrics.Namespace == "" {
		t.Metrics.Namespace = DefaultMetricsNamespace
	}
	if len(t.Metrics.DurationBuckets) == 0 {
		t.Metrics.DurationBuckets = append([]float64(nil), DefaultDurationBuckets...)
	}

	if t.Tracing.ServiceName == "" {
		t.Tracing.ServiceName = DefaultTracingServiceName
	}
	if t.Tracing.Timeout == 0 {
		t.Tracing.Timeout = DefaultTracingTimeout
	}

	if t.Health.LivenessPath == "" {
		t.Health.LivenessPath = DefaultLivenessPath
	}
	if t.Health.ReadinessPath == "" {
		t.Health.ReadinessPath = DefaultReadinessPath
	}
	if t.Health.VersionPath == "" {
		t.Health.VersionPath = DefaultVersionPath
	}
	if t.Health.CheckTimeout == 0 {
		t.Health.CheckTimeout = DefaultHealthCheckTimeout
	}
}
