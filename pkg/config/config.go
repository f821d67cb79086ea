package config

import "time"

// Storage backends.
const (
	BackendSQLite = "sqlite"
	BackendMySQL  = "mysql"
	BackendMemory = "memory"
)

// Config is the root configuration structure for jobscan.
type Config struct {
	// Server contains HTTP server configuration including listen address,
	// timeouts, request limits, CORS and rate limiting.
	Server ServerConfig `yaml:"server"`

	// Storage selects and configures the analysis storage backend.
	Storage StorageConfig `yaml:"storage"`

	// Recorder controls how analyses are persisted by the API.
	Recorder RecorderConfig `yaml:"recorder"`

	// Retention contains the pruning policy for stored analyses.
	Retention RetentionConfig `yaml:"retention"`

	// Query contains limits for the audit listing endpoint.
	Query QueryConfig `yaml:"query"`

	// Telemetry contains configuration for logging, metrics, tracing and
	// health endpoints.
	Telemetry TelemetryConfig `yaml:"telemetry"`
}

// ServerConfig contains configuration for the HTTP server.
type ServerConfig struct {
	// ListenAddress is the address and port to listen on.
	// Format: "host:port" (e.g., "127.0.0.1:5000", "0.0.0.0:5000").
	// Default: "0.0.0.0:5000"
	ListenAddress string `yaml:"listen_address" validate:"required,hostname_port"`

	// ReadTimeout is the maximum duration for reading the entire request.
	// Default: 15s
	ReadTimeout time.Duration `yaml:"read_timeout" validate:"gte=0"`

	// WriteTimeout is the maximum duration before timing out writes of the
	// response.
	// Default: 30s
	WriteTimeout time.Duration `yaml:"write_timeout" validate:"gte=0"`

	// IdleTimeout is the maximum time to wait for the next request on a
	// keep-alive connection.
	// Default: 120s
	IdleTimeout time.Duration `yaml:"idle_timeout" validate:"gte=0"`

	// ShutdownTimeout bounds graceful shutdown.
	// Default: 30s
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" validate:"gte=0"`

	// RequestTimeout is the per-request handler deadline. Requests that
	// exceed it receive 504.
	// Default: 20s
	RequestTimeout time.Duration `yaml:"request_timeout" validate:"gte=0"`

	// MaxHeaderBytes limits request header size.
	// Default: 1048576 (1MB)
	MaxHeaderBytes int `yaml:"max_header_bytes" validate:"gte=0"`

	// MaxBodyBytes limits the size of a POST /analyze-job body.
	// Default: 1048576 (1MB)
	MaxBodyBytes int64 `yaml:"max_body_bytes" validate:"gte=0"`

	// CORS contains Cross-Origin Resource Sharing configuration.
	CORS CORSConfig `yaml:"cors"`

	// RateLimit contains per-client request rate limiting.
	RateLimit RateLimitConfig `yaml:"rate_limit"`
}

// CORSConfig contains CORS configuration.
type CORSConfig struct {
	// Enabled controls whether CORS headers are sent.
	// Default: true
	Enabled bool `yaml:"enabled"`

	// AllowedOrigins is a list of allowed origins. ["*"] allows all.
	// Default: ["*"]
	AllowedOrigins []string `yaml:"allowed_origins"`

	// AllowedMethods is a list of allowed HTTP methods.
	// Default: ["GET", "POST", "OPTIONS"]
	AllowedMethods []string `yaml:"allowed_methods"`

	// AllowedHeaders is a list of allowed request headers.
	// Default: ["Content-Type", "X-Request-ID"]
	AllowedHeaders []string `yaml:"allowed_headers"`

	// MaxAge is the preflight cache lifetime in seconds.
	// Default: 3600
	MaxAge int `yaml:"max_age" validate:"gte=0"`
}

// RateLimitConfig contains token bucket rate limiting configuration.
// Limits apply per client IP.
type RateLimitConfig struct {
	// Enabled controls whether rate limiting is active.
	// Default: false
	Enabled bool `yaml:"enabled"`

	// RequestsPerSecond is the sustained request rate per client.
	// Default: 10
	RequestsPerSecond float64 `yaml:"requests_per_second" validate:"gte=0"`

	// Burst is the maximum burst size per client.
	// Default: 20
	Burst int `yaml:"burst" validate:"gte=0"`
}

// StorageConfig selects the storage backend.
type StorageConfig struct {
	// Backend is one of "sqlite", "mysql" or "memory".
	// Default: "sqlite"
	Backend string `yaml:"backend" validate:"oneof=sqlite mysql memory"`

	// SQLite configures the SQLite backend.
	SQLite SQLiteConfig `yaml:"sqlite"`

	// MySQL configures the MySQL backend.
	MySQL MySQLConfig `yaml:"mysql"`
}

// SQLiteConfig contains SQLite backend configuration.
type SQLiteConfig struct {
	// Path is the database file path.
	// Default: "data/jobscan.db"
	Path string `yaml:"path"`

	// Driver is "sqlite3" (mattn/go-sqlite3, requires CGO) or "sqlite"
	// (modernc.org/sqlite, pure Go).
	// Default: "sqlite3"
	Driver string `yaml:"driver" validate:"omitempty,oneof=sqlite3 sqlite"`

	// MaxOpenConns is the maximum number of open connections.
	// Default: 10
	MaxOpenConns int `yaml:"max_open_conns" validate:"gte=0"`

	// MaxIdleConns is the maximum number of idle connections.
	// Default: 5
	MaxIdleConns int `yaml:"max_idle_conns" validate:"gte=0"`

	// WALMode enables Write-Ahead Logging.
	// Default: true
	WALMode bool `yaml:"wal_mode"`

	// BusyTimeout is how long to wait on a locked database.
	// Default: 5s
	BusyTimeout time.Duration `yaml:"busy_timeout" validate:"gte=0"`
}

// MySQLConfig contains MySQL backend configuration.
type MySQLConfig struct {
	// DSN is a complete go-sql-driver/mysql DSN. Overrides the fields below.
	DSN string `yaml:"dsn"`

	// Host is the server host.
	// Default: "127.0.0.1"
	Host string `yaml:"host"`

	// Port is the server port.
	// Default: 3306
	Port int `yaml:"port" validate:"omitempty,min=1,max=65535"`

	User     string `yaml:"user"`
	Password string `yaml:"password"`

	// Database is the schema name.
	// Default: "scam_detector"
	Database string `yaml:"database"`

	// MaxOpenConns is the maximum number of open connections.
	// Default: 10
	MaxOpenConns int `yaml:"max_open_conns" validate:"gte=0"`

	// MaxIdleConns is the maximum number of idle connections.
	// Default: 5
	MaxIdleConns int `yaml:"max_idle_conns" validate:"gte=0"`

	// ConnMaxLifetime recycles older connections.
	// Default: 30m
	ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime" validate:"gte=0"`

	// ConnectTimeout bounds the initial dial.
	// Default: 5s
	ConnectTimeout time.Duration `yaml:"connect_timeout" validate:"gte=0"`
}

// RecorderConfig controls persistence of analysis results.
type RecorderConfig struct {
	// Enabled controls whether POST /analyze-job persists results.
	// Default: true
	Enabled bool `yaml:"enabled"`

	// WriteTimeout bounds a single storage write.
	// Default: 5s
	WriteTimeout time.Duration `yaml:"write_timeout" validate:"gte=0"`
}

// RetentionConfig contains the retention policy.
type RetentionConfig struct {
	// Enabled starts the scheduled pruner with the server.
	// Default: false
	Enabled bool `yaml:"enabled"`

	// Days is the number of days to retain analyses. 0 keeps them forever.
	// Default: 90
	Days int `yaml:"days" validate:"gte=0"`

	// Schedule is a standard cron expression.
	// Default: "0 3 * * *" (daily at 3 AM)
	Schedule string `yaml:"schedule"`

	// MaxRecords caps the number of stored analyses. 0 means unlimited.
	// Default: 0
	MaxRecords int64 `yaml:"max_records" validate:"gte=0"`
}

// QueryConfig contains audit listing limits.
type QueryConfig struct {
	// DefaultPerPage is used when per_page is not given.
	// Default: 20
	DefaultPerPage int `yaml:"default_per_page" validate:"gte=1"`

	// MaxPerPage is the upper clamp for per_page.
	// Default: 200
	MaxPerPage int `yaml:"max_per_page" validate:"gte=1"`

	// Timeout bounds a listing query.
	// Default: 10s
	Timeout time.Duration `yaml:"timeout" validate:"gte=0"`
}

// TelemetryConfig contains observability configuration.
type TelemetryConfig struct {
	// Logging contains logging configuration.
	Logging LoggingConfig `yaml:"logging"`

	// Metrics contains metrics collection configuration.
	Metrics MetricsConfig `yaml:"metrics"`

	// Tracing contains distributed tracing configuration.
	Tracing TracingConfig `yaml:"tracing"`

	// Health contains health check configuration.
	Health HealthConfig `yaml:"health"`
}

// LoggingConfig contains logging configuration.
type LoggingConfig struct {
	// Level is the minimum log level to emit.
	// Options: "debug", "info", "warn", "error"
	// Default: "info"
	Level string `yaml:"level" validate:"oneof=debug info warn error"`

	// Format controls the log output format.
	// Options: "json", "text"
	// Default: "json"
	Format string `yaml:"format" validate:"oneof=json text"`

	// AddSource includes file and line number in log entries.
	// Default: false
	AddSource bool `yaml:"add_source"`
}

// MetricsConfig contains metrics collection configuration.
type MetricsConfig struct {
	// Enabled controls whether metrics are collected and exposed.
	// Default: true
	Enabled bool `yaml:"enabled"`

	// Path is the HTTP path for the Prometheus endpoint.
	// Default: "/metrics"
	Path string `yaml:"path" validate:"omitempty,startswith=/"`

	// Namespace is the metric name prefix.
	// Default: "jobscan"
	Namespace string `yaml:"namespace"`

	// DurationBuckets defines histogram buckets for durations (seconds).
	// Default: [0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5]
	DurationBuckets []float64 `yaml:"duration_buckets"`
}

// TracingConfig contains OpenTelemetry tracing configuration.
type TracingConfig struct {
	// Enabled controls whether traces are exported.
	// Default: false
	Enabled bool `yaml:"enabled"`

	// Endpoint is the OTLP gRPC collector endpoint, e.g. "localhost:4317".
	Endpoint string `yaml:"endpoint"`

	// ServiceName is reported as service.name.
	// Default: "jobscan"
	ServiceName string `yaml:"service_name"`

	// SampleRatio is the fraction of traces to sample (0.0 to 1.0).
	// Default: 1.0
	SampleRatio float64 `yaml:"sample_ratio" validate:"gte=0,lte=1"`

	// Insecure disables TLS to the collector.
	// Default: false
	Insecure bool `yaml:"insecure"`

	// Timeout is the export timeout.
	// Default: 10s
	Timeout time.Duration `yaml:"timeout" validate:"gte=0"`
}

// HealthConfig contains health endpoint configuration.
type HealthConfig struct {
	// LivenessPath is the liveness probe path.
	// Default: "/health/live"
	LivenessPath string `yaml:"liveness_path" validate:"omitempty,startswith=/"`

	// ReadinessPath is the readiness probe path.
	// Default: "/health/ready"
	ReadinessPath string `yaml:"readiness_path" validate:"omitempty,startswith=/"`

	// VersionPath is the version endpoint path.
	// Default: "/version"
	VersionPath string `yaml:"version_path" validate:"omitempty,startswith=/"`

	// CheckTimeout bounds each component check.
	// Default: 2s
	CheckTimeout time.Duration `yaml:"check_timeout" validate:"gte=0"`
}
