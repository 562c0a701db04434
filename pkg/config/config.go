package config

import "time"

// Config is the root configuration structure for Mercator Hermes.
// It contains all configuration sections for the gateway server, routing,
// session ledger, telemetry, and security settings.
type Config struct {
	// Server contains HTTP listener configuration including listen address,
	// timeouts, and CORS settings.
	Server ServerConfig `yaml:"server"`

	// Gateway contains the protocol gateway configuration: route table,
	// default target, connect/retry tuning, and relay keepalive settings.
	Gateway GatewayConfig `yaml:"gateway"`

	// Ledger contains configuration for session ledger recording and
	// storage including backend selection and retention settings.
	Ledger LedgerConfig `yaml:"ledger"`

	// Telemetry contains configuration for observability including logging
	// and metrics.
	Telemetry TelemetryConfig `yaml:"telemetry"`

	// Security contains security-related configuration, currently TLS
	// termination for the listener.
	Security SecurityConfig `yaml:"security"`
}

// ServerConfig contains configuration for the HTTP listener.
type ServerConfig struct {
	// ListenAddress is the address:port the gateway listens on.
	ListenAddress string `yaml:"listen_address"`

	// ReadTimeout is the maximum duration for reading an entire request.
	// It does not apply to hijacked (upgraded) connections.
	ReadTimeout time.Duration `yaml:"read_timeout"`

	// WriteTimeout is the maximum duration before timing out response writes.
	// It does not apply to hijacked (upgraded) connections.
	WriteTimeout time.Duration `yaml:"write_timeout"`

	// IdleTimeout is the maximum time to wait for the next request on a
	// keep-alive connection.
	IdleTimeout time.Duration `yaml:"idle_timeout"`

	// ShutdownTimeout is the grace period for in-flight requests during
	// shutdown. Relay sessions drive their own teardown and are not cut
	// short by this timeout.
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`

	// MaxHeaderBytes limits the size of request headers.
	MaxHeaderBytes int `yaml:"max_header_bytes"`

	// CORS contains cross-origin resource sharing settings.
	CORS CORSConfig `yaml:"cors"`
}

// CORSConfig contains CORS settings for plain HTTP responses.
type CORSConfig struct {
	// Enabled controls whether CORS headers are added.
	Enabled bool `yaml:"enabled"`

	// AllowedOrigins is a list of allowed origins. Use ["*"] for all.
	AllowedOrigins []string `yaml:"allowed_origins"`

	// AllowedMethods is a list of allowed HTTP methods.
	AllowedMethods []string `yaml:"allowed_methods"`

	// AllowedHeaders is a list of allowed HTTP headers.
	AllowedHeaders []string `yaml:"allowed_headers"`

	// ExposedHeaders is a list of headers exposed to clients.
	ExposedHeaders []string `yaml:"exposed_headers"`

	// MaxAge is the maximum age (in seconds) for preflight cache.
	MaxAge int `yaml:"max_age"`

	// AllowCredentials controls whether credentials are allowed.
	AllowCredentials bool `yaml:"allow_credentials"`
}

// GatewayConfig contains the protocol gateway configuration.
type GatewayConfig struct {
	// DefaultTarget is the backend used when no route prefix matches.
	// Empty means unmatched paths fail explicitly.
	DefaultTarget string `yaml:"default_target"`

	// Routes is the static route table: ordered prefix-to-target entries
	// with optional per-route subprotocol overrides.
	Routes []RouteConfig `yaml:"routes"`

	// ConnectTimeout bounds each outbound connection attempt during a
	// WebSocket upgrade.
	ConnectTimeout time.Duration `yaml:"connect_timeout"`

	// MaxRetries is the number of additional connection attempts after the
	// first one fails with a retryable error.
	MaxRetries int `yaml:"max_retries"`

	// RetryBaseDelay is the base for linear retry backoff:
	// delay = retry_base_delay * attempt_number.
	RetryBaseDelay time.Duration `yaml:"retry_base_delay"`

	// KeepaliveInterval is how often relay sessions ping both peers.
	KeepaliveInterval time.Duration `yaml:"keepalive_interval"`

	// WriteTimeout bounds individual WebSocket writes inside relay sessions.
	WriteTimeout time.Duration `yaml:"write_timeout"`

	// PongTimeout is how long a relay session waits for any traffic or pong
	// before considering a peer dead. Must be larger than KeepaliveInterval.
	PongTimeout time.Duration `yaml:"pong_timeout"`

	// MaxConcurrentSessions caps simultaneously active relay sessions.
	// 0 means unlimited.
	MaxConcurrentSessions int `yaml:"max_concurrent_sessions"`
}

// RouteConfig is a single route table entry.
type RouteConfig struct {
	// Prefix is the path prefix to match (must start with "/").
	Prefix string `yaml:"prefix"`

	// Target is the backend base URL (http, https, ws, or wss).
	Target string `yaml:"target"`

	// Protocol is an optional WebSocket subprotocol override.
	Protocol string `yaml:"protocol"`
}

// LedgerConfig contains configuration for the session ledger.
type LedgerConfig struct {
	// Enabled controls whether sessions are recorded at all.
	Enabled bool `yaml:"enabled"`

	// Backend selects the storage backend ("sqlite" or "memory").
	Backend string `yaml:"backend"`

	// SQLite contains SQLite backend settings.
	SQLite SQLiteConfig `yaml:"sqlite"`

	// Recorder contains async recorder settings.
	Recorder RecorderConfig `yaml:"recorder"`

	// Retention contains retention pruning settings.
	Retention RetentionConfig `yaml:"retention"`
}

// SQLiteConfig contains SQLite storage settings.
type SQLiteConfig struct {
	// Path is the database file path.
	Path string `yaml:"path"`

	// MaxOpenConns limits open database connections.
	MaxOpenConns int `yaml:"max_open_conns"`

	// MaxIdleConns limits idle database connections.
	MaxIdleConns int `yaml:"max_idle_conns"`

	// WALMode enables write-ahead logging.
	WALMode bool `yaml:"wal_mode"`

	// BusyTimeout is the SQLite busy timeout.
	BusyTimeout time.Duration `yaml:"busy_timeout"`
}

// RecorderConfig contains async recorder settings.
type RecorderConfig struct {
	// AsyncBuffer is the size of the in-memory record buffer. Records are
	// dropped (with a logged warning) when the buffer is full rather than
	// blocking relay teardown.
	AsyncBuffer int `yaml:"async_buffer"`

	// WriteTimeout bounds a single storage write.
	WriteTimeout time.Duration `yaml:"write_timeout"`
}

// RetentionConfig contains retention pruning settings.
type RetentionConfig struct {
	// Days is the number of days to retain records. 0 disables age pruning.
	Days int `yaml:"days"`

	// PruneSchedule is a cron expression for scheduled pruning.
	// Empty disables the scheduler.
	PruneSchedule string `yaml:"prune_schedule"`

	// MaxRecords caps the total record count. 0 means unlimited.
	MaxRecords int64 `yaml:"max_records"`
}

// TelemetryConfig contains observability configuration.
type TelemetryConfig struct {
	// Logging contains structured logging settings.
	Logging LoggingConfig `yaml:"logging"`

	// Metrics contains Prometheus metrics settings.
	Metrics MetricsConfig `yaml:"metrics"`
}

// LoggingConfig contains structured logging settings.
type LoggingConfig struct {
	// Level is the minimum log level ("debug", "info", "warn", "error").
	Level string `yaml:"level"`

	// Format is the output format ("json" or "text").
	Format string `yaml:"format"`
}

// MetricsConfig contains Prometheus metrics settings.
type MetricsConfig struct {
	// Enabled controls whether metrics are collected and served.
	Enabled bool `yaml:"enabled"`

	// Path is the metrics endpoint path.
	Path string `yaml:"path"`

	// Namespace is the Prometheus metric namespace.
	Namespace string `yaml:"namespace"`

	// Subsystem is the Prometheus metric subsystem.
	Subsystem string `yaml:"subsystem"`

	// SessionDurationBuckets are histogram buckets for relay session
	// durations in seconds.
	SessionDurationBuckets []float64 `yaml:"session_duration_buckets"`
}

// SecurityConfig contains security-related configuration.
type SecurityConfig struct {
	// TLS contains TLS termination settings for the listener.
	TLS TLSConfig `yaml:"tls"`
}

// TLSConfig contains TLS listener settings.
type TLSConfig struct {
	// Enabled controls whether the listener terminates TLS.
	Enabled bool `yaml:"enabled"`

	// CertFile is the path to the server certificate.
	CertFile string `yaml:"cert_file"`

	// KeyFile is the path to the server private key.
	KeyFile string `yaml:"key_file"`

	// ReloadInterval is how often certificate files are checked for
	// changes. 0 disables reloading.
	ReloadInterval time.Duration `yaml:"reload_interval"`
}
