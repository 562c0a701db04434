package config

import "time"

// Default values for configuration fields.
const (
	// Server defaults
	DefaultListenAddress   = "127.0.0.1:8080"
	DefaultReadTimeout     = 30 * time.Second
	DefaultWriteTimeout    = 30 * time.Second
	DefaultIdleTimeout     = 120 * time.Second
	DefaultShutdownTimeout = 30 * time.Second
	DefaultMaxHeaderBytes  = 1048576 // 1MB

	// CORS defaults
	DefaultCORSEnabled          = true
	DefaultCORSMaxAge           = 3600 // 1 hour
	DefaultCORSAllowCredentials = false

	// Gateway defaults
	DefaultConnectTimeout        = 10 * time.Second
	DefaultMaxRetries            = 3
	DefaultRetryBaseDelay        = 250 * time.Millisecond
	DefaultKeepaliveInterval     = 27 * time.Second
	DefaultGatewayWriteTimeout   = 10 * time.Second
	DefaultPongTimeout           = 30 * time.Second
	DefaultMaxConcurrentSessions = 0 // unlimited

	// Ledger defaults
	DefaultLedgerEnabled            = true
	DefaultLedgerBackend            = "sqlite"
	DefaultLedgerSQLitePath         = "data/sessions.db"
	DefaultLedgerSQLiteMaxOpenConns = 10
	DefaultLedgerSQLiteMaxIdleConns = 5
	DefaultLedgerSQLiteWALMode      = true
	DefaultLedgerSQLiteBusyTimeout  = 5 * time.Second
	DefaultLedgerRecorderBuffer     = 1000
	DefaultLedgerRecorderTimeout    = 5 * time.Second
	DefaultLedgerRetentionDays      = 30
	DefaultLedgerRetentionSchedule  = "0 3 * * *"
	DefaultLedgerRetentionMax       = int64(0)

	// Telemetry defaults
	DefaultLoggingLevel     = "info"
	DefaultLoggingFormat    = "json"
	DefaultMetricsEnabled   = true
	DefaultMetricsPath      = "/metrics"
	DefaultMetricsNamespace = "mercator"
	DefaultMetricsSubsystem = "hermes"

	// Security defaults
	DefaultTLSEnabled        = false
	DefaultTLSReloadInterval = time.Minute
)

// DefaultCORSAllowedOrigins is the default CORS origin allowlist.
var DefaultCORSAllowedOrigins = []string{"*"}

// DefaultCORSAllowedMethods is the default CORS method allowlist.
var DefaultCORSAllowedMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}

// DefaultCORSAllowedHeaders is the default CORS header allowlist.
var DefaultCORSAllowedHeaders = []string{"Authorization", "Content-Type", "X-Request-ID"}

// DefaultSessionDurationBuckets are histogram buckets for relay session
// durations, spanning short-lived API calls to day-long subscriptions.
var DefaultSessionDurationBuckets = []float64{1, 10, 60, 300, 1800, 7200, 28800, 86400}

// ApplyDefaults fills in default values for unset configuration fields.
// It is called automatically by LoadConfig. Fields whose zero value is a
// meaningful setting (max_retries, retention days) are not touched here;
// LoadConfig seeds their defaults before unmarshalling so an explicit zero
// in the file survives.
func ApplyDefaults(cfg *Config) {
	// Server defaults
	if cfg.Server.ListenAddress == "" {
		cfg.Server.ListenAddress = DefaultListenAddress
	}
	if cfg.Server.ReadTimeout == 0 {
		cfg.Server.ReadTimeout = DefaultReadTimeout
	}
	if cfg.Server.WriteTimeout == 0 {
		cfg.Server.WriteTimeout = DefaultWriteTimeout
	}
	if cfg.Server.IdleTimeout == 0 {
		cfg.Server.IdleTimeout = DefaultIdleTimeout
	}
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = DefaultShutdownTimeout
	}
	if cfg.Server.MaxHeaderBytes == 0 {
		cfg.Server.MaxHeaderBytes = DefaultMaxHeaderBytes
	}

	// CORS defaults
	if cfg.Server.CORS.AllowedOrigins == nil {
		cfg.Server.CORS.AllowedOrigins = DefaultCORSAllowedOrigins
	}
	if cfg.Server.CORS.AllowedMethods == nil {
		cfg.Server.CORS.AllowedMethods = DefaultCORSAllowedMethods
	}
	if cfg.Server.CORS.AllowedHeaders == nil {
		cfg.Server.CORS.AllowedHeaders = DefaultCORSAllowedHeaders
	}
	if cfg.Server.CORS.MaxAge == 0 {
		cfg.Server.CORS.MaxAge = DefaultCORSMaxAge
	}

	// Gateway defaults
	if cfg.Gateway.ConnectTimeout == 0 {
		cfg.Gateway.ConnectTimeout = DefaultConnectTimeout
	}
	if cfg.Gateway.RetryBaseDelay == 0 {
		cfg.Gateway.RetryBaseDelay = DefaultRetryBaseDelay
	}
	if cfg.Gateway.KeepaliveInterval == 0 {
		cfg.Gateway.KeepaliveInterval = DefaultKeepaliveInterval
	}
	if cfg.Gateway.WriteTimeout == 0 {
		cfg.Gateway.WriteTimeout = DefaultGatewayWriteTimeout
	}
	if cfg.Gateway.PongTimeout == 0 {
		cfg.Gateway.PongTimeout = DefaultPongTimeout
	}

	// Ledger defaults
	if cfg.Ledger.Backend == "" {
		cfg.Ledger.Backend = DefaultLedgerBackend
	}
	if cfg.Ledger.SQLite.Path == "" {
		cfg.Ledger.SQLite.Path = DefaultLedgerSQLitePath
	}
	if cfg.Ledger.SQLite.MaxOpenConns == 0 {
		cfg.Ledger.SQLite.MaxOpenConns = DefaultLedgerSQLiteMaxOpenConns
	}
	if cfg.Ledger.SQLite.MaxIdleConns == 0 {
		cfg.Ledger.SQLite.MaxIdleConns = DefaultLedgerSQLiteMaxIdleConns
	}
	if cfg.Ledger.SQLite.BusyTimeout == 0 {
		cfg.Ledger.SQLite.BusyTimeout = DefaultLedgerSQLiteBusyTimeout
	}
	if cfg.Ledger.Recorder.AsyncBuffer == 0 {
		cfg.Ledger.Recorder.AsyncBuffer = DefaultLedgerRecorderBuffer
	}
	if cfg.Ledger.Recorder.WriteTimeout == 0 {
		cfg.Ledger.Recorder.WriteTimeout = DefaultLedgerRecorderTimeout
	}
	if cfg.Ledger.Retention.PruneSchedule == "" {
		cfg.Ledger.Retention.PruneSchedule = DefaultLedgerRetentionSchedule
	}

	// Telemetry defaults
	if cfg.Telemetry.Logging.Level == "" {
		cfg.Telemetry.Logging.Level = DefaultLoggingLevel
	}
	if cfg.Telemetry.Logging.Format == "" {
		cfg.Telemetry.Logging.Format = DefaultLoggingFormat
	}
	if cfg.Telemetry.Metrics.Path == "" {
		cfg.Telemetry.Metrics.Path = DefaultMetricsPath
	}
	if cfg.Telemetry.Metrics.Namespace == "" {
		cfg.Telemetry.Metrics.Namespace = DefaultMetricsNamespace
	}
	if cfg.Telemetry.Metrics.Subsystem == "" {
		cfg.Telemetry.Metrics.Subsystem = DefaultMetricsSubsystem
	}
	if len(cfg.Telemetry.Metrics.SessionDurationBuckets) == 0 {
		cfg.Telemetry.Metrics.SessionDurationBuckets = DefaultSessionDurationBuckets
	}

	// Security defaults
	if cfg.Security.TLS.ReloadInterval == 0 {
		cfg.Security.TLS.ReloadInterval = DefaultTLSReloadInterval
	}
}

// NewDefaultConfig returns a configuration populated entirely with defaults.
// Useful for tests and for `hermes validate --print-defaults`.
func NewDefaultConfig() *Config {
	cfg := &Config{
		Server: ServerConfig{
			CORS: CORSConfig{Enabled: DefaultCORSEnabled},
		},
		Gateway: GatewayConfig{MaxRetries: DefaultMaxRetries},
		Ledger: LedgerConfig{
			Enabled:   DefaultLedgerEnabled,
			Retention: RetentionConfig{Days: DefaultLedgerRetentionDays},
		},
		Telemetry: TelemetryConfig{
			Metrics: MetricsConfig{Enabled: DefaultMetricsEnabled},
		},
	}
	ApplyDefaults(cfg)
	return cfg
}
