package config

import (
	"fmt"
	"net/url"
	"strings"
)

// FieldError represents a validation error for a specific configuration field.
type FieldError struct {
	// Field is the dotted path to the configuration field
	// (e.g., "gateway.connect_timeout").
	Field string

	// Message is a human-readable error message.
	Message string
}

// Error returns the error message for this field error.
func (e FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationError represents one or more validation errors in a configuration.
// It implements the error interface and provides access to all field errors.
type ValidationError struct {
	// Errors contains all validation errors found in the configuration.
	Errors []FieldError
}

// Error returns a formatted string containing all validation errors.
func (e ValidationError) Error() string {
	if len(e.Errors) == 0 {
		return "configuration validation failed"
	}
	if len(e.Errors) == 1 {
		return fmt.Sprintf("configuration validation failed: %s", e.Errors[0].Error())
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("configuration validation failed with %d errors:\n", len(e.Errors)))
	for _, err := range e.Errors {
		sb.WriteString(fmt.Sprintf("  - %s\n", err.Error()))
	}
	return sb.String()
}

// Validate validates the entire configuration and returns a ValidationError
// if any validation rules fail. It returns nil if the configuration is valid.
// All validation errors are collected and returned together.
func Validate(cfg *Config) error {
	var errs []FieldError

	errs = append(errs, validateServer(&cfg.Server)...)
	errs = append(errs, validateGateway(&cfg.Gateway)...)
	errs = append(errs, validateLedger(&cfg.Ledger)...)
	errs = append(errs, validateTelemetry(&cfg.Telemetry)...)
	errs = append(errs, validateSecurity(&cfg.Security)...)

	if len(errs) > 0 {
		return ValidationError{Errors: errs}
	}

	return nil
}

// validateServer validates listener configuration.
func validateServer(cfg *ServerConfig) []FieldError {
	var errs []FieldError

	if cfg.ListenAddress == "" {
		errs = append(errs, FieldError{
			Field:   "server.listen_address",
			Message: "listen address is required",
		})
	}
	if cfg.ReadTimeout < 0 {
		errs = append(errs, FieldError{
			Field:   "server.read_timeout",
			Message: "read timeout must be positive",
		})
	}
	if cfg.WriteTimeout < 0 {
		errs = append(errs, FieldError{
			Field:   "server.write_timeout",
			Message: "write timeout must be positive",
		})
	}
	if cfg.ShutdownTimeout < 0 {
		errs = append(errs, FieldError{
			Field:   "server.shutdown_timeout",
			Message: "shutdown timeout must be positive",
		})
	}
	if cfg.MaxHeaderBytes < 0 {
		errs = append(errs, FieldError{
			Field:   "server.max_header_bytes",
			Message: "max header bytes must be positive",
		})
	}

	return errs
}

// validateGateway validates the gateway route table and connection tuning.
func validateGateway(cfg *GatewayConfig) []FieldError {
	var errs []FieldError

	if cfg.DefaultTarget != "" {
		if err := validateTargetURL(cfg.DefaultTarget); err != nil {
			errs = append(errs, FieldError{
				Field:   "gateway.default_target",
				Message: err.Error(),
			})
		}
	}

	seen := make(map[string]bool, len(cfg.Routes))
	for i, route := range cfg.Routes {
		field := fmt.Sprintf("gateway.routes[%d]", i)

		if route.Prefix == "" {
			errs = append(errs, FieldError{
				Field:   field + ".prefix",
				Message: "prefix is required",
			})
		} else if !strings.HasPrefix(route.Prefix, "/") {
			errs = append(errs, FieldError{
				Field:   field + ".prefix",
				Message: "prefix must start with /",
			})
		} else if seen[route.Prefix] {
			errs = append(errs, FieldError{
				Field:   field + ".prefix",
				Message: fmt.Sprintf("duplicate prefix %q", route.Prefix),
			})
		}
		seen[route.Prefix] = true

		if route.Target == "" {
			errs = append(errs, FieldError{
				Field:   field + ".target",
				Message: "target is required",
			})
		} else if err := validateTargetURL(route.Target); err != nil {
			errs = append(errs, FieldError{
				Field:   field + ".target",
				Message: err.Error(),
			})
		}
	}

	if cfg.ConnectTimeout <= 0 {
		errs = append(errs, FieldError{
			Field:   "gateway.connect_timeout",
			Message: "connect timeout must be greater than zero",
		})
	}
	if cfg.MaxRetries < 0 {
		errs = append(errs, FieldError{
			Field:   "gateway.max_retries",
			Message: "max retries must not be negative",
		})
	}
	if cfg.RetryBaseDelay < 0 {
		errs = append(errs, FieldError{
			Field:   "gateway.retry_base_delay",
			Message: "retry base delay must not be negative",
		})
	}
	if cfg.KeepaliveInterval <= 0 {
		errs = append(errs, FieldError{
			Field:   "gateway.keepalive_interval",
			Message: "keepalive interval must be greater than zero",
		})
	}
	if cfg.PongTimeout > 0 && cfg.PongTimeout <= cfg.KeepaliveInterval {
		errs = append(errs, FieldError{
			Field:   "gateway.pong_timeout",
			Message: "pong timeout must be greater than keepalive interval",
		})
	}
	if cfg.MaxConcurrentSessions < 0 {
		errs = append(errs, FieldError{
			Field:   "gateway.max_concurrent_sessions",
			Message: "max concurrent sessions must not be negative",
		})
	}

	return errs
}

// validateTargetURL checks that a target URL is parseable and uses a
// supported scheme.
func validateTargetURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid URL: %v", err)
	}
	switch u.Scheme {
	case "http", "https", "ws", "wss":
	default:
		return fmt.Errorf("unsupported scheme %q (must be http, https, ws, or wss)", u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("URL has no host")
	}
	return nil
}

// validateLedger validates session ledger configuration.
func validateLedger(cfg *LedgerConfig) []FieldError {
	var errs []FieldError

	if !cfg.Enabled {
		return errs
	}

	switch cfg.Backend {
	case "sqlite":
		if cfg.SQLite.Path == "" {
			errs = append(errs, FieldError{
				Field:   "ledger.sqlite.path",
				Message: "sqlite path is required when backend is sqlite",
			})
		}
	case "memory":
	default:
		errs = append(errs, FieldError{
			Field:   "ledger.backend",
			Message: fmt.Sprintf("unsupported backend %q (must be sqlite or memory)", cfg.Backend),
		})
	}

	if cfg.Recorder.AsyncBuffer < 0 {
		errs = append(errs, FieldError{
			Field:   "ledger.recorder.async_buffer",
			Message: "async buffer must not be negative",
		})
	}
	if cfg.Retention.Days < 0 {
		errs = append(errs, FieldError{
			Field:   "ledger.retention.days",
			Message: "retention days must not be negative",
		})
	}
	if cfg.Retention.MaxRecords < 0 {
		errs = append(errs, FieldError{
			Field:   "ledger.retention.max_records",
			Message: "max records must not be negative",
		})
	}

	return errs
}

// validateTelemetry validates telemetry configuration.
func validateTelemetry(cfg *TelemetryConfig) []FieldError {
	var errs []FieldError

	switch cfg.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, FieldError{
			Field:   "telemetry.logging.level",
			Message: fmt.Sprintf("unsupported level %q (must be debug, info, warn, or error)", cfg.Logging.Level),
		})
	}

	switch cfg.Logging.Format {
	case "json", "text":
	default:
		errs = append(errs, FieldError{
			Field:   "telemetry.logging.format",
			Message: fmt.Sprintf("unsupported format %q (must be json or text)", cfg.Logging.Format),
		})
	}

	if cfg.Metrics.Enabled && !strings.HasPrefix(cfg.Metrics.Path, "/") {
		errs = append(errs, FieldError{
			Field:   "telemetry.metrics.path",
			Message: "metrics path must start with /",
		})
	}

	return errs
}

// validateSecurity validates security configuration.
func validateSecurity(cfg *SecurityConfig) []FieldError {
	var errs []FieldError

	if cfg.TLS.Enabled {
		if cfg.TLS.CertFile == "" {
			errs = append(errs, FieldError{
				Field:   "security.tls.cert_file",
				Message: "cert file is required when TLS is enabled",
			})
		}
		if cfg.TLS.KeyFile == "" {
			errs = append(errs, FieldError{
				Field:   "security.tls.key_file",
				Message: "key file is required when TLS is enabled",
			})
		}
	}

	return errs
}
