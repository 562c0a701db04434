package config

import (
	"testing"
	"time"
)

func TestApplyDefaults(t *testing.T) {
	cfg := &Config{}
	ApplyDefaults(cfg)

	tests := []struct {
		name string
		got  interface{}
		want interface{}
	}{
		{"listen address", cfg.Server.ListenAddress, DefaultListenAddress},
		{"read timeout", cfg.Server.ReadTimeout, DefaultReadTimeout},
		{"shutdown timeout", cfg.Server.ShutdownTimeout, DefaultShutdownTimeout},
		{"connect timeout", cfg.Gateway.ConnectTimeout, DefaultConnectTimeout},
		{"retry base delay", cfg.Gateway.RetryBaseDelay, DefaultRetryBaseDelay},
		{"keepalive interval", cfg.Gateway.KeepaliveInterval, DefaultKeepaliveInterval},
		{"pong timeout", cfg.Gateway.PongTimeout, DefaultPongTimeout},
		{"ledger backend", cfg.Ledger.Backend, DefaultLedgerBackend},
		{"ledger sqlite path", cfg.Ledger.SQLite.Path, DefaultLedgerSQLitePath},
		{"retention schedule", cfg.Ledger.Retention.PruneSchedule, DefaultLedgerRetentionSchedule},
		{"logging level", cfg.Telemetry.Logging.Level, DefaultLoggingLevel},
		{"logging format", cfg.Telemetry.Logging.Format, DefaultLoggingFormat},
		{"metrics path", cfg.Telemetry.Metrics.Path, DefaultMetricsPath},
		{"metrics namespace", cfg.Telemetry.Metrics.Namespace, DefaultMetricsNamespace},
		{"tls reload interval", cfg.Security.TLS.ReloadInterval, DefaultTLSReloadInterval},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("default %s = %v, want %v", tt.name, tt.got, tt.want)
			}
		})
	}
}

func TestApplyDefaultsPreservesExplicitValues(t *testing.T) {
	cfg := &Config{}
	cfg.Server.ListenAddress = "0.0.0.0:1234"
	cfg.Gateway.ConnectTimeout = 2 * time.Second
	cfg.Gateway.MaxRetries = 7

	ApplyDefaults(cfg)

	if cfg.Server.ListenAddress != "0.0.0.0:1234" {
		t.Errorf("ListenAddress = %q, explicit value was overwritten", cfg.Server.ListenAddress)
	}
	if cfg.Gateway.ConnectTimeout != 2*time.Second {
		t.Errorf("ConnectTimeout = %v, explicit value was overwritten", cfg.Gateway.ConnectTimeout)
	}
	if cfg.Gateway.MaxRetries != 7 {
		t.Errorf("MaxRetries = %d, explicit value was overwritten", cfg.Gateway.MaxRetries)
	}
}

func TestNewDefaultConfigIsValid(t *testing.T) {
	cfg := NewDefaultConfig()
	if err := Validate(cfg); err != nil {
		t.Errorf("Validate(NewDefaultConfig()) error = %v, want nil", err)
	}
	if !cfg.Ledger.Enabled {
		t.Error("default config should enable the ledger")
	}
	if !cfg.Telemetry.Metrics.Enabled {
		t.Error("default config should enable metrics")
	}
	if cfg.Gateway.MaxRetries != DefaultMaxRetries {
		t.Errorf("MaxRetries = %d, want %d", cfg.Gateway.MaxRetries, DefaultMaxRetries)
	}
	if cfg.Ledger.Retention.Days != DefaultLedgerRetentionDays {
		t.Errorf("Retention.Days = %d, want %d", cfg.Ledger.Retention.Days, DefaultLedgerRetentionDays)
	}
}
