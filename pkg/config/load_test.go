package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

// writeConfigFile writes YAML content to a temp file and returns its path.
func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}
	return path
}

func TestLoadConfig(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr bool
		check   func(t *testing.T, cfg *Config)
	}{
		{
			name: "full configuration",
			content: `
server:
  listen_address: "0.0.0.0:9000"
  read_timeout: 15s
gateway:
  default_target: "http://fallback:8080"
  routes:
    - prefix: "/api"
      target: "http://backend-a:8080"
    - prefix: "/api/graphql"
      target: "ws://backend-b:9090"
      protocol: "graphql-ws"
  connect_timeout: 5s
  max_retries: 2
  retry_base_delay: 100ms
ledger:
  enabled: true
  backend: memory
telemetry:
  logging:
    level: debug
    format: text
`,
			check: func(t *testing.T, cfg *Config) {
				if cfg.Server.ListenAddress != "0.0.0.0:9000" {
					t.Errorf("ListenAddress = %q, want %q", cfg.Server.ListenAddress, "0.0.0.0:9000")
				}
				if cfg.Server.ReadTimeout != 15*time.Second {
					t.Errorf("ReadTimeout = %v, want 15s", cfg.Server.ReadTimeout)
				}
				if len(cfg.Gateway.Routes) != 2 {
					t.Fatalf("len(Routes) = %d, want 2", len(cfg.Gateway.Routes))
				}
				if cfg.Gateway.Routes[1].Protocol != "graphql-ws" {
					t.Errorf("Routes[1].Protocol = %q, want %q", cfg.Gateway.Routes[1].Protocol, "graphql-ws")
				}
				if cfg.Gateway.MaxRetries != 2 {
					t.Errorf("MaxRetries = %d, want 2", cfg.Gateway.MaxRetries)
				}
				// Unset fields fall back to defaults.
				if cfg.Gateway.KeepaliveInterval != DefaultKeepaliveInterval {
					t.Errorf("KeepaliveInterval = %v, want default %v",
						cfg.Gateway.KeepaliveInterval, DefaultKeepaliveInterval)
				}
			},
		},
		{
			name:    "minimal configuration gets defaults",
			content: "gateway:\n  default_target: \"http://backend:8080\"\n",
			check: func(t *testing.T, cfg *Config) {
				if cfg.Server.ListenAddress != DefaultListenAddress {
					t.Errorf("ListenAddress = %q, want default %q",
						cfg.Server.ListenAddress, DefaultListenAddress)
				}
				if cfg.Telemetry.Logging.Level != DefaultLoggingLevel {
					t.Errorf("Logging.Level = %q, want default %q",
						cfg.Telemetry.Logging.Level, DefaultLoggingLevel)
				}
			},
		},
		{
			name:    "invalid YAML",
			content: "gateway: [not a mapping",
			wantErr: true,
		},
		{
			name: "validation failure surfaces",
			content: `
gateway:
  routes:
    - prefix: "no-slash"
      target: "http://backend:8080"
`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeConfigFile(t, tt.content)
			cfg, err := LoadConfig(path)
			if (err != nil) != tt.wantErr {
				t.Fatalf("LoadConfig() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err == nil && tt.check != nil {
				tt.check(t, cfg)
			}
		})
	}
}

// TestLoadConfigExplicitZeroes verifies an explicit zero in the file is kept
// for fields where zero is a meaningful setting, while absent keys still get
// the default.
func TestLoadConfigExplicitZeroes(t *testing.T) {
	path := writeConfigFile(t, `
gateway:
  default_target: "http://backend:8080"
  max_retries: 0
ledger:
  retention:
    days: 0
`)

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}

	if cfg.Gateway.MaxRetries != 0 {
		t.Errorf("MaxRetries = %d, want explicit 0 (no retries)", cfg.Gateway.MaxRetries)
	}
	if cfg.Ledger.Retention.Days != 0 {
		t.Errorf("Retention.Days = %d, want explicit 0 (age pruning off)", cfg.Ledger.Retention.Days)
	}

	// A file that never mentions them still gets the defaults.
	path = writeConfigFile(t, "gateway:\n  default_target: \"http://backend:8080\"\n")
	cfg, err = LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if cfg.Gateway.MaxRetries != DefaultMaxRetries {
		t.Errorf("MaxRetries = %d, want default %d", cfg.Gateway.MaxRetries, DefaultMaxRetries)
	}
	if cfg.Ledger.Retention.Days != DefaultLedgerRetentionDays {
		t.Errorf("Retention.Days = %d, want default %d", cfg.Ledger.Retention.Days, DefaultLedgerRetentionDays)
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("LoadConfig() with missing file should return error")
	}
}

func TestLoadConfigWithEnvOverrides(t *testing.T) {
	path := writeConfigFile(t, `
server:
  listen_address: "127.0.0.1:8080"
gateway:
  default_target: "http://file-target:8080"
  max_retries: 1
`)

	t.Setenv("HERMES_SERVER_LISTEN_ADDRESS", "0.0.0.0:7777")
	t.Setenv("HERMES_GATEWAY_MAX_RETRIES", "5")
	t.Setenv("HERMES_GATEWAY_DEFAULT_TARGET", "http://env-target:9090")
	t.Setenv("HERMES_LEDGER_BACKEND", "memory")

	cfg, err := LoadConfigWithEnvOverrides(path)
	if err != nil {
		t.Fatalf("LoadConfigWithEnvOverrides() error = %v", err)
	}

	if cfg.Server.ListenAddress != "0.0.0.0:7777" {
		t.Errorf("ListenAddress = %q, want env override %q", cfg.Server.ListenAddress, "0.0.0.0:7777")
	}
	if cfg.Gateway.MaxRetries != 5 {
		t.Errorf("MaxRetries = %d, want env override 5", cfg.Gateway.MaxRetries)
	}
	if cfg.Gateway.DefaultTarget != "http://env-target:9090" {
		t.Errorf("DefaultTarget = %q, want env override", cfg.Gateway.DefaultTarget)
	}
	if cfg.Ledger.Backend != "memory" {
		t.Errorf("Ledger.Backend = %q, want env override %q", cfg.Ledger.Backend, "memory")
	}
}

func TestLoadConfigWithEnvOverridesInvalid(t *testing.T) {
	path := writeConfigFile(t, `
gateway:
  default_target: "http://backend:8080"
`)

	// An override that breaks validation must fail the load.
	t.Setenv("HERMES_LEDGER_BACKEND", "postgres")

	if _, err := LoadConfigWithEnvOverrides(path); err == nil {
		t.Error("LoadConfigWithEnvOverrides() with invalid override should return error")
	}
}
