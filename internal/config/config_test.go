package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.App.Port != 8080 {
		t.Fatalf("port = %d, want 8080", cfg.App.Port)
	}
	if cfg.Storage.KeyPrefix != "wfx:" {
		t.Fatalf("key prefix = %q, want wfx:", cfg.Storage.KeyPrefix)
	}
	if cfg.Grid.TransactionType != "TechPack" {
		t.Fatalf("transaction type = %q, want TechPack", cfg.Grid.TransactionType)
	}
}

func TestLoad_OverridesFromYAML(t *testing.T) {
	path := writeConfig(t, `
app:
  name: Test Console
  environment: test
  port: 9090
  shutdown_timeout: 5s
database:
  driver: memory
storage:
  key_prefix: "t:"
  max_value_bytes: 128
  session_ttl: 1h
  sweep_schedule: "0 * * * *"
grid:
  api_url: https://example.com/grid
  transaction_type: TechPack
  timeout: 3s
  page_size: 25
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.App.Name != "Test Console" || cfg.App.Port != 9090 {
		t.Fatalf("unexpected app config: %+v", cfg.App)
	}
	if cfg.Storage.SessionTTL != time.Hour {
		t.Fatalf("session ttl = %v, want 1h", cfg.Storage.SessionTTL)
	}
	if cfg.Grid.PageSize != 25 {
		t.Fatalf("page size = %d, want 25", cfg.Grid.PageSize)
	}
	// Untouched sections keep defaults.
	if cfg.Theme.PoolIdleTTL != 30*time.Minute {
		t.Fatalf("pool idle ttl = %v, want 30m", cfg.Theme.PoolIdleTTL)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{name: "defaults", mutate: func(*Config) {}},
		{
			name:    "bad_environment",
			mutate:  func(c *Config) { c.App.Environment = "qa" },
			wantErr: "config.app.environment",
		},
		{
			name:    "sqlite_without_filename",
			mutate:  func(c *Config) { c.Database.Filename = "" },
			wantErr: "database filename is required",
		},
		{
			name:    "bad_cron",
			mutate:  func(c *Config) { c.Storage.SweepSchedule = "every minute" },
			wantErr: "storage sweep schedule",
		},
		{
			name:    "bad_grid_url",
			mutate:  func(c *Config) { c.Grid.APIURL = "not a url" },
			wantErr: "config.grid.apiurl",
		},
		{
			name: "auth_without_hash",
			mutate: func(c *Config) {
				c.Auth.Enabled = true
				c.Auth.PasswordHash = ""
			},
			wantErr: "WFX_AUTH_PASSWORD_HASH",
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			cfg := Default()
			test.mutate(cfg)
			err := cfg.Validate()
			if test.wantErr == "" {
				if err != nil {
					t.Fatalf("Validate() error = %v, want nil", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), test.wantErr) {
				t.Fatalf("Validate() error = %v, want containing %q", err, test.wantErr)
			}
		})
	}
}
