// internal/config/config.go
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
	"gopkg.in/yaml.v3"
)

type DatabaseConfig struct {
	Driver   string `yaml:"driver" validate:"required,oneof=sqlite memory"`
	Filename string `yaml:"filename"`
}

type StorageConfig struct {
	// Every key written through the storage service is namespaced under this prefix.
	KeyPrefix     string        `yaml:"key_prefix" validate:"required"`
	MaxValueBytes int           `yaml:"max_value_bytes" validate:"gt=0"`
	SessionTTL    time.Duration `yaml:"session_ttl" validate:"gt=0"`
	SweepSchedule string        `yaml:"sweep_schedule" validate:"required"`
}

type ThemeConfig struct {
	PoolIdleTTL time.Duration `yaml:"pool_idle_ttl" validate:"gt=0"`
}

type GridConfig struct {
	APIURL          string        `yaml:"api_url" validate:"required,url"`
	TransactionType string        `yaml:"transaction_type" validate:"required"`
	Timeout         time.Duration `yaml:"timeout" validate:"gt=0"`
	PageSize        int           `yaml:"page_size" validate:"gt=0"`
}

type AuthConfig struct {
	Enabled      bool   `yaml:"enabled"`
	Username     string `yaml:"username"`
	PasswordHash string `yaml:"-"` // Loaded from environment
	TrustProxy   bool   `yaml:"trust_proxy"`
}

type FormsConfig struct {
	SubmitDelay   time.Duration `yaml:"submit_delay" validate:"gte=0"`
	DefaultRegion string        `yaml:"default_region" validate:"len=2"`
}

type Config struct {
	App struct {
		Name            string        `yaml:"name" validate:"required"`
		Environment     string        `yaml:"environment" validate:"required,oneof=development staging production test"`
		Port            int           `yaml:"port" validate:"gt=0,lt=65536"`
		BaseURL         string        `yaml:"base_url"`
		StaticDir       string        `yaml:"static_dir"`
		ShutdownTimeout time.Duration `yaml:"shutdown_timeout" validate:"gt=0"`
		SecretKey       string        `yaml:"-"` // Loaded from environment
	} `yaml:"app"`

	Database DatabaseConfig `yaml:"database"`
	Storage  StorageConfig  `yaml:"storage"`
	Theme    ThemeConfig    `yaml:"theme"`
	Grid     GridConfig     `yaml:"grid"`
	Auth     AuthConfig     `yaml:"auth"`
	Forms    FormsConfig    `yaml:"forms"`
}

// Default returns the configuration used when no config file is present.
func Default() *Config {
	cfg := &Config{}
	cfg.App.Name = "WFX Console"
	cfg.App.Environment = "development"
	cfg.App.Port = 8080
	cfg.App.StaticDir = "build/bin/static"
	cfg.App.ShutdownTimeout = 30 * time.Second

	cfg.Database = DatabaseConfig{Driver: "sqlite", Filename: "data/wfx.db"}
	cfg.Storage = StorageConfig{
		KeyPrefix:     "wfx:",
		MaxValueBytes: 5 << 20,
		SessionTTL:    8 * time.Hour,
		SweepSchedule: "*/15 * * * *",
	}
	cfg.Theme = ThemeConfig{PoolIdleTTL: 30 * time.Minute}
	cfg.Grid = GridConfig{
		APIURL:          "https://wfxqa.worldfashionexchange.com/WFXDotNetCoreAPI/WFXWebAIAPI/api/WFXAI/GetErrorResolutionData",
		TransactionType: "TechPack",
		Timeout:         20 * time.Second,
		PageSize:        10,
	}
	cfg.Auth = AuthConfig{Username: "admin"}
	cfg.Forms = FormsConfig{SubmitDelay: 1500 * time.Millisecond, DefaultRegion: "US"}
	return cfg
}

// Load loads both .env and yaml configuration. Values missing from the yaml
// file keep their defaults.
func Load(configPath string) (*Config, error) {
	// Load .env file if it exists
	envPath := filepath.Join(filepath.Dir(configPath), ".env")
	if err := godotenv.Load(envPath); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("error loading .env file: %w", err)
	}

	cfg := Default()

	data, err := os.ReadFile(configPath)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("error parsing config file: %w", err)
		}
	case errors.Is(err, os.ErrNotExist):
		// Defaults only.
	default:
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	// Load sensitive values from environment
	cfg.App.SecretKey = os.Getenv("APP_SECRET_KEY")
	cfg.Auth.PasswordHash = os.Getenv("WFX_AUTH_PASSWORD_HASH")
	if port := strings.TrimSpace(os.Getenv("PORT")); port != "" {
		var parsed int
		if _, err := fmt.Sscanf(port, "%d", &parsed); err != nil {
			return nil, fmt.Errorf("invalid PORT %q: %w", port, err)
		}
		cfg.App.Port = parsed
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

var validate = validator.New()

func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
			fe := fieldErrs[0]
			return fmt.Errorf("%s failed validation for tag '%s'", strings.ToLower(fe.Namespace()), fe.Tag())
		}
		return err
	}

	if c.Database.Driver == "sqlite" && c.Database.Filename == "" {
		return fmt.Errorf("database filename is required for sqlite")
	}

	if _, err := cron.ParseStandard(c.Storage.SweepSchedule); err != nil {
		return fmt.Errorf("storage sweep schedule %q: %w", c.Storage.SweepSchedule, err)
	}

	if c.Auth.Enabled {
		if c.Auth.Username == "" {
			return fmt.Errorf("auth username is required when auth is enabled")
		}
		if c.Auth.PasswordHash == "" {
			return fmt.Errorf("WFX_AUTH_PASSWORD_HASH is required when auth is enabled")
		}
	}

	return nil
}

// Addr returns the listen address for the HTTP server.
func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.App.Port)
}
