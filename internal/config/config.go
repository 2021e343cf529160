// Package config provides configuration loading and validation for the CLI.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/jonathan/days-to-hire/internal/schemas"
	schemadocs "github.com/jonathan/days-to-hire/schemas"
)

// Supported storage backends.
const (
	BackendPostgres = "postgres"
	BackendSQLite   = "sqlite"
)

// Config represents the configuration that can be loaded from a JSON or YAML file.
// All fields are optional; missing values use defaults or must be provided via CLI flags.
type Config struct {
	// Storage
	DatabaseURL string `json:"database_url,omitempty" yaml:"database_url,omitempty"`                                  // PostgreSQL connection URL
	Backend     string `json:"backend,omitempty" yaml:"backend,omitempty" validate:"omitempty,oneof=postgres sqlite"` // postgres or sqlite
	SQLitePath  string `json:"sqlite_path,omitempty" yaml:"sqlite_path,omitempty"`                                    // SQLite database file

	// Batch
	MinPostings int    `json:"min_postings,omitempty" yaml:"min_postings,omitempty" validate:"gte=0"` // Retained postings needed to persist a group
	MetricsFile string `json:"metrics_file,omitempty" yaml:"metrics_file,omitempty"`                  // Prometheus textfile written after a run

	// Behavior
	LogLevel string `json:"log_level,omitempty" yaml:"log_level,omitempty" validate:"omitempty,oneof=DEBUG INFO WARNING WARN ERROR CRITICAL"`
	Port     int    `json:"port,omitempty" yaml:"port,omitempty" validate:"gte=0,lte=65535"`

	RateLimit RateLimitConfig `json:"rate_limit,omitempty" yaml:"rate_limit,omitempty"`
}

// RateLimitConfig configures per-client limiting of lookup requests.
type RateLimitConfig struct {
	Enabled           *bool    `json:"enabled,omitempty" yaml:"enabled,omitempty"`
	RequestsPerSecond float64  `json:"requests_per_second,omitempty" yaml:"requests_per_second,omitempty" validate:"gte=0"`
	Burst             int      `json:"burst,omitempty" yaml:"burst,omitempty" validate:"gte=0"`
	Whitelist         []string `json:"whitelist,omitempty" yaml:"whitelist,omitempty" validate:"dive,required"`
}

// IsEnabled reports whether rate limiting is on. Unset means enabled.
func (r RateLimitConfig) IsEnabled() bool {
	return r.Enabled == nil || *r.Enabled
}

// Defaults returns the built-in configuration.
func Defaults() Config {
	enabled := true
	return Config{
		Backend:     BackendPostgres,
		SQLitePath:  "days_to_hire.db",
		MinPostings: 5,
		LogLevel:    "INFO",
		Port:        8080,
		RateLimit: RateLimitConfig{
			Enabled:           &enabled,
			RequestsPerSecond: 10,
			Burst:             20,
		},
	}
}

// LoadConfig loads configuration from a JSON or YAML file (by extension) and
// checks it against the configuration schema.
// Returns an error if the file cannot be read, parsed or validated.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	// Resolve path relative to current directory if not absolute
	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		var doc map[string]any
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("failed to parse config YAML: %w", err)
		}
		if doc == nil {
			doc = map[string]any{}
		}
		if err := schemas.ValidateDocument(schemadocs.Config, doc); err != nil {
			return nil, fmt.Errorf("config error: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config YAML: %w", err)
		}
	default:
		if err := json.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config JSON: %w", err)
		}
		if err := schemas.ValidateJSONString(schemadocs.Config, string(data)); err != nil {
			return nil, fmt.Errorf("config error: %w", err)
		}
	}

	return &cfg, nil
}

// Validate checks that the configuration has valid values.
// Note: This doesn't check for required fields since those are handled
// after flags and environment are merged.
func (c *Config) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("config error: %w", err)
	}
	return nil
}

// MergeWithDefaults returns a new Config with empty fields filled from defaults.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	// String fields: use default if empty
	if result.DatabaseURL == "" {
		result.DatabaseURL = defaults.DatabaseURL
	}
	if result.Backend == "" {
		result.Backend = defaults.Backend
	}
	if result.SQLitePath == "" {
		result.SQLitePath = defaults.SQLitePath
	}
	if result.MetricsFile == "" {
		result.MetricsFile = defaults.MetricsFile
	}
	if result.LogLevel == "" {
		result.LogLevel = defaults.LogLevel
	}

	// Int fields: use default if zero
	if result.MinPostings == 0 {
		result.MinPostings = defaults.MinPostings
	}
	if result.Port == 0 {
		result.Port = defaults.Port
	}

	if result.RateLimit.Enabled == nil {
		result.RateLimit.Enabled = defaults.RateLimit.Enabled
	}
	if result.RateLimit.RequestsPerSecond == 0 {
		result.RateLimit.RequestsPerSecond = defaults.RateLimit.RequestsPerSecond
	}
	if result.RateLimit.Burst == 0 {
		result.RateLimit.Burst = defaults.RateLimit.Burst
	}
	if len(result.RateLimit.Whitelist) == 0 {
		result.RateLimit.Whitelist = defaults.RateLimit.Whitelist
	}

	return result
}

// ApplyEnv overrides storage settings from DATABASE_URL, SQLITE_PATH and
// DAYS_TO_HIRE_BACKEND when they are set.
func (c *Config) ApplyEnv() {
	if v := os.Getenv("DATABASE_URL"); v != "" {
		c.DatabaseURL = v
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		c.SQLitePath = v
	}
	if v := os.Getenv("DAYS_TO_HIRE_BACKEND"); v != "" {
		c.Backend = v
	}
}

// CheckStore verifies the selected backend has what it needs to connect.
func (c *Config) CheckStore() error {
	switch c.Backend {
	case BackendPostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("config error: database URL is required (set --db-url, database_url or DATABASE_URL)")
		}
	case BackendSQLite:
		if c.SQLitePath == "" {
			return fmt.Errorf("config error: sqlite path is required (set --sqlite-path, sqlite_path or SQLITE_PATH)")
		}
	default:
		return fmt.Errorf("config error: unknown backend %q", c.Backend)
	}
	return nil
}
