package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jonathan/days-to-hire/internal/batch"
	"github.com/jonathan/days-to-hire/internal/config"
	"github.com/jonathan/days-to-hire/internal/db"
	"github.com/jonathan/days-to-hire/internal/logging"
	"github.com/jonathan/days-to-hire/internal/server"
)

// store is what every command needs from a backend.
type store interface {
	batch.Repository
	server.Store
	Migrate(ctx context.Context) error
	Close()
}

// loadSettings resolves the effective configuration:
// defaults < config file < environment < explicitly set flags.
func loadSettings(cmd *cobra.Command) (config.Config, error) {
	var cfg config.Config
	if configPath != "" {
		loaded, err := config.LoadConfig(configPath)
		if err != nil {
			return config.Config{}, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = *loaded
	}

	cfg.ApplyEnv()

	// Only override if the flag was explicitly set
	flags := cmd.Flags()
	if flags.Changed("log-level") {
		cfg.LogLevel = strings.ToUpper(logLevel)
	}
	if flags.Changed("db-url") {
		cfg.DatabaseURL = databaseURL
	}
	if flags.Changed("backend") {
		cfg.Backend = backend
	}
	if flags.Changed("sqlite-path") {
		cfg.SQLitePath = sqlitePath
	}
	if flags.Changed("min-postings") {
		if calcMinPostings < 1 {
			return config.Config{}, fmt.Errorf("config error: min postings must be at least 1, got %d", calcMinPostings)
		}
		cfg.MinPostings = calcMinPostings
	}
	if flags.Changed("metrics-file") {
		cfg.MetricsFile = calcMetricsFile
	}
	if flags.Changed("port") {
		cfg.Port = servePort
	}

	merged := cfg.MergeWithDefaults(config.Defaults())
	if err := merged.Validate(); err != nil {
		return config.Config{}, err
	}
	return merged, nil
}

func newLogger(cfg config.Config) (*zap.Logger, error) {
	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}
	return logger, nil
}

// openStore connects to the configured backend. Connecting pings the store,
// so an unreachable database fails here.
func openStore(ctx context.Context, cfg config.Config, logger *zap.Logger) (store, error) {
	if err := cfg.CheckStore(); err != nil {
		return nil, err
	}

	switch cfg.Backend {
	case config.BackendSQLite:
		s, err := db.OpenSQLite(ctx, cfg.SQLitePath, logger)
		if err != nil {
			return nil, err
		}
		return s, nil
	default:
		d, err := db.Connect(ctx, cfg.DatabaseURL, logger)
		if err != nil {
			return nil, err
		}
		return d, nil
	}
}
