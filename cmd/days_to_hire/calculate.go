package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jonathan/days-to-hire/internal/batch"
	"github.com/jonathan/days-to-hire/internal/observability"
)

var calculateCmd = &cobra.Command{
	Use:   "calculate",
	Short: "Recompute the days to hire statistics table",
	Long: `Clears days_to_hire_stats and recomputes one row per standard job (global) and per
standard job and country from the raw job postings. Groups with fewer retained postings
than --min-postings are not stored.

Configuration can be loaded from a JSON or YAML file using --config. Command-line arguments override config file values.`,
	RunE: runCalculate,
}

var (
	calcMinPostings int
	calcMetricsFile string
	calcVerbose     bool
)

func init() {
	calculateCmd.Flags().IntVar(&calcMinPostings, "min-postings", batch.DefaultMinPostings, "Minimum retained postings needed to store a group")
	calculateCmd.Flags().StringVar(&calcMetricsFile, "metrics-file", "", "Write run metrics in Prometheus text format to this file")
	calculateCmd.Flags().BoolVarP(&calcVerbose, "verbose", "v", false, "Print a run summary")
	rootCmd.AddCommand(calculateCmd)
}

func runCalculate(cmd *cobra.Command, _ []string) error {
	cfg, err := loadSettings(cmd)
	if err != nil {
		return err
	}

	logger, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	repo, err := openStore(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to connect to database", zap.String("backend", cfg.Backend), zap.Error(err))
		return err
	}
	defer repo.Close()

	registry := prometheus.NewRegistry()
	calc := batch.New(repo, batch.Options{
		MinPostings: cfg.MinPostings,
		Logger:      logger,
		Metrics:     batch.NewMetrics(registry),
	})

	summary, runErr := calc.Run(ctx)
	if runErr != nil {
		logger.Error("statistics calculation failed", zap.Error(runErr))
	}

	if calcVerbose && runErr == nil {
		observability.NewPrinter(os.Stdout).PrintRunSummary(summary)
	}

	if cfg.MetricsFile != "" {
		if err := writeMetrics(cfg.MetricsFile, registry); err != nil {
			logger.Warn("failed to write metrics file", zap.String("path", cfg.MetricsFile), zap.Error(err))
		}
	}

	return runErr
}

func writeMetrics(path string, registry *prometheus.Registry) error {
	if err := prometheus.WriteToTextfile(path, registry); err != nil {
		return fmt.Errorf("failed to write metrics to %s: %w", path, err)
	}
	return nil
}
