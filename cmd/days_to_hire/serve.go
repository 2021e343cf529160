package main

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jonathan/days-to-hire/internal/server"
	"github.com/jonathan/days-to-hire/internal/server/ratelimit"
)

var (
	servePort int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the days to hire lookup API",
	Long:  `Start an HTTP server that returns stored days to hire statistics for a standard job, globally or per country.`,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 8080, "Port to listen on")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := loadSettings(cmd)
	if err != nil {
		return err
	}

	logger, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	ctx := cmd.Context()
	st, err := openStore(ctx, cfg, logger)
	if err != nil {
		logger.Error("database is not reachable, refusing to start", zap.String("backend", cfg.Backend), zap.Error(err))
		return err
	}
	defer st.Close()

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	rl := cfg.RateLimit
	srv := server.New(server.Config{
		Port:      cfg.Port,
		RateLimit: ratelimit.NewConfig(rl.IsEnabled(), rl.RequestsPerSecond, rl.Burst, rl.Whitelist).ApplyEnv(),
		Registry:  registry,
	}, st, logger)

	return srv.Start(ctx)
}
