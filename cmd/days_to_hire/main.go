// Package main provides the entry point for the days-to-hire statistics batch job and lookup API.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "days_to_hire",
	Short: "Days to hire statistics",
	Long: `Days to hire computes min, max and average time-to-hire per standard job and country
from raw job postings, trimming outliers outside the 10th-90th percentile band, and serves
the stored statistics over HTTP.`,
	SilenceUsage: true,
}

var (
	configPath  string
	logLevel    string
	databaseURL string
	backend     string
	sqlitePath  string
)

func init() {
	// Config file flag (processed first)
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to a JSON or YAML config file (values can be overridden by other flags)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "INFO", "Log level: DEBUG, INFO, WARNING, ERROR or CRITICAL")
	rootCmd.PersistentFlags().StringVar(&databaseURL, "db-url", "", "PostgreSQL connection URL (defaults to DATABASE_URL env var)")
	rootCmd.PersistentFlags().StringVar(&backend, "backend", "postgres", "Storage backend: postgres or sqlite")
	rootCmd.PersistentFlags().StringVar(&sqlitePath, "sqlite-path", "", "SQLite database file when --backend=sqlite (defaults to SQLITE_PATH env var)")
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
