package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"mercator-hq/jobscan/pkg/analysis"
	"mercator-hq/jobscan/pkg/analysis/storage"
	"mercator-hq/jobscan/pkg/cli"
	"mercator-hq/jobscan/pkg/config"
	"mercator-hq/jobscan/pkg/telemetry/logging"
)

var (
	// Global flags
	cfgFile  string
	logLevel string
)

var rootCmd = &cobra.Command{
	Use:   "jobscan",
	Short: "Jobscan - rule-based scam risk scoring for job postings",
	Long: `Jobscan scores job postings for scam risk using a fixed catalog of weighted
text rules, and records every analysis for later audit.

It provides:
  - An HTTP API (POST /analyze-job, GET /analyses, GET /health)
  - Offline analysis of postings from arguments, files or stdin
  - Listing, export and pruning of the stored audit trail

Configuration is read from a YAML file (--config) and JOBSCAN_* environment
variables. Without a file, built-in defaults are used.`,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file path (default: built-in defaults)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "override log level (debug, info, warn, error)")
}

// loadConfig reads the configuration named by --config with environment
// overrides and applies --log-level.
func loadConfig() (*config.Config, error) {
	cfg, err := config.LoadConfigWithEnvOverrides(cfgFile)
	if err != nil {
		return nil, cli.NewConfigError(cfgFile, err)
	}
	if logLevel != "" {
		cfg.Telemetry.Logging.Level = logLevel
	}
	return cfg, nil
}

// setupLogging builds the process logger from cfg and installs it as the
// slog default.
func setupLogging(cfg *config.Config) (*logging.Logger, error) {
	logger, err := logging.New(logging.FromConfig(&cfg.Telemetry.Logging))
	if err != nil {
		return nil, cli.NewConfigError(cfgFile, err)
	}
	logger.SetDefault()
	return logger, nil
}

// openStorage loads configuration, sets up logging and opens the configured
// storage backend. The caller closes the returned storage.
func openStorage(ctx context.Context) (*config.Config, analysis.Storage, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, err
	}
	if _, err := setupLogging(cfg); err != nil {
		return nil, nil, err
	}

	store, err := storage.New(ctx, &cfg.Storage)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open %s storage: %w", cfg.Storage.Backend, err)
	}
	return cfg, store, nil
}

func commandContext(cmd *cobra.Command) context.Context {
	if cmd != nil && cmd.Context() != nil {
		return cmd.Context()
	}
	return context.Background()
}
