package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"mercator-hq/jobscan/pkg/analysis/recorder"
	"mercator-hq/jobscan/pkg/analysis/retention"
	"mercator-hq/jobscan/pkg/analysis/storage"
	"mercator-hq/jobscan/pkg/cli"
	"mercator-hq/jobscan/pkg/config"
	"mercator-hq/jobscan/pkg/server"
	"mercator-hq/jobscan/pkg/telemetry/health"
	"mercator-hq/jobscan/pkg/telemetry/logging"
	"mercator-hq/jobscan/pkg/telemetry/metrics"
	"mercator-hq/jobscan/pkg/telemetry/tracing"
)

const tracerShutdownTimeout = 5 * time.Second

var serveFlags struct {
	listenAddress string
	dryRun        bool
	watch         bool
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the jobscan HTTP API",
	Long: `Start the jobscan HTTP API with the specified configuration.

The server scores postings on POST /analyze-job, records each analysis in
the configured storage backend, and serves the audit listing on GET /analyses.

Examples:
  # Start with defaults (SQLite at data/jobscan.db, port 5000)
  jobscan serve

  # Start with a config file and reload the log level when it changes
  jobscan serve --config /etc/jobscan/config.yaml --watch

  # Override listen address
  jobscan serve --listen 127.0.0.1:8080

  # Validate config without starting server
  jobscan serve --dry-run`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVarP(&serveFlags.listenAddress, "listen", "l", "", "override listen address")
	serveCmd.Flags().BoolVar(&serveFlags.dryRun, "dry-run", false, "validate config without starting server")
	serveCmd.Flags().BoolVar(&serveFlags.watch, "watch", true, "reload the log level when the config file changes")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if serveFlags.listenAddress != "" {
		cfg.Server.ListenAddress = serveFlags.listenAddress
		if err := config.Validate(cfg); err != nil {
			return cli.NewConfigError(cfgFile, err)
		}
	}

	logger, err := setupLogging(cfg)
	if err != nil {
		return err
	}

	if serveFlags.dryRun {
		fmt.Fprintln(cmd.OutOrStdout(), "✓ Configuration valid")
		return nil
	}

	ctx, stop := cli.SignalContext(commandContext(cmd))
	defer stop()

	store, err := storage.New(ctx, &cfg.Storage)
	if err != nil {
		return cli.NewCommandError("serve", fmt.Errorf("failed to open %s storage: %w", cfg.Storage.Backend, err))
	}
	defer store.Close()

	collector := metrics.NewCollector(&cfg.Telemetry.Metrics, nil)

	tracer, err := tracing.New(&cfg.Telemetry.Tracing, Version)
	if err != nil {
		return cli.NewCommandError("serve", fmt.Errorf("failed to initialize tracing: %w", err))
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), tracerShutdownTimeout)
		defer cancel()
		if err := tracer.Shutdown(shutdownCtx); err != nil {
			slog.Warn("tracer shutdown failed", "error", err)
		}
	}()

	rec := recorder.New(store, &cfg.Recorder,
		recorder.WithMetrics(collector),
		recorder.WithTracer(tracer),
	)

	if cfg.Retention.Enabled {
		pruner := retention.NewPruner(store, &cfg.Retention,
			retention.WithMetrics(collector),
			retention.WithTracer(tracer),
		)
		scheduler := retention.NewScheduler(pruner, cfg.Retention.Schedule)
		if err := scheduler.Start(ctx); err != nil {
			return cli.NewCommandError("serve", err)
		}
		defer scheduler.Stop()
		if next := scheduler.NextRun(); next != nil {
			slog.Info("retention scheduler started", "next_run", next.Format(time.RFC3339))
		}
	}

	if serveFlags.watch && cfgFile != "" {
		startConfigWatcher(ctx, logger)
	}

	srv := server.New(cfg, server.Deps{
		Storage:  store,
		Recorder: rec,
		Metrics:  collector,
		Tracer:   tracer,
		Version:  health.NewVersionInfo(Version, GitCommit, BuildDate),
	})

	if err := srv.Start(ctx); err != nil {
		return cli.NewCommandError("serve", err)
	}
	return nil
}

// startConfigWatcher applies log level changes from the config file until
// ctx is cancelled. Other settings need a restart.
func startConfigWatcher(ctx context.Context, logger *logging.Logger) {
	watcher, err := config.NewWatcher(cfgFile, config.DefaultDebounceInterval, logger.Slog())
	if err != nil {
		slog.Warn("config watcher disabled", "error", err)
		return
	}

	go func() {
		err := watcher.Watch(ctx, func(cfg *config.Config) {
			level := cfg.Telemetry.Logging.Level
			if logLevel != "" {
				level = logLevel
			}
			if err := logger.SetLevel(level); err != nil {
				slog.Warn("ignoring invalid log level from config", "level", level, "error", err)
				return
			}
			slog.Info("log level updated", "level", level)
		})
		if err != nil {
			slog.Error("config watcher failed", "error", err)
		}
	}()
}
