package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/aatumaykin/poolkit/internal/app"
	"github.com/aatumaykin/poolkit/internal/config"
	"github.com/aatumaykin/poolkit/internal/constants"
	"github.com/aatumaykin/poolkit/internal/logger"
	"github.com/aatumaykin/poolkit/internal/report"
	"github.com/aatumaykin/poolkit/internal/version"
)

var (
	serveConfigPath string
	serveEnvPath    string
	serveLogLevel   string
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the worker pool as a service",
	Long: `Start the worker pool with the given configuration, expose Prometheus
metrics and run the scheduled load generator if enabled.

On SIGINT or SIGTERM the pool stops accepting work and drains its queue for
up to pool.shutdown_timeout_seconds, then interrupts whatever is left.`,
	RunE: serveHandler,
}

func serveHandler(cmd *cobra.Command, args []string) error {
	if err := config.LoadEnvOptional(serveEnvPath); err != nil {
		return fmt.Errorf("failed to load env file: %w", err)
	}

	cfg, err := config.Load(serveConfigPath)
	if err != nil {
		return err
	}

	if serveLogLevel != "" {
		cfg.Logging.Level = serveLogLevel
	}

	if errs := cfg.Validate(); len(errs) > 0 {
		return fmt.Errorf("configuration validation failed: %w", errors.Join(errs...))
	}

	log, err := logger.New(logger.Config{
		Level:      cfg.Logging.Level,
		Format:     cfg.Logging.Format,
		Output:     cfg.Logging.Output,
		MaxSizeMB:  cfg.Logging.MaxSizeMB,
		MaxBackups: cfg.Logging.MaxBackups,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	logger.SetDefault(log)

	log.Info(version.FormatStartupMessage(),
		logger.Field{Key: "config", Value: serveConfigPath},
		logger.Field{Key: "workers", Value: cfg.Pool.Workers},
		logger.Field{Key: "queue_capacity", Value: cfg.Pool.QueueCapacity},
		logger.Field{Key: "metrics", Value: cfg.Metrics.Enabled},
		logger.Field{Key: "load", Value: cfg.Load.Enabled})

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	application := app.New(cfg, log)
	if err := application.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		log.Error("application stopped with error", err)
		return err
	}

	return report.Render(cmd.OutOrStdout(), report.FormatText, application.Report())
}

func init() {
	serveCmd.Flags().StringVarP(&serveConfigPath, "config", "c", constants.DefaultConfigPath, "Path to config file")
	serveCmd.Flags().StringVar(&serveEnvPath, "env", constants.DefaultEnvPath, "Path to an optional .env file")
	serveCmd.Flags().StringVarP(&serveLogLevel, "log-level", "l", "", "Override logging.level")
}
