package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aatumaykin/poolkit/internal/config"
	"github.com/aatumaykin/poolkit/internal/constants"
	"github.com/aatumaykin/poolkit/internal/logger"
)

// configCmd represents the config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
	Long:  `Validate and manage poolkit configuration.`,
}

// configValidateCmd represents the config validate command
var configValidateCmd = &cobra.Command{
	Use:   "validate [config-file]",
	Short: "Validate configuration file",
	Long:  `Validate the configuration file and check for errors.`,
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		log, err := logger.NewWithWriter(cmd.ErrOrStderr(), "info", "text")
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}

		configPath := constants.DefaultConfigPath
		if len(args) > 0 {
			configPath = args[0]
		}

		log.Info("validating configuration", logger.Field{Key: "path", Value: configPath})

		cfg, err := config.Load(configPath)
		if err != nil {
			log.Error("failed to load config", err)
			return err
		}

		errors := cfg.Validate()
		if len(errors) > 0 {
			for _, e := range errors {
				log.Error("validation error", e)
			}
			return fmt.Errorf("config validation failed: %d errors", len(errors))
		}

		log.Info("configuration is valid",
			logger.Field{Key: "workers", Value: cfg.Pool.Workers},
			logger.Field{Key: "queue_capacity", Value: cfg.Pool.QueueCapacity},
			logger.Field{Key: "overflow", Value: cfg.Pool.Overflow})
		fmt.Fprintln(cmd.OutOrStdout(), "configuration is valid")
		return nil
	},
}

func init() {
	configCmd.AddCommand(configValidateCmd)
}
