package config

import (
	"fmt"
	"strings"

	"github.com/robfig/cron/v3"

	"github.com/aatumaykin/poolkit/internal/constants"
)

// Validate reports every problem in the configuration.
func (c *Config) Validate() []error {
	var errors []error

	if c.Pool.Workers <= 0 {
		errors = append(errors, fmt.Errorf("pool.workers must be positive (got %d)", c.Pool.Workers))
	}
	if c.Pool.QueueCapacity <= 0 {
		errors = append(errors, fmt.Errorf("pool.queue_capacity must be positive (got %d)", c.Pool.QueueCapacity))
	}
	switch strings.ToLower(c.Pool.Overflow) {
	case "block", "reject":
	default:
		errors = append(errors, fmt.Errorf("invalid pool.overflow: %s (expected: block, reject)", c.Pool.Overflow))
	}
	if c.Pool.TaskTimeoutMs < 0 {
		errors = append(errors, fmt.Errorf("pool.task_timeout_ms must not be negative"))
	}
	if c.Pool.ShutdownTimeoutSeconds < 1 {
		errors = append(errors, fmt.Errorf("pool.shutdown_timeout_seconds must be >= 1"))
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[strings.ToLower(c.Logging.Level)] {
		errors = append(errors, fmt.Errorf("invalid logging.level: %s (expected: debug, info, warn, error)", c.Logging.Level))
	}
	validFormats := map[string]bool{"json": true, "text": true}
	if !validFormats[strings.ToLower(c.Logging.Format)] {
		errors = append(errors, fmt.Errorf("invalid logging.format: %s (expected: json, text)", c.Logging.Format))
	}
	if c.Logging.Output == "" {
		errors = append(errors, fmt.Errorf("logging.output is required"))
	}

	if c.Metrics.Enabled && c.Metrics.Listen == "" {
		errors = append(errors, fmt.Errorf("metrics.listen is required when metrics are enabled"))
	}

	if c.Load.Enabled {
		if _, err := cron.NewParser(constants.CronParseOptions).Parse(c.Load.Schedule); err != nil {
			errors = append(errors, fmt.Errorf("invalid load.schedule %q: %w", c.Load.Schedule, err))
		}
		if c.Load.TasksPerTick <= 0 {
			errors = append(errors, fmt.Errorf("load.tasks_per_tick must be positive"))
		}
		if c.Load.Producers <= 0 {
			errors = append(errors, fmt.Errorf("load.producers must be positive"))
		}
		if c.Load.RateLimit < 0 {
			errors = append(errors, fmt.Errorf("load.rate_limit must not be negative"))
		}
		if c.Load.MinTaskMs < 0 || c.Load.MaxTaskMs < c.Load.MinTaskMs {
			errors = append(errors, fmt.Errorf("load task duration range is invalid (%d..%d ms)", c.Load.MinTaskMs, c.Load.MaxTaskMs))
		}
		if c.Load.FailureRate < 0 || c.Load.FailureRate > 1 {
			errors = append(errors, fmt.Errorf("load.failure_rate must be between 0 and 1 (got %g)", c.Load.FailureRate))
		}
	}

	return errors
}
