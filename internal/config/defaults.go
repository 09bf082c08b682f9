package config

import "github.com/aatumaykin/poolkit/internal/constants"

// Default returns a configuration with every default applied.
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

func applyDefaults(c *Config) {
	if c.Pool.Workers == 0 {
		c.Pool.Workers = constants.DefaultWorkers
	}
	if c.Pool.QueueCapacity == 0 {
		c.Pool.QueueCapacity = constants.DefaultQueueCapacity
	}
	if c.Pool.Overflow == "" {
		c.Pool.Overflow = "block"
	}
	if c.Pool.ShutdownTimeoutSeconds == 0 {
		c.Pool.ShutdownTimeoutSeconds = constants.DefaultShutdownTimeoutSeconds
	}

	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Logging.Format == "" {
		c.Logging.Format = "json"
	}
	if c.Logging.Output == "" {
		c.Logging.Output = "stdout"
	}
	if c.Logging.MaxSizeMB == 0 {
		c.Logging.MaxSizeMB = 100
	}

	if c.Metrics.Listen == "" {
		c.Metrics.Listen = constants.DefaultMetricsListen
	}
	if c.Metrics.Namespace == "" {
		c.Metrics.Namespace = constants.DefaultMetricsNamespace
	}

	if c.Load.Schedule == "" {
		c.Load.Schedule = "@every 5s"
	}
	if c.Load.TasksPerTick == 0 {
		c.Load.TasksPerTick = 20
	}
	if c.Load.Producers == 0 {
		c.Load.Producers = 2
	}
	if c.Load.MaxTaskMs == 0 {
		c.Load.MaxTaskMs = 100
	}
}
