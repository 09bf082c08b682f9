// Package config provides configuration loading and validation for poolkit.
// It reads TOML files, fills in defaults and expands environment references.
//
// Configuration structure:
//   - [pool]: worker count, queue capacity, overflow policy and timeouts
//   - [logging]: level, format, output and file rotation
//   - [metrics]: Prometheus endpoint
//   - [load]: cron-driven synthetic load for the serve command
//
// Environment variables can be referenced using ${VAR} or ${VAR:default}
// syntax, for example: listen = "${POOLKIT_METRICS_LISTEN::9090}"
package config

import "time"

// Config represents the main application configuration.
type Config struct {
	Pool    PoolConfig    `toml:"pool"`
	Logging LoggingConfig `toml:"logging"`
	Metrics MetricsConfig `toml:"metrics"`
	Load    LoadConfig    `toml:"load"`
}

// PoolConfig configures the bounded worker pool.
type PoolConfig struct {
	Workers                int    `toml:"workers"`
	QueueCapacity          int    `toml:"queue_capacity"`
	Overflow               string `toml:"overflow"`
	TaskTimeoutMs          int    `toml:"task_timeout_ms"`
	ShutdownTimeoutSeconds int    `toml:"shutdown_timeout_seconds"`
}

// TaskTimeout returns the per-task deadline, zero when disabled.
func (c PoolConfig) TaskTimeout() time.Duration {
	return time.Duration(c.TaskTimeoutMs) * time.Millisecond
}

// ShutdownTimeout returns how long serve waits for a graceful drain.
func (c PoolConfig) ShutdownTimeout() time.Duration {
	return time.Duration(c.ShutdownTimeoutSeconds) * time.Second
}

// LoggingConfig configures the logger.
type LoggingConfig struct {
	Level      string `toml:"level"`
	Format     string `toml:"format"`
	Output     string `toml:"output"`
	MaxSizeMB  int    `toml:"max_size_mb"`
	MaxBackups int    `toml:"max_backups"`
}

// MetricsConfig configures the Prometheus endpoint.
type MetricsConfig struct {
	Enabled   bool   `toml:"enabled"`
	Listen    string `toml:"listen"`
	Namespace string `toml:"namespace"`
}

// LoadConfig configures the synthetic load generator.
type LoadConfig struct {
	Enabled      bool    `toml:"enabled"`
	Schedule     string  `toml:"schedule"`
	TasksPerTick int     `toml:"tasks_per_tick"`
	Producers    int     `toml:"producers"`
	RateLimit    float64 `toml:"rate_limit"`
	MinTaskMs    int     `toml:"min_task_ms"`
	MaxTaskMs    int     `toml:"max_task_ms"`
	FailureRate  float64 `toml:"failure_rate"`
}
