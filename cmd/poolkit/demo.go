package main

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/aatumaykin/poolkit/internal/loadgen"
	"github.com/aatumaykin/poolkit/internal/logger"
	"github.com/aatumaykin/poolkit/internal/metrics"
	"github.com/aatumaykin/poolkit/internal/report"
	"github.com/aatumaykin/poolkit/internal/workers"
)

var (
	demoTasks       int
	demoWorkers     int
	demoCapacity    int
	demoTaskMs      int
	demoFailureRate float64
	demoNow         bool
	demoTimeout     time.Duration
	demoFormat      string
	demoSeed        uint64
	demoVerbose     bool
)

// demoCmd represents the demo command
var demoCmd = &cobra.Command{
	Use:   "demo",
	Short: "Run tasks through a bounded pool and report the outcome",
	Long: `Submit sleeping tasks to a pool of --workers workers with a queue of
--capacity slots, shut the pool down and wait for it to terminate.

With --now the pool is stopped immediately after submission: queued tasks
are discarded and running ones are interrupted.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		format, err := report.ParseFormat(demoFormat)
		if err != nil {
			return err
		}

		level := "warn"
		if demoVerbose {
			level = "debug"
		}
		log, err := logger.NewWithWriter(cmd.ErrOrStderr(), level, "text")
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}

		m := metrics.New("poolkit_demo", prometheus.NewRegistry())
		pool, err := workers.NewPool(workers.Config{
			Workers:       demoWorkers,
			QueueCapacity: demoCapacity,
			Logger:        log,
			Observer:      m,
		})
		if err != nil {
			return err
		}

		gen, err := loadgen.New(loadgen.Options{
			MinDuration: time.Duration(demoTaskMs) * time.Millisecond / 2,
			MaxDuration: time.Duration(demoTaskMs) * time.Millisecond,
			FailureRate: demoFailureRate,
			Producers:   1,
			Logger:      log,
		}, demoSeed)
		if err != nil {
			pool.ShutdownNow()
			return err
		}

		start := time.Now()
		if _, err := gen.Burst(cmd.Context(), pool, demoTasks); err != nil {
			pool.ShutdownNow()
			return fmt.Errorf("failed to submit tasks: %w", err)
		}

		if demoNow {
			pool.ShutdownNow()
		} else {
			pool.Shutdown()
		}
		if !pool.AwaitTermination(demoTimeout) {
			dropped := pool.ShutdownNow()
			log.Warn("pool did not terminate in time", logger.Field{Key: "discarded", Value: len(dropped)})
			pool.AwaitTermination(demoTimeout)
		}

		d, medErr := m.MedianDuration()
		return report.Render(cmd.OutOrStdout(), format,
			report.NewPoolReport(pool, d, medErr == nil, time.Since(start)))
	},
}

func init() {
	demoCmd.Flags().IntVarP(&demoTasks, "tasks", "n", 20, "Number of tasks to submit")
	demoCmd.Flags().IntVarP(&demoWorkers, "workers", "w", 4, "Number of workers")
	demoCmd.Flags().IntVar(&demoCapacity, "capacity", 8, "Queue capacity")
	demoCmd.Flags().IntVar(&demoTaskMs, "task-ms", 20, "Upper bound of a task's sleep in milliseconds")
	demoCmd.Flags().Float64Var(&demoFailureRate, "failure-rate", 0, "Probability that a task fails")
	demoCmd.Flags().BoolVar(&demoNow, "now", false, "Stop immediately instead of draining the queue")
	demoCmd.Flags().DurationVar(&demoTimeout, "timeout", 30*time.Second, "How long to wait for termination")
	demoCmd.Flags().StringVarP(&demoFormat, "format", "f", "text", "Output format: text, json or yaml")
	demoCmd.Flags().Uint64Var(&demoSeed, "seed", 1, "Seed for task durations and failures")
	demoCmd.Flags().BoolVarP(&demoVerbose, "verbose", "v", false, "Log pool activity to stderr")
}

