package app

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/aatumaykin/poolkit/internal/constants"
	"github.com/aatumaykin/poolkit/internal/loadgen"
	"github.com/aatumaykin/poolkit/internal/logger"
	"github.com/aatumaykin/poolkit/internal/metrics"
	"github.com/aatumaykin/poolkit/internal/workers"
)

// Initialize builds and starts every component:
//  1. the metrics registry and pool observer
//  2. the worker pool
//  3. the metrics HTTP endpoint (if enabled)
//  4. the load scheduler (if enabled)
func (a *App) Initialize(ctx context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.started {
		return fmt.Errorf("application already started")
	}
	if errs := a.config.Validate(); len(errs) > 0 {
		return fmt.Errorf("invalid configuration: %w", errors.Join(errs...))
	}

	a.ctx, a.cancel = context.WithCancel(ctx)
	a.startAt = time.Now()
	a.graceful = false

	// 1. Metrics
	a.registry = prometheus.NewRegistry()
	a.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	a.metrics = metrics.New(a.config.Metrics.Namespace, a.registry)

	// 2. Worker pool
	overflow, err := workers.ParseOverflowPolicy(a.config.Pool.Overflow)
	if err != nil {
		a.cancel()
		return err
	}
	pool, err := workers.NewPool(workers.Config{
		Workers:       a.config.Pool.Workers,
		QueueCapacity: a.config.Pool.QueueCapacity,
		Overflow:      overflow,
		TaskTimeout:   a.config.Pool.TaskTimeout(),
		Logger:        a.logger,
		Observer:      a.metrics,
	})
	if err != nil {
		a.cancel()
		return fmt.Errorf("failed to create worker pool: %w", err)
	}
	a.pool = pool

	// 3. Metrics endpoint
	if a.config.Metrics.Enabled {
		if err := a.startMetricsServer(); err != nil {
			a.abortStart()
			return err
		}
	}

	// 4. Load scheduler
	if a.config.Load.Enabled {
		if err := a.startScheduler(); err != nil {
			a.abortStart()
			return err
		}
	}

	a.started = true
	return nil
}

func (a *App) startMetricsServer() error {
	ln, err := net.Listen("tcp", a.config.Metrics.Listen)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", a.config.Metrics.Listen, err)
	}

	mux := http.NewServeMux()
	mux.Handle(constants.MetricsPath, a.metrics.Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		if a.pool.State() != workers.StateRunning {
			http.Error(w, a.pool.State().String(), http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte("ok\n"))
	})

	a.listener = ln
	a.server = &http.Server{
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
		ErrorLog:          logger.NewStdLog(a.logger),
	}

	go func() {
		if err := a.server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.logger.Error("metrics server stopped", err)
		}
	}()

	a.logger.Info("metrics endpoint listening",
		logger.Field{Key: "addr", Value: ln.Addr().String()},
		logger.Field{Key: "path", Value: constants.MetricsPath})
	return nil
}

func (a *App) startScheduler() error {
	lc := a.config.Load
	gen, err := loadgen.New(loadgen.Options{
		MinDuration: time.Duration(lc.MinTaskMs) * time.Millisecond,
		MaxDuration: time.Duration(lc.MaxTaskMs) * time.Millisecond,
		FailureRate: lc.FailureRate,
		Producers:   lc.Producers,
		RateLimit:   lc.RateLimit,
		Logger:      a.logger,
	}, uint64(time.Now().UnixNano()))
	if err != nil {
		return fmt.Errorf("failed to create load generator: %w", err)
	}

	sched, err := loadgen.NewScheduler(lc.Schedule, lc.TasksPerTick, gen, a.pool, a.logger)
	if err != nil {
		return fmt.Errorf("failed to create load scheduler: %w", err)
	}
	if err := sched.Start(a.ctx); err != nil {
		return fmt.Errorf("failed to start load scheduler: %w", err)
	}
	a.scheduler = sched
	return nil
}

// abortStart releases whatever Initialize managed to start.
func (a *App) abortStart() {
	a.cancel()
	if a.server != nil {
		_ = a.server.Close()
		a.server = nil
		a.listener = nil
	}
	a.pool.ShutdownNow()
	a.pool.AwaitTermination(time.Second)
}
