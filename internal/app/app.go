// Package app wires the poolkit service together: a bounded worker pool, its
// Prometheus endpoint and the cron-driven load generator.
package app

import (
	"context"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/aatumaykin/poolkit/internal/config"
	"github.com/aatumaykin/poolkit/internal/loadgen"
	"github.com/aatumaykin/poolkit/internal/logger"
	"github.com/aatumaykin/poolkit/internal/metrics"
	"github.com/aatumaykin/poolkit/internal/report"
	"github.com/aatumaykin/poolkit/internal/workers"
)

// App holds the running components and manages their lifecycle.
type App struct {
	config *config.Config
	logger *logger.Logger

	pool      *workers.Pool
	metrics   *metrics.PoolMetrics
	registry  *prometheus.Registry
	server    *http.Server
	listener  net.Listener
	scheduler *loadgen.Scheduler

	ctx     context.Context
	cancel  context.CancelFunc
	startAt time.Time

	mu       sync.Mutex
	started  bool
	graceful bool
}

// New creates an App. Components are built by Initialize.
func New(cfg *config.Config, log *logger.Logger) *App {
	if log == nil {
		log = logger.Nop()
	}
	return &App{
		config: cfg,
		logger: log,
	}
}

// Run initializes the app, blocks until ctx is cancelled and then shuts down.
func (a *App) Run(ctx context.Context) error {
	if err := a.Initialize(ctx); err != nil {
		return err
	}

	a.logger.Info("application is running")

	<-ctx.Done()

	return a.Shutdown()
}

// Pool returns the worker pool, nil before Initialize.
func (a *App) Pool() *workers.Pool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.pool
}

// MetricsAddr returns the address the metrics endpoint listens on, or an
// empty string when metrics are disabled.
func (a *App) MetricsAddr() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.listener == nil {
		return ""
	}
	return a.listener.Addr().String()
}

// Report summarizes the pool counters.
func (a *App) Report() report.PoolReport {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.pool == nil {
		return report.PoolReport{}
	}

	d, err := a.metrics.MedianDuration()
	r := report.NewPoolReport(a.pool, d, err == nil, time.Since(a.startAt))
	r.TerminatedClean = a.graceful
	return r
}
