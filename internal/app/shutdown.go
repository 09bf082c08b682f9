package app

import (
	"context"
	"time"

	"github.com/aatumaykin/poolkit/internal/logger"
)

// Shutdown stops the application in order:
//  1. stops the load scheduler so no new bursts start
//  2. shuts the pool down and waits up to the configured timeout
//  3. falls back to ShutdownNow if the drain did not finish
//  4. closes the metrics endpoint
//
// Calling Shutdown on an app that is not running is a no-op.
func (a *App) Shutdown() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if !a.started {
		return nil
	}

	if a.scheduler != nil {
		a.scheduler.Stop()
		a.scheduler = nil
	}

	timeout := a.config.Pool.ShutdownTimeout()
	a.logger.Info("draining worker pool",
		logger.Field{Key: "queued", Value: a.pool.QueueSize()},
		logger.Field{Key: "active", Value: a.pool.ActiveCount()},
		logger.Field{Key: "timeout", Value: timeout.String()})

	a.pool.Shutdown()
	a.graceful = a.pool.AwaitTermination(timeout)
	if !a.graceful {
		dropped := a.pool.ShutdownNow()
		a.logger.Warn("graceful drain timed out, interrupting workers",
			logger.Field{Key: "discarded", Value: len(dropped)})
		a.pool.AwaitTermination(timeout)
	}

	a.cancel()

	var srvErr error
	if a.server != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if srvErr = a.server.Shutdown(ctx); srvErr != nil {
			a.logger.Error("failed to stop metrics server", srvErr)
		}
		a.server = nil
		a.listener = nil
	}

	a.started = false
	a.logger.Info("application shutdown complete",
		logger.Field{Key: "graceful", Value: a.graceful})

	return srvErr
}
