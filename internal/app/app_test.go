package app

import (
	"context"
	"io"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aatumaykin/poolkit/internal/config"
	"github.com/aatumaykin/poolkit/internal/logger"
	"github.com/aatumaykin/poolkit/internal/workers"
)

func createTestConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.Default()
	cfg.Pool.Workers = 2
	cfg.Pool.QueueCapacity = 8
	cfg.Pool.ShutdownTimeoutSeconds = 2
	cfg.Metrics.Listen = "127.0.0.1:0"
	cfg.Metrics.Namespace = "apptest"
	return cfg
}

func createTestLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.NewWithWriter(io.Discard, "debug", "text")
	require.NoError(t, err)
	return log
}

func TestApp_ShutdownNotStarted(t *testing.T) {
	app := New(createTestConfig(t), createTestLogger(t))
	assert.NoError(t, app.Shutdown())
	assert.Nil(t, app.Pool())
	assert.Equal(t, "", app.Report().State)
}

func TestApp_InitializeRejectsInvalidConfig(t *testing.T) {
	cfg := createTestConfig(t)
	cfg.Pool.Workers = -1

	app := New(cfg, createTestLogger(t))
	err := app.Initialize(context.Background())
	assert.ErrorContains(t, err, "pool.workers")
	assert.Nil(t, app.Pool())
}

func TestApp_InitializeTwice(t *testing.T) {
	app := New(createTestConfig(t), createTestLogger(t))
	require.NoError(t, app.Initialize(context.Background()))
	t.Cleanup(func() { _ = app.Shutdown() })

	assert.Error(t, app.Initialize(context.Background()))
}

func TestApp_GracefulShutdown(t *testing.T) {
	app := New(createTestConfig(t), createTestLogger(t))
	require.NoError(t, app.Initialize(context.Background()))

	pool := app.Pool()
	require.NotNil(t, pool)
	for i := 0; i < 10; i++ {
		require.NoError(t, pool.Submit(func(ctx context.Context) error {
			time.Sleep(time.Millisecond)
			return nil
		}))
	}

	require.NoError(t, app.Shutdown())
	assert.Equal(t, workers.StateTerminated, pool.State())

	r := app.Report()
	assert.True(t, r.TerminatedClean)
	assert.EqualValues(t, 10, r.Completed)
	assert.Equal(t, "terminated", r.State)
	require.NotNil(t, r.MedianTaskMs)

	assert.NoError(t, app.Shutdown())
}

func TestApp_ShutdownFallsBackToShutdownNow(t *testing.T) {
	cfg := createTestConfig(t)
	cfg.Pool.Workers = 1
	cfg.Pool.ShutdownTimeoutSeconds = 1

	app := New(cfg, createTestLogger(t))
	require.NoError(t, app.Initialize(context.Background()))
	pool := app.Pool()

	started := make(chan struct{})
	require.NoError(t, pool.Submit(func(ctx context.Context) error {
		close(started)
		<-ctx.Done()
		return ctx.Err()
	}))
	for i := 0; i < 3; i++ {
		require.NoError(t, pool.Submit(func(context.Context) error { return nil }))
	}
	<-started

	require.NoError(t, app.Shutdown())

	r := app.Report()
	assert.False(t, r.TerminatedClean)
	assert.EqualValues(t, 3, r.Discarded)
	assert.EqualValues(t, 1, r.Failed)
	assert.Equal(t, workers.StateTerminated, pool.State())
}

func TestApp_MetricsEndpoint(t *testing.T) {
	cfg := createTestConfig(t)
	cfg.Metrics.Enabled = true

	app := New(cfg, createTestLogger(t))
	require.NoError(t, app.Initialize(context.Background()))
	t.Cleanup(func() { _ = app.Shutdown() })

	addr := app.MetricsAddr()
	require.NotEmpty(t, addr)

	require.NoError(t, app.Pool().Submit(func(context.Context) error { return nil }))

	resp, err := http.Get("http://" + addr + "/metrics")
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), "apptest_pool_tasks_submitted_total")
	assert.Contains(t, string(body), "go_goroutines")

	resp, err = http.Get("http://" + addr + "/healthz")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestApp_MetricsListenError(t *testing.T) {
	cfg := createTestConfig(t)
	cfg.Metrics.Enabled = true
	cfg.Metrics.Listen = "256.0.0.1:bad"

	app := New(cfg, createTestLogger(t))
	err := app.Initialize(context.Background())
	assert.ErrorContains(t, err, "failed to listen")
}

func TestApp_LoadScheduler(t *testing.T) {
	cfg := createTestConfig(t)
	cfg.Load.Enabled = true
	cfg.Load.Schedule = "* * * * * *"
	cfg.Load.TasksPerTick = 4
	cfg.Load.MinTaskMs = 0
	cfg.Load.MaxTaskMs = 1

	app := New(cfg, createTestLogger(t))
	require.NoError(t, app.Initialize(context.Background()))

	assert.Eventually(t, func() bool {
		return app.Pool().Metrics().TasksSubmitted >= 4
	}, 3*time.Second, 20*time.Millisecond)

	require.NoError(t, app.Shutdown())
	assert.True(t, app.Report().TerminatedClean)
}

func TestApp_Run(t *testing.T) {
	app := New(createTestConfig(t), createTestLogger(t))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- app.Run(ctx) }()

	assert.Eventually(t, func() bool { return app.Pool() != nil }, time.Second, 5*time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancellation")
	}
	assert.Equal(t, workers.StateTerminated, app.Pool().State())
}
