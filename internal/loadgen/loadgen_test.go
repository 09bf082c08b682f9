package loadgen

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aatumaykin/poolkit/internal/workers"
)

// fakeSubmitter runs nothing and answers with err after accept submissions.
type fakeSubmitter struct {
	mu       sync.Mutex
	accepted int
	accept   int
	err      error
	tasks    []workers.Task
}

func (f *fakeSubmitter) SubmitContext(ctx context.Context, task workers.Task) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil && f.accepted >= f.accept {
		return f.err
	}
	f.accepted++
	f.tasks = append(f.tasks, task)
	return nil
}

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		opts    Options
		wantErr bool
	}{
		{name: "zero options", opts: Options{}},
		{name: "valid range", opts: Options{MinDuration: time.Millisecond, MaxDuration: 5 * time.Millisecond, FailureRate: 0.5}},
		{name: "inverted range", opts: Options{MinDuration: 5 * time.Millisecond, MaxDuration: time.Millisecond}, wantErr: true},
		{name: "negative min", opts: Options{MinDuration: -1}, wantErr: true},
		{name: "failure rate above one", opts: Options{FailureRate: 1.1}, wantErr: true},
		{name: "negative rate limit", opts: Options{RateLimit: -1}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, err := New(tt.opts, 1)
			if tt.wantErr {
				require.Error(t, err)
				assert.Nil(t, g)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, 1, g.opts.Producers)
		})
	}
}

func TestGenerator_TaskOutcome(t *testing.T) {
	tests := []struct {
		name     string
		rate     float64
		wantFail bool
	}{
		{name: "never fails", rate: 0},
		{name: "always fails", rate: 1, wantFail: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, err := New(Options{FailureRate: tt.rate}, 7)
			require.NoError(t, err)

			for i := 0; i < 20; i++ {
				err := g.Task()(context.Background())
				if tt.wantFail {
					assert.ErrorIs(t, err, ErrSyntheticFailure)
				} else {
					assert.NoError(t, err)
				}
			}
		})
	}
}

func TestGenerator_TaskHonoursContext(t *testing.T) {
	g, err := New(Options{MinDuration: time.Hour, MaxDuration: time.Hour}, 1)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	start := time.Now()
	assert.ErrorIs(t, g.Task()(ctx), context.Canceled)
	assert.Less(t, time.Since(start), time.Second)
}

func TestGenerator_TaskSleepsWithinRange(t *testing.T) {
	g, err := New(Options{MinDuration: 5 * time.Millisecond, MaxDuration: 10 * time.Millisecond}, 3)
	require.NoError(t, err)

	start := time.Now()
	require.NoError(t, g.Task()(context.Background()))
	assert.GreaterOrEqual(t, time.Since(start), 5*time.Millisecond)
}

func TestGenerator_Burst(t *testing.T) {
	tests := []struct {
		name      string
		producers int
		n         int
	}{
		{name: "single producer", producers: 1, n: 10},
		{name: "uneven split", producers: 3, n: 10},
		{name: "more producers than tasks", producers: 8, n: 3},
		{name: "empty burst", producers: 2, n: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, err := New(Options{Producers: tt.producers}, 1)
			require.NoError(t, err)
			sub := &fakeSubmitter{}

			res, err := g.Burst(context.Background(), sub, tt.n)
			require.NoError(t, err)
			assert.Equal(t, tt.n, res.Submitted)
			assert.Zero(t, res.Rejected)
			assert.Len(t, sub.tasks, tt.n)
		})
	}
}

func TestGenerator_BurstCountsQueueFull(t *testing.T) {
	g, err := New(Options{Producers: 2}, 1)
	require.NoError(t, err)
	sub := &fakeSubmitter{accept: 4, err: workers.ErrQueueFull}

	res, err := g.Burst(context.Background(), sub, 10)
	require.NoError(t, err)
	assert.Equal(t, 4, res.Submitted)
	assert.Equal(t, 6, res.Rejected)
}

func TestGenerator_BurstStopsOnShutdown(t *testing.T) {
	g, err := New(Options{Producers: 1}, 1)
	require.NoError(t, err)
	sub := &fakeSubmitter{accept: 2, err: workers.ErrPoolShutdown}

	res, err := g.Burst(context.Background(), sub, 10)
	require.ErrorIs(t, err, workers.ErrPoolShutdown)
	assert.Equal(t, 2, res.Submitted)
	assert.Equal(t, 1, res.Rejected)
}

func TestGenerator_BurstCancelled(t *testing.T) {
	g, err := New(Options{Producers: 2}, 1)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res, err := g.Burst(ctx, &fakeSubmitter{}, 5)
	require.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, res.Submitted)
}

func TestGenerator_BurstRateLimited(t *testing.T) {
	g, err := New(Options{Producers: 2, RateLimit: 100}, 1)
	require.NoError(t, err)

	res, err := g.Burst(context.Background(), &fakeSubmitter{}, 20)
	require.NoError(t, err)
	assert.Equal(t, 20, res.Submitted)
}

func TestGenerator_BurstIntoPool(t *testing.T) {
	pool, err := workers.NewPool(workers.Config{Workers: 2, QueueCapacity: 4})
	require.NoError(t, err)

	var finished atomic.Int32
	g, err := New(Options{Producers: 3, FailureRate: 0.5}, 11)
	require.NoError(t, err)

	res, err := g.Burst(context.Background(), countingSubmitter{pool, &finished}, 30)
	require.NoError(t, err)
	assert.Equal(t, 30, res.Submitted)

	pool.Shutdown()
	require.True(t, pool.AwaitTermination(5*time.Second))
	assert.EqualValues(t, 30, finished.Load())

	m := pool.Metrics()
	assert.EqualValues(t, 30, m.TasksCompleted+m.TasksFailed)
}

type countingSubmitter struct {
	pool     *workers.Pool
	finished *atomic.Int32
}

func (c countingSubmitter) SubmitContext(ctx context.Context, task workers.Task) error {
	return c.pool.SubmitContext(ctx, func(ctx context.Context) error {
		defer c.finished.Add(1)
		return task(ctx)
	})
}

func TestNewScheduler(t *testing.T) {
	g, err := New(Options{}, 1)
	require.NoError(t, err)

	_, err = NewScheduler("@every 1s", 0, g, &fakeSubmitter{}, nil)
	assert.Error(t, err)

	_, err = NewScheduler("whenever", 1, g, &fakeSubmitter{}, nil)
	assert.ErrorContains(t, err, "invalid schedule")

	s, err := NewScheduler("*/5 * * * * *", 1, g, &fakeSubmitter{}, nil)
	require.NoError(t, err)
	assert.Zero(t, s.Ticks())
}

func TestScheduler_RunsBursts(t *testing.T) {
	g, err := New(Options{}, 1)
	require.NoError(t, err)
	sub := &fakeSubmitter{}

	s, err := NewScheduler("* * * * * *", 3, g, sub, nil)
	require.NoError(t, err)
	require.NoError(t, s.Start(context.Background()))
	assert.Error(t, s.Start(context.Background()))

	assert.Eventually(t, func() bool { return s.Ticks() >= 1 }, 3*time.Second, 20*time.Millisecond)
	s.Stop()
	s.Stop()

	sub.mu.Lock()
	defer sub.mu.Unlock()
	assert.GreaterOrEqual(t, sub.accepted, 3)
	assert.LessOrEqual(t, sub.accepted, int(s.Ticks())*3)
}

func TestScheduler_StopWithoutStart(t *testing.T) {
	g, err := New(Options{}, 1)
	require.NoError(t, err)
	s, err := NewScheduler("@every 1h", 1, g, &fakeSubmitter{}, nil)
	require.NoError(t, err)

	assert.NotPanics(t, s.Stop)
	assert.Zero(t, s.Ticks())
}

