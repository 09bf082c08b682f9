// Package loadgen produces synthetic tasks and submits them to a pool in
// bursts, optionally on a cron schedule.
package loadgen

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/aatumaykin/poolkit/internal/logger"
	"github.com/aatumaykin/poolkit/internal/workers"
)

// ErrSyntheticFailure is returned by generated tasks chosen to fail.
var ErrSyntheticFailure = errors.New("synthetic task failure")

// Submitter accepts tasks. *workers.Pool satisfies it.
type Submitter interface {
	SubmitContext(ctx context.Context, task workers.Task) error
}

// Options configures a Generator.
type Options struct {
	MinDuration time.Duration
	MaxDuration time.Duration
	FailureRate float64
	// Producers is the number of goroutines submitting during a burst.
	Producers int
	// RateLimit caps submissions per second across producers; zero disables it.
	RateLimit float64
	Logger    *logger.Logger
}

// BurstResult counts the outcome of one burst.
type BurstResult struct {
	Submitted int
	Rejected  int
}

// Generator builds synthetic tasks.
type Generator struct {
	opts    Options
	limiter *rate.Limiter
	logger  *logger.Logger

	mu  sync.Mutex
	rng *rand.Rand
}

// New validates opts and returns a Generator. seed makes task durations and
// failures reproducible.
func New(opts Options, seed uint64) (*Generator, error) {
	if opts.MinDuration < 0 || opts.MaxDuration < opts.MinDuration {
		return nil, fmt.Errorf("invalid task duration range %v..%v", opts.MinDuration, opts.MaxDuration)
	}
	if opts.FailureRate < 0 || opts.FailureRate > 1 {
		return nil, fmt.Errorf("failure rate must be between 0 and 1 (got %g)", opts.FailureRate)
	}
	if opts.RateLimit < 0 {
		return nil, fmt.Errorf("rate limit must not be negative")
	}
	if opts.Producers <= 0 {
		opts.Producers = 1
	}
	if opts.Logger == nil {
		opts.Logger = logger.Nop()
	}

	g := &Generator{
		opts:   opts,
		logger: opts.Logger.With(logger.Field{Key: "component", Value: "loadgen"}),
		rng:    rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
	}
	if opts.RateLimit > 0 {
		burst := int(opts.RateLimit)
		if burst < 1 {
			burst = 1
		}
		g.limiter = rate.NewLimiter(rate.Limit(opts.RateLimit), burst)
	}
	return g, nil
}

// Task returns one synthetic task. It sleeps for a random duration within
// the configured range and then returns ErrSyntheticFailure with probability
// FailureRate. It returns ctx.Err() early when ctx is cancelled.
func (g *Generator) Task() workers.Task {
	g.mu.Lock()
	d := g.opts.MinDuration
	if span := g.opts.MaxDuration - g.opts.MinDuration; span > 0 {
		d += time.Duration(g.rng.Int64N(int64(span) + 1))
	}
	fail := g.opts.FailureRate > 0 && g.rng.Float64() < g.opts.FailureRate
	g.mu.Unlock()

	return func(ctx context.Context) error {
		if d > 0 {
			timer := time.NewTimer(d)
			defer timer.Stop()
			select {
			case <-timer.C:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
		if fail {
			return ErrSyntheticFailure
		}
		return nil
	}
}

// Burst submits n tasks to s from Producers goroutines. A full queue counts
// as a rejection and the burst goes on. Shutdown of the target or ctx
// cancellation aborts the remaining submissions.
func (g *Generator) Burst(ctx context.Context, s Submitter, n int) (BurstResult, error) {
	var (
		mu     sync.Mutex
		result BurstResult
	)

	eg, egCtx := errgroup.WithContext(ctx)
	for p := 0; p < g.opts.Producers; p++ {
		share := n / g.opts.Producers
		if p < n%g.opts.Producers {
			share++
		}
		eg.Go(func() error {
			for i := 0; i < share; i++ {
				if g.limiter != nil {
					if err := g.limiter.Wait(egCtx); err != nil {
						return err
					}
				}
				err := s.SubmitContext(egCtx, g.Task())
				mu.Lock()
				if err == nil {
					result.Submitted++
				} else if errors.Is(err, workers.ErrRejectedExecution) {
					result.Rejected++
				}
				mu.Unlock()
				if err != nil && !errors.Is(err, workers.ErrQueueFull) {
					return err
				}
			}
			return nil
		})
	}

	err := eg.Wait()
	g.logger.Debug("burst finished",
		logger.Field{Key: "requested", Value: n},
		logger.Field{Key: "submitted", Value: result.Submitted},
		logger.Field{Key: "rejected", Value: result.Rejected})
	return result, err
}
