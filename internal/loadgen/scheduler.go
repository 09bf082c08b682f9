package loadgen

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/robfig/cron/v3"

	"github.com/aatumaykin/poolkit/internal/constants"
	"github.com/aatumaykin/poolkit/internal/logger"
	"github.com/aatumaykin/poolkit/internal/workers"
)

// Scheduler runs a Burst on every tick of a cron schedule.
type Scheduler struct {
	cron      *cron.Cron
	generator *Generator
	target    Submitter
	perTick   int
	logger    *logger.Logger

	ticks   atomic.Int64
	ctx     context.Context
	cancel  context.CancelFunc
	started bool
	mu      sync.Mutex
}

// NewScheduler parses schedule and prepares a Scheduler. Specs accept an
// optional seconds field and descriptors such as "@every 5s".
func NewScheduler(schedule string, perTick int, g *Generator, target Submitter, log *logger.Logger) (*Scheduler, error) {
	if perTick <= 0 {
		return nil, fmt.Errorf("tasks per tick must be positive")
	}
	if log == nil {
		log = logger.Nop()
	}

	s := &Scheduler{
		cron:      cron.New(cron.WithParser(cron.NewParser(constants.CronParseOptions))),
		generator: g,
		target:    target,
		perTick:   perTick,
		logger:    log.With(logger.Field{Key: "component", Value: "loadgen"}),
	}
	if _, err := s.cron.AddFunc(schedule, s.tick); err != nil {
		return nil, fmt.Errorf("invalid schedule %q: %w", schedule, err)
	}
	return s, nil
}

// Start starts the cron loop. Bursts run with a context derived from ctx.
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return fmt.Errorf("scheduler already started")
	}

	s.ctx, s.cancel = context.WithCancel(ctx)
	s.started = true
	s.cron.Start()
	s.logger.Info("load scheduler started", logger.Field{Key: "tasks_per_tick", Value: s.perTick})
	return nil
}

// Stop cancels in-flight bursts and waits for running ticks to return.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	if !s.started {
		s.mu.Unlock()
		return
	}
	s.started = false
	s.cancel()
	s.mu.Unlock()

	<-s.cron.Stop().Done()
	s.logger.Info("load scheduler stopped", logger.Field{Key: "ticks", Value: s.ticks.Load()})
}

// Ticks returns how many bursts have run.
func (s *Scheduler) Ticks() int64 {
	return s.ticks.Load()
}

func (s *Scheduler) tick() {
	s.mu.Lock()
	ctx := s.ctx
	s.mu.Unlock()
	if ctx == nil {
		return
	}

	id := fmt.Sprintf(constants.CronBurstIDFormat, s.ticks.Add(1))
	res, err := s.generator.Burst(ctx, s.target, s.perTick)
	fields := []logger.Field{
		{Key: "burst_id", Value: id},
		{Key: "submitted", Value: res.Submitted},
		{Key: "rejected", Value: res.Rejected},
	}
	switch {
	case err == nil:
		s.logger.Debug("burst submitted", fields...)
	case errors.Is(err, context.Canceled), errors.Is(err, workers.ErrPoolShutdown):
		s.logger.Debug("burst interrupted", fields...)
	default:
		s.logger.Error("burst failed", err, fields...)
	}
}
