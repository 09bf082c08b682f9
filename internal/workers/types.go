// Package workers provides a bounded worker pool: a fixed number of worker
// goroutines pulling tasks from a fixed-capacity FIFO queue, with graceful
// (Shutdown) and forced (ShutdownNow) termination.
package workers

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/aatumaykin/poolkit/internal/logger"
)

// Task is a unit of work. It returns no result; a non-nil error or a panic is
// recorded as a TaskFailure and never reaches the submitter. ctx is cancelled
// by ShutdownNow or when the per-task timeout expires.
type Task func(ctx context.Context) error

// State is the pool lifecycle state.
type State int32

const (
	StateRunning State = iota
	StateShuttingDown
	StateTerminated
)

func (s State) String() string {
	switch s {
	case StateRunning:
		return "running"
	case StateShuttingDown:
		return "shutting_down"
	case StateTerminated:
		return "terminated"
	default:
		return "unknown"
	}
}

// OverflowPolicy decides what Submit does when the queue is full.
type OverflowPolicy string

const (
	// OverflowBlock makes Submit wait for a free slot.
	OverflowBlock OverflowPolicy = "block"
	// OverflowReject makes Submit fail with ErrQueueFull.
	OverflowReject OverflowPolicy = "reject"
)

// ParseOverflowPolicy converts a config string into a policy. Empty means block.
func ParseOverflowPolicy(s string) (OverflowPolicy, error) {
	switch OverflowPolicy(strings.ToLower(strings.TrimSpace(s))) {
	case "", OverflowBlock:
		return OverflowBlock, nil
	case OverflowReject:
		return OverflowReject, nil
	default:
		return "", fmt.Errorf("%w: unknown overflow policy %q (expected: block, reject)", ErrInvalidConfig, s)
	}
}

// Config configures a Pool.
type Config struct {
	Workers       int            // number of worker goroutines, > 0
	QueueCapacity int            // maximum queued tasks, > 0
	Overflow      OverflowPolicy // defaults to OverflowBlock
	TaskTimeout   time.Duration  // 0 disables the per-task deadline
	Logger        *logger.Logger // defaults to a discarding logger
	Observer      Observer       // optional lifecycle hooks
}

func (c Config) validate() error {
	if c.Workers <= 0 {
		return fmt.Errorf("%w: workers must be positive, got %d", ErrInvalidConfig, c.Workers)
	}
	if c.QueueCapacity <= 0 {
		return fmt.Errorf("%w: queue capacity must be positive, got %d", ErrInvalidConfig, c.QueueCapacity)
	}
	if c.TaskTimeout < 0 {
		return fmt.Errorf("%w: task timeout must not be negative", ErrInvalidConfig)
	}
	if _, err := ParseOverflowPolicy(string(c.Overflow)); err != nil {
		return err
	}
	return nil
}

// PoolMetrics is a snapshot of pool counters.
type PoolMetrics struct {
	TasksSubmitted uint64
	TasksCompleted uint64
	TasksFailed    uint64
	TasksRejected  uint64
	TasksDiscarded uint64
	TotalDuration  time.Duration
}

// Constants for worker pool configuration
const (
	DefaultPoolSize      = 4
	DefaultQueueCapacity = 64
)
