package workers

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/aatumaykin/poolkit/internal/logger"
)

// Pool runs submitted tasks on a fixed set of workers.
type Pool struct {
	cfg      Config
	queue    *taskQueue
	logger   *logger.Logger
	observer Observer

	// ctx is handed to every task; ShutdownNow cancels it.
	ctx    context.Context
	cancel context.CancelFunc

	state  atomic.Int32
	active atomic.Int32
	wg     sync.WaitGroup
	done   chan struct{}

	metricsMu sync.RWMutex
	metrics   PoolMetrics
}

// NewPool validates cfg and starts cfg.Workers workers. The returned pool is
// already running.
func NewPool(cfg Config) (*Pool, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	cfg.Overflow, _ = ParseOverflowPolicy(string(cfg.Overflow))
	if cfg.Logger == nil {
		cfg.Logger = logger.Nop()
	}
	if cfg.Observer == nil {
		cfg.Observer = NopObserver{}
	}

	ctx, cancel := context.WithCancel(context.Background())
	p := &Pool{
		cfg:      cfg,
		queue:    newTaskQueue(cfg.QueueCapacity),
		logger:   cfg.Logger.With(logger.Field{Key: "component", Value: "workers"}),
		observer: cfg.Observer,
		ctx:      ctx,
		cancel:   cancel,
		done:     make(chan struct{}),
	}
	p.state.Store(int32(StateRunning))

	p.logger.Info("starting worker pool",
		logger.Field{Key: "workers", Value: cfg.Workers},
		logger.Field{Key: "queue_capacity", Value: cfg.QueueCapacity},
		logger.Field{Key: "overflow", Value: string(cfg.Overflow)})

	for i := 0; i < cfg.Workers; i++ {
		p.wg.Add(1)
		go p.worker(i)
	}
	go p.awaitWorkers()

	return p, nil
}

// awaitWorkers marks the pool terminated once the last worker exits.
func (p *Pool) awaitWorkers() {
	p.wg.Wait()
	p.state.Store(int32(StateTerminated))
	p.cancel()

	metrics := p.Metrics()
	p.logger.Info("worker pool terminated",
		logger.Field{Key: "tasks_submitted", Value: metrics.TasksSubmitted},
		logger.Field{Key: "tasks_completed", Value: metrics.TasksCompleted},
		logger.Field{Key: "tasks_failed", Value: metrics.TasksFailed},
		logger.Field{Key: "tasks_discarded", Value: metrics.TasksDiscarded})

	close(p.done)
}

// Submit queues task for execution. When the queue is full it blocks or fails
// with ErrQueueFull, depending on the overflow policy. It fails with
// ErrPoolShutdown once the pool has left StateRunning, including while blocked.
func (p *Pool) Submit(task Task) error {
	return p.submit(context.Background(), task, p.cfg.Overflow == OverflowBlock)
}

// SubmitContext is Submit with a context bounding the wait for a free slot.
func (p *Pool) SubmitContext(ctx context.Context, task Task) error {
	return p.submit(ctx, task, p.cfg.Overflow == OverflowBlock)
}

// TrySubmit queues task only if a slot is free right now.
func (p *Pool) TrySubmit(task Task) error {
	return p.submit(context.Background(), task, false)
}

func (p *Pool) submit(ctx context.Context, task Task, block bool) error {
	if task == nil {
		return ErrNilTask
	}
	if p.State() != StateRunning {
		p.reject(ErrPoolShutdown)
		return ErrPoolShutdown
	}

	j := job{id: uuid.NewString(), task: task, enqueued: time.Now()}
	queued, err := p.queue.put(ctx, j, block)
	if err != nil {
		if errors.Is(err, ErrRejectedExecution) {
			p.reject(err)
		}
		return err
	}

	p.incrementSubmitted()
	p.observer.OnSubmit(queued)

	p.logger.DebugCtx(ctx, "task submitted",
		logger.Field{Key: "task_id", Value: j.id},
		logger.Field{Key: "queued", Value: queued})
	return nil
}

func (p *Pool) reject(err error) {
	p.incrementRejected()
	p.observer.OnReject(err)
	p.logger.Debug("task rejected", logger.Field{Key: "reason", Value: err.Error()})
}

// Shutdown stops accepting tasks. Queued tasks still run. Calling it more than
// once has no further effect.
func (p *Pool) Shutdown() {
	if !p.state.CompareAndSwap(int32(StateRunning), int32(StateShuttingDown)) {
		return
	}
	p.logger.Info("shutting down worker pool",
		logger.Field{Key: "queued", Value: p.queue.len()})
	p.queue.close()
}

// ShutdownNow stops accepting tasks, removes every task that has not started
// and cancels the context of the ones in flight. Running tasks are allowed to
// finish. The removed tasks are returned in queue order.
func (p *Pool) ShutdownNow() []Task {
	p.state.CompareAndSwap(int32(StateRunning), int32(StateShuttingDown))

	jobs := p.queue.drain()
	p.cancel()

	tasks := make([]Task, len(jobs))
	for i, j := range jobs {
		tasks[i] = j.task
	}

	if len(tasks) > 0 {
		p.addDiscarded(len(tasks))
		p.observer.OnDiscard(len(tasks))
	}
	p.logger.Warn("worker pool stopped immediately",
		logger.Field{Key: "discarded", Value: len(tasks)},
		logger.Field{Key: "in_flight", Value: p.ActiveCount()})

	return tasks
}

// AwaitTermination waits until every worker has exited or timeout elapses and
// reports whether the pool terminated. It does not initiate shutdown. A
// non-positive timeout only checks the current state.
func (p *Pool) AwaitTermination(timeout time.Duration) bool {
	if timeout <= 0 {
		select {
		case <-p.done:
			return true
		default:
			return false
		}
	}

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case <-p.done:
		return true
	case <-timer.C:
		return false
	}
}

// Done is closed when the pool reaches StateTerminated.
func (p *Pool) Done() <-chan struct{} {
	return p.done
}

// State returns the current lifecycle state.
func (p *Pool) State() State {
	return State(p.state.Load())
}

// WorkerCount returns the number of workers.
func (p *Pool) WorkerCount() int {
	return p.cfg.Workers
}

// QueueCapacity returns the maximum number of queued tasks.
func (p *Pool) QueueCapacity() int {
	return p.queue.capacity()
}

// QueueSize returns the current number of tasks waiting in the queue.
func (p *Pool) QueueSize() int {
	return p.queue.len()
}

// ActiveCount returns the number of tasks currently executing.
func (p *Pool) ActiveCount() int {
	return int(p.active.Load())
}
