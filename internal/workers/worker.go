package workers

import (
	"context"
	"fmt"
	"time"

	"github.com/aatumaykin/poolkit/internal/logger"
)

// worker takes tasks until the queue is closed and empty.
func (p *Pool) worker(id int) {
	defer p.wg.Done()

	p.logger.Debug("worker started", logger.Field{Key: "worker_id", Value: id})

	for {
		j, remaining, ok := p.queue.take()
		if !ok {
			p.logger.Debug("worker stopping", logger.Field{Key: "worker_id", Value: id})
			return
		}
		p.observer.OnStart(remaining)
		p.processTask(id, j)
	}
}

// processTask runs one task with metrics and failure isolation.
func (p *Pool) processTask(workerID int, j job) {
	p.active.Add(1)
	startTime := time.Now()

	err := p.execute(j)

	duration := time.Since(startTime)
	p.active.Add(-1)

	if err != nil {
		p.incrementFailed()
		p.logger.Warn("task failed",
			logger.Field{Key: "worker_id", Value: workerID},
			logger.Field{Key: "task_id", Value: j.id},
			logger.Field{Key: "error", Value: err.Error()})
	} else {
		p.incrementCompleted()
	}
	p.recordDuration(duration)
	p.observer.OnFinish(duration, err)

	p.logger.Debug("task processed",
		logger.Field{Key: "worker_id", Value: workerID},
		logger.Field{Key: "task_id", Value: j.id},
		logger.Field{Key: "wait_ms", Value: startTime.Sub(j.enqueued).Milliseconds()},
		logger.Field{Key: "duration_ms", Value: duration.Milliseconds()})
}

// execute calls the task behind a recover boundary. Any error or panic comes
// back as a *TaskFailure.
func (p *Pool) execute(j job) (err error) {
	ctx := p.ctx
	if p.cfg.TaskTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.cfg.TaskTimeout)
		defer cancel()
	}

	defer func() {
		if r := recover(); r != nil {
			err = &TaskFailure{TaskID: j.id, Err: fmt.Errorf("panic: %v", r), Panicked: true}
		}
	}()

	if taskErr := j.task(ctx); taskErr != nil {
		return &TaskFailure{TaskID: j.id, Err: taskErr}
	}
	return nil
}
