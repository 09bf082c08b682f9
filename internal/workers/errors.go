package workers

import (
	"errors"
	"fmt"
)

var (
	// ErrRejectedExecution is the parent of every submission refusal.
	ErrRejectedExecution = errors.New("task rejected")

	// ErrPoolShutdown is returned when submitting to a pool that is no longer running.
	ErrPoolShutdown = fmt.Errorf("%w: pool is not running", ErrRejectedExecution)

	// ErrQueueFull is returned by non-blocking submissions when no slot is free.
	ErrQueueFull = fmt.Errorf("%w: queue is full", ErrRejectedExecution)

	ErrNilTask       = errors.New("task is nil")
	ErrInvalidConfig = errors.New("invalid pool config")
)

// TaskFailure records a task that returned an error or panicked inside a
// worker. It is logged and reported to the Observer, never returned to the
// submitter.
type TaskFailure struct {
	TaskID   string
	Err      error
	Panicked bool
}

func (f *TaskFailure) Error() string {
	if f.Panicked {
		return fmt.Sprintf("task %s panicked: %v", f.TaskID, f.Err)
	}
	return fmt.Sprintf("task %s failed: %v", f.TaskID, f.Err)
}

func (f *TaskFailure) Unwrap() error {
	return f.Err
}
