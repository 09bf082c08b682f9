package workers

import "time"

// Observer receives pool lifecycle events. Methods are called from producer
// and worker goroutines concurrently and must not block.
type Observer interface {
	// OnSubmit is called after a task is queued; queued is the depth including it.
	OnSubmit(queued int)
	// OnReject is called when a submission is refused.
	OnReject(err error)
	// OnStart is called when a worker dequeues a task; queued is the depth left behind.
	OnStart(queued int)
	// OnFinish is called after a task returns. err is a *TaskFailure or nil.
	OnFinish(d time.Duration, err error)
	// OnDiscard is called by ShutdownNow with the number of dropped tasks.
	OnDiscard(n int)
}

// NopObserver ignores every event.
type NopObserver struct{}

func (NopObserver) OnSubmit(int)                  {}
func (NopObserver) OnReject(error)                {}
func (NopObserver) OnStart(int)                   {}
func (NopObserver) OnFinish(time.Duration, error) {}
func (NopObserver) OnDiscard(int)                 {}
