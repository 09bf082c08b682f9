package report

import (
	"time"

	"github.com/aatumaykin/poolkit/internal/workers"
)

// NewPoolReport snapshots p. medianTask is included when hasMedian is set.
func NewPoolReport(p *workers.Pool, medianTask time.Duration, hasMedian bool, elapsed time.Duration) PoolReport {
	m := p.Metrics()
	r := PoolReport{
		State:           p.State().String(),
		Workers:         p.WorkerCount(),
		QueueCapacity:   p.QueueCapacity(),
		Submitted:       m.TasksSubmitted,
		Completed:       m.TasksCompleted,
		Failed:          m.TasksFailed,
		Rejected:        m.TasksRejected,
		Discarded:       m.TasksDiscarded,
		ElapsedMs:       elapsed.Milliseconds(),
		TerminatedClean: p.State() == workers.StateTerminated && m.TasksDiscarded == 0,
	}
	if hasMedian {
		ms := float64(medianTask) / float64(time.Millisecond)
		r.MedianTaskMs = &ms
	}
	return r
}
