package workers

import (
	"time"
)

// Metrics returns the current pool metrics.
func (p *Pool) Metrics() PoolMetrics {
	p.metricsMu.RLock()
	defer p.metricsMu.RUnlock()
	return p.metrics
}

func (p *Pool) incrementSubmitted() {
	p.metricsMu.Lock()
	defer p.metricsMu.Unlock()
	p.metrics.TasksSubmitted++
}

func (p *Pool) incrementCompleted() {
	p.metricsMu.Lock()
	defer p.metricsMu.Unlock()
	p.metrics.TasksCompleted++
}

func (p *Pool) incrementFailed() {
	p.metricsMu.Lock()
	defer p.metricsMu.Unlock()
	p.metrics.TasksFailed++
}

func (p *Pool) incrementRejected() {
	p.metricsMu.Lock()
	defer p.metricsMu.Unlock()
	p.metrics.TasksRejected++
}

func (p *Pool) addDiscarded(n int) {
	p.metricsMu.Lock()
	defer p.metricsMu.Unlock()
	p.metrics.TasksDiscarded += uint64(n)
}

// recordDuration records task execution duration.
func (p *Pool) recordDuration(d time.Duration) {
	p.metricsMu.Lock()
	defer p.metricsMu.Unlock()
	p.metrics.TotalDuration += d
}
