// Package metrics exports worker pool activity to Prometheus and keeps a
// running median of task durations.
package metrics

import (
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/aatumaykin/poolkit/internal/median"
	"github.com/aatumaykin/poolkit/internal/workers"
)

// PoolMetrics is a workers.Observer backed by Prometheus collectors.
type PoolMetrics struct {
	gatherer prometheus.Gatherer

	tasksSubmitted prometheus.Counter
	tasksFinished  *prometheus.CounterVec
	tasksRejected  *prometheus.CounterVec
	tasksDiscarded prometheus.Counter
	queueDepth     prometheus.Gauge
	activeWorkers  prometheus.Gauge
	taskDuration   *prometheus.HistogramVec
	medianDuration prometheus.GaugeFunc

	mu        sync.Mutex
	durations *median.Tracker[float64]
}

var _ workers.Observer = (*PoolMetrics)(nil)

// New creates the collectors and registers them with reg. A nil reg means the
// default registry. Handler serves reg when it is also a Gatherer.
func New(namespace string, reg prometheus.Registerer) *PoolMetrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	gatherer := prometheus.DefaultGatherer
	if g, ok := reg.(prometheus.Gatherer); ok {
		gatherer = g
	}

	m := &PoolMetrics{
		gatherer:  gatherer,
		durations: median.New[float64](),
		tasksSubmitted: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "pool_tasks_submitted_total",
				Help:      "Total number of tasks accepted into the queue",
			},
		),
		tasksFinished: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "pool_tasks_finished_total",
				Help:      "Total number of tasks run by workers",
			},
			[]string{"status"},
		),
		tasksRejected: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "pool_tasks_rejected_total",
				Help:      "Total number of refused submissions",
			},
			[]string{"reason"},
		),
		tasksDiscarded: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "pool_tasks_discarded_total",
				Help:      "Total number of queued tasks dropped by an immediate shutdown",
			},
		),
		queueDepth: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "pool_queue_depth",
				Help:      "Number of tasks waiting in the queue",
			},
		),
		activeWorkers: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "pool_active_workers",
				Help:      "Number of workers currently running a task",
			},
		),
		taskDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "pool_task_duration_seconds",
				Help:      "Duration of pool tasks",
				Buckets:   []float64{.001, .005, .01, .05, .1, .5, 1, 5, 30},
			},
			[]string{"status"},
		),
	}

	m.medianDuration = prometheus.NewGaugeFunc(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "pool_task_duration_median_seconds",
			Help:      "Running median of task durations",
		},
		func() float64 {
			d, err := m.MedianDuration()
			if err != nil {
				return 0
			}
			return d.Seconds()
		},
	)

	reg.MustRegister(
		m.tasksSubmitted,
		m.tasksFinished,
		m.tasksRejected,
		m.tasksDiscarded,
		m.queueDepth,
		m.activeWorkers,
		m.taskDuration,
		m.medianDuration,
	)

	return m
}

func (m *PoolMetrics) OnSubmit(queued int) {
	m.tasksSubmitted.Inc()
	m.queueDepth.Set(float64(queued))
}

func (m *PoolMetrics) OnReject(err error) {
	m.tasksRejected.WithLabelValues(rejectReason(err)).Inc()
}

func (m *PoolMetrics) OnStart(queued int) {
	m.queueDepth.Set(float64(queued))
	m.activeWorkers.Inc()
}

func (m *PoolMetrics) OnFinish(d time.Duration, err error) {
	status := "completed"
	if err != nil {
		status = "failed"
	}
	m.activeWorkers.Dec()
	m.tasksFinished.WithLabelValues(status).Inc()
	m.taskDuration.WithLabelValues(status).Observe(d.Seconds())

	m.mu.Lock()
	m.durations.Insert(d.Seconds())
	m.mu.Unlock()
}

func (m *PoolMetrics) OnDiscard(n int) {
	m.tasksDiscarded.Add(float64(n))
	m.queueDepth.Set(0)
}

// MedianDuration returns the running median of finished task durations.
// It returns median.ErrEmpty before the first task finishes.
func (m *PoolMetrics) MedianDuration() (time.Duration, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	secs, err := m.durations.Median()
	if err != nil {
		return 0, err
	}
	return time.Duration(secs * float64(time.Second)), nil
}

// Handler serves the registry in the Prometheus exposition format.
func (m *PoolMetrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}

func rejectReason(err error) string {
	switch {
	case errors.Is(err, workers.ErrPoolShutdown):
		return "shutdown"
	case errors.Is(err, workers.ErrQueueFull):
		return "queue_full"
	default:
		return "other"
	}
}
