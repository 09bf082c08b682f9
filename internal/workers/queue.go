package workers

import (
	"context"
	"sync"
	"time"
)

type job struct {
	id       string
	task     Task
	enqueued time.Time
}

// taskQueue is a bounded FIFO ring buffer guarded by one mutex. Producers wait
// on notFull, workers wait on notEmpty. Once closed it refuses new jobs but
// still hands out the ones it holds.
type taskQueue struct {
	mu       sync.Mutex
	notEmpty *sync.Cond
	notFull  *sync.Cond

	buf    []job
	head   int
	size   int
	closed bool
}

func newTaskQueue(capacity int) *taskQueue {
	q := &taskQueue{buf: make([]job, capacity)}
	q.notEmpty = sync.NewCond(&q.mu)
	q.notFull = sync.NewCond(&q.mu)
	return q
}

// put appends j and returns the queue depth afterwards. With block set it
// waits for a slot until the queue closes or ctx ends.
func (q *taskQueue) put(ctx context.Context, j job, block bool) (int, error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if block && ctx.Done() != nil {
		stop := context.AfterFunc(ctx, func() {
			q.mu.Lock()
			q.notFull.Broadcast()
			q.mu.Unlock()
		})
		defer stop()
	}

	for {
		if q.closed {
			return q.size, ErrPoolShutdown
		}
		if q.size < len(q.buf) {
			break
		}
		if !block {
			return q.size, ErrQueueFull
		}
		if err := ctx.Err(); err != nil {
			return q.size, err
		}
		q.notFull.Wait()
	}

	q.buf[(q.head+q.size)%len(q.buf)] = j
	q.size++
	q.notEmpty.Signal()
	return q.size, nil
}

// take removes the oldest job, waiting while the queue is open and empty.
// ok is false once the queue is closed and drained.
func (q *taskQueue) take() (j job, remaining int, ok bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	for q.size == 0 && !q.closed {
		q.notEmpty.Wait()
	}
	if q.size == 0 {
		return job{}, 0, false
	}

	j = q.buf[q.head]
	q.buf[q.head] = job{}
	q.head = (q.head + 1) % len(q.buf)
	q.size--

	// Broadcast: a woken producer whose context has ended leaves without
	// taking the slot, so a single Signal could strand another producer.
	q.notFull.Broadcast()
	return j, q.size, true
}

// close stops accepting jobs and wakes every waiter.
func (q *taskQueue) close() {
	q.mu.Lock()
	defer q.mu.Unlock()

	q.closed = true
	q.notEmpty.Broadcast()
	q.notFull.Broadcast()
}

// drain closes the queue and removes every pending job in FIFO order.
func (q *taskQueue) drain() []job {
	q.mu.Lock()
	defer q.mu.Unlock()

	q.closed = true
	out := make([]job, 0, q.size)
	for q.size > 0 {
		out = append(out, q.buf[q.head])
		q.buf[q.head] = job{}
		q.head = (q.head + 1) % len(q.buf)
		q.size--
	}
	q.head = 0

	q.notEmpty.Broadcast()
	q.notFull.Broadcast()
	return out
}

func (q *taskQueue) len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.size
}

func (q *taskQueue) capacity() int {
	return len(q.buf)
}
