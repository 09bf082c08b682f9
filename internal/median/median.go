// Package median maintains the running median of a numeric stream using two
// heaps: a max-heap with the lower half and a min-heap with the upper half.
//
// A Tracker is not safe for concurrent use. Callers that share one across
// goroutines must serialize Insert and Median themselves.
package median

import (
	"cmp"
	"errors"

	"github.com/aatumaykin/poolkit/internal/heap"
)

// ErrEmpty is returned by Median before any value was inserted.
var ErrEmpty = errors.New("median: no values inserted")

// Number is the set of numeric types a Tracker accepts.
type Number interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 |
		~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 |
		~float32 | ~float64
}

// Tracker holds the two halves of everything inserted so far.
//
// Invariants after every Insert:
//   - every element of lower is <= every element of upper
//   - lower.Len() == upper.Len() or lower.Len() == upper.Len()+1
type Tracker[T Number] struct {
	lower *heap.Heap[T]
	upper *heap.Heap[T]
}

// New returns an empty tracker.
func New[T Number]() *Tracker[T] {
	return &Tracker[T]{
		lower: heap.NewMax[T](),
		upper: heap.NewMin[T](),
	}
}

// Insert adds v to the stream in O(log n). NaN sorts below every other value.
func (t *Tracker[T]) Insert(v T) {
	if top, ok := t.lower.Peek(); !ok || !cmp.Less(top, v) {
		t.lower.Push(v)
	} else {
		t.upper.Push(v)
	}

	if t.lower.Len() > t.upper.Len()+1 {
		moved, _ := t.lower.Pop()
		t.upper.Push(moved)
	} else if t.upper.Len() > t.lower.Len() {
		moved, _ := t.upper.Pop()
		t.lower.Push(moved)
	}
}

// Median returns the median of all inserted values. With an even count it is
// the mean of the two middle values, so integer input may yield a fraction.
func (t *Tracker[T]) Median() (float64, error) {
	lo, ok := t.lower.Peek()
	if !ok {
		return 0, ErrEmpty
	}
	if t.lower.Len() > t.upper.Len() {
		return float64(lo), nil
	}
	hi, _ := t.upper.Peek()
	return (float64(lo) + float64(hi)) / 2, nil
}

// Len returns how many values were inserted.
func (t *Tracker[T]) Len() int {
	return t.lower.Len() + t.upper.Len()
}

// Reset drops all values.
func (t *Tracker[T]) Reset() {
	t.lower.Clear()
	t.upper.Clear()
}
