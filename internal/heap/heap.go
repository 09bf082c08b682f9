// Package heap implements a generic binary heap whose ordering direction is
// chosen at construction time. A single implementation serves both min- and
// max-heaps.
package heap

import "cmp"

// Order selects which element sits at the top of the heap.
type Order int

const (
	// MinOrder keeps the smallest element on top.
	MinOrder Order = iota
	// MaxOrder keeps the largest element on top.
	MaxOrder
)

func (o Order) String() string {
	switch o {
	case MinOrder:
		return "min"
	case MaxOrder:
		return "max"
	default:
		return "unknown"
	}
}

// Heap is a binary heap over an ordered type. The zero value is a min-heap.
// Floating point NaN values are ordered before every other value, following cmp.Less.
type Heap[T cmp.Ordered] struct {
	items []T
	order Order
}

// New returns an empty heap with the given order.
func New[T cmp.Ordered](order Order) *Heap[T] {
	return &Heap[T]{order: order}
}

// NewMin returns an empty min-heap.
func NewMin[T cmp.Ordered]() *Heap[T] {
	return New[T](MinOrder)
}

// NewMax returns an empty max-heap.
func NewMax[T cmp.Ordered]() *Heap[T] {
	return New[T](MaxOrder)
}

// Order reports the heap's ordering direction.
func (h *Heap[T]) Order() Order {
	return h.order
}

// Len returns the number of elements.
func (h *Heap[T]) Len() int {
	return len(h.items)
}

// Push adds v in O(log n).
func (h *Heap[T]) Push(v T) {
	h.items = append(h.items, v)
	h.up(len(h.items) - 1)
}

// Peek returns the top element without removing it.
func (h *Heap[T]) Peek() (T, bool) {
	if len(h.items) == 0 {
		var zero T
		return zero, false
	}
	return h.items[0], true
}

// Pop removes and returns the top element in O(log n).
func (h *Heap[T]) Pop() (T, bool) {
	n := len(h.items)
	if n == 0 {
		var zero T
		return zero, false
	}

	top := h.items[0]
	last := n - 1
	h.items[0] = h.items[last]
	var zero T
	h.items[last] = zero
	h.items = h.items[:last]
	if last > 0 {
		h.down(0)
	}
	return top, true
}

// Values returns a copy of the elements in heap layout order.
func (h *Heap[T]) Values() []T {
	out := make([]T, len(h.items))
	copy(out, h.items)
	return out
}

// Clear removes every element, keeping the allocated capacity.
func (h *Heap[T]) Clear() {
	clear(h.items)
	h.items = h.items[:0]
}

// before reports whether a belongs above b.
func (h *Heap[T]) before(a, b T) bool {
	if h.order == MaxOrder {
		return cmp.Less(b, a)
	}
	return cmp.Less(a, b)
}

func (h *Heap[T]) up(i int) {
	for i > 0 {
		parent := (i - 1) / 2
		if !h.before(h.items[i], h.items[parent]) {
			return
		}
		h.items[i], h.items[parent] = h.items[parent], h.items[i]
		i = parent
	}
}

func (h *Heap[T]) down(i int) {
	n := len(h.items)
	for {
		top := i
		left := 2*i + 1
		right := left + 1
		if left < n && h.before(h.items[left], h.items[top]) {
			top = left
		}
		if right < n && h.before(h.items[right], h.items[top]) {
			top = right
		}
		if top == i {
			return
		}
		h.items[i], h.items[top] = h.items[top], h.items[i]
		i = top
	}
}
