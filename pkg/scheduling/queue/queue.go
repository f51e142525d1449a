// Package queue implements an unbounded multi-producer multi-consumer FIFO
// queue with separate head and tail locks.
//
// The list always holds a sentinel node at the tail, so producers only touch
// the tail lock and consumers only touch the head lock. A consumer compares
// head against a snapshot of tail taken under the tail lock to decide whether
// the queue is empty.
package queue

import (
	"context"
	"sync"
	"sync/atomic"
)

type node[T any] struct {
	value T
	next  *node[T]
}

// Queue is safe for concurrent use. The zero value is not usable; call New.
type Queue[T any] struct {
	headMu sync.Mutex
	head   *node[T]
	cond   *sync.Cond // bound to headMu

	tailMu sync.Mutex
	tail   *node[T]

	length  atomic.Int64
	waiters atomic.Int32
}

// New returns an empty queue.
func New[T any]() *Queue[T] {
	sentinel := &node[T]{}
	q := &Queue[T]{head: sentinel, tail: sentinel}
	q.cond = sync.NewCond(&q.headMu)
	return q
}

// Push appends value and wakes one blocked consumer.
func (q *Queue[T]) Push(value T) {
	sentinel := &node[T]{}

	q.tailMu.Lock()
	q.tail.value = value
	q.tail.next = sentinel
	q.tail = sentinel
	q.tailMu.Unlock()

	q.length.Add(1)

	// Waiters register under headMu before their emptiness check, so either
	// they see this push or we see them here.
	if q.waiters.Load() > 0 {
		q.headMu.Lock()
		q.cond.Signal()
		q.headMu.Unlock()
	}
}

func (q *Queue[T]) getTail() *node[T] {
	q.tailMu.Lock()
	defer q.tailMu.Unlock()
	return q.tail
}

// popHead unlinks the head node. Caller holds headMu and has checked that the
// queue is not empty.
func (q *Queue[T]) popHead() T {
	old := q.head
	q.head = old.next
	value := old.value

	var zero T
	old.value = zero
	old.next = nil

	q.length.Add(-1)
	return value
}

// TryPop removes the front element without blocking.
func (q *Queue[T]) TryPop() (T, bool) {
	q.headMu.Lock()
	defer q.headMu.Unlock()

	if q.head == q.getTail() {
		var zero T
		return zero, false
	}
	return q.popHead(), true
}

// WaitAndPop blocks until an element is available and removes it.
func (q *Queue[T]) WaitAndPop() T {
	q.headMu.Lock()
	defer q.headMu.Unlock()

	q.waiters.Add(1)
	for q.head == q.getTail() {
		q.cond.Wait()
	}
	q.waiters.Add(-1)

	return q.popHead()
}

// WaitAndPopContext is WaitAndPop bounded by ctx.
func (q *Queue[T]) WaitAndPopContext(ctx context.Context) (T, error) {
	stop := context.AfterFunc(ctx, func() {
		q.headMu.Lock()
		q.cond.Broadcast()
		q.headMu.Unlock()
	})
	defer stop()

	q.headMu.Lock()
	defer q.headMu.Unlock()

	q.waiters.Add(1)
	defer q.waiters.Add(-1)

	for q.head == q.getTail() {
		if err := ctx.Err(); err != nil {
			var zero T
			return zero, err
		}
		q.cond.Wait()
	}

	return q.popHead(), nil
}

// Empty reports whether the queue held no elements at the moment of the call.
func (q *Queue[T]) Empty() bool {
	q.headMu.Lock()
	defer q.headMu.Unlock()
	return q.head == q.getTail()
}

// Len returns an approximate element count.
func (q *Queue[T]) Len() int {
	return int(q.length.Load())
}
