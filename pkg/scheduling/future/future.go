// Package future provides a single-assignment result slot shared between the
// goroutine that produces a value and any number of goroutines waiting on it.
package future

import (
	"context"
	"sync"

	tfctx "github.com/vnykmshr/taskflow/pkg/common/context"
)

// Future is the read side of a result that becomes available once.
type Future[T any] struct {
	done  chan struct{}
	once  sync.Once
	value T
	err   error
}

// Promise is the write side of a Future. Only the first completion wins.
type Promise[T any] struct {
	f *Future[T]
}

// New returns a linked promise and future.
func New[T any]() (*Promise[T], *Future[T]) {
	f := &Future[T]{done: make(chan struct{})}
	return &Promise[T]{f: f}, f
}

// Completed returns a future that is already resolved with v and err.
func Completed[T any](v T, err error) *Future[T] {
	p, f := New[T]()
	p.Complete(v, err)
	return f
}

// Complete stores the outcome and wakes all waiters. It reports whether this
// call was the one that resolved the future.
func (p *Promise[T]) Complete(v T, err error) bool {
	resolved := false
	p.f.once.Do(func() {
		p.f.value = v
		p.f.err = err
		close(p.f.done)
		resolved = true
	})
	return resolved
}

// Resolve completes the future with a value.
func (p *Promise[T]) Resolve(v T) bool {
	return p.Complete(v, nil)
}

// Reject completes the future with an error.
func (p *Promise[T]) Reject(err error) bool {
	var zero T
	return p.Complete(zero, err)
}

// Future returns the read side bound to this promise.
func (p *Promise[T]) Future() *Future[T] {
	return p.f
}

// Done is closed once the future is resolved.
func (f *Future[T]) Done() <-chan struct{} {
	return f.done
}

// Ready reports whether the outcome is available without blocking.
func (f *Future[T]) Ready() bool {
	select {
	case <-f.done:
		return true
	default:
		return false
	}
}

// Get blocks until the future is resolved.
func (f *Future[T]) Get() (T, error) {
	<-f.done
	return f.value, f.err
}

// GetContext blocks until the future is resolved or ctx is done. A context
// error leaves the future untouched; it can be waited on again.
func (f *Future[T]) GetContext(ctx context.Context) (T, error) {
	select {
	case <-f.done:
		return f.value, f.err
	case <-ctx.Done():
		var zero T
		return zero, tfctx.Err(ctx)
	}
}
