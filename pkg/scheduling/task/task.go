package task

import (
	"context"
	"errors"
	"runtime/debug"
	"sync/atomic"

	tferrors "github.com/vnykmshr/taskflow/pkg/common/errors"
	"github.com/vnykmshr/taskflow/pkg/scheduling/future"
)

// ErrEmptyHandle is returned when running a handle whose callable was moved out
// or already consumed.
var ErrEmptyHandle = errors.New("task: empty handle")

// Task represents a unit of work bound to some receiver.
type Task interface {
	Execute(ctx context.Context) error
}

// TaskFunc is a function adapter for Task.
type TaskFunc func(ctx context.Context) error

// Execute implements Task.
func (f TaskFunc) Execute(ctx context.Context) error {
	return f(ctx)
}

// runnable is the closed set of callables a Handle can own.
type runnable interface {
	run(ctx context.Context) error
	// discard releases the callable without running it.
	discard(err error)
}

type funcRunnable func()

func (f funcRunnable) run(context.Context) error {
	f()
	return nil
}

func (funcRunnable) discard(error) {}

type taskRunnable struct {
	t Task
}

func (r taskRunnable) run(ctx context.Context) error {
	return r.t.Execute(ctx)
}

func (taskRunnable) discard(error) {}

type packaged[T any] struct {
	fn      func(ctx context.Context) (T, error)
	promise *future.Promise[T]
}

func (p *packaged[T]) run(ctx context.Context) error {
	v, err := p.fn(ctx)
	p.promise.Complete(v, err)
	return err
}

func (p *packaged[T]) discard(err error) {
	p.promise.Reject(err)
}

type slot struct {
	r runnable
}

// Handle owns a single callable. The zero value is an empty handle.
type Handle struct {
	slot atomic.Pointer[slot]
}

func newHandle(r runnable) *Handle {
	h := &Handle{}
	h.slot.Store(&slot{r: r})
	return h
}

// New wraps a plain function.
func New(fn func()) *Handle {
	if fn == nil {
		return &Handle{}
	}
	return newHandle(funcRunnable(fn))
}

// FromTask wraps a Task. A method value such as svc.Refresh can be passed
// through TaskFunc.
func FromTask(t Task) *Handle {
	if t == nil {
		return &Handle{}
	}
	return newHandle(taskRunnable{t: t})
}

// Package wraps fn so that its outcome, including a recovered panic or a
// shutdown that prevents it from running, is delivered through the returned
// future.
func Package[T any](fn func(ctx context.Context) (T, error)) (*Handle, *future.Future[T]) {
	p, f := future.New[T]()
	if fn == nil {
		p.Reject(ErrEmptyHandle)
		return &Handle{}, f
	}
	return newHandle(&packaged[T]{fn: fn, promise: p}), f
}

// Move transfers the callable into a new handle and leaves h empty.
func (h *Handle) Move() *Handle {
	moved := &Handle{}
	if s := h.slot.Swap(nil); s != nil {
		moved.slot.Store(s)
	}
	return moved
}

// Empty reports whether the handle currently owns no callable.
func (h *Handle) Empty() bool {
	return h.slot.Load() == nil
}

// Run consumes and invokes the callable. A panic is recovered and returned as
// a *errors.PanicError; packaged tasks also resolve their future with it.
func (h *Handle) Run(ctx context.Context) (err error) {
	s := h.slot.Swap(nil)
	if s == nil {
		return ErrEmptyHandle
	}

	defer func() {
		if r := recover(); r != nil {
			perr := tferrors.NewPanicError(r, debug.Stack())
			s.r.discard(perr)
			err = perr
		}
	}()

	return s.r.run(ctx)
}

// Discard consumes the callable without running it. Packaged tasks resolve
// their future with err. It reports whether there was anything to discard.
func (h *Handle) Discard(err error) bool {
	s := h.slot.Swap(nil)
	if s == nil {
		return false
	}
	s.r.discard(err)
	return true
}
