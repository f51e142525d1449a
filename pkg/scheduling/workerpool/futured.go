package workerpool

import (
	"context"

	"github.com/vnykmshr/taskflow/pkg/common/validation"
	"github.com/vnykmshr/taskflow/pkg/scheduling/future"
	"github.com/vnykmshr/taskflow/pkg/scheduling/task"
)

// FuturedPool runs tasks on a fixed set of workers and hands each caller a
// future for the task's outcome. Errors and recovered panics are delivered
// through the future instead of being lost.
type FuturedPool struct {
	*sharedPool
}

// NewFuturedPool starts cfg.Workers workers.
func NewFuturedPool(cfg Config) (*FuturedPool, error) {
	p, err := newSharedPool(cfg, false)
	if err != nil {
		return nil, err
	}
	return &FuturedPool{sharedPool: p}, nil
}

// Submit queues t and returns a future that resolves with its error.
func (p *FuturedPool) Submit(t Task) (*future.Future[struct{}], error) {
	if err := validation.ValidateNotNil("workerpool", "task", t); err != nil {
		return nil, err
	}
	return SubmitFunc(p, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, t.Execute(ctx)
	})
}

// SubmitFunc queues fn on p and returns a future for its result.
func SubmitFunc[T any](p *FuturedPool, fn func(ctx context.Context) (T, error)) (*future.Future[T], error) {
	if fn == nil {
		return nil, validation.ValidateNotNil("workerpool", "fn", nil)
	}

	h, f := task.Package(fn)
	if err := p.enqueue(p.queue, h); err != nil {
		h.Discard(err)
		return nil, err
	}
	return f, nil
}
