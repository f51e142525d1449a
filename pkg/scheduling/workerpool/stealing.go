package workerpool

import (
	"context"
	"runtime"

	tfctx "github.com/vnykmshr/taskflow/pkg/common/context"
	"github.com/vnykmshr/taskflow/pkg/common/validation"
	"github.com/vnykmshr/taskflow/pkg/scheduling/future"
	"github.com/vnykmshr/taskflow/pkg/scheduling/queue"
	"github.com/vnykmshr/taskflow/pkg/scheduling/task"
)

// workerContext identifies one worker of a StealingPool. ctx is the pool
// context carrying the worker itself, and every task the worker runs gets it.
type workerContext struct {
	pool  *StealingPool
	index int
	local *handleQueue
	ctx   context.Context
}

type workerKey struct{}

// StealingPool gives every worker a private queue next to a shared one.
//
// Tasks submitted from inside a task running on one of the pool's workers go
// to that worker's private queue; all other submissions go to the shared
// queue. An idle worker looks at its own queue, then the shared queue, then
// steals from its peers. Callers waiting on a result should use AwaitHelping
// so that the waiting goroutine keeps running queued tasks, which makes
// recursive divide-and-conquer safe even with a single worker.
type StealingPool struct {
	*core
	shared *handleQueue
	locals []*workerContext
}

// NewStealingPool creates one private queue per worker and starts the workers.
func NewStealingPool(cfg Config) (*StealingPool, error) {
	c, err := newCore(cfg, false)
	if err != nil {
		return nil, err
	}

	p := &StealingPool{
		core:   c,
		shared: queue.New[*task.Handle](),
		locals: make([]*workerContext, c.workers),
	}
	c.queues = append(c.queues, p.shared)
	for i := range p.locals {
		wc := &workerContext{pool: p, index: i, local: queue.New[*task.Handle]()}
		wc.ctx = context.WithValue(p.ctx, workerKey{}, wc)
		p.locals[i] = wc
		c.queues = append(c.queues, wc.local)
	}

	c.start(func(index int) {
		wc := p.locals[index]
		for !p.done.Load() {
			p.runPending(wc)
		}
	})
	return p, nil
}

// worker returns the worker context carried by ctx if it belongs to p.
func (p *StealingPool) worker(ctx context.Context) *workerContext {
	if ctx == nil {
		return nil
	}
	wc, _ := ctx.Value(workerKey{}).(*workerContext)
	if wc == nil || wc.pool != p {
		return nil
	}
	return wc
}

// SubmitStealing queues fn on p. When ctx is the context of a task running on
// one of p's workers, fn goes to that worker's own queue.
func SubmitStealing[T any](ctx context.Context, p *StealingPool, fn func(ctx context.Context) (T, error)) (*future.Future[T], error) {
	if fn == nil {
		return nil, validation.ValidateNotNil("workerpool", "fn", nil)
	}

	q := p.shared
	if wc := p.worker(ctx); wc != nil {
		q = wc.local
	}

	h, f := task.Package(fn)
	if err := p.enqueue(q, h); err != nil {
		h.Discard(err)
		return nil, err
	}
	return f, nil
}

// RunPendingTask runs at most one queued task on the calling goroutine and
// reports whether it did. It may be called from any goroutine; when ctx
// belongs to one of p's workers that worker's own queue is tried first.
// ctx only identifies the caller: the task runs with the pool's context.
func (p *StealingPool) RunPendingTask(ctx context.Context) bool {
	return p.runPending(p.worker(ctx))
}

func (p *StealingPool) runPending(wc *workerContext) bool {
	index := -1
	ctx := p.ctx
	if wc != nil {
		index = wc.index
		ctx = wc.ctx
		if h, ok := wc.local.TryPop(); ok {
			p.execute(ctx, h, index)
			return true
		}
	}

	if h, ok := p.shared.TryPop(); ok {
		p.execute(ctx, h, index)
		return true
	}

	if h, ok := p.steal(index); ok {
		p.execute(ctx, h, index)
		return true
	}

	runtime.Gosched()
	return false
}

// steal scans peer queues round-robin starting just after thief.
func (p *StealingPool) steal(thief int) (*task.Handle, bool) {
	n := len(p.locals)
	for i := 1; i <= n; i++ {
		victim := (thief + i) % n
		if victim == thief {
			continue
		}
		if h, ok := p.locals[victim].local.TryPop(); ok {
			p.stolen.Add(1)
			p.metrics.Stolen()
			p.log.Debugw("task stolen", "worker", thief, "victim", victim)
			return h, true
		}
	}
	return nil, false
}

// AwaitHelping waits for f while running p's queued tasks on the calling
// goroutine. Use it instead of f.Get from inside a task so that a worker
// blocked on a child result keeps the pool making progress.
func AwaitHelping[T any](ctx context.Context, p *StealingPool, f *future.Future[T]) (T, error) {
	for !f.Ready() {
		if tfctx.IsCanceled(ctx) {
			var zero T
			return zero, tfctx.Err(ctx)
		}
		p.RunPendingTask(ctx)
	}
	return f.Get()
}
