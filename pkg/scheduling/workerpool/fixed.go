package workerpool

import (
	"runtime"

	"github.com/vnykmshr/taskflow/pkg/common/validation"
	"github.com/vnykmshr/taskflow/pkg/scheduling/queue"
	"github.com/vnykmshr/taskflow/pkg/scheduling/task"
)

// sharedPool is a set of workers draining one queue.
type sharedPool struct {
	*core
	queue *handleQueue
}

func newSharedPool(cfg Config, logFailures bool) (*sharedPool, error) {
	c, err := newCore(cfg, logFailures)
	if err != nil {
		return nil, err
	}
	p := &sharedPool{core: c, queue: queue.New[*task.Handle]()}
	c.queues = append(c.queues, p.queue)
	c.start(p.run)
	return p, nil
}

// run spins on the queue, yielding the processor whenever it is empty, until
// the pool is closed.
func (p *sharedPool) run(index int) {
	for !p.done.Load() {
		h, ok := p.queue.TryPop()
		if !ok {
			runtime.Gosched()
			continue
		}
		p.execute(p.ctx, h, index)
	}
}

// FixedPool runs fire-and-forget tasks on a fixed set of workers.
//
// Tasks have no result channel: a returned error or a panic is recovered,
// counted in Stats and logged at error level, and the worker moves on.
type FixedPool struct {
	*sharedPool
}

// NewFixedPool starts cfg.Workers workers.
func NewFixedPool(cfg Config) (*FixedPool, error) {
	p, err := newSharedPool(cfg, true)
	if err != nil {
		return nil, err
	}
	return &FixedPool{sharedPool: p}, nil
}

// Submit queues t for execution.
func (p *FixedPool) Submit(t Task) error {
	if err := validation.ValidateNotNil("workerpool", "task", t); err != nil {
		return err
	}
	return p.enqueue(p.queue, task.FromTask(t))
}

// Go queues a plain function for execution.
func (p *FixedPool) Go(fn func()) error {
	if err := validation.ValidateNotNil("workerpool", "fn", fn); err != nil {
		return err
	}
	return p.enqueue(p.queue, task.New(fn))
}
