package workerpool

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	tfctx "github.com/vnykmshr/taskflow/pkg/common/context"
	tferrors "github.com/vnykmshr/taskflow/pkg/common/errors"
	"github.com/vnykmshr/taskflow/pkg/metrics"
	"github.com/vnykmshr/taskflow/pkg/scheduling/queue"
	"github.com/vnykmshr/taskflow/pkg/scheduling/task"
	"github.com/vnykmshr/taskflow/pkg/scheduling/thread"
)

// Task represents a unit of work that can be executed by a worker.
type Task = task.Task

// TaskFunc is a function type that implements the Task interface.
type TaskFunc = task.TaskFunc

// drainPollInterval is how often Drain re-checks the pending count.
const drainPollInterval = time.Millisecond

type handleQueue = queue.Queue[*task.Handle]

// core is the lifecycle and bookkeeping shared by every pool variant.
type core struct {
	name    string
	workers int
	log     *zap.SugaredLogger
	metrics *metrics.PoolMetrics

	// logFailures reports task errors at error level. Pools that hand errors
	// back through a future only log them at debug.
	logFailures bool

	// ctx is passed to tasks and canceled by Close.
	ctx    context.Context
	cancel context.CancelFunc

	// mu orders pushes against Close: pushes hold the read lock while
	// checking closed, so nothing is enqueued after Close starts draining.
	mu     sync.RWMutex
	closed bool
	done   atomic.Bool

	queues  []*handleQueue
	threads []*thread.Thread
	guard   *thread.JoinGuard // declared after threads; joins them on Close

	closeOnce sync.Once

	pending   atomic.Int64
	submitted atomic.Int64
	executed  atomic.Int64
	failed    atomic.Int64
	panicked  atomic.Int64
	stolen    atomic.Int64
	dropped   atomic.Int64
}

func newCore(cfg Config, logFailures bool) (*core, error) {
	cfg, err := cfg.withDefaults()
	if err != nil {
		return nil, err
	}

	c := &core{
		name:        cfg.Name,
		workers:     cfg.Workers,
		log:         cfg.Logger.Sugar().Named("workerpool").With("pool", cfg.Name),
		metrics:     cfg.Metrics.Pool(cfg.Name),
		logFailures: logFailures,
		threads:     make([]*thread.Thread, 0, cfg.Workers),
	}
	c.ctx, c.cancel = context.WithCancel(context.Background())
	c.guard = thread.NewJoinGuard(&c.threads)
	return c, nil
}

// start spawns the workers, each running run(index).
func (c *core) start(run func(index int)) {
	for i := 0; i < c.workers; i++ {
		c.threads = append(c.threads, thread.Spawn(func() {
			c.log.Debugw("worker started", "worker", i)
			defer c.log.Debugw("worker stopped", "worker", i)
			run(i)
		}))
	}
	c.metrics.SetWorkers(c.workers)
}

func (c *core) enqueue(q *handleQueue, h *task.Handle) error {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.closed {
		return fmt.Errorf("cannot submit task to pool %q: %w", c.name, tferrors.ErrClosed)
	}

	c.pending.Add(1)
	c.submitted.Add(1)
	c.metrics.Submitted()
	q.Push(h)
	return nil
}

// execute runs h and records its outcome. worker is -1 when the caller is
// not one of the pool's workers.
func (c *core) execute(ctx context.Context, h *task.Handle, worker int) {
	start := time.Now()
	err := h.Run(ctx)
	elapsed := time.Since(start)

	var perr *tferrors.PanicError
	panicked := errors.As(err, &perr)

	c.executed.Add(1)
	if err != nil {
		c.failed.Add(1)
	}
	if panicked {
		c.panicked.Add(1)
	}
	c.metrics.Executed(elapsed, err != nil, panicked)
	c.pending.Add(-1)

	switch {
	case panicked:
		c.log.Errorw("task panicked", "worker", worker, "panic", perr.Value, "stack", string(perr.Stack))
	case err != nil && c.logFailures:
		c.log.Errorw("task failed", "worker", worker, "error", err, "duration", elapsed)
	case err != nil:
		c.log.Debugw("task failed", "worker", worker, "error", err, "duration", elapsed)
	}
}

// Close stops the workers and waits for them to exit. Tasks already running
// finish, and their context is canceled. Tasks still queued are dropped; the
// futures of dropped tasks resolve with errors.ErrClosed. Close must not be
// called from inside a task of the same pool.
func (c *core) Close() {
	c.closeOnce.Do(func() {
		c.mu.Lock()
		c.closed = true
		c.mu.Unlock()

		c.done.Store(true)
		c.cancel()
		c.guard.Close()

		dropped := 0
		for _, q := range c.queues {
			for {
				h, ok := q.TryPop()
				if !ok {
					break
				}
				h.Discard(tferrors.ErrClosed)
				dropped++
			}
		}

		c.pending.Add(int64(-dropped))
		c.dropped.Add(int64(dropped))
		c.metrics.Dropped(dropped)
		c.log.Debugw("pool closed", "dropped", dropped)
	})
}

// Drain waits until every accepted task has run, including tasks those tasks
// submit, then closes the pool. If ctx ends first the pool is closed anyway
// and the returned error reports how many tasks were dropped.
func (c *core) Drain(ctx context.Context) error {
	ticker := time.NewTicker(drainPollInterval)
	defer ticker.Stop()

	for c.pending.Load() > 0 {
		select {
		case <-ctx.Done():
			before := c.dropped.Load()
			c.Close()
			return tferrors.NewOperationError("workerpool", "Drain", tfctx.Err(ctx)).
				WithContext(fmt.Sprintf("%d tasks dropped", c.dropped.Load()-before))
		case <-ticker.C:
		}
	}

	c.Close()
	return nil
}

// Closed reports whether Close has started.
func (c *core) Closed() bool {
	return c.done.Load()
}

// Size returns the number of workers in the pool.
func (c *core) Size() int {
	return c.workers
}

// Stats returns a snapshot of the pool counters.
func (c *core) Stats() Stats {
	queued := 0
	for _, q := range c.queues {
		queued += q.Len()
	}
	return Stats{
		Workers:   c.workers,
		Queued:    queued,
		Submitted: c.submitted.Load(),
		Executed:  c.executed.Load(),
		Failed:    c.failed.Load(),
		Panicked:  c.panicked.Load(),
		Stolen:    c.stolen.Load(),
		Dropped:   c.dropped.Load(),
	}
}
