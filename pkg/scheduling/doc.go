/*
Package scheduling groups the task execution primitives of taskflow.

  - queue: unbounded FIFO shared by producers and workers
  - task: move-only handles that run a unit of work at most once
  - future: results of packaged tasks
  - thread: goroutines with Join and a JoinGuard
  - workerpool: FixedPool, FuturedPool and StealingPool
  - timer: Container of repeating, one-shot and cron timers
  - parallel: QuickSort and Map on top of the pools

Worker Pools:

A FixedPool runs fire-and-forget tasks on a fixed number of workers:

	pool, _ := workerpool.NewFixedPool(workerpool.Config{Workers: 4})
	defer pool.Close()

	pool.Go(func() {
		// Do work
	})

A FuturedPool returns a future per submission:

	pool, _ := workerpool.NewFuturedPool(workerpool.DefaultConfig())
	f, _ := workerpool.SubmitFunc(pool, func(ctx context.Context) (string, error) {
		return "done", nil
	})
	s, err := f.Get()

A StealingPool gives every worker its own queue. Tasks submitted from a
worker stay local, and idle workers steal from each other. A task waiting on
a subtask should use AwaitHelping so the waiting worker keeps executing
pending tasks:

	f, _ := workerpool.SubmitStealing(ctx, pool, sub)
	v, err := workerpool.AwaitHelping(ctx, pool, f)

Timers:

A timer Container fires callbacks from its reactor goroutines:

	c, _ := timer.New(timer.DefaultConfig())
	c.Start()
	defer c.Stop()

	var every atomic.Int64
	every.Store(500)
	id, _ := c.AddTimer(tick, nil, 0, &every, timer.Millisecond, true)
	every.Store(250) // picked up when the timer is rearmed
	c.CancelTimer(id)

	c.AddCronTimer(report, nil, "0 */5 * * * *")
*/
package scheduling
