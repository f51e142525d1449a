/*
Package workerpool provides three pool designs of increasing capability.

FixedPool runs fire-and-forget tasks on a fixed number of workers that spin
on a shared queue, yielding the processor whenever it is empty:

	pool, err := workerpool.NewFixedPool(workerpool.Config{Workers: 4})
	if err != nil {
		return err
	}
	defer pool.Close()

	pool.Submit(workerpool.TaskFunc(func(ctx context.Context) error {
		// Do work
		return nil
	}))

A fixed pool has no result channel. Errors and panics are recovered, counted
in Stats and logged.

FuturedPool returns a future for every submission. The future carries the
task's value, its error, or a *errors.PanicError if it panicked:

	f, err := workerpool.SubmitFunc(pool, func(ctx context.Context) (int, error) {
		return compute(ctx)
	})
	v, err := f.Get()

StealingPool adds a private queue per worker. A task that submits more work
through SubmitStealing with its own context pushes to its worker's queue;
idle workers steal from peers. AwaitHelping waits for a result while running
queued tasks, which keeps recursive algorithms live with any number of
workers, including one:

	left, _ := workerpool.SubmitStealing(ctx, pool, sortLower)
	right := sortUpper(ctx)
	l, err := workerpool.AwaitHelping(ctx, pool, left)

Shutdown:

Close is best-effort: it stops the workers after their current task, cancels
the context passed to tasks, and drops whatever is still queued. Futures of
dropped tasks resolve with errors.ErrClosed. Drain waits for all accepted
work, including work submitted by running tasks, before closing.

Observability:

Config.Logger receives worker lifecycle events at debug level and task
failures; Config.Metrics records Prometheus counters labelled by Config.Name.
Stats returns the same counters without Prometheus.
*/
package workerpool
