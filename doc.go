/*
Package taskflow provides building blocks for running work concurrently inside
a single Go process: worker pools, futures, and a timer container.

Scheduling (pkg/scheduling):
  - queue: Unbounded two-lock FIFO queue with blocking pop
  - task: Move-only handle around a unit of work
  - future: Single-assignment result shared between producer and consumer
  - thread: Joinable goroutines and a guard that joins them on Close
  - workerpool: Fixed, futured and work-stealing pools
  - timer: Repeating, one-shot and cron timers driven by reactor goroutines
  - parallel: Divide-and-conquer helpers built on the pools

Metrics (pkg/metrics):
  - Prometheus collectors for pools and timer containers

Example usage:

	import (
		"github.com/vnykmshr/taskflow/pkg/scheduling/workerpool"
	)

	pool, err := workerpool.NewFuturedPool(workerpool.Config{Workers: 4})
	if err != nil {
		return err
	}
	defer pool.Close()

	f, _ := workerpool.SubmitFunc(pool, func(ctx context.Context) (int, error) {
		return 42, nil
	})
	v, err := f.Get()
*/
package taskflow
