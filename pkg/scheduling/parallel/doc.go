// Package parallel implements divide-and-conquer helpers on top of the
// worker pools.
//
// QuickSort splits work recursively on a StealingPool. Each level submits the
// lower partition to the pool, sorts the upper partition on the calling
// goroutine and then waits with workerpool.AwaitHelping, so the sort finishes
// even on a single-worker pool.
//
// Map fans a slice out over a FuturedPool and collects results in input order.
package parallel
