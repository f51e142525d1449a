package workerpool

// Stats is a point-in-time snapshot of pool counters.
type Stats struct {
	// Workers is the number of worker goroutines.
	Workers int

	// Queued is the number of tasks waiting across all of the pool's queues.
	Queued int

	// Submitted counts accepted tasks.
	Submitted int64

	// Executed counts tasks that ran, whatever their outcome.
	Executed int64

	// Failed counts executed tasks that returned an error or panicked.
	Failed int64

	// Panicked counts executed tasks that panicked.
	Panicked int64

	// Stolen counts tasks a worker took from a peer's local queue.
	Stolen int64

	// Dropped counts queued tasks discarded by Close.
	Dropped int64
}

// Pending returns tasks accepted but not yet executed or dropped.
func (s Stats) Pending() int64 {
	return s.Submitted - s.Executed - s.Dropped
}
