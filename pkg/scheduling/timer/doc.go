/*
Package timer schedules repeating and one-shot callbacks.

A Container keeps a table of timers keyed by TimerID. Each armed timer posts
its expiry to a completion channel that Config.Workers reactor goroutines
drain; the reactor runs the callback outside the table lock and then re-arms
or erases the entry:

	c, err := timer.New(timer.Config{Workers: 2})
	if err != nil {
		return err
	}
	c.Start()
	defer c.Close()

	var interval atomic.Int64
	interval.Store(100)
	id, err := c.AddTimer(func(arg any) {
		log.Println("tick", arg)
	}, "heartbeat", 0, &interval, timer.Millisecond, true)

	interval.Store(250) // picked up at the next re-arm
	c.CancelTimer(id)

Repeating timers keep a fixed cadence: the next deadline is the previous
deadline plus the interval, not the time the callback finished. Callbacks of
a single timer never overlap because the entry is re-armed only after its
callback returns.

Stop halts the reactor and every armed timer but keeps the table; a later
Start re-arms the surviving entries. AddTimer is rejected while the
container is stopped. Callbacks must not call Stop or Close.

Cron timers use the six-field robfig/cron syntax with a leading seconds
field, plus descriptors such as "@every 5s" or "@hourly":

	c.AddCronTimer(rotateLogs, nil, "0 0 * * * *")

Config.Clock accepts any quartz.Clock, so tests drive timers with
quartz.NewMock.
*/
package timer
