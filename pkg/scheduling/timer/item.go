package timer

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/coder/quartz"
	"github.com/robfig/cron/v3"
)

// TimerID identifies a registered timer. Zero is never a valid id.
type TimerID uint64

// Callback is invoked with the argument given at registration.
type Callback func(arg any)

// Precision is the unit an interval value is expressed in.
type Precision int

// Supported precisions.
const (
	Millisecond Precision = iota
	Second
	Minute
)

// Duration converts n units of p.
func (p Precision) Duration(n int64) time.Duration {
	switch p {
	case Second:
		return time.Duration(n) * time.Second
	case Minute:
		return time.Duration(n) * time.Minute
	default:
		return time.Duration(n) * time.Millisecond
	}
}

func (p Precision) String() string {
	switch p {
	case Millisecond:
		return "millisecond"
	case Second:
		return "second"
	case Minute:
		return "minute"
	default:
		return fmt.Sprintf("Precision(%d)", int(p))
	}
}

func (p Precision) valid() bool {
	return p >= Millisecond && p <= Minute
}

// Info describes a registered timer.
type Info struct {
	ID       TimerID
	Next     time.Time
	Interval time.Duration // zero for cron timers
	Cron     string
	Repeated bool
}

// completion is posted by an expired timer, or by CancelTimer with canceled
// set. gen ties it to one arming of the entry.
type completion struct {
	id       TimerID
	gen      uint64
	canceled bool
}

type item struct {
	id       TimerID
	callback Callback
	arg      any
	repeated bool

	// interval is the last positive interval seen; intervalRef, when set,
	// overrides it at every arming.
	interval    int64
	intervalRef *atomic.Int64
	precision   Precision

	schedule cron.Schedule
	spec     string

	deadline time.Time
	timer    *quartz.Timer
	gen      uint64
}

// period returns the interval to use now. A non-positive value read from the
// reference keeps the previous interval.
func (it *item) period() time.Duration {
	if it.intervalRef != nil {
		if v := it.intervalRef.Load(); v > 0 {
			it.interval = v
		}
	}
	return it.precision.Duration(it.interval)
}

// first returns the initial deadline relative to now.
func (it *item) first(now time.Time, loc *time.Location) time.Time {
	if it.schedule != nil {
		return it.schedule.Next(now.In(loc))
	}
	return now.Add(it.period())
}

// next returns the deadline that follows prev.
func (it *item) next(prev time.Time, loc *time.Location) time.Time {
	if it.schedule != nil {
		return it.schedule.Next(prev.In(loc))
	}
	return prev.Add(it.period())
}

func (it *item) info() Info {
	info := Info{
		ID:       it.id,
		Next:     it.deadline,
		Cron:     it.spec,
		Repeated: it.repeated,
	}
	if it.schedule == nil {
		info.Interval = it.precision.Duration(it.interval)
	}
	return info
}
