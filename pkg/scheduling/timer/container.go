package timer

import (
	"fmt"
	"runtime/debug"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/coder/quartz"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	tferrors "github.com/vnykmshr/taskflow/pkg/common/errors"
	"github.com/vnykmshr/taskflow/pkg/common/validation"
	"github.com/vnykmshr/taskflow/pkg/metrics"
	"github.com/vnykmshr/taskflow/pkg/scheduling/thread"
)

// ErrNotStarted is returned by AddTimer and AddCronTimer while the container
// is stopped.
var ErrNotStarted = tferrors.ErrNotStarted

// eventBuffer is the capacity of the completion channel.
const eventBuffer = 128

// Container owns a table of timers and the reactor goroutines that run their
// callbacks. The zero value is not usable; call New.
type Container struct {
	name      string
	workers   int
	clock     quartz.Clock
	location  *time.Location
	maxTimers int
	parser    cron.Parser
	log       *zap.SugaredLogger
	metrics   *metrics.TimerMetrics

	// lifecycle serializes Start and Stop.
	lifecycle sync.Mutex
	threads   []*thread.Thread
	guard     *thread.JoinGuard

	// mu guards everything below, including the per-item fields.
	mu      sync.Mutex
	started bool
	events  chan completion
	stop    chan struct{}
	timers  map[TimerID]*item
	nextID  TimerID
}

// New creates a stopped container.
func New(cfg Config) (*Container, error) {
	cfg, err := cfg.withDefaults()
	if err != nil {
		return nil, err
	}

	c := &Container{
		name:      cfg.Name,
		workers:   cfg.Workers,
		clock:     cfg.Clock,
		location:  cfg.Location,
		maxTimers: cfg.MaxTimers,
		parser:    cron.NewParser(cron.Second | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor),
		log:       cfg.Logger.Sugar().Named("timer").With("container", cfg.Name),
		metrics:   cfg.Metrics.Timer(cfg.Name),
		timers:    make(map[TimerID]*item),
	}
	c.guard = thread.NewJoinGuard(&c.threads)
	return c, nil
}

// Start launches the reactor goroutines and re-arms timers that survived a
// previous Stop. It returns false if the container is already running.
func (c *Container) Start() bool {
	c.lifecycle.Lock()
	defer c.lifecycle.Unlock()

	c.mu.Lock()
	if c.started {
		c.mu.Unlock()
		return false
	}
	c.started = true
	c.events = make(chan completion, eventBuffer)
	c.stop = make(chan struct{})
	events, stop := c.events, c.stop

	now := c.clock.Now()
	for _, it := range c.timers {
		it.deadline = it.first(now, c.location)
		c.arm(it)
	}
	rearmed := len(c.timers)
	c.mu.Unlock()

	c.threads = c.threads[:0]
	for i := 0; i < c.workers; i++ {
		c.threads = append(c.threads, thread.Spawn(func() {
			c.reactor(events, stop)
		}))
	}

	c.log.Infow("timer container started", "workers", c.workers, "rearmed", rearmed)
	return true
}

// Stop halts the reactor and every armed timer, then waits for running
// callbacks to return. Registered timers stay in the table. It returns false
// if the container is already stopped.
func (c *Container) Stop() bool {
	c.lifecycle.Lock()
	defer c.lifecycle.Unlock()

	c.mu.Lock()
	if !c.started {
		c.mu.Unlock()
		return false
	}
	c.started = false
	close(c.stop)
	for _, it := range c.timers {
		c.disarm(it)
	}
	remaining := len(c.timers)
	c.mu.Unlock()

	c.guard.Close()

	c.log.Infow("timer container stopped", "timers", remaining)
	return true
}

// Close stops the container and cancels every timer.
func (c *Container) Close() {
	c.Stop()
	c.CancelAll()
}

// Started reports whether the reactor is running.
func (c *Container) Started() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.started
}

// AddTimer registers cb to run after interval units of precision. When
// intervalRef is non-nil its value is used instead of interval, and it is
// re-read every time a repeating timer is re-armed. The timer repeats until
// canceled if repeated is true.
func (c *Container) AddTimer(cb Callback, arg any, interval int64, intervalRef *atomic.Int64, precision Precision, repeated bool) (TimerID, error) {
	if cb == nil {
		return 0, validation.ValidateNotNil("timer", "callback", nil)
	}
	if !precision.valid() {
		return 0, tferrors.NewValidationError("timer", "precision", precision, "unknown precision").
			WithHint("use Millisecond, Second or Minute")
	}

	effective := interval
	if intervalRef != nil {
		effective = intervalRef.Load()
	}
	if err := validation.ValidatePositive("timer", "interval", effective); err != nil {
		return 0, err
	}

	return c.add(&item{
		callback:    cb,
		arg:         arg,
		repeated:    repeated,
		interval:    effective,
		intervalRef: intervalRef,
		precision:   precision,
	})
}

func (c *Container) add(it *item) (TimerID, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.started {
		return 0, fmt.Errorf("cannot add timer: %w", ErrNotStarted)
	}
	if len(c.timers) >= c.maxTimers {
		return 0, fmt.Errorf("cannot add timer: maximum number of timers (%d) reached", c.maxTimers)
	}

	c.nextID++
	it.id = c.nextID
	it.deadline = it.first(c.clock.Now(), c.location)
	c.timers[it.id] = it
	c.arm(it)

	c.metrics.Added(len(c.timers))
	c.log.Debugw("timer added", "id", it.id, "next", it.deadline, "repeated", it.repeated)
	return it.id, nil
}

// CancelTimer removes the timer so it never fires again. A callback already
// running completes. It returns false if id is unknown.
func (c *Container) CancelTimer(id TimerID) bool {
	c.mu.Lock()
	it, ok := c.timers[id]
	if !ok {
		c.mu.Unlock()
		return false
	}
	pending := c.disarm(it)
	delete(c.timers, id)
	active := len(c.timers)
	events, started := c.events, c.started
	c.mu.Unlock()

	c.metrics.Canceled(active)
	if pending && started {
		select {
		case events <- completion{id: id, canceled: true}:
		default:
		}
	}
	return true
}

// CancelAll removes every timer and returns how many there were.
func (c *Container) CancelAll() int {
	c.mu.Lock()
	ids := make([]TimerID, 0, len(c.timers))
	for id := range c.timers {
		ids = append(ids, id)
	}
	c.mu.Unlock()

	n := 0
	for _, id := range ids {
		if c.CancelTimer(id) {
			n++
		}
	}
	return n
}

// Len returns the number of registered timers.
func (c *Container) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.timers)
}

// Timers lists registered timers ordered by next deadline, then by id.
func (c *Container) Timers() []Info {
	c.mu.Lock()
	infos := make([]Info, 0, len(c.timers))
	for _, it := range c.timers {
		infos = append(infos, it.info())
	}
	c.mu.Unlock()

	sort.Slice(infos, func(i, j int) bool {
		if infos[i].Next.Equal(infos[j].Next) {
			return infos[i].ID < infos[j].ID
		}
		return infos[i].Next.Before(infos[j].Next)
	})
	return infos
}

// arm schedules it for its current deadline. Caller holds mu and the
// container is started.
func (c *Container) arm(it *item) {
	d := it.deadline.Sub(c.clock.Now())
	if d < 0 {
		d = 0
	}

	it.gen++
	ev := completion{id: it.id, gen: it.gen}
	events, stop := c.events, c.stop
	it.timer = c.clock.AfterFunc(d, func() {
		select {
		case events <- ev:
		case <-stop:
		}
	})
}

// disarm stops the clock timer and invalidates completions already posted
// for it. It reports whether the timer was still pending. Caller holds mu.
func (c *Container) disarm(it *item) bool {
	it.gen++
	if it.timer == nil {
		return false
	}
	pending := it.timer.Stop()
	it.timer = nil
	return pending
}

func (c *Container) reactor(events <-chan completion, stop <-chan struct{}) {
	for {
		select {
		case <-stop:
			return
		case ev := <-events:
			c.handle(ev)
		}
	}
}

func (c *Container) handle(ev completion) {
	if ev.canceled {
		c.log.Debugw("timer canceled", "id", ev.id)
		return
	}

	c.mu.Lock()
	it, ok := c.timers[ev.id]
	if !ok {
		c.mu.Unlock()
		c.metrics.Missed()
		c.log.Debugw("timer not found", "id", ev.id)
		return
	}
	if it.gen != ev.gen {
		// superseded by Stop, Start or a cancel-and-rearm
		c.mu.Unlock()
		c.metrics.Missed()
		c.log.Debugw("stale timer completion", "id", ev.id, "gen", ev.gen)
		return
	}
	it.timer = nil
	cb, arg := it.callback, it.arg
	c.mu.Unlock()

	c.invoke(ev.id, cb, arg)

	c.mu.Lock()
	defer c.mu.Unlock()

	it, ok = c.timers[ev.id]
	if !ok {
		return
	}
	if !it.repeated {
		// fired once; drop it even if a restart re-armed it meanwhile
		c.disarm(it)
		delete(c.timers, ev.id)
		c.metrics.Active(len(c.timers))
		return
	}
	if it.gen != ev.gen {
		return
	}
	it.deadline = it.next(it.deadline, c.location)
	c.arm(it)
}

func (c *Container) invoke(id TimerID, cb Callback, arg any) {
	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			c.log.Errorw("timer callback panicked", "id", id, "panic", r, "stack", string(debug.Stack()))
		}
		c.metrics.Fired(time.Since(start))
	}()

	c.log.Debugw("timer fired", "id", id)
	cb(arg)
}
