package timer

import (
	"time"

	"github.com/coder/quartz"
	"go.uber.org/zap"

	"github.com/vnykmshr/taskflow/pkg/common/validation"
	"github.com/vnykmshr/taskflow/pkg/metrics"
)

// Config holds timer container configuration.
type Config struct {
	// Workers is the number of reactor goroutines running callbacks.
	// Zero means 1. Negative values are rejected.
	Workers int

	// Clock drives all timers. Defaults to quartz.NewReal().
	Clock quartz.Clock

	// Location is used to evaluate cron expressions. Defaults to time.Local.
	Location *time.Location

	// MaxTimers caps the number of registered timers (default: 10000).
	MaxTimers int

	// Name identifies the container in logs and metric labels.
	Name string

	// Logger receives lifecycle and timer events. If nil, zap.L() is used.
	Logger *zap.Logger

	// Metrics records timer counters. Nil disables metrics.
	Metrics *metrics.Registry
}

// DefaultConfig returns a single-reactor configuration on the real clock.
func DefaultConfig() Config {
	return Config{
		Workers:   1,
		Clock:     quartz.NewReal(),
		Location:  time.Local,
		MaxTimers: 10000,
		Name:      "default",
	}
}

func (c Config) withDefaults() (Config, error) {
	if err := validation.ValidateNonNegative("timer", "Workers", c.Workers); err != nil {
		return c, err
	}
	if err := validation.ValidateNonNegative("timer", "MaxTimers", c.MaxTimers); err != nil {
		return c, err
	}

	def := DefaultConfig()
	if c.Workers == 0 {
		c.Workers = def.Workers
	}
	if c.Clock == nil {
		c.Clock = def.Clock
	}
	if c.Location == nil {
		c.Location = def.Location
	}
	if c.MaxTimers == 0 {
		c.MaxTimers = def.MaxTimers
	}
	if c.Name == "" {
		c.Name = def.Name
	}
	if c.Logger == nil {
		c.Logger = zap.L()
	}
	return c, nil
}
