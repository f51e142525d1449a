package workerpool

import (
	"runtime"

	"go.uber.org/zap"

	"github.com/vnykmshr/taskflow/pkg/common/validation"
	"github.com/vnykmshr/taskflow/pkg/metrics"
)

// Config holds configuration options for creating a worker pool.
type Config struct {
	// Workers is the number of worker goroutines.
	// Zero means runtime.NumCPU(). Negative values are rejected.
	Workers int

	// Name identifies the pool in logs and metric labels.
	Name string

	// Logger receives worker lifecycle and task failure events.
	// If nil, the process-wide zap.L() is used.
	Logger *zap.Logger

	// Metrics records pool counters. Nil disables metrics.
	Metrics *metrics.Registry
}

// DefaultConfig returns a config sized to the machine.
func DefaultConfig() Config {
	return Config{
		Workers: runtime.NumCPU(),
		Name:    "default",
	}
}

func (c Config) withDefaults() (Config, error) {
	if err := validation.ValidateNonNegative("workerpool", "Workers", c.Workers); err != nil {
		return c, err
	}
	if c.Workers == 0 {
		c.Workers = runtime.NumCPU()
	}
	if c.Name == "" {
		c.Name = "default"
	}
	if c.Logger == nil {
		c.Logger = zap.L()
	}
	return c, nil
}
