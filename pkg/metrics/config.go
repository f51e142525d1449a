package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Config selects where pool and timer collectors are registered.
type Config struct {
	// Enabled turns collection on. New returns a nil *Registry otherwise,
	// and pools and containers given a nil *Registry record nothing.
	Enabled bool

	// Registerer receives the collectors. Defaults to prometheus.DefaultRegisterer.
	Registerer prometheus.Registerer

	// Namespace prefixes every metric name. Defaults to "taskflow".
	Namespace string

	// ConstLabels are attached to every collector, e.g. {"service": "indexer"}.
	ConstLabels prometheus.Labels
}

// DefaultConfig enables collection on the default Prometheus registerer.
func DefaultConfig() Config {
	return Config{
		Enabled:    true,
		Registerer: prometheus.DefaultRegisterer,
		Namespace:  DefaultNamespace,
	}
}

func (c Config) withDefaults() Config {
	if c.Registerer == nil {
		c.Registerer = prometheus.DefaultRegisterer
	}
	if c.Namespace == "" {
		c.Namespace = DefaultNamespace
	}
	return c
}
