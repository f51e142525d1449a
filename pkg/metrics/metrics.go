package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// DefaultNamespace prefixes every metric name unless Config overrides it.
const DefaultNamespace = "taskflow"

// Registry holds all metric instances for taskflow components.
type Registry struct {
	// Worker Pool Metrics
	TasksSubmitted        *prometheus.CounterVec
	TasksExecuted         *prometheus.CounterVec
	TasksFailed           *prometheus.CounterVec
	TasksPanicked         *prometheus.CounterVec
	TasksStolen           *prometheus.CounterVec
	TasksDropped          *prometheus.CounterVec
	TaskExecutionDuration *prometheus.HistogramVec
	WorkerPoolSize        *prometheus.GaugeVec
	WorkerPoolQueued      *prometheus.GaugeVec

	// Timer Metrics
	TimersAdded           *prometheus.CounterVec
	TimersFired           *prometheus.CounterVec
	TimersCanceled        *prometheus.CounterVec
	TimersMissed          *prometheus.CounterVec
	TimersActive          *prometheus.GaugeVec
	TimerCallbackDuration *prometheus.HistogramVec
}

// NewRegistry creates a new metrics registry with the given Prometheus registerer.
func NewRegistry(reg prometheus.Registerer) *Registry {
	return newRegistry(reg, DefaultNamespace, nil)
}

// New builds a registry from cfg. It returns nil when metrics are disabled,
// which components treat as "do not record".
func New(cfg Config) *Registry {
	if !cfg.Enabled {
		return nil
	}
	cfg = cfg.withDefaults()
	return newRegistry(cfg.Registerer, cfg.Namespace, cfg.ConstLabels)
}

func newRegistry(reg prometheus.Registerer, ns string, labels prometheus.Labels) *Registry {
	factory := promauto.With(reg)

	counter := func(subsystem, name, help, label string) *prometheus.CounterVec {
		return factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace:   ns,
				Subsystem:   subsystem,
				Name:        name,
				Help:        help,
				ConstLabels: labels,
			},
			[]string{label},
		)
	}
	gauge := func(subsystem, name, help, label string) *prometheus.GaugeVec {
		return factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace:   ns,
				Subsystem:   subsystem,
				Name:        name,
				Help:        help,
				ConstLabels: labels,
			},
			[]string{label},
		)
	}

	return &Registry{
		TasksSubmitted: counter("workerpool", "tasks_submitted_total",
			"Total number of tasks accepted by a pool", "pool_name"),
		TasksExecuted: counter("workerpool", "tasks_executed_total",
			"Total number of tasks run to completion, failed or not", "pool_name"),
		TasksFailed: counter("workerpool", "tasks_failed_total",
			"Total number of tasks that returned an error or panicked", "pool_name"),
		TasksPanicked: counter("workerpool", "tasks_panicked_total",
			"Total number of tasks that panicked", "pool_name"),
		TasksStolen: counter("workerpool", "tasks_stolen_total",
			"Total number of tasks taken from another worker's local queue", "pool_name"),
		TasksDropped: counter("workerpool", "tasks_dropped_total",
			"Total number of queued tasks discarded at shutdown", "pool_name"),

		TaskExecutionDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace:   ns,
				Subsystem:   "workerpool",
				Name:        "task_duration_seconds",
				Help:        "Time spent executing tasks",
				Buckets:     prometheus.DefBuckets,
				ConstLabels: labels,
			},
			[]string{"pool_name"},
		),

		WorkerPoolSize: gauge("workerpool", "workers",
			"Number of worker goroutines in the pool", "pool_name"),
		WorkerPoolQueued: gauge("workerpool", "queued",
			"Number of tasks waiting in pool queues", "pool_name"),

		TimersAdded: counter("timer", "added_total",
			"Total number of timers registered", "container_name"),
		TimersFired: counter("timer", "fired_total",
			"Total number of timer callbacks invoked", "container_name"),
		TimersCanceled: counter("timer", "canceled_total",
			"Total number of timers canceled before completing", "container_name"),
		TimersMissed: counter("timer", "missed_total",
			"Total number of expirations whose timer was already gone", "container_name"),
		TimersActive: gauge("timer", "active",
			"Number of timers currently registered", "container_name"),

		TimerCallbackDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace:   ns,
				Subsystem:   "timer",
				Name:        "callback_duration_seconds",
				Help:        "Time spent in timer callbacks",
				Buckets:     prometheus.DefBuckets,
				ConstLabels: labels,
			},
			[]string{"container_name"},
		),
	}
}

// PoolMetrics is a view of the registry bound to one pool name. A nil
// *PoolMetrics records nothing.
type PoolMetrics struct {
	submitted prometheus.Counter
	executed  prometheus.Counter
	failed    prometheus.Counter
	panicked  prometheus.Counter
	stolen    prometheus.Counter
	dropped   prometheus.Counter
	duration  prometheus.Observer
	size      prometheus.Gauge
	queued    prometheus.Gauge
}

// Pool returns the metrics for the named pool. It is nil-safe on r.
func (r *Registry) Pool(name string) *PoolMetrics {
	if r == nil {
		return nil
	}
	return &PoolMetrics{
		submitted: r.TasksSubmitted.WithLabelValues(name),
		executed:  r.TasksExecuted.WithLabelValues(name),
		failed:    r.TasksFailed.WithLabelValues(name),
		panicked:  r.TasksPanicked.WithLabelValues(name),
		stolen:    r.TasksStolen.WithLabelValues(name),
		dropped:   r.TasksDropped.WithLabelValues(name),
		duration:  r.TaskExecutionDuration.WithLabelValues(name),
		size:      r.WorkerPoolSize.WithLabelValues(name),
		queued:    r.WorkerPoolQueued.WithLabelValues(name),
	}
}

// Submitted records one accepted task.
func (m *PoolMetrics) Submitted() {
	if m == nil {
		return
	}
	m.submitted.Inc()
	m.queued.Inc()
}

// Executed records one finished task. failed and panicked describe its outcome.
func (m *PoolMetrics) Executed(d time.Duration, failed, panicked bool) {
	if m == nil {
		return
	}
	m.queued.Dec()
	m.executed.Inc()
	m.duration.Observe(d.Seconds())
	if failed {
		m.failed.Inc()
	}
	if panicked {
		m.panicked.Inc()
	}
}

func (m *PoolMetrics) Stolen() {
	if m == nil {
		return
	}
	m.stolen.Inc()
}

// Dropped records n tasks discarded without running.
func (m *PoolMetrics) Dropped(n int) {
	if m == nil || n == 0 {
		return
	}
	m.dropped.Add(float64(n))
	m.queued.Sub(float64(n))
}

func (m *PoolMetrics) SetWorkers(n int) {
	if m == nil {
		return
	}
	m.size.Set(float64(n))
}

// TimerMetrics is a view of the registry bound to one timer container. A nil
// *TimerMetrics records nothing.
type TimerMetrics struct {
	added    prometheus.Counter
	fired    prometheus.Counter
	canceled prometheus.Counter
	missed   prometheus.Counter
	active   prometheus.Gauge
	duration prometheus.Observer
}

// Timer returns the metrics for the named container. It is nil-safe on r.
func (r *Registry) Timer(name string) *TimerMetrics {
	if r == nil {
		return nil
	}
	return &TimerMetrics{
		added:    r.TimersAdded.WithLabelValues(name),
		fired:    r.TimersFired.WithLabelValues(name),
		canceled: r.TimersCanceled.WithLabelValues(name),
		missed:   r.TimersMissed.WithLabelValues(name),
		active:   r.TimersActive.WithLabelValues(name),
		duration: r.TimerCallbackDuration.WithLabelValues(name),
	}
}

func (m *TimerMetrics) Added(active int) {
	if m == nil {
		return
	}
	m.added.Inc()
	m.active.Set(float64(active))
}

func (m *TimerMetrics) Fired(d time.Duration) {
	if m == nil {
		return
	}
	m.fired.Inc()
	m.duration.Observe(d.Seconds())
}

func (m *TimerMetrics) Canceled(active int) {
	if m == nil {
		return
	}
	m.canceled.Inc()
	m.active.Set(float64(active))
}

func (m *TimerMetrics) Missed() {
	if m == nil {
		return
	}
	m.missed.Inc()
}

// Active sets the registered-timer gauge.
func (m *TimerMetrics) Active(n int) {
	if m == nil {
		return
	}
	m.active.Set(float64(n))
}
