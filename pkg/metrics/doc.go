// Package metrics provides Prometheus instrumentation for taskflow components.
//
// Worker pools and timer containers accept a *Registry through their Config.
// A nil registry disables recording, so instrumentation is opt-in:
//
//	reg := metrics.New(metrics.DefaultConfig())
//	pool, err := workerpool.NewFixedPool(workerpool.Config{
//		Workers: 4,
//		Name:    "ingest",
//		Metrics: reg,
//	})
//
// Then expose metrics via HTTP:
//
//	http.Handle("/metrics", promhttp.Handler())
//
// Nothing is registered until New or NewRegistry is called.
//
// # Available Metrics
//
// ## Worker Pool Metrics (label pool_name)
//
//   - taskflow_workerpool_tasks_submitted_total
//   - taskflow_workerpool_tasks_executed_total
//   - taskflow_workerpool_tasks_failed_total
//   - taskflow_workerpool_tasks_panicked_total
//   - taskflow_workerpool_tasks_stolen_total
//   - taskflow_workerpool_tasks_dropped_total
//   - taskflow_workerpool_task_duration_seconds
//   - taskflow_workerpool_workers
//   - taskflow_workerpool_queued
//
// ## Timer Metrics (label container_name)
//
//   - taskflow_timer_added_total
//   - taskflow_timer_fired_total
//   - taskflow_timer_canceled_total
//   - taskflow_timer_missed_total
//   - taskflow_timer_active
//   - taskflow_timer_callback_duration_seconds
//
// # Configuration
//
//	registry := metrics.New(metrics.Config{
//		Enabled:     true,
//		Registerer:  prometheus.DefaultRegisterer,
//		Namespace:   "myapp",
//		ConstLabels: prometheus.Labels{"version": "1.0"},
//	})
//
// Registering the same namespace twice on one Prometheus registerer panics;
// share one *Registry between components instead.
package metrics
