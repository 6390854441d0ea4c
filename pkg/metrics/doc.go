// Package metrics provides Prometheus instrumentation for goadmit components.
//
// This package enables monitoring and observability for goadmit's admission
// gates, load-shedding limiters, and ingest pipelines through Prometheus metrics.
//
// # Overview
//
// The metrics package provides automatic instrumentation for:
//   - Admission gates (acquires, admissions, rejections, wait times, waiters)
//   - Load shedding (requests, admissions, shed calls, call durations)
//   - Ingest pipelines (events, rejections, batch commits, commit failures)
//   - Checkpointing (saves, save failures)
//
// # Quick Start
//
// Enable metrics by using the metrics-enabled constructors:
//
//	// Admission gate with metrics
//	g, err := gate.NewWithMetricsSafe(10, 50, "ingest_gate")
//
//	// Load-shedding limiter with metrics
//	limiter, err := loadshed.NewWithMetricsSafe[Req, Resp](svc, 100, "search_api")
//
// Then expose metrics via HTTP:
//
//	http.Handle("/metrics", promhttp.Handler())
//	log.Fatal(http.ListenAndServe(":8080", nil))
//
// # Custom Registry
//
// Use a custom Prometheus registry for isolation:
//
//	registry := prometheus.NewRegistry()
//	config := metrics.Config{
//		Enabled:  true,
//		Registry: registry,
//	}
//
//	g, err := gate.NewWithConfigAndMetricsSafe(
//		gate.Config{Permits: 10, MaxWaiters: 50},
//		"ingest_gate",
//		config,
//	)
//
// # Available Metrics
//
// ## Admission Gate Metrics
//
//   - goadmit_gate_acquires_total: Total number of gate acquire attempts
//   - goadmit_gate_admitted_total: Total number of acquires that obtained a permit
//   - goadmit_gate_rejected_total: Total number of acquires rejected with a full waiting room
//   - goadmit_gate_wait_duration_seconds: Time spent waiting for a gate permit
//   - goadmit_gate_waiting: Number of callers blocked in the gate waiting room
//   - goadmit_gate_in_flight: Number of gate permits currently held
//
// ## Load Shedding Metrics
//
//   - goadmit_loadshed_requests_total: Total number of admission requests
//   - goadmit_loadshed_admitted_total: Total number of admitted requests
//   - goadmit_loadshed_shed_total: Total number of requests shed at the ceiling
//   - goadmit_loadshed_in_flight: Number of admissions currently held
//   - goadmit_loadshed_call_duration_seconds: Time spent in admitted calls
//
// ## Ingest Pipeline Metrics
//
//   - goadmit_ingest_events_total: Total number of events accepted by the pipeline
//   - goadmit_ingest_events_rejected_total: Total number of events rejected under backpressure
//   - goadmit_ingest_batches_committed_total: Total number of batches committed to the sink
//   - goadmit_ingest_commit_failures_total: Total number of failed sink commits
//   - goadmit_ingest_commit_duration_seconds: Time spent committing batches to the sink
//   - goadmit_ingest_pending_batches: Number of batches buffered or committing
//
// ## Checkpoint Metrics
//
//   - goadmit_checkpoint_saves_total: Total number of checkpoint saves
//   - goadmit_checkpoint_failures_total: Total number of failed checkpoint saves
//
// # Labels
//
// Metrics include relevant labels for filtering and aggregation:
//
//   - gate_name: User-provided name for the gate instance
//   - limiter_name: User-provided name for the limiter instance
//   - pipeline_name: User-provided name for the ingest pipeline
//
// # Configuration
//
// Metrics can be configured globally or per-component:
//
//	config := metrics.Config{
//		Enabled:   true,                           // Enable/disable metrics
//		Registry:  prometheus.DefaultRegisterer,   // Custom registry
//		Namespace: "myapp",                        // Override default "goadmit"
//		Labels:    prometheus.Labels{"version": "1.0"}, // Additional labels
//	}
//
// # Runtime Control
//
// Components implementing the Instrumentable interface support runtime control:
//
//	g, _ := gate.NewWithMetricsSafe(10, 50, "ingest_gate")
//	if m, ok := g.(metrics.Instrumentable); ok {
//		m.DisableMetrics()           // Stop collecting metrics
//		m.EnableMetrics(config)      // Re-enable with new config
//		enabled := m.MetricsEnabled() // Check current state
//	}
//
// # Performance
//
// Metrics collection is designed for minimal overhead:
//   - Metrics are updated only when operations occur
//   - No background goroutines or timers
//   - Conditional metrics updates based on enabled state
package metrics
