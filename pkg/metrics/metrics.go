// Package metrics provides Prometheus instrumentation for goadmit components.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Registry holds all metric instances for goadmit components.
type Registry struct {
	// Admission Gate Metrics
	GateAcquires *prometheus.CounterVec
	GateAdmitted *prometheus.CounterVec
	GateRejected *prometheus.CounterVec
	GateWaitTime *prometheus.HistogramVec
	GateWaiting  *prometheus.GaugeVec
	GateInFlight *prometheus.GaugeVec

	// Load Shedding Metrics
	LoadshedRequests     *prometheus.CounterVec
	LoadshedAdmitted     *prometheus.CounterVec
	LoadshedShed         *prometheus.CounterVec
	LoadshedInFlight     *prometheus.GaugeVec
	LoadshedCallDuration *prometheus.HistogramVec

	// Ingest Pipeline Metrics
	IngestEvents     *prometheus.CounterVec
	IngestRejected   *prometheus.CounterVec
	BatchesCommitted *prometheus.CounterVec
	CommitFailures   *prometheus.CounterVec
	CommitDuration   *prometheus.HistogramVec
	PendingBatches   *prometheus.GaugeVec

	// Checkpoint Metrics
	CheckpointSaves    *prometheus.CounterVec
	CheckpointFailures *prometheus.CounterVec
}

// DefaultRegistry is the default metrics registry used by goadmit components.
var DefaultRegistry *Registry

func init() {
	DefaultRegistry = NewRegistry(prometheus.DefaultRegisterer)
}

// NewRegistry creates a new metrics registry with the given Prometheus registerer.
func NewRegistry(reg prometheus.Registerer) *Registry {
	factory := promauto.With(reg)

	return &Registry{
		// Admission Gate Metrics
		GateAcquires: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "goadmit",
				Subsystem: "gate",
				Name:      "acquires_total",
				Help:      "Total number of gate acquire attempts",
			},
			[]string{"gate_name"},
		),

		GateAdmitted: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "goadmit",
				Subsystem: "gate",
				Name:      "admitted_total",
				Help:      "Total number of acquires that obtained a permit",
			},
			[]string{"gate_name"},
		),

		GateRejected: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "goadmit",
				Subsystem: "gate",
				Name:      "rejected_total",
				Help:      "Total number of acquires rejected with a full waiting room",
			},
			[]string{"gate_name"},
		),

		GateWaitTime: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "goadmit",
				Subsystem: "gate",
				Name:      "wait_duration_seconds",
				Help:      "Time spent waiting for a gate permit",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"gate_name"},
		),

		GateWaiting: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: "goadmit",
				Subsystem: "gate",
				Name:      "waiting",
				Help:      "Number of callers blocked in the gate waiting room",
			},
			[]string{"gate_name"},
		),

		GateInFlight: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: "goadmit",
				Subsystem: "gate",
				Name:      "in_flight",
				Help:      "Number of gate permits currently held",
			},
			[]string{"gate_name"},
		),

		// Load Shedding Metrics
		LoadshedRequests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "goadmit",
				Subsystem: "loadshed",
				Name:      "requests_total",
				Help:      "Total number of admission requests",
			},
			[]string{"limiter_name"},
		),

		LoadshedAdmitted: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "goadmit",
				Subsystem: "loadshed",
				Name:      "admitted_total",
				Help:      "Total number of admitted requests",
			},
			[]string{"limiter_name"},
		),

		LoadshedShed: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "goadmit",
				Subsystem: "loadshed",
				Name:      "shed_total",
				Help:      "Total number of requests shed at the ceiling",
			},
			[]string{"limiter_name"},
		),

		LoadshedInFlight: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: "goadmit",
				Subsystem: "loadshed",
				Name:      "in_flight",
				Help:      "Number of admissions currently held",
			},
			[]string{"limiter_name"},
		),

		LoadshedCallDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "goadmit",
				Subsystem: "loadshed",
				Name:      "call_duration_seconds",
				Help:      "Time spent in admitted calls",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"limiter_name"},
		),

		// Ingest Pipeline Metrics
		IngestEvents: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "goadmit",
				Subsystem: "ingest",
				Name:      "events_total",
				Help:      "Total number of events accepted by the pipeline",
			},
			[]string{"pipeline_name"},
		),

		IngestRejected: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "goadmit",
				Subsystem: "ingest",
				Name:      "events_rejected_total",
				Help:      "Total number of events rejected under backpressure",
			},
			[]string{"pipeline_name"},
		),

		BatchesCommitted: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "goadmit",
				Subsystem: "ingest",
				Name:      "batches_committed_total",
				Help:      "Total number of batches committed to the sink",
			},
			[]string{"pipeline_name"},
		),

		CommitFailures: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "goadmit",
				Subsystem: "ingest",
				Name:      "commit_failures_total",
				Help:      "Total number of failed sink commits",
			},
			[]string{"pipeline_name"},
		),

		CommitDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "goadmit",
				Subsystem: "ingest",
				Name:      "commit_duration_seconds",
				Help:      "Time spent committing batches to the sink",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"pipeline_name"},
		),

		PendingBatches: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: "goadmit",
				Subsystem: "ingest",
				Name:      "pending_batches",
				Help:      "Number of batches buffered or committing",
			},
			[]string{"pipeline_name"},
		),

		// Checkpoint Metrics
		CheckpointSaves: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "goadmit",
				Subsystem: "checkpoint",
				Name:      "saves_total",
				Help:      "Total number of checkpoint saves",
			},
			[]string{"pipeline_name"},
		),

		CheckpointFailures: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "goadmit",
				Subsystem: "checkpoint",
				Name:      "failures_total",
				Help:      "Total number of failed checkpoint saves",
			},
			[]string{"pipeline_name"},
		),
	}
}
