package ingest

import (
	"context"
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	gaerrors "github.com/vnykmshr/goadmit/pkg/common/errors"
	"github.com/vnykmshr/goadmit/pkg/metrics"
)

// MetricsPipeline wraps a Pipeline with Prometheus metrics collection.
type MetricsPipeline struct {
	pipeline Pipeline
	name     string
	registry *metrics.Registry
	enabled  bool
}

// NewWithMetricsSafe creates a pipeline with metrics enabled using a new
// registry. The name becomes both the pipeline name and the metric
// label.
// Returns an error if sink is nil.
func NewWithMetricsSafe(sink Sink, name string) (Pipeline, error) {
	config := DefaultConfig()
	config.Name = name

	// Create a new registry to avoid conflicts
	registry := metrics.NewRegistry(prometheus.NewRegistry())

	return newMetricsPipeline(sink, config, registry)
}

// NewWithConfigAndMetricsSafe creates a pipeline with custom
// configuration and metrics options. The metric label is the pipeline
// name.
// Returns an error if sink is nil or the configuration is invalid.
func NewWithConfigAndMetricsSafe(sink Sink, config Config, metricsConfig metrics.Config) (Pipeline, error) {
	if !metricsConfig.Enabled {
		return NewWithConfigSafe(sink, config)
	}

	registry := metrics.DefaultRegistry
	if metricsConfig.Registry != nil {
		registry = metrics.NewRegistry(metricsConfig.Registry)
	}

	return newMetricsPipeline(sink, config, registry)
}

// newMetricsPipeline wires commit and checkpoint metrics through the
// pipeline callbacks, then wraps the pipeline for ingest metrics.
func newMetricsPipeline(sink Sink, config Config, registry *metrics.Registry) (*MetricsPipeline, error) {
	config = applyConfigDefaults(config)
	name := config.Name
	hasCheckpoints := config.Checkpoints != nil

	userOnCommit := config.OnCommit
	config.OnCommit = func(batch *Batch, duration time.Duration) {
		registry.BatchesCommitted.WithLabelValues(name).Inc()
		registry.CommitDuration.WithLabelValues(name).Observe(duration.Seconds())
		if hasCheckpoints {
			registry.CheckpointSaves.WithLabelValues(name).Inc()
		}
		if userOnCommit != nil {
			userOnCommit(batch, duration)
		}
	}

	userOnError := config.OnError
	config.OnError = func(err error) {
		var opErr *gaerrors.OperationError
		if errors.As(err, &opErr) {
			switch opErr.Operation {
			case "Commit":
				registry.CommitFailures.WithLabelValues(name).Inc()
			case "Save":
				registry.CheckpointFailures.WithLabelValues(name).Inc()
			}
		}
		if userOnError != nil {
			userOnError(err)
		}
	}

	pipeline, err := NewWithConfigSafe(sink, config)
	if err != nil {
		return nil, err
	}

	return &MetricsPipeline{
		pipeline: pipeline,
		name:     name,
		registry: registry,
		enabled:  true,
	}, nil
}

// Ingest delegates to the wrapped pipeline and counts the outcome.
func (mp *MetricsPipeline) Ingest(ctx context.Context, events ...Event) error {
	err := mp.pipeline.Ingest(ctx, events...)

	if mp.enabled {
		if err == nil {
			mp.registry.IngestEvents.WithLabelValues(mp.name).Add(float64(len(events)))
		} else {
			mp.registry.IngestRejected.WithLabelValues(mp.name).Add(float64(len(events)))
		}
		mp.updateMetrics()
	}

	return err
}

// Flush delegates to the wrapped pipeline.
func (mp *MetricsPipeline) Flush(ctx context.Context) error {
	err := mp.pipeline.Flush(ctx)
	if mp.enabled {
		mp.updateMetrics()
	}
	return err
}

// Close delegates to the wrapped pipeline.
func (mp *MetricsPipeline) Close() error {
	err := mp.pipeline.Close()
	if mp.enabled {
		mp.updateMetrics()
	}
	return err
}

// Stats delegates to the wrapped pipeline.
func (mp *MetricsPipeline) Stats() Stats {
	return mp.pipeline.Stats()
}

// IsClosed delegates to the wrapped pipeline.
func (mp *MetricsPipeline) IsClosed() bool {
	return mp.pipeline.IsClosed()
}

// Pending delegates to the wrapped pipeline and refreshes the pending
// gauge.
func (mp *MetricsPipeline) Pending() int {
	pending := mp.pipeline.Pending()
	if mp.enabled {
		mp.registry.PendingBatches.WithLabelValues(mp.name).Set(float64(pending))
	}
	return pending
}

// updateMetrics updates gauge metrics with current pipeline state.
func (mp *MetricsPipeline) updateMetrics() {
	mp.registry.PendingBatches.WithLabelValues(mp.name).Set(float64(mp.pipeline.Pending()))
}

// EnableMetrics enables metrics collection.
func (mp *MetricsPipeline) EnableMetrics(config metrics.Config) error {
	mp.enabled = config.Enabled

	if config.Registry != nil {
		mp.registry = metrics.NewRegistry(config.Registry)
	}

	if mp.enabled {
		mp.updateMetrics()
	}

	return nil
}

// DisableMetrics disables metrics collection.
func (mp *MetricsPipeline) DisableMetrics() {
	mp.enabled = false
}

// MetricsEnabled returns whether metrics collection is enabled.
func (mp *MetricsPipeline) MetricsEnabled() bool {
	return mp.enabled
}
