package gate

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/vnykmshr/goadmit/pkg/admission/permit"
	"github.com/vnykmshr/goadmit/pkg/common/errors"
	"github.com/vnykmshr/goadmit/pkg/metrics"
)

// MetricsGate wraps a Gate with Prometheus metrics collection.
type MetricsGate struct {
	gate     Gate
	name     string
	registry *metrics.Registry
	enabled  bool
}

// NewWithMetricsSafe creates a new gate with metrics enabled.
func NewWithMetricsSafe(permits, maxWaiters int, name string) (Gate, error) {
	// Use a separate registry for each metrics-enabled component to avoid conflicts
	registry := prometheus.NewRegistry()
	config := metrics.Config{
		Enabled:  true,
		Registry: registry,
	}

	return NewWithConfigAndMetricsSafe(Config{
		Permits:    permits,
		MaxWaiters: maxWaiters,
	}, name, config)
}

// NewWithConfigAndMetricsSafe creates a new gate with custom config and metrics.
func NewWithConfigAndMetricsSafe(config Config, name string, metricsConfig metrics.Config) (Gate, error) {
	baseGate, err := NewWithConfigSafe(config)
	if err != nil {
		return nil, err
	}

	if !metricsConfig.Enabled {
		return baseGate, nil
	}

	registry := metrics.DefaultRegistry
	if metricsConfig.Registry != nil {
		// Create custom registry if provided
		registry = metrics.NewRegistry(metricsConfig.Registry)
	}

	mg := &MetricsGate{
		gate:     baseGate,
		name:     name,
		registry: registry,
		enabled:  true,
	}

	// Initialize metrics
	mg.updateMetrics()

	return mg, nil
}

// updateMetrics updates the current state metrics.
func (mg *MetricsGate) updateMetrics() {
	if !mg.enabled {
		return
	}

	mg.registry.GateInFlight.WithLabelValues(mg.name).Set(float64(mg.gate.InFlight()))
	mg.registry.GateWaiting.WithLabelValues(mg.name).Set(float64(mg.gate.Waiting()))
}

// Acquire takes a permit, joining the bounded waiting room if none is free.
func (mg *MetricsGate) Acquire(ctx context.Context) (*permit.Permit, error) {
	start := time.Now()

	if mg.enabled {
		mg.registry.GateAcquires.WithLabelValues(mg.name).Inc()
	}

	p, err := mg.gate.Acquire(ctx)

	if mg.enabled {
		switch {
		case err == nil:
			mg.registry.GateAdmitted.WithLabelValues(mg.name).Inc()
			mg.registry.GateWaitTime.WithLabelValues(mg.name).Observe(time.Since(start).Seconds())
		case errors.IsBackpressure(err):
			mg.registry.GateRejected.WithLabelValues(mg.name).Inc()
		}
		mg.updateMetrics()
	}

	return p, err
}

// TryAcquire attempts to take a permit without blocking.
func (mg *MetricsGate) TryAcquire() (*permit.Permit, bool) {
	p, ok := mg.gate.TryAcquire()

	if mg.enabled {
		mg.registry.GateAcquires.WithLabelValues(mg.name).Inc()
		if ok {
			mg.registry.GateAdmitted.WithLabelValues(mg.name).Inc()
		}
		mg.updateMetrics()
	}

	return p, ok
}

// Permits returns the number of permits the gate can hand out.
func (mg *MetricsGate) Permits() int {
	return mg.gate.Permits()
}

// MaxWaiters returns the waiter bound.
func (mg *MetricsGate) MaxWaiters() int {
	return mg.gate.MaxWaiters()
}

// Waiting returns the number of callers currently blocked in Acquire.
func (mg *MetricsGate) Waiting() int {
	waiting := mg.gate.Waiting()

	if mg.enabled {
		mg.registry.GateWaiting.WithLabelValues(mg.name).Set(float64(waiting))
	}

	return waiting
}

// InFlight returns the number of permits currently held.
func (mg *MetricsGate) InFlight() int {
	inFlight := mg.gate.InFlight()

	if mg.enabled {
		mg.registry.GateInFlight.WithLabelValues(mg.name).Set(float64(inFlight))
	}

	return inFlight
}

// Available returns the number of permits not currently held.
func (mg *MetricsGate) Available() int {
	return mg.gate.Available()
}

// EnableMetrics enables metrics collection.
func (mg *MetricsGate) EnableMetrics(config metrics.Config) error {
	mg.enabled = config.Enabled

	if config.Registry != nil {
		mg.registry = metrics.NewRegistry(config.Registry)
	}

	if mg.enabled {
		mg.updateMetrics()
	}

	return nil
}

// DisableMetrics disables metrics collection.
func (mg *MetricsGate) DisableMetrics() {
	mg.enabled = false
}

// MetricsEnabled returns true if metrics are currently enabled.
func (mg *MetricsGate) MetricsEnabled() bool {
	return mg.enabled
}
