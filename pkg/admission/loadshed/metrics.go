package loadshed

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/vnykmshr/goadmit/pkg/metrics"
)

// MetricsLimiter wraps a Limiter with Prometheus metrics collection.
// Clones share the wrapped limiter's name and registry, so one label set
// covers the whole ceiling.
type MetricsLimiter[Req, Resp any] struct {
	limiter  Limiter[Req, Resp]
	name     string
	registry *metrics.Registry
	enabled  bool
}

// NewWithMetricsSafe creates a new load-shedding limiter with metrics enabled.
func NewWithMetricsSafe[Req, Resp any](inner Service[Req, Resp], maxInFlight int, name string) (Limiter[Req, Resp], error) {
	// Use a separate registry for each metrics-enabled component to avoid conflicts
	registry := prometheus.NewRegistry()
	config := metrics.Config{
		Enabled:  true,
		Registry: registry,
	}

	return NewWithConfigAndMetricsSafe(inner, Config{MaxInFlight: maxInFlight}, name, config)
}

// NewWithConfigAndMetricsSafe creates a new load-shedding limiter with custom config and metrics.
func NewWithConfigAndMetricsSafe[Req, Resp any](inner Service[Req, Resp], config Config, name string, metricsConfig metrics.Config) (Limiter[Req, Resp], error) {
	baseLimiter, err := NewWithConfigSafe(inner, config)
	if err != nil {
		return nil, err
	}

	if !metricsConfig.Enabled {
		return baseLimiter, nil
	}

	registry := metrics.DefaultRegistry
	if metricsConfig.Registry != nil {
		// Create custom registry if provided
		registry = metrics.NewRegistry(metricsConfig.Registry)
	}

	ml := &MetricsLimiter[Req, Resp]{
		limiter:  baseLimiter,
		name:     name,
		registry: registry,
		enabled:  true,
	}

	// Initialize metrics
	ml.updateMetrics()

	return ml, nil
}

// updateMetrics updates the current state metrics.
func (ml *MetricsLimiter[Req, Resp]) updateMetrics() {
	if !ml.enabled {
		return
	}

	ml.registry.LoadshedInFlight.WithLabelValues(ml.name).Set(float64(ml.limiter.InFlight()))
}

// Ready acquires admission for one call, then consults the inner service.
func (ml *MetricsLimiter[Req, Resp]) Ready(ctx context.Context) error {
	if ml.enabled {
		ml.registry.LoadshedRequests.WithLabelValues(ml.name).Inc()
	}

	err := ml.limiter.Ready(ctx)

	if ml.enabled {
		switch {
		case err == nil:
			ml.registry.LoadshedAdmitted.WithLabelValues(ml.name).Inc()
		case !ml.limiter.Admitted():
			// No admission held after the failure means the ceiling shed
			// the request; a held admission means the inner service was
			// not ready.
			ml.registry.LoadshedShed.WithLabelValues(ml.name).Inc()
		}
		ml.updateMetrics()
	}

	return err
}

// Call performs the admitted request.
func (ml *MetricsLimiter[Req, Resp]) Call(ctx context.Context, req Req) (Resp, error) {
	start := time.Now()

	resp, err := ml.limiter.Call(ctx, req)

	if ml.enabled {
		ml.registry.LoadshedCallDuration.WithLabelValues(ml.name).Observe(time.Since(start).Seconds())
		ml.updateMetrics()
	}

	return resp, err
}

// Discard releases a held, unconsumed admission.
func (ml *MetricsLimiter[Req, Resp]) Discard() {
	ml.limiter.Discard()

	if ml.enabled {
		ml.updateMetrics()
	}
}

// Clone returns an unadmitted handle sharing the ceiling, name, and registry.
func (ml *MetricsLimiter[Req, Resp]) Clone() Limiter[Req, Resp] {
	return &MetricsLimiter[Req, Resp]{
		limiter:  ml.limiter.Clone(),
		name:     ml.name,
		registry: ml.registry,
		enabled:  ml.enabled,
	}
}

// Capacity returns the admission ceiling.
func (ml *MetricsLimiter[Req, Resp]) Capacity() int {
	return ml.limiter.Capacity()
}

// InFlight returns the number of admissions currently held.
func (ml *MetricsLimiter[Req, Resp]) InFlight() int {
	inFlight := ml.limiter.InFlight()

	if ml.enabled {
		ml.registry.LoadshedInFlight.WithLabelValues(ml.name).Set(float64(inFlight))
	}

	return inFlight
}

// Available returns the number of admissions still free.
func (ml *MetricsLimiter[Req, Resp]) Available() int {
	return ml.limiter.Available()
}

// Admitted reports whether this handle holds an unconsumed admission.
func (ml *MetricsLimiter[Req, Resp]) Admitted() bool {
	return ml.limiter.Admitted()
}

// EnableMetrics enables metrics collection.
func (ml *MetricsLimiter[Req, Resp]) EnableMetrics(config metrics.Config) error {
	ml.enabled = config.Enabled

	if config.Registry != nil {
		ml.registry = metrics.NewRegistry(config.Registry)
	}

	if ml.enabled {
		ml.updateMetrics()
	}

	return nil
}

// DisableMetrics disables metrics collection.
func (ml *MetricsLimiter[Req, Resp]) DisableMetrics() {
	ml.enabled = false
}

// MetricsEnabled returns true if metrics are currently enabled.
func (ml *MetricsLimiter[Req, Resp]) MetricsEnabled() bool {
	return ml.enabled
}
