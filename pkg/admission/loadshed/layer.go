package loadshed

import (
	"github.com/vnykmshr/goadmit/pkg/common/errors"
)

// Layer builds limiters from a shared configuration. Each Wrap stamps a
// limiter with its own fresh admission pool, so limiters built by one
// layer do not share capacity with each other.
type Layer[Req, Resp any] struct {
	config Config
}

// NewLayerSafe creates a new limiter layer with validation that returns an error instead of panicking.
func NewLayerSafe[Req, Resp any](maxInFlight int) (*Layer[Req, Resp], error) {
	return NewLayerWithConfigSafe[Req, Resp](Config{MaxInFlight: maxInFlight})
}

// NewLayerWithConfigSafe creates a new limiter layer with validation that returns an error instead of panicking.
func NewLayerWithConfigSafe[Req, Resp any](config Config) (*Layer[Req, Resp], error) {
	if config.MaxInFlight <= 0 {
		return nil, errors.NewValidationError("loadshed", "max_in_flight", config.MaxInFlight, "max_in_flight must be positive").
			WithHint("max_in_flight determines how many calls can be admitted at once")
	}

	return &Layer[Req, Resp]{config: config}, nil
}

// Wrap stamps a limiter around inner with a freshly created pool and no
// held admission.
func (ly *Layer[Req, Resp]) Wrap(inner Service[Req, Resp]) (Limiter[Req, Resp], error) {
	return NewWithConfigSafe(inner, ly.config)
}
