package loadshed

import (
	"github.com/vnykmshr/goadmit/pkg/admission/permit"
	"github.com/vnykmshr/goadmit/pkg/common/errors"
)

// Limiter caps how many calls may be in flight through the wrapped
// service at once. Admission happens in Ready, the admitted call in
// Call; the two-phase split lets an enclosing stack check readiness
// before committing work.
//
// A Limiter handle carries per-call admission state and is NOT safe for
// concurrent use. Goroutines must not share a handle; give each its own
// Clone. Clones share one admission ceiling.
type Limiter[Req, Resp any] interface {
	Service[Req, Resp]

	// Discard releases an admission obtained by Ready that will not be
	// consumed by a Call. It is a no-op when nothing is held.
	Discard()

	// Clone returns a handle sharing this limiter's capacity and inner
	// service. The clone starts unadmitted regardless of the state of
	// the handle it was cloned from.
	Clone() Limiter[Req, Resp]

	// Capacity returns the admission ceiling.
	Capacity() int

	// InFlight returns the number of admissions currently held across
	// all handles sharing this limiter.
	InFlight() int

	// Available returns the number of admissions still free.
	Available() int

	// Admitted reports whether this handle holds an unconsumed admission.
	Admitted() bool
}

// Config holds configuration options for creating a new Limiter.
type Config struct {
	// MaxInFlight is the admission ceiling shared by the limiter and
	// all of its clones.
	MaxInFlight int

	// OverloadError constructs the error Ready returns when the ceiling
	// is reached, letting a stack with its own error domain keep a
	// uniform error type. Nil defaults to errors.ErrOverloaded.
	OverloadError func() error
}

// shedLimiter implements the Limiter interface over a shared permit pool
// and a per-handle admission slot.
type shedLimiter[Req, Resp any] struct {
	inner    Service[Req, Resp]
	pool     *permit.Pool
	overload func() error
	held     *permit.Permit
}

// NewSafe creates a new load-shedding limiter with validation that returns an error instead of panicking.
// This is the recommended way to create limiters for production use.
func NewSafe[Req, Resp any](inner Service[Req, Resp], maxInFlight int) (Limiter[Req, Resp], error) {
	return NewWithConfigSafe(inner, Config{MaxInFlight: maxInFlight})
}

// NewWithConfigSafe creates a new load-shedding limiter with validation that returns an error instead of panicking.
// This is the recommended way to create limiters for production use.
func NewWithConfigSafe[Req, Resp any](inner Service[Req, Resp], config Config) (Limiter[Req, Resp], error) {
	if inner == nil {
		return nil, errors.NewValidationError("loadshed", "service", inner, "service must not be nil").
			WithHint("provide the service to wrap")
	}
	if config.MaxInFlight <= 0 {
		return nil, errors.NewValidationError("loadshed", "max_in_flight", config.MaxInFlight, "max_in_flight must be positive").
			WithHint("max_in_flight determines how many calls can be admitted at once")
	}

	pool, err := permit.NewSafe(config.MaxInFlight)
	if err != nil {
		return nil, err
	}

	overload := config.OverloadError
	if overload == nil {
		overload = func() error { return errors.ErrOverloaded }
	}

	return &shedLimiter[Req, Resp]{
		inner:    inner,
		pool:     pool,
		overload: overload,
	}, nil
}
