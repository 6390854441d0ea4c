package gate

import (
	"context"
	"sync/atomic"

	"github.com/vnykmshr/goadmit/pkg/admission/permit"
	"github.com/vnykmshr/goadmit/pkg/common/errors"
)

// Gate admits work up to a fixed number of permits and bounds how many
// callers may block waiting for one. Callers beyond both the permit
// capacity and the waiter bound are rejected immediately so that
// saturation surfaces as backpressure instead of unbounded queueing.
type Gate interface {
	// Acquire takes a permit. If one is free it returns immediately.
	// Otherwise the caller joins the waiting room and blocks until a
	// permit is released or ctx ends; if the waiting room is already
	// full, Acquire returns errors.ErrGateFull without blocking.
	Acquire(ctx context.Context) (*permit.Permit, error)

	// TryAcquire attempts to take a permit without blocking and without
	// consulting the waiter count. It returns the permit and true on
	// success, or nil and false when all permits are held.
	TryAcquire() (*permit.Permit, bool)

	// Permits returns the number of permits the gate can hand out.
	Permits() int

	// MaxWaiters returns the waiter bound.
	MaxWaiters() int

	// Waiting returns the number of callers currently blocked in Acquire.
	Waiting() int

	// InFlight returns the number of permits currently held.
	InFlight() int

	// Available returns the number of permits not currently held.
	Available() int
}

// Config holds configuration options for creating a new Gate.
type Config struct {
	// Permits is the number of permits the gate hands out.
	Permits int

	// MaxWaiters is the maximum number of callers allowed to block in
	// Acquire at once. Zero is valid and means nobody waits: acquires
	// beyond capacity fail immediately with ErrGateFull.
	MaxWaiters int
}

// boundedGate implements the Gate interface over a permit pool plus an
// atomic waiter count.
type boundedGate struct {
	pool       *permit.Pool
	maxWaiters int64
	waiting    atomic.Int64
}

// NewSafe creates a new gate with validation that returns an error instead of panicking.
// This is the recommended way to create gates for production use.
func NewSafe(permits, maxWaiters int) (Gate, error) {
	return NewWithConfigSafe(Config{
		Permits:    permits,
		MaxWaiters: maxWaiters,
	})
}

// NewWithConfigSafe creates a new gate with validation that returns an error instead of panicking.
// This is the recommended way to create gates for production use.
func NewWithConfigSafe(config Config) (Gate, error) {
	if config.Permits <= 0 {
		return nil, errors.NewValidationError("gate", "permits", config.Permits, "permits must be positive").
			WithHint("permits determines how many callers can be admitted at once")
	}
	if config.MaxWaiters < 0 {
		return nil, errors.NewValidationError("gate", "max_waiters", config.MaxWaiters, "max_waiters must be non-negative").
			WithHint("use 0 to reject immediately instead of waiting")
	}

	pool, err := permit.NewSafe(config.Permits)
	if err != nil {
		return nil, err
	}

	return &boundedGate{
		pool:       pool,
		maxWaiters: int64(config.MaxWaiters),
	}, nil
}
