package permit

import (
	"context"
	"sync/atomic"

	"golang.org/x/sync/semaphore"

	"github.com/vnykmshr/goadmit/pkg/common/errors"
)

// Pool hands out permits up to a fixed capacity. Each permit represents
// one unit of admitted concurrent work. Pools are safe for concurrent use.
type Pool struct {
	sem      *semaphore.Weighted
	capacity int64
	inFlight atomic.Int64
}

// Config holds configuration options for creating a new permit Pool.
type Config struct {
	// Capacity is the maximum number of permits the pool can hand out.
	Capacity int
}

// NewSafe creates a new permit pool with validation that returns an error instead of panicking.
// This is the recommended way to create permit pools for production use.
func NewSafe(capacity int) (*Pool, error) {
	return NewWithConfigSafe(Config{Capacity: capacity})
}

// NewWithConfigSafe creates a new permit pool with validation that returns an error instead of panicking.
// This is the recommended way to create permit pools for production use.
func NewWithConfigSafe(config Config) (*Pool, error) {
	if config.Capacity <= 0 {
		return nil, errors.NewValidationError("permit", "capacity", config.Capacity, "capacity must be positive").
			WithHint("capacity determines how many permits can be held at once")
	}

	return &Pool{
		sem:      semaphore.NewWeighted(int64(config.Capacity)),
		capacity: int64(config.Capacity),
	}, nil
}

// TryAcquire attempts to take one permit without blocking.
// It returns the permit and true on success, or nil and false
// when the pool is exhausted.
func (p *Pool) TryAcquire() (*Permit, bool) {
	if !p.sem.TryAcquire(1) {
		return nil, false
	}
	p.inFlight.Add(1)
	return &Permit{pool: p}, true
}

// Acquire blocks until a permit is available or ctx is done.
// It returns ctx.Err() if ctx is canceled, including when ctx
// is already done on entry.
func (p *Pool) Acquire(ctx context.Context) (*Permit, error) {
	if err := p.sem.Acquire(ctx, 1); err != nil {
		return nil, err
	}
	p.inFlight.Add(1)
	return &Permit{pool: p}, nil
}

// Capacity returns the maximum number of permits the pool can hand out.
func (p *Pool) Capacity() int {
	return int(p.capacity)
}

// InFlight returns the number of permits currently held.
func (p *Pool) InFlight() int {
	return int(p.inFlight.Load())
}

// Available returns the number of permits not currently held.
func (p *Pool) Available() int {
	return int(p.capacity - p.inFlight.Load())
}

// Permit is a handle for one unit of admitted work. It must be released
// exactly once. A Permit is not safe for concurrent use.
type Permit struct {
	pool     *Pool
	released atomic.Bool
}

// Release returns the permit to its pool, unblocking one waiter if any.
// Releasing the same permit twice panics.
func (pm *Permit) Release() {
	if !pm.released.CompareAndSwap(false, true) {
		panic("permit: released twice")
	}
	pm.pool.inFlight.Add(-1)
	pm.pool.sem.Release(1)
}
