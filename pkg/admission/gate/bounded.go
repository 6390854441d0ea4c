package gate

import (
	"context"

	"github.com/vnykmshr/goadmit/pkg/admission/permit"
	"github.com/vnykmshr/goadmit/pkg/common/errors"
)

// Acquire takes a permit, joining the bounded waiting room if none is free.
func (g *boundedGate) Acquire(ctx context.Context) (*permit.Permit, error) {
	// Fast path: a free permit is taken without consulting the waiter count.
	if p, ok := g.pool.TryAcquire(); ok {
		return p, nil
	}

	if g.waiting.Load() >= g.maxWaiters {
		return nil, errors.ErrGateFull
	}

	// The check above and this increment are not atomic as a pair, so a
	// burst of simultaneous arrivals can briefly overshoot MaxWaiters.
	// The bound is a soft cap.
	g.waiting.Add(1)
	defer g.waiting.Add(-1)

	return g.pool.Acquire(ctx)
}

// TryAcquire attempts to take a permit without blocking.
func (g *boundedGate) TryAcquire() (*permit.Permit, bool) {
	return g.pool.TryAcquire()
}

// Permits returns the number of permits the gate can hand out.
func (g *boundedGate) Permits() int {
	return g.pool.Capacity()
}

// MaxWaiters returns the waiter bound.
func (g *boundedGate) MaxWaiters() int {
	return int(g.maxWaiters)
}

// Waiting returns the number of callers currently blocked in Acquire.
func (g *boundedGate) Waiting() int {
	return int(g.waiting.Load())
}

// InFlight returns the number of permits currently held.
func (g *boundedGate) InFlight() int {
	return g.pool.InFlight()
}

// Available returns the number of permits not currently held.
func (g *boundedGate) Available() int {
	return g.pool.Available()
}
