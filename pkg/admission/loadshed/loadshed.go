package loadshed

import (
	"context"
)

// Ready acquires admission for one call, then consults the inner service.
// When the ceiling is reached it returns the overload error immediately,
// without blocking and without touching the inner service. A held
// admission survives an inner readiness failure, so a retried Ready does
// not acquire twice.
func (l *shedLimiter[Req, Resp]) Ready(ctx context.Context) error {
	if l.held == nil {
		p, ok := l.pool.TryAcquire()
		if !ok {
			return l.overload()
		}
		l.held = p
	}
	return l.inner.Ready(ctx)
}

// Call performs the admitted request. The admission is released when the
// outcome is produced, on every path: success, error, or panic. Calling
// without a successful Ready first is a protocol violation and panics.
func (l *shedLimiter[Req, Resp]) Call(ctx context.Context, req Req) (Resp, error) {
	p := l.held
	if p == nil {
		panic("loadshed: Call without a successful Ready")
	}
	l.held = nil
	defer p.Release()

	return l.inner.Call(ctx, req)
}

// Discard releases a held, unconsumed admission.
func (l *shedLimiter[Req, Resp]) Discard() {
	if l.held != nil {
		l.held.Release()
		l.held = nil
	}
}

// Clone returns an unadmitted handle sharing the pool and inner service.
func (l *shedLimiter[Req, Resp]) Clone() Limiter[Req, Resp] {
	return &shedLimiter[Req, Resp]{
		inner:    l.inner,
		pool:     l.pool,
		overload: l.overload,
	}
}

// Capacity returns the admission ceiling.
func (l *shedLimiter[Req, Resp]) Capacity() int {
	return l.pool.Capacity()
}

// InFlight returns the number of admissions currently held.
func (l *shedLimiter[Req, Resp]) InFlight() int {
	return l.pool.InFlight()
}

// Available returns the number of admissions still free.
func (l *shedLimiter[Req, Resp]) Available() int {
	return l.pool.Available()
}

// Admitted reports whether this handle holds an unconsumed admission.
func (l *shedLimiter[Req, Resp]) Admitted() bool {
	return l.held != nil
}
