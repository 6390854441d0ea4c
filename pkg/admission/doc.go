/*
Package admission provides admission-control primitives for Go services.

This package offers three building blocks, layered bottom-up:

  - permit: Fixed-capacity permit pool, the unit of admitted work
  - gate: Permit admission with a bounded waiting room and fail-fast rejection
  - loadshed: Two-phase in-flight limiting for service stacks

Gate vs Loadshed:

The gate is for callers that can afford to wait a bounded amount:

	g, err := gate.NewSafe(10, 50) // 10 permits, at most 50 waiting
	p, err := g.Acquire(ctx)      // blocks, or fails with ErrGateFull
	defer p.Release()

The load-shedding limiter is for request paths that must answer
immediately, shedding work at the ceiling instead of queueing:

	limiter, err := loadshed.NewSafe[Req, Resp](svc, 100)
	if err := limiter.Ready(ctx); err != nil {
		return err // overloaded
	}
	resp, err := limiter.Call(ctx, req)

Both primitives reject with sentinel errors from pkg/common/errors;
errors.IsBackpressure distinguishes saturation from real failures.
Rejections are never retried internally.
*/
package admission
