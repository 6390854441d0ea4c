/*
Package loadshed provides in-flight concurrency limiting for service
stacks that separate readiness from execution.

A limiter wraps a Service and caps how many calls may be in flight at
once. When the ceiling is reached, Ready fails fast with an overload
error instead of queueing, shedding load at admission time rather than
letting latency build invisibly.

Basic usage:

	svc := loadshed.Fn[string, string](func(ctx context.Context, req string) (string, error) {
		return handle(ctx, req)
	})

	limiter, err := loadshed.NewSafe[string, string](svc, 100) // at most 100 calls in flight
	if err != nil {
		log.Fatal(err)
	}

	if err := limiter.Ready(ctx); err != nil {
		return err // overloaded, tell the caller to back off
	}
	resp, err := limiter.Call(ctx, req)

Two-Phase Protocol:

Admission is decided in Ready and consumed in Call. A successful Ready
reserves one in-flight slot; the matching Call releases it when its
outcome is produced, on every path including errors and panics. The
split lets an enclosing stack probe readiness before committing to
expensive request preparation.

The protocol is mandatory:
  - Call without a prior successful Ready panics
  - an admission obtained by Ready that will not be consumed must be
    returned with Discard
  - admission never alters a call's outcome; the inner service's
    response and error pass through unchanged

Handles and Clones:

A Limiter handle carries the per-call admission state and is not safe
for concurrent use. Goroutines share capacity by cloning:

	limiter, err := loadshed.NewSafe[Req, Resp](svc, 50)
	if err != nil {
		log.Fatal(err)
	}

	for i := 0; i < workers; i++ {
		go func() {
			h := limiter.Clone() // own handle, shared ceiling
			for req := range work {
				if err := h.Ready(ctx); err != nil {
					continue // shed
				}
				h.Call(ctx, req)
			}
		}()
	}

A clone always starts unadmitted, even when cloned from a handle that
currently holds an admission.

Reusable Layers:

	layer, err := loadshed.NewLayerSafe[Req, Resp](100)
	if err != nil {
		log.Fatal(err)
	}

	a, _ := layer.Wrap(serviceA) // own pool of 100
	b, _ := layer.Wrap(serviceB) // separate pool of 100

Error Handling:

Ready returns the configured overload error (errors.ErrOverloaded by
default) when the ceiling is reached. Overload is recoverable
backpressure; the limiter never retries internally. Config.OverloadError
lets stacks with their own error domain keep a uniform error type:

	limiter, err := loadshed.NewWithConfigSafe[Req, Resp](svc, loadshed.Config{
		MaxInFlight:   100,
		OverloadError: func() error { return status.Error(codes.ResourceExhausted, "shed") },
	})

Protocol violations (Call without Ready, double release) are programming
errors and panic.

Thread Safety:

The shared ceiling is maintained with atomic operations and is accurate
across any number of clones. Individual handles are single-owner.
*/
package loadshed
