package loadshed

import "context"

// Service is the contract for a request handler that participates in
// admission control. Ready reports whether the service will accept one
// more call; Call performs it. Middleware stacks compose by wrapping a
// Service in another Service.
type Service[Req, Resp any] interface {
	// Ready reports whether the service can accept one call.
	// A nil return is a promise that an immediate Call will be taken.
	Ready(ctx context.Context) error

	// Call performs one request.
	Call(ctx context.Context, req Req) (Resp, error)
}

// Fn adapts a plain function into an always-ready Service.
type Fn[Req, Resp any] func(ctx context.Context, req Req) (Resp, error)

// Ready always succeeds.
func (f Fn[Req, Resp]) Ready(_ context.Context) error {
	return nil
}

// Call invokes the function.
func (f Fn[Req, Resp]) Call(ctx context.Context, req Req) (Resp, error) {
	return f(ctx, req)
}
