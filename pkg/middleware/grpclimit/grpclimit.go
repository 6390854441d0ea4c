// Package grpclimit provides gRPC server interceptors that cap
// concurrent requests using an admission permit pool.
//
// Requests beyond the ceiling are not queued: they fail with
// codes.ResourceExhausted, which gRPC clients already treat as a
// retryable backpressure signal.
package grpclimit

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/vnykmshr/goadmit/pkg/admission/permit"
	"github.com/vnykmshr/goadmit/pkg/common/errors"
)

// UnaryServerInterceptor caps concurrent unary requests at max.
// Returns an error if max is not positive.
func UnaryServerInterceptor(max int) (grpc.UnaryServerInterceptor, error) {
	pool, err := permit.NewSafe(max)
	if err != nil {
		return nil, err
	}
	return UnaryServerInterceptorWithPool(pool), nil
}

// UnaryServerInterceptorWithPool caps concurrent unary requests with an
// existing pool, letting unary and stream interceptors share one
// ceiling.
func UnaryServerInterceptorWithPool(pool *permit.Pool) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
		p, ok := pool.TryAcquire()
		if !ok {
			return nil, status.Error(codes.ResourceExhausted, errors.ErrOverloaded.Error())
		}
		defer p.Release()

		return handler(ctx, req)
	}
}

// StreamServerInterceptor caps concurrent streams at max.
// Returns an error if max is not positive.
func StreamServerInterceptor(max int) (grpc.StreamServerInterceptor, error) {
	pool, err := permit.NewSafe(max)
	if err != nil {
		return nil, err
	}
	return StreamServerInterceptorWithPool(pool), nil
}

// StreamServerInterceptorWithPool caps concurrent streams with an
// existing pool. The permit is held for the stream's whole lifetime.
func StreamServerInterceptorWithPool(pool *permit.Pool) grpc.StreamServerInterceptor {
	return func(srv interface{}, ss grpc.ServerStream, info *grpc.StreamServerInfo, handler grpc.StreamHandler) error {
		p, ok := pool.TryAcquire()
		if !ok {
			return status.Error(codes.ResourceExhausted, errors.ErrOverloaded.Error())
		}
		defer p.Release()

		return handler(srv, ss)
	}
}
