package errors

import "errors"

// Common error types used across the goadmit library

var (
	// ErrOverloaded indicates that an admission attempt was rejected because
	// the in-flight ceiling is fully consumed
	ErrOverloaded = errors.New("service overloaded")

	// ErrGateFull indicates that a gate refused to enqueue another waiter
	// because the waiter limit is reached
	ErrGateFull = errors.New("too many waiters")

	// ErrClosed indicates that an operation was attempted on a closed resource
	ErrClosed = errors.New("resource is closed")

	// ErrInvalidConfiguration indicates invalid configuration parameters
	ErrInvalidConfiguration = errors.New("invalid configuration")
)

// IsBackpressure returns true if the error is a capacity rejection that the
// caller should treat as a backpressure signal rather than a failure of the
// underlying operation
func IsBackpressure(err error) bool {
	return errors.Is(err, ErrOverloaded) || errors.Is(err, ErrGateFull)
}

// IsRetryable returns true if the error indicates a condition that might
// be resolved by retrying the operation later. Neither the limiter nor the
// gate ever retries internally; that decision belongs to the caller.
func IsRetryable(err error) bool {
	return IsBackpressure(err)
}
