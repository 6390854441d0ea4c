package errors

import (
	"errors"
	"fmt"
)

// ValidationError describes a configuration value that failed validation.
// It carries enough structure for callers to point users at the exact field
// and, optionally, a hint on how to fix it.
type ValidationError struct {
	// Module is the goadmit package reporting the error, e.g. "gate".
	Module string

	// Field is the configuration field that failed validation.
	Field string

	// Value is the rejected value.
	Value interface{}

	// Reason explains why the value was rejected.
	Reason string

	// Hint optionally suggests a fix.
	Hint string
}

// NewValidationError creates a ValidationError for the given module and field.
func NewValidationError(module, field string, value interface{}, reason string) *ValidationError {
	return &ValidationError{
		Module: module,
		Field:  field,
		Value:  value,
		Reason: reason,
	}
}

// WithHint attaches a remediation hint and returns the same error for chaining.
func (e *ValidationError) WithHint(hint string) *ValidationError {
	e.Hint = hint
	return e
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	msg := fmt.Sprintf("%s: invalid %s=%v (%s)", e.Module, e.Field, e.Value, e.Reason)
	if e.Hint != "" {
		msg += " - " + e.Hint
	}
	return msg
}

// Unwrap makes ValidationError match ErrInvalidConfiguration via errors.Is.
func (e *ValidationError) Unwrap() error {
	return ErrInvalidConfiguration
}

// IsValidationError returns true if err is, or wraps, a ValidationError
func IsValidationError(err error) bool {
	var verr *ValidationError
	return errors.As(err, &verr)
}

// OperationError describes a runtime operation that failed, preserving the
// underlying cause for errors.Is/As inspection.
type OperationError struct {
	// Module is the goadmit package reporting the error, e.g. "ingest".
	Module string

	// Operation is the operation that failed, e.g. "Commit".
	Operation string

	// Cause is the underlying error.
	Cause error

	// Context optionally carries additional detail about the failure.
	Context string
}

// NewOperationError creates an OperationError wrapping cause.
func NewOperationError(module, operation string, cause error) *OperationError {
	return &OperationError{
		Module:    module,
		Operation: operation,
		Cause:     cause,
	}
}

// WithContext attaches additional detail and returns the same error for chaining.
func (e *OperationError) WithContext(context string) *OperationError {
	e.Context = context
	return e
}

// Error implements the error interface.
func (e *OperationError) Error() string {
	msg := fmt.Sprintf("%s.%s failed: %v", e.Module, e.Operation, e.Cause)
	if e.Context != "" {
		msg += " (" + e.Context + ")"
	}
	return msg
}

// Unwrap returns the underlying cause.
func (e *OperationError) Unwrap() error {
	return e.Cause
}
