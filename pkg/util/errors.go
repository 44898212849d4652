// Package util provides logging helpers and common error types.
package util

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors. Typed errors below unwrap (or Is) to these so callers
// can classify failures without inspecting the concrete type.
var (
	ErrInvalidInput     = errors.New("invalid input")
	ErrNotConnected     = errors.New("device not connected")
	ErrNotLocked        = errors.New("device not locked for changes")
	ErrTransport        = errors.New("transport failure")
	ErrValidationFailed = errors.New("validation failed")
)

// InvalidInputError reports a desired state that can never be applied,
// e.g. a present banner with no text. Rejected before any comparison
// and never retried.
type InvalidInputError struct {
	Kind   string // banner kind the request was for, if known
	Reason string
}

func (e *InvalidInputError) Error() string {
	if e.Kind == "" {
		return "invalid input: " + e.Reason
	}
	return fmt.Sprintf("invalid input for %s banner: %s", e.Kind, e.Reason)
}

func (e *InvalidInputError) Unwrap() error {
	return ErrInvalidInput
}

// NewInvalidInputError creates a new invalid-input error
func NewInvalidInputError(kind, reason string) *InvalidInputError {
	return &InvalidInputError{Kind: kind, Reason: reason}
}

// TransportError wraps a collaborator failure unchanged, adding the
// device and operation it occurred on. No retry happens at this layer;
// retry policy belongs to the transport owner.
type TransportError struct {
	Device string
	Op     string
	Err    error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: %s: %v", e.Device, e.Op, e.Err)
}

// Unwrap returns the original collaborator error so errors.Is/As keep
// working against it.
func (e *TransportError) Unwrap() error {
	return e.Err
}

// Is matches ErrTransport in addition to the wrapped chain.
func (e *TransportError) Is(target error) bool {
	return target == ErrTransport
}

// NewTransportError creates a transport error with device and operation context
func NewTransportError(device, op string, err error) *TransportError {
	return &TransportError{Device: device, Op: op, Err: err}
}

// PreconditionError represents a failed precondition check with context
type PreconditionError struct {
	Operation    string
	Device       string
	Precondition string
	Err          error // sentinel: ErrNotConnected or ErrNotLocked
}

func (e *PreconditionError) Error() string {
	return fmt.Sprintf("precondition failed for %s on %s: %s", e.Operation, e.Device, e.Precondition)
}

func (e *PreconditionError) Unwrap() error {
	return e.Err
}

// NewPreconditionError creates a new precondition error
func NewPreconditionError(operation, device, precondition string, err error) *PreconditionError {
	return &PreconditionError{
		Operation:    operation,
		Device:       device,
		Precondition: precondition,
		Err:          err,
	}
}

// ValidationError represents one or more validation failures
type ValidationError struct {
	Errors []string
}

func (e *ValidationError) Error() string {
	if len(e.Errors) == 1 {
		return "validation failed: " + e.Errors[0]
	}
	return fmt.Sprintf("validation failed:\n  - %s", strings.Join(e.Errors, "\n  - "))
}

func (e *ValidationError) Unwrap() error {
	return ErrValidationFailed
}

// ValidationBuilder helps accumulate validation errors
type ValidationBuilder struct {
	errors []string
}

// Add adds an error message if condition is false
func (v *ValidationBuilder) Add(condition bool, message string) *ValidationBuilder {
	if !condition {
		v.errors = append(v.errors, message)
	}
	return v
}

// AddErrorf adds a formatted error message
func (v *ValidationBuilder) AddErrorf(format string, args ...interface{}) *ValidationBuilder {
	v.errors = append(v.errors, fmt.Sprintf(format, args...))
	return v
}

// HasErrors returns true if there are validation errors
func (v *ValidationBuilder) HasErrors() bool {
	return len(v.errors) > 0
}

// Build returns the validation error or nil if no errors
func (v *ValidationBuilder) Build() error {
	if len(v.errors) == 0 {
		return nil
	}
	return &ValidationError{Errors: v.errors}
}
