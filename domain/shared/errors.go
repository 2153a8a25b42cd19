/*
Package shared - shared domain error definitions

Design principles:
1. Sentinel errors classify failures for errors.Is()
2. DomainError captures the stack when it is created and formats it lazily
3. No transport concepts (HTTP status codes) in the domain layer

Error kinds:
- Business-rule violation: wrong status, capacity exceeded, duplicate child key.
  Raised before any state change; the aggregate is left untouched.
- Invalid value: value-object construction failure. A narrower business-rule violation.
- Invariant violation: a programming error in the caller, e.g. a mutator called on an
  aggregate that never went through its factory. Never swallowed.
*/
package shared

import (
	"errors"
	"fmt"
	"runtime"
	"strings"
)

// ============================================================================
// Sentinel Errors
// ============================================================================

var (
	// ErrBusinessRule a business rule rejected the operation
	ErrBusinessRule = errors.New("business rule violation")

	// ErrInvalidValue a value object could not be constructed
	ErrInvalidValue = fmt.Errorf("invalid value: %w", ErrBusinessRule)

	// ErrUnitMismatch arithmetic between values carrying different units/currencies
	ErrUnitMismatch = fmt.Errorf("unit mismatch: %w", ErrBusinessRule)

	// ErrInvariant configuration or programming error in the caller
	ErrInvariant = errors.New("invariant violation")

	// ErrNotFound aggregate not found
	ErrNotFound = errors.New("not found")

	// ErrConcurrencyConflict the stored version advanced since the aggregate was read
	ErrConcurrencyConflict = errors.New("concurrency conflict")
)

// ============================================================================
// Domain Error
// ============================================================================

// DomainError structured error carrying business context and the creation stack
type DomainError struct {
	// Err underlying sentinel, used by errors.Is()
	Err error

	// Entity name of the entity that failed ("course", "shipment")
	Entity string

	// Op operation that failed ("enroll_student")
	Op string

	// Field optional field name for validation errors
	Field string

	// Message human readable description
	Message string

	stack []uintptr
}

// Error implements error
func (e *DomainError) Error() string {
	return e.Message
}

// Unwrap supports errors.Is() and errors.As()
func (e *DomainError) Unwrap() error {
	return e.Err
}

// Stack formats the captured stack on demand
func (e *DomainError) Stack() []string {
	return FormatStack(e.stack)
}

// Stacker errors that can provide a stack
type Stacker interface {
	Stack() []string
}

// CaptureStack captures the current call stack.
// skip: frames to skip (usually 3: Callers, CaptureStack, NewXxxError)
func CaptureStack(skip int) []uintptr {
	var pcs [32]uintptr
	n := runtime.Callers(skip, pcs[:])
	return pcs[:n]
}

// FormatStack formats frames, dropping runtime internals, at most 10 frames
func FormatStack(stack []uintptr) []string {
	if len(stack) == 0 {
		return nil
	}

	frames := runtime.CallersFrames(stack)
	var result []string
	for {
		frame, more := frames.Next()
		if !strings.Contains(frame.File, "runtime/") {
			result = append(result, fmt.Sprintf("%s:%d %s", frame.File, frame.Line, frame.Function))
		}
		if !more || len(result) > 10 {
			break
		}
	}
	return result
}

// ============================================================================
// Constructors
// ============================================================================

// NewDomainError creates a DomainError for an aggregate-specific sentinel.
// The sentinel should wrap one of the sentinels above so callers can classify it.
func NewDomainError(sentinel error, entity, op, field, message string) error {
	return &DomainError{
		Err:     sentinel,
		Entity:  entity,
		Op:      op,
		Field:   field,
		Message: message,
		stack:   CaptureStack(3),
	}
}

// NewBusinessRuleError creates a business-rule violation
func NewBusinessRuleError(entity, op, message string) error {
	return &DomainError{
		Err:     ErrBusinessRule,
		Entity:  entity,
		Op:      op,
		Message: message,
		stack:   CaptureStack(3),
	}
}

// NewInvalidStatusError creates a business-rule violation naming the current and the
// expected statuses
func NewInvalidStatusError(entity, op, current string, expected ...string) error {
	return &DomainError{
		Err:    ErrBusinessRule,
		Entity: entity,
		Op:     op,
		Field:  "status",
		Message: fmt.Sprintf("cannot %s %s in status %s, expected %s",
			strings.ReplaceAll(op, "_", " "), entity, current, strings.Join(expected, " or ")),
		stack: CaptureStack(3),
	}
}

// NewValidationError creates a value-object construction failure
func NewValidationError(entity, field, reason string) error {
	return &DomainError{
		Err:     ErrInvalidValue,
		Entity:  entity,
		Field:   field,
		Message: reason,
		stack:   CaptureStack(3),
	}
}

// NewUnitMismatchError creates an arithmetic unit/currency mismatch error
func NewUnitMismatchError(entity, op, left, right string) error {
	return &DomainError{
		Err:     ErrUnitMismatch,
		Entity:  entity,
		Op:      op,
		Message: fmt.Sprintf("cannot %s %s: unit %s does not match %s", op, entity, left, right),
		stack:   CaptureStack(3),
	}
}

// NewNotInitializedError creates an invariant violation for aggregates that bypassed
// their factory
func NewNotInitializedError(entity, op string) error {
	return &DomainError{
		Err:     ErrInvariant,
		Entity:  entity,
		Op:      op,
		Message: fmt.Sprintf("%s is not initialized: %s requires an aggregate created by its factory", entity, op),
		stack:   CaptureStack(3),
	}
}

// NewNotFoundError creates a not found error
func NewNotFoundError(entity string, id ID) error {
	return &DomainError{
		Err:     ErrNotFound,
		Entity:  entity,
		Message: fmt.Sprintf("%s not found: %s", entity, id),
		stack:   CaptureStack(3),
	}
}

// NewConcurrencyConflictError creates an optimistic locking failure
func NewConcurrencyConflictError(entity string, id ID, expected, actual int) error {
	return &DomainError{
		Err:    ErrConcurrencyConflict,
		Entity: entity,
		Message: fmt.Sprintf("%s %s was modified concurrently: expected version %d, stored version %d",
			entity, id, expected, actual),
		stack: CaptureStack(3),
	}
}

// IsBusinessRule reports whether err is a business-rule violation (value errors included)
func IsBusinessRule(err error) bool {
	return errors.Is(err, ErrBusinessRule)
}

// IsInvariant reports whether err signals a programming error
func IsInvariant(err error) bool {
	return errors.Is(err, ErrInvariant)
}
