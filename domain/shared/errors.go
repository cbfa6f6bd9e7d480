/*
Package shared holds the building blocks every booking subdomain relies on:
aggregate contracts, the unit of work port, money, and the error taxonomy.

Error design:
 1. Sentinel errors classify failures and are matched with errors.Is.
 2. DomainError captures the call stack when it is created and formats it
    lazily, only when a log line asks for it.
 3. Nothing here knows about HTTP status codes.
*/
package shared

import (
	"errors"
	"fmt"
	"runtime"
	"strings"
)

// ============================================================================
// Sentinel errors
// ============================================================================

var (
	// ErrNotFound a referenced user, order, room or game does not exist
	ErrNotFound = errors.New("not found")

	// ErrConflict a resource is already taken
	ErrConflict = errors.New("conflict")

	// ErrConcurrentModification an optimistic version check failed, callers may retry
	ErrConcurrentModification = errors.New("concurrent modification")

	// ErrInvalidInput the caller must correct the request and resend it
	ErrInvalidInput = errors.New("invalid input")

	// ErrInvalidState the aggregate is not in a state that allows the operation
	ErrInvalidState = errors.New("invalid state")

	// ErrUnauthorized no caller identity was supplied
	ErrUnauthorized = errors.New("unauthorized")

	// ErrForbidden the caller is known but may not touch the resource
	ErrForbidden = errors.New("forbidden")
)

// ============================================================================
// DomainError
// ============================================================================

// DomainError carries business context plus the stack of the point where it was raised.
type DomainError struct {
	// Err is the sentinel used by errors.Is
	Err error

	// Entity that failed, e.g. "order", "room", "reservation"
	Entity string

	// Message is safe to show to end users
	Message string

	// Field optionally names the offending input field
	Field string

	stack []uintptr
}

func (e *DomainError) Error() string {
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

// Stack formats the captured frames on demand.
func (e *DomainError) Stack() []string {
	return FormatStack(e.stack)
}

// CaptureStack records the current call stack.
// skip is usually 3: runtime.Callers, CaptureStack and the constructor.
func CaptureStack(skip int) []uintptr {
	var pcs [32]uintptr
	n := runtime.Callers(skip, pcs[:])
	return pcs[:n]
}

// FormatStack renders at most ten non-runtime frames.
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

// NewNotFoundError creates a not-found error for entity.
func NewNotFoundError(entity string) error {
	return &DomainError{
		Err:     ErrNotFound,
		Entity:  entity,
		Message: entity + " not found",
		stack:   CaptureStack(3),
	}
}

// NewConflictError creates a conflict error with a user visible message.
func NewConflictError(entity, message string) error {
	return &DomainError{
		Err:     ErrConflict,
		Entity:  entity,
		Message: message,
		stack:   CaptureStack(3),
	}
}

// NewValidationError creates an invalid-input error for a single field.
func NewValidationError(entity, field, reason string) error {
	return &DomainError{
		Err:     ErrInvalidInput,
		Entity:  entity,
		Field:   field,
		Message: reason,
		stack:   CaptureStack(3),
	}
}

// NewInvalidStateError creates an invalid-state error.
func NewInvalidStateError(entity, reason string) error {
	return &DomainError{
		Err:     ErrInvalidState,
		Entity:  entity,
		Message: reason,
		stack:   CaptureStack(3),
	}
}

// NewUnauthorizedError is raised when no caller identity accompanies a request.
func NewUnauthorizedError(reason string) error {
	return &DomainError{
		Err:     ErrUnauthorized,
		Entity:  "user",
		Message: reason,
		stack:   CaptureStack(3),
	}
}

// NewForbiddenError creates a forbidden error.
func NewForbiddenError(entity, reason string) error {
	return &DomainError{
		Err:     ErrForbidden,
		Entity:  entity,
		Message: reason,
		stack:   CaptureStack(3),
	}
}

// Stacker is implemented by errors that captured their origin stack.
// The API layer uses it to log where an error was raised.
type Stacker interface {
	Stack() []string
}
