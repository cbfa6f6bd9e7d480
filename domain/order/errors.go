/*
Order domain errors.

Each constructor captures the stack at the point of failure and returns an
error that matches both an order sentinel and the shared category, e.g.
errors.Is(err, ErrOrderNotFound) and errors.Is(err, shared.ErrNotFound).
*/
package order

import (
	"errors"

	"resort/domain/shared"
)

var (
	// ErrOrderNotFound no order with that id belongs to the user
	ErrOrderNotFound = errors.New("order not found")

	// ErrConcurrentModification the order row changed since it was loaded, retry
	ErrConcurrentModification = errors.New("order was modified by another transaction, please retry")

	// ErrInvalidOrderState the transition is not allowed from the current status
	ErrInvalidOrderState = errors.New("invalid order state transition")

	// ErrCannotModifyNonPendingOrder items are frozen once the order leaves Pending
	ErrCannotModifyNonPendingOrder = errors.New("can only modify pending orders")

	// ErrItemNotFound the cart has no item with that id
	ErrItemNotFound = errors.New("item not found")

	// ErrInvalidItem the item request breaks a type rule
	ErrInvalidItem = errors.New("invalid order item")
)

func NewOrderNotFoundError(orderID string) error {
	return &orderDomainError{
		sentinel: ErrOrderNotFound,
		kind:     shared.ErrNotFound,
		message:  "order not found: " + orderID,
		stack:    shared.CaptureStack(3),
	}
}

func NewConcurrentModificationError(orderID string) error {
	return &orderDomainError{
		sentinel: ErrConcurrentModification,
		kind:     shared.ErrConcurrentModification,
		message:  "order " + orderID + " was modified by another transaction, please retry",
		stack:    shared.CaptureStack(3),
	}
}

// NewInvalidOrderStateError reports a forbidden transition from currentState to targetState.
func NewInvalidOrderStateError(currentState, targetState string) error {
	return &orderDomainError{
		sentinel: ErrInvalidOrderState,
		kind:     shared.ErrInvalidState,
		message:  "cannot transition order from " + currentState + " to " + targetState,
		stack:    shared.CaptureStack(3),
	}
}

func NewNotModifiableError(status Status) error {
	return &orderDomainError{
		sentinel: ErrCannotModifyNonPendingOrder,
		kind:     shared.ErrInvalidState,
		message:  "cannot modify items of a " + string(status) + " order",
		stack:    shared.CaptureStack(3),
	}
}

func NewItemNotFoundError(itemID string) error {
	return &orderDomainError{
		sentinel: ErrItemNotFound,
		kind:     shared.ErrNotFound,
		message:  "cart item not found: " + itemID,
		stack:    shared.CaptureStack(3),
	}
}

func NewItemValidationError(field, message string) error {
	return &orderDomainError{
		sentinel: ErrInvalidItem,
		kind:     shared.ErrInvalidInput,
		field:    field,
		message:  message,
		stack:    shared.CaptureStack(3),
	}
}

type orderDomainError struct {
	sentinel error
	kind     error
	field    string
	message  string
	stack    []uintptr
}

func (e *orderDomainError) Error() string {
	return e.message
}

func (e *orderDomainError) Unwrap() []error {
	return []error{e.sentinel, e.kind}
}

// Field names the offending request field, if any.
func (e *orderDomainError) Field() string {
	return e.field
}

func (e *orderDomainError) Stack() []string {
	return shared.FormatStack(e.stack)
}
