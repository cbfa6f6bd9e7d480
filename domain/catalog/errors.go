package catalog

import (
	"errors"
	"fmt"

	"resort/domain/shared"
)

var (
	// ErrRoomNotFound the room type id does not exist
	ErrRoomNotFound = errors.New("room not found")

	// ErrGameNotFound the game id does not exist
	ErrGameNotFound = errors.New("game not found")

	// ErrRoomAlreadyBooked the requested stay overlaps a committed ledger range
	ErrRoomAlreadyBooked = errors.New("room already booked for selected dates")

	// ErrConcurrentModification the room row changed since it was loaded
	ErrConcurrentModification = errors.New("room was modified by another transaction, please retry")
)

// NewRoomNotFoundError creates a room-not-found error with stack.
func NewRoomNotFoundError(roomID string) error {
	return &catalogDomainError{
		sentinel: ErrRoomNotFound,
		kind:     shared.ErrNotFound,
		message:  "room not found: " + roomID,
		stack:    shared.CaptureStack(3),
	}
}

// NewGameNotFoundError creates a game-not-found error with stack.
func NewGameNotFoundError(gameID string) error {
	return &catalogDomainError{
		sentinel: ErrGameNotFound,
		kind:     shared.ErrNotFound,
		message:  "game not found: " + gameID,
		stack:    shared.CaptureStack(3),
	}
}

// NewRoomAlreadyBookedError names the room so the client can show it.
func NewRoomAlreadyBookedError(roomName string) error {
	return &catalogDomainError{
		sentinel: ErrRoomAlreadyBooked,
		kind:     shared.ErrConflict,
		message:  fmt.Sprintf("Room %q already booked for selected dates", roomName),
		stack:    shared.CaptureStack(3),
	}
}

// NewConcurrentModificationError is returned by repositories when the version check fails.
func NewConcurrentModificationError(roomID string) error {
	return &catalogDomainError{
		sentinel: ErrConcurrentModification,
		kind:     shared.ErrConcurrentModification,
		message:  "room " + roomID + " was modified by another transaction, please retry",
		stack:    shared.CaptureStack(3),
	}
}

// catalogDomainError matches both its own sentinel and the shared category.
type catalogDomainError struct {
	sentinel error
	kind     error
	message  string
	stack    []uintptr
}

func (e *catalogDomainError) Error() string {
	return e.message
}

func (e *catalogDomainError) Unwrap() []error {
	return []error{e.sentinel, e.kind}
}

func (e *catalogDomainError) Stack() []string {
	return shared.FormatStack(e.stack)
}
