package errors

import (
	"errors"
	"fmt"
	"net/http"

	"resort/domain/catalog"
	"resort/domain/order"
	"resort/domain/reservation"
	"resort/domain/shared"
)

// ErrorCode is the machine readable error identifier returned to clients
type ErrorCode string

const (
	// Generic codes
	CodeInternal       ErrorCode = "INTERNAL_ERROR"
	CodeBadRequest     ErrorCode = "BAD_REQUEST"
	CodeUnauthorized   ErrorCode = "UNAUTHORIZED"
	CodeForbidden      ErrorCode = "FORBIDDEN"
	CodeNotFound       ErrorCode = "NOT_FOUND"
	CodeConflict       ErrorCode = "CONFLICT"
	CodeTooManyRequest ErrorCode = "TOO_MANY_REQUESTS"
	CodeValidation     ErrorCode = "VALIDATION_ERROR"

	// Booking codes
	CodeOrderNotFound     ErrorCode = "ORDER_NOT_FOUND"
	CodeRoomNotFound      ErrorCode = "ROOM_NOT_FOUND"
	CodeGameNotFound      ErrorCode = "GAME_NOT_FOUND"
	CodeInvalidOrderState ErrorCode = "INVALID_ORDER_STATE"
	CodeRoomAlreadyBooked ErrorCode = "ROOM_ALREADY_BOOKED"
	CodeConcurrentModify  ErrorCode = "CONCURRENT_MODIFICATION"
)

// AppError is an error classified for the API layer
type AppError struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Err     error     `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// HTTPStatusCode returns the HTTP status for the code.
// A booking conflict is a 400: the client must pick other dates, retrying
// the same request cannot succeed.
func (e *AppError) HTTPStatusCode() int {
	switch e.Code {
	case CodeBadRequest, CodeValidation, CodeInvalidOrderState, CodeRoomAlreadyBooked:
		return http.StatusBadRequest
	case CodeUnauthorized:
		return http.StatusUnauthorized
	case CodeForbidden:
		return http.StatusForbidden
	case CodeNotFound, CodeOrderNotFound, CodeRoomNotFound, CodeGameNotFound:
		return http.StatusNotFound
	case CodeConflict, CodeConcurrentModify:
		return http.StatusConflict
	case CodeTooManyRequest:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

func New(code ErrorCode, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

func Wrap(err error, code ErrorCode, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

func BadRequest(message string) *AppError {
	return New(CodeBadRequest, message)
}

func NotFound(message string) *AppError {
	return New(CodeNotFound, message)
}

func Internal(message string) *AppError {
	return New(CodeInternal, message)
}

func Unauthorized(message string) *AppError {
	return New(CodeUnauthorized, message)
}

func TooManyRequests(message string) *AppError {
	return New(CodeTooManyRequest, message)
}

func Validation(message string) *AppError {
	return New(CodeValidation, message)
}

// Is reports whether err is an AppError with code
func Is(err error, code ErrorCode) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code == code
	}
	return false
}

// domainMapping is checked in order, most specific sentinel first
var domainMapping = []struct {
	target error
	code   ErrorCode
}{
	{order.ErrOrderNotFound, CodeOrderNotFound},
	{catalog.ErrRoomNotFound, CodeRoomNotFound},
	{catalog.ErrGameNotFound, CodeGameNotFound},
	{reservation.ErrReservationNotFound, CodeNotFound},
	{catalog.ErrRoomAlreadyBooked, CodeRoomAlreadyBooked},
	{order.ErrInvalidOrderState, CodeInvalidOrderState},
	{order.ErrCannotModifyNonPendingOrder, CodeInvalidOrderState},
	{shared.ErrConcurrentModification, CodeConcurrentModify},
	{shared.ErrNotFound, CodeNotFound},
	{shared.ErrInvalidInput, CodeValidation},
	{shared.ErrInvalidState, CodeInvalidOrderState},
	{shared.ErrConflict, CodeConflict},
	{shared.ErrUnauthorized, CodeUnauthorized},
	{shared.ErrForbidden, CodeForbidden},
}

// FromDomainError classifies err for the API layer. Domain messages are
// user safe and kept; anything unclassified becomes an internal error whose
// message is replaced before it reaches the client.
func FromDomainError(err error) *AppError {
	if err == nil {
		return nil
	}

	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}

	for _, m := range domainMapping {
		if errors.Is(err, m.target) {
			return Wrap(err, m.code, err.Error())
		}
	}
	return Wrap(err, CodeInternal, "internal server error")
}
