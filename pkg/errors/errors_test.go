package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"resort/domain/catalog"
	"resort/domain/order"
	"resort/domain/reservation"
	"resort/domain/shared"

	"github.com/stretchr/testify/assert"
)

func TestFromDomainError(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		code   ErrorCode
		status int
	}{
		{"order missing", order.NewOrderNotFoundError("o-1"), CodeOrderNotFound, http.StatusNotFound},
		{"room missing", catalog.NewRoomNotFoundError("r-1"), CodeRoomNotFound, http.StatusNotFound},
		{"game missing", catalog.NewGameNotFoundError("g-1"), CodeGameNotFound, http.StatusNotFound},
		{"reservation missing", reservation.NewReservationNotFoundError("b-1"), CodeNotFound, http.StatusNotFound},
		{"room taken", catalog.NewRoomAlreadyBookedError("Lake Villa"), CodeRoomAlreadyBooked, http.StatusBadRequest},
		{"bad transition", order.NewInvalidOrderStateError("Booked", "Booked"), CodeInvalidOrderState, http.StatusBadRequest},
		{"frozen cart", order.NewNotModifiableError(order.StatusBooked), CodeInvalidOrderState, http.StatusBadRequest},
		{"bad item", order.NewItemValidationError("type", "bad"), CodeValidation, http.StatusBadRequest},
		{"version miss", catalog.NewConcurrentModificationError("r-1"), CodeConcurrentModify, http.StatusConflict},
		{"no identity", shared.NewUnauthorizedError("missing"), CodeUnauthorized, http.StatusUnauthorized},
		{"wrapped", fmt.Errorf("confirm: %w", order.NewOrderNotFoundError("o-1")), CodeOrderNotFound, http.StatusNotFound},
		{"unknown", errors.New("dial tcp: refused"), CodeInternal, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			appErr := FromDomainError(tt.err)

			assert.Equal(t, tt.code, appErr.Code)
			assert.Equal(t, tt.status, appErr.HTTPStatusCode())
			assert.ErrorIs(t, appErr, tt.err)
		})
	}
}

func TestFromDomainError_KeepsRoomName(t *testing.T) {
	appErr := FromDomainError(catalog.NewRoomAlreadyBookedError("X"))

	assert.Equal(t, `Room "X" already booked for selected dates`, appErr.Message)
}

func TestFromDomainError_MasksInternals(t *testing.T) {
	appErr := FromDomainError(errors.New("Error 1045: Access denied for user 'root'"))

	assert.Equal(t, "internal server error", appErr.Message)
}

func TestFromDomainError_PassesAppErrorThrough(t *testing.T) {
	original := Validation("bad date")

	assert.Same(t, original, FromDomainError(fmt.Errorf("bind: %w", original)))
	assert.Nil(t, FromDomainError(nil))
	assert.True(t, Is(original, CodeValidation))
}
