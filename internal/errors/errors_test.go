package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMapErrorToHTTP(t *testing.T) {
	slotMissing := fmt.Errorf("%w: %w", ErrSlotUnavailable, ErrSlotNotFound)

	tests := []struct {
		name    string
		err     error
		status  int
		message string
		code    string
	}{
		{"invalid credentials", ErrInvalidCredentials, http.StatusBadRequest, "Invalid credentials", "INVALID_CREDENTIALS"},
		{"duplicate user", ErrUserAlreadyExists, http.StatusBadRequest, "User already exists", "USER_ALREADY_EXISTS"},
		{"ad-hoc validation", Validation("rating must be between %d and %d", 1, 5), http.StatusBadRequest, "rating must be between 1 and 5", "VALIDATION_ERROR"},
		{"slot taken", ErrSlotUnavailable, http.StatusBadRequest, "Slot not available", "SLOT_UNAVAILABLE"},
		{"slot missing on booking", slotMissing, http.StatusBadRequest, "Slot not available", "SLOT_NOT_FOUND"},
		{"slot missing on admin update", ErrSlotNotFound, http.StatusNotFound, "Slot not found", "SLOT_NOT_FOUND"},
		{"wrapped not found", fmt.Errorf("load booking: %w", ErrBookingNotFound), http.StatusNotFound, "Booking not found", "BOOKING_NOT_FOUND"},
		{"missing token", ErrMissingToken, http.StatusUnauthorized, "No token provided", "MISSING_TOKEN"},
		{"bad refresh", ErrInvalidRefreshToken, http.StatusUnauthorized, "Invalid refresh token", "INVALID_REFRESH_TOKEN"},
		{"not owner", ErrNotAuthorized, http.StatusForbidden, "Not authorized", "NOT_AUTHORIZED"},
		{"admin only", ErrAdminOnly, http.StatusForbidden, "Access denied. Admin only.", "ADMIN_ONLY"},
		{"storage disabled", ErrImageStorageDisabled, http.StatusServiceUnavailable, "Image storage is not configured", "IMAGE_STORAGE_DISABLED"},
		{"unknown", errors.New("connection reset"), http.StatusInternalServerError, "Internal server error", "INTERNAL_ERROR"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MapErrorToHTTP(tt.err)
			assert.Equal(t, tt.status, got.StatusCode)
			assert.Equal(t, tt.message, got.Message)
			assert.Equal(t, tt.code, got.Code)
		})
	}
}

func TestKindsUnwrap(t *testing.T) {
	assert.ErrorIs(t, ErrUserNotFound, ErrNotFound)
	assert.ErrorIs(t, ErrInvalidToken, ErrUnauthorized)
	assert.ErrorIs(t, ErrSlotUnavailable, ErrConflict)
	assert.NotErrorIs(t, ErrSlotUnavailable, ErrNotFound)
	assert.ErrorIs(t, Validation("bad"), ErrValidation)
}

func TestHTTPError_ToErrorResponse(t *testing.T) {
	he := NewHTTPError(http.StatusNotFound, "Service not found", "SERVICE_NOT_FOUND")
	assert.Equal(t, "Service not found", he.Error())
	assert.Equal(t, ErrorResponse{Message: "Service not found", Code: "SERVICE_NOT_FOUND"}, he.ToErrorResponse())
}
