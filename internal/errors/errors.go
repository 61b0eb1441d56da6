package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Error kinds. Every domain error wraps exactly one of these so handlers can map it to a status.
var (
	ErrValidation   = errors.New("validation error")
	ErrNotFound     = errors.New("not found")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrConflict     = errors.New("conflict")
	ErrUnavailable  = errors.New("unavailable")
)

var (
	// ErrMissingToken is returned when a protected request carries no bearer token.
	ErrMissingToken = kind(ErrUnauthorized, "No token provided")
	// ErrInvalidToken is returned when a token has a bad signature, wrong algorithm or is expired.
	ErrInvalidToken = kind(ErrUnauthorized, "Invalid token")
	// ErrInvalidRefreshToken is returned when a refresh token cannot be verified.
	ErrInvalidRefreshToken = kind(ErrUnauthorized, "Invalid refresh token")
	// ErrInvalidCredentials is returned when email or password is incorrect.
	ErrInvalidCredentials = kind(ErrValidation, "Invalid credentials")
	// ErrUserAlreadyExists is returned when signing up with a taken email.
	ErrUserAlreadyExists = kind(ErrValidation, "User already exists")
	// ErrUserNotFound is returned when a user id does not resolve.
	ErrUserNotFound = kind(ErrNotFound, "User not found")
	// ErrServiceNotFound is returned when a service id does not resolve.
	ErrServiceNotFound = kind(ErrNotFound, "Service not found")
	// ErrSlotNotFound is returned when a slot id does not resolve.
	ErrSlotNotFound = kind(ErrNotFound, "Slot not found")
	// ErrSlotUnavailable is returned when the slot is already booked.
	ErrSlotUnavailable = kind(ErrConflict, "Slot not available")
	// ErrBookingNotFound is returned when a booking id does not resolve.
	ErrBookingNotFound = kind(ErrNotFound, "Booking not found")
	// ErrReviewNotFound is returned when a review id does not resolve.
	ErrReviewNotFound = kind(ErrNotFound, "Review not found")
	// ErrNotAuthorized is returned when the requester neither owns the resource nor is an admin.
	ErrNotAuthorized = kind(ErrForbidden, "Not authorized")
	// ErrAdminOnly is returned by the admin gate.
	ErrAdminOnly = kind(ErrForbidden, "Access denied. Admin only.")
	// ErrInvalidStatusTransition is returned when strict booking status mode rejects a change.
	ErrInvalidStatusTransition = kind(ErrValidation, "Invalid booking status transition")
	// ErrInvalidImage is returned when an upload cannot be decoded as an image.
	ErrInvalidImage = kind(ErrValidation, "Invalid image")
	// ErrImageStorageDisabled is returned when no object storage is configured.
	ErrImageStorageDisabled = kind(ErrUnavailable, "Image storage is not configured")
)

// kindError carries a user-facing message and the kind it belongs to.
type kindError struct {
	kind error
	msg  string
}

func kind(k error, msg string) error {
	return &kindError{kind: k, msg: msg}
}

func (e *kindError) Error() string { return e.msg }

func (e *kindError) Unwrap() error { return e.kind }

// Validation builds an ad-hoc validation error with the given message.
func Validation(format string, args ...interface{}) error {
	return kind(ErrValidation, fmt.Sprintf(format, args...))
}

// ErrorResponse represents a standardized error response.
type ErrorResponse struct {
	Message string `json:"message"`
	Code    string `json:"code"`
	Error   string `json:"error,omitempty"`
}

// HTTPError represents an HTTP error with status code.
type HTTPError struct {
	StatusCode int
	Message    string
	Code       string
}

func (e *HTTPError) Error() string {
	return e.Message
}

// NewHTTPError creates a new HTTP error.
func NewHTTPError(statusCode int, message, code string) *HTTPError {
	return &HTTPError{
		StatusCode: statusCode,
		Message:    message,
		Code:       code,
	}
}

// ToErrorResponse converts an HTTPError to ErrorResponse.
func (e *HTTPError) ToErrorResponse() ErrorResponse {
	return ErrorResponse{
		Message: e.Message,
		Code:    e.Code,
	}
}

// codes for the specific sentinels; kinds fall back to a generic code.
var codes = []struct {
	err  error
	code string
}{
	{ErrMissingToken, "MISSING_TOKEN"},
	{ErrInvalidToken, "INVALID_TOKEN"},
	{ErrInvalidRefreshToken, "INVALID_REFRESH_TOKEN"},
	{ErrInvalidCredentials, "INVALID_CREDENTIALS"},
	{ErrUserAlreadyExists, "USER_ALREADY_EXISTS"},
	{ErrUserNotFound, "USER_NOT_FOUND"},
	{ErrServiceNotFound, "SERVICE_NOT_FOUND"},
	{ErrSlotNotFound, "SLOT_NOT_FOUND"},
	{ErrSlotUnavailable, "SLOT_UNAVAILABLE"},
	{ErrBookingNotFound, "BOOKING_NOT_FOUND"},
	{ErrReviewNotFound, "REVIEW_NOT_FOUND"},
	{ErrNotAuthorized, "NOT_AUTHORIZED"},
	{ErrAdminOnly, "ADMIN_ONLY"},
	{ErrInvalidStatusTransition, "INVALID_STATUS_TRANSITION"},
	{ErrInvalidImage, "INVALID_IMAGE"},
	{ErrImageStorageDisabled, "IMAGE_STORAGE_DISABLED"},
}

// MapErrorToHTTP maps domain errors to HTTP errors.
func MapErrorToHTTP(err error) *HTTPError {
	// Booking against a taken or missing slot answers 400 "Slot not available".
	if errors.Is(err, ErrSlotUnavailable) {
		return NewHTTPError(http.StatusBadRequest, ErrSlotUnavailable.Error(), codeOf(err, "SLOT_UNAVAILABLE"))
	}

	var ke *kindError
	if !errors.As(err, &ke) {
		return NewHTTPError(http.StatusInternalServerError, "Internal server error", "INTERNAL_ERROR")
	}

	switch {
	case errors.Is(err, ErrValidation):
		return NewHTTPError(http.StatusBadRequest, ke.msg, codeOf(err, "VALIDATION_ERROR"))
	case errors.Is(err, ErrNotFound):
		return NewHTTPError(http.StatusNotFound, ke.msg, codeOf(err, "NOT_FOUND"))
	case errors.Is(err, ErrUnauthorized):
		return NewHTTPError(http.StatusUnauthorized, ke.msg, codeOf(err, "UNAUTHORIZED"))
	case errors.Is(err, ErrForbidden):
		return NewHTTPError(http.StatusForbidden, ke.msg, codeOf(err, "FORBIDDEN"))
	case errors.Is(err, ErrConflict):
		return NewHTTPError(http.StatusConflict, ke.msg, codeOf(err, "CONFLICT"))
	case errors.Is(err, ErrUnavailable):
		return NewHTTPError(http.StatusServiceUnavailable, ke.msg, codeOf(err, "UNAVAILABLE"))
	default:
		return NewHTTPError(http.StatusInternalServerError, "Internal server error", "INTERNAL_ERROR")
	}
}

func codeOf(err error, fallback string) string {
	for _, c := range codes {
		if errors.Is(err, c.err) {
			return c.code
		}
	}
	return fallback
}
