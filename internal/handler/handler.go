package handler

import (
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"carwash/internal/auth"
	apperrors "carwash/internal/errors"
)

// Response is the success envelope shared by every endpoint.
type Response struct {
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

func respond(c echo.Context, status int, message string, data interface{}) error {
	return c.JSON(status, Response{Message: message, Data: data})
}

// fail converts a domain error into an HTTP error, keeping the cause for the error handler.
func fail(err error) error {
	mapped := apperrors.MapErrorToHTTP(err)
	return echo.NewHTTPError(mapped.StatusCode, mapped.ToErrorResponse()).SetInternal(err)
}

func badRequest(message, code string) error {
	return echo.NewHTTPError(http.StatusBadRequest, apperrors.ErrorResponse{
		Message: message,
		Code:    code,
	})
}

// bind decodes and validates a request body.
func bind(c echo.Context, req interface{}) error {
	if err := c.Bind(req); err != nil {
		return badRequest("Invalid request body", "INVALID_REQUEST")
	}
	if err := c.Validate(req); err != nil {
		return badRequest(validationMessage(err), "VALIDATION_ERROR")
	}
	return nil
}

func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		switch fe.Tag() {
		case "required":
			msgs = append(msgs, fe.Field()+" is required")
		case "email":
			msgs = append(msgs, fe.Field()+" must be a valid email")
		case "min":
			msgs = append(msgs, fe.Field()+" must be at least "+fe.Param())
		case "max":
			msgs = append(msgs, fe.Field()+" must be at most "+fe.Param())
		case "oneof":
			msgs = append(msgs, fe.Field()+" must be one of "+fe.Param())
		default:
			msgs = append(msgs, fe.Field()+" is invalid")
		}
	}
	return strings.Join(msgs, "; ")
}

func pathID(c echo.Context, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		return uuid.Nil, badRequest("Invalid "+name, "INVALID_ID")
	}
	return id, nil
}

// parseDate accepts a calendar day (2006-01-02) or an RFC 3339 timestamp.
func parseDate(s string) (time.Time, error) {
	if t, err := time.Parse(time.DateOnly, s); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, s)
}

func parseOptionalUUID(s string) (uuid.UUID, error) {
	if s == "" {
		return uuid.Nil, nil
	}
	return uuid.Parse(s)
}

func identity(c echo.Context) (auth.Identity, error) {
	claims, ok := auth.ClaimsFrom(c)
	if !ok {
		return auth.Identity{}, fail(apperrors.ErrMissingToken)
	}
	return claims.Identity, nil
}

// formImage opens the multipart "image" field.
func formImage(c echo.Context) (io.Reader, func(), error) {
	header, err := c.FormFile("image")
	if err != nil {
		return nil, nil, badRequest("image file is required", "MISSING_IMAGE")
	}
	file, err := header.Open()
	if err != nil {
		return nil, nil, badRequest("image file could not be read", "INVALID_IMAGE")
	}
	return file, func() { _ = file.Close() }, nil
}
