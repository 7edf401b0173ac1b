package utils

import (
	"errors"
	"fmt"

	"github.com/ashmitsharp/moneylens-api/internal/models"
	"github.com/gofiber/fiber/v3"
	"github.com/rs/zerolog"
)

type APIError struct {
	StatusCode int    `json:"-"`
	Code       string `json:"code"`
	Message    string `json:"error"`
	Details    any    `json:"details,omitempty"`
}

func (e *APIError) Error() string {
	return e.Message
}

func NewBadRequestError(message string, details any) *APIError {
	return &APIError{
		StatusCode: fiber.StatusBadRequest,
		Code:       "BAD_REQUEST",
		Message:    message,
		Details:    details,
	}
}

func NewValidationError(verr *models.ValidationError) *APIError {
	return &APIError{
		StatusCode: fiber.StatusBadRequest,
		Code:       "VALIDATION_FAILED",
		Message:    "Validation failed",
		Details:    verr.Fields,
	}
}

func NewUnauthorizedError(message string) *APIError {
	return &APIError{
		StatusCode: fiber.StatusUnauthorized,
		Code:       "UNAUTHORIZED",
		Message:    message,
	}
}

// NewNotFoundError uses the same message whether the row is missing or owned
// by someone else.
func NewNotFoundError(resource string) *APIError {
	return &APIError{
		StatusCode: fiber.StatusNotFound,
		Code:       "NOT_FOUND",
		Message:    fmt.Sprintf("%s not found or forbidden", resource),
	}
}

func NewInternalError(err error) *APIError {
	return &APIError{
		StatusCode: fiber.StatusInternalServerError,
		Code:       "INTERNAL_ERROR",
		Message:    "An internal error occurred",
		Details:    err.Error(), // Only in development
	}
}

func NewUpstreamError(message string) *APIError {
	return &APIError{
		StatusCode: fiber.StatusBadGateway,
		Code:       "UPSTREAM_ERROR",
		Message:    message,
	}
}

// FromError maps domain errors onto API errors
func FromError(err error) *APIError {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr
	}

	var verr *models.ValidationError
	if errors.As(err, &verr) {
		return NewValidationError(verr)
	}

	switch {
	case errors.Is(err, models.ErrInvalidTimezone):
		return &APIError{
			StatusCode: fiber.StatusBadRequest,
			Code:       "INVALID_TIMEZONE",
			Message:    err.Error(),
			Details:    []models.FieldError{{Field: "timezone", Message: err.Error()}},
		}
	case errors.Is(err, models.ErrInvalidPeriod):
		return &APIError{
			StatusCode: fiber.StatusBadRequest,
			Code:       "INVALID_PERIOD",
			Message:    err.Error(),
		}
	case errors.Is(err, models.ErrNotFound):
		return NewNotFoundError("Resource")
	}

	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		return &APIError{
			StatusCode: fiberErr.Code,
			Code:       "HTTP_ERROR",
			Message:    fiberErr.Message,
		}
	}

	return NewInternalError(err)
}

// NewErrorHandler responds with the mapped APIError. Internal error details are
// only exposed when exposeDetails is set.
func NewErrorHandler(log zerolog.Logger, exposeDetails bool) fiber.ErrorHandler {
	return func(c fiber.Ctx, err error) error {
		apiErr := FromError(err)

		if apiErr.StatusCode >= fiber.StatusInternalServerError {
			log.Error().
				Err(err).
				Str("method", c.Method()).
				Str("path", c.Path()).
				Int("status", apiErr.StatusCode).
				Msg("request failed")

			if !exposeDetails {
				apiErr = &APIError{StatusCode: apiErr.StatusCode, Code: apiErr.Code, Message: apiErr.Message}
			}
		}

		return c.Status(apiErr.StatusCode).JSON(apiErr)
	}
}

// ErrorHandler is a middleware to handle APIError
func ErrorHandler(c fiber.Ctx, err error) error {
	return NewErrorHandler(zerolog.Nop(), false)(c, err)
}
