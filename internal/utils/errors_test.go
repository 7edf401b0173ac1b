package utils

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http/httptest"
	"testing"

	"github.com/ashmitsharp/moneylens-api/internal/models"
	"github.com/gofiber/fiber/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"api error", NewUnauthorizedError("nope"), 401, "UNAUTHORIZED"},
		{"validation", models.NewValidationError("amount", "is required"), 400, "VALIDATION_FAILED"},
		{"wrapped validation", fmt.Errorf("bulk: %w", models.NewValidationError("type", "bad")), 400, "VALIDATION_FAILED"},
		{"timezone", fmt.Errorf("%w: %q", models.ErrInvalidTimezone, "Mars/Base"), 400, "INVALID_TIMEZONE"},
		{"period", fmt.Errorf("%w: month 13", models.ErrInvalidPeriod), 400, "INVALID_PERIOD"},
		{"not found", models.ErrNotFound, 404, "NOT_FOUND"},
		{"store", &models.StoreError{Op: "list", Err: errors.New("boom")}, 500, "INTERNAL_ERROR"},
		{"fiber", fiber.ErrRequestEntityTooLarge, 413, "HTTP_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FromError(tt.err)
			assert.Equal(t, tt.wantStatus, got.StatusCode)
			assert.Equal(t, tt.wantCode, got.Code)
		})
	}
}

func TestErrorHandler_HidesInternalDetails(t *testing.T) {
	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler})
	app.Get("/fail", func(c fiber.Ctx) error {
		return &models.StoreError{Op: "list transactions", Err: errors.New("connection refused")}
	})
	app.Get("/invalid", func(c fiber.Ctx) error {
		return models.NewValidationError("month", "must be between 1 and 12")
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/fail", nil))
	require.NoError(t, err)
	assert.Equal(t, 500, resp.StatusCode)

	var result map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
	assert.Equal(t, "An internal error occurred", result["error"])
	assert.NotContains(t, result, "details")

	resp, err = app.Test(httptest.NewRequest("GET", "/invalid", nil))
	require.NoError(t, err)
	assert.Equal(t, 400, resp.StatusCode)

	result = map[string]interface{}{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
	details := result["details"].([]interface{})
	assert.Equal(t, "month", details[0].(map[string]interface{})["field"])
}

func TestNewPagination(t *testing.T) {
	assert.Equal(t, Pagination{Total: 11, Page: 2, Limit: 5, TotalPages: 3}, NewPagination(2, 5, 11))
	assert.Equal(t, 0, NewPagination(1, 10, 0).TotalPages)
}
