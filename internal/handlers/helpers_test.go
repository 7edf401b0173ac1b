package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ashmitsharp/moneylens-api/internal/middleware"
	"github.com/ashmitsharp/moneylens-api/internal/models"
	"github.com/ashmitsharp/moneylens-api/internal/utils"
	"github.com/gofiber/fiber/v3"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

const testUserID int64 = 42

// newTestApp returns an app with the production error handler. A positive
// userID simulates ResolveUser having run.
func newTestApp(userID int64) *fiber.App {
	app := fiber.New(fiber.Config{ErrorHandler: utils.ErrorHandler})
	app.Use(func(c fiber.Ctx) error {
		if userID > 0 {
			c.Locals(middleware.LocalUserID, userID)
		}
		return c.Next()
	})
	return app
}

func jsonRequest(t *testing.T, method, target string, body any) *http.Request {
	t.Helper()
	var r io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		r = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, target, r)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return req
}

func doRequest(t *testing.T, app *fiber.App, req *http.Request) (*http.Response, map[string]interface{}) {
	t.Helper()
	resp, err := app.Test(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var result map[string]interface{}
	if len(raw) > 0 && raw[0] == '{' {
		require.NoError(t, json.Unmarshal(raw, &result))
	}
	return resp, result
}

// fieldErrors extracts the field names from a VALIDATION_FAILED body
func fieldErrors(body map[string]interface{}) []string {
	details, _ := body["details"].([]interface{})
	fields := make([]string, 0, len(details))
	for _, d := range details {
		if m, ok := d.(map[string]interface{}); ok {
			fields = append(fields, m["field"].(string))
		}
	}
	return fields
}

// mockFinder feeds the real ReportService
type mockFinder struct {
	FindFunc func(ctx context.Context, userID int64, start, end time.Time) ([]models.Transaction, error)
	calls    int
}

func (m *mockFinder) FindByUserAndDateRange(ctx context.Context, userID int64, start, end time.Time) ([]models.Transaction, error) {
	m.calls++
	if m.FindFunc != nil {
		return m.FindFunc(ctx, userID, start, end)
	}
	return nil, nil
}

func txnAt(id int64, date time.Time, typ models.TxnType, amount string, categoryID int64, category string) models.Transaction {
	cid := categoryID
	return models.Transaction{
		ID:           id,
		UserID:       testUserID,
		CategoryID:   &cid,
		CategoryName: category,
		Amount:       decimal.RequireFromString(amount),
		Description:  category + " purchase",
		Date:         date,
		Type:         typ,
		CreatedAt:    date,
	}
}

func testLogger() zerolog.Logger {
	return zerolog.Nop()
}
