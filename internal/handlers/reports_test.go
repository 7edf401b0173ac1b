package handlers

import (
	"context"
	"fmt"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ashmitsharp/moneylens-api/internal/models"
	"github.com/ashmitsharp/moneylens-api/internal/services"
	"github.com/gofiber/fiber/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newReportApp(finder *mockFinder) *fiber.App {
	handler := NewReportHandler(services.NewReportService(finder), services.NewChartRenderer())

	app := newTestApp(testUserID)
	app.Get("/reports/monthly", handler.GetMonthly)
	app.Get("/reports/yearly", handler.GetYearly)
	app.Get("/reports/yearly/chart.png", handler.GetYearlyChart)
	app.Get("/reports/top-expense-categories", handler.GetTopExpenseCategories)
	app.Get("/reports/top-expense-categories/chart.png", handler.GetTopExpenseCategoriesChart)
	return app
}

// jakartaMonth straddles the UTC month edges: the first row is local March 1st,
// the last is local April 1st and must be excluded by the store range.
func jakartaMonth() *mockFinder {
	return &mockFinder{
		FindFunc: func(_ context.Context, _ int64, start, end time.Time) ([]models.Transaction, error) {
			all := []models.Transaction{
				txnAt(1, time.Date(2024, 2, 29, 17, 0, 0, 0, time.UTC), models.Expense, "50000", 1, "food"),
				txnAt(2, time.Date(2024, 3, 15, 2, 0, 0, 0, time.UTC), models.Income, "1000000", 3, "work"),
				txnAt(3, time.Date(2024, 3, 15, 9, 0, 0, 0, time.UTC), models.Expense, "25000", 4, "transportation"),
				txnAt(4, time.Date(2024, 3, 31, 17, 0, 0, 0, time.UTC), models.Expense, "99999", 1, "food"),
			}
			var out []models.Transaction
			for _, t := range all {
				if !t.Date.Before(start) && t.Date.Before(end) {
					out = append(out, t)
				}
			}
			return out, nil
		},
	}
}

func TestGetMonthly_Jakarta(t *testing.T) {
	app := newReportApp(jakartaMonth())

	resp, result := doRequest(t, app, httptest.NewRequest("GET", "/reports/monthly?month=3&year=2024&timezone=Asia/Jakarta", nil))

	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	data := result["data"].(map[string]interface{})
	assert.Equal(t, float64(1000000), data["income"])
	assert.Equal(t, float64(75000), data["expense"])

	days := data["days"].([]interface{})
	require.Len(t, days, 2)
	newest := days[0].(map[string]interface{})
	oldest := days[1].(map[string]interface{})
	assert.Equal(t, "15", newest["day"])
	assert.Equal(t, "01", oldest["day"])
	assert.Len(t, newest["transactions"], 2)

	line := oldest["transactions"].([]interface{})[0].(map[string]interface{})
	assert.Equal(t, "2024-03-01", line["local_date"])
}

func TestGetMonthly_Invalid(t *testing.T) {
	tests := []struct {
		name       string
		query      string
		wantCode   string
		wantFields []string
	}{
		{"missing everything", "", "VALIDATION_FAILED", []string{"month", "year", "timezone"}},
		{"missing timezone", "?month=3&year=2024", "VALIDATION_FAILED", []string{"timezone"}},
		{"non-numeric month", "?month=march&year=2024&timezone=UTC", "VALIDATION_FAILED", []string{"month"}},
		{"month 13", "?month=13&year=2024&timezone=UTC", "INVALID_PERIOD", nil},
		{"unknown timezone", "?month=3&year=2024&timezone=Asia/Atlantis", "INVALID_TIMEZONE", []string{"timezone"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			finder := &mockFinder{}
			app := newReportApp(finder)

			resp, result := doRequest(t, app, httptest.NewRequest("GET", "/reports/monthly"+tt.query, nil))

			assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
			assert.Equal(t, tt.wantCode, result["code"])
			if tt.wantFields != nil {
				assert.Equal(t, tt.wantFields, fieldErrors(result))
			}
			assert.Zero(t, finder.calls)
		})
	}
}

func TestGetMonthly_StoreError(t *testing.T) {
	finder := &mockFinder{
		FindFunc: func(context.Context, int64, time.Time, time.Time) ([]models.Transaction, error) {
			return nil, fmt.Errorf("connection refused")
		},
	}
	app := newReportApp(finder)

	resp, result := doRequest(t, app, httptest.NewRequest("GET", "/reports/monthly?month=3&year=2024&timezone=UTC", nil))

	assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)
	assert.Equal(t, "An internal error occurred", result["error"])
	assert.NotContains(t, result, "details")
}

func TestGetYearly(t *testing.T) {
	finder := &mockFinder{
		FindFunc: func(context.Context, int64, time.Time, time.Time) ([]models.Transaction, error) {
			return []models.Transaction{
				// Local January 1st in Jakarta
				txnAt(1, time.Date(2023, 12, 31, 18, 0, 0, 0, time.UTC), models.Income, "100", 3, "work"),
				txnAt(2, time.Date(2024, 12, 31, 10, 0, 0, 0, time.UTC), models.Expense, "40", 1, "food"),
			}, nil
		},
	}
	app := newReportApp(finder)

	resp, result := doRequest(t, app, httptest.NewRequest("GET", "/reports/yearly?year=2024&timezone=Asia/Jakarta", nil))

	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	data := result["data"].(map[string]interface{})
	series := data["series"].([]interface{})
	require.Len(t, series, 2)

	income := series[0].(map[string]interface{})
	expense := series[1].(map[string]interface{})
	assert.Equal(t, "Income", income["name"])
	assert.Equal(t, float64(100), income["data"].([]interface{})[0])
	assert.Equal(t, float64(40), expense["data"].([]interface{})[11])
	assert.Len(t, data["categories"], 12)
}

func TestGetYearly_RequiresTimezone(t *testing.T) {
	finder := &mockFinder{}
	app := newReportApp(finder)

	resp, result := doRequest(t, app, httptest.NewRequest("GET", "/reports/yearly?year=2024", nil))

	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, []string{"timezone"}, fieldErrors(result))
	assert.Zero(t, finder.calls)
}

func TestGetTopExpenseCategories(t *testing.T) {
	app := newReportApp(jakartaMonth())

	resp, result := doRequest(t, app, httptest.NewRequest("GET", "/reports/top-expense-categories?month=3&year=2024&timezone=Asia/Jakarta", nil))

	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	data := result["data"].(map[string]interface{})
	assert.Equal(t, []interface{}{"food", "transportation"}, data["categories"])
	assert.Equal(t, []interface{}{float64(50000), float64(25000)}, data["series"])
}

func TestCharts(t *testing.T) {
	tests := []struct {
		name   string
		finder *mockFinder
		target string
		status int
	}{
		{"yearly with data", jakartaMonth(), "/reports/yearly/chart.png?year=2024&timezone=Asia/Jakarta", fiber.StatusOK},
		{"yearly empty", &mockFinder{}, "/reports/yearly/chart.png?year=2024&timezone=Asia/Jakarta", fiber.StatusNoContent},
		{"pie with data", jakartaMonth(), "/reports/top-expense-categories/chart.png?month=3&year=2024&timezone=Asia/Jakarta", fiber.StatusOK},
		{"pie empty", &mockFinder{}, "/reports/top-expense-categories/chart.png?month=3&year=2024&timezone=Asia/Jakarta", fiber.StatusNoContent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := newReportApp(tt.finder)

			resp, err := app.Test(httptest.NewRequest("GET", tt.target, nil))
			require.NoError(t, err)
			defer resp.Body.Close()

			assert.Equal(t, tt.status, resp.StatusCode)
			body, err := io.ReadAll(resp.Body)
			require.NoError(t, err)
			if tt.status == fiber.StatusOK {
				assert.Equal(t, "image/png", resp.Header.Get(fiber.HeaderContentType))
				assert.Equal(t, []byte{0x89, 'P', 'N', 'G'}, body[:4])
			} else {
				assert.Empty(t, body)
			}
		})
	}
}
