package handlers

import (
	"github.com/ashmitsharp/moneylens-api/internal/services"
	"github.com/ashmitsharp/moneylens-api/internal/utils"
	"github.com/gofiber/fiber/v3"
)

// ReportHandler serves the aggregated monthly and yearly views
type ReportHandler struct {
	reports *services.ReportService
	charts  *services.ChartRenderer
}

func NewReportHandler(reports *services.ReportService, charts *services.ChartRenderer) *ReportHandler {
	return &ReportHandler{reports: reports, charts: charts}
}

// GetMonthly returns days of the month newest first with their transactions
// GET /v1/reports/monthly?month=3&year=2024&timezone=Asia/Jakarta
func (h *ReportHandler) GetMonthly(c fiber.Ctx) error {
	userID, err := requireUserID(c)
	if err != nil {
		return err
	}
	year, month, tz, err := monthQuery(c)
	if err != nil {
		return err
	}

	report, err := h.reports.Monthly(c.Context(), userID, year, month, tz)
	if err != nil {
		return err
	}
	return utils.DataResponse(c, fiber.StatusOK, report)
}

// GetYearly returns the income and expense series for the twelve months
// GET /v1/reports/yearly?year=2024&timezone=Asia/Jakarta
func (h *ReportHandler) GetYearly(c fiber.Ctx) error {
	userID, err := requireUserID(c)
	if err != nil {
		return err
	}
	year, tz, err := yearQuery(c)
	if err != nil {
		return err
	}

	series, err := h.reports.Yearly(c.Context(), userID, year, tz)
	if err != nil {
		return err
	}
	return utils.DataResponse(c, fiber.StatusOK, series)
}

// GetYearlyChart renders the yearly series as a PNG, or 204 for an empty year
// GET /v1/reports/yearly/chart.png?year=2024&timezone=Asia/Jakarta
func (h *ReportHandler) GetYearlyChart(c fiber.Ctx) error {
	userID, err := requireUserID(c)
	if err != nil {
		return err
	}
	year, tz, err := yearQuery(c)
	if err != nil {
		return err
	}

	series, err := h.reports.Yearly(c.Context(), userID, year, tz)
	if err != nil {
		return err
	}
	png, err := h.charts.YearlyChart(year, series)
	if err != nil {
		return err
	}
	return sendPNG(c, png)
}

// GetTopExpenseCategories returns expense totals per category, largest first
// GET /v1/reports/top-expense-categories?month=3&year=2024&timezone=Asia/Jakarta
func (h *ReportHandler) GetTopExpenseCategories(c fiber.Ctx) error {
	userID, err := requireUserID(c)
	if err != nil {
		return err
	}
	year, month, tz, err := monthQuery(c)
	if err != nil {
		return err
	}

	report, err := h.reports.TopExpenseCategories(c.Context(), userID, year, month, tz)
	if err != nil {
		return err
	}
	return utils.DataResponse(c, fiber.StatusOK, report)
}

// GetTopExpenseCategoriesChart renders the expense breakdown as a pie PNG
// GET /v1/reports/top-expense-categories/chart.png?month=3&year=2024&timezone=Asia/Jakarta
func (h *ReportHandler) GetTopExpenseCategoriesChart(c fiber.Ctx) error {
	userID, err := requireUserID(c)
	if err != nil {
		return err
	}
	year, month, tz, err := monthQuery(c)
	if err != nil {
		return err
	}

	report, err := h.reports.TopExpenseCategories(c.Context(), userID, year, month, tz)
	if err != nil {
		return err
	}
	png, err := h.charts.TopExpensesChart(report)
	if err != nil {
		return err
	}
	return sendPNG(c, png)
}

func sendPNG(c fiber.Ctx, png []byte) error {
	if png == nil {
		return c.SendStatus(fiber.StatusNoContent)
	}
	c.Set(fiber.HeaderContentType, "image/png")
	c.Set(fiber.HeaderCacheControl, "no-store")
	return c.Send(png)
}
