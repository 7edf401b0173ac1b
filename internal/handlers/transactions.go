package handlers

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/ashmitsharp/moneylens-api/internal/models"
	"github.com/ashmitsharp/moneylens-api/internal/period"
	"github.com/ashmitsharp/moneylens-api/internal/reports"
	"github.com/ashmitsharp/moneylens-api/internal/services"
	"github.com/ashmitsharp/moneylens-api/internal/utils"
	"github.com/gofiber/fiber/v3"
)

// TransactionStore is the persistence the transaction endpoints need
type TransactionStore interface {
	ListTransactions(ctx context.Context, f models.TransactionFilter) ([]models.Transaction, int, error)
	RecentTransactions(ctx context.Context, userID int64, limit int) ([]models.Transaction, error)
	Descriptions(ctx context.Context, userID int64, query string, limit int) ([]string, error)
	CreateTransaction(ctx context.Context, userID int64, nt models.NewTransaction) (models.Transaction, error)
	CreateTransactions(ctx context.Context, userID int64, items []models.NewTransaction) ([]models.Transaction, error)
	UpdateTransaction(ctx context.Context, userID, id int64, nt models.NewTransaction) (models.Transaction, error)
	DeleteTransaction(ctx context.Context, userID, id int64) error
}

// TransactionHandler handles transaction-related requests
type TransactionHandler struct {
	store    TransactionStore
	reports  *services.ReportService
	exporter *services.ExportFormatter
}

// NewTransactionHandler creates a new transaction handler
func NewTransactionHandler(store TransactionStore, reports *services.ReportService, exporter *services.ExportFormatter) *TransactionHandler {
	return &TransactionHandler{
		store:    store,
		reports:  reports,
		exporter: exporter,
	}
}

type transactionRequest struct {
	Transaction *services.TransactionInput `json:"transaction"`
	Timezone    string                     `json:"timezone"`
}

type bulkTransactionRequest struct {
	Transactions []services.TransactionInput `json:"transactions"`
	Timezone     string                      `json:"timezone"`
}

// GetTransactions returns a page of transactions, optionally filtered by
// description and local month.
// GET /v1/transactions?page=1&limit=10&search=&month=3&year=2024&timezone=Asia/Jakarta
func (h *TransactionHandler) GetTransactions(c fiber.Ctx) error {
	userID, err := requireUserID(c)
	if err != nil {
		return err
	}

	page, limit, err := pageQuery(c, "limit", 10, 100)
	if err != nil {
		return err
	}

	filter := models.TransactionFilter{
		UserID: userID,
		Search: strings.TrimSpace(c.Query("search")),
		Limit:  limit,
		Offset: (page - 1) * limit,
	}

	tz := strings.TrimSpace(c.Query("timezone"))
	loc := time.UTC
	if tz != "" {
		if loc, err = period.LoadLocation(tz); err != nil {
			return err
		}
	}

	month, year := c.Query("month"), c.Query("year")
	if month != "" || year != "" {
		y, m, tz, err := monthQuery(c)
		if err != nil {
			return err
		}
		b, err := period.ResolveMonth(y, m, tz)
		if err != nil {
			return err
		}
		filter.Start, filter.End = &b.Start, &b.End
	}

	txns, total, err := h.store.ListTransactions(c.Context(), filter)
	if err != nil {
		return err
	}

	return utils.PaginatedResponse(c, lines(txns, loc), utils.NewPagination(page, limit, total), fiber.Map{
		"search":   filter.Search,
		"month":    month,
		"year":     year,
		"timezone": tz,
	})
}

// GetRecent returns the newest transactions
// GET /v1/transactions/recent?limit=5&timezone=Asia/Jakarta
func (h *TransactionHandler) GetRecent(c fiber.Ctx) error {
	userID, err := requireUserID(c)
	if err != nil {
		return err
	}
	_, limit, err := pageQuery(c, "limit", 5, 50)
	if err != nil {
		return err
	}
	loc, err := optionalLocation(c)
	if err != nil {
		return err
	}

	txns, err := h.store.RecentTransactions(c.Context(), userID, limit)
	if err != nil {
		return err
	}
	return utils.DataResponse(c, fiber.StatusOK, lines(txns, loc))
}

// GetDescriptions suggests previously used descriptions, most frequent first
// GET /v1/transactions/descriptions?query=nasi&limit=10
func (h *TransactionHandler) GetDescriptions(c fiber.Ctx) error {
	userID, err := requireUserID(c)
	if err != nil {
		return err
	}
	_, limit, err := pageQuery(c, "limit", 10, 50)
	if err != nil {
		return err
	}

	descriptions, err := h.store.Descriptions(c.Context(), userID, strings.TrimSpace(c.Query("query")), limit)
	if err != nil {
		return err
	}
	return utils.DataResponse(c, fiber.StatusOK, descriptions)
}

// CreateTransaction stores one transaction
// POST /v1/transactions {"transaction": {...}, "timezone": "Asia/Jakarta"}
func (h *TransactionHandler) CreateTransaction(c fiber.Ctx) error {
	userID, err := requireUserID(c)
	if err != nil {
		return err
	}

	var req transactionRequest
	if err := c.Bind().JSON(&req); err != nil {
		return utils.NewBadRequestError("Invalid request body", nil)
	}
	if req.Transaction == nil {
		return models.NewValidationError("transaction", "is required")
	}

	nt, verr := services.ValidateTransaction(*req.Transaction, req.Timezone, "")
	if verr != nil {
		return verr
	}

	created, err := h.store.CreateTransaction(c.Context(), userID, nt)
	if err != nil {
		return err
	}
	return utils.DataResponse(c, fiber.StatusCreated, reports.Line(created, requestLocation(req.Timezone)))
}

// BulkCreateTransactions stores every item or none of them
// POST /v1/transactions/bulk {"transactions": [...], "timezone": "Asia/Jakarta"}
func (h *TransactionHandler) BulkCreateTransactions(c fiber.Ctx) error {
	userID, err := requireUserID(c)
	if err != nil {
		return err
	}

	var req bulkTransactionRequest
	if err := c.Bind().JSON(&req); err != nil {
		return utils.NewBadRequestError("Invalid request body", nil)
	}

	items, err := services.ValidateBulk(req.Transactions, req.Timezone)
	if err != nil {
		return err
	}

	created, err := h.store.CreateTransactions(c.Context(), userID, items)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"data":  lines(created, requestLocation(req.Timezone)),
		"count": len(created),
	})
}

// UpdateTransaction replaces a transaction the user owns
// PUT /v1/transactions/:id {"transaction": {...}, "timezone": "Asia/Jakarta"}
func (h *TransactionHandler) UpdateTransaction(c fiber.Ctx) error {
	userID, err := requireUserID(c)
	if err != nil {
		return err
	}
	id, err := idParam(c)
	if err != nil {
		return err
	}

	var req transactionRequest
	if err := c.Bind().JSON(&req); err != nil {
		return utils.NewBadRequestError("Invalid request body", nil)
	}
	if req.Transaction == nil {
		return models.NewValidationError("transaction", "is required")
	}

	nt, verr := services.ValidateTransaction(*req.Transaction, req.Timezone, "")
	if verr != nil {
		return verr
	}

	updated, err := h.store.UpdateTransaction(c.Context(), userID, id, nt)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return utils.NewNotFoundError("Transaction")
		}
		return err
	}
	return utils.DataResponse(c, fiber.StatusOK, reports.Line(updated, requestLocation(req.Timezone)))
}

// DeleteTransaction removes a transaction the user owns
// DELETE /v1/transactions/:id
func (h *TransactionHandler) DeleteTransaction(c fiber.Ctx) error {
	userID, err := requireUserID(c)
	if err != nil {
		return err
	}
	id, err := idParam(c)
	if err != nil {
		return err
	}

	if err := h.store.DeleteTransaction(c.Context(), userID, id); err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return utils.NewNotFoundError("Transaction")
		}
		return err
	}
	return c.JSON(fiber.Map{"message": "Transaction deleted"})
}

// ExportTransactions downloads the month as an XLSX workbook
// GET /v1/transactions/export?month=3&year=2024&timezone=Asia/Jakarta
func (h *TransactionHandler) ExportTransactions(c fiber.Ctx) error {
	userID, err := requireUserID(c)
	if err != nil {
		return err
	}
	year, month, tz, err := monthQuery(c)
	if err != nil {
		return err
	}

	result, err := h.reports.MonthResult(c.Context(), userID, year, month, tz)
	if err != nil {
		return err
	}

	buf, err := h.exporter.MonthlyWorkbook(reports.MonthlyDetail(result), reports.CategoryBreakdown(result.Categories))
	if err != nil {
		return err
	}

	c.Attachment(services.ExportFilename(year, month))
	c.Set(fiber.HeaderContentType, services.XLSXContentType)
	return c.Send(buf.Bytes())
}

func lines(txns []models.Transaction, loc *time.Location) []reports.TransactionLine {
	out := make([]reports.TransactionLine, 0, len(txns))
	for _, t := range txns {
		out = append(out, reports.Line(t, loc))
	}
	return out
}

func optionalLocation(c fiber.Ctx) (*time.Location, error) {
	tz := strings.TrimSpace(c.Query("timezone"))
	if tz == "" {
		return time.UTC, nil
	}
	return period.LoadLocation(tz)
}

// requestLocation is used only to render local_date on responses; the
// timezone was already validated when the dates were converted.
func requestLocation(tz string) *time.Location {
	if loc, err := period.LoadLocation(tz); err == nil {
		return loc
	}
	return time.UTC
}
