package handlers

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ashmitsharp/moneylens-api/internal/logger"
	"github.com/ashmitsharp/moneylens-api/internal/models"
	"github.com/ashmitsharp/moneylens-api/internal/services"
	"github.com/ashmitsharp/moneylens-api/internal/utils"
	"github.com/gofiber/fiber/v3"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

// CandidateProducer turns text or a receipt image into transaction candidates
type CandidateProducer interface {
	ParseTransactions(ctx context.Context, in services.ParseInput) ([]services.Candidate, error)
}

// Summarizer writes a narrative for an aggregated month
type Summarizer interface {
	Summarize(ctx context.Context, in services.SummaryInput) (string, error)
}

// CategorySource loads every category the user owns
type CategorySource interface {
	AllCategories(ctx context.Context, userID int64) ([]models.Category, error)
}

// AIHandler serves the model-backed endpoints
type AIHandler struct {
	producer   CandidateProducer
	summarizer Summarizer
	categories CategorySource
	matcher    *services.CategoryMatcher
	reports    *services.ReportService
	storage    ReceiptStorage
	validator  *services.ReceiptValidator
}

type AIHandlerConfig struct {
	Producer   CandidateProducer
	Summarizer Summarizer
	Categories CategorySource
	Matcher    *services.CategoryMatcher
	Reports    *services.ReportService
	// Storage is optional; receipt_key requests fail without it
	Storage   ReceiptStorage
	Validator *services.ReceiptValidator
}

func NewAIHandler(cfg AIHandlerConfig) *AIHandler {
	return &AIHandler{
		producer:   cfg.Producer,
		summarizer: cfg.Summarizer,
		categories: cfg.Categories,
		matcher:    cfg.Matcher,
		reports:    cfg.Reports,
		storage:    cfg.Storage,
		validator:  cfg.Validator,
	}
}

type parseRequest struct {
	Text       string `json:"text"`
	Image      string `json:"image"`
	ReceiptKey string `json:"receipt_key"`
	Locale     string `json:"locale"`
}

// ParsedTransaction is a candidate with its category resolved
type ParsedTransaction struct {
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	Type        models.TxnType  `json:"type"`
	services.CategoryMatch
}

// ParseTransaction extracts candidate transactions from free text, an inline
// base64 image or an uploaded receipt, and maps each suggestion onto the
// user's categories. Nothing is persisted.
// POST /v1/ai/parse-transaction
func (h *AIHandler) ParseTransaction(c fiber.Ctx) error {
	userID, err := requireUserID(c)
	if err != nil {
		return err
	}

	var req parseRequest
	if err := c.Bind().JSON(&req); err != nil {
		return utils.NewBadRequestError("Invalid request body", nil)
	}

	req.Text = strings.TrimSpace(req.Text)
	if req.Text == "" && req.Image == "" && req.ReceiptKey == "" {
		return models.NewValidationError("text", "text, image or receipt_key is required")
	}
	if req.Image != "" && req.ReceiptKey != "" {
		return models.NewValidationError("image", "send either image or receipt_key, not both")
	}
	if req.ReceiptKey != "" {
		if h.storage == nil {
			return fiber.NewError(fiber.StatusServiceUnavailable, "receipt storage is not configured")
		}
		if !services.IsReceiptOwnedBy(req.ReceiptKey, userID) {
			return fiber.NewError(fiber.StatusForbidden, "forbidden - cannot access this receipt")
		}
	}

	ctx := c.Context()
	var (
		categories []models.Category
		candidates []services.Candidate
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		categories, err = h.categories.AllCategories(gctx, userID)
		return err
	})
	g.Go(func() error {
		in := services.ParseInput{Text: req.Text, Locale: req.Locale}
		if err := h.loadImage(gctx, req, &in); err != nil {
			return err
		}

		var err error
		candidates, err = h.producer.ParseTransactions(gctx, in)
		if err != nil {
			var verr *models.ValidationError
			if errors.As(err, &verr) {
				return err
			}
			log := logger.FromContext(ctx)
			log.Error().Err(err).Int64("user_id", userID).Msg("parse transactions failed")
			return utils.NewUpstreamError("Failed to parse transaction")
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return err
	}

	out := make([]ParsedTransaction, 0, len(candidates))
	for _, cand := range candidates {
		out = append(out, ParsedTransaction{
			Description:   cand.Description,
			Amount:        cand.Amount,
			Type:          cand.Type,
			CategoryMatch: h.matcher.Resolve(cand.CategorySuggestion, cand.Type, categories),
		})
	}

	return c.JSON(fiber.Map{"transactions": out})
}

// loadImage fills in the image bytes from the request. Uploaded receipts are
// removed from storage once read.
func (h *AIHandler) loadImage(ctx context.Context, req parseRequest, in *services.ParseInput) error {
	var (
		result *services.ValidationResult
		data   []byte
		err    error
	)

	switch {
	case req.Image != "":
		raw, decodeErr := decodeImage(req.Image)
		if decodeErr != nil {
			return models.NewValidationError("image", "must be base64 encoded")
		}
		result, data, err = h.validator.ValidateImage(bytes.NewReader(raw))
	case req.ReceiptKey != "":
		body, dlErr := h.storage.DownloadFile(ctx, req.ReceiptKey)
		if dlErr != nil {
			return utils.NewNotFoundError("Receipt")
		}
		result, data, err = h.validator.ValidateImage(body)
		body.Close()

		defer func() {
			if delErr := h.storage.DeleteFile(context.WithoutCancel(ctx), req.ReceiptKey); delErr != nil {
				log := logger.FromContext(ctx)
				log.Warn().Err(delErr).Str("key", req.ReceiptKey).Msg("failed to delete receipt")
			}
		}()
	default:
		return nil
	}

	if err != nil {
		return err
	}

	field := "image"
	if req.ReceiptKey != "" {
		field = "receipt_key"
	}
	if !result.Valid {
		return models.NewValidationError(field, strings.Join(result.Errors, "; "))
	}

	in.Image = data
	in.ImageMIME = result.ContentType
	return nil
}

// decodeImage accepts plain base64 or a data URL
func decodeImage(s string) ([]byte, error) {
	if strings.HasPrefix(s, "data:") {
		idx := strings.Index(s, ",")
		if idx == -1 {
			return nil, fmt.Errorf("malformed data url")
		}
		s = s[idx+1:]
	}
	return base64.StdEncoding.DecodeString(strings.TrimSpace(s))
}

type summarizeRequest struct {
	Month    int    `json:"month"`
	Year     int    `json:"year"`
	Timezone string `json:"timezone"`
	Locale   string `json:"locale"`
}

// Summarize aggregates the month and asks the model for a short narrative.
// An empty month gets a fixed message and no model call.
// POST /v1/ai/summarize
func (h *AIHandler) Summarize(c fiber.Ctx) error {
	userID, err := requireUserID(c)
	if err != nil {
		return err
	}

	var req summarizeRequest
	if err := c.Bind().JSON(&req); err != nil {
		return utils.NewBadRequestError("Invalid request body", nil)
	}

	verr := &models.ValidationError{}
	if req.Month == 0 {
		verr.Add("month", "is required")
	}
	if req.Year == 0 {
		verr.Add("year", "is required")
	}
	req.Timezone = strings.TrimSpace(req.Timezone)
	if req.Timezone == "" {
		verr.Add("timezone", "is required")
	}
	if err := verr.OrNil(); err != nil {
		return err
	}

	locale := services.NormalizeLocale(req.Locale)
	result, err := h.reports.MonthResult(c.Context(), userID, req.Year, req.Month, req.Timezone)
	if err != nil {
		return err
	}

	count := 0
	for _, day := range result.Days {
		count += len(day.Transactions)
	}
	if count == 0 {
		return c.JSON(fiber.Map{"summary": services.EmptySummary(locale)})
	}

	summary, err := h.summarizer.Summarize(c.Context(), services.SummaryInput{
		Locale:       locale,
		PeriodLabel:  fmt.Sprintf("%s %d", time.Month(req.Month), req.Year),
		TotalIncome:  result.TotalIncome,
		TotalExpense: result.TotalExpense,
		Categories:   result.Categories,
		Count:        count,
	})
	if err != nil {
		log := logger.FromContext(c.Context())
		log.Error().Err(err).Int64("user_id", userID).Msg("summarize failed")
		return utils.NewUpstreamError("Failed to generate summary")
	}

	return c.JSON(fiber.Map{"summary": summary})
}
