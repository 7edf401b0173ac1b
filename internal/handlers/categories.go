package handlers

import (
	"context"
	"strings"

	"github.com/ashmitsharp/moneylens-api/internal/models"
	"github.com/ashmitsharp/moneylens-api/internal/store"
	"github.com/ashmitsharp/moneylens-api/internal/utils"
	"github.com/gofiber/fiber/v3"
)

type CategoryLister interface {
	ListCategories(ctx context.Context, f store.CategoryFilter) ([]models.Category, int, error)
}

type CategoryHandler struct {
	store CategoryLister
}

func NewCategoryHandler(store CategoryLister) *CategoryHandler {
	return &CategoryHandler{store: store}
}

// GetCategories lists the user's categories ordered by name
// GET /v1/categories?type=all|income|expense&page=1&pageSize=10
func (h *CategoryHandler) GetCategories(c fiber.Ctx) error {
	userID, err := requireUserID(c)
	if err != nil {
		return err
	}

	page, pageSize, err := pageQuery(c, "pageSize", 10, 100)
	if err != nil {
		return err
	}

	filter := store.CategoryFilter{
		UserID: userID,
		Limit:  pageSize,
		Offset: (page - 1) * pageSize,
	}
	if typ := strings.TrimSpace(c.Query("type", "all")); typ != "all" {
		parsed, err := models.ParseTxnType(typ)
		if err != nil {
			return models.NewValidationError("type", "must be all, income or expense")
		}
		filter.Type = parsed
	}

	categories, total, err := h.store.ListCategories(c.Context(), filter)
	if err != nil {
		return err
	}
	return utils.PaginatedResponse(c, categories, utils.NewPagination(page, pageSize, total), nil)
}
