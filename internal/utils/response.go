package utils

import "github.com/gofiber/fiber/v3"

// DataResponse wraps a payload as {"data": ...}
func DataResponse(c fiber.Ctx, status int, data interface{}) error {
	return c.Status(status).JSON(fiber.Map{
		"data": data,
	})
}

// Pagination describes one page of a listing
type Pagination struct {
	Total      int `json:"total"`
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	TotalPages int `json:"totalPages"`
}

func NewPagination(page, limit, total int) Pagination {
	pages := 0
	if limit > 0 {
		pages = (total + limit - 1) / limit
	}
	return Pagination{Total: total, Page: page, Limit: limit, TotalPages: pages}
}

// PaginatedResponse sends a paginated response with optional extra meta fields
func PaginatedResponse(c fiber.Ctx, data interface{}, pagination Pagination, meta fiber.Map) error {
	if meta == nil {
		meta = fiber.Map{}
	}
	meta["pagination"] = pagination
	return c.JSON(fiber.Map{
		"data": data,
		"meta": meta,
	})
}
