package handlers

import (
	"strconv"
	"strings"

	"github.com/ashmitsharp/moneylens-api/internal/middleware"
	"github.com/ashmitsharp/moneylens-api/internal/models"
	"github.com/ashmitsharp/moneylens-api/internal/utils"
	"github.com/gofiber/fiber/v3"
)

func requireUserID(c fiber.Ctx) (int64, error) {
	userID, ok := middleware.UserID(c)
	if !ok {
		return 0, utils.NewUnauthorizedError("unauthorized - user not authenticated")
	}
	return userID, nil
}

// intQuery parses an optional integer query parameter, recording a field
// error when it is present but malformed.
func intQuery(c fiber.Ctx, key string, def int, verr *models.ValidationError) int {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		verr.Add(key, "must be an integer")
		return def
	}
	return v
}

func requiredIntQuery(c fiber.Ctx, key string, verr *models.ValidationError) int {
	if strings.TrimSpace(c.Query(key)) == "" {
		verr.Add(key, "is required")
		return 0
	}
	return intQuery(c, key, 0, verr)
}

func requiredTimezone(c fiber.Ctx, verr *models.ValidationError) string {
	tz := strings.TrimSpace(c.Query("timezone"))
	if tz == "" {
		verr.Add("timezone", "is required")
	}
	return tz
}

// monthQuery reads month, year and timezone. All three are required.
func monthQuery(c fiber.Ctx) (year, month int, timezone string, err error) {
	verr := &models.ValidationError{}
	month = requiredIntQuery(c, "month", verr)
	year = requiredIntQuery(c, "year", verr)
	timezone = requiredTimezone(c, verr)
	return year, month, timezone, verr.OrNil()
}

// yearQuery reads year and timezone. Both are required.
func yearQuery(c fiber.Ctx) (year int, timezone string, err error) {
	verr := &models.ValidationError{}
	year = requiredIntQuery(c, "year", verr)
	timezone = requiredTimezone(c, verr)
	return year, timezone, verr.OrNil()
}

// pageQuery reads a 1-based page and a page size clamped to [1, maxLimit]
func pageQuery(c fiber.Ctx, limitKey string, defLimit, maxLimit int) (page, limit int, err error) {
	verr := &models.ValidationError{}
	page = intQuery(c, "page", 1, verr)
	limit = intQuery(c, limitKey, defLimit, verr)
	if err := verr.OrNil(); err != nil {
		return 0, 0, err
	}
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > maxLimit {
		limit = defLimit
	}
	return page, limit, nil
}

func idParam(c fiber.Ctx) (int64, error) {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, models.NewValidationError("id", "must be a positive integer")
	}
	return id, nil
}
