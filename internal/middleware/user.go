package middleware

import (
	"context"
	"errors"

	"github.com/ashmitsharp/moneylens-api/internal/models"
	"github.com/gofiber/fiber/v3"
)

// UserLookup maps a verified subject to the internal user id
type UserLookup interface {
	UserIDBySubject(ctx context.Context, subject string) (int64, error)
}

// ResolveUser loads the internal user id for the authenticated subject.
// Users must have signed in through POST /v1/session first.
func ResolveUser(users UserLookup) fiber.Handler {
	return func(c fiber.Ctx) error {
		subject, ok := Subject(c)
		if !ok {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "unauthorized - user not authenticated",
			})
		}

		id, err := users.UserIDBySubject(c.Context(), subject)
		if err != nil {
			if errors.Is(err, models.ErrNotFound) {
				return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
					"error": "user not registered, sign in first",
				})
			}
			return err
		}

		c.Locals(LocalUserID, id)
		return c.Next()
	}
}

// UserID returns the internal user id set by ResolveUser
func UserID(c fiber.Ctx) (int64, bool) {
	id, ok := c.Locals(LocalUserID).(int64)
	return id, ok && id > 0
}
