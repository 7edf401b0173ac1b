package handlers

import (
	"context"
	"net/mail"
	"strings"

	"github.com/ashmitsharp/moneylens-api/internal/middleware"
	"github.com/ashmitsharp/moneylens-api/internal/models"
	"github.com/ashmitsharp/moneylens-api/internal/store"
	"github.com/ashmitsharp/moneylens-api/internal/utils"
	"github.com/gofiber/fiber/v3"
	"github.com/rs/zerolog"
)

type SessionStore interface {
	SignIn(ctx context.Context, p store.UpsertUserParams) (models.User, bool, error)
}

type UsersHandler struct {
	store SessionStore
	log   zerolog.Logger
}

func NewUsersHandler(store SessionStore, log zerolog.Logger) *UsersHandler {
	return &UsersHandler{store: store, log: log}
}

type SignInRequest struct {
	Email     string  `json:"email"`
	Name      *string `json:"name"`
	AvatarURL *string `json:"avatar_url"`
}

// SignIn creates or refreshes the user behind the verified token and seeds
// the default categories on first sign-in.
// POST /v1/session
func (h *UsersHandler) SignIn(c fiber.Ctx) error {
	subject, ok := middleware.Subject(c)
	if !ok {
		return utils.NewUnauthorizedError("unauthorized - user not authenticated")
	}

	var req SignInRequest
	if err := c.Bind().JSON(&req); err != nil {
		return utils.NewBadRequestError("Invalid request body", nil)
	}

	req.Email = strings.TrimSpace(req.Email)
	if req.Email == "" {
		return models.NewValidationError("email", "is required")
	}
	if _, err := mail.ParseAddress(req.Email); err != nil {
		return models.NewValidationError("email", "must be a valid email address")
	}

	user, seeded, err := h.store.SignIn(c.Context(), store.UpsertUserParams{
		Subject:   subject,
		Email:     req.Email,
		Name:      req.Name,
		AvatarURL: req.AvatarURL,
	})
	if err != nil {
		return err
	}

	if seeded {
		h.log.Info().Int64("user_id", user.ID).Int("categories", len(models.DefaultCategories)).Msg("seeded default categories")
	}

	return c.JSON(fiber.Map{
		"data":   user,
		"seeded": seeded,
	})
}
