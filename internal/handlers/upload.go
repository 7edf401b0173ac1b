package handlers

import (
	"context"
	"io"
	"strings"

	"github.com/ashmitsharp/moneylens-api/internal/models"
	"github.com/ashmitsharp/moneylens-api/internal/services"
	"github.com/ashmitsharp/moneylens-api/internal/utils"
	"github.com/gofiber/fiber/v3"
)

const (
	// PresignedURLExpiryMinutes is the expiry time for presigned URLs in minutes
	PresignedURLExpiryMinutes = 15
	// PresignedURLExpirySeconds is the expiry time for presigned URLs in seconds
	PresignedURLExpirySeconds = PresignedURLExpiryMinutes * 60
)

// ReceiptStorage is the object storage the receipt flow needs
type ReceiptStorage interface {
	GenerateUploadKey(userID int64, filename string) (string, error)
	GeneratePresignedURL(ctx context.Context, key, contentType string, expiryMinutes int) (string, error)
	DownloadFile(ctx context.Context, key string) (io.ReadCloser, error)
	DeleteFile(ctx context.Context, key string) error
}

// UploadHandler handles receipt upload requests
type UploadHandler struct {
	storage   ReceiptStorage
	validator *services.ReceiptValidator
}

// NewUploadHandler creates a new upload handler instance
func NewUploadHandler(storage ReceiptStorage, validator *services.ReceiptValidator) *UploadHandler {
	return &UploadHandler{
		storage:   storage,
		validator: validator,
	}
}

// GetPresignedURL generates a presigned URL for a receipt image upload
// Query params: filename (required), content_type (required)
// Returns: upload_url, file_key, expires_in
func (h *UploadHandler) GetPresignedURL(c fiber.Ctx) error {
	filename := strings.TrimSpace(c.Query("filename"))
	contentType := strings.TrimSpace(c.Query("content_type"))

	verr := &models.ValidationError{}
	if filename == "" {
		verr.Add("filename", "is required")
	} else if err := h.validator.ValidateFilename(filename); err != nil {
		verr.Add("filename", "%s", err.Error())
	}
	if contentType == "" {
		verr.Add("content_type", "is required")
	} else if err := h.validator.ValidateMimeType(contentType); err != nil {
		verr.Add("content_type", "%s", err.Error())
	}
	if err := verr.OrNil(); err != nil {
		return err
	}

	userID, err := requireUserID(c)
	if err != nil {
		return err
	}

	key, err := h.storage.GenerateUploadKey(userID, filename)
	if err != nil {
		return utils.NewInternalError(err)
	}

	url, err := h.storage.GeneratePresignedURL(c.Context(), key, contentType, PresignedURLExpiryMinutes)
	if err != nil {
		return utils.NewInternalError(err)
	}

	return c.JSON(fiber.Map{
		"upload_url": url,
		"file_key":   key,
		"expires_in": PresignedURLExpirySeconds,
	})
}
