package services

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
)

// ValidationResult contains the results of receipt image validation
type ValidationResult struct {
	Valid        bool
	DetectedType string // "JPEG", "PNG", "WEBP"
	ContentType  string
	Size         int64
	Errors       []string
}

// ReceiptValidator checks receipt images before they are sent to the model
type ReceiptValidator struct {
	maxSizeBytes int64
	allowedTypes map[string]bool
}

// Image magic byte signatures
var (
	jpegMagic = []byte{0xFF, 0xD8, 0xFF}
	pngMagic  = []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A}
	riffMagic = []byte("RIFF")
	webpMagic = []byte("WEBP")
)

// AllowedReceiptContentTypes are the MIME types accepted for receipt uploads
var AllowedReceiptContentTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/webp": true,
}

var allowedReceiptExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".webp": true,
}

// NewReceiptValidator creates a validator with the given maximum image size
func NewReceiptValidator(maxSizeBytes int64) *ReceiptValidator {
	return &ReceiptValidator{
		maxSizeBytes: maxSizeBytes,
		allowedTypes: AllowedReceiptContentTypes,
	}
}

// ValidateImage reads the image and checks size and signature. The detected
// content type is returned in the result so callers never trust the client's.
func (v *ReceiptValidator) ValidateImage(reader io.Reader) (*ValidationResult, []byte, error) {
	result := &ValidationResult{
		Valid:  true,
		Errors: []string{},
	}

	// Read one byte past the limit so oversize images are detected without
	// buffering them completely.
	data, err := io.ReadAll(io.LimitReader(reader, v.maxSizeBytes+1))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read image: %w", err)
	}

	result.Size = int64(len(data))
	if err := v.ValidateFileSize(result.Size); err != nil {
		result.Valid = false
		result.Errors = append(result.Errors, err.Error())
	}

	detectedType, contentType, err := v.ValidateMagicBytes(data)
	if err != nil {
		result.Valid = false
		result.Errors = append(result.Errors, err.Error())
	} else {
		result.DetectedType = detectedType
		result.ContentType = contentType
	}

	return result, data, nil
}

// ValidateFilename validates the filename for security issues
func (v *ReceiptValidator) ValidateFilename(filename string) error {
	if filename == "" {
		return errors.New("filename cannot be empty")
	}

	if strings.Contains(filename, "..") {
		return errors.New("filename contains path traversal")
	}

	if strings.Contains(filename, "\x00") {
		return errors.New("filename contains null bytes")
	}

	if strings.HasPrefix(filename, "/") || strings.HasPrefix(filename, "\\") {
		return errors.New("filename cannot be absolute path")
	}

	ext := strings.ToLower(filepath.Ext(filename))
	if ext == "" {
		return errors.New("filename must have an extension")
	}

	if !allowedReceiptExtensions[ext] {
		return fmt.Errorf("unsupported file extension: %s", ext)
	}

	return nil
}

// ValidateMimeType validates the MIME type is allowed
func (v *ReceiptValidator) ValidateMimeType(contentType string) error {
	if contentType == "" {
		return errors.New("MIME type cannot be empty")
	}

	if !v.allowedTypes[contentType] {
		return fmt.Errorf("unsupported MIME type: %s", contentType)
	}

	return nil
}

// ValidateMagicBytes detects the image format from its signature
func (v *ReceiptValidator) ValidateMagicBytes(data []byte) (string, string, error) {
	if len(data) == 0 {
		return "", "", errors.New("empty file")
	}

	switch {
	case bytes.HasPrefix(data, jpegMagic):
		return "JPEG", "image/jpeg", nil
	case bytes.HasPrefix(data, pngMagic):
		return "PNG", "image/png", nil
	case len(data) >= 12 && bytes.HasPrefix(data, riffMagic) && bytes.Equal(data[8:12], webpMagic):
		return "WEBP", "image/webp", nil
	}

	return "", "", errors.New("unsupported image type based on content")
}

// ValidateFileSize validates the file size is within limits
func (v *ReceiptValidator) ValidateFileSize(size int64) error {
	if size < 0 {
		return errors.New("invalid file size")
	}

	if size == 0 {
		return errors.New("empty file")
	}

	if size > v.maxSizeBytes {
		return fmt.Errorf("file size exceeds maximum allowed size (%d bytes)", v.maxSizeBytes)
	}

	return nil
}
