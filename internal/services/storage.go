package services

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
)

// ReceiptKeyPrefix is the top-level folder for uploaded receipt images
const ReceiptKeyPrefix = "receipts"

// StorageService handles S3 operations for receipt images
type StorageService struct {
	s3Client *s3.Client
	bucket   string
	region   string
}

// NewStorageService creates a new storage service instance
// For LocalStack: endpoint should be "http://localhost:4566"
// For production AWS: endpoint should be ""
func NewStorageService(ctx context.Context, bucket, region, endpoint string) (*StorageService, error) {
	if bucket == "" {
		return nil, fmt.Errorf("bucket cannot be empty")
	}
	if region == "" {
		return nil, fmt.Errorf("region cannot be empty")
	}

	opts := []func(*config.LoadOptions) error{config.WithRegion(region)}
	if endpoint != "" {
		// LocalStack accepts any static credentials
		opts = append(opts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider("test", "test", ""),
		))
	}

	cfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
			o.UsePathStyle = true // Required for LocalStack
		}
	})

	return &StorageService{
		s3Client: client,
		bucket:   bucket,
		region:   region,
	}, nil
}

// GenerateUploadKey creates a unique S3 key for a receipt image
// Format: receipts/{userID}/{timestamp}-{uniqueID}-{filename}
func (s *StorageService) GenerateUploadKey(userID int64, filename string) (string, error) {
	if userID <= 0 {
		return "", fmt.Errorf("userID must be positive")
	}
	if filename == "" {
		return "", fmt.Errorf("filename cannot be empty")
	}

	ext := strings.ToLower(filepath.Ext(filename))
	baseName := strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename))

	// Replace spaces and special characters with hyphens
	baseName = strings.Map(func(r rune) rune {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '-' || r == '_' {
			return r
		}
		return '-'
	}, baseName)

	timestamp := time.Now().UTC().Unix()
	uniqueID := uuid.New().String()[:8]

	return fmt.Sprintf("%s/%d/%d-%s-%s%s", ReceiptKeyPrefix, userID, timestamp, uniqueID, baseName, ext), nil
}

// IsReceiptOwnedBy reports whether key lives under the user's receipt folder
func IsReceiptOwnedBy(key string, userID int64) bool {
	if strings.Contains(key, "..") {
		return false
	}
	return strings.HasPrefix(key, fmt.Sprintf("%s/%d/", ReceiptKeyPrefix, userID))
}

// GeneratePresignedURL generates a presigned PUT URL for receipt uploads
func (s *StorageService) GeneratePresignedURL(ctx context.Context, key, contentType string, expiryMinutes int) (string, error) {
	if key == "" {
		return "", fmt.Errorf("key cannot be empty")
	}
	if expiryMinutes <= 0 {
		return "", fmt.Errorf("expiryMinutes must be greater than 0")
	}
	if s.s3Client == nil {
		return "", fmt.Errorf("s3 client is not initialized")
	}

	presignClient := s3.NewPresignClient(s.s3Client)

	putObjectInput := &s3.PutObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	}
	if contentType != "" {
		putObjectInput.ContentType = aws.String(contentType)
	}

	presignedReq, err := presignClient.PresignPutObject(
		ctx,
		putObjectInput,
		s3.WithPresignExpires(time.Duration(expiryMinutes)*time.Minute),
	)
	if err != nil {
		return "", fmt.Errorf("failed to generate presigned URL: %w", err)
	}

	return presignedReq.URL, nil
}

// DownloadFile downloads a receipt from S3 and returns a reader
func (s *StorageService) DownloadFile(ctx context.Context, key string) (io.ReadCloser, error) {
	if key == "" {
		return nil, fmt.Errorf("key cannot be empty")
	}
	if s.s3Client == nil {
		return nil, fmt.Errorf("s3 client is not initialized")
	}

	result, err := s.s3Client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to download file from S3: %w", err)
	}

	return result.Body, nil
}

// DeleteFile deletes a receipt from S3
func (s *StorageService) DeleteFile(ctx context.Context, key string) error {
	if key == "" {
		return fmt.Errorf("key cannot be empty")
	}
	if s.s3Client == nil {
		return fmt.Errorf("s3 client is not initialized")
	}

	_, err := s.s3Client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("failed to delete file from S3: %w", err)
	}

	return nil
}
