package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	// Server
	Port            int
	Environment     string
	ShutdownTimeout time.Duration
	LogLevel        string
	AllowedOrigins  []string

	// Database
	DatabaseURL         string
	DBMaxConnections    int
	DBConnectionTimeout time.Duration

	// Auth: Clerk session tokens, or HS256 tokens signed with AuthJWTSecret
	ClerkSecretKey string
	AuthJWTSecret  string

	// S3
	S3Bucket        string
	S3Region        string
	AWSEndpoint     string // For LocalStack in development
	MaxReceiptBytes int64

	// Gemini
	GeminiAPIKey string
	GeminiModel  string

	// Feature Flags
	EnableRateLimiting bool
	RateLimitMax       int
	RateLimitAIMax     int
	RateLimitWindow    time.Duration
}

func LoadFromEnv() (*Config, error) {
	cfg := &Config{
		Port:                getEnvInt("PORT", 8080),
		Environment:         getEnv("ENVIRONMENT", "development"),
		ShutdownTimeout:     getEnvDuration("SHUTDOWN_TIMEOUT", 30*time.Second),
		LogLevel:            getEnv("LOG_LEVEL", "info"),
		AllowedOrigins:      getEnvList("ALLOWED_ORIGINS", []string{"http://localhost:3000"}),
		DatabaseURL:         getEnv("DATABASE_URL", ""),
		DBMaxConnections:    getEnvInt("DB_MAX_CONNECTIONS", 25),
		DBConnectionTimeout: getEnvDuration("DB_CONNECTION_TIMEOUT", 30*time.Second),
		ClerkSecretKey:      getEnv("CLERK_SECRET_KEY", ""),
		AuthJWTSecret:       getEnv("AUTH_JWT_SECRET", ""),
		S3Bucket:            getEnv("S3_BUCKET", ""),
		S3Region:            getEnv("S3_REGION", "ap-southeast-1"),
		AWSEndpoint:         getEnv("AWS_ENDPOINT", ""),
		MaxReceiptBytes:     int64(getEnvInt("MAX_RECEIPT_BYTES", 5*1024*1024)),
		GeminiAPIKey:        getEnv("GEMINI_API_KEY", ""),
		GeminiModel:         getEnv("GEMINI_MODEL", ""),
		EnableRateLimiting:  getEnvBool("ENABLE_RATE_LIMITING", false),
		RateLimitMax:        getEnvInt("RATE_LIMIT_MAX", 100),
		RateLimitAIMax:      getEnvInt("RATE_LIMIT_AI_MAX", 20),
		RateLimitWindow:     getEnvDuration("RATE_LIMIT_WINDOW", time.Minute),
	}

	// Validate required fields
	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}
	if cfg.IsProduction() {
		if cfg.ClerkSecretKey == "" && cfg.AuthJWTSecret == "" {
			return nil, fmt.Errorf("CLERK_SECRET_KEY or AUTH_JWT_SECRET is required in production")
		}
		if cfg.S3Bucket == "" {
			return nil, fmt.Errorf("S3_BUCKET is required in production")
		}
	}
	if cfg.MaxReceiptBytes <= 0 {
		return nil, fmt.Errorf("MAX_RECEIPT_BYTES must be positive")
	}

	return cfg, nil
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

// getEnvList splits a comma-separated value, dropping empty entries
func getEnvList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}
