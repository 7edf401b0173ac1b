package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFromEnv_Defaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/moneylens")

	cfg, err := LoadFromEnv()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, 25, cfg.DBMaxConnections)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.AllowedOrigins)
	assert.Equal(t, int64(5*1024*1024), cfg.MaxReceiptBytes)
	assert.Equal(t, 100, cfg.RateLimitMax)
	assert.Equal(t, 20, cfg.RateLimitAIMax)
	assert.Equal(t, time.Minute, cfg.RateLimitWindow)
	assert.False(t, cfg.EnableRateLimiting)
}

func TestLoadFromEnv_Overrides(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/moneylens")
	t.Setenv("PORT", "9090")
	t.Setenv("ALLOWED_ORIGINS", "https://a.example, ,https://b.example")
	t.Setenv("ENABLE_RATE_LIMITING", "true")
	t.Setenv("RATE_LIMIT_WINDOW", "30s")
	t.Setenv("DB_MAX_CONNECTIONS", "not-a-number")

	cfg, err := LoadFromEnv()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.AllowedOrigins)
	assert.True(t, cfg.EnableRateLimiting)
	assert.Equal(t, 30*time.Second, cfg.RateLimitWindow)
	assert.Equal(t, 25, cfg.DBMaxConnections, "invalid values fall back to the default")
}

func TestLoadFromEnv_Required(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	_, err := LoadFromEnv()
	assert.ErrorContains(t, err, "DATABASE_URL")
}

func TestLoadFromEnv_ProductionNeedsAuth(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/moneylens")
	t.Setenv("ENVIRONMENT", "production")
	t.Setenv("CLERK_SECRET_KEY", "")
	t.Setenv("AUTH_JWT_SECRET", "")
	t.Setenv("S3_BUCKET", "receipts")

	_, err := LoadFromEnv()
	assert.ErrorContains(t, err, "AUTH_JWT_SECRET")

	t.Setenv("AUTH_JWT_SECRET", "secret")
	cfg, err := LoadFromEnv()
	require.NoError(t, err)
	assert.True(t, cfg.IsProduction())
}
