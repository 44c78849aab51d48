package config

import (
	"testing"
	"time"

	"github.com/Abdurahmanit/GroupProject/estate-service/internal/estate/domain"
	"github.com/Abdurahmanit/GroupProject/estate-service/internal/platform/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig(logger.NewNop())
	require.NoError(t, err)

	assert.Equal(t, "estate-service", cfg.ServiceName)
	assert.Equal(t, "8085", cfg.HTTPPort)
	assert.Equal(t, "estate", cfg.MongoDatabase)
	assert.Equal(t, 5*time.Minute, cfg.CacheTTL)
	assert.Equal(t, 587, cfg.SMTPPort)
	assert.Equal(t, string(domain.BestOfferMax), cfg.BestOfferMode)
	assert.Equal(t, string(domain.PriceGuardMinimum), cfg.OfferPriceGuard)
	assert.Equal(t, []string{"*"}, cfg.AllowedOrigins())
}

func TestLoadConfigFromEnv(t *testing.T) {
	t.Setenv("HTTP_PORT", "9000")
	t.Setenv("REDIS_DB", "3")
	t.Setenv("CACHE_TTL", "30s")
	t.Setenv("MINIO_USE_SSL", "true")
	t.Setenv("BEST_OFFER_MODE", "sum")
	t.Setenv("OFFER_PRICE_GUARD", "highest")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example")

	cfg, err := LoadConfig(logger.NewNop())
	require.NoError(t, err)

	assert.Equal(t, "9000", cfg.HTTPPort)
	assert.Equal(t, 3, cfg.RedisDB)
	assert.Equal(t, 30*time.Second, cfg.CacheTTL)
	assert.True(t, cfg.MinioUseSSL)
	assert.Equal(t, "sum", cfg.BestOfferMode)
	assert.Equal(t, "highest", cfg.OfferPriceGuard)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.AllowedOrigins())
}

func TestLoadConfigRejectsUnknownModes(t *testing.T) {
	t.Setenv("BEST_OFFER_MODE", "average")
	_, err := LoadConfig(logger.NewNop())
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
