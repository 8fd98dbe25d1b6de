package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/sickfits")
	t.Setenv("APP_SECRET", "s3cret")
	t.Setenv("KAFKA_BROKERS", "k1:9092, k2:9092")
	t.Setenv("COOKIE_SECURE", "true")

	cfg := Load()

	assert.Equal(t, ":8080", cfg.Addr)
	assert.Equal(t, []byte("s3cret"), cfg.AppSecret)
	assert.Equal(t, 10, cfg.BcryptCost)
	assert.Equal(t, time.Hour, cfg.ResetTTL)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, "items", cfg.ESIndex)
	assert.True(t, cfg.CookieSecure)
	assert.False(t, cfg.CSRFEnabled)
}
