package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := LoadFromMap(nil)
	require.NoError(t, err)
	require.Equal(t, "development", cfg.AppEnv)
	require.Equal(t, ":8080", cfg.HTTPAddr())
	require.Empty(t, cfg.CampaignsFile)
	require.False(t, cfg.RedisEnabled())
	require.Nil(t, cfg.CORSAllowedOrigins)
	require.Equal(t, "USD", cfg.CurrencyCode)
	require.Equal(t, 24*time.Hour, cfg.IdempotencyTTL)
	require.Equal(t, time.Minute, cfg.RateLimitWindow)
	require.Equal(t, 120, cfg.RateLimitMax)
	require.EqualValues(t, 1<<20, cfg.MaxBodyBytes)
}

func TestLoadOverrides(t *testing.T) {
	cfg, err := LoadFromMap(map[string]string{
		"APP_ENV":              "production",
		"PORT":                 ":9090",
		"CAMPAIGNS_FILE":       " /etc/campaigns.yaml ",
		"REDIS_URL":            "redis://localhost:6379/0",
		"CORS_ALLOWED_ORIGINS": "https://a.example, ,https://b.example",
		"CURRENCY_CODE":        "cad",
		"IDEMPOTENCY_TTL":      "2h",
		"RATE_LIMIT_WINDOW":    "bogus",
		"RATE_LIMIT_MAX":       "-5",
		"MAX_BODY_BYTES":       "2048",
	})
	require.NoError(t, err)
	require.Equal(t, "production", cfg.AppEnv)
	require.Equal(t, ":9090", cfg.HTTPAddr())
	require.Equal(t, "/etc/campaigns.yaml", cfg.CampaignsFile)
	require.True(t, cfg.RedisEnabled())
	require.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSAllowedOrigins)
	require.Equal(t, "CAD", cfg.CurrencyCode)
	require.Equal(t, 2*time.Hour, cfg.IdempotencyTTL)
	require.Equal(t, time.Minute, cfg.RateLimitWindow)
	require.Equal(t, 0, cfg.RateLimitMax)
	require.EqualValues(t, 2048, cfg.MaxBodyBytes)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	_, err := LoadFromMap(map[string]string{"CURRENCY_CODE": "dollars"})
	require.ErrorContains(t, err, "CURRENCY_CODE")

	_, err = LoadFromMap(map[string]string{"PORT": "http"})
	require.ErrorContains(t, err, "PORT")
}

func TestLoadReadsEnvironment(t *testing.T) {
	t.Setenv("CURRENCY_CODE", "eur")
	t.Setenv("RATE_LIMIT_MAX", "7")
	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "EUR", cfg.CurrencyCode)
	require.Equal(t, 7, cfg.RateLimitMax)
}
