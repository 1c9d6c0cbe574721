package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
)

const (
	defaultPort         = "8080"
	defaultCurrency     = "USD"
	defaultMaxBodyBytes = 1 << 20
)

// Config holds the service configuration.
type Config struct {
	AppEnv             string
	Port               string
	CampaignsFile      string
	RedisURL           string
	CORSAllowedOrigins []string
	CurrencyCode       string
	IdempotencyTTL     time.Duration
	RateLimitWindow    time.Duration
	RateLimitMax       int
	MaxBodyBytes       int64
}

// Load reads the process environment, after merging an optional .env file.
func Load() (*Config, error) {
	_ = godotenv.Load()
	return load(env.Provider("", ".", func(s string) string { return s }))
}

// LoadFromMap builds a Config from explicit key/value pairs using the same
// defaults and parsing rules as Load.
func LoadFromMap(values map[string]string) (*Config, error) {
	return load(mapProvider(values))
}

func load(p koanf.Provider) (*Config, error) {
	k := koanf.New(".")
	if err := k.Load(p, nil); err != nil {
		return nil, fmt.Errorf("load env: %w", err)
	}

	cfg := &Config{
		AppEnv:             orDefault(k.String("APP_ENV"), "development"),
		Port:               orDefault(k.String("PORT"), defaultPort),
		CampaignsFile:      strings.TrimSpace(k.String("CAMPAIGNS_FILE")),
		RedisURL:           strings.TrimSpace(k.String("REDIS_URL")),
		CORSAllowedOrigins: splitCSV(k.String("CORS_ALLOWED_ORIGINS")),
		CurrencyCode:       strings.ToUpper(orDefault(k.String("CURRENCY_CODE"), defaultCurrency)),
		IdempotencyTTL:     durationOr(k.String("IDEMPOTENCY_TTL"), 24*time.Hour),
		RateLimitWindow:    durationOr(k.String("RATE_LIMIT_WINDOW"), time.Minute),
		RateLimitMax:       int(intOr(k.String("RATE_LIMIT_MAX"), 120)),
		MaxBodyBytes:       intOr(k.String("MAX_BODY_BYTES"), defaultMaxBodyBytes),
	}
	if cfg.RateLimitMax < 0 {
		cfg.RateLimitMax = 0
	}
	if cfg.MaxBodyBytes <= 0 {
		cfg.MaxBodyBytes = defaultMaxBodyBytes
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects values that have no sensible fallback.
func (c *Config) Validate() error {
	if len(c.CurrencyCode) != 3 || strings.Trim(c.CurrencyCode, "ABCDEFGHIJKLMNOPQRSTUVWXYZ") != "" {
		return fmt.Errorf("config: CURRENCY_CODE must be a three letter ISO 4217 code, got %q", c.CurrencyCode)
	}
	port := strings.TrimPrefix(c.Port, ":")
	if n, err := strconv.Atoi(port); err != nil || n <= 0 || n > 65535 {
		return fmt.Errorf("config: invalid PORT %q", c.Port)
	}
	return nil
}

// HTTPAddr returns the listen address for the HTTP server.
func (c *Config) HTTPAddr() string {
	port := strings.TrimSpace(c.Port)
	if port == "" {
		port = defaultPort
	}
	if strings.HasPrefix(port, ":") {
		return port
	}
	return ":" + port
}

// RedisEnabled reports whether a Redis URL was supplied.
func (c *Config) RedisEnabled() bool {
	return c != nil && c.RedisURL != ""
}

// mapProvider feeds a fixed set of variables to koanf.
type mapProvider map[string]string

func (m mapProvider) ReadBytes() ([]byte, error) {
	return nil, fmt.Errorf("config: map provider does not support ReadBytes")
}

func (m mapProvider) Read() (map[string]interface{}, error) {
	out := make(map[string]interface{}, len(m))
	for key, value := range m {
		out[key] = value
	}
	return out, nil
}

func splitCSV(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func orDefault(value, fallback string) string {
	if trimmed := strings.TrimSpace(value); trimmed != "" {
		return trimmed
	}
	return fallback
}

func durationOr(value string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(strings.TrimSpace(value))
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}

func intOr(value string, fallback int64) int64 {
	n, err := strconv.ParseInt(strings.TrimSpace(value), 10, 64)
	if err != nil {
		return fallback
	}
	return n
}
