// Package config loads the server configuration from the environment.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/goliatone/go-skillsnap/auth"
	"github.com/goliatone/go-skillsnap/cache"
)

// Config holds everything the server needs at startup.
type Config struct {
	DatabaseURL string `env:"DATABASE_URL" envDefault:"file:skillsnap.db?_fk=1"`
	ServerAddr  string `env:"SERVER_ADDR" envDefault:":8080"`

	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogPretty bool   `env:"LOG_PRETTY" envDefault:"false"`

	JWT   JWTConfig
	Cache CacheConfig

	CORSAllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envSeparator:"," envDefault:"http://localhost:5041,https://localhost:5041"`

	// AuthRateLimit is the sustained requests per second allowed per client
	// IP on /auth routes.
	AuthRateLimit float64 `env:"AUTH_RATE_LIMIT" envDefault:"1"`
	AuthRateBurst int     `env:"AUTH_RATE_BURST" envDefault:"10"`

	// TrustProxyHeaders takes the client IP from X-Forwarded-For or
	// X-Real-IP. Leave off unless a proxy overwrites those headers.
	TrustProxyHeaders bool `env:"TRUST_PROXY_HEADERS" envDefault:"false"`

	MetricsEnabled bool `env:"METRICS_ENABLED" envDefault:"true"`
}

// JWTConfig configures the token service.
type JWTConfig struct {
	SecretKey string        `env:"JWT_SECRET_KEY"`
	Issuer    string        `env:"JWT_ISSUER" envDefault:"SkillSnap"`
	Audience  string        `env:"JWT_AUDIENCE" envDefault:"SkillSnap"`
	Lifetime  time.Duration `env:"JWT_LIFETIME" envDefault:"24h"`
}

// CacheConfig sizes the shared cache store.
type CacheConfig struct {
	TTL                time.Duration `env:"CACHE_TTL" envDefault:"10m"`
	Capacity           int           `env:"CACHE_CAPACITY" envDefault:"10000"`
	Shards             int           `env:"CACHE_SHARDS" envDefault:"64"`
	EvictionPercentage int           `env:"CACHE_EVICTION_PERCENTAGE" envDefault:"10"`
}

// Load parses the environment and validates the result.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate implements validation.Validatable. ozzo's Min skips zero values,
// so every field that must be positive also carries Required.
func (c *Config) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.DatabaseURL, validation.Required),
		validation.Field(&c.ServerAddr, validation.Required),
		validation.Field(&c.LogLevel, validation.In("trace", "debug", "info", "warn", "error")),
		validation.Field(&c.JWT),
		validation.Field(&c.Cache),
		validation.Field(&c.AuthRateLimit, validation.Min(0.0)),
		validation.Field(&c.AuthRateBurst, validation.Required, validation.Min(1)),
	)
}

func (c JWTConfig) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.SecretKey, validation.Required, validation.Length(auth.MinSecretLength, 0)),
		validation.Field(&c.Issuer, validation.Required),
		validation.Field(&c.Audience, validation.Required),
		validation.Field(&c.Lifetime, validation.Required, validation.Min(time.Second)),
	)
}

func (c CacheConfig) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.TTL, validation.Required, validation.Min(time.Second)),
		validation.Field(&c.Capacity, validation.Required, validation.Min(1)),
		validation.Field(&c.Shards, validation.Required, validation.Min(1)),
		validation.Field(&c.EvictionPercentage, validation.Required, validation.Min(1), validation.Max(100)),
	)
}

// StoreConfig maps the cache settings onto cache.Config.
func (c CacheConfig) StoreConfig() cache.Config {
	cfg := cache.DefaultConfig()
	cfg.TTL = c.TTL
	cfg.Capacity = c.Capacity
	cfg.NumShards = c.Shards
	cfg.EvictionPercentage = c.EvictionPercentage
	return cfg
}
