package config

import (
	"testing"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/stretchr/testify/require"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("JWT_SECRET_KEY", testSecret)

	cfg, err := Load()
	require.NoError(t, err)

	require.Equal(t, "file:skillsnap.db?_fk=1", cfg.DatabaseURL)
	require.Equal(t, ":8080", cfg.ServerAddr)
	require.Equal(t, "SkillSnap", cfg.JWT.Issuer)
	require.Equal(t, "SkillSnap", cfg.JWT.Audience)
	require.Equal(t, 24*time.Hour, cfg.JWT.Lifetime)
	require.Equal(t, 10*time.Minute, cfg.Cache.TTL)
	require.Equal(t, 10000, cfg.Cache.Capacity)
	require.Equal(t, []string{"http://localhost:5041", "https://localhost:5041"}, cfg.CORSAllowedOrigins)
	require.True(t, cfg.MetricsEnabled)
	require.False(t, cfg.TrustProxyHeaders)

	store := cfg.Cache.StoreConfig()
	require.NoError(t, store.Validate())
	require.Equal(t, 64, store.NumShards)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("JWT_SECRET_KEY", testSecret)
	t.Setenv("DATABASE_URL", "postgres://u:p@localhost/skillsnap")
	t.Setenv("CACHE_TTL", "30s")
	t.Setenv("JWT_LIFETIME", "1h")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example,https://b.example")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "postgres://u:p@localhost/skillsnap", cfg.DatabaseURL)
	require.Equal(t, 30*time.Second, cfg.Cache.TTL)
	require.Equal(t, time.Hour, cfg.JWT.Lifetime)
	require.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSAllowedOrigins)
}

func TestLoad_Rejects(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{name: "missing secret", env: map[string]string{}},
		{name: "short secret", env: map[string]string{"JWT_SECRET_KEY": "short"}},
		{name: "bad log level", env: map[string]string{"JWT_SECRET_KEY": testSecret, "LOG_LEVEL": "loud"}},
		{name: "zero capacity", env: map[string]string{"JWT_SECRET_KEY": testSecret, "CACHE_CAPACITY": "0"}},
		{name: "unparsable ttl", env: map[string]string{"JWT_SECRET_KEY": testSecret, "CACHE_TTL": "soon"}},
		{name: "zero ttl", env: map[string]string{"JWT_SECRET_KEY": testSecret, "CACHE_TTL": "0s"}},
		{name: "zero shards", env: map[string]string{"JWT_SECRET_KEY": testSecret, "CACHE_SHARDS": "0"}},
		{name: "zero eviction percentage", env: map[string]string{"JWT_SECRET_KEY": testSecret, "CACHE_EVICTION_PERCENTAGE": "0"}},
		{name: "zero burst", env: map[string]string{"JWT_SECRET_KEY": testSecret, "AUTH_RATE_BURST": "0"}},
		{name: "zero token lifetime", env: map[string]string{"JWT_SECRET_KEY": testSecret, "JWT_LIFETIME": "0s"}},
		{name: "negative rate", env: map[string]string{"JWT_SECRET_KEY": testSecret, "AUTH_RATE_LIMIT": "-1"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("JWT_SECRET_KEY", "")
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load()
			require.Error(t, err)
		})
	}
}

func TestValidate_ReportsNestedFields(t *testing.T) {
	cfg := &Config{DatabaseURL: "x", ServerAddr: ":1", LogLevel: "info", AuthRateBurst: 1,
		JWT:   JWTConfig{SecretKey: testSecret, Issuer: "SkillSnap", Audience: "SkillSnap", Lifetime: time.Hour},
		Cache: CacheConfig{TTL: time.Minute, Capacity: 1, Shards: 1, EvictionPercentage: 200},
	}

	err := cfg.Validate()
	var errs validation.Errors
	require.ErrorAs(t, err, &errs)
	require.Contains(t, errs, "Cache")
}

func TestLoad_ZeroRateLimitDisablesLimiting(t *testing.T) {
	t.Setenv("JWT_SECRET_KEY", testSecret)
	t.Setenv("AUTH_RATE_LIMIT", "0")

	cfg, err := Load()
	require.NoError(t, err)
	require.Zero(t, cfg.AuthRateLimit)
}
