package config

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func lookup(m map[string]string) func(string) string {
	return func(k string) string { return m[k] }
}

func TestFromLookup_MissingRequired(t *testing.T) {
	_, err := FromLookup(lookup(map[string]string{"APP_NAME": "offerless"}))
	require.Error(t, err)
	assert.True(t, errors.Is(err, errMissingRequiredEnv))
	assert.Contains(t, err.Error(), "APP_ENV")
	assert.Contains(t, err.Error(), "HTTP_PORT")
	assert.Contains(t, err.Error(), "JWT_SECRET")
}

func TestFromLookup_Defaults(t *testing.T) {
	cfg, err := FromLookup(lookup(map[string]string{
		"APP_NAME":   "offerless",
		"APP_ENV":    "development",
		"HTTP_PORT":  "8080",
		"JWT_SECRET": "secret",
	}))
	require.NoError(t, err)

	assert.Equal(t, "authenticated", cfg.Auth.Audience)
	assert.Equal(t, "sb-access-token", cfg.Auth.SessionCookie)
	assert.Equal(t, time.Hour, cfg.Auth.AccessTTL)
	assert.Equal(t, 60*time.Second, cfg.Leaderboard.CacheTTL)
	assert.Equal(t, 10, cfg.RateLimit.RequestsPerSecond)
	assert.True(t, cfg.App.AutoMigrate)
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr())
	assert.Equal(t, "host=localhost port=5432 user=postgres password= dbname=offerless sslmode=disable", cfg.Database.DSN())
	assert.False(t, cfg.IsProduction())
}

func TestFromLookup_Overrides(t *testing.T) {
	cfg, err := FromLookup(lookup(map[string]string{
		"APP_NAME":              "offerless",
		"APP_ENV":               "production",
		"HTTP_PORT":             "9000",
		"JWT_SECRET":            "secret",
		"DATABASE_URL":          "postgres://u:p@db:5432/app",
		"LEADERBOARD_CACHE_TTL": "30",
		"JWT_ACCESS_TTL":        "15m",
		"MIGRATIONS_AUTO":       "false",
		"DB_POOL_MAX_CONNS":     "12",
	}))
	require.NoError(t, err)

	assert.Equal(t, "postgres://u:p@db:5432/app", cfg.Database.DSN())
	assert.Equal(t, 30*time.Second, cfg.Leaderboard.CacheTTL)
	assert.Equal(t, 15*time.Minute, cfg.Auth.AccessTTL)
	assert.False(t, cfg.App.AutoMigrate)
	assert.Equal(t, int32(12), cfg.Database.PoolMaxConns)
	assert.True(t, cfg.IsProduction())
}
