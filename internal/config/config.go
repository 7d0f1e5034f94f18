package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	App         AppConfig
	Auth        AuthConfig
	Database    DatabaseConfig
	Redis       RedisConfig
	RateLimit   RateLimitConfig
	Leaderboard LeaderboardConfig
}

type AppConfig struct {
	AppName        string
	Environment    string
	HTTPPort       string
	LogLevel       string
	AutoMigrate    bool
	MigrationsPath string
}

type AuthConfig struct {
	JWTSecret     string
	Audience      string
	AccessTTL     time.Duration
	SessionCookie string
}

type DatabaseConfig struct {
	URL        string
	DBHost     string
	DBPort     string
	DBName     string
	DBUser     string
	DBPassword string
	DBSSLMode  string

	ConnectTimeout        time.Duration
	PoolMaxConns          int32
	PoolMinConns          int32
	PoolMaxConnLifetime   time.Duration
	PoolMaxConnIdleTime   time.Duration
	PoolHealthCheckPeriod time.Duration
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

type RateLimitConfig struct {
	RequestsPerSecond int
	Burst             int
}

type LeaderboardConfig struct {
	CacheTTL time.Duration
}

var errMissingRequiredEnv = errors.New("missing required environment variables")

// Load reads configuration from the environment. A .env file in the working
// directory is applied first when present; real environment variables win.
func Load() (Config, error) {
	_ = godotenv.Load()
	return FromLookup(os.Getenv)
}

func FromLookup(getenv func(string) string) (Config, error) {
	cfg := Config{}

	var missing []string
	req := func(key string) string {
		v := strings.TrimSpace(getenv(key))
		if v == "" {
			missing = append(missing, key)
		}
		return v
	}
	opt := func(key, def string) string {
		v := strings.TrimSpace(getenv(key))
		if v == "" {
			return def
		}
		return v
	}
	dur := func(key string, def time.Duration) time.Duration {
		return parseDuration(getenv(key), def)
	}
	num := func(key string, def int) int {
		return parseInt(getenv(key), def)
	}

	cfg.App = AppConfig{
		AppName:        req("APP_NAME"),
		Environment:    req("APP_ENV"),
		HTTPPort:       req("HTTP_PORT"),
		LogLevel:       opt("LOG_LEVEL", "info"),
		AutoMigrate:    parseBool(getenv("MIGRATIONS_AUTO"), true),
		MigrationsPath: opt("MIGRATIONS_PATH", ""),
	}

	cfg.Auth = AuthConfig{
		JWTSecret:     req("JWT_SECRET"),
		Audience:      opt("JWT_AUDIENCE", "authenticated"),
		AccessTTL:     dur("JWT_ACCESS_TTL", time.Hour),
		SessionCookie: opt("SESSION_COOKIE", "sb-access-token"),
	}

	cfg.Database = DatabaseConfig{
		URL:        opt("DATABASE_URL", ""),
		DBHost:     opt("DB_HOST", "localhost"),
		DBPort:     opt("DB_PORT", "5432"),
		DBName:     opt("DB_NAME", "offerless"),
		DBUser:     opt("DB_USER", "postgres"),
		DBPassword: strings.TrimSpace(getenv("DB_PASSWORD")),
		DBSSLMode:  opt("DB_SSL_MODE", "disable"),

		ConnectTimeout:        dur("DB_CONNECT_TIMEOUT", 5*time.Second),
		PoolMaxConns:          int32(num("DB_POOL_MAX_CONNS", 0)),
		PoolMinConns:          int32(num("DB_POOL_MIN_CONNS", 0)),
		PoolMaxConnLifetime:   dur("DB_POOL_MAX_CONN_LIFETIME", 0),
		PoolMaxConnIdleTime:   dur("DB_POOL_MAX_CONN_IDLE_TIME", 0),
		PoolHealthCheckPeriod: dur("DB_POOL_HEALTH_CHECK_PERIOD", 0),
	}

	cfg.Redis = RedisConfig{
		Host:     opt("REDIS_HOST", "localhost"),
		Port:     opt("REDIS_PORT", "6379"),
		Password: strings.TrimSpace(getenv("REDIS_PASSWORD")),
		DB:       num("REDIS_DB", 0),
	}

	cfg.RateLimit = RateLimitConfig{
		RequestsPerSecond: num("RATE_LIMIT_RPS", 10),
		Burst:             num("RATE_LIMIT_BURST", 20),
	}

	cfg.Leaderboard = LeaderboardConfig{
		CacheTTL: dur("LEADERBOARD_CACHE_TTL", 60*time.Second),
	}

	if len(missing) > 0 {
		return Config{}, fmt.Errorf("%w: %s", errMissingRequiredEnv, strings.Join(missing, ", "))
	}

	return cfg, nil
}

func (c Config) IsProduction() bool {
	return strings.EqualFold(c.App.Environment, "production")
}

// DSN returns DATABASE_URL when set, otherwise a keyword/value connection string.
func (d DatabaseConfig) DSN() string {
	if d.URL != "" {
		return d.URL
	}
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		d.DBHost,
		d.DBPort,
		d.DBUser,
		d.DBPassword,
		d.DBName,
		d.DBSSLMode,
	)
}

func (r RedisConfig) Addr() string {
	return r.Host + ":" + r.Port
}

// parseDuration accepts Go durations ("90s") or a bare number of seconds.
func parseDuration(raw string, def time.Duration) time.Duration {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return def
	}
	if d, err := time.ParseDuration(raw); err == nil && d > 0 {
		return d
	}
	if n, err := strconv.Atoi(raw); err == nil && n > 0 {
		return time.Duration(n) * time.Second
	}
	return def
}

func parseInt(raw string, def int) int {
	v, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || v < 0 {
		return def
	}
	return v
}

func parseBool(raw string, def bool) bool {
	v, err := strconv.ParseBool(strings.TrimSpace(raw))
	if err != nil {
		return def
	}
	return v
}
