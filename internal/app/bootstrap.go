package app

import (
	"fmt"
	"strings"

	"offerless/internal/config"
	"offerless/internal/delivery/http/handler"
	"offerless/internal/delivery/http/middleware"
	"offerless/internal/delivery/http/routes"
	"offerless/internal/pkg/jwt"
	"offerless/internal/repository"
	appuc "offerless/internal/usecase/application"
	authuc "offerless/internal/usecase/auth"
	lbuc "offerless/internal/usecase/leaderboard"
	profileuc "offerless/internal/usecase/profile"
	"offerless/internal/ws"

	"github.com/gofiber/fiber/v3"
)

type App struct {
	Fiber *fiber.App
}

// New wires repositories, usecases and handlers over the container's
// resources.
func New(c *Container) *App {
	cfg := c.Config
	log := c.Logger

	appRepo := repository.NewPostgresApplicationRepository(c.DB)
	profileRepo := repository.NewPostgresProfileRepository(c.DB)
	leaderboardRepo := repository.NewPostgresLeaderboardRepository(c.DB)

	tokens := jwt.NewHMACService(cfg.Auth.JWTSecret, cfg.Auth.Audience, cfg.Auth.AccessTTL)
	authService := authuc.NewService(tokens, c.Cache, log)

	leaderboardService := lbuc.NewService(leaderboardRepo, c.Cache, cfg.Leaderboard.CacheTTL, c.Hub, log)
	appService := appuc.NewService(appRepo,
		appuc.WithChangeListener(leaderboardService),
		appuc.WithLogger(log),
	)
	profileService := profileuc.NewService(profileRepo)

	metrics := middleware.NewMetrics(metricsNamespace(cfg.App.AppName))

	f := fiber.New(fiber.Config{AppName: cfg.App.AppName})

	reg := &routes.Registry{
		Health:       handler.NewHealthHandler(c.DB),
		Auth:         handler.NewAuthHandler(authService, cfg.Auth.SessionCookie, log),
		Applications: handler.NewApplicationHandler(appService),
		Profile:      handler.NewProfileHandler(profileService),
		Leaderboard:  handler.NewLeaderboardHandler(leaderboardService),
		LiveUpdates:  ws.NewHandler(c.Hub, nil, log),

		AuthMiddleware: middleware.NewAuthMiddleware(authService, cfg.Auth.SessionCookie),
		AccessLog:      middleware.NewAccessLogMiddleware(log),
		Errors:         middleware.NewErrorMiddleware(log),
		Metrics:        metrics,
		RateLimiter:    middleware.NewRateLimiter(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst, log),
	}
	reg.Register(f)

	return &App{Fiber: f}
}

func Bootstrap(cfg config.Config) (*App, func() error, error) {
	c, err := NewContainer(cfg)
	if err != nil {
		return nil, nil, err
	}
	return New(c), c.Close, nil
}

func ListenAddr(port string) (string, error) {
	p := strings.TrimSpace(port)
	if p == "" {
		return "", fmt.Errorf("empty HTTP port")
	}
	if strings.HasPrefix(p, ":") {
		return p, nil
	}
	return ":" + p, nil
}

// metricsNamespace turns an app name into a valid Prometheus namespace.
func metricsNamespace(appName string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(strings.TrimSpace(appName)) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	ns := strings.Trim(b.String(), "_")
	if ns == "" || (ns[0] >= '0' && ns[0] <= '9') {
		return "offerless"
	}
	return ns
}
