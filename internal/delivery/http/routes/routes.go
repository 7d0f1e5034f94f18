package routes

import (
	"offerless/internal/delivery/http/handler"
	"offerless/internal/delivery/http/middleware"
	"offerless/internal/ws"

	"github.com/gofiber/fiber/v3"
)

// Registry holds everything needed to mount the HTTP surface. Nil handlers
// are skipped.
type Registry struct {
	Health       *handler.HealthHandler
	Auth         *handler.AuthHandler
	Applications *handler.ApplicationHandler
	Profile      *handler.ProfileHandler
	Leaderboard  *handler.LeaderboardHandler
	LiveUpdates  *ws.Handler

	AuthMiddleware *middleware.AuthMiddleware
	AccessLog      *middleware.AccessLogMiddleware
	Errors         *middleware.ErrorMiddleware
	Metrics        *middleware.Metrics
	RateLimiter    *middleware.RateLimiter
}

func (r *Registry) Register(app *fiber.App) {
	if app == nil {
		return
	}

	r.registerGlobal(app)
	r.registerOps(app)
	r.registerAPI(app)
	r.registerWS(app)
}

func (r *Registry) registerGlobal(app *fiber.App) {
	if r.AccessLog != nil {
		app.Use(r.AccessLog.Middleware())
	}
	if r.Errors != nil {
		app.Use(r.Errors.Middleware())
	}
	if r.Metrics != nil {
		app.Use(r.Metrics.Middleware())
	}
}

func (r *Registry) registerOps(app *fiber.App) {
	if r.Health != nil {
		r.Health.RegisterRoutes(app)
	}
	if r.Metrics != nil {
		app.Get("/metrics", r.Metrics.Handler())
	}
}

func (r *Registry) registerAPI(app *fiber.App) {
	api := app.Group("/api")

	if r.Auth != nil {
		r.Auth.RegisterRoutes(api.Group("/auth"))
	}

	protected := api.Group("", r.authenticate())

	var write fiber.Handler
	if r.RateLimiter != nil {
		write = r.RateLimiter.Middleware()
	}

	if r.Applications != nil {
		r.Applications.RegisterRoutes(protected, write)
		r.Applications.RegisterStatsRoutes(protected)
	}
	if r.Profile != nil {
		r.Profile.RegisterRoutes(protected, write)
	}
	if r.Leaderboard != nil {
		r.Leaderboard.RegisterRoutes(protected)
	}
}

func (r *Registry) registerWS(app *fiber.App) {
	if r.LiveUpdates == nil {
		return
	}
	app.Get("/ws/leaderboard", r.authenticate(), r.LiveUpdates.HandleLeaderboardWS)
}

// authenticate rejects every request when no gate is configured.
func (r *Registry) authenticate() fiber.Handler {
	if r.AuthMiddleware == nil {
		return func(fiber.Ctx) error { return middleware.Unauthorized(nil) }
	}
	return r.AuthMiddleware.Middleware()
}
