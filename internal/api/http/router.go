package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"

	"github.com/spec-kit/field-insights/internal/api/http/handlers"
	"github.com/spec-kit/field-insights/internal/auth"
	"github.com/spec-kit/field-insights/internal/domain"
	"github.com/spec-kit/field-insights/internal/observability"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Recordings     *handlers.RecordingsHandler
	Feedback       *handlers.FeedbackHandler
	Team           *handlers.TeamHandler
	AuthMiddleware *auth.AuthMiddleware
	Metrics        *observability.Metrics
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	if cfg.Health != nil {
		app.Get("/health/live", cfg.Health.Live)
		app.Get("/health/ready", cfg.Health.Ready)
	}
	app.Get("/metrics", adaptor.HTTPHandler(cfg.Metrics.Handler()))

	app.Post("/auth/login", cfg.Auth.Login)

	protected := app.Group("", cfg.AuthMiddleware.Handle, auth.RequireAnyRole())

	recordings := protected.Group("/recordings")
	recordings.Get("/", cfg.Recordings.List)
	recordings.Get("/last", auth.RequireRole(domain.RoleL1), cfg.Recordings.Last)
	recordings.Get("/daily-hours", cfg.Recordings.DailyHours)
	recordings.Get("/insights", auth.RequireRole(domain.RoleL1), cfg.Recordings.Insights)
	recordings.Put("/:id/listening-time", cfg.Recordings.UpdateListeningTime)
	recordings.Post("/:id/transcription", cfg.Recordings.RequestTranscription)

	feedback := protected.Group("/feedback")
	feedback.Post("/", cfg.Feedback.Submit)
	feedback.Get("/", cfg.Feedback.List)
	feedback.Get("/rating", cfg.Feedback.Rating)

	protected.Get("/team", cfg.Team.Team)
	protected.Get("/regions", auth.RequireRole(domain.RoleL3), cfg.Team.Regions)
	protected.Get("/stores", cfg.Team.Stores)
}
