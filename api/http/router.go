package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/artem13815/growth/api/http/handlers"
	"github.com/artem13815/growth/api/http/presenter"
	"github.com/artem13815/growth/pkg/logger"
)

// Handlers groups everything Register mounts.
type Handlers struct {
	Auth    *handlers.AuthHandler
	Health  *handlers.HealthHandler
	Profile *handlers.ProfileHandler
	Goals   *handlers.GoalHandler
	Gaps    *handlers.GapHandler
	Paths   *handlers.PathHandler
	Summary *handlers.SummaryHandler
}

// NewApp returns a Fiber app whose errors render as presenter.ErrorResponse.
// Unexpected failures are logged through lg.
func NewApp(lg *logger.Logger) *fiber.App {
	return fiber.New(fiber.Config{
		AppName:      "growth-service",
		ErrorHandler: presenter.NewErrorHandler(lg),
	})
}

// Register wires all HTTP routes onto given Fiber app.
func Register(app *fiber.App, h Handlers, authMW fiber.Handler) {
	api := app.Group("/api")
	v1 := api.Group("/v1")

	// Health and readiness endpoints for orchestrators and monitoring
	v1.Get("/health", h.Health.Health)
	v1.Get("/ready", h.Health.Ready)

	a := v1.Group("/auth")
	a.Post("/register", h.Auth.Register)
	a.Post("/login", h.Auth.Login)

	p := v1.Group("/profile", authMW)
	p.Get("/skills", h.Profile.List)
	p.Put("/skills", h.Profile.Upsert)
	p.Delete("/skills/:id", h.Profile.Delete)

	g := v1.Group("/growth", authMW)
	g.Get("/summary", h.Summary.Get)

	g.Post("/goals", h.Goals.Create)
	g.Get("/goals", h.Goals.List)
	g.Get("/goals/:id", h.Goals.Get)
	g.Patch("/goals/:id", h.Goals.Update)
	g.Delete("/goals/:id", h.Goals.Delete)
	g.Post("/goals/:id/primary", h.Goals.SetPrimary)
	g.Post("/goals/:id/achieve", h.Goals.Achieve)
	g.Post("/goals/:id/pause", h.Goals.Pause)
	g.Post("/goals/:id/resume", h.Goals.Resume)
	g.Post("/goals/:id/analyze", h.Goals.Analyze)

	g.Get("/goals/:id/gaps", h.Gaps.List)
	g.Patch("/gaps/:id/progress", h.Gaps.UpdateProgress)
	g.Patch("/gaps/:id/status", h.Gaps.UpdateStatus)

	g.Post("/goals/:id/paths", h.Paths.Generate)
	g.Get("/goals/:id/paths", h.Paths.List)
	g.Get("/paths/:id", h.Paths.Get)
	g.Patch("/paths/:id/status", h.Paths.UpdateStatus)
	g.Post("/milestones/:id/complete", h.Paths.CompleteMilestone)
	g.Post("/milestones/:id/uncomplete", h.Paths.UncompleteMilestone)
	g.Patch("/milestones/:id/notes", h.Paths.UpdateMilestoneNotes)
}
