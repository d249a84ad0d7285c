package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/artem13815/growth/pkg/health"
)

// HealthHandler serves the liveness and readiness endpoints.
type HealthHandler struct {
	svc     health.ReadinessUseCase
	started time.Time
}

func NewHealthHandler(svc health.ReadinessUseCase) *HealthHandler {
	return &HealthHandler{svc: svc, started: time.Now()}
}

type livenessResponse struct {
	Status        string `json:"status"`
	UptimeSeconds int64  `json:"uptimeSeconds"`
}

type readinessResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

// Health reports that the process is up.
// @Summary Liveness check
// @Tags    health
// @Produce json
// @Success 200 {object} livenessResponse
// @Router  /health [get]
func (h *HealthHandler) Health(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(livenessResponse{
		Status:        "ok",
		UptimeSeconds: int64(time.Since(h.started).Seconds()),
	})
}

// Ready checks postgres and redis (when configured) and reports each by name.
// @Summary Readiness check
// @Tags    health
// @Produce json
// @Success 200 {object} readinessResponse
// @Failure 503 {object} readinessResponse
// @Router  /ready [get]
func (h *HealthHandler) Ready(c *fiber.Ctx) error {
	report := h.svc.Ready(c.Context())
	if !report.Ready {
		return c.Status(fiber.StatusServiceUnavailable).JSON(readinessResponse{Status: "not_ready", Checks: report.Checks})
	}
	return c.Status(fiber.StatusOK).JSON(readinessResponse{Status: "ready", Checks: report.Checks})
}
