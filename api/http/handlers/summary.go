package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/artem13815/growth/api/http/presenter"
	"github.com/artem13815/growth/pkg/growth"
)

type SummaryHandler struct {
	uc growth.UseCase
}

func NewSummaryHandler(uc growth.UseCase) *SummaryHandler { return &SummaryHandler{uc: uc} }

// Get returns the growth dashboard.
// @Summary  Growth summary
// @Tags     summary
// @Produce  json
// @Security BearerAuth
// @Success  200 {object} growth.Summary
// @Router   /growth/summary [get]
func (h *SummaryHandler) Get(c *fiber.Ctx) error {
	uid, err := currentUser(c)
	if err != nil {
		return err
	}
	sum, err := h.uc.GetGrowthSummary(c.Context(), uid)
	if err != nil {
		return presenter.Fail(c, err)
	}
	return presenter.JSON(c, http.StatusOK, sum)
}
