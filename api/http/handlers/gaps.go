package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/artem13815/growth/api/http/presenter"
	"github.com/artem13815/growth/pkg/growth"
)

type GapHandler struct {
	uc growth.UseCase
}

func NewGapHandler(uc growth.UseCase) *GapHandler { return &GapHandler{uc: uc} }

type gapProgressRequest struct {
	Level *int `json:"level"`
}

type gapStatusRequest struct {
	Status string `json:"status"`
}

// List returns the goal's gaps, most urgent first.
// @Summary  List skill gaps
// @Tags     gaps
// @Produce  json
// @Param    id path string true "goal id"
// @Security BearerAuth
// @Success  200 {array}  growth.SkillGap
// @Failure  404 {object} presenter.ErrorResponse
// @Router   /growth/goals/{id}/gaps [get]
func (h *GapHandler) List(c *fiber.Ctx) error {
	uid, goalID, err := userAndID(c)
	if err != nil {
		return err
	}
	gaps, err := h.uc.ListGaps(c.Context(), uid, goalID)
	if err != nil {
		return presenter.Fail(c, err)
	}
	return presenter.JSON(c, http.StatusOK, gaps)
}

// UpdateProgress records a new current level (0..100) for a gap.
// @Summary  Update gap progress
// @Tags     gaps
// @Accept   json
// @Produce  json
// @Param    id    path string             true "gap id"
// @Param    input body gapProgressRequest true "new level"
// @Security BearerAuth
// @Success  200 {object} growth.SkillGap
// @Failure  400 {object} presenter.ErrorResponse
// @Failure  404 {object} presenter.ErrorResponse
// @Router   /growth/gaps/{id}/progress [patch]
func (h *GapHandler) UpdateProgress(c *fiber.Ctx) error {
	uid, gapID, err := userAndID(c)
	if err != nil {
		return err
	}
	var req gapProgressRequest
	if err := c.BodyParser(&req); err != nil {
		return badJSON()
	}
	if req.Level == nil {
		return presenter.Error(c, http.StatusBadRequest, "level is required")
	}
	gap, err := h.uc.UpdateGapProgress(c.Context(), uid, gapID, *req.Level)
	if err != nil {
		return presenter.Fail(c, err)
	}
	return presenter.JSON(c, http.StatusOK, gap)
}

// UpdateStatus sets a gap status; RESOLVED raises the level to the requirement.
// @Summary  Update gap status
// @Tags     gaps
// @Accept   json
// @Produce  json
// @Param    id    path string           true "gap id"
// @Param    input body gapStatusRequest true "IDENTIFIED, IN_PROGRESS, RESOLVED or DEFERRED"
// @Security BearerAuth
// @Success  200 {object} growth.SkillGap
// @Failure  400 {object} presenter.ErrorResponse
// @Failure  404 {object} presenter.ErrorResponse
// @Router   /growth/gaps/{id}/status [patch]
func (h *GapHandler) UpdateStatus(c *fiber.Ctx) error {
	uid, gapID, err := userAndID(c)
	if err != nil {
		return err
	}
	var req gapStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return badJSON()
	}
	gap, err := h.uc.UpdateGapStatus(c.Context(), uid, gapID, req.Status)
	if err != nil {
		return presenter.Fail(c, err)
	}
	return presenter.JSON(c, http.StatusOK, gap)
}
