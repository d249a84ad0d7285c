package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/artem13815/growth/api/http/presenter"
	"github.com/artem13815/growth/pkg/growth"
)

// PathHandler serves learning paths and their milestones.
type PathHandler struct {
	uc growth.UseCase
}

func NewPathHandler(uc growth.UseCase) *PathHandler { return &PathHandler{uc: uc} }

type pathStatusRequest struct {
	Status string `json:"status"`
}

type milestoneNotesRequest struct {
	Notes string `json:"notes"`
}

// Generate rebuilds the goal's paths from its open gaps. Milestone progress is discarded.
// @Summary  Generate learning paths
// @Tags     paths
// @Produce  json
// @Param    id path string true "goal id"
// @Security BearerAuth
// @Success  201 {array}  growth.LearningPath
// @Failure  404 {object} presenter.ErrorResponse
// @Router   /growth/goals/{id}/paths [post]
func (h *PathHandler) Generate(c *fiber.Ctx) error {
	uid, goalID, err := userAndID(c)
	if err != nil {
		return err
	}
	paths, err := h.uc.GenerateLearningPaths(c.Context(), uid, goalID)
	if err != nil {
		return presenter.Fail(c, err)
	}
	return presenter.JSON(c, http.StatusCreated, paths)
}

// @Summary  List learning paths
// @Tags     paths
// @Produce  json
// @Param    id path string true "goal id"
// @Security BearerAuth
// @Success  200 {array}  growth.LearningPath
// @Failure  404 {object} presenter.ErrorResponse
// @Router   /growth/goals/{id}/paths [get]
func (h *PathHandler) List(c *fiber.Ctx) error {
	uid, goalID, err := userAndID(c)
	if err != nil {
		return err
	}
	paths, err := h.uc.ListLearningPaths(c.Context(), uid, goalID)
	if err != nil {
		return presenter.Fail(c, err)
	}
	return presenter.JSON(c, http.StatusOK, paths)
}

// @Summary  Get learning path
// @Tags     paths
// @Produce  json
// @Param    id path string true "path id"
// @Security BearerAuth
// @Success  200 {object} growth.LearningPath
// @Failure  404 {object} presenter.ErrorResponse
// @Router   /growth/paths/{id} [get]
func (h *PathHandler) Get(c *fiber.Ctx) error {
	uid, pathID, err := userAndID(c)
	if err != nil {
		return err
	}
	p, err := h.uc.GetLearningPath(c.Context(), uid, pathID)
	if err != nil {
		return presenter.Fail(c, err)
	}
	return presenter.JSON(c, http.StatusOK, p)
}

// UpdateStatus sets a user-controlled path status. COMPLETED is derived and rejected.
// @Summary  Update path status
// @Tags     paths
// @Accept   json
// @Produce  json
// @Param    id    path string            true "path id"
// @Param    input body pathStatusRequest true "NOT_STARTED, IN_PROGRESS, PAUSED or ABANDONED"
// @Security BearerAuth
// @Success  200 {object} growth.LearningPath
// @Failure  400 {object} presenter.ErrorResponse
// @Failure  409 {object} presenter.ErrorResponse
// @Router   /growth/paths/{id}/status [patch]
func (h *PathHandler) UpdateStatus(c *fiber.Ctx) error {
	uid, pathID, err := userAndID(c)
	if err != nil {
		return err
	}
	var req pathStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return badJSON()
	}
	p, err := h.uc.UpdatePathStatus(c.Context(), uid, pathID, req.Status)
	if err != nil {
		return presenter.Fail(c, err)
	}
	return presenter.JSON(c, http.StatusOK, p)
}

// CompleteMilestone marks a milestone done and rolls progress up to the path and goal.
// @Summary  Complete milestone
// @Tags     milestones
// @Produce  json
// @Param    id path string true "milestone id"
// @Security BearerAuth
// @Success  200 {object} growth.LearningMilestone
// @Failure  404 {object} presenter.ErrorResponse
// @Router   /growth/milestones/{id}/complete [post]
func (h *PathHandler) CompleteMilestone(c *fiber.Ctx) error {
	uid, id, err := userAndID(c)
	if err != nil {
		return err
	}
	m, err := h.uc.CompleteMilestone(c.Context(), uid, id)
	if err != nil {
		return presenter.Fail(c, err)
	}
	return presenter.JSON(c, http.StatusOK, m)
}

// @Summary  Uncomplete milestone
// @Tags     milestones
// @Produce  json
// @Param    id path string true "milestone id"
// @Security BearerAuth
// @Success  200 {object} growth.LearningMilestone
// @Failure  404 {object} presenter.ErrorResponse
// @Router   /growth/milestones/{id}/uncomplete [post]
func (h *PathHandler) UncompleteMilestone(c *fiber.Ctx) error {
	uid, id, err := userAndID(c)
	if err != nil {
		return err
	}
	m, err := h.uc.UncompleteMilestone(c.Context(), uid, id)
	if err != nil {
		return presenter.Fail(c, err)
	}
	return presenter.JSON(c, http.StatusOK, m)
}

// @Summary  Update milestone notes
// @Tags     milestones
// @Accept   json
// @Produce  json
// @Param    id    path string                true "milestone id"
// @Param    input body milestoneNotesRequest true "notes"
// @Security BearerAuth
// @Success  200 {object} growth.LearningMilestone
// @Failure  404 {object} presenter.ErrorResponse
// @Router   /growth/milestones/{id}/notes [patch]
func (h *PathHandler) UpdateMilestoneNotes(c *fiber.Ctx) error {
	uid, id, err := userAndID(c)
	if err != nil {
		return err
	}
	var req milestoneNotesRequest
	if err := c.BodyParser(&req); err != nil {
		return badJSON()
	}
	m, err := h.uc.UpdateMilestoneNotes(c.Context(), uid, id, req.Notes)
	if err != nil {
		return presenter.Fail(c, err)
	}
	return presenter.JSON(c, http.StatusOK, m)
}
