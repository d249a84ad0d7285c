package handlers

import (
	"context"
	"net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/artem13815/growth/api/http/presenter"
	"github.com/artem13815/growth/pkg/growth"
)

// GoalHandler serves career goals and their lifecycle.
type GoalHandler struct {
	uc growth.UseCase
}

func NewGoalHandler(uc growth.UseCase) *GoalHandler { return &GoalHandler{uc: uc} }

type createGoalRequest struct {
	TargetRole      string `json:"targetRole"`
	TargetCompany   string `json:"targetCompany"`
	TargetLevel     string `json:"targetLevel"`
	JobRequirements string `json:"jobRequirements"`
	TargetDate      string `json:"targetDate"`
}

type updateGoalRequest struct {
	TargetRole      *string `json:"targetRole"`
	TargetCompany   *string `json:"targetCompany"`
	TargetLevel     *string `json:"targetLevel"`
	JobRequirements *string `json:"jobRequirements"`
	TargetDate      *string `json:"targetDate"`
}

type goalListResponse struct {
	Items  []growth.Goal `json:"items"`
	Total  int           `json:"total"`
	Limit  int           `json:"limit"`
	Offset int           `json:"offset"`
}

// Create sets a new primary goal and runs the first analysis.
// @Summary     Create goal
// @Description Creates an ACTIVE primary goal, demotes the previous one and analyzes the requirements text.
// @Tags        goals
// @Accept      json
// @Produce     json
// @Param       input body createGoalRequest true "goal"
// @Security    BearerAuth
// @Success     201 {object} growth.Goal
// @Failure     400 {object} presenter.ErrorResponse
// @Router      /growth/goals [post]
func (h *GoalHandler) Create(c *fiber.Ctx) error {
	uid, err := currentUser(c)
	if err != nil {
		return err
	}
	var req createGoalRequest
	if err := c.BodyParser(&req); err != nil {
		return badJSON()
	}
	goal, err := h.uc.CreateGoal(c.Context(), uid, growth.GoalInput{
		TargetRole:      req.TargetRole,
		TargetCompany:   req.TargetCompany,
		TargetLevel:     req.TargetLevel,
		JobRequirements: req.JobRequirements,
		TargetDate:      req.TargetDate,
	})
	if err != nil {
		return presenter.Fail(c, err)
	}
	return presenter.JSON(c, http.StatusCreated, goal)
}

// List returns the caller's goals, primary first.
// @Summary  List goals
// @Tags     goals
// @Produce  json
// @Param    status query string false "ACTIVE, PAUSED, ACHIEVED or ABANDONED"
// @Param    limit  query int    false "page size (default 50, max 200)"
// @Param    offset query int    false "offset"
// @Security BearerAuth
// @Success  200 {object} goalListResponse
// @Failure  400 {object} presenter.ErrorResponse
// @Router   /growth/goals [get]
func (h *GoalHandler) List(c *fiber.Ctx) error {
	uid, err := currentUser(c)
	if err != nil {
		return err
	}
	goals, err := h.uc.ListGoals(c.Context(), uid, c.Query("status"))
	if err != nil {
		return presenter.Fail(c, err)
	}
	limit, offset := parseLimitOffset(c, 50)
	return presenter.JSON(c, http.StatusOK, goalListResponse{
		Items:  page(goals, limit, offset),
		Total:  len(goals),
		Limit:  limit,
		Offset: offset,
	})
}

// Get returns one goal.
// @Summary  Get goal
// @Tags     goals
// @Produce  json
// @Param    id path string true "goal id"
// @Security BearerAuth
// @Success  200 {object} growth.Goal
// @Failure  404 {object} presenter.ErrorResponse
// @Router   /growth/goals/{id} [get]
func (h *GoalHandler) Get(c *fiber.Ctx) error {
	uid, id, err := userAndID(c)
	if err != nil {
		return err
	}
	goal, err := h.uc.GetGoal(c.Context(), uid, id)
	if err != nil {
		return presenter.Fail(c, err)
	}
	return presenter.JSON(c, http.StatusOK, goal)
}

// Update patches goal fields; a changed requirements text re-runs the analysis.
// @Summary  Update goal
// @Tags     goals
// @Accept   json
// @Produce  json
// @Param    id    path string            true "goal id"
// @Param    input body updateGoalRequest true "fields to change"
// @Security BearerAuth
// @Success  200 {object} growth.Goal
// @Failure  400 {object} presenter.ErrorResponse
// @Failure  404 {object} presenter.ErrorResponse
// @Failure  409 {object} presenter.ErrorResponse
// @Router   /growth/goals/{id} [patch]
func (h *GoalHandler) Update(c *fiber.Ctx) error {
	uid, id, err := userAndID(c)
	if err != nil {
		return err
	}
	var req updateGoalRequest
	if err := c.BodyParser(&req); err != nil {
		return badJSON()
	}
	goal, err := h.uc.UpdateGoal(c.Context(), uid, id, growth.GoalUpdate{
		TargetRole:      req.TargetRole,
		TargetCompany:   req.TargetCompany,
		TargetLevel:     req.TargetLevel,
		JobRequirements: req.JobRequirements,
		TargetDate:      req.TargetDate,
	})
	if err != nil {
		return presenter.Fail(c, err)
	}
	return presenter.JSON(c, http.StatusOK, goal)
}

// Delete abandons the goal. Repeating it is harmless.
// @Summary  Abandon goal
// @Tags     goals
// @Produce  json
// @Param    id path string true "goal id"
// @Security BearerAuth
// @Success  200 {object} growth.Goal
// @Failure  404 {object} presenter.ErrorResponse
// @Failure  409 {object} presenter.ErrorResponse
// @Router   /growth/goals/{id} [delete]
func (h *GoalHandler) Delete(c *fiber.Ctx) error {
	return h.lifecycle(c, h.uc.DeleteGoal)
}

// SetPrimary makes the goal the caller's single ACTIVE primary goal.
// @Summary  Set primary goal
// @Tags     goals
// @Produce  json
// @Param    id path string true "goal id"
// @Security BearerAuth
// @Success  200 {object} growth.Goal
// @Failure  404 {object} presenter.ErrorResponse
// @Failure  409 {object} presenter.ErrorResponse
// @Router   /growth/goals/{id}/primary [post]
func (h *GoalHandler) SetPrimary(c *fiber.Ctx) error {
	return h.lifecycle(c, h.uc.SetPrimaryGoal)
}

// @Summary  Mark goal achieved
// @Tags     goals
// @Produce  json
// @Param    id path string true "goal id"
// @Security BearerAuth
// @Success  200 {object} growth.Goal
// @Failure  409 {object} presenter.ErrorResponse
// @Router   /growth/goals/{id}/achieve [post]
func (h *GoalHandler) Achieve(c *fiber.Ctx) error {
	return h.lifecycle(c, h.uc.AchieveGoal)
}

// @Summary  Pause goal
// @Tags     goals
// @Produce  json
// @Param    id path string true "goal id"
// @Security BearerAuth
// @Success  200 {object} growth.Goal
// @Failure  409 {object} presenter.ErrorResponse
// @Router   /growth/goals/{id}/pause [post]
func (h *GoalHandler) Pause(c *fiber.Ctx) error {
	return h.lifecycle(c, h.uc.PauseGoal)
}

// @Summary  Resume paused goal
// @Tags     goals
// @Produce  json
// @Param    id path string true "goal id"
// @Security BearerAuth
// @Success  200 {object} growth.Goal
// @Failure  409 {object} presenter.ErrorResponse
// @Router   /growth/goals/{id}/resume [post]
func (h *GoalHandler) Resume(c *fiber.Ctx) error {
	return h.lifecycle(c, h.uc.ResumeGoal)
}

// Analyze re-runs gap analysis, replacing gaps and learning paths.
// @Summary  Analyze gaps
// @Tags     goals
// @Produce  json
// @Param    id path string true "goal id"
// @Security BearerAuth
// @Success  200 {object} growth.Goal
// @Failure  404 {object} presenter.ErrorResponse
// @Router   /growth/goals/{id}/analyze [post]
func (h *GoalHandler) Analyze(c *fiber.Ctx) error {
	return h.lifecycle(c, h.uc.AnalyzeGaps)
}

func (h *GoalHandler) lifecycle(c *fiber.Ctx, op func(ctx context.Context, userID, goalID uuid.UUID) (growth.Goal, error)) error {
	uid, id, err := userAndID(c)
	if err != nil {
		return err
	}
	goal, err := op(c.Context(), uid, id)
	if err != nil {
		return presenter.Fail(c, err)
	}
	return presenter.JSON(c, http.StatusOK, goal)
}
