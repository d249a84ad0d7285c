package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/artem13815/growth/api/http/presenter"
	"github.com/artem13815/growth/pkg/profile"
)

// ProfileHandler manages the skills gap analysis compares against.
type ProfileHandler struct {
	uc profile.UseCase
}

func NewProfileHandler(uc profile.UseCase) *ProfileHandler { return &ProfileHandler{uc: uc} }

type upsertSkillRequest struct {
	Name              string `json:"name"`
	Category          string `json:"category"`
	YearsOfExperience *int   `json:"yearsOfExperience"`
}

// @Summary  List profile skills
// @Tags     profile
// @Produce  json
// @Security BearerAuth
// @Success  200 {array} profile.Skill
// @Router   /profile/skills [get]
func (h *ProfileHandler) List(c *fiber.Ctx) error {
	uid, err := currentUser(c)
	if err != nil {
		return err
	}
	items, err := h.uc.ListSkills(c.Context(), uid)
	if err != nil {
		return presenter.Fail(c, err)
	}
	return presenter.JSON(c, http.StatusOK, items)
}

// Upsert adds a skill or replaces the one with the same name.
// An empty category is inferred from the skill taxonomy.
// @Summary  Add or update profile skill
// @Tags     profile
// @Accept   json
// @Produce  json
// @Param    input body upsertSkillRequest true "skill"
// @Security BearerAuth
// @Success  200 {object} profile.Skill
// @Failure  400 {object} presenter.ErrorResponse
// @Router   /profile/skills [put]
func (h *ProfileHandler) Upsert(c *fiber.Ctx) error {
	uid, err := currentUser(c)
	if err != nil {
		return err
	}
	var req upsertSkillRequest
	if err := c.BodyParser(&req); err != nil {
		return badJSON()
	}
	s, err := h.uc.UpsertSkill(c.Context(), uid, req.Name, req.Category, req.YearsOfExperience)
	if err != nil {
		return presenter.Fail(c, err)
	}
	return presenter.JSON(c, http.StatusOK, s)
}

// @Summary  Delete profile skill
// @Tags     profile
// @Param    id path string true "skill id"
// @Security BearerAuth
// @Success  204
// @Failure  404 {object} presenter.ErrorResponse
// @Router   /profile/skills/{id} [delete]
func (h *ProfileHandler) Delete(c *fiber.Ctx) error {
	uid, id, err := userAndID(c)
	if err != nil {
		return err
	}
	if err := h.uc.DeleteSkill(c.Context(), uid, id); err != nil {
		return presenter.Fail(c, err)
	}
	return c.SendStatus(http.StatusNoContent)
}
