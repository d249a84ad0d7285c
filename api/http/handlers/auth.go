package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/artem13815/growth/api/http/presenter"
	"github.com/artem13815/growth/pkg/auth"
)

// AuthHandler issues bearer tokens for the growth API.
type AuthHandler struct {
	useCase auth.AuthUseCase
}

func NewAuthHandler(useCase auth.AuthUseCase) *AuthHandler {
	return &AuthHandler{useCase: useCase}
}

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type sessionResponse struct {
	ID        string     `json:"id"`
	Email     string     `json:"email"`
	CreatedAt *time.Time `json:"createdAt,omitempty"`
	Token     string     `json:"token"`
}

// Register creates an account and returns its first token.
// @Summary Register user
// @Tags    auth
// @Accept  json
// @Produce json
// @Param   input body credentialsRequest true "registration payload"
// @Success 201 {object} sessionResponse
// @Failure 400 {object} presenter.ErrorResponse
// @Failure 409 {object} presenter.ErrorResponse
// @Router  /auth/register [post]
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	req, err := parseCredentials(c)
	if err != nil {
		return err
	}
	s, err := h.useCase.Register(c.Context(), req.Email, req.Password)
	switch {
	case errors.Is(err, auth.ErrUserAlreadyExists):
		return fiber.NewError(http.StatusConflict, "user already exists")
	case errors.Is(err, auth.ErrInvalidInput):
		return fiber.NewError(http.StatusBadRequest, err.Error())
	case err != nil:
		return fmt.Errorf("register: %w", err)
	}
	resp := newSessionResponse(s)
	resp.CreatedAt = &s.User.CreatedAt
	return presenter.JSON(c, http.StatusCreated, resp)
}

// Login exchanges credentials for a token.
// @Summary Login
// @Tags    auth
// @Accept  json
// @Produce json
// @Param   input body credentialsRequest true "login payload"
// @Success 200 {object} sessionResponse
// @Failure 400 {object} presenter.ErrorResponse
// @Failure 401 {object} presenter.ErrorResponse
// @Router  /auth/login [post]
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	req, err := parseCredentials(c)
	if err != nil {
		return err
	}
	s, err := h.useCase.Login(c.Context(), req.Email, req.Password)
	switch {
	case errors.Is(err, auth.ErrInvalidCredentials):
		return fiber.NewError(http.StatusUnauthorized, "invalid credentials")
	case err != nil:
		return fmt.Errorf("login: %w", err)
	}
	return presenter.JSON(c, http.StatusOK, newSessionResponse(s))
}

func parseCredentials(c *fiber.Ctx) (credentialsRequest, error) {
	var req credentialsRequest
	if err := c.BodyParser(&req); err != nil {
		return req, badJSON()
	}
	if strings.TrimSpace(req.Email) == "" || req.Password == "" {
		return req, fiber.NewError(http.StatusBadRequest, "email and password are required")
	}
	return req, nil
}

func newSessionResponse(s auth.Session) sessionResponse {
	return sessionResponse{ID: s.User.ID.String(), Email: s.User.Email, Token: s.Token}
}
