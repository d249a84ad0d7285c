package presenter

import (
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/artem13815/growth/pkg/growth"
	"github.com/artem13815/growth/pkg/logger"
	"github.com/artem13815/growth/pkg/profile"
)

type ErrorResponse struct {
	Message string `json:"message"`
}

func JSON(c *fiber.Ctx, status int, v any) error {
	return c.Status(status).JSON(v)
}

func Error(c *fiber.Ctx, status int, message string) error {
	return JSON(c, status, ErrorResponse{Message: message})
}

// Fail renders a domain error with its HTTP status. Anything it does not
// recognise is returned unchanged so the app's ErrorHandler logs it and
// answers 500.
func Fail(c *fiber.Ctx, err error) error {
	if status, msg, ok := classify(err); ok {
		return Error(c, status, msg)
	}
	return err
}

func classify(err error) (int, string, bool) {
	switch {
	case errors.Is(err, growth.ErrNotFound), errors.Is(err, profile.ErrNotFound):
		return http.StatusNotFound, "not found", true
	case errors.Is(err, growth.ErrAccessDenied):
		return http.StatusForbidden, "access denied", true
	case errors.Is(err, growth.ErrValidation), errors.Is(err, profile.ErrValidation):
		return http.StatusBadRequest, err.Error(), true
	case errors.Is(err, growth.ErrInvalidTransition):
		return http.StatusConflict, err.Error(), true
	}
	return 0, "", false
}

// NewErrorHandler builds the fiber.Config ErrorHandler. *fiber.Error keeps its
// code, domain errors are classified, and the rest are logged before a
// generic 500.
func NewErrorHandler(lg *logger.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var fe *fiber.Error
		if errors.As(err, &fe) {
			return Error(c, fe.Code, fe.Message)
		}
		if status, msg, ok := classify(err); ok {
			return Error(c, status, msg)
		}
		lg.Error("request failed", "method", c.Method(), "path", c.Path(), "err", err)
		return Error(c, http.StatusInternalServerError, "internal error")
	}
}
