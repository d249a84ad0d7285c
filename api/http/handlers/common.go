package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/artem13815/growth/pkg/security/jwt"
)

// currentUser reads the subject stored by the auth middleware.
func currentUser(c *fiber.Ctx) (uuid.UUID, error) {
	raw, _ := c.Locals(jwt.LocalsUserID).(string)
	uid, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, fiber.NewError(http.StatusUnauthorized, "could not resolve user")
	}
	return uid, nil
}

func paramUUID(c *fiber.Ctx, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Params(name))
	if err != nil {
		return uuid.Nil, fiber.NewError(http.StatusBadRequest, "invalid "+name)
	}
	return id, nil
}

// userAndID resolves the caller and the ":id" route parameter.
func userAndID(c *fiber.Ctx) (uuid.UUID, uuid.UUID, error) {
	uid, err := currentUser(c)
	if err != nil {
		return uuid.Nil, uuid.Nil, err
	}
	id, err := paramUUID(c, "id")
	if err != nil {
		return uuid.Nil, uuid.Nil, err
	}
	return uid, id, nil
}

func badJSON() error {
	return fiber.NewError(http.StatusBadRequest, "invalid JSON payload")
}
