package jwt

import (
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"
)

// LocalsUserID is the fiber.Ctx locals key holding the token subject.
const LocalsUserID = "userId"

// NewAuthMiddleware returns a Fiber middleware that validates a Bearer JWT (HS256).
// On success the user id (subject) is stored in c.Locals(LocalsUserID).
func NewAuthMiddleware(secret, expectedIssuer string) fiber.Handler {
	secretBytes := []byte(secret)
	return func(c *fiber.Ctx) error {
		authHeader := strings.TrimSpace(c.Get(fiber.HeaderAuthorization))
		if authHeader == "" {
			return c.Status(http.StatusUnauthorized).JSON(fiber.Map{"message": "missing Authorization header"})
		}
		tokenStr := authHeader
		// accept both "Bearer <token>" and a bare token
		if scheme, rest, ok := strings.Cut(authHeader, " "); ok && strings.EqualFold(scheme, "Bearer") {
			tokenStr = strings.TrimSpace(rest)
		}
		if tokenStr == "" {
			return c.Status(http.StatusUnauthorized).JSON(fiber.Map{"message": "empty token"})
		}
		claims, err := Parse(tokenStr, secretBytes, expectedIssuer)
		if err != nil {
			return c.Status(http.StatusUnauthorized).JSON(fiber.Map{"message": err.Error()})
		}
		c.Locals(LocalsUserID, claims.Subject)
		return c.Next()
	}
}
