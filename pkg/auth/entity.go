package auth

import (
	"context"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
)

const minPasswordLen = 8

// User owns goals and profile skills. Email is stored trimmed and lower-cased.
type User struct {
	ID           uuid.UUID
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}

// Session is what register and login hand back: the account plus a bearer token.
type Session struct {
	User  User
	Token string
}

// TokenGenerator signs the bearer token of a Session.
type TokenGenerator interface {
	Generate(ctx context.Context, user User) (string, error)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// validateCredentials expects an already normalized email.
func validateCredentials(email, password string) error {
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email || len(password) < minPasswordLen {
		return ErrInvalidInput
	}
	return nil
}
