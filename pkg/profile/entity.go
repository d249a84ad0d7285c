package profile

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/artem13815/growth/pkg/taxonomy"
)

var (
	ErrNotFound   = errors.New("skill not found")
	ErrValidation = errors.New("invalid skill")
)

// Skill is one recorded skill on a user's profile.
type Skill struct {
	ID       uuid.UUID         `json:"id"`
	UserID   uuid.UUID         `json:"userId"`
	Name     string            `json:"name"`
	Category taxonomy.Category `json:"category"`

	// YearsOfExperience is nil when the user did not say.
	YearsOfExperience *int      `json:"yearsOfExperience,omitempty"`
	UpdatedAt         time.Time `json:"updatedAt"`
}

// Repository is the port to the profile store.
type Repository interface {
	ListByUser(ctx context.Context, userID uuid.UUID) ([]Skill, error)
	// Upsert inserts or replaces a skill, keyed by (user, lower(name)).
	Upsert(ctx context.Context, s Skill) (Skill, error)
	DeleteForOwner(ctx context.Context, userID, id uuid.UUID) error
}
