package profile

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/artem13815/growth/pkg/taxonomy"
)

// UseCase manages the skill records the growth engine reads.
type UseCase interface {
	ListSkills(ctx context.Context, userID uuid.UUID) ([]Skill, error)
	UpsertSkill(ctx context.Context, userID uuid.UUID, name, category string, years *int) (Skill, error)
	DeleteSkill(ctx context.Context, userID, id uuid.UUID) error
}

type service struct {
	repo  Repository
	table *taxonomy.Table
}

// NewService categorizes skills submitted without a category using table.
func NewService(repo Repository, table *taxonomy.Table) UseCase {
	return &service{repo: repo, table: table}
}

func (s *service) ListSkills(ctx context.Context, userID uuid.UUID) ([]Skill, error) {
	items, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []Skill{}
	}
	return items, nil
}

func (s *service) UpsertSkill(ctx context.Context, userID uuid.UUID, name, category string, years *int) (Skill, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Skill{}, fmt.Errorf("%w: name is required", ErrValidation)
	}
	var cat taxonomy.Category
	if strings.TrimSpace(category) == "" && s.table != nil {
		cat = s.table.Categorize(name)
	} else {
		parsed, err := taxonomy.ParseCategory(category)
		if err != nil {
			return Skill{}, fmt.Errorf("%w: %v", ErrValidation, err)
		}
		cat = parsed
	}
	if years != nil && *years < 0 {
		return Skill{}, fmt.Errorf("%w: yearsOfExperience must not be negative", ErrValidation)
	}
	return s.repo.Upsert(ctx, Skill{
		ID:                uuid.New(),
		UserID:            userID,
		Name:              name,
		Category:          cat,
		YearsOfExperience: years,
		UpdatedAt:         time.Now().UTC(),
	})
}

func (s *service) DeleteSkill(ctx context.Context, userID, id uuid.UUID) error {
	return s.repo.DeleteForOwner(ctx, userID, id)
}
