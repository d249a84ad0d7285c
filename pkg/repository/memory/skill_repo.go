package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/artem13815/growth/pkg/profile"
)

// SkillRepository implements profile.Repository in memory.
type SkillRepository struct {
	mu     sync.RWMutex
	byUser map[uuid.UUID][]profile.Skill
}

func NewSkillRepository() *SkillRepository {
	return &SkillRepository{byUser: make(map[uuid.UUID][]profile.Skill)}
}

func (r *SkillRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]profile.Skill, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := append([]profile.Skill(nil), r.byUser[userID]...)
	sort.Slice(out, func(i, j int) bool { return strings.ToLower(out[i].Name) < strings.ToLower(out[j].Name) })
	return out, nil
}

func (r *SkillRepository) Upsert(ctx context.Context, s profile.Skill) (profile.Skill, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	items := r.byUser[s.UserID]
	for i := range items {
		if strings.EqualFold(items[i].Name, s.Name) {
			s.ID = items[i].ID
			items[i] = s
			return s, nil
		}
	}
	r.byUser[s.UserID] = append(items, s)
	return s, nil
}

func (r *SkillRepository) DeleteForOwner(ctx context.Context, userID, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	items := r.byUser[userID]
	for i := range items {
		if items[i].ID == id {
			r.byUser[userID] = append(items[:i], items[i+1:]...)
			return nil
		}
	}
	return profile.ErrNotFound
}
