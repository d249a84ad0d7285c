package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/artem13815/growth/pkg/growth"
)

// GrowthRepository keeps goals and their subtrees in process memory. One
// mutex serializes every writer, which is stricter than the per-goal
// exclusivity the engine needs.
type GrowthRepository struct {
	mu    sync.RWMutex
	goals map[uuid.UUID]growth.Goal
	gaps  map[uuid.UUID][]growth.SkillGap
	paths map[uuid.UUID][]growth.LearningPath
}

func NewGrowthRepository() *GrowthRepository {
	return &GrowthRepository{
		goals: make(map[uuid.UUID]growth.Goal),
		gaps:  make(map[uuid.UUID][]growth.SkillGap),
		paths: make(map[uuid.UUID][]growth.LearningPath),
	}
}

func (r *GrowthRepository) InUserTx(ctx context.Context, userID uuid.UUID, fn func(ctx context.Context, tx growth.Tx) error) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.run(ctx, func(tx *memTx) error { return fn(ctx, tx) })
}

func (r *GrowthRepository) InGoalTx(ctx context.Context, userID, goalID uuid.UUID, fn func(ctx context.Context, tx growth.Tx, goal growth.Goal) error) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	goal, ok := r.goals[goalID]
	if !ok || goal.UserID != userID {
		return growth.ErrNotFound
	}
	return r.run(ctx, func(tx *memTx) error { return fn(ctx, tx, goal) })
}

// run executes fn and replays the undo log in reverse when it fails.
func (r *GrowthRepository) run(ctx context.Context, fn func(tx *memTx) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	tx := &memTx{r: r}
	if err := fn(tx); err != nil {
		for i := len(tx.undo) - 1; i >= 0; i-- {
			tx.undo[i]()
		}
		return err
	}
	return nil
}

func (r *GrowthRepository) GetGoal(ctx context.Context, userID, goalID uuid.UUID) (growth.Goal, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	g, ok := r.goals[goalID]
	if !ok || g.UserID != userID {
		return growth.Goal{}, growth.ErrNotFound
	}
	return g, nil
}

func (r *GrowthRepository) ListGoals(ctx context.Context, userID uuid.UUID) ([]growth.Goal, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []growth.Goal
	for _, g := range r.goals {
		if g.UserID == userID {
			out = append(out, g)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID.String() < out[j].ID.String()
	})
	return out, nil
}

func (r *GrowthRepository) ListGaps(ctx context.Context, userID, goalID uuid.UUID) ([]growth.SkillGap, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if g, ok := r.goals[goalID]; !ok || g.UserID != userID {
		return nil, growth.ErrNotFound
	}
	return cloneGaps(r.gaps[goalID]), nil
}

func (r *GrowthRepository) ListPaths(ctx context.Context, userID, goalID uuid.UUID) ([]growth.LearningPath, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if g, ok := r.goals[goalID]; !ok || g.UserID != userID {
		return nil, growth.ErrNotFound
	}
	return clonePaths(r.paths[goalID]), nil
}

func (r *GrowthRepository) RecentMilestones(ctx context.Context, userID uuid.UUID, limit int) ([]growth.LearningMilestone, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []growth.LearningMilestone
	for goalID, paths := range r.paths {
		if g, ok := r.goals[goalID]; !ok || g.UserID != userID {
			continue
		}
		for _, p := range paths {
			for _, m := range p.Milestones {
				if m.IsCompleted && m.CompletedAt != nil {
					out = append(out, m)
				}
			}
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CompletedAt.After(*out[j].CompletedAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *GrowthRepository) GoalIDOfGap(ctx context.Context, userID, gapID uuid.UUID) (uuid.UUID, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for goalID, gaps := range r.gaps {
		for _, g := range gaps {
			if g.ID == gapID {
				return r.owned(userID, goalID)
			}
		}
	}
	return uuid.Nil, growth.ErrNotFound
}

func (r *GrowthRepository) GoalIDOfPath(ctx context.Context, userID, pathID uuid.UUID) (uuid.UUID, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for goalID, paths := range r.paths {
		for _, p := range paths {
			if p.ID == pathID {
				return r.owned(userID, goalID)
			}
		}
	}
	return uuid.Nil, growth.ErrNotFound
}

func (r *GrowthRepository) GoalIDOfMilestone(ctx context.Context, userID, milestoneID uuid.UUID) (uuid.UUID, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for goalID, paths := range r.paths {
		for _, p := range paths {
			for _, m := range p.Milestones {
				if m.ID == milestoneID {
					return r.owned(userID, goalID)
				}
			}
		}
	}
	return uuid.Nil, growth.ErrNotFound
}

func (r *GrowthRepository) owned(userID, goalID uuid.UUID) (uuid.UUID, error) {
	if g, ok := r.goals[goalID]; !ok || g.UserID != userID {
		return uuid.Nil, growth.ErrNotFound
	}
	return goalID, nil
}

// memTx mutates the maps in place under the repository lock and records how
// to undo each change.
type memTx struct {
	r    *GrowthRepository
	undo []func()
}

func (t *memTx) saveGoal(id uuid.UUID) {
	prev, existed := t.r.goals[id]
	t.undo = append(t.undo, func() {
		if existed {
			t.r.goals[id] = prev
		} else {
			delete(t.r.goals, id)
		}
	})
}

func (t *memTx) saveGaps(goalID uuid.UUID) {
	prev, existed := t.r.gaps[goalID]
	prev = cloneGaps(prev)
	t.undo = append(t.undo, func() {
		if existed {
			t.r.gaps[goalID] = prev
		} else {
			delete(t.r.gaps, goalID)
		}
	})
}

func (t *memTx) savePaths(goalID uuid.UUID) {
	prev, existed := t.r.paths[goalID]
	prev = clonePaths(prev)
	t.undo = append(t.undo, func() {
		if existed {
			t.r.paths[goalID] = prev
		} else {
			delete(t.r.paths, goalID)
		}
	})
}

func (t *memTx) GetGoal(ctx context.Context, goalID uuid.UUID) (growth.Goal, error) {
	g, ok := t.r.goals[goalID]
	if !ok {
		return growth.Goal{}, growth.ErrNotFound
	}
	return g, nil
}

func (t *memTx) InsertGoal(ctx context.Context, g growth.Goal) error {
	t.saveGoal(g.ID)
	t.r.goals[g.ID] = g
	return nil
}

func (t *memTx) UpdateGoal(ctx context.Context, g growth.Goal) error {
	if _, ok := t.r.goals[g.ID]; !ok {
		return growth.ErrNotFound
	}
	t.saveGoal(g.ID)
	t.r.goals[g.ID] = g
	return nil
}

func (t *memTx) DemoteOtherGoals(ctx context.Context, userID, keepID uuid.UUID) error {
	for id, g := range t.r.goals {
		if g.UserID != userID || id == keepID || !g.IsPrimary {
			continue
		}
		t.saveGoal(id)
		g.IsPrimary = false
		t.r.goals[id] = g
	}
	return nil
}

func (t *memTx) ListGaps(ctx context.Context, goalID uuid.UUID) ([]growth.SkillGap, error) {
	return cloneGaps(t.r.gaps[goalID]), nil
}

func (t *memTx) ReplaceGaps(ctx context.Context, goalID uuid.UUID, gaps []growth.SkillGap) error {
	t.saveGaps(goalID)
	t.r.gaps[goalID] = cloneGaps(gaps)
	return nil
}

func (t *memTx) UpdateGap(ctx context.Context, gap growth.SkillGap) error {
	gaps := t.r.gaps[gap.GoalID]
	for i := range gaps {
		if gaps[i].ID == gap.ID {
			t.saveGaps(gap.GoalID)
			gaps[i] = gap
			return nil
		}
	}
	return growth.ErrNotFound
}

func (t *memTx) ListPaths(ctx context.Context, goalID uuid.UUID) ([]growth.LearningPath, error) {
	return clonePaths(t.r.paths[goalID]), nil
}

func (t *memTx) ReplacePaths(ctx context.Context, goalID uuid.UUID, paths []growth.LearningPath) error {
	t.savePaths(goalID)
	t.r.paths[goalID] = clonePaths(paths)
	return nil
}

func (t *memTx) UpdatePath(ctx context.Context, p growth.LearningPath) error {
	paths := t.r.paths[p.GoalID]
	for i := range paths {
		if paths[i].ID == p.ID {
			t.savePaths(p.GoalID)
			// milestones are written through UpdateMilestone
			p.Milestones = paths[i].Milestones
			paths[i] = p
			return nil
		}
	}
	return growth.ErrNotFound
}

func (t *memTx) UpdateMilestone(ctx context.Context, m growth.LearningMilestone) error {
	for goalID, paths := range t.r.paths {
		for i := range paths {
			if paths[i].ID != m.PathID {
				continue
			}
			for j := range paths[i].Milestones {
				if paths[i].Milestones[j].ID == m.ID {
					t.savePaths(goalID)
					paths[i].Milestones[j] = m
					return nil
				}
			}
		}
	}
	return growth.ErrNotFound
}

func cloneGaps(in []growth.SkillGap) []growth.SkillGap {
	if in == nil {
		return nil
	}
	out := make([]growth.SkillGap, len(in))
	copy(out, in)
	return out
}

func clonePaths(in []growth.LearningPath) []growth.LearningPath {
	if in == nil {
		return nil
	}
	out := make([]growth.LearningPath, len(in))
	for i, p := range in {
		p.Milestones = append([]growth.LearningMilestone(nil), p.Milestones...)
		out[i] = p
	}
	return out
}
