package growth

import (
	"context"

	"github.com/google/uuid"

	"github.com/artem13815/growth/pkg/profile"
)

// Tx is the write view of the store inside one exclusive section. Child
// collections are always read and replaced as a whole for a goal.
type Tx interface {
	GetGoal(ctx context.Context, goalID uuid.UUID) (Goal, error)
	InsertGoal(ctx context.Context, g Goal) error
	UpdateGoal(ctx context.Context, g Goal) error
	// DemoteOtherGoals clears the primary flag on every goal of userID except keepID.
	DemoteOtherGoals(ctx context.Context, userID, keepID uuid.UUID) error

	ListGaps(ctx context.Context, goalID uuid.UUID) ([]SkillGap, error)
	ReplaceGaps(ctx context.Context, goalID uuid.UUID, gaps []SkillGap) error
	UpdateGap(ctx context.Context, gap SkillGap) error

	// ListPaths returns paths ordered by SortOrder with milestones ordered by SortOrder.
	ListPaths(ctx context.Context, goalID uuid.UUID) ([]LearningPath, error)
	ReplacePaths(ctx context.Context, goalID uuid.UUID, paths []LearningPath) error
	UpdatePath(ctx context.Context, p LearningPath) error
	UpdateMilestone(ctx context.Context, m LearningMilestone) error
}

// Repository persists goals and their gap/path/milestone subtrees.
//
// Writes go through InUserTx or InGoalTx, which serialize all writers of the
// same user or goal and commit atomically; fn's error rolls everything back.
// Reads outside a transaction may observe slightly stale progress.
type Repository interface {
	// InUserTx serializes goal-set changes for one user (create, primary switch).
	InUserTx(ctx context.Context, userID uuid.UUID, fn func(ctx context.Context, tx Tx) error) error
	// InGoalTx locks one goal owned by userID and passes its current state.
	// A goal owned by another user is ErrNotFound.
	InGoalTx(ctx context.Context, userID, goalID uuid.UUID, fn func(ctx context.Context, tx Tx, goal Goal) error) error

	GetGoal(ctx context.Context, userID, goalID uuid.UUID) (Goal, error)
	ListGoals(ctx context.Context, userID uuid.UUID) ([]Goal, error)
	ListGaps(ctx context.Context, userID, goalID uuid.UUID) ([]SkillGap, error)
	ListPaths(ctx context.Context, userID, goalID uuid.UUID) ([]LearningPath, error)
	// RecentMilestones returns the user's completed milestones, newest first.
	RecentMilestones(ctx context.Context, userID uuid.UUID, limit int) ([]LearningMilestone, error)

	// Owner lookups resolve a child id to its goal, scoped to userID.
	GoalIDOfGap(ctx context.Context, userID, gapID uuid.UUID) (uuid.UUID, error)
	GoalIDOfPath(ctx context.Context, userID, pathID uuid.UUID) (uuid.UUID, error)
	GoalIDOfMilestone(ctx context.Context, userID, milestoneID uuid.UUID) (uuid.UUID, error)
}

// SkillSource is the read-only profile store the analyzer consumes.
type SkillSource interface {
	ListByUser(ctx context.Context, userID uuid.UUID) ([]profile.Skill, error)
}

// SummaryCache stores rendered dashboards per user. Misses and errors are
// never fatal; the summary is rebuilt from the repository.
//
// Every Invalidate starts a new generation. Get reports the current one and a
// rebuild is stored with Set under that generation, so a summary built from a
// snapshot older than the last write is never served.
type SummaryCache interface {
	Get(ctx context.Context, userID uuid.UUID) (s Summary, gen int64, ok bool, err error)
	Set(ctx context.Context, userID uuid.UUID, gen int64, s Summary) error
	Invalidate(ctx context.Context, userID uuid.UUID) error
}

type nopCache struct{}

func (nopCache) Get(context.Context, uuid.UUID) (Summary, int64, bool, error) {
	return Summary{}, 0, false, nil
}
func (nopCache) Set(context.Context, uuid.UUID, int64, Summary) error { return nil }
func (nopCache) Invalidate(context.Context, uuid.UUID) error          { return nil }
