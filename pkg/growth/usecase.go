package growth

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/artem13815/growth/pkg/logger"
	"github.com/artem13815/growth/pkg/profile"
	"github.com/artem13815/growth/pkg/taxonomy"
)

// UseCase is the career growth engine as seen by the API layer. Every method
// takes the acting user and treats foreign ids as not found.
type UseCase interface {
	CreateGoal(ctx context.Context, userID uuid.UUID, in GoalInput) (Goal, error)
	UpdateGoal(ctx context.Context, userID, goalID uuid.UUID, in GoalUpdate) (Goal, error)
	GetGoal(ctx context.Context, userID, goalID uuid.UUID) (Goal, error)
	ListGoals(ctx context.Context, userID uuid.UUID, status string) ([]Goal, error)
	SetPrimaryGoal(ctx context.Context, userID, goalID uuid.UUID) (Goal, error)
	AchieveGoal(ctx context.Context, userID, goalID uuid.UUID) (Goal, error)
	PauseGoal(ctx context.Context, userID, goalID uuid.UUID) (Goal, error)
	ResumeGoal(ctx context.Context, userID, goalID uuid.UUID) (Goal, error)
	// DeleteGoal is a soft delete: the goal becomes ABANDONED.
	DeleteGoal(ctx context.Context, userID, goalID uuid.UUID) (Goal, error)

	AnalyzeGaps(ctx context.Context, userID, goalID uuid.UUID) (Goal, error)
	ListGaps(ctx context.Context, userID, goalID uuid.UUID) ([]SkillGap, error)
	UpdateGapProgress(ctx context.Context, userID, gapID uuid.UUID, level int) (SkillGap, error)
	UpdateGapStatus(ctx context.Context, userID, gapID uuid.UUID, status string) (SkillGap, error)

	GenerateLearningPaths(ctx context.Context, userID, goalID uuid.UUID) ([]LearningPath, error)
	ListLearningPaths(ctx context.Context, userID, goalID uuid.UUID) ([]LearningPath, error)
	GetLearningPath(ctx context.Context, userID, pathID uuid.UUID) (LearningPath, error)
	UpdatePathStatus(ctx context.Context, userID, pathID uuid.UUID, status string) (LearningPath, error)

	CompleteMilestone(ctx context.Context, userID, milestoneID uuid.UUID) (LearningMilestone, error)
	UncompleteMilestone(ctx context.Context, userID, milestoneID uuid.UUID) (LearningMilestone, error)
	UpdateMilestoneNotes(ctx context.Context, userID, milestoneID uuid.UUID, notes string) (LearningMilestone, error)

	GetGrowthSummary(ctx context.Context, userID uuid.UUID) (Summary, error)
}

// GoalInput carries the "set a target" form. Only TargetRole is required.
type GoalInput struct {
	TargetRole      string
	TargetCompany   string
	TargetLevel     string
	JobRequirements string
	TargetDate      string
}

// GoalUpdate changes only the non-nil fields.
type GoalUpdate struct {
	TargetRole      *string
	TargetCompany   *string
	TargetLevel     *string
	JobRequirements *string
	TargetDate      *string
}

// Engine bundles the pure analysis stages so they can be swapped together.
type Engine struct {
	Extractor   RequirementExtractor
	Analyzer    *GapAnalyzer
	Synthesizer PathSynthesizer
}

// NewEngine wires the keyword heuristics over a taxonomy table.
func NewEngine(table *taxonomy.Table, estimator ProficiencyEstimator, requiredLevel, preferredLevel int) Engine {
	return Engine{
		Extractor: NewKeywordExtractor(table),
		Analyzer:  NewGapAnalyzer(table, estimator, requiredLevel, preferredLevel),
	}
}

type service struct {
	repo   Repository
	skills SkillSource
	engine Engine
	cache  SummaryCache
	log    *logger.Logger
	now    func() time.Time
}

func NewService(repo Repository, skills SkillSource, engine Engine, cache SummaryCache, log *logger.Logger) UseCase {
	if cache == nil {
		cache = nopCache{}
	}
	if log == nil {
		log = logger.Nop()
	}
	return &service{
		repo:   repo,
		skills: skills,
		engine: engine,
		cache:  cache,
		log:    log.With("service", "growth"),
		now:    func() time.Time { return time.Now().UTC() },
	}
}

func (s *service) CreateGoal(ctx context.Context, userID uuid.UUID, in GoalInput) (Goal, error) {
	role := strings.TrimSpace(in.TargetRole)
	if role == "" {
		return Goal{}, fmt.Errorf("%w: targetRole is required", ErrValidation)
	}
	level, err := ParseSeniority(in.TargetLevel)
	if err != nil {
		return Goal{}, err
	}
	date, err := ParseTargetDate(in.TargetDate)
	if err != nil {
		return Goal{}, err
	}
	skills, err := s.loadSkills(ctx, userID)
	if err != nil {
		return Goal{}, err
	}

	now := s.now()
	goal := Goal{
		ID:              uuid.New(),
		UserID:          userID,
		TargetRole:      role,
		TargetCompany:   strings.TrimSpace(in.TargetCompany),
		TargetLevel:     level,
		JobRequirements: in.JobRequirements,
		TargetDate:      date,
		Status:          GoalActive,
		IsPrimary:       true,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	err = s.repo.InUserTx(ctx, userID, func(ctx context.Context, tx Tx) error {
		if err := tx.DemoteOtherGoals(ctx, userID, goal.ID); err != nil {
			return err
		}
		if err := tx.InsertGoal(ctx, goal); err != nil {
			return err
		}
		return s.regenerate(ctx, tx, &goal, skills)
	})
	if err != nil {
		return Goal{}, err
	}
	s.invalidate(ctx, userID)
	s.log.Info("goal created", "goal_id", goal.ID, "user_id", userID, "target_role", goal.TargetRole)
	return goal, nil
}

func (s *service) UpdateGoal(ctx context.Context, userID, goalID uuid.UUID, in GoalUpdate) (Goal, error) {
	var (
		level Seniority
		date  *time.Time
		err   error
	)
	if in.TargetRole != nil && strings.TrimSpace(*in.TargetRole) == "" {
		return Goal{}, fmt.Errorf("%w: targetRole must not be empty", ErrValidation)
	}
	if in.TargetLevel != nil {
		if level, err = ParseSeniority(*in.TargetLevel); err != nil {
			return Goal{}, err
		}
	}
	if in.TargetDate != nil {
		if date, err = ParseTargetDate(*in.TargetDate); err != nil {
			return Goal{}, err
		}
	}
	var skills []profile.Skill
	if in.JobRequirements != nil {
		if skills, err = s.loadSkills(ctx, userID); err != nil {
			return Goal{}, err
		}
	}

	var out Goal
	err = s.repo.InGoalTx(ctx, userID, goalID, func(ctx context.Context, tx Tx, goal Goal) error {
		if goal.Status == GoalAbandoned {
			return fmt.Errorf("%w: goal is abandoned", ErrInvalidTransition)
		}
		now := s.now()
		if in.TargetRole != nil {
			goal.TargetRole = strings.TrimSpace(*in.TargetRole)
		}
		if in.TargetCompany != nil {
			goal.TargetCompany = strings.TrimSpace(*in.TargetCompany)
		}
		if in.TargetLevel != nil {
			goal.TargetLevel = level
		}
		if in.TargetDate != nil {
			goal.TargetDate = date
		}
		goal.UpdatedAt = now
		if in.JobRequirements != nil && *in.JobRequirements != goal.JobRequirements {
			goal.JobRequirements = *in.JobRequirements
			if err := s.regenerate(ctx, tx, &goal, skills); err != nil {
				return err
			}
			out = goal
			return nil
		}
		out = goal
		return tx.UpdateGoal(ctx, goal)
	})
	if err != nil {
		return Goal{}, err
	}
	s.invalidate(ctx, userID)
	return out, nil
}

func (s *service) GetGoal(ctx context.Context, userID, goalID uuid.UUID) (Goal, error) {
	return s.repo.GetGoal(ctx, userID, goalID)
}

func (s *service) ListGoals(ctx context.Context, userID uuid.UUID, status string) ([]Goal, error) {
	var want GoalStatus
	if strings.TrimSpace(status) != "" {
		st, err := ParseGoalStatus(status)
		if err != nil {
			return nil, err
		}
		want = st
	}
	goals, err := s.repo.ListGoals(ctx, userID)
	if err != nil {
		return nil, err
	}
	out := make([]Goal, 0, len(goals))
	for _, g := range goals {
		if want == "" || g.Status == want {
			out = append(out, g)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].IsPrimary != out[j].IsPrimary {
			return out[i].IsPrimary
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (s *service) SetPrimaryGoal(ctx context.Context, userID, goalID uuid.UUID) (Goal, error) {
	return s.activate(ctx, userID, goalID, false)
}

func (s *service) ResumeGoal(ctx context.Context, userID, goalID uuid.UUID) (Goal, error) {
	return s.activate(ctx, userID, goalID, true)
}

// activate runs the deactivate-others-then-activate sequence under the user's lock.
func (s *service) activate(ctx context.Context, userID, goalID uuid.UUID, mustBePaused bool) (Goal, error) {
	var out Goal
	err := s.repo.InUserTx(ctx, userID, func(ctx context.Context, tx Tx) error {
		goal, err := tx.GetGoal(ctx, goalID)
		if err != nil {
			return err
		}
		if goal.UserID != userID {
			return ErrNotFound
		}
		if mustBePaused && goal.Status != GoalPaused {
			return fmt.Errorf("%w: only a paused goal can be resumed (goal is %s)", ErrInvalidTransition, goal.Status)
		}
		if err := goal.activate(s.now()); err != nil {
			return err
		}
		if err := tx.DemoteOtherGoals(ctx, userID, goal.ID); err != nil {
			return err
		}
		out = goal
		return tx.UpdateGoal(ctx, goal)
	})
	if err != nil {
		return Goal{}, err
	}
	s.invalidate(ctx, userID)
	s.log.Info("goal activated", "goal_id", goalID, "user_id", userID)
	return out, nil
}

func (s *service) AchieveGoal(ctx context.Context, userID, goalID uuid.UUID) (Goal, error) {
	return s.transition(ctx, userID, goalID, GoalAchieved)
}

func (s *service) PauseGoal(ctx context.Context, userID, goalID uuid.UUID) (Goal, error) {
	return s.transition(ctx, userID, goalID, GoalPaused)
}

func (s *service) DeleteGoal(ctx context.Context, userID, goalID uuid.UUID) (Goal, error) {
	return s.transition(ctx, userID, goalID, GoalAbandoned)
}

func (s *service) transition(ctx context.Context, userID, goalID uuid.UUID, to GoalStatus) (Goal, error) {
	var out Goal
	err := s.repo.InGoalTx(ctx, userID, goalID, func(ctx context.Context, tx Tx, goal Goal) error {
		if goal.Status == to && to == GoalAbandoned {
			out = goal
			return nil
		}
		if err := goal.transition(to, s.now()); err != nil {
			return err
		}
		out = goal
		return tx.UpdateGoal(ctx, goal)
	})
	if err != nil {
		return Goal{}, err
	}
	s.invalidate(ctx, userID)
	s.log.Info("goal status changed", "goal_id", goalID, "user_id", userID, "status", out.Status)
	return out, nil
}

func (s *service) AnalyzeGaps(ctx context.Context, userID, goalID uuid.UUID) (Goal, error) {
	skills, err := s.loadSkills(ctx, userID)
	if err != nil {
		return Goal{}, err
	}
	var out Goal
	err = s.repo.InGoalTx(ctx, userID, goalID, func(ctx context.Context, tx Tx, goal Goal) error {
		if goal.Status == GoalAbandoned {
			return fmt.Errorf("%w: goal is abandoned", ErrInvalidTransition)
		}
		if err := s.regenerate(ctx, tx, &goal, skills); err != nil {
			return err
		}
		out = goal
		return nil
	})
	if err != nil {
		return Goal{}, err
	}
	s.invalidate(ctx, userID)
	return out, nil
}

// regenerate computes the whole new gap and path set in memory, then swaps
// both collections in and stores the refreshed goal. Must run inside a goal
// or user transaction.
func (s *service) regenerate(ctx context.Context, tx Tx, goal *Goal, skills []profile.Skill) error {
	now := s.now()
	demand := s.engine.Extractor.Extract(goal.JobRequirements)
	res := s.engine.Analyzer.Analyze(demand, skills)
	gaps := res.Gaps
	for i := range gaps {
		gaps[i].ID = uuid.New()
		gaps[i].GoalID = goal.ID
		gaps[i].CreatedAt = now
		gaps[i].UpdatedAt = now
	}
	paths := s.engine.Synthesizer.Synthesize(*goal, gaps, now)

	if err := tx.ReplaceGaps(ctx, goal.ID, gaps); err != nil {
		return err
	}
	if err := tx.ReplacePaths(ctx, goal.ID, paths); err != nil {
		return err
	}

	score := res.MatchScore
	goal.MatchScore = &score
	goal.AnalysisSummary = Summarize(goal.TargetRole, score, gaps)
	goal.LastAnalyzedAt = &now
	goal.UpdatedAt = now
	RecomputeGoal(goal, paths, now)
	if err := tx.UpdateGoal(ctx, *goal); err != nil {
		return err
	}
	s.log.Info("gap analysis complete",
		"goal_id", goal.ID,
		"required", len(demand.Required),
		"preferred", len(demand.Preferred),
		"gaps", len(gaps),
		"paths", len(paths),
		"match_score", score,
	)
	return nil
}

func (s *service) ListGaps(ctx context.Context, userID, goalID uuid.UUID) ([]SkillGap, error) {
	gaps, err := s.repo.ListGaps(ctx, userID, goalID)
	if err != nil {
		return nil, err
	}
	sortGaps(gaps)
	if gaps == nil {
		gaps = []SkillGap{}
	}
	return gaps, nil
}

func (s *service) UpdateGapProgress(ctx context.Context, userID, gapID uuid.UUID, level int) (SkillGap, error) {
	if level < 0 || level > 100 {
		return SkillGap{}, fmt.Errorf("%w: level must be within 0..100", ErrValidation)
	}
	return s.mutateGap(ctx, userID, gapID, func(g *SkillGap, now time.Time) error {
		g.SetLevel(level, now)
		return nil
	})
}

func (s *service) UpdateGapStatus(ctx context.Context, userID, gapID uuid.UUID, status string) (SkillGap, error) {
	st, err := ParseGapStatus(status)
	if err != nil {
		return SkillGap{}, err
	}
	return s.mutateGap(ctx, userID, gapID, func(g *SkillGap, now time.Time) error {
		if st == GapResolved {
			if g.CurrentLevel < g.RequiredLevel {
				g.CurrentLevel = g.RequiredLevel
			}
		} else {
			if g.CurrentLevel >= g.RequiredLevel {
				return fmt.Errorf("%w: gap %q is already at the required level", ErrValidation, g.SkillName)
			}
			g.Status = st
		}
		g.syncStatus()
		g.UpdatedAt = now
		return nil
	})
}

// mutateGap applies fn to one gap and re-runs the goal rollup. Gap levels are
// advisory: goal progress is driven by milestones only, so the rollup here
// just keeps the goal consistent with its paths.
func (s *service) mutateGap(ctx context.Context, userID, gapID uuid.UUID, fn func(g *SkillGap, now time.Time) error) (SkillGap, error) {
	goalID, err := s.repo.GoalIDOfGap(ctx, userID, gapID)
	if err != nil {
		return SkillGap{}, err
	}
	var out SkillGap
	err = s.repo.InGoalTx(ctx, userID, goalID, func(ctx context.Context, tx Tx, goal Goal) error {
		gaps, err := tx.ListGaps(ctx, goalID)
		if err != nil {
			return err
		}
		idx := -1
		for i := range gaps {
			if gaps[i].ID == gapID {
				idx = i
				break
			}
		}
		// regenerated since the lookup
		if idx < 0 {
			return ErrNotFound
		}
		now := s.now()
		if err := fn(&gaps[idx], now); err != nil {
			return err
		}
		if err := tx.UpdateGap(ctx, gaps[idx]); err != nil {
			return err
		}
		out = gaps[idx]
		return s.rollupGoal(ctx, tx, goal, now)
	})
	if err != nil {
		return SkillGap{}, err
	}
	s.invalidate(ctx, userID)
	return out, nil
}

func (s *service) GenerateLearningPaths(ctx context.Context, userID, goalID uuid.UUID) ([]LearningPath, error) {
	var out []LearningPath
	err := s.repo.InGoalTx(ctx, userID, goalID, func(ctx context.Context, tx Tx, goal Goal) error {
		if goal.Status == GoalAbandoned {
			return fmt.Errorf("%w: goal is abandoned", ErrInvalidTransition)
		}
		gaps, err := tx.ListGaps(ctx, goalID)
		if err != nil {
			return err
		}
		now := s.now()
		paths := s.engine.Synthesizer.Synthesize(goal, gaps, now)
		if err := tx.ReplacePaths(ctx, goalID, paths); err != nil {
			return err
		}
		if RecomputeGoal(&goal, paths, now) {
			if err := tx.UpdateGoal(ctx, goal); err != nil {
				return err
			}
		}
		out = paths
		s.log.Info("learning paths generated", "goal_id", goalID, "paths", len(paths))
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx, userID)
	return out, nil
}

func (s *service) ListLearningPaths(ctx context.Context, userID, goalID uuid.UUID) ([]LearningPath, error) {
	paths, err := s.repo.ListPaths(ctx, userID, goalID)
	if err != nil {
		return nil, err
	}
	if paths == nil {
		paths = []LearningPath{}
	}
	return paths, nil
}

func (s *service) GetLearningPath(ctx context.Context, userID, pathID uuid.UUID) (LearningPath, error) {
	goalID, err := s.repo.GoalIDOfPath(ctx, userID, pathID)
	if err != nil {
		return LearningPath{}, err
	}
	paths, err := s.repo.ListPaths(ctx, userID, goalID)
	if err != nil {
		return LearningPath{}, err
	}
	for _, p := range paths {
		if p.ID == pathID {
			return p, nil
		}
	}
	return LearningPath{}, ErrNotFound
}

func (s *service) UpdatePathStatus(ctx context.Context, userID, pathID uuid.UUID, status string) (LearningPath, error) {
	st, err := ParsePathStatus(status)
	if err != nil {
		return LearningPath{}, err
	}
	if !pathTransitions[st] {
		return LearningPath{}, fmt.Errorf("%w: path status %s is derived from milestones", ErrInvalidTransition, st)
	}
	goalID, err := s.repo.GoalIDOfPath(ctx, userID, pathID)
	if err != nil {
		return LearningPath{}, err
	}
	var out LearningPath
	err = s.repo.InGoalTx(ctx, userID, goalID, func(ctx context.Context, tx Tx, goal Goal) error {
		paths, err := tx.ListPaths(ctx, goalID)
		if err != nil {
			return err
		}
		p, _, ok := findPath(paths, pathID)
		if !ok {
			return ErrNotFound
		}
		now := s.now()
		p.Status = st
		p.UpdatedAt = now
		// resuming hands the status back to the milestone rollup
		if st == PathNotStarted || st == PathInProgress {
			RecomputePath(p, now)
		}
		if err := tx.UpdatePath(ctx, *p); err != nil {
			return err
		}
		out = *p
		return nil
	})
	if err != nil {
		return LearningPath{}, err
	}
	s.invalidate(ctx, userID)
	return out, nil
}

func (s *service) CompleteMilestone(ctx context.Context, userID, milestoneID uuid.UUID) (LearningMilestone, error) {
	return s.mutateMilestone(ctx, userID, milestoneID, func(m *LearningMilestone, now time.Time) {
		m.SetCompleted(true, now)
	}, true)
}

func (s *service) UncompleteMilestone(ctx context.Context, userID, milestoneID uuid.UUID) (LearningMilestone, error) {
	return s.mutateMilestone(ctx, userID, milestoneID, func(m *LearningMilestone, now time.Time) {
		m.SetCompleted(false, now)
	}, true)
}

func (s *service) UpdateMilestoneNotes(ctx context.Context, userID, milestoneID uuid.UUID, notes string) (LearningMilestone, error) {
	return s.mutateMilestone(ctx, userID, milestoneID, func(m *LearningMilestone, now time.Time) {
		m.Notes = notes
		m.UpdatedAt = now
	}, false)
}

// mutateMilestone edits one milestone and, for completion toggles, rolls the
// change up to its path and goal in the same transaction.
func (s *service) mutateMilestone(ctx context.Context, userID, milestoneID uuid.UUID, fn func(m *LearningMilestone, now time.Time), rollup bool) (LearningMilestone, error) {
	goalID, err := s.repo.GoalIDOfMilestone(ctx, userID, milestoneID)
	if err != nil {
		return LearningMilestone{}, err
	}
	var out LearningMilestone
	err = s.repo.InGoalTx(ctx, userID, goalID, func(ctx context.Context, tx Tx, goal Goal) error {
		paths, err := tx.ListPaths(ctx, goalID)
		if err != nil {
			return err
		}
		p, idx, ok := findMilestone(paths, milestoneID)
		if !ok {
			return ErrNotFound
		}
		now := s.now()
		fn(&p.Milestones[idx], now)
		if err := tx.UpdateMilestone(ctx, p.Milestones[idx]); err != nil {
			return err
		}
		out = p.Milestones[idx]
		if !rollup {
			return nil
		}
		if RecomputePath(p, now) {
			if err := tx.UpdatePath(ctx, *p); err != nil {
				return err
			}
		}
		if RecomputeGoal(&goal, paths, now) {
			if err := tx.UpdateGoal(ctx, goal); err != nil {
				return err
			}
		}
		s.log.Info("milestone rollup",
			"milestone_id", milestoneID,
			"completed", out.IsCompleted,
			"path_id", p.ID,
			"path_completion", p.CompletionPercent,
			"goal_id", goal.ID,
			"goal_progress", goal.ProgressPercent,
			"goal_status", goal.Status,
		)
		return nil
	})
	if err != nil {
		return LearningMilestone{}, err
	}
	s.invalidate(ctx, userID)
	return out, nil
}

// rollupGoal recomputes goal progress from the stored paths.
func (s *service) rollupGoal(ctx context.Context, tx Tx, goal Goal, now time.Time) error {
	paths, err := tx.ListPaths(ctx, goal.ID)
	if err != nil {
		return err
	}
	if RecomputeGoal(&goal, paths, now) {
		return tx.UpdateGoal(ctx, goal)
	}
	return nil
}

func (s *service) loadSkills(ctx context.Context, userID uuid.UUID) ([]profile.Skill, error) {
	if s.skills == nil {
		return nil, nil
	}
	skills, err := s.skills.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load profile skills: %w", err)
	}
	return skills, nil
}

func (s *service) invalidate(ctx context.Context, userID uuid.UUID) {
	if err := s.cache.Invalidate(ctx, userID); err != nil {
		s.log.Warn("summary cache invalidate failed", "user_id", userID, "error", err)
	}
}

func findPath(paths []LearningPath, pathID uuid.UUID) (*LearningPath, int, bool) {
	for i := range paths {
		if paths[i].ID == pathID {
			return &paths[i], i, true
		}
	}
	return nil, -1, false
}

func findMilestone(paths []LearningPath, milestoneID uuid.UUID) (*LearningPath, int, bool) {
	for i := range paths {
		for j := range paths[i].Milestones {
			if paths[i].Milestones[j].ID == milestoneID {
				return &paths[i], j, true
			}
		}
	}
	return nil, -1, false
}

// sortGaps orders gaps by priority, then by name.
func sortGaps(gaps []SkillGap) {
	sort.SliceStable(gaps, func(i, j int) bool {
		ri, rj := priorityRank[gaps[i].Priority], priorityRank[gaps[j].Priority]
		if ri != rj {
			return ri < rj
		}
		return gaps[i].SkillName < gaps[j].SkillName
	})
}
