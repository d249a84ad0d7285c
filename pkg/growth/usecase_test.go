package growth_test

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/artem13815/growth/pkg/growth"
	"github.com/artem13815/growth/pkg/logger"
	"github.com/artem13815/growth/pkg/profile"
	"github.com/artem13815/growth/pkg/repository/memory"
	"github.com/artem13815/growth/pkg/taxonomy"
)

type fixture struct {
	svc    growth.UseCase
	repo   *memory.GrowthRepository
	skills *memory.SkillRepository
	cache  *countingCache
	user   uuid.UUID
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	repo := memory.NewGrowthRepository()
	skills := memory.NewSkillRepository()
	cache := &countingCache{}
	engine := growth.NewEngine(taxonomy.Default(), growth.ExperienceBands{}, 70, 50)
	return &fixture{
		svc:    growth.NewService(repo, skills, engine, cache, logger.Nop()),
		repo:   repo,
		skills: skills,
		cache:  cache,
		user:   uuid.New(),
	}
}

func (f *fixture) addSkill(t *testing.T, name string, years *int) {
	t.Helper()
	_, err := f.skills.Upsert(context.Background(), profile.Skill{ID: uuid.New(), UserID: f.user, Name: name, YearsOfExperience: years})
	require.NoError(t, err)
}

func (f *fixture) createGoal(t *testing.T, role, requirements string) growth.Goal {
	t.Helper()
	g, err := f.svc.CreateGoal(context.Background(), f.user, growth.GoalInput{TargetRole: role, JobRequirements: requirements})
	require.NoError(t, err)
	return g
}

// countingCache is an in-memory SummaryCache that records invalidations.
// beforeSet, when set, runs once just before the next Set stores anything.
type countingCache struct {
	mu          sync.Mutex
	gens        map[uuid.UUID]int64
	items       map[uuid.UUID]cachedSummary
	invalidated int
	beforeSet   func()
}

type cachedSummary struct {
	gen int64
	sum growth.Summary
}

func (c *countingCache) Get(_ context.Context, userID uuid.UUID) (growth.Summary, int64, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	gen := c.gens[userID]
	item, ok := c.items[userID]
	if !ok || item.gen != gen {
		return growth.Summary{}, gen, false, nil
	}
	return item.sum, gen, true, nil
}

func (c *countingCache) Set(_ context.Context, userID uuid.UUID, gen int64, s growth.Summary) error {
	c.mu.Lock()
	hook := c.beforeSet
	c.beforeSet = nil
	c.mu.Unlock()
	if hook != nil {
		hook()
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.items == nil {
		c.items = map[uuid.UUID]cachedSummary{}
	}
	c.items[userID] = cachedSummary{gen: gen, sum: s}
	return nil
}

func (c *countingCache) Invalidate(_ context.Context, userID uuid.UUID) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.gens == nil {
		c.gens = map[uuid.UUID]int64{}
	}
	c.gens[userID]++
	c.invalidated++
	return nil
}

func intPtr(v int) *int { return &v }

func TestScenarioNoSkills(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	goal := f.createGoal(t, "Cloud Engineer", "Python, Docker, AWS")
	require.NotNil(t, goal.MatchScore)
	assert.Equal(t, 0, *goal.MatchScore)
	assert.NotNil(t, goal.LastAnalyzedAt)
	assert.Contains(t, goal.AnalysisSummary, "Significant skill gaps")

	gaps, err := f.svc.ListGaps(ctx, f.user, goal.ID)
	require.NoError(t, err)
	require.Len(t, gaps, 3)
	for _, g := range gaps {
		assert.Equal(t, growth.PriorityHigh, g.Priority)
		assert.Equal(t, 0, g.CurrentLevel)
		assert.Equal(t, 70, g.RequiredLevel)
	}

	paths, err := f.svc.GenerateLearningPaths(ctx, f.user, goal.ID)
	require.NoError(t, err)
	require.Len(t, paths, 3)
	focus := []taxonomy.Category{paths[0].FocusArea, paths[1].FocusArea, paths[2].FocusArea}
	assert.ElementsMatch(t, []taxonomy.Category{taxonomy.CategoryLanguage, taxonomy.CategoryCloud, taxonomy.CategoryDevOps}, focus)
}

func TestScenarioSkillCovers(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.addSkill(t, "Python", intPtr(5))

	goal := f.createGoal(t, "Data Engineer", "Python")
	require.NotNil(t, goal.MatchScore)
	assert.Equal(t, 100, *goal.MatchScore)

	gaps, err := f.svc.ListGaps(ctx, f.user, goal.ID)
	require.NoError(t, err)
	assert.Empty(t, gaps)

	paths, err := f.svc.GenerateLearningPaths(ctx, f.user, goal.ID)
	require.NoError(t, err)
	assert.Empty(t, paths)
}

func TestScenarioMilestonesDriveGoal(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	goal := f.createGoal(t, "Polyglot", "Python, Java, Rust, Kotlin")
	paths, err := f.svc.ListLearningPaths(ctx, f.user, goal.ID)
	require.NoError(t, err)
	require.Len(t, paths, 1)
	require.Len(t, paths[0].Milestones, 4)
	ms := paths[0].Milestones

	for _, m := range ms[:2] {
		_, err := f.svc.CompleteMilestone(ctx, f.user, m.ID)
		require.NoError(t, err)
	}
	path, err := f.svc.GetLearningPath(ctx, f.user, paths[0].ID)
	require.NoError(t, err)
	assert.Equal(t, 50, path.CompletionPercent)
	assert.Equal(t, growth.PathInProgress, path.Status)

	got, err := f.svc.GetGoal(ctx, f.user, goal.ID)
	require.NoError(t, err)
	assert.Equal(t, 50, got.ProgressPercent)

	for _, m := range ms[2:] {
		done, err := f.svc.CompleteMilestone(ctx, f.user, m.ID)
		require.NoError(t, err)
		assert.True(t, done.IsCompleted)
		assert.NotNil(t, done.CompletedAt)
	}
	path, err = f.svc.GetLearningPath(ctx, f.user, paths[0].ID)
	require.NoError(t, err)
	assert.Equal(t, 100, path.CompletionPercent)
	assert.Equal(t, growth.PathCompleted, path.Status)

	got, err = f.svc.GetGoal(ctx, f.user, goal.ID)
	require.NoError(t, err)
	assert.Equal(t, 100, got.ProgressPercent)
	assert.Equal(t, growth.GoalAchieved, got.Status)

	// achieved is sticky
	_, err = f.svc.UncompleteMilestone(ctx, f.user, ms[3].ID)
	require.NoError(t, err)
	got, err = f.svc.GetGoal(ctx, f.user, goal.ID)
	require.NoError(t, err)
	assert.Equal(t, 75, got.ProgressPercent)
	assert.Equal(t, growth.GoalAchieved, got.Status)
}

func TestMilestoneToggleRoundTrip(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	goal := f.createGoal(t, "Backend", "Go, PostgreSQL, Redis")

	paths, err := f.svc.ListLearningPaths(ctx, f.user, goal.ID)
	require.NoError(t, err)
	require.NotEmpty(t, paths)
	before := paths[0]
	m := before.Milestones[0]

	_, err = f.svc.CompleteMilestone(ctx, f.user, m.ID)
	require.NoError(t, err)
	_, err = f.svc.UncompleteMilestone(ctx, f.user, m.ID)
	require.NoError(t, err)

	after, err := f.svc.GetLearningPath(ctx, f.user, before.ID)
	require.NoError(t, err)
	assert.Equal(t, before.CompletionPercent, after.CompletionPercent)
	assert.Equal(t, before.Status, after.Status)
	assert.False(t, after.Milestones[0].IsCompleted)
	assert.Nil(t, after.Milestones[0].CompletedAt)
}

func TestAnalyzeGapsIsIdempotent(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.addSkill(t, "Go", intPtr(1))
	goal := f.createGoal(t, "Platform Engineer", "Requirements: Go, Kubernetes, Terraform.\nNice to have: Kafka")

	first, err := f.svc.ListGaps(ctx, f.user, goal.ID)
	require.NoError(t, err)

	again, err := f.svc.AnalyzeGaps(ctx, f.user, goal.ID)
	require.NoError(t, err)
	second, err := f.svc.ListGaps(ctx, f.user, goal.ID)
	require.NoError(t, err)

	assert.Equal(t, *goal.MatchScore, *again.MatchScore)
	require.Len(t, second, len(first))
	for i := range first {
		assert.Equal(t, first[i].SkillName, second[i].SkillName)
		assert.Equal(t, first[i].Category, second[i].Category)
		assert.Equal(t, first[i].Priority, second[i].Priority)
		assert.Equal(t, first[i].EstimatedHours, second[i].EstimatedHours)
		assert.NotEqual(t, first[i].ID, second[i].ID)
	}
}

func TestSinglePrimaryGoal(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	a := f.createGoal(t, "Backend", "Go")
	b := f.createGoal(t, "Frontend", "React")
	assertOnePrimary(t, f, b.ID)

	_, err := f.svc.SetPrimaryGoal(ctx, f.user, a.ID)
	require.NoError(t, err)
	assertOnePrimary(t, f, a.ID)

	_, err = f.svc.PauseGoal(ctx, f.user, b.ID)
	require.NoError(t, err)
	resumed, err := f.svc.ResumeGoal(ctx, f.user, b.ID)
	require.NoError(t, err)
	assert.Equal(t, growth.GoalActive, resumed.Status)
	assertOnePrimary(t, f, b.ID)

	_, err = f.svc.ResumeGoal(ctx, f.user, b.ID)
	assert.ErrorIs(t, err, growth.ErrInvalidTransition)
}

func assertOnePrimary(t *testing.T, f *fixture, want uuid.UUID) {
	t.Helper()
	goals, err := f.svc.ListGoals(context.Background(), f.user, "")
	require.NoError(t, err)
	primaries := 0
	for _, g := range goals {
		if g.IsPrimary {
			primaries++
			assert.Equal(t, want, g.ID)
		}
	}
	assert.Equal(t, 1, primaries)
	assert.Equal(t, want, goals[0].ID, "primary goal is listed first")
}

func TestGoalLifecycle(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	g := f.createGoal(t, "SRE", "Prometheus, Grafana")
	deleted, err := f.svc.DeleteGoal(ctx, f.user, g.ID)
	require.NoError(t, err)
	assert.Equal(t, growth.GoalAbandoned, deleted.Status)
	assert.False(t, deleted.IsPrimary)

	again, err := f.svc.DeleteGoal(ctx, f.user, g.ID)
	require.NoError(t, err)
	assert.Equal(t, growth.GoalAbandoned, again.Status)

	_, err = f.svc.SetPrimaryGoal(ctx, f.user, g.ID)
	assert.ErrorIs(t, err, growth.ErrInvalidTransition)
	_, err = f.svc.AnalyzeGaps(ctx, f.user, g.ID)
	assert.ErrorIs(t, err, growth.ErrInvalidTransition)

	h := f.createGoal(t, "SRE", "Linux")
	achieved, err := f.svc.AchieveGoal(ctx, f.user, h.ID)
	require.NoError(t, err)
	assert.Equal(t, growth.GoalAchieved, achieved.Status)
	_, err = f.svc.DeleteGoal(ctx, f.user, h.ID)
	assert.ErrorIs(t, err, growth.ErrInvalidTransition)
	_, err = f.svc.PauseGoal(ctx, f.user, h.ID)
	assert.ErrorIs(t, err, growth.ErrInvalidTransition)

	active, err := f.svc.ListGoals(ctx, f.user, "achieved")
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, h.ID, active[0].ID)

	_, err = f.svc.ListGoals(ctx, f.user, "finished")
	assert.ErrorIs(t, err, growth.ErrValidation)
}

func TestOwnershipIsNotFound(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	g := f.createGoal(t, "Backend", "Go, Docker")
	stranger := uuid.New()

	_, err := f.svc.GetGoal(ctx, stranger, g.ID)
	assert.ErrorIs(t, err, growth.ErrNotFound)
	_, err = f.svc.AnalyzeGaps(ctx, stranger, g.ID)
	assert.ErrorIs(t, err, growth.ErrNotFound)
	_, err = f.svc.SetPrimaryGoal(ctx, stranger, g.ID)
	assert.ErrorIs(t, err, growth.ErrNotFound)
	_, err = f.svc.ListGaps(ctx, stranger, g.ID)
	assert.ErrorIs(t, err, growth.ErrNotFound)

	gaps, err := f.svc.ListGaps(ctx, f.user, g.ID)
	require.NoError(t, err)
	_, err = f.svc.UpdateGapProgress(ctx, stranger, gaps[0].ID, 50)
	assert.ErrorIs(t, err, growth.ErrNotFound)

	paths, err := f.svc.ListLearningPaths(ctx, f.user, g.ID)
	require.NoError(t, err)
	_, err = f.svc.CompleteMilestone(ctx, stranger, paths[0].Milestones[0].ID)
	assert.ErrorIs(t, err, growth.ErrNotFound)
	_, err = f.svc.GetLearningPath(ctx, stranger, paths[0].ID)
	assert.ErrorIs(t, err, growth.ErrNotFound)
}

func TestCreateGoalValidation(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	_, err := f.svc.CreateGoal(ctx, f.user, growth.GoalInput{TargetRole: " "})
	assert.ErrorIs(t, err, growth.ErrValidation)
	_, err = f.svc.CreateGoal(ctx, f.user, growth.GoalInput{TargetRole: "Dev", TargetDate: "next year"})
	assert.ErrorIs(t, err, growth.ErrValidation)
	_, err = f.svc.CreateGoal(ctx, f.user, growth.GoalInput{TargetRole: "Dev", TargetLevel: "wizard"})
	assert.ErrorIs(t, err, growth.ErrValidation)

	g, err := f.svc.CreateGoal(ctx, f.user, growth.GoalInput{TargetRole: "Dev", TargetLevel: "senior", TargetDate: "2027-01-31"})
	require.NoError(t, err)
	assert.Equal(t, growth.SenioritySenior, g.TargetLevel)
	require.NotNil(t, g.TargetDate)
	require.NotNil(t, g.MatchScore)
	assert.Equal(t, 50, *g.MatchScore)
	assert.Equal(t, growth.GoalActive, g.Status)
	assert.True(t, g.IsPrimary)
}

func TestGapProgressAndStatus(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	g := f.createGoal(t, "Backend", "Go, Docker")
	gaps, err := f.svc.ListGaps(ctx, f.user, g.ID)
	require.NoError(t, err)
	gap := gaps[0]

	_, err = f.svc.UpdateGapProgress(ctx, f.user, gap.ID, 101)
	assert.ErrorIs(t, err, growth.ErrValidation)

	updated, err := f.svc.UpdateGapProgress(ctx, f.user, gap.ID, 40)
	require.NoError(t, err)
	assert.Equal(t, growth.GapInProgress, updated.Status)

	updated, err = f.svc.UpdateGapProgress(ctx, f.user, gap.ID, 70)
	require.NoError(t, err)
	assert.Equal(t, growth.GapResolved, updated.Status)

	_, err = f.svc.UpdateGapStatus(ctx, f.user, gap.ID, "deferred")
	assert.ErrorIs(t, err, growth.ErrValidation)

	updated, err = f.svc.UpdateGapProgress(ctx, f.user, gap.ID, 10)
	require.NoError(t, err)
	assert.Equal(t, growth.GapInProgress, updated.Status)

	updated, err = f.svc.UpdateGapStatus(ctx, f.user, gap.ID, "DEFERRED")
	require.NoError(t, err)
	assert.Equal(t, growth.GapDeferred, updated.Status)

	updated, err = f.svc.UpdateGapStatus(ctx, f.user, gap.ID, "RESOLVED")
	require.NoError(t, err)
	assert.Equal(t, growth.GapResolved, updated.Status)
	assert.Equal(t, updated.RequiredLevel, updated.CurrentLevel)

	// gap levels never move goal progress
	got, err := f.svc.GetGoal(ctx, f.user, g.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, got.ProgressPercent)

	// resolved gaps drop out of regenerated paths
	paths, err := f.svc.GenerateLearningPaths(ctx, f.user, g.ID)
	require.NoError(t, err)
	for _, p := range paths {
		for _, m := range p.Milestones {
			assert.NotEqual(t, "Learn "+gap.SkillName, m.Title)
		}
	}

	for _, gp := range mustGaps(t, f, g.ID) {
		assert.Equal(t, gp.CurrentLevel >= gp.RequiredLevel, gp.Status == growth.GapResolved, gp.SkillName)
	}
}

func mustGaps(t *testing.T, f *fixture, goalID uuid.UUID) []growth.SkillGap {
	t.Helper()
	gaps, err := f.svc.ListGaps(context.Background(), f.user, goalID)
	require.NoError(t, err)
	return gaps
}

func TestUpdatePathStatus(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	g := f.createGoal(t, "Backend", "Go, Java")
	paths, err := f.svc.ListLearningPaths(ctx, f.user, g.ID)
	require.NoError(t, err)
	p := paths[0]

	_, err = f.svc.UpdatePathStatus(ctx, f.user, p.ID, "COMPLETED")
	assert.ErrorIs(t, err, growth.ErrInvalidTransition)

	paused, err := f.svc.UpdatePathStatus(ctx, f.user, p.ID, "paused")
	require.NoError(t, err)
	assert.Equal(t, growth.PathPaused, paused.Status)

	_, err = f.svc.CompleteMilestone(ctx, f.user, p.Milestones[0].ID)
	require.NoError(t, err)

	resumed, err := f.svc.UpdatePathStatus(ctx, f.user, p.ID, "NOT_STARTED")
	require.NoError(t, err)
	assert.Equal(t, growth.PathInProgress, resumed.Status)
	assert.Equal(t, 50, resumed.CompletionPercent)
}

func TestMilestoneNotes(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	g := f.createGoal(t, "Backend", "Go")
	paths, err := f.svc.ListLearningPaths(ctx, f.user, g.ID)
	require.NoError(t, err)

	m, err := f.svc.UpdateMilestoneNotes(ctx, f.user, paths[0].Milestones[0].ID, "finished chapter 3")
	require.NoError(t, err)
	assert.Equal(t, "finished chapter 3", m.Notes)
	assert.False(t, m.IsCompleted)

	p, err := f.svc.GetLearningPath(ctx, f.user, paths[0].ID)
	require.NoError(t, err)
	assert.Equal(t, "finished chapter 3", p.Milestones[0].Notes)
	assert.Equal(t, growth.PathNotStarted, p.Status)
}

func TestUpdateGoalReanalyzes(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	g := f.createGoal(t, "Backend", "Go")

	role := "Senior Backend"
	renamed, err := f.svc.UpdateGoal(ctx, f.user, g.ID, growth.GoalUpdate{TargetRole: &role})
	require.NoError(t, err)
	assert.Equal(t, role, renamed.TargetRole)
	assert.Len(t, mustGaps(t, f, g.ID), 1)

	req := "Go, Kafka, Kubernetes"
	updated, err := f.svc.UpdateGoal(ctx, f.user, g.ID, growth.GoalUpdate{JobRequirements: &req})
	require.NoError(t, err)
	assert.Equal(t, req, updated.JobRequirements)
	assert.Len(t, mustGaps(t, f, g.ID), 3)

	empty := ""
	_, err = f.svc.UpdateGoal(ctx, f.user, g.ID, growth.GoalUpdate{TargetRole: &empty})
	assert.ErrorIs(t, err, growth.ErrValidation)
}

func TestGrowthSummary(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	empty, err := f.svc.GetGrowthSummary(ctx, f.user)
	require.NoError(t, err)
	assert.Zero(t, empty.ActiveGoals)
	assert.Nil(t, empty.PrimaryGoal)
	assert.NotNil(t, empty.RecentGaps)

	g := f.createGoal(t, "Cloud Engineer", "Python, Docker, AWS")
	paths, err := f.svc.ListLearningPaths(ctx, f.user, g.ID)
	require.NoError(t, err)
	_, err = f.svc.CompleteMilestone(ctx, f.user, paths[0].Milestones[0].ID)
	require.NoError(t, err)

	sum, err := f.svc.GetGrowthSummary(ctx, f.user)
	require.NoError(t, err)
	assert.Equal(t, 1, sum.ActiveGoals)
	assert.Equal(t, 0, sum.AchievedGoals)
	assert.Equal(t, 3, sum.TotalGaps)
	assert.Equal(t, 3, sum.CriticalGaps)
	assert.Equal(t, 1, sum.CompletedPaths)
	assert.Equal(t, 0, sum.InProgressPaths)
	assert.Equal(t, 33, sum.AverageProgress)
	assert.Equal(t, 56+35+28-paths[0].Milestones[0].EstimatedHours, sum.RemainingHours)
	require.NotNil(t, sum.PrimaryGoal)
	assert.Equal(t, g.ID, sum.PrimaryGoal.ID)
	assert.Len(t, sum.RecentGaps, 3)
	assert.Len(t, sum.CurrentPaths, 2)
	require.Len(t, sum.RecentMilestones, 1)

	// cached until the next write
	cached, err := f.svc.GetGrowthSummary(ctx, f.user)
	require.NoError(t, err)
	assert.Equal(t, sum.RemainingHours, cached.RemainingHours)

	before := f.cache.invalidated
	_, err = f.svc.UncompleteMilestone(ctx, f.user, paths[0].Milestones[0].ID)
	require.NoError(t, err)
	assert.Greater(t, f.cache.invalidated, before)

	fresh, err := f.svc.GetGrowthSummary(ctx, f.user)
	require.NoError(t, err)
	assert.Equal(t, 0, fresh.CompletedPaths)
	assert.Empty(t, fresh.RecentMilestones)
}

func TestConcurrentMilestoneToggles(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	g := f.createGoal(t, "Polyglot", "Python, Java, Rust, Kotlin, Swift, Ruby")
	paths, err := f.svc.ListLearningPaths(ctx, f.user, g.ID)
	require.NoError(t, err)
	require.Len(t, paths, 1)

	var wg sync.WaitGroup
	for _, m := range paths[0].Milestones {
		wg.Add(1)
		go func(id uuid.UUID) {
			defer wg.Done()
			_, err := f.svc.CompleteMilestone(ctx, f.user, id)
			assert.NoError(t, err)
		}(m.ID)
	}
	wg.Add(1)
	go func() {
		defer wg.Done()
		_, _ = f.svc.GetGrowthSummary(ctx, f.user)
	}()
	wg.Wait()

	p, err := f.svc.GetLearningPath(ctx, f.user, paths[0].ID)
	require.NoError(t, err)
	assert.Equal(t, 100, p.CompletionPercent)
	got, err := f.svc.GetGoal(ctx, f.user, g.ID)
	require.NoError(t, err)
	assert.Equal(t, growth.GoalAchieved, got.Status)
}

func TestSummaryBuiltBeforeAWriteIsNotCached(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	g := f.createGoal(t, "Cloud Engineer", "Python, Docker, AWS")
	paths, err := f.svc.ListLearningPaths(ctx, f.user, g.ID)
	require.NoError(t, err)

	// the write commits after the summary was built but before it is stored
	f.cache.beforeSet = func() {
		_, err := f.svc.CompleteMilestone(ctx, f.user, paths[0].Milestones[0].ID)
		assert.NoError(t, err)
	}
	first, err := f.svc.GetGrowthSummary(ctx, f.user)
	require.NoError(t, err)
	assert.Empty(t, first.RecentMilestones)

	second, err := f.svc.GetGrowthSummary(ctx, f.user)
	require.NoError(t, err)
	assert.Len(t, second.RecentMilestones, 1)
	assert.Equal(t, 1, second.CompletedPaths)
}

func TestRegenerationRacingMilestoneToggles(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	g := f.createGoal(t, "Cloud Engineer", "Python, Docker, AWS")
	paths, err := f.svc.ListLearningPaths(ctx, f.user, g.ID)
	require.NoError(t, err)

	old := map[uuid.UUID]struct{}{}
	var toggles []uuid.UUID
	for _, p := range paths {
		for _, m := range p.Milestones {
			old[m.ID] = struct{}{}
			toggles = append(toggles, m.ID)
		}
	}
	// one milestone stays open so the goal cannot reach ACHIEVED first
	toggles = toggles[:len(toggles)-1]

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.svc.AnalyzeGaps(ctx, f.user, g.ID)
			assert.NoError(t, err)
		}()
	}
	for _, id := range toggles {
		wg.Add(2)
		go func(id uuid.UUID) {
			defer wg.Done()
			if _, err := f.svc.CompleteMilestone(ctx, f.user, id); err != nil {
				assert.ErrorIs(t, err, growth.ErrNotFound)
			}
		}(id)
		go func(id uuid.UUID) {
			defer wg.Done()
			if _, err := f.svc.UncompleteMilestone(ctx, f.user, id); err != nil {
				assert.ErrorIs(t, err, growth.ErrNotFound)
			}
		}(id)
	}
	wg.Wait()

	got, err := f.svc.ListLearningPaths(ctx, f.user, g.ID)
	require.NoError(t, err)
	require.Len(t, got, len(paths))
	for _, p := range got {
		assert.Equal(t, 0, p.CompletionPercent)
		assert.Equal(t, growth.PathNotStarted, p.Status)
		for _, m := range p.Milestones {
			assert.NotContains(t, old, m.ID)
			assert.False(t, m.IsCompleted)
		}
	}
	assert.Len(t, mustGaps(t, f, g.ID), 3)

	goal, err := f.svc.GetGoal(ctx, f.user, g.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, goal.ProgressPercent)
	assert.Equal(t, growth.GoalActive, goal.Status)
}
