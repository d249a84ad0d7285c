package postgres_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/artem13815/growth/pkg/growth"
	"github.com/artem13815/growth/pkg/logger"
	"github.com/artem13815/growth/pkg/profile"
	pgrepo "github.com/artem13815/growth/pkg/repository/postgres"
	"github.com/artem13815/growth/pkg/storage/postgres"
	"github.com/artem13815/growth/pkg/taxonomy"
)

func connect(t *testing.T) *pgxpool.Pool {
	t.Helper()
	dsn := os.Getenv("TEST_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("TEST_POSTGRES_DSN not set")
	}
	ctx := context.Background()
	pool, err := postgres.Connect(ctx, dsn, postgres.PoolOptions{MaxConns: 4, ConnectTimeout: 5 * time.Second})
	require.NoError(t, err)
	t.Cleanup(pool.Close)
	require.NoError(t, postgres.Migrate(ctx, pool))
	return pool
}

func TestGrowthRepositoryEndToEnd(t *testing.T) {
	pool := connect(t)
	ctx := context.Background()
	table := taxonomy.Default()
	skills := pgrepo.NewSkillRepository(pool)
	repo := pgrepo.NewGrowthRepository(pool)
	svc := growth.NewService(repo, skills, growth.NewEngine(table, growth.ExperienceBands{}, 70, 50), nil, logger.Nop())
	user := uuid.New()

	years := 5
	_, err := skills.Upsert(ctx, profile.Skill{
		ID: uuid.New(), UserID: user, Name: "Python", Category: table.Categorize("Python"),
		YearsOfExperience: &years, UpdatedAt: time.Now().UTC(),
	})
	require.NoError(t, err)

	first, err := svc.CreateGoal(ctx, user, growth.GoalInput{TargetRole: "Backend", JobRequirements: "Requirements: Python, Docker, AWS"})
	require.NoError(t, err)
	require.NotNil(t, first.MatchScore)
	assert.Equal(t, 33, *first.MatchScore)

	gaps, err := repo.ListGaps(ctx, user, first.ID)
	require.NoError(t, err)
	assert.Len(t, gaps, 2)

	paths, err := repo.ListPaths(ctx, user, first.ID)
	require.NoError(t, err)
	require.NotEmpty(t, paths)
	for i := 1; i < len(paths); i++ {
		assert.Less(t, paths[i-1].SortOrder, paths[i].SortOrder)
	}

	// second goal takes the primary flag under the partial unique index
	second, err := svc.CreateGoal(ctx, user, growth.GoalInput{TargetRole: "SRE", JobRequirements: "Linux, Kubernetes"})
	require.NoError(t, err)
	assert.True(t, second.IsPrimary)
	first, err = repo.GetGoal(ctx, user, first.ID)
	require.NoError(t, err)
	assert.False(t, first.IsPrimary)

	m := paths[0].Milestones[0]
	done, err := svc.CompleteMilestone(ctx, user, m.ID)
	require.NoError(t, err)
	assert.True(t, done.IsCompleted)
	recent, err := repo.RecentMilestones(ctx, user, 5)
	require.NoError(t, err)
	require.Len(t, recent, 1)
	assert.Equal(t, m.ID, recent[0].ID)

	_, err = repo.GetGoal(ctx, uuid.New(), first.ID)
	assert.ErrorIs(t, err, growth.ErrNotFound)
	_, err = repo.GoalIDOfMilestone(ctx, uuid.New(), m.ID)
	assert.ErrorIs(t, err, growth.ErrNotFound)
}

func TestSkillRepositoryUpsertIsCaseInsensitive(t *testing.T) {
	pool := connect(t)
	ctx := context.Background()
	skills := pgrepo.NewSkillRepository(pool)
	user := uuid.New()

	a, err := skills.Upsert(ctx, profile.Skill{ID: uuid.New(), UserID: user, Name: "Docker", Category: taxonomy.CategoryDevOps, UpdatedAt: time.Now().UTC()})
	require.NoError(t, err)
	b, err := skills.Upsert(ctx, profile.Skill{ID: uuid.New(), UserID: user, Name: "docker", Category: taxonomy.CategoryDevOps, UpdatedAt: time.Now().UTC()})
	require.NoError(t, err)
	assert.Equal(t, a.ID, b.ID)

	list, err := skills.ListByUser(ctx, user)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	require.NoError(t, skills.DeleteForOwner(ctx, user, a.ID))
	assert.ErrorIs(t, skills.DeleteForOwner(ctx, user, a.ID), profile.ErrNotFound)
}
