package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/artem13815/growth/pkg/growth"
	"github.com/artem13815/growth/pkg/taxonomy"
)

// querier is what both the pool and a transaction offer.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults
}

// GrowthRepository implements growth.Repository on PostgreSQL. Goal-set
// changes take a transaction-scoped advisory lock on the user; subtree
// changes lock the goal row.
type GrowthRepository struct {
	pool *pgxpool.Pool
}

func NewGrowthRepository(pool *pgxpool.Pool) *GrowthRepository {
	return &GrowthRepository{pool: pool}
}

const goalColumns = `id, user_id, target_role, target_company, target_level, job_requirements, target_date,
	progress_percent, status, is_primary, match_score, analysis_summary, last_analyzed_at, created_at, updated_at`

const gapColumns = `id, goal_id, skill_name, category, current_level, required_level, priority, status,
	is_required, is_preferred, estimated_hours, recommendation, suggested_resources, created_at, updated_at`

const pathColumns = `id, goal_id, title, description, focus_area, difficulty, estimated_hours, target_date,
	completion_percent, status, sort_order, created_at, updated_at`

const milestoneColumns = `id, path_id, title, description, milestone_type, estimated_hours, resource, sort_order,
	is_completed, completed_at, notes, created_at, updated_at`

func (r *GrowthRepository) InUserTx(ctx context.Context, userID uuid.UUID, fn func(ctx context.Context, tx growth.Tx) error) error {
	return pgx.BeginTxFunc(ctx, r.pool, pgx.TxOptions{}, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtextextended($1::text, 0))`, userID.String()); err != nil {
			return fmt.Errorf("lock user: %w", err)
		}
		return fn(ctx, &pgTx{q: tx})
	})
}

func (r *GrowthRepository) InGoalTx(ctx context.Context, userID, goalID uuid.UUID, fn func(ctx context.Context, tx growth.Tx, goal growth.Goal) error) error {
	return pgx.BeginTxFunc(ctx, r.pool, pgx.TxOptions{}, func(tx pgx.Tx) error {
		goal, err := scanGoal(tx.QueryRow(ctx, `SELECT `+goalColumns+` FROM growth_goals WHERE id = $1 AND user_id = $2 FOR UPDATE`, goalID, userID))
		if err != nil {
			return err
		}
		return fn(ctx, &pgTx{q: tx}, goal)
	})
}

func (r *GrowthRepository) GetGoal(ctx context.Context, userID, goalID uuid.UUID) (growth.Goal, error) {
	return scanGoal(r.pool.QueryRow(ctx, `SELECT `+goalColumns+` FROM growth_goals WHERE id = $1 AND user_id = $2`, goalID, userID))
}

func (r *GrowthRepository) ListGoals(ctx context.Context, userID uuid.UUID) ([]growth.Goal, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+goalColumns+` FROM growth_goals WHERE user_id = $1 ORDER BY created_at DESC, id`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []growth.Goal
	for rows.Next() {
		g, err := scanGoal(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, g)
	}
	return out, rows.Err()
}

func (r *GrowthRepository) ListGaps(ctx context.Context, userID, goalID uuid.UUID) ([]growth.SkillGap, error) {
	if err := r.checkOwner(ctx, userID, goalID); err != nil {
		return nil, err
	}
	return listGaps(ctx, r.pool, goalID)
}

func (r *GrowthRepository) ListPaths(ctx context.Context, userID, goalID uuid.UUID) ([]growth.LearningPath, error) {
	if err := r.checkOwner(ctx, userID, goalID); err != nil {
		return nil, err
	}
	return listPaths(ctx, r.pool, goalID)
}

func (r *GrowthRepository) RecentMilestones(ctx context.Context, userID uuid.UUID, limit int) ([]growth.LearningMilestone, error) {
	rows, err := r.pool.Query(ctx, `
SELECT m.id, m.path_id, m.title, m.description, m.milestone_type, m.estimated_hours, m.resource, m.sort_order,
	m.is_completed, m.completed_at, m.notes, m.created_at, m.updated_at
FROM learning_milestones m
JOIN learning_paths p ON p.id = m.path_id
JOIN growth_goals g ON g.id = p.goal_id
WHERE g.user_id = $1 AND m.is_completed
ORDER BY m.completed_at DESC
LIMIT $2
`, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []growth.LearningMilestone
	for rows.Next() {
		m, err := scanMilestone(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func (r *GrowthRepository) GoalIDOfGap(ctx context.Context, userID, gapID uuid.UUID) (uuid.UUID, error) {
	return r.goalIDOf(ctx, `
SELECT g.id FROM skill_gaps s JOIN growth_goals g ON g.id = s.goal_id
WHERE s.id = $1 AND g.user_id = $2`, gapID, userID)
}

func (r *GrowthRepository) GoalIDOfPath(ctx context.Context, userID, pathID uuid.UUID) (uuid.UUID, error) {
	return r.goalIDOf(ctx, `
SELECT g.id FROM learning_paths p JOIN growth_goals g ON g.id = p.goal_id
WHERE p.id = $1 AND g.user_id = $2`, pathID, userID)
}

func (r *GrowthRepository) GoalIDOfMilestone(ctx context.Context, userID, milestoneID uuid.UUID) (uuid.UUID, error) {
	return r.goalIDOf(ctx, `
SELECT g.id FROM learning_milestones m
JOIN learning_paths p ON p.id = m.path_id
JOIN growth_goals g ON g.id = p.goal_id
WHERE m.id = $1 AND g.user_id = $2`, milestoneID, userID)
}

func (r *GrowthRepository) goalIDOf(ctx context.Context, sql string, childID, userID uuid.UUID) (uuid.UUID, error) {
	var id uuid.UUID
	if err := r.pool.QueryRow(ctx, sql, childID, userID).Scan(&id); err != nil {
		return uuid.Nil, notFound(err)
	}
	return id, nil
}

func (r *GrowthRepository) checkOwner(ctx context.Context, userID, goalID uuid.UUID) error {
	var one int
	err := r.pool.QueryRow(ctx, `SELECT 1 FROM growth_goals WHERE id = $1 AND user_id = $2`, goalID, userID).Scan(&one)
	return notFound(err)
}

type pgTx struct {
	q querier
}

func (t *pgTx) GetGoal(ctx context.Context, goalID uuid.UUID) (growth.Goal, error) {
	return scanGoal(t.q.QueryRow(ctx, `SELECT `+goalColumns+` FROM growth_goals WHERE id = $1 FOR UPDATE`, goalID))
}

func (t *pgTx) InsertGoal(ctx context.Context, g growth.Goal) error {
	_, err := t.q.Exec(ctx, `INSERT INTO growth_goals (`+goalColumns+`)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`,
		g.ID, g.UserID, g.TargetRole, g.TargetCompany, string(g.TargetLevel), g.JobRequirements, g.TargetDate,
		g.ProgressPercent, string(g.Status), g.IsPrimary, g.MatchScore, g.AnalysisSummary, g.LastAnalyzedAt, g.CreatedAt, g.UpdatedAt)
	return err
}

func (t *pgTx) UpdateGoal(ctx context.Context, g growth.Goal) error {
	tag, err := t.q.Exec(ctx, `
UPDATE growth_goals SET
	target_role = $2, target_company = $3, target_level = $4, job_requirements = $5, target_date = $6,
	progress_percent = $7, status = $8, is_primary = $9, match_score = $10, analysis_summary = $11,
	last_analyzed_at = $12, updated_at = $13
WHERE id = $1`,
		g.ID, g.TargetRole, g.TargetCompany, string(g.TargetLevel), g.JobRequirements, g.TargetDate,
		g.ProgressPercent, string(g.Status), g.IsPrimary, g.MatchScore, g.AnalysisSummary,
		g.LastAnalyzedAt, g.UpdatedAt)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return growth.ErrNotFound
	}
	return nil
}

func (t *pgTx) DemoteOtherGoals(ctx context.Context, userID, keepID uuid.UUID) error {
	_, err := t.q.Exec(ctx, `UPDATE growth_goals SET is_primary = FALSE WHERE user_id = $1 AND id <> $2 AND is_primary`, userID, keepID)
	return err
}

func (t *pgTx) ListGaps(ctx context.Context, goalID uuid.UUID) ([]growth.SkillGap, error) {
	return listGaps(ctx, t.q, goalID)
}

func (t *pgTx) ReplaceGaps(ctx context.Context, goalID uuid.UUID, gaps []growth.SkillGap) error {
	if _, err := t.q.Exec(ctx, `DELETE FROM skill_gaps WHERE goal_id = $1`, goalID); err != nil {
		return err
	}
	if len(gaps) == 0 {
		return nil
	}
	b := &pgx.Batch{}
	for i, g := range gaps {
		b.Queue(`INSERT INTO skill_gaps (`+gapColumns+`, sort_order)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`,
			g.ID, goalID, g.SkillName, string(g.Category), g.CurrentLevel, g.RequiredLevel, string(g.Priority), string(g.Status),
			g.IsRequired, g.IsPreferred, g.EstimatedHours, g.Recommendation, g.SuggestedResources, g.CreatedAt, g.UpdatedAt, i)
	}
	return t.q.SendBatch(ctx, b).Close()
}

func (t *pgTx) UpdateGap(ctx context.Context, g growth.SkillGap) error {
	tag, err := t.q.Exec(ctx, `
UPDATE skill_gaps SET current_level = $2, status = $3, updated_at = $4
WHERE id = $1`, g.ID, g.CurrentLevel, string(g.Status), g.UpdatedAt)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return growth.ErrNotFound
	}
	return nil
}

func (t *pgTx) ListPaths(ctx context.Context, goalID uuid.UUID) ([]growth.LearningPath, error) {
	return listPaths(ctx, t.q, goalID)
}

func (t *pgTx) ReplacePaths(ctx context.Context, goalID uuid.UUID, paths []growth.LearningPath) error {
	// milestones go with their paths through ON DELETE CASCADE
	if _, err := t.q.Exec(ctx, `DELETE FROM learning_paths WHERE goal_id = $1`, goalID); err != nil {
		return err
	}
	if len(paths) == 0 {
		return nil
	}
	b := &pgx.Batch{}
	for _, p := range paths {
		b.Queue(`INSERT INTO learning_paths (`+pathColumns+`)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`,
			p.ID, goalID, p.Title, p.Description, string(p.FocusArea), string(p.Difficulty), p.EstimatedHours, p.TargetDate,
			p.CompletionPercent, string(p.Status), p.SortOrder, p.CreatedAt, p.UpdatedAt)
		for _, m := range p.Milestones {
			b.Queue(`INSERT INTO learning_milestones (`+milestoneColumns+`)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`,
				m.ID, p.ID, m.Title, m.Description, string(m.Type), m.EstimatedHours, m.Resource, m.SortOrder,
				m.IsCompleted, m.CompletedAt, m.Notes, m.CreatedAt, m.UpdatedAt)
		}
	}
	return t.q.SendBatch(ctx, b).Close()
}

func (t *pgTx) UpdatePath(ctx context.Context, p growth.LearningPath) error {
	tag, err := t.q.Exec(ctx, `
UPDATE learning_paths SET completion_percent = $2, status = $3, updated_at = $4
WHERE id = $1`, p.ID, p.CompletionPercent, string(p.Status), p.UpdatedAt)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return growth.ErrNotFound
	}
	return nil
}

func (t *pgTx) UpdateMilestone(ctx context.Context, m growth.LearningMilestone) error {
	tag, err := t.q.Exec(ctx, `
UPDATE learning_milestones SET is_completed = $2, completed_at = $3, notes = $4, updated_at = $5
WHERE id = $1`, m.ID, m.IsCompleted, m.CompletedAt, m.Notes, m.UpdatedAt)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return growth.ErrNotFound
	}
	return nil
}

func listGaps(ctx context.Context, q querier, goalID uuid.UUID) ([]growth.SkillGap, error) {
	rows, err := q.Query(ctx, `SELECT `+gapColumns+` FROM skill_gaps WHERE goal_id = $1 ORDER BY sort_order, id`, goalID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []growth.SkillGap
	for rows.Next() {
		var (
			g                          growth.SkillGap
			category, priority, status string
		)
		if err := rows.Scan(&g.ID, &g.GoalID, &g.SkillName, &category, &g.CurrentLevel, &g.RequiredLevel, &priority, &status,
			&g.IsRequired, &g.IsPreferred, &g.EstimatedHours, &g.Recommendation, &g.SuggestedResources, &g.CreatedAt, &g.UpdatedAt); err != nil {
			return nil, err
		}
		g.Category = taxonomy.Category(category)
		g.Priority = growth.Priority(priority)
		g.Status = growth.GapStatus(status)
		g.CreatedAt = g.CreatedAt.UTC()
		g.UpdatedAt = g.UpdatedAt.UTC()
		out = append(out, g)
	}
	return out, rows.Err()
}

// listPaths loads paths and their milestones in two queries.
func listPaths(ctx context.Context, q querier, goalID uuid.UUID) ([]growth.LearningPath, error) {
	rows, err := q.Query(ctx, `SELECT `+pathColumns+` FROM learning_paths WHERE goal_id = $1 ORDER BY sort_order, id`, goalID)
	if err != nil {
		return nil, err
	}
	var (
		out   []growth.LearningPath
		index = map[uuid.UUID]int{}
	)
	for rows.Next() {
		var (
			p                         growth.LearningPath
			focus, difficulty, status string
		)
		if err := rows.Scan(&p.ID, &p.GoalID, &p.Title, &p.Description, &focus, &difficulty, &p.EstimatedHours, &p.TargetDate,
			&p.CompletionPercent, &status, &p.SortOrder, &p.CreatedAt, &p.UpdatedAt); err != nil {
			rows.Close()
			return nil, err
		}
		p.FocusArea = taxonomy.Category(focus)
		p.Difficulty = growth.Difficulty(difficulty)
		p.Status = growth.PathStatus(status)
		p.CreatedAt = p.CreatedAt.UTC()
		p.UpdatedAt = p.UpdatedAt.UTC()
		p.Milestones = []growth.LearningMilestone{}
		index[p.ID] = len(out)
		out = append(out, p)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return out, nil
	}

	mrows, err := q.Query(ctx, `
SELECT m.id, m.path_id, m.title, m.description, m.milestone_type, m.estimated_hours, m.resource, m.sort_order,
	m.is_completed, m.completed_at, m.notes, m.created_at, m.updated_at
FROM learning_milestones m JOIN learning_paths p ON p.id = m.path_id
WHERE p.goal_id = $1
ORDER BY m.sort_order, m.id`, goalID)
	if err != nil {
		return nil, err
	}
	defer mrows.Close()
	for mrows.Next() {
		m, err := scanMilestone(mrows)
		if err != nil {
			return nil, err
		}
		if i, ok := index[m.PathID]; ok {
			out[i].Milestones = append(out[i].Milestones, m)
		}
	}
	return out, mrows.Err()
}

func scanGoal(row pgx.Row) (growth.Goal, error) {
	var (
		g             growth.Goal
		level, status string
	)
	err := row.Scan(&g.ID, &g.UserID, &g.TargetRole, &g.TargetCompany, &level, &g.JobRequirements, &g.TargetDate,
		&g.ProgressPercent, &status, &g.IsPrimary, &g.MatchScore, &g.AnalysisSummary, &g.LastAnalyzedAt, &g.CreatedAt, &g.UpdatedAt)
	if err != nil {
		return growth.Goal{}, notFound(err)
	}
	g.TargetLevel = growth.Seniority(level)
	g.Status = growth.GoalStatus(status)
	g.CreatedAt = g.CreatedAt.UTC()
	g.UpdatedAt = g.UpdatedAt.UTC()
	return g, nil
}

func scanMilestone(row pgx.Row) (growth.LearningMilestone, error) {
	var (
		m   growth.LearningMilestone
		typ string
	)
	if err := row.Scan(&m.ID, &m.PathID, &m.Title, &m.Description, &typ, &m.EstimatedHours, &m.Resource, &m.SortOrder,
		&m.IsCompleted, &m.CompletedAt, &m.Notes, &m.CreatedAt, &m.UpdatedAt); err != nil {
		return growth.LearningMilestone{}, err
	}
	m.Type = growth.MilestoneType(typ)
	m.CreatedAt = m.CreatedAt.UTC()
	m.UpdatedAt = m.UpdatedAt.UTC()
	return m, nil
}

func notFound(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return growth.ErrNotFound
	}
	return err
}
