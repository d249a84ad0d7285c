package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/artem13815/growth/pkg/profile"
	"github.com/artem13815/growth/pkg/taxonomy"
)

// SkillRepository implements profile.Repository.
type SkillRepository struct {
	pool *pgxpool.Pool
}

func NewSkillRepository(pool *pgxpool.Pool) *SkillRepository {
	return &SkillRepository{pool: pool}
}

func (r *SkillRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]profile.Skill, error) {
	rows, err := r.pool.Query(ctx, `
SELECT id, user_id, name, category, years_of_experience, updated_at
FROM profile_skills WHERE user_id = $1
ORDER BY lower(name)
`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []profile.Skill
	for rows.Next() {
		var (
			s        profile.Skill
			category string
		)
		if err := rows.Scan(&s.ID, &s.UserID, &s.Name, &category, &s.YearsOfExperience, &s.UpdatedAt); err != nil {
			return nil, err
		}
		s.Category = taxonomy.Category(category)
		s.UpdatedAt = s.UpdatedAt.UTC()
		out = append(out, s)
	}
	return out, rows.Err()
}

// Upsert keeps the original id when the user already has a skill with the same name.
func (r *SkillRepository) Upsert(ctx context.Context, s profile.Skill) (profile.Skill, error) {
	err := r.pool.QueryRow(ctx, `
INSERT INTO profile_skills (id, user_id, name, category, years_of_experience, updated_at)
VALUES ($1, $2, $3, $4, $5, $6)
ON CONFLICT (user_id, lower(name)) DO UPDATE SET
	name = EXCLUDED.name,
	category = EXCLUDED.category,
	years_of_experience = EXCLUDED.years_of_experience,
	updated_at = EXCLUDED.updated_at
RETURNING id
`, s.ID, s.UserID, s.Name, string(s.Category), s.YearsOfExperience, s.UpdatedAt).Scan(&s.ID)
	if err != nil {
		return profile.Skill{}, err
	}
	return s, nil
}

func (r *SkillRepository) DeleteForOwner(ctx context.Context, userID, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM profile_skills WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return profile.ErrNotFound
	}
	return nil
}
