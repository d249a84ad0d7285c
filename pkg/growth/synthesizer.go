package growth

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/artem13815/growth/pkg/taxonomy"
)

// PathSynthesizer groups unresolved gaps into one learning path per category.
type PathSynthesizer struct{}

// Synthesize builds a fresh path set for goal. Resolved gaps are skipped; gaps
// without a category share a catch-all path. Paths are ordered by the first
// gap seen in each group, milestones by gap order.
func (PathSynthesizer) Synthesize(goal Goal, gaps []SkillGap, now time.Time) []LearningPath {
	var order []taxonomy.Category
	groups := map[taxonomy.Category][]SkillGap{}
	for _, g := range gaps {
		if g.Status == GapResolved {
			continue
		}
		cat := g.Category
		if cat == "" {
			cat = taxonomy.CategoryOther
		}
		if _, ok := groups[cat]; !ok {
			order = append(order, cat)
		}
		groups[cat] = append(groups[cat], g)
	}

	paths := make([]LearningPath, 0, len(order))
	for i, cat := range order {
		group := groups[cat]
		p := LearningPath{
			ID:          uuid.New(),
			GoalID:      goal.ID,
			Title:       pathTitleFor(cat),
			FocusArea:   cat,
			Difficulty:  difficultyOf(group),
			TargetDate:  goal.TargetDate,
			Status:      PathNotStarted,
			SortOrder:   i,
			Description: describe(group),
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		for j, g := range group {
			p.Milestones = append(p.Milestones, LearningMilestone{
				ID:             uuid.New(),
				PathID:         p.ID,
				Title:          "Learn " + g.SkillName,
				Description:    g.Recommendation,
				Type:           milestoneTypeFor(cat),
				EstimatedHours: g.EstimatedHours,
				Resource:       g.SuggestedResources,
				SortOrder:      j,
				CreatedAt:      now,
				UpdatedAt:      now,
			})
			p.EstimatedHours += g.EstimatedHours
		}
		paths = append(paths, p)
	}
	return paths
}

func describe(group []SkillGap) string {
	names := make([]string, 0, len(group))
	for _, g := range group {
		names = append(names, g.SkillName)
	}
	return fmt.Sprintf("Close %d skill gap(s): %s.", len(group), strings.Join(names, ", "))
}

// difficultyOf rates a group by how far from zero the learner already is.
func difficultyOf(group []SkillGap) Difficulty {
	if len(group) == 0 {
		return DifficultyBeginner
	}
	sum := 0
	for _, g := range group {
		sum += g.CurrentLevel
	}
	switch avg := sum / len(group); {
	case avg >= 60:
		return DifficultyAdvanced
	case avg >= 30:
		return DifficultyIntermediate
	default:
		return DifficultyBeginner
	}
}
