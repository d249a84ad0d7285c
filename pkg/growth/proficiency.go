package growth

import "github.com/artem13815/growth/pkg/profile"

// ProficiencyEstimator scores a recorded skill on a 0-100 scale.
type ProficiencyEstimator interface {
	Estimate(s profile.Skill) int
}

// ExperienceBands scores by years of experience: none recorded or 0 -> 30,
// 1-2 -> 50, 3-4 -> 70, 5+ -> 90.
type ExperienceBands struct{}

func (ExperienceBands) Estimate(s profile.Skill) int {
	if s.YearsOfExperience == nil {
		return 30
	}
	switch y := *s.YearsOfExperience; {
	case y >= 5:
		return 90
	case y >= 3:
		return 70
	case y >= 1:
		return 50
	default:
		return 30
	}
}
