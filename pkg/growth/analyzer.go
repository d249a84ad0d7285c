package growth

import (
	"fmt"
	"math"
	"strings"

	"github.com/artem13815/growth/pkg/nlp"
	"github.com/artem13815/growth/pkg/profile"
	"github.com/artem13815/growth/pkg/taxonomy"
)

const (
	// noDemandScore is reported when there is nothing to compare, so an empty
	// job description does not read as a 0% match.
	noDemandScore      = 50
	topSkillsInSummary = 3
)

// Analysis is the output of one gap-analysis pass.
type Analysis struct {
	Gaps       []SkillGap
	Matched    []string
	MatchScore int
}

// GapAnalyzer diffs demanded skills against a user's recorded skills.
type GapAnalyzer struct {
	table          *taxonomy.Table
	estimator      ProficiencyEstimator
	requiredLevel  int
	preferredLevel int
}

func NewGapAnalyzer(table *taxonomy.Table, estimator ProficiencyEstimator, requiredLevel, preferredLevel int) *GapAnalyzer {
	if estimator == nil {
		estimator = ExperienceBands{}
	}
	return &GapAnalyzer{
		table:          table,
		estimator:      estimator,
		requiredLevel:  requiredLevel,
		preferredLevel: preferredLevel,
	}
}

// Analyze emits gaps in demand order: required skills first, then preferred.
// Gaps carry no ids or timestamps yet.
func (a *GapAnalyzer) Analyze(d Demand, skills []profile.Skill) Analysis {
	var out Analysis
	covered := map[string]struct{}{}

	for _, name := range d.Required {
		covered[nlp.Fold(name)] = struct{}{}
		rec, ok := findSkill(name, skills)
		if !ok {
			out.Gaps = append(out.Gaps, a.newGap(name, 0, a.requiredLevel, PriorityHigh, true))
			continue
		}
		level := a.estimator.Estimate(rec)
		if level >= a.requiredLevel {
			out.Matched = append(out.Matched, name)
			continue
		}
		out.Gaps = append(out.Gaps, a.newGap(name, level, a.requiredLevel, PriorityMedium, true))
	}

	for _, name := range d.Preferred {
		if _, dup := covered[nlp.Fold(name)]; dup {
			continue
		}
		if _, ok := findSkill(name, skills); ok {
			out.Matched = append(out.Matched, name)
			continue
		}
		out.Gaps = append(out.Gaps, a.newGap(name, 0, a.preferredLevel, PriorityLow, false))
	}

	out.MatchScore = matchScore(len(out.Matched), d.Total())
	return out
}

func (a *GapAnalyzer) newGap(name string, current, required int, p Priority, isRequired bool) SkillGap {
	cat := a.table.Categorize(name)
	g := SkillGap{
		SkillName:          name,
		Category:           cat,
		CurrentLevel:       current,
		RequiredLevel:      required,
		Priority:           p,
		Status:             GapIdentified,
		IsRequired:         isRequired,
		IsPreferred:        !isRequired,
		Recommendation:     recommendationFor(cat, name),
		SuggestedResources: resourcesFor(cat),
	}
	g.EstimatedHours = hoursFor(cat) * g.GapSize() / 100
	g.syncStatus()
	return g
}

// findSkill prefers a case-insensitive exact name match and falls back to substring overlap.
func findSkill(name string, skills []profile.Skill) (profile.Skill, bool) {
	for _, s := range skills {
		if nlp.SkillsEqual(s.Name, name) {
			return s, true
		}
	}
	for _, s := range skills {
		if nlp.SkillsOverlap(s.Name, name) {
			return s, true
		}
	}
	return profile.Skill{}, false
}

func matchScore(matched, total int) int {
	if total == 0 {
		return noDemandScore
	}
	return int(math.Round(float64(matched) * 100 / float64(total)))
}

// Summarize renders the one-paragraph verdict stored on the goal.
func Summarize(role string, score int, gaps []SkillGap) string {
	var b strings.Builder
	switch {
	case score >= 80:
		fmt.Fprintf(&b, "Excellent match for %s: your profile covers almost everything the role asks for.", role)
	case score >= 60:
		fmt.Fprintf(&b, "Good match for %s with a few skills left to strengthen.", role)
	case score >= 40:
		fmt.Fprintf(&b, "Partial match for %s; focused learning will close the remaining gaps.", role)
	default:
		fmt.Fprintf(&b, "Significant skill gaps for %s; follow the learning paths below.", role)
	}
	var top []string
	for _, g := range gaps {
		if g.Priority != PriorityCritical && g.Priority != PriorityHigh {
			continue
		}
		top = append(top, g.SkillName)
		if len(top) == topSkillsInSummary {
			break
		}
	}
	if len(top) > 0 {
		fmt.Fprintf(&b, " Top priority skills: %s.", strings.Join(top, ", "))
	}
	return b.String()
}
