package growth

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/artem13815/growth/pkg/taxonomy"
)

type GoalStatus string

const (
	GoalActive    GoalStatus = "ACTIVE"
	GoalPaused    GoalStatus = "PAUSED"
	GoalAchieved  GoalStatus = "ACHIEVED"
	GoalAbandoned GoalStatus = "ABANDONED"
)

type Seniority string

const (
	SeniorityIntern    Seniority = "INTERN"
	SeniorityJunior    Seniority = "JUNIOR"
	SeniorityMiddle    Seniority = "MIDDLE"
	SenioritySenior    Seniority = "SENIOR"
	SeniorityLead      Seniority = "LEAD"
	SeniorityPrincipal Seniority = "PRINCIPAL"
)

type Priority string

const (
	PriorityCritical Priority = "CRITICAL"
	PriorityHigh     Priority = "HIGH"
	PriorityMedium   Priority = "MEDIUM"
	PriorityLow      Priority = "LOW"
)

// priorityRank orders gaps for display, most urgent first.
var priorityRank = map[Priority]int{
	PriorityCritical: 0,
	PriorityHigh:     1,
	PriorityMedium:   2,
	PriorityLow:      3,
}

type GapStatus string

const (
	GapIdentified GapStatus = "IDENTIFIED"
	GapInProgress GapStatus = "IN_PROGRESS"
	GapResolved   GapStatus = "RESOLVED"
	GapDeferred   GapStatus = "DEFERRED"
)

type PathStatus string

const (
	PathNotStarted PathStatus = "NOT_STARTED"
	PathInProgress PathStatus = "IN_PROGRESS"
	PathCompleted  PathStatus = "COMPLETED"
	PathPaused     PathStatus = "PAUSED"
	PathAbandoned  PathStatus = "ABANDONED"
)

type Difficulty string

const (
	DifficultyBeginner     Difficulty = "BEGINNER"
	DifficultyIntermediate Difficulty = "INTERMEDIATE"
	DifficultyAdvanced     Difficulty = "ADVANCED"
)

type MilestoneType string

const (
	MilestoneCourse        MilestoneType = "COURSE"
	MilestoneTutorial      MilestoneType = "TUTORIAL"
	MilestoneProject       MilestoneType = "PROJECT"
	MilestoneReading       MilestoneType = "READING"
	MilestonePractice      MilestoneType = "PRACTICE"
	MilestoneCertification MilestoneType = "CERTIFICATION"
	MilestoneReview        MilestoneType = "REVIEW"
	MilestoneAssessment    MilestoneType = "ASSESSMENT"
)

// Goal is a user's declared career target.
type Goal struct {
	ID              uuid.UUID  `json:"id"`
	UserID          uuid.UUID  `json:"userId"`
	TargetRole      string     `json:"targetRole"`
	TargetCompany   string     `json:"targetCompany,omitempty"`
	TargetLevel     Seniority  `json:"targetLevel,omitempty"`
	JobRequirements string     `json:"jobRequirements,omitempty"`
	TargetDate      *time.Time `json:"targetDate,omitempty"`
	ProgressPercent int        `json:"progressPercent"`
	Status          GoalStatus `json:"status"`
	IsPrimary       bool       `json:"isPrimary"`
	MatchScore      *int       `json:"matchScore,omitempty"`
	AnalysisSummary string     `json:"analysisSummary,omitempty"`
	LastAnalyzedAt  *time.Time `json:"lastAnalyzedAt,omitempty"`
	CreatedAt       time.Time  `json:"createdAt"`
	UpdatedAt       time.Time  `json:"updatedAt"`
}

// SkillGap is one deficiency between current and required proficiency.
type SkillGap struct {
	ID                 uuid.UUID         `json:"id"`
	GoalID             uuid.UUID         `json:"goalId"`
	SkillName          string            `json:"skillName"`
	Category           taxonomy.Category `json:"category"`
	CurrentLevel       int               `json:"currentLevel"`
	RequiredLevel      int               `json:"requiredLevel"`
	Priority           Priority          `json:"priority"`
	Status             GapStatus         `json:"status"`
	IsRequired         bool              `json:"isRequired"`
	IsPreferred        bool              `json:"isPreferred"`
	EstimatedHours     int               `json:"estimatedHours"`
	Recommendation     string            `json:"recommendation"`
	SuggestedResources string            `json:"suggestedResources"`
	CreatedAt          time.Time         `json:"createdAt"`
	UpdatedAt          time.Time         `json:"updatedAt"`
}

// GapSize is max(0, required-current).
func (g SkillGap) GapSize() int {
	if d := g.RequiredLevel - g.CurrentLevel; d > 0 {
		return d
	}
	return 0
}

// GapPercentage is the gap size relative to the required level, 0 when nothing is required.
func (g SkillGap) GapPercentage() float64 {
	if g.RequiredLevel <= 0 {
		return 0
	}
	return float64(g.GapSize()) / float64(g.RequiredLevel) * 100
}

// syncStatus enforces RESOLVED iff current >= required.
func (g *SkillGap) syncStatus() {
	switch {
	case g.CurrentLevel >= g.RequiredLevel:
		g.Status = GapResolved
	case g.Status == GapResolved:
		g.Status = GapInProgress
	case g.Status == "":
		g.Status = GapIdentified
	}
}

// SetLevel records a new current level and re-applies the status invariant.
func (g *SkillGap) SetLevel(level int, now time.Time) {
	g.CurrentLevel = clampPercent(level)
	if g.Status == GapIdentified && g.CurrentLevel > 0 {
		g.Status = GapInProgress
	}
	g.syncStatus()
	g.UpdatedAt = now
}

// LearningPath is a themed bundle of milestones covering a subset of gaps.
type LearningPath struct {
	ID                uuid.UUID           `json:"id"`
	GoalID            uuid.UUID           `json:"goalId"`
	Title             string              `json:"title"`
	Description       string              `json:"description"`
	FocusArea         taxonomy.Category   `json:"focusArea"`
	Difficulty        Difficulty          `json:"difficulty"`
	EstimatedHours    int                 `json:"estimatedHours"`
	TargetDate        *time.Time          `json:"targetDate,omitempty"`
	CompletionPercent int                 `json:"completionPercent"`
	Status            PathStatus          `json:"status"`
	SortOrder         int                 `json:"sortOrder"`
	Milestones        []LearningMilestone `json:"milestones"`
	CreatedAt         time.Time           `json:"createdAt"`
	UpdatedAt         time.Time           `json:"updatedAt"`
}

// LearningMilestone is one actionable unit inside a path.
type LearningMilestone struct {
	ID             uuid.UUID     `json:"id"`
	PathID         uuid.UUID     `json:"pathId"`
	Title          string        `json:"title"`
	Description    string        `json:"description"`
	Type           MilestoneType `json:"type"`
	EstimatedHours int           `json:"estimatedHours"`
	Resource       string        `json:"resource"`
	SortOrder      int           `json:"sortOrder"`
	IsCompleted    bool          `json:"isCompleted"`
	CompletedAt    *time.Time    `json:"completedAt,omitempty"`
	Notes          string        `json:"notes,omitempty"`
	CreatedAt      time.Time     `json:"createdAt"`
	UpdatedAt      time.Time     `json:"updatedAt"`
}

// SetCompleted toggles completion keeping CompletedAt non-nil iff IsCompleted.
func (m *LearningMilestone) SetCompleted(done bool, now time.Time) {
	m.UpdatedAt = now
	if !done {
		m.IsCompleted = false
		m.CompletedAt = nil
		return
	}
	if m.IsCompleted && m.CompletedAt != nil {
		return
	}
	t := now
	m.IsCompleted = true
	m.CompletedAt = &t
}

func clampPercent(v int) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

func parseEnum[T ~string](kind, raw string, allowed ...T) (T, error) {
	v := T(strings.ToUpper(strings.TrimSpace(raw)))
	for _, a := range allowed {
		if v == a {
			return v, nil
		}
	}
	return "", fmt.Errorf("%w: invalid %s %q", ErrValidation, kind, raw)
}

func ParseGoalStatus(s string) (GoalStatus, error) {
	return parseEnum("goal status", s, GoalActive, GoalPaused, GoalAchieved, GoalAbandoned)
}

// ParseSeniority accepts an empty value as "not specified".
func ParseSeniority(s string) (Seniority, error) {
	if strings.TrimSpace(s) == "" {
		return "", nil
	}
	return parseEnum("seniority", s, SeniorityIntern, SeniorityJunior, SeniorityMiddle, SenioritySenior, SeniorityLead, SeniorityPrincipal)
}

func ParsePriority(s string) (Priority, error) {
	return parseEnum("priority", s, PriorityCritical, PriorityHigh, PriorityMedium, PriorityLow)
}

func ParseGapStatus(s string) (GapStatus, error) {
	return parseEnum("gap status", s, GapIdentified, GapInProgress, GapResolved, GapDeferred)
}

func ParsePathStatus(s string) (PathStatus, error) {
	return parseEnum("path status", s, PathNotStarted, PathInProgress, PathCompleted, PathPaused, PathAbandoned)
}

// ParseTargetDate accepts YYYY-MM-DD or RFC3339; empty means no date.
func ParseTargetDate(s string) (*time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	for _, layout := range []string{"2006-01-02", time.RFC3339} {
		if t, err := time.Parse(layout, s); err == nil {
			t = t.UTC()
			return &t, nil
		}
	}
	return nil, fmt.Errorf("%w: malformed target date %q (want YYYY-MM-DD)", ErrValidation, s)
}
