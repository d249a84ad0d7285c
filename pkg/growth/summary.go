package growth

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

const (
	recentGapsLimit       = 5
	currentPathsLimit     = 3
	recentMilestonesLimit = 5
	summaryFanOut         = 4
)

// Summary is the dashboard rollup over a user's ACTIVE goals.
type Summary struct {
	ActiveGoals      int                 `json:"activeGoals"`
	AchievedGoals    int                 `json:"achievedGoals"`
	AverageProgress  int                 `json:"averageProgress"`
	TotalGaps        int                 `json:"totalGaps"`
	CriticalGaps     int                 `json:"criticalGaps"`
	InProgressPaths  int                 `json:"inProgressPaths"`
	CompletedPaths   int                 `json:"completedPaths"`
	RemainingHours   int                 `json:"remainingHours"`
	PrimaryGoal      *Goal               `json:"primaryGoal,omitempty"`
	RecentGaps       []SkillGap          `json:"recentGaps"`
	CurrentPaths     []LearningPath      `json:"currentPaths"`
	RecentMilestones []LearningMilestone `json:"recentMilestones"`
}

func (s *service) GetGrowthSummary(ctx context.Context, userID uuid.UUID) (Summary, error) {
	cached, gen, ok, cacheErr := s.cache.Get(ctx, userID)
	if cacheErr != nil {
		s.log.Warn("summary cache read failed", "user_id", userID, "error", cacheErr)
	} else if ok {
		return cached, nil
	}

	sum, err := s.buildSummary(ctx, userID)
	if err != nil {
		return Summary{}, err
	}
	// without a known generation the rebuild cannot be stored safely
	if cacheErr == nil {
		if err := s.cache.Set(ctx, userID, gen, sum); err != nil {
			s.log.Warn("summary cache write failed", "user_id", userID, "error", err)
		}
	}
	return sum, nil
}

type goalChildren struct {
	gaps  []SkillGap
	paths []LearningPath
}

func (s *service) buildSummary(ctx context.Context, userID uuid.UUID) (Summary, error) {
	goals, err := s.repo.ListGoals(ctx, userID)
	if err != nil {
		return Summary{}, err
	}

	var (
		mu       sync.Mutex
		children = make(map[uuid.UUID]*goalChildren)
		recent   []LearningMilestone
	)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(summaryFanOut)
	g.Go(func() error {
		ms, err := s.repo.RecentMilestones(gctx, userID, recentMilestonesLimit)
		if err != nil {
			return err
		}
		mu.Lock()
		recent = ms
		mu.Unlock()
		return nil
	})
	for _, goal := range goals {
		if goal.Status != GoalActive {
			continue
		}
		goalID := goal.ID
		g.Go(func() error {
			gaps, err := s.repo.ListGaps(gctx, userID, goalID)
			if err != nil {
				return err
			}
			paths, err := s.repo.ListPaths(gctx, userID, goalID)
			if err != nil {
				return err
			}
			mu.Lock()
			children[goalID] = &goalChildren{gaps: gaps, paths: paths}
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Summary{}, err
	}

	sum := Summary{
		RecentGaps:       []SkillGap{},
		CurrentPaths:     []LearningPath{},
		RecentMilestones: recent,
	}
	if sum.RecentMilestones == nil {
		sum.RecentMilestones = []LearningMilestone{}
	}

	var (
		progressSum int
		openGaps    []SkillGap
		openPaths   []LearningPath
	)
	for i := range goals {
		goal := goals[i]
		if goal.IsPrimary && goal.Status != GoalAbandoned && sum.PrimaryGoal == nil {
			sum.PrimaryGoal = &goal
		}
		switch goal.Status {
		case GoalAchieved:
			sum.AchievedGoals++
			continue
		case GoalActive:
		default:
			continue
		}
		sum.ActiveGoals++
		progressSum += goal.ProgressPercent

		c := children[goal.ID]
		if c == nil {
			continue
		}
		sum.TotalGaps += len(c.gaps)
		for _, gap := range c.gaps {
			if gap.Status == GapResolved {
				continue
			}
			if gap.Priority == PriorityCritical || gap.Priority == PriorityHigh {
				sum.CriticalGaps++
			}
			openGaps = append(openGaps, gap)
		}
		for _, p := range c.paths {
			switch p.Status {
			case PathInProgress:
				sum.InProgressPaths++
				openPaths = append(openPaths, p)
			case PathCompleted:
				sum.CompletedPaths++
			case PathNotStarted:
				openPaths = append(openPaths, p)
			}
			for _, m := range p.Milestones {
				if !m.IsCompleted {
					sum.RemainingHours += m.EstimatedHours
				}
			}
		}
	}
	if sum.ActiveGoals > 0 {
		sum.AverageProgress = progressSum / sum.ActiveGoals
	}

	sort.SliceStable(openGaps, func(i, j int) bool {
		ri, rj := priorityRank[openGaps[i].Priority], priorityRank[openGaps[j].Priority]
		if ri != rj {
			return ri < rj
		}
		return openGaps[i].UpdatedAt.After(openGaps[j].UpdatedAt)
	})
	if len(openGaps) > recentGapsLimit {
		openGaps = openGaps[:recentGapsLimit]
	}
	sum.RecentGaps = append(sum.RecentGaps, openGaps...)

	// in-progress paths first, then the most recently touched
	sort.SliceStable(openPaths, func(i, j int) bool {
		pi, pj := openPaths[i].Status == PathInProgress, openPaths[j].Status == PathInProgress
		if pi != pj {
			return pi
		}
		return openPaths[i].UpdatedAt.After(openPaths[j].UpdatedAt)
	})
	if len(openPaths) > currentPathsLimit {
		openPaths = openPaths[:currentPathsLimit]
	}
	sum.CurrentPaths = append(sum.CurrentPaths, openPaths...)

	return sum, nil
}
