package growth

import "time"

// RecomputePath derives completion and status from the path's milestones.
// Completion is floor(100*done/total), 0 without milestones. 100 means
// COMPLETED and anything in between IN_PROGRESS; at 0 a derived status
// (IN_PROGRESS, COMPLETED) falls back to NOT_STARTED while NOT_STARTED,
// PAUSED and ABANDONED are kept. Calling it twice yields the same path.
func RecomputePath(p *LearningPath, now time.Time) bool {
	completion := 0
	if total := len(p.Milestones); total > 0 {
		done := 0
		for _, m := range p.Milestones {
			if m.IsCompleted {
				done++
			}
		}
		completion = 100 * done / total
	}

	status := p.Status
	switch {
	case completion == 100:
		status = PathCompleted
	case completion > 0:
		status = PathInProgress
	case status == PathInProgress || status == PathCompleted:
		status = PathNotStarted
	}

	if completion == p.CompletionPercent && status == p.Status {
		return false
	}
	p.CompletionPercent = completion
	p.Status = status
	p.UpdatedAt = now
	return true
}

// RecomputeGoal sets goal progress to the floored mean of its paths'
// completion (0 without paths). An ACTIVE goal reaching 100 becomes ACHIEVED;
// an ACHIEVED goal stays ACHIEVED even if progress later drops.
func RecomputeGoal(g *Goal, paths []LearningPath, now time.Time) bool {
	progress := 0
	if len(paths) > 0 {
		sum := 0
		for _, p := range paths {
			sum += p.CompletionPercent
		}
		progress = sum / len(paths)
	}

	changed := false
	if progress != g.ProgressPercent {
		g.ProgressPercent = progress
		g.UpdatedAt = now
		changed = true
	}
	if progress == 100 && g.Status == GoalActive {
		if err := g.transition(GoalAchieved, now); err == nil {
			changed = true
		}
	}
	return changed
}
