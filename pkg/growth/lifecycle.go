package growth

import (
	"fmt"
	"time"
)

// goalTransitions is the goal state machine. ACHIEVED and ABANDONED are terminal.
var goalTransitions = map[GoalStatus][]GoalStatus{
	GoalActive: {GoalPaused, GoalAchieved, GoalAbandoned},
	GoalPaused: {GoalActive, GoalAbandoned},
}

// CanTransition reports whether the state machine allows from -> to.
func CanTransition(from, to GoalStatus) bool {
	for _, s := range goalTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// transition is the only place goal status changes. Abandoning also drops the
// primary flag.
func (g *Goal) transition(to GoalStatus, now time.Time) error {
	if !CanTransition(g.Status, to) {
		return fmt.Errorf("%w: goal %s -> %s", ErrInvalidTransition, g.Status, to)
	}
	g.Status = to
	if to == GoalAbandoned {
		g.IsPrimary = false
	}
	g.UpdatedAt = now
	return nil
}

// activate makes g the user's ACTIVE primary goal. Callers demote the
// user's other goals in the same transaction.
func (g *Goal) activate(now time.Time) error {
	switch g.Status {
	case GoalActive:
	case GoalPaused:
		if err := g.transition(GoalActive, now); err != nil {
			return err
		}
	default:
		return fmt.Errorf("%w: goal is %s", ErrInvalidTransition, g.Status)
	}
	g.IsPrimary = true
	g.UpdatedAt = now
	return nil
}

// pathTransitions lists the statuses a user may set on a path; COMPLETED is derived only.
var pathTransitions = map[PathStatus]bool{
	PathNotStarted: true,
	PathInProgress: true,
	PathPaused:     true,
	PathAbandoned:  true,
}
