package gamification

import (
	"fmt"

	"github.com/questlog/questlog/internal/domain"
)

// Ratio computes how far a user's statistics are toward satisfying a
// condition, as a value in [0,1]. Pure function: no storage access.
// A zero or negative threshold is the catalog author's mistake and is
// rejected rather than treated as already-complete.
func Ratio(c domain.Condition, stats domain.UserStatsSnapshot) (float64, error) {
	switch cond := c.(type) {
	case domain.GoalsCreated:
		if cond.Count <= 0 {
			return 0, fmt.Errorf("%s: %w", cond.Kind(), domain.ErrZeroThreshold)
		}
		return clampRatio(float64(stats.GoalsCreated) / float64(cond.Count)), nil

	case domain.GoalsCompleted:
		if cond.Count <= 0 {
			return 0, fmt.Errorf("%s: %w", cond.Kind(), domain.ErrZeroThreshold)
		}
		return clampRatio(float64(stats.GoalsCompleted) / float64(cond.Count)), nil

	case domain.ModuleGoalsCompleted:
		if cond.Count <= 0 {
			return 0, fmt.Errorf("%s: %w", cond.Kind(), domain.ErrZeroThreshold)
		}
		if !cond.Module.Valid() {
			return 0, fmt.Errorf("%s: %q: %w", cond.Kind(), cond.Module, domain.ErrUnknownModule)
		}
		return clampRatio(float64(stats.ModuleGoalsCompleted[cond.Module]) / float64(cond.Count)), nil

	case domain.StreakDays:
		if cond.Days <= 0 {
			return 0, fmt.Errorf("%s: %w", cond.Kind(), domain.ErrZeroThreshold)
		}
		return clampRatio(float64(stats.CurrentStreak) / float64(cond.Days)), nil

	case domain.XPEarned:
		if cond.Amount <= 0 {
			return 0, fmt.Errorf("%s: %w", cond.Kind(), domain.ErrZeroThreshold)
		}
		return clampRatio(float64(stats.TotalXP) / float64(cond.Amount)), nil
	}

	// Unreachable while Condition stays sealed.
	return 0, fmt.Errorf("condition %T: %w", c, domain.ErrZeroThreshold)
}

func clampRatio(r float64) float64 {
	if r > 1 {
		return 1
	}
	if r < 0 {
		return 0
	}
	return r
}
