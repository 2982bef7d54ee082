package gamification

import (
	"fmt"
	"math"

	"github.com/questlog/questlog/internal/domain"
	"github.com/questlog/questlog/internal/infra/sqlite"
)

// Streak bonus: +5% per consecutive day, counted up to 30 days (2.5× cap).
const (
	streakBonusPerDay  = 0.05
	streakBonusMaxDays = 30
)

// Ledger computes and applies XP deltas and derives levels from totals.
// Every mutation goes through the store's atomic increment — the ledger
// never reads, adds, and writes back.
type Ledger struct {
	db *sqlite.DB
}

// NewLedger creates an XP ledger over the given store.
func NewLedger(db *sqlite.DB) *Ledger {
	return &Ledger{db: db}
}

// XPForLevel returns the cumulative XP required to reach a given level.
// Quadratic curve: 50 * L * (L-1). Level 1 requires 0.
func XPForLevel(level int) int64 {
	if level <= 1 {
		return 0
	}
	return int64(50 * level * (level - 1))
}

// LevelForXP returns the largest level whose threshold the XP total meets.
// Fixed points: 0→1, 75→1, 150→2, 500→3.
func LevelForXP(xp int64) int {
	if xp <= 0 {
		return 1
	}
	// Invert 50*L*(L-1) <= xp, then correct for float rounding.
	level := int((1 + math.Sqrt(1+float64(xp)/12.5)) / 2)
	for XPForLevel(level+1) <= xp {
		level++
	}
	for level > 1 && XPForLevel(level) > xp {
		level--
	}
	return level
}

// BaseXP returns the base award for an action. The achievement_unlock
// action has no base — its XP comes from the achievement definition.
func BaseXP(action domain.XPAction) (int64, error) {
	switch action {
	case domain.ActionUpdateProgress:
		return 10, nil
	case domain.ActionCompleteGoal:
		return 50, nil
	}
	return 0, fmt.Errorf("%q: %w", action, domain.ErrUnknownAction)
}

// StreakMultiplier rewards consistency without unbounded inflation:
// 1 + min(days, 30) * 0.05, so a 30-day streak caps at 2.5×.
func StreakMultiplier(streakDays int) float64 {
	if streakDays < 0 {
		streakDays = 0
	}
	if streakDays > streakBonusMaxDays {
		streakDays = streakBonusMaxDays
	}
	return 1.0 + float64(streakDays)*streakBonusPerDay
}

// Award computes base × difficulty × streak XP for an action and applies it
// atomically. The streak value is whatever the caller just derived, so a
// streak that became active today is rewarded immediately.
func (l *Ledger) Award(userID string, action domain.XPAction, difficulty domain.Difficulty, streakDays int) (domain.AwardResult, error) {
	base, err := BaseXP(action)
	if err != nil {
		return domain.AwardResult{}, err
	}
	diffMult, ok := difficulty.Multiplier()
	if !ok {
		return domain.AwardResult{}, fmt.Errorf("%q: %w", difficulty, domain.ErrUnknownDifficulty)
	}

	xp := int64(math.Round(float64(base) * diffMult * StreakMultiplier(streakDays)))
	return l.apply(userID, xp)
}

// AwardAchievementXP applies an achievement's fixed reward through the same
// atomic-increment path, bypassing difficulty and streak multipliers.
func (l *Ledger) AwardAchievementXP(userID string, def domain.AchievementDef) (domain.AwardResult, error) {
	return l.apply(userID, def.XPReward)
}

// apply performs the atomic increment and re-derives the level.
func (l *Ledger) apply(userID string, delta int64) (domain.AwardResult, error) {
	totalAfter, err := l.db.IncrementUserXP(userID, delta)
	if err != nil {
		return domain.AwardResult{}, err
	}

	result := domain.AwardResult{
		XPAwarded:    delta,
		TotalXPAfter: totalAfter,
		LevelBefore:  LevelForXP(totalAfter - delta),
		LevelAfter:   LevelForXP(totalAfter),
	}
	result.LeveledUp = result.LevelAfter > result.LevelBefore

	if err := l.db.SetUserLevel(userID, result.LevelAfter); err != nil {
		return domain.AwardResult{}, fmt.Errorf("save level: %w", err)
	}
	return result, nil
}

// XPToNextLevel returns XP remaining until the next level.
func XPToNextLevel(totalXP int64) int64 {
	remaining := XPForLevel(LevelForXP(totalXP)+1) - totalXP
	if remaining < 0 {
		return 0
	}
	return remaining
}

// ProgressPct returns progress toward the next level (0.0–100.0).
func ProgressPct(totalXP int64) float64 {
	level := LevelForXP(totalXP)
	thisLevel := XPForLevel(level)
	nextLevel := XPForLevel(level + 1)
	span := nextLevel - thisLevel
	if span <= 0 {
		return 100.0
	}
	pct := float64(totalXP-thisLevel) / float64(span) * 100.0
	if pct < 0 {
		return 0
	}
	if pct > 100 {
		return 100
	}
	return pct
}
