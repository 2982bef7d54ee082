package gamification

import (
	"fmt"
	"time"

	"github.com/questlog/questlog/internal/domain"
	"github.com/questlog/questlog/internal/infra/metrics"
	"github.com/questlog/questlog/internal/infra/sqlite"
)

// DefaultLookbackDays bounds how far back streak derivation reads activity.
// Longer than the longest streak achievement so nothing is truncated.
const DefaultLookbackDays = 120

// Facade is the single entry point domain modules call after recording an
// event. It sequences streak → XP → achievements; ordering matters because
// achievements keyed off XP or streak must see post-award values.
type Facade struct {
	db           *sqlite.DB
	ledger       *Ledger
	achievements *AchievementEngine
	lookbackDays int
	now          func() time.Time
}

// NewFacade wires the facade over the shared store.
func NewFacade(db *sqlite.DB, ledger *Ledger, achievements *AchievementEngine) *Facade {
	return &Facade{
		db:           db,
		ledger:       ledger,
		achievements: achievements,
		lookbackDays: DefaultLookbackDays,
		now:          time.Now,
	}
}

// SetLookbackDays overrides the streak lookback window (config-driven).
func (f *Facade) SetLookbackDays(days int) {
	if days > 0 {
		f.lookbackDays = days
	}
}

// SetClock overrides the time source. Tests use this to pin "today".
func (f *Facade) SetClock(now func() time.Time) {
	f.now = now
}

// HandleEvent processes one recorded event for a user and returns the
// consolidated result for UI display.
func (f *Facade) HandleEvent(userID string, event domain.Event) (domain.GamificationResult, error) {
	started := f.now()

	result, err := f.handleEvent(userID, event)
	if err != nil {
		metrics.EventErrors.WithLabelValues(errorClass(err)).Inc()
		return result, err
	}

	metrics.EventsHandled.WithLabelValues(string(event.Type)).Inc()
	metrics.EventLatency.Observe(f.now().Sub(started).Seconds())
	return result, nil
}

func (f *Facade) handleEvent(userID string, event domain.Event) (domain.GamificationResult, error) {
	var result domain.GamificationResult

	action, err := actionForEvent(event.Type)
	if err != nil {
		return result, err
	}
	if _, ok := event.Difficulty.Multiplier(); !ok {
		return result, fmt.Errorf("%q: %w", event.Difficulty, domain.ErrUnknownDifficulty)
	}
	user, err := f.db.GetUser(userID)
	if err != nil {
		return result, err
	}

	now := f.now()
	occurredAt := event.OccurredAt
	if occurredAt.IsZero() {
		occurredAt = now
	}

	// 1. Record the activity and derive the new streak. The event just
	// recorded counts toward today, so a streak that becomes active now is
	// rewarded by the multiplier immediately. A lapse is only observable
	// before the insert — afterward the streak is active by construction —
	// so the broken-streak transition is detected from the prior day set.
	days, err := f.db.RecentActivityDays(userID, f.lookbackDays, now)
	if err != nil {
		return result, fmt.Errorf("load activity days: %w", err)
	}
	if prior := CurrentStreak(days, now); !prior.IsActive && user.StreakCount > 0 {
		metrics.StreaksBroken.Inc()
	}
	if err := f.db.InsertActivityEvent(userID, occurredAt); err != nil {
		return result, fmt.Errorf("record activity: %w", err)
	}
	streak := CurrentStreak(append(days, occurredAt), now)
	if err := f.db.UpdateUserStreak(userID, streak.CurrentStreak, occurredAt); err != nil {
		return result, fmt.Errorf("save streak: %w", err)
	}

	// 2. Award base + bonus XP.
	award, err := f.ledger.Award(userID, action, event.Difficulty, streak.CurrentStreak)
	if err != nil {
		return result, err
	}
	metrics.XPAwarded.WithLabelValues(string(action)).Add(float64(award.XPAwarded))

	// 3. Re-snapshot so XpEarned / StreakDays conditions see post-award
	// values, then evaluate achievements.
	stats, err := f.db.UserStatsSnapshot(userID)
	if err != nil {
		return result, fmt.Errorf("snapshot stats: %w", err)
	}
	eval, err := f.achievements.Evaluate(userID, stats, now)
	if err != nil {
		return result, err
	}
	for _, def := range eval.NewlyUnlocked {
		metrics.AchievementsUnlocked.WithLabelValues(def.Condition.Kind()).Inc()
		metrics.XPAwarded.WithLabelValues(string(domain.ActionAchievementUnlock)).Add(float64(def.XPReward))
	}

	// 4. Consolidate. Achievement rewards may have pushed the level past
	// the event award's own, so read the final state back.
	user, err = f.db.GetUser(userID)
	if err != nil {
		return result, err
	}

	result = domain.GamificationResult{
		XPAwarded:     award.XPAwarded,
		NewLevel:      user.CurrentLevel,
		LeveledUp:     user.CurrentLevel > award.LevelBefore,
		TotalXP:       user.TotalXP,
		CurrentStreak: streak.CurrentStreak,
		NewlyUnlocked: eval.NewlyUnlocked,
	}
	if result.LeveledUp {
		metrics.LevelUps.Inc()
	}
	return result, nil
}

// actionForEvent maps the inbound event type to an XP action.
func actionForEvent(t domain.EventType) (domain.XPAction, error) {
	switch t {
	case domain.EventProgressRecorded:
		return domain.ActionUpdateProgress, nil
	case domain.EventGoalCompleted:
		return domain.ActionCompleteGoal, nil
	}
	return "", fmt.Errorf("%q: %w", t, domain.ErrUnknownEventType)
}

// errorClass buckets an error for the failure counter.
func errorClass(err error) string {
	switch {
	case domain.IsValidation(err):
		return "validation"
	case domain.IsNotFound(err):
		return "not_found"
	default:
		return "storage"
	}
}
