package gamification

import (
	"fmt"
	"time"

	"github.com/questlog/questlog/internal/domain"
	"github.com/questlog/questlog/internal/infra/sqlite"
)

// AchievementEngine evaluates the catalog against user statistics and
// stored per-achievement progress, awarding XP for newly completed
// achievements exactly once.
type AchievementEngine struct {
	db          *sqlite.DB
	ledger      *Ledger
	definitions []domain.AchievementDef
}

// NewAchievementEngine creates an achievement engine with the full catalog.
func NewAchievementEngine(db *sqlite.DB, ledger *Ledger) *AchievementEngine {
	return &AchievementEngine{
		db:          db,
		ledger:      ledger,
		definitions: AllAchievements(),
	}
}

// EvalResult is the outcome of one evaluation pass.
type EvalResult struct {
	NewlyUnlocked   []domain.AchievementDef
	UpdatedProgress []domain.UserAchievementProgress
}

// Evaluate checks every not-yet-completed achievement for the user.
// Completion is check-and-set against the (user_id, achievement_id) unique
// key, so re-evaluating with identical inputs is a no-op: no duplicate
// unlocks, no double XP. Partial progress only moves upward.
func (e *AchievementEngine) Evaluate(userID string, stats domain.UserStatsSnapshot, now time.Time) (EvalResult, error) {
	var result EvalResult

	existing, err := e.db.ListAchievementProgress(userID)
	if err != nil {
		return result, fmt.Errorf("load achievement progress: %w", err)
	}

	for _, def := range e.definitions {
		if prior, ok := existing[def.ID]; ok && prior.IsCompleted {
			continue
		}

		ratio, err := Ratio(def.Condition, stats)
		if err != nil {
			return result, fmt.Errorf("achievement %s: %w", def.ID, err)
		}

		if ratio < 1 {
			record, err := e.db.GetOrCreateAchievementProgress(userID, def.ID)
			if err != nil {
				return result, err
			}
			if ratio > record.Progress {
				if err := e.db.UpdateAchievementProgress(userID, def.ID, ratio); err != nil {
					return result, err
				}
				record.Progress = ratio
				result.UpdatedProgress = append(result.UpdatedProgress, record)
			}
			continue
		}

		won, err := e.db.TryCompleteAchievement(userID, def.ID, now)
		if err != nil {
			return result, err
		}
		if !won {
			// Another evaluation completed it first — already awarded.
			continue
		}

		if _, err := e.ledger.AwardAchievementXP(userID, def); err != nil {
			return result, fmt.Errorf("award achievement xp: %w", err)
		}
		result.NewlyUnlocked = append(result.NewlyUnlocked, def)
	}

	return result, nil
}

// Definitions returns the immutable achievement catalog.
func (e *AchievementEngine) Definitions() []domain.AchievementDef {
	return e.definitions
}

// TotalCount returns the catalog size.
func (e *AchievementEngine) TotalCount() int {
	return len(e.definitions)
}

// CompletedCount returns how many achievements the user has unlocked.
func (e *AchievementEngine) CompletedCount(userID string) (int, error) {
	return e.db.CompletedAchievementCount(userID)
}

// Progress returns all stored progress records for a user keyed by
// achievement ID.
func (e *AchievementEngine) Progress(userID string) (map[string]domain.UserAchievementProgress, error) {
	return e.db.ListAchievementProgress(userID)
}
