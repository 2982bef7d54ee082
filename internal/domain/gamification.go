// Package domain holds the questlog core types.
// The gamification engine converts raw goal activity (progress entries,
// completions) into XP, levels, streaks, and unlocked achievements.
package domain

import "time"

// ─── Module Types ───────────────────────────────────────────────────────────

// Module identifies which life area a goal belongs to.
type Module string

const (
	ModuleFitness   Module = "fitness"
	ModuleLearning  Module = "learning"
	ModuleScripture Module = "scripture"
	ModuleHome      Module = "home"
	ModuleWork      Module = "work"
)

// Modules lists every known module.
func Modules() []Module {
	return []Module{ModuleFitness, ModuleLearning, ModuleScripture, ModuleHome, ModuleWork}
}

// Valid reports whether the module is one of the known set.
func (m Module) Valid() bool {
	switch m {
	case ModuleFitness, ModuleLearning, ModuleScripture, ModuleHome, ModuleWork:
		return true
	}
	return false
}

// ─── XP Types ───────────────────────────────────────────────────────────────

// XPAction categorizes what earned the XP.
type XPAction string

const (
	ActionUpdateProgress    XPAction = "update_progress"
	ActionCompleteGoal      XPAction = "complete_goal"
	ActionAchievementUnlock XPAction = "achievement_unlock"
)

// Difficulty scales base XP. Closed set — unknown values are rejected.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
	DifficultyExpert Difficulty = "expert"
)

// Multiplier returns the XP multiplier for this difficulty.
// The second return is false for unknown difficulties.
func (d Difficulty) Multiplier() (float64, bool) {
	switch d {
	case DifficultyEasy:
		return 1.0, true
	case DifficultyMedium:
		return 1.5, true
	case DifficultyHard:
		return 2.0, true
	case DifficultyExpert:
		return 3.0, true
	}
	return 0, false
}

// User is the gamification view of an account.
// Invariant: CurrentLevel == LevelForXP(TotalXP) after every award.
type User struct {
	ID             string    `json:"id"`
	TotalXP        int64     `json:"total_xp"`
	CurrentLevel   int       `json:"current_level"`
	StreakCount    int       `json:"streak_count"`
	LastActivityAt time.Time `json:"last_activity_at"` // Zero if never active
	CreatedAt      time.Time `json:"created_at"`
}

// AwardResult describes the outcome of a single XP award.
type AwardResult struct {
	XPAwarded    int64 `json:"xp_awarded"`
	TotalXPAfter int64 `json:"total_xp_after"`
	LevelBefore  int   `json:"level_before"`
	LevelAfter   int   `json:"level_after"`
	LeveledUp    bool  `json:"leveled_up"`
}

// ─── Streak Types ───────────────────────────────────────────────────────────

// StreakState is the derived streak for a user: consecutive calendar days
// (UTC) with activity, ending today or yesterday. Anything older is broken.
type StreakState struct {
	CurrentStreak int  `json:"current_streak"`
	IsActive      bool `json:"is_active"`
}

// ─── Condition Types ────────────────────────────────────────────────────────

// Condition is the closed set of achievement unlock rules. Each variant is
// evaluated against a UserStatsSnapshot and yields a completion ratio in
// [0,1]. New kinds must be added to the evaluator's type switch — the sealed
// marker keeps the set closed so nothing can silently no-op.
type Condition interface {
	// Kind returns a stable identifier for the variant.
	Kind() string
	sealedCondition()
}

// GoalsCreated unlocks after the user has created Count goals.
type GoalsCreated struct {
	Count int `json:"count"`
}

// GoalsCompleted unlocks after the user has completed Count goals.
type GoalsCompleted struct {
	Count int `json:"count"`
}

// ModuleGoalsCompleted unlocks after Count completions within one module.
type ModuleGoalsCompleted struct {
	Module Module `json:"module"`
	Count  int    `json:"count"`
}

// StreakDays unlocks at a continuous-activity streak of Days.
type StreakDays struct {
	Days int `json:"days"`
}

// XPEarned unlocks once total XP reaches Amount.
type XPEarned struct {
	Amount int64 `json:"amount"`
}

func (GoalsCreated) Kind() string         { return "goals_created" }
func (GoalsCompleted) Kind() string       { return "goals_completed" }
func (ModuleGoalsCompleted) Kind() string { return "module_goals_completed" }
func (StreakDays) Kind() string           { return "streak_days" }
func (XPEarned) Kind() string             { return "xp_earned" }

func (GoalsCreated) sealedCondition()         {}
func (GoalsCompleted) sealedCondition()       {}
func (ModuleGoalsCompleted) sealedCondition() {}
func (StreakDays) sealedCondition()           {}
func (XPEarned) sealedCondition()             {}

// ─── Achievement Types ──────────────────────────────────────────────────────

// AchievementDef defines a single achievement. The catalog is immutable:
// loaded once at startup and never mutated by the engine.
type AchievementDef struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Icon      string    `json:"icon"`
	XPReward  int64     `json:"xp_reward"`
	Condition Condition `json:"condition"`
}

// UserAchievementProgress tracks one user's progress toward one achievement.
// Unique per (UserID, AchievementID). Progress only moves upward; once
// IsCompleted is set the record is immutable.
type UserAchievementProgress struct {
	UserID        string    `json:"user_id"`
	AchievementID string    `json:"achievement_id"`
	Progress      float64   `json:"progress"` // [0,1]
	IsCompleted   bool      `json:"is_completed"`
	CompletedAt   time.Time `json:"completed_at"` // Zero until completed
}

// UserStatsSnapshot is the point-in-time statistics fed to condition
// evaluation. The engine never queries these counts itself — the storage
// layer assembles the snapshot.
type UserStatsSnapshot struct {
	GoalsCreated         int            `json:"goals_created"`
	GoalsCompleted       int            `json:"goals_completed"`
	ModuleGoalsCompleted map[Module]int `json:"module_goals_completed"`
	TotalXP              int64          `json:"total_xp"`
	CurrentStreak        int            `json:"current_streak"`
}

// ─── Event Types ────────────────────────────────────────────────────────────

// EventType identifies what a domain module just recorded.
type EventType string

const (
	EventProgressRecorded EventType = "progress_recorded"
	EventGoalCompleted    EventType = "goal_completed"
)

// Event is the inbound payload domain modules hand to the facade after
// recording activity.
type Event struct {
	Type       EventType  `json:"type"`
	Difficulty Difficulty `json:"difficulty"`
	Module     Module     `json:"module"`
	GoalID     string     `json:"goal_id,omitempty"`
	OccurredAt time.Time  `json:"occurred_at"`
}

// GamificationResult is the consolidated outcome returned to the caller for
// UI display after an event is processed.
type GamificationResult struct {
	XPAwarded     int64            `json:"xp_awarded"`
	LeveledUp     bool             `json:"leveled_up"`
	NewLevel      int              `json:"new_level"`
	TotalXP       int64            `json:"total_xp"`
	CurrentStreak int              `json:"current_streak"`
	NewlyUnlocked []AchievementDef `json:"newly_unlocked"`
}
