package gamification

import "github.com/questlog/questlog/internal/domain"

// ─── Achievement Catalog ────────────────────────────────────────────────────
// Every achievement is built from the closed Condition variant set. The
// catalog is loaded once at startup and never mutated.

// AllAchievements returns the full achievement catalog.
func AllAchievements() []domain.AchievementDef {
	return []domain.AchievementDef{
		// ── Getting started ────────────────────────────────────────────
		{
			ID: "first_goal", Name: "Dreamer", Icon: "🌱", XPReward: 25,
			Condition: domain.GoalsCreated{Count: 1},
		},
		{
			ID: "goals_10", Name: "Planner", Icon: "🗺️", XPReward: 100,
			Condition: domain.GoalsCreated{Count: 10},
		},
		{
			ID: "goals_50", Name: "Architect", Icon: "🏗️", XPReward: 500,
			Condition: domain.GoalsCreated{Count: 50},
		},

		// ── Completions ────────────────────────────────────────────────
		{
			ID: "first_finish", Name: "Finisher", Icon: "✅", XPReward: 50,
			Condition: domain.GoalsCompleted{Count: 1},
		},
		{
			ID: "finish_10", Name: "Achiever", Icon: "🏅", XPReward: 200,
			Condition: domain.GoalsCompleted{Count: 10},
		},
		{
			ID: "finish_50", Name: "Closer", Icon: "🏆", XPReward: 1000,
			Condition: domain.GoalsCompleted{Count: 50},
		},
		{
			ID: "finish_100", Name: "Centurion", Icon: "🏛️", XPReward: 2500,
			Condition: domain.GoalsCompleted{Count: 100},
		},

		// ── Per-module mastery ─────────────────────────────────────────
		{
			ID: "fitness_5", Name: "Warming Up", Icon: "💪", XPReward: 150,
			Condition: domain.ModuleGoalsCompleted{Module: domain.ModuleFitness, Count: 5},
		},
		{
			ID: "fitness_25", Name: "Iron Will", Icon: "🏋️", XPReward: 750,
			Condition: domain.ModuleGoalsCompleted{Module: domain.ModuleFitness, Count: 25},
		},
		{
			ID: "learning_5", Name: "Curious Mind", Icon: "📖", XPReward: 150,
			Condition: domain.ModuleGoalsCompleted{Module: domain.ModuleLearning, Count: 5},
		},
		{
			ID: "learning_25", Name: "Scholar", Icon: "🎓", XPReward: 750,
			Condition: domain.ModuleGoalsCompleted{Module: domain.ModuleLearning, Count: 25},
		},
		{
			ID: "scripture_5", Name: "Seeker", Icon: "🕊️", XPReward: 150,
			Condition: domain.ModuleGoalsCompleted{Module: domain.ModuleScripture, Count: 5},
		},
		{
			ID: "scripture_25", Name: "Devoted", Icon: "📜", XPReward: 750,
			Condition: domain.ModuleGoalsCompleted{Module: domain.ModuleScripture, Count: 25},
		},
		{
			ID: "home_5", Name: "Handy", Icon: "🔨", XPReward: 150,
			Condition: domain.ModuleGoalsCompleted{Module: domain.ModuleHome, Count: 5},
		},
		{
			ID: "home_25", Name: "Homesteader", Icon: "🏡", XPReward: 750,
			Condition: domain.ModuleGoalsCompleted{Module: domain.ModuleHome, Count: 25},
		},
		{
			ID: "work_5", Name: "Professional", Icon: "💼", XPReward: 150,
			Condition: domain.ModuleGoalsCompleted{Module: domain.ModuleWork, Count: 5},
		},
		{
			ID: "work_25", Name: "Executive", Icon: "📈", XPReward: 750,
			Condition: domain.ModuleGoalsCompleted{Module: domain.ModuleWork, Count: 25},
		},

		// ── Streaks ────────────────────────────────────────────────────
		{
			ID: "streak_3", Name: "Momentum", Icon: "✨", XPReward: 75,
			Condition: domain.StreakDays{Days: 3},
		},
		{
			ID: "streak_7", Name: "Week Warrior", Icon: "🔥", XPReward: 200,
			Condition: domain.StreakDays{Days: 7},
		},
		{
			ID: "streak_30", Name: "Monthly Machine", Icon: "⚡", XPReward: 1000,
			Condition: domain.StreakDays{Days: 30},
		},
		{
			ID: "streak_100", Name: "Unbreakable", Icon: "💎", XPReward: 5000,
			Condition: domain.StreakDays{Days: 100},
		},

		// ── XP milestones ──────────────────────────────────────────────
		{
			ID: "xp_100", Name: "First Steps", Icon: "👣", XPReward: 25,
			Condition: domain.XPEarned{Amount: 100},
		},
		{
			ID: "xp_1000", Name: "Rising Star", Icon: "🌟", XPReward: 100,
			Condition: domain.XPEarned{Amount: 1000},
		},
		{
			ID: "xp_10000", Name: "Veteran", Icon: "🎖️", XPReward: 500,
			Condition: domain.XPEarned{Amount: 10000},
		},
		{
			ID: "xp_50000", Name: "Legend", Icon: "👑", XPReward: 2000,
			Condition: domain.XPEarned{Amount: 50000},
		},
	}
}
