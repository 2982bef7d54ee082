// Package gamification implements the questlog gamification engine:
// the XP ledger, streak tracker, achievement condition engine, and the
// facade that sequences them when a domain module records activity.
package gamification

import (
	"time"

	"github.com/questlog/questlog/internal/domain"
)

// CurrentStreak derives the continuous-activity streak from the distinct
// activity days, walking backward from today (UTC calendar days).
//
// The streak counts consecutive days with activity ending today or
// yesterday; a most-recent activity day older than yesterday means the
// streak is broken. Pure function of the day set — callable redundantly
// with no side effects.
func CurrentStreak(activityDays []time.Time, now time.Time) domain.StreakState {
	if len(activityDays) == 0 {
		return domain.StreakState{}
	}

	days := make(map[time.Time]bool, len(activityDays))
	for _, d := range activityDays {
		days[truncateDay(d)] = true
	}

	today := truncateDay(now)
	start := today
	if !days[start] {
		// No activity today — a streak ending yesterday still counts.
		start = today.AddDate(0, 0, -1)
		if !days[start] {
			return domain.StreakState{} // Broken
		}
	}

	streak := 0
	for day := start; days[day]; day = day.AddDate(0, 0, -1) {
		streak++
	}
	return domain.StreakState{CurrentStreak: streak, IsActive: true}
}

// truncateDay normalizes a timestamp to its UTC calendar day.
func truncateDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
