// Package metrics provides Prometheus metrics for questlog — counters and
// histograms for events, XP, levels, streaks, and achievements.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// ─── Events ─────────────────────────────────────────────────────────────────

// EventsHandled tracks gamification events processed by type.
var EventsHandled = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "questlog",
	Name:      "events_handled_total",
	Help:      "Total gamification events processed.",
}, []string{"type"})

// EventErrors tracks failed event handling by error class.
var EventErrors = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "questlog",
	Name:      "event_errors_total",
	Help:      "Total event handling failures.",
}, []string{"class"})

// EventLatency tracks end-to-end event handling duration in seconds.
var EventLatency = promauto.NewHistogram(prometheus.HistogramOpts{
	Namespace: "questlog",
	Name:      "event_latency_seconds",
	Help:      "Gamification event handling duration in seconds.",
	Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
})

// ─── XP & Levels ────────────────────────────────────────────────────────────

// XPAwarded tracks total XP granted by action.
var XPAwarded = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "questlog",
	Name:      "xp_awarded_total",
	Help:      "Total XP awarded.",
}, []string{"action"})

// LevelUps tracks level-up occurrences.
var LevelUps = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: "questlog",
	Name:      "level_ups_total",
	Help:      "Total level-ups across all users.",
})

// ─── Achievements ───────────────────────────────────────────────────────────

// AchievementsUnlocked tracks achievement unlocks by condition kind.
var AchievementsUnlocked = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "questlog",
	Name:      "achievements_unlocked_total",
	Help:      "Total achievements unlocked.",
}, []string{"kind"})

// ─── Streaks ────────────────────────────────────────────────────────────────

// StreaksBroken tracks streaks observed broken during event handling.
var StreaksBroken = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: "questlog",
	Name:      "streaks_broken_total",
	Help:      "Total streaks observed broken.",
})
