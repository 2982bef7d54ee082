package domain

import "time"

// Goal is a single tracked goal inside a module.
type Goal struct {
	ID          string     `json:"id"`
	UserID      string     `json:"user_id"`
	Module      Module     `json:"module"`
	Title       string     `json:"title"`
	Difficulty  Difficulty `json:"difficulty"`
	CreatedAt   time.Time  `json:"created_at"`
	CompletedAt time.Time  `json:"completed_at"` // Zero while open
}

// Completed reports whether the goal has been closed out.
func (g Goal) Completed() bool {
	return !g.CompletedAt.IsZero()
}

// ProgressEntry is one recorded unit of work toward a goal.
type ProgressEntry struct {
	ID        string    `json:"id"`
	GoalID    string    `json:"goal_id"`
	UserID    string    `json:"user_id"`
	Note      string    `json:"note"`
	CreatedAt time.Time `json:"created_at"`
}
