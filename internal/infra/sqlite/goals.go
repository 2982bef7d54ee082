package sqlite

import (
	"database/sql"
	"time"

	"github.com/questlog/questlog/internal/domain"
)

// ─── Goals ──────────────────────────────────────────────────────────────────

// InsertGoal creates a new goal record.
func (d *DB) InsertGoal(g domain.Goal) error {
	_, err := d.db.Exec(
		`INSERT INTO goals (id, user_id, module, title, difficulty, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		g.ID, g.UserID, string(g.Module), g.Title, string(g.Difficulty), g.CreatedAt.Unix(),
	)
	return err
}

// GetGoal retrieves a goal by ID.
func (d *DB) GetGoal(id string) (*domain.Goal, error) {
	row := d.db.QueryRow(
		`SELECT id, user_id, module, title, difficulty, created_at, completed_at
		 FROM goals WHERE id = ?`, id,
	)
	g, err := scanGoal(row)
	if err == sql.ErrNoRows {
		return nil, domain.ErrGoalNotFound
	}
	if err != nil {
		return nil, err
	}
	return g, nil
}

// ListGoals returns all goals for a user, newest first.
func (d *DB) ListGoals(userID string) ([]domain.Goal, error) {
	rows, err := d.db.Query(
		`SELECT id, user_id, module, title, difficulty, created_at, completed_at
		 FROM goals WHERE user_id = ? ORDER BY created_at DESC`, userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var goals []domain.Goal
	for rows.Next() {
		g, err := scanGoal(rows)
		if err != nil {
			return nil, err
		}
		goals = append(goals, *g)
	}
	return goals, rows.Err()
}

// CompleteGoal closes a goal exactly once. The WHERE completed_at IS NULL
// guard makes retries and concurrent completions harmless: only the first
// caller gets true.
func (d *DB) CompleteGoal(id string, at time.Time) (bool, error) {
	result, err := d.db.Exec(
		`UPDATE goals SET completed_at = ? WHERE id = ? AND completed_at IS NULL`,
		at.Unix(), id,
	)
	if err != nil {
		return false, err
	}
	n, _ := result.RowsAffected()
	if n > 0 {
		return true, nil
	}

	// Distinguish "already completed" from "no such goal".
	if _, err := d.GetGoal(id); err != nil {
		return false, err
	}
	return false, nil
}

// ─── Progress Entries ───────────────────────────────────────────────────────

// InsertProgressEntry records one unit of work toward a goal.
func (d *DB) InsertProgressEntry(e domain.ProgressEntry) error {
	_, err := d.db.Exec(
		`INSERT INTO progress_entries (id, goal_id, user_id, note, created_at)
		 VALUES (?, ?, ?, ?, ?)`,
		e.ID, e.GoalID, e.UserID, e.Note, e.CreatedAt.Unix(),
	)
	return err
}

// ProgressEntryCount returns how many entries a goal has.
func (d *DB) ProgressEntryCount(goalID string) (int, error) {
	var count int
	err := d.db.QueryRow(
		`SELECT COUNT(*) FROM progress_entries WHERE goal_id = ?`, goalID,
	).Scan(&count)
	return count, err
}

func scanGoal(s scanner) (*domain.Goal, error) {
	var g domain.Goal
	var module, difficulty string
	var createdAt int64
	var completedAt sql.NullInt64

	err := s.Scan(&g.ID, &g.UserID, &module, &g.Title, &difficulty, &createdAt, &completedAt)
	if err != nil {
		return nil, err
	}

	g.Module = domain.Module(module)
	g.Difficulty = domain.Difficulty(difficulty)
	g.CreatedAt = time.Unix(createdAt, 0).UTC()
	if completedAt.Valid {
		g.CompletedAt = time.Unix(completedAt.Int64, 0).UTC()
	}
	return &g, nil
}
