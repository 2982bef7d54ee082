package sqlite

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/questlog/questlog/internal/domain"
)

// ─── Users ──────────────────────────────────────────────────────────────────

// CreateUser inserts a fresh user with zero XP and no streak.
func (d *DB) CreateUser(id string, now time.Time) error {
	if id == "" {
		return domain.ErrEmptyUserID
	}
	result, err := d.db.Exec(
		`INSERT OR IGNORE INTO users (id, total_xp, current_level, streak_count, created_at)
		 VALUES (?, 0, 1, 0, ?)`,
		id, now.Unix(),
	)
	if err != nil {
		return err
	}
	n, _ := result.RowsAffected()
	if n == 0 {
		return domain.ErrUserExists
	}
	return nil
}

// GetUser retrieves a user's gamification state.
func (d *DB) GetUser(id string) (*domain.User, error) {
	row := d.db.QueryRow(
		`SELECT id, total_xp, current_level, streak_count, last_activity_at, created_at
		 FROM users WHERE id = ?`, id,
	)

	var u domain.User
	var lastActivity sql.NullInt64
	var createdAt int64
	err := row.Scan(&u.ID, &u.TotalXP, &u.CurrentLevel, &u.StreakCount, &lastActivity, &createdAt)
	if err == sql.ErrNoRows {
		return nil, domain.ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}

	if lastActivity.Valid {
		u.LastActivityAt = time.Unix(lastActivity.Int64, 0).UTC()
	}
	u.CreatedAt = time.Unix(createdAt, 0).UTC()
	return &u, nil
}

// IncrementUserXP atomically adds delta to the user's total XP and returns
// the post-increment total. This is never a read-modify-write: the addition
// happens inside the UPDATE so concurrent awards for the same user sum
// correctly.
func (d *DB) IncrementUserXP(userID string, delta int64) (int64, error) {
	var totalAfter int64
	err := d.db.QueryRow(
		`UPDATE users SET total_xp = total_xp + ? WHERE id = ? RETURNING total_xp`,
		delta, userID,
	).Scan(&totalAfter)
	if err == sql.ErrNoRows {
		return 0, domain.ErrUserNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("increment xp: %w", err)
	}
	return totalAfter, nil
}

// SetUserLevel persists the derived level for quick reads. The MAX guard
// makes the write monotonic: XP only ever increases, so a level computed
// from a stale total can never overwrite one computed from a later total,
// no matter how concurrent awards interleave.
func (d *DB) SetUserLevel(userID string, level int) error {
	result, err := d.db.Exec(`UPDATE users SET current_level = MAX(current_level, ?) WHERE id = ?`, level, userID)
	if err != nil {
		return err
	}
	n, _ := result.RowsAffected()
	if n == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

// UpdateUserStreak persists the derived streak and last-activity timestamp.
func (d *DB) UpdateUserStreak(userID string, streak int, lastActivity time.Time) error {
	result, err := d.db.Exec(
		`UPDATE users SET streak_count = ?, last_activity_at = ? WHERE id = ?`,
		streak, lastActivity.Unix(), userID,
	)
	if err != nil {
		return err
	}
	n, _ := result.RowsAffected()
	if n == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

// ─── Activity Events ────────────────────────────────────────────────────────

// InsertActivityEvent records an activity timestamp for streak derivation.
func (d *DB) InsertActivityEvent(userID string, occurredAt time.Time) error {
	_, err := d.db.Exec(
		`INSERT INTO activity_events (user_id, occurred_at) VALUES (?, ?)`,
		userID, occurredAt.Unix(),
	)
	return err
}

// RecentActivityDays returns the distinct UTC calendar days with activity
// within the lookback window, most recent first.
func (d *DB) RecentActivityDays(userID string, lookbackDays int, now time.Time) ([]time.Time, error) {
	cutoff := now.UTC().AddDate(0, 0, -lookbackDays).Unix()
	rows, err := d.db.Query(
		`SELECT DISTINCT date(occurred_at, 'unixepoch') AS day
		 FROM activity_events
		 WHERE user_id = ? AND occurred_at >= ?
		 ORDER BY day DESC`,
		userID, cutoff,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var days []time.Time
	for rows.Next() {
		var day string
		if err := rows.Scan(&day); err != nil {
			return nil, err
		}
		t, err := time.ParseInLocation("2006-01-02", day, time.UTC)
		if err != nil {
			return nil, fmt.Errorf("parse activity day %q: %w", day, err)
		}
		days = append(days, t)
	}
	return days, rows.Err()
}

// ─── Stats Snapshot ─────────────────────────────────────────────────────────

// UserStatsSnapshot assembles the point-in-time statistics the achievement
// engine evaluates conditions against.
func (d *DB) UserStatsSnapshot(userID string) (domain.UserStatsSnapshot, error) {
	var stats domain.UserStatsSnapshot

	u, err := d.GetUser(userID)
	if err != nil {
		return stats, err
	}
	stats.TotalXP = u.TotalXP
	stats.CurrentStreak = u.StreakCount

	err = d.db.QueryRow(
		`SELECT COUNT(*), COUNT(completed_at) FROM goals WHERE user_id = ?`, userID,
	).Scan(&stats.GoalsCreated, &stats.GoalsCompleted)
	if err != nil {
		return stats, fmt.Errorf("count goals: %w", err)
	}

	rows, err := d.db.Query(
		`SELECT module, COUNT(*) FROM goals
		 WHERE user_id = ? AND completed_at IS NOT NULL
		 GROUP BY module`, userID,
	)
	if err != nil {
		return stats, fmt.Errorf("count module goals: %w", err)
	}
	defer rows.Close()

	stats.ModuleGoalsCompleted = make(map[domain.Module]int)
	for rows.Next() {
		var module string
		var count int
		if err := rows.Scan(&module, &count); err != nil {
			return stats, err
		}
		stats.ModuleGoalsCompleted[domain.Module(module)] = count
	}
	return stats, rows.Err()
}

// ─── Achievement Progress ───────────────────────────────────────────────────

// GetOrCreateAchievementProgress returns the stored progress record,
// creating it at zero progress on first evaluation.
func (d *DB) GetOrCreateAchievementProgress(userID, achievementID string) (domain.UserAchievementProgress, error) {
	_, err := d.db.Exec(
		`INSERT OR IGNORE INTO user_achievements (user_id, achievement_id, progress, is_completed)
		 VALUES (?, ?, 0, 0)`,
		userID, achievementID,
	)
	if err != nil {
		return domain.UserAchievementProgress{}, err
	}
	return d.getAchievementProgress(userID, achievementID)
}

// ListAchievementProgress returns all stored progress for a user, keyed by
// achievement ID.
func (d *DB) ListAchievementProgress(userID string) (map[string]domain.UserAchievementProgress, error) {
	rows, err := d.db.Query(
		`SELECT user_id, achievement_id, progress, is_completed, completed_at
		 FROM user_achievements WHERE user_id = ?`, userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	progress := make(map[string]domain.UserAchievementProgress)
	for rows.Next() {
		p, err := scanAchievementProgress(rows)
		if err != nil {
			return nil, err
		}
		progress[p.AchievementID] = *p
	}
	return progress, rows.Err()
}

// TryCompleteAchievement atomically marks an achievement completed.
// Returns true if this call performed the completion, false if another
// caller already completed it — double-completion races resolve silently.
func (d *DB) TryCompleteAchievement(userID, achievementID string, completedAt time.Time) (bool, error) {
	_, err := d.db.Exec(
		`INSERT OR IGNORE INTO user_achievements (user_id, achievement_id, progress, is_completed)
		 VALUES (?, ?, 0, 0)`,
		userID, achievementID,
	)
	if err != nil {
		return false, err
	}

	result, err := d.db.Exec(
		`UPDATE user_achievements
		 SET is_completed = 1, completed_at = ?, progress = 1.0
		 WHERE user_id = ? AND achievement_id = ? AND is_completed = 0`,
		completedAt.Unix(), userID, achievementID,
	)
	if err != nil {
		return false, err
	}
	n, _ := result.RowsAffected()
	return n > 0, nil // true = this call won the completion
}

// UpdateAchievementProgress raises stored progress to ratio. Progress is
// monotonic: the MAX in SQL never lets a lower snapshot regress it, and
// completed records are never touched.
func (d *DB) UpdateAchievementProgress(userID, achievementID string, ratio float64) error {
	_, err := d.db.Exec(
		`UPDATE user_achievements
		 SET progress = MAX(progress, ?)
		 WHERE user_id = ? AND achievement_id = ? AND is_completed = 0`,
		ratio, userID, achievementID,
	)
	return err
}

// CompletedAchievementCount returns how many achievements the user has
// completed.
func (d *DB) CompletedAchievementCount(userID string) (int, error) {
	var count int
	err := d.db.QueryRow(
		`SELECT COUNT(*) FROM user_achievements WHERE user_id = ? AND is_completed = 1`,
		userID,
	).Scan(&count)
	return count, err
}

func (d *DB) getAchievementProgress(userID, achievementID string) (domain.UserAchievementProgress, error) {
	row := d.db.QueryRow(
		`SELECT user_id, achievement_id, progress, is_completed, completed_at
		 FROM user_achievements WHERE user_id = ? AND achievement_id = ?`,
		userID, achievementID,
	)
	p, err := scanAchievementProgress(row)
	if err == sql.ErrNoRows {
		return domain.UserAchievementProgress{}, domain.ErrAchievementNotFound
	}
	if err != nil {
		return domain.UserAchievementProgress{}, err
	}
	return *p, nil
}

func scanAchievementProgress(s scanner) (*domain.UserAchievementProgress, error) {
	var p domain.UserAchievementProgress
	var completedAt sql.NullInt64
	err := s.Scan(&p.UserID, &p.AchievementID, &p.Progress, &p.IsCompleted, &completedAt)
	if err != nil {
		return nil, err
	}
	if completedAt.Valid {
		p.CompletedAt = time.Unix(completedAt.Int64, 0).UTC()
	}
	return &p, nil
}
