// Package sqlite provides SQLite-based persistent storage for questlog.
// Uses WAL mode for concurrent reads and crash-safe writes.
package sqlite

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite" // Pure-Go SQLite driver (no CGO required)
)

// DB wraps a SQLite connection with WAL mode and migrations.
type DB struct {
	db *sql.DB
}

// Open creates or opens the SQLite database at dir/questlog.db.
// Enables WAL mode, foreign keys, and 5-second busy timeout.
func Open(dir string) (*DB, error) {
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}

	dbPath := filepath.Join(dir, "questlog.db")
	dsn := dbPath + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(ON)"

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}

	// Connection pool settings for SQLite
	db.SetMaxOpenConns(1) // SQLite is single-writer
	db.SetMaxIdleConns(1)

	d := &DB{db: db}
	if err := d.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return d, nil
}

// Close cleanly shuts down the database.
func (d *DB) Close() error {
	return d.db.Close()
}

// Ping checks database connectivity.
func (d *DB) Ping() error {
	return d.db.Ping()
}

// migrate runs idempotent schema migrations.
func (d *DB) migrate() error {
	migrations := []string{
		// Users: gamification state. total_xp only ever moves via the
		// atomic increment in IncrementUserXP.
		`CREATE TABLE IF NOT EXISTS users (
			id               TEXT PRIMARY KEY,
			total_xp         INTEGER NOT NULL DEFAULT 0,
			current_level    INTEGER NOT NULL DEFAULT 1,
			streak_count     INTEGER NOT NULL DEFAULT 0,
			last_activity_at INTEGER,
			created_at       INTEGER NOT NULL
		)`,

		// Goals per module
		`CREATE TABLE IF NOT EXISTS goals (
			id           TEXT PRIMARY KEY,
			user_id      TEXT NOT NULL,
			module       TEXT NOT NULL,
			title        TEXT NOT NULL DEFAULT '',
			difficulty   TEXT NOT NULL,
			created_at   INTEGER NOT NULL,
			completed_at INTEGER
		)`,
		`CREATE INDEX IF NOT EXISTS idx_goals_user ON goals(user_id)`,
		`CREATE INDEX IF NOT EXISTS idx_goals_user_module ON goals(user_id, module)`,

		// Progress entries recorded against goals
		`CREATE TABLE IF NOT EXISTS progress_entries (
			id         TEXT PRIMARY KEY,
			goal_id    TEXT NOT NULL,
			user_id    TEXT NOT NULL,
			note       TEXT NOT NULL DEFAULT '',
			created_at INTEGER NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_progress_goal ON progress_entries(goal_id)`,

		// Activity events feed streak computation only
		`CREATE TABLE IF NOT EXISTS activity_events (
			id          INTEGER PRIMARY KEY AUTOINCREMENT,
			user_id     TEXT NOT NULL,
			occurred_at INTEGER NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_activity_user_time ON activity_events(user_id, occurred_at)`,

		// Per-user achievement progress. The (user_id, achievement_id)
		// primary key is the last-resort guard against double awards.
		`CREATE TABLE IF NOT EXISTS user_achievements (
			user_id        TEXT NOT NULL,
			achievement_id TEXT NOT NULL,
			progress       REAL NOT NULL DEFAULT 0,
			is_completed   BOOLEAN NOT NULL DEFAULT 0,
			completed_at   INTEGER,
			PRIMARY KEY (user_id, achievement_id)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_user_ach_completed ON user_achievements(user_id, is_completed)`,
	}

	for _, m := range migrations {
		if _, err := d.db.Exec(m); err != nil {
			return fmt.Errorf("migration failed: %w\nSQL: %s", err, m)
		}
	}
	return nil
}

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}
