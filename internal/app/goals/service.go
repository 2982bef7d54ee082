// Package goals implements the goal workflows that feed the gamification
// engine: creating goals, recording progress entries, and completing goals.
package goals

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/questlog/questlog/internal/app/gamification"
	"github.com/questlog/questlog/internal/domain"
	"github.com/questlog/questlog/internal/infra/sqlite"
)

// Service manages goals and hands each recorded activity to the facade.
type Service struct {
	db     *sqlite.DB
	facade *gamification.Facade
	now    func() time.Time
}

// NewService creates a goal service.
func NewService(db *sqlite.DB, facade *gamification.Facade) *Service {
	return &Service{db: db, facade: facade, now: time.Now}
}

// SetClock overrides the time source for tests.
func (s *Service) SetClock(now func() time.Time) {
	s.now = now
}

// Create registers a new goal. Creating a goal earns no XP by itself — the
// GoalsCreated counters feed achievement evaluation at the next event.
func (s *Service) Create(userID string, module domain.Module, title string, difficulty domain.Difficulty) (*domain.Goal, error) {
	if !module.Valid() {
		return nil, fmt.Errorf("%q: %w", module, domain.ErrUnknownModule)
	}
	if _, ok := difficulty.Multiplier(); !ok {
		return nil, fmt.Errorf("%q: %w", difficulty, domain.ErrUnknownDifficulty)
	}
	if _, err := s.db.GetUser(userID); err != nil {
		return nil, err
	}

	goal := domain.Goal{
		ID:         uuid.New().String(),
		UserID:     userID,
		Module:     module,
		Title:      title,
		Difficulty: difficulty,
		CreatedAt:  s.now(),
	}
	if err := s.db.InsertGoal(goal); err != nil {
		return nil, fmt.Errorf("insert goal: %w", err)
	}
	return &goal, nil
}

// RecordProgress stores a progress entry and runs the gamification pipeline
// for a progress_recorded event.
func (s *Service) RecordProgress(userID, goalID, note string) (domain.GamificationResult, error) {
	goal, err := s.ownedGoal(userID, goalID)
	if err != nil {
		return domain.GamificationResult{}, err
	}
	if goal.Completed() {
		return domain.GamificationResult{}, domain.ErrGoalCompleted
	}

	now := s.now()
	entry := domain.ProgressEntry{
		ID:        uuid.New().String(),
		GoalID:    goal.ID,
		UserID:    userID,
		Note:      note,
		CreatedAt: now,
	}
	if err := s.db.InsertProgressEntry(entry); err != nil {
		return domain.GamificationResult{}, fmt.Errorf("insert progress entry: %w", err)
	}

	return s.facade.HandleEvent(userID, domain.Event{
		Type:       domain.EventProgressRecorded,
		Difficulty: goal.Difficulty,
		Module:     goal.Module,
		GoalID:     goal.ID,
		OccurredAt: now,
	})
}

// Complete closes a goal and runs the gamification pipeline for a
// goal_completed event. Completion is first-caller-wins: a retry or a
// second device finds the goal already closed and earns nothing twice.
//
// The goal is closed before the pipeline runs so the achievement snapshot
// counts this completion. If the pipeline then fails on a storage error,
// the goal stays closed and its XP is forfeited: reopening it for a retry
// could double-award, since the pipeline may have applied XP before
// failing. Forfeiting loses at most one award; double-awarding cannot be
// undone.
func (s *Service) Complete(userID, goalID string) (domain.GamificationResult, error) {
	goal, err := s.ownedGoal(userID, goalID)
	if err != nil {
		return domain.GamificationResult{}, err
	}

	now := s.now()
	won, err := s.db.CompleteGoal(goal.ID, now)
	if err != nil {
		return domain.GamificationResult{}, err
	}
	if !won {
		return domain.GamificationResult{}, domain.ErrGoalCompleted
	}

	return s.facade.HandleEvent(userID, domain.Event{
		Type:       domain.EventGoalCompleted,
		Difficulty: goal.Difficulty,
		Module:     goal.Module,
		GoalID:     goal.ID,
		OccurredAt: now,
	})
}

// List returns the user's goals, newest first.
func (s *Service) List(userID string) ([]domain.Goal, error) {
	if _, err := s.db.GetUser(userID); err != nil {
		return nil, err
	}
	return s.db.ListGoals(userID)
}

// ownedGoal loads a goal and verifies it belongs to the user. A goal owned
// by someone else is indistinguishable from a missing one.
func (s *Service) ownedGoal(userID, goalID string) (*domain.Goal, error) {
	if _, err := s.db.GetUser(userID); err != nil {
		return nil, err
	}
	goal, err := s.db.GetGoal(goalID)
	if err != nil {
		return nil, err
	}
	if goal.UserID != userID {
		return nil, domain.ErrGoalNotFound
	}
	return goal, nil
}
