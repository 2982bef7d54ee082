package domain

import "errors"

// ─── Sentinel Errors ────────────────────────────────────────────────────────
// Domain errors are pure — no infrastructure dependency.
// Three classes: validation (caller's fault, never retried), not-found
// (surfaced to caller), and storage (wrapped collaborator failures,
// propagated unchanged). Anything that is neither validation nor not-found
// is treated as a storage failure.

var (
	// Not-found errors
	ErrUserNotFound        = errors.New("user not found")
	ErrGoalNotFound        = errors.New("goal not found")
	ErrAchievementNotFound = errors.New("achievement not found")

	// Validation errors
	ErrUnknownAction     = errors.New("unknown xp action")
	ErrUnknownDifficulty = errors.New("unknown difficulty")
	ErrUnknownModule     = errors.New("unknown module")
	ErrUnknownEventType  = errors.New("unknown event type")
	ErrZeroThreshold     = errors.New("condition threshold must be positive")
	ErrEmptyUserID       = errors.New("user id must not be empty")
	ErrGoalCompleted     = errors.New("goal already completed")
	ErrUserExists        = errors.New("user already exists")
)

// IsNotFound reports whether err belongs to the not-found class.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrUserNotFound) ||
		errors.Is(err, ErrGoalNotFound) ||
		errors.Is(err, ErrAchievementNotFound)
}

// IsValidation reports whether err belongs to the validation class.
func IsValidation(err error) bool {
	return errors.Is(err, ErrUnknownAction) ||
		errors.Is(err, ErrUnknownDifficulty) ||
		errors.Is(err, ErrUnknownModule) ||
		errors.Is(err, ErrUnknownEventType) ||
		errors.Is(err, ErrZeroThreshold) ||
		errors.Is(err, ErrEmptyUserID) ||
		errors.Is(err, ErrGoalCompleted) ||
		errors.Is(err, ErrUserExists)
}
