package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/questlog/questlog/internal/app/gamification"
	"github.com/questlog/questlog/internal/domain"
)

// ─── Users ──────────────────────────────────────────────────────────────────

type createUserRequest struct {
	ID string `json:"id"`
}

func (s *Server) handleCreateUser(w http.ResponseWriter, r *http.Request) {
	var req createUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := s.db.CreateUser(req.ID, time.Now().UTC()); err != nil {
		writeDomainError(w, err)
		return
	}

	user, err := s.db.GetUser(req.ID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, user)
}

// ─── Goals ──────────────────────────────────────────────────────────────────

type createGoalRequest struct {
	UserID     string `json:"user_id"`
	Module     string `json:"module"`
	Title      string `json:"title"`
	Difficulty string `json:"difficulty"`
}

func (s *Server) handleCreateGoal(w http.ResponseWriter, r *http.Request) {
	var req createGoalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	goal, err := s.goals.Create(req.UserID, domain.Module(req.Module), req.Title, domain.Difficulty(req.Difficulty))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, goal)
}

func (s *Server) handleListGoals(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "id")

	goals, err := s.goals.List(userID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"goals": goals,
	})
}

type goalActionRequest struct {
	UserID string `json:"user_id"`
	Note   string `json:"note,omitempty"`
}

func (s *Server) handleRecordProgress(w http.ResponseWriter, r *http.Request) {
	goalID := chi.URLParam(r, "id")

	var req goalActionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	result, err := s.goals.RecordProgress(req.UserID, goalID, req.Note)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleCompleteGoal(w http.ResponseWriter, r *http.Request) {
	goalID := chi.URLParam(r, "id")

	var req goalActionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	result, err := s.goals.Complete(req.UserID, goalID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// ─── Gamification reads ─────────────────────────────────────────────────────

func (s *Server) handleStreak(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "id")

	user, err := s.db.GetUser(userID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"current_streak":   user.StreakCount,
		"last_activity_at": user.LastActivityAt,
	})
}

func (s *Server) handleLevel(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "id")

	user, err := s.db.GetUser(userID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"level":            user.CurrentLevel,
		"total_xp":         user.TotalXP,
		"xp_to_next_level": gamification.XPToNextLevel(user.TotalXP),
		"progress_pct":     gamification.ProgressPct(user.TotalXP),
	})
}

func (s *Server) handleAchievements(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "id")

	if _, err := s.db.GetUser(userID); err != nil {
		writeDomainError(w, err)
		return
	}
	progress, err := s.achievements.Progress(userID)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	type achievementView struct {
		ID          string     `json:"id"`
		Name        string     `json:"name"`
		Icon        string     `json:"icon"`
		XPReward    int64      `json:"xp_reward"`
		Progress    float64    `json:"progress"`
		IsCompleted bool       `json:"is_completed"`
		CompletedAt *time.Time `json:"completed_at,omitempty"`
	}

	defs := s.achievements.Definitions()
	out := make([]achievementView, 0, len(defs))
	for _, def := range defs {
		v := achievementView{
			ID:       def.ID,
			Name:     def.Name,
			Icon:     def.Icon,
			XPReward: def.XPReward,
		}
		if p, ok := progress[def.ID]; ok {
			v.Progress = p.Progress
			v.IsCompleted = p.IsCompleted
			if p.IsCompleted {
				at := p.CompletedAt
				v.CompletedAt = &at
			}
		}
		out = append(out, v)
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"achievements": out,
	})
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "id")

	user, err := s.db.GetUser(userID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	stats, err := s.db.UserStatsSnapshot(userID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	completed, err := s.achievements.CompletedCount(userID)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"user_id":               user.ID,
		"total_xp":              user.TotalXP,
		"level":                 user.CurrentLevel,
		"xp_to_next_level":      gamification.XPToNextLevel(user.TotalXP),
		"progress_pct":          gamification.ProgressPct(user.TotalXP),
		"current_streak":        user.StreakCount,
		"goals_created":         stats.GoalsCreated,
		"goals_completed":       stats.GoalsCompleted,
		"achievements_unlocked": completed,
		"achievements_total":    s.achievements.TotalCount(),
	})
}
