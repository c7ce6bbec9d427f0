package http

import (
	"encoding/json"
	"net/http"

	"github.com/learnpath/learnpath-progress/internal/application/progress"
	"github.com/learnpath/learnpath-progress/internal/domain/learner"
)

// ══════════════════════════════════════════════════════════════════════════════
// HEALTH
// ══════════════════════════════════════════════════════════════════════════════

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if err := s.service.Ping(r.Context()); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{
			"status": "unhealthy",
			"store":  err.Error(),
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// ══════════════════════════════════════════════════════════════════════════════
// QUERIES
// ══════════════════════════════════════════════════════════════════════════════

func (s *Server) handleGetProgress(w http.ResponseWriter, r *http.Request) {
	p, err := s.service.GetProgress(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (s *Server) handleGetModuleProgress(w http.ResponseWriter, r *http.Request) {
	mp, err := s.service.GetModuleProgress(r.Context(), r.PathValue("id"), r.PathValue("module"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, mp)
}

func (s *Server) handleGetCompletedLessons(w http.ResponseWriter, r *http.Request) {
	ids, err := s.service.CompletedLessonsForModule(r.Context(), r.PathValue("id"), r.PathValue("module"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if ids == nil {
		ids = []string{}
	}
	writeJSON(w, http.StatusOK, map[string][]string{"completed_lessons": ids})
}

func (s *Server) handleGetBadges(w http.ResponseWriter, r *http.Request) {
	badges, err := s.service.Badges(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if badges == nil {
		badges = []learner.Badge{}
	}
	writeJSON(w, http.StatusOK, map[string][]learner.Badge{"badges": badges})
}

func (s *Server) handleGetAchievements(w http.ResponseWriter, r *http.Request) {
	achievements, err := s.service.Achievements(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if achievements == nil {
		achievements = []learner.Achievement{}
	}
	writeJSON(w, http.StatusOK, map[string][]learner.Achievement{"achievements": achievements})
}

// ══════════════════════════════════════════════════════════════════════════════
// MUTATIONS
// ══════════════════════════════════════════════════════════════════════════════

type completeLessonRequest struct {
	ModuleID     string               `json:"module_id"`
	LessonID     string               `json:"lesson_id"`
	XPReward     int                  `json:"xp_reward"`
	Score        *int                 `json:"score,omitempty"`
	QuizResults  []learner.QuizResult `json:"quiz_results,omitempty"`
	TotalLessons int                  `json:"total_lessons,omitempty"`
}

func (s *Server) handleCompleteLesson(w http.ResponseWriter, r *http.Request) {
	var req completeLessonRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := s.service.CompleteLesson(r.Context(), progress.CompleteLessonCommand{
		LearnerID:    r.PathValue("id"),
		ModuleID:     req.ModuleID,
		LessonID:     req.LessonID,
		XPReward:     req.XPReward,
		Score:        req.Score,
		QuizResults:  req.QuizResults,
		TotalLessons: req.TotalLessons,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

type addXPRequest struct {
	Amount int    `json:"amount"`
	Source string `json:"source,omitempty"`
}

func (s *Server) handleAddXP(w http.ResponseWriter, r *http.Request) {
	var req addXPRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := s.service.AddXP(r.Context(), progress.AddXPCommand{
		LearnerID: r.PathValue("id"),
		Amount:    req.Amount,
		Source:    req.Source,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

type awardBadgeRequest struct {
	BadgeID string `json:"badge_id"`
}

func (s *Server) handleAwardBadge(w http.ResponseWriter, r *http.Request) {
	var req awardBadgeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := s.service.AwardBadge(r.Context(), progress.AwardBadgeCommand{
		LearnerID: r.PathValue("id"),
		BadgeID:   req.BadgeID,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

type unlockAchievementRequest struct {
	AchievementID string `json:"achievement_id"`
	Value         int    `json:"value,omitempty"`
}

func (s *Server) handleUnlockAchievement(w http.ResponseWriter, r *http.Request) {
	var req unlockAchievementRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := s.service.UnlockAchievement(r.Context(), progress.UnlockAchievementCommand{
		LearnerID:     r.PathValue("id"),
		AchievementID: req.AchievementID,
		Value:         req.Value,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleTouchActivity(w http.ResponseWriter, r *http.Request) {
	result, err := s.service.TouchActivity(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleClearProgress(w http.ResponseWriter, r *http.Request) {
	if err := s.service.ClearAll(r.Context(), r.PathValue("id")); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
