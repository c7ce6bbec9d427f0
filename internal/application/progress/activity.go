package progress

import (
	"context"

	"github.com/learnpath/learnpath-progress/internal/domain/learner"
	"github.com/learnpath/learnpath-progress/internal/domain/shared"
	"github.com/learnpath/learnpath-progress/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// DAILY ACTIVITY
// ══════════════════════════════════════════════════════════════════════════════

// TouchActivityResult - состояние серии после отметки активности.
type TouchActivityResult struct {
	// StreakDays - текущая серия.
	StreakDays int `json:"streak_days"`

	// LongestStreak - лучшая серия.
	LongestStreak int `json:"longest_streak"`

	// Extended - продолжилась ли серия этим вызовом.
	Extended bool `json:"extended"`

	// Broken - была ли серия сброшена этим вызовом.
	Broken bool `json:"broken"`

	// DaysMissed - пропущено дней перед сбросом (0, если не было сброса).
	DaysMissed int `json:"days_missed"`

	// BadgesAwarded - бейджи серий, выданные этим вызовом.
	BadgesAwarded []string `json:"badges_awarded,omitempty"`
}

// TouchActivity отмечает учебную активность за текущий UTC-день и
// обновляет серию. Повторные вызовы в тот же день идемпотентны и не
// пишут в хранилище.
func (s *Service) TouchActivity(ctx context.Context, learnerID string) (*TouchActivityResult, error) {
	if learnerID == "" {
		return nil, shared.ErrInvalidLearnerID
	}

	// Сначала дешёвая проверка на same-day: не жжём версию снимка
	// на каждый heartbeat.
	snap, err := s.store.Load(ctx, learnerID)
	if err != nil {
		return nil, err
	}
	today := learner.NewDay(s.now())
	if snap.User.LastActivityDate.Equal(today) {
		return &TouchActivityResult{
			StreakDays:    snap.User.CurrentStreakDays,
			LongestStreak: snap.User.LongestStreakDays,
		}, nil
	}

	var result TouchActivityResult
	err = s.mutate(ctx, learnerID, func(snap *learner.Snapshot, events *[]shared.Event) error {
		change := s.touchStreak(snap, s.now(), events)
		awarded := s.applyAwardRules(snap, events)

		result = TouchActivityResult{
			StreakDays:    snap.User.CurrentStreakDays,
			LongestStreak: snap.User.LongestStreakDays,
			Extended:      change.Extended,
			Broken:        change.Broken,
			DaysMissed:    change.DaysMissed,
			BadgesAwarded: badgeIDs(awarded),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Debug("activity recorded",
		logger.LearnerID(learnerID),
		logger.StreakDays(result.StreakDays),
	)
	return &result, nil
}
