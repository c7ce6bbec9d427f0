package progress

import (
	"context"

	"github.com/learnpath/learnpath-progress/internal/domain/learner"
	"github.com/learnpath/learnpath-progress/internal/domain/shared"
	"github.com/learnpath/learnpath-progress/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// COMPLETE LESSON
// Главная мутация движка: завершение урока, квиз, XP, серия, агрегат
// модуля и пороговые бейджи - одной логической записью.
// ══════════════════════════════════════════════════════════════════════════════

// CompleteLessonCommand - данные завершения урока.
type CompleteLessonCommand struct {
	// LearnerID - идентификатор учащегося.
	LearnerID string

	// ModuleID - модуль урока.
	ModuleID string

	// LessonID - идентификатор урока внутри модуля.
	LessonID string

	// XPReward - XP за первое завершение урока. Повторное завершение
	// ничего не начисляет.
	XPReward int

	// Score - балл за урок, если урок оценивался.
	Score *int

	// QuizResults - ответы квиза. Учитываются только при первом
	// завершении урока.
	QuizResults []learner.QuizResult

	// TotalLessons - каноническое число уроков модуля. Если <= 0, число
	// запрашивается у каталога модулей.
	TotalLessons int
}

// Validate проверяет аргументы команды.
func (c CompleteLessonCommand) Validate() error {
	if c.LearnerID == "" {
		return shared.ErrInvalidLearnerID
	}
	if c.ModuleID == "" {
		return shared.ErrInvalidModuleID
	}
	if c.LessonID == "" {
		return shared.ErrInvalidLessonID
	}
	return nil
}

// CompleteLessonResult - полный результат завершения урока.
type CompleteLessonResult struct {
	// AlreadyCompleted - true, если урок был завершён ранее; вся мутация
	// тогда no-op по производным счётчикам.
	AlreadyCompleted bool `json:"already_completed"`

	// XPEarned - начисленный XP (0 при повторном завершении).
	XPEarned int `json:"xp_earned"`

	// LeveledUp - вырос ли уровень.
	LeveledUp bool `json:"leveled_up"`

	// NewLevel - уровень после мутации.
	NewLevel int `json:"new_level"`

	// LessonsCompleted - завершено уроков по всем модулям.
	LessonsCompleted int `json:"lessons_completed"`

	// ModuleProgress - процент прохождения модуля [0,100].
	ModuleProgress int `json:"module_progress"`

	// ModuleCompleted - true, если модуль впервые достиг 100% этой мутацией.
	ModuleCompleted bool `json:"module_completed"`

	// StreakDays - серия после отметки активности.
	StreakDays int `json:"streak_days"`

	// StreakExtended - продолжилась ли серия этой мутацией.
	StreakExtended bool `json:"streak_extended"`

	// BadgesAwarded - бейджи, выданные этой мутацией.
	BadgesAwarded []string `json:"badges_awarded,omitempty"`
}

// CompleteLesson отмечает урок завершённым. Идемпотентно: повторное
// завершение не меняет производных счётчиков, не начисляет XP и не
// перезаписывает зафиксированные ответы квиза, но по-прежнему отмечает
// дневную активность.
func (s *Service) CompleteLesson(ctx context.Context, cmd CompleteLessonCommand) (*CompleteLessonResult, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	totalLessons := cmd.TotalLessons
	if totalLessons <= 0 && s.modules != nil {
		fromCatalog, err := s.modules.TotalLessons(ctx, cmd.ModuleID)
		if err != nil {
			return nil, shared.WrapError("progress", "CompleteLesson",
				shared.ErrStorageUnavailable, "query module catalog", err)
		}
		totalLessons = fromCatalog
	}

	var result CompleteLessonResult
	err := s.mutate(ctx, cmd.LearnerID, func(snap *learner.Snapshot, events *[]shared.Event) error {
		now := s.now()
		oldLevel := snap.User.CurrentLevel

		record := learner.FindLesson(snap.Lessons, cmd.ModuleID, cmd.LessonID)
		first := record == nil || !record.Completed
		if record == nil {
			snap.Lessons = append(snap.Lessons, learner.LessonProgress{
				ModuleID: cmd.ModuleID,
				LessonID: cmd.LessonID,
			})
			record = &snap.Lessons[len(snap.Lessons)-1]
		}

		if first {
			ts := now.UTC()
			record.Completed = true
			record.CompletedAt = &ts
			record.Score = cmd.Score
			// Ответы квиза замораживаются при первом завершении; повторные
			// прохождения не раздувают счётчики точности.
			record.QuizResults = cmd.QuizResults

			*events = append(*events, shared.NewLessonCompletedEvent(
				cmd.LearnerID, cmd.ModuleID, cmd.LessonID, cmd.XPReward,
			))
		}

		mp, ok := snap.Modules[cmd.ModuleID]
		if !ok {
			mp = &learner.ModuleProgress{ModuleID: cmd.ModuleID}
			snap.Modules[cmd.ModuleID] = mp
		}
		var awarded []learner.Badge
		justCompleted := learner.RecomputeModule(mp, snap.Lessons, totalLessons, now)
		if justCompleted {
			*events = append(*events, shared.NewModuleCompletedEvent(
				cmd.LearnerID, cmd.ModuleID, totalLessons,
			))
			if badge, ok := s.awardDescriptor(snap, s.badges.ModuleCompleteBadge(cmd.ModuleID), now, events); ok {
				awarded = append(awarded, badge)
			}
		}

		streak := s.touchStreak(snap, now, events)

		var added learner.AddXPResult
		if first {
			added = s.grantXP(snap, learner.XP(cmd.XPReward), "lesson:"+cmd.LessonID, now, events)
		}

		// Производные счётчики нужны правилам наград до финального Recompute.
		snap.User.Recompute(snap.Lessons, snap.Badges, now)
		awarded = append(awarded, s.applyAwardRules(snap, events)...)

		result = CompleteLessonResult{
			AlreadyCompleted: !first,
			XPEarned:         int(added.Amount),
			LeveledUp:        snap.User.CurrentLevel > oldLevel,
			NewLevel:         int(snap.User.CurrentLevel),
			LessonsCompleted: learner.CompletedLessonCount(snap.Lessons),
			ModuleProgress:   mp.Progress,
			ModuleCompleted:  justCompleted,
			StreakDays:       streak.CurrentStreak,
			StreakExtended:   streak.Extended,
			BadgesAwarded:    badgeIDs(awarded),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("lesson completed",
		logger.LearnerID(cmd.LearnerID),
		logger.ModuleID(cmd.ModuleID),
		logger.LessonID(cmd.LessonID),
		logger.Bool("already_completed", result.AlreadyCompleted),
		logger.XPAmount(result.XPEarned),
	)
	return &result, nil
}
