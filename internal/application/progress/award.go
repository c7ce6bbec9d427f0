package progress

import (
	"context"

	"github.com/learnpath/learnpath-progress/internal/domain/learner"
	"github.com/learnpath/learnpath-progress/internal/domain/shared"
	"github.com/learnpath/learnpath-progress/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// BADGES & ACHIEVEMENTS
// Прямое награждение в обход пороговых правил: редакционные бейджи,
// события сообщества, миграции. Семантика множества та же.
// ══════════════════════════════════════════════════════════════════════════════

// AwardBadgeCommand - команда прямого награждения бейджем каталога.
type AwardBadgeCommand struct {
	// LearnerID - идентификатор учащегося.
	LearnerID string

	// BadgeID - идентификатор бейджа в каталоге.
	BadgeID string
}

// Validate проверяет аргументы команды.
func (c AwardBadgeCommand) Validate() error {
	if c.LearnerID == "" {
		return shared.ErrInvalidLearnerID
	}
	if c.BadgeID == "" {
		return shared.ErrInvalidBadge
	}
	return nil
}

// AwardBadgeResult - результат награждения.
type AwardBadgeResult struct {
	// Awarded - true при фактической вставке; false, если бейдж уже был
	// или каталог его не знает.
	Awarded bool `json:"awarded"`

	// XPBonus - начисленный разовый бонус (0 при no-op).
	XPBonus int `json:"xp_bonus"`

	// BadgesEarned - размер множества бейджей после вызова.
	BadgesEarned int `json:"badges_earned"`
}

// AwardBadge выдаёт бейдж напрямую. Повторное награждение - no-op:
// ни дубля, ни второго XP-бонуса, ни обновления earnedAt.
func (s *Service) AwardBadge(ctx context.Context, cmd AwardBadgeCommand) (*AwardBadgeResult, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	var result AwardBadgeResult
	err := s.mutate(ctx, cmd.LearnerID, func(snap *learner.Snapshot, events *[]shared.Event) error {
		badge, awarded := s.award(snap, cmd.BadgeID, s.now(), events)
		result = AwardBadgeResult{
			Awarded:      awarded,
			XPBonus:      badge.XPBonus,
			BadgesEarned: len(snap.Badges),
		}
		if awarded {
			// Бонус мог поднять уровень и открыть пороговый бейдж.
			snap.User.Recompute(snap.Lessons, snap.Badges, s.now())
			s.applyAwardRules(snap, events)
			result.BadgesEarned = len(snap.Badges)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// UnlockAchievementCommand - команда разблокировки достижения.
type UnlockAchievementCommand struct {
	// LearnerID - идентификатор учащегося.
	LearnerID string

	// AchievementID - идентификатор достижения.
	AchievementID string

	// Value - числовой payload (длина серии, счёт и т.п.).
	Value int
}

// Validate проверяет аргументы команды.
func (c UnlockAchievementCommand) Validate() error {
	if c.LearnerID == "" {
		return shared.ErrInvalidLearnerID
	}
	if c.AchievementID == "" {
		return shared.NewDomainError("learner", "Validate", shared.ErrInvalidID, "achievement id is required")
	}
	return nil
}

// UnlockAchievementResult - результат разблокировки.
type UnlockAchievementResult struct {
	// Unlocked - true при фактической вставке.
	Unlocked bool `json:"unlocked"`

	// Achievements - размер множества достижений после вызова.
	Achievements int `json:"achievements"`
}

// UnlockAchievement разблокирует достижение. Повторный вызов с тем же id -
// no-op, даже с другим value.
func (s *Service) UnlockAchievement(ctx context.Context, cmd UnlockAchievementCommand) (*UnlockAchievementResult, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	var result UnlockAchievementResult
	err := s.mutate(ctx, cmd.LearnerID, func(snap *learner.Snapshot, events *[]shared.Event) error {
		updated, unlocked := learner.AppendAchievement(snap.Achievements, cmd.AchievementID, cmd.Value, s.now())
		snap.Achievements = updated
		if unlocked {
			*events = append(*events, shared.NewAchievementUnlockedEvent(
				cmd.LearnerID, cmd.AchievementID, cmd.Value,
			))
			s.log.Info("achievement unlocked",
				logger.LearnerID(cmd.LearnerID),
				logger.String("achievement_id", cmd.AchievementID),
			)
		}
		result = UnlockAchievementResult{
			Unlocked:     unlocked,
			Achievements: len(snap.Achievements),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}
