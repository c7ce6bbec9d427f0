package progress

import (
	"context"

	"github.com/learnpath/learnpath-progress/internal/domain/learner"
	"github.com/learnpath/learnpath-progress/internal/domain/shared"
	"github.com/learnpath/learnpath-progress/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// ADD XP
// ══════════════════════════════════════════════════════════════════════════════

// AddXPCommand - ручное начисление XP (бонусы, призы, миграции).
type AddXPCommand struct {
	// LearnerID - идентификатор учащегося.
	LearnerID string

	// Amount - начисляемый XP. Неположительное значение - no-op по
	// контракту, не ошибка.
	Amount int

	// Source - происхождение начисления для событий ("bonus", "import", ...).
	Source string
}

// Validate проверяет аргументы команды.
func (c AddXPCommand) Validate() error {
	if c.LearnerID == "" {
		return shared.ErrInvalidLearnerID
	}
	return nil
}

// AddXPResult - результат начисления XP; UI ничего не пересчитывает сам.
type AddXPResult struct {
	// XPEarned - фактически начисленный XP (0 для no-op).
	XPEarned int `json:"xp_earned"`

	// TotalXP - накопленный XP после начисления.
	TotalXP int `json:"total_xp"`

	// LeveledUp - вырос ли уровень этим начислением.
	LeveledUp bool `json:"leveled_up"`

	// NewLevel - уровень после начисления.
	NewLevel int `json:"new_level"`

	// XPToNextLevel - остаток до следующего уровня.
	XPToNextLevel int `json:"xp_to_next_level"`

	// BadgesAwarded - бейджи, выданные пороговыми правилами этой мутацией.
	BadgesAwarded []string `json:"badges_awarded,omitempty"`
}

// AddXP начисляет XP учащемуся. Неположительный amount возвращает
// текущее состояние без записи в хранилище.
func (s *Service) AddXP(ctx context.Context, cmd AddXPCommand) (*AddXPResult, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	if cmd.Amount <= 0 {
		snap, err := s.store.Load(ctx, cmd.LearnerID)
		if err != nil {
			return nil, err
		}
		return &AddXPResult{
			TotalXP:       int(snap.User.TotalXP),
			NewLevel:      int(snap.User.CurrentLevel),
			XPToNextLevel: int(snap.User.XPToNextLevel),
		}, nil
	}

	source := cmd.Source
	if source == "" {
		source = "manual"
	}

	var result AddXPResult
	err := s.mutate(ctx, cmd.LearnerID, func(snap *learner.Snapshot, events *[]shared.Event) error {
		added := s.grantXP(snap, learner.XP(cmd.Amount), source, s.now(), events)
		awarded := s.applyAwardRules(snap, events)

		result = AddXPResult{
			XPEarned:      int(added.Amount),
			TotalXP:       int(snap.User.TotalXP),
			LeveledUp:     snap.User.CurrentLevel > added.OldLevel,
			NewLevel:      int(snap.User.CurrentLevel),
			XPToNextLevel: int(snap.User.XPToNextLevel),
			BadgesAwarded: badgeIDs(awarded),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Debug("xp added",
		logger.LearnerID(cmd.LearnerID),
		logger.XPAmount(result.XPEarned),
		logger.LevelField(result.NewLevel),
	)
	return &result, nil
}
