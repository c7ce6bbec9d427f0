package progress

import (
	"context"

	"github.com/learnpath/learnpath-progress/internal/domain/learner"
	"github.com/learnpath/learnpath-progress/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// QUERIES
// Чистые чтения. Возвращают копии - вызывающий не может мутировать
// состояние в обход фасада.
// ══════════════════════════════════════════════════════════════════════════════

// GetProgress возвращает агрегированный прогресс учащегося. Для нового
// учащегося - свежеинициализированный снимок (не ошибка).
func (s *Service) GetProgress(ctx context.Context, learnerID string) (*learner.UserProgress, error) {
	if learnerID == "" {
		return nil, shared.ErrInvalidLearnerID
	}
	snap, err := s.store.Load(ctx, learnerID)
	if err != nil {
		return nil, err
	}
	return snap.User.Clone(), nil
}

// GetModuleProgress возвращает агрегат модуля. Для нетронутого модуля -
// нулевой агрегат с каталожным totalLessons, не ошибка.
func (s *Service) GetModuleProgress(ctx context.Context, learnerID, moduleID string) (*learner.ModuleProgress, error) {
	if learnerID == "" {
		return nil, shared.ErrInvalidLearnerID
	}
	if moduleID == "" {
		return nil, shared.ErrInvalidModuleID
	}

	snap, err := s.store.Load(ctx, learnerID)
	if err != nil {
		return nil, err
	}
	if mp, ok := snap.Modules[moduleID]; ok {
		clone := *mp
		return &clone, nil
	}

	total := 0
	if s.modules != nil {
		if fromCatalog, err := s.modules.TotalLessons(ctx, moduleID); err == nil {
			total = fromCatalog
		}
	}
	return &learner.ModuleProgress{ModuleID: moduleID, TotalLessons: total}, nil
}

// CompletedLessonsForModule возвращает отсортированные идентификаторы
// завершённых уроков модуля.
func (s *Service) CompletedLessonsForModule(ctx context.Context, learnerID, moduleID string) ([]string, error) {
	if learnerID == "" {
		return nil, shared.ErrInvalidLearnerID
	}
	if moduleID == "" {
		return nil, shared.ErrInvalidModuleID
	}
	snap, err := s.store.Load(ctx, learnerID)
	if err != nil {
		return nil, err
	}
	return learner.CompletedLessonsForModule(snap.Lessons, moduleID), nil
}

// HasBadge сообщает, есть ли у учащегося бейдж.
func (s *Service) HasBadge(ctx context.Context, learnerID, badgeID string) (bool, error) {
	if learnerID == "" {
		return false, shared.ErrInvalidLearnerID
	}
	snap, err := s.store.Load(ctx, learnerID)
	if err != nil {
		return false, err
	}
	return learner.HasBadge(snap.Badges, badgeID), nil
}

// Badges возвращает копию множества полученных бейджей.
func (s *Service) Badges(ctx context.Context, learnerID string) ([]learner.Badge, error) {
	if learnerID == "" {
		return nil, shared.ErrInvalidLearnerID
	}
	snap, err := s.store.Load(ctx, learnerID)
	if err != nil {
		return nil, err
	}
	out := make([]learner.Badge, len(snap.Badges))
	copy(out, snap.Badges)
	return out, nil
}

// Achievements возвращает копию множества достижений.
func (s *Service) Achievements(ctx context.Context, learnerID string) ([]learner.Achievement, error) {
	if learnerID == "" {
		return nil, shared.ErrInvalidLearnerID
	}
	snap, err := s.store.Load(ctx, learnerID)
	if err != nil {
		return nil, err
	}
	out := make([]learner.Achievement, len(snap.Achievements))
	copy(out, snap.Achievements)
	return out, nil
}

// Ping проверяет доступность хранилища (для health-эндпоинта).
func (s *Service) Ping(ctx context.Context) error {
	return s.store.Ping(ctx)
}
