package progress

import (
	"context"

	"github.com/learnpath/learnpath-progress/internal/domain/shared"
	"github.com/learnpath/learnpath-progress/pkg/logger"
)

// ClearAll необратимо удаляет весь прогресс учащегося. Следующее чтение
// вернёт свежеинициализированный снимок.
func (s *Service) ClearAll(ctx context.Context, learnerID string) error {
	if learnerID == "" {
		return shared.ErrInvalidLearnerID
	}
	if err := s.store.Clear(ctx, learnerID); err != nil {
		return err
	}

	s.bus.Publish(shared.NewProgressResetEvent(learnerID))
	s.log.Info("progress cleared", logger.LearnerID(learnerID))
	return nil
}
