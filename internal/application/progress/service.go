// Package progress содержит фасад движка прогрессии - единственную
// границу композиции между хранилищем, каталогами и доменными правилами.
//
// Каждая мутация проходит один и тот же конвейер: загрузка снимка,
// доменная мутация, кросс-компонентные правила наград, полный пересчёт
// производных полей, одна логическая запись, публикация событий.
// Нарушения бизнес-правил (повторное завершение урока, уже выданный
// бейдж, неположительный XP) - никогда не ошибки; наружу выходят только
// отказы хранилища и невалидные аргументы.
package progress

import (
	"context"
	"time"

	"github.com/learnpath/learnpath-progress/internal/domain/learner"
	"github.com/learnpath/learnpath-progress/internal/domain/shared"
	"github.com/learnpath/learnpath-progress/pkg/logger"
)

// Service - фасад прогрессии. Все мутации сериализуются через
// внутренний мьютекс снапшот-стора; фоновых горутин нет.
type Service struct {
	store   learner.Store
	badges  learner.BadgeCatalog
	modules learner.ModuleCatalog
	bus     shared.EventPublisher
	log     *logger.Logger

	now func() time.Time
}

// NewService собирает фасад. Каталоги и шина обязательны: движок не
// выдумывает метаданные бейджей и не глотает события.
func NewService(
	store learner.Store,
	badges learner.BadgeCatalog,
	modules learner.ModuleCatalog,
	bus shared.EventPublisher,
	log *logger.Logger,
) *Service {
	if log == nil {
		log = logger.Default()
	}
	return &Service{
		store:   store,
		badges:  badges,
		modules: modules,
		bus:     bus,
		log:     log.With(logger.Component("progress_service")),
		now:     time.Now,
	}
}

// mutate загружает снимок, применяет fn и сохраняет результат. События,
// собранные fn, публикуются только после успешной записи - подписчик
// никогда не видит событие о состоянии, которого нет в хранилище.
func (s *Service) mutate(
	ctx context.Context,
	learnerID string,
	fn func(snap *learner.Snapshot, events *[]shared.Event) error,
) error {
	snap, err := s.store.Load(ctx, learnerID)
	if err != nil {
		return err
	}

	var events []shared.Event
	if err := fn(snap, &events); err != nil {
		return err
	}

	snap.User.Recompute(snap.Lessons, snap.Badges, s.now())
	if err := s.store.Save(ctx, snap); err != nil {
		return err
	}

	for _, event := range events {
		s.bus.Publish(event)
	}
	return nil
}

// ──────────────────────────────────────────────
// Кросс-компонентные правила наград
// ──────────────────────────────────────────────

// applyAwardRules проверяет все пороговые правила бейджей и выдаёт
// недостающие. XP-бонус свежего бейджа может поднять уровень и открыть
// следующий пороговый бейдж, поэтому правила прогоняются до неподвижной
// точки (каталожные пороги конечны - цикл ограничен).
func (s *Service) applyAwardRules(snap *learner.Snapshot, events *[]shared.Event) []learner.Badge {
	var awarded []learner.Badge
	now := s.now()

	for {
		progressed := false
		for _, id := range s.dueBadgeIDs(snap) {
			if badge, ok := s.award(snap, id, now, events); ok {
				awarded = append(awarded, badge)
				progressed = true
			}
		}
		if !progressed {
			return awarded
		}
	}
}

// dueBadgeIDs возвращает идентификаторы бейджей, чьи пороги достигнуты
// текущим состоянием снимка. Порог бейджа завершения модуля проверяется
// отдельно в CompleteLesson - только там известен totalLessons.
func (s *Service) dueBadgeIDs(snap *learner.Snapshot) []string {
	var due []string

	if snap.User.LessonsCompleted >= 1 || learner.CompletedLessonCount(snap.Lessons) >= 1 {
		due = append(due, learner.BadgeFirstLesson)
	}
	if snap.User.CurrentStreakDays >= 7 {
		due = append(due, learner.BadgeStreak7)
	}
	if snap.User.CurrentStreakDays >= 30 {
		due = append(due, learner.BadgeStreak30)
	}
	if snap.User.CurrentLevel >= 5 {
		due = append(due, learner.BadgeLevel5)
	}
	if snap.User.CurrentLevel >= 10 {
		due = append(due, learner.BadgeLevel10)
	}
	return due
}

// award выдаёт бейдж по id каталога, один раз начисляя его XP-бонус.
// Уже выданный или неизвестный каталогу бейдж - no-op.
func (s *Service) award(snap *learner.Snapshot, badgeID string, now time.Time, events *[]shared.Event) (learner.Badge, bool) {
	desc, ok := s.badges.Badge(badgeID)
	if !ok {
		return learner.Badge{}, false
	}
	return s.awardDescriptor(snap, desc, now, events)
}

func (s *Service) awardDescriptor(snap *learner.Snapshot, desc learner.BadgeDescriptor, now time.Time, events *[]shared.Event) (learner.Badge, bool) {
	updated, added := learner.AppendBadge(snap.Badges, desc, now)
	if !added {
		return learner.Badge{}, false
	}
	snap.Badges = updated

	learnerID := snap.User.LearnerID
	*events = append(*events, shared.NewBadgeEarnedEvent(
		learnerID, desc.ID, desc.Name, desc.Category, desc.XPBonus,
	))
	s.log.Info("badge earned",
		logger.LearnerID(learnerID),
		logger.BadgeID(desc.ID),
		logger.XPAmount(desc.XPBonus),
	)

	if desc.XPBonus > 0 {
		s.grantXP(snap, learner.XP(desc.XPBonus), "badge:"+desc.ID, now, events)
	}
	return snap.Badges[len(snap.Badges)-1], true
}

// grantXP начисляет XP и публикует события начисления и (при повышении)
// роста уровня. Общая точка для уроков, бонусов бейджей и ручного AddXP.
func (s *Service) grantXP(snap *learner.Snapshot, amount learner.XP, source string, now time.Time, events *[]shared.Event) learner.AddXPResult {
	result := snap.User.AddXP(amount, now)
	if result.Amount <= 0 {
		return result
	}

	learnerID := snap.User.LearnerID
	*events = append(*events, shared.NewXPGainedEvent(
		learnerID, int(result.Amount), int(snap.User.TotalXP), source,
	))
	if result.LeveledUp {
		*events = append(*events, shared.NewLevelUpEvent(
			learnerID, int(result.OldLevel), int(result.NewLevel), int(snap.User.TotalXP),
		))
		s.log.Info("level up",
			logger.LearnerID(learnerID),
			logger.LevelField(int(result.NewLevel)),
		)
	}
	return result
}

// touchStreak обновляет серию по календарному UTC-дню now и публикует
// события изменения. Общая точка для TouchActivity и CompleteLesson.
func (s *Service) touchStreak(snap *learner.Snapshot, now time.Time, events *[]shared.Event) learner.StreakChange {
	change := snap.User.TouchActivity(now)
	if !change.Updated {
		return change
	}

	learnerID := snap.User.LearnerID
	if change.Broken {
		*events = append(*events, shared.NewStreakBrokenEvent(
			learnerID, change.PreviousStreak, change.DaysMissed,
		))
	}
	*events = append(*events, shared.NewStreakUpdatedEvent(
		learnerID, snap.User.CurrentStreakDays, snap.User.LongestStreakDays,
	))
	return change
}

// badgeIDs проецирует выданные бейджи в список идентификаторов для
// result-структур.
func badgeIDs(badges []learner.Badge) []string {
	if len(badges) == 0 {
		return nil
	}
	ids := make([]string, len(badges))
	for i, b := range badges {
		ids[i] = b.ID
	}
	return ids
}
