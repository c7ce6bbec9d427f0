package learner

import "time"

// ══════════════════════════════════════════════════════════════════════════════
// BADGES & ACHIEVEMENTS
// Коллекция полученных бейджей ведёт себя как множество по id:
// повторное награждение - no-op без побочных эффектов (ни дубля XP,
// ни обновления метки времени).
// ══════════════════════════════════════════════════════════════════════════════

// BadgeDescriptor - каталожное описание бейджа. Метаданные поставляет
// внешний каталог; движок их только прикрепляет к факту награждения.
type BadgeDescriptor struct {
	// ID - уникальный идентификатор бейджа в каталоге.
	ID string `json:"id"`

	// Name - отображаемое название.
	Name string `json:"name"`

	// Description - описание условия получения.
	Description string `json:"description"`

	// Icon - имя иконки для UI.
	Icon string `json:"icon"`

	// Category - категория ("milestone", "streak", "level", "module").
	Category string `json:"category"`

	// XPBonus - разовый бонус XP при первом награждении.
	XPBonus int `json:"xp_bonus"`
}

// IsValid проверяет, что дескриптор пригоден для награждения.
func (d BadgeDescriptor) IsValid() bool {
	return d.ID != ""
}

// Badge - полученный бейдж. EarnedAt выставляется один раз и неизменен.
type Badge struct {
	BadgeDescriptor

	// EarnedAt - когда бейдж был получен.
	EarnedAt time.Time `json:"earned_at"`
}

// HasBadge проверяет наличие бейджа по id. Чистый запрос.
func HasBadge(badges []Badge, id string) bool {
	for i := range badges {
		if badges[i].ID == id {
			return true
		}
	}
	return false
}

// AppendBadge добавляет бейдж, если его ещё нет. Возвращает обновлённую
// коллекцию и true при фактической вставке.
func AppendBadge(badges []Badge, desc BadgeDescriptor, now time.Time) ([]Badge, bool) {
	if !desc.IsValid() || HasBadge(badges, desc.ID) {
		return badges, false
	}
	return append(badges, Badge{
		BadgeDescriptor: desc,
		EarnedAt:        now.UTC(),
	}), true
}

// Achievement - разблокированное достижение. Та же семантика множества,
// что у бейджей, плюс числовой payload (например, длина достигнутой серии).
type Achievement struct {
	// ID - идентификатор достижения в каталоге.
	ID string `json:"id"`

	// Value - числовой payload достижения.
	Value int `json:"value"`

	// UnlockedAt - когда достижение разблокировано.
	UnlockedAt time.Time `json:"unlocked_at"`
}

// HasAchievement проверяет наличие достижения по id. Чистый запрос.
func HasAchievement(achievements []Achievement, id string) bool {
	for i := range achievements {
		if achievements[i].ID == id {
			return true
		}
	}
	return false
}

// AppendAchievement добавляет достижение, если его ещё нет.
func AppendAchievement(achievements []Achievement, id string, value int, now time.Time) ([]Achievement, bool) {
	if id == "" || HasAchievement(achievements, id) {
		return achievements, false
	}
	return append(achievements, Achievement{
		ID:         id,
		Value:      value,
		UnlockedAt: now.UTC(),
	}), true
}

// ══════════════════════════════════════════════════════════════════════════════
// WELL-KNOWN BADGE IDS
// Идентификаторы, на которые опираются правила фасада. Сами дескрипторы
// (имена, иконки, бонусы) живут в infrastructure/catalog.
// ══════════════════════════════════════════════════════════════════════════════

const (
	// BadgeFirstLesson выдаётся, когда lessonsCompleted переходит 0 -> 1.
	BadgeFirstLesson = "first-lesson"

	// BadgeStreak7 выдаётся при серии в 7 дней подряд.
	BadgeStreak7 = "streak-7"

	// BadgeStreak30 выдаётся при серии в 30 дней подряд.
	BadgeStreak30 = "streak-30"

	// BadgeLevel5 выдаётся при достижении 5 уровня.
	BadgeLevel5 = "level-5"

	// BadgeLevel10 выдаётся при достижении 10 уровня.
	BadgeLevel10 = "level-10"
)

// ModuleCompleteBadgeID возвращает id бейджа завершения модуля.
func ModuleCompleteBadgeID(moduleID string) string {
	return "module-complete:" + moduleID
}
