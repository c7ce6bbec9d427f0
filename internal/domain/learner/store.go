package learner

import "context"

// ══════════════════════════════════════════════════════════════════════════════
// STORE CONTRACT
// Интерфейсы хранилища и внешних каталогов. Реализации - в
// infrastructure/persistence и infrastructure/catalog.
// ══════════════════════════════════════════════════════════════════════════════

// Snapshot - полное состояние прогрессии одного учащегося: то, что фасад
// загружает перед мутацией и сохраняет одной логической записью после.
type Snapshot struct {
	// Version - счётчик оптимистичной блокировки. Инкрементируется при
	// каждом сохранении; несовпадение при записи означает конкурентную
	// модификацию другим процессом.
	Version int64 `json:"version"`

	// User - агрегированный прогресс.
	User *UserProgress `json:"user"`

	// Modules - агрегаты модулей по id модуля.
	Modules map[string]*ModuleProgress `json:"modules"`

	// Lessons - записи прогресса уроков.
	Lessons []LessonProgress `json:"lessons"`

	// Badges - множество полученных бейджей.
	Badges []Badge `json:"badges"`

	// Achievements - множество разблокированных достижений.
	Achievements []Achievement `json:"achievements"`
}

// Store определяет контракт долговременного хранилища снимков прогрессии.
//
// Load для отсутствующего учащегося возвращает свежеинициализированный
// снимок и сразу сохраняет его, чтобы последующие чтения были стабильны.
// Повреждённые записи отбрасываются с откатом к нулевому значению
// (прогрессия не safety-critical), недоступность хранилища - ошибка.
type Store interface {
	// Load загружает снимок прогрессии учащегося.
	Load(ctx context.Context, learnerID string) (*Snapshot, error)

	// Save сохраняет все затронутые записи снимка одной логической записью.
	// Возвращает shared.ErrConcurrentModification, если версия в хранилище
	// уже не та, на которой снимок был загружен.
	Save(ctx context.Context, snap *Snapshot) error

	// Clear удаляет все записи учащегося (полный сброс).
	Clear(ctx context.Context, learnerID string) error

	// Ping проверяет доступность хранилища.
	Ping(ctx context.Context) error
}

// BadgeCatalog поставляет статические метаданные бейджей. Движок никогда
// не выдумывает метаданные сам.
type BadgeCatalog interface {
	// Badge возвращает дескриптор по id каталога.
	Badge(id string) (BadgeDescriptor, bool)

	// ModuleCompleteBadge возвращает дескриптор бейджа завершения модуля.
	ModuleCompleteBadge(moduleID string) BadgeDescriptor
}

// ModuleCatalog поставляет каноническое число уроков модуля. Движок
// никогда не выдумывает это число.
type ModuleCatalog interface {
	// TotalLessons возвращает число уроков модуля (0, если модуль неизвестен).
	TotalLessons(ctx context.Context, moduleID string) (int, error)
}
