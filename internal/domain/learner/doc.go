// Package learner содержит доменную модель прогресса учащегося LearnPath.
//
// Это ядро бизнес-логики движка прогрессии. Пакет определяет:
//
//   - Сущности: UserProgress, ModuleProgress, LessonProgress, Badge, Achievement
//   - Value Objects: XP, Level, Day
//   - Чистые функции пересчёта: уровни из XP, агрегаты модулей, стрики
//   - Контракт хранилища: Store (реализации в infrastructure/persistence)
//
// # Архитектурные принципы
//
//  1. Нулевые внешние зависимости - только стандартная библиотека Go
//  2. Производные поля никогда не хранятся независимо - они пересчитываются
//     из исходных коллекций при каждой мутации (Recompute)
//  3. Dependency Inversion - интерфейсы хранилища и каталогов определены
//     здесь, реализуются в infrastructure
//
// # Ключевые инварианты
//
//   - TotalXP монотонно не убывает; CurrentLevel выводится из TotalXP
//   - Завершение урока необратимо (Completed никогда не сбрасывается)
//   - Коллекция бейджей - множество: повторное награждение это no-op
//   - LongestStreakDays >= CurrentStreakDays всегда
//
// Бизнес-правила, связывающие компоненты (когда выдавать бейдж "первый
// урок" и т.п.), живут НЕ здесь, а в application/progress - единственной
// точке композиции.
package learner
