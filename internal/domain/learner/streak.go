package learner

import "time"

// ══════════════════════════════════════════════════════════════════════════════
// STREAK TRACKER
// Машина состояний на календарной арифметике (граница дня - UTC):
//   тот же день        -> без изменений (идемпотентно)
//   ровно +1 день      -> серия продолжается
//   всё остальное      -> сброс до 1 (пропуск >= 2 дней или ход часов назад)
// ══════════════════════════════════════════════════════════════════════════════

// StreakChange описывает, что произошло с серией после отметки активности.
type StreakChange struct {
	// Updated - true, если серия изменилась (началась, продолжилась или сбросилась).
	Updated bool

	// Extended - true, если серия продолжилась (+1 день).
	Extended bool

	// Broken - true, если серия была сброшена после пропуска.
	Broken bool

	// PreviousStreak - длина серии до сброса (заполняется при Broken).
	PreviousStreak int

	// DaysMissed - сколько дней было пропущено (заполняется при Broken).
	DaysMissed int

	// CurrentStreak - длина серии после отметки.
	CurrentStreak int
}

// TouchActivity отмечает активность за указанный день и обновляет серию.
// После любой ветки LongestStreakDays = max(LongestStreakDays, CurrentStreakDays)
// и LastActivityDate = today. Повторные вызовы в тот же день - no-op.
func (p *UserProgress) TouchActivity(today time.Time) StreakChange {
	day := NewDay(today)
	change := StreakChange{}

	switch {
	case p.LastActivityDate.IsZero():
		// Первая активность вообще
		p.CurrentStreakDays = 1
		change.Updated = true

	case p.LastActivityDate.Equal(day):
		// Уже отмечено сегодня
		change.CurrentStreak = p.CurrentStreakDays
		p.touchDay(day, today)
		return change

	case p.LastActivityDate.DaysUntil(day) == 1:
		p.CurrentStreakDays++
		change.Updated = true
		change.Extended = true

	default:
		// Пропуск дней или часы ушли назад
		gap := p.LastActivityDate.DaysUntil(day)
		if p.CurrentStreakDays > 0 {
			change.Broken = true
			change.PreviousStreak = p.CurrentStreakDays
			if gap > 1 {
				change.DaysMissed = gap - 1
			}
		}
		p.CurrentStreakDays = 1
		change.Updated = true
	}

	change.CurrentStreak = p.CurrentStreakDays
	p.touchDay(day, today)
	return change
}

// touchDay фиксирует дату активности и поддерживает инвариант longest >= current.
func (p *UserProgress) touchDay(day Day, now time.Time) {
	if p.LongestStreakDays < p.CurrentStreakDays {
		p.LongestStreakDays = p.CurrentStreakDays
	}
	p.LastActivityDate = day
	p.UpdatedAt = now.UTC()
}
