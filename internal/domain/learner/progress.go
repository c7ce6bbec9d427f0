package learner

import (
	"encoding/json"
	"math"
	"time"

	"github.com/learnpath/learnpath-progress/pkg/timeutil"
)

// ══════════════════════════════════════════════════════════════════════════════
// DAY
// Календарная дата без времени суток. Политика движка - граница дня по UTC;
// сериализуется как "2006-01-02".
// ══════════════════════════════════════════════════════════════════════════════

// Day представляет календарный день (UTC, без времени суток).
type Day struct {
	t time.Time
}

// NewDay создаёт Day, усекая время до начала UTC-дня.
func NewDay(t time.Time) Day {
	return Day{t: timeutil.DayUTC(t)}
}

// IsZero возвращает true, если дата не установлена.
func (d Day) IsZero() bool {
	return d.t.IsZero()
}

// Time возвращает начало дня как time.Time (UTC).
func (d Day) Time() time.Time {
	return d.t
}

// Equal проверяет совпадение календарных дней.
func (d Day) Equal(other Day) bool {
	return d.t.Equal(other.t)
}

// DaysUntil возвращает число целых дней от d до other (отрицательное,
// если other раньше d).
func (d Day) DaysUntil(other Day) int {
	return timeutil.DaysBetween(d.t, other.t)
}

// String возвращает дату в формате YYYY-MM-DD.
func (d Day) String() string {
	if d.IsZero() {
		return ""
	}
	return timeutil.FormatDay(d.t)
}

// MarshalJSON сериализует Day как строку "2006-01-02" (пустая строка для нулевой даты).
func (d Day) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

// UnmarshalJSON разбирает строку "2006-01-02"; пустая строка даёт нулевую дату.
func (d *Day) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	if s == "" {
		d.t = time.Time{}
		return nil
	}
	parsed, err := timeutil.ParseDay(s)
	if err != nil {
		return err
	}
	d.t = parsed
	return nil
}

// ══════════════════════════════════════════════════════════════════════════════
// MAIN ENTITY: USER PROGRESS
// Один снимок на учащегося. Производные поля (уровень, счётчики, точность)
// никогда не мутируются напрямую - только через Recompute.
// ══════════════════════════════════════════════════════════════════════════════

// UserProgress - агрегированный прогресс учащегося.
type UserProgress struct {
	// LearnerID - идентификатор учащегося.
	LearnerID string `json:"learner_id"`

	// TotalXP - накопленные очки опыта. Монотонно не убывает.
	TotalXP XP `json:"total_xp"`

	// CurrentLevel - текущий уровень, выводится из TotalXP.
	CurrentLevel Level `json:"current_level"`

	// XPToNextLevel - сколько XP осталось до следующего уровня.
	XPToNextLevel XP `json:"xp_to_next_level"`

	// XPRequiredForNextLevel - суммарный XP, необходимый для следующего уровня.
	XPRequiredForNextLevel XP `json:"xp_required_for_next_level"`

	// CurrentStreakDays - текущая серия дней с активностью.
	CurrentStreakDays int `json:"current_streak_days"`

	// LongestStreakDays - лучшая серия. Всегда >= CurrentStreakDays.
	LongestStreakDays int `json:"longest_streak_days"`

	// LastActivityDate - дата последней активности (календарный день, UTC).
	LastActivityDate Day `json:"last_activity_date"`

	// LessonsCompleted - число завершённых уроков по всем модулям (производное).
	LessonsCompleted int `json:"lessons_completed"`

	// QuestionsAnswered - всего отвеченных вопросов квизов (производное).
	QuestionsAnswered int `json:"questions_answered"`

	// QuestionsCorrect - из них правильных (производное).
	QuestionsCorrect int `json:"questions_correct"`

	// BadgesEarned - размер множества полученных бейджей (производное).
	BadgesEarned int `json:"badges_earned"`

	// AverageAccuracy - процент правильных ответов, 0 при нуле отвеченных.
	AverageAccuracy int `json:"average_accuracy"`

	// CreatedAt - время создания записи.
	CreatedAt time.Time `json:"created_at"`

	// UpdatedAt - время последнего обновления.
	UpdatedAt time.Time `json:"updated_at"`
}

// NewUserProgress возвращает свежеинициализированный прогресс:
// totalXp=0, currentLevel=1, xpRequiredForNextLevel=50, пустые серии.
func NewUserProgress(learnerID string, now time.Time) *UserProgress {
	p := &UserProgress{
		LearnerID: learnerID,
		CreatedAt: now.UTC(),
		UpdatedAt: now.UTC(),
	}
	p.recomputeLevel()
	return p
}

// AddXPResult описывает результат начисления XP.
type AddXPResult struct {
	// Amount - фактически начисленный XP (0 для no-op).
	Amount XP

	// LeveledUp - true, если уровень вырос.
	LeveledUp bool

	// OldLevel, NewLevel - уровни до и после начисления.
	OldLevel Level
	NewLevel Level
}

// AddXP начисляет XP и пересчитывает уровень. Неположительный amount -
// no-op по контракту, не ошибка. Верхней границы XP и уровня нет.
func (p *UserProgress) AddXP(amount XP, now time.Time) AddXPResult {
	result := AddXPResult{
		OldLevel: p.CurrentLevel,
		NewLevel: p.CurrentLevel,
	}
	if amount <= 0 {
		return result
	}

	p.TotalXP = p.TotalXP.Add(amount)
	p.recomputeLevel()
	p.UpdatedAt = now.UTC()

	result.Amount = amount
	result.NewLevel = p.CurrentLevel
	result.LeveledUp = result.NewLevel > result.OldLevel
	return result
}

// recomputeLevel пересчитывает уровень и пороги из TotalXP.
func (p *UserProgress) recomputeLevel() {
	p.CurrentLevel = LevelForXP(p.TotalXP)
	p.XPRequiredForNextLevel = XPRequiredForLevel(p.CurrentLevel)
	p.XPToNextLevel = XPToNextLevel(p.TotalXP)
}

// Recompute пересчитывает все производные поля из исходных коллекций.
// Вызывается фасадом после каждой мутации - это защита от дрейфа
// счётчиков: они всегда функции от уроков и бейджей, а не инкременты.
func (p *UserProgress) Recompute(lessons []LessonProgress, badges []Badge, now time.Time) {
	p.recomputeLevel()
	p.LessonsCompleted = CompletedLessonCount(lessons)
	p.BadgesEarned = len(badges)

	answered, correct := QuizTotals(lessons)
	p.QuestionsAnswered = answered
	p.QuestionsCorrect = correct
	if answered > 0 {
		p.AverageAccuracy = int(math.Round(float64(correct) / float64(answered) * 100))
	} else {
		p.AverageAccuracy = 0
	}

	if p.LongestStreakDays < p.CurrentStreakDays {
		p.LongestStreakDays = p.CurrentStreakDays
	}
	p.UpdatedAt = now.UTC()
}

// Clone создаёт глубокую копию прогресса.
func (p *UserProgress) Clone() *UserProgress {
	if p == nil {
		return nil
	}
	clone := *p
	return &clone
}
