package learner

import (
	"math"
	"sort"
	"time"
)

// ══════════════════════════════════════════════════════════════════════════════
// LESSON PROGRESS
// Запись уникальна по паре (модуль, урок). Завершение необратимо.
// ══════════════════════════════════════════════════════════════════════════════

// QuizResult - результат ответа на один вопрос квиза.
type QuizResult struct {
	// QuestionID - идентификатор вопроса.
	QuestionID string `json:"question_id"`

	// Correct - был ли ответ правильным.
	Correct bool `json:"correct"`

	// Attempts - число попыток.
	Attempts int `json:"attempts"`
}

// LessonProgress - прогресс по одному уроку.
type LessonProgress struct {
	// ModuleID - модуль, которому принадлежит урок.
	ModuleID string `json:"module_id"`

	// LessonID - идентификатор урока внутри модуля.
	LessonID string `json:"lesson_id"`

	// Completed - флаг завершения. Монотонный: раз true - навсегда true.
	Completed bool `json:"completed"`

	// Score - балл за урок (отсутствует, если не оценивался).
	Score *int `json:"score,omitempty"`

	// CompletedAt - время первого завершения.
	CompletedAt *time.Time `json:"completed_at,omitempty"`

	// QuizResults - ответы квиза, зафиксированные при первом завершении.
	// Повторные завершения их не перезаписывают.
	QuizResults []QuizResult `json:"quiz_results,omitempty"`
}

// FindLesson находит запись урока по паре идентификаторов.
func FindLesson(lessons []LessonProgress, moduleID, lessonID string) *LessonProgress {
	for i := range lessons {
		if lessons[i].ModuleID == moduleID && lessons[i].LessonID == lessonID {
			return &lessons[i]
		}
	}
	return nil
}

// CompletedLessonCount возвращает число завершённых уроков по всем модулям.
func CompletedLessonCount(lessons []LessonProgress) int {
	count := 0
	for i := range lessons {
		if lessons[i].Completed {
			count++
		}
	}
	return count
}

// CompletedLessonsForModule возвращает отсортированные идентификаторы
// завершённых уроков модуля. Чистый запрос.
func CompletedLessonsForModule(lessons []LessonProgress, moduleID string) []string {
	var ids []string
	for i := range lessons {
		if lessons[i].ModuleID == moduleID && lessons[i].Completed {
			ids = append(ids, lessons[i].LessonID)
		}
	}
	sort.Strings(ids)
	return ids
}

// QuizTotals суммирует ответы квизов по всем урокам.
func QuizTotals(lessons []LessonProgress) (answered, correct int) {
	for i := range lessons {
		for _, qr := range lessons[i].QuizResults {
			answered++
			if qr.Correct {
				correct++
			}
		}
	}
	return answered, correct
}

// ══════════════════════════════════════════════════════════════════════════════
// MODULE PROGRESS
// Агрегат модуля. Никогда не инкрементируется - пересчитывается заново
// при каждом вызове, totalLessons каталога авторитетен даже если меняется.
// ══════════════════════════════════════════════════════════════════════════════

// ModuleProgress - агрегированный прогресс по модулю.
type ModuleProgress struct {
	// ModuleID - идентификатор модуля.
	ModuleID string `json:"module_id"`

	// CompletedLessons - число завершённых уроков модуля. <= TotalLessons.
	CompletedLessons int `json:"completed_lessons"`

	// TotalLessons - каноническое число уроков, поставляется каталогом.
	TotalLessons int `json:"total_lessons"`

	// Progress - целый процент [0,100]; 0 при TotalLessons=0.
	Progress int `json:"progress"`

	// StartedAt - первое касание модуля.
	StartedAt time.Time `json:"started_at"`

	// CompletedAt - когда прогресс впервые достиг 100.
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

// RecomputeModule пересчитывает агрегат модуля из коллекции уроков.
// Возвращает true, если модуль впервые стал завершённым этим пересчётом.
func RecomputeModule(mp *ModuleProgress, lessons []LessonProgress, totalLessons int, now time.Time) (justCompleted bool) {
	if totalLessons < 0 {
		totalLessons = 0
	}

	completed := 0
	for i := range lessons {
		if lessons[i].ModuleID == mp.ModuleID && lessons[i].Completed {
			completed++
		}
	}
	// Каталог авторитетен: не показываем больше 100%
	if totalLessons > 0 && completed > totalLessons {
		completed = totalLessons
	}

	mp.CompletedLessons = completed
	mp.TotalLessons = totalLessons
	if totalLessons > 0 {
		mp.Progress = int(math.Round(float64(completed) / float64(totalLessons) * 100))
	} else {
		mp.Progress = 0
	}

	if mp.StartedAt.IsZero() {
		mp.StartedAt = now.UTC()
	}

	done := totalLessons > 0 && completed == totalLessons
	if done && mp.CompletedAt == nil {
		ts := now.UTC()
		mp.CompletedAt = &ts
		return true
	}
	return false
}
