package learner

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func completedLesson(moduleID, lessonID string) LessonProgress {
	ts := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	return LessonProgress{
		ModuleID:    moduleID,
		LessonID:    lessonID,
		Completed:   true,
		CompletedAt: &ts,
	}
}

func TestFindLesson(t *testing.T) {
	lessons := []LessonProgress{
		completedLesson("go-basics", "l1"),
		completedLesson("go-basics", "l2"),
		completedLesson("concurrency", "l1"),
	}

	found := FindLesson(lessons, "go-basics", "l2")
	require.NotNil(t, found)
	assert.Equal(t, "l2", found.LessonID)

	assert.Nil(t, FindLesson(lessons, "go-basics", "l9"))
	assert.Nil(t, FindLesson(lessons, "unknown", "l1"))
}

func TestCompletedLessonsForModule(t *testing.T) {
	lessons := []LessonProgress{
		completedLesson("go-basics", "l3"),
		completedLesson("go-basics", "l1"),
		{ModuleID: "go-basics", LessonID: "l2"}, // started, not completed
		completedLesson("concurrency", "l1"),
	}

	ids := CompletedLessonsForModule(lessons, "go-basics")
	assert.Equal(t, []string{"l1", "l3"}, ids, "ids are sorted")

	assert.Empty(t, CompletedLessonsForModule(lessons, "unknown"))
}

func TestQuizTotals(t *testing.T) {
	lessons := []LessonProgress{
		{
			ModuleID: "m", LessonID: "l1", Completed: true,
			QuizResults: []QuizResult{
				{QuestionID: "q1", Correct: true, Attempts: 1},
				{QuestionID: "q2", Correct: false, Attempts: 2},
			},
		},
		{
			ModuleID: "m", LessonID: "l2", Completed: true,
			QuizResults: []QuizResult{
				{QuestionID: "q1", Correct: true, Attempts: 1},
			},
		},
	}

	answered, correct := QuizTotals(lessons)
	assert.Equal(t, 3, answered)
	assert.Equal(t, 2, correct)
}

func TestRecomputeModule_Percentages(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		completed int
		total     int
		want      int
	}{
		{"empty module", 0, 0, 0},
		{"one of three", 1, 3, 33},
		{"two of three rounds up", 2, 3, 67},
		{"half", 1, 2, 50},
		{"all done", 4, 4, 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var lessons []LessonProgress
			for i := 0; i < tt.completed; i++ {
				lessons = append(lessons, completedLesson("m", string(rune('a'+i))))
			}
			mp := &ModuleProgress{ModuleID: "m"}
			RecomputeModule(mp, lessons, tt.total, now)
			assert.Equal(t, tt.want, mp.Progress)
			assert.Equal(t, tt.completed, mp.CompletedLessons)
			assert.Equal(t, tt.total, mp.TotalLessons)
		})
	}
}

func TestRecomputeModule_CompletionFiresOnce(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	lessons := []LessonProgress{
		completedLesson("m", "l1"),
		completedLesson("m", "l2"),
	}
	mp := &ModuleProgress{ModuleID: "m"}

	just := RecomputeModule(mp, lessons, 2, now)
	assert.True(t, just)
	require.NotNil(t, mp.CompletedAt)
	first := *mp.CompletedAt

	just = RecomputeModule(mp, lessons, 2, now.Add(time.Hour))
	assert.False(t, just, "already completed, must not fire again")
	assert.Equal(t, first, *mp.CompletedAt)
}

func TestRecomputeModule_CatalogShrankBelowCompleted(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	lessons := []LessonProgress{
		completedLesson("m", "l1"),
		completedLesson("m", "l2"),
		completedLesson("m", "l3"),
	}
	mp := &ModuleProgress{ModuleID: "m"}

	RecomputeModule(mp, lessons, 2, now)

	assert.Equal(t, 2, mp.CompletedLessons, "clamped to catalog total")
	assert.Equal(t, 100, mp.Progress)
}

func TestRecomputeModule_StartedAtSetOnce(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	mp := &ModuleProgress{ModuleID: "m"}

	RecomputeModule(mp, nil, 3, now)
	started := mp.StartedAt
	assert.Equal(t, now, started)

	RecomputeModule(mp, nil, 3, now.Add(48*time.Hour))
	assert.Equal(t, started, mp.StartedAt)
}
