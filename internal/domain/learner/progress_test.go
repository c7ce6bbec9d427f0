package learner

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDay_JSONRoundTrip(t *testing.T) {
	d := NewDay(time.Date(2026, 3, 1, 23, 59, 0, 0, time.UTC))

	raw, err := json.Marshal(d)
	require.NoError(t, err)
	assert.Equal(t, `"2026-03-01"`, string(raw))

	var back Day
	require.NoError(t, json.Unmarshal(raw, &back))
	assert.True(t, d.Equal(back))
}

func TestDay_ZeroMarshalsAsEmpty(t *testing.T) {
	var d Day

	raw, err := json.Marshal(d)
	require.NoError(t, err)
	assert.Equal(t, `""`, string(raw))

	var back Day
	require.NoError(t, json.Unmarshal(raw, &back))
	assert.True(t, back.IsZero())
}

func TestDay_NormalizesToUTCDay(t *testing.T) {
	zone := time.FixedZone("UTC+5", 5*3600)
	// Локальные 02:30 1 марта - это ещё 28 февраля по UTC.
	d := NewDay(time.Date(2026, 3, 1, 2, 30, 0, 0, zone))

	assert.Equal(t, "2026-02-28", d.String())
}

func TestNewUserProgress_Defaults(t *testing.T) {
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	p := NewUserProgress("learner-1", now)

	assert.Equal(t, XP(0), p.TotalXP)
	assert.Equal(t, Level(1), p.CurrentLevel)
	assert.Equal(t, XP(50), p.XPRequiredForNextLevel)
	assert.Equal(t, XP(50), p.XPToNextLevel)
	assert.Equal(t, 0, p.CurrentStreakDays)
	assert.True(t, p.LastActivityDate.IsZero())
}

func TestRecompute_DerivesCountersFromCollections(t *testing.T) {
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	p := NewUserProgress("learner-1", now)
	p.AddXP(200, now)

	lessons := []LessonProgress{
		{
			ModuleID: "m", LessonID: "l1", Completed: true,
			QuizResults: []QuizResult{
				{QuestionID: "q1", Correct: true},
				{QuestionID: "q2", Correct: true},
				{QuestionID: "q3", Correct: false},
			},
		},
		{ModuleID: "m", LessonID: "l2"}, // начат, не завершён
	}
	badges, _ := AppendBadge(nil, BadgeDescriptor{ID: BadgeFirstLesson}, now)

	p.Recompute(lessons, badges, now)

	assert.Equal(t, 1, p.LessonsCompleted)
	assert.Equal(t, 3, p.QuestionsAnswered)
	assert.Equal(t, 2, p.QuestionsCorrect)
	assert.Equal(t, 67, p.AverageAccuracy)
	assert.Equal(t, 1, p.BadgesEarned)
	assert.Equal(t, Level(3), p.CurrentLevel)
}

func TestRecompute_ZeroAnsweredMeansZeroAccuracy(t *testing.T) {
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	p := NewUserProgress("learner-1", now)

	p.Recompute(nil, nil, now)

	assert.Equal(t, 0, p.AverageAccuracy)
}

func TestUserProgress_JSONRoundTrip(t *testing.T) {
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	p := NewUserProgress("learner-1", now)
	p.AddXP(120, now)
	p.TouchActivity(now)

	raw, err := json.Marshal(p)
	require.NoError(t, err)

	var back UserProgress
	require.NoError(t, json.Unmarshal(raw, &back))

	assert.Equal(t, p.TotalXP, back.TotalXP)
	assert.Equal(t, p.CurrentLevel, back.CurrentLevel)
	assert.Equal(t, p.CurrentStreakDays, back.CurrentStreakDays)
	assert.True(t, p.LastActivityDate.Equal(back.LastActivityDate))
}

func TestClone_Independent(t *testing.T) {
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	p := NewUserProgress("learner-1", now)
	clone := p.Clone()

	clone.AddXP(500, now)

	assert.Equal(t, XP(0), p.TotalXP)
	assert.Equal(t, XP(500), clone.TotalXP)
}
