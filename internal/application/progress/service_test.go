package progress

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/learnpath/learnpath-progress/internal/domain/learner"
	"github.com/learnpath/learnpath-progress/internal/domain/shared"
	"github.com/learnpath/learnpath-progress/internal/infrastructure/catalog"
	"github.com/learnpath/learnpath-progress/internal/infrastructure/messaging"
	"github.com/learnpath/learnpath-progress/internal/infrastructure/persistence"
	"github.com/learnpath/learnpath-progress/internal/infrastructure/persistence/kv"
)

type testEnv struct {
	svc     *Service
	store   *persistence.SnapshotStore
	bus     *messaging.InMemoryBus
	events  *[]shared.EventType
	clock   *time.Time
	modules *catalog.StaticModuleCatalog
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	clockFn := func() time.Time { return now }

	store := persistence.NewSnapshotStore(kv.NewMemoryStore(), nil, nil)
	modules := catalog.NewStaticModuleCatalog(map[string]int{
		"go-basics":   3,
		"concurrency": 2,
	})
	bus := messaging.NewInMemoryBus(nil)

	var published []shared.EventType
	bus.SubscribeAll(func(e shared.Event) {
		published = append(published, e.EventType())
	})

	svc := NewService(store, catalog.NewStaticBadgeCatalog(), modules, bus, nil)
	svc.now = clockFn

	return &testEnv{
		svc:     svc,
		store:   store,
		bus:     bus,
		events:  &published,
		clock:   &now,
		modules: modules,
	}
}

func (e *testEnv) advanceDays(days int) {
	*e.clock = e.clock.Add(time.Duration(days) * 24 * time.Hour)
}

func (e *testEnv) eventTypes() []shared.EventType {
	return *e.events
}

func completeCmd(lessonID string) CompleteLessonCommand {
	return CompleteLessonCommand{
		LearnerID: "alice",
		ModuleID:  "go-basics",
		LessonID:  lessonID,
		XPReward:  30,
	}
}

// ──────────────────────────────────────────────
// CompleteLesson
// ──────────────────────────────────────────────

func TestCompleteLesson_FirstCompletion(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	result, err := env.svc.CompleteLesson(ctx, completeCmd("l1"))
	require.NoError(t, err)

	assert.False(t, result.AlreadyCompleted)
	assert.Equal(t, 30, result.XPEarned)
	assert.Equal(t, 1, result.LessonsCompleted)
	assert.Equal(t, 33, result.ModuleProgress)
	assert.False(t, result.ModuleCompleted)
	assert.Equal(t, 1, result.StreakDays)
	assert.Contains(t, result.BadgesAwarded, learner.BadgeFirstLesson)

	// 30 за урок + 10 бонус first-lesson.
	progress, err := env.svc.GetProgress(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, learner.XP(40), progress.TotalXP)
	assert.Equal(t, 1, progress.LessonsCompleted)
	assert.Equal(t, 1, progress.BadgesEarned)

	assert.Contains(t, env.eventTypes(), shared.EventLessonCompleted)
	assert.Contains(t, env.eventTypes(), shared.EventBadgeEarned)
	assert.Contains(t, env.eventTypes(), shared.EventXPGained)
}

func TestCompleteLesson_Idempotent(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	_, err := env.svc.CompleteLesson(ctx, completeCmd("l1"))
	require.NoError(t, err)
	before, err := env.svc.GetProgress(ctx, "alice")
	require.NoError(t, err)

	result, err := env.svc.CompleteLesson(ctx, completeCmd("l1"))
	require.NoError(t, err)

	assert.True(t, result.AlreadyCompleted)
	assert.Equal(t, 0, result.XPEarned)
	assert.Equal(t, 1, result.LessonsCompleted)

	after, err := env.svc.GetProgress(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, before.TotalXP, after.TotalXP)
	assert.Equal(t, before.LessonsCompleted, after.LessonsCompleted)
	assert.Equal(t, before.QuestionsAnswered, after.QuestionsAnswered)
}

func TestCompleteLesson_QuizResultsFrozenAtFirstCompletion(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	cmd := completeCmd("l1")
	cmd.QuizResults = []learner.QuizResult{
		{QuestionID: "q1", Correct: true},
		{QuestionID: "q2", Correct: false},
	}
	_, err := env.svc.CompleteLesson(ctx, cmd)
	require.NoError(t, err)

	progress, err := env.svc.GetProgress(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, 2, progress.QuestionsAnswered)
	assert.Equal(t, 1, progress.QuestionsCorrect)
	assert.Equal(t, 50, progress.AverageAccuracy)

	// Повторное прохождение с идеальным квизом не меняет точность.
	retake := completeCmd("l1")
	retake.QuizResults = []learner.QuizResult{
		{QuestionID: "q1", Correct: true},
		{QuestionID: "q2", Correct: true},
	}
	_, err = env.svc.CompleteLesson(ctx, retake)
	require.NoError(t, err)

	progress, err = env.svc.GetProgress(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, 2, progress.QuestionsAnswered)
	assert.Equal(t, 1, progress.QuestionsCorrect)
	assert.Equal(t, 50, progress.AverageAccuracy)
}

func TestCompleteLesson_ModuleCompletion(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	for _, lesson := range []string{"l1", "l2"} {
		_, err := env.svc.CompleteLesson(ctx, completeCmd(lesson))
		require.NoError(t, err)
	}

	result, err := env.svc.CompleteLesson(ctx, completeCmd("l3"))
	require.NoError(t, err)

	assert.True(t, result.ModuleCompleted)
	assert.Equal(t, 100, result.ModuleProgress)
	assert.Contains(t, result.BadgesAwarded, learner.ModuleCompleteBadgeID("go-basics"))
	assert.Contains(t, env.eventTypes(), shared.EventModuleCompleted)

	// Завершение модуля срабатывает ровно один раз.
	repeat, err := env.svc.CompleteLesson(ctx, completeCmd("l3"))
	require.NoError(t, err)
	assert.False(t, repeat.ModuleCompleted)
	assert.NotContains(t, repeat.BadgesAwarded, learner.ModuleCompleteBadgeID("go-basics"))
}

func TestCompleteLesson_TotalLessonsFromCatalog(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	// TotalLessons не передан - берётся из каталога (2 для concurrency).
	cmd := CompleteLessonCommand{
		LearnerID: "alice", ModuleID: "concurrency", LessonID: "l1", XPReward: 30,
	}
	result, err := env.svc.CompleteLesson(ctx, cmd)
	require.NoError(t, err)
	assert.Equal(t, 50, result.ModuleProgress)

	mp, err := env.svc.GetModuleProgress(ctx, "alice", "concurrency")
	require.NoError(t, err)
	assert.Equal(t, 2, mp.TotalLessons)
}

func TestCompleteLesson_UnknownModuleZeroTotal(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	cmd := CompleteLessonCommand{
		LearnerID: "alice", ModuleID: "mystery", LessonID: "l1",
	}
	result, err := env.svc.CompleteLesson(ctx, cmd)
	require.NoError(t, err)

	// totalLessons = 0: прогресс 0, модуль не может стать завершённым.
	assert.Equal(t, 0, result.ModuleProgress)
	assert.False(t, result.ModuleCompleted)
	assert.Equal(t, 1, result.LessonsCompleted)
}

func TestCompleteLesson_Validation(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	_, err := env.svc.CompleteLesson(ctx, CompleteLessonCommand{ModuleID: "m", LessonID: "l"})
	assert.True(t, shared.IsValidation(err))

	_, err = env.svc.CompleteLesson(ctx, CompleteLessonCommand{LearnerID: "a", LessonID: "l"})
	assert.True(t, shared.IsValidation(err))

	_, err = env.svc.CompleteLesson(ctx, CompleteLessonCommand{LearnerID: "a", ModuleID: "m"})
	assert.True(t, shared.IsValidation(err))
}

// ──────────────────────────────────────────────
// AddXP
// ──────────────────────────────────────────────

func TestAddXP_LevelUpAndLevelBadge(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	// 800 XP: floor(sqrt(800/50))+1 = 5 - порог бейджа level-5.
	result, err := env.svc.AddXP(ctx, AddXPCommand{LearnerID: "alice", Amount: 800, Source: "import"})
	require.NoError(t, err)

	assert.Equal(t, 800, result.XPEarned)
	assert.True(t, result.LeveledUp)
	assert.Equal(t, 5, result.NewLevel)
	assert.Contains(t, result.BadgesAwarded, learner.BadgeLevel5)

	// Бонус бейджа начислен поверх.
	progress, err := env.svc.GetProgress(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, learner.XP(825), progress.TotalXP)

	assert.Contains(t, env.eventTypes(), shared.EventLevelUp)
}

func TestAddXP_NonPositiveIsNoOp(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	for _, amount := range []int{0, -5} {
		result, err := env.svc.AddXP(ctx, AddXPCommand{LearnerID: "alice", Amount: amount})
		require.NoError(t, err, "non-positive amount is not an error")
		assert.Equal(t, 0, result.XPEarned)
		assert.Equal(t, 0, result.TotalXP)
		assert.Equal(t, 1, result.NewLevel)
	}
	assert.Empty(t, env.eventTypes())
}

// ──────────────────────────────────────────────
// Streaks
// ──────────────────────────────────────────────

func TestTouchActivity_DailyStreakLifecycle(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	result, err := env.svc.TouchActivity(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, 1, result.StreakDays)

	// Тот же день - идемпотентно.
	result, err = env.svc.TouchActivity(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, 1, result.StreakDays)
	assert.False(t, result.Extended)

	env.advanceDays(1)
	result, err = env.svc.TouchActivity(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, 2, result.StreakDays)
	assert.True(t, result.Extended)

	// Пропуск двух дней - сброс до 1.
	env.advanceDays(3)
	result, err = env.svc.TouchActivity(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, 1, result.StreakDays)
	assert.True(t, result.Broken)
	assert.Equal(t, 2, result.DaysMissed)
	assert.Equal(t, 2, result.LongestStreak)

	assert.Contains(t, env.eventTypes(), shared.EventStreakBroken)
}

func TestTouchActivity_SevenDayStreakBadge(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	var last *TouchActivityResult
	for i := 0; i < 7; i++ {
		var err error
		last, err = env.svc.TouchActivity(ctx, "alice")
		require.NoError(t, err)
		env.advanceDays(1)
	}

	assert.Equal(t, 7, last.StreakDays)
	assert.Contains(t, last.BadgesAwarded, learner.BadgeStreak7)

	has, err := env.svc.HasBadge(ctx, "alice", learner.BadgeStreak7)
	require.NoError(t, err)
	assert.True(t, has)
}

func TestCompleteLesson_CountsAsDailyActivity(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	result, err := env.svc.CompleteLesson(ctx, completeCmd("l1"))
	require.NoError(t, err)
	assert.Equal(t, 1, result.StreakDays)

	env.advanceDays(1)
	result, err = env.svc.CompleteLesson(ctx, completeCmd("l2"))
	require.NoError(t, err)
	assert.Equal(t, 2, result.StreakDays)
	assert.True(t, result.StreakExtended)
}

// ──────────────────────────────────────────────
// Badges & achievements
// ──────────────────────────────────────────────

func TestAwardBadge_Idempotent(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	first, err := env.svc.AwardBadge(ctx, AwardBadgeCommand{LearnerID: "alice", BadgeID: learner.BadgeStreak7})
	require.NoError(t, err)
	assert.True(t, first.Awarded)
	assert.Equal(t, 25, first.XPBonus)
	assert.Equal(t, 1, first.BadgesEarned)

	second, err := env.svc.AwardBadge(ctx, AwardBadgeCommand{LearnerID: "alice", BadgeID: learner.BadgeStreak7})
	require.NoError(t, err)
	assert.False(t, second.Awarded, "re-award is a no-op, not an error")
	assert.Equal(t, 0, second.XPBonus)
	assert.Equal(t, 1, second.BadgesEarned)

	// Бонус XP начислен ровно один раз.
	progress, err := env.svc.GetProgress(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, learner.XP(25), progress.TotalXP)
}

func TestAwardBadge_UnknownBadgeIsNoOp(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	result, err := env.svc.AwardBadge(ctx, AwardBadgeCommand{LearnerID: "alice", BadgeID: "no-such-badge"})
	require.NoError(t, err)
	assert.False(t, result.Awarded)
}

func TestUnlockAchievement_Idempotent(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	first, err := env.svc.UnlockAchievement(ctx, UnlockAchievementCommand{
		LearnerID: "alice", AchievementID: "perfect-quiz", Value: 10,
	})
	require.NoError(t, err)
	assert.True(t, first.Unlocked)

	second, err := env.svc.UnlockAchievement(ctx, UnlockAchievementCommand{
		LearnerID: "alice", AchievementID: "perfect-quiz", Value: 99,
	})
	require.NoError(t, err)
	assert.False(t, second.Unlocked)

	achievements, err := env.svc.Achievements(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, achievements, 1)
	assert.Equal(t, 10, achievements[0].Value, "original payload survives the repeat")
}

// ──────────────────────────────────────────────
// Queries & reset
// ──────────────────────────────────────────────

func TestGetProgress_FreshLearner(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	progress, err := env.svc.GetProgress(ctx, "newcomer")
	require.NoError(t, err)
	assert.Equal(t, learner.XP(0), progress.TotalXP)
	assert.Equal(t, learner.Level(1), progress.CurrentLevel)
	assert.Equal(t, learner.XP(50), progress.XPRequiredForNextLevel)
}

func TestCompletedLessonsForModule_Query(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	for _, lesson := range []string{"l3", "l1"} {
		_, err := env.svc.CompleteLesson(ctx, completeCmd(lesson))
		require.NoError(t, err)
	}

	ids, err := env.svc.CompletedLessonsForModule(ctx, "alice", "go-basics")
	require.NoError(t, err)
	assert.Equal(t, []string{"l1", "l3"}, ids)

	empty, err := env.svc.CompletedLessonsForModule(ctx, "alice", "concurrency")
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestClearAll_ResetsEverything(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	_, err := env.svc.CompleteLesson(ctx, completeCmd("l1"))
	require.NoError(t, err)

	require.NoError(t, env.svc.ClearAll(ctx, "alice"))
	assert.Contains(t, env.eventTypes(), shared.EventProgressReset)

	progress, err := env.svc.GetProgress(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, learner.XP(0), progress.TotalXP)
	assert.Equal(t, 0, progress.LessonsCompleted)

	has, err := env.svc.HasBadge(ctx, "alice", learner.BadgeFirstLesson)
	require.NoError(t, err)
	assert.False(t, has)
}
