package learner

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppendBadge_IsSetByID(t *testing.T) {
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	desc := BadgeDescriptor{ID: BadgeFirstLesson, Name: "First Lesson", Category: "milestone", XPBonus: 10}

	badges, added := AppendBadge(nil, desc, now)
	require.True(t, added)
	require.Len(t, badges, 1)
	assert.Equal(t, now, badges[0].EarnedAt)

	// Повторное награждение: ни дубля, ни обновления метки времени.
	badges, added = AppendBadge(badges, desc, now.Add(time.Hour))
	assert.False(t, added)
	require.Len(t, badges, 1)
	assert.Equal(t, now, badges[0].EarnedAt)
}

func TestAppendBadge_RejectsInvalidDescriptor(t *testing.T) {
	badges, added := AppendBadge(nil, BadgeDescriptor{}, time.Now())
	assert.False(t, added)
	assert.Empty(t, badges)
}

func TestHasBadge(t *testing.T) {
	now := time.Now().UTC()
	badges, _ := AppendBadge(nil, BadgeDescriptor{ID: BadgeStreak7}, now)

	assert.True(t, HasBadge(badges, BadgeStreak7))
	assert.False(t, HasBadge(badges, BadgeStreak30))
	assert.False(t, HasBadge(nil, BadgeStreak7))
}

func TestAppendAchievement_Idempotent(t *testing.T) {
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	achievements, added := AppendAchievement(nil, "streak-master", 7, now)
	require.True(t, added)
	require.Len(t, achievements, 1)
	assert.Equal(t, 7, achievements[0].Value)

	achievements, added = AppendAchievement(achievements, "streak-master", 30, now.Add(time.Hour))
	assert.False(t, added, "same id is a no-op even with a new value")
	require.Len(t, achievements, 1)
	assert.Equal(t, 7, achievements[0].Value)
	assert.Equal(t, now, achievements[0].UnlockedAt)
}

func TestAppendAchievement_EmptyID(t *testing.T) {
	achievements, added := AppendAchievement(nil, "", 1, time.Now())
	assert.False(t, added)
	assert.Empty(t, achievements)
}

func TestModuleCompleteBadgeID(t *testing.T) {
	assert.Equal(t, "module-complete:go-basics", ModuleCompleteBadgeID("go-basics"))
}
