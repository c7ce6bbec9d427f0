package shared

import (
	"time"

	"github.com/google/uuid"
)

// EventType represents the type of domain event.
type EventType string

// Domain event types. Each event represents something significant that
// happened in the progression engine; UI layers subscribe to drive feedback.
const (
	// Progress events
	EventXPGained        EventType = "progress.xp_gained"
	EventLevelUp         EventType = "progress.level_up"
	EventLessonCompleted EventType = "progress.lesson_completed"
	EventModuleCompleted EventType = "progress.module_completed"
	EventStreakUpdated   EventType = "progress.streak_updated"
	EventStreakBroken    EventType = "progress.streak_broken"

	// Award events
	EventBadgeEarned         EventType = "award.badge_earned"
	EventAchievementUnlocked EventType = "award.achievement_unlocked"

	// System events
	EventProgressReset EventType = "system.progress_reset"
)

// Event is the base interface for all domain events.
type Event interface {
	// EventType returns the type of the event.
	EventType() EventType

	// OccurredAt returns when the event occurred.
	OccurredAt() time.Time

	// AggregateID returns the learner id that produced this event.
	AggregateID() string
}

// EventHandler processes a published event.
type EventHandler func(event Event)

// EventPublisher publishes domain events to interested handlers.
type EventPublisher interface {
	Publish(event Event)
}

// BaseEvent provides common event functionality.
type BaseEvent struct {
	ID          string    `json:"id"`
	Type        EventType `json:"type"`
	Timestamp   time.Time `json:"timestamp"`
	AggregateId string    `json:"aggregate_id"`
}

// EventType implements Event interface.
func (e BaseEvent) EventType() EventType {
	return e.Type
}

// OccurredAt implements Event interface.
func (e BaseEvent) OccurredAt() time.Time {
	return e.Timestamp
}

// AggregateID implements Event interface.
func (e BaseEvent) AggregateID() string {
	return e.AggregateId
}

// NewBaseEvent creates a new base event with a fresh event id.
func NewBaseEvent(eventType EventType, aggregateID string) BaseEvent {
	return BaseEvent{
		ID:          uuid.New().String(),
		Type:        eventType,
		Timestamp:   time.Now().UTC(),
		AggregateId: aggregateID,
	}
}

// ═══════════════════════════════════════════════════════════════════════════
// Progress Events
// ═══════════════════════════════════════════════════════════════════════════

// XPGainedEvent is emitted when a learner gains XP.
type XPGainedEvent struct {
	BaseEvent
	Amount   int    `json:"amount"`
	NewTotal int    `json:"new_total"`
	Source   string `json:"source"` // e.g., "lesson_completed", "badge_bonus", "manual"
}

// NewXPGainedEvent creates a new XPGainedEvent.
func NewXPGainedEvent(learnerID string, amount, newTotal int, source string) XPGainedEvent {
	return XPGainedEvent{
		BaseEvent: NewBaseEvent(EventXPGained, learnerID),
		Amount:    amount,
		NewTotal:  newTotal,
		Source:    source,
	}
}

// LevelUpEvent is emitted when a learner's level increases.
type LevelUpEvent struct {
	BaseEvent
	OldLevel int `json:"old_level"`
	NewLevel int `json:"new_level"`
	TotalXP  int `json:"total_xp"`
}

// NewLevelUpEvent creates a new LevelUpEvent.
func NewLevelUpEvent(learnerID string, oldLevel, newLevel, totalXP int) LevelUpEvent {
	return LevelUpEvent{
		BaseEvent: NewBaseEvent(EventLevelUp, learnerID),
		OldLevel:  oldLevel,
		NewLevel:  newLevel,
		TotalXP:   totalXP,
	}
}

// LessonCompletedEvent is emitted the first time a lesson is completed.
type LessonCompletedEvent struct {
	BaseEvent
	ModuleID string `json:"module_id"`
	LessonID string `json:"lesson_id"`
	XPEarned int    `json:"xp_earned"`
}

// NewLessonCompletedEvent creates a new LessonCompletedEvent.
func NewLessonCompletedEvent(learnerID, moduleID, lessonID string, xpEarned int) LessonCompletedEvent {
	return LessonCompletedEvent{
		BaseEvent: NewBaseEvent(EventLessonCompleted, learnerID),
		ModuleID:  moduleID,
		LessonID:  lessonID,
		XPEarned:  xpEarned,
	}
}

// ModuleCompletedEvent is emitted when a module first reaches 100% progress.
type ModuleCompletedEvent struct {
	BaseEvent
	ModuleID     string `json:"module_id"`
	TotalLessons int    `json:"total_lessons"`
}

// NewModuleCompletedEvent creates a new ModuleCompletedEvent.
func NewModuleCompletedEvent(learnerID, moduleID string, totalLessons int) ModuleCompletedEvent {
	return ModuleCompletedEvent{
		BaseEvent:    NewBaseEvent(EventModuleCompleted, learnerID),
		ModuleID:     moduleID,
		TotalLessons: totalLessons,
	}
}

// StreakUpdatedEvent is emitted when the daily streak advances or starts.
type StreakUpdatedEvent struct {
	BaseEvent
	CurrentStreak int `json:"current_streak"`
	LongestStreak int `json:"longest_streak"`
}

// NewStreakUpdatedEvent creates a new StreakUpdatedEvent.
func NewStreakUpdatedEvent(learnerID string, current, longest int) StreakUpdatedEvent {
	return StreakUpdatedEvent{
		BaseEvent:     NewBaseEvent(EventStreakUpdated, learnerID),
		CurrentStreak: current,
		LongestStreak: longest,
	}
}

// StreakBrokenEvent is emitted when a streak resets after missed days.
type StreakBrokenEvent struct {
	BaseEvent
	PreviousStreak int `json:"previous_streak"`
	DaysMissed     int `json:"days_missed"`
}

// NewStreakBrokenEvent creates a new StreakBrokenEvent.
func NewStreakBrokenEvent(learnerID string, previousStreak, daysMissed int) StreakBrokenEvent {
	return StreakBrokenEvent{
		BaseEvent:      NewBaseEvent(EventStreakBroken, learnerID),
		PreviousStreak: previousStreak,
		DaysMissed:     daysMissed,
	}
}

// ═══════════════════════════════════════════════════════════════════════════
// Award Events
// ═══════════════════════════════════════════════════════════════════════════

// BadgeEarnedEvent is emitted exactly once per badge id per learner.
type BadgeEarnedEvent struct {
	BaseEvent
	BadgeID  string `json:"badge_id"`
	Name     string `json:"name"`
	Category string `json:"category"`
	XPBonus  int    `json:"xp_bonus"`
}

// NewBadgeEarnedEvent creates a new BadgeEarnedEvent.
func NewBadgeEarnedEvent(learnerID, badgeID, name, category string, xpBonus int) BadgeEarnedEvent {
	return BadgeEarnedEvent{
		BaseEvent: NewBaseEvent(EventBadgeEarned, learnerID),
		BadgeID:   badgeID,
		Name:      name,
		Category:  category,
		XPBonus:   xpBonus,
	}
}

// AchievementUnlockedEvent is emitted exactly once per achievement id per learner.
type AchievementUnlockedEvent struct {
	BaseEvent
	AchievementID string `json:"achievement_id"`
	Value         int    `json:"value"`
}

// NewAchievementUnlockedEvent creates a new AchievementUnlockedEvent.
func NewAchievementUnlockedEvent(learnerID, achievementID string, value int) AchievementUnlockedEvent {
	return AchievementUnlockedEvent{
		BaseEvent:     NewBaseEvent(EventAchievementUnlocked, learnerID),
		AchievementID: achievementID,
		Value:         value,
	}
}

// ProgressResetEvent is emitted when a learner's progress is wiped.
type ProgressResetEvent struct {
	BaseEvent
}

// NewProgressResetEvent creates a new ProgressResetEvent.
func NewProgressResetEvent(learnerID string) ProgressResetEvent {
	return ProgressResetEvent{
		BaseEvent: NewBaseEvent(EventProgressReset, learnerID),
	}
}
