package messaging

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/learnpath/learnpath-progress/internal/domain/shared"
)

func TestPublish_TypedAndAllHandlers(t *testing.T) {
	bus := NewInMemoryBus(nil)

	var typed, all []shared.EventType
	bus.Subscribe(shared.EventXPGained, func(e shared.Event) {
		typed = append(typed, e.EventType())
	})
	bus.SubscribeAll(func(e shared.Event) {
		all = append(all, e.EventType())
	})

	bus.Publish(shared.NewXPGainedEvent("alice", 50, 50, "lesson"))
	bus.Publish(shared.NewLevelUpEvent("alice", 1, 2, 50))

	assert.Equal(t, []shared.EventType{shared.EventXPGained}, typed)
	assert.Equal(t, []shared.EventType{shared.EventXPGained, shared.EventLevelUp}, all)
}

func TestPublish_PanickingHandlerIsIsolated(t *testing.T) {
	bus := NewInMemoryBus(nil)

	delivered := false
	bus.Subscribe(shared.EventXPGained, func(e shared.Event) {
		panic("boom")
	})
	bus.Subscribe(shared.EventXPGained, func(e shared.Event) {
		delivered = true
	})

	assert.NotPanics(t, func() {
		bus.Publish(shared.NewXPGainedEvent("alice", 10, 10, "lesson"))
	})
	assert.True(t, delivered, "later handlers still run after a panic")
}

func TestPublish_NilEventIsNoOp(t *testing.T) {
	bus := NewInMemoryBus(nil)
	assert.NotPanics(t, func() { bus.Publish(nil) })
}
