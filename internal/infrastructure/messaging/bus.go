// Package messaging provides the in-process event bus the progress engine
// publishes domain events on. Dispatch is synchronous: handlers run inside
// the facade call, so a subscriber always observes state the triggering
// operation has already persisted.
package messaging

import (
	"sync"

	"github.com/learnpath/learnpath-progress/internal/domain/shared"
	"github.com/learnpath/learnpath-progress/pkg/logger"
)

// InMemoryBus dispatches events to subscribed handlers synchronously, in
// subscription order. A panicking handler is logged and skipped; it never
// takes down the publishing operation.
type InMemoryBus struct {
	mu          sync.RWMutex
	handlers    map[shared.EventType][]shared.EventHandler
	allHandlers []shared.EventHandler
	log         *logger.Logger
}

var _ shared.EventPublisher = (*InMemoryBus)(nil)

// NewInMemoryBus creates an empty bus.
func NewInMemoryBus(log *logger.Logger) *InMemoryBus {
	if log == nil {
		log = logger.Default()
	}
	return &InMemoryBus{
		handlers: make(map[shared.EventType][]shared.EventHandler),
		log:      log.With(logger.Component("event_bus")),
	}
}

// Subscribe registers a handler for one event type.
func (b *InMemoryBus) Subscribe(eventType shared.EventType, handler shared.EventHandler) {
	if handler == nil {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers[eventType] = append(b.handlers[eventType], handler)
}

// SubscribeAll registers a handler for every event type.
func (b *InMemoryBus) SubscribeAll(handler shared.EventHandler) {
	if handler == nil {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.allHandlers = append(b.allHandlers, handler)
}

// Publish delivers the event to all matching handlers.
func (b *InMemoryBus) Publish(event shared.Event) {
	if event == nil {
		return
	}
	b.mu.RLock()
	typed := b.handlers[event.EventType()]
	all := b.allHandlers
	b.mu.RUnlock()

	for _, h := range typed {
		b.dispatch(h, event)
	}
	for _, h := range all {
		b.dispatch(h, event)
	}
}

func (b *InMemoryBus) dispatch(handler shared.EventHandler, event shared.Event) {
	defer func() {
		if r := recover(); r != nil {
			b.log.Error("event handler panicked",
				logger.String("event_type", string(event.EventType())),
				logger.LearnerID(event.AggregateID()),
				logger.Any("panic", r),
			)
		}
	}()
	handler(event)
}
