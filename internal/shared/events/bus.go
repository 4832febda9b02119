package events

import (
	"sync"

	"go.uber.org/zap"
)

// Bus fans domain events out to in-process subscribers. Dispatch is
// synchronous: Publish returns only after every subscriber ran, so a
// caller knows the counterparty notification exists once its transition
// call comes back.
type Bus struct {
	mu     sync.RWMutex
	subs   map[string][]Handler
	logger *zap.Logger
}

// NewBus creates an empty bus.
func NewBus(logger *zap.Logger) *Bus {
	return &Bus{
		subs:   make(map[string][]Handler),
		logger: logger.Named("events"),
	}
}

// Subscribe adds the handler for every event type it handles.
func (b *Bus) Subscribe(h Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for _, t := range h.Handles() {
		b.subs[t] = append(b.subs[t], h)
	}
}

// Publish delivers the event to each subscriber in subscription order.
// A failing subscriber is logged and skipped; it never fails the
// publishing operation, which already committed.
func (b *Bus) Publish(event Event) {
	b.mu.RLock()
	subs := b.subs[event.EventType()]
	b.mu.RUnlock()

	b.logger.Debug("publishing event",
		zap.String("type", event.EventType()),
		zap.String("aggregate_id", event.AggregateID().String()),
		zap.Int("subscribers", len(subs)))

	for _, h := range subs {
		if err := h.Handle(event); err != nil {
			b.logger.Error("event subscriber failed",
				zap.String("type", event.EventType()),
				zap.String("aggregate_id", event.AggregateID().String()),
				zap.Error(err))
		}
	}
}
