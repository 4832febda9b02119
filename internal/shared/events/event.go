package events

import (
	"time"

	"github.com/google/uuid"
)

// Event is a domain event emitted by the order and auction services and
// consumed by the notification module.
type Event interface {
	EventID() uuid.UUID
	EventType() string
	// AggregateID identifies the order or auction the event belongs to.
	AggregateID() uuid.UUID
	OccurredAt() time.Time
}

// Base carries the common event fields. Concrete events embed it.
type Base struct {
	ID        uuid.UUID `json:"id"`
	Type      string    `json:"type"`
	Aggregate uuid.UUID `json:"aggregate_id"`
	At        time.Time `json:"occurred_at"`
}

func newBase(eventType string, aggregateID uuid.UUID) Base {
	return Base{
		ID:        uuid.New(),
		Type:      eventType,
		Aggregate: aggregateID,
		At:        time.Now(),
	}
}

func (b Base) EventID() uuid.UUID     { return b.ID }
func (b Base) EventType() string      { return b.Type }
func (b Base) AggregateID() uuid.UUID { return b.Aggregate }
func (b Base) OccurredAt() time.Time  { return b.At }

// Handler consumes events. Handles lists the event types the handler
// subscribes to; Handle must tolerate being invoked more than once for
// the same event.
type Handler interface {
	Handles() []string
	Handle(event Event) error
}
