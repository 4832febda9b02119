package events

import (
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

type recordingHandler struct {
	types    []string
	received []Event
	err      error
}

func (h *recordingHandler) Handles() []string { return h.types }

func (h *recordingHandler) Handle(e Event) error {
	h.received = append(h.received, e)
	return h.err
}

func TestBus_PublishDispatchesToSubscribers(t *testing.T) {
	bus := NewBus(zap.NewNop())

	orders := &recordingHandler{types: []string{OrderCreatedType, OrderTransitionedType}}
	auctions := &recordingHandler{types: []string{AuctionClosedType}}
	bus.Subscribe(orders)
	bus.Subscribe(auctions)

	orderID := uuid.New()
	bus.Publish(NewOrderCreatedEvent(orderID, "ORD-20260830-ABCDE", "Fresh Tomatoes", uuid.New(), uuid.New()))

	assert.Len(t, orders.received, 1)
	assert.Empty(t, auctions.received)
	assert.Equal(t, OrderCreatedType, orders.received[0].EventType())
	assert.Equal(t, orderID, orders.received[0].AggregateID())
}

func TestBus_PublishWithoutSubscribersIsNoop(t *testing.T) {
	bus := NewBus(zap.NewNop())

	assert.NotPanics(t, func() {
		bus.Publish(NewAuctionClosedEvent(uuid.New(), "Wheat Lot", uuid.New(), uuid.New(), 150))
	})
}

func TestBus_FailingSubscriberDoesNotBlockOthers(t *testing.T) {
	bus := NewBus(zap.NewNop())

	failing := &recordingHandler{types: []string{OrderTransitionedType}, err: errors.New("boom")}
	healthy := &recordingHandler{types: []string{OrderTransitionedType}}
	bus.Subscribe(failing)
	bus.Subscribe(healthy)

	bus.Publish(NewOrderTransitionedEvent(
		uuid.New(), "ORD-20260830-ABCDE", "Fresh Tomatoes",
		"accept", "PENDING", "ACCEPTED", uuid.New(), uuid.New()))

	assert.Len(t, failing.received, 1)
	assert.Len(t, healthy.received, 1)
}
