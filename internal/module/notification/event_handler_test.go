package notification

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/agrimart/server/internal/shared/events"
	"github.com/agrimart/server/internal/shared/metrics"
	"github.com/agrimart/server/internal/shared/pagination"
)

// memoryRepository collects created notifications for assertions.
type memoryRepository struct {
	created []Notification
}

func (r *memoryRepository) Create(_ context.Context, n *Notification) error {
	r.created = append(r.created, *n)
	return nil
}

func (r *memoryRepository) ListByUser(context.Context, uuid.UUID, bool, *pagination.Pagination) ([]Notification, int64, error) {
	return nil, 0, nil
}

func (r *memoryRepository) CountUnread(context.Context, uuid.UUID) (int64, error) {
	return 0, nil
}

func (r *memoryRepository) MarkRead(context.Context, uuid.UUID, uuid.UUID) error {
	return nil
}

func (r *memoryRepository) MarkAllRead(context.Context, uuid.UUID) error {
	return nil
}

func newTestHandler() (*EventHandler, *memoryRepository) {
	repo := &memoryRepository{}
	service := NewService(repo, metrics.New("test", prometheus.NewRegistry()), zap.NewNop())
	return NewEventHandler(service, zap.NewNop()), repo
}

func TestEventHandler_OrderCreated(t *testing.T) {
	handler, repo := newTestHandler()

	orderID := uuid.New()
	buyerID := uuid.New()
	sellerID := uuid.New()

	err := handler.Handle(events.NewOrderCreatedEvent(orderID, "ORD-20260830-XK2P9", "Fresh Tomatoes", buyerID, sellerID))
	require.NoError(t, err)

	require.Len(t, repo.created, 1)
	n := repo.created[0]
	assert.Equal(t, sellerID, n.UserID)
	assert.Equal(t, TypeOrderCreated, n.Type)
	assert.Contains(t, n.Message, "ORD-20260830-XK2P9")
	assert.Equal(t, "/orders/"+orderID.String(), n.Link)
}

func TestEventHandler_OrderTransitioned(t *testing.T) {
	tests := []struct {
		action       string
		expectedType string
	}{
		{"accept", TypeOrderAccepted},
		{"reject", TypeOrderRejected},
		{"cancel", TypeOrderCancelled},
		{"complete", TypeOrderCompleted},
	}

	for _, tt := range tests {
		t.Run(tt.action, func(t *testing.T) {
			handler, repo := newTestHandler()

			actorID := uuid.New()
			counterpartyID := uuid.New()

			err := handler.Handle(events.NewOrderTransitionedEvent(
				uuid.New(), "ORD-20260830-XK2P9", "Fresh Tomatoes",
				tt.action, "PENDING", "ACCEPTED",
				actorID, counterpartyID))
			require.NoError(t, err)

			require.Len(t, repo.created, 1)
			n := repo.created[0]
			assert.Equal(t, counterpartyID, n.UserID, "notification must go to the counterparty")
			assert.Equal(t, tt.expectedType, n.Type)
		})
	}
}

func TestEventHandler_UnknownActionIsIgnored(t *testing.T) {
	handler, repo := newTestHandler()

	err := handler.Handle(events.NewOrderTransitionedEvent(
		uuid.New(), "ORD-20260830-XK2P9", "Fresh Tomatoes",
		"ship", "PENDING", "ACCEPTED",
		uuid.New(), uuid.New()))
	require.NoError(t, err)
	assert.Empty(t, repo.created)
}

func TestEventHandler_AuctionClosed(t *testing.T) {
	handler, repo := newTestHandler()

	sellerID := uuid.New()
	winnerID := uuid.New()

	err := handler.Handle(events.NewAuctionClosedEvent(uuid.New(), "Harvest Lot 7", sellerID, winnerID, 1250))
	require.NoError(t, err)

	require.Len(t, repo.created, 2)
	assert.Equal(t, winnerID, repo.created[0].UserID)
	assert.Equal(t, TypeAuctionWon, repo.created[0].Type)
	assert.Equal(t, sellerID, repo.created[1].UserID)
	assert.Equal(t, TypeAuctionEnded, repo.created[1].Type)
}
