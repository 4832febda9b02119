package notification

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/agrimart/server/internal/shared/events"
)

// EventHandler turns domain events into notifications for the affected
// counterparty.
type EventHandler struct {
	service *Service
	logger  *zap.Logger
}

// NewEventHandler creates an event handler backed by the notification
// service.
func NewEventHandler(service *Service, logger *zap.Logger) *EventHandler {
	return &EventHandler{
		service: service,
		logger:  logger.Named("notification.events"),
	}
}

// Handles implements events.Handler.
func (h *EventHandler) Handles() []string {
	return []string{
		events.OrderCreatedType,
		events.OrderTransitionedType,
		events.AuctionClosedType,
	}
}

// Handle implements events.Handler.
func (h *EventHandler) Handle(event events.Event) error {
	ctx := context.Background()

	switch e := event.(type) {
	case *events.OrderCreatedEvent:
		return h.orderCreated(ctx, e)
	case *events.OrderTransitionedEvent:
		return h.orderTransitioned(ctx, e)
	case *events.AuctionClosedEvent:
		return h.auctionClosed(ctx, e)
	default:
		h.logger.Warn("unexpected event type", zap.String("type", event.EventType()))
		return nil
	}
}

func (h *EventHandler) orderCreated(ctx context.Context, e *events.OrderCreatedEvent) error {
	return h.service.Notify(ctx, &Notification{
		UserID:  e.SellerID,
		Title:   "New order received",
		Message: fmt.Sprintf("You received order %s for %q.", e.OrderNumber, e.ListingTitle),
		Type:    TypeOrderCreated,
		Link:    "/orders/" + e.OrderID.String(),
	})
}

func (h *EventHandler) orderTransitioned(ctx context.Context, e *events.OrderTransitionedEvent) error {
	var notificationType, title, message string

	switch e.Action {
	case "accept":
		notificationType = TypeOrderAccepted
		title = "Order accepted"
		message = fmt.Sprintf("Your order %s for %q was accepted by the seller.", e.OrderNumber, e.ListingTitle)
	case "reject":
		notificationType = TypeOrderRejected
		title = "Order rejected"
		message = fmt.Sprintf("Your order %s for %q was rejected by the seller.", e.OrderNumber, e.ListingTitle)
	case "cancel":
		notificationType = TypeOrderCancelled
		title = "Order cancelled"
		message = fmt.Sprintf("Order %s for %q was cancelled by the buyer.", e.OrderNumber, e.ListingTitle)
	case "complete":
		notificationType = TypeOrderCompleted
		title = "Order completed"
		message = fmt.Sprintf("Your order %s for %q was marked as completed.", e.OrderNumber, e.ListingTitle)
	default:
		h.logger.Warn("unknown order action", zap.String("action", e.Action))
		return nil
	}

	return h.service.Notify(ctx, &Notification{
		UserID:  e.CounterpartyID,
		Title:   title,
		Message: message,
		Type:    notificationType,
		Link:    "/orders/" + e.OrderID.String(),
	})
}

func (h *EventHandler) auctionClosed(ctx context.Context, e *events.AuctionClosedEvent) error {
	if err := h.service.Notify(ctx, &Notification{
		UserID:  e.WinnerID,
		Title:   "Auction won",
		Message: fmt.Sprintf("You won the auction %q with a bid of %.2f.", e.AuctionTitle, e.WinningAmount),
		Type:    TypeAuctionWon,
		Link:    "/auctions/" + e.AuctionID.String(),
	}); err != nil {
		return err
	}

	return h.service.Notify(ctx, &Notification{
		UserID:  e.SellerID,
		Title:   "Auction ended",
		Message: fmt.Sprintf("Your auction %q closed with a winning bid of %.2f.", e.AuctionTitle, e.WinningAmount),
		Type:    TypeAuctionEnded,
		Link:    "/auctions/" + e.AuctionID.String(),
	})
}
