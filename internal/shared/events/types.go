package events

import "github.com/google/uuid"

// Event type constants.
const (
	OrderCreatedType      = "OrderCreated"
	OrderTransitionedType = "OrderTransitioned"
	AuctionClosedType     = "AuctionClosed"
)

// OrderCreatedEvent is emitted when a buyer places a new order.
type OrderCreatedEvent struct {
	Base

	// OrderID is the unique identifier of the order.
	OrderID uuid.UUID `json:"order_id"`

	// OrderNumber is the human readable order reference.
	OrderNumber string `json:"order_number"`

	// ListingTitle is the title of the ordered listing.
	ListingTitle string `json:"listing_title"`

	// BuyerID is the purchasing user.
	BuyerID uuid.UUID `json:"buyer_id"`

	// SellerID is the owner of the listing.
	SellerID uuid.UUID `json:"seller_id"`
}

// NewOrderCreatedEvent creates a new OrderCreatedEvent.
func NewOrderCreatedEvent(orderID uuid.UUID, orderNumber, listingTitle string, buyerID, sellerID uuid.UUID) *OrderCreatedEvent {
	return &OrderCreatedEvent{
		Base:         newBase(OrderCreatedType, orderID),
		OrderID:      orderID,
		OrderNumber:  orderNumber,
		ListingTitle: listingTitle,
		BuyerID:      buyerID,
		SellerID:     sellerID,
	}
}

// OrderTransitionedEvent is emitted when an order status transition succeeds.
// Exactly one event is published per successful transition.
type OrderTransitionedEvent struct {
	Base

	// OrderID is the unique identifier of the order.
	OrderID uuid.UUID `json:"order_id"`

	// OrderNumber is the human readable order reference.
	OrderNumber string `json:"order_number"`

	// ListingTitle is the title of the ordered listing.
	ListingTitle string `json:"listing_title"`

	// Action is the transition action that was applied
	// (accept, reject, cancel, complete).
	Action string `json:"action"`

	// FromStatus and ToStatus record the transition endpoints.
	FromStatus string `json:"from_status"`
	ToStatus   string `json:"to_status"`

	// ActorID is the user who performed the action.
	ActorID uuid.UUID `json:"actor_id"`

	// CounterpartyID is the other party, who receives the notification.
	CounterpartyID uuid.UUID `json:"counterparty_id"`
}

// NewOrderTransitionedEvent creates a new OrderTransitionedEvent.
func NewOrderTransitionedEvent(
	orderID uuid.UUID,
	orderNumber, listingTitle, action, fromStatus, toStatus string,
	actorID, counterpartyID uuid.UUID,
) *OrderTransitionedEvent {
	return &OrderTransitionedEvent{
		Base:           newBase(OrderTransitionedType, orderID),
		OrderID:        orderID,
		OrderNumber:    orderNumber,
		ListingTitle:   listingTitle,
		Action:         action,
		FromStatus:     fromStatus,
		ToStatus:       toStatus,
		ActorID:        actorID,
		CounterpartyID: counterpartyID,
	}
}

// AuctionClosedEvent is emitted when an auction is closed with a winning bid.
type AuctionClosedEvent struct {
	Base

	// AuctionID is the unique identifier of the auction.
	AuctionID uuid.UUID `json:"auction_id"`

	// AuctionTitle is the title of the auction.
	AuctionTitle string `json:"auction_title"`

	// SellerID is the auction owner.
	SellerID uuid.UUID `json:"seller_id"`

	// WinnerID is the user who placed the winning bid.
	WinnerID uuid.UUID `json:"winner_id"`

	// WinningAmount is the winning bid amount.
	WinningAmount float64 `json:"winning_amount"`
}

// NewAuctionClosedEvent creates a new AuctionClosedEvent.
func NewAuctionClosedEvent(auctionID uuid.UUID, title string, sellerID, winnerID uuid.UUID, amount float64) *AuctionClosedEvent {
	return &AuctionClosedEvent{
		Base:          newBase(AuctionClosedType, auctionID),
		AuctionID:     auctionID,
		AuctionTitle:  title,
		SellerID:      sellerID,
		WinnerID:      winnerID,
		WinningAmount: amount,
	}
}
