package order

import (
	"time"

	"github.com/google/uuid"

	"github.com/agrimart/server/internal/module/listing"
	"github.com/agrimart/server/internal/module/user"
)

// Status is an order lifecycle status.
type Status string

// The closed set of order statuses. A cancelled order is stored as
// REJECTED with CancelledAt set; clients surface it as "cancelled".
const (
	StatusPending   Status = "PENDING"
	StatusAccepted  Status = "ACCEPTED"
	StatusRejected  Status = "REJECTED"
	StatusCompleted Status = "COMPLETED"
)

// IsValid reports whether s is a known status.
func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusAccepted, StatusRejected, StatusCompleted:
		return true
	}
	return false
}

// Order represents a buyer's purchase request against a listing.
type Order struct {
	ID          uuid.UUID `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	OrderNumber string    `json:"orderNumber" gorm:"uniqueIndex;not null"`

	ListingID uuid.UUID `json:"listingId" gorm:"type:uuid;not null;index"`
	BuyerID   uuid.UUID `json:"buyerId" gorm:"type:uuid;not null;index"`
	// SellerID is denormalized from the listing so authorization does not
	// depend on the listing row.
	SellerID uuid.UUID `json:"sellerId" gorm:"type:uuid;not null;index"`

	Quantity float64 `json:"quantity" gorm:"not null"`
	// TotalPrice is quantity times the listing's price per unit, frozen
	// at creation time.
	TotalPrice float64 `json:"totalPrice" gorm:"not null"`

	Status      Status     `json:"status" gorm:"not null;default:'PENDING';index"`
	CancelledAt *time.Time `json:"cancelledAt,omitempty"`

	Listing *listing.Listing `json:"listing,omitempty" gorm:"foreignKey:ListingID"`
	Buyer   *user.User       `json:"buyer,omitempty" gorm:"foreignKey:BuyerID"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// TableName returns the database table name.
func (Order) TableName() string {
	return "orders"
}

// PartyOf reports whether the user is the buyer or seller of this order.
func (o *Order) PartyOf(userID uuid.UUID) bool {
	return o.BuyerID == userID || o.SellerID == userID
}

// Counterparty returns the other party of the order relative to actorID.
func (o *Order) Counterparty(actorID uuid.UUID) uuid.UUID {
	if actorID == o.BuyerID {
		return o.SellerID
	}
	return o.BuyerID
}
