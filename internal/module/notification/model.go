package notification

import (
	"time"

	"github.com/google/uuid"
)

// Notification types, matched by clients to pick icons and routes.
const (
	TypeOrderCreated   = "order.created"
	TypeOrderAccepted  = "order.accepted"
	TypeOrderRejected  = "order.rejected"
	TypeOrderCancelled = "order.cancelled"
	TypeOrderCompleted = "order.completed"
	TypeAuctionWon     = "auction.won"
	TypeAuctionEnded   = "auction.ended"
)

// Notification is an in-app message delivered to a single user.
type Notification struct {
	ID      uuid.UUID `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserID  uuid.UUID `json:"userId" gorm:"type:uuid;not null;index"`
	Title   string    `json:"title" gorm:"not null"`
	Message string    `json:"message" gorm:"not null"`
	Type    string    `json:"type" gorm:"not null"`
	Link    string    `json:"link"`
	IsRead  bool      `json:"isRead" gorm:"default:false;index"`

	CreatedAt time.Time `json:"createdAt"`
}

// TableName returns the database table name.
func (Notification) TableName() string {
	return "notifications"
}
