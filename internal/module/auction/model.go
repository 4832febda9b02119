package auction

import (
	"time"

	"github.com/google/uuid"

	"github.com/agrimart/server/internal/module/user"
)

// Auction represents a timed sale of a produce lot to the highest bidder.
type Auction struct {
	ID       uuid.UUID `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	SellerID uuid.UUID `json:"sellerId" gorm:"type:uuid;not null;index"`

	Title       string  `json:"title" gorm:"not null"`
	Description string  `json:"description" gorm:"type:text"`
	Quantity    float64 `json:"quantity" gorm:"not null"`
	Unit        string  `json:"unit" gorm:"not null"`
	StartPrice  float64 `json:"startPrice" gorm:"not null"`

	StartDate time.Time `json:"startDate" gorm:"not null;index"`
	EndDate   time.Time `json:"endDate" gorm:"not null;index"`

	ClosedAt   *time.Time `json:"closedAt,omitempty"`
	WinnerID   *uuid.UUID `json:"winnerId,omitempty" gorm:"type:uuid"`
	WinningBid *float64   `json:"winningBid,omitempty"`

	Seller      *user.User   `json:"seller,omitempty" gorm:"foreignKey:SellerID"`
	Attachments []Attachment `json:"auctionAttachments" gorm:"foreignKey:AuctionID;constraint:OnDelete:CASCADE"`
	Bids        []Bid        `json:"bids,omitempty" gorm:"foreignKey:AuctionID;constraint:OnDelete:CASCADE"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// TableName returns the database table name.
func (Auction) TableName() string {
	return "auctions"
}

// HasStarted reports whether bidding has opened.
func (a *Auction) HasStarted() bool {
	return !time.Now().Before(a.StartDate)
}

// HasEnded reports whether the bidding window has passed.
func (a *Auction) HasEnded() bool {
	return time.Now().After(a.EndDate)
}

// IsActive reports whether the auction currently accepts bids.
func (a *Auction) IsActive() bool {
	return a.ClosedAt == nil && a.HasStarted() && !a.HasEnded()
}

// Attachment is an image attached to an auction.
type Attachment struct {
	ID          uuid.UUID `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	AuctionID   uuid.UUID `json:"auctionId" gorm:"type:uuid;not null;index"`
	URL         string    `json:"url" gorm:"not null"`
	StorageKey  string    `json:"-" gorm:"not null"`
	ContentType string    `json:"contentType"`
	CreatedAt   time.Time `json:"createdAt"`
}

// TableName returns the database table name.
func (Attachment) TableName() string {
	return "auction_attachments"
}

// Bid is a single offer placed on an auction.
type Bid struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	AuctionID uuid.UUID `json:"auctionId" gorm:"type:uuid;not null;index"`
	BidderID  uuid.UUID `json:"bidderId" gorm:"type:uuid;not null;index"`
	Amount    float64   `json:"amount" gorm:"not null"`

	Bidder *user.User `json:"bidder,omitempty" gorm:"foreignKey:BidderID"`

	CreatedAt time.Time `json:"createdAt"`
}

// TableName returns the database table name.
func (Bid) TableName() string {
	return "bids"
}
