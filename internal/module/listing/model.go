package listing

import (
	"time"

	"github.com/google/uuid"

	"github.com/agrimart/server/internal/module/user"
)

// Listing represents a produce listing offered by a seller.
type Listing struct {
	ID          uuid.UUID `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	SellerID    uuid.UUID `json:"sellerId" gorm:"type:uuid;not null;index"`
	Title       string    `json:"title" gorm:"not null"`
	Description string    `json:"description" gorm:"type:text"`

	PricePerUnit float64 `json:"pricePerUnit" gorm:"not null"`
	Quantity     float64 `json:"quantity" gorm:"not null"`
	// AvailableQuantity is the portion of Quantity not yet claimed by orders.
	AvailableQuantity float64 `json:"availableQuantity" gorm:"not null"`
	Unit              string  `json:"unit" gorm:"not null"`

	Harvested     bool       `json:"harvested" gorm:"default:false"`
	WillHarvestAt *time.Time `json:"willHarvestAt,omitempty"`

	Seller      *user.User   `json:"seller,omitempty" gorm:"foreignKey:SellerID"`
	Attachments []Attachment `json:"listingAttachments" gorm:"foreignKey:ListingID;constraint:OnDelete:CASCADE"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// TableName returns the database table name.
func (Listing) TableName() string {
	return "listings"
}

// Attachment is an image or document attached to a listing.
type Attachment struct {
	ID          uuid.UUID `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ListingID   uuid.UUID `json:"listingId" gorm:"type:uuid;not null;index"`
	URL         string    `json:"url" gorm:"not null"`
	StorageKey  string    `json:"-" gorm:"not null"`
	ContentType string    `json:"contentType"`
	CreatedAt   time.Time `json:"createdAt"`
}

// TableName returns the database table name.
func (Attachment) TableName() string {
	return "listing_attachments"
}
