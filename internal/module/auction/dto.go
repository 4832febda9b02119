package auction

import "time"

// CreateAuctionRequest represents the multipart form fields for creating
// an auction. Attachments are read from the "attachments" file field.
type CreateAuctionRequest struct {
	Title       string    `form:"title" binding:"required,min=2,max=200"`
	Description string    `form:"description" binding:"omitempty,max=5000"`
	Quantity    float64   `form:"quantity" binding:"required,gt=0"`
	Unit        string    `form:"unit" binding:"required,max=20"`
	StartPrice  float64   `form:"startPrice" binding:"required,gt=0"`
	StartDate   time.Time `form:"startDate" binding:"required" time_format:"2006-01-02T15:04:05Z07:00"`
	EndDate     time.Time `form:"endDate" binding:"required" time_format:"2006-01-02T15:04:05Z07:00"`
}

// UpdateAuctionRequest represents an auction update, only allowed before
// the start date. Nil fields are left unchanged.
type UpdateAuctionRequest struct {
	Title       *string    `json:"title" binding:"omitempty,min=2,max=200"`
	Description *string    `json:"description" binding:"omitempty,max=5000"`
	Quantity    *float64   `json:"quantity" binding:"omitempty,gt=0"`
	Unit        *string    `json:"unit" binding:"omitempty,max=20"`
	StartPrice  *float64   `json:"startPrice" binding:"omitempty,gt=0"`
	StartDate   *time.Time `json:"startDate"`
	EndDate     *time.Time `json:"endDate"`
}

// PlaceBidRequest represents a bid on an auction.
type PlaceBidRequest struct {
	Amount float64 `json:"amount" binding:"required,gt=0"`
}

// ListQuery holds search and pagination parameters for auction queries.
type ListQuery struct {
	Search   string `form:"search" binding:"omitempty,max=200"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// ListResponse is a paginated collection of auctions.
type ListResponse struct {
	Auctions   []Auction `json:"auctions"`
	Total      int64     `json:"total"`
	Page       int       `json:"page"`
	TotalPages int       `json:"totalPages"`
}

// AuctionDetail is an auction with its bids and the current highest bid.
type AuctionDetail struct {
	*Auction
	HighestBid *Bid  `json:"highestBid,omitempty"`
	Bids       []Bid `json:"bids"`
}
