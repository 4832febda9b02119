package listing

import "time"

// CreateListingRequest represents the multipart form fields for creating
// a listing. Attachments are read from the "attachments" file field.
type CreateListingRequest struct {
	Title         string     `form:"title" binding:"required,min=2,max=200"`
	Description   string     `form:"description" binding:"omitempty,max=5000"`
	PricePerUnit  float64    `form:"pricePerUnit" binding:"required,gt=0"`
	Quantity      float64    `form:"quantity" binding:"required,gt=0"`
	Unit          string     `form:"unit" binding:"required,max=20"`
	Harvested     bool       `form:"harvested"`
	WillHarvestAt *time.Time `form:"willHarvestAt" time_format:"2006-01-02"`
}

// UpdateListingRequest represents a listing update. Nil fields are
// left unchanged.
type UpdateListingRequest struct {
	Title         *string    `json:"title" binding:"omitempty,min=2,max=200"`
	Description   *string    `json:"description" binding:"omitempty,max=5000"`
	PricePerUnit  *float64   `json:"pricePerUnit" binding:"omitempty,gt=0"`
	Quantity      *float64   `json:"quantity" binding:"omitempty,gt=0"`
	Unit          *string    `json:"unit" binding:"omitempty,max=20"`
	Harvested     *bool      `json:"harvested"`
	WillHarvestAt *time.Time `json:"willHarvestAt"`
}

// ListQuery holds search and pagination parameters for listing queries.
type ListQuery struct {
	Search   string `form:"search" binding:"omitempty,max=200"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// ListResponse is a paginated collection of listings.
type ListResponse struct {
	Listings   []Listing `json:"listings"`
	Total      int64     `json:"total"`
	Page       int       `json:"page"`
	TotalPages int       `json:"totalPages"`
}
