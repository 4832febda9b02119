package order

// CreateOrderRequest represents an order creation request.
type CreateOrderRequest struct {
	ListingID string  `json:"listingId" binding:"required,uuid"`
	Quantity  float64 `json:"quantity" binding:"required"`
}

// ListQuery holds search and pagination parameters for order queries.
type ListQuery struct {
	Search   string `form:"search" binding:"omitempty,max=200"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// ListResponse is a paginated collection of orders.
type ListResponse struct {
	Orders     []Order `json:"orders"`
	Total      int64   `json:"total"`
	Page       int     `json:"page"`
	TotalPages int     `json:"totalPages"`
}

// OrderResponse wraps an order with the actions the requesting user may
// currently perform on it.
type OrderResponse struct {
	*Order
	PermittedActions []Action `json:"permittedActions"`
}
