package notification

// ListQuery holds filter and pagination parameters.
type ListQuery struct {
	Unread   bool `form:"unread"`
	Page     int  `form:"page" binding:"omitempty,min=1"`
	PageSize int  `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// ListResponse is a paginated collection of notifications.
type ListResponse struct {
	Notifications []Notification `json:"notifications"`
	Total         int64          `json:"total"`
	Unread        int64          `json:"unread"`
	Page          int            `json:"page"`
	TotalPages    int            `json:"totalPages"`
}
