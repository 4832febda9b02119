package notification

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/agrimart/server/internal/shared/middleware"
	"github.com/agrimart/server/internal/shared/response"
)

// Handler handles HTTP requests for notifications.
type Handler struct {
	service *Service
}

// NewHandler creates a new notification handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterProtectedRoutes registers notification routes. All notification
// routes require authentication.
func (h *Handler) RegisterProtectedRoutes(r *gin.RouterGroup) {
	notifications := r.Group("/notification")
	{
		notifications.GET("", h.List)
		notifications.PUT("/:id/read", h.MarkRead)
		notifications.PUT("/read-all", h.MarkAllRead)
	}
}

// List returns the user's notifications.
func (h *Handler) List(c *gin.Context) {
	var query ListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.service.List(c.Request.Context(), middleware.GetUserID(c), query.Unread, &query)
	if err != nil {
		response.InternalError(c, "")
		return
	}

	response.OK(c, "notifications fetched", result)
}

// MarkRead marks a notification as read.
func (h *Handler) MarkRead(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid notification ID")
		return
	}

	if err := h.service.MarkRead(c.Request.Context(), middleware.GetUserID(c), id); err != nil {
		if errors.Is(err, ErrNotificationNotFound) {
			response.NotFound(c, "notification not found")
			return
		}
		response.InternalError(c, "")
		return
	}

	response.OK(c, "notification marked as read", nil)
}

// MarkAllRead marks all of the user's notifications as read.
func (h *Handler) MarkAllRead(c *gin.Context) {
	if err := h.service.MarkAllRead(c.Request.Context(), middleware.GetUserID(c)); err != nil {
		response.InternalError(c, "")
		return
	}

	response.OK(c, "all notifications marked as read", nil)
}
