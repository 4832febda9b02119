package user

import (
	"net/http"

	"github.com/agrimart/server/internal/shared/middleware"
	"github.com/agrimart/server/internal/shared/response"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Handler handles HTTP requests for user profiles and settings.
type Handler struct {
	service *Service
}

// NewHandler creates a new user handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterProtectedRoutes registers user routes that require authentication.
func (h *Handler) RegisterProtectedRoutes(r *gin.RouterGroup) {
	users := r.Group("/users")
	{
		users.GET("/:id", h.GetUser)
	}

	settings := r.Group("/settings")
	{
		settings.PUT("/profile", h.UpdateProfile)
		settings.PUT("/password", h.ChangePassword)
		settings.PUT("/preferences", h.UpdatePreferences)
	}
}

// GetUser returns a user's public profile.
func (h *Handler) GetUser(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid user ID")
		return
	}

	user, err := h.service.GetUser(c.Request.Context(), id)
	if err != nil {
		handleUserError(c, err)
		return
	}

	response.OK(c, "user fetched", user)
}

// UpdateProfile updates the current user's profile.
func (h *Handler) UpdateProfile(c *gin.Context) {
	userID := middleware.GetUserID(c)

	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	user, err := h.service.UpdateProfile(c.Request.Context(), userID, UpdateProfileInput{
		Name:    req.Name,
		Phone:   req.Phone,
		Address: req.Address,
		Avatar:  req.Avatar,
	})
	if err != nil {
		handleUserError(c, err)
		return
	}

	response.OK(c, "profile updated", user)
}

// ChangePassword changes the current user's password.
func (h *Handler) ChangePassword(c *gin.Context) {
	userID := middleware.GetUserID(c)

	var req ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	if err := h.service.ChangePassword(c.Request.Context(), userID, req.CurrentPassword, req.NewPassword); err != nil {
		handleUserError(c, err)
		return
	}

	response.OK(c, "password changed", nil)
}

// UpdatePreferences updates the current user's notification preferences.
func (h *Handler) UpdatePreferences(c *gin.Context) {
	userID := middleware.GetUserID(c)

	var req UpdatePreferencesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	user, err := h.service.UpdatePreferences(c.Request.Context(), userID, *req.EmailNotifications)
	if err != nil {
		handleUserError(c, err)
		return
	}

	response.OK(c, "preferences updated", user)
}

var userErrorMappings = []response.ErrorMapping{
	{Err: ErrUserNotFound, Status: http.StatusNotFound, Message: "user not found"},
	{Err: ErrWrongPassword, Status: http.StatusBadRequest, Message: "current password is incorrect"},
	{Err: ErrEmailTaken, Status: http.StatusConflict, Message: "email is already registered"},
}

func handleUserError(c *gin.Context, err error) {
	response.HandleErrorWithDefault(c, err, userErrorMappings)
}
