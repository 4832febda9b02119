package auth

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/agrimart/server/internal/module/user"
	"github.com/agrimart/server/internal/shared/middleware"
	"github.com/agrimart/server/internal/shared/response"
)

// Handler handles HTTP requests for authentication.
type Handler struct {
	service *Service
}

// NewHandler creates a new auth handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers public auth routes.
func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	auth := r.Group("/auth")
	{
		auth.POST("/register", h.Register)
		auth.POST("/login", h.Login)
		auth.POST("/refresh", h.Refresh)
	}
}

// RegisterProtectedRoutes registers auth routes that require authentication.
func (h *Handler) RegisterProtectedRoutes(r *gin.RouterGroup) {
	auth := r.Group("/auth")
	{
		auth.GET("/me", h.Me)
		auth.POST("/logout", h.Logout)
	}
}

// Register creates a new account.
func (h *Handler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	tokens, err := h.service.Register(c.Request.Context(), &req)
	if err != nil {
		handleAuthError(c, err)
		return
	}

	response.Created(c, "account created", tokens)
}

// Login authenticates a user.
func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	tokens, err := h.service.Login(c.Request.Context(), &req)
	if err != nil {
		handleAuthError(c, err)
		return
	}

	response.OK(c, "login successful", tokens)
}

// Refresh exchanges a refresh token for a new token pair.
func (h *Handler) Refresh(c *gin.Context) {
	var req RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	tokens, err := h.service.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		handleAuthError(c, err)
		return
	}

	response.OK(c, "token refreshed", tokens)
}

// Me returns the authenticated user's profile.
func (h *Handler) Me(c *gin.Context) {
	u, err := h.service.Me(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		handleAuthError(c, err)
		return
	}

	response.OK(c, "user fetched", u)
}

// Logout revokes the user's refresh tokens.
func (h *Handler) Logout(c *gin.Context) {
	if err := h.service.Logout(c.Request.Context(), middleware.GetUserID(c)); err != nil {
		handleAuthError(c, err)
		return
	}

	response.OK(c, "logged out", nil)
}

var authErrorMappings = []response.ErrorMapping{
	{Err: ErrInvalidCredentials, Status: http.StatusUnauthorized, Message: "invalid email or password"},
	{Err: ErrInvalidToken, Status: http.StatusUnauthorized, Message: "invalid or expired token"},
	{Err: ErrTokenExpired, Status: http.StatusUnauthorized, Message: "invalid or expired token"},
	{Err: ErrEmailTaken, Status: http.StatusConflict, Message: "email is already registered"},
	{Err: ErrTooManyAttempts, Status: http.StatusTooManyRequests, Message: "too many login attempts, try again later"},
	{Err: user.ErrInvalidUserType, Status: http.StatusBadRequest, Message: "user type must be buyer or seller"},
	{Err: user.ErrUserNotFound, Status: http.StatusNotFound, Message: "user not found"},
}

func handleAuthError(c *gin.Context, err error) {
	response.HandleErrorWithDefault(c, err, authErrorMappings)
}
