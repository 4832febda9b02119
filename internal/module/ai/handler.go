package ai

import (
	"errors"

	"github.com/gin-gonic/gin"

	apperrors "github.com/agrimart/server/internal/shared/errors"
	"github.com/agrimart/server/internal/shared/response"
)

// maxImageSize limits uploaded analysis images to 10 MiB.
const maxImageSize = 10 << 20

// Handler handles HTTP requests for the AI advisory endpoints.
type Handler struct {
	client *Client
}

// NewHandler creates a new AI handler.
func NewHandler(client *Client) *Handler {
	return &Handler{client: client}
}

// RegisterProtectedRoutes registers AI routes. Both endpoints require
// authentication.
func (h *Handler) RegisterProtectedRoutes(r *gin.RouterGroup) {
	ai := r.Group("/ai")
	{
		ai.POST("/recommendation", h.Recommend)
		ai.POST("/analyze", h.Analyze)
	}
}

// Recommend returns crops suited to the given location.
func (h *Handler) Recommend(c *gin.Context) {
	var req CropRecommendationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.client.RecommendCrops(c.Request.Context(), &req)
	if err != nil {
		handleAIError(c, err)
		return
	}

	response.OK(c, "recommendation ready", result)
}

// Analyze diagnoses a crop disease from an uploaded image.
func (h *Handler) Analyze(c *gin.Context) {
	file, err := c.FormFile("image")
	if err != nil {
		response.BadRequest(c, "image file is required")
		return
	}
	if file.Size > maxImageSize {
		response.BadRequest(c, "image exceeds the 10MB limit")
		return
	}

	f, err := file.Open()
	if err != nil {
		response.InternalError(c, "")
		return
	}
	defer f.Close()

	result, err := h.client.AnalyzeDisease(
		c.Request.Context(),
		f,
		file.Filename,
		file.Header.Get("Content-Type"),
		c.PostForm("description"),
	)
	if err != nil {
		handleAIError(c, err)
		return
	}

	response.OK(c, "analysis ready", result)
}

func handleAIError(c *gin.Context, err error) {
	if errors.Is(err, apperrors.ErrRemote) {
		var appErr *apperrors.AppError
		if errors.As(err, &appErr) {
			response.Error(c, appErr.StatusCode, appErr.Message)
			return
		}
	}
	response.InternalError(c, "")
}
