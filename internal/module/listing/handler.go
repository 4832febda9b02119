package listing

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/agrimart/server/internal/module/user"
	"github.com/agrimart/server/internal/shared/middleware"
	"github.com/agrimart/server/internal/shared/response"
)

// maxAttachmentSize limits a single uploaded attachment to 10 MiB.
const maxAttachmentSize = 10 << 20

// Handler handles HTTP requests for listings.
type Handler struct {
	service *Service
}

// NewHandler creates a new listing handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers public listing routes.
func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	listings := r.Group("/listing")
	{
		listings.GET("", h.Search)
		listings.GET("/:id", h.Get)
	}
}

// RegisterProtectedRoutes registers listing routes that require authentication.
func (h *Handler) RegisterProtectedRoutes(r *gin.RouterGroup) {
	listings := r.Group("/listing")
	{
		listings.POST("", h.Create)
		listings.GET("/mine", h.ListMine)
		listings.PUT("/:id", h.Update)
		listings.DELETE("/:id", h.Delete)
	}
}

// Search returns listings, optionally filtered by a search term.
func (h *Handler) Search(c *gin.Context) {
	var query ListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.service.Search(c.Request.Context(), &query)
	if err != nil {
		handleListingError(c, err)
		return
	}

	response.OK(c, "listings fetched", result)
}

// Get returns a single listing.
func (h *Handler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid listing ID")
		return
	}

	l, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		handleListingError(c, err)
		return
	}

	response.OK(c, "listing fetched", l)
}

// ListMine returns the authenticated seller's listings.
func (h *Handler) ListMine(c *gin.Context) {
	var query ListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.service.ListMine(c.Request.Context(), middleware.GetUserID(c), &query)
	if err != nil {
		handleListingError(c, err)
		return
	}

	response.OK(c, "listings fetched", result)
}

// Create creates a new listing from a multipart form.
func (h *Handler) Create(c *gin.Context) {
	var req CreateListingRequest
	if err := c.ShouldBind(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	uploads, err := readAttachments(c)
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	l, err := h.service.Create(c.Request.Context(), middleware.GetUserID(c), &req, uploads)
	if err != nil {
		handleListingError(c, err)
		return
	}

	response.Created(c, "listing created", l)
}

// Update modifies an existing listing.
func (h *Handler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid listing ID")
		return
	}

	var req UpdateListingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	l, err := h.service.Update(c.Request.Context(), middleware.GetUserID(c), id, &req)
	if err != nil {
		handleListingError(c, err)
		return
	}

	response.OK(c, "listing updated", l)
}

// Delete removes a listing.
func (h *Handler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid listing ID")
		return
	}

	if err := h.service.Delete(c.Request.Context(), middleware.GetUserID(c), id); err != nil {
		handleListingError(c, err)
		return
	}

	response.OK(c, "listing deleted", nil)
}

func readAttachments(c *gin.Context) ([]AttachmentUpload, error) {
	form, err := c.MultipartForm()
	if err != nil {
		return nil, nil
	}

	files := form.File["attachments"]
	uploads := make([]AttachmentUpload, 0, len(files))
	for _, file := range files {
		if file.Size > maxAttachmentSize {
			return nil, errors.New("attachment exceeds the 10MB limit")
		}

		f, err := file.Open()
		if err != nil {
			return nil, err
		}
		data, err := io.ReadAll(io.LimitReader(f, maxAttachmentSize))
		f.Close()
		if err != nil {
			return nil, err
		}

		uploads = append(uploads, AttachmentUpload{
			Data:        data,
			ContentType: file.Header.Get("Content-Type"),
		})
	}
	return uploads, nil
}

var listingErrorMappings = []response.ErrorMapping{
	{Err: ErrListingNotFound, Status: http.StatusNotFound, Message: "listing not found"},
	{Err: ErrNotOwner, Status: http.StatusForbidden},
	{Err: ErrSellerOnly, Status: http.StatusForbidden},
	{Err: ErrInvalidAttachment, Status: http.StatusBadRequest},
	{Err: ErrStorageUnavailable, Status: http.StatusServiceUnavailable, Message: "attachment storage is unavailable"},
	{Err: user.ErrUserNotFound, Status: http.StatusNotFound, Message: "user not found"},
}

func handleListingError(c *gin.Context, err error) {
	response.HandleErrorWithDefault(c, err, listingErrorMappings)
}
