package auction

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

const maxAttachmentSize = 10 << 20

// Handler handles HTTP requests for auctions.
type Handler struct {
	service *Service
}

// NewHandler creates a new auction handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers public auction routes.
func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	auctions := r.Group("/auction")
	{
		auctions.GET("", h.List)
		auctions.GET("/:id", h.Get)
	}
}

// RegisterProtectedRoutes registers auction routes that require
// authentication.
func (h *Handler) RegisterProtectedRoutes(r *gin.RouterGroup) {
	auctions := r.Group("/auction")
	{
		auctions.POST("", h.Create)
		auctions.PUT("/:id", h.Update)
		auctions.DELETE("/:id", h.Delete)
		auctions.POST("/:id/bid", h.PlaceBid)
	}
}

// List returns auctions, optionally filtered by a search term.
func (h *Handler) List(c *gin.Context) {
	var query ListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.service.List(c.Request.Context(), &query)
	if err != nil {
		handleAuctionError(c, err)
		return
	}

	response.OK(c, "auctions fetched", result)
}

// Get returns a single auction with its bids.
func (h *Handler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid auction ID")
		return
	}

	detail, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		handleAuctionError(c, err)
		return
	}

	response.OK(c, "auction fetched", detail)
}

// Create creates a new auction from a multipart form.
func (h *Handler) Create(c *gin.Context) {
	var req CreateAuctionRequest
	if err := c.ShouldBind(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	uploads, err := readAttachments(c)
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	a, err := h.service.Create(c.Request.Context(), middleware.GetUserID(c), &req, uploads)
	if err != nil {
		handleAuctionError(c, err)
		return
	}

	response.Created(c, "auction created", a)
}

// Update modifies an auction before it starts.
func (h *Handler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid auction ID")
		return
	}

	var req UpdateAuctionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	a, err := h.service.Update(c.Request.Context(), middleware.GetUserID(c), id, &req)
	if err != nil {
		handleAuctionError(c, err)
		return
	}

	response.OK(c, "auction updated", a)
}

// Delete removes an auction before it starts.
func (h *Handler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid auction ID")
		return
	}

	if err := h.service.Delete(c.Request.Context(), middleware.GetUserID(c), id); err != nil {
		handleAuctionError(c, err)
		return
	}

	response.OK(c, "auction deleted", nil)
}

// PlaceBid places a bid on an auction.
func (h *Handler) PlaceBid(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid auction ID")
		return
	}

	var req PlaceBidRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	bid, err := h.service.PlaceBid(c.Request.Context(), middleware.GetUserID(c), id, req.Amount)
	if err != nil {
		handleAuctionError(c, err)
		return
	}

	response.Created(c, "bid placed", bid)
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

var auctionErrorMappings = []response.ErrorMapping{
	{Err: ErrAuctionNotFound, Status: http.StatusNotFound, Message: "auction not found"},
	{Err: ErrNotOwner, Status: http.StatusForbidden},
	{Err: ErrSellerOnly, Status: http.StatusForbidden},
	{Err: ErrOwnAuction, Status: http.StatusForbidden},
	{Err: ErrAlreadyStarted, Status: http.StatusConflict},
	{Err: ErrNotActive, Status: http.StatusConflict},
	{Err: ErrBidTooLow, Status: http.StatusBadRequest},
	{Err: ErrInvalidSchedule, Status: http.StatusBadRequest},
	{Err: ErrStorageUnavailable, Status: http.StatusServiceUnavailable, Message: "attachment storage is unavailable"},
	{Err: user.ErrUserNotFound, Status: http.StatusNotFound, Message: "user not found"},
}

func handleAuctionError(c *gin.Context, err error) {
	response.HandleErrorWithDefault(c, err, auctionErrorMappings)
}
