package order

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/agrimart/server/internal/module/listing"
	"github.com/agrimart/server/internal/module/user"
	"github.com/agrimart/server/internal/shared/middleware"
	"github.com/agrimart/server/internal/shared/response"
)

// Handler handles HTTP requests for orders.
type Handler struct {
	service *Service
}

// NewHandler creates a new order handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterProtectedRoutes registers order routes. All order routes
// require authentication.
func (h *Handler) RegisterProtectedRoutes(r *gin.RouterGroup) {
	orders := r.Group("/order")
	{
		orders.POST("", h.Create)
		orders.GET("", h.List)
		orders.GET("/:id", h.Get)
		orders.POST("/:id/accept", h.action(ActionAccept))
		orders.POST("/:id/reject", h.action(ActionReject))
		orders.POST("/:id/cancel", h.action(ActionCancel))
		orders.POST("/:id/complete", h.action(ActionComplete))
	}
}

func actorFrom(c *gin.Context) Actor {
	return Actor{
		ID:   middleware.GetUserID(c),
		Role: user.UserType(middleware.GetUserType(c)),
	}
}

// Create places a new order.
func (h *Handler) Create(c *gin.Context) {
	var req CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	o, err := h.service.Create(c.Request.Context(), actorFrom(c), &req)
	if err != nil {
		handleOrderError(c, err)
		return
	}

	response.Created(c, "order placed", o)
}

// List returns the user's orders.
func (h *Handler) List(c *gin.Context) {
	var query ListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.service.List(c.Request.Context(), actorFrom(c), &query)
	if err != nil {
		handleOrderError(c, err)
		return
	}

	response.OK(c, "orders fetched", result)
}

// Get returns a single order with the caller's permitted actions.
func (h *Handler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid order ID")
		return
	}

	o, err := h.service.Get(c.Request.Context(), actorFrom(c), id)
	if err != nil {
		handleOrderError(c, err)
		return
	}

	response.OK(c, "order fetched", o)
}

// action returns a handler that applies the given lifecycle action.
func (h *Handler) action(a Action) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := uuid.Parse(c.Param("id"))
		if err != nil {
			response.BadRequest(c, "invalid order ID")
			return
		}

		o, err := h.service.Execute(c.Request.Context(), actorFrom(c), id, a)
		if err != nil {
			handleOrderError(c, err)
			return
		}

		response.OK(c, "order "+string(o.Status), o)
	}
}

var orderErrorMappings = []response.ErrorMapping{
	{Err: ErrOrderNotFound, Status: http.StatusNotFound, Message: "order not found"},
	{Err: listing.ErrListingNotFound, Status: http.StatusNotFound, Message: "listing not found"},
	{Err: ErrUnauthorized, Status: http.StatusForbidden, Message: "not authorized to act on this order"},
	{Err: ErrBuyerOnly, Status: http.StatusForbidden},
	{Err: ErrOwnListing, Status: http.StatusForbidden},
	{Err: ErrInvalidTransition, Status: http.StatusConflict},
	{Err: ErrStatusConflict, Status: http.StatusConflict, Message: "the order was updated concurrently, refresh and retry"},
	{Err: listing.ErrInsufficientQuantity, Status: http.StatusConflict, Message: "the listing no longer has enough quantity"},
}

func handleOrderError(c *gin.Context, err error) {
	var validation *ValidationError
	if errors.As(err, &validation) {
		response.ValidationFailure(c, validation.Fields)
		return
	}
	response.HandleErrorWithDefault(c, err, orderErrorMappings)
}
