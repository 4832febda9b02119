package order

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/agrimart/server/internal/module/listing"
	"github.com/agrimart/server/internal/module/user"
	"github.com/agrimart/server/internal/shared/events"
	"github.com/agrimart/server/internal/shared/metrics"
	"github.com/agrimart/server/internal/shared/pagination"
	"github.com/agrimart/server/internal/shared/random"
)

// Actor identifies the authenticated user performing an order operation,
// as derived from their token claims.
type Actor struct {
	ID   uuid.UUID
	Role user.UserType
}

// ValidationError reports per-field validation failures for order creation.
type ValidationError struct {
	Fields map[string][]string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for field, messages := range e.Fields {
		parts = append(parts, fmt.Sprintf("%s: %s", field, strings.Join(messages, "; ")))
	}
	return "validation failed: " + strings.Join(parts, ", ")
}

// Service implements order creation and lifecycle transitions.
type Service struct {
	repo     Repository
	listings listing.Repository
	sm       *StateMachine
	bus      *events.Bus
	metrics  *metrics.Metrics
	db       *gorm.DB
	logger   *zap.Logger
}

// NewService creates a new order service.
func NewService(repo Repository, listings listing.Repository, bus *events.Bus, m *metrics.Metrics, db *gorm.DB, logger *zap.Logger) *Service {
	return &Service{
		repo:     repo,
		listings: listings,
		sm:       NewStateMachine(),
		bus:      bus,
		metrics:  m,
		db:       db,
		logger:   logger.Named("order"),
	}
}

// StateMachine exposes the transition table, for rendering permitted
// actions alongside orders.
func (s *Service) StateMachine() *StateMachine {
	return s.sm
}

// Create places a new order for a buyer against a listing. The total
// price is computed from the listing's current price per unit and frozen;
// the ordered quantity is reserved from the listing's availability in the
// same transaction.
func (s *Service) Create(ctx context.Context, actor Actor, req *CreateOrderRequest) (*Order, error) {
	if actor.Role != user.UserTypeBuyer {
		return nil, ErrBuyerOnly
	}

	listingID, err := uuid.Parse(req.ListingID)
	if err != nil {
		return nil, &ValidationError{Fields: map[string][]string{
			"listingId": {"must be a valid listing ID"},
		}}
	}

	l, err := s.listings.GetByID(ctx, listingID)
	if err != nil {
		return nil, err
	}
	if l.SellerID == actor.ID {
		return nil, ErrOwnListing
	}

	fields := map[string][]string{}
	if req.Quantity <= 0 {
		fields["quantity"] = append(fields["quantity"], "must be greater than zero")
	} else if req.Quantity > l.AvailableQuantity {
		fields["quantity"] = append(fields["quantity"],
			fmt.Sprintf("only %g %s available", l.AvailableQuantity, l.Unit))
	}
	if len(fields) > 0 {
		return nil, &ValidationError{Fields: fields}
	}

	o := &Order{
		OrderNumber: generateOrderNumber(),
		ListingID:   l.ID,
		BuyerID:     actor.ID,
		SellerID:    l.SellerID,
		Quantity:    req.Quantity,
		TotalPrice:  req.Quantity * l.PricePerUnit,
		Status:      StatusPending,
	}

	err = s.inTx(func(tx *gorm.DB) error {
		if err := s.listings.ReserveQuantity(ctx, tx, l.ID, req.Quantity); err != nil {
			return err
		}
		return s.repo.Create(ctx, tx, o)
	})
	if err != nil {
		return nil, err
	}

	s.metrics.OrdersCreatedTotal.Inc()
	s.logger.Info("order created",
		zap.String("order_id", o.ID.String()),
		zap.String("order_number", o.OrderNumber),
		zap.String("buyer_id", actor.ID.String()),
		zap.String("seller_id", l.SellerID.String()))

	s.bus.Publish(events.NewOrderCreatedEvent(o.ID, o.OrderNumber, l.Title, o.BuyerID, o.SellerID))

	o.Listing = l
	return o, nil
}

// Execute applies a lifecycle action to an order on behalf of an actor.
//
// Preconditions are checked in order: the actor must be the order's buyer
// (for cancel) or seller (for accept/reject/complete), then the action
// must be permitted for the actor's role and the order's current status.
// The status update is guarded against concurrent transitions; exactly
// one transition event is published per successful call and nothing is
// mutated on failure.
func (s *Service) Execute(ctx context.Context, actor Actor, orderID uuid.UUID, action Action) (*Order, error) {
	if !action.IsValid() {
		return nil, fmt.Errorf("%w: unknown action %q", ErrInvalidTransition, action)
	}

	o, err := s.repo.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if err := s.authorize(actor, o); err != nil {
		s.denied(action, "unauthorized")
		return nil, err
	}

	if !s.sm.CanPerform(actor.Role, o.Status, action) {
		s.denied(action, "invalid_transition")
		return nil, fmt.Errorf("%w: %s cannot %s a %s order",
			ErrInvalidTransition, actor.Role, action, o.Status)
	}

	target, err := s.sm.Target(action)
	if err != nil {
		return nil, err
	}

	var cancelledAt *time.Time
	if action == ActionCancel {
		now := time.Now()
		cancelledAt = &now
	}

	from := o.Status
	err = s.inTx(func(tx *gorm.DB) error {
		if err := s.repo.UpdateStatus(ctx, tx, o.ID, from, target, cancelledAt); err != nil {
			return err
		}
		return s.adjustAvailability(ctx, tx, o, from, target)
	})
	if err != nil {
		if errors.Is(err, ErrStatusConflict) || errors.Is(err, listing.ErrInsufficientQuantity) {
			s.denied(action, "conflict")
		}
		return nil, err
	}

	o.Status = target
	o.CancelledAt = cancelledAt

	s.metrics.OrderTransitionsTotal.WithLabelValues(string(action)).Inc()
	s.logger.Info("order transitioned",
		zap.String("order_id", o.ID.String()),
		zap.String("action", string(action)),
		zap.String("from", string(from)),
		zap.String("to", string(target)),
		zap.String("actor_id", actor.ID.String()))

	title := ""
	if o.Listing != nil {
		title = o.Listing.Title
	}
	s.bus.Publish(events.NewOrderTransitionedEvent(
		o.ID, o.OrderNumber, title,
		string(action), string(from), string(target),
		actor.ID, o.Counterparty(actor.ID)))

	return o, nil
}

// inTx runs fn inside a database transaction when a database handle is
// configured; repositories receive tx=nil otherwise and fall back to
// their own handles.
func (s *Service) inTx(fn func(tx *gorm.DB) error) error {
	if s.db == nil {
		return fn(nil)
	}
	return s.db.Transaction(fn)
}

// authorize checks that the actor really is the order party their role
// claims: the buyer for buyer actions, the listing's seller for seller
// actions. Whether the action itself is permitted is decided afterwards
// by the transition table.
func (s *Service) authorize(actor Actor, o *Order) error {
	switch actor.Role {
	case user.UserTypeBuyer:
		if actor.ID != o.BuyerID {
			return ErrUnauthorized
		}
	case user.UserTypeSeller:
		if actor.ID != o.SellerID {
			return ErrUnauthorized
		}
	default:
		return ErrUnauthorized
	}
	return nil
}

// adjustAvailability keeps the listing's available quantity in sync with
// the order's lifecycle: rejection and cancellation release the reserved
// quantity, re-accepting a rejected order reserves it again.
func (s *Service) adjustAvailability(ctx context.Context, tx *gorm.DB, o *Order, from, to Status) error {
	switch {
	case to == StatusRejected && (from == StatusPending || from == StatusAccepted):
		return s.listings.ReleaseQuantity(ctx, tx, o.ListingID, o.Quantity)
	case to == StatusAccepted && from == StatusRejected:
		return s.listings.ReserveQuantity(ctx, tx, o.ListingID, o.Quantity)
	}
	return nil
}

func (s *Service) denied(action Action, reason string) {
	s.metrics.OrderTransitionsDenied.WithLabelValues(string(action), reason).Inc()
}

// Get returns an order visible to the actor, with the actions the actor
// may currently perform on it.
func (s *Service) Get(ctx context.Context, actor Actor, orderID uuid.UUID) (*OrderResponse, error) {
	o, err := s.repo.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !o.PartyOf(actor.ID) {
		return nil, ErrUnauthorized
	}
	return &OrderResponse{
		Order:            o,
		PermittedActions: s.sm.PermittedActions(actor.Role, o.Status),
	}, nil
}

// List returns the actor's orders: as buyer their own, as seller the
// orders placed against their listings.
func (s *Service) List(ctx context.Context, actor Actor, query *ListQuery) (*ListResponse, error) {
	page := pagination.New()
	if query.Page > 0 {
		page.Page = query.Page
	}
	if query.PageSize > 0 {
		page.PageSize = query.PageSize
	}

	orders, total, err := s.repo.ListForUser(ctx, actor.ID, query.Search, page)
	if err != nil {
		return nil, err
	}

	return &ListResponse{
		Orders:     orders,
		Total:      total,
		Page:       page.Page,
		TotalPages: page.TotalPages(total),
	}, nil
}

func generateOrderNumber() string {
	return fmt.Sprintf("ORD-%s-%s", time.Now().Format("20060102"), random.UpperAlphaNum(5))
}
