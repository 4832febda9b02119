package order

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/agrimart/server/internal/shared/pagination"
)

// Repository defines order persistence operations.
type Repository interface {
	Create(ctx context.Context, tx *gorm.DB, o *Order) error
	GetByID(ctx context.Context, id uuid.UUID) (*Order, error)
	// ListForUser returns orders the user participates in: as buyer for
	// their own orders, as seller for orders against their listings.
	ListForUser(ctx context.Context, userID uuid.UUID, search string, page *pagination.Pagination) ([]Order, int64, error)
	// UpdateStatus transitions an order from one status to another. The
	// update is guarded by the expected current status; if a concurrent
	// transition won, ErrStatusConflict is returned and nothing changes.
	UpdateStatus(ctx context.Context, tx *gorm.DB, id uuid.UUID, from, to Status, cancelledAt *time.Time) error
}

type repository struct {
	db *gorm.DB
}

// NewRepository creates a GORM-backed order repository.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, tx *gorm.DB, o *Order) error {
	db := tx
	if db == nil {
		db = r.db
	}
	return db.WithContext(ctx).Create(o).Error
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*Order, error) {
	var o Order
	err := r.db.WithContext(ctx).
		Preload("Listing").
		Preload("Listing.Attachments").
		Preload("Buyer").
		First(&o, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	return &o, nil
}

func (r *repository) ListForUser(ctx context.Context, userID uuid.UUID, search string, page *pagination.Pagination) ([]Order, int64, error) {
	query := r.db.WithContext(ctx).
		Model(&Order{}).
		Where("buyer_id = ? OR seller_id = ?", userID, userID)

	if search != "" {
		pattern := "%" + search + "%"
		query = query.
			Joins("JOIN listings ON listings.id = orders.listing_id").
			Where("orders.order_number ILIKE ? OR listings.title ILIKE ?", pattern, pattern)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var orders []Order
	err := query.
		Preload("Listing").
		Preload("Buyer").
		Order("orders.created_at DESC").
		Offset(page.Offset()).
		Limit(page.Limit()).
		Find(&orders).Error
	if err != nil {
		return nil, 0, err
	}
	return orders, total, nil
}

func (r *repository) UpdateStatus(ctx context.Context, tx *gorm.DB, id uuid.UUID, from, to Status, cancelledAt *time.Time) error {
	db := tx
	if db == nil {
		db = r.db
	}

	updates := map[string]any{"status": to}
	if cancelledAt != nil {
		updates["cancelled_at"] = cancelledAt
	}

	result := db.WithContext(ctx).
		Model(&Order{}).
		Where("id = ? AND status = ?", id, from).
		Updates(updates)
	if result.Error != nil {
		return fmt.Errorf("update order status: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrStatusConflict
	}
	return nil
}
