package listing

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/agrimart/server/internal/shared/pagination"
)

// Repository defines listing persistence operations.
type Repository interface {
	Create(ctx context.Context, l *Listing) error
	GetByID(ctx context.Context, id uuid.UUID) (*Listing, error)
	List(ctx context.Context, search string, page *pagination.Pagination) ([]Listing, int64, error)
	ListBySeller(ctx context.Context, sellerID uuid.UUID, page *pagination.Pagination) ([]Listing, int64, error)
	Update(ctx context.Context, l *Listing) error
	Delete(ctx context.Context, id uuid.UUID) error
	AddAttachment(ctx context.Context, a *Attachment) error
	DeleteAttachment(ctx context.Context, id uuid.UUID) error

	// ReserveQuantity atomically decrements the available quantity.
	// It fails with ErrInsufficientQuantity if not enough remains.
	ReserveQuantity(ctx context.Context, tx *gorm.DB, listingID uuid.UUID, quantity float64) error
	// ReleaseQuantity returns previously reserved quantity to the listing.
	ReleaseQuantity(ctx context.Context, tx *gorm.DB, listingID uuid.UUID, quantity float64) error
}

type repository struct {
	db *gorm.DB
}

// NewRepository creates a GORM-backed listing repository.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, l *Listing) error {
	return r.db.WithContext(ctx).Create(l).Error
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*Listing, error) {
	var l Listing
	err := r.db.WithContext(ctx).
		Preload("Attachments").
		Preload("Seller").
		First(&l, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrListingNotFound
		}
		return nil, err
	}
	return &l, nil
}

func (r *repository) List(ctx context.Context, search string, page *pagination.Pagination) ([]Listing, int64, error) {
	query := r.db.WithContext(ctx).Model(&Listing{})
	if search != "" {
		pattern := "%" + search + "%"
		query = query.Where("title ILIKE ? OR description ILIKE ?", pattern, pattern)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var listings []Listing
	err := query.
		Preload("Attachments").
		Preload("Seller").
		Order("created_at DESC").
		Offset(page.Offset()).
		Limit(page.Limit()).
		Find(&listings).Error
	if err != nil {
		return nil, 0, err
	}
	return listings, total, nil
}

func (r *repository) ListBySeller(ctx context.Context, sellerID uuid.UUID, page *pagination.Pagination) ([]Listing, int64, error) {
	query := r.db.WithContext(ctx).Model(&Listing{}).Where("seller_id = ?", sellerID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var listings []Listing
	err := query.
		Preload("Attachments").
		Order("created_at DESC").
		Offset(page.Offset()).
		Limit(page.Limit()).
		Find(&listings).Error
	if err != nil {
		return nil, 0, err
	}
	return listings, total, nil
}

func (r *repository) Update(ctx context.Context, l *Listing) error {
	return r.db.WithContext(ctx).Save(l).Error
}

func (r *repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&Listing{}, "id = ?", id).Error
}

func (r *repository) AddAttachment(ctx context.Context, a *Attachment) error {
	return r.db.WithContext(ctx).Create(a).Error
}

func (r *repository) DeleteAttachment(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&Attachment{}, "id = ?", id).Error
}

func (r *repository) ReserveQuantity(ctx context.Context, tx *gorm.DB, listingID uuid.UUID, quantity float64) error {
	db := tx
	if db == nil {
		db = r.db
	}
	result := db.WithContext(ctx).
		Model(&Listing{}).
		Where("id = ? AND available_quantity >= ?", listingID, quantity).
		Update("available_quantity", gorm.Expr("available_quantity - ?", quantity))
	if result.Error != nil {
		return fmt.Errorf("reserve quantity: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrInsufficientQuantity
	}
	return nil
}

func (r *repository) ReleaseQuantity(ctx context.Context, tx *gorm.DB, listingID uuid.UUID, quantity float64) error {
	db := tx
	if db == nil {
		db = r.db
	}
	return db.WithContext(ctx).
		Model(&Listing{}).
		Where("id = ?", listingID).
		Update("available_quantity", gorm.Expr("available_quantity + ?", quantity)).Error
}
