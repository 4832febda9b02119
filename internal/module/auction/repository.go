package auction

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/agrimart/server/internal/shared/pagination"
)

// Repository defines auction persistence operations.
type Repository interface {
	Create(ctx context.Context, a *Auction) error
	GetByID(ctx context.Context, id uuid.UUID) (*Auction, error)
	List(ctx context.Context, search string, page *pagination.Pagination) ([]Auction, int64, error)
	Update(ctx context.Context, a *Auction) error
	Delete(ctx context.Context, id uuid.UUID) error
	AddAttachment(ctx context.Context, a *Attachment) error

	CreateBid(ctx context.Context, b *Bid) error
	HighestBid(ctx context.Context, auctionID uuid.UUID) (*Bid, error)
	ListBids(ctx context.Context, auctionID uuid.UUID) ([]Bid, error)

	// ListEnded returns open auctions whose bidding window has passed.
	ListEnded(ctx context.Context) ([]Auction, error)
	// Close records the auction outcome.
	Close(ctx context.Context, a *Auction) error
}

type repository struct {
	db *gorm.DB
}

// NewRepository creates a GORM-backed auction repository.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, a *Auction) error {
	return r.db.WithContext(ctx).Create(a).Error
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*Auction, error) {
	var a Auction
	err := r.db.WithContext(ctx).
		Preload("Attachments").
		Preload("Seller").
		First(&a, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAuctionNotFound
		}
		return nil, err
	}
	return &a, nil
}

func (r *repository) List(ctx context.Context, search string, page *pagination.Pagination) ([]Auction, int64, error) {
	query := r.db.WithContext(ctx).Model(&Auction{})
	if search != "" {
		pattern := "%" + search + "%"
		query = query.Where("title ILIKE ? OR description ILIKE ?", pattern, pattern)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var auctions []Auction
	err := query.
		Preload("Attachments").
		Preload("Seller").
		Order("end_date ASC").
		Offset(page.Offset()).
		Limit(page.Limit()).
		Find(&auctions).Error
	if err != nil {
		return nil, 0, err
	}
	return auctions, total, nil
}

func (r *repository) Update(ctx context.Context, a *Auction) error {
	return r.db.WithContext(ctx).Save(a).Error
}

func (r *repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&Auction{}, "id = ?", id).Error
}

func (r *repository) AddAttachment(ctx context.Context, a *Attachment) error {
	return r.db.WithContext(ctx).Create(a).Error
}

func (r *repository) CreateBid(ctx context.Context, b *Bid) error {
	return r.db.WithContext(ctx).Create(b).Error
}

func (r *repository) HighestBid(ctx context.Context, auctionID uuid.UUID) (*Bid, error) {
	var b Bid
	err := r.db.WithContext(ctx).
		Where("auction_id = ?", auctionID).
		Order("amount DESC").
		First(&b).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &b, nil
}

func (r *repository) ListBids(ctx context.Context, auctionID uuid.UUID) ([]Bid, error) {
	var bids []Bid
	err := r.db.WithContext(ctx).
		Preload("Bidder").
		Where("auction_id = ?", auctionID).
		Order("amount DESC").
		Find(&bids).Error
	return bids, err
}

func (r *repository) ListEnded(ctx context.Context) ([]Auction, error) {
	var auctions []Auction
	err := r.db.WithContext(ctx).
		Where("closed_at IS NULL AND end_date < NOW()").
		Find(&auctions).Error
	return auctions, err
}

func (r *repository) Close(ctx context.Context, a *Auction) error {
	return r.db.WithContext(ctx).
		Model(a).
		Where("closed_at IS NULL").
		Updates(map[string]any{
			"closed_at":   a.ClosedAt,
			"winner_id":   a.WinnerID,
			"winning_bid": a.WinningBid,
		}).Error
}
