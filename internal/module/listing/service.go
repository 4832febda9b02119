package listing

import (
	"bytes"
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/agrimart/server/internal/module/user"
	"github.com/agrimart/server/internal/shared/pagination"
	"github.com/agrimart/server/internal/shared/random"
	"github.com/agrimart/server/internal/shared/storage"
)

var allowedAttachmentTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
}

// AttachmentUpload carries one uploaded attachment's contents.
type AttachmentUpload struct {
	Data        []byte
	ContentType string
}

// Service implements listing operations.
type Service struct {
	repo    Repository
	users   user.Repository
	storage *storage.Client
	logger  *zap.Logger
}

// NewService creates a new listing service.
func NewService(repo Repository, users user.Repository, storage *storage.Client, logger *zap.Logger) *Service {
	return &Service{
		repo:    repo,
		users:   users,
		storage: storage,
		logger:  logger.Named("listing"),
	}
}

// Create creates a listing for a seller, uploading any attachments.
func (s *Service) Create(ctx context.Context, sellerID uuid.UUID, req *CreateListingRequest, uploads []AttachmentUpload) (*Listing, error) {
	seller, err := s.users.GetByID(ctx, sellerID)
	if err != nil {
		return nil, err
	}
	if !seller.IsSeller() {
		return nil, ErrSellerOnly
	}

	for _, up := range uploads {
		if _, ok := allowedAttachmentTypes[up.ContentType]; !ok {
			return nil, fmt.Errorf("%w: unsupported content type %q", ErrInvalidAttachment, up.ContentType)
		}
	}
	// Rejected before the row is created so an unconfigured storage
	// backend cannot leave a listing behind without its images.
	if len(uploads) > 0 && s.storage == nil {
		return nil, ErrStorageUnavailable
	}

	l := &Listing{
		SellerID:          sellerID,
		Title:             req.Title,
		Description:       req.Description,
		PricePerUnit:      req.PricePerUnit,
		Quantity:          req.Quantity,
		AvailableQuantity: req.Quantity,
		Unit:              req.Unit,
		Harvested:         req.Harvested,
		WillHarvestAt:     req.WillHarvestAt,
	}
	if err := s.repo.Create(ctx, l); err != nil {
		return nil, fmt.Errorf("create listing: %w", err)
	}

	for _, up := range uploads {
		attachment, err := s.uploadAttachment(ctx, l.ID, up)
		if err != nil {
			s.logger.Error("attachment upload failed",
				zap.String("listing_id", l.ID.String()),
				zap.Error(err))
			return nil, err
		}
		l.Attachments = append(l.Attachments, *attachment)
	}

	s.logger.Info("listing created",
		zap.String("listing_id", l.ID.String()),
		zap.String("seller_id", sellerID.String()),
		zap.Int("attachments", len(l.Attachments)))

	return l, nil
}

func (s *Service) uploadAttachment(ctx context.Context, listingID uuid.UUID, up AttachmentUpload) (*Attachment, error) {
	ext := allowedAttachmentTypes[up.ContentType]
	name, err := random.Hex(16)
	if err != nil {
		return nil, fmt.Errorf("generate attachment key: %w", err)
	}
	key := fmt.Sprintf("listings/%s/%s%s", listingID, name, ext)

	url, err := s.storage.Upload(ctx, key, bytes.NewReader(up.Data), int64(len(up.Data)), up.ContentType)
	if err != nil {
		return nil, fmt.Errorf("upload attachment: %w", err)
	}

	attachment := &Attachment{
		ListingID:   listingID,
		URL:         url,
		StorageKey:  key,
		ContentType: up.ContentType,
	}
	if err := s.repo.AddAttachment(ctx, attachment); err != nil {
		return nil, fmt.Errorf("save attachment: %w", err)
	}
	return attachment, nil
}

// Get returns a listing by ID.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Listing, error) {
	return s.repo.GetByID(ctx, id)
}

// Search returns listings matching the query, newest first.
func (s *Service) Search(ctx context.Context, query *ListQuery) (*ListResponse, error) {
	page := pagination.New()
	if query.Page > 0 {
		page.Page = query.Page
	}
	if query.PageSize > 0 {
		page.PageSize = query.PageSize
	}

	listings, total, err := s.repo.List(ctx, query.Search, page)
	if err != nil {
		return nil, err
	}

	return &ListResponse{
		Listings:   listings,
		Total:      total,
		Page:       page.Page,
		TotalPages: page.TotalPages(total),
	}, nil
}

// ListMine returns the seller's own listings.
func (s *Service) ListMine(ctx context.Context, sellerID uuid.UUID, query *ListQuery) (*ListResponse, error) {
	page := pagination.New()
	if query.Page > 0 {
		page.Page = query.Page
	}
	if query.PageSize > 0 {
		page.PageSize = query.PageSize
	}

	listings, total, err := s.repo.ListBySeller(ctx, sellerID, page)
	if err != nil {
		return nil, err
	}

	return &ListResponse{
		Listings:   listings,
		Total:      total,
		Page:       page.Page,
		TotalPages: page.TotalPages(total),
	}, nil
}

// Update modifies a listing owned by the seller.
func (s *Service) Update(ctx context.Context, sellerID, listingID uuid.UUID, req *UpdateListingRequest) (*Listing, error) {
	l, err := s.repo.GetByID(ctx, listingID)
	if err != nil {
		return nil, err
	}
	if l.SellerID != sellerID {
		return nil, ErrNotOwner
	}

	if req.Title != nil {
		l.Title = *req.Title
	}
	if req.Description != nil {
		l.Description = *req.Description
	}
	if req.PricePerUnit != nil {
		l.PricePerUnit = *req.PricePerUnit
	}
	if req.Quantity != nil {
		// Adjust available quantity by the same delta so outstanding
		// reservations are preserved.
		delta := *req.Quantity - l.Quantity
		l.Quantity = *req.Quantity
		l.AvailableQuantity += delta
		if l.AvailableQuantity < 0 {
			l.AvailableQuantity = 0
		}
	}
	if req.Unit != nil {
		l.Unit = *req.Unit
	}
	if req.Harvested != nil {
		l.Harvested = *req.Harvested
	}
	if req.WillHarvestAt != nil {
		l.WillHarvestAt = req.WillHarvestAt
	}

	if err := s.repo.Update(ctx, l); err != nil {
		return nil, fmt.Errorf("update listing: %w", err)
	}
	return l, nil
}

// Delete removes a listing owned by the seller along with its stored
// attachments.
func (s *Service) Delete(ctx context.Context, sellerID, listingID uuid.UUID) error {
	l, err := s.repo.GetByID(ctx, listingID)
	if err != nil {
		return err
	}
	if l.SellerID != sellerID {
		return ErrNotOwner
	}

	if s.storage != nil {
		for _, a := range l.Attachments {
			if err := s.storage.Delete(ctx, a.StorageKey); err != nil {
				s.logger.Warn("failed to delete stored attachment",
					zap.String("key", a.StorageKey),
					zap.Error(err))
			}
		}
	}

	return s.repo.Delete(ctx, listingID)
}
