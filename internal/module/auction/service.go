package auction

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/agrimart/server/internal/module/user"
	"github.com/agrimart/server/internal/shared/events"
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

// Service implements auction operations.
type Service struct {
	repo    Repository
	users   user.Repository
	storage *storage.Client
	cache   redis.UniversalClient
	bus     *events.Bus
	logger  *zap.Logger
}

// NewService creates a new auction service.
func NewService(repo Repository, users user.Repository, storage *storage.Client, cache redis.UniversalClient, bus *events.Bus, logger *zap.Logger) *Service {
	return &Service{
		repo:    repo,
		users:   users,
		storage: storage,
		cache:   cache,
		bus:     bus,
		logger:  logger.Named("auction"),
	}
}

func highestBidKey(auctionID uuid.UUID) string {
	return "auction:highest_bid:" + auctionID.String()
}

// Create creates an auction for a seller.
func (s *Service) Create(ctx context.Context, sellerID uuid.UUID, req *CreateAuctionRequest, uploads []AttachmentUpload) (*Auction, error) {
	seller, err := s.users.GetByID(ctx, sellerID)
	if err != nil {
		return nil, err
	}
	if !seller.IsSeller() {
		return nil, ErrSellerOnly
	}
	if !req.EndDate.After(req.StartDate) {
		return nil, ErrInvalidSchedule
	}
	for _, up := range uploads {
		if _, ok := allowedAttachmentTypes[up.ContentType]; !ok {
			return nil, fmt.Errorf("unsupported attachment content type %q", up.ContentType)
		}
	}
	// Rejected before the row is created so an unconfigured storage
	// backend cannot leave an auction behind without its images.
	if len(uploads) > 0 && s.storage == nil {
		return nil, ErrStorageUnavailable
	}

	a := &Auction{
		SellerID:    sellerID,
		Title:       req.Title,
		Description: req.Description,
		Quantity:    req.Quantity,
		Unit:        req.Unit,
		StartPrice:  req.StartPrice,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
	}
	if err := s.repo.Create(ctx, a); err != nil {
		return nil, fmt.Errorf("create auction: %w", err)
	}

	for _, up := range uploads {
		attachment, err := s.uploadAttachment(ctx, a.ID, up)
		if err != nil {
			return nil, err
		}
		a.Attachments = append(a.Attachments, *attachment)
	}

	s.logger.Info("auction created",
		zap.String("auction_id", a.ID.String()),
		zap.String("seller_id", sellerID.String()),
		zap.Time("end_date", a.EndDate))

	return a, nil
}

func (s *Service) uploadAttachment(ctx context.Context, auctionID uuid.UUID, up AttachmentUpload) (*Attachment, error) {
	ext, ok := allowedAttachmentTypes[up.ContentType]
	if !ok {
		return nil, fmt.Errorf("unsupported attachment content type %q", up.ContentType)
	}
	name, err := random.Hex(16)
	if err != nil {
		return nil, fmt.Errorf("generate attachment key: %w", err)
	}
	key := fmt.Sprintf("auctions/%s/%s%s", auctionID, name, ext)

	url, err := s.storage.Upload(ctx, key, bytes.NewReader(up.Data), int64(len(up.Data)), up.ContentType)
	if err != nil {
		return nil, fmt.Errorf("upload attachment: %w", err)
	}

	attachment := &Attachment{
		AuctionID:   auctionID,
		URL:         url,
		StorageKey:  key,
		ContentType: up.ContentType,
	}
	if err := s.repo.AddAttachment(ctx, attachment); err != nil {
		return nil, fmt.Errorf("save attachment: %w", err)
	}
	return attachment, nil
}

// Get returns an auction with its bids and current highest bid.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*AuctionDetail, error) {
	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	bids, err := s.repo.ListBids(ctx, id)
	if err != nil {
		return nil, err
	}

	detail := &AuctionDetail{Auction: a, Bids: bids}
	if len(bids) > 0 {
		detail.HighestBid = &bids[0]
	}
	return detail, nil
}

// List returns auctions matching the query, soonest-ending first.
func (s *Service) List(ctx context.Context, query *ListQuery) (*ListResponse, error) {
	page := pagination.New()
	if query.Page > 0 {
		page.Page = query.Page
	}
	if query.PageSize > 0 {
		page.PageSize = query.PageSize
	}

	auctions, total, err := s.repo.List(ctx, query.Search, page)
	if err != nil {
		return nil, err
	}

	return &ListResponse{
		Auctions:   auctions,
		Total:      total,
		Page:       page.Page,
		TotalPages: page.TotalPages(total),
	}, nil
}

// Update modifies an auction. Edits are only allowed before bidding opens.
func (s *Service) Update(ctx context.Context, sellerID, auctionID uuid.UUID, req *UpdateAuctionRequest) (*Auction, error) {
	a, err := s.repo.GetByID(ctx, auctionID)
	if err != nil {
		return nil, err
	}
	if a.SellerID != sellerID {
		return nil, ErrNotOwner
	}
	if a.HasStarted() {
		return nil, ErrAlreadyStarted
	}

	if req.Title != nil {
		a.Title = *req.Title
	}
	if req.Description != nil {
		a.Description = *req.Description
	}
	if req.Quantity != nil {
		a.Quantity = *req.Quantity
	}
	if req.Unit != nil {
		a.Unit = *req.Unit
	}
	if req.StartPrice != nil {
		a.StartPrice = *req.StartPrice
	}
	if req.StartDate != nil {
		a.StartDate = *req.StartDate
	}
	if req.EndDate != nil {
		a.EndDate = *req.EndDate
	}
	if !a.EndDate.After(a.StartDate) {
		return nil, ErrInvalidSchedule
	}

	if err := s.repo.Update(ctx, a); err != nil {
		return nil, fmt.Errorf("update auction: %w", err)
	}
	return a, nil
}

// Delete removes an auction before it starts.
func (s *Service) Delete(ctx context.Context, sellerID, auctionID uuid.UUID) error {
	a, err := s.repo.GetByID(ctx, auctionID)
	if err != nil {
		return err
	}
	if a.SellerID != sellerID {
		return ErrNotOwner
	}
	if a.HasStarted() {
		return ErrAlreadyStarted
	}

	if s.storage != nil {
		for _, att := range a.Attachments {
			if err := s.storage.Delete(ctx, att.StorageKey); err != nil {
				s.logger.Warn("failed to delete stored attachment",
					zap.String("key", att.StorageKey),
					zap.Error(err))
			}
		}
	}

	return s.repo.Delete(ctx, auctionID)
}

// PlaceBid places a bid on an active auction. The bid must be at least
// the start price and strictly above the current highest bid. The cached
// highest amount is a fast pre-check; the database remains authoritative.
func (s *Service) PlaceBid(ctx context.Context, bidderID uuid.UUID, auctionID uuid.UUID, amount float64) (*Bid, error) {
	a, err := s.repo.GetByID(ctx, auctionID)
	if err != nil {
		return nil, err
	}
	if a.SellerID == bidderID {
		return nil, ErrOwnAuction
	}
	if !a.IsActive() {
		return nil, ErrNotActive
	}
	if amount < a.StartPrice {
		return nil, fmt.Errorf("%w: start price is %.2f", ErrBidTooLow, a.StartPrice)
	}

	if cached, err := s.cachedHighest(ctx, auctionID); err == nil && cached >= amount {
		return nil, fmt.Errorf("%w: current highest is %.2f", ErrBidTooLow, cached)
	}

	highest, err := s.repo.HighestBid(ctx, auctionID)
	if err != nil {
		return nil, err
	}
	if highest != nil && amount <= highest.Amount {
		return nil, fmt.Errorf("%w: current highest is %.2f", ErrBidTooLow, highest.Amount)
	}

	bid := &Bid{
		AuctionID: auctionID,
		BidderID:  bidderID,
		Amount:    amount,
	}
	if err := s.repo.CreateBid(ctx, bid); err != nil {
		return nil, fmt.Errorf("create bid: %w", err)
	}

	s.cacheHighest(ctx, a, amount)
	s.logger.Info("bid placed",
		zap.String("auction_id", auctionID.String()),
		zap.String("bidder_id", bidderID.String()),
		zap.Float64("amount", amount))

	return bid, nil
}

func (s *Service) cachedHighest(ctx context.Context, auctionID uuid.UUID) (float64, error) {
	if s.cache == nil {
		return 0, redis.Nil
	}
	val, err := s.cache.Get(ctx, highestBidKey(auctionID)).Result()
	if err != nil {
		return 0, err
	}
	return strconv.ParseFloat(val, 64)
}

func (s *Service) cacheHighest(ctx context.Context, a *Auction, amount float64) {
	if s.cache == nil {
		return
	}
	ttl := time.Until(a.EndDate) + time.Hour
	err := s.cache.Set(ctx, highestBidKey(a.ID), strconv.FormatFloat(amount, 'f', -1, 64), ttl).Err()
	if err != nil {
		s.logger.Warn("failed to cache highest bid", zap.Error(err))
	}
}

// CloseEnded closes every auction whose bidding window has passed,
// recording the winner and publishing a closed event when a winning bid
// exists.
func (s *Service) CloseEnded(ctx context.Context) (int, error) {
	ended, err := s.repo.ListEnded(ctx)
	if err != nil {
		return 0, fmt.Errorf("list ended auctions: %w", err)
	}

	closed := 0
	for i := range ended {
		a := &ended[i]
		if err := s.closeOne(ctx, a); err != nil {
			s.logger.Error("failed to close auction",
				zap.String("auction_id", a.ID.String()),
				zap.Error(err))
			continue
		}
		closed++
	}
	return closed, nil
}

func (s *Service) closeOne(ctx context.Context, a *Auction) error {
	highest, err := s.repo.HighestBid(ctx, a.ID)
	if err != nil {
		return err
	}

	now := time.Now()
	a.ClosedAt = &now
	if highest != nil {
		a.WinnerID = &highest.BidderID
		a.WinningBid = &highest.Amount
	}

	if err := s.repo.Close(ctx, a); err != nil {
		return err
	}

	if s.cache != nil {
		if err := s.cache.Del(ctx, highestBidKey(a.ID)).Err(); err != nil && !errors.Is(err, redis.Nil) {
			s.logger.Warn("failed to drop highest bid cache", zap.Error(err))
		}
	}

	s.logger.Info("auction closed",
		zap.String("auction_id", a.ID.String()),
		zap.Bool("has_winner", highest != nil))

	if highest != nil {
		s.bus.Publish(events.NewAuctionClosedEvent(a.ID, a.Title, a.SellerID, highest.BidderID, highest.Amount))
	}
	return nil
}

// RunCloser periodically closes ended auctions until the context is
// cancelled.
func (s *Service) RunCloser(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := s.CloseEnded(ctx); err != nil {
				s.logger.Error("auction close sweep failed", zap.Error(err))
			}
		}
	}
}
