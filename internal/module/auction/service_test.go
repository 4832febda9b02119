package auction

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/agrimart/server/internal/module/user"
	"github.com/agrimart/server/internal/shared/events"
	"github.com/agrimart/server/internal/shared/pagination"
)

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) Create(ctx context.Context, a *Auction) error {
	args := m.Called(ctx, a)
	return args.Error(0)
}

func (m *MockRepository) GetByID(ctx context.Context, id uuid.UUID) (*Auction, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Auction), args.Error(1)
}

func (m *MockRepository) List(ctx context.Context, search string, page *pagination.Pagination) ([]Auction, int64, error) {
	args := m.Called(ctx, search, page)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]Auction), args.Get(1).(int64), args.Error(2)
}

func (m *MockRepository) Update(ctx context.Context, a *Auction) error {
	args := m.Called(ctx, a)
	return args.Error(0)
}

func (m *MockRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockRepository) AddAttachment(ctx context.Context, a *Attachment) error {
	args := m.Called(ctx, a)
	return args.Error(0)
}

func (m *MockRepository) CreateBid(ctx context.Context, b *Bid) error {
	args := m.Called(ctx, b)
	return args.Error(0)
}

func (m *MockRepository) HighestBid(ctx context.Context, auctionID uuid.UUID) (*Bid, error) {
	args := m.Called(ctx, auctionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Bid), args.Error(1)
}

func (m *MockRepository) ListBids(ctx context.Context, auctionID uuid.UUID) ([]Bid, error) {
	args := m.Called(ctx, auctionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]Bid), args.Error(1)
}

func (m *MockRepository) ListEnded(ctx context.Context) ([]Auction, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]Auction), args.Error(1)
}

func (m *MockRepository) Close(ctx context.Context, a *Auction) error {
	args := m.Called(ctx, a)
	return args.Error(0)
}

type captureHandler struct {
	events []events.Event
}

func (h *captureHandler) Handles() []string {
	return []string{events.AuctionClosedType}
}

func (h *captureHandler) Handle(e events.Event) error {
	h.events = append(h.events, e)
	return nil
}

func newTestService(repo *MockRepository) (*Service, *captureHandler) {
	captured := &captureHandler{}
	bus := events.NewBus(zap.NewNop())
	bus.Subscribe(captured)
	return NewService(repo, nil, nil, nil, bus, zap.NewNop()), captured
}

func activeAuction(sellerID uuid.UUID) *Auction {
	return &Auction{
		ID:         uuid.New(),
		SellerID:   sellerID,
		Title:      "Harvest Lot 7",
		StartPrice: 100,
		StartDate:  time.Now().Add(-time.Hour),
		EndDate:    time.Now().Add(time.Hour),
	}
}

func TestAuction_Windows(t *testing.T) {
	now := time.Now()

	upcoming := &Auction{StartDate: now.Add(time.Hour), EndDate: now.Add(2 * time.Hour)}
	assert.False(t, upcoming.HasStarted())
	assert.False(t, upcoming.IsActive())

	active := &Auction{StartDate: now.Add(-time.Hour), EndDate: now.Add(time.Hour)}
	assert.True(t, active.HasStarted())
	assert.False(t, active.HasEnded())
	assert.True(t, active.IsActive())

	ended := &Auction{StartDate: now.Add(-2 * time.Hour), EndDate: now.Add(-time.Hour)}
	assert.True(t, ended.HasEnded())
	assert.False(t, ended.IsActive())

	closed := activeAuction(uuid.New())
	closed.ClosedAt = &now
	assert.False(t, closed.IsActive())
}

func TestService_PlaceBid(t *testing.T) {
	repo := new(MockRepository)
	service, _ := newTestService(repo)

	sellerID := uuid.New()
	bidderID := uuid.New()
	a := activeAuction(sellerID)

	repo.On("GetByID", mock.Anything, a.ID).Return(a, nil)
	repo.On("HighestBid", mock.Anything, a.ID).Return(&Bid{Amount: 150}, nil)
	repo.On("CreateBid", mock.Anything, mock.AnythingOfType("*auction.Bid")).Return(nil)

	bid, err := service.PlaceBid(context.Background(), bidderID, a.ID, 175)
	require.NoError(t, err)
	assert.Equal(t, 175.0, bid.Amount)
	assert.Equal(t, bidderID, bid.BidderID)
}

func TestService_PlaceBid_Rules(t *testing.T) {
	sellerID := uuid.New()
	bidderID := uuid.New()

	t.Run("own auction", func(t *testing.T) {
		repo := new(MockRepository)
		service, _ := newTestService(repo)
		a := activeAuction(sellerID)
		repo.On("GetByID", mock.Anything, a.ID).Return(a, nil)

		_, err := service.PlaceBid(context.Background(), sellerID, a.ID, 200)
		assert.ErrorIs(t, err, ErrOwnAuction)
	})

	t.Run("not started", func(t *testing.T) {
		repo := new(MockRepository)
		service, _ := newTestService(repo)
		a := activeAuction(sellerID)
		a.StartDate = time.Now().Add(time.Hour)
		repo.On("GetByID", mock.Anything, a.ID).Return(a, nil)

		_, err := service.PlaceBid(context.Background(), bidderID, a.ID, 200)
		assert.ErrorIs(t, err, ErrNotActive)
	})

	t.Run("below start price", func(t *testing.T) {
		repo := new(MockRepository)
		service, _ := newTestService(repo)
		a := activeAuction(sellerID)
		repo.On("GetByID", mock.Anything, a.ID).Return(a, nil)

		_, err := service.PlaceBid(context.Background(), bidderID, a.ID, 50)
		assert.ErrorIs(t, err, ErrBidTooLow)
	})

	t.Run("not above highest", func(t *testing.T) {
		repo := new(MockRepository)
		service, _ := newTestService(repo)
		a := activeAuction(sellerID)
		repo.On("GetByID", mock.Anything, a.ID).Return(a, nil)
		repo.On("HighestBid", mock.Anything, a.ID).Return(&Bid{Amount: 150}, nil)

		_, err := service.PlaceBid(context.Background(), bidderID, a.ID, 150)
		assert.ErrorIs(t, err, ErrBidTooLow)
		repo.AssertNotCalled(t, "CreateBid")
	})
}

func TestService_CloseEnded(t *testing.T) {
	repo := new(MockRepository)
	service, captured := newTestService(repo)

	sellerID := uuid.New()
	winnerID := uuid.New()

	withBids := activeAuction(sellerID)
	withBids.EndDate = time.Now().Add(-time.Minute)
	noBids := activeAuction(sellerID)
	noBids.EndDate = time.Now().Add(-time.Minute)

	repo.On("ListEnded", mock.Anything).Return([]Auction{*withBids, *noBids}, nil)
	repo.On("HighestBid", mock.Anything, withBids.ID).Return(&Bid{AuctionID: withBids.ID, BidderID: winnerID, Amount: 300}, nil)
	repo.On("HighestBid", mock.Anything, noBids.ID).Return(nil, nil)
	repo.On("Close", mock.Anything, mock.AnythingOfType("*auction.Auction")).Return(nil)

	closed, err := service.CloseEnded(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, closed)

	// Only the auction with a winning bid publishes an event.
	require.Len(t, captured.events, 1)
	evt := captured.events[0].(*events.AuctionClosedEvent)
	assert.Equal(t, winnerID, evt.WinnerID)
	assert.Equal(t, 300.0, evt.WinningAmount)
}

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, u *user.User) error {
	args := m.Called(ctx, u)
	return args.Error(0)
}

func (m *MockUserRepository) GetByID(ctx context.Context, id uuid.UUID) (*user.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*user.User), args.Error(1)
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*user.User), args.Error(1)
}

func (m *MockUserRepository) Update(ctx context.Context, u *user.User) error {
	args := m.Called(ctx, u)
	return args.Error(0)
}

func (m *MockUserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	args := m.Called(ctx, email)
	return args.Bool(0), args.Error(1)
}

func TestCreateAuction_StorageUnavailable(t *testing.T) {
	repo := new(MockRepository)
	users := new(MockUserRepository)
	bus := events.NewBus(zap.NewNop())
	service := NewService(repo, users, nil, nil, bus, zap.NewNop())

	sellerID := uuid.New()
	users.On("GetByID", mock.Anything, sellerID).Return(&user.User{ID: sellerID, UserType: user.UserTypeSeller}, nil)

	req := &CreateAuctionRequest{
		Title:      "Harvest Lot 8",
		Quantity:   100,
		Unit:       "kg",
		StartPrice: 50,
		StartDate:  time.Now().Add(time.Hour),
		EndDate:    time.Now().Add(48 * time.Hour),
	}
	uploads := []AttachmentUpload{{Data: []byte{0x89, 'P', 'N', 'G'}, ContentType: "image/png"}}

	var err error
	assert.NotPanics(t, func() {
		_, err = service.Create(context.Background(), sellerID, req, uploads)
	})

	assert.ErrorIs(t, err, ErrStorageUnavailable)
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}
