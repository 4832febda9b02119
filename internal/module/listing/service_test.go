package listing

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/agrimart/server/internal/module/user"
	"github.com/agrimart/server/internal/shared/pagination"
)

// --- Mock implementations ---

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) Create(ctx context.Context, l *Listing) error {
	args := m.Called(ctx, l)
	return args.Error(0)
}

func (m *MockRepository) GetByID(ctx context.Context, id uuid.UUID) (*Listing, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Listing), args.Error(1)
}

func (m *MockRepository) List(ctx context.Context, search string, page *pagination.Pagination) ([]Listing, int64, error) {
	args := m.Called(ctx, search, page)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]Listing), args.Get(1).(int64), args.Error(2)
}

func (m *MockRepository) ListBySeller(ctx context.Context, sellerID uuid.UUID, page *pagination.Pagination) ([]Listing, int64, error) {
	args := m.Called(ctx, sellerID, page)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]Listing), args.Get(1).(int64), args.Error(2)
}

func (m *MockRepository) Update(ctx context.Context, l *Listing) error {
	args := m.Called(ctx, l)
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

func (m *MockRepository) DeleteAttachment(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockRepository) ReserveQuantity(ctx context.Context, tx *gorm.DB, listingID uuid.UUID, quantity float64) error {
	args := m.Called(ctx, tx, listingID, quantity)
	return args.Error(0)
}

func (m *MockRepository) ReleaseQuantity(ctx context.Context, tx *gorm.DB, listingID uuid.UUID, quantity float64) error {
	args := m.Called(ctx, tx, listingID, quantity)
	return args.Error(0)
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

// --- Test fixtures ---

var sellerID = uuid.New()

func seller() *user.User {
	return &user.User{ID: sellerID, Name: "Ama Mensah", UserType: user.UserTypeSeller}
}

func buyer() *user.User {
	return &user.User{ID: uuid.New(), Name: "Kofi Owusu", UserType: user.UserTypeBuyer}
}

func newServiceFixture(t *testing.T) (*Service, *MockRepository, *MockUserRepository) {
	t.Helper()

	repo := new(MockRepository)
	users := new(MockUserRepository)
	// Storage stays nil, matching a deployment without object storage.
	service := NewService(repo, users, nil, zap.NewNop())
	return service, repo, users
}

func createRequest() *CreateListingRequest {
	return &CreateListingRequest{
		Title:        "Fresh Tomatoes",
		Description:  "Vine ripened",
		PricePerUnit: 12.5,
		Quantity:     40,
		Unit:         "kg",
		Harvested:    true,
	}
}

// --- Create ---

func TestCreateListing(t *testing.T) {
	service, repo, users := newServiceFixture(t)

	users.On("GetByID", mock.Anything, sellerID).Return(seller(), nil)
	repo.On("Create", mock.Anything, mock.AnythingOfType("*listing.Listing")).Return(nil)

	l, err := service.Create(context.Background(), sellerID, createRequest(), nil)

	require.NoError(t, err)
	assert.Equal(t, sellerID, l.SellerID)
	assert.Equal(t, 40.0, l.Quantity)
	assert.Equal(t, 40.0, l.AvailableQuantity)
	repo.AssertExpectations(t)
}

func TestCreateListing_BuyerForbidden(t *testing.T) {
	service, repo, users := newServiceFixture(t)

	b := buyer()
	users.On("GetByID", mock.Anything, b.ID).Return(b, nil)

	_, err := service.Create(context.Background(), b.ID, createRequest(), nil)

	assert.ErrorIs(t, err, ErrSellerOnly)
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCreateListing_UnsupportedAttachmentType(t *testing.T) {
	service, repo, users := newServiceFixture(t)

	users.On("GetByID", mock.Anything, sellerID).Return(seller(), nil)

	uploads := []AttachmentUpload{{Data: []byte("%PDF-"), ContentType: "application/pdf"}}
	_, err := service.Create(context.Background(), sellerID, createRequest(), uploads)

	assert.ErrorIs(t, err, ErrInvalidAttachment)
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCreateListing_StorageUnavailable(t *testing.T) {
	service, repo, users := newServiceFixture(t)

	users.On("GetByID", mock.Anything, sellerID).Return(seller(), nil)

	uploads := []AttachmentUpload{{Data: []byte{0x89, 'P', 'N', 'G'}, ContentType: "image/png"}}
	var err error
	assert.NotPanics(t, func() {
		_, err = service.Create(context.Background(), sellerID, createRequest(), uploads)
	})

	assert.ErrorIs(t, err, ErrStorageUnavailable)
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	repo.AssertNotCalled(t, "AddAttachment", mock.Anything, mock.Anything)
}

// --- Update ---

func TestUpdateListing_NotOwner(t *testing.T) {
	service, repo, _ := newServiceFixture(t)

	listingID := uuid.New()
	repo.On("GetByID", mock.Anything, listingID).Return(&Listing{ID: listingID, SellerID: uuid.New()}, nil)

	title := "New title"
	_, err := service.Update(context.Background(), sellerID, listingID, &UpdateListingRequest{Title: &title})

	assert.ErrorIs(t, err, ErrNotOwner)
	repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestUpdateListing_QuantityDeltaAdjustsAvailability(t *testing.T) {
	service, repo, _ := newServiceFixture(t)

	listingID := uuid.New()
	repo.On("GetByID", mock.Anything, listingID).Return(&Listing{
		ID:                listingID,
		SellerID:          sellerID,
		Quantity:          40,
		AvailableQuantity: 25, // 15 reserved by open orders
	}, nil)
	repo.On("Update", mock.Anything, mock.AnythingOfType("*listing.Listing")).Return(nil)

	quantity := 50.0
	l, err := service.Update(context.Background(), sellerID, listingID, &UpdateListingRequest{Quantity: &quantity})

	require.NoError(t, err)
	assert.Equal(t, 50.0, l.Quantity)
	assert.Equal(t, 35.0, l.AvailableQuantity)
}

func TestUpdateListing_AvailabilityClampedAtZero(t *testing.T) {
	service, repo, _ := newServiceFixture(t)

	listingID := uuid.New()
	repo.On("GetByID", mock.Anything, listingID).Return(&Listing{
		ID:                listingID,
		SellerID:          sellerID,
		Quantity:          40,
		AvailableQuantity: 5,
	}, nil)
	repo.On("Update", mock.Anything, mock.AnythingOfType("*listing.Listing")).Return(nil)

	quantity := 20.0
	l, err := service.Update(context.Background(), sellerID, listingID, &UpdateListingRequest{Quantity: &quantity})

	require.NoError(t, err)
	assert.Equal(t, 0.0, l.AvailableQuantity)
}

// --- Delete ---

func TestDeleteListing_NotOwner(t *testing.T) {
	service, repo, _ := newServiceFixture(t)

	listingID := uuid.New()
	repo.On("GetByID", mock.Anything, listingID).Return(&Listing{ID: listingID, SellerID: uuid.New()}, nil)

	err := service.Delete(context.Background(), sellerID, listingID)

	assert.ErrorIs(t, err, ErrNotOwner)
	repo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestDeleteListing_SkipsAttachmentCleanupWithoutStorage(t *testing.T) {
	service, repo, _ := newServiceFixture(t)

	listingID := uuid.New()
	repo.On("GetByID", mock.Anything, listingID).Return(&Listing{
		ID:       listingID,
		SellerID: sellerID,
		Attachments: []Attachment{
			{ListingID: listingID, StorageKey: "listings/x/a.jpg"},
		},
	}, nil)
	repo.On("Delete", mock.Anything, listingID).Return(nil)

	var err error
	assert.NotPanics(t, func() {
		err = service.Delete(context.Background(), sellerID, listingID)
	})

	require.NoError(t, err)
	repo.AssertExpectations(t)
}
