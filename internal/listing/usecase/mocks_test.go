package usecase

import (
	"context"
	"io"
	"time"

	natsadapter "github.com/encounterhub/listing-service/internal/adapter/messaging/nats"
	"github.com/encounterhub/listing-service/internal/listing/domain"
	"github.com/stretchr/testify/mock"
)

type mockListingRepo struct {
	mock.Mock
}

func (m *mockListingRepo) Create(ctx context.Context, listing *domain.Listing) error {
	args := m.Called(ctx, listing)
	return args.Error(0)
}

func (m *mockListingRepo) FindByID(ctx context.Context, id string) (*domain.Listing, error) {
	args := m.Called(ctx, id)
	if l, ok := args.Get(0).(*domain.Listing); ok {
		return l, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockListingRepo) FindByFilter(ctx context.Context, filter domain.Filter) ([]*domain.Listing, error) {
	args := m.Called(ctx, filter)
	if l, ok := args.Get(0).([]*domain.Listing); ok {
		return l, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockListingRepo) CountByFilter(ctx context.Context, filter domain.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockListingRepo) FindByUser(ctx context.Context, userID string, status *domain.ListingStatus) ([]*domain.Listing, error) {
	args := m.Called(ctx, userID, status)
	if l, ok := args.Get(0).([]*domain.Listing); ok {
		return l, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockListingRepo) FindByIDs(ctx context.Context, ids []string) ([]*domain.Listing, error) {
	args := m.Called(ctx, ids)
	if l, ok := args.Get(0).([]*domain.Listing); ok {
		return l, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockListingRepo) UpdateFields(ctx context.Context, id string, update domain.ListingUpdate) (*domain.Listing, error) {
	args := m.Called(ctx, id, update)
	if l, ok := args.Get(0).(*domain.Listing); ok {
		return l, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockListingRepo) UpdateStatus(ctx context.Context, id string, status domain.ListingStatus) (*domain.Listing, error) {
	args := m.Called(ctx, id, status)
	if l, ok := args.Get(0).(*domain.Listing); ok {
		return l, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockListingRepo) SetFeatured(ctx context.Context, id string, featured bool) (*domain.Listing, error) {
	args := m.Called(ctx, id, featured)
	if l, ok := args.Get(0).(*domain.Listing); ok {
		return l, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockListingRepo) AppendMedia(ctx context.Context, id string, images, videos []string) error {
	args := m.Called(ctx, id, images, videos)
	return args.Error(0)
}

func (m *mockListingRepo) IncrementViews(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *mockListingRepo) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *mockListingRepo) DeleteByUser(ctx context.Context, userID string) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

type mockFavoriteRepo struct {
	mock.Mock
}

func (m *mockFavoriteRepo) Add(ctx context.Context, favorite *domain.Favorite) error {
	args := m.Called(ctx, favorite)
	return args.Error(0)
}

func (m *mockFavoriteRepo) Remove(ctx context.Context, userID, listingID string) error {
	args := m.Called(ctx, userID, listingID)
	return args.Error(0)
}

func (m *mockFavoriteRepo) FindByUser(ctx context.Context, userID string) ([]*domain.Favorite, error) {
	args := m.Called(ctx, userID)
	if f, ok := args.Get(0).([]*domain.Favorite); ok {
		return f, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockFavoriteRepo) RemoveByUser(ctx context.Context, userID string) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

type mockMessageRepo struct {
	mock.Mock
}

func (m *mockMessageRepo) Create(ctx context.Context, message *domain.Message) error {
	args := m.Called(ctx, message)
	return args.Error(0)
}

func (m *mockMessageRepo) FindByUser(ctx context.Context, userID string) ([]*domain.Message, error) {
	args := m.Called(ctx, userID)
	if msgs, ok := args.Get(0).([]*domain.Message); ok {
		return msgs, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockMessageRepo) FindConversation(ctx context.Context, listingID, userID string) ([]*domain.Message, error) {
	args := m.Called(ctx, listingID, userID)
	if msgs, ok := args.Get(0).([]*domain.Message); ok {
		return msgs, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockMessageRepo) RemoveByUser(ctx context.Context, userID string) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

type mockUserRepo struct {
	mock.Mock
}

func (m *mockUserRepo) FindByID(ctx context.Context, id string) (*domain.User, error) {
	args := m.Called(ctx, id)
	if u, ok := args.Get(0).(*domain.User); ok {
		return u, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockUserRepo) FindAll(ctx context.Context) ([]*domain.User, error) {
	args := m.Called(ctx)
	if u, ok := args.Get(0).([]*domain.User); ok {
		return u, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockUserRepo) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockUserRepo) UpdateStatus(ctx context.Context, id string, status domain.UserStatus) (*domain.User, error) {
	args := m.Called(ctx, id, status)
	if u, ok := args.Get(0).(*domain.User); ok {
		return u, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockUserRepo) UpdateRole(ctx context.Context, id string, role domain.UserRole) (*domain.User, error) {
	args := m.Called(ctx, id, role)
	if u, ok := args.Get(0).(*domain.User); ok {
		return u, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockUserRepo) SetVIP(ctx context.Context, id string, vip bool, expiry *time.Time) (*domain.User, error) {
	args := m.Called(ctx, id, vip, expiry)
	if u, ok := args.Get(0).(*domain.User); ok {
		return u, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockUserRepo) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type mockCache struct {
	mock.Mock
}

func (m *mockCache) GetListing(ctx context.Context, id string) (*domain.Listing, error) {
	args := m.Called(ctx, id)
	if l, ok := args.Get(0).(*domain.Listing); ok {
		return l, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockCache) SetListing(ctx context.Context, listing *domain.Listing) error {
	args := m.Called(ctx, listing)
	return args.Error(0)
}

func (m *mockCache) Invalidate(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type mockPublisher struct {
	mock.Mock
}

func (m *mockPublisher) Publish(subject string, event natsadapter.ListingEvent) error {
	args := m.Called(subject, event)
	return args.Error(0)
}

type mockMailer struct {
	mock.Mock
}

func (m *mockMailer) SendListingApproved(toEmail, listingTitle string) error {
	args := m.Called(toEmail, listingTitle)
	return args.Error(0)
}

func (m *mockMailer) SendListingRejected(toEmail, listingTitle string) error {
	args := m.Called(toEmail, listingTitle)
	return args.Error(0)
}

type mockStorage struct {
	mock.Mock
}

func (m *mockStorage) Upload(ctx context.Context, filename, contentType string, size int64, r io.Reader) (string, error) {
	args := m.Called(ctx, filename, contentType, size, r)
	return args.String(0), args.Error(1)
}

func (m *mockStorage) Delete(ctx context.Context, url string) error {
	args := m.Called(ctx, url)
	return args.Error(0)
}

// passthroughNormalizer accepts any location unchanged.
type passthroughNormalizer struct{}

func (passthroughNormalizer) Normalize(loc domain.Location) (domain.Location, error) {
	return loc, nil
}
