package usecase

import (
	"context"
	"testing"

	"github.com/encounterhub/listing-service/internal/listing/domain"
	"github.com/encounterhub/listing-service/internal/platform/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestFavoriteAdd_IsIdempotent(t *testing.T) {
	favorites := new(mockFavoriteRepo)
	listings := new(mockListingRepo)
	uc := NewFavoriteUsecase(favorites, listings, logger.NewLogger())
	ctx := context.Background()

	listings.On("FindByID", mock.Anything, "l1").Return(approvedListing("l1", "owner"), nil)
	favorites.On("Add", mock.Anything, mock.Anything).Return(nil).Once()
	favorites.On("Add", mock.Anything, mock.Anything).Return(domain.ErrDuplicateFavorite).Once()

	require.NoError(t, uc.Add(ctx, member("u1"), "l1"))
	require.NoError(t, uc.Add(ctx, member("u1"), "l1"))
	favorites.AssertExpectations(t)
}

func TestFavoriteAdd_MissingListing(t *testing.T) {
	favorites := new(mockFavoriteRepo)
	listings := new(mockListingRepo)
	uc := NewFavoriteUsecase(favorites, listings, logger.NewLogger())

	listings.On("FindByID", mock.Anything, "ghost").Return(nil, domain.ErrNotFound)

	err := uc.Add(context.Background(), member("u1"), "ghost")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	favorites.AssertNotCalled(t, "Add", mock.Anything, mock.Anything)
}

func TestFavoriteAdd_HiddenListingLooksMissing(t *testing.T) {
	favorites := new(mockFavoriteRepo)
	listings := new(mockListingRepo)
	uc := NewFavoriteUsecase(favorites, listings, logger.NewLogger())

	pending := approvedListing("l1", "owner")
	pending.Status = domain.StatusPending
	listings.On("FindByID", mock.Anything, "l1").Return(pending, nil)

	err := uc.Add(context.Background(), member("stranger"), "l1")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	favorites.AssertNotCalled(t, "Add", mock.Anything, mock.Anything)
}

func TestFavoriteAdd_OwnerMayBookmarkOwnPending(t *testing.T) {
	favorites := new(mockFavoriteRepo)
	listings := new(mockListingRepo)
	uc := NewFavoriteUsecase(favorites, listings, logger.NewLogger())

	pending := approvedListing("l1", "owner")
	pending.Status = domain.StatusPending
	listings.On("FindByID", mock.Anything, "l1").Return(pending, nil)
	favorites.On("Add", mock.Anything, mock.Anything).Return(nil)

	require.NoError(t, uc.Add(context.Background(), member("owner"), "l1"))
	favorites.AssertExpectations(t)
}

func TestFavoriteRemove_AbsentBookmarkSucceeds(t *testing.T) {
	favorites := new(mockFavoriteRepo)
	uc := NewFavoriteUsecase(favorites, new(mockListingRepo), logger.NewLogger())

	favorites.On("Remove", mock.Anything, "u1", "l1").Return(domain.ErrNotFound)

	require.NoError(t, uc.Remove(context.Background(), member("u1"), "l1"))
}

func TestFavoriteList_ReturnsBookmarkedListings(t *testing.T) {
	favorites := new(mockFavoriteRepo)
	listings := new(mockListingRepo)
	uc := NewFavoriteUsecase(favorites, listings, logger.NewLogger())

	favorites.On("FindByUser", mock.Anything, "u1").Return([]*domain.Favorite{
		{ID: "f1", UserID: "u1", ListingID: "l1"},
		{ID: "f2", UserID: "u1", ListingID: "l2"},
	}, nil)
	// l2 was deleted since it was bookmarked
	listings.On("FindByIDs", mock.Anything, []string{"l1", "l2"}).Return(
		[]*domain.Listing{approvedListing("l1", "owner")}, nil)

	got, err := uc.List(context.Background(), member("u1"))
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "l1", got[0].ID)
}

func TestFavoriteList_DropsListingsHiddenSinceBookmarking(t *testing.T) {
	favorites := new(mockFavoriteRepo)
	listings := new(mockListingRepo)
	uc := NewFavoriteUsecase(favorites, listings, logger.NewLogger())

	rejected := approvedListing("l2", "owner")
	rejected.Status = domain.StatusRejected
	favorites.On("FindByUser", mock.Anything, "u1").Return([]*domain.Favorite{
		{ID: "f1", UserID: "u1", ListingID: "l1"},
		{ID: "f2", UserID: "u1", ListingID: "l2"},
	}, nil)
	listings.On("FindByIDs", mock.Anything, []string{"l1", "l2"}).Return(
		[]*domain.Listing{approvedListing("l1", "owner"), rejected}, nil)

	got, err := uc.List(context.Background(), member("u1"))
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "l1", got[0].ID)
}

func TestFavoriteList_OwnerKeepsOwnHiddenBookmarks(t *testing.T) {
	favorites := new(mockFavoriteRepo)
	listings := new(mockListingRepo)
	uc := NewFavoriteUsecase(favorites, listings, logger.NewLogger())

	pending := approvedListing("l1", "u1")
	pending.Status = domain.StatusPending
	favorites.On("FindByUser", mock.Anything, "u1").Return([]*domain.Favorite{
		{ID: "f1", UserID: "u1", ListingID: "l1"},
	}, nil)
	listings.On("FindByIDs", mock.Anything, []string{"l1"}).Return(
		[]*domain.Listing{pending}, nil)

	got, err := uc.List(context.Background(), member("u1"))
	require.NoError(t, err)
	require.Len(t, got, 1)
}

func TestFavorite_RequiresAuthentication(t *testing.T) {
	uc := NewFavoriteUsecase(new(mockFavoriteRepo), new(mockListingRepo), logger.NewLogger())
	ctx := context.Background()

	assert.ErrorIs(t, uc.Add(ctx, nil, "l1"), domain.ErrUnauthenticated)
	assert.ErrorIs(t, uc.Remove(ctx, nil, "l1"), domain.ErrUnauthenticated)
	_, err := uc.List(ctx, nil)
	assert.ErrorIs(t, err, domain.ErrUnauthenticated)
}
