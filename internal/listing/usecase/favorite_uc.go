package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/encounterhub/listing-service/internal/listing/domain"
	"github.com/encounterhub/listing-service/internal/platform/logger"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// FavoriteUsecase implements the per-user bookmark ledger.
type FavoriteUsecase struct {
	favorites domain.FavoriteRepository
	listings  domain.ListingRepository
	logger    *logger.Logger
}

func NewFavoriteUsecase(favorites domain.FavoriteRepository, listings domain.ListingRepository, log *logger.Logger) *FavoriteUsecase {
	return &FavoriteUsecase{
		favorites: favorites,
		listings:  listings,
		logger:    log.Named("FavoriteUsecase"),
	}
}

// Add bookmarks a listing. Re-adding an already bookmarked listing succeeds
// without creating a second row.
func (uc *FavoriteUsecase) Add(ctx context.Context, actor *domain.User, listingID string) error {
	if actor == nil {
		return domain.ErrUnauthenticated
	}
	if listingID == "" {
		return fmt.Errorf("%w: listing id is required", domain.ErrInvalidInput)
	}
	listing, err := uc.listings.FindByID(ctx, listingID)
	if err != nil {
		return err
	}
	if !listing.VisibleTo(actor) {
		return domain.ErrNotFound
	}

	favorite := &domain.Favorite{
		ID:        uuid.NewString(),
		UserID:    actor.ID,
		ListingID: listingID,
		CreatedAt: time.Now().UTC(),
	}
	err = uc.favorites.Add(ctx, favorite)
	if errors.Is(err, domain.ErrDuplicateFavorite) {
		return nil
	}
	if err != nil {
		uc.logger.Error("failed to add favorite",
			zap.String("user_id", actor.ID),
			zap.String("listing_id", listingID),
			zap.Error(err))
	}
	return err
}

// Remove drops the bookmark. Removing an absent bookmark is not an error.
func (uc *FavoriteUsecase) Remove(ctx context.Context, actor *domain.User, listingID string) error {
	if actor == nil {
		return domain.ErrUnauthenticated
	}
	err := uc.favorites.Remove(ctx, actor.ID, listingID)
	if errors.Is(err, domain.ErrNotFound) {
		return nil
	}
	return err
}

// List returns the listings the actor has bookmarked. Bookmarks whose listing
// has since been deleted, or has since left the actor's view (a stranger's
// listing pulled back to pending or rejected), are silently dropped from the
// result.
func (uc *FavoriteUsecase) List(ctx context.Context, actor *domain.User) ([]*domain.Listing, error) {
	if actor == nil {
		return nil, domain.ErrUnauthenticated
	}
	favorites, err := uc.favorites.FindByUser(ctx, actor.ID)
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(favorites))
	for _, f := range favorites {
		ids = append(ids, f.ListingID)
	}
	found, err := uc.listings.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	listings := make([]*domain.Listing, 0, len(found))
	for _, l := range found {
		if l.VisibleTo(actor) {
			listings = append(listings, l)
		}
	}
	return listings, nil
}
