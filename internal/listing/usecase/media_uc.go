package usecase

import (
	"context"
	"fmt"
	"io"

	"github.com/encounterhub/listing-service/internal/listing/domain"
	"github.com/encounterhub/listing-service/internal/platform/logger"
	"go.uber.org/zap"
)

// MaxUploadSize caps a single media upload.
const MaxUploadSize = 50 << 20 // 50 MiB

// MediaUsecase handles media uploads and attaching stored media to listings.
type MediaUsecase struct {
	storage  MediaStorage
	listings domain.ListingRepository
	cache    ListingCache
	logger   *logger.Logger
}

func NewMediaUsecase(storage MediaStorage, listings domain.ListingRepository, cache ListingCache, log *logger.Logger) *MediaUsecase {
	return &MediaUsecase{
		storage:  storage,
		listings: listings,
		cache:    cache,
		logger:   log.Named("MediaUsecase"),
	}
}

// Upload stores one media object for an authenticated user and returns its
// public URL. The URL's extension decides whether it later counts as an image
// or a video.
func (uc *MediaUsecase) Upload(ctx context.Context, actor *domain.User, filename, contentType string, size int64, r io.Reader) (string, error) {
	if actor == nil {
		return "", domain.ErrUnauthenticated
	}
	if filename == "" {
		return "", fmt.Errorf("%w: filename is required", domain.ErrInvalidInput)
	}
	if size <= 0 || size > MaxUploadSize {
		return "", fmt.Errorf("%w: file size must be between 1 byte and %d bytes", domain.ErrInvalidInput, MaxUploadSize)
	}

	url, err := uc.storage.Upload(ctx, filename, contentType, size, r)
	if err != nil {
		uc.logger.Error("media upload failed",
			zap.String("user_id", actor.ID),
			zap.String("filename", filename),
			zap.Error(err))
		return "", err
	}
	uc.logger.Info("media uploaded",
		zap.String("user_id", actor.ID),
		zap.String("url", url))
	return url, nil
}

// Attach appends already uploaded media URLs to a listing the actor owns.
func (uc *MediaUsecase) Attach(ctx context.Context, actor *domain.User, listingID string, urls []string) error {
	if actor == nil {
		return domain.ErrUnauthenticated
	}
	images, videos := domain.SplitMedia(urls)
	if len(images) == 0 && len(videos) == 0 {
		return fmt.Errorf("%w: no media urls supplied", domain.ErrInvalidInput)
	}

	listing, err := uc.listings.FindByID(ctx, listingID)
	if err != nil {
		return err
	}
	if listing.UserID != actor.ID && !domain.CanModerate(actor) {
		return domain.ErrForbidden
	}

	if err := uc.listings.AppendMedia(ctx, listingID, images, videos); err != nil {
		uc.logger.Error("failed to attach media", zap.String("listing_id", listingID), zap.Error(err))
		return err
	}
	if err := uc.cache.Invalidate(ctx, listingID); err != nil {
		uc.logger.Warn("cache invalidation failed", zap.String("listing_id", listingID), zap.Error(err))
	}
	return nil
}
