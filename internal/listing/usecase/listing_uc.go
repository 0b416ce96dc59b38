package usecase

import (
	"context"
	"fmt"
	"time"

	natsadapter "github.com/encounterhub/listing-service/internal/adapter/messaging/nats"
	"github.com/encounterhub/listing-service/internal/listing/domain"
	"github.com/encounterhub/listing-service/internal/platform/logger"
	"github.com/encounterhub/listing-service/internal/platform/metrics"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ListingUsecase implements the discovery and lifecycle operations on listings.
type ListingUsecase struct {
	repo      domain.ListingRepository
	cache     ListingCache
	events    EventPublisher
	locations LocationNormalizer
	storage   MediaStorage
	metrics   *metrics.Manager
	logger    *logger.Logger
}

func NewListingUsecase(
	repo domain.ListingRepository,
	cache ListingCache,
	events EventPublisher,
	locations LocationNormalizer,
	storage MediaStorage,
	m *metrics.Manager,
	log *logger.Logger,
) *ListingUsecase {
	return &ListingUsecase{
		repo:      repo,
		cache:     cache,
		events:    events,
		locations: locations,
		storage:   storage,
		metrics:   m,
		logger:    log.Named("ListingUsecase"),
	}
}

// normalizeFilter validates the filter and applies the caller's visibility:
// anyone who cannot moderate only ever sees approved listings, whatever
// status they asked for. The one exception is an owner filtering by their own
// user id, who may see their own listings in any status.
func (uc *ListingUsecase) normalizeFilter(actor *domain.User, f domain.Filter) (domain.Filter, error) {
	if f.Status != "" && !f.Status.IsValid() {
		return f, fmt.Errorf("%w: unknown status %q", domain.ErrInvalidInput, f.Status)
	}
	if f.Category != "" && !f.Category.IsValid() {
		return f, fmt.Errorf("%w: unknown category %q", domain.ErrInvalidInput, f.Category)
	}
	if f.MinAge != nil && f.MaxAge != nil && *f.MinAge > *f.MaxAge {
		return f, fmt.Errorf("%w: min_age exceeds max_age", domain.ErrInvalidInput)
	}
	if !domain.CanModerate(actor) {
		ownQuery := actor != nil && f.UserID != "" && f.UserID == actor.ID
		if !ownQuery {
			f.Status = domain.StatusApproved
		}
	}
	return f, nil
}

// List returns one page of listings matching the filter.
func (uc *ListingUsecase) List(ctx context.Context, actor *domain.User, f domain.Filter) ([]*domain.Listing, error) {
	f, err := uc.normalizeFilter(actor, f)
	if err != nil {
		return nil, err
	}
	listings, err := uc.repo.FindByFilter(ctx, f)
	if err != nil {
		uc.logger.Error("failed to list listings", zap.Error(err))
		return nil, err
	}
	return listings, nil
}

// Count returns the total number of listings matching the filter, sharing the
// filter normalization with List so totals never drift from pages.
func (uc *ListingUsecase) Count(ctx context.Context, actor *domain.User, f domain.Filter) (int64, error) {
	f, err := uc.normalizeFilter(actor, f)
	if err != nil {
		return 0, err
	}
	total, err := uc.repo.CountByFilter(ctx, f.WithoutWindow())
	if err != nil {
		uc.logger.Error("failed to count listings", zap.Error(err))
		return 0, err
	}
	return total, nil
}

// Get fetches one listing by id. A listing the actor may not see is reported
// as not found. The view counter is bumped out of band; its failure never
// fails the fetch.
func (uc *ListingUsecase) Get(ctx context.Context, actor *domain.User, id string) (*domain.Listing, error) {
	if id == "" {
		return nil, fmt.Errorf("%w: listing id is required", domain.ErrInvalidInput)
	}

	listing, err := uc.cache.GetListing(ctx, id)
	if err != nil {
		uc.logger.Warn("cache read failed", zap.String("listing_id", id), zap.Error(err))
	}
	if listing == nil {
		listing, err = uc.repo.FindByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if err := uc.cache.SetListing(ctx, listing); err != nil {
			uc.logger.Warn("cache write failed", zap.String("listing_id", id), zap.Error(err))
		}
	}

	if !listing.VisibleTo(actor) {
		return nil, domain.ErrNotFound
	}

	if actor == nil || actor.ID != listing.UserID {
		bgCtx := context.WithoutCancel(ctx)
		go func() {
			if err := uc.repo.IncrementViews(bgCtx, id); err != nil {
				uc.logger.Warn("view increment failed", zap.String("listing_id", id), zap.Error(err))
				return
			}
			uc.metrics.ListingViewsTotal.Inc()
		}()
	}
	return listing, nil
}

// ListByUser returns one owner's listings. The owner and moderators see every
// status; everyone else sees only approved listings.
func (uc *ListingUsecase) ListByUser(ctx context.Context, actor *domain.User, userID string, status *domain.ListingStatus) ([]*domain.Listing, error) {
	if userID == "" {
		return nil, fmt.Errorf("%w: user id is required", domain.ErrInvalidInput)
	}
	privileged := actor != nil && (actor.ID == userID || domain.CanModerate(actor))
	if privileged {
		if status != nil && !status.IsValid() {
			return nil, fmt.Errorf("%w: unknown status %q", domain.ErrInvalidInput, *status)
		}
	} else {
		approved := domain.StatusApproved
		status = &approved
	}
	return uc.repo.FindByUser(ctx, userID, status)
}

// CreateListingInput carries the owner-submitted fields of a new listing.
// Status, featured and views are never taken from the caller.
type CreateListingInput struct {
	Title        string
	Description  string
	Category     domain.Category
	Gender       string
	Race         string
	Age          *int
	Price        float64
	PricingTiers []domain.PricingTier
	Location     domain.Location
	Services     []string
	Phone        string
	Email        string
	Media        []string
}

// Create submits a new listing into the moderation queue.
func (uc *ListingUsecase) Create(ctx context.Context, actor *domain.User, in CreateListingInput) (*domain.Listing, error) {
	if actor == nil {
		return nil, domain.ErrUnauthenticated
	}
	if in.Title == "" {
		return nil, fmt.Errorf("%w: title is required", domain.ErrInvalidInput)
	}
	if in.Description == "" {
		return nil, fmt.Errorf("%w: description is required", domain.ErrInvalidInput)
	}
	if !in.Category.IsValid() {
		return nil, fmt.Errorf("%w: unknown category %q", domain.ErrInvalidInput, in.Category)
	}
	if in.Price < 0 {
		return nil, fmt.Errorf("%w: price must not be negative", domain.ErrInvalidInput)
	}
	if err := validateAge(in.Age); err != nil {
		return nil, err
	}
	if err := validateTiers(in.PricingTiers); err != nil {
		return nil, err
	}
	images, videos := domain.SplitMedia(in.Media)
	if len(images) == 0 && len(videos) == 0 {
		return nil, fmt.Errorf("%w: at least one photo or video is required", domain.ErrInvalidInput)
	}
	loc, err := uc.locations.Normalize(in.Location)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	listing := &domain.Listing{
		ID:           uuid.NewString(),
		UserID:       actor.ID,
		UserName:     actor.Name,
		Title:        in.Title,
		Description:  in.Description,
		Category:     in.Category,
		Gender:       in.Gender,
		Race:         in.Race,
		Age:          in.Age,
		Price:        in.Price,
		PricingTiers: in.PricingTiers,
		Location:     loc,
		Services:     in.Services,
		Phone:        in.Phone,
		Email:        in.Email,
		Images:       images,
		Videos:       videos,
		Status:       domain.StatusPending,
		Featured:     false,
		Views:        0,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := uc.repo.Create(ctx, listing); err != nil {
		uc.logger.Error("failed to create listing", zap.String("user_id", actor.ID), zap.Error(err))
		return nil, err
	}

	uc.metrics.ListingsCreatedTotal.Inc()
	uc.publish(natsadapter.SubjectListingCreated, listing)

	uc.logger.Info("listing created",
		zap.String("listing_id", listing.ID),
		zap.String("user_id", actor.ID))
	return listing, nil
}

// Update applies a partial edit. Only the owner or a moderator may edit; an
// owner edit sends the listing back through moderation.
func (uc *ListingUsecase) Update(ctx context.Context, actor *domain.User, id string, upd domain.ListingUpdate) (*domain.Listing, error) {
	if actor == nil {
		return nil, domain.ErrUnauthenticated
	}
	existing, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if existing.UserID != actor.ID && !domain.CanModerate(actor) {
		uc.logger.Warn("update forbidden",
			zap.String("listing_id", id),
			zap.String("user_id", actor.ID))
		return nil, domain.ErrForbidden
	}
	if err := validateUpdate(&upd); err != nil {
		return nil, err
	}
	if upd.Location != nil {
		loc, err := uc.locations.Normalize(*upd.Location)
		if err != nil {
			return nil, err
		}
		upd.Location = &loc
	}

	updated, err := uc.repo.UpdateFields(ctx, id, upd)
	if err != nil {
		uc.logger.Error("failed to update listing", zap.String("listing_id", id), zap.Error(err))
		return nil, err
	}
	if !domain.CanModerate(actor) && updated.Status != domain.StatusPending {
		updated, err = uc.repo.UpdateStatus(ctx, id, domain.StatusPending)
		if err != nil {
			return nil, err
		}
	}

	if err := uc.cache.Invalidate(ctx, id); err != nil {
		uc.logger.Warn("cache invalidation failed", zap.String("listing_id", id), zap.Error(err))
	}
	return updated, nil
}

// Delete removes a listing together with every favorite pointing at it and
// its stored media objects. Messages that reference it are kept.
func (uc *ListingUsecase) Delete(ctx context.Context, actor *domain.User, id string) error {
	if actor == nil {
		return domain.ErrUnauthenticated
	}
	existing, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if existing.UserID != actor.ID && !domain.CanModerate(actor) {
		uc.logger.Warn("delete forbidden",
			zap.String("listing_id", id),
			zap.String("user_id", actor.ID))
		return domain.ErrForbidden
	}

	if err := uc.repo.Delete(ctx, id); err != nil {
		uc.logger.Error("failed to delete listing", zap.String("listing_id", id), zap.Error(err))
		return err
	}
	if err := uc.cache.Invalidate(ctx, id); err != nil {
		uc.logger.Warn("cache invalidation failed", zap.String("listing_id", id), zap.Error(err))
	}
	uc.cleanupMedia(ctx, existing)
	uc.publish(natsadapter.SubjectListingDeleted, existing)

	uc.logger.Info("listing deleted",
		zap.String("listing_id", id),
		zap.String("user_id", actor.ID))
	return nil
}

// cleanupMedia removes the deleted listing's stored objects. Orphaned objects
// cost storage, nothing else, so failures are logged and swallowed.
func (uc *ListingUsecase) cleanupMedia(ctx context.Context, listing *domain.Listing) {
	urls := make([]string, 0, len(listing.Images)+len(listing.Videos))
	urls = append(urls, listing.Images...)
	urls = append(urls, listing.Videos...)

	bgCtx := context.WithoutCancel(ctx)
	go func() {
		for _, url := range urls {
			if err := uc.storage.Delete(bgCtx, url); err != nil {
				uc.logger.Warn("media cleanup failed",
					zap.String("listing_id", listing.ID),
					zap.String("url", url),
					zap.Error(err))
			}
		}
	}()
}

func (uc *ListingUsecase) publish(subject string, listing *domain.Listing) {
	event := natsadapter.ListingEvent{
		ListingID: listing.ID,
		UserID:    listing.UserID,
		Title:     listing.Title,
		Status:    string(listing.Status),
	}
	if err := uc.events.Publish(subject, event); err != nil {
		uc.logger.Warn("event publish failed",
			zap.String("subject", subject),
			zap.String("listing_id", listing.ID),
			zap.Error(err))
	}
}

func validateAge(age *int) error {
	if age == nil {
		return nil
	}
	if *age < domain.MinListingAge || *age > domain.MaxListingAge {
		return fmt.Errorf("%w: age must be between %d and %d",
			domain.ErrInvalidInput, domain.MinListingAge, domain.MaxListingAge)
	}
	return nil
}

func validateTiers(tiers []domain.PricingTier) error {
	for _, t := range tiers {
		if t.Hours < 1 {
			return fmt.Errorf("%w: pricing tier hours must be at least 1", domain.ErrInvalidInput)
		}
		if t.Price < 0 {
			return fmt.Errorf("%w: pricing tier price must not be negative", domain.ErrInvalidInput)
		}
	}
	return nil
}

func validateUpdate(upd *domain.ListingUpdate) error {
	if upd.Title != nil && *upd.Title == "" {
		return fmt.Errorf("%w: title must not be empty", domain.ErrInvalidInput)
	}
	if upd.Description != nil && *upd.Description == "" {
		return fmt.Errorf("%w: description must not be empty", domain.ErrInvalidInput)
	}
	if upd.Category != nil && !upd.Category.IsValid() {
		return fmt.Errorf("%w: unknown category %q", domain.ErrInvalidInput, *upd.Category)
	}
	if upd.Price != nil && *upd.Price < 0 {
		return fmt.Errorf("%w: price must not be negative", domain.ErrInvalidInput)
	}
	if err := validateAge(upd.Age); err != nil {
		return err
	}
	if upd.PricingTiers != nil {
		if err := validateTiers(*upd.PricingTiers); err != nil {
			return err
		}
	}
	return nil
}
