package usecase

import (
	"context"
	"fmt"

	natsadapter "github.com/encounterhub/listing-service/internal/adapter/messaging/nats"
	"github.com/encounterhub/listing-service/internal/listing/domain"
	"github.com/encounterhub/listing-service/internal/platform/logger"
	"github.com/encounterhub/listing-service/internal/platform/metrics"
	"go.uber.org/zap"
)

// ModerationUsecase implements the admin moderation surface: the pending
// queue, status decisions and the featured flag.
type ModerationUsecase struct {
	repo    domain.ListingRepository
	users   domain.UserRepository
	cache   ListingCache
	events  EventPublisher
	mailer  ModerationMailer
	metrics *metrics.Manager
	logger  *logger.Logger
}

func NewModerationUsecase(
	repo domain.ListingRepository,
	users domain.UserRepository,
	cache ListingCache,
	events EventPublisher,
	mailer ModerationMailer,
	m *metrics.Manager,
	log *logger.Logger,
) *ModerationUsecase {
	return &ModerationUsecase{
		repo:    repo,
		users:   users,
		cache:   cache,
		events:  events,
		mailer:  mailer,
		metrics: m,
		logger:  log.Named("ModerationUsecase"),
	}
}

// Queue returns every listing in the given status, newest first. Admin only.
func (uc *ModerationUsecase) Queue(ctx context.Context, actor *domain.User, status domain.ListingStatus) ([]*domain.Listing, error) {
	if !domain.CanModerate(actor) {
		return nil, fmt.Errorf("%w: admin access required", domain.ErrForbidden)
	}
	if !status.IsValid() {
		return nil, fmt.Errorf("%w: unknown status %q", domain.ErrInvalidInput, status)
	}
	return uc.repo.FindByUser(ctx, "", &status)
}

// Decide applies a moderation status decision. Re-applying the current status
// is a legal no-op. The owner is notified by mail and an event is published
// when the status actually changes; both are best effort.
func (uc *ModerationUsecase) Decide(ctx context.Context, actor *domain.User, listingID string, next domain.ListingStatus) (*domain.Listing, error) {
	listing, err := uc.repo.FindByID(ctx, listingID)
	if err != nil {
		return nil, err
	}

	resolved, err := domain.Transition(actor, listing.Status, next)
	if err != nil {
		uc.logger.Warn("moderation decision rejected",
			zap.String("listing_id", listingID),
			zap.String("next_status", string(next)),
			zap.Error(err))
		return nil, err
	}
	if resolved == listing.Status {
		return listing, nil
	}

	updated, err := uc.repo.UpdateStatus(ctx, listingID, resolved)
	if err != nil {
		uc.logger.Error("failed to persist moderation decision",
			zap.String("listing_id", listingID), zap.Error(err))
		return nil, err
	}
	if err := uc.cache.Invalidate(ctx, listingID); err != nil {
		uc.logger.Warn("cache invalidation failed", zap.String("listing_id", listingID), zap.Error(err))
	}

	uc.metrics.ModerationActionsTotal.WithLabelValues(string(resolved)).Inc()
	uc.notify(ctx, updated)

	uc.logger.Info("moderation decision applied",
		zap.String("listing_id", listingID),
		zap.String("status", string(resolved)),
		zap.String("admin_id", actor.ID))
	return updated, nil
}

// SetFeatured toggles the featured flag. Featured is a pure filter facet; it
// does not alter ranking. Admin only.
func (uc *ModerationUsecase) SetFeatured(ctx context.Context, actor *domain.User, listingID string, featured bool) (*domain.Listing, error) {
	if !domain.CanModerate(actor) {
		return nil, fmt.Errorf("%w: admin access required", domain.ErrForbidden)
	}
	updated, err := uc.repo.SetFeatured(ctx, listingID, featured)
	if err != nil {
		return nil, err
	}
	if err := uc.cache.Invalidate(ctx, listingID); err != nil {
		uc.logger.Warn("cache invalidation failed", zap.String("listing_id", listingID), zap.Error(err))
	}
	return updated, nil
}

func (uc *ModerationUsecase) notify(ctx context.Context, listing *domain.Listing) {
	var subject string
	switch listing.Status {
	case domain.StatusApproved:
		subject = natsadapter.SubjectListingApproved
	case domain.StatusRejected:
		subject = natsadapter.SubjectListingRejected
	default:
		subject = natsadapter.SubjectListingPending
	}
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

	owner, err := uc.users.FindByID(ctx, listing.UserID)
	if err != nil || owner.Email == "" {
		uc.logger.Warn("owner lookup for mail notification failed",
			zap.String("listing_id", listing.ID),
			zap.String("user_id", listing.UserID),
			zap.Error(err))
		return
	}
	switch listing.Status {
	case domain.StatusApproved:
		err = uc.mailer.SendListingApproved(owner.Email, listing.Title)
	case domain.StatusRejected:
		err = uc.mailer.SendListingRejected(owner.Email, listing.Title)
	}
	if err != nil {
		uc.logger.Warn("moderation mail failed",
			zap.String("listing_id", listing.ID),
			zap.String("email", owner.Email),
			zap.Error(err))
	}
}
