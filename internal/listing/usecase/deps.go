package usecase

import (
	"context"
	"io"

	natsadapter "github.com/encounterhub/listing-service/internal/adapter/messaging/nats"
	"github.com/encounterhub/listing-service/internal/listing/domain"
)

// ListingCache is the read-through cache in front of listing detail fetches.
// A nil listing with a nil error is a miss.
type ListingCache interface {
	GetListing(ctx context.Context, id string) (*domain.Listing, error)
	SetListing(ctx context.Context, listing *domain.Listing) error
	Invalidate(ctx context.Context, id string) error
}

// EventPublisher emits listing lifecycle events. Delivery is best effort.
type EventPublisher interface {
	Publish(subject string, event natsadapter.ListingEvent) error
}

// ModerationMailer notifies listing owners about moderation decisions.
type ModerationMailer interface {
	SendListingApproved(toEmail, listingTitle string) error
	SendListingRejected(toEmail, listingTitle string) error
}

// MediaStorage stores uploaded media objects and returns their public URLs.
// Delete takes a URL previously returned by Upload.
type MediaStorage interface {
	Upload(ctx context.Context, filename, contentType string, size int64, r io.Reader) (string, error)
	Delete(ctx context.Context, url string) error
}

// LocationNormalizer validates a structured location against the taxonomy and
// fills in implied broader levels.
type LocationNormalizer interface {
	Normalize(loc domain.Location) (domain.Location, error)
}
