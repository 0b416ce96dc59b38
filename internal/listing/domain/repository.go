package domain

import (
	"context"
	"time"
)

// Filter holds the recognized discovery options. Every field is optional
// unless the usecase layer forces it (public callers always get
// Status=approved). Supplied fields compose with logical AND.
type Filter struct {
	Status   ListingStatus
	Category Category
	Gender   string
	Race     string

	// Location matches on the deepest supplied taxonomy level only
	// (district > city > region > country).
	Location Location

	// Search matches case-insensitively against title OR description.
	Search string

	// Inclusive age bounds. A listing without an age is excluded whenever
	// either bound is supplied.
	MinAge *int
	MaxAge *int

	Featured *bool

	// UserID restricts results to one owner's listings.
	UserID string

	// Page is 1-indexed. Limit falls back to the application-wide default
	// when zero.
	Page  int64
	Limit int64
}

// WithoutWindow returns a copy of the filter with the pagination window
// stripped, for count queries.
func (f Filter) WithoutWindow() Filter {
	f.Page = 0
	f.Limit = 0
	return f
}

// ListingUpdate is a partial update; nil fields are left untouched.
type ListingUpdate struct {
	Title        *string
	Description  *string
	Price        *float64
	PricingTiers *[]PricingTier
	Category     *Category
	Gender       *string
	Race         *string
	Age          *int
	Location     *Location
	Services     *[]string
	Phone        *string
	Email        *string
	Images       *[]string
	Videos       *[]string
}

// ListingRepository defines persistence for listings. Implementations execute
// the query plan compiled from a Filter so that FindByFilter and CountByFilter
// always share predicate semantics.
type ListingRepository interface {
	Create(ctx context.Context, listing *Listing) error
	FindByID(ctx context.Context, id string) (*Listing, error)
	FindByFilter(ctx context.Context, filter Filter) ([]*Listing, error)
	CountByFilter(ctx context.Context, filter Filter) (int64, error)
	// FindByUser returns one owner's listings, newest first, optionally
	// restricted to a status. An empty userID matches every owner.
	FindByUser(ctx context.Context, userID string, status *ListingStatus) ([]*Listing, error)
	FindByIDs(ctx context.Context, ids []string) ([]*Listing, error)

	UpdateFields(ctx context.Context, id string, update ListingUpdate) (*Listing, error)
	UpdateStatus(ctx context.Context, id string, status ListingStatus) (*Listing, error)
	SetFeatured(ctx context.Context, id string, featured bool) (*Listing, error)
	AppendMedia(ctx context.Context, id string, images, videos []string) error

	// IncrementViews bumps the monotonic view counter. Lost increments under
	// concurrency are acceptable; callers never fail a fetch on this.
	IncrementViews(ctx context.Context, id string) error

	// Delete removes the listing and its favorite rows atomically.
	Delete(ctx context.Context, id string) error
	// DeleteByUser removes all of one owner's listings with their favorites.
	DeleteByUser(ctx context.Context, userID string) error
}

// FavoriteRepository persists the user↔listing bookmark ledger.
type FavoriteRepository interface {
	Add(ctx context.Context, favorite *Favorite) error
	Remove(ctx context.Context, userID, listingID string) error
	FindByUser(ctx context.Context, userID string) ([]*Favorite, error)
	RemoveByUser(ctx context.Context, userID string) error
}

// MessageRepository persists the immutable message ledger.
type MessageRepository interface {
	Create(ctx context.Context, message *Message) error
	FindByUser(ctx context.Context, userID string) ([]*Message, error)
	FindConversation(ctx context.Context, listingID, userID string) ([]*Message, error)
	RemoveByUser(ctx context.Context, userID string) error
}

// UserRepository persists accounts. Creation happens in the auth service;
// this service reads and admin-mutates them.
type UserRepository interface {
	FindByID(ctx context.Context, id string) (*User, error)
	FindAll(ctx context.Context) ([]*User, error)
	Count(ctx context.Context) (int64, error)
	UpdateStatus(ctx context.Context, id string, status UserStatus) (*User, error)
	UpdateRole(ctx context.Context, id string, role UserRole) (*User, error)
	SetVIP(ctx context.Context, id string, vip bool, expiry *time.Time) (*User, error)
	Delete(ctx context.Context, id string) error
}
