package domain

import (
	"path"
	"strings"
	"time"
)

// --- Listing Status Enum ---

// ListingStatus represents the moderation status of a listing.
type ListingStatus string

const (
	StatusPending  ListingStatus = "pending"
	StatusApproved ListingStatus = "approved"
	StatusRejected ListingStatus = "rejected"
)

// IsValid checks if the ListingStatus is one of the defined constants.
func (s ListingStatus) IsValid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected:
		return true
	}
	return false
}

// --- Category Enum ---

// Category is the fixed set of listing categories the platform accepts.
type Category string

const (
	CategoryEscorts     Category = "Escorts"
	CategoryMassage     Category = "Massage"
	CategoryAdultDating Category = "Adult Dating"
	CategoryVirtual     Category = "Virtual"
	CategoryOther       Category = "Other"
)

func (c Category) IsValid() bool {
	switch c {
	case CategoryEscorts, CategoryMassage, CategoryAdultDating, CategoryVirtual, CategoryOther:
		return true
	}
	return false
}

// Age bounds for listings that declare an age.
const (
	MinListingAge = 18
	MaxListingAge = 99
)

// --- Location ---

// Location is the structured four-level location of a listing. Every level is
// optional, but a supplied level must belong to its supplied parent in the
// taxonomy (validated by the location package).
type Location struct {
	Country  string `json:"country,omitempty"`
	Region   string `json:"region,omitempty"`
	City     string `json:"city,omitempty"`
	District string `json:"district,omitempty"`
}

// IsZero reports whether no level is set.
func (l Location) IsZero() bool {
	return l.Country == "" && l.Region == "" && l.City == "" && l.District == ""
}

// --- Pricing ---

// PricingTier is one entry of a listing's hourly price ladder.
type PricingTier struct {
	Hours int     `json:"hours"`
	Price float64 `json:"price"`
}

// --- Listing Entity ---

// Listing is a published service offer. Mapping to database structures is
// handled by the repository implementation; the entity carries no bson tags.
type Listing struct {
	ID          string
	UserID      string
	UserName    string
	Title       string
	Description string

	Category Category
	Gender   string
	Race     string
	Age      *int

	// Price is the single-hour price. PricingTiers, when non-empty, is
	// authoritative and Price is only the UI fallback.
	Price        float64
	PricingTiers []PricingTier

	Location Location
	Services []string
	Phone    string
	Email    string

	// Media order is display order; appends only.
	Images []string
	Videos []string

	Status   ListingStatus
	Featured bool
	Views    int64

	CreatedAt time.Time
	UpdatedAt time.Time
}

// EffectiveHourlyPrice returns the authoritative one-hour price: the 1-hour
// tier when tiers are present, otherwise Price.
func (l *Listing) EffectiveHourlyPrice() float64 {
	for _, t := range l.PricingTiers {
		if t.Hours == 1 {
			return t.Price
		}
	}
	if len(l.PricingTiers) > 0 {
		return l.PricingTiers[0].Price
	}
	return l.Price
}

// HasMedia reports whether the listing carries at least one image or video.
func (l *Listing) HasMedia() bool {
	return len(l.Images) > 0 || len(l.Videos) > 0
}

// VisibleTo reports whether the acting user may see this listing at all.
// Pending and rejected listings are visible only to their owner and to admins.
func (l *Listing) VisibleTo(actor *User) bool {
	if l.Status == StatusApproved {
		return true
	}
	if actor == nil {
		return false
	}
	return actor.ID == l.UserID || CanModerate(actor)
}

// --- Media kind ---

var videoExtensions = map[string]bool{
	".mp4":  true,
	".mov":  true,
	".webm": true,
	".avi":  true,
}

// IsVideoURL discriminates media type by file extension, the contract the
// upload collaborator uses for stored URLs.
func IsVideoURL(url string) bool {
	return videoExtensions[strings.ToLower(path.Ext(url))]
}

// SplitMedia partitions raw media URLs into image and video lists, preserving
// submission order inside each list.
func SplitMedia(urls []string) (images, videos []string) {
	for _, u := range urls {
		if u == "" {
			continue
		}
		if IsVideoURL(u) {
			videos = append(videos, u)
		} else {
			images = append(images, u)
		}
	}
	return images, videos
}

// --- User Entity ---

// UserRole distinguishes members from administrators.
type UserRole string

const (
	RoleMember UserRole = "member"
	RoleAdmin  UserRole = "admin"
)

func (r UserRole) IsValid() bool {
	return r == RoleMember || r == RoleAdmin
}

// UserStatus is the account lifecycle status.
type UserStatus string

const (
	UserActive    UserStatus = "active"
	UserPending   UserStatus = "pending"
	UserSuspended UserStatus = "suspended"
)

func (s UserStatus) IsValid() bool {
	switch s {
	case UserActive, UserPending, UserSuspended:
		return true
	}
	return false
}

// User is the account entity. Authentication and session issuance live in the
// auth service; this service only consumes the already-verified identity.
type User struct {
	ID        string
	Name      string
	Email     string
	Role      UserRole
	Status    UserStatus
	VIP       bool
	VIPExpiry *time.Time
	CreatedAt time.Time
}

// --- Favorite Entity ---

// Favorite is a (user, listing) bookmark, unique per pair.
type Favorite struct {
	ID        string
	UserID    string
	ListingID string
	CreatedAt time.Time
}

// --- Message Entity ---

// Message is immutable once created. It keeps its ListingID even after the
// referenced listing is deleted; message history is an audit trail.
type Message struct {
	ID         string
	FromUserID string
	ToUserID   string
	ListingID  string
	Content    string
	Read       bool
	CreatedAt  time.Time
}
