package mongodb

import (
	"time"

	"github.com/encounterhub/listing-service/internal/listing/domain"
)

// listingDocument is the MongoDB shape of a Listing. Ids are opaque uuid
// strings stored directly in _id.
type listingDocument struct {
	ID          string               `bson:"_id"`
	UserID      string               `bson:"user_id"`
	UserName    string               `bson:"user_name,omitempty"`
	Title       string               `bson:"title"`
	Description string               `bson:"description"`
	Category    domain.Category      `bson:"category"`
	Gender      string               `bson:"gender,omitempty"`
	Race        string               `bson:"race,omitempty"`
	Age         *int                 `bson:"age,omitempty"`
	Price       float64              `bson:"price"`
	Tiers       []tierDocument       `bson:"pricing_tiers,omitempty"`
	Location    locationDocument     `bson:"location,omitempty"`
	Services    []string             `bson:"services,omitempty"`
	Phone       string               `bson:"phone,omitempty"`
	Email       string               `bson:"email,omitempty"`
	Images      []string             `bson:"images,omitempty"`
	Videos      []string             `bson:"videos,omitempty"`
	Status      domain.ListingStatus `bson:"status"`
	Featured    bool                 `bson:"featured"`
	Views       int64                `bson:"views"`
	CreatedAt   time.Time            `bson:"created_at"`
	UpdatedAt   time.Time            `bson:"updated_at"`
}

type tierDocument struct {
	Hours int     `bson:"hours"`
	Price float64 `bson:"price"`
}

type locationDocument struct {
	Country  string `bson:"country,omitempty"`
	Region   string `bson:"region,omitempty"`
	City     string `bson:"city,omitempty"`
	District string `bson:"district,omitempty"`
}

type favoriteDocument struct {
	ID        string    `bson:"_id"`
	UserID    string    `bson:"user_id"`
	ListingID string    `bson:"listing_id"`
	CreatedAt time.Time `bson:"created_at"`
}

type messageDocument struct {
	ID         string    `bson:"_id"`
	FromUserID string    `bson:"from_user_id"`
	ToUserID   string    `bson:"to_user_id"`
	ListingID  string    `bson:"listing_id"`
	Content    string    `bson:"content"`
	Read       bool      `bson:"read"`
	CreatedAt  time.Time `bson:"created_at"`
}

type userDocument struct {
	ID        string            `bson:"_id"`
	Name      string            `bson:"name"`
	Email     string            `bson:"email"`
	Role      domain.UserRole   `bson:"role"`
	Status    domain.UserStatus `bson:"status"`
	VIP       bool              `bson:"vip"`
	VIPExpiry *time.Time        `bson:"vip_expiry,omitempty"`
	CreatedAt time.Time         `bson:"created_at"`
}

// --- Listing converters ---

func toListingDocument(l *domain.Listing) *listingDocument {
	if l == nil {
		return nil
	}
	var tiers []tierDocument
	for _, t := range l.PricingTiers {
		tiers = append(tiers, tierDocument{Hours: t.Hours, Price: t.Price})
	}
	return &listingDocument{
		ID:          l.ID,
		UserID:      l.UserID,
		UserName:    l.UserName,
		Title:       l.Title,
		Description: l.Description,
		Category:    l.Category,
		Gender:      l.Gender,
		Race:        l.Race,
		Age:         l.Age,
		Price:       l.Price,
		Tiers:       tiers,
		Location: locationDocument{
			Country:  l.Location.Country,
			Region:   l.Location.Region,
			City:     l.Location.City,
			District: l.Location.District,
		},
		Services:  l.Services,
		Phone:     l.Phone,
		Email:     l.Email,
		Images:    l.Images,
		Videos:    l.Videos,
		Status:    l.Status,
		Featured:  l.Featured,
		Views:     l.Views,
		CreatedAt: l.CreatedAt,
		UpdatedAt: l.UpdatedAt,
	}
}

func toDomainListing(d *listingDocument) *domain.Listing {
	if d == nil {
		return nil
	}
	var tiers []domain.PricingTier
	for _, t := range d.Tiers {
		tiers = append(tiers, domain.PricingTier{Hours: t.Hours, Price: t.Price})
	}
	return &domain.Listing{
		ID:          d.ID,
		UserID:      d.UserID,
		UserName:    d.UserName,
		Title:       d.Title,
		Description: d.Description,
		Category:    d.Category,
		Gender:      d.Gender,
		Race:        d.Race,
		Age:         d.Age,
		Price:       d.Price,
		PricingTiers: tiers,
		Location: domain.Location{
			Country:  d.Location.Country,
			Region:   d.Location.Region,
			City:     d.Location.City,
			District: d.Location.District,
		},
		Services:  d.Services,
		Phone:     d.Phone,
		Email:     d.Email,
		Images:    d.Images,
		Videos:    d.Videos,
		Status:    d.Status,
		Featured:  d.Featured,
		Views:     d.Views,
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
}

func toDomainListings(docs []*listingDocument) []*domain.Listing {
	listings := make([]*domain.Listing, 0, len(docs))
	for _, doc := range docs {
		listings = append(listings, toDomainListing(doc))
	}
	return listings
}

// --- Favorite converters ---

func toFavoriteDocument(f *domain.Favorite) *favoriteDocument {
	if f == nil {
		return nil
	}
	return &favoriteDocument{
		ID:        f.ID,
		UserID:    f.UserID,
		ListingID: f.ListingID,
		CreatedAt: f.CreatedAt,
	}
}

func toDomainFavorite(d *favoriteDocument) *domain.Favorite {
	if d == nil {
		return nil
	}
	return &domain.Favorite{
		ID:        d.ID,
		UserID:    d.UserID,
		ListingID: d.ListingID,
		CreatedAt: d.CreatedAt,
	}
}

// --- Message converters ---

func toMessageDocument(m *domain.Message) *messageDocument {
	if m == nil {
		return nil
	}
	return &messageDocument{
		ID:         m.ID,
		FromUserID: m.FromUserID,
		ToUserID:   m.ToUserID,
		ListingID:  m.ListingID,
		Content:    m.Content,
		Read:       m.Read,
		CreatedAt:  m.CreatedAt,
	}
}

func toDomainMessage(d *messageDocument) *domain.Message {
	if d == nil {
		return nil
	}
	return &domain.Message{
		ID:         d.ID,
		FromUserID: d.FromUserID,
		ToUserID:   d.ToUserID,
		ListingID:  d.ListingID,
		Content:    d.Content,
		Read:       d.Read,
		CreatedAt:  d.CreatedAt,
	}
}

// --- User converters ---

func toDomainUser(d *userDocument) *domain.User {
	if d == nil {
		return nil
	}
	return &domain.User{
		ID:        d.ID,
		Name:      d.Name,
		Email:     d.Email,
		Role:      d.Role,
		Status:    d.Status,
		VIP:       d.VIP,
		VIPExpiry: d.VIPExpiry,
		CreatedAt: d.CreatedAt,
	}
}
