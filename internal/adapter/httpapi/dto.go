package httpapi

import (
	"time"

	"github.com/encounterhub/listing-service/internal/listing/domain"
)

type listingResponse struct {
	ID           string               `json:"id"`
	UserID       string               `json:"user_id"`
	UserName     string               `json:"user_name,omitempty"`
	Title        string               `json:"title"`
	Description  string               `json:"description"`
	Category     domain.Category      `json:"category"`
	Gender       string               `json:"gender,omitempty"`
	Race         string               `json:"race,omitempty"`
	Age          *int                 `json:"age,omitempty"`
	Price        float64              `json:"price"`
	PricingTiers []domain.PricingTier `json:"pricing_tiers,omitempty"`
	Location     domain.Location      `json:"location"`
	Services     []string             `json:"services,omitempty"`
	Phone        string               `json:"phone,omitempty"`
	Email        string               `json:"email,omitempty"`
	Images       []string             `json:"images"`
	Videos       []string             `json:"videos,omitempty"`
	Status       domain.ListingStatus `json:"status"`
	Featured     bool                 `json:"featured"`
	Views        int64                `json:"views"`
	CreatedAt    time.Time            `json:"created_at"`
	UpdatedAt    time.Time            `json:"updated_at"`
}

func toListingResponse(l *domain.Listing) listingResponse {
	return listingResponse{
		ID:           l.ID,
		UserID:       l.UserID,
		UserName:     l.UserName,
		Title:        l.Title,
		Description:  l.Description,
		Category:     l.Category,
		Gender:       l.Gender,
		Race:         l.Race,
		Age:          l.Age,
		Price:        l.Price,
		PricingTiers: l.PricingTiers,
		Location:     l.Location,
		Services:     l.Services,
		Phone:        l.Phone,
		Email:        l.Email,
		Images:       l.Images,
		Videos:       l.Videos,
		Status:       l.Status,
		Featured:     l.Featured,
		Views:        l.Views,
		CreatedAt:    l.CreatedAt,
		UpdatedAt:    l.UpdatedAt,
	}
}

func toListingResponses(listings []*domain.Listing) []listingResponse {
	out := make([]listingResponse, 0, len(listings))
	for _, l := range listings {
		out = append(out, toListingResponse(l))
	}
	return out
}

type userResponse struct {
	ID        string            `json:"id"`
	Name      string            `json:"name"`
	Email     string            `json:"email"`
	Role      domain.UserRole   `json:"role"`
	Status    domain.UserStatus `json:"status"`
	VIP       bool              `json:"vip"`
	VIPExpiry *time.Time        `json:"vip_expiry,omitempty"`
	CreatedAt time.Time         `json:"created_at"`
}

func toUserResponse(u *domain.User) userResponse {
	return userResponse{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Role:      u.Role,
		Status:    u.Status,
		VIP:       u.VIP,
		VIPExpiry: u.VIPExpiry,
		CreatedAt: u.CreatedAt,
	}
}

func toUserResponses(users []*domain.User) []userResponse {
	out := make([]userResponse, 0, len(users))
	for _, u := range users {
		out = append(out, toUserResponse(u))
	}
	return out
}

type chatMessageResponse struct {
	ID         string    `json:"id"`
	FromUserID string    `json:"from_user_id"`
	ToUserID   string    `json:"to_user_id"`
	ListingID  string    `json:"listing_id"`
	Content    string    `json:"content"`
	Read       bool      `json:"read"`
	CreatedAt  time.Time `json:"created_at"`
}

func toChatMessageResponse(m *domain.Message) chatMessageResponse {
	return chatMessageResponse{
		ID:         m.ID,
		FromUserID: m.FromUserID,
		ToUserID:   m.ToUserID,
		ListingID:  m.ListingID,
		Content:    m.Content,
		Read:       m.Read,
		CreatedAt:  m.CreatedAt,
	}
}

func toChatMessageResponses(messages []*domain.Message) []chatMessageResponse {
	out := make([]chatMessageResponse, 0, len(messages))
	for _, m := range messages {
		out = append(out, toChatMessageResponse(m))
	}
	return out
}
