package httpapi

import (
	"net/http"

	"github.com/encounterhub/listing-service/internal/adapter/httpapi/middleware"
	"github.com/encounterhub/listing-service/internal/listing/domain"
	"github.com/encounterhub/listing-service/internal/listing/usecase"
	"github.com/go-chi/chi/v5"
)

// ListingHandler exposes the discovery and lifecycle endpoints.
type ListingHandler struct {
	listings *usecase.ListingUsecase
}

func NewListingHandler(listings *usecase.ListingUsecase) *ListingHandler {
	return &ListingHandler{listings: listings}
}

// List handles GET /api/listings.
func (h *ListingHandler) List(w http.ResponseWriter, r *http.Request) {
	f, err := parseFilter(r)
	if err != nil {
		writeError(w, err)
		return
	}
	result, err := h.listings.List(r.Context(), middleware.ActorFrom(r.Context()), f)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toListingResponses(result))
}

// Count handles GET /api/listings/count with the same filter semantics as List.
func (h *ListingHandler) Count(w http.ResponseWriter, r *http.Request) {
	f, err := parseFilter(r)
	if err != nil {
		writeError(w, err)
		return
	}
	total, err := h.listings.Count(r.Context(), middleware.ActorFrom(r.Context()), f)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int64{"total": total})
}

// Get handles GET /api/listings/{id}.
func (h *ListingHandler) Get(w http.ResponseWriter, r *http.Request) {
	listing, err := h.listings.Get(r.Context(), middleware.ActorFrom(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toListingResponse(listing))
}

type createListingRequest struct {
	Title        string               `json:"title"`
	Description  string               `json:"description"`
	Category     domain.Category      `json:"category"`
	Gender       string               `json:"gender"`
	Race         string               `json:"race"`
	Age          *int                 `json:"age"`
	Price        float64              `json:"price"`
	PricingTiers []domain.PricingTier `json:"pricing_tiers"`
	Location     domain.Location      `json:"location"`
	Services     []string             `json:"services"`
	Phone        string               `json:"phone"`
	Email        string               `json:"email"`
	Media        []string             `json:"media"`
}

// Create handles POST /api/listings. The new listing always enters the
// moderation queue as pending.
func (h *ListingHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createListingRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}
	listing, err := h.listings.Create(r.Context(), middleware.ActorFrom(r.Context()), usecase.CreateListingInput{
		Title:        req.Title,
		Description:  req.Description,
		Category:     req.Category,
		Gender:       req.Gender,
		Race:         req.Race,
		Age:          req.Age,
		Price:        req.Price,
		PricingTiers: req.PricingTiers,
		Location:     req.Location,
		Services:     req.Services,
		Phone:        req.Phone,
		Email:        req.Email,
		Media:        req.Media,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toListingResponse(listing))
}

type updateListingRequest struct {
	Title        *string               `json:"title"`
	Description  *string               `json:"description"`
	Price        *float64              `json:"price"`
	PricingTiers *[]domain.PricingTier `json:"pricing_tiers"`
	Category     *domain.Category      `json:"category"`
	Gender       *string               `json:"gender"`
	Race         *string               `json:"race"`
	Age          *int                  `json:"age"`
	Location     *domain.Location      `json:"location"`
	Services     *[]string             `json:"services"`
	Phone        *string               `json:"phone"`
	Email        *string               `json:"email"`
	Images       *[]string             `json:"images"`
	Videos       *[]string             `json:"videos"`
}

// Update handles PUT /api/listings/{id}. Absent fields are left untouched.
func (h *ListingHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req updateListingRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}
	listing, err := h.listings.Update(r.Context(), middleware.ActorFrom(r.Context()), chi.URLParam(r, "id"),
		domain.ListingUpdate{
			Title:        req.Title,
			Description:  req.Description,
			Price:        req.Price,
			PricingTiers: req.PricingTiers,
			Category:     req.Category,
			Gender:       req.Gender,
			Race:         req.Race,
			Age:          req.Age,
			Location:     req.Location,
			Services:     req.Services,
			Phone:        req.Phone,
			Email:        req.Email,
			Images:       req.Images,
			Videos:       req.Videos,
		})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toListingResponse(listing))
}

// Delete handles DELETE /api/listings/{id}.
func (h *ListingHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.listings.Delete(r.Context(), middleware.ActorFrom(r.Context()), chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Message: "Listing deleted"})
}

// Mine handles GET /api/listings/user/me; the owner sees every status unless
// one is requested explicitly.
func (h *ListingHandler) Mine(w http.ResponseWriter, r *http.Request) {
	actor := middleware.ActorFrom(r.Context())
	if actor == nil {
		writeError(w, domain.ErrUnauthenticated)
		return
	}
	result, err := h.listings.ListByUser(r.Context(), actor, actor.ID, statusParam(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toListingResponses(result))
}

// ByUser handles GET /api/listings/user/{userID}.
func (h *ListingHandler) ByUser(w http.ResponseWriter, r *http.Request) {
	result, err := h.listings.ListByUser(r.Context(), middleware.ActorFrom(r.Context()),
		chi.URLParam(r, "userID"), statusParam(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toListingResponses(result))
}

func statusParam(r *http.Request) *domain.ListingStatus {
	raw := r.URL.Query().Get("status")
	if raw == "" {
		return nil
	}
	status := domain.ListingStatus(raw)
	return &status
}
