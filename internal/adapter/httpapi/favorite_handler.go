package httpapi

import (
	"net/http"

	"github.com/encounterhub/listing-service/internal/adapter/httpapi/middleware"
	"github.com/encounterhub/listing-service/internal/listing/usecase"
	"github.com/go-chi/chi/v5"
)

type FavoriteHandler struct {
	favorites *usecase.FavoriteUsecase
}

func NewFavoriteHandler(favorites *usecase.FavoriteUsecase) *FavoriteHandler {
	return &FavoriteHandler{favorites: favorites}
}

type addFavoriteRequest struct {
	ListingID string `json:"listing_id"`
}

// Add handles POST /api/favorites. Re-adding is a no-op success.
func (h *FavoriteHandler) Add(w http.ResponseWriter, r *http.Request) {
	var req addFavoriteRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if err := h.favorites.Add(r.Context(), middleware.ActorFrom(r.Context()), req.ListingID); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Message: "Added to favorites"})
}

// Remove handles DELETE /api/favorites/{listingID}.
func (h *FavoriteHandler) Remove(w http.ResponseWriter, r *http.Request) {
	if err := h.favorites.Remove(r.Context(), middleware.ActorFrom(r.Context()), chi.URLParam(r, "listingID")); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Message: "Removed from favorites"})
}

// List handles GET /api/favorites, returning the bookmarked listings.
func (h *FavoriteHandler) List(w http.ResponseWriter, r *http.Request) {
	listings, err := h.favorites.List(r.Context(), middleware.ActorFrom(r.Context()))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toListingResponses(listings))
}
