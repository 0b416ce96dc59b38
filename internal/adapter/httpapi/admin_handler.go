package httpapi

import (
	"fmt"
	"net/http"
	"time"

	"github.com/encounterhub/listing-service/internal/adapter/httpapi/middleware"
	"github.com/encounterhub/listing-service/internal/listing/domain"
	"github.com/encounterhub/listing-service/internal/listing/usecase"
	"github.com/go-chi/chi/v5"
)

// AdminHandler exposes the moderation queue and account management. Every
// endpoint re-checks moderation authority in the usecase layer; routing under
// /api/admin is just namespacing.
type AdminHandler struct {
	moderation *usecase.ModerationUsecase
	users      *usecase.UserUsecase
}

func NewAdminHandler(moderation *usecase.ModerationUsecase, users *usecase.UserUsecase) *AdminHandler {
	return &AdminHandler{moderation: moderation, users: users}
}

// Queue handles GET /api/admin/listings?status=pending.
func (h *AdminHandler) Queue(w http.ResponseWriter, r *http.Request) {
	status := domain.StatusPending
	if raw := r.URL.Query().Get("status"); raw != "" {
		status = domain.ListingStatus(raw)
	}
	listings, err := h.moderation.Queue(r.Context(), middleware.ActorFrom(r.Context()), status)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toListingResponses(listings))
}

type decisionRequest struct {
	Status domain.ListingStatus `json:"status"`
}

// Decide handles POST /api/admin/listings/{id}/status.
func (h *AdminHandler) Decide(w http.ResponseWriter, r *http.Request) {
	var req decisionRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}
	listing, err := h.moderation.Decide(r.Context(), middleware.ActorFrom(r.Context()),
		chi.URLParam(r, "id"), req.Status)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Message: fmt.Sprintf("Listing %s", listing.Status)})
}

type featuredRequest struct {
	Featured bool `json:"featured"`
}

// SetFeatured handles POST /api/admin/listings/{id}/featured.
func (h *AdminHandler) SetFeatured(w http.ResponseWriter, r *http.Request) {
	var req featuredRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}
	listing, err := h.moderation.SetFeatured(r.Context(), middleware.ActorFrom(r.Context()),
		chi.URLParam(r, "id"), req.Featured)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toListingResponse(listing))
}

// Users handles GET /api/admin/users.
func (h *AdminHandler) Users(w http.ResponseWriter, r *http.Request) {
	users, err := h.users.List(r.Context(), middleware.ActorFrom(r.Context()))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toUserResponses(users))
}

type userStatusRequest struct {
	Status domain.UserStatus `json:"status"`
}

// SetUserStatus handles POST /api/admin/users/{id}/status.
func (h *AdminHandler) SetUserStatus(w http.ResponseWriter, r *http.Request) {
	var req userStatusRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}
	user, err := h.users.SetStatus(r.Context(), middleware.ActorFrom(r.Context()),
		chi.URLParam(r, "id"), req.Status)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toUserResponse(user))
}

type userRoleRequest struct {
	Role domain.UserRole `json:"role"`
}

// SetUserRole handles POST /api/admin/users/{id}/role.
func (h *AdminHandler) SetUserRole(w http.ResponseWriter, r *http.Request) {
	var req userRoleRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}
	user, err := h.users.SetRole(r.Context(), middleware.ActorFrom(r.Context()),
		chi.URLParam(r, "id"), req.Role)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toUserResponse(user))
}

type userVIPRequest struct {
	VIP    bool       `json:"vip"`
	Expiry *time.Time `json:"expiry"`
}

// SetUserVIP handles POST /api/admin/users/{id}/vip.
func (h *AdminHandler) SetUserVIP(w http.ResponseWriter, r *http.Request) {
	var req userVIPRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}
	user, err := h.users.SetVIP(r.Context(), middleware.ActorFrom(r.Context()),
		chi.URLParam(r, "id"), req.VIP, req.Expiry)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toUserResponse(user))
}

// DeleteUser handles DELETE /api/admin/users/{id}, cascading to everything
// the account owns.
func (h *AdminHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	if err := h.users.Delete(r.Context(), middleware.ActorFrom(r.Context()), chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Message: "User deleted"})
}
