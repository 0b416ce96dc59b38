package httpapi

import (
	"net/http"

	"github.com/encounterhub/listing-service/internal/adapter/httpapi/middleware"
	"github.com/encounterhub/listing-service/internal/listing/domain"
	"github.com/encounterhub/listing-service/internal/listing/usecase"
	"github.com/encounterhub/listing-service/internal/location"
	"github.com/go-chi/chi/v5"
)

// MiscHandler serves the taxonomy, the public stats and the media endpoints.
type MiscHandler struct {
	locations *location.Store
	media     *usecase.MediaUsecase
	users     *usecase.UserUsecase
}

func NewMiscHandler(locations *location.Store, media *usecase.MediaUsecase, users *usecase.UserUsecase) *MiscHandler {
	return &MiscHandler{locations: locations, media: media, users: users}
}

// Locations handles GET /api/locations with the full taxonomy tree.
func (h *MiscHandler) Locations(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.locations.Get())
}

// Stats handles GET /api/stats.
func (h *MiscHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.users.Stats(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

// Upload handles POST /api/upload (multipart, field "file") and returns the
// stored object's public URL.
func (h *MiscHandler) Upload(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(usecase.MaxUploadSize); err != nil {
		writeError(w, domain.ErrInvalidInput)
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, domain.ErrInvalidInput)
		return
	}
	defer file.Close()

	url, err := h.media.Upload(r.Context(), middleware.ActorFrom(r.Context()),
		header.Filename, header.Header.Get("Content-Type"), header.Size, file)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"url": url})
}

type attachMediaRequest struct {
	URLs []string `json:"urls"`
}

// AttachMedia handles POST /api/listings/{id}/media, appending already
// uploaded media URLs to an owned listing.
func (h *MiscHandler) AttachMedia(w http.ResponseWriter, r *http.Request) {
	var req attachMediaRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if err := h.media.Attach(r.Context(), middleware.ActorFrom(r.Context()),
		chi.URLParam(r, "id"), req.URLs); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Message: "Media attached"})
}
