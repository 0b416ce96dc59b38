package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/encounterhub/listing-service/internal/listing/domain"
)

type errorResponse struct {
	Detail string `json:"detail"`
}

type messageResponse struct {
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if body != nil {
		_ = json.NewEncoder(w).Encode(body)
	}
}

// writeError maps a domain error kind to an HTTP status. Unknown errors are
// reported as 500 without leaking their text.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	detail := "internal server error"

	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		status = http.StatusBadRequest
		detail = err.Error()
	case errors.Is(err, domain.ErrUnauthenticated):
		status = http.StatusUnauthorized
		detail = err.Error()
	case errors.Is(err, domain.ErrForbidden):
		status = http.StatusForbidden
		detail = err.Error()
	case errors.Is(err, domain.ErrNotFound):
		status = http.StatusNotFound
		detail = err.Error()
	case errors.Is(err, domain.ErrConflict), errors.Is(err, domain.ErrDuplicateFavorite):
		status = http.StatusConflict
		detail = err.Error()
	}
	writeJSON(w, status, errorResponse{Detail: detail})
}

func decodeBody(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return domain.ErrInvalidInput
	}
	return nil
}
