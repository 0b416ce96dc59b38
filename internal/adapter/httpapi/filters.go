package httpapi

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/encounterhub/listing-service/internal/listing/domain"
)

// parseFilter reads the recognized discovery query parameters. Unknown
// parameters are ignored; malformed values of recognized parameters are
// rejected.
func parseFilter(r *http.Request) (domain.Filter, error) {
	q := r.URL.Query()
	f := domain.Filter{
		Status:   domain.ListingStatus(q.Get("status")),
		Category: domain.Category(q.Get("category")),
		Gender:   q.Get("gender"),
		Race:     q.Get("race"),
		Search:   q.Get("search"),
		UserID:   q.Get("user_id"),
		Location: domain.Location{
			Country:  q.Get("country"),
			Region:   q.Get("region"),
			City:     q.Get("city"),
			District: q.Get("district"),
		},
	}

	var err error
	if f.MinAge, err = intParam(q.Get("min_age"), "min_age"); err != nil {
		return f, err
	}
	if f.MaxAge, err = intParam(q.Get("max_age"), "max_age"); err != nil {
		return f, err
	}
	if raw := q.Get("featured"); raw != "" {
		featured, err := strconv.ParseBool(raw)
		if err != nil {
			return f, fmt.Errorf("%w: featured must be a boolean", domain.ErrInvalidInput)
		}
		f.Featured = &featured
	}
	if f.Page, err = int64Param(q.Get("page"), "page"); err != nil {
		return f, err
	}
	if f.Limit, err = int64Param(q.Get("limit"), "limit"); err != nil {
		return f, err
	}
	return f, nil
}

func intParam(raw, name string) (*int, error) {
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %s must be an integer", domain.ErrInvalidInput, name)
	}
	return &v, nil
}

func int64Param(raw, name string) (int64, error) {
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || v < 0 {
		return 0, fmt.Errorf("%w: %s must be a non-negative integer", domain.ErrInvalidInput, name)
	}
	return v, nil
}
