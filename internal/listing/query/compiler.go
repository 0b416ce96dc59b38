// Package query compiles discovery filters into the query plan the listing
// repository executes. List and count both go through Predicate, so the total
// used for pagination can never drift from the page contents.
package query

import (
	"regexp"

	"github.com/encounterhub/listing-service/internal/listing/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// DefaultLimit is the application-wide page size.
const DefaultLimit = 16

// Plan is the compiled predicate + sort + pagination window for one query.
type Plan struct {
	Predicate bson.M
	Sort      bson.D
	Skip      int64
	Limit     int64
}

// Compile translates a filter into a Plan. Page is 1-indexed; out-of-range
// pages compile to a window past the last document, which simply returns an
// empty result.
func Compile(f domain.Filter) Plan {
	limit := f.Limit
	if limit <= 0 {
		limit = DefaultLimit
	}
	page := f.Page
	if page < 1 {
		page = 1
	}
	return Plan{
		Predicate: Predicate(f),
		// featured is a pure filter, not a ranking tier; newest first with
		// _id as the deterministic tie-break.
		Sort:  bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}},
		Skip:  (page - 1) * limit,
		Limit: limit,
	}
}

// Predicate builds the match document shared by list and count queries.
// All supplied options compose with logical AND.
func Predicate(f domain.Filter) bson.M {
	q := bson.M{}

	if f.Status != "" {
		q["status"] = f.Status
	}
	if f.Category != "" {
		q["category"] = f.Category
	}
	if f.Gender != "" {
		q["gender"] = f.Gender
	}
	if f.Race != "" {
		q["race"] = f.Race
	}
	if f.UserID != "" {
		q["user_id"] = f.UserID
	}
	if f.Featured != nil {
		q["featured"] = *f.Featured
	}

	if field, value := deepestLocation(f.Location); field != "" {
		q[field] = value
	}

	if f.Search != "" {
		pattern := primitive.Regex{Pattern: regexp.QuoteMeta(f.Search), Options: "i"}
		q["$or"] = bson.A{
			bson.M{"title": pattern},
			bson.M{"description": pattern},
		}
	}

	if f.MinAge != nil || f.MaxAge != nil {
		// Both bounds go through $gte/$lte on the age field; documents
		// without an age fail the comparison and are excluded, per contract.
		age := bson.M{}
		if f.MinAge != nil {
			age["$gte"] = *f.MinAge
		}
		if f.MaxAge != nil {
			age["$lte"] = *f.MaxAge
		}
		q["age"] = age
	}

	return q
}

// deepestLocation picks the narrowest supplied taxonomy level. A narrower
// field always wins and the broader ones are ignored for matching.
func deepestLocation(loc domain.Location) (field, value string) {
	switch {
	case loc.District != "":
		return "location.district", loc.District
	case loc.City != "":
		return "location.city", loc.City
	case loc.Region != "":
		return "location.region", loc.Region
	case loc.Country != "":
		return "location.country", loc.Country
	}
	return "", ""
}
