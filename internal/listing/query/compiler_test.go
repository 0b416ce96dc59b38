package query

import (
	"testing"

	"github.com/encounterhub/listing-service/internal/listing/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func intPtr(v int) *int    { return &v }
func boolPtr(v bool) *bool { return &v }

func TestCompile_Defaults(t *testing.T) {
	plan := Compile(domain.Filter{})

	assert.Equal(t, bson.M{}, plan.Predicate)
	assert.Equal(t, int64(DefaultLimit), plan.Limit)
	assert.Equal(t, int64(0), plan.Skip)
	require.Len(t, plan.Sort, 2)
	assert.Equal(t, "created_at", plan.Sort[0].Key)
	assert.Equal(t, -1, plan.Sort[0].Value)
	assert.Equal(t, "_id", plan.Sort[1].Key)
}

func TestCompile_PaginationWindow(t *testing.T) {
	plan := Compile(domain.Filter{Page: 3, Limit: 10})
	assert.Equal(t, int64(20), plan.Skip)
	assert.Equal(t, int64(10), plan.Limit)

	// Page and limit below range normalize rather than error.
	plan = Compile(domain.Filter{Page: 0, Limit: -5})
	assert.Equal(t, int64(0), plan.Skip)
	assert.Equal(t, int64(DefaultLimit), plan.Limit)

	// A page past the last one compiles to a far skip; the repository then
	// returns an empty result, never an error.
	plan = Compile(domain.Filter{Page: 9999})
	assert.Equal(t, int64(9998*DefaultLimit), plan.Skip)
}

func TestPredicate_ExactFiltersComposeWithAND(t *testing.T) {
	p := Predicate(domain.Filter{
		Status:   domain.StatusApproved,
		Category: domain.CategoryMassage,
		Gender:   "Female",
		Race:     "African",
		UserID:   "user-7",
		Featured: boolPtr(true),
	})

	assert.Equal(t, bson.M{
		"status":   domain.StatusApproved,
		"category": domain.CategoryMassage,
		"gender":   "Female",
		"race":     "African",
		"user_id":  "user-7",
		"featured": true,
	}, p)
}

func TestPredicate_FeaturedFalseIsAnExactFilterToo(t *testing.T) {
	p := Predicate(domain.Filter{Featured: boolPtr(false)})
	assert.Equal(t, bson.M{"featured": false}, p)

	p = Predicate(domain.Filter{})
	_, ok := p["featured"]
	assert.False(t, ok, "unset featured must not filter")
}

func TestPredicate_LocationDeepestLevelWins(t *testing.T) {
	cases := []struct {
		name  string
		loc   domain.Location
		field string
		value string
	}{
		{"district beats city", domain.Location{Country: "France", Region: "Ile-de-France", City: "Paris", District: "Montmartre"}, "location.district", "Montmartre"},
		{"city beats region", domain.Location{Country: "France", Region: "Ile-de-France", City: "Paris"}, "location.city", "Paris"},
		{"region beats country", domain.Location{Country: "France", Region: "Ile-de-France"}, "location.region", "Ile-de-France"},
		{"country alone", domain.Location{Country: "France"}, "location.country", "France"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := Predicate(domain.Filter{Location: tc.loc})
			require.Len(t, p, 1, "only the deepest level may match")
			assert.Equal(t, tc.value, p[tc.field])
		})
	}

	p := Predicate(domain.Filter{})
	assert.Empty(t, p)
}

func TestPredicate_SearchIsCaseInsensitiveOverTitleOrDescription(t *testing.T) {
	p := Predicate(domain.Filter{Search: "tantric"})

	or, ok := p["$or"].(bson.A)
	require.True(t, ok)
	require.Len(t, or, 2)

	title := or[0].(bson.M)["title"].(primitive.Regex)
	desc := or[1].(bson.M)["description"].(primitive.Regex)
	assert.Equal(t, "tantric", title.Pattern)
	assert.Equal(t, "i", title.Options)
	assert.Equal(t, "tantric", desc.Pattern)
	assert.Equal(t, "i", desc.Options)
}

func TestPredicate_SearchEscapesRegexMetacharacters(t *testing.T) {
	p := Predicate(domain.Filter{Search: "a.b*c"})
	or := p["$or"].(bson.A)
	title := or[0].(bson.M)["title"].(primitive.Regex)
	assert.Equal(t, `a\.b\*c`, title.Pattern)
}

func TestPredicate_AgeBounds(t *testing.T) {
	p := Predicate(domain.Filter{MinAge: intPtr(21), MaxAge: intPtr(30)})
	assert.Equal(t, bson.M{"age": bson.M{"$gte": 21, "$lte": 30}}, p)

	p = Predicate(domain.Filter{MinAge: intPtr(21)})
	assert.Equal(t, bson.M{"age": bson.M{"$gte": 21}}, p)

	p = Predicate(domain.Filter{MaxAge: intPtr(30)})
	assert.Equal(t, bson.M{"age": bson.M{"$lte": 30}}, p)

	// No bounds: no age predicate, so ageless listings stay included.
	p = Predicate(domain.Filter{})
	_, ok := p["age"]
	assert.False(t, ok)
}

func TestPredicate_CountSharesListSemantics(t *testing.T) {
	f := domain.Filter{
		Status:   domain.StatusApproved,
		Category: domain.CategoryEscorts,
		Search:   "premium",
		MinAge:   intPtr(21),
		Page:     4,
		Limit:    8,
	}
	assert.Equal(t, Predicate(f.WithoutWindow()), Compile(f).Predicate,
		"stripping the window must not change the predicate")
}
