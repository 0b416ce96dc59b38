package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/encounterhub/listing-service/internal/listing/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCache(t *testing.T) (*ListingCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	c, err := NewListingCache(mr.Addr())
	require.NoError(t, err)
	t.Cleanup(func() { c.Close() })
	return c, mr
}

func sampleListing(id string) *domain.Listing {
	age := 25
	return &domain.Listing{
		ID:          id,
		UserID:      "user-1",
		Title:       "Relaxing massage",
		Description: "Deep tissue and swedish",
		Category:    domain.CategoryMassage,
		Age:         &age,
		Price:       120,
		Images:      []string{"https://cdn.example.com/a.jpg"},
		Status:      domain.StatusApproved,
		CreatedAt:   time.Now().UTC().Truncate(time.Millisecond),
	}
}

func TestListingCache_SetAndGet(t *testing.T) {
	c, _ := newTestCache(t)
	ctx := context.Background()

	listing := sampleListing("abc-123")
	require.NoError(t, c.SetListing(ctx, listing))

	got, err := c.GetListing(ctx, "abc-123")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, listing.ID, got.ID)
	assert.Equal(t, listing.Title, got.Title)
	assert.Equal(t, listing.Status, got.Status)
	require.NotNil(t, got.Age)
	assert.Equal(t, 25, *got.Age)
}

func TestListingCache_MissReturnsNil(t *testing.T) {
	c, _ := newTestCache(t)

	got, err := c.GetListing(context.Background(), "missing")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestListingCache_Invalidate(t *testing.T) {
	c, _ := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, c.SetListing(ctx, sampleListing("abc-123")))
	require.NoError(t, c.Invalidate(ctx, "abc-123"))

	got, err := c.GetListing(ctx, "abc-123")
	require.NoError(t, err)
	assert.Nil(t, got)

	// invalidating an absent key is fine
	require.NoError(t, c.Invalidate(ctx, "abc-123"))
}

func TestListingCache_EntryExpires(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, c.SetListing(ctx, sampleListing("abc-123")))
	mr.FastForward(2 * time.Hour)

	got, err := c.GetListing(ctx, "abc-123")
	require.NoError(t, err)
	assert.Nil(t, got)
}
