package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/encounterhub/listing-service/internal/listing/domain"
	"github.com/redis/go-redis/v9"
)

const (
	keyPrefix  = "listing:"
	defaultTTL = 1 * time.Hour
)

// ListingCache is a read-through cache for listing detail fetches. Every
// mutation path invalidates; staleness is bounded by the TTL either way.
type ListingCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewListingCache(addr string) (*ListingCache, error) {
	client := redis.NewClient(&redis.Options{Addr: addr})
	if _, err := client.Ping(context.Background()).Result(); err != nil {
		return nil, err
	}
	return &ListingCache{client: client, ttl: defaultTTL}, nil
}

// GetListing returns the cached listing or (nil, nil) on a miss.
func (c *ListingCache) GetListing(ctx context.Context, id string) (*domain.Listing, error) {
	data, err := c.client.Get(ctx, keyPrefix+id).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var listing domain.Listing
	if err := json.Unmarshal(data, &listing); err != nil {
		return nil, err
	}
	return &listing, nil
}

func (c *ListingCache) SetListing(ctx context.Context, listing *domain.Listing) error {
	data, err := json.Marshal(listing)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, keyPrefix+listing.ID, data, c.ttl).Err()
}

// Invalidate drops the cached entry; a miss is not an error.
func (c *ListingCache) Invalidate(ctx context.Context, id string) error {
	return c.client.Del(ctx, keyPrefix+id).Err()
}

func (c *ListingCache) Close() error {
	return c.client.Close()
}
