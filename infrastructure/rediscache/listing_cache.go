package rediscache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"resort/domain/catalog"
	"resort/pkg/logger"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// CachedListingFinder serves listings from Redis and fills misses from next.
// Lookup errors from next, not-found included, are never cached.
type CachedListingFinder struct {
	next   catalog.ListingFinder
	client redis.Cmdable
	ttl    time.Duration
}

func NewCachedListingFinder(next catalog.ListingFinder, client redis.Cmdable, ttl time.Duration) *CachedListingFinder {
	return &CachedListingFinder{next: next, client: client, ttl: ttl}
}

func (f *CachedListingFinder) RoomListing(ctx context.Context, id string) (*catalog.Listing, error) {
	return f.lookup(ctx, roomListingKey(id), func() (*catalog.Listing, error) {
		return f.next.RoomListing(ctx, id)
	})
}

func (f *CachedListingFinder) GameListing(ctx context.Context, id string) (*catalog.Listing, error) {
	return f.lookup(ctx, gameListingKey(id), func() (*catalog.Listing, error) {
		return f.next.GameListing(ctx, id)
	})
}

func (f *CachedListingFinder) lookup(ctx context.Context, key string, load func() (*catalog.Listing, error)) (*catalog.Listing, error) {
	log := logger.FromContext(ctx)

	raw, err := f.client.Get(ctx, key).Result()
	switch {
	case err == nil:
		var listing catalog.Listing
		if jsonErr := json.Unmarshal([]byte(raw), &listing); jsonErr == nil {
			return &listing, nil
		}
		log.Warn("Discarding undecodable cached listing", zap.String("key", key))
	case !errors.Is(err, redis.Nil):
		log.Warn("Listing cache read failed", zap.String("key", key), zap.Error(err))
	}

	listing, err := load()
	if err != nil {
		return nil, err
	}

	encoded, err := json.Marshal(listing)
	if err != nil {
		return listing, nil
	}
	if err := f.client.Set(ctx, key, string(encoded), f.ttl).Err(); err != nil {
		log.Warn("Listing cache write failed", zap.String("key", key), zap.Error(err))
	}
	return listing, nil
}

var _ catalog.ListingFinder = (*CachedListingFinder)(nil)
