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

// ledgerTombstone replaces an invalidated snapshot for ledgerTombstoneTTL.
// Set only writes to an empty key, so a snapshot read before a commit cannot
// land in the cache after that commit invalidated it.
const (
	ledgerTombstone    = "invalidated"
	ledgerTombstoneTTL = 10 * time.Second
)

// LedgerCache keeps room ledger snapshots for the date picker.
type LedgerCache struct {
	client redis.Cmdable
	ttl    time.Duration
}

func NewLedgerCache(client redis.Cmdable, ttl time.Duration) *LedgerCache {
	return &LedgerCache{client: client, ttl: ttl}
}

func (c *LedgerCache) Get(ctx context.Context, roomID string) (*catalog.LedgerSnapshot, bool) {
	raw, err := c.client.Get(ctx, ledgerKey(roomID)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			logger.FromContext(ctx).Warn("Ledger cache read failed", zap.String("room_id", roomID), zap.Error(err))
		}
		return nil, false
	}
	if string(raw) == ledgerTombstone {
		return nil, false
	}

	var snapshot catalog.LedgerSnapshot
	if err := json.Unmarshal(raw, &snapshot); err != nil {
		return nil, false
	}
	return &snapshot, true
}

func (c *LedgerCache) Set(ctx context.Context, snapshot catalog.LedgerSnapshot) {
	encoded, err := json.Marshal(snapshot)
	if err != nil {
		return
	}
	if err := c.client.SetNX(ctx, ledgerKey(snapshot.RoomID), string(encoded), c.ttl).Err(); err != nil {
		logger.FromContext(ctx).Warn("Ledger cache write failed", zap.String("room_id", snapshot.RoomID), zap.Error(err))
	}
}

// Invalidate tombstones the ledger snapshot of every room and drops their
// listings in one DEL.
func (c *LedgerCache) Invalidate(ctx context.Context, roomIDs ...string) {
	if len(roomIDs) == 0 {
		return
	}
	log := logger.FromContext(ctx)

	listingKeys := make([]string, 0, len(roomIDs))
	for _, id := range roomIDs {
		if err := c.client.Set(ctx, ledgerKey(id), ledgerTombstone, ledgerTombstoneTTL).Err(); err != nil {
			log.Warn("Ledger cache invalidation failed", zap.String("room_id", id), zap.Error(err))
		}
		listingKeys = append(listingKeys, roomListingKey(id))
	}
	if err := c.client.Del(ctx, listingKeys...).Err(); err != nil {
		log.Warn("Listing cache invalidation failed", zap.Strings("keys", listingKeys), zap.Error(err))
	}
}

var _ catalog.LedgerCache = (*LedgerCache)(nil)
