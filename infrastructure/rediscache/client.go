// Package rediscache puts Redis in front of catalog reads and carries
// outbox events to Redis pub/sub.
//
// Every cache in this package is best effort: a Redis failure is logged and
// the caller falls through to the database.
package rediscache

import (
	"context"
	"fmt"
	"time"

	"resort/config"
	"resort/pkg/logger"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	roomListingKeyPrefix = "listing:room:"
	gameListingKeyPrefix = "listing:game:"
	ledgerKeyPrefix      = "ledger:room:"
)

func roomListingKey(id string) string { return roomListingKeyPrefix + id }
func gameListingKey(id string) string { return gameListingKeyPrefix + id }
func ledgerKey(id string) string      { return ledgerKeyPrefix + id }

// NewClient connects and pings once.
func NewClient(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", cfg.Addr, err)
	}

	logger.Info("Redis connected", zap.String("addr", cfg.Addr), zap.Int("db", cfg.DB))
	return client, nil
}
