package services

import (
	"context"
	"fmt"
	"time"

	"luckyspin/config"

	"github.com/redis/go-redis/v9"
)

// Cache wraps redis for the hot-path bookkeeping that does not belong in the
// ledger: request rate limiting and short-lived locks around payment
// confirmations.
type Cache struct {
	client *redis.Client
}

func NewCache(cfg *config.Config) (*Cache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisURL,
		Password: cfg.RedisPass,
	})
	if _, err := client.Ping(context.Background()).Result(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	return &Cache{client: client}, nil
}

// Allow implements a fixed-window counter per user and action.
func (c *Cache) Allow(ctx context.Context, userID, action string, limit int64, window time.Duration) (bool, error) {
	key := fmt.Sprintf("ratelimit:%s:%s", userID, action)
	count, err := c.client.Incr(ctx, key).Result()
	if err != nil {
		return false, err
	}
	if count == 1 {
		c.client.Expire(ctx, key, window)
	}
	return count <= limit, nil
}

// AcquireConfirmLock takes a short exclusive lock on a payment reference so
// a webhook and the reconciler do not process the same confirmation
// simultaneously. The ledger stays idempotent without it; the lock just
// avoids burning conflict retries.
func (c *Cache) AcquireConfirmLock(ctx context.Context, reference string, ttl time.Duration) (bool, error) {
	return c.client.SetNX(ctx, "confirmlock:"+reference, 1, ttl).Result()
}

func (c *Cache) ReleaseConfirmLock(ctx context.Context, reference string) {
	c.client.Del(ctx, "confirmlock:"+reference)
}
