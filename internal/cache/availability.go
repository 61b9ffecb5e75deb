package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// AvailabilityCache is a short-TTL read cache for listing endpoints. The
// order pipeline never reads it: capacity decisions always go to the
// database.
type AvailabilityCache interface {
	Get(ctx context.Context, screeningID int64) (int, bool, error)
	Set(ctx context.Context, screeningID int64, seats int) error
	Invalidate(ctx context.Context, screeningIDs ...int64) error
}

const availabilityTTL = 10 * time.Second

type RedisAvailabilityCache struct {
	client *redis.Client
}

func NewRedisAvailabilityCache(client *redis.Client) AvailabilityCache {
	return &RedisAvailabilityCache{
		client: client,
	}
}

func (c *RedisAvailabilityCache) key(screeningID int64) string {
	return fmt.Sprintf("screening:%d:available_seats", screeningID)
}

func (c *RedisAvailabilityCache) Get(ctx context.Context, screeningID int64) (int, bool, error) {
	val, err := c.client.Get(ctx, c.key(screeningID)).Int()
	if err == redis.Nil {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	return val, true, nil
}

func (c *RedisAvailabilityCache) Set(ctx context.Context, screeningID int64, seats int) error {
	return c.client.Set(ctx, c.key(screeningID), seats, availabilityTTL).Err()
}

// Invalidate drops cached counts after a settlement changed consumption.
func (c *RedisAvailabilityCache) Invalidate(ctx context.Context, screeningIDs ...int64) error {
	keys := make([]string, 0, len(screeningIDs))
	for _, id := range screeningIDs {
		keys = append(keys, c.key(id))
	}
	if len(keys) == 0 {
		return nil
	}
	return c.client.Del(ctx, keys...).Err()
}
