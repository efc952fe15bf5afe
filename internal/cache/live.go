package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"service-dispatch/internal/domain"
)

// RedisLiveCache stores the single most-recent position per courier under a
// bounded TTL. A missing or expired key is a cache miss, not an error.
type RedisLiveCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisLiveCache creates a live-position cache with the given TTL.
func NewRedisLiveCache(client *redis.Client, ttl time.Duration) *RedisLiveCache {
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	return &RedisLiveCache{client: client, ttl: ttl}
}

func liveKey(courierID int64) string {
	return fmt.Sprintf("courier:live:%d", courierID)
}

// SetLive writes the live position, resetting its TTL.
func (c *RedisLiveCache) SetLive(ctx context.Context, pos *domain.Position) error {
	payload, err := json.Marshal(pos)
	if err != nil {
		return fmt.Errorf("marshal live position: %w", err)
	}
	if err := c.client.Set(ctx, liveKey(pos.CourierID), payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("set live position for courier %d: %w", pos.CourierID, err)
	}
	return nil
}

// GetLive returns the cached live position, or nil on a cache miss.
func (c *RedisLiveCache) GetLive(ctx context.Context, courierID int64) (*domain.Position, error) {
	payload, err := c.client.Get(ctx, liveKey(courierID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("get live position for courier %d: %w", courierID, err)
	}

	var pos domain.Position
	if err := json.Unmarshal(payload, &pos); err != nil {
		return nil, fmt.Errorf("decode live position for courier %d: %w", courierID, err)
	}
	return &pos, nil
}
