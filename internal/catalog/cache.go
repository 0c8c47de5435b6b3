package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/parkeasy/parkeasy-backend/internal/models"
	"github.com/redis/go-redis/v9"
)

// RedisCache keeps mapped remote catalogs in Redis
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisCache creates a new Redis-backed catalog cache
func NewRedisCache(client *redis.Client, ttl time.Duration) *RedisCache {
	return &RedisCache{
		client: client,
		ttl:    ttl,
	}
}

func cacheKey(cityID string) string {
	return fmt.Sprintf("catalog:%s", cityID)
}

// Get returns the cached catalog; ok is false on a miss
func (c *RedisCache) Get(ctx context.Context, cityID string) ([]models.ParkingSpot, bool, error) {
	data, err := c.client.Get(ctx, cacheKey(cityID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read catalog cache: %w", err)
	}

	var spots []models.ParkingSpot
	if err := json.Unmarshal(data, &spots); err != nil {
		return nil, false, fmt.Errorf("failed to decode cached catalog: %w", err)
	}
	return spots, true, nil
}

// Set stores a catalog for the configured TTL
func (c *RedisCache) Set(ctx context.Context, cityID string, spots []models.ParkingSpot) error {
	data, err := json.Marshal(spots)
	if err != nil {
		return fmt.Errorf("failed to encode catalog: %w", err)
	}
	if err := c.client.Set(ctx, cacheKey(cityID), data, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to write catalog cache: %w", err)
	}
	return nil
}

// Invalidate drops the cached catalog of a city
func (c *RedisCache) Invalidate(ctx context.Context, cityID string) error {
	return c.client.Del(ctx, cacheKey(cityID)).Err()
}
