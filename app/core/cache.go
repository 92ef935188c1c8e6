package core

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cache wraps redis for small lookaside values such as cached schema
// suggestions. All methods are no-ops when redis is not configured.
type Cache struct {
	redis redis.UniversalClient
}

func (s *Core) Cache() *Cache {
	return &Cache{redis: s.redis}
}

func (c *Cache) Get(ctx context.Context, key string) (string, error) {
	if c.redis == nil {
		return "", nil
	}
	val, err := c.redis.Get(ctx, key).Result()
	if err == redis.Nil {
		return "", nil
	}
	return val, err
}

func (c *Cache) SetEx(ctx context.Context, key, value string, expiresAt time.Duration) error {
	if c.redis == nil {
		return nil
	}
	return c.redis.SetEx(ctx, key, value, expiresAt).Err()
}

func (c *Cache) Del(ctx context.Context, key string) error {
	if c.redis == nil {
		return nil
	}
	return c.redis.Del(ctx, key).Err()
}
