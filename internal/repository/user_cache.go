package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"contacts_api/internal/models"
)

// RedisUserCache caches users by id so the per-request "current user"
// lookup does not hit the database every time.
type RedisUserCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisUserCache(client *redis.Client, ttl time.Duration) *RedisUserCache {
	return &RedisUserCache{client: client, ttl: ttl}
}

var _ UserCache = (*RedisUserCache)(nil)

func userKey(id int) string {
	return fmt.Sprintf("user:%d", id)
}

// Get returns the cached user or (nil, nil) on a miss.
func (c *RedisUserCache) Get(ctx context.Context, id int) (*models.User, error) {
	raw, err := c.client.Get(ctx, userKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("cache get user %d: %w", id, err)
	}

	var u models.User
	if err := json.Unmarshal(raw, &u); err != nil {
		// Treat a corrupt entry as a miss; the DB remains authoritative.
		return nil, nil
	}
	return &u, nil
}

// Set stores the user with the configured TTL.
func (c *RedisUserCache) Set(ctx context.Context, u *models.User) error {
	raw, err := json.Marshal(u)
	if err != nil {
		return fmt.Errorf("cache marshal user %d: %w", u.ID, err)
	}
	if err := c.client.Set(ctx, userKey(u.ID), raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("cache set user %d: %w", u.ID, err)
	}
	return nil
}
