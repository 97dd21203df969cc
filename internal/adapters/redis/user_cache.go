package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	domainauth "github.com/financehub/financehub-web/internal/domain/auth"
)

const defaultUserCachePrefix = "financehub:current_user:"

// UserCache stores the current-user summary shown in the shell, keyed by session ID.
type UserCache struct {
	client redis.UniversalClient
	prefix string
}

// NewUserCache creates a Redis-backed current-user cache.
func NewUserCache(client redis.UniversalClient) *UserCache {
	return &UserCache{client: client, prefix: defaultUserCachePrefix}
}

func (c *UserCache) key(sessionID string) string { return c.prefix + sessionID }

// Get returns the cached user, or (nil, nil) on a miss.
func (c *UserCache) Get(ctx context.Context, sessionID string) (*domainauth.CurrentUser, error) {
	if sessionID == "" {
		return nil, nil
	}
	data, err := c.client.Get(ctx, c.key(sessionID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("redis get current user: %w", err)
	}

	var user domainauth.CurrentUser
	if err := json.Unmarshal(data, &user); err != nil {
		return nil, fmt.Errorf("unmarshal current user: %w", err)
	}
	return &user, nil
}

// Set stores user for ttl. A non-positive ttl is rejected.
func (c *UserCache) Set(ctx context.Context, sessionID string, user domainauth.CurrentUser, ttl time.Duration) error {
	if sessionID == "" {
		return errors.New("session ID cannot be empty")
	}
	if ttl <= 0 {
		return fmt.Errorf("invalid cache ttl %s", ttl)
	}
	data, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("marshal current user: %w", err)
	}
	if err := c.client.Set(ctx, c.key(sessionID), data, ttl).Err(); err != nil {
		return fmt.Errorf("redis set current user: %w", err)
	}
	return nil
}

func (c *UserCache) Delete(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return nil
	}
	if err := c.client.Del(ctx, c.key(sessionID)).Err(); err != nil {
		return fmt.Errorf("redis del current user: %w", err)
	}
	return nil
}
