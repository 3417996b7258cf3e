package cache

import (
	"context"
	"sync"
	"time"

	"slotpoll/core/logger"

	"github.com/redis/go-redis/v9"
)

// Cache is the short-lived key store used for OAuth state tokens. States are
// one-time use: Take returns and deletes atomically enough for this purpose.
type Cache interface {
	SetOAuthState(ctx context.Context, state string, ttl time.Duration) error
	TakeOAuthState(ctx context.Context, state string) (bool, error)
	Close() error
}

const oauthStatePrefix = "oauth_state:"

// ===================== Redis =====================

type redisCache struct {
	client *redis.Client
}

// NewRedisCache connects to Redis and verifies the connection.
func NewRedisCache(ctx context.Context, addr, password string, db int) (Cache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		logger.Error("Cache:NewRedisCache:Ping", "error", err, "addr", addr)
		return nil, err
	}

	logger.Info("Cache:NewRedisCache:Connected", "addr", addr, "db", db)
	return &redisCache{client: client}, nil
}

func (c *redisCache) SetOAuthState(ctx context.Context, state string, ttl time.Duration) error {
	return c.client.Set(ctx, oauthStatePrefix+state, "1", ttl).Err()
}

func (c *redisCache) TakeOAuthState(ctx context.Context, state string) (bool, error) {
	deleted, err := c.client.Del(ctx, oauthStatePrefix+state).Result()
	if err != nil {
		return false, err
	}
	return deleted > 0, nil
}

func (c *redisCache) Close() error {
	return c.client.Close()
}

// ===================== Memory =====================

// memoryCache backs the same contract with a process-local map so the service
// runs without Redis. States do not survive restarts, which is acceptable for
// a ten-minute OAuth handshake.
type memoryCache struct {
	mu     sync.Mutex
	states map[string]time.Time
}

func NewMemoryCache() Cache {
	return &memoryCache{states: make(map[string]time.Time)}
}

func (c *memoryCache) SetOAuthState(_ context.Context, state string, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.states[state] = time.Now().Add(ttl)

	// Opportunistic sweep of expired entries.
	now := time.Now()
	for s, exp := range c.states {
		if exp.Before(now) {
			delete(c.states, s)
		}
	}
	return nil
}

func (c *memoryCache) TakeOAuthState(_ context.Context, state string) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	exp, ok := c.states[state]
	if !ok {
		return false, nil
	}
	delete(c.states, state)
	return exp.After(time.Now()), nil
}

func (c *memoryCache) Close() error {
	return nil
}
