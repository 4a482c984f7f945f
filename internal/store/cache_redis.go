package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/mizulegendsstudios/mizu-notes-sub000/internal/config"
	"github.com/mizulegendsstudios/mizu-notes-sub000/internal/logger"
	"github.com/redis/go-redis/v9"
)

// redisCache is the Redis-backed implementation of [NoteCache]. Keys are
// opaque to this adapter; key layout is the service layer's concern.
type redisCache struct {
	client *redis.Client
	logger *logger.Logger
}

// NewRedisCache connects to Redis using the configured URL and verifies
// connectivity with a ping.
func NewRedisCache(cfg config.Redis, log *logger.Logger) (NoteCache, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err = client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("connect to redis: %w", err)
	}

	log.Info().Str("func", "NewRedisCache").Msg("connected to redis successfully")

	return &redisCache{
		client: client,
		logger: log,
	}, nil
}

// NewRedisCacheWithClient builds a cache from an existing client.
// Used by tests against miniredis.
func NewRedisCacheWithClient(client *redis.Client, log *logger.Logger) NoteCache {
	return &redisCache{
		client: client,
		logger: log,
	}
}

// Get returns the cached value for key, or [ErrCacheMiss] when absent.
func (c *redisCache) Get(ctx context.Context, key string) ([]byte, error) {
	value, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrCacheMiss
	}
	if err != nil {
		return nil, fmt.Errorf("cache get %q: %w", key, err)
	}

	return value, nil
}

// Set stores value under key with the given TTL.
func (c *redisCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := c.client.Set(ctx, key, value, ttl).Err(); err != nil {
		return fmt.Errorf("cache set %q: %w", key, err)
	}
	return nil
}

// Del removes key; absent keys are not an error.
func (c *redisCache) Del(ctx context.Context, key string) error {
	if err := c.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("cache del %q: %w", key, err)
	}
	return nil
}
