// Package cache holds the Redis connection shared by the catalog cache and
// the identity session store, and the catalog cache itself. Redis is
// optional: callers fall back to PostgreSQL and cookie sessions without it.
package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/ghuser/clickcollect/pkg/config"
)

const connectTimeout = 2 * time.Second

// RedisClient owns the process's Redis connection pool.
type RedisClient struct {
	client *redis.Client
}

// NewRedisClient connects to cfg.RedisURL and pings it. An error means the
// process should run without Redis.
func NewRedisClient(ctx context.Context, cfg *config.Config) (*RedisClient, error) {
	opts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	tune(opts)

	rdb := redis.NewClient(opts)
	pingCtx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("ping redis at %s: %w", opts.Addr, err)
	}
	return &RedisClient{client: rdb}, nil
}

// tune sizes the pool for one catalog key and one key per session, and
// keeps timeouts short so a slow Redis degrades to the database quickly.
func tune(opts *redis.Options) {
	opts.PoolSize = 10
	opts.MinIdleConns = 2
	opts.MaxRetries = 2
	opts.DialTimeout = connectTimeout
	opts.ReadTimeout = 500 * time.Millisecond
	opts.WriteTimeout = 500 * time.Millisecond
	opts.PoolTimeout = time.Second
}

// NewRedisClientFrom wraps an existing client.
func NewRedisClientFrom(c *redis.Client) *RedisClient {
	return &RedisClient{client: c}
}

// Ping reports whether Redis answers.
func (r *RedisClient) Ping(ctx context.Context) error {
	if err := r.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping: %w", err)
	}
	return nil
}

// Close releases the pool.
func (r *RedisClient) Close() error {
	if r.client == nil {
		return nil
	}
	if err := r.client.Close(); err != nil {
		return fmt.Errorf("redis close: %w", err)
	}
	return nil
}

// Client exposes the underlying client for the session store.
func (r *RedisClient) Client() *redis.Client {
	return r.client
}
