package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
)

const (
	// DefaultProductCacheTTL applies when the configured TTL is not positive.
	DefaultProductCacheTTL = 10 * time.Minute

	productCacheKey = "catalog:products"
)

// CachedProduct is the catalog read model stored in Redis.
type CachedProduct struct {
	ID    string          `json:"id"`
	Name  string          `json:"name"`
	Image string          `json:"image"`
	Price decimal.Decimal `json:"price"`
}

// ProductCache stores the whole catalog under one key as a JSON array.
// The catalog is small and always read in full.
type ProductCache struct {
	client *RedisClient
	ttl    time.Duration
}

// NewProductCache creates a ProductCache backed by the given RedisClient.
func NewProductCache(r *RedisClient, ttl time.Duration) *ProductCache {
	if ttl <= 0 {
		ttl = DefaultProductCacheTTL
	}
	return &ProductCache{client: r, ttl: ttl}
}

// Get returns the cached catalog.
// Returns redis.Nil error when the key does not exist or has expired.
func (c *ProductCache) Get(ctx context.Context) ([]CachedProduct, error) {
	raw, err := c.client.Client().Get(ctx, productCacheKey).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, redis.Nil
		}
		return nil, fmt.Errorf("cache get: %w", err)
	}

	var products []CachedProduct
	if err := json.Unmarshal(raw, &products); err != nil {
		return nil, fmt.Errorf("cache decode: %w", err)
	}
	return products, nil
}

// Set replaces the cached catalog and resets its TTL.
func (c *ProductCache) Set(ctx context.Context, products []CachedProduct) error {
	raw, err := json.Marshal(products)
	if err != nil {
		return fmt.Errorf("cache encode: %w", err)
	}
	if err := c.client.Client().Set(ctx, productCacheKey, raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("cache set: %w", err)
	}
	return nil
}

// Invalidate drops the cached catalog. Called after the seed is (re)applied.
func (c *ProductCache) Invalidate(ctx context.Context) error {
	if err := c.client.Client().Del(ctx, productCacheKey).Err(); err != nil {
		return fmt.Errorf("cache delete: %w", err)
	}
	return nil
}
