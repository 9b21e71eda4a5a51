package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	pkgcache "github.com/ghuser/clickcollect/pkg/cache"
	"github.com/ghuser/clickcollect/pkg/logger"
	"github.com/ghuser/clickcollect/services/shopping/domain"
	"github.com/ghuser/clickcollect/services/shopping/domain/models"
	"github.com/ghuser/clickcollect/services/shopping/domain/repositories"
)

// CatalogService serves the product catalog through a read-through Redis
// cache. Cache failures degrade to Postgres reads; they never fail a request.
type CatalogService struct {
	repo  repositories.ProductRepository
	cache *pkgcache.ProductCache
	log   logger.Logger
}

// NewCatalogService returns a CatalogService. cache may be nil.
func NewCatalogService(repo repositories.ProductRepository, cache *pkgcache.ProductCache, log logger.Logger) *CatalogService {
	return &CatalogService{repo: repo, cache: cache, log: log}
}

// Products returns the catalog ordered by name:
//  1. Check Redis cache first.
//  2. On cache miss (or cache error), query Postgres.
//  3. Warm the cache with the Postgres result.
func (s *CatalogService) Products(ctx context.Context) ([]models.Product, error) {
	if s.cache != nil {
		cached, err := s.cache.Get(ctx)
		if err == nil {
			return fromCache(cached), nil
		}
		if !errors.Is(err, redis.Nil) {
			s.log.WarnContext(ctx, "catalog cache read failed, falling back to database", "error", err)
		}
	}

	products, err := s.repo.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, toCache(products)); err != nil {
			s.log.WarnContext(ctx, "catalog cache write failed", "error", err)
		}
	}
	return products, nil
}

// Product returns one catalog entry. A product missing from a stale cached
// catalog is looked up in the database before reporting ErrProductNotFound.
func (s *CatalogService) Product(ctx context.Context, id string) (*models.Product, error) {
	products, err := s.Products(ctx)
	if err != nil {
		return nil, err
	}
	for i := range products {
		if products[i].ID == id {
			return &products[i], nil
		}
	}

	p, err := s.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("get product: %w", err)
	}
	return p, nil
}

// Invalidate drops the cached catalog so the next read hits the database.
func (s *CatalogService) Invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx); err != nil {
		s.log.WarnContext(ctx, "catalog cache invalidation failed", "error", err)
	}
}

func fromCache(cached []pkgcache.CachedProduct) []models.Product {
	out := make([]models.Product, 0, len(cached))
	for _, c := range cached {
		out = append(out, models.Product{ID: c.ID, Name: c.Name, Image: c.Image, Price: c.Price})
	}
	return out
}

func toCache(products []models.Product) []pkgcache.CachedProduct {
	out := make([]pkgcache.CachedProduct, 0, len(products))
	for _, p := range products {
		out = append(out, pkgcache.CachedProduct{ID: p.ID, Name: p.Name, Image: p.Image, Price: p.Price})
	}
	return out
}
