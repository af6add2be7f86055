package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/tair/shopfront/internal/shop/domain"
	"github.com/tair/shopfront/pkg/circuitbreaker"
	"github.com/tair/shopfront/pkg/logger"
)

const (
	productKeyPrefix = "catalog:product:"
	listKeyPrefix    = "catalog:list:"
)

// CachedProductRepository is a read-through Redis cache in front of the
// catalog. Redis trouble never fails a read: the breaker trips and reads go
// straight to the store until Redis recovers.
type CachedProductRepository struct {
	next    domain.ProductRepository
	redis   *redis.Client
	ttl     time.Duration
	breaker *circuitbreaker.Breaker
}

func NewCachedProductRepository(next domain.ProductRepository, client *redis.Client, ttl time.Duration, breaker *circuitbreaker.Breaker) *CachedProductRepository {
	return &CachedProductRepository{next: next, redis: client, ttl: ttl, breaker: breaker}
}

// Create writes through and drops every cached listing.
func (r *CachedProductRepository) Create(ctx context.Context, product *domain.Product) error {
	if err := r.next.Create(ctx, product); err != nil {
		return err
	}
	if err := r.invalidate(ctx, listKeyPrefix+"*"); err != nil {
		logger.Warn(ctx).Err(err).Msg("Failed to invalidate catalog listings")
	}
	return nil
}

func (r *CachedProductRepository) FindByID(ctx context.Context, id string) (*domain.Product, error) {
	var cached domain.Product
	if r.get(ctx, productKeyPrefix+id, &cached) {
		return &cached, nil
	}
	product, err := r.next.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	r.set(ctx, productKeyPrefix+id, product)
	return product, nil
}

// FindByIDs is served per id from the cache, with a single store query for
// the misses.
func (r *CachedProductRepository) FindByIDs(ctx context.Context, ids []string) ([]domain.Product, error) {
	found := make(map[string]domain.Product, len(ids))
	var misses []string
	for _, id := range ids {
		var p domain.Product
		if r.get(ctx, productKeyPrefix+id, &p) {
			found[id] = p
			continue
		}
		misses = append(misses, id)
	}
	if len(misses) > 0 {
		fetched, err := r.next.FindByIDs(ctx, misses)
		if err != nil {
			return nil, err
		}
		for i := range fetched {
			found[fetched[i].ID] = fetched[i]
			r.set(ctx, productKeyPrefix+fetched[i].ID, &fetched[i])
		}
	}

	out := make([]domain.Product, 0, len(found))
	for _, id := range ids {
		if p, ok := found[id]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *CachedProductRepository) FindAll(ctx context.Context) ([]domain.Product, error) {
	return r.list(ctx, listKeyPrefix+"all", func() ([]domain.Product, error) {
		return r.next.FindAll(ctx)
	})
}

func (r *CachedProductRepository) FindByCategory(ctx context.Context, pattern string, caseInsensitive bool) ([]domain.Product, error) {
	keyPattern := pattern
	if caseInsensitive {
		keyPattern = strings.ToLower(pattern)
	}
	key := fmt.Sprintf("%scategory:%t:%s", listKeyPrefix, caseInsensitive, keyPattern)
	return r.list(ctx, key, func() ([]domain.Product, error) {
		return r.next.FindByCategory(ctx, pattern, caseInsensitive)
	})
}

func (r *CachedProductRepository) list(ctx context.Context, key string, load func() ([]domain.Product, error)) ([]domain.Product, error) {
	var cached []domain.Product
	if r.get(ctx, key, &cached) {
		return cached, nil
	}
	products, err := load()
	if err != nil {
		return nil, err
	}
	r.set(ctx, key, products)
	return products, nil
}

// get reports a cache hit. Misses, decode failures and an open breaker all
// read as a miss.
func (r *CachedProductRepository) get(ctx context.Context, key string, dst interface{}) bool {
	var raw []byte
	err := r.breaker.Call(func() error {
		b, err := r.redis.Get(ctx, key).Bytes()
		if errors.Is(err, redis.Nil) {
			return nil
		}
		raw = b
		return err
	})
	if err != nil {
		if !errors.Is(err, circuitbreaker.ErrOpen) {
			logger.Warn(ctx).Err(err).Str("cache_key", key).Msg("Catalog cache read failed")
		}
		return false
	}
	if raw == nil {
		logger.Debug(ctx).Str("cache_key", key).Msg("Cache miss")
		return false
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		logger.Warn(ctx).Err(err).Str("cache_key", key).Msg("Dropping undecodable cache entry")
		return false
	}
	logger.Debug(ctx).Str("cache_key", key).Msg("Cache hit")
	return true
}

func (r *CachedProductRepository) set(ctx context.Context, key string, value interface{}) {
	payload, err := json.Marshal(value)
	if err != nil {
		return
	}
	err = r.breaker.Call(func() error {
		return r.redis.Set(ctx, key, payload, r.ttl).Err()
	})
	if err != nil && !errors.Is(err, circuitbreaker.ErrOpen) {
		logger.Warn(ctx).Err(err).Str("cache_key", key).Msg("Failed to cache catalog entry")
	}
}

func (r *CachedProductRepository) invalidate(ctx context.Context, pattern string) error {
	return r.breaker.Call(func() error {
		iter := r.redis.Scan(ctx, 0, pattern, 0).Iterator()
		var keys []string
		for iter.Next(ctx) {
			keys = append(keys, iter.Val())
		}
		if err := iter.Err(); err != nil {
			return err
		}
		if len(keys) == 0 {
			return nil
		}
		return r.redis.Del(ctx, keys...).Err()
	})
}
