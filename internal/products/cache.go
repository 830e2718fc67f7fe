package products

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	redislib "github.com/redis/go-redis/v9"

	redisclient "github.com/daajin/poultrystore-backend/pkg/redis"
)

const catalogCacheScope = "catalog"

// Cache is the storefront read-through cache for published catalog pages.
// Admin mutations invalidate the whole scope rather than tracking keys.
type Cache struct {
	client *redisclient.Client
	ttl    time.Duration
}

// NewCache wraps the Redis client with the catalog TTL. A nil client
// disables caching entirely.
func NewCache(client *redisclient.Client, ttl time.Duration) *Cache {
	if client == nil || ttl <= 0 {
		return nil
	}
	return &Cache{client: client, ttl: ttl}
}

// GetList returns the cached page for the filter, or ok=false on miss.
func (c *Cache) GetList(ctx context.Context, filter ListFilter) (*ListResult, bool) {
	if c == nil {
		return nil, false
	}
	raw, err := c.client.Get(ctx, c.listKey(filter))
	if err != nil {
		return nil, false
	}
	var result ListResult
	if err := json.Unmarshal([]byte(raw), &result); err != nil {
		return nil, false
	}
	return &result, true
}

// SetList stores the page under the filter's derived key.
func (c *Cache) SetList(ctx context.Context, filter ListFilter, result *ListResult) {
	if c == nil || result == nil {
		return
	}
	payload, err := json.Marshal(result)
	if err != nil {
		return
	}
	_ = c.client.Set(ctx, c.listKey(filter), payload, c.ttl)
}

// GetProduct returns the cached storefront product for the slug.
func (c *Cache) GetProduct(ctx context.Context, slug string) (*ProductDTO, bool) {
	if c == nil {
		return nil, false
	}
	raw, err := c.client.Get(ctx, c.client.CacheKey(catalogCacheScope, "product", slug))
	if err != nil {
		if !errors.Is(err, redislib.Nil) {
			return nil, false
		}
		return nil, false
	}
	var dto ProductDTO
	if err := json.Unmarshal([]byte(raw), &dto); err != nil {
		return nil, false
	}
	return &dto, true
}

// SetProduct stores the storefront product under its slug key.
func (c *Cache) SetProduct(ctx context.Context, slug string, dto *ProductDTO) {
	if c == nil || dto == nil {
		return
	}
	payload, err := json.Marshal(dto)
	if err != nil {
		return
	}
	_ = c.client.Set(ctx, c.client.CacheKey(catalogCacheScope, "product", slug), payload, c.ttl)
}

// InvalidateCatalog drops every cached catalog read.
func (c *Cache) InvalidateCatalog(ctx context.Context) error {
	if c == nil {
		return nil
	}
	return c.client.DelByPattern(ctx, c.client.CachePattern(catalogCacheScope))
}

func (c *Cache) listKey(filter ListFilter) string {
	category := ""
	if filter.CategoryID != nil {
		category = filter.CategoryID.String()
	}
	featured := ""
	if filter.Featured != nil {
		featured = fmt.Sprintf("%t", *filter.Featured)
	}
	raw := fmt.Sprintf("%s|%s|%s|%s|%d|%s",
		category, filter.CategorySlug, filter.Search, featured, filter.Limit, filter.Cursor)
	sum := sha256.Sum256([]byte(raw))
	return c.client.CacheKey(catalogCacheScope, "list", hex.EncodeToString(sum[:8]))
}
