// internal/recommend/cache.go
package recommend

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"donde-engine/internal/common/logger"
	"donde-engine/internal/models"
)

// Cache is the short-TTL response cache. Implementations must be safe for
// concurrent use; Get and Set never fail the request path.
type Cache interface {
	Get(ctx context.Context, key string) (*models.RecommendationResponse, bool)
	Set(ctx context.Context, key string, resp *models.RecommendationResponse)
}

// ==========================
// In-Memory Cache
// ==========================

type memoryEntry struct {
	resp      models.RecommendationResponse
	expiresAt time.Time
}

// MemoryCache is the single-process cache backend. Entries expire lazily on
// read.
type MemoryCache struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
	ttl     time.Duration
	now     func() time.Time
}

func NewMemoryCache(ttl time.Duration) *MemoryCache {
	return &MemoryCache{
		entries: make(map[string]memoryEntry),
		ttl:     ttl,
		now:     time.Now,
	}
}

// NewMemoryCacheWithClock injects the clock; expiry tests depend on it.
func NewMemoryCacheWithClock(ttl time.Duration, now func() time.Time) *MemoryCache {
	c := NewMemoryCache(ttl)
	c.now = now
	return c
}

func (c *MemoryCache) Get(ctx context.Context, key string) (*models.RecommendationResponse, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	if c.now().After(entry.expiresAt) {
		delete(c.entries, key)
		return nil, false
	}
	resp := entry.resp
	return &resp, true
}

func (c *MemoryCache) Set(ctx context.Context, key string, resp *models.RecommendationResponse) {
	if resp == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = memoryEntry{
		resp:      *resp,
		expiresAt: c.now().Add(c.ttl),
	}
}

// ==========================
// Redis Cache
// ==========================

const redisKeyPrefix = "donde:recommend:"

// RedisCache is the shared cache backend for multi-instance deployments.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
	logger logger.Logger
}

func NewRedisCache(client *redis.Client, ttl time.Duration, log logger.Logger) *RedisCache {
	return &RedisCache{
		client: client,
		ttl:    ttl,
		logger: log.WithFields(map[string]interface{}{"component": "cache"}),
	}
}

func (c *RedisCache) Get(ctx context.Context, key string) (*models.RecommendationResponse, bool) {
	raw, err := c.client.Get(ctx, redisKeyPrefix+key).Result()
	if err != nil {
		if err != redis.Nil {
			c.logger.Warn("cache read failed", map[string]interface{}{
				"error": err.Error(),
			})
		}
		return nil, false
	}

	var resp models.RecommendationResponse
	if err := json.Unmarshal([]byte(raw), &resp); err != nil {
		c.logger.Warn("cache entry corrupt", map[string]interface{}{
			"error": err.Error(),
		})
		return nil, false
	}
	return &resp, true
}

func (c *RedisCache) Set(ctx context.Context, key string, resp *models.RecommendationResponse) {
	if resp == nil {
		return
	}
	raw, err := json.Marshal(resp)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, redisKeyPrefix+key, raw, c.ttl).Err(); err != nil {
		c.logger.Warn("cache write failed", map[string]interface{}{
			"error": err.Error(),
		})
	}
}
