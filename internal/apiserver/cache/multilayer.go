package cache

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// CacheLayer represents the cache layer type
type CacheLayer string

const (
	L1Memory CacheLayer = "L1_MEMORY"
	L2Redis  CacheLayer = "L2_REDIS"
)

// CacheStats represents cache statistics
type CacheStats struct {
	L1Memory LayerStats `json:"l1Memory"`
	L2Redis  LayerStats `json:"l2Redis"`
	Total    TotalStats `json:"total"`
}

type LayerStats struct {
	Entries   int64 `json:"entries"`
	Hits      int64 `json:"hits"`
	Misses    int64 `json:"misses"`
	Evictions int64 `json:"evictions"`
}

type TotalStats struct {
	Hits       int64   `json:"hits"`
	Misses     int64   `json:"misses"`
	HitRate    float64 `json:"hitRate"`
	Operations int64   `json:"operations"`
}

type memoryEntry struct {
	data      []byte
	expiresAt time.Time
}

// MultiLayerCache keeps encoded values in process memory (L1) and, when a
// Redis client is given, in Redis (L2) so every replica shares them.
// The L1 TTL should stay short: invalidations only reach the local L1.
type MultiLayerCache struct {
	logger    *zap.Logger
	l2Cache   redis.Cmdable
	keyPrefix string
	l1TTL     time.Duration
	l2TTL     time.Duration
	maxL1     int
	now       func() time.Time

	mu    sync.Mutex
	items map[string]memoryEntry
	order []string

	statsMux sync.Mutex
	stats    CacheStats

	stop chan struct{}
	once sync.Once
}

// MultiLayerCacheConfig holds configuration for the cache
type MultiLayerCacheConfig struct {
	RedisClient redis.Cmdable
	KeyPrefix   string
	L1TTL       time.Duration
	L2TTL       time.Duration
	MaxL1Items  int
	// CleanupInterval of the L1 sweeper; zero disables the sweeper
	CleanupInterval time.Duration
}

// NewMultiLayerCache creates a new multi-layer cache instance
func NewMultiLayerCache(config MultiLayerCacheConfig, logger *zap.Logger) *MultiLayerCache {
	if config.L1TTL == 0 {
		config.L1TTL = 30 * time.Second
	}
	if config.L2TTL == 0 {
		config.L2TTL = 5 * time.Minute
	}
	if config.MaxL1Items == 0 {
		config.MaxL1Items = 10000
	}

	c := &MultiLayerCache{
		logger:    logger.Named("cache.multilayer"),
		l2Cache:   config.RedisClient,
		keyPrefix: config.KeyPrefix,
		l1TTL:     config.L1TTL,
		l2TTL:     config.L2TTL,
		maxL1:     config.MaxL1Items,
		now:       time.Now,
		items:     make(map[string]memoryEntry),
		stop:      make(chan struct{}),
	}
	if config.CleanupInterval > 0 {
		go c.startCleanupRoutine(config.CleanupInterval)
	}
	return c
}

// Get retrieves an item from cache, checking L1 first, then L2
func (c *MultiLayerCache) Get(ctx context.Context, key string) ([]byte, bool) {
	if data, ok := c.getFromL1(key); ok {
		c.updateStats(func(s *CacheStats) {
			s.L1Memory.Hits++
			s.Total.Hits++
			s.Total.Operations++
		})
		return data, true
	}

	if data, ok := c.getFromL2(ctx, key); ok {
		c.setToL1(key, data)
		c.updateStats(func(s *CacheStats) {
			s.L1Memory.Misses++
			s.L2Redis.Hits++
			s.Total.Hits++
			s.Total.Operations++
		})
		return data, true
	}

	c.updateStats(func(s *CacheStats) {
		s.L1Memory.Misses++
		s.L2Redis.Misses++
		s.Total.Misses++
		s.Total.Operations++
	})
	return nil, false
}

// Set stores an item in both layers
func (c *MultiLayerCache) Set(ctx context.Context, key string, data []byte) error {
	c.setToL1(key, data)
	if c.l2Cache == nil {
		return nil
	}
	if err := c.l2Cache.Set(ctx, c.redisKey(key), data, c.l2TTL).Err(); err != nil {
		return fmt.Errorf("failed to write L2 cache: %w", err)
	}
	return nil
}

// Delete removes an item from both cache layers
func (c *MultiLayerCache) Delete(ctx context.Context, key string) error {
	c.mu.Lock()
	c.deleteLocked(key)
	c.mu.Unlock()

	if c.l2Cache == nil {
		return nil
	}
	return c.l2Cache.Del(ctx, c.redisKey(key)).Err()
}

// GetStats returns current cache statistics
func (c *MultiLayerCache) GetStats() CacheStats {
	c.statsMux.Lock()
	stats := c.stats
	c.statsMux.Unlock()

	if stats.Total.Operations > 0 {
		stats.Total.HitRate = float64(stats.Total.Hits) / float64(stats.Total.Operations)
	}
	c.mu.Lock()
	stats.L1Memory.Entries = int64(len(c.items))
	c.mu.Unlock()
	return stats
}

// Close stops the background sweeper
func (c *MultiLayerCache) Close() {
	c.once.Do(func() { close(c.stop) })
}

func (c *MultiLayerCache) getFromL1(key string) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.items[key]
	if !ok {
		return nil, false
	}
	if !entry.expiresAt.After(c.now()) {
		c.deleteLocked(key)
		return nil, false
	}
	c.touchLocked(key)
	return entry.data, true
}

func (c *MultiLayerCache) setToL1(key string, data []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.items[key]; !exists && len(c.items) >= c.maxL1 {
		c.evictLRULocked()
	}
	c.items[key] = memoryEntry{data: data, expiresAt: c.now().Add(c.l1TTL)}
	c.touchLocked(key)
}

func (c *MultiLayerCache) getFromL2(ctx context.Context, key string) ([]byte, bool) {
	if c.l2Cache == nil {
		return nil, false
	}
	data, err := c.l2Cache.Get(ctx, c.redisKey(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false
	}
	if err != nil {
		c.logger.Error("failed to get from L2 cache",
			zap.String("key", key), zap.Error(err))
		return nil, false
	}
	return data, true
}

func (c *MultiLayerCache) redisKey(key string) string {
	return c.keyPrefix + key
}

func (c *MultiLayerCache) touchLocked(key string) {
	c.removeFromOrderLocked(key)
	c.order = append(c.order, key)
}

func (c *MultiLayerCache) removeFromOrderLocked(key string) {
	for i, k := range c.order {
		if k == key {
			c.order = append(c.order[:i], c.order[i+1:]...)
			return
		}
	}
}

func (c *MultiLayerCache) deleteLocked(key string) {
	if _, ok := c.items[key]; ok {
		delete(c.items, key)
		c.removeFromOrderLocked(key)
	}
}

func (c *MultiLayerCache) evictLRULocked() {
	if len(c.order) == 0 {
		return
	}
	lru := c.order[0]
	c.order = c.order[1:]
	delete(c.items, lru)
	c.updateStats(func(s *CacheStats) { s.L1Memory.Evictions++ })
}

func (c *MultiLayerCache) updateStats(fn func(*CacheStats)) {
	c.statsMux.Lock()
	defer c.statsMux.Unlock()
	fn(&c.stats)
}

func (c *MultiLayerCache) startCleanupRoutine(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-c.stop:
			return
		case <-ticker.C:
			c.cleanupExpiredEntries()
		}
	}
}

func (c *MultiLayerCache) cleanupExpiredEntries() int {
	now := c.now()
	c.mu.Lock()
	defer c.mu.Unlock()

	removed := 0
	for key, entry := range c.items {
		if !entry.expiresAt.After(now) {
			c.deleteLocked(key)
			removed++
		}
	}
	if removed > 0 {
		c.logger.Debug("cleaned up expired cache entries", zap.Int("count", removed))
	}
	return removed
}
