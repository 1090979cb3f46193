// Package cache keeps the user profiles and organizations that sessions are
// built from, so that an authenticated request does not hit the database
// twice before doing any work.
package cache

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/amoylab/tourdesk/internal/common/config"
	"github.com/amoylab/tourdesk/internal/common/rdb"
	"github.com/amoylab/tourdesk/internal/session"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// ProfileCache wraps a session.Loader with the multi-layer cache
type ProfileCache struct {
	logger     *zap.Logger
	multilayer *MultiLayerCache
	loader     session.Loader
}

var _ session.Loader = (*ProfileCache)(nil)

// ProfileCacheConfig holds configuration for the profile cache
type ProfileCacheConfig struct {
	RedisClient redis.Cmdable
	Prefix      string
	Cache       config.CacheConfig
	Loader      session.Loader
	Logger      *zap.Logger
}

// NewProfileCache creates a profile cache in front of cfg.Loader
func NewProfileCache(cfg ProfileCacheConfig) *ProfileCache {
	cacheConfig := MultiLayerCacheConfig{
		RedisClient: cfg.RedisClient,
		KeyPrefix:   rdb.Key(cfg.Prefix, "cache") + ":",
		L2TTL:       cfg.Cache.TTL,
	}
	if cfg.Cache.TTL > 0 && cfg.Cache.TTL < cacheConfig.L1TTL {
		cacheConfig.L1TTL = cfg.Cache.TTL
	}
	if cfg.RedisClient == nil {
		cacheConfig.L1TTL = cfg.Cache.TTL
	}

	return &ProfileCache{
		logger:     cfg.Logger.Named("cache.profile"),
		multilayer: NewMultiLayerCache(cacheConfig, cfg.Logger),
		loader:     cfg.Loader,
	}
}

func profileKey(userID uint) string {
	return fmt.Sprintf("profile:%d", userID)
}

func organizationKey(orgID uint) string {
	return fmt.Sprintf("organization:%d", orgID)
}

// LoadProfile implements session.Loader
func (pc *ProfileCache) LoadProfile(ctx context.Context, userID uint) (*session.Profile, error) {
	return load(ctx, pc, profileKey(userID), func(ctx context.Context) (*session.Profile, error) {
		return pc.loader.LoadProfile(ctx, userID)
	})
}

// LoadOrganization implements session.Loader
func (pc *ProfileCache) LoadOrganization(ctx context.Context, orgID uint) (*session.Organization, error) {
	return load(ctx, pc, organizationKey(orgID), func(ctx context.Context) (*session.Organization, error) {
		return pc.loader.LoadOrganization(ctx, orgID)
	})
}

func load[T any](ctx context.Context, pc *ProfileCache, key string, fetch func(context.Context) (*T, error)) (*T, error) {
	if data, ok := pc.multilayer.Get(ctx, key); ok {
		var v T
		if err := json.Unmarshal(data, &v); err == nil {
			return &v, nil
		}
		pc.logger.Warn("dropping undecodable cache entry", zap.String("key", key))
		_ = pc.multilayer.Delete(ctx, key)
	}

	v, err := fetch(ctx)
	if err != nil {
		return nil, err
	}

	data, err := json.Marshal(v)
	if err == nil {
		err = pc.multilayer.Set(ctx, key, data)
	}
	if err != nil {
		pc.logger.Warn("failed to cache entry", zap.String("key", key), zap.Error(err))
	}
	return v, nil
}

// InvalidateProfile drops the cached profile of userID
func (pc *ProfileCache) InvalidateProfile(ctx context.Context, userID uint) error {
	return pc.multilayer.Delete(ctx, profileKey(userID))
}

// InvalidateOrganization drops the cached organization orgID
func (pc *ProfileCache) InvalidateOrganization(ctx context.Context, orgID uint) error {
	return pc.multilayer.Delete(ctx, organizationKey(orgID))
}

// GetStats returns cache statistics
func (pc *ProfileCache) GetStats() CacheStats {
	return pc.multilayer.GetStats()
}

// Close releases the cache
func (pc *ProfileCache) Close() {
	pc.multilayer.Close()
}
