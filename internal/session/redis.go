package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/amoylab/tourdesk/internal/common/cnst"
	"github.com/amoylab/tourdesk/internal/common/rdb"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// RedisStore implements Store on a shared Redis client so that every apiserver
// replica sees the same overrides
type RedisStore struct {
	logger *zap.Logger
	client redis.UniversalClient
	prefix string
}

var _ Store = (*RedisStore)(nil)

// NewRedisStore wraps an already connected client
func NewRedisStore(logger *zap.Logger, client redis.UniversalClient, prefix string) *RedisStore {
	return &RedisStore{
		logger: logger.Named("session.store.redis"),
		client: client,
		prefix: rdb.Key(prefix, "session"),
	}
}

func (s *RedisStore) tierKey(sessionID string) string {
	return rdb.Key(s.prefix, sessionID, "tier")
}

// GetTier implements Store.GetTier
func (s *RedisStore) GetTier(ctx context.Context, sessionID string) (cnst.Tier, bool, error) {
	val, err := s.client.Get(ctx, s.tierKey(sessionID)).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to read tier override: %w", err)
	}
	return cnst.Tier(val), true, nil
}

// SetTier implements Store.SetTier
func (s *RedisStore) SetTier(ctx context.Context, sessionID string, tier cnst.Tier, ttl time.Duration) error {
	if err := s.client.Set(ctx, s.tierKey(sessionID), string(tier), ttl).Err(); err != nil {
		return fmt.Errorf("failed to store tier override: %w", err)
	}
	s.logger.Debug("stored tier override",
		zap.String("session_id", sessionID),
		zap.String("tier", string(tier)),
		zap.Duration("ttl", ttl))
	return nil
}

// Delete implements Store.Delete
func (s *RedisStore) Delete(ctx context.Context, sessionID string) error {
	if err := s.client.Del(ctx, s.tierKey(sessionID)).Err(); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}
