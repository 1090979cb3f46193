// Package rdb builds the Redis client shared by the session store, the
// profile cache and the Redis stream notifier.
package rdb

import (
	"context"
	"errors"
	"fmt"

	"github.com/amoylab/tourdesk/internal/common/cnst"
	"github.com/amoylab/tourdesk/internal/common/config"
	"github.com/amoylab/tourdesk/pkg/utils"

	"github.com/redis/go-redis/v9"
)

// ErrNoAddr is returned when the configuration lists no Redis address
var ErrNoAddr = errors.New("redis address is not configured")

// NewClient connects to Redis in single, sentinel or cluster mode and pings it
func NewClient(ctx context.Context, cfg config.RedisConfig) (redis.UniversalClient, error) {
	addrs := cfg.Addrs
	if len(addrs) == 0 {
		addrs = utils.SplitByMultipleDelimiters(cfg.Addr, ",", ";")
	}
	if len(addrs) == 0 {
		return nil, ErrNoAddr
	}

	opts := &redis.UniversalOptions{
		Addrs:    addrs,
		Username: cfg.Username,
		Password: cfg.Password,
	}
	if cfg.ClusterType == cnst.RedisClusterTypeSentinel {
		opts.MasterName = cfg.MasterName
	}
	if cfg.ClusterType != cnst.RedisClusterTypeCluster {
		// db selection is not available in cluster mode
		opts.DB = cfg.DB
	}

	client := redis.NewUniversalClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	return client, nil
}

// Key joins prefix and parts with ':'
func Key(prefix string, parts ...string) string {
	key := prefix
	for _, p := range parts {
		if key == "" {
			key = p
			continue
		}
		key += ":" + p
	}
	return key
}
