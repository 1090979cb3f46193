package session

import (
	"fmt"

	"github.com/amoylab/tourdesk/internal/common/cnst"
	"github.com/amoylab/tourdesk/internal/common/config"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// NewStore creates a session store based on configuration. client may be nil
// unless the redis store is selected.
func NewStore(logger *zap.Logger, cfg *config.SessionConfig, client redis.UniversalClient, prefix string) (Store, error) {
	logger.Info("initializing session store", zap.String("type", cfg.Type))
	switch cfg.Type {
	case cnst.SessionStoreMemory, "":
		return NewMemoryStore(logger), nil
	case cnst.SessionStoreRedis:
		if client == nil {
			return nil, fmt.Errorf("redis session store requires a redis client")
		}
		return NewRedisStore(logger, client, prefix), nil
	default:
		return nil, fmt.Errorf("unsupported session store type: %s", cfg.Type)
	}
}
