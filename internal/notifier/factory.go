package notifier

import (
	"context"
	"errors"
	"fmt"

	"github.com/amoylab/tourdesk/internal/common/cnst"
	"github.com/amoylab/tourdesk/internal/common/config"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// ErrRedisRequired is returned when a Redis notifier is configured without a
// Redis connection
var ErrRedisRequired = errors.New("redis notifier requires a redis connection")

// NewNotifier creates a new notifier based on the configuration. client may
// be nil when Redis is not configured.
func NewNotifier(ctx context.Context, logger *zap.Logger, cfg *config.NotifierConfig, client redis.UniversalClient) (Notifier, error) {
	switch cfg.Type {
	case "", cnst.NotifierTypeNone:
		return NoopNotifier{}, nil
	case cnst.NotifierTypeRedis:
		if client == nil {
			return nil, ErrRedisRequired
		}
		return NewRedisNotifier(logger, client, cfg.Redis.Stream, cfg.Redis.MaxLen), nil
	case cnst.NotifierTypeAMQP:
		return NewAMQPNotifier(logger, cfg.AMQP), nil
	case cnst.NotifierTypeComposite:
		notifiers := make([]Notifier, 0, 2)
		if client != nil {
			notifiers = append(notifiers, NewRedisNotifier(logger, client, cfg.Redis.Stream, cfg.Redis.MaxLen))
		}
		if cfg.AMQP.URL != "" {
			notifiers = append(notifiers, NewAMQPNotifier(logger, cfg.AMQP))
		}
		return NewCompositeNotifier(ctx, logger, notifiers...), nil
	default:
		return nil, fmt.Errorf("unknown notifier type: %s", cfg.Type)
	}
}
