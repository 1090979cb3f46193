package notifier

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// RedisNotifier implements Notifier using a Redis stream
type RedisNotifier struct {
	logger     *zap.Logger
	client     redis.UniversalClient
	streamName string
	maxLen     int64
}

// NewRedisNotifier creates a notifier on an existing Redis connection
func NewRedisNotifier(logger *zap.Logger, client redis.UniversalClient, streamName string, maxLen int64) *RedisNotifier {
	return &RedisNotifier{
		logger:     logger.Named("notifier.redis"),
		client:     client,
		streamName: streamName,
		maxLen:     maxLen,
	}
}

// Watch implements Notifier.Watch. Every watcher reads the stream
// independently from the moment it starts.
func (r *RedisNotifier) Watch(ctx context.Context) (<-chan *Event, error) {
	ch := make(chan *Event, 10)

	go func() {
		defer close(ch)

		lastID := "$"
		for {
			select {
			case <-ctx.Done():
				return
			default:
			}

			streams, err := r.client.XRead(ctx, &redis.XReadArgs{
				Streams: []string{r.streamName, lastID},
				Count:   10,
				Block:   time.Second,
			}).Result()
			if err != nil {
				if !errors.Is(err, redis.Nil) && ctx.Err() == nil {
					r.logger.Error("failed to read from stream", zap.Error(err))
					time.Sleep(100 * time.Millisecond)
				}
				continue
			}

			for _, stream := range streams {
				for _, message := range stream.Messages {
					lastID = message.ID

					raw, ok := message.Values["event"].(string)
					if !ok {
						continue
					}
					var ev Event
					if err := json.Unmarshal([]byte(raw), &ev); err != nil {
						r.logger.Error("failed to unmarshal event",
							zap.String("messageID", message.ID), zap.Error(err))
						continue
					}
					select {
					case ch <- &ev:
					case <-ctx.Done():
						return
					}
				}
			}
		}
	}()

	return ch, nil
}

// Publish implements Notifier.Publish
func (r *RedisNotifier) Publish(ctx context.Context, event *Event) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	_, err = r.client.XAdd(ctx, &redis.XAddArgs{
		Stream: r.streamName,
		MaxLen: r.maxLen,
		Approx: true,
		Values: map[string]interface{}{
			"type":  string(event.Type),
			"event": string(data),
		},
	}).Result()
	if err != nil {
		return fmt.Errorf("failed to add message to stream: %w", err)
	}
	return nil
}

// CanReceive returns true if the notifier can receive events
func (r *RedisNotifier) CanReceive() bool { return true }

// CanSend returns true if the notifier can send events
func (r *RedisNotifier) CanSend() bool { return true }
