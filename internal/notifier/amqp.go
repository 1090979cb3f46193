package notifier

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/amoylab/tourdesk/internal/common/cnst"
	"github.com/amoylab/tourdesk/internal/common/config"
	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

type amqpChannel interface {
	ExchangeDeclare(name, kind string, durable, autoDelete, internal, noWait bool, args amqp.Table) error
	QueueDeclare(name string, durable, autoDelete, exclusive, noWait bool, args amqp.Table) (amqp.Queue, error)
	QueueBind(name, key, exchange string, noWait bool, args amqp.Table) error
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

type amqpConn interface {
	Channel() (amqpChannel, error)
	IsClosed() bool
	Close() error
}

type amqpConnection struct{ *amqp.Connection }

func (c amqpConnection) Channel() (amqpChannel, error) {
	ch, err := c.Connection.Channel()
	if err != nil {
		return nil, err
	}
	return ch, nil
}

func dialAMQP(url string) (amqpConn, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, err
	}
	return amqpConnection{conn}, nil
}

// AMQPNotifier publishes events as persistent messages to a durable queue.
// With an exchange configured the queue is bound to it for every event type
// and messages are routed by type.
type AMQPNotifier struct {
	logger *zap.Logger
	cfg    config.AMQPConfig
	dial   func(url string) (amqpConn, error)

	mu   sync.Mutex
	conn amqpConn
	ch   amqpChannel
}

// NewAMQPNotifier creates an AMQP notifier. The connection is opened on
// first publish and reopened after failures.
func NewAMQPNotifier(logger *zap.Logger, cfg config.AMQPConfig) *AMQPNotifier {
	return &AMQPNotifier{
		logger: logger.Named("notifier.amqp"),
		cfg:    cfg,
		dial:   dialAMQP,
	}
}

func (a *AMQPNotifier) channel() (amqpChannel, error) {
	if a.ch != nil && a.conn != nil && !a.conn.IsClosed() {
		return a.ch, nil
	}
	a.reset()

	conn, err := a.dial(a.cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to dial amqp: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to open amqp channel: %w", err)
	}
	if _, err := ch.QueueDeclare(a.cfg.Queue, true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("failed to declare queue %s: %w", a.cfg.Queue, err)
	}
	if a.cfg.Exchange != "" {
		if err := ch.ExchangeDeclare(a.cfg.Exchange, "topic", true, false, false, false, nil); err != nil {
			_ = ch.Close()
			_ = conn.Close()
			return nil, fmt.Errorf("failed to declare exchange %s: %w", a.cfg.Exchange, err)
		}
		if err := ch.QueueBind(a.cfg.Queue, "#", a.cfg.Exchange, false, nil); err != nil {
			_ = ch.Close()
			_ = conn.Close()
			return nil, fmt.Errorf("failed to bind queue %s: %w", a.cfg.Queue, err)
		}
	}

	a.conn, a.ch = conn, ch
	a.logger.Info("connected to amqp broker", zap.String("queue", a.cfg.Queue))
	return ch, nil
}

func (a *AMQPNotifier) reset() {
	if a.ch != nil {
		_ = a.ch.Close()
	}
	if a.conn != nil {
		_ = a.conn.Close()
	}
	a.ch, a.conn = nil, nil
}

// Publish implements Notifier.Publish
func (a *AMQPNotifier) Publish(ctx context.Context, event *Event) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	ch, err := a.channel()
	if err != nil {
		return err
	}

	key := a.cfg.Queue
	if a.cfg.Exchange != "" {
		key = string(event.Type)
	}
	err = ch.PublishWithContext(ctx, a.cfg.Exchange, key, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    event.ID,
		Type:         string(event.Type),
		Timestamp:    time.Now().UTC(),
		Body:         body,
	})
	if err != nil {
		a.reset()
		return fmt.Errorf("failed to publish event: %w", err)
	}
	return nil
}

// Close releases the broker connection
func (a *AMQPNotifier) Close() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.reset()
	return nil
}

// Watch is not supported; consumers read the queue directly
func (a *AMQPNotifier) Watch(context.Context) (<-chan *Event, error) {
	return nil, cnst.ErrNotReceiver
}

func (a *AMQPNotifier) CanReceive() bool { return false }

func (a *AMQPNotifier) CanSend() bool { return true }
