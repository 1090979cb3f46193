package notifier

import (
	"context"
	"errors"
	"sync"

	"github.com/amoylab/tourdesk/internal/common/cnst"
	"go.uber.org/zap"
)

// CompositeNotifier implements Notifier by combining multiple notifiers
type CompositeNotifier struct {
	logger    *zap.Logger
	notifiers []Notifier
	mu        sync.RWMutex
	watchers  map[chan<- *Event]struct{}
}

// NewCompositeNotifier creates a new composite notifier
func NewCompositeNotifier(ctx context.Context, logger *zap.Logger, notifiers ...Notifier) *CompositeNotifier {
	n := &CompositeNotifier{
		logger:    logger.Named("notifier.composite"),
		notifiers: notifiers,
		watchers:  make(map[chan<- *Event]struct{}),
	}

	if n.CanReceive() {
		go n.watch(ctx)
	}

	return n
}

func (n *CompositeNotifier) watch(ctx context.Context) {
	for _, notifier := range n.notifiers {
		if !notifier.CanReceive() {
			continue
		}

		notifierCh, err := notifier.Watch(ctx)
		if err != nil {
			n.logger.Error("failed to watch underlying notifier", zap.Error(err))
			continue
		}

		go func(notifierCh <-chan *Event) {
			for {
				select {
				case ev, ok := <-notifierCh:
					if !ok {
						return
					}
					n.notifyWatchers(ev)
				case <-ctx.Done():
					return
				}
			}
		}(notifierCh)
	}
}

// notifyWatchers sends the event to all registered watchers
func (n *CompositeNotifier) notifyWatchers(ev *Event) {
	n.mu.RLock()
	defer n.mu.RUnlock()

	for watcher := range n.watchers {
		select {
		case watcher <- ev:
		default:
			n.logger.Warn("watcher channel is full, skipping event",
				zap.String("event", string(ev.Type)), zap.String("id", ev.ID))
		}
	}
}

// Watch implements Notifier.Watch
func (n *CompositeNotifier) Watch(ctx context.Context) (<-chan *Event, error) {
	if !n.CanReceive() {
		return nil, cnst.ErrNotReceiver
	}

	n.mu.Lock()
	defer n.mu.Unlock()

	ch := make(chan *Event, 10)
	n.watchers[ch] = struct{}{}

	go func() {
		<-ctx.Done()
		n.mu.Lock()
		defer n.mu.Unlock()
		delete(n.watchers, ch)
		close(ch)
	}()

	return ch, nil
}

// Publish implements Notifier.Publish. Every sender is tried; the errors of
// the ones that failed are joined.
func (n *CompositeNotifier) Publish(ctx context.Context, event *Event) error {
	var errs []error
	for _, notifier := range n.notifiers {
		if !notifier.CanSend() {
			continue
		}
		if err := notifier.Publish(ctx, event); err != nil {
			errs = append(errs, err)
			n.logger.Error("failed to publish event",
				zap.String("event", string(event.Type)), zap.Error(err))
		}
	}
	return errors.Join(errs...)
}

// CanReceive returns true if any underlying notifier can receive events
func (n *CompositeNotifier) CanReceive() bool {
	for _, notifier := range n.notifiers {
		if notifier.CanReceive() {
			return true
		}
	}
	return false
}

// CanSend returns true if any underlying notifier can send events
func (n *CompositeNotifier) CanSend() bool {
	for _, notifier := range n.notifiers {
		if notifier.CanSend() {
			return true
		}
	}
	return false
}
