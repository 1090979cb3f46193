// Package notifier publishes booking domain events to the configured
// transports.
package notifier

import (
	"context"
	"time"

	"github.com/amoylab/tourdesk/internal/common/cnst"
	"github.com/google/uuid"
)

// EventType names a booking domain event
type EventType string

const (
	EventBookingCreated       EventType = "booking.created"
	EventBookingStatusChanged EventType = "booking.status_changed"
	EventBookingDeleted       EventType = "booking.deleted"
	EventVoucherIssued        EventType = "voucher.issued"
	EventVoucherSent          EventType = "voucher.sent"
	EventPaymentRecorded      EventType = "payment.recorded"
)

// Event is one published fact about a booking
type Event struct {
	ID         string         `json:"id"`
	Type       EventType      `json:"type"`
	OrgID      uint           `json:"orgId"`
	BookingID  uint           `json:"bookingId"`
	Reference  string         `json:"reference,omitempty"`
	From       string         `json:"from,omitempty"`
	To         string         `json:"to,omitempty"`
	ActorID    uint           `json:"actorId,omitempty"`
	Data       map[string]any `json:"data,omitempty"`
	OccurredAt time.Time      `json:"occurredAt"`
}

// NewEvent stamps a new event with an id and the current time
func NewEvent(t EventType, orgID, bookingID uint) *Event {
	return &Event{
		ID:         uuid.NewString(),
		Type:       t,
		OrgID:      orgID,
		BookingID:  bookingID,
		OccurredAt: time.Now().UTC(),
	}
}

// Notifier defines the interface for booking event delivery
type Notifier interface {
	// Watch returns a channel that receives published events
	Watch(ctx context.Context) (<-chan *Event, error)

	// Publish delivers an event
	Publish(ctx context.Context, event *Event) error

	// CanReceive returns true if the notifier can receive events
	CanReceive() bool

	// CanSend returns true if the notifier can send events
	CanSend() bool
}

// NoopNotifier drops every event
type NoopNotifier struct{}

func (NoopNotifier) Watch(context.Context) (<-chan *Event, error) { return nil, cnst.ErrNotReceiver }
func (NoopNotifier) Publish(context.Context, *Event) error        { return nil }
func (NoopNotifier) CanReceive() bool                             { return false }
func (NoopNotifier) CanSend() bool                                { return false }
