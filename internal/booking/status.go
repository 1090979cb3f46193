// Package booking holds the booking lifecycle rules: the status transition
// table, creation validation, line-item decoding and the guards that gate
// quotes, vouchers and payments on booking state.
package booking

import (
	"errors"
	"fmt"
)

// Status is the lifecycle state of a booking
type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

var (
	// ErrInvalidTransition is returned for any move missing from the table
	ErrInvalidTransition = errors.New("invalid status transition")
	// ErrUnknownStatus is returned for values outside the status domain
	ErrUnknownStatus = errors.New("unknown booking status")
	// ErrBookingClosed is returned for edits to completed or cancelled bookings
	ErrBookingClosed = errors.New("booking is closed")
)

// TransitionError describes a rejected move of a booking, quote or payment.
// It unwraps to the sentinel of the state machine that rejected it.
type TransitionError struct {
	From string
	To   string
	Err  error
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("%s: %s -> %s", e.Err, e.From, e.To)
}

func (e *TransitionError) Unwrap() error { return e.Err }

// transitions is the complete set of allowed moves. Terminal states map to
// an empty list.
var transitions = map[Status][]Status{
	StatusPending:   {StatusConfirmed, StatusCancelled},
	StatusConfirmed: {StatusCompleted, StatusCancelled},
	StatusCompleted: {},
	StatusCancelled: {},
}

// ParseStatus validates a raw status value
func ParseStatus(s string) (Status, error) {
	st := Status(s)
	if _, ok := transitions[st]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownStatus, s)
	}
	return st, nil
}

// CanTransition reports whether from -> to is in the table
func CanTransition(from, to Status) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// Transition returns nil when from -> to is allowed and a wrapped
// ErrInvalidTransition otherwise
func Transition(from, to Status) error {
	if _, ok := transitions[to]; !ok {
		return fmt.Errorf("%w: %q", ErrUnknownStatus, to)
	}
	if !CanTransition(from, to) {
		return &TransitionError{From: string(from), To: string(to), Err: ErrInvalidTransition}
	}
	return nil
}

// NextStatuses lists the statuses reachable from s
func NextStatuses(s Status) []Status {
	next := transitions[s]
	out := make([]Status, len(next))
	copy(out, next)
	return out
}

// IsTerminal reports whether s has no outbound transitions
func IsTerminal(s Status) bool {
	next, ok := transitions[s]
	return ok && len(next) == 0
}

// VoucherAvailable reports whether a voucher may be issued in state s
func VoucherAvailable(s Status) bool {
	return s == StatusConfirmed
}
