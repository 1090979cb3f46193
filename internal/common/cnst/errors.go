package cnst

import "errors"

var (
	// ErrNotFound is returned by stores when a record does not exist
	ErrNotFound = errors.New("record not found")
	// ErrForbidden is returned when the session lacks a required capability
	ErrForbidden = errors.New("forbidden")
	// ErrOrgScope is returned when a record belongs to another organization
	ErrOrgScope = errors.New("record belongs to another organization")
	// ErrConflict is returned when a unique value is already taken
	ErrConflict = errors.New("conflict")
)

var (
	// ErrNotReceiver is returned when a notifier cannot consume events
	ErrNotReceiver = errors.New("notifier cannot receive events")
	// ErrNotSender is returned when a notifier cannot publish events
	ErrNotSender = errors.New("notifier cannot send events")
)
