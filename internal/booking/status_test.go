package booking

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransitionTable(t *testing.T) {
	allowed := map[[2]Status]bool{
		{StatusPending, StatusConfirmed}:   true,
		{StatusPending, StatusCancelled}:   true,
		{StatusConfirmed, StatusCompleted}: true,
		{StatusConfirmed, StatusCancelled}: true,
	}
	all := []Status{StatusPending, StatusConfirmed, StatusCompleted, StatusCancelled}
	for _, from := range all {
		for _, to := range all {
			want := allowed[[2]Status{from, to}]
			assert.Equal(t, want, CanTransition(from, to), "%s -> %s", from, to)
			if want {
				assert.NoError(t, Transition(from, to))
			} else {
				assert.ErrorIs(t, Transition(from, to), ErrInvalidTransition, "%s -> %s", from, to)
			}
		}
	}
}

func TestTerminalStatesRejectEverything(t *testing.T) {
	for _, s := range []Status{StatusCompleted, StatusCancelled} {
		assert.True(t, IsTerminal(s))
		assert.Empty(t, NextStatuses(s))
		assert.ErrorIs(t, Transition(s, StatusPending), ErrInvalidTransition)
	}
	assert.False(t, IsTerminal(StatusPending))
	assert.False(t, IsTerminal(Status("archived")))
}

func TestTransitionUnknownTarget(t *testing.T) {
	assert.ErrorIs(t, Transition(StatusPending, Status("archived")), ErrUnknownStatus)
}

func TestNextStatusesReturnsCopy(t *testing.T) {
	next := NextStatuses(StatusPending)
	require.Len(t, next, 2)
	next[0] = StatusCompleted
	assert.Equal(t, []Status{StatusConfirmed, StatusCancelled}, NextStatuses(StatusPending))
}

func TestParseStatus(t *testing.T) {
	s, err := ParseStatus("confirmed")
	require.NoError(t, err)
	assert.Equal(t, StatusConfirmed, s)

	_, err = ParseStatus("CONFIRMED")
	assert.ErrorIs(t, err, ErrUnknownStatus)
}

func TestVoucherAvailability(t *testing.T) {
	assert.True(t, VoucherAvailable(StatusConfirmed))
	assert.False(t, VoucherAvailable(StatusPending))
	assert.False(t, VoucherAvailable(StatusCompleted))

	assert.NoError(t, CheckVoucherAllowed(StatusConfirmed))
	assert.ErrorIs(t, CheckVoucherAllowed(StatusPending), ErrVoucherRequiresConfirmed)
	assert.ErrorIs(t, CheckVoucherAllowed(StatusCancelled), ErrVoucherRequiresConfirmed)
}
