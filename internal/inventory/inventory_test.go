package inventory

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateBookedUnits(t *testing.T) {
	assert.NoError(t, ValidateBookedUnits(0, 10))
	assert.NoError(t, ValidateBookedUnits(10, 10))
	assert.ErrorIs(t, ValidateBookedUnits(11, 10), ErrExceedsCapacity)
	assert.ErrorIs(t, ValidateBookedUnits(-1, 10), ErrNegativeUnits)
	assert.ErrorIs(t, ValidateBookedUnits(1, 0), ErrExceedsCapacity)
}

func TestMonthWindow(t *testing.T) {
	first, last := MonthWindow(2028, time.February)
	assert.Equal(t, "2028-02-01", first.Format(DateLayout))
	assert.Equal(t, "2028-02-29", last.Format(DateLayout))

	first, last = MonthWindow(2026, time.December)
	assert.Equal(t, "2026-12-01", first.Format(DateLayout))
	assert.Equal(t, "2026-12-31", last.Format(DateLayout))
}

func TestDays(t *testing.T) {
	from, _ := ParseDate("2026-03-30")
	to, _ := ParseDate("2026-04-02")
	days, err := Days(from, to)
	require.NoError(t, err)
	require.Len(t, days, 4)
	assert.Equal(t, "2026-04-01", days[2].Format(DateLayout))

	_, err = Days(to, from)
	assert.ErrorIs(t, err, ErrInvalidRange)

	_, err = Days(from, from.AddDate(2, 0, 0))
	assert.ErrorIs(t, err, ErrRangeTooLong)
}

func TestAvailability(t *testing.T) {
	d5, _ := ParseDate("2026-04-05")
	d6, _ := ParseDate("2026-04-06")
	records := []Record{
		{RoomTypeID: 7, Date: d5, BookedUnits: 3, Notes: "group"},
		{RoomTypeID: 7, Date: d6, BookedUnits: 10},
		{RoomTypeID: 8, Date: d5, BookedUnits: 1},
	}
	days := Availability(records, 7, 10, 2026, time.April)
	require.Len(t, days, 30)

	assert.Equal(t, 10, days[0].Available)
	assert.Equal(t, "2026-04-05", days[4].Date)
	assert.Equal(t, 3, days[4].BookedUnits)
	assert.Equal(t, 7, days[4].Available)
	assert.Equal(t, "group", days[4].Notes)
	assert.Equal(t, 0, days[5].Available)
	for _, d := range days {
		assert.GreaterOrEqual(t, d.Available, 0)
		assert.Equal(t, uint(7), d.RoomTypeID)
	}
}
