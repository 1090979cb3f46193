// Package inventory holds the per-date room-type capacity rules.
package inventory

import (
	"errors"
	"fmt"
	"time"

	"github.com/jinzhu/now"
)

// DateLayout is the wire format of inventory dates
const DateLayout = "2006-01-02"

var (
	ErrNegativeUnits   = errors.New("booked units cannot be negative")
	ErrExceedsCapacity = errors.New("booked units exceed room type capacity")
	ErrInvalidRange    = errors.New("inventory range end is before its start")
	ErrRangeTooLong    = errors.New("inventory range is too long")
)

// MaxRangeDays bounds SetBookedUnitsRange
const MaxRangeDays = 366

// CapacityError reports booked units above the size of a room type
type CapacityError struct {
	Booked     int
	TotalUnits int
}

func (e *CapacityError) Error() string {
	return fmt.Sprintf("%s: %d > %d", ErrExceedsCapacity, e.Booked, e.TotalUnits)
}

func (e *CapacityError) Unwrap() error { return ErrExceedsCapacity }

// ValidateBookedUnits rejects counts outside [0, totalUnits]
func ValidateBookedUnits(booked, totalUnits int) error {
	if booked < 0 {
		return fmt.Errorf("%w: %d", ErrNegativeUnits, booked)
	}
	if booked > totalUnits {
		return &CapacityError{Booked: booked, TotalUnits: totalUnits}
	}
	return nil
}

// Record is one stored (room type, date) counter
type Record struct {
	RoomTypeID  uint
	Date        time.Time
	BookedUnits int
	Notes       string
}

// DayAvailability is the computed state of a room type on one day
type DayAvailability struct {
	Date        string `json:"date"`
	RoomTypeID  uint   `json:"roomTypeId"`
	TotalUnits  int    `json:"totalUnits"`
	BookedUnits int    `json:"bookedUnits"`
	Available   int    `json:"available"`
	Notes       string `json:"notes,omitempty"`
}

func clock(t time.Time) *now.Now {
	return now.With(t.UTC())
}

// MonthWindow returns the first and last calendar day of a month in UTC
func MonthWindow(year int, month time.Month) (time.Time, time.Time) {
	c := clock(time.Date(year, month, 1, 0, 0, 0, 0, time.UTC))
	first := c.BeginningOfMonth()
	last := c.EndOfMonth()
	return first, time.Date(last.Year(), last.Month(), last.Day(), 0, 0, 0, 0, time.UTC)
}

// Days lists every date from..to inclusive, truncated to midnight UTC
func Days(from, to time.Time) ([]time.Time, error) {
	from = clock(from).BeginningOfDay()
	to = clock(to).BeginningOfDay()
	if to.Before(from) {
		return nil, ErrInvalidRange
	}
	n := int(to.Sub(from).Hours()/24) + 1
	if n > MaxRangeDays {
		return nil, fmt.Errorf("%w: %d days", ErrRangeTooLong, n)
	}
	out := make([]time.Time, 0, n)
	for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
		out = append(out, d)
	}
	return out, nil
}

// Availability expands the stored records of one room type into one entry per
// day of the month. Days without a record have nothing booked.
func Availability(records []Record, roomTypeID uint, totalUnits, year int, month time.Month) []DayAvailability {
	byDay := make(map[string]Record, len(records))
	for _, r := range records {
		if r.RoomTypeID != roomTypeID {
			continue
		}
		byDay[r.Date.UTC().Format(DateLayout)] = r
	}

	first, last := MonthWindow(year, month)
	days, _ := Days(first, last)
	out := make([]DayAvailability, 0, len(days))
	for _, d := range days {
		key := d.Format(DateLayout)
		rec := byDay[key]
		out = append(out, DayAvailability{
			Date:        key,
			RoomTypeID:  roomTypeID,
			TotalUnits:  totalUnits,
			BookedUnits: rec.BookedUnits,
			Available:   totalUnits - rec.BookedUnits,
			Notes:       rec.Notes,
		})
	}
	return out
}

// ParseDate parses a YYYY-MM-DD inventory date
func ParseDate(s string) (time.Time, error) {
	return time.ParseInLocation(DateLayout, s, time.UTC)
}
