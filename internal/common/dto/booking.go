package dto

import (
	"time"

	"github.com/amoylab/tourdesk/internal/inventory"
)

// StatusRequest moves a booking, quote or payment to another status
type StatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// BulkStatusRequest moves many bookings to the same status
type BulkStatusRequest struct {
	IDs    []uint `json:"ids"`
	Status string `json:"status" binding:"required"`
}

// BulkDeleteRequest deletes many bookings
type BulkDeleteRequest struct {
	IDs []uint `json:"ids"`
}

// InventoryRequest sets the booked units of a room type. Dates use the
// YYYY-MM-DD layout and To defaults to From.
type InventoryRequest struct {
	RoomTypeID  uint   `json:"roomTypeId" binding:"required"`
	From        string `json:"from" binding:"required"`
	To          string `json:"to"`
	BookedUnits int    `json:"bookedUnits"`
	Notes       string `json:"notes"`
}

// Range parses the requested dates
func (r *InventoryRequest) Range() (time.Time, time.Time, error) {
	from, err := inventory.ParseDate(r.From)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	if r.To == "" {
		return from, from, nil
	}
	to, err := inventory.ParseDate(r.To)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	return from, to, nil
}

// SendVoucherRequest emails a voucher. An empty To uses the client email of
// the booking.
type SendVoucherRequest struct {
	To string `json:"to"`
}
