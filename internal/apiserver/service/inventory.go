package service

import (
	"context"
	"time"

	"github.com/amoylab/tourdesk/internal/apiserver/database"
	"github.com/amoylab/tourdesk/internal/common/cnst"
	"github.com/amoylab/tourdesk/internal/inventory"
	"github.com/amoylab/tourdesk/internal/permission"
	"github.com/amoylab/tourdesk/internal/session"
	"github.com/amoylab/tourdesk/pkg/trace"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// InventoryInput sets the booked units of one room type over from..to.
// To defaults to From.
type InventoryInput struct {
	RoomTypeID  uint      `json:"roomTypeId"`
	From        time.Time `json:"from"`
	To          time.Time `json:"to"`
	BookedUnits int       `json:"bookedUnits"`
	Notes       string    `json:"notes"`
}

// RoomTypeMonth is the availability calendar of one room type
type RoomTypeMonth struct {
	RoomType *database.RoomType          `json:"roomType"`
	Days     []inventory.DayAvailability `json:"days"`
}

// SetBookedUnits records the booked units of a room type on one date. Last
// write wins.
func (s *Service) SetBookedUnits(ctx context.Context, sess *session.Session, hotelID, roomTypeID uint, date time.Time, units int, notes string) error {
	return s.SetBookedUnitsRange(ctx, sess, hotelID, InventoryInput{
		RoomTypeID:  roomTypeID,
		From:        date,
		To:          date,
		BookedUnits: units,
		Notes:       notes,
	})
}

// SetBookedUnitsRange validates the count once against the room-type
// capacity and upserts every day of the range
func (s *Service) SetBookedUnitsRange(ctx context.Context, sess *session.Session, hotelID uint, in InventoryInput) error {
	sc := trace.Tracer(cnst.TraceService).Start(ctx, cnst.SpanInventorySet).
		WithAttrs(attribute.Int64(cnst.AttrHotelID, int64(hotelID)), attribute.Int64(cnst.AttrRoomTypeID, int64(in.RoomTypeID)))
	defer sc.End()
	ctx = sc.Ctx

	if err := sess.Require(permission.ManageInventory); err != nil {
		return err
	}
	hotel, err := s.scopedHotel(ctx, sess, hotelID)
	if err != nil {
		return err
	}
	rt, err := s.roomTypeOf(ctx, hotelID, in.RoomTypeID)
	if err != nil {
		return err
	}
	if err := inventory.ValidateBookedUnits(in.BookedUnits, rt.TotalUnits); err != nil {
		s.metrics.InventoryWrite(err)
		return err
	}
	if in.To.IsZero() {
		in.To = in.From
	}
	days, err := inventory.Days(in.From, in.To)
	if err != nil {
		return err
	}

	err = s.db.Transaction(ctx, func(ctx context.Context) error {
		for _, d := range days {
			rec := &database.InventoryRecord{
				OrgID:         hotel.OrgID,
				HotelID:       hotelID,
				RoomTypeID:    rt.ID,
				InventoryDate: d,
				BookedUnits:   in.BookedUnits,
				Notes:         in.Notes,
			}
			if err := s.db.UpsertInventory(ctx, rec); err != nil {
				return err
			}
		}
		return nil
	})
	s.metrics.InventoryWrite(err)
	if err != nil {
		return sc.Fail(err)
	}
	s.logger.Debug("inventory updated",
		zap.Uint("hotel_id", hotelID),
		zap.Uint("room_type_id", rt.ID),
		zap.Int("days", len(days)),
		zap.Int("booked_units", in.BookedUnits))
	return nil
}

// GetForMonth returns one availability calendar per room type of a hotel
func (s *Service) GetForMonth(ctx context.Context, sess *session.Session, hotelID uint, year int, month time.Month) ([]RoomTypeMonth, error) {
	if err := sess.Require(permission.ViewHotels); err != nil {
		return nil, err
	}
	if month < time.January || month > time.December {
		return nil, inventory.ErrInvalidRange
	}
	if _, err := s.scopedHotel(ctx, sess, hotelID); err != nil {
		return nil, err
	}
	rts, err := s.db.ListRoomTypes(ctx, hotelID)
	if err != nil {
		return nil, err
	}
	first, last := inventory.MonthWindow(year, month)
	stored, err := s.db.ListInventoryForMonth(ctx, hotelID, first, last)
	if err != nil {
		return nil, err
	}
	records := make([]inventory.Record, 0, len(stored))
	for _, r := range stored {
		records = append(records, inventory.Record{
			RoomTypeID:  r.RoomTypeID,
			Date:        r.InventoryDate,
			BookedUnits: r.BookedUnits,
			Notes:       r.Notes,
		})
	}

	out := make([]RoomTypeMonth, 0, len(rts))
	for _, rt := range rts {
		out = append(out, RoomTypeMonth{
			RoomType: rt,
			Days:     inventory.Availability(records, rt.ID, rt.TotalUnits, year, month),
		})
	}
	return out, nil
}
