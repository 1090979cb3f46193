package database

import (
	"context"
	"strings"

	"github.com/amoylab/tourdesk/internal/booking"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

func (s *Store) CreateHotel(ctx context.Context, hotel *Hotel) error {
	return translate(s.conn(ctx).Create(hotel).Error, "failed to create hotel")
}

func (s *Store) GetHotel(ctx context.Context, id uint) (*Hotel, error) {
	return first[Hotel](ctx, s.conn(ctx), "hotel", "id = ?", id)
}

func (s *Store) ListHotels(ctx context.Context, orgID uint) ([]*Hotel, error) {
	var hotels []*Hotel
	q := s.conn(ctx).Order("name asc")
	if orgID != 0 {
		q = q.Where("org_id = ?", orgID)
	}
	err := q.Find(&hotels).Error
	return hotels, translate(err, "failed to list hotels")
}

func (s *Store) CreateRoomType(ctx context.Context, rt *RoomType) error {
	return translate(s.conn(ctx).Create(rt).Error, "failed to create room type")
}

func (s *Store) GetRoomType(ctx context.Context, id uint) (*RoomType, error) {
	return first[RoomType](ctx, s.conn(ctx), "room type", "id = ?", id)
}

func (s *Store) ListRoomTypes(ctx context.Context, hotelID uint) ([]*RoomType, error) {
	var rts []*RoomType
	err := s.conn(ctx).Where("hotel_id = ?", hotelID).Order("name asc").Find(&rts).Error
	return rts, translate(err, "failed to list room types")
}

func (s *Store) CreateQuote(ctx context.Context, quote *Quote) error {
	return translate(s.conn(ctx).Create(quote).Error, "failed to create quote")
}

func (s *Store) GetQuote(ctx context.Context, id uint) (*Quote, error) {
	return first[Quote](ctx, s.conn(ctx), "quote", "id = ?", id)
}

func (s *Store) ListQuotes(ctx context.Context, orgID uint) ([]*Quote, error) {
	var quotes []*Quote
	q := s.conn(ctx).Order("created_at desc")
	if orgID != 0 {
		q = q.Where("org_id = ?", orgID)
	}
	err := q.Find(&quotes).Error
	return quotes, translate(err, "failed to list quotes")
}

func (s *Store) UpdateQuoteStatus(ctx context.Context, id uint, status string) error {
	res := s.conn(ctx).Model(&Quote{}).Where("id = ?", id).Update("status", status)
	return affected(res, "quote")
}

func (s *Store) CreateBooking(ctx context.Context, b *Booking, actorID uint) error {
	return s.Transaction(ctx, func(ctx context.Context) error {
		db := s.conn(ctx)
		if err := db.Create(b).Error; err != nil {
			return translate(err, "failed to create booking")
		}
		ev := &BookingStatusEvent{BookingID: b.ID, ToStatus: b.Status, ActorID: actorID}
		return translate(db.Create(ev).Error, "failed to record booking event")
	})
}

func (s *Store) GetBooking(ctx context.Context, id uint) (*Booking, error) {
	return first[Booking](ctx, s.conn(ctx), "booking", "id = ?", id)
}

func (s *Store) LockBooking(ctx context.Context, id uint) (*Booking, error) {
	db := s.conn(ctx).Clauses(clause.Locking{Strength: "UPDATE"})
	return first[Booking](ctx, db, "booking", "id = ?", id)
}

func (s *Store) ListBookings(ctx context.Context, filter BookingFilter) ([]*Booking, int64, error) {
	q := s.conn(ctx).Model(&Booking{})
	if filter.OrgID != 0 {
		q = q.Where("org_id = ?", filter.OrgID)
	}
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}
	if term := strings.TrimSpace(filter.Search); term != "" {
		like := "%" + strings.ToLower(term) + "%"
		q = q.Where("LOWER(client_name) LIKE ? OR LOWER(booking_reference) LIKE ? OR LOWER(hotel_name) LIKE ?", like, like, like)
	}
	if !filter.EndedBefore.IsZero() {
		q = q.Where("travel_end < ?", filter.EndedBefore)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, translate(err, "failed to count bookings")
	}

	q = q.Order("created_at desc")
	if filter.Limit > 0 {
		q = q.Limit(filter.Limit).Offset(filter.Offset)
	}
	var bookings []*Booking
	if err := q.Find(&bookings).Error; err != nil {
		return nil, 0, translate(err, "failed to list bookings")
	}
	return bookings, total, nil
}

func (s *Store) UpdateBookingStatus(ctx context.Context, id uint, from, to string, actorID uint) error {
	return s.Transaction(ctx, func(ctx context.Context) error {
		db := s.conn(ctx)
		res := db.Model(&Booking{}).Where("id = ? AND status = ?", id, from).Update("status", to)
		if res.Error != nil {
			return translate(res.Error, "failed to update booking status")
		}
		if res.RowsAffected == 0 {
			current, err := first[Booking](ctx, db, "booking", "id = ?", id)
			if err != nil {
				return err
			}
			return &booking.TransitionError{From: current.Status, To: to, Err: booking.ErrInvalidTransition}
		}
		ev := &BookingStatusEvent{BookingID: id, FromStatus: from, ToStatus: to, ActorID: actorID}
		return translate(db.Create(ev).Error, "failed to record booking event")
	})
}

func (s *Store) UpdateBookingItems(ctx context.Context, b *Booking) error {
	res := s.conn(ctx).Model(&Booking{}).Where("id = ?", b.ID).
		Select("room_arrangement", "transport", "activities", "transfers", "total_price", "notes").
		Updates(b)
	return affected(res, "booking")
}

func (s *Store) DeleteBooking(ctx context.Context, id uint) error {
	return s.Transaction(ctx, func(ctx context.Context) error {
		db := s.conn(ctx)
		for _, child := range []any{&BookingStatusEvent{}, &Payment{}, &Voucher{}} {
			if err := db.Where("booking_id = ?", id).Delete(child).Error; err != nil {
				return translate(err, "failed to delete booking children")
			}
		}
		return affected(db.Delete(&Booking{}, id), "booking")
	})
}

func (s *Store) ListBookingEvents(ctx context.Context, bookingID uint) ([]*BookingStatusEvent, error) {
	var events []*BookingStatusEvent
	err := s.conn(ctx).Where("booking_id = ?", bookingID).Order("id asc").Find(&events).Error
	return events, translate(err, "failed to list booking events")
}

func (s *Store) CountBookingsByStatus(ctx context.Context, orgID uint) ([]StatusCount, error) {
	var counts []StatusCount
	q := s.conn(ctx).Model(&Booking{}).Select("status, COUNT(*) AS count")
	if orgID != 0 {
		q = q.Where("org_id = ?", orgID)
	}
	err := q.Group("status").Order("status asc").Scan(&counts).Error
	return counts, translate(err, "failed to count bookings")
}

func (s *Store) SumBookingTotals(ctx context.Context, orgID uint, statuses []string) (decimal.Decimal, error) {
	q := s.conn(ctx).Model(&Booking{}).Where("status IN ?", statuses)
	if orgID != 0 {
		q = q.Where("org_id = ?", orgID)
	}
	return sumColumn(q, "total_price")
}

// sumColumn adds up a money column row by row so the result stays exact on
// every dialect
func sumColumn(q *gorm.DB, column string) (decimal.Decimal, error) {
	var values []decimal.Decimal
	if err := q.Pluck(column, &values).Error; err != nil {
		return decimal.Zero, translate(err, "failed to sum "+column)
	}
	sum := decimal.Zero
	for _, v := range values {
		sum = sum.Add(v)
	}
	return sum, nil
}
