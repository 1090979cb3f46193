package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/amoylab/tourdesk/internal/apiserver/database"
	"github.com/amoylab/tourdesk/internal/booking"
	"github.com/amoylab/tourdesk/internal/common/cnst"
	"github.com/amoylab/tourdesk/internal/notifier"
	"github.com/amoylab/tourdesk/internal/permission"
	"github.com/amoylab/tourdesk/internal/pricing"
	"github.com/amoylab/tourdesk/internal/session"
	"github.com/amoylab/tourdesk/pkg/trace"

	"github.com/ifuryst/lol"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// BookingInput creates a booking directly. TotalPrice is computed from the
// items and markup when nil.
type BookingInput struct {
	BookingReference string            `json:"bookingReference"`
	ClientName       string            `json:"clientName"`
	ClientEmail      string            `json:"clientEmail"`
	HotelID          *uint             `json:"hotelId"`
	HotelName        string            `json:"hotelName"`
	TravelStart      *time.Time        `json:"travelStart"`
	TravelEnd        *time.Time        `json:"travelEnd"`
	Items            booking.LineItems `json:"items"`
	MarkupType       string            `json:"markupType"`
	MarkupValue      decimal.Decimal   `json:"markupValue"`
	TotalPrice       *decimal.Decimal  `json:"totalPrice"`
	Currency         string            `json:"currency"`
	Notes            string            `json:"notes"`
}

// BookingDetail is a stored booking with its decoded items
type BookingDetail struct {
	*database.Booking
	Items booking.LineItems `json:"items"`
}

// BulkResult reports a bulk operation. Failed ids never abort the batch.
type BulkResult struct {
	ProcessedCount int    `json:"processedCount"`
	FailedIDs      []uint `json:"failedIds"`
}

// Transitions lists where a booking may move next
type Transitions struct {
	Status           booking.Status   `json:"status"`
	Next             []booking.Status `json:"next"`
	VoucherAvailable bool             `json:"voucherAvailable"`
}

func bookingItems(b *database.Booking) booking.LineItems {
	return booking.DecodeLineItems(b.RoomArrangement, b.Transport, b.Activities, b.Transfers).Normalize()
}

func bookingDetail(b *database.Booking) *BookingDetail {
	return &BookingDetail{Booking: b, Items: bookingItems(b)}
}

func (s *Service) newReference() string {
	return fmt.Sprintf("%s-%s-%s", s.cfg.ReferencePrefix, s.now().UTC().Format("20060102"),
		strings.ToUpper(lol.RandomString(6)))
}

// CreateBooking validates and stores a pending booking
func (s *Service) CreateBooking(ctx context.Context, sess *session.Session, in BookingInput) (*BookingDetail, error) {
	sc := trace.Tracer(cnst.TraceService).Start(ctx, cnst.SpanBookingCreate)
	defer sc.End()
	ctx = sc.Ctx

	if err := sess.Require(permission.CreateBookings); err != nil {
		return nil, err
	}
	if sess.OrgID() == 0 {
		return nil, ErrMissingOrg
	}
	b, err := s.prepareBooking(ctx, sess, in)
	if err != nil {
		return nil, err
	}
	if err := s.db.CreateBooking(ctx, b, sess.User.UserID); err != nil {
		return nil, err
	}
	s.bookingCreated(ctx, sess, b)
	return bookingDetail(b), nil
}

// prepareBooking fills the hotel name, prices the items and runs every
// creation rule
func (s *Service) prepareBooking(ctx context.Context, sess *session.Session, in BookingInput) (*database.Booking, error) {
	if in.HotelID != nil && *in.HotelID != 0 {
		h, err := s.scopedHotel(ctx, sess, *in.HotelID)
		if err != nil {
			return nil, err
		}
		if strings.TrimSpace(in.HotelName) == "" {
			in.HotelName = h.Name
		}
	}

	items := in.Items.Normalize()
	markup := markupOf(in.MarkupType, in.MarkupValue)
	total := pricing.ComputeTotal(pricing.Quote{Items: items, Markup: markup})
	if in.TotalPrice != nil {
		total = *in.TotalPrice
	}
	total = pricing.RoundMoney(total)

	draft := booking.Draft{
		ClientName:       in.ClientName,
		HotelName:        in.HotelName,
		BookingReference: in.BookingReference,
		TravelStart:      in.TravelStart,
		TravelEnd:        in.TravelEnd,
		TotalPrice:       total,
	}
	if err := draft.Validate(s.now()); err != nil {
		return nil, err
	}

	currency := in.Currency
	if currency == "" {
		currency = s.cfg.DefaultCurrency
	}
	return &database.Booking{
		OrgID:            sess.OrgID(),
		BookingReference: strings.TrimSpace(in.BookingReference),
		ClientName:       strings.TrimSpace(in.ClientName),
		ClientEmail:      in.ClientEmail,
		HotelID:          in.HotelID,
		HotelName:        strings.TrimSpace(in.HotelName),
		TravelStart:      booking.DateOf(*in.TravelStart),
		TravelEnd:        booking.DateOf(*in.TravelEnd),
		RoomArrangement:  booking.Encode(items.Rooms),
		Transport:        booking.Encode(items.Transport),
		Activities:       booking.Encode(items.Activities),
		Transfers:        booking.Encode(items.Transfers),
		MarkupType:       string(markup.Type),
		MarkupValue:      markup.Value,
		TotalPrice:       total,
		Currency:         currency,
		Status:           string(booking.StatusPending),
		Notes:            in.Notes,
		CreatedBy:        sess.User.UserID,
	}, nil
}

func (s *Service) bookingCreated(ctx context.Context, sess *session.Session, b *database.Booking) {
	s.logger.Info("booking created",
		zap.Uint("booking_id", b.ID),
		zap.String("reference", b.BookingReference),
		zap.Uint("org_id", b.OrgID),
		zap.Uint("actor_id", sess.User.UserID))
	ev := notifier.NewEvent(notifier.EventBookingCreated, b.OrgID, b.ID)
	ev.Reference = b.BookingReference
	ev.To = b.Status
	ev.ActorID = sess.User.UserID
	s.publish(ctx, ev)
}

// ConvertQuote turns an approved quote into a pending booking. The booking is
// created before the quote is marked converted, in one transaction, so a
// quote converts at most once.
func (s *Service) ConvertQuote(ctx context.Context, sess *session.Session, quoteID uint) (*BookingDetail, error) {
	sc := trace.Tracer(cnst.TraceService).Start(ctx, cnst.SpanBookingConvert)
	defer sc.End()
	ctx = sc.Ctx

	if err := sess.Require(permission.CreateBookings); err != nil {
		return nil, err
	}
	q, err := s.scopedQuote(ctx, sess, quoteID)
	if err != nil {
		return nil, err
	}
	facts := booking.QuoteFacts{
		Status:          booking.QuoteStatus(q.Status),
		ApprovedHotelID: q.ApprovedHotelID,
		TravelStart:     q.TravelStart,
	}
	if err := booking.CheckQuoteEligible(facts, s.now()); err != nil {
		return nil, err
	}
	hotel, err := s.scopedHotel(ctx, sess, *q.ApprovedHotelID)
	if err != nil {
		return nil, err
	}

	in := BookingInput{
		BookingReference: s.newReference(),
		ClientName:       q.ClientName,
		ClientEmail:      q.ClientEmail,
		HotelID:          &hotel.ID,
		HotelName:        hotel.Name,
		TravelStart:      q.TravelStart,
		TravelEnd:        q.TravelEnd,
		Items:            quoteItems(q),
		MarkupType:       q.MarkupType,
		MarkupValue:      q.MarkupValue,
		Currency:         q.Currency,
		Notes:            q.Notes,
	}
	b, err := s.prepareBooking(ctx, sess, in)
	if err != nil {
		return nil, err
	}
	b.OrgID = q.OrgID
	b.QuoteID = &q.ID

	err = s.db.Transaction(ctx, func(ctx context.Context) error {
		cur, err := s.db.GetQuote(ctx, q.ID)
		if err != nil {
			return err
		}
		if err := booking.QuoteTransition(booking.QuoteStatus(cur.Status), booking.QuoteConverted); err != nil {
			return err
		}
		if err := s.db.CreateBooking(ctx, b, sess.User.UserID); err != nil {
			return err
		}
		return s.db.UpdateQuoteStatus(ctx, q.ID, string(booking.QuoteConverted))
	})
	if err != nil {
		return nil, err
	}
	s.bookingCreated(ctx, sess, b)
	return bookingDetail(b), nil
}

func (s *Service) scopedBooking(ctx context.Context, sess *session.Session, id uint) (*database.Booking, error) {
	b, err := s.db.GetBooking(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := sess.RequireOrg(b.OrgID); err != nil {
		return nil, err
	}
	return b, nil
}

// lockedBooking is scopedBooking for use inside a transaction that writes
// money or items of the booking
func (s *Service) lockedBooking(ctx context.Context, sess *session.Session, id uint) (*database.Booking, error) {
	b, err := s.db.LockBooking(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := sess.RequireOrg(b.OrgID); err != nil {
		return nil, err
	}
	return b, nil
}

// GetBooking returns one booking
func (s *Service) GetBooking(ctx context.Context, sess *session.Session, id uint) (*BookingDetail, error) {
	if err := sess.Require(permission.ViewBookings); err != nil {
		return nil, err
	}
	b, err := s.scopedBooking(ctx, sess, id)
	if err != nil {
		return nil, err
	}
	return bookingDetail(b), nil
}

// ListBookings lists bookings of the session organization. The org of the
// filter is always replaced by the session scope.
func (s *Service) ListBookings(ctx context.Context, sess *session.Session, filter database.BookingFilter) ([]*BookingDetail, int64, error) {
	if err := sess.Require(permission.ViewBookings); err != nil {
		return nil, 0, err
	}
	if filter.Status != "" {
		if _, err := booking.ParseStatus(filter.Status); err != nil {
			return nil, 0, err
		}
	}
	filter.OrgID = sess.ScopeOrg()
	bookings, total, err := s.db.ListBookings(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	out := make([]*BookingDetail, 0, len(bookings))
	for _, b := range bookings {
		out = append(out, bookingDetail(b))
	}
	return out, total, nil
}

func statusFlag(to booking.Status) permission.Flag {
	if to == booking.StatusCancelled {
		return permission.CancelBookings
	}
	return permission.EditBookings
}

// UpdateStatus moves a booking to a new status along the transition table
func (s *Service) UpdateStatus(ctx context.Context, sess *session.Session, id uint, to booking.Status) (*BookingDetail, error) {
	sc := trace.Tracer(cnst.TraceService).Start(ctx, cnst.SpanBookingStatus).
		WithAttrs(attribute.Int64(cnst.AttrBookingID, int64(id)), attribute.String(cnst.AttrStatusTo, string(to)))
	defer sc.End()
	ctx = sc.Ctx

	if err := sess.Require(statusFlag(to)); err != nil {
		return nil, err
	}
	b, err := s.scopedBooking(ctx, sess, id)
	if err != nil {
		return nil, err
	}
	if err := s.transition(ctx, sess, b, to); err != nil {
		return nil, sc.Fail(err)
	}
	return bookingDetail(b), nil
}

// transition validates and applies one status move. b is updated in place.
func (s *Service) transition(ctx context.Context, sess *session.Session, b *database.Booking, to booking.Status) error {
	from := b.Status
	err := booking.Transition(booking.Status(from), to)
	if err == nil {
		err = s.db.UpdateBookingStatus(ctx, b.ID, from, string(to), sess.User.UserID)
	}
	s.metrics.BookingTransition(from, string(to), err)
	if err != nil {
		return err
	}

	b.Status = string(to)
	s.logger.Info("booking status changed",
		zap.Uint("booking_id", b.ID),
		zap.String("from", from),
		zap.String("to", string(to)),
		zap.Uint("actor_id", sess.User.UserID))
	ev := notifier.NewEvent(notifier.EventBookingStatusChanged, b.OrgID, b.ID)
	ev.Reference = b.BookingReference
	ev.From = from
	ev.To = string(to)
	ev.ActorID = sess.User.UserID
	s.publish(ctx, ev)
	return nil
}

// ItemsUpdate replaces the line items of a booking
type ItemsUpdate struct {
	Items booking.LineItems `json:"items"`
	Notes *string           `json:"notes"`
}

// UpdateItems replaces the line items and recomputes total_price with the
// booking's own markup. The new total may not fall below the completed
// payments.
func (s *Service) UpdateItems(ctx context.Context, sess *session.Session, id uint, in ItemsUpdate) (*BookingDetail, error) {
	if err := sess.Require(permission.EditBookings); err != nil {
		return nil, err
	}

	items := in.Items.Normalize()
	var b *database.Booking
	err := s.db.Transaction(ctx, func(ctx context.Context) error {
		var err error
		b, err = s.lockedBooking(ctx, sess, id)
		if err != nil {
			return err
		}
		if booking.IsTerminal(booking.Status(b.Status)) {
			return fmt.Errorf("%w: %s", booking.ErrBookingClosed, b.Status)
		}

		total := pricing.RoundMoney(pricing.ComputeTotal(pricing.Quote{
			Items:  items,
			Markup: markupOf(b.MarkupType, b.MarkupValue),
		}))
		if !total.IsPositive() {
			return booking.Violations{booking.NewViolation("total_price", booking.MsgPricePositive)}
		}
		paid, err := s.db.SumCompletedPayments(ctx, b.ID)
		if err != nil {
			return err
		}
		if err := booking.CheckTotalCoversPaid(total, paid); err != nil {
			return err
		}

		b.RoomArrangement = booking.Encode(items.Rooms)
		b.Transport = booking.Encode(items.Transport)
		b.Activities = booking.Encode(items.Activities)
		b.Transfers = booking.Encode(items.Transfers)
		b.TotalPrice = total
		if in.Notes != nil {
			b.Notes = *in.Notes
		}
		return s.db.UpdateBookingItems(ctx, b)
	})
	if err != nil {
		return nil, err
	}
	return bookingDetail(b), nil
}

// uniqueIDs drops duplicates and zero ids while keeping the order
func uniqueIDs(ids []uint) []uint {
	seen := make(map[uint]struct{}, len(ids))
	out := make([]uint, 0, len(ids))
	for _, id := range ids {
		if id == 0 {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

// BulkLimit is the largest number of ids one bulk request may carry
func (s *Service) BulkLimit() int {
	return s.cfg.BulkLimit
}

func (s *Service) bulkIDs(ids []uint) ([]uint, error) {
	ids = uniqueIDs(ids)
	if len(ids) == 0 {
		return nil, ErrBulkEmpty
	}
	if len(ids) > s.cfg.BulkLimit {
		return nil, fmt.Errorf("%w: %d > %d", ErrBulkTooLarge, len(ids), s.cfg.BulkLimit)
	}
	return ids, nil
}

// BulkUpdateStatus applies one status to many bookings. Each id is processed
// on its own; failures are reported in the result.
func (s *Service) BulkUpdateStatus(ctx context.Context, sess *session.Session, ids []uint, to booking.Status) (*BulkResult, error) {
	sc := trace.Tracer(cnst.TraceService).Start(ctx, cnst.SpanBookingBulkStatus).
		WithAttrs(attribute.Int(cnst.AttrBulkSize, len(ids)), attribute.String(cnst.AttrStatusTo, string(to)))
	defer sc.End()
	ctx = sc.Ctx

	if err := sess.Require(statusFlag(to)); err != nil {
		return nil, err
	}
	if _, err := booking.ParseStatus(string(to)); err != nil {
		return nil, err
	}
	ids, err := s.bulkIDs(ids)
	if err != nil {
		return nil, err
	}

	res := &BulkResult{FailedIDs: []uint{}}
	for _, id := range ids {
		b, err := s.scopedBooking(ctx, sess, id)
		if err == nil {
			err = s.transition(ctx, sess, b, to)
		}
		if err != nil {
			s.logger.Warn("bulk status update failed",
				zap.Uint("booking_id", id),
				zap.String("to", string(to)),
				zap.Error(err))
			res.FailedIDs = append(res.FailedIDs, id)
			continue
		}
		res.ProcessedCount++
	}
	s.metrics.BulkFailures("status", len(res.FailedIDs))
	sc.WithAttrs(attribute.Int(cnst.AttrBulkFailed, len(res.FailedIDs)))
	return res, nil
}

// BulkDelete removes many bookings together with their payments, vouchers
// and history
func (s *Service) BulkDelete(ctx context.Context, sess *session.Session, ids []uint) (*BulkResult, error) {
	sc := trace.Tracer(cnst.TraceService).Start(ctx, cnst.SpanBookingBulkDelete).
		WithAttrs(attribute.Int(cnst.AttrBulkSize, len(ids)))
	defer sc.End()
	ctx = sc.Ctx

	if err := sess.Require(permission.DeleteBookings); err != nil {
		return nil, err
	}
	ids, err := s.bulkIDs(ids)
	if err != nil {
		return nil, err
	}

	res := &BulkResult{FailedIDs: []uint{}}
	for _, id := range ids {
		b, err := s.scopedBooking(ctx, sess, id)
		if err == nil {
			err = s.db.DeleteBooking(ctx, id)
		}
		if err != nil {
			s.logger.Warn("bulk delete failed", zap.Uint("booking_id", id), zap.Error(err))
			res.FailedIDs = append(res.FailedIDs, id)
			continue
		}
		res.ProcessedCount++
		ev := notifier.NewEvent(notifier.EventBookingDeleted, b.OrgID, b.ID)
		ev.Reference = b.BookingReference
		ev.ActorID = sess.User.UserID
		s.publish(ctx, ev)
	}
	s.metrics.BulkFailures("delete", len(res.FailedIDs))
	sc.WithAttrs(attribute.Int(cnst.AttrBulkFailed, len(res.FailedIDs)))
	return res, nil
}

// Transitions returns the statuses a booking may move to next
func (s *Service) Transitions(ctx context.Context, sess *session.Session, id uint) (*Transitions, error) {
	if err := sess.Require(permission.ViewBookings); err != nil {
		return nil, err
	}
	b, err := s.scopedBooking(ctx, sess, id)
	if err != nil {
		return nil, err
	}
	st, err := booking.ParseStatus(b.Status)
	if err != nil {
		return nil, err
	}
	return &Transitions{Status: st, Next: booking.NextStatuses(st), VoucherAvailable: booking.VoucherAvailable(st)}, nil
}

// History lists the status moves of a booking, oldest first
func (s *Service) History(ctx context.Context, sess *session.Session, id uint) ([]*database.BookingStatusEvent, error) {
	if err := sess.Require(permission.ViewBookings); err != nil {
		return nil, err
	}
	if _, err := s.scopedBooking(ctx, sess, id); err != nil {
		return nil, err
	}
	return s.db.ListBookingEvents(ctx, id)
}
