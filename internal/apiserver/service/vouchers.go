package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/amoylab/tourdesk/internal/apiserver/database"
	"github.com/amoylab/tourdesk/internal/booking"
	"github.com/amoylab/tourdesk/internal/common/cnst"
	"github.com/amoylab/tourdesk/internal/mailer"
	"github.com/amoylab/tourdesk/internal/notifier"
	"github.com/amoylab/tourdesk/internal/permission"
	"github.com/amoylab/tourdesk/internal/pricing"
	"github.com/amoylab/tourdesk/internal/session"
	"github.com/amoylab/tourdesk/internal/template"
	"github.com/amoylab/tourdesk/pkg/trace"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

func (s *Service) newVoucherReference() string {
	id := strings.ReplaceAll(uuid.NewString(), "-", "")
	return fmt.Sprintf("%s-%s", s.cfg.VoucherPrefix, strings.ToUpper(id[:12]))
}

// IssueVoucher creates a voucher for a confirmed booking
func (s *Service) IssueVoucher(ctx context.Context, sess *session.Session, bookingID uint) (*database.Voucher, error) {
	sc := trace.Tracer(cnst.TraceService).Start(ctx, cnst.SpanVoucherIssue).
		WithAttrs(attribute.Int64(cnst.AttrBookingID, int64(bookingID)))
	defer sc.End()
	ctx = sc.Ctx

	if err := sess.Require(permission.IssueVouchers); err != nil {
		return nil, err
	}
	b, err := s.scopedBooking(ctx, sess, bookingID)
	if err != nil {
		return nil, err
	}
	if err := booking.CheckVoucherAllowed(booking.Status(b.Status)); err != nil {
		return nil, err
	}
	v := &database.Voucher{
		BookingID:        b.ID,
		OrgID:            b.OrgID,
		VoucherReference: s.newVoucherReference(),
		IssuedAt:         s.now().UTC(),
		CreatedBy:        sess.User.UserID,
	}
	if err := s.db.CreateVoucher(ctx, v); err != nil {
		return nil, sc.Fail(err)
	}
	s.logger.Info("voucher issued",
		zap.Uint("booking_id", b.ID),
		zap.String("voucher", v.VoucherReference),
		zap.Uint("actor_id", sess.User.UserID))
	ev := notifier.NewEvent(notifier.EventVoucherIssued, b.OrgID, b.ID)
	ev.Reference = b.BookingReference
	ev.ActorID = sess.User.UserID
	ev.Data = map[string]any{"voucherReference": v.VoucherReference}
	s.publish(ctx, ev)
	return v, nil
}

// ListVouchers lists the vouchers of a booking
func (s *Service) ListVouchers(ctx context.Context, sess *session.Session, bookingID uint) ([]*database.Voucher, error) {
	if err := sess.Require(permission.ViewBookings); err != nil {
		return nil, err
	}
	if _, err := s.scopedBooking(ctx, sess, bookingID); err != nil {
		return nil, err
	}
	return s.db.ListVouchers(ctx, bookingID)
}

// scopedVoucher loads a voucher together with its booking
func (s *Service) scopedVoucher(ctx context.Context, sess *session.Session, voucherID uint) (*database.Voucher, *database.Booking, error) {
	v, err := s.db.GetVoucher(ctx, voucherID)
	if err != nil {
		return nil, nil, err
	}
	b, err := s.scopedBooking(ctx, sess, v.BookingID)
	if err != nil {
		return nil, nil, err
	}
	return v, b, nil
}

func (s *Service) voucherContext(sess *session.Session, v *database.Voucher, b *database.Booking) *template.Context {
	items := bookingItems(b)
	start, end := b.TravelStart, b.TravelEnd
	tc := template.NewContext()
	tc.Organization = s.orgName(sess)
	tc.Reference = b.BookingReference
	tc.Status = b.Status
	tc.Client = template.ClientWrapper{Name: b.ClientName, Email: b.ClientEmail}
	tc.Hotel = b.HotelName
	tc.TravelStart = &start
	tc.TravelEnd = &end
	tc.Items = items
	tc.Breakdown = pricing.Compute(pricing.Quote{Items: items, Markup: markupOf(b.MarkupType, b.MarkupValue)}).Rounded()
	tc.Breakdown.Total = b.TotalPrice
	tc.Currency = b.Currency
	tc.Notes = b.Notes
	tc.Voucher = &template.VoucherWrapper{Reference: v.VoucherReference, IssuedAt: v.IssuedAt}
	return tc
}

// RenderVoucher renders the HTML travel voucher
func (s *Service) RenderVoucher(ctx context.Context, sess *session.Session, voucherID uint) ([]byte, error) {
	if err := sess.Require(permission.ViewBookings); err != nil {
		return nil, err
	}
	v, b, err := s.scopedVoucher(ctx, sess, voucherID)
	if err != nil {
		return nil, err
	}
	return s.render(template.DocumentVoucher, s.voucherContext(sess, v, b))
}

// SendVoucher emails the voucher document to "to", or to the booking client
// when "to" is empty, and marks it sent
func (s *Service) SendVoucher(ctx context.Context, sess *session.Session, voucherID uint, to string) (*database.Voucher, error) {
	sc := trace.Tracer(cnst.TraceService).Start(ctx, cnst.SpanVoucherSend)
	defer sc.End()
	ctx = sc.Ctx

	if err := sess.Require(permission.IssueVouchers); err != nil {
		return nil, err
	}
	v, b, err := s.scopedVoucher(ctx, sess, voucherID)
	if err != nil {
		return nil, err
	}
	to = strings.TrimSpace(to)
	if to == "" {
		to = strings.TrimSpace(b.ClientEmail)
	}
	if to == "" {
		return nil, ErrNoRecipient
	}

	tc := s.voucherContext(sess, v, b)
	doc, err := s.render(template.DocumentVoucher, tc)
	if err != nil {
		return nil, err
	}
	subject := "Travel voucher " + v.VoucherReference
	if s.renderer != nil {
		if rendered, err := s.renderer.Render(s.mail.Subject, tc); err == nil {
			subject = rendered
		} else {
			s.logger.Warn("failed to render voucher subject", zap.Error(err))
		}
	}

	msg := &mailer.Message{
		From:    s.mail.From,
		To:      []string{to},
		Subject: subject,
		HTML:    string(doc),
		Attachments: []mailer.Attachment{{
			Filename:    v.VoucherReference + ".html",
			ContentType: "text/html; charset=utf-8",
			Content:     doc,
		}},
	}
	if err := s.mailer.Send(ctx, msg); err != nil {
		s.logger.Error("failed to send voucher",
			zap.String("voucher", v.VoucherReference),
			zap.Error(err))
		return nil, sc.Fail(err)
	}

	at := s.now().UTC()
	if err := s.db.MarkVoucherSent(ctx, v.ID, to, at); err != nil {
		return nil, sc.Fail(err)
	}
	v.EmailSent = true
	v.SentTo = to
	v.SentAt = &at

	ev := notifier.NewEvent(notifier.EventVoucherSent, b.OrgID, b.ID)
	ev.Reference = b.BookingReference
	ev.ActorID = sess.User.UserID
	ev.Data = map[string]any{"voucherReference": v.VoucherReference, "to": to}
	s.publish(ctx, ev)
	return v, nil
}
