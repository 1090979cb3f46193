package service

import (
	"context"
	"time"

	"github.com/amoylab/tourdesk/internal/apiserver/database"
	"github.com/amoylab/tourdesk/internal/booking"
	"github.com/amoylab/tourdesk/internal/common/cnst"
	"github.com/amoylab/tourdesk/internal/notifier"
	"github.com/amoylab/tourdesk/internal/permission"
	"github.com/amoylab/tourdesk/internal/pricing"
	"github.com/amoylab/tourdesk/internal/session"
	"github.com/amoylab/tourdesk/pkg/trace"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// PaymentInput records a payment against a booking
type PaymentInput struct {
	Amount    decimal.Decimal `json:"amount"`
	Method    string          `json:"method"`
	Status    string          `json:"paymentStatus"`
	Reference string          `json:"reference"`
	Notes     string          `json:"notes"`
}

// PaymentSummary lists the payments of a booking with running totals
type PaymentSummary struct {
	Payments    []*database.Payment `json:"payments"`
	Total       decimal.Decimal     `json:"total"`
	Paid        decimal.Decimal     `json:"paid"`
	Outstanding decimal.Decimal     `json:"outstanding"`
}

// RecordPayment stores a payment. Completed payments may never push the sum
// of completed payments above the booking total.
func (s *Service) RecordPayment(ctx context.Context, sess *session.Session, bookingID uint, in PaymentInput) (*database.Payment, error) {
	sc := trace.Tracer(cnst.TraceService).Start(ctx, cnst.SpanPaymentRecord).
		WithAttrs(attribute.Int64(cnst.AttrBookingID, int64(bookingID)))
	defer sc.End()
	ctx = sc.Ctx

	if err := sess.Require(permission.ManagePayments); err != nil {
		return nil, err
	}
	status, err := booking.ParsePaymentStatus(in.Status)
	if err != nil {
		return nil, err
	}
	amount := pricing.RoundMoney(in.Amount)
	if !amount.IsPositive() {
		return nil, booking.ErrInvalidAmount
	}

	var p *database.Payment
	var b *database.Booking
	err = s.db.Transaction(ctx, func(ctx context.Context) error {
		b, err = s.lockedBooking(ctx, sess, bookingID)
		if err != nil {
			return err
		}
		if booking.Status(b.Status) == booking.StatusCancelled {
			return booking.ErrPaymentOnCancelled
		}
		if status == booking.PaymentCompleted {
			paid, err := s.db.SumCompletedPayments(ctx, b.ID)
			if err != nil {
				return err
			}
			if err := booking.CheckOverpayment(b.TotalPrice, paid, amount); err != nil {
				return err
			}
		}
		p = &database.Payment{
			BookingID: b.ID,
			OrgID:     b.OrgID,
			Amount:    amount,
			Currency:  b.Currency,
			Method:    in.Method,
			Status:    string(status),
			Reference: in.Reference,
			Notes:     in.Notes,
			CreatedBy: sess.User.UserID,
		}
		if status == booking.PaymentCompleted {
			at := s.now().UTC()
			p.PaidAt = &at
		}
		return s.db.CreatePayment(ctx, p)
	})
	if err != nil {
		return nil, sc.Fail(err)
	}

	s.logger.Info("payment recorded",
		zap.Uint("booking_id", b.ID),
		zap.Uint("payment_id", p.ID),
		zap.String("amount", amount.StringFixed(2)),
		zap.String("status", p.Status))
	ev := notifier.NewEvent(notifier.EventPaymentRecorded, b.OrgID, b.ID)
	ev.Reference = b.BookingReference
	ev.ActorID = sess.User.UserID
	ev.Data = map[string]any{"paymentId": p.ID, "amount": amount.StringFixed(2), "status": p.Status}
	s.publish(ctx, ev)
	return p, nil
}

// ListPayments returns the payments of a booking with paid and outstanding
// totals. Only completed payments count as paid.
func (s *Service) ListPayments(ctx context.Context, sess *session.Session, bookingID uint) (*PaymentSummary, error) {
	if err := sess.Require(permission.ViewPayments); err != nil {
		return nil, err
	}
	b, err := s.scopedBooking(ctx, sess, bookingID)
	if err != nil {
		return nil, err
	}
	payments, err := s.db.ListPayments(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	paid := decimal.Zero
	for _, p := range payments {
		if booking.PaymentStatus(p.Status) == booking.PaymentCompleted {
			paid = paid.Add(p.Amount)
		}
	}
	return &PaymentSummary{
		Payments:    payments,
		Total:       b.TotalPrice,
		Paid:        paid,
		Outstanding: b.TotalPrice.Sub(paid),
	}, nil
}

// UpdatePaymentStatus moves a payment along the payment table. Completing a
// payment re-checks the overpayment rule.
func (s *Service) UpdatePaymentStatus(ctx context.Context, sess *session.Session, paymentID uint, to booking.PaymentStatus) (*database.Payment, error) {
	if err := sess.Require(permission.ManagePayments); err != nil {
		return nil, err
	}
	var p *database.Payment
	err := s.db.Transaction(ctx, func(ctx context.Context) error {
		var err error
		p, err = s.db.GetPayment(ctx, paymentID)
		if err != nil {
			return err
		}
		b, err := s.lockedBooking(ctx, sess, p.BookingID)
		if err != nil {
			return err
		}
		// payments of a booking only change under its lock
		if p, err = s.db.GetPayment(ctx, paymentID); err != nil {
			return err
		}
		if err := booking.PaymentTransition(booking.PaymentStatus(p.Status), to); err != nil {
			return err
		}
		var paidAt *time.Time
		if to == booking.PaymentCompleted {
			paid, err := s.db.SumCompletedPayments(ctx, b.ID)
			if err != nil {
				return err
			}
			if err := booking.CheckOverpayment(b.TotalPrice, paid, p.Amount); err != nil {
				return err
			}
			at := s.now().UTC()
			paidAt = &at
		}
		if err := s.db.UpdatePaymentStatus(ctx, p.ID, string(to), paidAt); err != nil {
			return err
		}
		p.Status = string(to)
		if paidAt != nil {
			p.PaidAt = paidAt
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return p, nil
}
