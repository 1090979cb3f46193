package service

import (
	"context"

	"github.com/amoylab/tourdesk/internal/apiserver/database"
	"github.com/amoylab/tourdesk/internal/booking"
	"github.com/amoylab/tourdesk/internal/common/cnst"
	"github.com/amoylab/tourdesk/internal/session"
	"github.com/amoylab/tourdesk/pkg/trace"

	"github.com/jinzhu/now"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// systemSession acts for background jobs. Its user id is 0, which is what
// status history records as the actor.
func (s *Service) systemSession() *session.Session {
	return session.New("system", session.Profile{
		Username: "system",
		Role:     string(cnst.RoleSystemAdmin),
		IsActive: true,
	}, nil, "", s.logger)
}

// CompleteEndedBookings moves up to batch confirmed bookings whose travel
// ended before today to completed. Failures are reported per id like the bulk
// operations.
func (s *Service) CompleteEndedBookings(ctx context.Context, batch int) (*BulkResult, error) {
	sc := trace.Tracer(cnst.TraceService).Start(ctx, cnst.SpanBookingComplete).
		WithAttrs(attribute.Int(cnst.AttrBulkSize, batch))
	defer sc.End()
	ctx = sc.Ctx

	if batch <= 0 {
		batch = s.cfg.BulkLimit
	}
	cutoff := now.With(s.now().UTC()).BeginningOfDay()
	ended, _, err := s.db.ListBookings(ctx, database.BookingFilter{
		Status:      string(booking.StatusConfirmed),
		EndedBefore: cutoff,
		Limit:       batch,
	})
	if err != nil {
		return nil, sc.Fail(err)
	}

	sess := s.systemSession()
	res := &BulkResult{FailedIDs: []uint{}}
	for _, b := range ended {
		if err := s.transition(ctx, sess, b, booking.StatusCompleted); err != nil {
			s.logger.Warn("failed to complete ended booking",
				zap.Uint("booking_id", b.ID),
				zap.Time("travel_end", b.TravelEnd),
				zap.Error(err))
			res.FailedIDs = append(res.FailedIDs, b.ID)
			continue
		}
		res.ProcessedCount++
	}
	s.metrics.BulkFailures("complete", len(res.FailedIDs))
	sc.WithAttrs(attribute.Int(cnst.AttrBulkFailed, len(res.FailedIDs)))
	return res, nil
}
