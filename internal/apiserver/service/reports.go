package service

import (
	"context"

	"github.com/amoylab/tourdesk/internal/apiserver/database"
	"github.com/amoylab/tourdesk/internal/booking"
	"github.com/amoylab/tourdesk/internal/permission"
	"github.com/amoylab/tourdesk/internal/pricing"
	"github.com/amoylab/tourdesk/internal/session"

	"github.com/shopspring/decimal"
)

// BookingReport summarizes the bookings of an organization
type BookingReport struct {
	Counts  []database.StatusCount `json:"counts"`
	Total   int64                  `json:"total"`
	Revenue decimal.Decimal        `json:"revenue"`
}

// revenueStatuses are the statuses whose totals count as revenue
var revenueStatuses = []string{string(booking.StatusConfirmed), string(booking.StatusCompleted)}

// BookingReport counts bookings per status and sums the revenue of
// confirmed and completed bookings
func (s *Service) BookingReport(ctx context.Context, sess *session.Session) (*BookingReport, error) {
	if err := sess.Require(permission.ViewReports); err != nil {
		return nil, err
	}
	org := sess.ScopeOrg()
	counts, err := s.db.CountBookingsByStatus(ctx, org)
	if err != nil {
		return nil, err
	}
	revenue, err := s.db.SumBookingTotals(ctx, org, revenueStatuses)
	if err != nil {
		return nil, err
	}
	r := &BookingReport{Counts: counts, Revenue: pricing.RoundMoney(revenue)}
	if r.Counts == nil {
		r.Counts = []database.StatusCount{}
	}
	for _, c := range counts {
		r.Total += c.Count
	}
	return r, nil
}
