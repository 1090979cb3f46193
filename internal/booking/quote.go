package booking

import (
	"errors"
	"fmt"
	"time"
)

// QuoteStatus is the workflow state of a quote
type QuoteStatus string

const (
	QuoteDraft     QuoteStatus = "draft"
	QuoteSent      QuoteStatus = "sent"
	QuoteApproved  QuoteStatus = "approved"
	QuoteRejected  QuoteStatus = "rejected"
	QuoteConverted QuoteStatus = "converted"
)

var (
	ErrQuoteNotApproved   = errors.New("quote is not approved")
	ErrQuoteNoHotel       = errors.New("quote has no approved hotel")
	ErrQuoteNoDates       = errors.New("quote has no travel dates")
	ErrQuoteStartInPast   = errors.New("quote travel start date is in the past")
	ErrInvalidQuoteStatus = errors.New("invalid quote status transition")
)

var quoteTransitions = map[QuoteStatus][]QuoteStatus{
	QuoteDraft:     {QuoteSent, QuoteRejected},
	QuoteSent:      {QuoteApproved, QuoteRejected, QuoteDraft},
	QuoteApproved:  {QuoteConverted, QuoteRejected},
	QuoteRejected:  {QuoteDraft},
	QuoteConverted: {},
}

// QuoteTransition validates a quote status change. Converted is only reached
// through booking conversion.
func QuoteTransition(from, to QuoteStatus) error {
	for _, next := range quoteTransitions[from] {
		if next == to {
			return nil
		}
	}
	return &TransitionError{From: string(from), To: string(to), Err: ErrInvalidQuoteStatus}
}

// QuoteFacts are the quote fields that decide conversion eligibility
type QuoteFacts struct {
	Status          QuoteStatus
	ApprovedHotelID *uint
	TravelStart     *time.Time
}

// CheckQuoteEligible returns nil when the quote may be converted into a
// booking: approved, with an approved hotel, starting today or later
func CheckQuoteEligible(q QuoteFacts, now time.Time) error {
	if q.Status != QuoteApproved {
		return fmt.Errorf("%w: status is %s", ErrQuoteNotApproved, q.Status)
	}
	if q.ApprovedHotelID == nil || *q.ApprovedHotelID == 0 {
		return ErrQuoteNoHotel
	}
	if q.TravelStart == nil || q.TravelStart.IsZero() {
		return ErrQuoteNoDates
	}
	if DateOf(*q.TravelStart).Before(DateOf(now)) {
		return ErrQuoteStartInPast
	}
	return nil
}
