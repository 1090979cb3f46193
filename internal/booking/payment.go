package booking

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// PaymentStatus is the state of a single payment
type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "pending"
	PaymentCompleted PaymentStatus = "completed"
	PaymentFailed    PaymentStatus = "failed"
	PaymentRefunded  PaymentStatus = "refunded"
)

var (
	ErrOverpayment          = errors.New("completed payments would exceed the booking total")
	ErrInvalidAmount        = errors.New("payment amount must be greater than 0")
	ErrInvalidPaymentStatus = errors.New("invalid payment status transition")
	ErrPaymentOnCancelled   = errors.New("payments cannot be recorded on a cancelled booking")
)

var paymentTransitions = map[PaymentStatus][]PaymentStatus{
	PaymentPending:   {PaymentCompleted, PaymentFailed},
	PaymentCompleted: {PaymentRefunded},
	PaymentFailed:    {},
	PaymentRefunded:  {},
}

// ParsePaymentStatus validates a raw payment status, defaulting to pending
func ParsePaymentStatus(s string) (PaymentStatus, error) {
	if s == "" {
		return PaymentPending, nil
	}
	st := PaymentStatus(s)
	if _, ok := paymentTransitions[st]; !ok {
		return "", fmt.Errorf("%w: unknown status %q", ErrInvalidPaymentStatus, s)
	}
	return st, nil
}

// PaymentTransition validates a payment status change
func PaymentTransition(from, to PaymentStatus) error {
	for _, next := range paymentTransitions[from] {
		if next == to {
			return nil
		}
	}
	return &TransitionError{From: string(from), To: string(to), Err: ErrInvalidPaymentStatus}
}

// CheckOverpayment rejects a completed amount that would push the sum of
// completed payments above the booking total
func CheckOverpayment(total, completed, amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return ErrInvalidAmount
	}
	if completed.Add(amount).GreaterThan(total) {
		return fmt.Errorf("%w: total %s, already paid %s, new %s",
			ErrOverpayment, total.StringFixed(2), completed.StringFixed(2), amount.StringFixed(2))
	}
	return nil
}

// CheckTotalCoversPaid rejects a new booking total that falls below what has
// already been paid
func CheckTotalCoversPaid(total, completed decimal.Decimal) error {
	if completed.GreaterThan(total) {
		return fmt.Errorf("%w: new total %s, already paid %s",
			ErrOverpayment, total.StringFixed(2), completed.StringFixed(2))
	}
	return nil
}
