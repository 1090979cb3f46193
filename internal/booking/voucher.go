package booking

import (
	"errors"
	"fmt"
)

// ErrVoucherRequiresConfirmed is returned when a voucher is requested for a
// booking that is not confirmed
var ErrVoucherRequiresConfirmed = errors.New("vouchers can only be issued for confirmed bookings")

// CheckVoucherAllowed gates voucher creation on the booking status
func CheckVoucherAllowed(s Status) error {
	if !VoucherAvailable(s) {
		return fmt.Errorf("%w: status is %s", ErrVoucherRequiresConfirmed, s)
	}
	return nil
}
