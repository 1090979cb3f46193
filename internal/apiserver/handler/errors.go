package handler

import (
	"errors"

	"github.com/amoylab/tourdesk/internal/apiserver/service"
	"github.com/amoylab/tourdesk/internal/booking"
	"github.com/amoylab/tourdesk/internal/common/cnst"
	"github.com/amoylab/tourdesk/internal/i18n"
	"github.com/amoylab/tourdesk/internal/inventory"
	"github.com/amoylab/tourdesk/internal/mailer"
	"github.com/amoylab/tourdesk/internal/session"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// resource picks the errors reported when a request addresses a missing,
// invalid or duplicate record
type resource struct {
	notFound *i18n.ErrorWithCode
	invalid  *i18n.ErrorWithCode
	conflict *i18n.ErrorWithCode
}

var (
	anyResource      = resource{i18n.ErrNotFound, i18n.ErrBadRequest, i18n.ErrConflict}
	bookingResource  = resource{i18n.ErrorBookingNotFound, i18n.ErrorBookingValidation, i18n.ErrorBookingReferenceExists}
	quoteResource    = resource{i18n.ErrorQuoteNotFound, i18n.ErrorQuoteValidation, anyResource.conflict}
	hotelResource    = resource{i18n.ErrorHotelNotFound, i18n.ErrorHotelValidation, anyResource.conflict}
	roomTypeResource = resource{i18n.ErrorRoomTypeNotFound, i18n.ErrorRoomTypeValidation, anyResource.conflict}
	paymentResource  = resource{i18n.ErrorPaymentNotFound, i18n.ErrBadRequest, anyResource.conflict}
	voucherResource  = resource{i18n.ErrorVoucherNotFound, i18n.ErrBadRequest, anyResource.conflict}
	userResource     = resource{i18n.ErrorUserNotFound, i18n.ErrBadRequest, i18n.ErrorUsernameExists}
	orgResource      = resource{i18n.ErrorOrganizationNotFound, i18n.ErrBadRequest, i18n.ErrorOrganizationExists}
)

// sentinels maps domain errors without parameters to their HTTP error
var sentinels = []struct {
	err error
	out *i18n.ErrorWithCode
}{
	{cnst.ErrOrgScope, i18n.ErrorOrgScope},
	{cnst.ErrForbidden, i18n.ErrForbidden},
	{session.ErrImmutableField, i18n.ErrorImmutableField},
	{booking.ErrBookingClosed, i18n.ErrorBookingClosed},
	{booking.ErrQuoteNotApproved, i18n.ErrorQuoteNotApproved},
	{booking.ErrQuoteNoHotel, i18n.ErrorQuoteNoHotel},
	{booking.ErrQuoteNoDates, i18n.ErrorQuoteNoDates},
	{booking.ErrQuoteStartInPast, i18n.ErrorQuoteStartInPast},
	{booking.ErrVoucherRequiresConfirmed, i18n.ErrorVoucherNotConfirmed},
	{booking.ErrOverpayment, i18n.ErrorOverpayment},
	{booking.ErrInvalidAmount, i18n.ErrorInvalidAmount},
	{booking.ErrPaymentOnCancelled, i18n.ErrorPaymentOnCancelled},
	{inventory.ErrNegativeUnits, i18n.ErrorNegativeUnits},
	{inventory.ErrInvalidRange, i18n.ErrorInvalidRange},
	{service.ErrRoomTypeHotelMismatch, i18n.ErrorRoomTypeHotelScope},
	{service.ErrBulkEmpty, i18n.ErrorBulkEmpty},
	{service.ErrInvalidCredentials, i18n.ErrorInvalidCredentials},
	{service.ErrCredentialsRequired, i18n.ErrorUserNamePasswordRequired},
	{service.ErrUserDisabled, i18n.ErrorUserDisabled},
	{service.ErrMissingOrg, i18n.ErrorMissingOrg},
	{service.ErrNoRecipient, i18n.ErrorVoucherNoRecipient},
	{service.ErrDocumentRender, i18n.ErrorDocumentRenderFailed},
	{mailer.ErrDisabled, i18n.ErrorMailerUnavailable},
}

// transitionErrors maps the state machine sentinels of a TransitionError
var transitionErrors = map[error]*i18n.ErrorWithCode{
	booking.ErrInvalidTransition:    i18n.ErrorInvalidTransition,
	booking.ErrInvalidQuoteStatus:   i18n.ErrorInvalidQuoteStatus,
	booking.ErrInvalidPaymentStatus: i18n.ErrorInvalidPaymentStatus,
}

// translate maps err to the HTTP error reported for it. ok is false for
// errors nobody expected, which are reported as internal errors.
func (h *Handler) translate(err error, res resource) (out *i18n.ErrorWithCode, ok bool) {
	var coded *i18n.ErrorWithCode
	if errors.As(err, &coded) {
		return coded, true
	}

	var perm *session.PermissionError
	if errors.As(err, &perm) {
		return i18n.ErrorPermissionDenied.WithParam("Permission", string(perm.Flag)), true
	}

	var tr *booking.TransitionError
	if errors.As(err, &tr) {
		if mapped, found := transitionErrors[tr.Err]; found {
			return mapped.WithParam("From", tr.From).WithParam("To", tr.To), true
		}
	}

	var capacity *inventory.CapacityError
	if errors.As(err, &capacity) {
		return i18n.ErrorExceedsCapacity.WithParam("TotalUnits", capacity.TotalUnits), true
	}

	switch {
	case errors.Is(err, cnst.ErrNotFound):
		return res.notFound, true
	case errors.Is(err, cnst.ErrConflict):
		return res.conflict, true
	case errors.Is(err, service.ErrBulkTooLarge):
		return i18n.ErrorBulkTooLarge.WithParam("Limit", h.svc.BulkLimit()), true
	case errors.Is(err, inventory.ErrRangeTooLong):
		return i18n.ErrorRangeTooLong.WithParam("Days", inventory.MaxRangeDays), true
	case errors.Is(err, booking.ErrUnknownStatus), errors.Is(err, booking.ErrInvalidPaymentStatus):
		return i18n.ErrorUnknownStatus.WithParam("Status", ""), true
	case errors.Is(err, service.ErrInvalidRole):
		return i18n.ErrorInvalidRole.WithParam("Role", ""), true
	case errors.Is(err, session.ErrInvalidTier):
		return i18n.ErrorInvalidTier.WithParam("Tier", ""), true
	}

	for _, s := range sentinels {
		if errors.Is(err, s.err) {
			return s.out, true
		}
	}
	return i18n.ErrInternalServer, false
}

// fail writes the error response for err
func (h *Handler) fail(c *gin.Context, err error, res resource) {
	var violations booking.Violations
	if errors.As(err, &violations) {
		h.invalid(c, violations, res.invalid)
		return
	}

	out, ok := h.translate(err, res)
	if !ok {
		h.logger.Error("request failed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Error(err))
	}
	i18n.RespondWithError(c, out)
}

// invalid reports every violation at once, translated to the language of
// the request
func (h *Handler) invalid(c *gin.Context, violations booking.Violations, base *i18n.ErrorWithCode) {
	fields := make([]i18n.FieldError, 0, len(violations))
	for _, v := range violations {
		fields = append(fields, i18n.FieldError{Field: v.Field, MessageID: v.MessageID, Message: v.Message})
	}
	i18n.RespondWithFieldErrors(c, base, fields)
}
