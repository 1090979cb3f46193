package handler

import (
	"github.com/amoylab/tourdesk/internal/apiserver/service"
	"github.com/amoylab/tourdesk/internal/booking"
	"github.com/amoylab/tourdesk/internal/common/dto"
	"github.com/amoylab/tourdesk/internal/i18n"

	"github.com/gin-gonic/gin"
)

// RecordPayment handles recording a payment against a booking
func (h *Handler) RecordPayment(c *gin.Context) {
	sess, ok := h.session(c)
	if !ok {
		return
	}
	bookingID, ok := h.id(c, "id")
	if !ok {
		return
	}
	var req service.PaymentInput
	if !h.bind(c, &req) {
		return
	}

	p, err := h.svc.RecordPayment(c.Request.Context(), sess, bookingID, req)
	if err != nil {
		h.fail(c, err, bookingResource)
		return
	}
	i18n.Created(i18n.SuccessPaymentRecorded).WithPayload(p).Send(c)
}

// ListPayments lists the payments of a booking with paid and outstanding
// totals
func (h *Handler) ListPayments(c *gin.Context) {
	sess, ok := h.session(c)
	if !ok {
		return
	}
	bookingID, ok := h.id(c, "id")
	if !ok {
		return
	}
	summary, err := h.svc.ListPayments(c.Request.Context(), sess, bookingID)
	if err != nil {
		h.fail(c, err, bookingResource)
		return
	}
	i18n.Success(i18n.SuccessPaymentList).WithPayload(summary).Send(c)
}

// UpdatePaymentStatus moves a payment along the payment table
func (h *Handler) UpdatePaymentStatus(c *gin.Context) {
	sess, ok := h.session(c)
	if !ok {
		return
	}
	id, ok := h.id(c, "id")
	if !ok {
		return
	}
	var req dto.StatusRequest
	if !h.bind(c, &req) {
		return
	}
	to, err := booking.ParsePaymentStatus(req.Status)
	if err != nil {
		i18n.RespondWithError(c, i18n.ErrorUnknownStatus.WithParam("Status", req.Status))
		return
	}

	p, err := h.svc.UpdatePaymentStatus(c.Request.Context(), sess, id, to)
	if err != nil {
		h.fail(c, err, paymentResource)
		return
	}
	i18n.Success(i18n.SuccessPaymentUpdated).WithPayload(p).Send(c)
}
