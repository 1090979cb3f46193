package handler

import (
	"net/http"

	"github.com/amoylab/tourdesk/internal/common/dto"
	"github.com/amoylab/tourdesk/internal/i18n"

	"github.com/gin-gonic/gin"
)

// IssueVoucher handles issuing a voucher for a confirmed booking
func (h *Handler) IssueVoucher(c *gin.Context) {
	sess, ok := h.session(c)
	if !ok {
		return
	}
	bookingID, ok := h.id(c, "id")
	if !ok {
		return
	}
	v, err := h.svc.IssueVoucher(c.Request.Context(), sess, bookingID)
	if err != nil {
		h.fail(c, err, bookingResource)
		return
	}
	i18n.Created(i18n.SuccessVoucherIssued).WithPayload(v).Send(c)
}

// ListVouchers lists the vouchers of a booking
func (h *Handler) ListVouchers(c *gin.Context) {
	sess, ok := h.session(c)
	if !ok {
		return
	}
	bookingID, ok := h.id(c, "id")
	if !ok {
		return
	}
	vouchers, err := h.svc.ListVouchers(c.Request.Context(), sess, bookingID)
	if err != nil {
		h.fail(c, err, bookingResource)
		return
	}
	i18n.Success(i18n.SuccessVoucherList).WithPayload(vouchers).Send(c)
}

// VoucherDocument renders a voucher as an HTML document
func (h *Handler) VoucherDocument(c *gin.Context) {
	sess, ok := h.session(c)
	if !ok {
		return
	}
	id, ok := h.id(c, "id")
	if !ok {
		return
	}
	doc, err := h.svc.RenderVoucher(c.Request.Context(), sess, id)
	if err != nil {
		h.fail(c, err, voucherResource)
		return
	}
	c.Data(http.StatusOK, htmlContentType, doc)
}

// SendVoucher emails a voucher and marks it sent
func (h *Handler) SendVoucher(c *gin.Context) {
	sess, ok := h.session(c)
	if !ok {
		return
	}
	id, ok := h.id(c, "id")
	if !ok {
		return
	}
	var req dto.SendVoucherRequest
	if c.Request.ContentLength != 0 && !h.bind(c, &req) {
		return
	}

	v, err := h.svc.SendVoucher(c.Request.Context(), sess, id, req.To)
	if err != nil {
		h.fail(c, err, voucherResource)
		return
	}
	i18n.Success(i18n.SuccessVoucherSent).WithPayload(v).Send(c)
}
