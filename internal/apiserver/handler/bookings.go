package handler

import (
	"github.com/amoylab/tourdesk/internal/apiserver/database"
	"github.com/amoylab/tourdesk/internal/apiserver/service"
	"github.com/amoylab/tourdesk/internal/booking"
	"github.com/amoylab/tourdesk/internal/common/dto"
	"github.com/amoylab/tourdesk/internal/i18n"

	"github.com/gin-gonic/gin"
)

const defaultPageSize = 50

// statusOf parses a booking status, writing a 400 for unknown values
func statusOf(c *gin.Context, raw string) (booking.Status, bool) {
	s, err := booking.ParseStatus(raw)
	if err != nil {
		i18n.RespondWithError(c, i18n.ErrorUnknownStatus.WithParam("Status", raw))
		return "", false
	}
	return s, true
}

// CreateBooking handles direct booking creation
func (h *Handler) CreateBooking(c *gin.Context) {
	sess, ok := h.session(c)
	if !ok {
		return
	}
	var req service.BookingInput
	if !h.bind(c, &req) {
		return
	}

	b, err := h.svc.CreateBooking(c.Request.Context(), sess, req)
	if err != nil {
		h.fail(c, err, bookingResource)
		return
	}
	i18n.Created(i18n.SuccessBookingCreated).WithPayload(b).Send(c)
}

// ConvertQuote turns an approved quote into a pending booking
func (h *Handler) ConvertQuote(c *gin.Context) {
	sess, ok := h.session(c)
	if !ok {
		return
	}
	quoteID, ok := h.id(c, "id")
	if !ok {
		return
	}

	b, err := h.svc.ConvertQuote(c.Request.Context(), sess, quoteID)
	if err != nil {
		h.fail(c, err, quoteResource)
		return
	}
	i18n.Created(i18n.SuccessBookingConverted).WithPayload(b).Send(c)
}

// ListBookings handles listing bookings with optional status and search
// filters
func (h *Handler) ListBookings(c *gin.Context) {
	sess, ok := h.session(c)
	if !ok {
		return
	}
	filter := database.BookingFilter{
		Search: c.Query("search"),
		Limit:  queryInt(c, "limit", defaultPageSize),
		Offset: queryInt(c, "offset", 0),
	}
	if raw := c.Query("status"); raw != "" {
		status, ok := statusOf(c, raw)
		if !ok {
			return
		}
		filter.Status = string(status)
	}

	bookings, total, err := h.svc.ListBookings(c.Request.Context(), sess, filter)
	if err != nil {
		h.fail(c, err, bookingResource)
		return
	}
	i18n.Success(i18n.SuccessBookingList).
		With("total", total).
		WithPayload(bookings).
		Send(c)
}

// GetBooking handles fetching one booking
func (h *Handler) GetBooking(c *gin.Context) {
	sess, ok := h.session(c)
	if !ok {
		return
	}
	id, ok := h.id(c, "id")
	if !ok {
		return
	}
	b, err := h.svc.GetBooking(c.Request.Context(), sess, id)
	if err != nil {
		h.fail(c, err, bookingResource)
		return
	}
	i18n.Success(i18n.SuccessBookingInfo).WithPayload(b).Send(c)
}

// UpdateBookingStatus moves one booking along the transition table
func (h *Handler) UpdateBookingStatus(c *gin.Context) {
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
	to, ok := statusOf(c, req.Status)
	if !ok {
		return
	}

	b, err := h.svc.UpdateStatus(c.Request.Context(), sess, id, to)
	if err != nil {
		h.fail(c, err, bookingResource)
		return
	}
	i18n.Success(i18n.SuccessBookingStatusUpdated).WithPayload(b).Send(c)
}

// UpdateBookingItems replaces the line items of a booking and recomputes its
// total
func (h *Handler) UpdateBookingItems(c *gin.Context) {
	sess, ok := h.session(c)
	if !ok {
		return
	}
	id, ok := h.id(c, "id")
	if !ok {
		return
	}
	var req service.ItemsUpdate
	if !h.bind(c, &req) {
		return
	}

	b, err := h.svc.UpdateItems(c.Request.Context(), sess, id, req)
	if err != nil {
		h.fail(c, err, bookingResource)
		return
	}
	i18n.Success(i18n.SuccessBookingItemsUpdated).WithPayload(b).Send(c)
}

// BulkUpdateStatus applies one status to many bookings. Ids that fail are
// listed in failedIds; the response is still a success.
func (h *Handler) BulkUpdateStatus(c *gin.Context) {
	sess, ok := h.session(c)
	if !ok {
		return
	}
	var req dto.BulkStatusRequest
	if !h.bind(c, &req) {
		return
	}
	to, ok := statusOf(c, req.Status)
	if !ok {
		return
	}

	res, err := h.svc.BulkUpdateStatus(c.Request.Context(), sess, req.IDs, to)
	if err != nil {
		h.fail(c, err, bookingResource)
		return
	}
	i18n.Success(i18n.SuccessBulkStatusUpdated).WithPayload(res).Send(c)
}

// BulkDelete deletes many bookings
func (h *Handler) BulkDelete(c *gin.Context) {
	sess, ok := h.session(c)
	if !ok {
		return
	}
	var req dto.BulkDeleteRequest
	if !h.bind(c, &req) {
		return
	}

	res, err := h.svc.BulkDelete(c.Request.Context(), sess, req.IDs)
	if err != nil {
		h.fail(c, err, bookingResource)
		return
	}
	i18n.Success(i18n.SuccessBulkDeleted).WithPayload(res).Send(c)
}

// GetTransitions lists the statuses a booking may move to and whether a
// voucher can be issued for it
func (h *Handler) GetTransitions(c *gin.Context) {
	sess, ok := h.session(c)
	if !ok {
		return
	}
	id, ok := h.id(c, "id")
	if !ok {
		return
	}
	tr, err := h.svc.Transitions(c.Request.Context(), sess, id)
	if err != nil {
		h.fail(c, err, bookingResource)
		return
	}
	i18n.Success(i18n.SuccessBookingTransitions).WithPayload(tr).Send(c)
}

// GetHistory lists the status changes of a booking
func (h *Handler) GetHistory(c *gin.Context) {
	sess, ok := h.session(c)
	if !ok {
		return
	}
	id, ok := h.id(c, "id")
	if !ok {
		return
	}
	events, err := h.svc.History(c.Request.Context(), sess, id)
	if err != nil {
		h.fail(c, err, bookingResource)
		return
	}
	i18n.Success(i18n.SuccessBookingHistory).WithPayload(events).Send(c)
}
