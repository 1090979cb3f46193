package handler

import (
	"github.com/amoylab/tourdesk/internal/i18n"

	"github.com/gin-gonic/gin"
)

// BookingReport returns booking counts per status and the revenue of
// confirmed and completed bookings
func (h *Handler) BookingReport(c *gin.Context) {
	sess, ok := h.session(c)
	if !ok {
		return
	}
	report, err := h.svc.BookingReport(c.Request.Context(), sess)
	if err != nil {
		h.fail(c, err, anyResource)
		return
	}
	i18n.Success(i18n.SuccessReport).WithPayload(report).Send(c)
}
