package handler

import (
	"net/http"

	"github.com/amoylab/tourdesk/internal/apiserver/service"
	"github.com/amoylab/tourdesk/internal/booking"
	"github.com/amoylab/tourdesk/internal/common/dto"
	"github.com/amoylab/tourdesk/internal/i18n"

	"github.com/gin-gonic/gin"
)

const htmlContentType = "text/html; charset=utf-8"

// CreateQuote handles quote creation. New quotes start as drafts.
func (h *Handler) CreateQuote(c *gin.Context) {
	sess, ok := h.session(c)
	if !ok {
		return
	}
	var req service.QuoteInput
	if !h.bind(c, &req) {
		return
	}

	q, err := h.svc.CreateQuote(c.Request.Context(), sess, req)
	if err != nil {
		h.fail(c, err, quoteResource)
		return
	}
	i18n.Created(i18n.SuccessQuoteCreated).WithPayload(q).Send(c)
}

// ListQuotes handles listing quotes
func (h *Handler) ListQuotes(c *gin.Context) {
	sess, ok := h.session(c)
	if !ok {
		return
	}
	quotes, err := h.svc.ListQuotes(c.Request.Context(), sess)
	if err != nil {
		h.fail(c, err, quoteResource)
		return
	}
	i18n.Success(i18n.SuccessQuoteList).WithPayload(quotes).Send(c)
}

// GetQuote handles fetching one quote
func (h *Handler) GetQuote(c *gin.Context) {
	sess, ok := h.session(c)
	if !ok {
		return
	}
	id, ok := h.id(c, "id")
	if !ok {
		return
	}
	q, err := h.svc.GetQuote(c.Request.Context(), sess, id)
	if err != nil {
		h.fail(c, err, quoteResource)
		return
	}
	i18n.Success(i18n.SuccessQuoteInfo).WithPayload(q).Send(c)
}

// GetQuoteTotal returns the price breakdown of a quote
func (h *Handler) GetQuoteTotal(c *gin.Context) {
	sess, ok := h.session(c)
	if !ok {
		return
	}
	id, ok := h.id(c, "id")
	if !ok {
		return
	}
	q, err := h.svc.GetQuote(c.Request.Context(), sess, id)
	if err != nil {
		h.fail(c, err, quoteResource)
		return
	}
	i18n.Success(i18n.SuccessQuoteTotal).
		With("currency", q.Currency).
		WithPayload(q.Breakdown).
		Send(c)
}

// UpdateQuoteStatus moves a quote through its workflow
func (h *Handler) UpdateQuoteStatus(c *gin.Context) {
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

	q, err := h.svc.UpdateQuoteStatus(c.Request.Context(), sess, id, booking.QuoteStatus(req.Status))
	if err != nil {
		h.fail(c, err, quoteResource)
		return
	}
	i18n.Success(i18n.SuccessQuoteUpdated).WithPayload(q).Send(c)
}

// QuoteDocument renders the quote as an HTML document
func (h *Handler) QuoteDocument(c *gin.Context) {
	sess, ok := h.session(c)
	if !ok {
		return
	}
	id, ok := h.id(c, "id")
	if !ok {
		return
	}
	doc, err := h.svc.RenderQuote(c.Request.Context(), sess, id)
	if err != nil {
		h.fail(c, err, quoteResource)
		return
	}
	c.Data(http.StatusOK, htmlContentType, doc)
}
