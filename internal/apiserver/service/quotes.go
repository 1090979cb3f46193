package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/amoylab/tourdesk/internal/apiserver/database"
	"github.com/amoylab/tourdesk/internal/booking"
	"github.com/amoylab/tourdesk/internal/permission"
	"github.com/amoylab/tourdesk/internal/pricing"
	"github.com/amoylab/tourdesk/internal/session"
	"github.com/amoylab/tourdesk/internal/template"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// QuoteInput creates a quote
type QuoteInput struct {
	ClientName      string            `json:"clientName"`
	ClientEmail     string            `json:"clientEmail"`
	ApprovedHotelID *uint             `json:"approvedHotelId"`
	TravelStart     *time.Time        `json:"travelStart"`
	TravelEnd       *time.Time        `json:"travelEnd"`
	Items           booking.LineItems `json:"items"`
	MarkupType      string            `json:"markupType"`
	MarkupValue     decimal.Decimal   `json:"markupValue"`
	Currency        string            `json:"currency"`
	Notes           string            `json:"notes"`
}

// QuoteDetail is a stored quote with its decoded items and price
type QuoteDetail struct {
	*database.Quote
	Items     booking.LineItems `json:"items"`
	Breakdown pricing.Breakdown `json:"breakdown"`
}

func markupOf(kind string, value decimal.Decimal) pricing.Markup {
	return pricing.Markup{Type: pricing.ParseMarkupType(kind), Value: value}
}

func quoteItems(q *database.Quote) booking.LineItems {
	return booking.DecodeLineItems(q.RoomArrangement, q.Transport, q.Activities, q.Transfers).Normalize()
}

func detailOf(q *database.Quote) *QuoteDetail {
	items := quoteItems(q)
	b := pricing.Compute(pricing.Quote{Items: items, Markup: markupOf(q.MarkupType, q.MarkupValue)})
	return &QuoteDetail{Quote: q, Items: items, Breakdown: b.Rounded()}
}

// CreateQuote stores a draft quote for the session organization
func (s *Service) CreateQuote(ctx context.Context, sess *session.Session, in QuoteInput) (*QuoteDetail, error) {
	if err := sess.Require(permission.CreateQuotes); err != nil {
		return nil, err
	}
	if strings.TrimSpace(in.ClientName) == "" {
		return nil, booking.Violations{booking.NewViolation("client_name", booking.MsgClientNameRequired)}
	}
	if sess.OrgID() == 0 {
		return nil, ErrMissingOrg
	}
	if in.ApprovedHotelID != nil && *in.ApprovedHotelID != 0 {
		if _, err := s.scopedHotel(ctx, sess, *in.ApprovedHotelID); err != nil {
			return nil, err
		}
	}
	markup := markupOf(in.MarkupType, in.MarkupValue)
	items := in.Items.Normalize()
	currency := in.Currency
	if currency == "" {
		currency = s.cfg.DefaultCurrency
	}

	q := &database.Quote{
		OrgID:           sess.OrgID(),
		ClientName:      strings.TrimSpace(in.ClientName),
		ClientEmail:     in.ClientEmail,
		ApprovedHotelID: in.ApprovedHotelID,
		TravelStart:     in.TravelStart,
		TravelEnd:       in.TravelEnd,
		RoomArrangement: booking.Encode(items.Rooms),
		Transport:       booking.Encode(items.Transport),
		Activities:      booking.Encode(items.Activities),
		Transfers:       booking.Encode(items.Transfers),
		MarkupType:      string(markup.Type),
		MarkupValue:     markup.Value,
		Currency:        currency,
		Status:          string(booking.QuoteDraft),
		Notes:           in.Notes,
		CreatedBy:       sess.User.UserID,
	}
	if err := s.db.CreateQuote(ctx, q); err != nil {
		return nil, err
	}
	return detailOf(q), nil
}

func (s *Service) scopedQuote(ctx context.Context, sess *session.Session, id uint) (*database.Quote, error) {
	q, err := s.db.GetQuote(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := sess.RequireOrg(q.OrgID); err != nil {
		return nil, err
	}
	return q, nil
}

// GetQuote returns one quote with its price breakdown
func (s *Service) GetQuote(ctx context.Context, sess *session.Session, id uint) (*QuoteDetail, error) {
	if err := sess.Require(permission.ViewQuotes); err != nil {
		return nil, err
	}
	q, err := s.scopedQuote(ctx, sess, id)
	if err != nil {
		return nil, err
	}
	return detailOf(q), nil
}

// ListQuotes lists quotes visible to the session
func (s *Service) ListQuotes(ctx context.Context, sess *session.Session) ([]*QuoteDetail, error) {
	if err := sess.Require(permission.ViewQuotes); err != nil {
		return nil, err
	}
	quotes, err := s.db.ListQuotes(ctx, sess.ScopeOrg())
	if err != nil {
		return nil, err
	}
	out := make([]*QuoteDetail, 0, len(quotes))
	for _, q := range quotes {
		out = append(out, detailOf(q))
	}
	return out, nil
}

// UpdateQuoteStatus moves a quote through its workflow. Approving and
// rejecting need the approve capability; converted is only reached through
// ConvertQuote.
func (s *Service) UpdateQuoteStatus(ctx context.Context, sess *session.Session, id uint, to booking.QuoteStatus) (*QuoteDetail, error) {
	flag := permission.EditQuotes
	if to == booking.QuoteApproved || to == booking.QuoteRejected {
		flag = permission.ApproveQuotes
	}
	if err := sess.Require(flag); err != nil {
		return nil, err
	}
	q, err := s.scopedQuote(ctx, sess, id)
	if err != nil {
		return nil, err
	}
	if to == booking.QuoteConverted {
		return nil, &booking.TransitionError{From: q.Status, To: string(to), Err: booking.ErrInvalidQuoteStatus}
	}
	if err := booking.QuoteTransition(booking.QuoteStatus(q.Status), to); err != nil {
		return nil, err
	}
	if err := s.db.UpdateQuoteStatus(ctx, id, string(to)); err != nil {
		return nil, err
	}
	s.logger.Info("quote status changed",
		zap.Uint("quote_id", id),
		zap.String("from", q.Status),
		zap.String("to", string(to)),
		zap.Uint("actor_id", sess.User.UserID))
	q.Status = string(to)
	return detailOf(q), nil
}

// RenderQuote renders the client facing quote document
func (s *Service) RenderQuote(ctx context.Context, sess *session.Session, id uint) ([]byte, error) {
	d, err := s.GetQuote(ctx, sess, id)
	if err != nil {
		return nil, err
	}
	tc := template.NewContext()
	tc.Organization = s.orgName(sess)
	tc.Reference = fmt.Sprintf("Q-%06d", d.ID)
	tc.Status = d.Status
	tc.Client = template.ClientWrapper{Name: d.ClientName, Email: d.ClientEmail}
	tc.TravelStart = d.TravelStart
	tc.TravelEnd = d.TravelEnd
	tc.Items = d.Items
	tc.Breakdown = d.Breakdown
	tc.Currency = d.Currency
	tc.Notes = d.Notes
	if d.ApprovedHotelID != nil {
		if h, err := s.db.GetHotel(ctx, *d.ApprovedHotelID); err == nil {
			tc.Hotel = h.Name
		}
	}
	return s.render(template.DocumentQuote, tc)
}

func (s *Service) render(doc template.Document, tc *template.Context) ([]byte, error) {
	if s.renderer == nil {
		return nil, ErrDocumentRender
	}
	out, err := s.renderer.RenderDocument(doc, tc)
	if err != nil {
		s.logger.Error("failed to render document", zap.String("document", string(doc)), zap.Error(err))
		return nil, ErrDocumentRender
	}
	return out, nil
}

func (s *Service) orgName(sess *session.Session) string {
	if sess.Organization == nil {
		return ""
	}
	return sess.Organization.Name
}
