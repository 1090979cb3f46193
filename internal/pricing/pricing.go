// Package pricing totals quote and booking line items and applies markup.
package pricing

import (
	"github.com/amoylab/tourdesk/internal/booking"
	"github.com/shopspring/decimal"
)

// MarkupType selects how Markup.Value is applied
type MarkupType string

const (
	MarkupPercentage MarkupType = "percentage"
	MarkupFlat       MarkupType = "flat"
)

var hundred = decimal.NewFromInt(100)

// Markup is added on top of the line-item subtotal
type Markup struct {
	Type  MarkupType      `json:"type"`
	Value decimal.Decimal `json:"value"`
}

// Amount returns the markup for the given subtotal. Any type other than
// percentage is treated as a flat amount.
func (m Markup) Amount(subtotal decimal.Decimal) decimal.Decimal {
	if m.Type == MarkupPercentage {
		return subtotal.Mul(m.Value).Div(hundred)
	}
	return m.Value
}

// Quote is everything needed to price a quote or booking
type Quote struct {
	Items  booking.LineItems
	Markup Markup
}

// Breakdown is a priced quote, per collection
type Breakdown struct {
	Rooms      decimal.Decimal `json:"rooms"`
	Transport  decimal.Decimal `json:"transport"`
	Transfers  decimal.Decimal `json:"transfers"`
	Activities decimal.Decimal `json:"activities"`
	Subtotal   decimal.Decimal `json:"subtotal"`
	MarkupType MarkupType      `json:"markupType"`
	Markup     decimal.Decimal `json:"markup"`
	Total      decimal.Decimal `json:"total"`
}

// ComputeTotal sums every stored line-item total and adds the markup.
// The result is exact; callers round with RoundMoney where it is stored or
// shown.
func ComputeTotal(q Quote) decimal.Decimal {
	return Compute(q).Total
}

// Compute prices q and keeps the per-collection sums
func Compute(q Quote) Breakdown {
	var b Breakdown
	for _, r := range q.Items.Rooms {
		b.Rooms = b.Rooms.Add(r.Total)
	}
	for _, t := range q.Items.Transport {
		b.Transport = b.Transport.Add(t.Total)
	}
	for _, t := range q.Items.Transfers {
		b.Transfers = b.Transfers.Add(t.Total)
	}
	for _, a := range q.Items.Activities {
		b.Activities = b.Activities.Add(a.Total)
	}
	b.Subtotal = b.Rooms.Add(b.Transport).Add(b.Transfers).Add(b.Activities)
	b.MarkupType = q.Markup.Type
	b.Markup = q.Markup.Amount(b.Subtotal)
	b.Total = b.Subtotal.Add(b.Markup)
	return b
}

// Rounded returns a copy of b with every amount rounded to cents
func (b Breakdown) Rounded() Breakdown {
	b.Rooms = RoundMoney(b.Rooms)
	b.Transport = RoundMoney(b.Transport)
	b.Transfers = RoundMoney(b.Transfers)
	b.Activities = RoundMoney(b.Activities)
	b.Subtotal = RoundMoney(b.Subtotal)
	b.Markup = RoundMoney(b.Markup)
	b.Total = RoundMoney(b.Total)
	return b
}

// RoundMoney rounds half away from zero to two decimal places
func RoundMoney(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// ParseMarkupType maps a stored markup type. An empty type is a percentage;
// any other unknown value is flat.
func ParseMarkupType(s string) MarkupType {
	switch MarkupType(s) {
	case "", MarkupPercentage:
		return MarkupPercentage
	default:
		return MarkupFlat
	}
}
