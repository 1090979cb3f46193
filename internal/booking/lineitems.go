package booking

import (
	"encoding/json"
	"errors"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/tidwall/gjson"
)

// RoomLine is one room arrangement of a quote or booking
type RoomLine struct {
	RoomTypeID uint            `json:"room_type_id,omitempty"`
	RoomType   string          `json:"room_type"`
	Quantity   int             `json:"quantity"`
	Nights     int             `json:"nights"`
	UnitPrice  decimal.Decimal `json:"unit_price"`
	Total      decimal.Decimal `json:"total"`
}

// TransportLine is a flight, train or coach leg
type TransportLine struct {
	Type        string          `json:"type"`
	Description string          `json:"description"`
	Date        string          `json:"date,omitempty"`
	Total       decimal.Decimal `json:"total"`
}

// TransferLine is a point to point transfer
type TransferLine struct {
	From       string          `json:"from"`
	To         string          `json:"to"`
	Date       string          `json:"date,omitempty"`
	Passengers int             `json:"passengers"`
	Total      decimal.Decimal `json:"total"`
}

// ActivityLine is an excursion or ticketed activity
type ActivityLine struct {
	Name         string          `json:"name"`
	Date         string          `json:"date,omitempty"`
	Participants int             `json:"participants"`
	Total        decimal.Decimal `json:"total_cost"`
}

// LineItems groups the four nested collections stored on quotes and bookings
type LineItems struct {
	Rooms      []RoomLine      `json:"room_arrangement"`
	Transport  []TransportLine `json:"transport"`
	Activities []ActivityLine  `json:"activities"`
	Transfers  []TransferLine  `json:"transfers"`
}

// Normalize replaces nil collections with empty ones
func (l LineItems) Normalize() LineItems {
	if l.Rooms == nil {
		l.Rooms = []RoomLine{}
	}
	if l.Transport == nil {
		l.Transport = []TransportLine{}
	}
	if l.Activities == nil {
		l.Activities = []ActivityLine{}
	}
	if l.Transfers == nil {
		l.Transfers = []TransferLine{}
	}
	return l
}

// DecodeLineItems decodes the four stored columns
func DecodeLineItems(rooms, transport, activities, transfers []byte) LineItems {
	return LineItems{
		Rooms:      DecodeRooms(rooms),
		Transport:  DecodeTransport(transport),
		Activities: DecodeActivities(activities),
		Transfers:  DecodeTransfers(transfers),
	}
}

// elements returns the objects of a stored collection. The column may hold a
// JSON array, a JSON string that itself encodes an array, or garbage; the
// latter yields nothing.
func elements(raw []byte) []gjson.Result {
	if len(raw) == 0 || !gjson.ValidBytes(raw) {
		return nil
	}
	res := gjson.ParseBytes(raw)
	if res.Type == gjson.String {
		inner := strings.TrimSpace(res.Str)
		if !gjson.Valid(inner) {
			return nil
		}
		res = gjson.Parse(inner)
	}
	if !res.IsArray() {
		return nil
	}

	var out []gjson.Result
	for _, el := range res.Array() {
		if el.IsObject() {
			out = append(out, el)
		}
	}
	return out
}

// amount reads a money value stored either as a JSON number or a string
func amount(res gjson.Result) decimal.Decimal {
	var raw string
	switch res.Type {
	case gjson.Number:
		raw = res.Raw
	case gjson.String:
		raw = strings.TrimSpace(res.Str)
	default:
		return decimal.Zero
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// itemTotal reads the pre-computed total of a line item
func itemTotal(el gjson.Result) decimal.Decimal {
	if t := el.Get("total"); t.Exists() {
		return amount(t)
	}
	return amount(el.Get("total_cost"))
}

var errLineNotObject = errors.New("line item must be a JSON object")

// object parses one line item sent in a request body
func object(data []byte) (gjson.Result, bool, error) {
	if !gjson.ValidBytes(data) {
		return gjson.Result{}, false, errLineNotObject
	}
	res := gjson.ParseBytes(data)
	if res.Type == gjson.Null {
		return res, false, nil
	}
	if !res.IsObject() {
		return gjson.Result{}, false, errLineNotObject
	}
	return res, true, nil
}

func roomFrom(el gjson.Result) RoomLine {
	return RoomLine{
		RoomTypeID: uint(el.Get("room_type_id").Uint()),
		RoomType:   el.Get("room_type").String(),
		Quantity:   int(el.Get("quantity").Int()),
		Nights:     int(el.Get("nights").Int()),
		UnitPrice:  amount(el.Get("unit_price")),
		Total:      itemTotal(el),
	}
}

func transportFrom(el gjson.Result) TransportLine {
	return TransportLine{
		Type:        el.Get("type").String(),
		Description: el.Get("description").String(),
		Date:        el.Get("date").String(),
		Total:       itemTotal(el),
	}
}

func transferFrom(el gjson.Result) TransferLine {
	return TransferLine{
		From:       el.Get("from").String(),
		To:         el.Get("to").String(),
		Date:       el.Get("date").String(),
		Passengers: int(el.Get("passengers").Int()),
		Total:      itemTotal(el),
	}
}

func activityFrom(el gjson.Result) ActivityLine {
	return ActivityLine{
		Name:         el.Get("name").String(),
		Date:         el.Get("date").String(),
		Participants: int(el.Get("participants").Int()),
		Total:        itemTotal(el),
	}
}

// UnmarshalJSON reads a room the same way stored rooms are decoded, so a
// request may carry either total or total_cost
func (r *RoomLine) UnmarshalJSON(data []byte) error {
	el, ok, err := object(data)
	if ok {
		*r = roomFrom(el)
	}
	return err
}

func (t *TransportLine) UnmarshalJSON(data []byte) error {
	el, ok, err := object(data)
	if ok {
		*t = transportFrom(el)
	}
	return err
}

func (t *TransferLine) UnmarshalJSON(data []byte) error {
	el, ok, err := object(data)
	if ok {
		*t = transferFrom(el)
	}
	return err
}

func (a *ActivityLine) UnmarshalJSON(data []byte) error {
	el, ok, err := object(data)
	if ok {
		*a = activityFrom(el)
	}
	return err
}

// DecodeRooms decodes a stored room_arrangement column
func DecodeRooms(raw []byte) []RoomLine {
	out := []RoomLine{}
	for _, el := range elements(raw) {
		out = append(out, roomFrom(el))
	}
	return out
}

// DecodeTransport decodes a stored transport column
func DecodeTransport(raw []byte) []TransportLine {
	out := []TransportLine{}
	for _, el := range elements(raw) {
		out = append(out, transportFrom(el))
	}
	return out
}

// DecodeTransfers decodes a stored transfers column
func DecodeTransfers(raw []byte) []TransferLine {
	out := []TransferLine{}
	for _, el := range elements(raw) {
		out = append(out, transferFrom(el))
	}
	return out
}

// DecodeActivities decodes a stored activities column
func DecodeActivities(raw []byte) []ActivityLine {
	out := []ActivityLine{}
	for _, el := range elements(raw) {
		out = append(out, activityFrom(el))
	}
	return out
}

// Encode marshals a collection for storage. Nil collections encode as [].
func Encode[T any](items []T) []byte {
	if items == nil {
		items = []T{}
	}
	b, err := json.Marshal(items)
	if err != nil {
		return []byte("[]")
	}
	return b
}
