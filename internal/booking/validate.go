package booking

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Message ids of validation problems. They double as i18n keys.
const (
	MsgClientNameRequired  = "ValidationClientNameRequired"
	MsgHotelNameRequired   = "ValidationHotelNameRequired"
	MsgTravelStartRequired = "ValidationTravelStartRequired"
	MsgTravelEndRequired   = "ValidationTravelEndRequired"
	MsgReferenceRequired   = "ValidationBookingReferenceRequired"
	MsgEndBeforeStart      = "ValidationTravelEndAfterStart"
	MsgStartInPast         = "ValidationTravelStartInPast"
	MsgPricePositive       = "ValidationTotalPricePositive"
	MsgRoomTypeName        = "ValidationRoomTypeNameRequired"
	MsgRoomTypeUnits       = "ValidationRoomTypeUnitsPositive"
	MsgRoomTypeCapacity    = "ValidationRoomTypeCapacityPositive"
)

// defaultMessages are the English texts used when no translation is loaded
var defaultMessages = map[string]string{
	MsgClientNameRequired:  "Client name is required",
	MsgHotelNameRequired:   "Hotel name is required",
	MsgTravelStartRequired: "Travel start date is required",
	MsgTravelEndRequired:   "Travel end date is required",
	MsgReferenceRequired:   "Booking reference is required",
	MsgEndBeforeStart:      "Travel end date must be after the start date",
	MsgStartInPast:         "Travel start date cannot be in the past",
	MsgPricePositive:       "Total price must be greater than 0",
	MsgRoomTypeName:        "Room type name is required",
	MsgRoomTypeUnits:       "Total units must be greater than 0",
	MsgRoomTypeCapacity:    "Capacity must be greater than 0",
}

// DefaultMessage returns the English text of a validation message id
func DefaultMessage(id string) string {
	if m, ok := defaultMessages[id]; ok {
		return m
	}
	return id
}

// Violation is one failed validation rule
type Violation struct {
	Field     string `json:"field"`
	MessageID string `json:"messageId"`
	Message   string `json:"message"`
}

// Violations aggregates every failed rule of one validation pass
type Violations []Violation

func (v Violations) Error() string {
	return strings.Join(v.Messages(), "; ")
}

// Messages returns the human readable message of every violation
func (v Violations) Messages() []string {
	out := make([]string, 0, len(v))
	for _, x := range v {
		out = append(out, x.Message)
	}
	return out
}

// NewViolation builds a violation with its default message
func NewViolation(field, msgID string) Violation {
	return Violation{Field: field, MessageID: msgID, Message: DefaultMessage(msgID)}
}

func (v *Violations) add(field, msgID string) {
	*v = append(*v, NewViolation(field, msgID))
}

func (v Violations) orNil() error {
	if len(v) == 0 {
		return nil
	}
	return v
}

// Draft is the subset of a booking checked before it is created
type Draft struct {
	ClientName       string
	HotelName        string
	BookingReference string
	TravelStart      *time.Time
	TravelEnd        *time.Time
	TotalPrice       decimal.Decimal
}

// Validate checks d against every creation rule and returns all problems at
// once as Violations. now decides what "in the past" means.
func (d Draft) Validate(now time.Time) error {
	var v Violations

	if strings.TrimSpace(d.ClientName) == "" {
		v.add("client_name", MsgClientNameRequired)
	}
	if strings.TrimSpace(d.HotelName) == "" {
		v.add("hotel_name", MsgHotelNameRequired)
	}
	if d.TravelStart == nil || d.TravelStart.IsZero() {
		v.add("travel_start", MsgTravelStartRequired)
	}
	if d.TravelEnd == nil || d.TravelEnd.IsZero() {
		v.add("travel_end", MsgTravelEndRequired)
	}
	if strings.TrimSpace(d.BookingReference) == "" {
		v.add("booking_reference", MsgReferenceRequired)
	}

	if d.TravelStart != nil && !d.TravelStart.IsZero() {
		start := DateOf(*d.TravelStart)
		if d.TravelEnd != nil && !d.TravelEnd.IsZero() && !DateOf(*d.TravelEnd).After(start) {
			v.add("travel_end", MsgEndBeforeStart)
		}
		if start.Before(DateOf(now)) {
			v.add("travel_start", MsgStartInPast)
		}
	}

	if !d.TotalPrice.IsPositive() {
		v.add("total_price", MsgPricePositive)
	}
	return v.orNil()
}

// RoomTypeDraft is the room-type form checked before a room type is saved
type RoomTypeDraft struct {
	Name       string
	TotalUnits int
	Capacity   int
}

// Validate checks every room-type rule and aggregates the problems
func (d RoomTypeDraft) Validate() error {
	var v Violations
	if strings.TrimSpace(d.Name) == "" {
		v.add("name", MsgRoomTypeName)
	}
	if d.TotalUnits <= 0 {
		v.add("total_units", MsgRoomTypeUnits)
	}
	if d.Capacity <= 0 {
		v.add("capacity", MsgRoomTypeCapacity)
	}
	return v.orNil()
}

// DateOf truncates t to midnight UTC of its calendar date
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
