package template

import (
	"os"
	"time"

	"github.com/amoylab/tourdesk/internal/booking"
	"github.com/amoylab/tourdesk/internal/pricing"
)

// Context represents the template context of a voucher or quote document
type (
	Context struct {
		Organization string              `json:"organization"`
		Reference    string              `json:"reference"`
		Status       string              `json:"status"`
		Client       ClientWrapper       `json:"client"`
		Hotel        string              `json:"hotel"`
		TravelStart  *time.Time          `json:"travelStart"`
		TravelEnd    *time.Time          `json:"travelEnd"`
		Items        booking.LineItems   `json:"items"`
		Breakdown    pricing.Breakdown   `json:"breakdown"`
		Currency     string              `json:"currency"`
		Notes        string              `json:"notes"`
		Voucher      *VoucherWrapper     `json:"voucher,omitempty"`
		Config       map[string]string   `json:"config"`
		Env          func(string) string `json:"-"` // Function to get environment variables
	}
	ClientWrapper struct {
		Name  string `json:"name"`
		Email string `json:"email"`
	}
	VoucherWrapper struct {
		Reference string    `json:"reference"`
		IssuedAt  time.Time `json:"issuedAt"`
	}
)

// NewContext creates a new template context
func NewContext() *Context {
	return &Context{
		Items:  booking.LineItems{}.Normalize(),
		Config: make(map[string]string),
		Env:    os.Getenv,
	}
}

// Nights is the number of nights between the travel dates
func (c *Context) Nights() int {
	if c.TravelStart == nil || c.TravelEnd == nil {
		return 0
	}
	days := booking.DateOf(*c.TravelEnd).Sub(booking.DateOf(*c.TravelStart)).Hours() / 24
	if days < 0 {
		return 0
	}
	return int(days)
}
