package database

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// BookingFilter narrows ListBookings. Zero values match everything.
type BookingFilter struct {
	OrgID  uint
	Status string
	Search string
	// EndedBefore keeps bookings whose travel_end is strictly before it
	EndedBefore time.Time
	Limit       int
	Offset      int
}

// StatusCount is the number of bookings in one status
type StatusCount struct {
	Status string `json:"status"`
	Count  int64  `json:"count"`
}

// Database defines the methods for database operations.
type Database interface {
	// Close closes the database connection.
	Close() error

	// Transaction runs fn inside a transaction carried by the context.
	Transaction(ctx context.Context, fn func(ctx context.Context) error) error

	// CreateOrganization creates a new organization.
	CreateOrganization(ctx context.Context, org *Organization) error
	// GetOrganization gets an organization by ID.
	GetOrganization(ctx context.Context, id uint) (*Organization, error)
	// GetOrganizationByName gets an organization by name.
	GetOrganizationByName(ctx context.Context, name string) (*Organization, error)
	// ListOrganizations lists all organizations.
	ListOrganizations(ctx context.Context) ([]*Organization, error)
	// UpdateOrganizationTier sets the persisted subscription tier.
	UpdateOrganizationTier(ctx context.Context, id uint, tier string) error

	// CreateUser creates a new user.
	CreateUser(ctx context.Context, user *User) error
	// GetUserByID gets a user by ID.
	GetUserByID(ctx context.Context, id uint) (*User, error)
	// GetUserByUsername gets a user by username.
	GetUserByUsername(ctx context.Context, username string) (*User, error)
	// ListUsers lists users of an organization, or all users when orgID is 0.
	ListUsers(ctx context.Context, orgID uint) ([]*User, error)
	// UpdateUser updates an existing user.
	UpdateUser(ctx context.Context, user *User) error

	CreateHotel(ctx context.Context, hotel *Hotel) error
	GetHotel(ctx context.Context, id uint) (*Hotel, error)
	ListHotels(ctx context.Context, orgID uint) ([]*Hotel, error)
	CreateRoomType(ctx context.Context, rt *RoomType) error
	GetRoomType(ctx context.Context, id uint) (*RoomType, error)
	ListRoomTypes(ctx context.Context, hotelID uint) ([]*RoomType, error)

	CreateQuote(ctx context.Context, quote *Quote) error
	GetQuote(ctx context.Context, id uint) (*Quote, error)
	ListQuotes(ctx context.Context, orgID uint) ([]*Quote, error)
	UpdateQuoteStatus(ctx context.Context, id uint, status string) error

	// CreateBooking inserts a booking together with its initial status event.
	CreateBooking(ctx context.Context, booking *Booking, actorID uint) error
	GetBooking(ctx context.Context, id uint) (*Booking, error)
	// LockBooking reads a booking and holds a row lock until the surrounding
	// transaction ends. SQLite has no row locks and reads it plainly.
	LockBooking(ctx context.Context, id uint) (*Booking, error)
	ListBookings(ctx context.Context, filter BookingFilter) ([]*Booking, int64, error)
	// UpdateBookingStatus changes only the status column and records the move.
	// The write only applies while the stored status still equals from;
	// otherwise it returns a *booking.TransitionError from the stored status.
	UpdateBookingStatus(ctx context.Context, id uint, from, to string, actorID uint) error
	// UpdateBookingItems replaces the line items and total of a booking.
	UpdateBookingItems(ctx context.Context, booking *Booking) error
	DeleteBooking(ctx context.Context, id uint) error
	ListBookingEvents(ctx context.Context, bookingID uint) ([]*BookingStatusEvent, error)
	CountBookingsByStatus(ctx context.Context, orgID uint) ([]StatusCount, error)
	// SumBookingTotals sums total_price of bookings in the given statuses.
	SumBookingTotals(ctx context.Context, orgID uint, statuses []string) (decimal.Decimal, error)

	// UpsertInventory inserts or replaces the record keyed by
	// (hotel_id, room_type_id, inventory_date).
	UpsertInventory(ctx context.Context, rec *InventoryRecord) error
	ListInventoryForMonth(ctx context.Context, hotelID uint, from, to time.Time) ([]*InventoryRecord, error)

	CreatePayment(ctx context.Context, payment *Payment) error
	GetPayment(ctx context.Context, id uint) (*Payment, error)
	ListPayments(ctx context.Context, bookingID uint) ([]*Payment, error)
	UpdatePaymentStatus(ctx context.Context, id uint, status string, paidAt *time.Time) error
	SumCompletedPayments(ctx context.Context, bookingID uint) (decimal.Decimal, error)

	CreateVoucher(ctx context.Context, voucher *Voucher) error
	GetVoucher(ctx context.Context, id uint) (*Voucher, error)
	ListVouchers(ctx context.Context, bookingID uint) ([]*Voucher, error)
	MarkVoucherSent(ctx context.Context, id uint, to string, at time.Time) error
}
