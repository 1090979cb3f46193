package database

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// Organization is a tenant. Tier is the persisted subscription tier.
type Organization struct {
	ID        uint      `json:"id" gorm:"primaryKey;autoIncrement"`
	Name      string    `json:"name" gorm:"type:varchar(100);uniqueIndex;not null"`
	Tier      string    `json:"tier" gorm:"type:varchar(20);not null;default:'starter'"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// User is an authenticated account. OrgID is 0 for platform administrators.
type User struct {
	ID        uint      `json:"id" gorm:"primaryKey;autoIncrement"`
	Username  string    `json:"username" gorm:"type:varchar(50);uniqueIndex;not null"`
	Email     string    `json:"email" gorm:"type:varchar(255)"`
	FullName  string    `json:"fullName" gorm:"type:varchar(255)"`
	Password  string    `json:"-" gorm:"not null"`
	Role      string    `json:"role" gorm:"type:varchar(30);not null;default:'agent'"`
	OrgID     uint      `json:"orgId" gorm:"index"`
	IsActive  bool      `json:"isActive" gorm:"not null;default:true"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Hotel belongs to an organization
type Hotel struct {
	ID         uint      `json:"id" gorm:"primaryKey;autoIncrement"`
	OrgID      uint      `json:"orgId" gorm:"index;not null"`
	Name       string    `json:"name" gorm:"type:varchar(255);not null"`
	City       string    `json:"city" gorm:"type:varchar(100)"`
	Country    string    `json:"country" gorm:"type:varchar(100)"`
	Address    string    `json:"address" gorm:"type:text"`
	StarRating int       `json:"starRating"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// RoomType is a sellable room category with a fixed capacity in units
type RoomType struct {
	ID          uint            `json:"id" gorm:"primaryKey;autoIncrement"`
	HotelID     uint            `json:"hotelId" gorm:"index;not null"`
	Name        string          `json:"name" gorm:"type:varchar(100);not null"`
	TotalUnits  int             `json:"totalUnits" gorm:"not null"`
	Capacity    int             `json:"capacity" gorm:"not null"`
	BasePrice   decimal.Decimal `json:"basePrice" gorm:"type:decimal(12,2)"`
	Description string          `json:"description" gorm:"type:text"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

// Quote is a priced travel proposal. The line-item columns hold JSON arrays.
type Quote struct {
	ID              uint            `json:"id" gorm:"primaryKey;autoIncrement"`
	OrgID           uint            `json:"orgId" gorm:"index;not null"`
	ClientName      string          `json:"clientName" gorm:"type:varchar(255);not null"`
	ClientEmail     string          `json:"clientEmail" gorm:"type:varchar(255)"`
	ApprovedHotelID *uint           `json:"approvedHotelId"`
	TravelStart     *time.Time      `json:"travelStart"`
	TravelEnd       *time.Time      `json:"travelEnd"`
	RoomArrangement datatypes.JSON  `json:"roomArrangement"`
	Transport       datatypes.JSON  `json:"transport"`
	Activities      datatypes.JSON  `json:"activities"`
	Transfers       datatypes.JSON  `json:"transfers"`
	MarkupType      string          `json:"markupType" gorm:"type:varchar(20);default:'percentage'"`
	MarkupValue     decimal.Decimal `json:"markupValue" gorm:"type:decimal(12,2)"`
	Currency        string          `json:"currency" gorm:"type:varchar(3)"`
	Status          string          `json:"status" gorm:"type:varchar(20);index;not null;default:'draft'"`
	Notes           string          `json:"notes" gorm:"type:text"`
	CreatedBy       uint            `json:"createdBy"`
	CreatedAt       time.Time       `json:"createdAt"`
	UpdatedAt       time.Time       `json:"updatedAt"`
}

// Booking is a confirmed-or-pending reservation, usually converted from a
// quote
type Booking struct {
	ID               uint            `json:"id" gorm:"primaryKey;autoIncrement"`
	OrgID            uint            `json:"orgId" gorm:"index;not null"`
	QuoteID          *uint           `json:"quoteId" gorm:"index"`
	BookingReference string          `json:"bookingReference" gorm:"type:varchar(50);uniqueIndex;not null"`
	ClientName       string          `json:"clientName" gorm:"type:varchar(255);not null"`
	ClientEmail      string          `json:"clientEmail" gorm:"type:varchar(255)"`
	HotelID          *uint           `json:"hotelId"`
	HotelName        string          `json:"hotelName" gorm:"type:varchar(255)"`
	TravelStart      time.Time       `json:"travelStart"`
	TravelEnd        time.Time       `json:"travelEnd"`
	RoomArrangement  datatypes.JSON  `json:"roomArrangement"`
	Transport        datatypes.JSON  `json:"transport"`
	Activities       datatypes.JSON  `json:"activities"`
	Transfers        datatypes.JSON  `json:"transfers"`
	MarkupType       string          `json:"markupType" gorm:"type:varchar(20)"`
	MarkupValue      decimal.Decimal `json:"markupValue" gorm:"type:decimal(12,2)"`
	TotalPrice       decimal.Decimal `json:"totalPrice" gorm:"type:decimal(12,2);not null"`
	Currency         string          `json:"currency" gorm:"type:varchar(3)"`
	Status           string          `json:"status" gorm:"type:varchar(20);index;not null;default:'pending'"`
	Notes            string          `json:"notes" gorm:"type:text"`
	CreatedBy        uint            `json:"createdBy"`
	CreatedAt        time.Time       `json:"createdAt"`
	UpdatedAt        time.Time       `json:"updatedAt"`
}

// BookingStatusEvent records who moved a booking between statuses
type BookingStatusEvent struct {
	ID         uint      `json:"id" gorm:"primaryKey;autoIncrement"`
	BookingID  uint      `json:"bookingId" gorm:"index;not null"`
	FromStatus string    `json:"from" gorm:"type:varchar(20)"`
	ToStatus   string    `json:"to" gorm:"type:varchar(20);not null"`
	ActorID    uint      `json:"actorId"`
	CreatedAt  time.Time `json:"createdAt"`
}

// InventoryRecord counts booked units of a room type on one date. The triple
// (hotel_id, room_type_id, inventory_date) is unique.
type InventoryRecord struct {
	ID            uint      `json:"id" gorm:"primaryKey;autoIncrement"`
	OrgID         uint      `json:"orgId" gorm:"index"`
	HotelID       uint      `json:"hotelId" gorm:"uniqueIndex:idx_inventory_key;not null"`
	RoomTypeID    uint      `json:"roomTypeId" gorm:"uniqueIndex:idx_inventory_key;not null"`
	InventoryDate time.Time `json:"inventoryDate" gorm:"uniqueIndex:idx_inventory_key;not null"`
	BookedUnits   int       `json:"bookedUnits" gorm:"not null;default:0"`
	Notes         string    `json:"notes" gorm:"type:text"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// Payment is one payment attempt against a booking
type Payment struct {
	ID        uint            `json:"id" gorm:"primaryKey;autoIncrement"`
	BookingID uint            `json:"bookingId" gorm:"index;not null"`
	OrgID     uint            `json:"orgId" gorm:"index"`
	Amount    decimal.Decimal `json:"amount" gorm:"type:decimal(12,2);not null"`
	Currency  string          `json:"currency" gorm:"type:varchar(3)"`
	Method    string          `json:"method" gorm:"type:varchar(30)"`
	Status    string          `json:"paymentStatus" gorm:"type:varchar(20);not null;default:'pending'"`
	Reference string          `json:"reference" gorm:"type:varchar(100)"`
	PaidAt    *time.Time      `json:"paidAt"`
	Notes     string          `json:"notes" gorm:"type:text"`
	CreatedBy uint            `json:"createdBy"`
	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

// Voucher is a travel document issued for a confirmed booking
type Voucher struct {
	ID               uint       `json:"id" gorm:"primaryKey;autoIncrement"`
	BookingID        uint       `json:"bookingId" gorm:"index;not null"`
	OrgID            uint       `json:"orgId" gorm:"index"`
	VoucherReference string     `json:"voucherReference" gorm:"type:varchar(64);uniqueIndex;not null"`
	IssuedAt         time.Time  `json:"issuedAt"`
	EmailSent        bool       `json:"emailSent" gorm:"not null;default:false"`
	SentTo           string     `json:"sentTo" gorm:"type:varchar(255)"`
	SentAt           *time.Time `json:"sentAt"`
	CreatedBy        uint       `json:"createdBy"`
	CreatedAt        time.Time  `json:"createdAt"`
}

// Models lists every table managed by AutoMigrate
func Models() []any {
	return []any{
		&Organization{}, &User{}, &Hotel{}, &RoomType{},
		&Quote{}, &Booking{}, &BookingStatusEvent{},
		&InventoryRecord{}, &Payment{}, &Voucher{},
	}
}
