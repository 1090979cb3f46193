package database

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/amoylab/tourdesk/internal/booking"
	"github.com/amoylab/tourdesk/internal/common/cnst"
	"github.com/amoylab/tourdesk/internal/common/config"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/datatypes"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	db, err := NewDatabase(zap.NewNop(), &config.DatabaseConfig{Type: "sqlite", DBName: ":memory:"})
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db.(*Store)
}

func date(s string) time.Time {
	t, err := time.ParseInLocation("2006-01-02", s, time.UTC)
	if err != nil {
		panic(err)
	}
	return t
}

func seedBooking(t *testing.T, s *Store, orgID uint, ref, status string, total string) *Booking {
	t.Helper()
	b := &Booking{
		OrgID:            orgID,
		BookingReference: ref,
		ClientName:       "Client " + ref,
		HotelName:        "Hotel Lisboa",
		TravelStart:      date("2026-05-01"),
		TravelEnd:        date("2026-05-04"),
		RoomArrangement:  datatypes.JSON(`[{"room_type":"Double","total":300}]`),
		Transport:        datatypes.JSON(`[]`),
		Activities:       datatypes.JSON(`[]`),
		Transfers:        datatypes.JSON(`[]`),
		TotalPrice:       decimal.RequireFromString(total),
		Status:           status,
	}
	require.NoError(t, s.CreateBooking(context.Background(), b, 1))
	return b
}

func TestStore_OrganizationsAndUsers(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	org, err := InitDefaultOrganization(ctx, s)
	require.NoError(t, err)
	again, err := InitDefaultOrganization(ctx, s)
	require.NoError(t, err)
	assert.Equal(t, org.ID, again.ID)
	assert.Equal(t, "starter", again.Tier)

	require.NoError(t, s.UpdateOrganizationTier(ctx, org.ID, "pro"))
	got, err := s.GetOrganization(ctx, org.ID)
	require.NoError(t, err)
	assert.Equal(t, "pro", got.Tier)
	assert.ErrorIs(t, s.UpdateOrganizationTier(ctx, 999, "pro"), cnst.ErrNotFound)

	admin, created, err := InitSuperAdmin(ctx, s, "admin", "hash", "admin@example.com")
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, "system_admin", admin.Role)
	_, created, err = InitSuperAdmin(ctx, s, "admin", "hash", "")
	require.NoError(t, err)
	assert.False(t, created)

	u := &User{Username: "ana", Password: "x", Role: "agent", OrgID: org.ID, IsActive: true}
	require.NoError(t, s.CreateUser(ctx, u))
	err = s.CreateUser(ctx, &User{Username: "ana", Password: "y"})
	assert.Error(t, err)

	u.IsActive = false
	u.FullName = "Ana Silva"
	require.NoError(t, s.UpdateUser(ctx, u))
	got2, err := s.GetUserByUsername(ctx, "ana")
	require.NoError(t, err)
	assert.False(t, got2.IsActive)
	assert.Equal(t, "Ana Silva", got2.FullName)

	users, err := s.ListUsers(ctx, org.ID)
	require.NoError(t, err)
	assert.Len(t, users, 1)
	all, err := s.ListUsers(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	_, err = s.GetUserByID(ctx, 12345)
	assert.True(t, errors.Is(err, cnst.ErrNotFound))
}

func TestStore_BookingStatusAndHistory(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	b := seedBooking(t, s, 1, "BK-1", "pending", "300")
	require.NoError(t, s.UpdateBookingStatus(ctx, b.ID, "pending", "confirmed", 7))

	got, err := s.GetBooking(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, "confirmed", got.Status)
	assert.True(t, got.TotalPrice.Equal(decimal.NewFromInt(300)))
	assert.JSONEq(t, `[{"room_type":"Double","total":300}]`, string(got.RoomArrangement))

	events, err := s.ListBookingEvents(ctx, b.ID)
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, "", events[0].FromStatus)
	assert.Equal(t, "pending", events[0].ToStatus)
	assert.Equal(t, "confirmed", events[1].ToStatus)
	assert.Equal(t, uint(7), events[1].ActorID)

	assert.ErrorIs(t, s.UpdateBookingStatus(ctx, 999, "pending", "confirmed", 7), cnst.ErrNotFound)
}

func TestStore_BookingStatusRejectsStaleFrom(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	b := seedBooking(t, s, 1, "BK-1", "confirmed", "300")
	require.NoError(t, s.UpdateBookingStatus(ctx, b.ID, "confirmed", "completed", 7))

	// a writer still holding the confirmed snapshot
	err := s.UpdateBookingStatus(ctx, b.ID, "confirmed", "cancelled", 8)
	require.ErrorIs(t, err, booking.ErrInvalidTransition)
	var tr *booking.TransitionError
	require.ErrorAs(t, err, &tr)
	assert.Equal(t, "completed", tr.From)
	assert.Equal(t, "cancelled", tr.To)

	got, err := s.GetBooking(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, "completed", got.Status)

	events, err := s.ListBookingEvents(ctx, b.ID)
	require.NoError(t, err)
	assert.Len(t, events, 2)
}

func TestStore_LockBooking(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	b := seedBooking(t, s, 1, "BK-1", "pending", "300")
	err := s.Transaction(ctx, func(ctx context.Context) error {
		got, err := s.LockBooking(ctx, b.ID)
		if err != nil {
			return err
		}
		assert.Equal(t, "BK-1", got.BookingReference)
		return nil
	})
	require.NoError(t, err)

	_, err = s.LockBooking(ctx, 999)
	assert.ErrorIs(t, err, cnst.ErrNotFound)
}

func TestStore_BookingListAndReports(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	seedBooking(t, s, 1, "BK-A", "pending", "100")
	seedBooking(t, s, 1, "BK-B", "confirmed", "250.50")
	seedBooking(t, s, 1, "BK-C", "completed", "49.50")
	seedBooking(t, s, 2, "BK-D", "confirmed", "1000")

	list, total, err := s.ListBookings(ctx, BookingFilter{OrgID: 1})
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
	assert.Len(t, list, 3)

	list, total, err = s.ListBookings(ctx, BookingFilter{Status: "confirmed"})
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	assert.Len(t, list, 2)

	list, _, err = s.ListBookings(ctx, BookingFilter{Search: "bk-c"})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "BK-C", list[0].BookingReference)

	list, total, err = s.ListBookings(ctx, BookingFilter{Status: "confirmed", EndedBefore: date("2026-05-05")})
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	list, _, err = s.ListBookings(ctx, BookingFilter{EndedBefore: date("2026-05-04")})
	require.NoError(t, err)
	assert.Empty(t, list)

	list, total, err = s.ListBookings(ctx, BookingFilter{Limit: 2})
	require.NoError(t, err)
	assert.EqualValues(t, 4, total)
	assert.Len(t, list, 2)

	counts, err := s.CountBookingsByStatus(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, counts, 3)

	revenue, err := s.SumBookingTotals(ctx, 1, []string{"confirmed", "completed"})
	require.NoError(t, err)
	assert.True(t, revenue.Equal(decimal.NewFromInt(300)), revenue.String())

	err = s.CreateBooking(ctx, &Booking{OrgID: 1, BookingReference: "BK-A", ClientName: "dup", TotalPrice: decimal.NewFromInt(1), Status: "pending"}, 1)
	assert.Error(t, err)
}

func TestStore_UpdateItemsAndDelete(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	b := seedBooking(t, s, 1, "BK-X", "confirmed", "300")

	b.Transport = datatypes.JSON(`[{"type":"flight","total":200}]`)
	b.TotalPrice = decimal.NewFromInt(500)
	require.NoError(t, s.UpdateBookingItems(ctx, b))
	got, err := s.GetBooking(ctx, b.ID)
	require.NoError(t, err)
	assert.True(t, got.TotalPrice.Equal(decimal.NewFromInt(500)))
	assert.Equal(t, "confirmed", got.Status)

	require.NoError(t, s.CreatePayment(ctx, &Payment{BookingID: b.ID, Amount: decimal.NewFromInt(10), Status: "completed"}))
	require.NoError(t, s.CreateVoucher(ctx, &Voucher{BookingID: b.ID, VoucherReference: "VC-1", IssuedAt: time.Now()}))

	require.NoError(t, s.DeleteBooking(ctx, b.ID))
	_, err = s.GetBooking(ctx, b.ID)
	assert.ErrorIs(t, err, cnst.ErrNotFound)
	payments, err := s.ListPayments(ctx, b.ID)
	require.NoError(t, err)
	assert.Empty(t, payments)
	assert.ErrorIs(t, s.DeleteBooking(ctx, b.ID), cnst.ErrNotFound)
}

func TestStore_InventoryUpsert(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	rec := &InventoryRecord{HotelID: 1, RoomTypeID: 2, InventoryDate: date("2026-06-10"), BookedUnits: 3}
	require.NoError(t, s.UpsertInventory(ctx, rec))
	require.NoError(t, s.UpsertInventory(ctx, &InventoryRecord{HotelID: 1, RoomTypeID: 2, InventoryDate: date("2026-06-10"), BookedUnits: 5, Notes: "again"}))
	require.NoError(t, s.UpsertInventory(ctx, &InventoryRecord{HotelID: 1, RoomTypeID: 3, InventoryDate: date("2026-06-10"), BookedUnits: 1}))
	require.NoError(t, s.UpsertInventory(ctx, &InventoryRecord{HotelID: 1, RoomTypeID: 2, InventoryDate: date("2026-07-01"), BookedUnits: 9}))

	recs, err := s.ListInventoryForMonth(ctx, 1, date("2026-06-01"), date("2026-06-30"))
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, uint(2), recs[0].RoomTypeID)
	assert.Equal(t, 5, recs[0].BookedUnits)
	assert.Equal(t, "again", recs[0].Notes)

	var count int64
	require.NoError(t, s.DB().Model(&InventoryRecord{}).Count(&count).Error)
	assert.EqualValues(t, 3, count)
}

func TestStore_PaymentsAndVouchers(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	b := seedBooking(t, s, 1, "BK-P", "confirmed", "550")

	p1 := &Payment{BookingID: b.ID, Amount: decimal.RequireFromString("200.25"), Status: "completed"}
	p2 := &Payment{BookingID: b.ID, Amount: decimal.NewFromInt(100), Status: "pending"}
	require.NoError(t, s.CreatePayment(ctx, p1))
	require.NoError(t, s.CreatePayment(ctx, p2))

	sum, err := s.SumCompletedPayments(ctx, b.ID)
	require.NoError(t, err)
	assert.True(t, sum.Equal(decimal.RequireFromString("200.25")), sum.String())

	now := time.Now().UTC()
	require.NoError(t, s.UpdatePaymentStatus(ctx, p2.ID, "completed", &now))
	sum, err = s.SumCompletedPayments(ctx, b.ID)
	require.NoError(t, err)
	assert.True(t, sum.Equal(decimal.RequireFromString("300.25")))

	v := &Voucher{BookingID: b.ID, VoucherReference: "VC-ABC", IssuedAt: now}
	require.NoError(t, s.CreateVoucher(ctx, v))
	require.NoError(t, s.MarkVoucherSent(ctx, v.ID, "client@example.com", now))
	got, err := s.GetVoucher(ctx, v.ID)
	require.NoError(t, err)
	assert.True(t, got.EmailSent)
	assert.Equal(t, "client@example.com", got.SentTo)
}

func TestStore_TransactionRollsBack(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	boom := errors.New("boom")
	err := s.Transaction(ctx, func(ctx context.Context) error {
		require.NoError(t, s.CreateHotel(ctx, &Hotel{OrgID: 1, Name: "Temp"}))
		return boom
	})
	assert.ErrorIs(t, err, boom)

	hotels, err := s.ListHotels(ctx, 1)
	require.NoError(t, err)
	assert.Empty(t, hotels)
}

func TestStore_HotelsQuotes(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	h := &Hotel{OrgID: 1, Name: "Pestana"}
	require.NoError(t, s.CreateHotel(ctx, h))
	rt := &RoomType{HotelID: h.ID, Name: "Double", TotalUnits: 10, Capacity: 2}
	require.NoError(t, s.CreateRoomType(ctx, rt))
	rts, err := s.ListRoomTypes(ctx, h.ID)
	require.NoError(t, err)
	assert.Len(t, rts, 1)

	q := &Quote{OrgID: 1, ClientName: "Ana", Status: "draft", MarkupType: "percentage", MarkupValue: decimal.NewFromInt(10)}
	require.NoError(t, s.CreateQuote(ctx, q))
	require.NoError(t, s.UpdateQuoteStatus(ctx, q.ID, "sent"))
	got, err := s.GetQuote(ctx, q.ID)
	require.NoError(t, err)
	assert.Equal(t, "sent", got.Status)
	quotes, err := s.ListQuotes(ctx, 2)
	require.NoError(t, err)
	assert.Empty(t, quotes)
}
