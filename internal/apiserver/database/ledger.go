package database

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm/clause"
)

func (s *Store) UpsertInventory(ctx context.Context, rec *InventoryRecord) error {
	err := s.conn(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "hotel_id"}, {Name: "room_type_id"}, {Name: "inventory_date"}},
		DoUpdates: clause.AssignmentColumns([]string{"booked_units", "notes", "org_id", "updated_at"}),
	}).Create(rec).Error
	return translate(err, "failed to upsert inventory")
}

func (s *Store) ListInventoryForMonth(ctx context.Context, hotelID uint, from, to time.Time) ([]*InventoryRecord, error) {
	var recs []*InventoryRecord
	err := s.conn(ctx).
		Where("hotel_id = ? AND inventory_date >= ? AND inventory_date <= ?", hotelID, from, to).
		Order("inventory_date asc, room_type_id asc").
		Find(&recs).Error
	return recs, translate(err, "failed to list inventory")
}

func (s *Store) CreatePayment(ctx context.Context, payment *Payment) error {
	return translate(s.conn(ctx).Create(payment).Error, "failed to create payment")
}

func (s *Store) GetPayment(ctx context.Context, id uint) (*Payment, error) {
	return first[Payment](ctx, s.conn(ctx), "payment", "id = ?", id)
}

func (s *Store) ListPayments(ctx context.Context, bookingID uint) ([]*Payment, error) {
	var payments []*Payment
	err := s.conn(ctx).Where("booking_id = ?", bookingID).Order("id asc").Find(&payments).Error
	return payments, translate(err, "failed to list payments")
}

func (s *Store) UpdatePaymentStatus(ctx context.Context, id uint, status string, paidAt *time.Time) error {
	updates := map[string]any{"status": status}
	if paidAt != nil {
		updates["paid_at"] = *paidAt
	}
	res := s.conn(ctx).Model(&Payment{}).Where("id = ?", id).Updates(updates)
	return affected(res, "payment")
}

func (s *Store) SumCompletedPayments(ctx context.Context, bookingID uint) (decimal.Decimal, error) {
	q := s.conn(ctx).Model(&Payment{}).Where("booking_id = ? AND status = ?", bookingID, "completed")
	return sumColumn(q, "amount")
}

func (s *Store) CreateVoucher(ctx context.Context, voucher *Voucher) error {
	return translate(s.conn(ctx).Create(voucher).Error, "failed to create voucher")
}

func (s *Store) GetVoucher(ctx context.Context, id uint) (*Voucher, error) {
	return first[Voucher](ctx, s.conn(ctx), "voucher", "id = ?", id)
}

func (s *Store) ListVouchers(ctx context.Context, bookingID uint) ([]*Voucher, error) {
	var vouchers []*Voucher
	err := s.conn(ctx).Where("booking_id = ?", bookingID).Order("issued_at asc").Find(&vouchers).Error
	return vouchers, translate(err, "failed to list vouchers")
}

func (s *Store) MarkVoucherSent(ctx context.Context, id uint, to string, at time.Time) error {
	res := s.conn(ctx).Model(&Voucher{}).Where("id = ?", id).
		Updates(map[string]any{"email_sent": true, "sent_to": to, "sent_at": at})
	return affected(res, "voucher")
}
