package service

import (
	"context"
	"strings"

	"github.com/amoylab/tourdesk/internal/apiserver/database"
	"github.com/amoylab/tourdesk/internal/booking"
	"github.com/amoylab/tourdesk/internal/permission"
	"github.com/amoylab/tourdesk/internal/session"

	"github.com/shopspring/decimal"
)

// HotelInput creates a hotel
type HotelInput struct {
	Name       string `json:"name"`
	City       string `json:"city"`
	Country    string `json:"country"`
	Address    string `json:"address"`
	StarRating int    `json:"starRating"`
}

// RoomTypeInput creates a room type
type RoomTypeInput struct {
	Name        string          `json:"name"`
	TotalUnits  int             `json:"totalUnits"`
	Capacity    int             `json:"capacity"`
	BasePrice   decimal.Decimal `json:"basePrice"`
	Description string          `json:"description"`
}

// CreateHotel adds a hotel to the session organization
func (s *Service) CreateHotel(ctx context.Context, sess *session.Session, in HotelInput) (*database.Hotel, error) {
	if err := sess.Require(permission.AddHotels); err != nil {
		return nil, err
	}
	if strings.TrimSpace(in.Name) == "" {
		return nil, booking.Violations{booking.NewViolation("name", booking.MsgHotelNameRequired)}
	}
	if sess.OrgID() == 0 {
		return nil, ErrMissingOrg
	}
	h := &database.Hotel{
		OrgID:      sess.OrgID(),
		Name:       strings.TrimSpace(in.Name),
		City:       in.City,
		Country:    in.Country,
		Address:    in.Address,
		StarRating: in.StarRating,
	}
	if err := s.db.CreateHotel(ctx, h); err != nil {
		return nil, err
	}
	return h, nil
}

// GetHotel returns a hotel of the session organization
func (s *Service) GetHotel(ctx context.Context, sess *session.Session, id uint) (*database.Hotel, error) {
	if err := sess.Require(permission.ViewHotels); err != nil {
		return nil, err
	}
	return s.scopedHotel(ctx, sess, id)
}

func (s *Service) scopedHotel(ctx context.Context, sess *session.Session, id uint) (*database.Hotel, error) {
	h, err := s.db.GetHotel(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := sess.RequireOrg(h.OrgID); err != nil {
		return nil, err
	}
	return h, nil
}

// ListHotels lists hotels visible to the session
func (s *Service) ListHotels(ctx context.Context, sess *session.Session) ([]*database.Hotel, error) {
	if err := sess.Require(permission.ViewHotels); err != nil {
		return nil, err
	}
	return s.db.ListHotels(ctx, sess.ScopeOrg())
}

// CreateRoomType validates the room-type form and adds it to a hotel
func (s *Service) CreateRoomType(ctx context.Context, sess *session.Session, hotelID uint, in RoomTypeInput) (*database.RoomType, error) {
	if !sess.Can(permission.AddHotels) && !sess.Can(permission.EditHotels) {
		return nil, &session.PermissionError{Flag: permission.EditHotels}
	}
	draft := booking.RoomTypeDraft{Name: in.Name, TotalUnits: in.TotalUnits, Capacity: in.Capacity}
	if err := draft.Validate(); err != nil {
		return nil, err
	}
	if _, err := s.scopedHotel(ctx, sess, hotelID); err != nil {
		return nil, err
	}
	rt := &database.RoomType{
		HotelID:     hotelID,
		Name:        strings.TrimSpace(in.Name),
		TotalUnits:  in.TotalUnits,
		Capacity:    in.Capacity,
		BasePrice:   in.BasePrice,
		Description: in.Description,
	}
	if err := s.db.CreateRoomType(ctx, rt); err != nil {
		return nil, err
	}
	return rt, nil
}

// ListRoomTypes lists the room types of a hotel
func (s *Service) ListRoomTypes(ctx context.Context, sess *session.Session, hotelID uint) ([]*database.RoomType, error) {
	if _, err := s.GetHotel(ctx, sess, hotelID); err != nil {
		return nil, err
	}
	return s.db.ListRoomTypes(ctx, hotelID)
}

// roomTypeOf loads a room type and checks it belongs to hotelID
func (s *Service) roomTypeOf(ctx context.Context, hotelID, roomTypeID uint) (*database.RoomType, error) {
	rt, err := s.db.GetRoomType(ctx, roomTypeID)
	if err != nil {
		return nil, err
	}
	if rt.HotelID != hotelID {
		return nil, ErrRoomTypeHotelMismatch
	}
	return rt, nil
}
