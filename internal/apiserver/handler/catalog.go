package handler

import (
	"time"

	"github.com/amoylab/tourdesk/internal/apiserver/service"
	"github.com/amoylab/tourdesk/internal/common/dto"
	"github.com/amoylab/tourdesk/internal/i18n"

	"github.com/gin-gonic/gin"
)

// CreateHotel handles hotel creation
func (h *Handler) CreateHotel(c *gin.Context) {
	sess, ok := h.session(c)
	if !ok {
		return
	}
	var req service.HotelInput
	if !h.bind(c, &req) {
		return
	}

	hotel, err := h.svc.CreateHotel(c.Request.Context(), sess, req)
	if err != nil {
		h.fail(c, err, hotelResource)
		return
	}
	i18n.Created(i18n.SuccessHotelCreated).WithPayload(hotel).Send(c)
}

// ListHotels handles listing the hotels of the caller's organization
func (h *Handler) ListHotels(c *gin.Context) {
	sess, ok := h.session(c)
	if !ok {
		return
	}
	hotels, err := h.svc.ListHotels(c.Request.Context(), sess)
	if err != nil {
		h.fail(c, err, hotelResource)
		return
	}
	i18n.Success(i18n.SuccessHotelList).WithPayload(hotels).Send(c)
}

// GetHotel handles fetching one hotel
func (h *Handler) GetHotel(c *gin.Context) {
	sess, ok := h.session(c)
	if !ok {
		return
	}
	id, ok := h.id(c, "id")
	if !ok {
		return
	}
	hotel, err := h.svc.GetHotel(c.Request.Context(), sess, id)
	if err != nil {
		h.fail(c, err, hotelResource)
		return
	}
	i18n.Success(i18n.SuccessHotelInfo).WithPayload(hotel).Send(c)
}

// CreateRoomType handles adding a room type to a hotel
func (h *Handler) CreateRoomType(c *gin.Context) {
	sess, ok := h.session(c)
	if !ok {
		return
	}
	hotelID, ok := h.id(c, "id")
	if !ok {
		return
	}
	var req service.RoomTypeInput
	if !h.bind(c, &req) {
		return
	}

	rt, err := h.svc.CreateRoomType(c.Request.Context(), sess, hotelID, req)
	if err != nil {
		h.fail(c, err, roomTypeResource)
		return
	}
	i18n.Created(i18n.SuccessRoomTypeCreated).WithPayload(rt).Send(c)
}

// ListRoomTypes handles listing the room types of a hotel
func (h *Handler) ListRoomTypes(c *gin.Context) {
	sess, ok := h.session(c)
	if !ok {
		return
	}
	hotelID, ok := h.id(c, "id")
	if !ok {
		return
	}
	rts, err := h.svc.ListRoomTypes(c.Request.Context(), sess, hotelID)
	if err != nil {
		h.fail(c, err, hotelResource)
		return
	}
	i18n.Success(i18n.SuccessRoomTypeList).WithPayload(rts).Send(c)
}

// SetInventory records the booked units of a room type over a date range
func (h *Handler) SetInventory(c *gin.Context) {
	sess, ok := h.session(c)
	if !ok {
		return
	}
	hotelID, ok := h.id(c, "id")
	if !ok {
		return
	}
	var req dto.InventoryRequest
	if !h.bind(c, &req) {
		return
	}
	from, to, err := req.Range()
	if err != nil {
		i18n.RespondWithError(c, i18n.ErrorInvalidInventoryDay)
		return
	}

	err = h.svc.SetBookedUnitsRange(c.Request.Context(), sess, hotelID, service.InventoryInput{
		RoomTypeID:  req.RoomTypeID,
		From:        from,
		To:          to,
		BookedUnits: req.BookedUnits,
		Notes:       req.Notes,
	})
	if err != nil {
		h.fail(c, err, roomTypeResource)
		return
	}
	i18n.Success(i18n.SuccessInventoryUpdated).Send(c)
}

// GetInventory returns the availability calendar of a hotel for one month.
// year and month default to the current month.
func (h *Handler) GetInventory(c *gin.Context) {
	sess, ok := h.session(c)
	if !ok {
		return
	}
	hotelID, ok := h.id(c, "id")
	if !ok {
		return
	}
	now := time.Now().UTC()
	year := queryInt(c, "year", now.Year())
	month := time.Month(queryInt(c, "month", int(now.Month())))

	cal, err := h.svc.GetForMonth(c.Request.Context(), sess, hotelID, year, month)
	if err != nil {
		h.fail(c, err, hotelResource)
		return
	}
	i18n.Success(i18n.SuccessInventoryMonth).
		With("year", year).
		With("month", int(month)).
		WithPayload(cal).
		Send(c)
}
