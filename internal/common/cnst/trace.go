package cnst

// Tracer names used across the services
const (
	TraceAPIServer = "tourdesk/apiserver"
	TraceService   = "tourdesk/service"
	TraceNotifier  = "tourdesk/notifier"
)

// Span names
const (
	SpanBookingCreate     = "booking.create"
	SpanBookingConvert    = "booking.convert_quote"
	SpanBookingStatus     = "booking.update_status"
	SpanBookingBulkStatus = "booking.bulk_update_status"
	SpanBookingBulkDelete = "booking.bulk_delete"
	SpanBookingComplete   = "booking.complete_ended"
	SpanInventorySet      = "inventory.set_booked_units"
	SpanInventoryMonth    = "inventory.get_for_month"
	SpanVoucherIssue      = "voucher.issue"
	SpanVoucherSend       = "voucher.send"
	SpanPaymentRecord     = "payment.record"
	SpanNotifierPublish   = "notifier.publish"
	SpanSessionLoad       = "session.load"
)

// Attribute keys
const (
	AttrOrgID       = "tourdesk.org_id"
	AttrUserID      = "tourdesk.user_id"
	AttrBookingID   = "tourdesk.booking_id"
	AttrBookingRef  = "tourdesk.booking_reference"
	AttrStatusFrom  = "tourdesk.status.from"
	AttrStatusTo    = "tourdesk.status.to"
	AttrHotelID     = "tourdesk.hotel_id"
	AttrRoomTypeID  = "tourdesk.room_type_id"
	AttrEventType   = "tourdesk.event.type"
	AttrBulkSize    = "tourdesk.bulk.size"
	AttrBulkFailed  = "tourdesk.bulk.failed"
	AttrErrorReason = "error.reason"
)
