package i18n

// Common errors
var (
	ErrNotFound       = NewErrorWithCode("ErrorResourceNotFound", ErrorNotFound)
	ErrUnauthorized   = NewErrorWithCode("ErrorUnauthorized", ErrorUnauthorized)
	ErrForbidden      = NewErrorWithCode("ErrorForbidden", ErrorForbidden)
	ErrBadRequest     = NewErrorWithCode("ErrorBadRequest", ErrorBadRequest)
	ErrConflict       = NewErrorWithCode("ErrorConflict", ErrorConflict)
	ErrInternalServer = NewErrorWithCode("ErrorInternalServer", ErrorInternalServer)
)

// Session and permission errors
var (
	ErrorPermissionDenied     = NewErrorWithCode("ErrorPermissionDenied", ErrorForbidden)
	ErrorOrgScope             = NewErrorWithCode("ErrorOrgScope", ErrorForbidden)
	ErrorSessionNotFound      = NewErrorWithCode("ErrorSessionNotFound", ErrorUnauthorized)
	ErrorImmutableField       = NewErrorWithCode("ErrorImmutableField", ErrorBadRequest)
	ErrorInvalidTier          = NewErrorWithCode("ErrorInvalidTier", ErrorBadRequest)
	ErrorInvalidRole          = NewErrorWithCode("ErrorInvalidRole", ErrorBadRequest)
	ErrorMissingOrg           = NewErrorWithCode("ErrorMissingOrg", ErrorBadRequest)
	ErrorOrganizationNotFound = NewErrorWithCode("ErrorOrganizationNotFound", ErrorNotFound)
	ErrorOrganizationExists   = NewErrorWithCode("ErrorOrganizationExists", ErrorConflict)
)

// User related errors
var (
	ErrorUserNotFound             = NewErrorWithCode("ErrorUserNotFound", ErrorNotFound)
	ErrorInvalidCredentials       = NewErrorWithCode("ErrorInvalidCredentials", ErrorUnauthorized)
	ErrorUserDisabled             = NewErrorWithCode("ErrorUserDisabled", ErrorForbidden)
	ErrorUserNamePasswordRequired = NewErrorWithCode("ErrorUserNamePasswordRequired", ErrorBadRequest)
	ErrorUsernameExists           = NewErrorWithCode("ErrorUsernameExists", ErrorConflict)
)

// Booking related errors
var (
	ErrorBookingNotFound        = NewErrorWithCode("ErrorBookingNotFound", ErrorNotFound)
	ErrorBookingValidation      = NewErrorWithCode("ErrorBookingValidation", ErrorBadRequest)
	ErrorInvalidTransition      = NewErrorWithCode("ErrorInvalidTransition", ErrorConflict)
	ErrorUnknownStatus          = NewErrorWithCode("ErrorUnknownStatus", ErrorBadRequest)
	ErrorBookingReferenceExists = NewErrorWithCode("ErrorBookingReferenceExists", ErrorConflict)
	ErrorBookingClosed          = NewErrorWithCode("ErrorBookingClosed", ErrorConflict)
	ErrorBulkEmpty              = NewErrorWithCode("ErrorBulkEmpty", ErrorBadRequest)
	ErrorBulkTooLarge           = NewErrorWithCode("ErrorBulkTooLarge", ErrorBadRequest)
)

// Quote related errors
var (
	ErrorQuoteNotFound       = NewErrorWithCode("ErrorQuoteNotFound", ErrorNotFound)
	ErrorQuoteNotApproved    = NewErrorWithCode("ErrorQuoteNotApproved", ErrorConflict)
	ErrorQuoteNoHotel        = NewErrorWithCode("ErrorQuoteNoHotel", ErrorBadRequest)
	ErrorQuoteNoDates        = NewErrorWithCode("ErrorQuoteNoDates", ErrorBadRequest)
	ErrorQuoteStartInPast    = NewErrorWithCode("ErrorQuoteStartInPast", ErrorBadRequest)
	ErrorInvalidQuoteStatus  = NewErrorWithCode("ErrorInvalidQuoteStatus", ErrorConflict)
	ErrorQuoteValidation     = NewErrorWithCode("ErrorQuoteValidation", ErrorBadRequest)
	ErrorHotelNotFound       = NewErrorWithCode("ErrorHotelNotFound", ErrorNotFound)
	ErrorHotelValidation     = NewErrorWithCode("ErrorHotelValidation", ErrorBadRequest)
	ErrorRoomTypeNotFound    = NewErrorWithCode("ErrorRoomTypeNotFound", ErrorNotFound)
	ErrorRoomTypeValidation  = NewErrorWithCode("ErrorRoomTypeValidation", ErrorBadRequest)
	ErrorRoomTypeHotelScope  = NewErrorWithCode("ErrorRoomTypeHotelMismatch", ErrorBadRequest)
	ErrorInvalidInventoryDay = NewErrorWithCode("ErrorInvalidInventoryDate", ErrorBadRequest)
)

// Inventory errors
var (
	ErrorNegativeUnits   = NewErrorWithCode("ErrorNegativeUnits", ErrorBadRequest)
	ErrorExceedsCapacity = NewErrorWithCode("ErrorExceedsCapacity", ErrorBadRequest)
	ErrorInvalidRange    = NewErrorWithCode("ErrorInvalidRange", ErrorBadRequest)
	ErrorRangeTooLong    = NewErrorWithCode("ErrorRangeTooLong", ErrorBadRequest)
)

// Payment and voucher errors
var (
	ErrorPaymentNotFound        = NewErrorWithCode("ErrorPaymentNotFound", ErrorNotFound)
	ErrorOverpayment            = NewErrorWithCode("ErrorOverpayment", ErrorConflict)
	ErrorInvalidAmount          = NewErrorWithCode("ErrorInvalidAmount", ErrorBadRequest)
	ErrorInvalidPaymentStatus   = NewErrorWithCode("ErrorInvalidPaymentStatus", ErrorConflict)
	ErrorPaymentOnCancelled     = NewErrorWithCode("ErrorPaymentOnCancelled", ErrorConflict)
	ErrorVoucherNotFound        = NewErrorWithCode("ErrorVoucherNotFound", ErrorNotFound)
	ErrorVoucherNotConfirmed    = NewErrorWithCode("ErrorVoucherRequiresConfirmed", ErrorConflict)
	ErrorVoucherNoRecipient     = NewErrorWithCode("ErrorVoucherNoRecipient", ErrorBadRequest)
	ErrorMailerUnavailable      = NewErrorWithCode("ErrorMailerUnavailable", ErrorServiceUnavailable)
	ErrorDocumentRenderFailed   = NewErrorWithCode("ErrorDocumentRenderFailed", ErrorInternalServer)
	ErrorInvalidRequestPayload  = NewErrorWithCode("ErrorInvalidRequestPayload", ErrorBadRequest)
	ErrorInvalidIdentifierParam = NewErrorWithCode("ErrorInvalidID", ErrorBadRequest)
)

// Authentication and session messages
const (
	SuccessLogin       = "SuccessLogin"
	SuccessSessionInfo = "SuccessSessionInfo"
	SuccessTierUpdated = "SuccessTierUpdated"
	SuccessLogout      = "SuccessLogout"
)

// Organization and user messages
const (
	SuccessOrganizationCreated = "SuccessOrganizationCreated"
	SuccessOrganizationList    = "SuccessOrganizationList"
	SuccessOrganizationTier    = "SuccessOrganizationTierUpdated"
	SuccessUserCreated         = "SuccessUserCreated"
	SuccessUserUpdated         = "SuccessUserUpdated"
	SuccessUserList            = "SuccessUserList"
)

// Catalog, quote and booking messages
const (
	SuccessHotelCreated         = "SuccessHotelCreated"
	SuccessHotelList            = "SuccessHotelList"
	SuccessHotelInfo            = "SuccessHotelInfo"
	SuccessRoomTypeCreated      = "SuccessRoomTypeCreated"
	SuccessRoomTypeList         = "SuccessRoomTypeList"
	SuccessQuoteInfo            = "SuccessQuoteInfo"
	SuccessQuoteCreated         = "SuccessQuoteCreated"
	SuccessQuoteUpdated         = "SuccessQuoteUpdated"
	SuccessQuoteList            = "SuccessQuoteList"
	SuccessQuoteTotal           = "SuccessQuoteTotal"
	SuccessBookingCreated       = "SuccessBookingCreated"
	SuccessBookingConverted     = "SuccessBookingConverted"
	SuccessBookingUpdated       = "SuccessBookingUpdated"
	SuccessBookingStatusUpdated = "SuccessBookingStatusUpdated"
	SuccessBookingInfo          = "SuccessBookingInfo"
	SuccessBookingList          = "SuccessBookingList"
	SuccessBookingItemsUpdated  = "SuccessBookingItemsUpdated"
	SuccessBookingTransitions   = "SuccessBookingTransitions"
	SuccessBookingHistory       = "SuccessBookingHistory"
	SuccessBulkStatusUpdated    = "SuccessBulkStatusUpdated"
	SuccessBulkDeleted          = "SuccessBulkDeleted"
)

// Inventory, payment, voucher and report messages
const (
	SuccessInventoryUpdated = "SuccessInventoryUpdated"
	SuccessInventoryMonth   = "SuccessInventoryMonth"
	SuccessPaymentRecorded  = "SuccessPaymentRecorded"
	SuccessPaymentUpdated   = "SuccessPaymentUpdated"
	SuccessPaymentList      = "SuccessPaymentList"
	SuccessVoucherIssued    = "SuccessVoucherIssued"
	SuccessVoucherSent      = "SuccessVoucherSent"
	SuccessVoucherList      = "SuccessVoucherList"
	SuccessReport           = "SuccessReport"
)
