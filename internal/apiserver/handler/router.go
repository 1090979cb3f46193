package handler

import (
	"github.com/amoylab/tourdesk/internal/apiserver/middleware"
	"github.com/amoylab/tourdesk/internal/permission"

	"github.com/gin-gonic/gin"
)

// RegisterRoutes mounts every /api route on r. Everything except login runs
// behind the JWT and session middlewares.
func (h *Handler) RegisterRoutes(r gin.IRouter) {
	api := r.Group("/api")
	api.POST("/auth/login", h.Login)

	authed := api.Group("")
	authed.Use(
		middleware.JWTAuthMiddleware(h.tokens),
		middleware.SessionMiddleware(h.sessions, h.logger),
	)

	authed.POST("/auth/logout", h.Logout)
	authed.GET("/session", h.GetSession)
	authed.PUT("/session/tier", h.SetTier)

	authed.GET("/organizations", h.ListOrganizations)
	authed.POST("/organizations", h.CreateOrganization)
	authed.PUT("/organizations/:id/tier", h.SetOrganizationTier)

	authed.GET("/users", h.ListUsers)
	authed.POST("/users", h.CreateUser)
	authed.PUT("/users/:id", h.UpdateUser)

	hotels := authed.Group("/hotels")
	hotels.GET("", h.ListHotels)
	hotels.POST("", h.CreateHotel)
	hotels.GET("/:id", h.GetHotel)
	hotels.GET("/:id/room-types", h.ListRoomTypes)
	hotels.POST("/:id/room-types", h.CreateRoomType)
	hotels.GET("/:id/inventory", h.GetInventory)
	hotels.PUT("/:id/inventory", h.SetInventory)

	quotes := authed.Group("/quotes")
	quotes.GET("", h.ListQuotes)
	quotes.POST("", h.CreateQuote)
	quotes.GET("/:id", h.GetQuote)
	quotes.GET("/:id/total", h.GetQuoteTotal)
	quotes.GET("/:id/document", h.QuoteDocument)
	quotes.PUT("/:id/status", h.UpdateQuoteStatus)
	quotes.POST("/:id/convert", h.ConvertQuote)

	bookings := authed.Group("/bookings")
	bookings.GET("", h.ListBookings)
	bookings.POST("", h.CreateBooking)
	bookings.PUT("/bulk/status", h.BulkUpdateStatus)
	bookings.POST("/bulk/delete", middleware.RequirePermission(permission.DeleteBookings), h.BulkDelete)
	bookings.GET("/:id", h.GetBooking)
	bookings.PUT("/:id/status", h.UpdateBookingStatus)
	bookings.PUT("/:id/items", h.UpdateBookingItems)
	bookings.GET("/:id/transitions", h.GetTransitions)
	bookings.GET("/:id/history", h.GetHistory)
	bookings.GET("/:id/payments", h.ListPayments)
	bookings.POST("/:id/payments", h.RecordPayment)
	bookings.GET("/:id/vouchers", h.ListVouchers)
	bookings.POST("/:id/vouchers", h.IssueVoucher)

	authed.PUT("/payments/:id/status", h.UpdatePaymentStatus)

	authed.GET("/vouchers/:id/document", h.VoucherDocument)
	authed.POST("/vouchers/:id/send", h.SendVoucher)

	authed.GET("/reports/bookings", middleware.RequirePermission(permission.ViewReports), h.BookingReport)
}
