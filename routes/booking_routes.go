package routes

import (
	"github.com/labstack/echo/v4"

	"github.com/TusharRokade31/dharamshala_backend/controllers"
	"github.com/TusharRokade31/dharamshala_backend/middleware"
)

// RegisterBookingRoutes sets up booking lifecycle routes
func RegisterBookingRoutes(e *echo.Echo, bookingController *controllers.BookingController) {
	r := e.Group("/api/bookings")
	r.Use(middleware.JWTMiddleware())

	r.POST("", bookingController.CreateBooking)
	r.GET("/user", bookingController.GetUserBookings)
	r.GET("/owner", bookingController.GetOwnerBookings, middleware.RequireUserType("owner", "admin"))
	r.GET("/:id", bookingController.GetBooking)
	r.PUT("/:id/cancel", bookingController.CancelBooking)
	r.GET("/:id/qrcode", bookingController.GetBookingQRCode)
	r.GET("/:id/retry-context", bookingController.GetBookingRetryContext)
}
