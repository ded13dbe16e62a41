package routes

import (
	"freightlink/internal/handlers"
	"freightlink/internal/middleware"

	"github.com/gin-gonic/gin"
)

func SetupBookingRoutes(api *gin.RouterGroup, handler *handlers.BookingHandler, jwtSecret string) {
	bookings := api.Group("/bookings")
	bookings.Use(middleware.AuthRequired(jwtSecret))
	{
		bookings.POST("", handler.CreateBooking)
		bookings.GET("", handler.MyBookings)
		bookings.GET("/available", handler.AvailableBookings)
		bookings.GET("/:requestId", handler.GetBooking)
		bookings.PATCH("/:requestId/status", handler.UpdateStatus)
	}
}
