package routes

import (
	"bookinghub/internal/adapter/http/handlers"

	"github.com/gin-gonic/gin"
)

const (
	PathBookings = "/bookings"
)

func addBookingRoutes(rg *gin.RouterGroup, h *handlers.BookingHandler, auth gin.HandlerFunc) {
	bookings := rg.Group(PathBookings, auth)
	{
		bookings.POST("", h.CreateBooking)
		bookings.GET("", h.ListBookings)
		bookings.GET("/:id", h.GetBooking)
		bookings.POST("/:id/transitions", h.TransitionBooking)
	}
}
