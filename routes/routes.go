package routes

import (
	"github.com/gin-gonic/gin"

	"gymflow/handlers"
	"gymflow/middleware"
)

// HandlerBundle aggregates the handlers wired in main.
type HandlerBundle struct {
	Conflict *handlers.ConflictHandler
	Schedule *handlers.ScheduleHandler
	Booking  *handlers.BookingHandler
}

// RegisterRoutes registers all endpoints on the router.
func RegisterRoutes(r *gin.Engine, h *HandlerBundle) {
	r.GET("/health", handlers.HealthHandler)

	api := r.Group("/api")
	{
		// Read-only checks, open to any authenticated client of the gateway.
		api.POST("/conflicts/check", h.Conflict.CheckConflict)
		api.GET("/availability/:kind/:id", h.Conflict.GetDayAvailability)
		api.GET("/schedules/owner/:kind/:id", h.Schedule.ListOwnerSchedules)
		api.GET("/bookings/owner/:kind/:id", h.Booking.ListOwnerBookings)

		// Writes require a staff token.
		staff := api.Group("")
		staff.Use(middleware.StaffAuthMiddleware())
		{
			staff.POST("/schedules", h.Schedule.CreateSchedule)
			staff.PATCH("/schedules/:id/cancel", h.Schedule.CancelSchedule)
			staff.PATCH("/schedules/:id/dates", h.Schedule.UpdateScheduleWindow)

			staff.POST("/bookings", h.Booking.CreateBooking)
			staff.PATCH("/bookings/:id/cancel", h.Booking.CancelBooking)
		}
	}
}
