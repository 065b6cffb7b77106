package routes

import (
	"github.com/madrefit/gym_backend/handlers"
	"github.com/madrefit/gym_backend/middleware"
	"github.com/gofiber/fiber/v2"
)

func BookingRoutes(app *fiber.App) {
	api := app.Group("/api/v1")

	booking := api.Group("/bookings", middleware.Protected())
	booking.Get("/me", handlers.GetMyBookings)
	booking.Post("", handlers.CreateBooking)
	booking.Post("/:bookingId/cancel", handlers.CancelBooking)
	booking.Post("/:bookingId/checkin", handlers.CheckInBooking)

	waitlist := api.Group("/waitlist", middleware.Protected())
	waitlist.Get("/me", handlers.GetMyWaitlistEntries)
	waitlist.Post("", handlers.JoinWaitlist)

	notification := api.Group("/notifications", middleware.Protected())
	notification.Get("", handlers.GetMyNotifications)
}
