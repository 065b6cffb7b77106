package routes

import (
	"github.com/madrefit/gym_backend/handlers"
	"github.com/madrefit/gym_backend/middleware"
	"github.com/gofiber/fiber/v2"
)

func ScheduleRoutes(app *fiber.App) {
	api := app.Group("/api/v1")

	api.Get("/classes", handlers.GetClasses)
	api.Get("/slots", handlers.GetAvailableSlots)

	admin := api.Group("/admin", middleware.Protected(), middleware.AdminRequired())
	admin.Post("/classes", handlers.CreateClass)
	admin.Post("/slots", handlers.CreateScheduleSlot)

	ws := api.Group("/ws", middleware.Protected())
	ws.Get("/slots", handlers.SlotEventsUpgrade, handlers.SlotEventsSocket)
}
