package routes

import (
	"github.com/madrefit/gym_backend/handlers"
	"github.com/madrefit/gym_backend/middleware"
	"github.com/gofiber/fiber/v2"
)

func EquipmentRoutes(app *fiber.App) {
	api := app.Group("/api/v1")

	api.Get("/equipment", handlers.GetEquipmentZones)

	reservation := api.Group("/equipment/reservations", middleware.Protected())
	reservation.Get("/me", handlers.GetMyEquipmentReservations)
	reservation.Post("", handlers.ReserveEquipment)
	reservation.Post("/:reservationId/cancel", handlers.CancelEquipmentReservation)

	admin := api.Group("/admin", middleware.Protected(), middleware.AdminRequired())
	admin.Post("/equipment", handlers.CreateEquipmentZone)
}
