package handlers

import (
	"github.com/madrefit/gym_backend/database"
	"github.com/madrefit/gym_backend/notifications"
	"github.com/gofiber/fiber/v2"
)

func GetMyNotifications(c *fiber.Ctx) error {
	userID := currentUserID(c)

	list, err := notifications.ListForUser(database.DB, userID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to load notifications"})
	}
	return c.JSON(list)
}
