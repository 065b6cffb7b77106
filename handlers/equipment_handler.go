package handlers

import (
	"github.com/madrefit/gym_backend/database"
	"github.com/madrefit/gym_backend/models"
	"github.com/madrefit/gym_backend/services"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

func GetEquipmentZones(c *fiber.Ctx) error {
	zones, err := services.Equipment.ListZones()
	if err != nil {
		return c.Status(domainErrorStatus(err)).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(zones)
}

type ReserveEquipmentRequest struct {
	EquipmentID string `json:"equipment_id" validate:"required,uuid"`
	Date        string `json:"date" validate:"required,datetime=2006-01-02"`
	StartTime   string `json:"start_time" validate:"required,datetime=15:04"`
	EndTime     string `json:"end_time" validate:"required,datetime=15:04"`
}

func ReserveEquipment(c *fiber.Ctx) error {
	userID := currentUserID(c)

	var req ReserveEquipmentRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	equipmentID, _ := uuid.Parse(req.EquipmentID)

	reservation, err := services.Equipment.Reserve(userID, equipmentID, req.Date, req.StartTime, req.EndTime)
	if err != nil {
		return c.Status(domainErrorStatus(err)).JSON(fiber.Map{"error": err.Error()})
	}
	return c.Status(fiber.StatusCreated).JSON(reservation)
}

func CancelEquipmentReservation(c *fiber.Ctx) error {
	reservationID, err := uuid.Parse(c.Params("reservationId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid reservation id"})
	}

	var owned models.EquipmentReservation
	if err := database.DB.First(&owned, "id = ?", reservationID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Reservation not found"})
	}
	if owned.UserID != currentUserID(c) && currentRole(c) != "admin" {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "This is not your reservation"})
	}

	reservation, err := services.Equipment.Cancel(reservationID)
	if err != nil {
		return c.Status(domainErrorStatus(err)).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{
		"message":     "Reservation cancelled successfully",
		"reservation": reservation,
	})
}

func GetMyEquipmentReservations(c *fiber.Ctx) error {
	userID := currentUserID(c)
	fromDate := c.Query("from")

	reservations, err := services.Equipment.ListUserReservations(userID, fromDate)
	if err != nil {
		return c.Status(domainErrorStatus(err)).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(reservations)
}

type CreateEquipmentZoneRequest struct {
	Name        string `json:"name" validate:"required"`
	Type        string `json:"type" validate:"required"`
	Description string `json:"description,omitempty"`
	Location    string `json:"location,omitempty"`
	SlotMinutes int    `json:"slot_minutes,omitempty" validate:"omitempty,min=15"`
}

func CreateEquipmentZone(c *fiber.Ctx) error {
	var req CreateEquipmentZoneRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	zone := models.EquipmentZone{
		Name:        req.Name,
		Type:        req.Type,
		Description: req.Description,
		Location:    req.Location,
		SlotMinutes: req.SlotMinutes,
		Reservable:  true,
		IsActive:    true,
	}
	if zone.SlotMinutes == 0 {
		zone.SlotMinutes = 60
	}
	if err := database.DB.Create(&zone).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create equipment zone"})
	}
	return c.Status(fiber.StatusCreated).JSON(zone)
}
