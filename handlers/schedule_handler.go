package handlers

import (
	"time"

	config "github.com/madrefit/gym_backend/configs"
	"github.com/madrefit/gym_backend/database"
	"github.com/madrefit/gym_backend/models"
	"github.com/madrefit/gym_backend/services"
	"github.com/gofiber/fiber/v2"
)

// engineCfg is injected from main so handlers never re-read the environment
// on a request path.
var engineCfg config.EngineConfig

func SetEngineConfig(cfg config.EngineConfig) {
	engineCfg = cfg
}

func GetClasses(c *fiber.Ctx) error {
	var classes []models.GymClass
	if err := database.DB.Where("is_active = ?", true).Order("name asc").Find(&classes).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to load classes"})
	}
	return c.JSON(classes)
}

// GetAvailableSlots expands the recurring schedule over a date range and
// reports per-occurrence occupancy. Defaults to the next 7 days.
func GetAvailableSlots(c *fiber.Ctx) error {
	fromDate := c.Query("from")
	toDate := c.Query("to")
	if fromDate == "" {
		fromDate = time.Now().Format("2006-01-02")
	}
	if toDate == "" {
		toDate = time.Now().AddDate(0, 0, 7).Format("2006-01-02")
	}

	availability, err := services.Bookings.ListAvailableSlots(fromDate, toDate)
	if err != nil {
		return c.Status(domainErrorStatus(err)).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(availability)
}

type CreateClassRequest struct {
	Name        string `json:"name" validate:"required"`
	Type        string `json:"type" validate:"required"`
	Intensity   string `json:"intensity,omitempty"`
	Description string `json:"description,omitempty"`
	DurationMin int    `json:"duration_min,omitempty"`
}

func CreateClass(c *fiber.Ctx) error {
	var req CreateClassRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	class := models.GymClass{
		Name:        req.Name,
		Type:        req.Type,
		Intensity:   req.Intensity,
		Description: req.Description,
		DurationMin: req.DurationMin,
		IsActive:    true,
	}
	if class.DurationMin == 0 {
		class.DurationMin = 60
	}
	if err := database.DB.Create(&class).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create class"})
	}
	return c.Status(fiber.StatusCreated).JSON(class)
}

type CreateScheduleSlotRequest struct {
	ClassID     string `json:"class_id" validate:"required,uuid"`
	Instructor  string `json:"instructor,omitempty"`
	DayOfWeek   *int   `json:"day_of_week" validate:"required,min=0,max=6"`
	StartTime   string `json:"start_time" validate:"required,datetime=15:04"`
	Room        string `json:"room,omitempty"`
	MaxCapacity int    `json:"max_capacity,omitempty" validate:"omitempty,min=1"`
}

func CreateScheduleSlot(c *fiber.Ctx) error {
	var req CreateScheduleSlotRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	var class models.GymClass
	if err := database.DB.First(&class, "id = ? AND is_active = ?", req.ClassID, true).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Class not found"})
	}

	maxCapacity := req.MaxCapacity
	if maxCapacity == 0 {
		maxCapacity = engineCfg.DefaultCapacity
	}

	slot := models.ScheduleSlot{
		ClassID:     class.ID,
		Instructor:  req.Instructor,
		DayOfWeek:   *req.DayOfWeek,
		StartTime:   req.StartTime,
		Room:        req.Room,
		MaxCapacity: maxCapacity,
		IsActive:    true,
	}
	if err := database.DB.Create(&slot).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create schedule slot"})
	}
	return c.Status(fiber.StatusCreated).JSON(slot)
}
