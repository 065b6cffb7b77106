package handlers

import (
	"errors"

	"github.com/madrefit/gym_backend/database"
	"github.com/madrefit/gym_backend/models"
	"github.com/madrefit/gym_backend/services"
	"github.com/madrefit/gym_backend/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
)

func currentUserID(c *fiber.Ctx) uuid.UUID {
	token := c.Locals("user").(*jwt.Token)
	claims := token.Claims.(jwt.MapClaims)
	userID, _ := uuid.Parse(claims["user_id"].(string))
	return userID
}

func currentRole(c *fiber.Ctx) string {
	token := c.Locals("user").(*jwt.Token)
	claims := token.Claims.(jwt.MapClaims)
	role, _ := claims["role"].(string)
	return role
}

// domainErrorStatus maps engine errors to HTTP statuses; anything unmatched
// is a storage failure.
func domainErrorStatus(err error) int {
	switch {
	case errors.Is(err, services.ErrNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, services.ErrDuplicateBooking):
		return fiber.StatusConflict
	case errors.Is(err, services.ErrSlotUnavailable):
		return fiber.StatusConflict
	case errors.Is(err, services.ErrInvalidInterval):
		return fiber.StatusBadRequest
	default:
		return fiber.StatusInternalServerError
	}
}

type CreateBookingRequest struct {
	ScheduleSlotID string `json:"schedule_slot_id" validate:"required,uuid"`
	ClassDate      string `json:"class_date" validate:"required,datetime=2006-01-02"`
}

func CreateBooking(c *fiber.Ctx) error {
	userID := currentUserID(c)

	var req CreateBookingRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	slotID, _ := uuid.Parse(req.ScheduleSlotID)

	result, err := services.Bookings.Book(userID, slotID, req.ClassDate)
	if err != nil {
		return c.Status(domainErrorStatus(err)).JSON(fiber.Map{"error": err.Error()})
	}

	eventType := "slot_booked"
	if result.Outcome == services.BookingOutcomeWaitlisted {
		eventType = "user_waitlisted"
	}
	websocket.BroadcastSlotEvent(eventType, slotID, req.ClassDate, map[string]interface{}{
		"user_id": userID,
	})

	return c.Status(fiber.StatusCreated).JSON(result)
}

func CancelBooking(c *fiber.Ctx) error {
	bookingID, err := uuid.Parse(c.Params("bookingId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid booking id"})
	}

	var owned models.BookingRecord
	if err := database.DB.First(&owned, "id = ?", bookingID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Booking not found"})
	}
	if owned.UserID != currentUserID(c) && currentRole(c) != "admin" {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "This is not your booking"})
	}

	booking, promotion, err := services.Bookings.Cancel(bookingID)
	if err != nil {
		return c.Status(domainErrorStatus(err)).JSON(fiber.Map{"error": err.Error()})
	}

	websocket.BroadcastSlotEvent("booking_cancelled", booking.ScheduleSlotID, booking.ClassDate, map[string]interface{}{
		"user_id": booking.UserID,
	})
	if promotion != nil {
		websocket.BroadcastSlotEvent("waitlist_promoted", promotion.ScheduleSlotID, promotion.ClassDate, map[string]interface{}{
			"user_id":  promotion.UserID,
			"deadline": promotion.Deadline,
		})
	}

	return c.JSON(fiber.Map{
		"message": "Booking cancelled successfully",
		"booking": booking,
	})
}

func CheckInBooking(c *fiber.Ctx) error {
	bookingID, err := uuid.Parse(c.Params("bookingId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid booking id"})
	}

	var owned models.BookingRecord
	if err := database.DB.First(&owned, "id = ?", bookingID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Booking not found"})
	}
	if owned.UserID != currentUserID(c) && currentRole(c) != "admin" {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "This is not your booking"})
	}

	booking, err := services.Bookings.CheckIn(bookingID)
	if err != nil {
		return c.Status(domainErrorStatus(err)).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(fiber.Map{
		"message": "Checked in successfully",
		"booking": booking,
	})
}

func GetMyBookings(c *fiber.Ctx) error {
	userID := currentUserID(c)
	fromDate := c.Query("from")

	bookings, err := services.Bookings.ListUserBookings(userID, fromDate)
	if err != nil {
		return c.Status(domainErrorStatus(err)).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(bookings)
}

type JoinWaitlistRequest struct {
	ScheduleSlotID string `json:"schedule_slot_id" validate:"required,uuid"`
	ClassDate      string `json:"class_date" validate:"required,datetime=2006-01-02"`
}

func JoinWaitlist(c *fiber.Ctx) error {
	userID := currentUserID(c)

	var req JoinWaitlistRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	slotID, _ := uuid.Parse(req.ScheduleSlotID)

	entry, created, err := services.Waitlists.Add(userID, slotID, req.ClassDate)
	if err != nil {
		return c.Status(domainErrorStatus(err)).JSON(fiber.Map{"error": err.Error()})
	}

	status := "waiting"
	if !created {
		status = "already_waiting"
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"status": status,
		"entry":  entry,
	})
}

func GetMyWaitlistEntries(c *fiber.Ctx) error {
	userID := currentUserID(c)

	entries, err := services.Waitlists.ListUserEntries(userID)
	if err != nil {
		return c.Status(domainErrorStatus(err)).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(entries)
}
