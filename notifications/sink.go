package notifications

import (
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/madrefit/gym_backend/models"
	"github.com/madrefit/gym_backend/services"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// StoreSink is the default notification sink: it persists a notification
// row for the member's inbox and sends the confirmation email in the
// background.
type StoreSink struct {
	DB *gorm.DB
}

func NewStoreSink(db *gorm.DB) *StoreSink {
	return &StoreSink{DB: db}
}

func (s *StoreSink) SpotAvailable(p services.Promotion) {
	minutes := int(time.Until(p.Deadline).Round(time.Minute).Minutes())
	data, _ := json.Marshal(map[string]string{
		"schedule_slot_id": p.ScheduleSlotID.String(),
		"class_date":       p.ClassDate,
		"deadline":         p.Deadline.Format(time.RFC3339),
	})

	notification := models.Notification{
		UserID:    p.UserID,
		Type:      "waitlist_spot_available",
		Title:     "Spot Available",
		Message:   fmt.Sprintf("A spot opened up in your class. You have %d minutes to confirm.", minutes),
		Data:      string(data),
		ExpiresAt: &p.Deadline,
	}
	if err := s.DB.Create(&notification).Error; err != nil {
		log.Printf("🔥 Failed to store waitlist notification for user %s: %v", p.UserID, err)
		return
	}

	go s.email(p.UserID, p.Deadline)
}

func (s *StoreSink) email(userID uuid.UUID, deadline time.Time) {
	var user models.User
	if err := s.DB.First(&user, "id = ?", userID).Error; err != nil {
		log.Printf("Could not load user %s for waitlist email: %v", userID, err)
		return
	}

	SendEmail(user.FullName, user.Email, "A Spot Opened Up in Your Class!",
		fmt.Sprintf("<h1>Spot Available</h1><p>A spot opened up in a class you are waitlisted for. Book it before %s to claim your seat.</p>",
			deadline.Format(time.Kitchen)))
}

// ListForUser returns a member's notifications, newest first.
func ListForUser(db *gorm.DB, userID uuid.UUID) ([]models.Notification, error) {
	var notifications []models.Notification
	if err := db.Where("user_id = ?", userID).Order("created_at desc").Limit(100).Find(&notifications).Error; err != nil {
		return nil, err
	}
	return notifications, nil
}
