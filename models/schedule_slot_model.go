package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ScheduleSlot is a recurring class offering. It is immutable once
// published except through the admin endpoints.
type ScheduleSlot struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	ClassID     uuid.UUID `gorm:"type:uuid;not null;index" json:"class_id"`
	Instructor  string    `gorm:"size:255" json:"instructor"`
	DayOfWeek   int       `gorm:"not null" json:"day_of_week"`       // time.Weekday, Sunday = 0
	StartTime   string    `gorm:"size:5;not null" json:"start_time"` // HH:MM
	Room        string    `gorm:"size:100" json:"room"`
	MaxCapacity int       `gorm:"not null" json:"max_capacity"`
	IsActive    bool      `gorm:"default:true" json:"is_active"`

	Class GymClass `gorm:"foreignkey:ClassID" json:"class,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (s *ScheduleSlot) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}
