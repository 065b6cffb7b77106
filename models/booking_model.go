package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	BookingStatusConfirmed = "confirmed"
	BookingStatusCancelled = "cancelled"
)

// BookingRecord is one member's confirmed (or later cancelled) seat in a
// class occurrence. Cancelled rows are kept for attendance history; the
// partial unique index created in database.Migrate guarantees at most one
// confirmed row per (user, slot, date).
type BookingRecord struct {
	ID             uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	Code           string    `gorm:"size:10;unique;not null" json:"code"`
	UserID         uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	ScheduleSlotID uuid.UUID `gorm:"type:uuid;not null;index" json:"schedule_slot_id"`
	ClassDate      string    `gorm:"size:10;not null;index" json:"class_date"` // YYYY-MM-DD
	Status         string    `gorm:"size:20;not null;default:'confirmed'" json:"status"`

	CheckinAt      *time.Time `json:"checkin_at"`
	CancellationAt *time.Time `json:"cancellation_at"`

	User         User         `gorm:"foreignkey:UserID" json:"user,omitempty"`
	ScheduleSlot ScheduleSlot `gorm:"foreignkey:ScheduleSlotID" json:"schedule_slot,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (b *BookingRecord) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}
