package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	WaitlistStatusWaiting   = "waiting"
	WaitlistStatusNotified  = "notified"
	WaitlistStatusConfirmed = "confirmed"
	WaitlistStatusExpired   = "expired"
)

// WaitlistEntry queues a member for a full class occurrence. AddedAt defines
// the FIFO order; Position is assigned in arrival order inside the
// coordinator's critical section and breaks ties when clocks collide. At
// most one entry per slot+date may be notified at a time.
type WaitlistEntry struct {
	ID             uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	UserID         uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	ScheduleSlotID uuid.UUID `gorm:"type:uuid;not null;index" json:"schedule_slot_id"`
	ClassDate      string    `gorm:"size:10;not null;index" json:"class_date"`
	Status         string    `gorm:"size:20;not null;default:'waiting'" json:"status"`

	AddedAt              time.Time  `gorm:"not null" json:"added_at"`
	Position             int        `gorm:"not null;index" json:"position"`
	NotifiedAt           *time.Time `json:"notified_at"`
	ConfirmationDeadline *time.Time `json:"confirmation_deadline"`

	User User `gorm:"foreignkey:UserID" json:"user,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (w *WaitlistEntry) BeforeCreate(tx *gorm.DB) error {
	if w.ID == uuid.Nil {
		w.ID = uuid.New()
	}
	return nil
}
