package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	ReservationStatusConfirmed = "confirmed"
	ReservationStatusCancelled = "cancelled"
)

type EquipmentZone struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	Name        string    `gorm:"size:255;not null" json:"name"`
	Type        string    `gorm:"size:50;not null" json:"type"`
	Description string    `gorm:"type:text" json:"description"`
	Location    string    `gorm:"size:255" json:"location"`
	SlotMinutes int       `gorm:"not null;default:60" json:"slot_minutes"`
	Reservable  bool      `gorm:"default:true" json:"reservable"`
	IsActive    bool      `gorm:"default:true" json:"is_active"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (e *EquipmentZone) BeforeCreate(tx *gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return nil
}

// EquipmentReservation holds a half-open [StartTime, EndTime) interval on
// one zone for one date. Confirmed intervals on the same zone+date never
// overlap.
type EquipmentReservation struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	Code        string    `gorm:"size:10;unique;not null" json:"code"`
	UserID      uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	EquipmentID uuid.UUID `gorm:"type:uuid;not null;index" json:"equipment_id"`
	Date        string    `gorm:"size:10;not null;index" json:"date"`       // YYYY-MM-DD
	StartTime   string    `gorm:"size:5;not null" json:"start_time"`        // HH:MM
	EndTime     string    `gorm:"size:5;not null" json:"end_time"`          // HH:MM
	Status      string    `gorm:"size:20;not null;default:'confirmed'" json:"status"`

	CheckinAt      *time.Time `json:"checkin_at"`
	CancellationAt *time.Time `json:"cancellation_at"`

	Equipment EquipmentZone `gorm:"foreignkey:EquipmentID" json:"equipment,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (r *EquipmentReservation) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}
