package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type GymClass struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	Name        string    `gorm:"size:255;not null" json:"name"`
	Type        string    `gorm:"size:50;not null" json:"type"`
	Intensity   string    `gorm:"size:20" json:"intensity"`
	Description string    `gorm:"type:text" json:"description"`
	DurationMin int       `gorm:"not null;default:60" json:"duration_min"`
	IsActive    bool      `gorm:"default:true" json:"is_active"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (g *GymClass) BeforeCreate(tx *gorm.DB) error {
	if g.ID == uuid.Nil {
		g.ID = uuid.New()
	}
	return nil
}
