package services

import (
	config "github.com/madrefit/gym_backend/configs"
	"gorm.io/gorm"
)

// Package-level engine instances used by the HTTP handlers. Tests construct
// their own services against a private database instead.
var (
	Bookings  *BookingService
	Waitlists *WaitlistService
	Equipment *EquipmentService
)

func Setup(db *gorm.DB, cfg config.EngineConfig, sink NotificationSink) {
	coordinator := NewCoordinator()
	Waitlists = NewWaitlistService(db, cfg, coordinator, sink)
	Bookings = NewBookingService(db, cfg, coordinator, Waitlists)
	Equipment = NewEquipmentService(db, cfg, coordinator)
}
