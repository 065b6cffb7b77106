package services

import (
	"fmt"
	"sync"
	"testing"
	"time"

	config "github.com/madrefit/gym_backend/configs"
	"github.com/madrefit/gym_backend/database"
	"github.com/madrefit/gym_backend/models"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// fakeSink records emitted promotions instead of sending anything.
type fakeSink struct {
	mu         sync.Mutex
	promotions []Promotion
}

func (f *fakeSink) SpotAvailable(p Promotion) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.promotions = append(f.promotions, p)
}

func (f *fakeSink) all() []Promotion {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]Promotion, len(f.promotions))
	copy(out, f.promotions)
	return out
}

type testEngine struct {
	db        *gorm.DB
	bookings  *BookingService
	waitlists *WaitlistService
	equipment *EquipmentService
	sink      *fakeSink
}

func newTestEngine(t *testing.T) *testEngine {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err, "opening sqlite test database")

	// One connection keeps every session on the same in-memory database.
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, database.MigrateWith(db), "migrating test database")

	cfg := config.EngineConfig{
		ConfirmationWindow: 10 * time.Minute,
		SweepInterval:      time.Minute,
		DefaultCapacity:    20,
	}
	sink := &fakeSink{}
	coordinator := NewCoordinator()
	waitlists := NewWaitlistService(db, cfg, coordinator, sink)

	return &testEngine{
		db:        db,
		bookings:  NewBookingService(db, cfg, coordinator, waitlists),
		waitlists: waitlists,
		equipment: NewEquipmentService(db, cfg, coordinator),
		sink:      sink,
	}
}

func createTestUser(t *testing.T, db *gorm.DB, name string) models.User {
	t.Helper()
	user := models.User{
		FullName: name,
		Email:    fmt.Sprintf("%s_%d@example.com", name, time.Now().UnixNano()),
		Password: "hashed",
	}
	require.NoError(t, db.Create(&user).Error)
	return user
}

func createTestSlot(t *testing.T, db *gorm.DB, maxCapacity int) models.ScheduleSlot {
	t.Helper()
	class := models.GymClass{Name: "Spinning", Type: "cardio", Intensity: "high", DurationMin: 45, IsActive: true}
	require.NoError(t, db.Create(&class).Error)

	slot := models.ScheduleSlot{
		ClassID:     class.ID,
		Instructor:  "Marta",
		DayOfWeek:   1,
		StartTime:   "18:00",
		Room:        "Studio A",
		MaxCapacity: maxCapacity,
		IsActive:    true,
	}
	require.NoError(t, db.Create(&slot).Error)
	return slot
}

func createTestZone(t *testing.T, db *gorm.DB, name string) models.EquipmentZone {
	t.Helper()
	zone := models.EquipmentZone{
		Name:        name,
		Type:        "zone",
		SlotMinutes: 60,
		Reservable:  true,
		IsActive:    true,
	}
	require.NoError(t, db.Create(&zone).Error)
	return zone
}
