package database

import (
	"fmt"
	"log"

	config "github.com/madrefit/gym_backend/configs"
	"github.com/madrefit/gym_backend/models"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

func ConnectDB() {
	var err error
	dsn := config.Config("DATABASE_URL")

	DB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{
		PrepareStmt:                              false,
		SkipDefaultTransaction:                   true,
		DisableForeignKeyConstraintWhenMigrating: true,
		// Surfaces unique violations as gorm.ErrDuplicatedKey so the auth
		// handler can answer 409 instead of 500.
		TranslateError: true,
	})
	if err != nil {
		log.Fatalf("🔥 Failed to connect to database: %v", err)
	}

	fmt.Println("✅ Database connected successfully")
}

func Migrate() {
	if err := MigrateWith(DB); err != nil {
		log.Fatalf("🔥 Failed to migrate database: %v", err)
	}
	fmt.Println("✅ Database migration successful")
}

// MigrateWith runs the schema migration on any gorm DB so the test suite
// can reuse it against sqlite.
func MigrateWith(db *gorm.DB) error {
	err := db.AutoMigrate(
		&models.User{},
		&models.GymClass{},
		&models.ScheduleSlot{},
		&models.BookingRecord{},
		&models.WaitlistEntry{},
		&models.EquipmentZone{},
		&models.EquipmentReservation{},
		&models.Notification{},
	)
	if err != nil {
		return err
	}

	// At most one confirmed booking per member and class occurrence.
	// Cancelled rows stay behind for attendance history, so the index is
	// partial; the statement is valid on both postgres and sqlite.
	return db.Exec(`CREATE UNIQUE INDEX IF NOT EXISTS idx_confirmed_booking
		ON booking_records (user_id, schedule_slot_id, class_date)
		WHERE status = 'confirmed'`).Error
}

func SeedAdmin() {
	adminEmail := config.Config("ADMIN_EMAIL")
	adminPassword := config.Config("ADMIN_PASSWORD")

	var count int64
	err := DB.Model(&models.User{}).Where("email = ?", adminEmail).Count(&count).Error
	if err != nil {
		log.Fatalf("🔥 Failed to check for admin user: %v", err)
		return
	}

	if count > 0 {
		log.Println("Admin user already exists.")
		return
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(adminPassword), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("🔥 Failed to hash admin password: %v", err)
		return
	}

	adminUser := models.User{
		FullName: config.Config("ADMIN_FULL_NAME"),
		Email:    adminEmail,
		Password: string(hashedPassword),
		Role:     "admin",
	}

	if err := DB.Create(&adminUser).Error; err != nil {
		log.Fatalf("🔥 Failed to seed admin user: %v", err)
		return
	}

	log.Println("✅ Admin user seeded successfully")
}
