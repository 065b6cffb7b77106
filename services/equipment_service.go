package services

import (
	"errors"
	"fmt"
	"log"
	"time"

	config "github.com/madrefit/gym_backend/configs"
	"github.com/madrefit/gym_backend/models"
	"github.com/madrefit/gym_backend/utils"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const clockLayout = "15:04"

type EquipmentService struct {
	db          *gorm.DB
	cfg         config.EngineConfig
	coordinator *Coordinator
}

func NewEquipmentService(db *gorm.DB, cfg config.EngineConfig, coordinator *Coordinator) *EquipmentService {
	return &EquipmentService{db: db, cfg: cfg, coordinator: coordinator}
}

// Reserve books a half-open [startTime, endTime) interval on a zone.
// Overlap with any confirmed reservation on the same zone and date rejects
// the request; there is no waitlist fallback for equipment.
func (s *EquipmentService) Reserve(userID, equipmentID uuid.UUID, date, startTime, endTime string) (*models.EquipmentReservation, error) {
	if _, err := time.Parse(classDateLayout, date); err != nil {
		return nil, fmt.Errorf("invalid date %q: %w", date, ErrInvalidInterval)
	}
	start, err := time.Parse(clockLayout, startTime)
	if err != nil {
		return nil, fmt.Errorf("invalid start time %q: %w", startTime, ErrInvalidInterval)
	}
	end, err := time.Parse(clockLayout, endTime)
	if err != nil {
		return nil, fmt.Errorf("invalid end time %q: %w", endTime, ErrInvalidInterval)
	}
	if !start.Before(end) {
		return nil, ErrInvalidInterval
	}

	var reservation models.EquipmentReservation
	err = s.coordinator.Exclusive(equipmentKey(equipmentID, date), func() error {
		return s.db.Transaction(func(tx *gorm.DB) error {
			var zone models.EquipmentZone
			if err := tx.First(&zone, "id = ? AND is_active = ? AND reservable = ?", equipmentID, true, true).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return ErrNotFound
				}
				return fmt.Errorf("loading equipment zone: %w", err)
			}

			// HH:MM strings compare correctly as text, so the half-open
			// overlap test runs directly in SQL.
			var overlapping int64
			if err := tx.Model(&models.EquipmentReservation{}).
				Where("equipment_id = ? AND date = ? AND status = ? AND start_time < ? AND end_time > ?",
					equipmentID, date, models.ReservationStatusConfirmed, endTime, startTime).
				Count(&overlapping).Error; err != nil {
				return fmt.Errorf("checking interval overlap: %w", err)
			}
			if overlapping > 0 {
				return ErrSlotUnavailable
			}

			code, err := utils.GenerateUniqueReservationCode(tx)
			if err != nil {
				return err
			}
			reservation = models.EquipmentReservation{
				Code:        code,
				UserID:      userID,
				EquipmentID: equipmentID,
				Date:        date,
				StartTime:   startTime,
				EndTime:     endTime,
				Status:      models.ReservationStatusConfirmed,
			}
			if err := tx.Create(&reservation).Error; err != nil {
				return fmt.Errorf("creating equipment reservation: %w", err)
			}
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	log.Printf("✅ Equipment reserved: user %s, zone %s, %s %s-%s", userID, equipmentID, date, startTime, endTime)
	return &reservation, nil
}

// Cancel releases a confirmed reservation's interval. Soft-delete, same as
// class bookings.
func (s *EquipmentService) Cancel(reservationID uuid.UUID) (*models.EquipmentReservation, error) {
	var reservation models.EquipmentReservation
	if err := s.db.First(&reservation, "id = ?", reservationID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("loading equipment reservation: %w", err)
	}

	err := s.coordinator.Exclusive(equipmentKey(reservation.EquipmentID, reservation.Date), func() error {
		return s.db.Transaction(func(tx *gorm.DB) error {
			if err := tx.First(&reservation, "id = ?", reservationID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return ErrNotFound
				}
				return fmt.Errorf("loading equipment reservation: %w", err)
			}
			if reservation.Status != models.ReservationStatusConfirmed {
				return ErrNotFound
			}
			now := time.Now()
			reservation.Status = models.ReservationStatusCancelled
			reservation.CancellationAt = &now
			if err := tx.Save(&reservation).Error; err != nil {
				return fmt.Errorf("cancelling equipment reservation: %w", err)
			}
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return &reservation, nil
}

// ListZones returns the reservable equipment catalog.
func (s *EquipmentService) ListZones() ([]models.EquipmentZone, error) {
	var zones []models.EquipmentZone
	if err := s.db.Where("is_active = ? AND reservable = ?", true, true).Order("name asc").Find(&zones).Error; err != nil {
		return nil, fmt.Errorf("listing equipment zones: %w", err)
	}
	return zones, nil
}

// ListUserReservations returns the user's confirmed reservations, optionally
// from a date onward.
func (s *EquipmentService) ListUserReservations(userID uuid.UUID, fromDate string) ([]models.EquipmentReservation, error) {
	query := s.db.Preload("Equipment").
		Where("user_id = ? AND status = ?", userID, models.ReservationStatusConfirmed)
	if fromDate != "" {
		query = query.Where("date >= ?", fromDate)
	}

	var reservations []models.EquipmentReservation
	if err := query.Order("date asc, start_time asc").Find(&reservations).Error; err != nil {
		return nil, fmt.Errorf("listing equipment reservations: %w", err)
	}
	return reservations, nil
}
