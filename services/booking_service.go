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

const classDateLayout = "2006-01-02"

type BookingService struct {
	db          *gorm.DB
	cfg         config.EngineConfig
	coordinator *Coordinator
	waitlist    *WaitlistService
}

func NewBookingService(db *gorm.DB, cfg config.EngineConfig, coordinator *Coordinator, waitlist *WaitlistService) *BookingService {
	return &BookingService{db: db, cfg: cfg, coordinator: coordinator, waitlist: waitlist}
}

// BookResult reports how a booking request was resolved. A full class is a
// Waitlisted success, never an error.
type BookResult struct {
	Outcome       string                `json:"outcome"`
	Booking       *models.BookingRecord `json:"booking,omitempty"`
	WaitlistEntry *models.WaitlistEntry `json:"waitlist_entry,omitempty"`
}

// Book confirms a seat for the user in the slot's occurrence on classDate,
// or queues the user when the class is full. The capacity count, duplicate
// check and insert run as one atomic unit under the coordinator.
func (s *BookingService) Book(userID, scheduleSlotID uuid.UUID, classDate string) (*BookResult, error) {
	if _, err := time.Parse(classDateLayout, classDate); err != nil {
		return nil, fmt.Errorf("invalid class date %q: %w", classDate, ErrNotFound)
	}

	var result BookResult
	err := s.coordinator.Exclusive(slotKey(scheduleSlotID, classDate), func() error {
		return s.db.Transaction(func(tx *gorm.DB) error {
			var slot models.ScheduleSlot
			if err := tx.First(&slot, "id = ? AND is_active = ?", scheduleSlotID, true).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return ErrNotFound
				}
				return fmt.Errorf("loading schedule slot: %w", err)
			}

			// A seat freed by an expired notification must be offered to the
			// next waiter before this caller can see it as free.
			if _, err := s.waitlist.expireStaleLocked(tx, scheduleSlotID, classDate, time.Now()); err != nil {
				return err
			}

			var confirmed int64
			if err := tx.Model(&models.BookingRecord{}).
				Where("schedule_slot_id = ? AND class_date = ? AND status = ?", scheduleSlotID, classDate, models.BookingStatusConfirmed).
				Count(&confirmed).Error; err != nil {
				return fmt.Errorf("counting confirmed bookings: %w", err)
			}

			var existing models.BookingRecord
			err := tx.Where("user_id = ? AND schedule_slot_id = ? AND class_date = ? AND status = ?",
				userID, scheduleSlotID, classDate, models.BookingStatusConfirmed).
				First(&existing).Error
			if err == nil {
				return ErrDuplicateBooking
			}
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("checking for duplicate booking: %w", err)
			}

			if confirmed < int64(slot.MaxCapacity) {
				code, err := utils.GenerateUniqueBookingCode(tx)
				if err != nil {
					return err
				}
				booking := models.BookingRecord{
					Code:           code,
					UserID:         userID,
					ScheduleSlotID: scheduleSlotID,
					ClassDate:      classDate,
					Status:         models.BookingStatusConfirmed,
				}
				if err := tx.Create(&booking).Error; err != nil {
					return fmt.Errorf("creating booking: %w", err)
				}
				// A notified waiter claiming their seat completes the
				// waitlist cycle here.
				if err := s.waitlist.markFulfilledLocked(tx, userID, scheduleSlotID, classDate); err != nil {
					return err
				}
				result = BookResult{Outcome: BookingOutcomeConfirmed, Booking: &booking}
				return nil
			}

			entry, created, err := s.waitlist.addLocked(tx, userID, scheduleSlotID, classDate)
			if err != nil {
				return err
			}
			if !created {
				log.Printf("User %s already waitlisted for slot %s on %s", userID, scheduleSlotID, classDate)
			}
			result = BookResult{Outcome: BookingOutcomeWaitlisted, WaitlistEntry: entry}
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// Cancel soft-deletes a confirmed booking and hands the freed seat to the
// waitlist. The returned promotion, if any, is the entry that was notified.
func (s *BookingService) Cancel(bookingID uuid.UUID) (*models.BookingRecord, *Promotion, error) {
	var booking models.BookingRecord
	if err := s.db.First(&booking, "id = ?", bookingID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrNotFound
		}
		return nil, nil, fmt.Errorf("loading booking: %w", err)
	}

	var promotion *Promotion
	err := s.coordinator.Exclusive(slotKey(booking.ScheduleSlotID, booking.ClassDate), func() error {
		return s.db.Transaction(func(tx *gorm.DB) error {
			// Re-read under the lock; another caller may have cancelled it.
			if err := tx.First(&booking, "id = ?", bookingID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return ErrNotFound
				}
				return fmt.Errorf("loading booking: %w", err)
			}
			if booking.Status != models.BookingStatusConfirmed {
				return ErrNotFound
			}

			now := time.Now()
			booking.Status = models.BookingStatusCancelled
			booking.CancellationAt = &now
			if err := tx.Save(&booking).Error; err != nil {
				return fmt.Errorf("cancelling booking: %w", err)
			}

			p, err := s.waitlist.promoteNextLocked(tx, booking.ScheduleSlotID, booking.ClassDate, now)
			if err != nil {
				return err
			}
			promotion = p
			return nil
		})
	})
	if err != nil {
		return nil, nil, err
	}

	if promotion != nil {
		s.waitlist.emit(*promotion)
	}
	log.Printf("✅ Booking %s cancelled", booking.Code)
	return &booking, promotion, nil
}

// CheckIn stamps attendance on a confirmed booking.
func (s *BookingService) CheckIn(bookingID uuid.UUID) (*models.BookingRecord, error) {
	var booking models.BookingRecord
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&booking, "id = ?", bookingID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return fmt.Errorf("loading booking: %w", err)
		}
		if booking.Status != models.BookingStatusConfirmed {
			return ErrNotFound
		}
		now := time.Now()
		booking.CheckinAt = &now
		if err := tx.Save(&booking).Error; err != nil {
			return fmt.Errorf("saving check-in: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &booking, nil
}

// ListUserBookings returns the user's confirmed bookings, optionally
// restricted to occurrences on or after fromDate.
func (s *BookingService) ListUserBookings(userID uuid.UUID, fromDate string) ([]models.BookingRecord, error) {
	query := s.db.
		Preload("ScheduleSlot").
		Preload("ScheduleSlot.Class").
		Where("user_id = ? AND status = ?", userID, models.BookingStatusConfirmed)
	if fromDate != "" {
		query = query.Where("class_date >= ?", fromDate)
	}

	var bookings []models.BookingRecord
	if err := query.Order("class_date asc").Find(&bookings).Error; err != nil {
		return nil, fmt.Errorf("listing bookings: %w", err)
	}
	return bookings, nil
}

// SlotAvailability is one bookable occurrence of a schedule slot with its
// current occupancy.
type SlotAvailability struct {
	Slot      models.ScheduleSlot `json:"slot"`
	ClassDate string              `json:"class_date"`
	Booked    int64               `json:"booked"`
	SpotsLeft int64               `json:"spots_left"`
}

// ListAvailableSlots expands the recurring schedule over [fromDate, toDate]
// and reports occupancy per occurrence. This is a display read and runs
// outside the coordinator.
func (s *BookingService) ListAvailableSlots(fromDate, toDate string) ([]SlotAvailability, error) {
	from, err := time.Parse(classDateLayout, fromDate)
	if err != nil {
		return nil, fmt.Errorf("invalid from date %q: %w", fromDate, ErrNotFound)
	}
	to, err := time.Parse(classDateLayout, toDate)
	if err != nil {
		return nil, fmt.Errorf("invalid to date %q: %w", toDate, ErrNotFound)
	}

	var slots []models.ScheduleSlot
	if err := s.db.Preload("Class").Where("is_active = ?", true).Find(&slots).Error; err != nil {
		return nil, fmt.Errorf("listing schedule slots: %w", err)
	}

	var availability []SlotAvailability
	for day := from; !day.After(to); day = day.AddDate(0, 0, 1) {
		for _, slot := range slots {
			if int(day.Weekday()) != slot.DayOfWeek {
				continue
			}
			classDate := day.Format(classDateLayout)
			var booked int64
			if err := s.db.Model(&models.BookingRecord{}).
				Where("schedule_slot_id = ? AND class_date = ? AND status = ?", slot.ID, classDate, models.BookingStatusConfirmed).
				Count(&booked).Error; err != nil {
				return nil, fmt.Errorf("counting occupancy: %w", err)
			}
			spotsLeft := int64(slot.MaxCapacity) - booked
			if spotsLeft < 0 {
				spotsLeft = 0
			}
			availability = append(availability, SlotAvailability{
				Slot:      slot,
				ClassDate: classDate,
				Booked:    booked,
				SpotsLeft: spotsLeft,
			})
		}
	}
	return availability, nil
}
