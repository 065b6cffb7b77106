package services

import (
	"errors"
	"fmt"
	"log"
	"time"

	config "github.com/madrefit/gym_backend/configs"
	"github.com/madrefit/gym_backend/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Promotion describes a waitlist entry that was just notified of a free
// seat, together with its confirmation deadline.
type Promotion struct {
	EntryID        uuid.UUID `json:"entry_id"`
	UserID         uuid.UUID `json:"user_id"`
	ScheduleSlotID uuid.UUID `json:"schedule_slot_id"`
	ClassDate      string    `json:"class_date"`
	Deadline       time.Time `json:"deadline"`
}

// NotificationSink receives "a seat is free, confirm before the deadline"
// events. Delivery is someone else's problem; the engine only emits.
type NotificationSink interface {
	SpotAvailable(p Promotion)
}

type WaitlistService struct {
	db          *gorm.DB
	cfg         config.EngineConfig
	coordinator *Coordinator
	sink        NotificationSink
}

func NewWaitlistService(db *gorm.DB, cfg config.EngineConfig, coordinator *Coordinator, sink NotificationSink) *WaitlistService {
	return &WaitlistService{db: db, cfg: cfg, coordinator: coordinator, sink: sink}
}

// Add queues the user for a full class occurrence. Duplicate adds are
// idempotent: the existing active entry is returned with created=false.
func (s *WaitlistService) Add(userID, scheduleSlotID uuid.UUID, classDate string) (*models.WaitlistEntry, bool, error) {
	if _, err := time.Parse(classDateLayout, classDate); err != nil {
		return nil, false, fmt.Errorf("invalid class date %q: %w", classDate, ErrNotFound)
	}

	var entry *models.WaitlistEntry
	var created bool
	err := s.coordinator.Exclusive(slotKey(scheduleSlotID, classDate), func() error {
		return s.db.Transaction(func(tx *gorm.DB) error {
			var slot models.ScheduleSlot
			if err := tx.First(&slot, "id = ? AND is_active = ?", scheduleSlotID, true).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return ErrNotFound
				}
				return fmt.Errorf("loading schedule slot: %w", err)
			}

			e, c, err := s.addLocked(tx, userID, scheduleSlotID, classDate)
			if err != nil {
				return err
			}
			entry, created = e, c
			return nil
		})
	})
	if err != nil {
		return nil, false, err
	}
	return entry, created, nil
}

func (s *WaitlistService) addLocked(tx *gorm.DB, userID, scheduleSlotID uuid.UUID, classDate string) (*models.WaitlistEntry, bool, error) {
	var existing models.WaitlistEntry
	err := tx.Where("user_id = ? AND schedule_slot_id = ? AND class_date = ? AND status IN ?",
		userID, scheduleSlotID, classDate,
		[]string{models.WaitlistStatusWaiting, models.WaitlistStatusNotified}).
		First(&existing).Error
	if err == nil {
		return &existing, false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, fmt.Errorf("checking for active waitlist entry: %w", err)
	}

	var maxPosition int
	row := tx.Model(&models.WaitlistEntry{}).
		Where("schedule_slot_id = ? AND class_date = ?", scheduleSlotID, classDate).
		Select("COALESCE(MAX(position), 0)").Row()
	if err := row.Scan(&maxPosition); err != nil {
		return nil, false, fmt.Errorf("computing waitlist position: %w", err)
	}

	entry := models.WaitlistEntry{
		UserID:         userID,
		ScheduleSlotID: scheduleSlotID,
		ClassDate:      classDate,
		Status:         models.WaitlistStatusWaiting,
		AddedAt:        time.Now(),
		Position:       maxPosition + 1,
	}
	if err := tx.Create(&entry).Error; err != nil {
		return nil, false, fmt.Errorf("creating waitlist entry: %w", err)
	}
	log.Printf("User %s added to waitlist for slot %s on %s (position %d)", userID, scheduleSlotID, classDate, entry.Position)
	return &entry, true, nil
}

// PromoteNext offers a freed seat to the head of the queue. The seat itself
// is not reserved: the notified user must still complete a Book call before
// the deadline.
func (s *WaitlistService) PromoteNext(scheduleSlotID uuid.UUID, classDate string) (*Promotion, error) {
	var promotion *Promotion
	err := s.coordinator.Exclusive(slotKey(scheduleSlotID, classDate), func() error {
		return s.db.Transaction(func(tx *gorm.DB) error {
			p, err := s.promoteNextLocked(tx, scheduleSlotID, classDate, time.Now())
			if err != nil {
				return err
			}
			promotion = p
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	if promotion != nil {
		s.emit(*promotion)
	}
	return promotion, nil
}

// promoteNextLocked expires overdue notifications, then notifies the oldest
// waiting entry unless one is already notified and inside its window. Must
// run inside the slot's critical section.
func (s *WaitlistService) promoteNextLocked(tx *gorm.DB, scheduleSlotID uuid.UUID, classDate string, now time.Time) (*Promotion, error) {
	if _, err := s.expireStaleLocked(tx, scheduleSlotID, classDate, now); err != nil {
		return nil, err
	}

	var notified int64
	if err := tx.Model(&models.WaitlistEntry{}).
		Where("schedule_slot_id = ? AND class_date = ? AND status = ?", scheduleSlotID, classDate, models.WaitlistStatusNotified).
		Count(&notified).Error; err != nil {
		return nil, fmt.Errorf("counting notified entries: %w", err)
	}
	if notified > 0 {
		return nil, nil
	}

	var head models.WaitlistEntry
	err := tx.Where("schedule_slot_id = ? AND class_date = ? AND status = ?", scheduleSlotID, classDate, models.WaitlistStatusWaiting).
		Order("added_at asc, position asc").
		First(&head).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("selecting waitlist head: %w", err)
	}

	deadline := now.Add(s.cfg.ConfirmationWindow)
	head.Status = models.WaitlistStatusNotified
	head.NotifiedAt = &now
	head.ConfirmationDeadline = &deadline
	if err := tx.Save(&head).Error; err != nil {
		return nil, fmt.Errorf("notifying waitlist entry: %w", err)
	}

	log.Printf("✅ Waitlist promotion: user %s for slot %s on %s, deadline %s",
		head.UserID, scheduleSlotID, classDate, deadline.Format(time.RFC3339))
	return &Promotion{
		EntryID:        head.ID,
		UserID:         head.UserID,
		ScheduleSlotID: scheduleSlotID,
		ClassDate:      classDate,
		Deadline:       deadline,
	}, nil
}

// expireStaleLocked marks every notified entry whose confirmation deadline
// has passed as expired. Returns the number of entries expired.
func (s *WaitlistService) expireStaleLocked(tx *gorm.DB, scheduleSlotID uuid.UUID, classDate string, now time.Time) (int64, error) {
	res := tx.Model(&models.WaitlistEntry{}).
		Where("schedule_slot_id = ? AND class_date = ? AND status = ? AND confirmation_deadline <= ?",
			scheduleSlotID, classDate, models.WaitlistStatusNotified, now).
		Update("status", models.WaitlistStatusExpired)
	if res.Error != nil {
		return 0, fmt.Errorf("expiring stale waitlist entries: %w", res.Error)
	}
	if res.RowsAffected > 0 {
		log.Printf("Expired %d stale waitlist notification(s) for slot %s on %s", res.RowsAffected, scheduleSlotID, classDate)
	}
	return res.RowsAffected, nil
}

// markFulfilledLocked completes the waitlist cycle when a waiting or
// notified user lands a confirmed booking.
func (s *WaitlistService) markFulfilledLocked(tx *gorm.DB, userID, scheduleSlotID uuid.UUID, classDate string) error {
	res := tx.Model(&models.WaitlistEntry{}).
		Where("user_id = ? AND schedule_slot_id = ? AND class_date = ? AND status IN ?",
			userID, scheduleSlotID, classDate,
			[]string{models.WaitlistStatusWaiting, models.WaitlistStatusNotified}).
		Update("status", models.WaitlistStatusConfirmed)
	if res.Error != nil {
		return fmt.Errorf("confirming waitlist entry: %w", res.Error)
	}
	return nil
}

// ExpireStale sweeps every slot occurrence holding an overdue notification,
// expires it and promotes the next waiter. The cron job in main drives this;
// Book and PromoteNext run the same check lazily for their own slot+date.
func (s *WaitlistService) ExpireStale() ([]Promotion, error) {
	now := time.Now()

	type group struct {
		ScheduleSlotID uuid.UUID
		ClassDate      string
	}
	var groups []group
	err := s.db.Model(&models.WaitlistEntry{}).
		Select("DISTINCT schedule_slot_id, class_date").
		Where("status = ? AND confirmation_deadline <= ?", models.WaitlistStatusNotified, now).
		Scan(&groups).Error
	if err != nil {
		return nil, fmt.Errorf("scanning for stale notifications: %w", err)
	}

	var promotions []Promotion
	for _, g := range groups {
		var promotion *Promotion
		err := s.coordinator.Exclusive(slotKey(g.ScheduleSlotID, g.ClassDate), func() error {
			return s.db.Transaction(func(tx *gorm.DB) error {
				p, err := s.promoteNextLocked(tx, g.ScheduleSlotID, g.ClassDate, now)
				if err != nil {
					return err
				}
				promotion = p
				return nil
			})
		})
		if err != nil {
			log.Printf("🔥 Waitlist sweep failed for slot %s on %s: %v", g.ScheduleSlotID, g.ClassDate, err)
			continue
		}
		if promotion != nil {
			s.emit(*promotion)
			promotions = append(promotions, *promotion)
		}
	}
	return promotions, nil
}

// ListUserEntries returns the user's waitlist entries, newest first.
func (s *WaitlistService) ListUserEntries(userID uuid.UUID) ([]models.WaitlistEntry, error) {
	var entries []models.WaitlistEntry
	if err := s.db.Where("user_id = ?", userID).Order("added_at desc").Find(&entries).Error; err != nil {
		return nil, fmt.Errorf("listing waitlist entries: %w", err)
	}
	return entries, nil
}

func (s *WaitlistService) emit(p Promotion) {
	if s.sink == nil {
		return
	}
	s.sink.SpotAvailable(p)
}
