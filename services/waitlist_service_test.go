package services

import (
	"testing"
	"time"

	"github.com/madrefit/gym_backend/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWaitlistAddIsIdempotent(t *testing.T) {
	e := newTestEngine(t)
	slot := createTestSlot(t, e.db, 1)
	user := createTestUser(t, e.db, "waiter")

	first, created, err := e.waitlists.Add(user.ID, slot.ID, testDate)
	require.NoError(t, err)
	assert.True(t, created)

	second, created, err := e.waitlists.Add(user.ID, slot.ID, testDate)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, first.ID, second.ID)
}

func TestWaitlistAddUnknownSlot(t *testing.T) {
	e := newTestEngine(t)
	user := createTestUser(t, e.db, "lost")

	_, _, err := e.waitlists.Add(user.ID, createTestUser(t, e.db, "noise").ID, testDate)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCancellationPromotesWaitlistHeadInFIFOOrder(t *testing.T) {
	e := newTestEngine(t)
	slot := createTestSlot(t, e.db, 1)

	holder := createTestUser(t, e.db, "holder")
	a := createTestUser(t, e.db, "a")
	b := createTestUser(t, e.db, "b")
	c := createTestUser(t, e.db, "c")

	booked, err := e.bookings.Book(holder.ID, slot.ID, testDate)
	require.NoError(t, err)

	for _, u := range []models.User{a, b, c} {
		result, err := e.bookings.Book(u.ID, slot.ID, testDate)
		require.NoError(t, err)
		require.Equal(t, BookingOutcomeWaitlisted, result.Outcome)
	}

	_, promotion, err := e.bookings.Cancel(booked.Booking.ID)
	require.NoError(t, err)
	require.NotNil(t, promotion)
	assert.Equal(t, a.ID, promotion.UserID)

	promotions := e.sink.all()
	require.Len(t, promotions, 1)
	assert.Equal(t, a.ID, promotions[0].UserID)
	assert.WithinDuration(t, time.Now().Add(10*time.Minute), promotions[0].Deadline, time.Minute)

	var entry models.WaitlistEntry
	require.NoError(t, e.db.First(&entry, "user_id = ? AND schedule_slot_id = ?", a.ID, slot.ID).Error)
	assert.Equal(t, models.WaitlistStatusNotified, entry.Status)
	require.NotNil(t, entry.ConfirmationDeadline)

	// The seat is offered, not reserved: a has no confirmed booking yet.
	bookings, err := e.bookings.ListUserBookings(a.ID, "")
	require.NoError(t, err)
	assert.Empty(t, bookings)

	// b stays waiting while a's window is open.
	entry = models.WaitlistEntry{}
	require.NoError(t, e.db.First(&entry, "user_id = ? AND schedule_slot_id = ?", b.ID, slot.ID).Error)
	assert.Equal(t, models.WaitlistStatusWaiting, entry.Status)
}

func TestEqualAddedAtFallsBackToArrivalOrder(t *testing.T) {
	e := newTestEngine(t)
	slot := createTestSlot(t, e.db, 1)

	holder := createTestUser(t, e.db, "holder")
	first := createTestUser(t, e.db, "first")
	second := createTestUser(t, e.db, "second")

	booked, err := e.bookings.Book(holder.ID, slot.ID, testDate)
	require.NoError(t, err)

	_, _, err = e.waitlists.Add(first.ID, slot.ID, testDate)
	require.NoError(t, err)
	_, _, err = e.waitlists.Add(second.ID, slot.ID, testDate)
	require.NoError(t, err)

	// Collapse both arrival timestamps onto one instant; the position column
	// must break the tie in arrival order.
	sameInstant := time.Now().Add(-time.Hour)
	require.NoError(t, e.db.Model(&models.WaitlistEntry{}).
		Where("schedule_slot_id = ? AND class_date = ?", slot.ID, testDate).
		Update("added_at", sameInstant).Error)

	var entries []models.WaitlistEntry
	require.NoError(t, e.db.Where("schedule_slot_id = ?", slot.ID).Order("position asc").Find(&entries).Error)
	require.Len(t, entries, 2)
	assert.Equal(t, first.ID, entries[0].UserID)
	assert.Less(t, entries[0].Position, entries[1].Position)

	_, promotion, err := e.bookings.Cancel(booked.Booking.ID)
	require.NoError(t, err)
	require.NotNil(t, promotion)
	assert.Equal(t, first.ID, promotion.UserID)
}

func TestNotifiedUserClaimsSeatWithBookCall(t *testing.T) {
	e := newTestEngine(t)
	slot := createTestSlot(t, e.db, 1)

	holder := createTestUser(t, e.db, "holder")
	waiter := createTestUser(t, e.db, "waiter")

	booked, err := e.bookings.Book(holder.ID, slot.ID, testDate)
	require.NoError(t, err)
	_, err = e.bookings.Book(waiter.ID, slot.ID, testDate)
	require.NoError(t, err)

	_, promotion, err := e.bookings.Cancel(booked.Booking.ID)
	require.NoError(t, err)
	require.NotNil(t, promotion)

	result, err := e.bookings.Book(waiter.ID, slot.ID, testDate)
	require.NoError(t, err)
	assert.Equal(t, BookingOutcomeConfirmed, result.Outcome)

	var entry models.WaitlistEntry
	require.NoError(t, e.db.First(&entry, "user_id = ? AND schedule_slot_id = ?", waiter.ID, slot.ID).Error)
	assert.Equal(t, models.WaitlistStatusConfirmed, entry.Status)
}

func TestExpiredNotificationPassesTurnToNextWaiter(t *testing.T) {
	e := newTestEngine(t)
	slot := createTestSlot(t, e.db, 1)

	holder := createTestUser(t, e.db, "holder")
	a := createTestUser(t, e.db, "a")
	b := createTestUser(t, e.db, "b")

	booked, err := e.bookings.Book(holder.ID, slot.ID, testDate)
	require.NoError(t, err)
	_, err = e.bookings.Book(a.ID, slot.ID, testDate)
	require.NoError(t, err)
	_, err = e.bookings.Book(b.ID, slot.ID, testDate)
	require.NoError(t, err)

	_, promotion, err := e.bookings.Cancel(booked.Booking.ID)
	require.NoError(t, err)
	require.Equal(t, a.ID, promotion.UserID)

	// Force a's confirmation window into the past.
	stale := time.Now().Add(-time.Minute)
	require.NoError(t, e.db.Model(&models.WaitlistEntry{}).
		Where("user_id = ? AND schedule_slot_id = ?", a.ID, slot.ID).
		Update("confirmation_deadline", stale).Error)

	promotions, err := e.waitlists.ExpireStale()
	require.NoError(t, err)
	require.Len(t, promotions, 1)
	assert.Equal(t, b.ID, promotions[0].UserID)

	var entry models.WaitlistEntry
	require.NoError(t, e.db.First(&entry, "user_id = ? AND schedule_slot_id = ?", a.ID, slot.ID).Error)
	assert.Equal(t, models.WaitlistStatusExpired, entry.Status)

	entry = models.WaitlistEntry{}
	require.NoError(t, e.db.First(&entry, "user_id = ? AND schedule_slot_id = ?", b.ID, slot.ID).Error)
	assert.Equal(t, models.WaitlistStatusNotified, entry.Status)
}

func TestBookExpiresStaleNotificationLazily(t *testing.T) {
	e := newTestEngine(t)
	slot := createTestSlot(t, e.db, 1)

	holder := createTestUser(t, e.db, "holder")
	a := createTestUser(t, e.db, "a")
	newcomer := createTestUser(t, e.db, "newcomer")

	booked, err := e.bookings.Book(holder.ID, slot.ID, testDate)
	require.NoError(t, err)
	_, err = e.bookings.Book(a.ID, slot.ID, testDate)
	require.NoError(t, err)
	_, _, err = e.bookings.Cancel(booked.Booking.ID)
	require.NoError(t, err)

	stale := time.Now().Add(-time.Minute)
	require.NoError(t, e.db.Model(&models.WaitlistEntry{}).
		Where("user_id = ? AND schedule_slot_id = ?", a.ID, slot.ID).
		Update("confirmation_deadline", stale).Error)

	// The newcomer's Book call expires a's turn and takes the free seat.
	result, err := e.bookings.Book(newcomer.ID, slot.ID, testDate)
	require.NoError(t, err)
	assert.Equal(t, BookingOutcomeConfirmed, result.Outcome)

	var entry models.WaitlistEntry
	require.NoError(t, e.db.First(&entry, "user_id = ? AND schedule_slot_id = ?", a.ID, slot.ID).Error)
	assert.Equal(t, models.WaitlistStatusExpired, entry.Status)
}

func TestPromoteNextKeepsSingleNotifiedEntry(t *testing.T) {
	e := newTestEngine(t)
	slot := createTestSlot(t, e.db, 1)

	holder := createTestUser(t, e.db, "holder")
	a := createTestUser(t, e.db, "a")
	b := createTestUser(t, e.db, "b")

	booked, err := e.bookings.Book(holder.ID, slot.ID, testDate)
	require.NoError(t, err)
	_, err = e.bookings.Book(a.ID, slot.ID, testDate)
	require.NoError(t, err)
	_, err = e.bookings.Book(b.ID, slot.ID, testDate)
	require.NoError(t, err)

	_, _, err = e.bookings.Cancel(booked.Booking.ID)
	require.NoError(t, err)

	// a holds the live notification; a second promote is a no-op.
	promotion, err := e.waitlists.PromoteNext(slot.ID, testDate)
	require.NoError(t, err)
	assert.Nil(t, promotion)

	var notified int64
	e.db.Model(&models.WaitlistEntry{}).
		Where("schedule_slot_id = ? AND class_date = ? AND status = ?", slot.ID, testDate, models.WaitlistStatusNotified).
		Count(&notified)
	assert.EqualValues(t, 1, notified)
}
