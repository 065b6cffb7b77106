package services

import (
	"fmt"
	"math/rand"
	"sync"
	"testing"
	"time"

	"github.com/madrefit/gym_backend/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReserveRejectsOverlappingIntervals(t *testing.T) {
	e := newTestEngine(t)
	zone := createTestZone(t, e.db, "Sauna")
	u1 := createTestUser(t, e.db, "r1")
	u2 := createTestUser(t, e.db, "r2")

	_, err := e.equipment.Reserve(u1.ID, zone.ID, testDate, "10:00", "11:00")
	require.NoError(t, err)

	cases := []struct {
		start, end string
	}{
		{"10:30", "11:30"}, // overlaps tail
		{"09:30", "10:30"}, // overlaps head
		{"10:15", "10:45"}, // contained
		{"09:00", "12:00"}, // contains
		{"10:00", "11:00"}, // identical
	}
	for _, tc := range cases {
		_, err := e.equipment.Reserve(u2.ID, zone.ID, testDate, tc.start, tc.end)
		assert.ErrorIs(t, err, ErrSlotUnavailable, "interval %s-%s should overlap", tc.start, tc.end)
	}
}

func TestReserveAllowsBackToBackIntervals(t *testing.T) {
	e := newTestEngine(t)
	zone := createTestZone(t, e.db, "Squat Rack")
	u1 := createTestUser(t, e.db, "b1")
	u2 := createTestUser(t, e.db, "b2")
	u3 := createTestUser(t, e.db, "b3")

	_, err := e.equipment.Reserve(u1.ID, zone.ID, testDate, "10:00", "11:00")
	require.NoError(t, err)

	// Half-open intervals: touching boundaries do not overlap.
	_, err = e.equipment.Reserve(u2.ID, zone.ID, testDate, "11:00", "12:00")
	require.NoError(t, err)
	_, err = e.equipment.Reserve(u3.ID, zone.ID, testDate, "09:00", "10:00")
	require.NoError(t, err)
}

func TestReserveValidatesInterval(t *testing.T) {
	e := newTestEngine(t)
	zone := createTestZone(t, e.db, "Pool Lane")
	user := createTestUser(t, e.db, "v1")

	_, err := e.equipment.Reserve(user.ID, zone.ID, testDate, "11:00", "10:00")
	assert.ErrorIs(t, err, ErrInvalidInterval)

	_, err = e.equipment.Reserve(user.ID, zone.ID, testDate, "11:00", "11:00")
	assert.ErrorIs(t, err, ErrInvalidInterval)

	_, err = e.equipment.Reserve(user.ID, zone.ID, testDate, "25:00", "26:00")
	assert.ErrorIs(t, err, ErrInvalidInterval)
}

func TestReserveUnknownZoneFails(t *testing.T) {
	e := newTestEngine(t)
	user := createTestUser(t, e.db, "nozone")

	_, err := e.equipment.Reserve(user.ID, createTestUser(t, e.db, "noise").ID, testDate, "10:00", "11:00")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSameIntervalOnDifferentDatesAndZones(t *testing.T) {
	e := newTestEngine(t)
	sauna := createTestZone(t, e.db, "Sauna")
	rack := createTestZone(t, e.db, "Rack")
	user := createTestUser(t, e.db, "multi")

	_, err := e.equipment.Reserve(user.ID, sauna.ID, testDate, "10:00", "11:00")
	require.NoError(t, err)
	_, err = e.equipment.Reserve(user.ID, sauna.ID, "2026-09-08", "10:00", "11:00")
	require.NoError(t, err)
	_, err = e.equipment.Reserve(user.ID, rack.ID, testDate, "10:00", "11:00")
	require.NoError(t, err)
}

func TestCancelReleasesInterval(t *testing.T) {
	e := newTestEngine(t)
	zone := createTestZone(t, e.db, "Boxing Ring")
	u1 := createTestUser(t, e.db, "c1")
	u2 := createTestUser(t, e.db, "c2")

	reservation, err := e.equipment.Reserve(u1.ID, zone.ID, testDate, "10:00", "11:00")
	require.NoError(t, err)

	cancelled, err := e.equipment.Cancel(reservation.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ReservationStatusCancelled, cancelled.Status)
	require.NotNil(t, cancelled.CancellationAt)

	// The freed interval is immediately reservable; no waitlist here.
	_, err = e.equipment.Reserve(u2.ID, zone.ID, testDate, "10:00", "11:00")
	require.NoError(t, err)

	_, err = e.equipment.Cancel(reservation.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func randClockInterval(rng *rand.Rand) (string, string) {
	start := rng.Intn(23)
	end := start + 1 + rng.Intn(23-start)
	return fmt.Sprintf("%02d:00", start), fmt.Sprintf("%02d:00", end)
}

func TestReserveRandomIntervalPairsKeepOverlapInvariant(t *testing.T) {
	e := newTestEngine(t)
	zone := createTestZone(t, e.db, "Rowing Machine")
	u1 := createTestUser(t, e.db, "p1")
	u2 := createTestUser(t, e.db, "p2")

	rng := rand.New(rand.NewSource(1))
	base := time.Date(2026, 9, 7, 0, 0, 0, 0, time.UTC)

	// Each pair lands on its own date so the outcome depends only on the two
	// intervals; HH:MM strings compare like the clock times they encode.
	for i := 0; i < 40; i++ {
		date := base.AddDate(0, 0, i).Format("2006-01-02")
		s1, e1 := randClockInterval(rng)
		s2, e2 := randClockInterval(rng)

		_, err := e.equipment.Reserve(u1.ID, zone.ID, date, s1, e1)
		require.NoError(t, err)

		_, err = e.equipment.Reserve(u2.ID, zone.ID, date, s2, e2)
		if s2 < e1 && e2 > s1 {
			assert.ErrorIs(t, err, ErrSlotUnavailable, "%s-%s vs %s-%s on %s", s1, e1, s2, e2, date)
		} else {
			assert.NoError(t, err, "%s-%s vs %s-%s on %s", s1, e1, s2, e2, date)
		}
	}
}

func TestConcurrentReservesOfSameIntervalPickOneWinner(t *testing.T) {
	e := newTestEngine(t)
	zone := createTestZone(t, e.db, "Climbing Wall")

	const contenders = 8
	users := make([]models.User, contenders)
	for i := range users {
		users[i] = createTestUser(t, e.db, "contender")
	}

	var wg sync.WaitGroup
	errs := make([]error, contenders)
	for i := range users {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = e.equipment.Reserve(users[i].ID, zone.ID, testDate, "10:00", "11:00")
		}(i)
	}
	wg.Wait()

	winners := 0
	for _, err := range errs {
		if err == nil {
			winners++
		} else {
			assert.ErrorIs(t, err, ErrSlotUnavailable)
		}
	}
	assert.Equal(t, 1, winners)

	var confirmed int64
	e.db.Model(&models.EquipmentReservation{}).
		Where("equipment_id = ? AND date = ? AND status = ?", zone.ID, testDate, models.ReservationStatusConfirmed).
		Count(&confirmed)
	assert.EqualValues(t, 1, confirmed)
}

func TestListUserReservations(t *testing.T) {
	e := newTestEngine(t)
	zone := createTestZone(t, e.db, "Treadmill 3")
	user := createTestUser(t, e.db, "list")

	_, err := e.equipment.Reserve(user.ID, zone.ID, "2026-09-07", "10:00", "11:00")
	require.NoError(t, err)
	_, err = e.equipment.Reserve(user.ID, zone.ID, "2026-09-21", "10:00", "11:00")
	require.NoError(t, err)

	all, err := e.equipment.ListUserReservations(user.ID, "")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	later, err := e.equipment.ListUserReservations(user.ID, "2026-09-10")
	require.NoError(t, err)
	require.Len(t, later, 1)
	assert.Equal(t, "2026-09-21", later[0].Date)
}
