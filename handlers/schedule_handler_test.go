package handlers

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	config "github.com/madrefit/gym_backend/configs"
	"github.com/madrefit/gym_backend/database"
	"github.com/madrefit/gym_backend/models"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newHandlerTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err, "opening sqlite test database")

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, database.MigrateWith(db), "migrating test database")
	database.DB = db
	return db
}

func postJSON(t *testing.T, app *fiber.App, path string, payload interface{}) (int, []byte) {
	t.Helper()
	body, err := json.Marshal(payload)
	require.NoError(t, err)
	req := httptest.NewRequest("POST", path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, respBody
}

func TestCreateScheduleSlotUsesInjectedDefaultCapacity(t *testing.T) {
	db := newHandlerTestDB(t)
	SetEngineConfig(config.EngineConfig{
		ConfirmationWindow: 10 * time.Minute,
		SweepInterval:      time.Minute,
		DefaultCapacity:    33,
	})

	class := models.GymClass{Name: "Yoga", Type: "mobility", DurationMin: 60, IsActive: true}
	require.NoError(t, db.Create(&class).Error)

	app := fiber.New()
	app.Post("/slots", CreateScheduleSlot)

	status, body := postJSON(t, app, "/slots", fiber.Map{
		"class_id":    class.ID.String(),
		"day_of_week": 2,
		"start_time":  "18:00",
	})
	require.Equal(t, fiber.StatusCreated, status, string(body))

	var slot models.ScheduleSlot
	require.NoError(t, json.Unmarshal(body, &slot))
	assert.Equal(t, 33, slot.MaxCapacity)

	// An explicit capacity wins over the configured default.
	status, body = postJSON(t, app, "/slots", fiber.Map{
		"class_id":     class.ID.String(),
		"day_of_week":  3,
		"start_time":   "19:00",
		"max_capacity": 12,
	})
	require.Equal(t, fiber.StatusCreated, status, string(body))
	require.NoError(t, json.Unmarshal(body, &slot))
	assert.Equal(t, 12, slot.MaxCapacity)
}
