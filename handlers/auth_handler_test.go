package handlers

import (
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterDuplicateEmailConflicts(t *testing.T) {
	newHandlerTestDB(t)

	app := fiber.New()
	app.Post("/register", RegisterUser)

	payload := fiber.Map{
		"full_name": "Jamie Doe",
		"email":     "jamie@example.com",
		"password":  "secret123",
	}

	status, body := postJSON(t, app, "/register", payload)
	require.Equal(t, fiber.StatusCreated, status, string(body))

	// The unique email constraint surfaces as a conflict, not a server error.
	status, body = postJSON(t, app, "/register", payload)
	assert.Equal(t, fiber.StatusConflict, status, string(body))
}
