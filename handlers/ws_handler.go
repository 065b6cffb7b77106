package handlers

import (
	"github.com/madrefit/gym_backend/websocket"
	fiberws "github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
)

// SlotEventsUpgrade gates the websocket upgrade; the JWT middleware has
// already run, so the user ID is stashed for the connection handler.
func SlotEventsUpgrade(c *fiber.Ctx) error {
	if !fiberws.IsWebSocketUpgrade(c) {
		return fiber.ErrUpgradeRequired
	}
	token := c.Locals("user").(*jwt.Token)
	claims := token.Claims.(jwt.MapClaims)
	c.Locals("ws_user_id", claims["user_id"].(string))
	return c.Next()
}

// SlotEventsSocket keeps the connection registered with the hub until the
// client goes away. Clients only listen; inbound frames are drained and
// dropped.
var SlotEventsSocket = fiberws.New(func(conn *fiberws.Conn) {
	userID, err := uuid.Parse(conn.Locals("ws_user_id").(string))
	if err != nil {
		conn.Close()
		return
	}

	client := &websocket.Client{UserID: userID, Conn: conn}
	websocket.Register <- client
	defer func() {
		websocket.Unregister <- client
	}()

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
})
