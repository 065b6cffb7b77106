package websocket

import (
	"log"
	"sync"

	"github.com/gofiber/contrib/websocket"
	"github.com/google/uuid"
)

type Client struct {
	UserID uuid.UUID
	Conn   *websocket.Conn
}

// SlotEvent is pushed to every connected client whenever a class occurrence
// changes: bookings, cancellations, waitlist promotions and expiries.
type SlotEvent struct {
	EventType      string                 `json:"event_type"`
	ScheduleSlotID string                 `json:"schedule_slot_id"`
	ClassDate      string                 `json:"class_date"`
	Data           map[string]interface{} `json:"data,omitempty"`
}

var clients = make(map[uuid.UUID]*websocket.Conn)
var clientsMu sync.RWMutex
var Register = make(chan *Client)
var Unregister = make(chan *Client)
var Broadcast = make(chan *SlotEvent)

func RunHub() {
	for {
		select {
		case client := <-Register:
			log.Printf("Client registered: %s", client.UserID)
			clientsMu.Lock()
			clients[client.UserID] = client.Conn
			clientsMu.Unlock()
		case client := <-Unregister:
			log.Printf("Client unregistered: %s", client.UserID)
			clientsMu.Lock()
			if conn, ok := clients[client.UserID]; ok && conn == client.Conn {
				delete(clients, client.UserID)
			}
			clientsMu.Unlock()
		case event := <-Broadcast:
			clientsMu.RLock()
			var dead []uuid.UUID
			for userID, conn := range clients {
				if err := conn.WriteJSON(event); err != nil {
					log.Printf("Error sending slot event to client %s: %v", userID, err)
					conn.Close()
					dead = append(dead, userID)
				}
			}
			clientsMu.RUnlock()

			if len(dead) > 0 {
				clientsMu.Lock()
				for _, userID := range dead {
					delete(clients, userID)
				}
				clientsMu.Unlock()
			}
		}
	}
}

// BroadcastSlotEvent hands an event to the hub goroutine.
func BroadcastSlotEvent(eventType string, scheduleSlotID uuid.UUID, classDate string, data map[string]interface{}) {
	Broadcast <- &SlotEvent{
		EventType:      eventType,
		ScheduleSlotID: scheduleSlotID.String(),
		ClassDate:      classDate,
		Data:           data,
	}
}
