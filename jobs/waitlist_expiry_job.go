package jobs

import (
	"log"

	"github.com/madrefit/gym_backend/services"
	"github.com/madrefit/gym_backend/websocket"
)

// SweepWaitlistExpiries expires overdue waitlist notifications and promotes
// the next waiters. Book and PromoteNext run the same check lazily, but the
// sweep keeps stale entries from lingering on slots nobody touches.
func SweepWaitlistExpiries() {
	log.Println("Running job: SweepWaitlistExpiries...")

	promotions, err := services.Waitlists.ExpireStale()
	if err != nil {
		log.Printf("Error sweeping waitlist expiries: %v", err)
		return
	}

	if len(promotions) == 0 {
		return
	}

	for _, p := range promotions {
		websocket.BroadcastSlotEvent("waitlist_promoted", p.ScheduleSlotID, p.ClassDate, map[string]interface{}{
			"user_id":  p.UserID,
			"deadline": p.Deadline,
		})
	}
	log.Printf("Promoted %d waitlist entries after expiry sweep.", len(promotions))
}
