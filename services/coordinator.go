package services

import (
	"sync"

	"github.com/google/uuid"
)

// Coordinator serializes every mutating operation on the reservation store.
// Locks are sharded by resource key so unrelated slots never contend; a
// booking and a cancellation for the same slot+date always share a shard and
// therefore see each other's writes.
type Coordinator struct {
	mu     sync.Mutex
	shards map[string]*sync.Mutex
}

func NewCoordinator() *Coordinator {
	return &Coordinator{shards: make(map[string]*sync.Mutex)}
}

func slotKey(scheduleSlotID uuid.UUID, classDate string) string {
	return "slot:" + scheduleSlotID.String() + ":" + classDate
}

func equipmentKey(equipmentID uuid.UUID, date string) string {
	return "equipment:" + equipmentID.String() + ":" + date
}

func (c *Coordinator) shard(key string) *sync.Mutex {
	c.mu.Lock()
	defer c.mu.Unlock()
	m, ok := c.shards[key]
	if !ok {
		m = &sync.Mutex{}
		c.shards[key] = m
	}
	return m
}

// Exclusive runs fn while holding the shard lock for key. All capacity and
// overlap checks run inside fn, so check-then-insert sequences are atomic
// with respect to other callers touching the same resource.
func (c *Coordinator) Exclusive(key string, fn func() error) error {
	m := c.shard(key)
	m.Lock()
	defer m.Unlock()
	return fn()
}
