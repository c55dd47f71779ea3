package client

import (
	"sync"

	"github.com/bledchat/server/internal/domain"
)

// DeliveryState tracks the transport outcome of an optimistically inserted
// record. The record itself is never retracted; only this flag moves.
type DeliveryState int

const (
	// DeliveryPending means the async submit has not completed yet.
	DeliveryPending DeliveryState = iota
	// DeliveryConfirmed means the server accepted the record.
	DeliveryConfirmed
	// DeliveryFailed means the submit errored; the local copy stays visible.
	DeliveryFailed
)

// Entry is a cached record plus its local delivery state. Records mirrored
// from server history are always DeliveryConfirmed.
type Entry struct {
	Msg      domain.Message
	Delivery DeliveryState
}

// Cache is the client's per-room mirror of history. Insert deduplicates on
// record id, mirroring the store's idempotent append, and Replace carries a
// stale-response guard keyed on the active room. Safe for concurrent use:
// the async send path and the refresh path touch it from different
// goroutines.
type Cache struct {
	mu     sync.Mutex
	active string
	rooms  map[string][]Entry
	seen   map[string]map[string]int // room -> id -> index
}

// NewCache builds an empty cache with no active room.
func NewCache() *Cache {
	return &Cache{
		rooms: make(map[string][]Entry),
		seen:  make(map[string]map[string]int),
	}
}

// SetActive switches the room whose refreshes are accepted.
func (c *Cache) SetActive(room string) {
	c.mu.Lock()
	c.active = room
	c.mu.Unlock()
}

// Active returns the current room.
func (c *Cache) Active() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.active
}

// Insert adds one record to its room, pending delivery. A duplicate id in
// the same room is a no-op returning false.
func (c *Cache) Insert(m domain.Message, state DeliveryState) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	ids := c.seen[m.Room]
	if ids == nil {
		ids = make(map[string]int)
		c.seen[m.Room] = ids
	}
	if _, dup := ids[m.ID]; dup {
		return false
	}
	ids[m.ID] = len(c.rooms[m.Room])
	c.rooms[m.Room] = append(c.rooms[m.Room], Entry{Msg: m, Delivery: state})
	return true
}

// SetDelivery updates the delivery state of a record by (room, id). Unknown
// ids are ignored: the record may have been replaced by a refresh.
func (c *Cache) SetDelivery(room, id string, state DeliveryState) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if i, ok := c.seen[room][id]; ok {
		c.rooms[room][i].Delivery = state
	}
}

// Replace swaps a room's cache for authoritative server history. The swap is
// refused when the room is no longer active (a slow response must not
// clobber the room the user switched to) and when msgs is nil (a malformed
// or failed fetch leaves last-known-good in place). Returns whether the swap
// happened.
func (c *Cache) Replace(room string, msgs []domain.Message) bool {
	if msgs == nil {
		return false
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if room != c.active {
		return false
	}

	entries := make([]Entry, 0, len(msgs))
	ids := make(map[string]int, len(msgs))
	for _, m := range msgs {
		if _, dup := ids[m.ID]; dup {
			continue
		}
		ids[m.ID] = len(entries)
		entries = append(entries, Entry{Msg: m, Delivery: DeliveryConfirmed})
	}
	c.rooms[room] = entries
	c.seen[room] = ids
	return true
}

// Messages returns a copy of a room's entries in insertion order. Unknown
// rooms yield an empty, non-nil slice.
func (c *Cache) Messages(room string) []Entry {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Entry, len(c.rooms[room]))
	copy(out, c.rooms[room])
	return out
}
