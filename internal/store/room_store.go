// Package store holds the process-wide in-memory state: room message
// histories, registered users, uploaded files, and the presence set.
//
// Nothing in this package survives a restart. That is an explicit contract of
// the system (best-effort delivery, no durability), not an accident; the
// server logs the boundary at startup.
package store

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/bledchat/server/internal/domain"
)

// DefaultRoomCap bounds per-room retention when no cap is configured.
const DefaultRoomCap = 200

var (
	msgAppended = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chat_messages_appended_total",
			Help: "Messages accepted into the room store.",
		},
		[]string{"kind"},
	)
	msgDuplicates = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "chat_messages_duplicate_total",
			Help: "Appends dropped because the (room, id) pair already exists.",
		},
	)
	msgEvicted = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "chat_messages_evicted_total",
			Help: "Messages evicted oldest-first by the per-room retention cap.",
		},
	)
	roomsGauge = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "chat_rooms",
			Help: "Rooms currently present in the store.",
		},
	)
)

func init() {
	prometheus.MustRegister(msgAppended, msgDuplicates, msgEvicted, roomsGauge)
}

// room is one partition of the history. Each room carries its own lock so
// appends to different rooms never contend.
type room struct {
	mu   sync.Mutex
	msgs []domain.Message
	seen map[string]int // id → index into msgs, kept in sync on eviction
}

// RoomStore is an append-only, retention-bounded, per-room partitioned
// collection of message records. Safe for concurrent use.
type RoomStore struct {
	cap int

	mu    sync.RWMutex
	rooms map[string]*room
}

// NewRoomStore builds a store with the given per-room retention cap.
// Caps <= 0 fall back to DefaultRoomCap.
func NewRoomStore(cap int) *RoomStore {
	if cap <= 0 {
		cap = DefaultRoomCap
	}
	return &RoomStore{cap: cap, rooms: make(map[string]*room)}
}

// Cap returns the configured per-room retention cap.
func (s *RoomStore) Cap() int { return s.cap }

// getRoom returns the partition for name, creating it lazily.
func (s *RoomStore) getRoom(name string) *room {
	s.mu.RLock()
	r := s.rooms[name]
	s.mu.RUnlock()
	if r != nil {
		return r
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if r = s.rooms[name]; r == nil {
		r = &room{seen: make(map[string]int)}
		s.rooms[name] = r
		roomsGauge.Set(float64(len(s.rooms)))
	}
	return r
}

// Append inserts a record into its room's history and returns the stored
// record. Appending an ID already present in that room is a no-op that
// returns the existing record unchanged. A missing CreatedAt is assigned at
// insertion. When the room exceeds the retention cap, the oldest records are
// evicted until the history is back at the cap; eviction is strictly
// room-local.
func (s *RoomStore) Append(m domain.Message) domain.Message {
	r := s.getRoom(m.Room)

	r.mu.Lock()
	defer r.mu.Unlock()

	if i, dup := r.seen[m.ID]; dup {
		msgDuplicates.Inc()
		return r.msgs[i]
	}

	if m.CreatedAt.IsZero() {
		m.CreatedAt = time.Now().UTC()
	}

	r.msgs = append(r.msgs, m)
	r.seen[m.ID] = len(r.msgs) - 1
	msgAppended.WithLabelValues(string(m.Kind)).Inc()

	if over := len(r.msgs) - s.cap; over > 0 {
		for _, old := range r.msgs[:over] {
			delete(r.seen, old.ID)
		}
		r.msgs = append(r.msgs[:0:0], r.msgs[over:]...)
		for i, kept := range r.msgs {
			r.seen[kept.ID] = i
		}
		msgEvicted.Add(float64(over))
	}

	return m
}

// List returns the room's records in stored order (newest last). A limit > 0
// keeps only the most recent limit records. Unknown rooms yield an empty,
// non-nil slice, never an error.
func (s *RoomStore) List(roomName string, limit int) []domain.Message {
	s.mu.RLock()
	r := s.rooms[roomName]
	s.mu.RUnlock()
	if r == nil {
		return []domain.Message{}
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	msgs := r.msgs
	if limit > 0 && len(msgs) > limit {
		msgs = msgs[len(msgs)-limit:]
	}
	out := make([]domain.Message, len(msgs))
	copy(out, msgs)
	return out
}

// Len reports how many records a room currently holds.
func (s *RoomStore) Len(roomName string) int {
	s.mu.RLock()
	r := s.rooms[roomName]
	s.mu.RUnlock()
	if r == nil {
		return 0
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.msgs)
}
