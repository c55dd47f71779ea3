package client

import (
	"context"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/rs/zerolog"

	"github.com/bledchat/server/internal/cipher"
	"github.com/bledchat/server/internal/domain"
)

// transport is the subset of the HTTP client a session needs.
type transport interface {
	Submit(ctx context.Context, m domain.Message) (domain.Message, error)
	History(ctx context.Context, room string, limit int) ([]domain.Message, error)
}

// Session ties a logged-in user to a room: it builds records, encrypts them
// with the user's key material, mirrors them optimistically into the local
// cache, and ships them to the server in the background.
type Session struct {
	Username string
	// KeyMaterial is the user's password, reused as the symmetric key input.
	KeyMaterial string

	Transport transport
	Cache     *Cache
	Log       zerolog.Logger

	// SendTimeout bounds each background submit; DefaultTimeout when zero.
	SendTimeout time.Duration

	wg sync.WaitGroup
}

// NewSession builds a session over the given transport, starting in room.
func NewSession(t transport, username, keyMaterial, room string, log zerolog.Logger) *Session {
	cache := NewCache()
	cache.SetActive(room)
	return &Session{
		Username:    username,
		KeyMaterial: keyMaterial,
		Transport:   t,
		Cache:       cache,
		Log:         log,
	}
}

// Room returns the active room.
func (s *Session) Room() string { return s.Cache.Active() }

// Switch changes the active room. In-flight refreshes of the previous room
// are dropped by the cache's stale-response guard.
func (s *Session) Switch(room string) {
	s.Cache.SetActive(room)
}

// Send builds a text record, encrypts it, inserts it into the local cache,
// and submits it asynchronously. The returned record is the local optimistic
// copy. A submit failure flips the entry's delivery state and is logged; the
// record is never retracted.
func (s *Session) Send(ctx context.Context, text string) domain.Message {
	room := s.Cache.Active()
	m := domain.Message{
		ID:        ulid.Make().String(),
		Sender:    s.Username,
		Room:      room,
		Kind:      domain.KindText,
		CreatedAt: time.Now().UTC(),
	}

	// Encryption fails open: a cipher error sends plaintext rather than
	// dropping the message. The record always keeps Text as the local
	// fallback for rendering.
	blob, err := cipher.Encrypt(text, s.KeyMaterial)
	if err != nil {
		s.Log.Warn().Err(err).Msg("encrypt failed, sending plaintext")
	} else {
		m.CipherText = blob
	}
	m.Text = text

	s.Cache.Insert(m, DeliveryPending)

	wire := m
	if wire.CipherText != "" {
		// Never put plaintext on the wire when the blob exists.
		wire.Text = ""
	}

	timeout := s.SendTimeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		// The submit outlives the caller's context: walking away from the
		// prompt must not cancel an in-flight message.
		sctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), timeout)
		defer cancel()

		if _, err := s.Transport.Submit(sctx, wire); err != nil {
			s.Log.Warn().Err(err).Str("room", room).Str("id", m.ID).Msg("message delivery failed")
			s.Cache.SetDelivery(room, m.ID, DeliveryFailed)
			return
		}
		s.Cache.SetDelivery(room, m.ID, DeliveryConfirmed)
	}()

	return m
}

// Refresh fetches authoritative history for the active room and replaces
// the local cache. Fetch errors and malformed bodies keep last-known-good,
// and a response that arrives after the user switched rooms is dropped.
func (s *Session) Refresh(ctx context.Context) error {
	room := s.Cache.Active()
	msgs, err := s.Transport.History(ctx, room, 0)
	if err != nil {
		s.Log.Warn().Err(err).Str("room", room).Msg("history refresh failed")
		return err
	}
	// A nil history means a malformed body (e.g. a literal null) rather than
	// an empty room; Replace refuses it and the cache keeps last-known-good.
	if !s.Cache.Replace(room, msgs) {
		s.Log.Warn().Str("room", room).Msg("history refresh discarded")
	}
	return nil
}

// Flush blocks until all background submits have finished.
func (s *Session) Flush() {
	s.wg.Wait()
}
