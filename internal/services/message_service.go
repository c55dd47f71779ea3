// Package services – MessageService
//
// MessageService owns the message path: it validates inbound records,
// enforces the body length guard, appends into the room store (idempotent on
// id), and serves room-filtered history. Server-generated system notices go
// through the same path so they share retention and ordering semantics.
//
// Observability: public methods are OpenTelemetry-instrumented; spans carry
// room and record identifiers.
package services

import (
	"context"
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/oklog/ulid/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/bledchat/server/internal/domain"
	"github.com/bledchat/server/internal/store"
)

// MessageService coordinates message validation, storage, and retrieval.
type MessageService struct {
	Store *store.RoomStore

	// MaxTextRunes caps the plaintext body length; 0 disables the guard.
	// The cap applies to Text only: cipher blobs grow with encoding overhead
	// and are bounded by the transport body limit instead.
	MaxTextRunes int
}

// Submit validates and stores an inbound record, returning the stored form
// (CreatedAt filled in; for duplicate ids, the original record).
func (s *MessageService) Submit(ctx context.Context, m domain.Message) (domain.Message, error) {
	tr := otel.Tracer("services/MessageService")
	_, span := tr.Start(ctx, "Submit",
		trace.WithAttributes(
			attribute.String("chat.room", m.Room),
			attribute.String("chat.message_id", m.ID),
		),
	)
	defer span.End()

	m.Sender = strings.TrimSpace(m.Sender)
	m.Room = strings.TrimSpace(m.Room)

	if err := m.Validate(); err != nil {
		if errors.Is(err, domain.ErrMissingFields) || errors.Is(err, domain.ErrBadKind) {
			return domain.Message{}, ErrInvalidMessage
		}
		return domain.Message{}, err
	}
	if s.MaxTextRunes > 0 && utf8.RuneCountInString(m.Text) > s.MaxTextRunes {
		return domain.Message{}, ErrMessageTooLong
	}

	return s.Store.Append(m), nil
}

// History returns a room's records in stored order, newest last. A limit <= 0
// returns the whole retained history. Unknown rooms yield an empty slice.
func (s *MessageService) History(ctx context.Context, room string, limit int) []domain.Message {
	tr := otel.Tracer("services/MessageService")
	_, span := tr.Start(ctx, "History",
		trace.WithAttributes(
			attribute.String("chat.room", room),
			attribute.Int("limit", limit),
		),
	)
	defer span.End()

	return s.Store.List(room, limit)
}

// Announce stores a server-generated system banner in a room. The record id
// is minted here since no client is involved.
func (s *MessageService) Announce(ctx context.Context, room, text string) (domain.Message, error) {
	m := domain.System(room, text, ulid.Make().String(), time.Now().UTC())
	return s.Submit(ctx, m)
}
