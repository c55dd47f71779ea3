// Service contracts and handler wiring.
//
// Handlers are transport-thin: they validate and normalize inputs, delegate
// to application services, and translate results into HTTP responses. All
// chat state lives behind the service interfaces; the handlers themselves
// are stateless.
package handlers

import (
	"context"

	"github.com/bledchat/server/internal/domain"
	"github.com/bledchat/server/internal/store"
)

// MessageService defines the message operations consumed by HTTP handlers.
//
// Implementations must be safe for concurrent use and honor the provided
// context for cancellation.
type MessageService interface {
	// Submit validates and stores an inbound record, idempotent on (room, id).
	Submit(ctx context.Context, m domain.Message) (domain.Message, error)
	// History returns a room's records in stored order, newest last.
	History(ctx context.Context, room string, limit int) []domain.Message
	// Announce appends a server-authored system record to a room.
	Announce(ctx context.Context, room, text string) (domain.Message, error)
}

// AuthService defines account signup and credential verification.
type AuthService interface {
	Signup(ctx context.Context, username, password string) error
	Login(ctx context.Context, username, password string) error
}

// FileService defines upload storage and retrieval.
type FileService interface {
	// StoreUpload saves the bytes and appends the file-reference message.
	StoreUpload(ctx context.Context, name, contentType string, data []byte, sender, room string) (domain.Message, error)
	// Fetch returns a stored file by id.
	Fetch(ctx context.Context, id string) (store.StoredFile, error)
}

// PresenceService defines the online-user set operations.
type PresenceService interface {
	Update(ctx context.Context, username, action string) error
	Snapshot(ctx context.Context) (int, []string)
}

// Handlers bundles the service dependencies for all endpoint methods.
type Handlers struct {
	msgSvc      MessageService
	authSvc     AuthService
	fileSvc     FileService
	presenceSvc PresenceService
}

// New constructs the handler set from its service dependencies.
func New(msgSvc MessageService, authSvc AuthService, fileSvc FileService, presenceSvc PresenceService) *Handlers {
	return &Handlers{
		msgSvc:      msgSvc,
		authSvc:     authSvc,
		fileSvc:     fileSvc,
		presenceSvc: presenceSvc,
	}
}
