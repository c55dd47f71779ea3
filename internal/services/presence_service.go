package services

import (
	"context"
	"strings"

	"github.com/bledchat/server/internal/store"
)

// PresenceService exposes the online-user set. Presence is independent of the
// message path: it is not message-ordered and carries no history.
type PresenceService struct {
	Online *store.Presence
}

// Update applies a subscribe/unsubscribe action for a username. Unknown
// actions are rejected; blank usernames are ignored as no-ops.
func (s *PresenceService) Update(_ context.Context, username, action string) error {
	username = strings.TrimSpace(username)
	switch action {
	case "subscribe":
		if username != "" {
			s.Online.Subscribe(username)
		}
	case "unsubscribe":
		if username != "" {
			s.Online.Unsubscribe(username)
		}
	default:
		return ErrUnknownAction
	}
	return nil
}

// Snapshot returns the current online usernames and their count.
func (s *PresenceService) Snapshot(_ context.Context) (int, []string) {
	return s.Online.Count(), s.Online.List()
}
