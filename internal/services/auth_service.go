// Package services – AuthService
//
// AuthService implements the signup/login collaborator the message path
// depends on for key material: the username/password pair a client logs in
// with is what its payload cipher derives the room key from. Accounts live in
// process memory and are lost on restart, matching the rest of the system.
//
// There are no sessions or tokens; every request is self-identifying. That is
// a documented property of the protocol, not an oversight.
package services

import (
	"context"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/bledchat/server/internal/store"
)

const (
	minUsernameLen = 3
	minPasswordLen = 4
)

// AuthService owns account registration and credential checks.
type AuthService struct {
	Users *store.UserStore
}

// Signup registers a new account. Username and password length rules mirror
// what the client enforces, so server-side failures only occur for clients
// bypassing the UI.
func (s *AuthService) Signup(ctx context.Context, username, password string) error {
	tr := otel.Tracer("services/AuthService")
	_, span := tr.Start(ctx, "Signup",
		trace.WithAttributes(attribute.String("user.name", username)),
	)
	defer span.End()

	username = strings.TrimSpace(username)
	if len(username) < minUsernameLen {
		return ErrUsernameTooShort
	}
	if len(password) < minPasswordLen {
		return ErrPasswordTooShort
	}

	created, err := s.Users.Create(username, password)
	if err != nil {
		return err
	}
	if !created {
		return ErrUsernameTaken
	}
	return nil
}

// Login verifies a username/password pair. Unknown users and wrong passwords
// are distinguished in the error, matching the original protocol's responses.
func (s *AuthService) Login(ctx context.Context, username, password string) error {
	tr := otel.Tracer("services/AuthService")
	_, span := tr.Start(ctx, "Login",
		trace.WithAttributes(attribute.String("user.name", username)),
	)
	defer span.End()

	username = strings.TrimSpace(username)
	if !s.Users.Exists(username) {
		return ErrUserNotFound
	}
	if !s.Users.Authenticate(username, password) {
		return ErrBadCredentials
	}
	return nil
}
