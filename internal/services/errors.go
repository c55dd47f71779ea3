// Package services implements the application logic sitting between the HTTP
// transport and the in-memory stores. This file centralizes service-level
// error values so handlers can map them to HTTP results consistently.
package services

import "errors"

// Message-related errors.
var (
	// ErrInvalidMessage is returned when an inbound record fails structural
	// validation (missing sender/room/body, conflicting kind fields).
	ErrInvalidMessage = errors.New("missing required fields")

	// ErrMessageTooLong is returned when the plaintext body exceeds the
	// configured rune limit.
	ErrMessageTooLong = errors.New("message too long")
)

// Auth-related errors.
var (
	// ErrUsernameTaken is returned by signup for an existing username.
	ErrUsernameTaken = errors.New("username already exists")

	// ErrUsernameTooShort is returned when a signup username is under the
	// minimum length.
	ErrUsernameTooShort = errors.New("username must be at least 3 characters")

	// ErrPasswordTooShort is returned when a signup password is under the
	// minimum length.
	ErrPasswordTooShort = errors.New("password must be at least 4 characters")

	// ErrUserNotFound is returned by login for an unknown username.
	ErrUserNotFound = errors.New("user not found")

	// ErrBadCredentials is returned by login when the password does not match.
	ErrBadCredentials = errors.New("invalid password")

	// ErrUnknownAction is returned when an auth request names an action other
	// than signup or login.
	ErrUnknownAction = errors.New("invalid action")
)
