package store

import (
	"sync"
	"time"

	"golang.org/x/crypto/bcrypt"
)

// User is a registered account. Only the bcrypt hash of the password is kept
// server-side; the raw password never leaves the request that carried it.
type User struct {
	Username     string
	PasswordHash []byte
	CreatedAt    time.Time
}

// UserStore is an in-memory account registry. Like everything in this
// package it resets on restart.
type UserStore struct {
	mu    sync.RWMutex
	users map[string]User
}

// NewUserStore returns an empty registry.
func NewUserStore() *UserStore {
	return &UserStore{users: make(map[string]User)}
}

// Create registers a username with a freshly hashed password. It reports
// false when the username is already taken.
func (s *UserStore) Create(username, password string) (bool, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return false, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.users[username]; exists {
		return false, nil
	}
	s.users[username] = User{
		Username:     username,
		PasswordHash: hash,
		CreatedAt:    time.Now().UTC(),
	}
	return true, nil
}

// Authenticate verifies a username/password pair.
func (s *UserStore) Authenticate(username, password string) bool {
	s.mu.RLock()
	u, ok := s.users[username]
	s.mu.RUnlock()
	if !ok {
		return false
	}
	return bcrypt.CompareHashAndPassword(u.PasswordHash, []byte(password)) == nil
}

// Exists reports whether a username is registered.
func (s *UserStore) Exists(username string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.users[username]
	return ok
}

// Count returns the number of registered accounts.
func (s *UserStore) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.users)
}
