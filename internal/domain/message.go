// Package domain defines the message record that moves through the system:
// the immutable unit of chat content stored per room and rendered by clients.
//
// A record is created once (by the sending client, or by the server for
// system notices) and never mutated afterwards. Decryption on the client
// produces a transient display view, not a change to the stored record.
package domain

import (
	"errors"
	"time"
)

// Kind discriminates what a message record carries.
//
// Values:
//   - KindText:   a regular chat line (Text, optionally CipherText).
//   - KindFile:   a reference to an uploaded file (FileRef set, Text empty).
//   - KindSystem: a server-generated banner (Text set, no FileRef, no cipher).
type Kind string

const (
	KindText   Kind = "text"
	KindFile   Kind = "file"
	KindSystem Kind = "system"
)

// FileRef points at an uploaded file served by the file endpoints.
type FileRef struct {
	FileID   string `json:"fileId"`
	FileName string `json:"fileName"`
	FileSize int64  `json:"fileSize"`
}

// Message is a single chat record.
//
// Fields:
//   - ID: unique within a room, monotonically increasing by creation time
//     (clients generate ULIDs). Doubles as the deduplication key: a second
//     append with the same ID in the same room is a no-op.
//   - Sender / Room: immutable after creation. Room is the partition key.
//   - Kind: see Kind.
//   - Text: plaintext body. When CipherText is present it is only the
//     fallback shown if decryption fails.
//   - CipherText: base64(nonce || AES-GCM ciphertext) produced by the sending
//     client; when present it is authoritative for display.
//   - FileRef: set only for KindFile.
//   - CreatedAt: assigned by the store at insertion when the client omits it.
type Message struct {
	ID         string    `json:"id"`
	Sender     string    `json:"sender"`
	Room       string    `json:"room"`
	Kind       Kind      `json:"kind"`
	Text       string    `json:"text,omitempty"`
	CipherText string    `json:"cipherText,omitempty"`
	FileRef    *FileRef  `json:"fileRef,omitempty"`
	CreatedAt  time.Time `json:"createdAt,omitempty"`
}

// Validation errors returned by Message.Validate.
var (
	ErrMissingFields = errors.New("missing required fields")
	ErrBadKind       = errors.New("unknown message kind")
)

// Validate checks the structural invariants of an inbound record:
// sender and room must be set, and exactly one of text / fileRef must be
// populated. System records always carry text and never a file reference.
// An empty kind is normalized to KindText (or KindFile when only a file
// reference is present), matching what older clients send.
func (m *Message) Validate() error {
	if m.ID == "" || m.Sender == "" || m.Room == "" {
		return ErrMissingFields
	}
	hasText := m.Text != "" || m.CipherText != ""
	hasFile := m.FileRef != nil && m.FileRef.FileID != ""

	if m.Kind == "" {
		if hasFile && !hasText {
			m.Kind = KindFile
		} else {
			m.Kind = KindText
		}
	}

	switch m.Kind {
	case KindText:
		if !hasText {
			return ErrMissingFields
		}
		if hasFile {
			return ErrMissingFields
		}
	case KindFile:
		if !hasFile || hasText {
			return ErrMissingFields
		}
	case KindSystem:
		if m.Text == "" || hasFile {
			return ErrMissingFields
		}
	default:
		return ErrBadKind
	}
	return nil
}

// System builds a server-generated banner record for a room.
func System(room, text string, id string, at time.Time) Message {
	return Message{
		ID:        id,
		Sender:    "system",
		Room:      room,
		Kind:      KindSystem,
		Text:      text,
		CreatedAt: at,
	}
}
