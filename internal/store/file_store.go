package store

import (
	"errors"
	"sync"
	"time"
)

// ErrFileTooLarge is returned when a stored file would exceed the per-file
// byte budget.
var ErrFileTooLarge = errors.New("file exceeds size limit")

// ErrFileNotFound is returned by Get for unknown file ids.
var ErrFileNotFound = errors.New("file not found")

// StoredFile is an uploaded file held in memory until restart.
type StoredFile struct {
	ID          string
	Name        string
	ContentType string
	Data        []byte
	Uploader    string
	Room        string
	CreatedAt   time.Time
}

// FileStore keeps uploaded file bytes in memory. Files are served back by id
// through the download endpoint; the matching file-reference message lives in
// the RoomStore and is evicted independently.
type FileStore struct {
	maxBytes int64

	mu    sync.RWMutex
	files map[string]StoredFile
}

// NewFileStore builds a store accepting files up to maxBytes each.
// maxBytes <= 0 disables the per-file limit.
func NewFileStore(maxBytes int64) *FileStore {
	return &FileStore{maxBytes: maxBytes, files: make(map[string]StoredFile)}
}

// Put stores a file and returns an error when it is over the byte budget.
func (s *FileStore) Put(f StoredFile) error {
	if s.maxBytes > 0 && int64(len(f.Data)) > s.maxBytes {
		return ErrFileTooLarge
	}
	if f.CreatedAt.IsZero() {
		f.CreatedAt = time.Now().UTC()
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.files[f.ID] = f
	return nil
}

// Get fetches a file by id.
func (s *FileStore) Get(id string) (StoredFile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	f, ok := s.files[id]
	if !ok {
		return StoredFile{}, ErrFileNotFound
	}
	return f, nil
}
