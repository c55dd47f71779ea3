// Package services – FileService
//
// FileService accepts uploads, stores the bytes in memory, and feeds a
// file-reference record through the normal message path so it shares the
// room's ordering, dedup, and retention. Downloads are served back by id;
// a reference may outlive its bytes only in the opposite direction (the
// message can be evicted while the file stays until restart).
package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/bledchat/server/internal/domain"
	"github.com/bledchat/server/internal/store"
)

// FileService owns upload storage and file-reference message creation.
type FileService struct {
	Files    *store.FileStore
	Messages *MessageService
}

// StoreUpload saves the uploaded bytes and appends the matching file-reference
// record to the room. The returned message is what the uploader's client
// mirrors into its local cache.
func (s *FileService) StoreUpload(ctx context.Context, name, contentType string, data []byte, sender, room string) (domain.Message, error) {
	tr := otel.Tracer("services/FileService")
	ctx, span := tr.Start(ctx, "StoreUpload",
		trace.WithAttributes(
			attribute.String("chat.room", room),
			attribute.String("file.name", name),
			attribute.Int("file.size", len(data)),
		),
	)
	defer span.End()

	fileID := uuid.NewString()
	if err := s.Files.Put(store.StoredFile{
		ID:          fileID,
		Name:        name,
		ContentType: contentType,
		Data:        data,
		Uploader:    sender,
		Room:        room,
	}); err != nil {
		return domain.Message{}, err
	}

	return s.Messages.Submit(ctx, domain.Message{
		ID:     ulid.Make().String(),
		Sender: sender,
		Room:   room,
		Kind:   domain.KindFile,
		FileRef: &domain.FileRef{
			FileID:   fileID,
			FileName: name,
			FileSize: int64(len(data)),
		},
		CreatedAt: time.Now().UTC(),
	})
}

// Fetch returns a stored file by id.
func (s *FileService) Fetch(ctx context.Context, id string) (store.StoredFile, error) {
	tr := otel.Tracer("services/FileService")
	_, span := tr.Start(ctx, "Fetch",
		trace.WithAttributes(attribute.String("file.id", id)),
	)
	defer span.End()

	return s.Files.Get(id)
}
