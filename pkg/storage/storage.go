// Package storage retains original statement uploads so a parse can be
// re-run or audited after ingestion. Uploads are checksummed on the way in
// and purged once the retention window lapses.
package storage

import (
	"context"
	"io"
	"time"

	"github.com/google/uuid"
)

// Upload is the metadata kept for one retained statement file.
type Upload struct {
	ID          uuid.UUID `json:"id"`
	UserID      uuid.UUID `json:"user_id"`
	Name        string    `json:"name"`
	Size        int64     `json:"size"`
	ContentType string    `json:"content_type"`
	Checksum    string    `json:"checksum"` // sha256, hex
	Path        string    `json:"path"`     // backend-internal
	ReceivedAt  time.Time `json:"received_at"`
}

// Store is the retention backend.
type Store interface {
	// Retain stores the original upload bytes and returns the metadata.
	Retain(ctx context.Context, userID uuid.UUID, filename, contentType string, data []byte) (*Upload, error)

	// Open returns a reader over a retained upload.
	Open(ctx context.Context, userID, uploadID uuid.UUID) (io.ReadCloser, *Upload, error)

	// Delete removes one retained upload and its metadata.
	Delete(ctx context.Context, userID, uploadID uuid.UUID) error

	// List returns all retained uploads for a user.
	List(ctx context.Context, userID uuid.UUID) ([]*Upload, error)

	// PurgeOlderThan deletes every upload received before cutoff and
	// reports how many were removed.
	PurgeOlderThan(ctx context.Context, cutoff time.Time) (int, error)
}

// Config holds retention settings.
type Config struct {
	BasePath      string
	RetentionDays int
}

// New builds the filesystem-backed store.
func New(cfg *Config) (Store, error) {
	return NewLocalStore(cfg.BasePath)
}
