// Package repository persists accepted statement batches. The ingestion
// engine performs no dedupe; idempotency is this layer's caller's problem,
// keyed on the batch ID.
package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/harborbooks/statement-ingest/internal/ingest/extract"
)

// Batch is one accepted upload's worth of transactions, written atomically
// under a single batch ID.
type Batch struct {
	ID         uuid.UUID
	UserID     uuid.UUID
	Filename   string
	Source     string // local or augmented
	Provider   string
	UploadID   uuid.UUID // retention store reference
	ReceivedAt time.Time

	Transactions []extract.ParsedTransaction
}

// BatchWriter writes one batch in a single call.
type BatchWriter interface {
	WriteBatch(ctx context.Context, batch *Batch) error
}
