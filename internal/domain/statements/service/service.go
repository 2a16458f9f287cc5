// Package service owns the statement ingestion use case: retain the
// original upload, run the pipeline, and hand the accepted batch to the
// persistence layer under a fresh batch ID.
package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/harborbooks/statement-ingest/internal/domain/statements/repository"
	"github.com/harborbooks/statement-ingest/internal/ingest/augment"
	"github.com/harborbooks/statement-ingest/internal/ingest/document"
	"github.com/harborbooks/statement-ingest/internal/ingest/extract"
	"github.com/harborbooks/statement-ingest/internal/ingest/pipeline"
	"github.com/harborbooks/statement-ingest/pkg/storage"
)

// IngestInput is one upload as received from the transport layer.
type IngestInput struct {
	UserID       uuid.UUID
	Filename     string
	ContentType  string
	Data         []byte
	ContextTag   augment.ContextTag
	ProviderHint string
	Augment      bool
}

// IngestResult is what the caller gets back for an accepted upload.
type IngestResult struct {
	BatchID      uuid.UUID                   `json:"batch_id"`
	Source       pipeline.Source             `json:"source"`
	Provider     string                      `json:"provider,omitempty"`
	RowsSkipped  int                         `json:"rows_skipped"`
	Transactions []extract.ParsedTransaction `json:"transactions"`
}

// Service runs ingestion. Writer may be nil when persistence is disabled
// (the CLI does this); everything else is required.
type Service struct {
	pipeline *pipeline.Pipeline
	store    storage.Store
	writer   repository.BatchWriter
	logger   *slog.Logger
}

func New(p *pipeline.Pipeline, store storage.Store, writer repository.BatchWriter, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{pipeline: p, store: store, writer: writer, logger: logger}
}

// Ingest validates and processes one upload end to end.
func (s *Service) Ingest(ctx context.Context, in IngestInput) (*IngestResult, error) {
	doc, err := document.New(in.Filename, in.ContentType, in.Data)
	if err != nil {
		return nil, err
	}

	// Retention is an audit aid, not a gate; a full disk must not block
	// ingestion.
	var uploadID uuid.UUID
	if s.store != nil {
		if upload, err := s.store.Retain(ctx, in.UserID, in.Filename, in.ContentType, in.Data); err != nil {
			s.logger.Warn("failed to retain upload",
				slog.String("filename", in.Filename),
				slog.Any("error", err))
		} else {
			uploadID = upload.ID
		}
	}

	result, err := s.pipeline.Run(ctx, doc, pipeline.Options{
		ContextTag:   in.ContextTag,
		ProviderHint: in.ProviderHint,
		Augment:      in.Augment,
	})
	if err != nil {
		return nil, err
	}

	batch := &repository.Batch{
		ID:           uuid.New(),
		UserID:       in.UserID,
		Filename:     in.Filename,
		Source:       string(result.Source),
		Provider:     result.Provider,
		UploadID:     uploadID,
		ReceivedAt:   time.Now().UTC(),
		Transactions: result.Transactions,
	}
	if s.writer != nil && len(batch.Transactions) > 0 {
		if err := s.writer.WriteBatch(ctx, batch); err != nil {
			return nil, err
		}
	}

	return &IngestResult{
		BatchID:      batch.ID,
		Source:       result.Source,
		Provider:     result.Provider,
		RowsSkipped:  result.RowsSkipped,
		Transactions: result.Transactions,
	}, nil
}
