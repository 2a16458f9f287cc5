// Package pipeline wires tabulation, inference, and extraction into one
// document-in, outcome-out call, with optional remote augmentation in
// front. Each Run call is self-contained; no state is shared across
// documents.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/harborbooks/statement-ingest/internal/ingest/augment"
	"github.com/harborbooks/statement-ingest/internal/ingest/document"
	"github.com/harborbooks/statement-ingest/internal/ingest/extract"
	"github.com/harborbooks/statement-ingest/internal/ingest/infer"
	"github.com/harborbooks/statement-ingest/internal/ingest/ingesterr"
	"github.com/harborbooks/statement-ingest/internal/ingest/tabulate"
)

// Source says which chain produced the transactions.
type Source string

const (
	SourceLocal     Source = "local"
	SourceAugmented Source = "augmented"
)

// Options tune one Run call.
type Options struct {
	ContextTag   augment.ContextTag
	ProviderHint string
	// Augment requests the remote pass. It is ignored when the pipeline
	// was built without a gateway.
	Augment bool
}

// Result is the caller-facing outcome of one document.
type Result struct {
	Transactions []extract.ParsedTransaction
	Source       Source
	Provider     string
	RowsSeen     int
	RowsSkipped  int
}

// Pipeline runs documents. Gateway may be nil, which disables augmentation
// entirely; pdf-text documents then have no viable path.
type Pipeline struct {
	gateway *augment.Gateway
	logger  *slog.Logger
	metrics *metrics
}

func New(gateway *augment.Gateway, logger *slog.Logger) *Pipeline {
	if logger == nil {
		logger = slog.Default()
	}
	return &Pipeline{gateway: gateway, logger: logger, metrics: sharedMetrics}
}

// Run processes one document. With augmentation requested the remote pass
// goes first; CSV falls back to the local chain when the remote pass fails,
// spreadsheet and pdf-text report the remote failure as terminal. Without
// augmentation, CSV and spreadsheets run the local chain and pdf-text is
// rejected.
func (p *Pipeline) Run(ctx context.Context, doc *document.Document, opts Options) (*Result, error) {
	p.metrics.documents.WithLabelValues(string(doc.Kind)).Inc()

	result, err := p.run(ctx, doc, opts)
	if err != nil {
		p.metrics.failures.WithLabelValues(string(doc.Kind)).Inc()
		return nil, err
	}
	p.metrics.transactions.WithLabelValues(string(result.Source)).Add(float64(len(result.Transactions)))
	p.logger.Info("document processed",
		slog.String("filename", doc.Filename),
		slog.String("kind", string(doc.Kind)),
		slog.String("source", string(result.Source)),
		slog.Int("transactions", len(result.Transactions)),
		slog.Int("rows_skipped", result.RowsSkipped))
	return result, nil
}

func (p *Pipeline) run(ctx context.Context, doc *document.Document, opts Options) (*Result, error) {
	augmenting := opts.Augment && p.gateway != nil

	switch doc.Kind {
	case document.KindUnknown:
		return nil, ingesterr.UnsupportedFormat(doc.Filename)

	case document.KindPDFText:
		if !augmenting {
			return nil, fmt.Errorf("%w: PDF statements need the remote classification service; enable augmentation", ingesterr.ErrUnsupportedFormat)
		}
		// No local fallback exists for PDF text; remote failure is final.
		return p.runRemote(ctx, doc, opts)

	case document.KindSpreadsheet:
		if augmenting {
			return p.runRemote(ctx, doc, opts)
		}
		return p.runLocal(doc)

	case document.KindCSV:
		if augmenting {
			result, err := p.runRemote(ctx, doc, opts)
			if err == nil {
				return result, nil
			}
			// CSV structure is cheap to parse locally; degrade rather
			// than fail.
			p.logger.Warn("augmentation failed, falling back to local csv parsing",
				slog.String("filename", doc.Filename),
				slog.Any("error", err))
			return p.runLocal(doc)
		}
		return p.runLocal(doc)
	}
	return nil, ingesterr.UnsupportedFormat(doc.Filename)
}

func (p *Pipeline) runRemote(ctx context.Context, doc *document.Document, opts Options) (*Result, error) {
	result, err := p.gateway.Run(ctx, augment.ClassifyRequest{
		Filename:        doc.Filename,
		ContentType:     doc.ContentType,
		FileBytes:       doc.Data,
		Text:            doc.Text,
		ContextTag:      opts.ContextTag,
		UseAugmentation: true,
		ProviderHint:    opts.ProviderHint,
	})
	if err != nil {
		return nil, err
	}
	return &Result{
		Transactions: result.Transactions,
		Source:       SourceAugmented,
		Provider:     result.Provider,
	}, nil
}

func (p *Pipeline) runLocal(doc *document.Document) (*Result, error) {
	matrix, err := tabulate.Tabulate(doc)
	if err != nil {
		return nil, err
	}
	matrix = matrix.Normalize()

	header := infer.LocateHeader(matrix)
	roles, err := infer.Columns(matrix, header)
	if err != nil {
		return nil, err
	}

	outcome, err := extract.Extract(matrix, header, roles)
	if err != nil {
		return nil, err
	}
	return &Result{
		Transactions: outcome.Transactions,
		Source:       SourceLocal,
		RowsSeen:     outcome.RowsSeen,
		RowsSkipped:  outcome.RowsSkipped,
	}, nil
}
