package augment

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/harborbooks/statement-ingest/internal/ingest/document"
	"github.com/harborbooks/statement-ingest/internal/ingest/ingesterr"
)

const (
	maxAttempts           = 2
	defaultAttemptTimeout = 60 * time.Second
)

// Gateway applies the retry and timeout policy around a Classifier. At most
// two attempts run, strictly one after the other; a concurrent retry could
// double-bill the remote service. Each attempt is bounded by its own
// deadline and cancelled when it expires.
type Gateway struct {
	classifier Classifier
	timeout    time.Duration
	logger     *slog.Logger
}

func NewGateway(classifier Classifier, timeout time.Duration, logger *slog.Logger) *Gateway {
	if timeout <= 0 {
		timeout = defaultAttemptTimeout
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Gateway{classifier: classifier, timeout: timeout, logger: logger}
}

// Run submits the request, retrying once on failure. The size ceiling is
// re-checked here so no oversized payload ever reaches the network, even if
// a caller bypassed document construction.
func (g *Gateway) Run(ctx context.Context, req ClassifyRequest) (*ClassifyResult, error) {
	if size := int64(len(req.FileBytes)); size > document.MaxSizeBytes {
		return nil, ingesterr.FileTooLarge(size, document.MaxSizeBytes)
	}

	var lastErr error
	for n := 1; n <= maxAttempts; n++ {
		// Caller-initiated aborts are honored between attempts, not
		// mid-extraction.
		if err := ctx.Err(); err != nil {
			return nil, ingesterr.RemoteFailure(n, err)
		}

		a := attempt{number: n, started: time.Now(), timeout: g.timeout}
		result, err := g.runAttempt(ctx, a, req)
		if err == nil {
			g.logger.Info("augmentation succeeded",
				slog.String("provider", g.classifier.Name()),
				slog.Int("attempt", a.number),
				slog.Duration("elapsed", time.Since(a.started)),
				slog.Int("transactions", len(result.Transactions)))
			return result, nil
		}

		if errors.Is(err, context.DeadlineExceeded) {
			lastErr = ingesterr.RemoteTimeout(a.number, err)
		} else {
			lastErr = ingesterr.RemoteFailure(a.number, err)
		}
		g.logger.Warn("augmentation attempt failed",
			slog.String("provider", g.classifier.Name()),
			slog.Int("attempt", a.number),
			slog.Duration("elapsed", time.Since(a.started)),
			slog.Any("error", err))
	}
	return nil, lastErr
}

func (g *Gateway) runAttempt(ctx context.Context, a attempt, req ClassifyRequest) (*ClassifyResult, error) {
	attemptCtx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	result, err := g.classifier.Classify(attemptCtx, req)
	if err != nil {
		if attemptCtx.Err() == context.DeadlineExceeded {
			return nil, context.DeadlineExceeded
		}
		return nil, err
	}
	if len(result.Transactions) == 0 {
		return nil, errors.New("provider returned an empty transaction list")
	}
	return result, nil
}
