// Package augment sends statement documents to a remote classification
// service and converts the response into parsed transactions. The gateway
// wraps any Classifier provider with the retry and timeout policy; remote
// results are trusted beyond a non-empty check.
package augment

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/harborbooks/statement-ingest/internal/ingest/extract"
	"github.com/harborbooks/statement-ingest/internal/ingest/normalize"
)

// ContextTag tells the remote service what kind of ingestion this is, so it
// can bias classification toward expense or revenue interpretations.
type ContextTag string

const (
	TagExpense ContextTag = "expense"
	TagRevenue ContextTag = "revenue"
)

// ClassifyRequest carries one document to a provider. FileBytes is the raw
// upload for binary kinds; Text is set instead for pdf-text documents.
type ClassifyRequest struct {
	Filename        string
	ContentType     string
	FileBytes       []byte
	Text            string
	ContextTag      ContextTag
	UseAugmentation bool
	ProviderHint    string
}

// ClassifyResult is a provider's transaction list, already converted to the
// local representation.
type ClassifyResult struct {
	Transactions []extract.ParsedTransaction
	Provider     string
}

// Classifier is one remote provider. Implementations must honor ctx
// cancellation; the gateway relies on it for the per-attempt timeout.
type Classifier interface {
	Name() string
	Classify(ctx context.Context, req ClassifyRequest) (*ClassifyResult, error)
}

// wireTransaction is the JSON shape providers return transactions in.
type wireTransaction struct {
	Date        string          `json:"date"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	Direction   string          `json:"direction"`
}

// convertWire turns provider transactions into the local type. Entries with
// unusable dates or zero amounts are dropped; an all-dropped list counts as
// empty and therefore as a provider failure upstream.
func convertWire(wire []wireTransaction) ([]extract.ParsedTransaction, error) {
	out := make([]extract.ParsedTransaction, 0, len(wire))
	for _, w := range wire {
		date, ok := normalize.ParseDate(w.Date)
		if !ok || w.Amount.IsZero() {
			continue
		}
		direction := extract.Debit
		if d := strings.ToLower(strings.TrimSpace(w.Direction)); d == "credit" || d == "cr" {
			direction = extract.Credit
		} else if w.Amount.Sign() > 0 && d == "" {
			direction = extract.Credit
		}
		out = append(out, extract.ParsedTransaction{
			Date:        date,
			Description: normalize.CleanDescription(w.Description),
			Amount:      w.Amount.Abs(),
			Direction:   direction,
		})
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("provider returned no usable transactions")
	}
	return out, nil
}

// attempt is one try at the remote service. Values are set once when the
// attempt starts and never mutated; the retry loop builds a fresh one per
// iteration.
type attempt struct {
	number  int
	started time.Time
	timeout time.Duration
}
