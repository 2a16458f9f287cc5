// Package money renders extracted amounts for human-facing output.
// Amounts flow through the pipeline as raw decimals with no currency
// attached; display code picks the currency.
package money

import (
	money "github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"

	"github.com/harborbooks/statement-ingest/internal/ingest/extract"
)

// DefaultCurrency is used when the caller does not name one.
const DefaultCurrency = "EUR"

// Format renders a decimal amount in the given ISO-4217 currency,
// respecting the currency's minor-unit count (JPY has none, EUR two).
// Unknown codes fall back to DefaultCurrency.
func Format(amount decimal.Decimal, currencyCode string) string {
	currency := money.GetCurrency(currencyCode)
	if currency == nil {
		currency = money.GetCurrency(DefaultCurrency)
	}
	minor := amount.Shift(int32(currency.Fraction)).Round(0).IntPart()
	return money.New(minor, currency.Code).Display()
}

// Summary aggregates a batch of extracted transactions by direction.
type Summary struct {
	Count   int
	Debits  decimal.Decimal
	Credits decimal.Decimal
}

// Summarize totals the transactions. Amounts are stored unsigned, so
// the direction field decides which side each one lands on.
func Summarize(transactions []extract.ParsedTransaction) Summary {
	s := Summary{Count: len(transactions)}
	for _, tx := range transactions {
		if tx.Direction == extract.Credit {
			s.Credits = s.Credits.Add(tx.Amount)
		} else {
			s.Debits = s.Debits.Add(tx.Amount)
		}
	}
	return s
}

// Net returns credits minus debits.
func (s Summary) Net() decimal.Decimal {
	return s.Credits.Sub(s.Debits)
}
