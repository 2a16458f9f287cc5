// Package export renders parsed transactions as CSV for the CLI and for
// clients that ask for text/csv instead of JSON.
package export

import (
	"fmt"
	"io"

	"github.com/gocarina/gocsv"

	"github.com/harborbooks/statement-ingest/internal/ingest/extract"
)

type csvRow struct {
	Date        string `csv:"date"`
	Description string `csv:"description"`
	Amount      string `csv:"amount"`
	Direction   string `csv:"direction"`
}

// WriteCSV writes the transactions with ISO dates and plain decimal
// amounts. The header row is always emitted, even for an empty list.
func WriteCSV(w io.Writer, transactions []extract.ParsedTransaction) error {
	rows := make([]*csvRow, 0, len(transactions))
	for _, tx := range transactions {
		rows = append(rows, &csvRow{
			Date:        tx.Date.Format("2006-01-02"),
			Description: tx.Description,
			Amount:      tx.Amount.String(),
			Direction:   string(tx.Direction),
		})
	}
	if len(rows) == 0 {
		_, err := io.WriteString(w, "date,description,amount,direction\n")
		return err
	}
	if err := gocsv.Marshal(rows, w); err != nil {
		return fmt.Errorf("encoding transactions: %w", err)
	}
	return nil
}
