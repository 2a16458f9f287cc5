// Package extract walks a tabulated statement row by row and emits parsed
// transactions. Rows it cannot make sense of are skipped, never fatal; the
// only hard failures are an unusable matrix and an incomplete role map,
// both raised before the walk starts.
package extract

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/harborbooks/statement-ingest/internal/ingest/infer"
	"github.com/harborbooks/statement-ingest/internal/ingest/ingesterr"
	"github.com/harborbooks/statement-ingest/internal/ingest/normalize"
	"github.com/harborbooks/statement-ingest/internal/ingest/tabulate"
)

// Direction says which way money moved. Statements that give no usable
// signal default to Debit; see the package tests for the resolution order.
type Direction string

const (
	Debit  Direction = "debit"
	Credit Direction = "credit"
)

// ParsedTransaction is one accepted statement line. Amount is always
// non-negative; Direction carries the sign.
type ParsedTransaction struct {
	Date        time.Time       `json:"date"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	Direction   Direction       `json:"direction"`
}

// Outcome is the ordered result of one extraction pass, with enough
// bookkeeping for callers to log what happened to the rows that did not
// make it.
type Outcome struct {
	Transactions []ParsedTransaction
	HeaderRow    int
	Roles        infer.RoleMap
	RowsSeen     int
	RowsSkipped  int
}

// Extract converts the data rows below the header into transactions.
// A structurally valid matrix that yields zero transactions is a success
// with an empty list, not an error.
func Extract(matrix tabulate.RowMatrix, header int, roles infer.RoleMap) (*Outcome, error) {
	if len(matrix) < 2 {
		return nil, ingesterr.InsufficientData(len(matrix))
	}
	if !roles.Complete() {
		return nil, ingesterr.ColumnsNotIdentified()
	}

	european, _ := normalize.DetectEuropean(moneySamples(matrix, header, roles))
	signedColumn := amountColumnSigned(matrix, header, roles, european)

	out := &Outcome{HeaderRow: header, Roles: roles}
	prevBalance := decimal.Zero
	balanceKnown := false

	for r := header + 1; r < len(matrix); r++ {
		out.RowsSeen++

		rawDate := matrix.Cell(r, roles.Column(infer.RoleDate))
		description := normalize.CleanDescription(matrix.Cell(r, roles.Column(infer.RoleDescription)))
		if rawDate == "" || description == "" {
			out.RowsSkipped++
			continue
		}
		lowered := strings.ToLower(description)
		if isNoiseDescription(lowered) {
			out.RowsSkipped++
			continue
		}

		date, ok := normalize.ParseDate(rawDate)
		if !ok {
			out.RowsSkipped++
			continue
		}

		amount, direction := resolveMoney(matrix, r, roles, lowered, european, signedColumn, prevBalance, balanceKnown)
		if col := roles.Column(infer.RoleBalance); col >= 0 {
			if bal := normalize.ParseAmount(matrix.Cell(r, col), european); bal.Ok {
				prevBalance, balanceKnown = bal.Value, true
			}
		}
		if amount.IsZero() {
			out.RowsSkipped++
			continue
		}

		out.Transactions = append(out.Transactions, ParsedTransaction{
			Date:        date,
			Description: description,
			Amount:      amount.Abs(),
			Direction:   direction,
		})
	}
	return out, nil
}

// resolveMoney determines the row's amount and direction following the
// priority order: dedicated debit/credit columns, description marker
// tokens, explicit sign on the raw value, sibling-cell tokens, balance
// delta, then the conservative Debit default.
func resolveMoney(matrix tabulate.RowMatrix, row int, roles infer.RoleMap, lowered string, european, signedColumn bool, prevBalance decimal.Decimal, balanceKnown bool) (decimal.Decimal, Direction) {
	if roles.HasSplitAmounts() {
		if a := normalize.ParseAmount(matrix.Cell(row, roles.Column(infer.RoleDebit)), european); a.Ok && !a.Value.IsZero() {
			return a.Value, Debit
		}
		if a := normalize.ParseAmount(matrix.Cell(row, roles.Column(infer.RoleCredit)), european); a.Ok && !a.Value.IsZero() {
			return a.Value, Credit
		}
		return decimal.Zero, Debit
	}

	amount := normalize.ParseAmount(matrix.Cell(row, roles.Column(infer.RoleAmount)), european)
	if !amount.Ok {
		return decimal.Zero, Debit
	}

	if dir, ok := markerDirection(lowered); ok {
		return amount.Value, dir
	}
	// A column that carries explicit signs anywhere uses sign convention
	// everywhere: unsigned values in it are positive, hence credits.
	if amount.Explicit || signedColumn {
		if amount.Value.Sign() < 0 {
			return amount.Value, Debit
		}
		return amount.Value, Credit
	}
	if dir, ok := siblingDirection(matrix, row, roles); ok {
		return amount.Value, dir
	}
	if col := roles.Column(infer.RoleBalance); col >= 0 && balanceKnown {
		if bal := normalize.ParseAmount(matrix.Cell(row, col), european); bal.Ok {
			if bal.Value.GreaterThan(prevBalance) {
				return amount.Value, Credit
			}
			return amount.Value, Debit
		}
	}
	return amount.Value, Debit
}

// markerDirection reads an explicit debit/credit token off the end of the
// description, either bare or parenthesized.
func markerDirection(lowered string) (Direction, bool) {
	switch {
	case strings.HasSuffix(lowered, "(dr)") || strings.HasSuffix(lowered, " dr"):
		return Debit, true
	case strings.HasSuffix(lowered, "(cr)") || strings.HasSuffix(lowered, " cr"):
		return Credit, true
	}
	return Debit, false
}

// siblingDirection scans the row's remaining cells for a standalone
// direction token. Some exports put "DR"/"CR" in their own unlabeled
// column.
func siblingDirection(matrix tabulate.RowMatrix, row int, roles infer.RoleMap) (Direction, bool) {
	claimed := map[int]bool{
		roles.Column(infer.RoleDate):        true,
		roles.Column(infer.RoleDescription): true,
		roles.Column(infer.RoleAmount):      true,
	}
	for col := 0; col < matrix.Width(); col++ {
		if claimed[col] {
			continue
		}
		switch strings.ToLower(strings.TrimSpace(matrix.Cell(row, col))) {
		case "dr", "debit":
			return Debit, true
		case "cr", "credit":
			return Credit, true
		}
	}
	return Debit, false
}

// amountColumnSigned reports whether any value in the unified amount column
// carries an explicit sign or DR/CR suffix.
func amountColumnSigned(matrix tabulate.RowMatrix, header int, roles infer.RoleMap, european bool) bool {
	col := roles.Column(infer.RoleAmount)
	if col < 0 {
		return false
	}
	for r := header + 1; r < len(matrix); r++ {
		if a := normalize.ParseAmount(matrix.Cell(r, col), european); a.Ok && a.Explicit {
			return true
		}
	}
	return false
}

// moneySamples gathers raw values from the money and balance columns so the
// decimal style (1,234.56 vs 1.234,56) is detected once per document.
func moneySamples(matrix tabulate.RowMatrix, header int, roles infer.RoleMap) []string {
	cols := []int{
		roles.Column(infer.RoleAmount),
		roles.Column(infer.RoleDebit),
		roles.Column(infer.RoleCredit),
		roles.Column(infer.RoleBalance),
	}
	var samples []string
	for r := header + 1; r < len(matrix); r++ {
		for _, col := range cols {
			if col < 0 {
				continue
			}
			if raw := matrix.Cell(r, col); raw != "" {
				samples = append(samples, raw)
			}
		}
	}
	return samples
}
