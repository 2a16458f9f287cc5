package extract

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harborbooks/statement-ingest/internal/ingest/infer"
	"github.com/harborbooks/statement-ingest/internal/ingest/ingesterr"
	"github.com/harborbooks/statement-ingest/internal/ingest/tabulate"
)

func mustRoles(t *testing.T, matrix tabulate.RowMatrix, header int) infer.RoleMap {
	t.Helper()
	roles, err := infer.Columns(matrix, header)
	require.NoError(t, err)
	return roles
}

func TestExtractDebitCreditColumns(t *testing.T) {
	matrix := tabulate.RowMatrix{
		{"Date", "Description", "Debit", "Credit"},
		{"2023-01-01", "Coffee", "4.50", ""},
		{"2023-01-02", "Salary", "", "2500.00"},
	}
	out, err := Extract(matrix, 0, mustRoles(t, matrix, 0))
	require.NoError(t, err)
	require.Len(t, out.Transactions, 2)

	coffee, salary := out.Transactions[0], out.Transactions[1]
	assert.Equal(t, time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC), coffee.Date)
	assert.Equal(t, Debit, coffee.Direction)
	assert.Equal(t, "4.5", coffee.Amount.String())

	assert.Equal(t, time.Date(2023, 1, 2, 0, 0, 0, 0, time.UTC), salary.Date)
	assert.Equal(t, Credit, salary.Direction)
	assert.Equal(t, "2500", salary.Amount.String())
}

func TestExtractSignedAmountColumn(t *testing.T) {
	matrix := tabulate.RowMatrix{
		{"Date", "Description", "Amount"},
		{"2023-01-01", "Groceries", "-100.00"},
		{"2023-01-02", "Refund", "50.25"},
	}
	out, err := Extract(matrix, 0, mustRoles(t, matrix, 0))
	require.NoError(t, err)
	require.Len(t, out.Transactions, 2)

	assert.Equal(t, Debit, out.Transactions[0].Direction)
	assert.Equal(t, "100", out.Transactions[0].Amount.String())
	assert.Equal(t, Credit, out.Transactions[1].Direction)
	assert.Equal(t, "50.25", out.Transactions[1].Amount.String())
}

func TestExtractRowSkipping(t *testing.T) {
	t.Run("balance noise excluded regardless of amount", func(t *testing.T) {
		matrix := tabulate.RowMatrix{
			{"Date", "Description", "Amount"},
			{"2023-01-01", "Opening Balance B/FWD", "1000.00"},
			{"2023-01-02", "Coffee", "-4.50"},
			{"2023-01-03", "Balance carried forward", "995.50"},
		}
		out, err := Extract(matrix, 0, mustRoles(t, matrix, 0))
		require.NoError(t, err)
		require.Len(t, out.Transactions, 1)
		assert.Equal(t, "Coffee", out.Transactions[0].Description)
		assert.Equal(t, 2, out.RowsSkipped)
	})

	t.Run("zero amount and bad date skipped silently", func(t *testing.T) {
		matrix := tabulate.RowMatrix{
			{"Date", "Description", "Amount"},
			{"2023-01-01", "Fee waived", "0.00"},
			{"not a date", "Coffee", "-4.50"},
			{"2023-01-03", "", "-9.00"},
			{"2023-01-04", "Rent", "-900.00"},
		}
		out, err := Extract(matrix, 0, mustRoles(t, matrix, 0))
		require.NoError(t, err)
		require.Len(t, out.Transactions, 1)
		assert.Equal(t, "Rent", out.Transactions[0].Description)
		assert.Equal(t, 4, out.RowsSeen)
		assert.Equal(t, 3, out.RowsSkipped)
	})

	t.Run("zero transactions is success not error", func(t *testing.T) {
		matrix := tabulate.RowMatrix{
			{"Date", "Description", "Amount"},
			{"2023-01-01", "Opening balance", "1000.00"},
		}
		out, err := Extract(matrix, 0, mustRoles(t, matrix, 0))
		require.NoError(t, err)
		assert.Empty(t, out.Transactions)
	})
}

func TestExtractDirectionMarkers(t *testing.T) {
	t.Run("description marker beats raw sign", func(t *testing.T) {
		matrix := tabulate.RowMatrix{
			{"Date", "Description", "Amount"},
			{"2023-01-01", "Transfer received CR", "120.00"},
			{"2023-01-02", "Card payment (DR)", "45.00"},
		}
		out, err := Extract(matrix, 0, mustRoles(t, matrix, 0))
		require.NoError(t, err)
		require.Len(t, out.Transactions, 2)
		assert.Equal(t, Credit, out.Transactions[0].Direction)
		assert.Equal(t, Debit, out.Transactions[1].Direction)
	})

	t.Run("DR suffix on amount negates", func(t *testing.T) {
		matrix := tabulate.RowMatrix{
			{"Date", "Description", "Amount"},
			{"2023-01-01", "Cash withdrawal", "200.00 DR"},
			{"2023-01-02", "Interest", "1.75 CR"},
		}
		out, err := Extract(matrix, 0, mustRoles(t, matrix, 0))
		require.NoError(t, err)
		require.Len(t, out.Transactions, 2)
		assert.Equal(t, Debit, out.Transactions[0].Direction)
		assert.Equal(t, "200", out.Transactions[0].Amount.String())
		assert.Equal(t, Credit, out.Transactions[1].Direction)
	})

	t.Run("sibling cell token", func(t *testing.T) {
		matrix := tabulate.RowMatrix{
			{"Date", "Description", "Amount", "Transaction Type"},
			{"2023-01-01", "Store purchase", "42.00", "DR"},
			{"2023-01-02", "Deposit received", "100.00", "CR"},
		}
		roles := infer.RoleMap{
			infer.RoleDate:        0,
			infer.RoleDescription: 1,
			infer.RoleAmount:      2,
		}
		out, err := Extract(matrix, 0, roles)
		require.NoError(t, err)
		require.Len(t, out.Transactions, 2)
		assert.Equal(t, Debit, out.Transactions[0].Direction)
		assert.Equal(t, Credit, out.Transactions[1].Direction)
	})

	t.Run("balance delta infers direction", func(t *testing.T) {
		matrix := tabulate.RowMatrix{
			{"Date", "Description", "Amount", "Balance"},
			{"2023-01-01", "Coffee", "4.50", "995.50"},
			{"2023-01-02", "Salary", "2500.00", "3495.50"},
			{"2023-01-03", "Rent", "900.00", "2595.50"},
		}
		out, err := Extract(matrix, 0, mustRoles(t, matrix, 0))
		require.NoError(t, err)
		require.Len(t, out.Transactions, 3)
		// First row has no previous balance; conservative default.
		assert.Equal(t, Debit, out.Transactions[0].Direction)
		assert.Equal(t, Credit, out.Transactions[1].Direction)
		assert.Equal(t, Debit, out.Transactions[2].Direction)
	})

	t.Run("no signal defaults to debit", func(t *testing.T) {
		matrix := tabulate.RowMatrix{
			{"Date", "Description", "Amount"},
			{"2023-01-01", "Mystery entry", "77.00"},
			{"2023-01-02", "Another entry", "12.00"},
		}
		out, err := Extract(matrix, 0, mustRoles(t, matrix, 0))
		require.NoError(t, err)
		for _, tx := range out.Transactions {
			assert.Equal(t, Debit, tx.Direction)
		}
	})
}

func TestExtractEuropeanAmounts(t *testing.T) {
	matrix := tabulate.RowMatrix{
		{"Datum", "Omschrijving", "Bedrag"},
		{"15-01-2024", "Huur januari", "-1.250,00"},
		{"16-01-2024", "Salaris", "3.000,50"},
	}
	out, err := Extract(matrix, 0, mustRoles(t, matrix, 0))
	require.NoError(t, err)
	require.Len(t, out.Transactions, 2)
	assert.Equal(t, "1250", out.Transactions[0].Amount.String())
	assert.Equal(t, Debit, out.Transactions[0].Direction)
	assert.Equal(t, "3000.5", out.Transactions[1].Amount.String())
	assert.Equal(t, Credit, out.Transactions[1].Direction)
}

func TestExtractCSVRowCountProperty(t *testing.T) {
	// Emitted count = data rows - noise rows - zero-amount rows.
	matrix := tabulate.RowMatrix{
		{"Date", "Description", "Amount"},
		{"2023-01-01", "Opening balance", "500.00"},
		{"2023-01-02", "Coffee", "-4.50"},
		{"2023-01-03", "Waived fee", "0.00"},
		{"2023-01-04", "Groceries", "-60.00"},
		{"2023-01-05", "Refund", "12.00"},
	}
	out, err := Extract(matrix, 0, mustRoles(t, matrix, 0))
	require.NoError(t, err)
	assert.Len(t, out.Transactions, 5-1-1)
}

func TestExtractHardFailures(t *testing.T) {
	t.Run("single row matrix", func(t *testing.T) {
		matrix := tabulate.RowMatrix{{"Date", "Description", "Amount"}}
		_, err := Extract(matrix, 0, infer.RoleMap{
			infer.RoleDate: 0, infer.RoleDescription: 1, infer.RoleAmount: 2,
		})
		assert.ErrorIs(t, err, ingesterr.ErrInsufficientData)
	})

	t.Run("incomplete role map", func(t *testing.T) {
		matrix := tabulate.RowMatrix{
			{"Date", "Description", "Amount"},
			{"2023-01-01", "Coffee", "-4.50"},
		}
		_, err := Extract(matrix, 0, infer.RoleMap{infer.RoleDate: 0})
		assert.ErrorIs(t, err, ingesterr.ErrColumnsNotIdentified)
	})
}

func TestNoiseMatcher(t *testing.T) {
	cases := map[string]bool{
		"opening balance b/fwd":   true,
		"balance carried forward": true,
		"bal fwd":                 true,
		"coffee shop":             false,
		"balanced meal delivery":  false,
	}
	for input, want := range cases {
		assert.Equal(t, want, isNoiseDescription(input), input)
	}
}
