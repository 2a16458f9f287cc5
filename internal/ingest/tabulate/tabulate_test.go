package tabulate

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harborbooks/statement-ingest/internal/ingest/ingesterr"
)

func TestFromCSV(t *testing.T) {
	t.Run("comma delimited", func(t *testing.T) {
		matrix, err := FromCSV([]byte("Date,Description,Amount\n2024-01-15,Coffee,-4.50\n"))
		require.NoError(t, err)
		require.Len(t, matrix, 2)
		assert.Equal(t, []string{"Date", "Description", "Amount"}, []string(matrix[0]))
		assert.Equal(t, "-4.50", matrix.Cell(1, 2))
	})

	t.Run("semicolon wins over commas in values", func(t *testing.T) {
		matrix, err := FromCSV([]byte("Datum;Omschrijving;Bedrag\n15-01-2024;Albert, Heijn;12,50\n"))
		require.NoError(t, err)
		assert.Equal(t, []string{"15-01-2024", "Albert, Heijn", "12,50"}, []string(matrix[1]))
	})

	t.Run("quoted field keeps delimiter", func(t *testing.T) {
		matrix, err := FromCSV([]byte(`Date,Description,Amount` + "\n" + `2024-01-15,"Smith, John ""loan""",100.00` + "\n"))
		require.NoError(t, err)
		assert.Equal(t, `Smith, John "loan"`, matrix.Cell(1, 1))
	})

	t.Run("blank lines and CRLF dropped", func(t *testing.T) {
		matrix, err := FromCSV([]byte("a,b\r\n\r\n1,2\r\n  \r\n3,4\r\n"))
		require.NoError(t, err)
		assert.Len(t, matrix, 3)
	})

	t.Run("tab delimited", func(t *testing.T) {
		matrix, err := FromCSV([]byte("Date\tAmount\n2024-01-15\t10.00\n"))
		require.NoError(t, err)
		assert.Equal(t, "10.00", matrix.Cell(1, 1))
	})

	t.Run("latin-1 bytes survive", func(t *testing.T) {
		matrix, err := FromCSV([]byte{'a', ',', 'c', 'a', 'f', 0xE9, '\n', '1', ',', '2', '\n'})
		require.NoError(t, err)
		assert.Equal(t, "café", matrix.Cell(0, 1))
	})

	t.Run("empty input", func(t *testing.T) {
		_, err := FromCSV([]byte("\n\n  \n"))
		assert.ErrorIs(t, err, ingesterr.ErrEmptyDocument)
	})
}

func TestNormalize(t *testing.T) {
	matrix := RowMatrix{
		{"Date", "Description", "Amount"},
		{"2024-01-15", "Coffee"},
		{"2024-01-16", "Rent", "-900.00", "extra"},
		{"2024-01-17", "Salary", "3000.00"},
	}
	out := matrix.Normalize()

	assert.Equal(t, 3, out.Width())
	for _, row := range out {
		assert.Len(t, row, 3)
	}
	assert.Equal(t, "", out.Cell(1, 2), "short row padded with empty cell")
	assert.Equal(t, "-900.00", out.Cell(2, 2), "long row truncated to modal width")
}

func TestCellBounds(t *testing.T) {
	matrix := RowMatrix{{"a"}}
	assert.Equal(t, "a", matrix.Cell(0, 0))
	assert.Equal(t, "", matrix.Cell(0, 5))
	assert.Equal(t, "", matrix.Cell(3, 0))
	assert.Equal(t, "", matrix.Cell(-1, -1))
}

func TestFromSpreadsheetFallback(t *testing.T) {
	t.Run("unreadable bytes produce diagnostic matrix", func(t *testing.T) {
		matrix, err := FromSpreadsheet([]byte{0x00, 0x01, 0x02, 0x03})
		require.NoError(t, err)
		require.Len(t, matrix, 2)
		assert.Equal(t, "no data extracted", matrix.Cell(1, 0))
	})

	t.Run("scraped text rows recovered", func(t *testing.T) {
		// Not a zip archive, but carries printable runs a scrape can find.
		raw := []byte("\x00\x00Date\x00Description\x00Amount\n\x00\x0015/01/2024\x00Coffee shop\x00-4.50\n\x00\x0016/01/2024\x00Salary credit\x00250.00\n")
		matrix, err := FromSpreadsheet(raw)
		require.NoError(t, err)
		require.GreaterOrEqual(t, len(matrix), 2)
		joined := strings.ToLower(strings.Join(matrix[0], " "))
		assert.Contains(t, joined, "date")
	})
}

func TestScrapeCells(t *testing.T) {
	raw := []byte("xx\x01Date\x02Amount\nab\x0115/01/2024\x02-12.00\n")
	matrix := scrapeCells(raw)
	require.Len(t, matrix, 2)
	assert.Equal(t, []string{"Date", "Amount"}, []string(matrix[0]))
	assert.Equal(t, []string{"15/01/2024", "-12.00"}, []string(matrix[1]))
}

func TestAlignToHeaderDropsPreamble(t *testing.T) {
	matrix := RowMatrix{
		{"Workbook metadata blob"},
		{"Date", "Description", "Amount"},
		{"15/01/2024", "Coffee", "-4.50"},
		{"16/01/2024", "Rent", "-900.00"},
	}
	out := alignToHeader(matrix)
	assert.Equal(t, "Date", out.Cell(0, 0))
	assert.Equal(t, 3, out.Width())
}
