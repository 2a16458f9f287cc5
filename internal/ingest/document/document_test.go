package document

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harborbooks/statement-ingest/internal/ingest/ingesterr"
)

func TestNew(t *testing.T) {
	t.Run("sniffs csv from extension", func(t *testing.T) {
		doc, err := New("statement.csv", "", []byte("date,description,amount\n2023-01-01,Coffee,-4.50\n"))
		require.NoError(t, err)
		assert.Equal(t, KindCSV, doc.Kind)
	})

	t.Run("sniffs csv from content when extension is missing", func(t *testing.T) {
		doc, err := New("upload", "application/octet-stream", []byte("date;description;amount\n01/01/2023;Coffee;-4,50\n"))
		require.NoError(t, err)
		assert.Equal(t, KindCSV, doc.Kind)
	})

	t.Run("sniffs spreadsheet from zip magic", func(t *testing.T) {
		data := append([]byte{'P', 'K', 0x03, 0x04}, bytes.Repeat([]byte{0}, 64)...)
		doc, err := New("statement.bin", "", data)
		require.NoError(t, err)
		assert.Equal(t, KindSpreadsheet, doc.Kind)
	})

	t.Run("sniffs spreadsheet from mime type", func(t *testing.T) {
		doc, err := New("export", "application/vnd.ms-excel", []byte("anything at all"))
		require.NoError(t, err)
		assert.Equal(t, KindSpreadsheet, doc.Kind)
	})

	t.Run("treats plain text as pdf-text", func(t *testing.T) {
		doc, err := New("statement.txt", "", []byte("Opening balance 100.00\n01 Jan Coffee 4.50\n"))
		require.NoError(t, err)
		assert.Equal(t, KindPDFText, doc.Kind)
		assert.Contains(t, doc.Text, "Coffee")
	})

	t.Run("pdf without text layer gets a placeholder", func(t *testing.T) {
		doc, err := New("scan.pdf", "application/pdf", []byte("%PDF-1.4 not really a pdf"))
		require.NoError(t, err)
		assert.Equal(t, KindPDFText, doc.Kind)
		assert.Contains(t, doc.Text, "scan.pdf")
	})

	t.Run("rejects oversized files before parsing", func(t *testing.T) {
		data := make([]byte, MaxSizeBytes+1)
		_, err := New("big.csv", "", data)
		require.Error(t, err)
		assert.ErrorIs(t, err, ingesterr.ErrFileTooLarge)
		assert.Contains(t, err.Error(), "10485760")
	})

	t.Run("rejects empty files", func(t *testing.T) {
		_, err := New("empty.csv", "", []byte("   \n "))
		assert.ErrorIs(t, err, ingesterr.ErrEmptyDocument)
	})

	t.Run("rejects unrecognizable binaries", func(t *testing.T) {
		_, err := New("blob", "", []byte{0x00, 0x01, 0x02, 0xFF, 0xFE, 0x00})
		require.Error(t, err)
		assert.ErrorIs(t, err, ingesterr.ErrUnsupportedFormat)
		assert.Contains(t, strings.ToLower(err.Error()), "blob")
	})
}
