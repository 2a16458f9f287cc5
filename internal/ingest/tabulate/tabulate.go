// Package tabulate converts raw statement documents into rectangular
// matrices of string cells. All typed interpretation is left to later
// stages; a cell is always plain text here.
package tabulate

import (
	"github.com/harborbooks/statement-ingest/internal/ingest/document"
	"github.com/harborbooks/statement-ingest/internal/ingest/ingesterr"
)

// RowMatrix is an ordered sequence of rows of cell strings. Jagged input is
// tolerated: Normalize pads short rows and truncates long ones to the
// dominant width.
type RowMatrix [][]string

// Cell returns the trimmed-bounds cell at (row, col), or "" when the row is
// shorter than col. Callers never have to bounds-check.
func (m RowMatrix) Cell(row, col int) string {
	if row < 0 || row >= len(m) {
		return ""
	}
	r := m[row]
	if col < 0 || col >= len(r) {
		return ""
	}
	return r[col]
}

// Width returns the modal row width of the matrix.
func (m RowMatrix) Width() int {
	return modalWidth(m)
}

// Tabulate dispatches on the document kind. pdf-text documents have no
// matrix form; callers route those to the augmentation path instead.
func Tabulate(doc *document.Document) (RowMatrix, error) {
	switch doc.Kind {
	case document.KindCSV:
		return FromCSV(doc.Data)
	case document.KindSpreadsheet:
		return FromSpreadsheet(doc.Data)
	default:
		return nil, ingesterr.UnsupportedFormat(doc.Filename)
	}
}

// Normalize pads or truncates every row to the matrix's modal width.
func (m RowMatrix) Normalize() RowMatrix {
	width := modalWidth(m)
	if width == 0 {
		return m
	}
	out := make(RowMatrix, 0, len(m))
	for _, row := range m {
		switch {
		case len(row) < width:
			padded := make([]string, width)
			copy(padded, row)
			out = append(out, padded)
		case len(row) > width:
			out = append(out, row[:width])
		default:
			out = append(out, row)
		}
	}
	return out
}

func modalWidth(m RowMatrix) int {
	counts := make(map[int]int)
	for _, row := range m {
		counts[len(row)]++
	}
	best, bestCount := 0, 0
	for width, count := range counts {
		if count > bestCount || (count == bestCount && width > best) {
			best, bestCount = width, count
		}
	}
	return best
}
