package tabulate

import (
	"strings"
)

const (
	minRunLength = 3 // shorter printable runs are framing noise
	// A gap this long between printable runs means we crossed a record
	// boundary in the binary layout, not just a cell boundary.
	rowGapBytes = 64
)

// header keywords used only to anchor width normalization of scraped
// matrices; full header location happens downstream.
var anchorKeywords = []string{"date", "description", "amount", "debit", "credit", "balance", "transaction"}

// scrapeCells recovers cell text from an opaque spreadsheet byte stream by
// collecting runs of printable characters. Runs separated by short gaps land
// in the same row; long gaps and newline bytes start a new row. The output
// is noisy; the statistical column classifier downstream is expected to cope.
func scrapeCells(data []byte) RowMatrix {
	var (
		matrix  RowMatrix
		row     []string
		run     strings.Builder
		lastEnd = -1
	)

	flushRun := func() {
		text := strings.TrimSpace(run.String())
		run.Reset()
		if len(text) >= minRunLength && hasWordCharacter(text) {
			row = append(row, text)
		}
	}
	flushRow := func() {
		if len(row) > 0 {
			matrix = append(matrix, row)
			row = nil
		}
	}

	for i := 0; i < len(data); i++ {
		b := data[i]
		switch {
		case printable(b):
			if run.Len() == 0 && lastEnd >= 0 && i-lastEnd > rowGapBytes {
				flushRow()
			}
			run.WriteByte(b)
		case b == '\n' || b == '\v':
			flushRun()
			flushRow()
			lastEnd = i
		default:
			if run.Len() > 0 {
				flushRun()
				lastEnd = i
			}
		}
	}
	flushRun()
	flushRow()

	return matrix
}

func printable(b byte) bool {
	return (b >= 0x20 && b < 0x7F) || b == '\t'
}

func hasWordCharacter(s string) bool {
	for _, r := range s {
		if r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9' {
			return true
		}
	}
	return false
}

// alignToHeader normalizes a scraped matrix to a single width, using the
// first row that looks like a header as the width anchor. Rows before the
// anchor are dropped; they are workbook framing, not data.
func alignToHeader(matrix RowMatrix) RowMatrix {
	anchor := -1
	for i, row := range matrix {
		if i >= 8 {
			break
		}
		if headerScore(row) >= 2 {
			anchor = i
			break
		}
	}
	if anchor > 0 {
		matrix = matrix[anchor:]
	}
	return matrix.Normalize()
}

func headerScore(row []string) int {
	joined := strings.ToLower(strings.Join(row, " "))
	score := 0
	for _, kw := range anchorKeywords {
		if strings.Contains(joined, kw) {
			score++
		}
	}
	return score
}
