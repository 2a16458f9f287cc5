package tabulate

import (
	"strings"
	"unicode/utf8"

	"github.com/harborbooks/statement-ingest/internal/ingest/ingesterr"
)

// FromCSV splits CSV text into a row matrix. The delimiter is detected per
// file; quoting follows the usual rules (a quote toggles quoted state,
// doubled quotes inside a quoted field unescape to one quote). Blank lines
// are dropped before processing.
func FromCSV(data []byte) (RowMatrix, error) {
	text := string(normalizeBytes(data))
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")

	var lines []string
	for _, line := range strings.Split(text, "\n") {
		if strings.TrimSpace(line) != "" {
			lines = append(lines, line)
		}
	}
	if len(lines) == 0 {
		return nil, ingesterr.ErrEmptyDocument
	}

	delimiter := detectDelimiter(lines)
	matrix := make(RowMatrix, 0, len(lines))
	for _, line := range lines {
		matrix = append(matrix, splitLine(line, delimiter))
	}
	return matrix, nil
}

// delimiters tried in priority order; ties go to the earlier candidate.
var delimiters = []rune{';', '\t', ',', '|'}

// detectDelimiter picks the candidate with the highest total count across
// the first few lines.
func detectDelimiter(lines []string) rune {
	sample := lines
	if len(sample) > 10 {
		sample = sample[:10]
	}
	best := ','
	bestCount := 0
	for _, d := range delimiters {
		count := 0
		for _, line := range sample {
			count += strings.Count(line, string(d))
		}
		if count > bestCount {
			best, bestCount = d, count
		}
	}
	return best
}

// splitLine splits one line into cells, respecting quoted fields.
func splitLine(line string, delimiter rune) []string {
	var (
		cells    []string
		cell     strings.Builder
		inQuotes bool
	)

	runes := []rune(line)
	for i := 0; i < len(runes); i++ {
		r := runes[i]
		switch {
		case r == '"':
			if inQuotes && i+1 < len(runes) && runes[i+1] == '"' {
				// Doubled quote inside a quoted field.
				cell.WriteRune('"')
				i++
			} else {
				inQuotes = !inQuotes
			}
		case r == delimiter && !inQuotes:
			cells = append(cells, strings.TrimSpace(cell.String()))
			cell.Reset()
		default:
			cell.WriteRune(r)
		}
	}
	cells = append(cells, strings.TrimSpace(cell.String()))
	return cells
}

// normalizeBytes strips a UTF-8 BOM and decodes latin-1 uploads so the rest
// of the pipeline only ever sees valid UTF-8.
func normalizeBytes(data []byte) []byte {
	if len(data) >= 3 && data[0] == 0xEF && data[1] == 0xBB && data[2] == 0xBF {
		data = data[3:]
	}
	if utf8.Valid(data) {
		return data
	}
	runes := make([]rune, len(data))
	for i, b := range data {
		runes[i] = rune(b)
	}
	return []byte(string(runes))
}
