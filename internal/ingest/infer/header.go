package infer

import (
	"strings"

	"github.com/harborbooks/statement-ingest/internal/ingest/tabulate"
)

const headerScanDepth = 8

var headerKeywords = []string{
	"date", "description", "amount", "transaction", "debit", "credit", "balance",
}

// LocateHeader returns the index of the most likely header row. The first of
// the leading rows that mentions at least 2 distinct header keywords wins.
// When nothing qualifies row 0 is the header by convention, even if it is
// actually data; downstream stages tolerate that.
func LocateHeader(matrix tabulate.RowMatrix) int {
	limit := len(matrix)
	if limit > headerScanDepth {
		limit = headerScanDepth
	}
	for i := 0; i < limit; i++ {
		joined := strings.ToLower(strings.Join(matrix[i], " "))
		distinct := 0
		for _, kw := range headerKeywords {
			if strings.Contains(joined, kw) {
				distinct++
			}
		}
		if distinct >= 2 {
			return i
		}
	}
	return 0
}
