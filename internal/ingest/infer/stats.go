package infer

import (
	"github.com/harborbooks/statement-ingest/internal/ingest/tabulate"
)

const statsSampleRows = 10

// byStatistics is the third strategy: full data-type analysis over a larger
// sample. It runs only when name matching found no date column at all, which
// is the usual state of a byte-scraped spreadsheet matrix with a garbled or
// absent header row.
func byStatistics(matrix tabulate.RowMatrix, header int, roles RoleMap) RoleMap {
	if roles.Has(RoleDate) {
		return roles
	}
	profiles := profileColumns(matrix, header, statsSampleRows)

	// Date: majority of sampled cells parse as dates. Ties go to the
	// earliest column, which is where statements put dates anyway.
	for _, p := range profiles {
		if !roles.taken(p.col) && p.dateLikeness() > 0.5 {
			roles[RoleDate] = p.col
			break
		}
	}
	if !roles.Has(RoleDate) {
		return roles
	}

	if !roles.Has(RoleDescription) {
		if col := bestTextColumn(profiles, roles, 0.5); col >= 0 {
			roles[RoleDescription] = col
		}
	}
	if !roles.Has(RoleAmount) && !roles.HasSplitAmounts() {
		assignMoneyColumns(profiles, roles)
	}
	return roles
}
