// Package infer locates the header row of a tabulated statement and assigns
// semantic roles to its columns. Three strategies run in escalating order,
// each filling only the roles the previous one left open: header-name
// matching, sample-based positional guessing, and full data-type statistics
// for matrices with no usable header at all.
package infer

import (
	"github.com/harborbooks/statement-ingest/internal/ingest/ingesterr"
	"github.com/harborbooks/statement-ingest/internal/ingest/tabulate"
)

type strategy func(tabulate.RowMatrix, int, RoleMap) RoleMap

var strategies = []strategy{byNames, bySamples, byStatistics}

// Columns resolves the role map for a matrix given its header row. The
// result always satisfies RoleMap.Complete; anything short of that is a
// hard failure and the extractor is never invoked.
func Columns(matrix tabulate.RowMatrix, header int) (RoleMap, error) {
	roles := RoleMap{}
	for _, s := range strategies {
		roles = s(matrix, header, roles)
		if roles.Complete() {
			return roles, nil
		}
	}
	return nil, ingesterr.ColumnsNotIdentified()
}
