package infer

import (
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"

	"github.com/harborbooks/statement-ingest/internal/ingest/tabulate"
)

// Synonym lists per role, ordered most to least specific. Non-English
// entries cover the statement formats the importer commonly sees from
// Portuguese, Spanish, French, German and Dutch banks.
var roleSynonyms = map[Role][]string{
	RoleDate: {
		"transaction date", "value date", "posting date", "booking date",
		"data mov.", "data valor", "data lanc.", "fecha valor", "fecha operacion",
		"date", "data", "fecha", "datum", "buchungstag",
	},
	RoleDescription: {
		"transaction description", "description", "descricao", "descripcion",
		"narrative", "details", "particulars", "memo", "reference", "concepto",
		"libelle", "omschrijving", "verwendungszweck", "payee", "merchant",
	},
	RoleAmount: {
		"transaction amount", "net amount", "amount", "montante", "valor",
		"importe", "montant", "betrag", "bedrag", "value",
	},
	RoleDebit: {
		"debit amount", "money out", "withdrawal", "debit", "debito", "cargo",
		"paid out", "soll", "af", "dr",
	},
	RoleCredit: {
		"credit amount", "money in", "deposit", "credit", "credito", "abono",
		"paid in", "haben", "bij", "cr",
	},
	RoleBalance: {
		"running balance", "closing balance", "balance", "saldo", "solde",
	},
}

// order in which roles claim columns; specific money columns go before the
// generic amount so a "Debit Amount" header is not swallowed by RoleAmount.
var nameOrder = []Role{RoleDate, RoleDescription, RoleDebit, RoleCredit, RoleBalance, RoleAmount}

// byNames is the first strategy: match header cell text against the synonym
// lists. Tiers within the strategy: exact, then synonym-inside-cell, then
// cell-inside-synonym, then a fuzzy subsequence match for truncated or
// misspelled headers ("Trans Dat").
func byNames(matrix tabulate.RowMatrix, header int, roles RoleMap) RoleMap {
	if header < 0 || header >= len(matrix) {
		return roles
	}
	cells := make([]string, len(matrix[header]))
	for i, cell := range matrix[header] {
		cells[i] = strings.ToLower(strings.TrimSpace(cell))
	}

	match := func(role Role, tier func(cell, name string) bool) {
		if roles.Has(role) {
			return
		}
		for col, cell := range cells {
			if cell == "" || roles.taken(col) {
				continue
			}
			for _, name := range roleSynonyms[role] {
				if tier(cell, name) {
					roles[role] = col
					return
				}
			}
		}
	}

	tiers := []func(cell, name string) bool{
		func(cell, name string) bool { return cell == name },
		func(cell, name string) bool { return len(name) >= 3 && strings.Contains(cell, name) },
		func(cell, name string) bool { return len(cell) >= 3 && strings.Contains(name, cell) },
		fuzzyNameMatch,
	}
	for _, tier := range tiers {
		for _, role := range nameOrder {
			match(role, tier)
		}
	}

	// A lone debit or credit column without its sibling cannot carry
	// direction on its own; treat it as a unified amount column instead.
	if !roles.HasSplitAmounts() && !roles.Has(RoleAmount) {
		if col := roles.Column(RoleDebit); col >= 0 {
			delete(roles, RoleDebit)
			roles[RoleAmount] = col
		} else if col := roles.Column(RoleCredit); col >= 0 {
			delete(roles, RoleCredit)
			roles[RoleAmount] = col
		}
	}
	return roles
}

// fuzzyNameMatch accepts a header cell as a loose subsequence of a synonym.
// Short cells are excluded: two or three letters subsequence-match far too
// much.
func fuzzyNameMatch(cell, name string) bool {
	if len(cell) < 4 || len(name) < len(cell) {
		return false
	}
	rank := fuzzy.RankMatchNormalizedFold(cell, name)
	return rank >= 0 && rank <= len(name)/2
}
