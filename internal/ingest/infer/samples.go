package infer

import (
	"github.com/shopspring/decimal"

	"github.com/harborbooks/statement-ingest/internal/ingest/normalize"
	"github.com/harborbooks/statement-ingest/internal/ingest/tabulate"
)

// columnProfile accumulates per-column evidence over sampled data rows.
type columnProfile struct {
	col          int
	samples      int
	dateHits     int
	numericHits  int
	textHits     int
	textLength   int
	positives    int
	negatives    int
	sumMagnitude decimal.Decimal
}

func (p *columnProfile) dateLikeness() float64    { return ratio(p.dateHits, p.samples) }
func (p *columnProfile) numericLikeness() float64 { return ratio(p.numericHits, p.samples) }
func (p *columnProfile) textLikeness() float64    { return ratio(p.textHits, p.samples) }

func (p *columnProfile) avgTextLength() float64 {
	if p.textHits == 0 {
		return 0
	}
	return float64(p.textLength) / float64(p.textHits)
}

func (p *columnProfile) mixedSigns() bool { return p.positives > 0 && p.negatives > 0 }

func ratio(hits, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(hits) / float64(total)
}

// profileColumns samples up to limit data rows below the header and
// classifies each cell as date-like, numeric, or free text. European
// decimal style is detected once across the whole sample so "1.234,56"
// columns are not misread as thousands.
func profileColumns(matrix tabulate.RowMatrix, header, limit int) []*columnProfile {
	width := matrix.Width()
	profiles := make([]*columnProfile, width)
	for c := 0; c < width; c++ {
		profiles[c] = &columnProfile{col: c, sumMagnitude: decimal.Zero}
	}

	var numericSamples []string
	for r := header + 1; r < len(matrix) && r <= header+limit; r++ {
		for c := 0; c < width; c++ {
			if raw := matrix.Cell(r, c); normalize.LooksNumeric(raw) {
				numericSamples = append(numericSamples, raw)
			}
		}
	}
	european, _ := normalize.DetectEuropean(numericSamples)

	for r := header + 1; r < len(matrix) && r <= header+limit; r++ {
		for c := 0; c < width; c++ {
			raw := matrix.Cell(r, c)
			if raw == "" {
				continue
			}
			p := profiles[c]
			p.samples++
			switch {
			case normalize.LooksDate(raw):
				p.dateHits++
			case normalize.LooksNumeric(raw):
				amount := normalize.ParseAmount(raw, european)
				if !amount.Ok {
					p.textHits++
					p.textLength += len(raw)
					continue
				}
				p.numericHits++
				p.sumMagnitude = p.sumMagnitude.Add(amount.Value.Abs())
				switch amount.Value.Sign() {
				case 1:
					p.positives++
				case -1:
					p.negatives++
				}
			default:
				p.textHits++
				p.textLength += len(raw)
			}
		}
	}
	return profiles
}

// bySamples is the second strategy: positional guessing from a handful of
// data rows. It runs only when names already pinned down the date column
// but left description or the money columns open.
func bySamples(matrix tabulate.RowMatrix, header int, roles RoleMap) RoleMap {
	if !roles.Has(RoleDate) || roles.Complete() {
		return roles
	}
	profiles := profileColumns(matrix, header, 5)

	if !roles.Has(RoleDescription) {
		if col := bestTextColumn(profiles, roles, 0); col >= 0 {
			roles[RoleDescription] = col
		}
	}
	if !roles.Has(RoleAmount) && !roles.HasSplitAmounts() {
		assignMoneyColumns(profiles, roles)
	}
	return roles
}

// bestTextColumn picks the unclaimed column with the greatest average text
// length whose text-likeness clears minLikeness.
func bestTextColumn(profiles []*columnProfile, roles RoleMap, minLikeness float64) int {
	best, bestLen := -1, 0.0
	for _, p := range profiles {
		if roles.taken(p.col) || p.textHits == 0 {
			continue
		}
		if p.textLikeness() <= minLikeness && minLikeness > 0 {
			continue
		}
		if l := p.avgTextLength(); l > bestLen {
			best, bestLen = p.col, l
		}
	}
	return best
}

// assignMoneyColumns resolves unclaimed numeric columns into either a single
// Amount column or a Credit/Debit pair, by sign distribution.
func assignMoneyColumns(profiles []*columnProfile, roles RoleMap) {
	var numeric []*columnProfile
	for _, p := range profiles {
		if !roles.taken(p.col) && p.numericHits > 0 && p.numericLikeness() > 0.5 {
			numeric = append(numeric, p)
		}
	}

	// A column with both signs is the strongest evidence of a unified
	// amount column.
	for _, p := range numeric {
		if p.mixedSigns() {
			roles[RoleAmount] = p.col
			return
		}
	}

	switch len(numeric) {
	case 0:
		return
	case 1:
		roles[RoleAmount] = numeric[0].col
		return
	}

	if len(numeric) > 2 {
		// Keep the two columns moving the most money; the rest are fees,
		// balances, or account metadata.
		top := numeric
		for i := 0; i < 2; i++ {
			for j := i + 1; j < len(top); j++ {
				if top[j].sumMagnitude.GreaterThan(top[i].sumMagnitude) {
					top[i], top[j] = top[j], top[i]
				}
			}
		}
		numeric = top[:2]
		if numeric[0].col > numeric[1].col {
			numeric[0], numeric[1] = numeric[1], numeric[0]
		}
	}

	a, b := numeric[0], numeric[1]
	switch {
	case a.negatives > 0 && b.negatives == 0:
		roles[RoleDebit], roles[RoleCredit] = a.col, b.col
	case b.negatives > 0 && a.negatives == 0:
		roles[RoleDebit], roles[RoleCredit] = b.col, a.col
	default:
		// Statements conventionally print the money-out column first.
		roles[RoleDebit], roles[RoleCredit] = a.col, b.col
	}
}
