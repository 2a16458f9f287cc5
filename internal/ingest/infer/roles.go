package infer

// Role labels the semantic meaning of a statement column.
type Role string

const (
	RoleDate        Role = "date"
	RoleDescription Role = "description"
	RoleAmount      Role = "amount"
	RoleDebit       Role = "debit"
	RoleCredit      Role = "credit"
	// Balance is never required; when present it feeds direction
	// inference off row-to-row deltas.
	RoleBalance Role = "balance"
)

// RoleMap assigns a column index to each resolved role. Absent roles are
// simply missing keys; Column returns -1 for those so callers can branch
// without a second lookup.
type RoleMap map[Role]int

func (m RoleMap) Column(role Role) int {
	if col, ok := m[role]; ok {
		return col
	}
	return -1
}

func (m RoleMap) Has(role Role) bool {
	_, ok := m[role]
	return ok
}

// taken reports whether a column index is already claimed by any role, so a
// later strategy never reassigns a column an earlier one resolved.
func (m RoleMap) taken(col int) bool {
	for _, c := range m {
		if c == col {
			return true
		}
	}
	return false
}

// HasSplitAmounts reports whether the map carries a usable debit/credit
// column pair in place of a unified amount column.
func (m RoleMap) HasSplitAmounts() bool {
	return m.Has(RoleDebit) && m.Has(RoleCredit)
}

// Complete reports whether the map satisfies the minimum contract: date,
// description, and either a unified amount column or a debit/credit pair.
func (m RoleMap) Complete() bool {
	if !m.Has(RoleDate) || !m.Has(RoleDescription) {
		return false
	}
	return m.Has(RoleAmount) || m.HasSplitAmounts()
}
