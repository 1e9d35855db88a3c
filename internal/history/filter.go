// Package history filters a snapshot for the transaction history view.
package history

import (
	"strings"

	"tracker/internal/core"
)

// TypeFilter selects transactions by type.
type TypeFilter string

const (
	All     TypeFilter = "all"
	Income  TypeFilter = TypeFilter(core.Income)
	Expense TypeFilter = TypeFilter(core.Expense)
)

// ParseTypeFilter maps s to a TypeFilter. Unknown values select All.
func ParseTypeFilter(s string) TypeFilter {
	switch TypeFilter(strings.ToLower(strings.TrimSpace(s))) {
	case Income:
		return Income
	case Expense:
		return Expense
	default:
		return All
	}
}

type Filter struct {
	Type   TypeFilter
	Search string
}

// Matches reports whether tx passes both the type filter and the
// case-insensitive search on description or category.
func (f Filter) Matches(tx core.Transaction) bool {
	if f.Type != "" && f.Type != All && string(f.Type) != string(tx.Type) {
		return false
	}
	if f.Search == "" {
		return true
	}
	term := strings.ToLower(f.Search)
	return strings.Contains(strings.ToLower(tx.Description), term) ||
		strings.Contains(strings.ToLower(tx.Category), term)
}

// Apply returns the matching transactions in snapshot order.
func Apply(txs []core.Transaction, f Filter) []core.Transaction {
	out := make([]core.Transaction, 0, len(txs))
	for _, tx := range txs {
		if f.Matches(tx) {
			out = append(out, tx)
		}
	}
	return out
}
