// Package aggregate derives totals, category breakdowns and monthly series
// from a transaction snapshot. All functions are pure.
package aggregate

import (
	"fmt"
	"slices"
	"time"

	"tracker/internal/core"
)

const (
	DefaultMonths = 6
	DefaultRecent = 5
)

type (
	// CategoryShare is one category's summed expenses and its share of all
	// expenses in percent, rounded to one decimal.
	CategoryShare struct {
		Category string
		Amount   core.Money
		Percent  float64
	}

	// MonthBucket holds income and expense sums for one calendar month.
	MonthBucket struct {
		Year     int
		Month    time.Month
		Key      string // YYYY-MM
		Label    string // e.g. "Jan 2024"
		Income   core.Money
		Expenses core.Money
	}
)

func sumType(txs []core.Transaction, t core.Type) core.Money {
	var total core.Money
	for _, tx := range txs {
		if tx.Type == t {
			total = total.Add(tx.Money())
		}
	}
	return total
}

func TotalIncome(txs []core.Transaction) core.Money {
	return sumType(txs, core.Income)
}

func TotalExpenses(txs []core.Transaction) core.Money {
	return sumType(txs, core.Expense)
}

func Balance(txs []core.Transaction) core.Money {
	return TotalIncome(txs).Sub(TotalExpenses(txs))
}

// ExpensesByCategory sums expenses per category, largest first. Categories
// with equal sums keep the order in which they first appear. The result is
// empty when the snapshot has no expenses.
func ExpensesByCategory(txs []core.Transaction) []CategoryShare {
	var (
		order []string
		sums  = map[string]core.Money{}
		total core.Money
	)
	for _, tx := range txs {
		if tx.Type != core.Expense {
			continue
		}
		if _, ok := sums[tx.Category]; !ok {
			order = append(order, tx.Category)
		}
		m := tx.Money()
		sums[tx.Category] = sums[tx.Category].Add(m)
		total = total.Add(m)
	}
	if len(order) == 0 {
		return nil
	}

	out := make([]CategoryShare, 0, len(order))
	for _, c := range order {
		out = append(out, CategoryShare{
			Category: c,
			Amount:   sums[c],
			Percent:  core.Percent(sums[c], total),
		})
	}
	slices.SortStableFunc(out, func(a, b CategoryShare) int {
		switch {
		case a.Amount.Cents > b.Amount.Cents:
			return -1
		case a.Amount.Cents < b.Amount.Cents:
			return 1
		default:
			return 0
		}
	})
	return out
}

// MonthlySeries returns exactly n buckets, oldest first, ending with the
// month containing ref. Months without transactions have zero sums. n <= 0
// means DefaultMonths.
func MonthlySeries(txs []core.Transaction, ref time.Time, n int) []MonthBucket {
	if n <= 0 {
		n = DefaultMonths
	}
	first := time.Date(ref.Year(), ref.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, -(n - 1), 0)

	buckets := make([]MonthBucket, n)
	index := make(map[string]int, n)
	for i := range buckets {
		d := first.AddDate(0, i, 0)
		key := fmt.Sprintf("%04d-%02d", d.Year(), int(d.Month()))
		buckets[i] = MonthBucket{
			Year:  d.Year(),
			Month: d.Month(),
			Key:   key,
			Label: d.Format("Jan 2006"),
		}
		index[key] = i
	}

	for _, tx := range txs {
		i, ok := index[tx.Month()]
		if !ok {
			continue
		}
		switch tx.Type {
		case core.Income:
			buckets[i].Income = buckets[i].Income.Add(tx.Money())
		case core.Expense:
			buckets[i].Expenses = buckets[i].Expenses.Add(tx.Money())
		}
	}
	return buckets
}

// Recent returns the first n transactions in snapshot order. n <= 0 means
// DefaultRecent.
func Recent(txs []core.Transaction, n int) []core.Transaction {
	if n <= 0 {
		n = DefaultRecent
	}
	if n > len(txs) {
		n = len(txs)
	}
	return txs[:n:n]
}
