// Package dashboard composes the dashboard display model from a ledger
// snapshot: summary totals, expense breakdown, monthly chart and recent
// activity, with every amount already formatted for display.
package dashboard

import (
	"math"
	"strconv"
	"time"

	"tracker/internal/aggregate"
	"tracker/internal/core"
	"tracker/internal/format"
	"tracker/internal/ledger"
)

// Bars are amount/1000*100 px high with a 5 px floor, so 1 px per 10 units.
const minBarPx = 5

type (
	View struct {
		Revision        uint64        `json:"revision"`
		Income          string        `json:"income"`
		Expenses        string        `json:"expenses"`
		Balance         string        `json:"balance"`
		BalancePositive bool          `json:"balancePositive"`
		Categories      []CategoryRow `json:"categories"`
		Months          []MonthRow    `json:"months"`
		Recent          []Row         `json:"recent"`
	}

	CategoryRow struct {
		Category string  `json:"category"`
		Amount   string  `json:"amount"`
		Percent  float64 `json:"percent"`
	}

	MonthRow struct {
		Key        string `json:"key"`
		Label      string `json:"label"`
		Income     string `json:"income"`
		Expenses   string `json:"expenses"`
		IncomePx   int    `json:"incomePx"`
		ExpensesPx int    `json:"expensesPx"`
	}

	// Row is a transaction prepared for a list. Shared with the history page.
	Row struct {
		ID          string    `json:"id"`
		Type        core.Type `json:"type"`
		Category    string    `json:"category"`
		Description string    `json:"description"`
		Date        string    `json:"date"`
		Amount      string    `json:"amount"`
		Added       string    `json:"added,omitempty"`
	}
)

// PercentLabel renders the share with one decimal, e.g. "62.5".
func (c CategoryRow) PercentLabel() string {
	return strconv.FormatFloat(c.Percent, 'f', 1, 64)
}

func (r Row) IsIncome() bool {
	return r.Type == core.Income
}

// NewRow formats tx for display. Added is relative to now.
func NewRow(tx core.Transaction, now time.Time) Row {
	return Row{
		ID:          tx.ID,
		Type:        tx.Type,
		Category:    tx.Category,
		Description: tx.Description,
		Date:        format.Date(tx.Date),
		Amount:      format.Signed(tx),
		Added:       format.Relative(tx.CreatedAt, now),
	}
}

// BarPx returns the chart bar height for m.
func BarPx(m core.Money) int {
	px := int(math.Round(float64(m.Cents) / 1000))
	if px < minBarPx {
		return minBarPx
	}
	return px
}

// Build derives the dashboard from snap. months and recent fall back to the
// aggregate defaults when not positive.
func Build(snap ledger.Snapshot, now time.Time, months, recent int) View {
	txs := snap.Transactions
	income := aggregate.TotalIncome(txs)
	expenses := aggregate.TotalExpenses(txs)
	balance := income.Sub(expenses)

	v := View{
		Revision:        snap.Revision,
		Income:          format.INR(income),
		Expenses:        format.INR(expenses),
		Balance:         format.INR(balance),
		BalancePositive: !balance.IsNegative(),
	}

	for _, s := range aggregate.ExpensesByCategory(txs) {
		v.Categories = append(v.Categories, CategoryRow{
			Category: s.Category,
			Amount:   format.INR(s.Amount),
			Percent:  s.Percent,
		})
	}

	for _, b := range aggregate.MonthlySeries(txs, now, months) {
		v.Months = append(v.Months, MonthRow{
			Key:        b.Key,
			Label:      b.Label,
			Income:     format.INR(b.Income),
			Expenses:   format.INR(b.Expenses),
			IncomePx:   BarPx(b.Income),
			ExpensesPx: BarPx(b.Expenses),
		})
	}

	for _, tx := range aggregate.Recent(txs, recent) {
		v.Recent = append(v.Recent, NewRow(tx, now))
	}
	return v
}
