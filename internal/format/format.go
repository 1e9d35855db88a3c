// Package format renders money and dates for display in the en-IN locale
// with INR as the currency.
package format

import (
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"tracker/internal/core"
)

const rupee = "₹"

// INR formats m with Indian digit grouping, e.g. ₹1,00,000.00 or -₹600.50.
func INR(m core.Money) string {
	cents := m.Cents
	neg := cents < 0
	if neg {
		cents = -cents
	}
	s := groupIndian(strconv.FormatInt(cents/100, 10)) + "." + pad2(cents%100)
	if neg {
		return "-" + rupee + s
	}
	return rupee + s
}

// Signed formats the transaction amount prefixed with + for income and - for
// expenses.
func Signed(tx core.Transaction) string {
	if tx.Type == core.Income {
		return "+" + INR(tx.Money())
	}
	return "-" + INR(tx.Money())
}

// groupIndian inserts separators after the last three digits and then every
// two digits: 12345678 -> 1,23,45,678.
func groupIndian(digits string) string {
	if len(digits) <= 3 {
		return digits
	}
	head, tail := digits[:len(digits)-3], digits[len(digits)-3:]
	var parts []string
	for len(head) > 2 {
		parts = append([]string{head[len(head)-2:]}, parts...)
		head = head[:len(head)-2]
	}
	if head != "" {
		parts = append([]string{head}, parts...)
	}
	return strings.Join(append(parts, tail), ",")
}

func pad2(n int64) string {
	if n < 10 {
		return "0" + strconv.FormatInt(n, 10)
	}
	return strconv.FormatInt(n, 10)
}

// Date renders a YYYY-MM-DD date as day/month/year without padding
// (10/1/2024). Unparseable input is returned unchanged.
func Date(s string) string {
	d, err := time.Parse(core.DateLayout, s)
	if err != nil {
		return s
	}
	return d.Format("2/1/2006")
}

// Relative describes t relative to now, e.g. "3 minutes ago".
func Relative(t, now time.Time) string {
	if t.IsZero() {
		return ""
	}
	return humanize.RelTime(t, now, "ago", "from now")
}
