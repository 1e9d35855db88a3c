// Package core provides money parsing and handling utilities.
//
// Amounts are kept as entered text on the transaction and converted to
// integer cents for arithmetic, so sums never accumulate binary rounding drift.
package core

import (
	"strings"

	"github.com/shopspring/decimal"
)

type Money struct {
	Cents int64
}

var (
	hundred  = decimal.NewFromInt(100)
	maxCents = decimal.NewFromInt(1<<63 - 1)
)

// Exponent window accepted by ParseMoney. Anything beyond it either rounds to
// zero cents or overflows int64, and big exponents make the arithmetic slow.
const (
	minExponent = -30
	maxExponent = 18
)

// ParseMoney converts a decimal string to Money with half-up rounding to cents.
//
// Both dot (12.34) and comma (12,34) decimal separators are accepted. Zero is
// allowed; negative, signed or non-numeric input returns ErrInvalidAmount.
//
// Examples:
//
//	ParseMoney("12.34")  -> {1234}, nil
//	ParseMoney("12,345") -> {1235}, nil
//	ParseMoney("1e3")    -> {100000}, nil
//	ParseMoney("1e99")   -> {}, ErrInvalidAmount
func ParseMoney(s string) (Money, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Money{}, ErrInvalidAmount
	}
	s = strings.ReplaceAll(s, ",", ".")
	if strings.HasPrefix(s, "+") || strings.HasPrefix(s, "-") {
		return Money{}, ErrInvalidAmount
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Money{}, ErrInvalidAmount
	}
	if exp := d.Exponent(); exp < minExponent || exp > maxExponent {
		return Money{}, ErrInvalidAmount
	}
	cents := d.Mul(hundred).Round(0)
	if cents.IsNegative() || cents.GreaterThan(maxCents) {
		return Money{}, ErrInvalidAmount
	}
	return Money{Cents: cents.IntPart()}, nil
}

func (m Money) Add(o Money) Money {
	return Money{Cents: m.Cents + o.Cents}
}

func (m Money) Sub(o Money) Money {
	return Money{Cents: m.Cents - o.Cents}
}

func (m Money) IsZero() bool {
	return m.Cents == 0
}

func (m Money) IsNegative() bool {
	return m.Cents < 0
}

// Decimal returns the amount in major units.
func (m Money) Decimal() decimal.Decimal {
	return decimal.New(m.Cents, -2)
}

// Float returns the amount in major units as a float64 for display and JSON.
// Use Cents for calculations.
func (m Money) Float() float64 {
	f, _ := m.Decimal().Float64()
	return f
}

// Percent returns part/total*100 rounded to one decimal place. A zero total
// yields zero.
func Percent(part, total Money) float64 {
	if total.Cents == 0 {
		return 0
	}
	p := decimal.NewFromInt(part.Cents).
		Mul(hundred).
		DivRound(decimal.NewFromInt(total.Cents), 8).
		Round(1)
	f, _ := p.Float64()
	return f
}
