package format

import (
	"testing"
	"time"

	"tracker/internal/core"
)

func TestINR(t *testing.T) {
	tests := []struct {
		cents int64
		want  string
	}{
		{0, "₹0.00"},
		{5, "₹0.05"},
		{40000, "₹400.00"},
		{100000, "₹1,000.00"},
		{10000000, "₹1,00,000.00"},
		{123456789, "₹12,34,567.89"},
		{1234567890, "₹1,23,45,678.90"},
		{-60050, "-₹600.50"},
	}
	for _, tt := range tests {
		if got := INR(core.Money{Cents: tt.cents}); got != tt.want {
			t.Errorf("INR(%d) = %q, want %q", tt.cents, got, tt.want)
		}
	}
}

func TestSigned(t *testing.T) {
	in := core.Transaction{Type: core.Income, Amount: "1000"}
	out := core.Transaction{Type: core.Expense, Amount: "400"}
	if got := Signed(in); got != "+₹1,000.00" {
		t.Fatalf("income = %q", got)
	}
	if got := Signed(out); got != "-₹400.00" {
		t.Fatalf("expense = %q", got)
	}
}

func TestDate(t *testing.T) {
	if got := Date("2024-01-10"); got != "10/1/2024" {
		t.Fatalf("Date = %q", got)
	}
	if got := Date("garbage"); got != "garbage" {
		t.Fatalf("Date should pass through bad input, got %q", got)
	}
}

func TestRelative(t *testing.T) {
	now := time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC)
	if got := Relative(now.Add(-3*time.Minute), now); got != "3 minutes ago" {
		t.Fatalf("Relative = %q", got)
	}
	if got := Relative(time.Time{}, now); got != "" {
		t.Fatalf("zero time should render empty, got %q", got)
	}
}
