package core

import "testing"

func TestParseMoney(t *testing.T) {
	tests := []struct {
		in    string
		cents int64
		ok    bool
	}{
		{"1000", 100000, true},
		{"12.34", 1234, true},
		{"12,34", 1234, true},
		{" 0.5 ", 50, true},
		{"12.345", 1235, true},
		{"12.344", 1234, true},
		{"0", 0, true},
		{"", 0, false},
		{"-1", 0, false},
		{"+1", 0, false},
		{"1.2.3", 0, false},
		{"abc", 0, false},
		{"1e3", 100000, true},
		{"2.5e-1", 25, true},
		{"1e99", 0, false},
		{"1e99999999", 0, false},
		{"1e-99999999", 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			m, err := ParseMoney(tt.in)
			if tt.ok && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !tt.ok {
				if err == nil {
					t.Fatalf("expected error, got %d", m.Cents)
				}
				return
			}
			if m.Cents != tt.cents {
				t.Fatalf("ParseMoney(%q) = %d, want %d", tt.in, m.Cents, tt.cents)
			}
		})
	}
}

func TestMoneyArithmetic(t *testing.T) {
	a := Money{Cents: 100000}
	b := Money{Cents: 40000}
	if got := a.Sub(b); got.Cents != 60000 {
		t.Fatalf("sub = %d", got.Cents)
	}
	if got := b.Sub(a); !got.IsNegative() {
		t.Fatalf("expected negative")
	}
	if got := a.Add(b).Float(); got != 1400 {
		t.Fatalf("float = %v", got)
	}
	// 0.1 + 0.2 stays exact in cents.
	x, _ := ParseMoney("0.1")
	y, _ := ParseMoney("0.2")
	if x.Add(y).Cents != 30 {
		t.Fatalf("expected 30 cents")
	}
}

func TestPercent(t *testing.T) {
	tests := []struct {
		part, total int64
		want        float64
	}{
		{400, 400, 100},
		{1, 3, 33.3},
		{2, 3, 66.7},
		{5, 0, 0},
	}
	for _, tt := range tests {
		if got := Percent(Money{tt.part}, Money{tt.total}); got != tt.want {
			t.Errorf("Percent(%d, %d) = %v, want %v", tt.part, tt.total, got, tt.want)
		}
	}
}
