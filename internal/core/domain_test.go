package core

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

func TestDraftValidate(t *testing.T) {
	good := Draft{
		Type:        Expense,
		Amount:      "400",
		Category:    "Food",
		Description: "groceries",
		Date:        "2024-01-15",
	}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	cases := []struct {
		name string
		mod  func(d *Draft)
		want error
	}{
		{"empty amount", func(d *Draft) { d.Amount = " " }, ErrEmptyAmount},
		{"empty description", func(d *Draft) { d.Description = "" }, ErrEmptyDescription},
		{"bad type", func(d *Draft) { d.Type = "transfer" }, ErrInvalidType},
		{"negative amount", func(d *Draft) { d.Amount = "-5" }, ErrInvalidAmount},
		{"garbage amount", func(d *Draft) { d.Amount = "abc" }, ErrInvalidAmount},
		{"bad date", func(d *Draft) { d.Date = "2024-13-01" }, ErrInvalidDate},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			d := good
			tc.mod(&d)
			err := d.Validate()
			if !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
			if !IsValidation(err) {
				t.Fatalf("expected validation error, got %v", err)
			}
		})
	}
}

func TestDraftValidateAcceptsLongDescriptions(t *testing.T) {
	d := Draft{
		Type:        Income,
		Amount:      "1",
		Category:    "Gift",
		Description: strings.Repeat("उपहार ", 80),
		Date:        "2024-01-15",
	}
	if err := d.Validate(); err != nil {
		t.Fatalf("expected ok for %d-byte description, got %v", len(d.Description), err)
	}
}

func TestCategories(t *testing.T) {
	if got := DefaultCategory(Income); got != "Salary" {
		t.Fatalf("income default = %q", got)
	}
	if got := DefaultCategory(Expense); got != "Food" {
		t.Fatalf("expense default = %q", got)
	}
	if !CategoryKnown(Expense, "Bills") || CategoryKnown(Income, "Bills") {
		t.Fatalf("unexpected vocabulary membership")
	}

	cats := Categories(Income)
	cats[0] = "changed"
	if DefaultCategory(Income) != "Salary" {
		t.Fatalf("Categories must return a copy")
	}
}

func TestTransactionMonthAndMoney(t *testing.T) {
	tx := Transaction{Amount: "12.50", Date: "2024-03-09"}
	if tx.Month() != "2024-03" {
		t.Fatalf("month = %q", tx.Month())
	}
	if tx.Money().Cents != 1250 {
		t.Fatalf("cents = %d", tx.Money().Cents)
	}
	if (Transaction{Amount: "oops"}).Money().Cents != 0 {
		t.Fatalf("unparseable amount should count as zero")
	}
}

func TestTransactionDecodesAmountForms(t *testing.T) {
	raw := `[
		{"id":"a","type":"income","amount":1000,"category":"Salary","description":"pay","date":"2024-01-10","createdAt":"2024-01-10T09:00:00Z"},
		{"id":"b","type":"expense","amount":"400","category":"Food","description":"groceries","date":"2024-01-15","createdAt":"2024-01-15T09:00:00Z"},
		{"id":"c","type":"expense","amount":12.5,"category":"Food","description":"tea","date":"2024-01-16","createdAt":"2024-01-16T09:00:00Z"},
		{"id":"d","type":"expense","amount":null,"category":"Food","description":"?","date":"2024-01-17","createdAt":"2024-01-17T09:00:00Z"},
		{"id":"e","type":"expense","amount":true,"category":"Food","description":"?","date":"2024-01-18","createdAt":"2024-01-18T09:00:00Z"}
	]`
	var txs []Transaction
	if err := json.Unmarshal([]byte(raw), &txs); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	want := []struct {
		amount string
		cents  int64
	}{{"1000", 100000}, {"400", 40000}, {"12.5", 1250}, {"", 0}, {"", 0}}
	if len(txs) != len(want) {
		t.Fatalf("len = %d, want %d", len(txs), len(want))
	}
	for i, w := range want {
		if txs[i].Amount != w.amount || txs[i].Money().Cents != w.cents {
			t.Errorf("tx %d: amount=%q cents=%d, want %q %d", i, txs[i].Amount, txs[i].Money().Cents, w.amount, w.cents)
		}
	}
	if txs[0].ID != "a" || txs[0].Type != Income || txs[0].CreatedAt.IsZero() {
		t.Errorf("other fields not decoded: %+v", txs[0])
	}
}
