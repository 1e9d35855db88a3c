package core

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"time"
)

const (
	Income  Type = "income"
	Expense Type = "expense"
)

// DateLayout is the calendar date format used for Transaction.Date.
const DateLayout = "2006-01-02"

type (
	Type string

	// Transaction is a single recorded income or expense. Records are never
	// mutated after creation.
	Transaction struct {
		ID          string    `json:"id"`
		Type        Type      `json:"type"`
		Amount      string    `json:"amount"`
		Category    string    `json:"category"`
		Description string    `json:"description"`
		Date        string    `json:"date"`
		CreatedAt   time.Time `json:"createdAt"`
	}

	// Draft holds the user-entered fields of a transaction before an ID and
	// creation timestamp are assigned.
	Draft struct {
		Type        Type
		Amount      string
		Category    string
		Description string
		Date        string
	}
)

var (
	ErrEmptyAmount      = errors.New("empty amount")
	ErrEmptyDescription = errors.New("empty description")
	ErrInvalidAmount    = errors.New("invalid amount")
	ErrInvalidType      = errors.New("invalid transaction type")
	ErrInvalidDate      = errors.New("invalid date")
)

var categories = map[Type][]string{
	Income:  {"Salary", "Freelance", "Investment", "Gift", "Other Income"},
	Expense: {"Food", "Transport", "Entertainment", "Shopping", "Bills", "Healthcare", "Education", "Other Expense"},
}

// Types returns the transaction types in display order.
func Types() []Type {
	return []Type{Income, Expense}
}

func (t Type) IsValid() bool {
	switch t {
	case Income, Expense:
		return true
	default:
		return false
	}
}

func (t Type) String() string {
	return string(t)
}

// Categories returns a copy of the fixed vocabulary for t.
func Categories(t Type) []string {
	return append([]string(nil), categories[t]...)
}

// DefaultCategory returns the first category of t's vocabulary.
func DefaultCategory(t Type) string {
	if cats := categories[t]; len(cats) > 0 {
		return cats[0]
	}
	return ""
}

// CategoryKnown reports whether category belongs to t's vocabulary. Persisted
// records with unknown categories are kept as they are.
func CategoryKnown(t Type, category string) bool {
	for _, c := range categories[t] {
		if c == category {
			return true
		}
	}
	return false
}

// Month returns the year-month bucket key of the transaction date.
func (t Transaction) Month() string {
	if len(t.Date) < 7 {
		return t.Date
	}
	return t.Date[:7]
}

// UnmarshalJSON accepts the amount as a JSON string or a JSON number. A
// number keeps its literal text. Any other amount value decodes as empty and
// counts as zero.
func (t *Transaction) UnmarshalJSON(b []byte) error {
	type plain Transaction
	var aux struct {
		plain
		Amount json.RawMessage `json:"amount"`
	}
	if err := json.Unmarshal(b, &aux); err != nil {
		return err
	}
	*t = Transaction(aux.plain)
	t.Amount = amountText(aux.Amount)
	return nil
}

func amountText(raw json.RawMessage) string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return ""
	}
	switch raw[0] {
	case '"':
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return ""
		}
		return s
	case '-', '0', '1', '2', '3', '4', '5', '6', '7', '8', '9':
		var n json.Number
		if err := json.Unmarshal(raw, &n); err != nil {
			return ""
		}
		return n.String()
	default:
		return ""
	}
}

// Money parses the stored amount text. Amounts that fail to parse count as zero.
func (t Transaction) Money() Money {
	m, err := ParseMoney(t.Amount)
	if err != nil {
		return Money{}
	}
	return m
}

func (d Draft) Validate() error {
	if !d.Type.IsValid() {
		return ErrInvalidType
	}
	if strings.TrimSpace(d.Amount) == "" {
		return ErrEmptyAmount
	}
	if strings.TrimSpace(d.Description) == "" {
		return ErrEmptyDescription
	}
	if _, err := ParseMoney(d.Amount); err != nil {
		return err
	}
	if _, err := time.Parse(DateLayout, d.Date); err != nil {
		return ErrInvalidDate
	}
	return nil
}

// IsValidation reports whether err is one of the draft validation errors.
func IsValidation(err error) bool {
	return errors.Is(err, ErrEmptyAmount) ||
		errors.Is(err, ErrEmptyDescription) ||
		errors.Is(err, ErrInvalidAmount) ||
		errors.Is(err, ErrInvalidType) ||
		errors.Is(err, ErrInvalidDate)
}
