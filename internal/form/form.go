// Package form holds the state of the "add transaction" entry form.
package form

import (
	"context"
	"errors"
	"strings"
	"time"

	"tracker/internal/core"
)

// Adder accepts a validated draft. *ledger.Store implements it.
type Adder interface {
	Add(ctx context.Context, d core.Draft) (core.Transaction, error)
}

// Form is the entry form's field set. Changing the type resets the category
// to that type's default; a successful submit resets every field.
type Form struct {
	Type        core.Type
	Amount      string
	Category    string
	Description string
	Date        string

	now func() time.Time
}

// New returns a form with the default fields: an expense in the first
// expense category dated today.
func New(now func() time.Time) *Form {
	if now == nil {
		now = time.Now
	}
	f := &Form{now: now}
	f.Reset()
	return f
}

// Reset restores the default fields.
func (f *Form) Reset() {
	f.Type = core.Expense
	f.Amount = ""
	f.Category = core.DefaultCategory(core.Expense)
	f.Description = ""
	f.Date = f.now().Format(core.DateLayout)
}

// SetType switches the type and resets the category to the first entry of
// the new type's vocabulary. Unknown types are ignored.
func (f *Form) SetType(t core.Type) {
	if !t.IsValid() {
		return
	}
	f.Type = t
	f.Category = core.DefaultCategory(t)
}

// Categories returns the vocabulary for the current type.
func (f *Form) Categories() []string {
	return core.Categories(f.Type)
}

// Draft builds a draft from the current fields.
func (f *Form) Draft() core.Draft {
	return core.Draft{
		Type:        f.Type,
		Amount:      strings.TrimSpace(f.Amount),
		Category:    f.Category,
		Description: strings.TrimSpace(f.Description),
		Date:        f.Date,
	}
}

// Submit validates the fields and hands the draft to a. On validation or
// add failure the fields are kept so the user can correct them.
func (f *Form) Submit(ctx context.Context, a Adder) (core.Transaction, error) {
	d := f.Draft()
	if err := d.Validate(); err != nil {
		return core.Transaction{}, err
	}
	tx, err := a.Add(ctx, d)
	if err != nil {
		return core.Transaction{}, err
	}
	f.Reset()
	return tx, nil
}

// Message returns the user-facing text for a submit error.
func Message(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, core.ErrEmptyAmount), errors.Is(err, core.ErrEmptyDescription):
		return "Please fill in all fields"
	case core.IsValidation(err):
		return "Invalid data: " + err.Error()
	default:
		return "Error saving transaction"
	}
}
