package http

import (
	"net/http"
	"strings"
	"time"

	"tracker/internal/core"
	"tracker/internal/form"
)

// sanitizeInput removes control characters and trims whitespace.
func sanitizeInput(s string) string {
	return stripControl(strings.TrimSpace(s))
}

// stripControl removes control characters except tab, newline and carriage
// return. Surrounding whitespace is kept.
func stripControl(s string) string {
	return strings.Map(func(r rune) rune {
		if r < 32 && r != 9 && r != 10 && r != 13 {
			return -1
		}
		return r
	}, s)
}

// bindForm copies submitted fields onto a fresh form. The type is taken as
// given so an unknown value fails validation instead of falling back to the
// default; a missing category or date falls back to the form default.
func bindForm(p *RequestBodyParser, now func() time.Time) *form.Form {
	f := form.New(now)
	if t := core.Type(strings.ToLower(p.Get("type"))); t != "" {
		f.Type = t
		f.Category = core.DefaultCategory(t)
	}
	if c := p.Get("category"); c != "" {
		f.Category = c
	}
	f.Amount = p.Get("amount")
	f.Description = p.Get("description")
	if d := p.Get("date"); d != "" {
		f.Date = d
	}
	return f
}

func isAPI(r *http.Request) bool {
	return strings.HasPrefix(r.URL.Path, "/api/")
}
