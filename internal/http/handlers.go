package http

import (
	"context"
	"html/template"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"tracker/internal/core"
	"tracker/internal/dashboard"
	"tracker/internal/form"
	"tracker/internal/history"
	"tracker/internal/log"
)

type pageData struct {
	Title string
	Tab   string
	Data  any
}

type formPage struct {
	Form  *form.Form
	Types []core.Type
	Error string
}

type historyPage struct {
	Type   history.TypeFilter
	Search string
	// Query re-applies the filter after a delete. Built by url.Values.Encode.
	Query template.URL
	Rows  []dashboard.Row
}

// handleHealth performs basic liveness check
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	NewResponse().JSON(map[string]any{
		"status":    "ok",
		"timestamp": s.now().Format(time.RFC3339),
		"uptime":    s.now().Sub(s.started).Round(time.Second).String(),
	}).Write(w)
}

// handleReady reports whether templates are loaded and storage is reachable
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	status := "ready"
	httpStatus := http.StatusOK
	checks := make(map[string]any)

	if len(s.pages) == 0 {
		checks["templates"] = "failed: templates not loaded"
		status, httpStatus = "not_ready", http.StatusServiceUnavailable
	} else {
		checks["templates"] = "ok"
	}

	switch {
	case s.ready == nil:
		checks["storage"] = "not_configured"
	default:
		if err := s.ready.Ping(ctx); err != nil {
			log.FromContext(ctx).WarnContext(ctx, "Readiness check failed", log.FieldError, err)
			checks["storage"] = "failed: " + err.Error()
			status, httpStatus = "not_ready", http.StatusServiceUnavailable
		} else {
			checks["storage"] = "ok"
		}
	}

	checks["transactions"] = s.ledger.Snapshot().Len()
	checks["rate_limiter"] = s.limiter.GetMetrics()
	checks["security"] = s.detector.GetMetrics()
	checks["requests"] = s.tracer.GetMetrics()

	NewResponse().Status(httpStatus).JSON(map[string]any{
		"status":    status,
		"timestamp": s.now().Format(time.RFC3339),
		"checks":    checks,
	}).Write(w)
}

func (s *Server) handleRateLimited(w http.ResponseWriter, r *http.Request) {
	log.FromContext(r.Context()).WithComponent(log.ComponentSecurity).WarnContext(r.Context(),
		"Rate limit exceeded",
		log.FieldClientIP, s.detector.ExtractClientIP(r),
		log.FieldMethod, r.Method,
		log.FieldPath, r.URL.Path)

	resp := NewResponse().Status(http.StatusTooManyRequests).Header("Retry-After", "60")
	if isAPI(r) {
		resp.JSONError("rate limit exceeded, try again later")
	} else {
		resp.BodyString("Rate limit exceeded. Please try again later.")
	}
	resp.Write(w)
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/dashboard", http.StatusFound)
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, http.StatusOK, "dashboard", pageData{
		Title: "Dashboard",
		Tab:   "dashboard",
		Data:  s.dash.View(),
	})
}

// handleNewTransaction renders the entry form. ?type= switches the type and
// resets the category to that type's first entry.
func (s *Server) handleNewTransaction(w http.ResponseWriter, r *http.Request) {
	f := form.New(s.now)
	f.SetType(core.Type(r.URL.Query().Get("type")))
	s.renderForm(w, r, http.StatusOK, f, "")
}

func (s *Server) handleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := log.FromContext(ctx)

	p := NewRequestBodyParser(r)
	if err := p.Parse(); err != nil {
		logger.WarnContext(ctx, "Parse form error", log.FieldError, err)
		s.renderForm(w, r, http.StatusBadRequest, form.New(s.now), "Invalid request format")
		return
	}

	f := bindForm(p, s.now)
	_, err := f.Submit(ctx, s.ledger)
	if err != nil {
		status := http.StatusInternalServerError
		if core.IsValidation(err) {
			status = http.StatusUnprocessableEntity
			logger.InfoContext(ctx, "Transaction rejected", log.FieldOperation, log.OpValidate, log.FieldError, err, "error_type", log.ErrorTypeValidation)
		} else {
			logger.ErrorContext(ctx, "Transaction save failed", log.FieldOperation, log.OpCreate, log.FieldError, err, "error_type", log.ErrorTypeStorage)
		}
		if !f.Type.IsValid() {
			f.SetType(core.Expense)
		}
		s.renderForm(w, r, status, f, form.Message(err))
		return
	}

	http.Redirect(w, r, "/history", http.StatusSeeOther)
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	filter := parseFilter(r.URL.Query())
	snap := s.ledger.Snapshot()
	now := s.now()

	txs := history.Apply(snap.Transactions, filter)
	rows := make([]dashboard.Row, 0, len(txs))
	for _, tx := range txs {
		rows = append(rows, dashboard.NewRow(tx, now))
	}

	s.render(w, r, http.StatusOK, "history", pageData{
		Title: "History",
		Tab:   "history",
		Data: historyPage{
			Type:   filter.Type,
			Search: filter.Search,
			Query:  template.URL(filterQuery(filter)),
			Rows:   rows,
		},
	})
}

// handleDeleteTransaction removes one transaction and returns to the history
// page with the same filter. Unknown IDs are a no-op.
func (s *Server) handleDeleteTransaction(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := sanitizeInput(chi.URLParam(r, "id"))

	removed, err := s.ledger.Remove(ctx, id)
	if err != nil {
		log.FromContext(ctx).ErrorContext(ctx, "Transaction delete failed",
			log.FieldOperation, log.OpDelete, log.FieldTxID, id, log.FieldError, err)
		ErrorResponse(http.StatusInternalServerError, "Error deleting transaction").Write(w)
		return
	}
	log.FromContext(ctx).InfoContext(ctx, "Transaction delete",
		log.FieldOperation, log.OpDelete, log.FieldTxID, id, "removed", removed)

	target := "/history"
	if q := filterQuery(parseFilter(r.URL.Query())); q != "" {
		target += "?" + q
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}

func (s *Server) renderForm(w http.ResponseWriter, r *http.Request, status int, f *form.Form, msg string) {
	s.render(w, r, status, "form", pageData{
		Title: "Add Transaction",
		Tab:   "add",
		Data:  formPage{Form: f, Types: core.Types(), Error: msg},
	})
}

func (s *Server) render(w http.ResponseWriter, r *http.Request, status int, page string, data pageData) {
	ctx := r.Context()
	t, ok := s.pages[page]
	if !ok {
		log.FromContext(ctx).ErrorContext(ctx, "Template not loaded", log.FieldOperation, log.OpRender, "template", page, "error_type", log.ErrorTypeInternal)
		http.Error(w, "templates not loaded", http.StatusInternalServerError)
		return
	}

	var buf strings.Builder
	if err := t.ExecuteTemplate(&buf, "layout", data); err != nil {
		log.FromContext(ctx).WithComponent(log.ComponentTemplate).ErrorContext(ctx, "Template execution failed",
			log.FieldOperation, log.OpRender, "template", page, log.FieldError, err, "error_type", log.ErrorTypeInternal)
		http.Error(w, "error rendering page", http.StatusInternalServerError)
		return
	}
	NewResponse().Status(status).BodyHTML(buf.String()).Write(w)
}

func parseFilter(q url.Values) history.Filter {
	return history.Filter{
		Type:   history.ParseTypeFilter(q.Get("type")),
		Search: stripControl(q.Get("q")),
	}
}

// filterQuery encodes the non-default parts of f.
func filterQuery(f history.Filter) string {
	v := url.Values{}
	if f.Type != history.All && f.Type != "" {
		v.Set("type", string(f.Type))
	}
	if f.Search != "" {
		v.Set("q", f.Search)
	}
	return v.Encode()
}
