package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"tracker/internal/core"
	"tracker/internal/form"
	"tracker/internal/history"
	"tracker/internal/log"
)

// handleAPIListTransactions returns the filtered sequence, newest first.
func (s *Server) handleAPIListTransactions(w http.ResponseWriter, r *http.Request) {
	txs := history.Apply(s.ledger.Snapshot().Transactions, parseFilter(r.URL.Query()))
	if txs == nil {
		txs = []core.Transaction{}
	}
	NewResponse().JSON(txs).Write(w)
}

func (s *Server) handleAPICreateTransaction(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	p := NewRequestBodyParser(r)
	if err := p.Parse(); err != nil {
		NewResponse().Status(http.StatusBadRequest).JSONError("invalid request body").Write(w)
		return
	}

	f := bindForm(p, s.now)
	tx, err := f.Submit(ctx, s.ledger)
	switch {
	case core.IsValidation(err):
		NewResponse().Status(http.StatusUnprocessableEntity).JSONError(form.Message(err)).Write(w)
		return
	case err != nil:
		log.FromContext(ctx).ErrorContext(ctx, "Transaction save failed", log.FieldOperation, log.OpCreate, log.FieldError, err, "error_type", log.ErrorTypeStorage)
		NewResponse().Status(http.StatusInternalServerError).JSONError(form.Message(err)).Write(w)
		return
	}

	NewResponse().Status(http.StatusCreated).
		Header("Location", "/api/transactions/"+tx.ID).
		JSON(tx).
		Write(w)
}

func (s *Server) handleAPIGetTransaction(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	for _, tx := range s.ledger.Snapshot().Transactions {
		if tx.ID == id {
			NewResponse().JSON(tx).Write(w)
			return
		}
	}
	NewResponse().Status(http.StatusNotFound).JSONError("transaction not found").Write(w)
}

// handleAPIDeleteTransaction answers 204 when a record was removed and 404
// when no record had the ID.
func (s *Server) handleAPIDeleteTransaction(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := sanitizeInput(chi.URLParam(r, "id"))

	removed, err := s.ledger.Remove(ctx, id)
	if err != nil {
		log.FromContext(ctx).ErrorContext(ctx, "Transaction delete failed",
			log.FieldOperation, log.OpDelete, log.FieldTxID, id, log.FieldError, err)
		NewResponse().Status(http.StatusInternalServerError).JSONError("error deleting transaction").Write(w)
		return
	}
	if !removed {
		NewResponse().Status(http.StatusNotFound).JSONError("transaction not found").Write(w)
		return
	}
	NewResponse().Status(http.StatusNoContent).Write(w)
}

func (s *Server) handleAPIDashboard(w http.ResponseWriter, r *http.Request) {
	NewResponse().JSON(s.dash.View()).Write(w)
}
