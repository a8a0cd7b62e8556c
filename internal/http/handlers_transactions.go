package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"cuzdan/internal/core"
	"cuzdan/internal/log"
)

func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	p, err := s.profileFromPath(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, s.store.ProfileTransactions(p.ID))
}

func (s *Server) handleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	in, err := decodeTransaction(w, r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	t, err := s.store.AddTransaction(r.Context(), chi.URLParam(r, "profileID"), in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	logTransaction(r, "Transaction created", log.OpCreate, t)
	writeJSON(w, http.StatusCreated, t)
}

func (s *Server) handleUpdateTransaction(w http.ResponseWriter, r *http.Request) {
	in, err := decodeTransaction(w, r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	t, err := s.store.UpdateTransaction(r.Context(), chi.URLParam(r, "transactionID"), in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	logTransaction(r, "Transaction updated", log.OpUpdate, t)
	writeJSON(w, http.StatusOK, t)
}

// handleDeleteTransaction is idempotent: unknown transactions also answer 204.
func (s *Server) handleDeleteTransaction(w http.ResponseWriter, r *http.Request) {
	s.store.DeleteTransaction(r.Context(), chi.URLParam(r, "transactionID"))
	w.WriteHeader(http.StatusNoContent)
}

func decodeTransaction(w http.ResponseWriter, r *http.Request) (core.TransactionInput, error) {
	var req transactionRequest
	if err := decodeJSON(w, r, &req); err != nil {
		return core.TransactionInput{}, err
	}
	return req.input()
}

func logTransaction(r *http.Request, msg, op string, t core.Transaction) {
	fields := log.NewFields().
		WithOperation(op).
		WithTransaction(t.ID, t.ProfileID, string(t.Type), string(t.Category), t.Amount.StringFixed(2), t.IsRecurring)
	log.FromContext(r.Context()).InfoContext(r.Context(), msg, fields.ToSlice()...)
}
