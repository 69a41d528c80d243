package api

import (
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"github.com/fintrackhq/fintrack/internal/model"
	"github.com/fintrackhq/fintrack/internal/repository"
)

func (s *Server) listTransactions(w http.ResponseWriter, r *http.Request) {
	filter := repository.TransactionFilter{
		Type: model.TransactionType(r.URL.Query().Get("type")),
	}
	if filter.Type != "" && !filter.Type.Valid() {
		s.writeError(w, http.StatusBadRequest, "Unknown transaction type")
		return
	}
	rng, err := parseDateRange(r)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if rng != nil {
		filter.StartDate = &rng.Start
		filter.EndDate = &rng.End
	}

	txs, err := s.tracker.ListTransactions(r.Context(), filter)
	if err != nil {
		s.writeFailure(w, err, "", "Failed to fetch transactions")
		return
	}
	s.writeJSON(w, http.StatusOK, txs)
}

// transactionRequest is the creation payload; id and createdAt are
// server-assigned and ignored if sent.
type transactionRequest struct {
	Type        model.TransactionType `json:"type"`
	Amount      decimal.Decimal       `json:"amount"`
	Category    string                `json:"category"`
	Description string                `json:"description"`
	Date        time.Time             `json:"date"`
}

func (s *Server) createTransaction(w http.ResponseWriter, r *http.Request) {
	var in transactionRequest
	if err := readJSON(r, &in); err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	t := model.Transaction{
		Type:        in.Type,
		Amount:      in.Amount,
		Category:    in.Category,
		Description: in.Description,
		Date:        in.Date,
	}
	if err := s.tracker.AddTransaction(r.Context(), &t); err != nil {
		s.writeFailure(w, err, "", "Failed to create transaction")
		return
	}
	s.writeJSON(w, http.StatusCreated, t)
}

func (s *Server) updateTransaction(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	var patch model.TransactionPatch
	if err := readJSON(r, &patch); err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	t, err := s.tracker.UpdateTransaction(r.Context(), id, patch)
	if err != nil {
		s.writeFailure(w, err, "Transaction not found", "Failed to update transaction")
		return
	}
	s.writeJSON(w, http.StatusOK, t)
}

func (s *Server) deleteTransaction(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	deleted, err := s.tracker.DeleteTransaction(r.Context(), id)
	if err != nil {
		s.writeFailure(w, err, "", "Failed to delete transaction")
		return
	}
	if !deleted {
		s.writeError(w, http.StatusNotFound, "Transaction not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
