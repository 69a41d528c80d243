package api

import (
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"github.com/fintrackhq/fintrack/internal/model"
)

func (s *Server) listLoans(w http.ResponseWriter, r *http.Request) {
	loans, err := s.tracker.ListLoans(r.Context())
	if err != nil {
		s.writeFailure(w, err, "", "Failed to fetch loans")
		return
	}
	s.writeJSON(w, http.StatusOK, loans)
}

func (s *Server) getLoan(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	loan, err := s.tracker.GetLoan(r.Context(), id)
	if err != nil {
		s.writeFailure(w, err, "Loan not found", "Failed to fetch loan")
		return
	}
	s.writeJSON(w, http.StatusOK, loan)
}

type loanRequest struct {
	Name            string           `json:"name"`
	TotalAmount     decimal.Decimal  `json:"totalAmount"`
	RemainingAmount decimal.Decimal  `json:"remainingAmount"`
	InterestRate    *decimal.Decimal `json:"interestRate"`
	MonthlyPayment  *decimal.Decimal `json:"monthlyPayment"`
	DueDate         *time.Time       `json:"dueDate"`
	Status          model.LoanStatus `json:"status"`
}

func (s *Server) createLoan(w http.ResponseWriter, r *http.Request) {
	var in loanRequest
	if err := readJSON(r, &in); err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	l := model.Loan{
		Name:            in.Name,
		TotalAmount:     in.TotalAmount,
		RemainingAmount: in.RemainingAmount,
		InterestRate:    in.InterestRate,
		MonthlyPayment:  in.MonthlyPayment,
		DueDate:         in.DueDate,
		Status:          in.Status,
	}
	if err := s.tracker.AddLoan(r.Context(), &l); err != nil {
		s.writeFailure(w, err, "", "Failed to create loan")
		return
	}
	s.writeJSON(w, http.StatusCreated, l)
}

func (s *Server) updateLoan(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	var patch model.LoanPatch
	if err := readJSON(r, &patch); err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	loan, err := s.tracker.UpdateLoan(r.Context(), id, patch)
	if err != nil {
		s.writeFailure(w, err, "Loan not found", "Failed to update loan")
		return
	}
	s.writeJSON(w, http.StatusOK, loan)
}

func (s *Server) deleteLoan(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	deleted, err := s.tracker.DeleteLoan(r.Context(), id)
	if err != nil {
		s.writeFailure(w, err, "", "Failed to delete loan")
		return
	}
	if !deleted {
		s.writeError(w, http.StatusNotFound, "Loan not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
