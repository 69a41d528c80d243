package api

import (
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"github.com/fintrackhq/fintrack/internal/model"
)

func (s *Server) listBudgets(w http.ResponseWriter, r *http.Request) {
	budgets, err := s.tracker.ListBudgets(r.Context())
	if err != nil {
		s.writeFailure(w, err, "", "Failed to fetch budgets")
		return
	}
	s.writeJSON(w, http.StatusOK, budgets)
}

type budgetRequest struct {
	Name           string             `json:"name"`
	CategoryID     *int64             `json:"categoryId"`
	BudgetType     string             `json:"budgetType"`
	TargetAmount   decimal.Decimal    `json:"targetAmount"`
	CurrentAmount  decimal.Decimal    `json:"currentAmount"`
	Period         model.BudgetPeriod `json:"period"`
	StartDate      time.Time          `json:"startDate"`
	EndDate        time.Time          `json:"endDate"`
	AlertThreshold decimal.Decimal    `json:"alertThreshold"`
	IsActive       *bool              `json:"isActive"`
}

func (s *Server) createBudget(w http.ResponseWriter, r *http.Request) {
	var in budgetRequest
	if err := readJSON(r, &in); err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	active := true
	if in.IsActive != nil {
		active = *in.IsActive
	}
	b := model.Budget{
		UserID:         s.userID,
		Name:           in.Name,
		CategoryID:     in.CategoryID,
		BudgetType:     in.BudgetType,
		TargetAmount:   in.TargetAmount,
		CurrentAmount:  in.CurrentAmount,
		Period:         in.Period,
		StartDate:      in.StartDate,
		EndDate:        in.EndDate,
		AlertThreshold: in.AlertThreshold,
		IsActive:       active,
	}
	if err := s.tracker.AddBudget(r.Context(), &b); err != nil {
		s.writeFailure(w, err, "", "Failed to create budget")
		return
	}
	s.writeJSON(w, http.StatusCreated, b)
}

func (s *Server) updateBudget(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	var patch model.BudgetPatch
	if err := readJSON(r, &patch); err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	b, err := s.tracker.UpdateBudget(r.Context(), id, patch)
	if err != nil {
		s.writeFailure(w, err, "Budget not found", "Failed to update budget")
		return
	}
	s.writeJSON(w, http.StatusOK, b)
}

func (s *Server) deleteBudget(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	deleted, err := s.tracker.DeleteBudget(r.Context(), id)
	if err != nil {
		s.writeFailure(w, err, "", "Failed to delete budget")
		return
	}
	if !deleted {
		s.writeError(w, http.StatusNotFound, "Budget not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
