package api

import (
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"github.com/fintrackhq/fintrack/internal/model"
)

func (s *Server) listGoals(w http.ResponseWriter, r *http.Request) {
	goals, err := s.tracker.ListGoals(r.Context())
	if err != nil {
		s.writeFailure(w, err, "", "Failed to fetch goals")
		return
	}
	s.writeJSON(w, http.StatusOK, goals)
}

type goalRequest struct {
	Title               string           `json:"title"`
	GoalType            string           `json:"goalType"`
	TargetAmount        decimal.Decimal  `json:"targetAmount"`
	CurrentAmount       decimal.Decimal  `json:"currentAmount"`
	TargetDate          *time.Time       `json:"targetDate"`
	Priority            string           `json:"priority"`
	Status              string           `json:"status"`
	AutoContribute      bool             `json:"autoContribute"`
	MonthlyContribution *decimal.Decimal `json:"monthlyContribution"`
}

func (s *Server) createGoal(w http.ResponseWriter, r *http.Request) {
	var in goalRequest
	if err := readJSON(r, &in); err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	g := model.Goal{
		UserID:              s.userID,
		Title:               in.Title,
		GoalType:            in.GoalType,
		TargetAmount:        in.TargetAmount,
		CurrentAmount:       in.CurrentAmount,
		TargetDate:          in.TargetDate,
		Priority:            in.Priority,
		Status:              in.Status,
		AutoContribute:      in.AutoContribute,
		MonthlyContribution: in.MonthlyContribution,
	}
	if err := s.tracker.AddGoal(r.Context(), &g); err != nil {
		s.writeFailure(w, err, "", "Failed to create goal")
		return
	}
	s.writeJSON(w, http.StatusCreated, g)
}

func (s *Server) updateGoal(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	var patch model.GoalPatch
	if err := readJSON(r, &patch); err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	g, err := s.tracker.UpdateGoal(r.Context(), id, patch)
	if err != nil {
		s.writeFailure(w, err, "Goal not found", "Failed to update goal")
		return
	}
	s.writeJSON(w, http.StatusOK, g)
}

func (s *Server) deleteGoal(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	deleted, err := s.tracker.DeleteGoal(r.Context(), id)
	if err != nil {
		s.writeFailure(w, err, "", "Failed to delete goal")
		return
	}
	if !deleted {
		s.writeError(w, http.StatusNotFound, "Goal not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
