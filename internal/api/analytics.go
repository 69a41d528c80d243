package api

import (
	"net/http"

	"github.com/fintrackhq/fintrack/internal/model"
)

func (s *Server) analyticsOverview(w http.ResponseWriter, r *http.Request) {
	rng, err := parseDateRange(r)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	overview, err := s.tracker.Overview(r.Context(), rng)
	if err != nil {
		s.writeFailure(w, err, "", "Failed to fetch analytics overview")
		return
	}
	s.writeJSON(w, http.StatusOK, overview)
}

func (s *Server) categoryBreakdown(w http.ResponseWriter, r *http.Request) {
	t := model.TransactionType(r.URL.Query().Get("type"))
	if t != "" && !t.Valid() {
		s.writeError(w, http.StatusBadRequest, "Unknown transaction type")
		return
	}
	rng, err := parseDateRange(r)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	breakdown, err := s.tracker.CategoryBreakdown(r.Context(), t, rng)
	if err != nil {
		s.writeFailure(w, err, "", "Failed to fetch category breakdown")
		return
	}
	s.writeJSON(w, http.StatusOK, breakdown)
}

func (s *Server) categoryChart(w http.ResponseWriter, r *http.Request) {
	t := model.TransactionType(r.URL.Query().Get("type"))
	if t == "" {
		t = model.TypeExpense
	}
	if !t.Valid() {
		s.writeError(w, http.StatusBadRequest, "Unknown transaction type")
		return
	}
	rng, err := parseDateRange(r)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	breakdown, err := s.tracker.CategoryBreakdown(r.Context(), t, rng)
	if err != nil {
		s.writeFailure(w, err, "", "Failed to fetch category breakdown")
		return
	}
	png, err := s.charts.CategoryBreakdown("Spending by category", breakdown)
	if err != nil {
		s.writeFailure(w, err, "", "Failed to render chart")
		return
	}
	if png == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(png); err != nil {
		s.logger.Error("failed to write chart response", "error", err)
	}
}

func (s *Server) exportTransactions(w http.ResponseWriter, r *http.Request) {
	csvBytes, err := s.tracker.ExportTransactionsCSV(r.Context())
	if err != nil {
		s.writeFailure(w, err, "", "Failed to export transactions")
		return
	}
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename=transactions.csv`)
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(csvBytes); err != nil {
		s.logger.Error("failed to write export response", "error", err)
	}
}
