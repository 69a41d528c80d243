package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/fintrackhq/fintrack/internal/model"
	"github.com/fintrackhq/fintrack/internal/repository"
)

// errorResponse is the error body shape: message always, per-field
// errors only for validation failures.
type errorResponse struct {
	Message string             `json:"message"`
	Errors  []model.FieldError `json:"errors,omitempty"`
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("failed to encode response", "error", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, errorResponse{Message: message})
}

// writeFailure maps a service error onto the response taxonomy:
// validation → 400 with field detail, not-found → 404, anything
// else → 500 with the generic message only.
func (s *Server) writeFailure(w http.ResponseWriter, err error, notFoundMsg, failMsg string) {
	var vErr *model.ValidationError
	switch {
	case errors.As(err, &vErr):
		s.writeJSON(w, http.StatusBadRequest, errorResponse{
			Message: "Invalid input",
			Errors:  vErr.Fields,
		})
	case errors.Is(err, repository.ErrNotFound):
		s.writeError(w, http.StatusNotFound, notFoundMsg)
	default:
		s.logger.Error(failMsg, "error", err)
		s.writeError(w, http.StatusInternalServerError, failMsg)
	}
}

func readJSON(r *http.Request, v any) error {
	defer r.Body.Close()
	if err := json.NewDecoder(http.MaxBytesReader(nil, r.Body, 1<<20)).Decode(v); err != nil {
		return fmt.Errorf("invalid JSON body: %w", err)
	}
	return nil
}

func pathID(r *http.Request) (int64, error) {
	raw := mux.Vars(r)["id"]
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", raw)
	}
	return id, nil
}

// parseTime accepts RFC 3339 or a bare date.
func parseTime(raw string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", raw)
}

// parseDateRange reads optional startDate/endDate query parameters.
// Either both are present or neither.
func parseDateRange(r *http.Request) (*repository.DateRange, error) {
	startRaw := r.URL.Query().Get("startDate")
	endRaw := r.URL.Query().Get("endDate")
	if startRaw == "" && endRaw == "" {
		return nil, nil
	}
	if startRaw == "" || endRaw == "" {
		return nil, fmt.Errorf("startDate and endDate must be supplied together")
	}
	start, err := parseTime(startRaw)
	if err != nil {
		return nil, fmt.Errorf("invalid startDate: %w", err)
	}
	end, err := parseTime(endRaw)
	if err != nil {
		return nil, fmt.Errorf("invalid endDate: %w", err)
	}
	return &repository.DateRange{Start: start, End: end}, nil
}
