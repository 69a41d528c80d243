package api

import (
	"net/http"

	"github.com/fintrackhq/fintrack/internal/model"
)

func (s *Server) listCategories(w http.ResponseWriter, r *http.Request) {
	typeFilter := model.TransactionType(r.URL.Query().Get("type"))
	if typeFilter != "" && !typeFilter.Valid() {
		s.writeError(w, http.StatusBadRequest, "Unknown category type")
		return
	}
	cats, err := s.tracker.ListCategories(r.Context(), typeFilter)
	if err != nil {
		s.writeFailure(w, err, "", "Failed to fetch categories")
		return
	}
	s.writeJSON(w, http.StatusOK, cats)
}

type categoryRequest struct {
	Name  string                `json:"name"`
	Type  model.TransactionType `json:"type"`
	Color string                `json:"color"`
	Icon  string                `json:"icon"`
}

func (s *Server) createCategory(w http.ResponseWriter, r *http.Request) {
	var in categoryRequest
	if err := readJSON(r, &in); err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	c := model.Category{Name: in.Name, Type: in.Type, Color: in.Color, Icon: in.Icon}
	if err := s.tracker.AddCategory(r.Context(), &c); err != nil {
		s.writeFailure(w, err, "", "Failed to create category")
		return
	}
	s.writeJSON(w, http.StatusCreated, c)
}

func (s *Server) updateCategory(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	var patch model.CategoryPatch
	if err := readJSON(r, &patch); err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	c, err := s.tracker.UpdateCategory(r.Context(), id, patch)
	if err != nil {
		s.writeFailure(w, err, "Category not found", "Failed to update category")
		return
	}
	s.writeJSON(w, http.StatusOK, c)
}

func (s *Server) deleteCategory(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	deleted, err := s.tracker.DeleteCategory(r.Context(), id)
	if err != nil {
		s.writeFailure(w, err, "", "Failed to delete category")
		return
	}
	if !deleted {
		s.writeError(w, http.StatusNotFound, "Category not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
