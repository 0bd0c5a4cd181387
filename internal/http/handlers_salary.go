package http

import (
	"net/http"

	"masareef/internal/core"
	"masareef/internal/services"
)

type createSalaryRequest struct {
	Amount core.Money `json:"amount"`
	Month  core.Month `json:"month"`
	Notes  string     `json:"notes"`
}

type updateSalaryRequest struct {
	Amount *core.Money `json:"amount"`
	Month  *core.Month `json:"month"`
	Notes  *string     `json:"notes"`
}

type salaryListResponse struct {
	Salaries []salaryJSON `json:"salaries"`
	Total    core.Money   `json:"total"`
	Loading  bool         `json:"loading"`
}

func (s *Server) handleListSalaries(w http.ResponseWriter, r *http.Request) {
	owner := ownerID(r)
	if err := s.salaries.EnsureLoaded(r.Context(), owner); err != nil {
		s.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, salaryListResponse{
		Salaries: toSalaryListJSON(s.salaries.Salaries(owner)),
		Total:    s.salaries.Total(owner),
		Loading:  s.salaries.Loading(owner),
	})
}

func (s *Server) handleCreateSalary(w http.ResponseWriter, r *http.Request) {
	var req createSalaryRequest
	if err := readJSON(w, r, &req); err != nil {
		badRequest(w, err)
		return
	}

	created, err := s.salaries.Add(r.Context(), ownerID(r), services.NewSalaryInput{
		Amount: req.Amount,
		Month:  req.Month,
		Notes:  sanitizeInput(req.Notes),
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, toSalaryJSON(created))
}

func (s *Server) handleGetSalary(w http.ResponseWriter, r *http.Request) {
	sal, err := s.salaries.Get(r.Context(), ownerID(r), r.PathValue("id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toSalaryJSON(sal))
}

func (s *Server) handleUpdateSalary(w http.ResponseWriter, r *http.Request) {
	var req updateSalaryRequest
	if err := readJSON(w, r, &req); err != nil {
		badRequest(w, err)
		return
	}

	patch := services.SalaryPatch{
		ID:     r.PathValue("id"),
		Amount: req.Amount,
		Month:  req.Month,
	}
	if req.Notes != nil {
		v := sanitizeInput(*req.Notes)
		patch.Notes = &v
	}

	updated, err := s.salaries.Update(r.Context(), ownerID(r), patch)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toSalaryJSON(updated))
}

func (s *Server) handleDeleteSalary(w http.ResponseWriter, r *http.Request) {
	if err := s.salaries.Remove(r.Context(), ownerID(r), r.PathValue("id")); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleSalaryMonths(w http.ResponseWriter, r *http.Request) {
	owner := ownerID(r)
	if err := s.salaries.EnsureLoaded(r.Context(), owner); err != nil {
		s.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toMonthGroupListJSON(s.salaries.SalariesByMonth(owner)))
}
