package http

import (
	"net/http"

	"masareef/internal/core"
	"masareef/internal/services"
)

type createExpenseRequest struct {
	Amount        core.Money `json:"amount"`
	Category      string     `json:"category"`
	Description   string     `json:"description"`
	Date          core.Day   `json:"date"`
	Time          core.Clock `json:"time"`
	PaymentMethod string     `json:"paymentMethod"`
}

type updateExpenseRequest struct {
	Amount        *core.Money `json:"amount"`
	Category      *string     `json:"category"`
	Description   *string     `json:"description"`
	Date          *core.Day   `json:"date"`
	Time          *core.Clock `json:"time"`
	PaymentMethod *string     `json:"paymentMethod"`
	Archived      *bool       `json:"archived"`
}

type expenseListResponse struct {
	Expenses []expenseJSON `json:"expenses"`
	Loading  bool          `json:"loading"`
}

type dayExpensesResponse struct {
	Date     core.Day      `json:"date"`
	Expenses []expenseJSON `json:"expenses"`
	Total    core.Money    `json:"total"`
}

func (s *Server) handleListExpenses(w http.ResponseWriter, r *http.Request) {
	owner := ownerID(r)
	if err := s.expenses.EnsureLoaded(r.Context(), owner); err != nil {
		s.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, expenseListResponse{
		Expenses: toExpenseListJSON(s.expenses.Expenses(owner)),
		Loading:  s.expenses.Loading(owner),
	})
}

func (s *Server) handleCreateExpense(w http.ResponseWriter, r *http.Request) {
	var req createExpenseRequest
	if err := readJSON(w, r, &req); err != nil {
		badRequest(w, err)
		return
	}

	created, err := s.expenses.Add(r.Context(), ownerID(r), services.NewExpenseInput{
		Amount:        req.Amount,
		Category:      sanitizeInput(req.Category),
		Description:   sanitizeInput(req.Description),
		Date:          req.Date,
		Time:          req.Time,
		PaymentMethod: core.PaymentMethod(req.PaymentMethod),
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, toExpenseJSON(created))
}

func (s *Server) handleGetExpense(w http.ResponseWriter, r *http.Request) {
	e, err := s.expenses.Get(r.Context(), ownerID(r), r.PathValue("id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toExpenseJSON(e))
}

func (s *Server) handleUpdateExpense(w http.ResponseWriter, r *http.Request) {
	var req updateExpenseRequest
	if err := readJSON(w, r, &req); err != nil {
		badRequest(w, err)
		return
	}

	patch := services.ExpensePatch{
		ID:       r.PathValue("id"),
		Amount:   req.Amount,
		Date:     req.Date,
		Time:     req.Time,
		Archived: req.Archived,
	}
	if req.Category != nil {
		v := sanitizeInput(*req.Category)
		patch.Category = &v
	}
	if req.Description != nil {
		v := sanitizeInput(*req.Description)
		patch.Description = &v
	}
	if req.PaymentMethod != nil {
		v := core.PaymentMethod(*req.PaymentMethod)
		patch.PaymentMethod = &v
	}

	updated, err := s.expenses.Update(r.Context(), ownerID(r), patch)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toExpenseJSON(updated))
}

func (s *Server) handleDeleteExpense(w http.ResponseWriter, r *http.Request) {
	if err := s.expenses.Remove(r.Context(), ownerID(r), r.PathValue("id")); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleArchiveExpense(w http.ResponseWriter, r *http.Request) {
	if err := s.expenses.Archive(r.Context(), ownerID(r), r.PathValue("id")); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleExpensesByDay(w http.ResponseWriter, r *http.Request) {
	date := core.Day(r.PathValue("date"))
	if err := date.Validate(); err != nil {
		badRequest(w, err)
		return
	}

	owner := ownerID(r)
	if err := s.expenses.EnsureLoaded(r.Context(), owner); err != nil {
		s.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, dayExpensesResponse{
		Date:     date,
		Expenses: toExpenseListJSON(s.expenses.ExpensesByDate(owner, date)),
		Total:    s.expenses.TotalByDate(owner, date),
	})
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	owner := ownerID(r)
	if err := s.expenses.EnsureLoaded(r.Context(), owner); err != nil {
		s.writeError(w, r, err)
		return
	}

	totals := s.expenses.GroupedDailyTotals(owner)
	out := make([]dailyTotalJSON, 0, len(totals))
	for _, t := range totals {
		out = append(out, dailyTotalJSON{Date: t.Date, Total: t.Total})
	}
	writeJSON(w, http.StatusOK, out)
}
