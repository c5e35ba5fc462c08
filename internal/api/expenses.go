package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mdtanveer0786/roommate-expense-tracker/internal/models"
	"github.com/mdtanveer0786/roommate-expense-tracker/internal/service"
)

// ExpensesHandler handles expense endpoints.
type ExpensesHandler struct {
	expenses *service.ExpenseService
}

// NewExpensesHandler creates a new ExpensesHandler.
func NewExpensesHandler(expenses *service.ExpenseService) *ExpensesHandler {
	return &ExpensesHandler{expenses: expenses}
}

// List handles GET /api/v1/expenses with an optional ?month=YYYY-MM filter.
func (h *ExpensesHandler) List(w http.ResponseWriter, r *http.Request) {
	expenses, err := h.expenses.ListExpenses(r.Context(), r.URL.Query().Get("month"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"expenses": expenses})
}

// Create handles POST /api/v1/expenses. The response carries the resolved
// shares.
func (h *ExpensesHandler) Create(w http.ResponseWriter, r *http.Request) {
	var expense models.Expense
	if err := json.NewDecoder(r.Body).Decode(&expense); err != nil {
		writeBadRequest(w, "failed to parse request body")
		return
	}
	expense.ID = ""

	if err := h.expenses.CreateExpense(r.Context(), &expense); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"expense": expense})
}

// Get handles GET /api/v1/expenses/{id}.
func (h *ExpensesHandler) Get(w http.ResponseWriter, r *http.Request) {
	expense, err := h.expenses.GetExpense(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"expense": expense})
}

// Update handles PUT /api/v1/expenses/{id}.
func (h *ExpensesHandler) Update(w http.ResponseWriter, r *http.Request) {
	var expense models.Expense
	if err := json.NewDecoder(r.Body).Decode(&expense); err != nil {
		writeBadRequest(w, "failed to parse request body")
		return
	}
	expense.ID = chi.URLParam(r, "id")

	if err := h.expenses.UpdateExpense(r.Context(), &expense); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"expense": expense})
}

// Delete handles DELETE /api/v1/expenses/{id}.
func (h *ExpensesHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.expenses.DeleteExpense(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
