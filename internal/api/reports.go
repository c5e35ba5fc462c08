package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mdtanveer0786/roommate-expense-tracker/internal/service"
)

// ReportsHandler handles the read-side report endpoints.
type ReportsHandler struct {
	reports *service.ReportService
}

// NewReportsHandler creates a new ReportsHandler.
func NewReportsHandler(reports *service.ReportService) *ReportsHandler {
	return &ReportsHandler{reports: reports}
}

// Categories handles GET /api/v1/reports/categories with an optional
// ?month=YYYY-MM filter.
func (h *ReportsHandler) Categories(w http.ResponseWriter, r *http.Request) {
	rows, err := h.reports.Categories(r.Context(), r.URL.Query().Get("month"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"categories": rows})
}

// Members handles GET /api/v1/reports/members.
func (h *ReportsHandler) Members(w http.ResponseWriter, r *http.Request) {
	rows, err := h.reports.Members(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"members": rows})
}

// Monthly handles GET /api/v1/reports/monthly.
func (h *ReportsHandler) Monthly(w http.ResponseWriter, r *http.Request) {
	rows, err := h.reports.Monthly(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"months": rows})
}

// MonthsHandler handles the month bucket overview and lock endpoints.
type MonthsHandler struct {
	reports  *service.ReportService
	expenses *service.ExpenseService
}

// NewMonthsHandler creates a new MonthsHandler.
func NewMonthsHandler(reports *service.ReportService, expenses *service.ExpenseService) *MonthsHandler {
	return &MonthsHandler{reports: reports, expenses: expenses}
}

// List handles GET /api/v1/months.
func (h *MonthsHandler) List(w http.ResponseWriter, r *http.Request) {
	months, err := h.reports.Months(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"months": months})
}

// Lock handles PUT /api/v1/months/{key}/lock.
func (h *MonthsHandler) Lock(w http.ResponseWriter, r *http.Request) {
	if err := h.expenses.LockMonth(r.Context(), chi.URLParam(r, "key")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Unlock handles DELETE /api/v1/months/{key}/lock.
func (h *MonthsHandler) Unlock(w http.ResponseWriter, r *http.Request) {
	if err := h.expenses.UnlockMonth(r.Context(), chi.URLParam(r, "key")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
