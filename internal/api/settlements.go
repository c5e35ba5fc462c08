package api

import (
	"encoding/json"
	"net/http"

	"github.com/mdtanveer0786/roommate-expense-tracker/internal/models"
	"github.com/mdtanveer0786/roommate-expense-tracker/internal/service"
)

// SettlementsHandler handles balance and settlement endpoints.
type SettlementsHandler struct {
	settlements *service.SettlementService
}

// NewSettlementsHandler creates a new SettlementsHandler.
func NewSettlementsHandler(settlements *service.SettlementService) *SettlementsHandler {
	return &SettlementsHandler{settlements: settlements}
}

// Balances handles GET /api/v1/balances.
func (h *SettlementsHandler) Balances(w http.ResponseWriter, r *http.Request) {
	balances, err := h.settlements.Balances(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"balances": balances})
}

// Plan handles GET /api/v1/settlements/plan.
func (h *SettlementsHandler) Plan(w http.ResponseWriter, r *http.Request) {
	plan, err := h.settlements.Plan(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"plan": plan})
}

// Record handles POST /api/v1/settlements/record. The response carries the
// materialized Settlement expense.
func (h *SettlementsHandler) Record(w http.ResponseWriter, r *http.Request) {
	var instruction models.SettlementInstruction
	if err := json.NewDecoder(r.Body).Decode(&instruction); err != nil {
		writeBadRequest(w, "failed to parse request body")
		return
	}

	expense, err := h.settlements.RecordSettlement(r.Context(), instruction)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"expense": expense})
}
