package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mdtanveer0786/roommate-expense-tracker/internal/models"
	"github.com/mdtanveer0786/roommate-expense-tracker/internal/service"
)

// MembersHandler handles roster and absence endpoints.
type MembersHandler struct {
	members *service.MemberService
}

// NewMembersHandler creates a new MembersHandler.
func NewMembersHandler(members *service.MemberService) *MembersHandler {
	return &MembersHandler{members: members}
}

// List handles GET /api/v1/members.
func (h *MembersHandler) List(w http.ResponseWriter, r *http.Request) {
	roster, err := h.members.ListMembers(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"members": roster})
}

// Create handles POST /api/v1/members.
func (h *MembersHandler) Create(w http.ResponseWriter, r *http.Request) {
	var member models.Member
	if err := json.NewDecoder(r.Body).Decode(&member); err != nil {
		writeBadRequest(w, "failed to parse request body")
		return
	}
	member.ID = ""

	if err := h.members.CreateMember(r.Context(), &member); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"member": member})
}

// Get handles GET /api/v1/members/{id}.
func (h *MembersHandler) Get(w http.ResponseWriter, r *http.Request) {
	member, err := h.members.GetMember(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"member": member})
}

// Update handles PUT /api/v1/members/{id}.
func (h *MembersHandler) Update(w http.ResponseWriter, r *http.Request) {
	var member models.Member
	if err := json.NewDecoder(r.Body).Decode(&member); err != nil {
		writeBadRequest(w, "failed to parse request body")
		return
	}
	member.ID = chi.URLParam(r, "id")

	if err := h.members.UpdateMember(r.Context(), &member); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"member": member})
}

// Delete handles DELETE /api/v1/members/{id}.
func (h *MembersHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.members.DeleteMember(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListAbsences handles GET /api/v1/members/{id}/absences.
func (h *MembersHandler) ListAbsences(w http.ResponseWriter, r *http.Request) {
	absences, err := h.members.ListAbsences(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"absences": absences})
}

// CreateAbsence handles POST /api/v1/members/{id}/absences.
func (h *MembersHandler) CreateAbsence(w http.ResponseWriter, r *http.Request) {
	var absence models.Absence
	if err := json.NewDecoder(r.Body).Decode(&absence); err != nil {
		writeBadRequest(w, "failed to parse request body")
		return
	}
	absence.ID = ""
	absence.MemberID = chi.URLParam(r, "id")

	if err := h.members.CreateAbsence(r.Context(), &absence); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"absence": absence})
}

// ListAllAbsences handles GET /api/v1/absences.
func (h *MembersHandler) ListAllAbsences(w http.ResponseWriter, r *http.Request) {
	absences, err := h.members.ListAbsences(r.Context(), "")
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"absences": absences})
}

// UpdateAbsence handles PUT /api/v1/absences/{id}.
func (h *MembersHandler) UpdateAbsence(w http.ResponseWriter, r *http.Request) {
	var absence models.Absence
	if err := json.NewDecoder(r.Body).Decode(&absence); err != nil {
		writeBadRequest(w, "failed to parse request body")
		return
	}
	absence.ID = chi.URLParam(r, "id")

	if err := h.members.UpdateAbsence(r.Context(), &absence); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"absence": absence})
}

// DeleteAbsence handles DELETE /api/v1/absences/{id}.
func (h *MembersHandler) DeleteAbsence(w http.ResponseWriter, r *http.Request) {
	if err := h.members.DeleteAbsence(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
