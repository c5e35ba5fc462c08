package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/mdtanveer0786/roommate-expense-tracker/internal/models"
)

// errorResponse is the JSON envelope for every non-2xx answer.
type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// writeJSON encodes v with the given status.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

// writeError maps domain errors onto HTTP statuses: invalid input and split
// mismatches are 400s, missing records 404s, locked months and referenced
// members 409s. Anything unrecognized is a 500 with a generic message.
func writeError(w http.ResponseWriter, err error) {
	var (
		invalid  *models.InvalidInputError
		mismatch *models.SplitMismatchError
		notFound *models.NotFoundError
		locked   *models.MonthLockedError
		refs     *models.ReferentialIntegrityError
	)
	switch {
	case errors.As(err, &invalid):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid_input", Message: invalid.Error()})
	case errors.As(err, &mismatch):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "split_mismatch", Message: mismatch.Error()})
	case errors.As(err, &notFound):
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "not_found", Message: notFound.Error()})
	case errors.As(err, &locked):
		writeJSON(w, http.StatusConflict, errorResponse{Error: "month_locked", Message: locked.Error()})
	case errors.As(err, &refs):
		writeJSON(w, http.StatusConflict, errorResponse{Error: "member_referenced", Message: refs.Error()})
	default:
		slog.Error("request failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "server_error", Message: "something went wrong"})
	}
}

// writeBadRequest reports a malformed request body or parameter.
func writeBadRequest(w http.ResponseWriter, message string) {
	writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid_request", Message: message})
}
