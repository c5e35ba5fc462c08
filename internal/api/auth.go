package api

import (
	"encoding/json"
	"net/http"

	"github.com/mdtanveer0786/roommate-expense-tracker/internal/auth"
)

// AuthHandler issues session tokens for the household password gate.
type AuthHandler struct {
	gate      *auth.Gate
	jwt       *auth.JWTManager
	household string
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(gate *auth.Gate, jwt *auth.JWTManager, household string) *AuthHandler {
	return &AuthHandler{gate: gate, jwt: jwt, household: household}
}

type loginRequest struct {
	Password string `json:"password"`
}

// Login handles POST /auth/login.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "failed to parse request body")
		return
	}

	if err := h.gate.Authenticate(req.Password); err != nil {
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "unauthorized", Message: err.Error()})
		return
	}

	token, err := h.jwt.Generate(h.household)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"token": token})
}
