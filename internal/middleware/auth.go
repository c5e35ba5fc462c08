package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/mdtanveer0786/roommate-expense-tracker/internal/auth"
)

// contextKey is a custom type for context keys to avoid collisions.
type contextKey string

// HouseholdKey is the context key for storing the authenticated household name.
const HouseholdKey contextKey = "household"

// GetHousehold extracts the household name from the context.
// Returns empty string if the request carried no valid session.
func GetHousehold(ctx context.Context) string {
	household, _ := ctx.Value(HouseholdKey).(string)
	return household
}

// RequireAuth returns a middleware that validates bearer session tokens.
// It extracts the token from the Authorization header, validates it, and
// adds the household name to the request context. Requests without a valid
// token get a 401 JSON error.
func RequireAuth(jwtManager *auth.JWTManager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				writeUnauthorized(w, auth.ErrMissingToken)
				return
			}

			// Parse Bearer token
			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || parts[0] != "Bearer" {
				writeUnauthorized(w, auth.ErrInvalidToken)
				return
			}
			tokenString := parts[1]

			claims, err := jwtManager.Validate(tokenString)
			if err != nil {
				writeUnauthorized(w, err)
				return
			}

			ctx := context.WithValue(r.Context(), HouseholdKey, claims.Household)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func writeUnauthorized(w http.ResponseWriter, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]string{
		"error":   "unauthorized",
		"message": err.Error(),
	})
}
