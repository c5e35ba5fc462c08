// Package api exposes the tracker over a JSON HTTP surface. Handlers decode
// requests, delegate to the service layer and map domain errors onto HTTP
// statuses; they hold no business rules of their own.
package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/mdtanveer0786/roommate-expense-tracker/internal/auth"
	"github.com/mdtanveer0786/roommate-expense-tracker/internal/metrics"
	"github.com/mdtanveer0786/roommate-expense-tracker/internal/middleware"
	"github.com/mdtanveer0786/roommate-expense-tracker/internal/service"
)

// Deps carries everything the router serves.
type Deps struct {
	Members     *service.MemberService
	Expenses    *service.ExpenseService
	Settlements *service.SettlementService
	Reports     *service.ReportService

	// Categories are the profile-configured labels served on /categories.
	Categories []string

	// Gate enables the household login when non-nil; JWT and Household must
	// be set alongside it. A nil Gate leaves the whole API open.
	Gate      *auth.Gate
	JWT       *auth.JWTManager
	Household string
}

// NewRouter assembles the chi router: middleware stack, the versioned API
// under /api/v1, and the unversioned operational endpoints.
func NewRouter(deps Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.Logging())
	r.Use(middleware.Metrics())
	r.Use(chimw.Recoverer)
	r.Use(chimw.Timeout(60 * time.Second))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Method(http.MethodGet, "/metrics", metrics.Handler())

	if deps.Gate != nil {
		authHandler := NewAuthHandler(deps.Gate, deps.JWT, deps.Household)
		r.Post("/auth/login", authHandler.Login)
	}

	members := NewMembersHandler(deps.Members)
	expenses := NewExpensesHandler(deps.Expenses)
	settlements := NewSettlementsHandler(deps.Settlements)
	reports := NewReportsHandler(deps.Reports)
	months := NewMonthsHandler(deps.Reports, deps.Expenses)

	r.Route("/api/v1", func(r chi.Router) {
		if deps.Gate != nil {
			r.Use(middleware.RequireAuth(deps.JWT))
		}

		r.Route("/members", func(r chi.Router) {
			r.Get("/", members.List)
			r.Post("/", members.Create)
			r.Get("/{id}", members.Get)
			r.Put("/{id}", members.Update)
			r.Delete("/{id}", members.Delete)
			r.Get("/{id}/absences", members.ListAbsences)
			r.Post("/{id}/absences", members.CreateAbsence)
		})

		r.Route("/absences", func(r chi.Router) {
			r.Get("/", members.ListAllAbsences)
			r.Put("/{id}", members.UpdateAbsence)
			r.Delete("/{id}", members.DeleteAbsence)
		})

		r.Route("/expenses", func(r chi.Router) {
			r.Get("/", expenses.List)
			r.Post("/", expenses.Create)
			r.Get("/{id}", expenses.Get)
			r.Put("/{id}", expenses.Update)
			r.Delete("/{id}", expenses.Delete)
		})

		r.Get("/balances", settlements.Balances)
		r.Route("/settlements", func(r chi.Router) {
			r.Get("/plan", settlements.Plan)
			r.Post("/record", settlements.Record)
		})

		r.Route("/reports", func(r chi.Router) {
			r.Get("/categories", reports.Categories)
			r.Get("/members", reports.Members)
			r.Get("/monthly", reports.Monthly)
		})

		r.Route("/months", func(r chi.Router) {
			r.Get("/", months.List)
			r.Put("/{key}/lock", months.Lock)
			r.Delete("/{key}/lock", months.Unlock)
		})

		r.Get("/categories", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, map[string][]string{"categories": deps.Categories})
		})
	})

	return r
}
