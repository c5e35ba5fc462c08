package api_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mdtanveer0786/roommate-expense-tracker/internal/api"
	"github.com/mdtanveer0786/roommate-expense-tracker/internal/auth"
	"github.com/mdtanveer0786/roommate-expense-tracker/internal/models"
	"github.com/mdtanveer0786/roommate-expense-tracker/internal/service"
	"github.com/mdtanveer0786/roommate-expense-tracker/internal/storage/memory"
)

type fixedClock struct{ now time.Time }

func (c fixedClock) Now() time.Time { return c.now }

// newTestRouter wires the full router over a fresh in-memory store. The
// settlement clock is pinned to 2025-03-15.
func newTestRouter(t *testing.T, gate *auth.Gate, jwt *auth.JWTManager) http.Handler {
	t.Helper()
	store := memory.New()
	t.Cleanup(func() { _ = store.Close() })

	now := time.Date(2025, 3, 15, 12, 0, 0, 0, time.UTC)
	return api.NewRouter(api.Deps{
		Members:     service.NewMemberService(store),
		Expenses:    service.NewExpenseService(store, nil),
		Settlements: service.NewSettlementService(store, nil, fixedClock{now: now}),
		Reports:     service.NewReportService(store),
		Categories:  []string{"Groceries", "Utilities", "Settlement"},
		Gate:        gate,
		JWT:         jwt,
		Household:   "Baker Street",
	})
}

func doJSON(t *testing.T, router http.Handler, method, path string, body any, token string) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decodeInto(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), v), "body: %s", rec.Body.String())
}

func createMember(t *testing.T, router http.Handler, name string) models.Member {
	t.Helper()
	rec := doJSON(t, router, http.MethodPost, "/api/v1/members", map[string]string{"name": name}, "")
	require.Equal(t, http.StatusCreated, rec.Code, "body: %s", rec.Body.String())

	var resp struct {
		Member models.Member `json:"member"`
	}
	decodeInto(t, rec, &resp)
	return resp.Member
}

func createEqualExpense(t *testing.T, router http.Handler, title string, amount float64, payerID string, between []string, date string) models.Expense {
	t.Helper()
	rec := doJSON(t, router, http.MethodPost, "/api/v1/expenses", map[string]any{
		"title":         title,
		"amount":        amount,
		"payer_id":      payerID,
		"split_mode":    "equal",
		"split_between": between,
		"category":      "Groceries",
		"date":          date,
	}, "")
	require.Equal(t, http.StatusCreated, rec.Code, "body: %s", rec.Body.String())

	var resp struct {
		Expense models.Expense `json:"expense"`
	}
	decodeInto(t, rec, &resp)
	return resp.Expense
}

func TestHealthz(t *testing.T) {
	router := newTestRouter(t, nil, nil)
	rec := doJSON(t, router, http.MethodGet, "/healthz", nil, "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestMemberEndpoints(t *testing.T) {
	router := newTestRouter(t, nil, nil)

	alice := createMember(t, router, "Alice")
	assert.NotEmpty(t, alice.ID)
	assert.NotEmpty(t, alice.Color, "color is defaulted")
	assert.Equal(t, "A", alice.Avatar)

	bob := createMember(t, router, "Bob")

	t.Run("list", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodGet, "/api/v1/members", nil, "")
		require.Equal(t, http.StatusOK, rec.Code)
		var resp struct {
			Members []models.Member `json:"members"`
		}
		decodeInto(t, rec, &resp)
		require.Len(t, resp.Members, 2)
		assert.Equal(t, "Alice", resp.Members[0].Name, "roster sorts by name")
	})

	t.Run("update", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodPut, "/api/v1/members/"+alice.ID,
			map[string]string{"name": "Alicia"}, "")
		require.Equal(t, http.StatusOK, rec.Code)
		var resp struct {
			Member models.Member `json:"member"`
		}
		decodeInto(t, rec, &resp)
		assert.Equal(t, "Alicia", resp.Member.Name)
		assert.Equal(t, alice.Color, resp.Member.Color, "omitted attributes survive")
	})

	t.Run("missing member is a 404", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodGet, "/api/v1/members/missing", nil, "")
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("invalid body is a 400", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/members", bytes.NewReader([]byte("{not json")))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("referenced member delete is a 409", func(t *testing.T) {
		createEqualExpense(t, router, "Groceries", 90, alice.ID, []string{alice.ID, bob.ID}, "2025-03-10")

		rec := doJSON(t, router, http.MethodDelete, "/api/v1/members/"+bob.ID, nil, "")
		require.Equal(t, http.StatusConflict, rec.Code)
		var resp struct {
			Error string `json:"error"`
		}
		decodeInto(t, rec, &resp)
		assert.Equal(t, "member_referenced", resp.Error)
	})

	t.Run("free member delete is a 204", func(t *testing.T) {
		carol := createMember(t, router, "Carol")
		rec := doJSON(t, router, http.MethodDelete, "/api/v1/members/"+carol.ID, nil, "")
		assert.Equal(t, http.StatusNoContent, rec.Code)
	})
}

func TestAbsenceEndpoints(t *testing.T) {
	router := newTestRouter(t, nil, nil)
	alice := createMember(t, router, "Alice")

	rec := doJSON(t, router, http.MethodPost, "/api/v1/members/"+alice.ID+"/absences",
		map[string]string{"start_date": "2025-03-10", "end_date": "2025-03-15", "reason": "holidays"}, "")
	require.Equal(t, http.StatusCreated, rec.Code, "body: %s", rec.Body.String())

	var created struct {
		Absence models.Absence `json:"absence"`
	}
	decodeInto(t, rec, &created)
	assert.Equal(t, alice.ID, created.Absence.MemberID)

	t.Run("overlap is a 400", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodPost, "/api/v1/members/"+alice.ID+"/absences",
			map[string]string{"start_date": "2025-03-12"}, "")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("list for member", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodGet, "/api/v1/members/"+alice.ID+"/absences", nil, "")
		require.Equal(t, http.StatusOK, rec.Code)
		var resp struct {
			Absences []models.Absence `json:"absences"`
		}
		decodeInto(t, rec, &resp)
		assert.Len(t, resp.Absences, 1)
	})

	t.Run("update range", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodPut, "/api/v1/absences/"+created.Absence.ID,
			map[string]string{"start_date": "2025-03-11", "end_date": "2025-03-14"}, "")
		require.Equal(t, http.StatusOK, rec.Code, "body: %s", rec.Body.String())
	})

	t.Run("delete", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodDelete, "/api/v1/absences/"+created.Absence.ID, nil, "")
		assert.Equal(t, http.StatusNoContent, rec.Code)
	})
}

func TestExpenseEndpoints(t *testing.T) {
	router := newTestRouter(t, nil, nil)
	alice := createMember(t, router, "Alice")
	bob := createMember(t, router, "Bob")

	expense := createEqualExpense(t, router, "Groceries", 90, alice.ID, []string{alice.ID, bob.ID}, "2025-03-10")
	assert.InDelta(t, 45.0, expense.Shares[alice.ID], 0.001)
	assert.InDelta(t, 45.0, expense.Shares[bob.ID], 0.001)

	t.Run("month filter", func(t *testing.T) {
		createEqualExpense(t, router, "April rent", 1200, alice.ID, []string{alice.ID, bob.ID}, "2025-04-01")

		rec := doJSON(t, router, http.MethodGet, "/api/v1/expenses?month=2025-03", nil, "")
		require.Equal(t, http.StatusOK, rec.Code)
		var resp struct {
			Expenses []models.Expense `json:"expenses"`
		}
		decodeInto(t, rec, &resp)
		require.Len(t, resp.Expenses, 1)
		assert.Equal(t, "Groceries", resp.Expenses[0].Title)
	})

	t.Run("malformed month filter is a 400", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodGet, "/api/v1/expenses?month=March", nil, "")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("split mismatch is a 400", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodPost, "/api/v1/expenses", map[string]any{
			"title":         "Dinner",
			"amount":        100,
			"payer_id":      alice.ID,
			"split_mode":    "custom",
			"split_between": []string{alice.ID, bob.ID},
			"split_values":  map[string]float64{alice.ID: 40, bob.ID: 40},
			"category":      "Food",
			"date":          "2025-03-12",
		}, "")
		require.Equal(t, http.StatusBadRequest, rec.Code)
		var resp struct {
			Error string `json:"error"`
		}
		decodeInto(t, rec, &resp)
		assert.Equal(t, "split_mismatch", resp.Error)
	})

	t.Run("update and fetch", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodPut, "/api/v1/expenses/"+expense.ID, map[string]any{
			"title":         "Groceries week 11",
			"amount":        90,
			"payer_id":      alice.ID,
			"split_mode":    "equal",
			"split_between": []string{alice.ID, bob.ID},
			"category":      "Groceries",
			"date":          "2025-03-10",
		}, "")
		require.Equal(t, http.StatusOK, rec.Code, "body: %s", rec.Body.String())

		got := doJSON(t, router, http.MethodGet, "/api/v1/expenses/"+expense.ID, nil, "")
		require.Equal(t, http.StatusOK, got.Code)
		var resp struct {
			Expense models.Expense `json:"expense"`
		}
		decodeInto(t, got, &resp)
		assert.Equal(t, "Groceries week 11", resp.Expense.Title)
		assert.InDelta(t, 45.0, resp.Expense.Shares[alice.ID], 0.001, "display edit keeps shares")
	})

	t.Run("locked month mutation is a 409", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodPut, "/api/v1/months/2025-03/lock", nil, "")
		require.Equal(t, http.StatusNoContent, rec.Code)

		res := doJSON(t, router, http.MethodDelete, "/api/v1/expenses/"+expense.ID, nil, "")
		require.Equal(t, http.StatusConflict, res.Code)
		var resp struct {
			Error string `json:"error"`
		}
		decodeInto(t, res, &resp)
		assert.Equal(t, "month_locked", resp.Error)

		rec = doJSON(t, router, http.MethodDelete, "/api/v1/months/2025-03/lock", nil, "")
		require.Equal(t, http.StatusNoContent, rec.Code)
	})

	t.Run("delete", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodDelete, "/api/v1/expenses/"+expense.ID, nil, "")
		require.Equal(t, http.StatusNoContent, rec.Code)

		got := doJSON(t, router, http.MethodGet, "/api/v1/expenses/"+expense.ID, nil, "")
		assert.Equal(t, http.StatusNotFound, got.Code)
	})
}

func TestSettlementEndpoints(t *testing.T) {
	router := newTestRouter(t, nil, nil)
	alice := createMember(t, router, "Alice")
	bob := createMember(t, router, "Bob")
	createEqualExpense(t, router, "Rent", 100, alice.ID, []string{alice.ID, bob.ID}, "2025-03-01")

	rec := doJSON(t, router, http.MethodGet, "/api/v1/balances", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	var balancesResp struct {
		Balances []models.MemberBalance `json:"balances"`
	}
	decodeInto(t, rec, &balancesResp)
	require.Len(t, balancesResp.Balances, 2)

	rec = doJSON(t, router, http.MethodGet, "/api/v1/settlements/plan", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	var planResp struct {
		Plan []models.SettlementInstruction `json:"plan"`
	}
	decodeInto(t, rec, &planResp)
	require.Len(t, planResp.Plan, 1)
	assert.Equal(t, bob.ID, planResp.Plan[0].From)

	rec = doJSON(t, router, http.MethodPost, "/api/v1/settlements/record", planResp.Plan[0], "")
	require.Equal(t, http.StatusCreated, rec.Code, "body: %s", rec.Body.String())
	var recorded struct {
		Expense models.Expense `json:"expense"`
	}
	decodeInto(t, rec, &recorded)
	assert.Equal(t, models.CategorySettlement, recorded.Expense.Category)

	rec = doJSON(t, router, http.MethodGet, "/api/v1/balances", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	decodeInto(t, rec, &balancesResp)
	for _, b := range balancesResp.Balances {
		assert.LessOrEqual(t, math.Abs(b.Net), 0.01)
	}
}

func TestReportAndMonthEndpoints(t *testing.T) {
	router := newTestRouter(t, nil, nil)
	alice := createMember(t, router, "Alice")
	bob := createMember(t, router, "Bob")
	createEqualExpense(t, router, "Groceries", 60, alice.ID, []string{alice.ID, bob.ID}, "2025-03-05")
	createEqualExpense(t, router, "Rent", 140, bob.ID, []string{alice.ID, bob.ID}, "2025-04-01")

	t.Run("categories", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodGet, "/api/v1/reports/categories?month=2025-03", nil, "")
		require.Equal(t, http.StatusOK, rec.Code)
		var resp struct {
			Categories []models.CategoryTotal `json:"categories"`
		}
		decodeInto(t, rec, &resp)
		require.Len(t, resp.Categories, 1)
		assert.InDelta(t, 60.0, resp.Categories[0].Total, 0.001)
	})

	t.Run("member report", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodGet, "/api/v1/reports/members", nil, "")
		require.Equal(t, http.StatusOK, rec.Code)
		var resp struct {
			Members []models.MemberReport `json:"members"`
		}
		decodeInto(t, rec, &resp)
		assert.Len(t, resp.Members, 2)
	})

	t.Run("monthly trend", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodGet, "/api/v1/reports/monthly", nil, "")
		require.Equal(t, http.StatusOK, rec.Code)
		var resp struct {
			Months []models.MonthlySummary `json:"months"`
		}
		decodeInto(t, rec, &resp)
		require.Len(t, resp.Months, 2)
		assert.Equal(t, "2025-03", resp.Months[0].Month)
	})

	t.Run("month overview with lock flags", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodPut, "/api/v1/months/2025-03/lock", nil, "")
		require.Equal(t, http.StatusNoContent, rec.Code)

		rec = doJSON(t, router, http.MethodGet, "/api/v1/months", nil, "")
		require.Equal(t, http.StatusOK, rec.Code)
		var resp struct {
			Months []models.MonthBucket `json:"months"`
		}
		decodeInto(t, rec, &resp)
		require.Len(t, resp.Months, 2)
		assert.Equal(t, "2025-04", resp.Months[0].Month)
		assert.False(t, resp.Months[0].Locked)
		assert.Equal(t, "2025-03", resp.Months[1].Month)
		assert.True(t, resp.Months[1].Locked)
	})

	t.Run("configured categories", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodGet, "/api/v1/categories", nil, "")
		require.Equal(t, http.StatusOK, rec.Code)
		var resp struct {
			Categories []string `json:"categories"`
		}
		decodeInto(t, rec, &resp)
		assert.Equal(t, []string{"Groceries", "Utilities", "Settlement"}, resp.Categories)
	})
}

func TestAuthGate(t *testing.T) {
	gate, err := auth.NewGate("household-secret")
	require.NoError(t, err)
	jwt := auth.NewJWTManager("test-secret-key-32-bytes-long!!!", time.Hour)
	router := newTestRouter(t, gate, jwt)

	t.Run("healthz stays open", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodGet, "/healthz", nil, "")
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("api requires a token", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodGet, "/api/v1/members", nil, "")
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("wrong password is a 401", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodPost, "/auth/login",
			map[string]string{"password": "wrong"}, "")
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("login then use the token", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodPost, "/auth/login",
			map[string]string{"password": "household-secret"}, "")
		require.Equal(t, http.StatusOK, rec.Code)
		var resp struct {
			Token string `json:"token"`
		}
		decodeInto(t, rec, &resp)
		require.NotEmpty(t, resp.Token)

		authed := doJSON(t, router, http.MethodGet, "/api/v1/members", nil, resp.Token)
		assert.Equal(t, http.StatusOK, authed.Code)
	})
}

func TestMetricsEndpoint(t *testing.T) {
	router := newTestRouter(t, nil, nil)
	rec := doJSON(t, router, http.MethodGet, "/metrics", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "go_goroutines",
		fmt.Sprintf("prometheus default collectors should be exposed, got: %.100s", rec.Body.String()))
}
