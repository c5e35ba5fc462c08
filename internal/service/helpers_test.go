package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/mdtanveer0786/roommate-expense-tracker/internal/events"
	"github.com/mdtanveer0786/roommate-expense-tracker/internal/models"
	"github.com/mdtanveer0786/roommate-expense-tracker/internal/service"
	"github.com/mdtanveer0786/roommate-expense-tracker/internal/storage/memory"
)

// capturingPublisher records published events for assertions.
type capturingPublisher struct {
	events []events.Event
}

func (p *capturingPublisher) Publish(_ context.Context, ev events.Event) error {
	p.events = append(p.events, ev)
	return nil
}

func (p *capturingPublisher) Close() error { return nil }

// fixedClock pins "today" for deterministic month buckets.
type fixedClock struct {
	now time.Time
}

func (c fixedClock) Now() time.Time { return c.now }

func seedMember(t *testing.T, members *service.MemberService, name string) *models.Member {
	t.Helper()
	m := &models.Member{Name: name}
	require.NoError(t, members.CreateMember(context.Background(), m))
	return m
}

// newFixture wires every service over a fresh in-memory store.
type fixture struct {
	store       *memory.Store
	publisher   *capturingPublisher
	members     *service.MemberService
	expenses    *service.ExpenseService
	settlements *service.SettlementService
	reports     *service.ReportService
}

func newFixture(t *testing.T, now time.Time) *fixture {
	t.Helper()
	store := memory.New()
	t.Cleanup(func() { _ = store.Close() })

	publisher := &capturingPublisher{}
	return &fixture{
		store:       store,
		publisher:   publisher,
		members:     service.NewMemberService(store),
		expenses:    service.NewExpenseService(store, publisher),
		settlements: service.NewSettlementService(store, publisher, fixedClock{now: now}),
		reports:     service.NewReportService(store),
	}
}

func equalExpense(title string, amount float64, payerID string, between []string, day models.Date) *models.Expense {
	return &models.Expense{
		Title:        title,
		Amount:       amount,
		PayerID:      payerID,
		SplitMode:    models.SplitEqual,
		SplitBetween: between,
		Category:     "Groceries",
		Date:         day,
	}
}
