package service

import (
	"context"
	"fmt"

	"github.com/mdtanveer0786/roommate-expense-tracker/internal/calculator"
	"github.com/mdtanveer0786/roommate-expense-tracker/internal/events"
	"github.com/mdtanveer0786/roommate-expense-tracker/internal/metrics"
	"github.com/mdtanveer0786/roommate-expense-tracker/internal/models"
	"github.com/mdtanveer0786/roommate-expense-tracker/internal/storage"
)

// SettlementService derives balances and settlement plans from the expense
// history, and materializes accepted instructions as Settlement expenses.
type SettlementService struct {
	store     storage.Store
	publisher events.Publisher
	clock     Clock
}

// NewSettlementService creates a new SettlementService. publisher may be
// nil; a nil clock falls back to the system clock.
func NewSettlementService(store storage.Store, publisher events.Publisher, clock Clock) *SettlementService {
	if clock == nil {
		clock = RealClock{}
	}
	return &SettlementService{store: store, publisher: publisher, clock: clock}
}

// Balances recomputes every member's net position from the full expense
// history. Nothing is persisted; the stored expenses are the source of truth.
func (s *SettlementService) Balances(ctx context.Context) ([]models.MemberBalance, error) {
	members, err := s.store.ListMembers(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list members: %w", err)
	}
	expenses, err := s.store.ListExpenses(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list expenses: %w", err)
	}
	return calculator.Balances(expenses, members), nil
}

// Plan derives the transfer list that clears all current balances.
func (s *SettlementService) Plan(ctx context.Context) ([]models.SettlementInstruction, error) {
	balances, err := s.Balances(ctx)
	if err != nil {
		return nil, err
	}
	return calculator.Plan(balances), nil
}

// RecordSettlement materializes an instruction as an expense in the
// Settlement category: the debtor pays, the creditor carries the full amount
// as their sole share. Absence filtering does not apply; money changed hands
// regardless of who is home. The expense is dated today, so recording fails
// with MonthLockedError while the current month is locked.
func (s *SettlementService) RecordSettlement(ctx context.Context, instruction models.SettlementInstruction) (*models.Expense, error) {
	if err := instruction.Validate(); err != nil {
		return nil, err
	}

	debtor, err := s.store.GetMember(ctx, instruction.From)
	if err != nil {
		return nil, err
	}
	creditor, err := s.store.GetMember(ctx, instruction.To)
	if err != nil {
		return nil, err
	}

	today := models.DateOf(s.clock.Now())
	if err := guardMonth(ctx, s.store, today.MonthKey()); err != nil {
		return nil, err
	}

	amount := calculator.Round2(instruction.Amount)
	expense := &models.Expense{
		Title:        fmt.Sprintf("Settlement: %s pays %s", debtor.Name, creditor.Name),
		Amount:       amount,
		PayerID:      debtor.ID,
		SplitMode:    models.SplitCustom,
		SplitBetween: []string{creditor.ID},
		SplitValues:  map[string]float64{creditor.ID: amount},
		Shares:       map[string]float64{creditor.ID: amount},
		Category:     models.CategorySettlement,
		Date:         today,
	}

	if err := s.store.CreateExpense(ctx, expense); err != nil {
		return nil, err
	}

	metrics.SettlementsRecorded.Inc()
	publishEvent(ctx, s.publisher, events.TypeSettlementRecorded, expense)
	return expense, nil
}
