package service

import (
	"context"
	"fmt"
	"log/slog"
	"maps"
	"slices"

	"github.com/mdtanveer0786/roommate-expense-tracker/internal/calculator"
	"github.com/mdtanveer0786/roommate-expense-tracker/internal/events"
	"github.com/mdtanveer0786/roommate-expense-tracker/internal/metrics"
	"github.com/mdtanveer0786/roommate-expense-tracker/internal/models"
	"github.com/mdtanveer0786/roommate-expense-tracker/internal/storage"
)

// ExpenseService manages shared expenses. Split calculation and absence
// adjustment run exactly once per create or edit; the resolved shares are
// stored with the expense and never recomputed afterwards.
type ExpenseService struct {
	store     storage.Store
	publisher events.Publisher
}

// NewExpenseService creates a new ExpenseService. publisher may be nil, in
// which case no events are emitted.
func NewExpenseService(store storage.Store, publisher events.Publisher) *ExpenseService {
	return &ExpenseService{store: store, publisher: publisher}
}

// CreateExpense validates the expense, resolves shares against the current
// absence records and persists it. Fails with MonthLockedError when the
// expense is dated into a locked month.
func (s *ExpenseService) CreateExpense(ctx context.Context, expense *models.Expense) error {
	if err := expense.Validate(); err != nil {
		return err
	}
	if err := guardMonth(ctx, s.store, expense.MonthKey()); err != nil {
		return err
	}

	absences, err := s.store.ListAbsences(ctx)
	if err != nil {
		return fmt.Errorf("failed to list absences: %w", err)
	}
	shares, err := calculator.ResolveShares(*expense, absences)
	if err != nil {
		return err
	}
	expense.Shares = shares
	if expense.SplitMode == models.SplitEqual {
		expense.SplitValues = nil
	}

	if err := s.store.CreateExpense(ctx, expense); err != nil {
		return err
	}

	metrics.ExpensesCreated.Inc()
	publishEvent(ctx, s.publisher, events.TypeExpenseCreated, expense)
	return nil
}

// UpdateExpense replaces an existing expense. Shares are re-resolved only
// when a split-affecting field changed (amount, date, payer, mode,
// participants or entered values); editing the title, category or notes
// keeps the stored shares untouched even if absence records changed in the
// meantime. Both the old and the new month bucket must be unlocked.
func (s *ExpenseService) UpdateExpense(ctx context.Context, expense *models.Expense) error {
	existing, err := s.store.GetExpense(ctx, expense.ID)
	if err != nil {
		return err
	}

	if err := expense.Validate(); err != nil {
		return err
	}
	if err := guardMonth(ctx, s.store, existing.MonthKey()); err != nil {
		return err
	}
	if expense.MonthKey() != existing.MonthKey() {
		if err := guardMonth(ctx, s.store, expense.MonthKey()); err != nil {
			return err
		}
	}

	if splitChanged(existing, expense) {
		absences, err := s.store.ListAbsences(ctx)
		if err != nil {
			return fmt.Errorf("failed to list absences: %w", err)
		}
		shares, err := calculator.ResolveShares(*expense, absences)
		if err != nil {
			return err
		}
		expense.Shares = shares
	} else {
		expense.Shares = existing.CloneShares()
	}
	if expense.SplitMode == models.SplitEqual {
		expense.SplitValues = nil
	}
	expense.CreatedAt = existing.CreatedAt

	if err := s.store.UpdateExpense(ctx, expense); err != nil {
		return err
	}

	publishEvent(ctx, s.publisher, events.TypeExpenseUpdated, expense)
	return nil
}

// splitChanged reports whether an edit touched a field that feeds the split
// calculation.
func splitChanged(old, edited *models.Expense) bool {
	return old.Amount != edited.Amount ||
		!old.Date.Equal(edited.Date) ||
		old.PayerID != edited.PayerID ||
		old.SplitMode != edited.SplitMode ||
		!slices.Equal(old.SplitBetween, edited.SplitBetween) ||
		!maps.Equal(old.SplitValues, edited.SplitValues)
}

// DeleteExpense removes an expense. Fails with MonthLockedError when the
// expense sits in a locked month.
func (s *ExpenseService) DeleteExpense(ctx context.Context, id string) error {
	existing, err := s.store.GetExpense(ctx, id)
	if err != nil {
		return err
	}
	if err := guardMonth(ctx, s.store, existing.MonthKey()); err != nil {
		return err
	}

	if err := s.store.DeleteExpense(ctx, id); err != nil {
		return err
	}

	publishEvent(ctx, s.publisher, events.TypeExpenseDeleted, existing)
	return nil
}

// GetExpense retrieves a single expense.
func (s *ExpenseService) GetExpense(ctx context.Context, id string) (*models.Expense, error) {
	return s.store.GetExpense(ctx, id)
}

// ListExpenses returns expenses newest first, optionally restricted to one
// YYYY-MM month bucket.
func (s *ExpenseService) ListExpenses(ctx context.Context, month string) ([]models.Expense, error) {
	if month == "" {
		return s.store.ListExpenses(ctx)
	}
	if err := validateMonthKey(month); err != nil {
		return nil, err
	}
	return s.store.ListExpensesByMonth(ctx, month)
}

// LockMonth closes a month bucket: expenses dated inside it can no longer be
// created, edited or deleted until the month is unlocked again.
func (s *ExpenseService) LockMonth(ctx context.Context, monthKey string) error {
	if err := validateMonthKey(monthKey); err != nil {
		return err
	}
	return s.store.LockMonth(ctx, monthKey)
}

// UnlockMonth reopens a month bucket.
func (s *ExpenseService) UnlockMonth(ctx context.Context, monthKey string) error {
	if err := validateMonthKey(monthKey); err != nil {
		return err
	}
	return s.store.UnlockMonth(ctx, monthKey)
}

// guardMonth fails with MonthLockedError when the month bucket is locked.
func guardMonth(ctx context.Context, store storage.Store, monthKey string) error {
	locked, err := store.IsMonthLocked(ctx, monthKey)
	if err != nil {
		return fmt.Errorf("failed to check month lock: %w", err)
	}
	if locked {
		return &models.MonthLockedError{Month: monthKey}
	}
	return nil
}

// validateMonthKey rejects malformed bucket keys before they reach the store.
func validateMonthKey(month string) error {
	if !models.ValidMonthKey(month) {
		return &models.InvalidInputError{Reason: fmt.Sprintf("invalid month key %q, want YYYY-MM", month)}
	}
	return nil
}

// publishEvent emits an event if a publisher is configured. Publishing
// failures are logged and never fail the write that triggered them.
func publishEvent(ctx context.Context, publisher events.Publisher, eventType string, expense *models.Expense) {
	if publisher == nil {
		return
	}
	ev := events.NewEvent(eventType, expense.ID, expense.MonthKey(), expense.Amount)
	if err := publisher.Publish(ctx, ev); err != nil {
		slog.Warn("failed to publish event", "type", eventType, "expense_id", expense.ID, "error", err)
	}
}
