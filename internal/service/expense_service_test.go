package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mdtanveer0786/roommate-expense-tracker/internal/events"
	"github.com/mdtanveer0786/roommate-expense-tracker/internal/models"
)

func TestCreateExpenseEqualSplit(t *testing.T) {
	f := newFixture(t, testDay)
	ctx := context.Background()
	alice := seedMember(t, f.members, "Alice")
	bob := seedMember(t, f.members, "Bob")
	carol := seedMember(t, f.members, "Carol")

	expense := equalExpense("Groceries", 90, alice.ID, []string{alice.ID, bob.ID, carol.ID}, models.NewDate(2025, 3, 10))
	require.NoError(t, f.expenses.CreateExpense(ctx, expense))

	assert.NotEmpty(t, expense.ID)
	assert.Equal(t, map[string]float64{alice.ID: 30, bob.ID: 30, carol.ID: 30}, expense.Shares)

	stored, err := f.expenses.GetExpense(ctx, expense.ID)
	require.NoError(t, err)
	assert.Equal(t, expense.Shares, stored.Shares)
	assert.Equal(t, []string{alice.ID, bob.ID, carol.ID}, stored.SplitBetween)
}

func TestCreateExpenseValidation(t *testing.T) {
	f := newFixture(t, testDay)
	ctx := context.Background()
	alice := seedMember(t, f.members, "Alice")
	bob := seedMember(t, f.members, "Bob")
	day := models.NewDate(2025, 3, 10)

	t.Run("missing title", func(t *testing.T) {
		expense := equalExpense("", 90, alice.ID, []string{alice.ID, bob.ID}, day)
		err := f.expenses.CreateExpense(ctx, expense)
		var invalid *models.InvalidInputError
		require.ErrorAs(t, err, &invalid)
	})

	t.Run("custom values must sum to the amount", func(t *testing.T) {
		expense := &models.Expense{
			Title:        "Dinner",
			Amount:       100,
			PayerID:      alice.ID,
			SplitMode:    models.SplitCustom,
			SplitBetween: []string{alice.ID, bob.ID},
			SplitValues:  map[string]float64{alice.ID: 40, bob.ID: 40},
			Category:     "Food",
			Date:         day,
		}
		err := f.expenses.CreateExpense(ctx, expense)
		var mismatch *models.SplitMismatchError
		require.ErrorAs(t, err, &mismatch)
		assert.Equal(t, models.SplitCustom, mismatch.Mode)
		assert.InDelta(t, 100.0, mismatch.Expected, 0.001)
		assert.InDelta(t, 80.0, mismatch.Actual, 0.001)
	})

	t.Run("percentages must sum to 100", func(t *testing.T) {
		expense := &models.Expense{
			Title:        "Rent",
			Amount:       1200,
			PayerID:      alice.ID,
			SplitMode:    models.SplitPercentage,
			SplitBetween: []string{alice.ID, bob.ID},
			SplitValues:  map[string]float64{alice.ID: 60, bob.ID: 30},
			Category:     "Rent",
			Date:         day,
		}
		err := f.expenses.CreateExpense(ctx, expense)
		var mismatch *models.SplitMismatchError
		require.ErrorAs(t, err, &mismatch)
		assert.Equal(t, models.SplitPercentage, mismatch.Mode)
	})
}

func TestCreateExpenseAppliesAbsences(t *testing.T) {
	f := newFixture(t, testDay)
	ctx := context.Background()
	alice := seedMember(t, f.members, "Alice")
	bob := seedMember(t, f.members, "Bob")
	carol := seedMember(t, f.members, "Carol")

	require.NoError(t, f.members.CreateAbsence(ctx, &models.Absence{
		MemberID:  bob.ID,
		StartDate: models.NewDate(2025, 3, 8),
		EndDate:   models.NewDate(2025, 3, 12),
	}))

	expense := equalExpense("Groceries", 90, alice.ID, []string{alice.ID, bob.ID, carol.ID}, models.NewDate(2025, 3, 10))
	require.NoError(t, f.expenses.CreateExpense(ctx, expense))

	assert.Equal(t, map[string]float64{alice.ID: 45, carol.ID: 45}, expense.Shares,
		"absent member carries no share")
	assert.Equal(t, []string{alice.ID, bob.ID, carol.ID}, expense.SplitBetween,
		"the intended participant list is stored untouched")
}

func TestUpdateExpenseShareResolution(t *testing.T) {
	f := newFixture(t, testDay)
	ctx := context.Background()
	alice := seedMember(t, f.members, "Alice")
	bob := seedMember(t, f.members, "Bob")
	carol := seedMember(t, f.members, "Carol")
	day := models.NewDate(2025, 3, 10)

	expense := equalExpense("Groceries", 90, alice.ID, []string{alice.ID, bob.ID, carol.ID}, day)
	require.NoError(t, f.expenses.CreateExpense(ctx, expense))
	require.Equal(t, map[string]float64{alice.ID: 30, bob.ID: 30, carol.ID: 30}, expense.Shares)

	// An absence recorded after the fact must not disturb stored shares.
	require.NoError(t, f.members.CreateAbsence(ctx, &models.Absence{
		MemberID:  bob.ID,
		StartDate: models.NewDate(2025, 3, 8),
		EndDate:   models.NewDate(2025, 3, 12),
	}))

	t.Run("display-only edit keeps shares", func(t *testing.T) {
		edit := equalExpense("Groceries week 11", 90, alice.ID, []string{alice.ID, bob.ID, carol.ID}, day)
		edit.ID = expense.ID
		edit.Notes = "receipt in the drawer"
		require.NoError(t, f.expenses.UpdateExpense(ctx, edit))

		stored, err := f.expenses.GetExpense(ctx, expense.ID)
		require.NoError(t, err)
		assert.Equal(t, map[string]float64{alice.ID: 30, bob.ID: 30, carol.ID: 30}, stored.Shares)
		assert.Equal(t, "Groceries week 11", stored.Title)
	})

	t.Run("amount change re-resolves against current absences", func(t *testing.T) {
		edit := equalExpense("Groceries week 11", 120, alice.ID, []string{alice.ID, bob.ID, carol.ID}, day)
		edit.ID = expense.ID
		require.NoError(t, f.expenses.UpdateExpense(ctx, edit))

		stored, err := f.expenses.GetExpense(ctx, expense.ID)
		require.NoError(t, err)
		assert.Equal(t, map[string]float64{alice.ID: 60, carol.ID: 60}, stored.Shares,
			"re-resolution sees the absence recorded since creation")
	})

	t.Run("unknown expense", func(t *testing.T) {
		edit := equalExpense("Ghost", 10, alice.ID, []string{alice.ID}, day)
		edit.ID = "missing"
		err := f.expenses.UpdateExpense(ctx, edit)
		var notFound *models.NotFoundError
		require.ErrorAs(t, err, &notFound)
	})
}

func TestMonthLockGuards(t *testing.T) {
	f := newFixture(t, testDay)
	ctx := context.Background()
	alice := seedMember(t, f.members, "Alice")
	bob := seedMember(t, f.members, "Bob")
	march := models.NewDate(2025, 3, 10)
	april := models.NewDate(2025, 4, 10)

	expense := equalExpense("Groceries", 90, alice.ID, []string{alice.ID, bob.ID}, march)
	require.NoError(t, f.expenses.CreateExpense(ctx, expense))

	require.NoError(t, f.expenses.LockMonth(ctx, "2025-03"))

	assertLocked := func(t *testing.T, err error, month string) {
		t.Helper()
		var locked *models.MonthLockedError
		require.ErrorAs(t, err, &locked)
		assert.Equal(t, month, locked.Month)
	}

	t.Run("create into locked month", func(t *testing.T) {
		err := f.expenses.CreateExpense(ctx,
			equalExpense("Late entry", 10, alice.ID, []string{alice.ID, bob.ID}, march))
		assertLocked(t, err, "2025-03")
	})

	t.Run("update inside locked month", func(t *testing.T) {
		edit := equalExpense("Groceries", 95, alice.ID, []string{alice.ID, bob.ID}, march)
		edit.ID = expense.ID
		assertLocked(t, f.expenses.UpdateExpense(ctx, edit), "2025-03")
	})

	t.Run("delete inside locked month", func(t *testing.T) {
		assertLocked(t, f.expenses.DeleteExpense(ctx, expense.ID), "2025-03")
	})

	t.Run("unlock reopens the month", func(t *testing.T) {
		require.NoError(t, f.expenses.UnlockMonth(ctx, "2025-03"))
		edit := equalExpense("Groceries", 95, alice.ID, []string{alice.ID, bob.ID}, march)
		edit.ID = expense.ID
		require.NoError(t, f.expenses.UpdateExpense(ctx, edit))
	})

	t.Run("moving an expense into a locked month fails", func(t *testing.T) {
		require.NoError(t, f.expenses.LockMonth(ctx, "2025-04"))
		edit := equalExpense("Groceries", 95, alice.ID, []string{alice.ID, bob.ID}, april)
		edit.ID = expense.ID
		assertLocked(t, f.expenses.UpdateExpense(ctx, edit), "2025-04")
	})

	t.Run("malformed month key", func(t *testing.T) {
		err := f.expenses.LockMonth(ctx, "March 2025")
		var invalid *models.InvalidInputError
		require.ErrorAs(t, err, &invalid)
	})
}

func TestListExpensesByMonth(t *testing.T) {
	f := newFixture(t, testDay)
	ctx := context.Background()
	alice := seedMember(t, f.members, "Alice")

	require.NoError(t, f.expenses.CreateExpense(ctx,
		equalExpense("March groceries", 30, alice.ID, []string{alice.ID}, models.NewDate(2025, 3, 10))))
	require.NoError(t, f.expenses.CreateExpense(ctx,
		equalExpense("April groceries", 40, alice.ID, []string{alice.ID}, models.NewDate(2025, 4, 2))))

	march, err := f.expenses.ListExpenses(ctx, "2025-03")
	require.NoError(t, err)
	require.Len(t, march, 1)
	assert.Equal(t, "March groceries", march[0].Title)

	all, err := f.expenses.ListExpenses(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	_, err = f.expenses.ListExpenses(ctx, "2025-3")
	var invalid *models.InvalidInputError
	require.ErrorAs(t, err, &invalid)
}

func TestExpenseEvents(t *testing.T) {
	f := newFixture(t, testDay)
	ctx := context.Background()
	alice := seedMember(t, f.members, "Alice")
	day := models.NewDate(2025, 3, 10)

	expense := equalExpense("Groceries", 30, alice.ID, []string{alice.ID}, day)
	require.NoError(t, f.expenses.CreateExpense(ctx, expense))

	edit := equalExpense("Groceries", 35, alice.ID, []string{alice.ID}, day)
	edit.ID = expense.ID
	require.NoError(t, f.expenses.UpdateExpense(ctx, edit))

	require.NoError(t, f.expenses.DeleteExpense(ctx, expense.ID))

	require.Len(t, f.publisher.events, 3)
	assert.Equal(t, events.TypeExpenseCreated, f.publisher.events[0].Type)
	assert.Equal(t, events.TypeExpenseUpdated, f.publisher.events[1].Type)
	assert.Equal(t, events.TypeExpenseDeleted, f.publisher.events[2].Type)
	for _, ev := range f.publisher.events {
		assert.Equal(t, expense.ID, ev.ExpenseID)
		assert.Equal(t, "2025-03", ev.Month)
	}
}
