// Package storetest holds the behavioral test suite every storage.Store
// backend must pass. Backend packages call Run from their own tests with a
// factory for a fresh, empty store.
package storetest

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/mdtanveer0786/roommate-expense-tracker/internal/models"
	"github.com/mdtanveer0786/roommate-expense-tracker/internal/storage"
)

// Run exercises the full Store contract against a fresh store from open.
func Run(t *testing.T, open func(t *testing.T) storage.Store) {
	t.Run("members", func(t *testing.T) { testMembers(t, open(t)) })
	t.Run("member references", func(t *testing.T) { testMemberRefs(t, open(t)) })
	t.Run("expenses", func(t *testing.T) { testExpenses(t, open(t)) })
	t.Run("expenses by month", func(t *testing.T) { testExpensesByMonth(t, open(t)) })
	t.Run("absences", func(t *testing.T) { testAbsences(t, open(t)) })
	t.Run("month locks", func(t *testing.T) { testMonthLocks(t, open(t)) })
}

func testMembers(t *testing.T, store storage.Store) {
	ctx := context.Background()

	alice := &models.Member{Name: "Alice", Color: "#e07a5f", Avatar: "🦊"}
	if err := store.CreateMember(ctx, alice); err != nil {
		t.Fatalf("CreateMember failed: %v", err)
	}
	if alice.ID == "" {
		t.Error("expected member ID to be generated")
	}
	if alice.CreatedAt == 0 || alice.UpdatedAt == 0 {
		t.Error("expected timestamps to be stamped")
	}

	bob := &models.Member{Name: "Bob"}
	if err := store.CreateMember(ctx, bob); err != nil {
		t.Fatalf("CreateMember failed: %v", err)
	}

	got, err := store.GetMember(ctx, alice.ID)
	if err != nil {
		t.Fatalf("GetMember failed: %v", err)
	}
	if got.Name != "Alice" || got.Color != "#e07a5f" || got.Avatar != "🦊" {
		t.Errorf("GetMember = %+v, want Alice with color and avatar", got)
	}

	members, err := store.ListMembers(ctx)
	if err != nil {
		t.Fatalf("ListMembers failed: %v", err)
	}
	if len(members) != 2 || members[0].Name != "Alice" || members[1].Name != "Bob" {
		t.Errorf("ListMembers = %+v, want [Alice Bob] sorted by name", members)
	}

	alice.Name = "Alicia"
	alice.Color = "#3d405b"
	if err := store.UpdateMember(ctx, alice); err != nil {
		t.Fatalf("UpdateMember failed: %v", err)
	}
	got, err = store.GetMember(ctx, alice.ID)
	if err != nil {
		t.Fatalf("GetMember after update failed: %v", err)
	}
	if got.Name != "Alicia" || got.Color != "#3d405b" {
		t.Errorf("after update, member = %+v, want Alicia #3d405b", got)
	}

	if err := store.DeleteMember(ctx, bob.ID); err != nil {
		t.Fatalf("DeleteMember failed: %v", err)
	}

	var notFound *models.NotFoundError
	if _, err := store.GetMember(ctx, bob.ID); !errors.As(err, &notFound) {
		t.Errorf("GetMember(deleted) error = %v, want NotFoundError", err)
	}
	if err := store.UpdateMember(ctx, &models.Member{ID: "missing", Name: "X"}); !errors.As(err, &notFound) {
		t.Errorf("UpdateMember(missing) error = %v, want NotFoundError", err)
	}
	if err := store.DeleteMember(ctx, "missing"); !errors.As(err, &notFound) {
		t.Errorf("DeleteMember(missing) error = %v, want NotFoundError", err)
	}
}

func testMemberRefs(t *testing.T, store storage.Store) {
	ctx := context.Background()

	members := make(map[string]string)
	for _, name := range []string{"Alice", "Bob", "Carol"} {
		m := &models.Member{Name: name}
		if err := store.CreateMember(ctx, m); err != nil {
			t.Fatalf("CreateMember failed: %v", err)
		}
		members[name] = m.ID
	}

	expense := &models.Expense{
		Title:        "Groceries",
		Amount:       60,
		PayerID:      members["Alice"],
		SplitMode:    models.SplitEqual,
		SplitBetween: []string{members["Alice"], members["Bob"]},
		Shares:       map[string]float64{members["Alice"]: 30, members["Bob"]: 30},
		Category:     "Groceries",
		Date:         models.NewDate(2025, 3, 10),
	}
	if err := store.CreateExpense(ctx, expense); err != nil {
		t.Fatalf("CreateExpense failed: %v", err)
	}
	absence := &models.Absence{
		MemberID:  members["Carol"],
		StartDate: models.NewDate(2025, 3, 1),
		EndDate:   models.NewDate(2025, 3, 5),
	}
	if err := store.CreateAbsence(ctx, absence); err != nil {
		t.Fatalf("CreateAbsence failed: %v", err)
	}

	tests := []struct {
		name         string
		memberID     string
		wantExpenses int
		wantAbsences int
	}{
		{"payer and share holder counts once", members["Alice"], 1, 0},
		{"participant counts", members["Bob"], 1, 0},
		{"absence only", members["Carol"], 0, 1},
		{"unknown member has no refs", "missing", 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			expenses, absences, err := store.CountMemberRefs(ctx, tt.memberID)
			if err != nil {
				t.Fatalf("CountMemberRefs failed: %v", err)
			}
			if expenses != tt.wantExpenses || absences != tt.wantAbsences {
				t.Errorf("CountMemberRefs = (%d, %d), want (%d, %d)",
					expenses, absences, tt.wantExpenses, tt.wantAbsences)
			}
		})
	}
}

func testExpenses(t *testing.T, store storage.Store) {
	ctx := context.Background()

	alice := &models.Member{Name: "Alice"}
	bob := &models.Member{Name: "Bob"}
	for _, m := range []*models.Member{alice, bob} {
		if err := store.CreateMember(ctx, m); err != nil {
			t.Fatalf("CreateMember failed: %v", err)
		}
	}

	expense := &models.Expense{
		Title:        "Internet",
		Amount:       50,
		PayerID:      alice.ID,
		SplitMode:    models.SplitCustom,
		SplitBetween: []string{bob.ID, alice.ID},
		SplitValues:  map[string]float64{alice.ID: 20, bob.ID: 30},
		Shares:       map[string]float64{alice.ID: 20, bob.ID: 30},
		Category:     "Utilities",
		Date:         models.NewDate(2025, 3, 14),
		Notes:        "march bill",
	}
	if err := store.CreateExpense(ctx, expense); err != nil {
		t.Fatalf("CreateExpense failed: %v", err)
	}
	if expense.ID == "" || expense.CreatedAt == 0 {
		t.Error("expected expense ID and CreatedAt to be stamped")
	}

	got, err := store.GetExpense(ctx, expense.ID)
	if err != nil {
		t.Fatalf("GetExpense failed: %v", err)
	}
	if got.Title != "Internet" || got.Category != "Utilities" || got.Notes != "march bill" {
		t.Errorf("GetExpense = %+v, want Internet/Utilities/march bill", got)
	}
	if got.SplitMode != models.SplitCustom {
		t.Errorf("split mode = %v, want custom", got.SplitMode)
	}
	if got.Date.String() != "2025-03-14" {
		t.Errorf("date = %s, want 2025-03-14", got.Date)
	}
	// Participant order must survive the round trip.
	if len(got.SplitBetween) != 2 || got.SplitBetween[0] != bob.ID || got.SplitBetween[1] != alice.ID {
		t.Errorf("SplitBetween = %v, want [bob alice] in entry order", got.SplitBetween)
	}
	if math.Abs(got.SplitValues[alice.ID]-20) > 0.001 || math.Abs(got.SplitValues[bob.ID]-30) > 0.001 {
		t.Errorf("SplitValues = %v, want alice 20 bob 30", got.SplitValues)
	}
	if math.Abs(got.Shares[alice.ID]-20) > 0.001 || math.Abs(got.Shares[bob.ID]-30) > 0.001 {
		t.Errorf("Shares = %v, want alice 20 bob 30", got.Shares)
	}

	// Update rewrites the row and its children.
	got.Title = "Internet + streaming"
	got.Amount = 60
	got.SplitValues = map[string]float64{alice.ID: 30, bob.ID: 30}
	got.Shares = map[string]float64{alice.ID: 30, bob.ID: 30}
	if err := store.UpdateExpense(ctx, got); err != nil {
		t.Fatalf("UpdateExpense failed: %v", err)
	}
	updated, err := store.GetExpense(ctx, expense.ID)
	if err != nil {
		t.Fatalf("GetExpense after update failed: %v", err)
	}
	if updated.Title != "Internet + streaming" || math.Abs(updated.Amount-60) > 0.001 {
		t.Errorf("after update, expense = %+v, want retitled 60", updated)
	}
	if math.Abs(updated.Shares[alice.ID]-30) > 0.001 {
		t.Errorf("after update, shares = %v, want alice 30", updated.Shares)
	}

	if err := store.DeleteExpense(ctx, expense.ID); err != nil {
		t.Fatalf("DeleteExpense failed: %v", err)
	}
	var notFound *models.NotFoundError
	if _, err := store.GetExpense(ctx, expense.ID); !errors.As(err, &notFound) {
		t.Errorf("GetExpense(deleted) error = %v, want NotFoundError", err)
	}
	if err := store.UpdateExpense(ctx, &models.Expense{ID: "missing", Date: models.NewDate(2025, 1, 1)}); !errors.As(err, &notFound) {
		t.Errorf("UpdateExpense(missing) error = %v, want NotFoundError", err)
	}
	if err := store.DeleteExpense(ctx, "missing"); !errors.As(err, &notFound) {
		t.Errorf("DeleteExpense(missing) error = %v, want NotFoundError", err)
	}
}

func testExpensesByMonth(t *testing.T, store storage.Store) {
	ctx := context.Background()

	alice := &models.Member{Name: "Alice"}
	if err := store.CreateMember(ctx, alice); err != nil {
		t.Fatalf("CreateMember failed: %v", err)
	}

	add := func(title string, date models.Date) {
		t.Helper()
		err := store.CreateExpense(ctx, &models.Expense{
			Title:        title,
			Amount:       10,
			PayerID:      alice.ID,
			SplitMode:    models.SplitEqual,
			SplitBetween: []string{alice.ID},
			Shares:       map[string]float64{alice.ID: 10},
			Date:         date,
		})
		if err != nil {
			t.Fatalf("CreateExpense(%s) failed: %v", title, err)
		}
	}
	add("feb", models.NewDate(2025, 2, 20))
	add("march early", models.NewDate(2025, 3, 2))
	add("march late", models.NewDate(2025, 3, 28))

	march, err := store.ListExpensesByMonth(ctx, "2025-03")
	if err != nil {
		t.Fatalf("ListExpensesByMonth failed: %v", err)
	}
	if len(march) != 2 {
		t.Fatalf("got %d march expenses, want 2: %+v", len(march), march)
	}
	// Newest date first.
	if march[0].Title != "march late" || march[1].Title != "march early" {
		t.Errorf("march order = [%s %s], want [march late, march early]",
			march[0].Title, march[1].Title)
	}

	all, err := store.ListExpenses(ctx)
	if err != nil {
		t.Fatalf("ListExpenses failed: %v", err)
	}
	if len(all) != 3 {
		t.Errorf("got %d expenses, want 3", len(all))
	}

	empty, err := store.ListExpensesByMonth(ctx, "2024-12")
	if err != nil {
		t.Fatalf("ListExpensesByMonth(empty) failed: %v", err)
	}
	if len(empty) != 0 {
		t.Errorf("got %d expenses for empty month, want 0", len(empty))
	}
}

func testAbsences(t *testing.T, store storage.Store) {
	ctx := context.Background()

	bob := &models.Member{Name: "Bob"}
	carol := &models.Member{Name: "Carol"}
	for _, m := range []*models.Member{bob, carol} {
		if err := store.CreateMember(ctx, m); err != nil {
			t.Fatalf("CreateMember failed: %v", err)
		}
	}

	first := &models.Absence{
		MemberID:  bob.ID,
		StartDate: models.NewDate(2025, 3, 10),
		EndDate:   models.NewDate(2025, 3, 15),
		Reason:    "holidays",
	}
	if err := store.CreateAbsence(ctx, first); err != nil {
		t.Fatalf("CreateAbsence failed: %v", err)
	}
	if first.ID == "" {
		t.Error("expected absence ID to be generated")
	}
	second := &models.Absence{
		MemberID:  bob.ID,
		StartDate: models.NewDate(2025, 4, 1),
		EndDate:   models.NewDate(2025, 4, 2),
	}
	if err := store.CreateAbsence(ctx, second); err != nil {
		t.Fatalf("CreateAbsence failed: %v", err)
	}
	other := &models.Absence{
		MemberID:  carol.ID,
		StartDate: models.NewDate(2025, 3, 20),
		EndDate:   models.NewDate(2025, 3, 21),
	}
	if err := store.CreateAbsence(ctx, other); err != nil {
		t.Fatalf("CreateAbsence failed: %v", err)
	}

	got, err := store.GetAbsence(ctx, first.ID)
	if err != nil {
		t.Fatalf("GetAbsence failed: %v", err)
	}
	if got.Reason != "holidays" || got.StartDate.String() != "2025-03-10" || got.EndDate.String() != "2025-03-15" {
		t.Errorf("GetAbsence = %+v, want holidays 2025-03-10..2025-03-15", got)
	}

	bobs, err := store.ListAbsencesByMember(ctx, bob.ID)
	if err != nil {
		t.Fatalf("ListAbsencesByMember failed: %v", err)
	}
	if len(bobs) != 2 || !bobs[0].StartDate.Equal(second.StartDate) {
		t.Errorf("ListAbsencesByMember = %+v, want bob's two records newest first", bobs)
	}

	all, err := store.ListAbsences(ctx)
	if err != nil {
		t.Fatalf("ListAbsences failed: %v", err)
	}
	if len(all) != 3 {
		t.Errorf("got %d absences, want 3", len(all))
	}

	got.Reason = "family visit"
	got.EndDate = models.NewDate(2025, 3, 16)
	if err := store.UpdateAbsence(ctx, got); err != nil {
		t.Fatalf("UpdateAbsence failed: %v", err)
	}
	updated, err := store.GetAbsence(ctx, first.ID)
	if err != nil {
		t.Fatalf("GetAbsence after update failed: %v", err)
	}
	if updated.Reason != "family visit" || updated.EndDate.String() != "2025-03-16" {
		t.Errorf("after update, absence = %+v, want family visit ending 03-16", updated)
	}

	if err := store.DeleteAbsence(ctx, second.ID); err != nil {
		t.Fatalf("DeleteAbsence failed: %v", err)
	}
	var notFound *models.NotFoundError
	if _, err := store.GetAbsence(ctx, second.ID); !errors.As(err, &notFound) {
		t.Errorf("GetAbsence(deleted) error = %v, want NotFoundError", err)
	}
}

func testMonthLocks(t *testing.T, store storage.Store) {
	ctx := context.Background()

	locked, err := store.IsMonthLocked(ctx, "2025-03")
	if err != nil {
		t.Fatalf("IsMonthLocked failed: %v", err)
	}
	if locked {
		t.Error("fresh store reports 2025-03 locked")
	}

	for _, key := range []string{"2025-03", "2025-01"} {
		if err := store.LockMonth(ctx, key); err != nil {
			t.Fatalf("LockMonth(%s) failed: %v", key, err)
		}
	}
	// Locking twice is a no-op, not an error.
	if err := store.LockMonth(ctx, "2025-03"); err != nil {
		t.Fatalf("LockMonth(already locked) failed: %v", err)
	}

	locked, err = store.IsMonthLocked(ctx, "2025-03")
	if err != nil {
		t.Fatalf("IsMonthLocked failed: %v", err)
	}
	if !locked {
		t.Error("2025-03 should be locked")
	}

	months, err := store.ListLockedMonths(ctx)
	if err != nil {
		t.Fatalf("ListLockedMonths failed: %v", err)
	}
	if len(months) != 2 || months[0] != "2025-01" || months[1] != "2025-03" {
		t.Errorf("ListLockedMonths = %v, want [2025-01 2025-03]", months)
	}

	if err := store.UnlockMonth(ctx, "2025-03"); err != nil {
		t.Fatalf("UnlockMonth failed: %v", err)
	}
	if err := store.UnlockMonth(ctx, "2025-03"); err != nil {
		t.Fatalf("UnlockMonth(already unlocked) failed: %v", err)
	}
	locked, err = store.IsMonthLocked(ctx, "2025-03")
	if err != nil {
		t.Fatalf("IsMonthLocked failed: %v", err)
	}
	if locked {
		t.Error("2025-03 should be unlocked again")
	}
}
