package report

import (
	"math"
	"testing"

	"github.com/mdtanveer0786/roommate-expense-tracker/internal/models"
)

func expense(id string, amount float64, category string, date models.Date) models.Expense {
	return models.Expense{
		ID:           id,
		Title:        id,
		Amount:       amount,
		PayerID:      "alice",
		SplitMode:    models.SplitEqual,
		SplitBetween: []string{"alice", "bob"},
		Shares:       map[string]float64{"alice": amount / 2, "bob": amount / 2},
		Category:     category,
		Date:         date,
	}
}

func TestByCategory(t *testing.T) {
	march := models.NewDate(2025, 3, 10)
	expenses := []models.Expense{
		expense("e1", 60, "Groceries", march),
		expense("e2", 40, "Groceries", march),
		expense("e3", 80, "Rent", march),
		expense("e4", 20, "Fun", march),
		{ID: "bad", Amount: 0, Category: "Fun", Date: march},
	}

	rows := ByCategory(expenses)
	if len(rows) != 3 {
		t.Fatalf("got %d categories, want 3: %v", len(rows), rows)
	}

	// Sorted by total descending: Groceries 100, Rent 80, Fun 20.
	if rows[0].Category != "Groceries" || math.Abs(rows[0].Total-100) > 0.01 {
		t.Errorf("rows[0] = %+v, want Groceries 100", rows[0])
	}
	if rows[1].Category != "Rent" || math.Abs(rows[1].Total-80) > 0.01 {
		t.Errorf("rows[1] = %+v, want Rent 80", rows[1])
	}
	if rows[2].Category != "Fun" || math.Abs(rows[2].Total-20) > 0.01 {
		t.Errorf("rows[2] = %+v, want Fun 20", rows[2])
	}

	// Percentages over the 200 grand total.
	if math.Abs(rows[0].Percent-50) > 0.01 {
		t.Errorf("Groceries percent = %v, want 50", rows[0].Percent)
	}
	if math.Abs(rows[2].Percent-10) > 0.01 {
		t.Errorf("Fun percent = %v, want 10", rows[2].Percent)
	}

	if rows[0].Count != 2 {
		t.Errorf("Groceries count = %d, want 2", rows[0].Count)
	}
}

func TestByCategoryEmptyInput(t *testing.T) {
	if rows := ByCategory(nil); len(rows) != 0 {
		t.Errorf("ByCategory(nil) = %v, want empty", rows)
	}
}

func TestByMember(t *testing.T) {
	march := models.NewDate(2025, 3, 10)
	members := []models.Member{
		{ID: "m1", Name: "alice"},
		{ID: "m2", Name: "bob"},
		{ID: "m3", Name: "carol"},
	}
	expenses := []models.Expense{
		{
			ID: "e1", Amount: 90, PayerID: "m1",
			SplitBetween: []string{"m1", "m2", "m3"},
			Shares:       map[string]float64{"m1": 30, "m2": 30, "m3": 30},
			Date:         march,
		},
		{
			ID: "e2", Amount: 30, PayerID: "m2",
			SplitBetween: []string{"m1", "m2"},
			Shares:       map[string]float64{"m1": 15, "m2": 15},
			Date:         march,
		},
	}

	rows := ByMember(expenses, members)
	if len(rows) != 3 {
		t.Fatalf("got %d rows, want 3", len(rows))
	}

	// Sorted by name: alice, bob, carol.
	alice, bob, carol := rows[0], rows[1], rows[2]

	if math.Abs(alice.Paid-90) > 0.01 || math.Abs(alice.Owed-45) > 0.01 || math.Abs(alice.Net-45) > 0.01 {
		t.Errorf("alice = %+v, want paid 90 owed 45 net 45", alice)
	}
	if math.Abs(bob.Paid-30) > 0.01 || math.Abs(bob.Owed-45) > 0.01 || math.Abs(bob.Net+15) > 0.01 {
		t.Errorf("bob = %+v, want paid 30 owed 45 net -15", bob)
	}
	if carol.Paid != 0 || math.Abs(carol.Owed-30) > 0.01 {
		t.Errorf("carol = %+v, want paid 0 owed 30", carol)
	}

	// alice fronted 90 of 120 total: 75%.
	if math.Abs(alice.PaidPercent-75) > 0.01 {
		t.Errorf("alice paid percent = %v, want 75", alice.PaidPercent)
	}
	if math.Abs(bob.PaidPercent-25) > 0.01 {
		t.Errorf("bob paid percent = %v, want 25", bob.PaidPercent)
	}
}

func TestByMemberEmptyInput(t *testing.T) {
	members := []models.Member{{ID: "m1", Name: "alice"}}
	rows := ByMember(nil, members)
	if len(rows) != 1 {
		t.Fatalf("got %d rows, want 1", len(rows))
	}
	if rows[0].Paid != 0 || rows[0].Owed != 0 || rows[0].Net != 0 || rows[0].PaidPercent != 0 {
		t.Errorf("idle member row = %+v, want all zeros", rows[0])
	}
}

func TestMonthlyTrend(t *testing.T) {
	expenses := []models.Expense{
		expense("e1", 100, "Rent", models.NewDate(2025, 1, 5)),
		expense("e2", 50, "Fun", models.NewDate(2025, 2, 10)),
		expense("e3", 100, "Rent", models.NewDate(2025, 2, 20)),
		expense("e4", 75, "Rent", models.NewDate(2025, 3, 1)),
	}

	rows := MonthlyTrend(expenses)
	if len(rows) != 3 {
		t.Fatalf("got %d months, want 3: %v", len(rows), rows)
	}

	// January: 100, first month has growth 0.
	if rows[0].Month != "2025-01" || math.Abs(rows[0].Total-100) > 0.01 || rows[0].GrowthPercent != 0 {
		t.Errorf("rows[0] = %+v, want 2025-01 total 100 growth 0", rows[0])
	}

	// February: 150, up 50% from January.
	if rows[1].Month != "2025-02" || math.Abs(rows[1].Total-150) > 0.01 {
		t.Errorf("rows[1] = %+v, want 2025-02 total 150", rows[1])
	}
	if math.Abs(rows[1].GrowthPercent-50) > 0.01 {
		t.Errorf("february growth = %v, want 50", rows[1].GrowthPercent)
	}
	if rows[1].Count != 2 || math.Abs(rows[1].Average-75) > 0.01 {
		t.Errorf("february count/average = %d/%v, want 2/75", rows[1].Count, rows[1].Average)
	}

	// March: 75, down 50% from February.
	if math.Abs(rows[2].GrowthPercent+50) > 0.01 {
		t.Errorf("march growth = %v, want -50", rows[2].GrowthPercent)
	}
}

func TestMonthlyTrendZeroPreviousMonth(t *testing.T) {
	expenses := []models.Expense{
		{ID: "void", Amount: 0, PayerID: "m1", Date: models.NewDate(2025, 1, 5)},
		expense("e1", 100, "Rent", models.NewDate(2025, 2, 5)),
	}
	rows := MonthlyTrend(expenses)
	if len(rows) != 2 {
		t.Fatalf("got %d months, want 2", len(rows))
	}
	// January totals zero, so February's growth is 0 by convention, not Inf.
	if rows[1].GrowthPercent != 0 {
		t.Errorf("growth after a zero month = %v, want 0", rows[1].GrowthPercent)
	}
}

func TestMonthlyTrendEmptyInput(t *testing.T) {
	if rows := MonthlyTrend(nil); len(rows) != 0 {
		t.Errorf("MonthlyTrend(nil) = %v, want empty", rows)
	}
}

func TestMonthBuckets(t *testing.T) {
	expenses := []models.Expense{
		expense("e1", 100, "Rent", models.NewDate(2025, 1, 5)),
		expense("e2", 50, "Fun", models.NewDate(2025, 3, 10)),
		expense("e3", 25, "Fun", models.NewDate(2025, 3, 11)),
	}
	rows := MonthBuckets(expenses)
	if len(rows) != 2 {
		t.Fatalf("got %d buckets, want 2", len(rows))
	}
	// Newest month first.
	if rows[0].Month != "2025-03" || rows[0].Count != 2 || math.Abs(rows[0].Total-75) > 0.01 {
		t.Errorf("rows[0] = %+v, want 2025-03 count 2 total 75", rows[0])
	}
	if rows[1].Month != "2025-01" {
		t.Errorf("rows[1].Month = %q, want 2025-01", rows[1].Month)
	}
	if rows[0].Locked || rows[1].Locked {
		t.Error("buckets must come back unlocked; the lock table is not visible here")
	}
}
