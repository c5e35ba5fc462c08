package service

import (
	"context"
	"fmt"
	"sort"

	"github.com/mdtanveer0786/roommate-expense-tracker/internal/models"
	"github.com/mdtanveer0786/roommate-expense-tracker/internal/report"
	"github.com/mdtanveer0786/roommate-expense-tracker/internal/storage"
)

// ReportService derives read-side views over the expense history.
type ReportService struct {
	store storage.Store
}

// NewReportService creates a new ReportService with the given storage backend.
func NewReportService(store storage.Store) *ReportService {
	return &ReportService{store: store}
}

// Categories breaks spending down by category, optionally for a single
// YYYY-MM month bucket.
func (s *ReportService) Categories(ctx context.Context, month string) ([]models.CategoryTotal, error) {
	expenses, err := s.listExpenses(ctx, month)
	if err != nil {
		return nil, err
	}
	return report.ByCategory(expenses), nil
}

// Members reports what each member paid and owes across the full history.
func (s *ReportService) Members(ctx context.Context) ([]models.MemberReport, error) {
	members, err := s.store.ListMembers(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list members: %w", err)
	}
	expenses, err := s.store.ListExpenses(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list expenses: %w", err)
	}
	return report.ByMember(expenses, members), nil
}

// Monthly reports spending per month with month-over-month growth.
func (s *ReportService) Monthly(ctx context.Context) ([]models.MonthlySummary, error) {
	expenses, err := s.store.ListExpenses(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list expenses: %w", err)
	}
	return report.MonthlyTrend(expenses), nil
}

// Months lists every month bucket with activity plus every locked month,
// newest first, with totals and lock flags for the month overview. Locked
// months without expenses show up with zero totals.
func (s *ReportService) Months(ctx context.Context) ([]models.MonthBucket, error) {
	expenses, err := s.store.ListExpenses(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list expenses: %w", err)
	}
	locked, err := s.store.ListLockedMonths(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list locked months: %w", err)
	}

	buckets := report.MonthBuckets(expenses)
	index := make(map[string]int, len(buckets))
	for i, b := range buckets {
		index[b.Month] = i
	}
	for _, month := range locked {
		if i, ok := index[month]; ok {
			buckets[i].Locked = true
			continue
		}
		buckets = append(buckets, models.MonthBucket{Month: month, Locked: true})
	}
	sort.Slice(buckets, func(i, j int) bool { return buckets[i].Month > buckets[j].Month })
	return buckets, nil
}

func (s *ReportService) listExpenses(ctx context.Context, month string) ([]models.Expense, error) {
	if month == "" {
		return s.store.ListExpenses(ctx)
	}
	if err := validateMonthKey(month); err != nil {
		return nil, err
	}
	return s.store.ListExpensesByMonth(ctx, month)
}
