// Package report derives read-side summaries from the expense log: category
// breakdowns, member contribution rows and monthly trends. Everything here
// is a pure function; nothing mutates input records and nothing errors on
// empty input, so a dashboard always has something to render.
package report

import (
	"sort"

	"github.com/mdtanveer0786/roommate-expense-tracker/internal/calculator"
	"github.com/mdtanveer0786/roommate-expense-tracker/internal/models"
)

// ByCategory sums spending per category label with each category's share of
// the grand total. Rows are sorted by total descending, label ascending for
// equal totals. Non-positive amounts contribute nothing.
func ByCategory(expenses []models.Expense) []models.CategoryTotal {
	totals := make(map[string]*models.CategoryTotal)
	var grand float64
	for _, e := range expenses {
		if e.Amount <= 0 {
			continue
		}
		row, ok := totals[e.Category]
		if !ok {
			row = &models.CategoryTotal{Category: e.Category}
			totals[e.Category] = row
		}
		row.Total += e.Amount
		row.Count++
		grand += e.Amount
	}

	out := make([]models.CategoryTotal, 0, len(totals))
	for _, row := range totals {
		row.Total = calculator.Round2(row.Total)
		if grand > 0 {
			row.Percent = calculator.Round2(row.Total / grand * 100)
		}
		out = append(out, *row)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Total != out[j].Total {
			return out[i].Total > out[j].Total
		}
		return out[i].Category < out[j].Category
	})
	return out
}

// ByMember reports each member's paid total, owed total, net and share of
// all payments. Every roster member gets a row, zero activity included;
// share holders missing from the roster get a row keyed by their ID.
func ByMember(expenses []models.Expense, members []models.Member) []models.MemberReport {
	rows := make(map[string]*models.MemberReport, len(members))
	ensure := func(id, name string) *models.MemberReport {
		row, ok := rows[id]
		if !ok {
			if name == "" {
				name = id
			}
			row = &models.MemberReport{MemberID: id, Name: name}
			rows[id] = row
		}
		return row
	}
	for _, m := range members {
		ensure(m.ID, m.Name)
	}

	var totalPaid float64
	for _, e := range expenses {
		if e.Amount <= 0 || e.PayerID == "" {
			continue
		}
		ensure(e.PayerID, "").Paid += e.Amount
		totalPaid += e.Amount

		shares := e.Shares
		if len(shares) == 0 {
			fallback, err := calculator.EqualSplit(e.Amount, e.SplitBetween)
			if err != nil {
				continue
			}
			shares = fallback
		}
		for id, share := range shares {
			ensure(id, "").Owed += share
		}
	}

	out := make([]models.MemberReport, 0, len(rows))
	for _, row := range rows {
		row.Paid = calculator.Round2(row.Paid)
		row.Owed = calculator.Round2(row.Owed)
		row.Net = calculator.Round2(row.Paid - row.Owed)
		if totalPaid > 0 {
			row.PaidPercent = calculator.Round2(row.Paid / totalPaid * 100)
		}
		out = append(out, *row)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].MemberID < out[j].MemberID
	})
	return out
}

// MonthlyTrend buckets expenses by month and reports total, count, average
// and month-over-month growth, oldest month first. Growth is 0 for the first
// month and whenever the previous month's total is zero; otherwise it is
// (current-previous)/previous*100.
func MonthlyTrend(expenses []models.Expense) []models.MonthlySummary {
	buckets := make(map[string]*models.MonthlySummary)
	for _, e := range expenses {
		if e.Date.IsZero() {
			continue
		}
		key := e.MonthKey()
		row, ok := buckets[key]
		if !ok {
			row = &models.MonthlySummary{Month: key}
			buckets[key] = row
		}
		if e.Amount > 0 {
			row.Total += e.Amount
		}
		row.Count++
	}

	out := make([]models.MonthlySummary, 0, len(buckets))
	for _, row := range buckets {
		out = append(out, *row)
	}
	// YYYY-MM keys sort chronologically as strings.
	sort.Slice(out, func(i, j int) bool { return out[i].Month < out[j].Month })

	var prev float64
	for i := range out {
		out[i].Total = calculator.Round2(out[i].Total)
		if out[i].Count > 0 {
			out[i].Average = calculator.Round2(out[i].Total / float64(out[i].Count))
		}
		if i > 0 && prev > 0 {
			out[i].GrowthPercent = calculator.Round2((out[i].Total - prev) / prev * 100)
		}
		prev = out[i].Total
	}
	return out
}

// MonthBuckets lists every month with activity, newest first, for the month
// overview. Locked flags are the caller's to fill in; this package has no
// view of the lock table.
func MonthBuckets(expenses []models.Expense) []models.MonthBucket {
	buckets := make(map[string]*models.MonthBucket)
	for _, e := range expenses {
		if e.Date.IsZero() {
			continue
		}
		key := e.MonthKey()
		row, ok := buckets[key]
		if !ok {
			row = &models.MonthBucket{Month: key}
			buckets[key] = row
		}
		if e.Amount > 0 {
			row.Total += e.Amount
		}
		row.Count++
	}

	out := make([]models.MonthBucket, 0, len(buckets))
	for _, row := range buckets {
		row.Total = calculator.Round2(row.Total)
		out = append(out, *row)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Month > out[j].Month })
	return out
}
