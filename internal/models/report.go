package models

// CategoryTotal is one row of the per-category spending report.
type CategoryTotal struct {
	// Category is the expense category label.
	Category string `json:"category"`

	// Total is the summed amount across all expenses in the category.
	Total float64 `json:"total"`

	// Count is the number of expenses in the category.
	Count int `json:"count"`

	// Percent is the category's share of the grand total, 0-100.
	Percent float64 `json:"percent"`
}

// MemberReport is one row of the per-member contribution report.
type MemberReport struct {
	// MemberID is the member this row describes.
	MemberID string `json:"member_id"`

	// Name is the member display name.
	Name string `json:"name"`

	// Paid is the total amount this member fronted as payer.
	Paid float64 `json:"paid"`

	// Owed is the total of this member's resolved shares.
	Owed float64 `json:"owed"`

	// Net is Paid - Owed.
	Net float64 `json:"net"`

	// PaidPercent is this member's share of all payments, 0-100.
	PaidPercent float64 `json:"paid_percent"`
}

// MonthlySummary is one row of the month-over-month trend report.
type MonthlySummary struct {
	// Month is the bucket key, e.g. "2025-03".
	Month string `json:"month"`

	// Total is the summed expense amount for the month.
	Total float64 `json:"total"`

	// Count is the number of expenses in the month.
	Count int `json:"count"`

	// Average is Total / Count, 0 for an empty month.
	Average float64 `json:"average"`

	// GrowthPercent is the month-over-month change of Total relative to the
	// previous month, 0 for the first month or when the previous month's
	// total is zero.
	GrowthPercent float64 `json:"growth_percent"`
}

// MonthBucket describes one month of household activity for the month
// overview listing.
type MonthBucket struct {
	// Month is the bucket key, e.g. "2025-03".
	Month string `json:"month"`

	// Total is the summed expense amount for the month.
	Total float64 `json:"total"`

	// Count is the number of expenses in the month.
	Count int `json:"count"`

	// Locked reports whether the month is closed to mutations.
	Locked bool `json:"locked"`
}
