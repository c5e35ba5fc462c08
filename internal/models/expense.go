package models

import "strings"

// SplitMode selects how an expense amount is divided among participants.
type SplitMode string

const (
	// SplitEqual divides the amount evenly among present participants.
	SplitEqual SplitMode = "equal"

	// SplitCustom uses caller-provided absolute amounts per participant.
	// The values must sum to the expense amount within 0.01.
	SplitCustom SplitMode = "custom"

	// SplitPercentage uses caller-provided percentages per participant.
	// The percentages must sum to 100 within 0.1.
	SplitPercentage SplitMode = "percentage"
)

// CategorySettlement is the reserved category for expenses materialized from
// settlement instructions. Recording a settlement writes a custom-split
// expense in this category; absence filtering never applies to it.
const CategorySettlement = "Settlement"

// Expense represents a shared expense paid by one member on behalf of the
// household.
//
// SplitBetween and SplitValues hold the caller's intent as entered;
// Shares holds the outcome after split calculation and absence adjustment.
// Balance aggregation reads only Shares, so an expense's effect on balances
// is fixed at creation (or edit) time and does not drift when absence
// records change afterwards.
type Expense struct {
	// ID is the unique identifier for the expense (UUID format).
	ID string `json:"id"`

	// Title is the human-readable name, e.g. "Groceries week 12".
	Title string `json:"title"`

	// Amount is the full amount paid, in household currency. Must be > 0.
	Amount float64 `json:"amount"`

	// PayerID is the member who fronted the money. The payer does not have
	// to be a participant.
	PayerID string `json:"payer_id"`

	// SplitMode is how the amount divides among participants.
	SplitMode SplitMode `json:"split_mode"`

	// SplitBetween is the intended participant list (member IDs) before
	// absence filtering.
	SplitBetween []string `json:"split_between"`

	// SplitValues holds the entered per-member inputs for custom (absolute
	// amounts) and percentage (percentages) modes. Nil for equal mode.
	SplitValues map[string]float64 `json:"split_values,omitempty"`

	// Shares is the resolved member ID → monetary share map. Values sum to
	// Amount within 0.01. Stored verbatim once resolved.
	Shares map[string]float64 `json:"shares"`

	// Category is a free-form label, e.g. "Groceries", "Utilities".
	Category string `json:"category"`

	// Date is the calendar day the expense applies to. Determines the month
	// bucket and which absence records affect the split.
	Date Date `json:"date"`

	// Notes is optional free text.
	Notes string `json:"notes,omitempty"`

	// CreatedAt is the Unix timestamp when the expense was recorded.
	CreatedAt int64 `json:"created_at"`

	// UpdatedAt is the Unix timestamp of the last edit.
	UpdatedAt int64 `json:"updated_at"`
}

// MonthKey returns the month bucket this expense belongs to, e.g. "2025-03".
func (e Expense) MonthKey() string {
	return e.Date.MonthKey()
}

// IsSettlement reports whether this expense was materialized from a
// settlement instruction.
func (e Expense) IsSettlement() bool {
	return e.Category == CategorySettlement
}

// Validate checks the fields a caller must supply before any split
// calculation runs.
func (e Expense) Validate() error {
	if strings.TrimSpace(e.Title) == "" {
		return &InvalidInputError{Reason: "expense title is required"}
	}
	if e.Amount <= 0 {
		return &InvalidInputError{Reason: "expense amount must be positive"}
	}
	if strings.TrimSpace(e.PayerID) == "" {
		return &InvalidInputError{Reason: "expense payer is required"}
	}
	switch e.SplitMode {
	case SplitEqual, SplitCustom, SplitPercentage:
	default:
		return &InvalidInputError{Reason: "unknown split mode: " + string(e.SplitMode)}
	}
	if len(e.SplitBetween) == 0 {
		return &InvalidInputError{Reason: "expense needs at least one participant"}
	}
	if e.SplitMode != SplitEqual && len(e.SplitValues) == 0 {
		return &InvalidInputError{Reason: string(e.SplitMode) + " split needs per-member values"}
	}
	return e.Date.Validate()
}

// CloneShares returns a fresh copy of the resolved share map, never nil.
func (e Expense) CloneShares() map[string]float64 {
	out := make(map[string]float64, len(e.Shares))
	for id, share := range e.Shares {
		out[id] = share
	}
	return out
}
