package models

import "strings"

// Absence represents a date range during which a member is away from the
// household and should not share in expenses dated inside the range.
//
// Both ends are inclusive: a member absent 2025-03-10 through 2025-03-15 is
// excluded from expenses dated on the 10th and on the 15th. Ranges of the
// same member must not overlap.
type Absence struct {
	// ID is the unique identifier for the absence record (UUID format).
	ID string `json:"id"`

	// MemberID is the member who is away.
	MemberID string `json:"member_id"`

	// StartDate is the first day away (inclusive).
	StartDate Date `json:"start_date"`

	// EndDate is the last day away (inclusive). Defaults to StartDate for
	// single-day absences.
	EndDate Date `json:"end_date"`

	// Reason is an optional note, e.g. "home for the holidays".
	Reason string `json:"reason,omitempty"`

	// CreatedAt is the Unix timestamp when the record was created.
	CreatedAt int64 `json:"created_at"`

	// UpdatedAt is the Unix timestamp of the last edit.
	UpdatedAt int64 `json:"updated_at"`
}

// Covers reports whether the given day falls inside the absence range,
// inclusive of both ends.
func (a Absence) Covers(day Date) bool {
	return !day.Before(a.StartDate.Time) && !day.After(a.EndDate.Time)
}

// Overlaps reports whether two absence ranges share at least one day.
func (a Absence) Overlaps(other Absence) bool {
	return !a.StartDate.After(other.EndDate.Time) && !other.StartDate.After(a.EndDate.Time)
}

// Validate checks the fields a caller must supply. A zero EndDate is allowed
// at the service boundary, which normalizes it to StartDate first.
func (a Absence) Validate() error {
	if strings.TrimSpace(a.MemberID) == "" {
		return &InvalidInputError{Reason: "absence member is required"}
	}
	if err := a.StartDate.Validate(); err != nil {
		return &InvalidInputError{Reason: "absence start date is required"}
	}
	if err := a.EndDate.Validate(); err != nil {
		return &InvalidInputError{Reason: "absence end date is required"}
	}
	if a.EndDate.Before(a.StartDate.Time) {
		return &InvalidInputError{Reason: "absence end date precedes start date"}
	}
	return nil
}
