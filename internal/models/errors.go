package models

import "fmt"

// InvalidInputError reports a request that fails basic validation before any
// calculation runs: non-positive amounts, empty participant lists, malformed
// dates and the like.
type InvalidInputError struct {
	Reason string
}

func (e *InvalidInputError) Error() string {
	return "invalid input: " + e.Reason
}

// SplitMismatchError reports custom split values or percentages that do not
// add up to the expense they are meant to cover. Expected and Actual carry
// the totals so callers can show both numbers.
type SplitMismatchError struct {
	Mode     SplitMode
	Expected float64
	Actual   float64
}

func (e *SplitMismatchError) Error() string {
	unit := ""
	if e.Mode == SplitPercentage {
		unit = "%"
	}
	return fmt.Sprintf("%s split does not add up: expected %.2f%s, got %.2f%s",
		e.Mode, e.Expected, unit, e.Actual, unit)
}

// MonthLockedError reports an attempted mutation of an expense in a locked
// month bucket.
type MonthLockedError struct {
	Month string
}

func (e *MonthLockedError) Error() string {
	return fmt.Sprintf("month %s is locked", e.Month)
}

// NotFoundError reports a lookup of an entity that does not exist.
type NotFoundError struct {
	Kind string // "member", "expense", "absence"
	ID   string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Kind, e.ID)
}

// ReferentialIntegrityError reports an attempt to delete a member that is
// still referenced by expenses or absences.
type ReferentialIntegrityError struct {
	MemberID string
	Expenses int
	Absences int
}

func (e *ReferentialIntegrityError) Error() string {
	return fmt.Sprintf("member %s is still referenced by %d expense(s) and %d absence(s)",
		e.MemberID, e.Expenses, e.Absences)
}
