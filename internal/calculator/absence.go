package calculator

import (
	"github.com/mdtanveer0786/roommate-expense-tracker/internal/models"
)

// IsAbsent reports whether the member is away on the given day according to
// the absence records. Range ends are inclusive.
func IsAbsent(absences []models.Absence, memberID string, day models.Date) bool {
	for _, a := range absences {
		if a.MemberID == memberID && a.Covers(day) {
			return true
		}
	}
	return false
}

// FilterPresent returns the participants who are present on the given day,
// preserving input order. If every participant is absent the payer alone
// carries the expense, whether or not the payer was a participant or is
// itself absent; an expense always needs someone to book it to.
func FilterPresent(participants []string, absences []models.Absence, day models.Date, payerID string) []string {
	present := make([]string, 0, len(participants))
	for _, id := range participants {
		if !IsAbsent(absences, id, day) {
			present = append(present, id)
		}
	}
	if len(present) == 0 && payerID != "" {
		present = append(present, payerID)
	}
	return present
}

// ResolveShares computes the stored share map for an expense, applying
// absence filtering for the expense date. It runs when an expense is created
// or edited; the result is stored on the expense and never recomputed when
// absence records change later.
//
// Equal mode recomputes the even split over the present participants. Custom
// and percentage modes keep the present members' entered values and spread
// the absent members' shortfall equally across the present ones, so the
// entered proportions survive the adjustment.
func ResolveShares(e models.Expense, absences []models.Absence) (map[string]float64, error) {
	present := FilterPresent(e.SplitBetween, absences, e.Date, e.PayerID)
	if len(present) == 0 {
		return nil, &models.InvalidInputError{Reason: "no one present to share the expense and no payer to fall back on"}
	}

	switch e.SplitMode {
	case models.SplitEqual:
		return EqualSplit(e.Amount, present)

	case models.SplitCustom:
		// Entered values must add up before any absence adjustment.
		if _, err := CustomSplit(e.Amount, e.SplitValues); err != nil {
			return nil, err
		}

		var presentSum float64
		for _, id := range present {
			presentSum += e.SplitValues[id]
		}
		shortfall := (e.Amount - presentSum) / float64(len(present))

		shares := make(map[string]float64, len(present))
		for _, id := range present {
			shares[id] = Round2(e.SplitValues[id] + shortfall)
		}
		return shares, nil

	case models.SplitPercentage:
		if _, err := PercentageSplit(e.Amount, e.SplitValues); err != nil {
			return nil, err
		}

		var presentPct float64
		for _, id := range present {
			presentPct += e.SplitValues[id]
		}
		shortfall := (100 - presentPct) / float64(len(present))

		shares := make(map[string]float64, len(present))
		for _, id := range present {
			shares[id] = Round2(e.Amount * (e.SplitValues[id] + shortfall) / 100)
		}
		return shares, nil

	default:
		return nil, &models.InvalidInputError{Reason: "unknown split mode: " + string(e.SplitMode)}
	}
}
