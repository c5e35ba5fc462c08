// Package calculator implements the money math of the household: split
// resolution, absence adjustment, balance aggregation and settlement
// planning. Everything in this package is a pure function over domain
// values; persistence and transport live elsewhere.
package calculator

import (
	"math"

	"github.com/mdtanveer0786/roommate-expense-tracker/internal/models"
)

const (
	// AmountTolerance is the slack allowed when comparing monetary sums.
	// Two amounts within this distance are considered equal.
	AmountTolerance = 0.01

	// PercentTolerance is the slack allowed when checking that percentage
	// splits sum to 100.
	PercentTolerance = 0.1
)

// Round2 rounds a monetary amount to two decimals, half away from zero.
func Round2(x float64) float64 {
	return math.Round(x*100) / 100
}

// EqualSplit divides amount evenly among participants. Every participant
// gets the same share, rounded to two decimals; the rounding residue is not
// redistributed (at most one cent per participant).
func EqualSplit(amount float64, participants []string) (map[string]float64, error) {
	if amount <= 0 {
		return nil, &models.InvalidInputError{Reason: "amount must be positive"}
	}
	if len(participants) == 0 {
		return nil, &models.InvalidInputError{Reason: "must have at least one participant"}
	}

	share := Round2(amount / float64(len(participants)))
	shares := make(map[string]float64, len(participants))
	for _, id := range participants {
		shares[id] = share
	}
	return shares, nil
}

// CustomSplit validates caller-entered absolute amounts against the expense
// amount and returns them rounded to two decimals. The entered values must
// sum to amount within AmountTolerance.
func CustomSplit(amount float64, values map[string]float64) (map[string]float64, error) {
	if amount <= 0 {
		return nil, &models.InvalidInputError{Reason: "amount must be positive"}
	}
	if len(values) == 0 {
		return nil, &models.InvalidInputError{Reason: "custom split needs per-member values"}
	}

	var sum float64
	for id, v := range values {
		if v < 0 {
			return nil, &models.InvalidInputError{Reason: "split value for " + id + " is negative"}
		}
		sum += v
	}
	if math.Abs(sum-amount) > AmountTolerance {
		return nil, &models.SplitMismatchError{
			Mode:     models.SplitCustom,
			Expected: Round2(amount),
			Actual:   Round2(sum),
		}
	}

	shares := make(map[string]float64, len(values))
	for id, v := range values {
		shares[id] = Round2(v)
	}
	return shares, nil
}

// PercentageSplit converts caller-entered percentages into monetary shares.
// The percentages must sum to 100 within PercentTolerance.
func PercentageSplit(amount float64, percents map[string]float64) (map[string]float64, error) {
	if amount <= 0 {
		return nil, &models.InvalidInputError{Reason: "amount must be positive"}
	}
	if len(percents) == 0 {
		return nil, &models.InvalidInputError{Reason: "percentage split needs per-member values"}
	}

	var sum float64
	for id, p := range percents {
		if p < 0 {
			return nil, &models.InvalidInputError{Reason: "percentage for " + id + " is negative"}
		}
		sum += p
	}
	if math.Abs(sum-100) > PercentTolerance {
		return nil, &models.SplitMismatchError{
			Mode:     models.SplitPercentage,
			Expected: 100,
			Actual:   Round2(sum),
		}
	}

	shares := make(map[string]float64, len(percents))
	for id, p := range percents {
		shares[id] = Round2(amount * p / 100)
	}
	return shares, nil
}
