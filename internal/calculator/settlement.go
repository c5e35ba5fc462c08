package calculator

import (
	"math"

	"github.com/mdtanveer0786/roommate-expense-tracker/internal/models"
)

type settleParty struct {
	id     string
	name   string
	amount float64 // always positive: credit remaining or debt remaining
}

// pickLargest returns the index of the party with the largest remaining
// amount, or -1 when everyone is settled. Ties go to the lexicographically
// smaller name, then ID, which keeps the plan deterministic for equal
// balances.
func pickLargest(parties []settleParty) int {
	best := -1
	for i := range parties {
		if parties[i].amount <= AmountTolerance {
			continue
		}
		if best == -1 {
			best = i
			continue
		}
		switch {
		case parties[i].amount > parties[best].amount+1e-9:
			best = i
		case math.Abs(parties[i].amount-parties[best].amount) <= 1e-9:
			if parties[i].name < parties[best].name ||
				(parties[i].name == parties[best].name && parties[i].id < parties[best].id) {
				best = i
			}
		}
	}
	return best
}

// Plan derives the ordered transfer list that clears every balance to
// within AmountTolerance of zero.
//
// Each round matches the currently largest remaining creditor with the
// currently largest remaining debtor and settles the smaller of the two
// remainders, re-selecting after every transfer. Members already within
// tolerance of zero are never matched, so an already-settled household
// yields an empty plan and running the plan's output back through Balances
// and Plan again yields nothing new.
//
// The greedy pairing produces at most creditors+debtors-1 transfers. It is
// a heuristic: it does not always find the provably minimal transfer count,
// but it is deterministic, stable and easy to explain to the people paying.
func Plan(balances []models.MemberBalance) []models.SettlementInstruction {
	var creditors, debtors []settleParty
	for _, b := range balances {
		switch {
		case b.Net > AmountTolerance:
			creditors = append(creditors, settleParty{id: b.MemberID, name: b.Name, amount: b.Net})
		case b.Net < -AmountTolerance:
			debtors = append(debtors, settleParty{id: b.MemberID, name: b.Name, amount: -b.Net})
		}
	}

	var plan []models.SettlementInstruction
	for {
		ci := pickLargest(creditors)
		di := pickLargest(debtors)
		if ci < 0 || di < 0 {
			break
		}

		amount := creditors[ci].amount
		if debtors[di].amount < amount {
			amount = debtors[di].amount
		}
		amount = Round2(amount)
		if amount <= AmountTolerance {
			break
		}

		plan = append(plan, models.SettlementInstruction{
			From:   debtors[di].id,
			To:     creditors[ci].id,
			Amount: amount,
		})
		creditors[ci].amount -= amount
		debtors[di].amount -= amount
	}
	return plan
}
