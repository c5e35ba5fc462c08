package calculator

import (
	"log/slog"
	"sort"

	"github.com/mdtanveer0786/roommate-expense-tracker/internal/models"
)

// Balances aggregates the full expense log into one signed net balance per
// member, sorted by member name.
//
// Algorithm, per expense:
//   - the payer's TotalPaid grows by the full amount
//   - every share holder's TotalOwed grows by their resolved share, the
//     payer's own share included, which nets the payer to "amount fronted
//     minus own share"
//   - net = TotalPaid - TotalOwed
//
// Expenses with a missing share map fall back to an equal split over
// SplitBetween. Records that cannot contribute (non-positive amount, no
// payer, no participants) are logged and skipped; one bad row never takes
// down the whole aggregation. The result covers every roster member, zero
// balances included, and the values sum to zero within rounding noise.
func Balances(expenses []models.Expense, members []models.Member) []models.MemberBalance {
	type acc struct {
		paid float64
		owed float64
	}
	accs := make(map[string]*acc, len(members))
	ensure := func(id string) *acc {
		a, ok := accs[id]
		if !ok {
			a = &acc{}
			accs[id] = a
		}
		return a
	}

	names := make(map[string]string, len(members))
	for _, m := range members {
		names[m.ID] = m.Name
		ensure(m.ID)
	}

	for _, e := range expenses {
		if e.Amount <= 0 || e.PayerID == "" {
			slog.Warn("skipping malformed expense in balance aggregation",
				"expense_id", e.ID, "amount", e.Amount, "payer_id", e.PayerID)
			continue
		}

		shares := e.Shares
		if len(shares) == 0 {
			fallback, err := EqualSplit(e.Amount, e.SplitBetween)
			if err != nil {
				slog.Warn("skipping expense without shares or participants",
					"expense_id", e.ID, "error", err)
				continue
			}
			shares = fallback
		}

		ensure(e.PayerID).paid += e.Amount
		for id, share := range shares {
			ensure(id).owed += share
		}
	}

	balances := make([]models.MemberBalance, 0, len(accs))
	for id, a := range accs {
		name, ok := names[id]
		if !ok {
			name = id
		}
		balances = append(balances, models.MemberBalance{
			MemberID:  id,
			Name:      name,
			TotalPaid: Round2(a.paid),
			TotalOwed: Round2(a.owed),
			Net:       Round2(a.paid - a.owed),
		})
	}

	sort.Slice(balances, func(i, j int) bool {
		if balances[i].Name != balances[j].Name {
			return balances[i].Name < balances[j].Name
		}
		return balances[i].MemberID < balances[j].MemberID
	})
	return balances
}
