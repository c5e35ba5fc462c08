package models

// SettlementInstruction represents one derived "who pays whom" transfer from
// the settlement plan. Instructions are recomputed from balances on demand
// and are not persisted; recording one materializes it as an Expense in the
// Settlement category.
type SettlementInstruction struct {
	// From is the member ID of the debtor making the payment.
	From string `json:"from"`

	// To is the member ID of the creditor receiving the payment.
	To string `json:"to"`

	// Amount is the transfer amount, always > 0 and rounded to two decimals.
	Amount float64 `json:"amount"`
}

// Validate checks an instruction submitted for recording.
func (s SettlementInstruction) Validate() error {
	if s.From == "" || s.To == "" {
		return &InvalidInputError{Reason: "settlement needs both a payer and a receiver"}
	}
	if s.From == s.To {
		return &InvalidInputError{Reason: "settlement payer and receiver must differ"}
	}
	if s.Amount <= 0 {
		return &InvalidInputError{Reason: "settlement amount must be positive"}
	}
	return nil
}

// MemberBalance pairs a member with their signed net balance. Positive means
// the household owes the member money; negative means the member owes the
// household.
type MemberBalance struct {
	// MemberID is the member this balance belongs to.
	MemberID string `json:"member_id"`

	// Name is the member display name, carried for convenience.
	Name string `json:"name"`

	// TotalPaid is the sum of expense amounts this member fronted.
	TotalPaid float64 `json:"total_paid"`

	// TotalOwed is the sum of this member's resolved shares.
	TotalOwed float64 `json:"total_owed"`

	// Net is TotalPaid - TotalOwed, rounded to two decimals.
	Net float64 `json:"net"`
}
