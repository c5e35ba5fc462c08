package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mdtanveer0786/roommate-expense-tracker/internal/service"
)

var recordPlan bool

// settleCmd represents the settle command.
var settleCmd = &cobra.Command{
	Use:   "settle",
	Short: "Show balances and the settlement plan",
	Long: `Compute per-member balances and the transfer plan that clears
them. With --record, every planned transfer is written to the store as a
settlement expense, zeroing the ledger.

Example:
  roomie settle
  roomie settle --record`,
	Run: runSettle,
}

func init() {
	settleCmd.Flags().BoolVar(&recordPlan, "record", false, "record every planned transfer as a settlement expense")
}

func runSettle(cmd *cobra.Command, args []string) {
	cfg := loadConfig()

	store, err := openStore(cfg)
	exitOnError(err, "failed to open storage")
	defer store.Close()

	ctx := context.Background()
	settlements := service.NewSettlementService(store, nil, nil)

	balances, err := settlements.Balances(ctx)
	exitOnError(err, "failed to compute balances")

	names := make(map[string]string, len(balances))
	fmt.Println("\n=== Balances ===")
	for _, b := range balances {
		names[b.MemberID] = b.Name
		fmt.Printf("%-16s paid %10.2f  owed %10.2f  net %+10.2f\n", b.Name, b.TotalPaid, b.TotalOwed, b.Net)
	}

	plan, err := settlements.Plan(ctx)
	exitOnError(err, "failed to compute settlement plan")

	if len(plan) == 0 {
		fmt.Println("\nAll settled, nothing to transfer.")
		return
	}

	fmt.Println("\n=== Settlement plan ===")
	for _, instruction := range plan {
		fmt.Printf("%s pays %s %.2f\n", names[instruction.From], names[instruction.To], instruction.Amount)
	}

	if !recordPlan {
		return
	}

	fmt.Println()
	for _, instruction := range plan {
		recorded, err := settlements.RecordSettlement(ctx, instruction)
		exitOnError(err, "failed to record settlement")
		fmt.Printf("Recorded %q (%.2f)\n", recorded.Title, recorded.Amount)
	}
	fmt.Printf("\nRecorded %d settlements.\n", len(plan))
}
