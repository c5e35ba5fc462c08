package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mdtanveer0786/roommate-expense-tracker/internal/service"
)

var reportMonth string

// reportCmd represents the report command.
var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Print spending reports",
	Long: `Print the category, member and monthly spending reports from the
configured store, without starting the server.

Example:
  roomie report
  roomie report --month 2025-03`,
	Run: runReport,
}

func init() {
	reportCmd.Flags().StringVar(&reportMonth, "month", "", "restrict the category report to one month (YYYY-MM)")
}

func runReport(cmd *cobra.Command, args []string) {
	cfg := loadConfig()

	store, err := openStore(cfg)
	exitOnError(err, "failed to open storage")
	defer store.Close()

	ctx := context.Background()
	reports := service.NewReportService(store)

	categories, err := reports.Categories(ctx, reportMonth)
	exitOnError(err, "failed to build category report")

	fmt.Println("\n=== Spending by category ===")
	if reportMonth != "" {
		fmt.Printf("Month: %s\n", reportMonth)
	}
	if len(categories) == 0 {
		fmt.Println("(no expenses)")
	}
	for _, c := range categories {
		fmt.Printf("%-16s %10.2f  (%.0f%%, %d expenses)\n", c.Category, c.Total, c.Percent, c.Count)
	}

	members, err := reports.Members(ctx)
	exitOnError(err, "failed to build member report")

	fmt.Println("\n=== Per member ===")
	for _, m := range members {
		fmt.Printf("%-16s paid %10.2f  owed %10.2f  net %+10.2f\n", m.Name, m.Paid, m.Owed, m.Net)
	}

	monthly, err := reports.Monthly(ctx)
	exitOnError(err, "failed to build monthly trend")

	fmt.Println("\n=== Monthly trend ===")
	for _, m := range monthly {
		fmt.Printf("%s  total %10.2f  avg %8.2f  growth %+6.1f%%\n", m.Month, m.Total, m.Average, m.GrowthPercent)
	}
	fmt.Println()
}
