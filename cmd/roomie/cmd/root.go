// Package cmd provides the roomie CLI commands.
package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/mdtanveer0786/roommate-expense-tracker/internal/config"
	"github.com/mdtanveer0786/roommate-expense-tracker/internal/storage"
	"github.com/mdtanveer0786/roommate-expense-tracker/internal/storage/bolt"
	"github.com/mdtanveer0786/roommate-expense-tracker/internal/storage/memory"
	"github.com/mdtanveer0786/roommate-expense-tracker/internal/storage/sqlite"
	"github.com/mdtanveer0786/roommate-expense-tracker/pkg/logging"
)

var (
	envFile string
	debug   bool
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "roomie",
	Short: "Expense splitting for shared households",
	Long: `roomie tracks shared expenses for a household of roommates:
who paid, how each expense splits across members, and who owes whom.

It supports:
- Equal, percentage and custom splits with absence-aware shares
- Settlement plans that clear all balances in a handful of transfers
- Month locking once a period is settled
- Category, member and monthly trend reports

Example:
  roomie serve
  roomie report --month 2025-03
  roomie settle --record`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if debug {
			logging.SetupWithLevel(slog.LevelDebug)
			return
		}
		logging.Setup()
	},
}

// Execute adds all child commands to the root command and sets flags
// appropriately. This is called by main.main().
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVar(&envFile, "env", "", "env file (default is .env)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")

	// Add subcommands
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(settleCmd)
}

// loadConfig reads and validates the environment configuration.
func loadConfig() *config.Config {
	cfg := config.Load(envFile)
	exitOnError(cfg.Validate(), "invalid configuration")
	return cfg
}

// openStore opens the configured storage backend.
func openStore(cfg *config.Config) (storage.Store, error) {
	switch cfg.DataBackend {
	case config.BackendBolt:
		return bolt.New(cfg.BoltDBPath)
	case config.BackendMemory:
		return memory.New(), nil
	default:
		return sqlite.New(cfg.SQLiteDBPath)
	}
}

// Helper function to handle errors and exit.
func exitOnError(err error, msg string) {
	if err != nil {
		slog.Error(msg, "error", err)
		fmt.Fprintf(os.Stderr, "Error: %s: %v\n", msg, err)
		os.Exit(1)
	}
}
