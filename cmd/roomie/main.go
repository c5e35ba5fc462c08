// Package main is the entry point for the roomie CLI.
package main

import (
	"os"

	"github.com/mdtanveer0786/roommate-expense-tracker/cmd/roomie/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
