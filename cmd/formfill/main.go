// Package main provides the entry point for the formfill CLI.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "formfill",
	Short: "Heuristic job application form filler",
	Long:  "formfill fills job application forms on Lever, LinkedIn Easy Apply and Workday from a profile JSON file, using per-platform selector heuristics. It never submits an application.",
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
