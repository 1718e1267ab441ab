package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/hirehand/formfill/internal/schemas"
	"github.com/hirehand/formfill/internal/types"
)

var validateCommand = &cobra.Command{
	Use:   "validate <profile.json>",
	Short: "Validate a profile file against the profile schema",
	Args:  cobra.ExactArgs(1),
	RunE:  runValidateCmd,
}

func init() {
	rootCmd.AddCommand(validateCommand)
}

func runValidateCmd(_ *cobra.Command, args []string) error {
	path := args[0]

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}
	if err := schemas.ValidateProfileJSON(data); err != nil {
		return err
	}
	// Struct-level checks catch what the schema cannot express (email and
	// URL formats).
	if _, err := types.ParseProfile(data); err != nil {
		return err
	}

	fmt.Printf("%s is valid\n", path)
	return nil
}
