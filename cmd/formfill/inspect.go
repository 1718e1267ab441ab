package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/hirehand/formfill/internal/config"
	"github.com/hirehand/formfill/internal/logger"
	"github.com/hirehand/formfill/internal/observability"
)

var inspectCommand = &cobra.Command{
	Use:   "inspect",
	Short: "Extract job details from an application page without filling anything",
	RunE:  runInspectCmd,
}

var (
	inspectURL      string
	inspectPage     string
	inspectPlatform string
	inspectHeadless bool
	inspectJSONOut  bool
)

func init() {
	inspectCommand.Flags().StringVarP(&inspectURL, "url", "u", "", "Application page URL (mutually exclusive with --page)")
	inspectCommand.Flags().StringVar(&inspectPage, "page", "", "Path to a saved HTML page (mutually exclusive with --url)")
	inspectCommand.Flags().StringVar(&inspectPlatform, "platform", "", "Force a platform adapter instead of URL detection")
	inspectCommand.Flags().BoolVar(&inspectHeadless, "headless", false, "Run the browser headless")
	inspectCommand.Flags().BoolVar(&inspectJSONOut, "json", false, "Print job details as JSON")

	rootCmd.AddCommand(inspectCommand)
}

func runInspectCmd(_ *cobra.Command, _ []string) error {
	cfg := &config.Config{
		JobURL:   inspectURL,
		Page:     inspectPage,
		Platform: inspectPlatform,
		Headless: inspectHeadless,
	}
	if cfg.JobURL == "" && cfg.Page == "" {
		return fmt.Errorf("one of --url or --page is required")
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	log, err := logger.New(false, false)
	if err != nil {
		return fmt.Errorf("failed to build logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	page, cleanup, err := openPage(cfg, log)
	if err != nil {
		return err
	}
	defer cleanup()

	adapter, err := pickAdapter(page, cfg, log)
	if err != nil {
		return err
	}

	details, err := adapter.ExtractJobDetails()
	if err != nil {
		return fmt.Errorf("failed to extract job details: %w", err)
	}

	if inspectJSONOut {
		out, err := json.MarshalIndent(details, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to encode details: %w", err)
		}
		fmt.Println(string(out))
		return nil
	}

	observability.NewPrinter(os.Stdout).PrintJobDetails(details)
	return nil
}
