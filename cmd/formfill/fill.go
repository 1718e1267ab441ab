package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/chromedp/chromedp"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/hirehand/formfill/internal/config"
	"github.com/hirehand/formfill/internal/dom"
	"github.com/hirehand/formfill/internal/logger"
	"github.com/hirehand/formfill/internal/observability"
	"github.com/hirehand/formfill/internal/platform"
	"github.com/hirehand/formfill/internal/schemas"
	"github.com/hirehand/formfill/internal/types"
)

var fillCommand = &cobra.Command{
	Use:   "fill",
	Short: "Fill the currently visible application form",
	Long: `Loads a profile, opens the application page and fills every field the
platform adapter can resolve. Nothing is ever submitted; review the form and
submit manually.

Configuration can be loaded from a JSON file using --config. Command-line
arguments override config file values.`,
	RunE: runFillCmd,
}

var (
	fillConfigPath string
	fillProfile    string
	fillURL        string
	fillPage       string
	fillPlatform   string
	fillHeadless   bool
	fillDryRun     bool
	fillVerbose    bool
	fillDebug      bool
	fillJSONLogs   bool
	fillJSONOut    bool
)

const defaultNavigateTimeout = 30 * time.Second

func init() {
	fillCommand.Flags().StringVar(&fillConfigPath, "config", "", "Path to config.json file (values can be overridden by other flags)")
	fillCommand.Flags().StringVarP(&fillProfile, "profile", "p", "", "Path to profile JSON file")
	fillCommand.Flags().StringVarP(&fillURL, "url", "u", "", "Application page URL (mutually exclusive with --page)")
	fillCommand.Flags().StringVar(&fillPage, "page", "", "Path to a saved HTML page for a dry run (mutually exclusive with --url)")
	fillCommand.Flags().StringVar(&fillPlatform, "platform", "", "Force a platform adapter (lever, linkedin, workday) instead of URL detection")
	fillCommand.Flags().BoolVar(&fillHeadless, "headless", false, "Run the browser headless")
	fillCommand.Flags().BoolVar(&fillDryRun, "dry-run", false, "Fill an in-memory copy of the page; requires --page")
	fillCommand.Flags().BoolVarP(&fillVerbose, "verbose", "v", false, "Print the boxed fill report")
	fillCommand.Flags().BoolVar(&fillDebug, "debug", false, "Log per-selector resolution detail")
	fillCommand.Flags().BoolVar(&fillJSONLogs, "json-logs", false, "Emit JSON logs")
	fillCommand.Flags().BoolVar(&fillJSONOut, "json", false, "Print the fill result as JSON")

	rootCmd.AddCommand(fillCommand)
}

func runFillCmd(_ *cobra.Command, _ []string) error {
	cfg, err := mergedConfig()
	if err != nil {
		return err
	}

	log, err := logger.New(cfg.LogJSON, cfg.Debug)
	if err != nil {
		return fmt.Errorf("failed to build logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	profile, err := loadProfile(cfg.Profile)
	if err != nil {
		return err
	}

	page, cleanup, err := openPage(cfg, log)
	if err != nil {
		return err
	}
	defer cleanup()

	adapter, err := pickAdapter(page, cfg, log)
	if err != nil {
		return err
	}

	log.Info("filling form",
		zap.String("platform", adapter.Name()),
		zap.String("url", page.URL()))

	result := adapter.Fill(profile)

	if cfg.Verbose {
		printer := observability.NewPrinter(os.Stdout)
		printer.PrintProfileSummary(profile)
		printer.PrintFillResult(result)
	}

	if fillJSONOut {
		out, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to encode result: %w", err)
		}
		fmt.Println(string(out))
	} else {
		log.Info("fill finished",
			zap.Bool("success", result.Success),
			zap.Int("filled", len(result.FilledFields)),
			zap.Int("issues", len(result.Errors)))
	}

	if !result.Success {
		return fmt.Errorf("fill failed; see errors in the result")
	}
	return nil
}

// mergedConfig loads the optional config file and overlays the CLI flags.
func mergedConfig() (*config.Config, error) {
	cfg := &config.Config{}
	if fillConfigPath != "" {
		loaded, err := config.LoadConfig(fillConfigPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		if err := loaded.Validate(); err != nil {
			return nil, err
		}
		cfg = loaded
	}

	flags := config.Config{
		Profile:  fillProfile,
		JobURL:   fillURL,
		Page:     fillPage,
		Platform: fillPlatform,
	}
	merged := flags.MergeWithDefaults(*cfg)
	// Bools always come from the flags; a config file cannot force them off.
	merged.Headless = fillHeadless || cfg.Headless
	merged.DryRun = fillDryRun || cfg.DryRun
	merged.Verbose = fillVerbose || cfg.Verbose
	merged.Debug = fillDebug || cfg.Debug
	merged.LogJSON = fillJSONLogs || cfg.LogJSON

	if merged.Profile == "" {
		return nil, fmt.Errorf("--profile is required")
	}
	if merged.JobURL == "" && merged.Page == "" {
		return nil, fmt.Errorf("one of --url or --page is required")
	}
	if err := merged.Validate(); err != nil {
		return nil, err
	}
	return &merged, nil
}

// loadProfile validates the document against the schema before decoding it,
// so malformed files fail with field paths instead of decode errors.
func loadProfile(path string) (*types.ProfileData, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read profile %s: %w", path, err)
	}
	if err := schemas.ValidateProfileJSON(data); err != nil {
		return nil, err
	}
	return types.ParseProfile(data)
}

// openPage builds the dom.Page the adapter runs against: a live browser tab
// for --url, an in-memory copy of a saved page for --page.
func openPage(cfg *config.Config, log *zap.Logger) (dom.Page, func(), error) {
	if cfg.Page != "" {
		src, err := os.ReadFile(cfg.Page)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to read page %s: %w", cfg.Page, err)
		}
		url := cfg.JobURL
		if url == "" {
			url = "file://" + cfg.Page
		}
		page, err := dom.NewMemoryPage(string(src), url)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to parse page: %w", err)
		}
		return page, func() {}, nil
	}

	allocCtx, cancelAlloc := dom.NewExecAllocator(context.Background(), cfg.Headless)
	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)
	cleanup := func() {
		cancelBrowser()
		cancelAlloc()
	}

	page := dom.NewBrowserPage(browserCtx)
	timeout := cfg.LoadTimeout()
	if timeout == 0 {
		timeout = defaultNavigateTimeout
	}
	log.Info("navigating", zap.String("url", cfg.JobURL))
	if err := page.Navigate(cfg.JobURL, timeout); err != nil {
		cleanup()
		return nil, nil, fmt.Errorf("failed to open %s: %w", cfg.JobURL, err)
	}
	return page, cleanup, nil
}

// pickAdapter honors a forced platform and otherwise detects from the URL.
func pickAdapter(page dom.Page, cfg *config.Config, log *zap.Logger) (platform.Adapter, error) {
	pcfg := platform.Config{
		LoadTimeout:    cfg.LoadTimeout(),
		PollInterval:   cfg.PollInterval(),
		OverlayTimeout: cfg.OverlayTimeout(),
		DropdownSettle: cfg.DropdownSettle(),
	}
	switch cfg.Platform {
	case "":
		return platform.Detect(page, pcfg, log)
	case "lever":
		return platform.NewLever(page, pcfg, log), nil
	case "linkedin":
		return platform.NewLinkedIn(page, pcfg, log), nil
	case "workday":
		return platform.NewWorkday(page, pcfg, log), nil
	default:
		return nil, fmt.Errorf("unknown platform %q (want lever, linkedin or workday)", cfg.Platform)
	}
}
