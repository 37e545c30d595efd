package main

import (
	"context"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"mediascraper/pkg/auth"
	"mediascraper/pkg/config"
	"mediascraper/pkg/logger"
	"mediascraper/pkg/scraper"
	"mediascraper/pkg/ui"
	"mediascraper/pkg/ui/tui"
)

var (
	// Scrape command flags
	outputDir       string
	maxRetries      int
	downloadTimeout time.Duration
	minWidth        int
	minHeight       int
	browserPath     string
	headless        bool
	rateLimit       int
	useTUI          bool
)

// scrapeCmd represents the scrape command
var scrapeCmd = &cobra.Command{
	Use:   "scrape <url>",
	Short: "Download all media from a gallery or profile URL",
	Long: `Download every image reachable from the given URL.

The scraper launches a headless browser, scrolls the page until no more
content loads, then visits each media element and downloads its
full-resolution image with retries. Sites that need a login (Instagram)
use credentials stored via 'mediascraper auth login' or the
MEDIASCRAPER_IG_USERNAME / MEDIASCRAPER_IG_PASSWORD environment
variables.`,
	Example: `  # Download a gallery using default settings
  mediascraper scrape https://fapello.com/some-model/

  # Download to a specific directory with more retries
  mediascraper scrape https://fapello.com/some-model/ --output ./media --max-retries 5

  # Scrape an Instagram profile with the live terminal UI
  mediascraper scrape https://www.instagram.com/natgeo/ --tui

  # Watch the browser work
  mediascraper scrape https://fapello.com/some-model/ --headless=false`,
	Args: cobra.ExactArgs(1),
	Run:  runScrape,
}

func init() {
	rootCmd.AddCommand(scrapeCmd)

	scrapeCmd.Flags().StringVarP(&outputDir, "output", "o", "", "output directory for downloads")
	scrapeCmd.Flags().IntVar(&maxRetries, "max-retries", 3, "maximum download attempts per image")
	scrapeCmd.Flags().DurationVar(&downloadTimeout, "download-timeout", 30*time.Second, "timeout per download attempt")
	scrapeCmd.Flags().IntVar(&minWidth, "min-width", 0, "minimum acceptable image width")
	scrapeCmd.Flags().IntVar(&minHeight, "min-height", 0, "minimum acceptable image height")
	scrapeCmd.Flags().StringVar(&browserPath, "browser-path", "", "Chrome/Chromium binary path")
	scrapeCmd.Flags().BoolVar(&headless, "headless", true, "run the browser headless")
	scrapeCmd.Flags().IntVar(&rateLimit, "rate-limit", 0, "detail-page visits per minute")
	scrapeCmd.Flags().BoolVar(&useTUI, "tui", false, "use interactive terminal UI with real-time progress")
}

func runScrape(cmd *cobra.Command, args []string) {
	targetURL := strings.TrimSpace(args[0])

	flags := map[string]interface{}{}
	if outputDir != "" {
		flags["directory"] = outputDir
	}
	if maxRetries != 3 {
		flags["max-retries"] = maxRetries
	}
	if downloadTimeout != 30*time.Second {
		flags["download-timeout"] = downloadTimeout
	}
	if minWidth > 0 {
		flags["min-width"] = minWidth
	}
	if minHeight > 0 {
		flags["min-height"] = minHeight
	}
	if browserPath != "" {
		flags["browser-path"] = browserPath
	}
	flags["headless"] = headless
	if logLevel != "info" {
		flags["log-level"] = logLevel
	}

	cfg := config.Load(configFile, flags)
	if rateLimit > 0 {
		cfg.Scrape.VisitsPerMinute = rateLimit
	}

	if err := cfg.Validate(); err != nil {
		ui.PrintError("Invalid configuration", err.Error())
		os.Exit(1)
	}

	if err := logger.Initialize(&cfg.Logging); err != nil {
		ui.PrintError("Failed to initialize logging", err.Error())
		os.Exit(1)
	}
	log := logger.GetLogger()
	log.WithField("version", version).Info("media scraper starting")

	// Stored credentials fill the gap when neither the config file nor the
	// environment supplied any for the target's domain.
	overlayStoredCredentials(cfg)

	if !useTUI {
		ui.PrintInfo("Target", targetURL)
		ui.PrintInfo("Output", cfg.Download.Directory)
	}

	if useTUI {
		runScrapeWithTUI(cfg, log, targetURL)
		return
	}

	tracker := ui.NewTracker()
	controller := scraper.NewController(cfg, log, tracker.Report)

	if err := controller.Run(context.Background(), targetURL); err != nil {
		log.WithError(err).Error("scrape failed")
		ui.PrintError("SCRAPE FAILED", err.Error())
		os.Exit(1)
	}

	tracker.Finish()
}

// runScrapeWithTUI runs the controller in a goroutine while the terminal
// UI owns the main goroutine.
func runScrapeWithTUI(cfg *config.Config, log logger.Logger, targetURL string) {
	terminal := tui.New(targetURL)

	totalSent := false
	progress := func(index int, success bool, total int) {
		if !totalSent {
			terminal.SetTotal(total)
			totalSent = true
		}
		terminal.ReportItem(index, success, "")
	}

	controller := scraper.NewController(cfg, log, progress)

	done := make(chan error, 1)
	go func() {
		err := controller.Run(context.Background(), targetURL)
		terminal.Finish(err)
		done <- err
	}()

	if err := terminal.Start(); err != nil {
		log.WithError(err).Error("terminal UI failed")
		os.Exit(1)
	}

	if err := <-done; err != nil {
		log.WithError(err).Error("scrape failed")
		ui.PrintError("SCRAPE FAILED", err.Error())
		os.Exit(1)
	}
}

// overlayStoredCredentials merges keychain-stored credentials into the
// config for domains the file and environment left empty.
func overlayStoredCredentials(cfg *config.Config) {
	manager, err := auth.NewManager()
	if err != nil {
		return
	}

	accounts, err := manager.List()
	if err != nil {
		return
	}

	// The keychain cannot enumerate its entries, so look Instagram up
	// directly in addition to the listable stores.
	if account, err := manager.Retrieve(config.InstagramDomain); err == nil {
		accounts = append(accounts, account)
	}

	for _, account := range accounts {
		if _, exists := cfg.CredentialsFor(account.Domain); exists {
			continue
		}
		if cfg.Credentials == nil {
			cfg.Credentials = map[string]config.Credentials{}
		}
		cfg.Credentials[account.Domain] = config.Credentials{
			Username: account.Username,
			Password: account.Password,
		}
	}
}
