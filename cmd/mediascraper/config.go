package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"mediascraper/pkg/config"
	"mediascraper/pkg/ui"
)

// configCmd represents the config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration files",
	Long: `Manage Media Scraper configuration files.

Configuration is built from ordered sources:
  - Default values (lowest priority)
  - Configuration file
  - Environment variables
  - Command line flags (highest priority)`,
}

// configInitCmd represents the config init command
var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a configuration file with defaults",
	Long: `Create a configuration file pre-filled with the default values.

The file is created as '.mediascraper.yaml' in the current directory
unless a different path is given with the --config flag. Credentials are
never written to the file.`,
	Run: runConfigInit,
}

// configShowCmd represents the config show command
var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the effective configuration",
	Long: `Show the configuration after merging all sources. Credential values
are masked.`,
	Run: runConfigShow,
}

// configValidateCmd represents the config validate command
var configValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate the configuration",
	Long: `Validate the effective configuration for missing or out-of-range
values.`,
	Run: runConfigValidate,
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configValidateCmd)
}

func runConfigInit(cmd *cobra.Command, args []string) {
	configPath := configFile
	if configPath == "" {
		configPath = ".mediascraper.yaml"
	}

	if _, err := os.Stat(configPath); err == nil {
		ui.PrintError("Configuration file already exists", configPath)
		fmt.Println("\nTo overwrite, first remove the existing file:")
		fmt.Printf("  rm %s\n", configPath)
		os.Exit(1)
	}

	cfg := config.DefaultConfig()
	if err := cfg.Save(configPath); err != nil {
		ui.PrintError("Failed to write configuration file", err.Error())
		os.Exit(1)
	}

	ui.PrintSuccess("Configuration file created: " + configPath)
	fmt.Println("\nEdit the file to adjust browser, scraping and download settings.")
}

func runConfigShow(cmd *cobra.Command, args []string) {
	cfg := config.Load(configFile, nil)

	// Mask credential values before printing
	masked := *cfg
	masked.Credentials = map[string]config.Credentials{}
	for domain, creds := range cfg.Credentials {
		masked.Credentials[domain] = config.Credentials{
			Username: creds.Username,
			Password: "********",
		}
	}

	data, err := yaml.Marshal(&masked)
	if err != nil {
		ui.PrintError("Failed to render configuration", err.Error())
		os.Exit(1)
	}

	fmt.Println("Current configuration:")
	fmt.Println(string(data))
}

func runConfigValidate(cmd *cobra.Command, args []string) {
	cfg := config.Load(configFile, nil)

	if err := cfg.Validate(); err != nil {
		ui.PrintError("Configuration is invalid", err.Error())
		os.Exit(1)
	}

	ui.PrintSuccess("Configuration is valid")
	fmt.Printf("  Download directory: %s\n", cfg.Download.Directory)
	fmt.Printf("  Supported domains:  %v\n", cfg.Scrape.SupportedDomains)
	fmt.Printf("  Max retries:        %d\n", cfg.Download.MaxRetries)
}
