package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"
)

// Environment variables supplying Instagram credentials when the config
// file has no entry for the domain.
const (
	EnvInstagramUsername = "MEDIASCRAPER_IG_USERNAME"
	EnvInstagramPassword = "MEDIASCRAPER_IG_PASSWORD"
)

// InstagramDomain is the credential-map key for the social-media site.
const InstagramDomain = "instagram.com"

// Config holds all configuration options for the media scraper
type Config struct {
	// Browser session settings
	Browser BrowserConfig `yaml:"browser" json:"browser"`

	// Scraping behaviour and per-site selectors
	Scrape ScrapeConfig `yaml:"scrape" json:"scrape"`

	// Download settings
	Download DownloadConfig `yaml:"download" json:"download"`

	// Logging configuration
	Logging LoggingConfig `yaml:"logging" json:"logging"`

	// Credentials maps a domain to its stored credentials. Loaded from the
	// config file or the environment, never written back by Save.
	Credentials map[string]Credentials `yaml:"credentials,omitempty" json:"credentials,omitempty"`
}

// BrowserConfig holds settings for the Chrome session
type BrowserConfig struct {
	// ExecPath is the Chrome/Chromium binary; empty means auto-discover
	ExecPath     string        `yaml:"exec_path" json:"exec_path"`
	Headless     bool          `yaml:"headless" json:"headless"`
	WindowWidth  int           `yaml:"window_width" json:"window_width"`
	WindowHeight int           `yaml:"window_height" json:"window_height"`
	UserAgent    string        `yaml:"user_agent" json:"user_agent"`
	PageLoadWait time.Duration `yaml:"page_load_wait" json:"page_load_wait"`
}

// ScrapeConfig holds scraping thresholds and per-site DOM selectors
type ScrapeConfig struct {
	SupportedDomains []string                 `yaml:"supported_domains" json:"supported_domains"`
	MinImageWidth    int                      `yaml:"min_image_width" json:"min_image_width"`
	MinImageHeight   int                      `yaml:"min_image_height" json:"min_image_height"`
	ScrollWait       time.Duration            `yaml:"scroll_wait" json:"scroll_wait"`
	DetailWait       time.Duration            `yaml:"detail_wait" json:"detail_wait"`
	VisitsPerMinute  int                      `yaml:"visits_per_minute" json:"visits_per_minute"`
	Selectors        map[string]SiteSelectors `yaml:"selectors" json:"selectors"`
}

// SiteSelectors holds the DOM selector strings for one site
type SiteSelectors struct {
	Thumbnails string `yaml:"thumbnails" json:"thumbnails"`
	FullImage  string `yaml:"full_image" json:"full_image"`
}

// DownloadConfig holds download-specific configuration
type DownloadConfig struct {
	Directory      string        `yaml:"directory" json:"directory"`
	Timeout        time.Duration `yaml:"timeout" json:"timeout"`
	MaxRetries     int           `yaml:"max_retries" json:"max_retries"`
	RetryBaseDelay time.Duration `yaml:"retry_base_delay" json:"retry_base_delay"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level string `yaml:"level" json:"level"`
	File  string `yaml:"file" json:"file"`
}

// Credentials is a username/password pair for one domain
type Credentials struct {
	Username string `yaml:"username" json:"username"`
	Password string `yaml:"password" json:"password"`
}

// DefaultConfig returns a Config instance with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Browser: BrowserConfig{
			ExecPath:     "",
			Headless:     true,
			WindowWidth:  1920,
			WindowHeight: 1080,
			UserAgent:    "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
			PageLoadWait: 5 * time.Second,
		},
		Scrape: ScrapeConfig{
			SupportedDomains: []string{"fapello.com", "instagram.com", "threads.net"},
			MinImageWidth:    300,
			MinImageHeight:   300,
			ScrollWait:       2 * time.Second,
			DetailWait:       15 * time.Second,
			VisitsPerMinute:  30,
			Selectors: map[string]SiteSelectors{
				"fapello": {
					Thumbnails: "img.w-full.h-full.absolute.object-cover.inset-0",
					FullImage:  "img",
				},
				"instagram": {
					Thumbnails: "article img",
					FullImage:  "div._aagv img",
				},
			},
		},
		Download: DownloadConfig{
			Directory:      "./scraped_media",
			Timeout:        30 * time.Second,
			MaxRetries:     3,
			RetryBaseDelay: 2 * time.Second,
		},
		Logging: LoggingConfig{
			Level: "info",
			File:  "",
		},
		Credentials: map[string]Credentials{},
	}
}

// LoadFromFile overlays configuration from a YAML file onto the receiver.
// Unknown keys are ignored, missing keys keep their current values.
func (c *Config) LoadFromFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}

	return nil
}

// LoadFromEnv overlays configuration from environment variables. A
// credential pair for Instagram is synthesized only when the credential map
// has no entry for the domain yet.
func (c *Config) LoadFromEnv() {
	if execPath := os.Getenv("MEDIASCRAPER_BROWSER_PATH"); execPath != "" {
		c.Browser.ExecPath = execPath
	}
	if dir := os.Getenv("MEDIASCRAPER_DOWNLOAD_DIR"); dir != "" {
		c.Download.Directory = dir
	}
	if retries := os.Getenv("MEDIASCRAPER_MAX_RETRIES"); retries != "" {
		if val, err := strconv.Atoi(retries); err == nil && val > 0 {
			c.Download.MaxRetries = val
		}
	}
	if level := os.Getenv("MEDIASCRAPER_LOG_LEVEL"); level != "" {
		c.Logging.Level = level
	}

	username := os.Getenv(EnvInstagramUsername)
	password := os.Getenv(EnvInstagramPassword)
	if username != "" && password != "" {
		if c.Credentials == nil {
			c.Credentials = map[string]Credentials{}
		}
		if _, exists := c.Credentials[InstagramDomain]; !exists {
			c.Credentials[InstagramDomain] = Credentials{
				Username: username,
				Password: password,
			}
		}
	}
}

// CredentialsFor looks up stored credentials for a domain
func (c *Config) CredentialsFor(domain string) (Credentials, bool) {
	creds, ok := c.Credentials[domain]
	return creds, ok
}

// SelectorsFor looks up the DOM selectors for a site; missing entries
// yield the zero value.
func (c *Config) SelectorsFor(site string) SiteSelectors {
	return c.Scrape.Selectors[site]
}

// Save writes the configuration to a YAML file. The credential map is
// intentionally excluded from persistence.
func (c *Config) Save(path string) error {
	sanitized := *c
	sanitized.Credentials = nil

	data, err := yaml.Marshal(&sanitized)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// MergeCommandLineFlags merges command line flags into the configuration
func (c *Config) MergeCommandLineFlags(flags map[string]interface{}) {
	if dir, ok := flags["directory"].(string); ok && dir != "" {
		c.Download.Directory = dir
	}
	if retries, ok := flags["max-retries"].(int); ok && retries > 0 {
		c.Download.MaxRetries = retries
	}
	if timeout, ok := flags["download-timeout"].(time.Duration); ok && timeout > 0 {
		c.Download.Timeout = timeout
	}
	if width, ok := flags["min-width"].(int); ok && width > 0 {
		c.Scrape.MinImageWidth = width
	}
	if height, ok := flags["min-height"].(int); ok && height > 0 {
		c.Scrape.MinImageHeight = height
	}
	if execPath, ok := flags["browser-path"].(string); ok && execPath != "" {
		c.Browser.ExecPath = execPath
	}
	if headless, ok := flags["headless"].(bool); ok {
		c.Browser.Headless = headless
	}
	if level, ok := flags["log-level"].(string); ok && level != "" {
		c.Logging.Level = level
	}
}

// Validate checks if the configuration is usable
func (c *Config) Validate() error {
	if c.Download.Directory == "" {
		return fmt.Errorf("download directory is required")
	}
	if c.Download.Timeout <= 0 {
		return fmt.Errorf("download timeout must be positive")
	}
	if c.Download.MaxRetries < 1 {
		return fmt.Errorf("max retries must be at least 1")
	}
	if c.Scrape.MinImageWidth < 0 || c.Scrape.MinImageHeight < 0 {
		return fmt.Errorf("minimum image dimensions cannot be negative")
	}
	if len(c.Scrape.SupportedDomains) == 0 {
		return fmt.Errorf("at least one supported domain is required")
	}
	return nil
}

// Load builds the configuration from all sources in a fixed order:
// defaults, then the config file, then environment variables (including
// values from .env files), then command line flags. A missing or malformed
// config file is logged and skipped, never an error.
func Load(configPath string, flags map[string]interface{}) *Config {
	_ = godotenv.Load(".env")
	_ = godotenv.Load(filepath.Join(os.Getenv("HOME"), ".mediascraper.env"))

	config := DefaultConfig()

	if configPath == "" {
		configPath = findConfigFile()
	}
	if configPath != "" {
		if err := config.LoadFromFile(configPath); err != nil {
			log.Warn().Err(err).Str("path", configPath).Msg("ignoring config file, using defaults")
			config = DefaultConfig()
		}
	}

	config.LoadFromEnv()
	config.MergeCommandLineFlags(flags)

	return config
}

// findConfigFile searches for a config file in standard locations
func findConfigFile() string {
	locations := []string{
		".mediascraper.yaml",
		".mediascraper.yml",
		filepath.Join(os.Getenv("HOME"), ".config", "mediascraper", "config.yaml"),
		filepath.Join(os.Getenv("HOME"), ".mediascraper.yaml"),
	}

	for _, loc := range locations {
		if _, err := os.Stat(loc); err == nil {
			return loc
		}
	}

	return ""
}
