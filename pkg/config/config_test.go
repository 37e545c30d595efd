package config

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()

	if config.Scrape.MinImageWidth != 300 || config.Scrape.MinImageHeight != 300 {
		t.Errorf("Expected default minimum dimensions 300x300, got %dx%d",
			config.Scrape.MinImageWidth, config.Scrape.MinImageHeight)
	}

	if config.Download.MaxRetries != 3 {
		t.Errorf("Expected default max retries to be 3, got %d", config.Download.MaxRetries)
	}

	if config.Download.Timeout != 30*time.Second {
		t.Errorf("Expected default download timeout to be 30s, got %v", config.Download.Timeout)
	}

	if config.Scrape.ScrollWait != 2*time.Second {
		t.Errorf("Expected default scroll wait to be 2s, got %v", config.Scrape.ScrollWait)
	}

	expectedDomains := []string{"fapello.com", "instagram.com", "threads.net"}
	if !reflect.DeepEqual(config.Scrape.SupportedDomains, expectedDomains) {
		t.Errorf("Expected default domains %v, got %v", expectedDomains, config.Scrape.SupportedDomains)
	}

	if config.SelectorsFor("fapello").Thumbnails == "" {
		t.Error("Expected default fapello thumbnail selector to be set")
	}
}

func TestLoadFromNonexistentFile(t *testing.T) {
	config := Load(filepath.Join(t.TempDir(), "does-not-exist.yaml"), nil)

	if !reflect.DeepEqual(config, DefaultConfig()) {
		t.Error("Expected defaults when config file does not exist")
	}
}

func TestLoadFromMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("{not yaml: ["), 0600); err != nil {
		t.Fatalf("Failed to write test file: %v", err)
	}

	config := Load(path, nil)

	if !reflect.DeepEqual(config, DefaultConfig()) {
		t.Error("Expected defaults when config file is malformed")
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")

	original := DefaultConfig()
	original.Download.Directory = "/tmp/media"
	original.Download.MaxRetries = 5
	original.Scrape.MinImageWidth = 640
	original.Browser.Headless = false
	original.Credentials["instagram.com"] = Credentials{Username: "user", Password: "pass"}

	if err := original.Save(path); err != nil {
		t.Fatalf("Failed to save config: %v", err)
	}

	loaded := DefaultConfig()
	if err := loaded.LoadFromFile(path); err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	// Credentials are excluded from persistence
	original.Credentials = map[string]Credentials{}
	loaded.Credentials = map[string]Credentials{}
	if !reflect.DeepEqual(original, loaded) {
		t.Errorf("Round trip mismatch:\n saved:  %+v\n loaded: %+v", original, loaded)
	}
}

func TestSaveExcludesCredentials(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")

	config := DefaultConfig()
	config.Credentials["instagram.com"] = Credentials{Username: "secret", Password: "hunter2"}
	if err := config.Save(path); err != nil {
		t.Fatalf("Failed to save config: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read saved config: %v", err)
	}

	for _, word := range []string{"secret", "hunter2", "credentials"} {
		if strings.Contains(string(data), word) {
			t.Errorf("Saved config should not contain %q", word)
		}
	}
}

func TestLoadFromEnvSynthesizesCredentials(t *testing.T) {
	t.Setenv(EnvInstagramUsername, "envuser")
	t.Setenv(EnvInstagramPassword, "envpass")

	config := DefaultConfig()
	config.LoadFromEnv()

	creds, ok := config.CredentialsFor(InstagramDomain)
	if !ok {
		t.Fatal("Expected credentials to be synthesized from environment")
	}
	if creds.Username != "envuser" || creds.Password != "envpass" {
		t.Errorf("Unexpected credentials: %+v", creds)
	}
}

func TestLoadFromEnvKeepsExistingCredentials(t *testing.T) {
	t.Setenv(EnvInstagramUsername, "envuser")
	t.Setenv(EnvInstagramPassword, "envpass")

	config := DefaultConfig()
	config.Credentials[InstagramDomain] = Credentials{Username: "fileuser", Password: "filepass"}
	config.LoadFromEnv()

	creds, _ := config.CredentialsFor(InstagramDomain)
	if creds.Username != "fileuser" {
		t.Errorf("Environment overlay must not overwrite existing credentials, got %+v", creds)
	}
}

func TestFileOverlayKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "partial.yaml")
	partial := "download:\n  directory: /data/media\n"
	if err := os.WriteFile(path, []byte(partial), 0600); err != nil {
		t.Fatalf("Failed to write test file: %v", err)
	}

	config := DefaultConfig()
	if err := config.LoadFromFile(path); err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	if config.Download.Directory != "/data/media" {
		t.Errorf("Expected overlaid directory, got %s", config.Download.Directory)
	}
	if config.Scrape.MinImageWidth != 300 {
		t.Errorf("Expected untouched default min width, got %d", config.Scrape.MinImageWidth)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(*Config)
		wantError bool
	}{
		{"valid defaults", func(c *Config) {}, false},
		{"empty directory", func(c *Config) { c.Download.Directory = "" }, true},
		{"zero timeout", func(c *Config) { c.Download.Timeout = 0 }, true},
		{"zero retries", func(c *Config) { c.Download.MaxRetries = 0 }, true},
		{"negative min width", func(c *Config) { c.Scrape.MinImageWidth = -1 }, true},
		{"no domains", func(c *Config) { c.Scrape.SupportedDomains = nil }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := DefaultConfig()
			tt.mutate(config)
			err := config.Validate()
			if tt.wantError && err == nil {
				t.Error("Expected validation error, got nil")
			}
			if !tt.wantError && err != nil {
				t.Errorf("Unexpected validation error: %v", err)
			}
		})
	}
}
