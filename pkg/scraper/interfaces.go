package scraper

import (
	"context"
	"time"

	"mediascraper/pkg/browser"
	"mediascraper/pkg/config"
)

// Progress is invoked exactly once per processed media element with the
// 1-based item index, the outcome, and the running total of elements.
type Progress func(index int, success bool, total int)

// Scraper is the capability set every site implementation provides
type Scraper interface {
	// ValidateURL reports whether the URL is scrapeable by this site
	// implementation, with a human-readable reason when it is not.
	ValidateURL(rawURL string) (bool, string)

	// MediaElements enumerates the thumbnails on the current page. An
	// implementation may trigger additional page loading (infinite
	// scroll) before returning.
	MediaElements(ctx context.Context) ([]browser.Thumbnail, error)

	// ProcessMediaElement handles one thumbnail end to end: locating the
	// full-resolution media, downloading it into dir, and reporting
	// progress. The returned string is the saved filename on success or
	// the failure reason otherwise. Failures never abort the run.
	ProcessMediaElement(ctx context.Context, thumb browser.Thumbnail, index int, dir string) (bool, string)

	// Download fetches a URL into dir with retries
	Download(ctx context.Context, rawURL, filename, dir string, maxRetries int) error
}

// Authenticator is implemented by scrapers whose site requires a login
// before any media is reachable.
type Authenticator interface {
	Authenticate(ctx context.Context, creds config.Credentials) error
}

// Session is the browsing-session collaborator the scrapers drive.
// Satisfied by *browser.Chrome.
type Session interface {
	Navigate(ctx context.Context, url string) error
	CurrentURL(ctx context.Context) (string, error)
	ScrollToBottom(ctx context.Context, wait time.Duration) error
	Thumbnails(ctx context.Context, selector string) ([]browser.Thumbnail, error)
	OpenTab(ctx context.Context, url string, timeout time.Duration) (browser.DetailTab, error)
	WaitVisible(ctx context.Context, selector string, timeout time.Duration) error
	SendKeys(ctx context.Context, selector, value string) error
	Submit(ctx context.Context, selector string) error
	Close() error
}
