package scraper

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"path"
	"time"

	errs "mediascraper/pkg/errors"
	"mediascraper/pkg/logger"
	"mediascraper/pkg/retry"
	"mediascraper/pkg/storage"
)

// defaultExtension is used when a media URL's path carries no usable
// file extension.
const defaultExtension = ".jpg"

// Downloader fetches media URLs into download directories with retries.
// Each attempt uses a fresh short-lived HTTP client; the browser session
// is never involved in downloads.
type Downloader struct {
	timeout   time.Duration
	baseDelay time.Duration
	userAgent string
	log       logger.Logger

	// one storage manager per target directory, created lazily
	stores map[string]*storage.Manager

	// newClient is swappable in tests
	newClient func() *http.Client
}

// NewDownloader creates a downloader with the given per-attempt timeout
// and retry base delay.
func NewDownloader(timeout, baseDelay time.Duration, userAgent string, log logger.Logger) *Downloader {
	d := &Downloader{
		timeout:   timeout,
		baseDelay: baseDelay,
		userAgent: userAgent,
		log:       log,
		stores:    make(map[string]*storage.Manager),
	}
	d.newClient = func() *http.Client {
		return &http.Client{Timeout: d.timeout}
	}
	return d
}

// Fetch downloads rawURL to filename under dir, retrying up to maxRetries
// attempts with a backoff of baseDelay times the attempt number. Files
// already present in dir are not fetched again.
func (d *Downloader) Fetch(ctx context.Context, rawURL, filename, dir string, maxRetries int) error {
	store, err := d.storeFor(dir)
	if err != nil {
		return err
	}

	if store.Exists(filename) {
		d.log.WithField("file", filename).Debug("already downloaded, skipping")
		return nil
	}

	op := func() error {
		return d.attempt(ctx, rawURL, filename, store)
	}

	err = retry.Do(op, &retry.Config{
		MaxAttempts: maxRetries,
		Backoff:     retry.DownloadBackoff(d.baseDelay),
		RetryIf:     retry.DefaultRetryIf,
		Context:     ctx,
		Logger:      d.log.WithField("url", rawURL),
	})
	if err != nil {
		return fmt.Errorf("download failed: %w", err)
	}

	d.log.WithFields(map[string]interface{}{
		"url":  rawURL,
		"file": filename,
	}).Info("downloaded")
	return nil
}

// storeFor returns the storage manager for dir, creating it on first use
func (d *Downloader) storeFor(dir string) (*storage.Manager, error) {
	if store, ok := d.stores[dir]; ok {
		return store, nil
	}
	store, err := storage.NewManager(dir)
	if err != nil {
		return nil, err
	}
	d.stores[dir] = store
	return store, nil
}

// attempt performs a single GET and streams the body to storage
func (d *Downloader) attempt(ctx context.Context, rawURL, filename string, store *storage.Manager) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return errs.New(errs.ErrorTypeValidation, fmt.Sprintf("bad download URL: %v", err))
	}
	if d.userAgent != "" {
		req.Header.Set("User-Agent", d.userAgent)
	}

	resp, err := d.newClient().Do(req)
	if err != nil {
		return errs.New(errs.ErrorTypeNetwork, err.Error())
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t := errs.ErrorTypeUnknown
		if errs.IsRetryableStatusCode(resp.StatusCode) {
			t = errs.ErrorTypeServer
		}
		return errs.NewWithCode(t, "unexpected status", resp.StatusCode)
	}

	return store.Save(resp.Body, filename)
}

// deriveFilename builds a deterministic filename for the media element at
// the given 0-based index: image_<n> plus the extension of the source
// URL's path. Query strings are discarded by URL parsing; an absent or
// implausible extension falls back to .jpg.
func deriveFilename(index int, rawURL string) string {
	ext := defaultExtension
	if parsed, err := url.Parse(rawURL); err == nil {
		if e := path.Ext(parsed.Path); e != "" && len(e) <= 5 {
			ext = e
		}
	}
	return fmt.Sprintf("image_%d%s", index+1, ext)
}
