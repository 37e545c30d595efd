// Package scraper implements the per-site scraping pipelines on top of a
// browsing session: URL validation, thumbnail enumeration, full-resolution
// candidate selection, and retrying downloads.
package scraper

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"mediascraper/pkg/browser"
	"mediascraper/pkg/config"
	errs "mediascraper/pkg/errors"
	"mediascraper/pkg/logger"
)

// fapelloDomain is the host substring that marks a scrapeable gallery URL
const fapelloDomain = "fapello.com"

// Fapello scrapes media galleries from fapello.com. Each thumbnail links
// to a detail page holding the full-resolution image; the detail page is
// opened in a short-lived tab, inspected, and closed before the next
// element is processed.
type Fapello struct {
	session    Session
	cfg        *config.Config
	downloader *Downloader
	log        logger.Logger
	progress   Progress

	// total is the thumbnail count from the last MediaElements call,
	// reported alongside every progress update
	total int
}

// NewFapello creates a Fapello scraper driving the given session.
// progress may be nil.
func NewFapello(session Session, cfg *config.Config, downloader *Downloader, log logger.Logger, progress Progress) *Fapello {
	return &Fapello{
		session:    session,
		cfg:        cfg,
		downloader: downloader,
		log:        log.WithField("site", "fapello"),
		progress:   progress,
	}
}

// ValidateURL checks that the URL is an HTTP(S) address on the Fapello
// domain. The returned message is human-readable in every case.
func (f *Fapello) ValidateURL(rawURL string) (bool, string) {
	parsed, err := url.Parse(rawURL)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return false, "Invalid URL format"
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return false, "URL must use HTTP or HTTPS"
	}
	if !strings.Contains(parsed.Host, fapelloDomain) {
		return false, "Not a valid Fapello domain"
	}
	return true, "URL is valid"
}

// MediaElements scrolls the gallery until no more content loads, then
// collects every thumbnail together with its detail link.
func (f *Fapello) MediaElements(ctx context.Context) ([]browser.Thumbnail, error) {
	if err := f.session.ScrollToBottom(ctx, f.cfg.Scrape.ScrollWait); err != nil {
		return nil, fmt.Errorf("failed to load gallery: %w", err)
	}

	thumbs, err := f.session.Thumbnails(ctx, f.cfg.SelectorsFor("fapello").Thumbnails)
	if err != nil {
		return nil, err
	}

	f.total = len(thumbs)
	f.log.WithField("count", f.total).Info("collected media elements")
	return thumbs, nil
}

// ProcessMediaElement handles one thumbnail end to end: open its detail
// page in a new tab, pick the largest non-excluded image, download it,
// close the tab. Every failure is scoped to this element; the progress
// callback fires exactly once regardless of outcome.
func (f *Fapello) ProcessMediaElement(ctx context.Context, thumb browser.Thumbnail, index int, dir string) (success bool, result string) {
	log := f.log.WithField("index", index+1)

	defer func() {
		if r := recover(); r != nil {
			success = false
			result = fmt.Sprintf("%v", r)
			log.WithField("panic", result).Error("unexpected failure processing media element")
		}
		if f.progress != nil {
			f.progress(index+1, success, f.total)
		}
	}()

	if thumb.Link == "" {
		log.Warn("no link found")
		return false, "no link found"
	}

	tab, err := f.session.OpenTab(ctx, thumb.Link, f.cfg.Scrape.DetailWait)
	if err != nil {
		log.WithError(err).Warn("could not open new window")
		return false, "could not open new window"
	}
	defer func() {
		if cerr := tab.Close(); cerr != nil {
			log.WithError(cerr).Warn("failed to close detail tab")
		}
	}()

	if err := tab.WaitVisible(ctx, f.cfg.SelectorsFor("fapello").FullImage, f.cfg.Scrape.DetailWait); err != nil {
		log.WithError(err).Warn("detail page never showed an image")
		return false, err.Error()
	}

	images, err := tab.Images(ctx)
	if err != nil {
		log.WithError(err).Warn("failed to inspect detail page")
		return false, err.Error()
	}

	best, ok := selectLargestImage(images, f.cfg.Scrape.MinImageWidth, f.cfg.Scrape.MinImageHeight)
	if !ok {
		selErr := errs.New(errs.ErrorTypeSelection, "no suitable image found")
		log.WithError(selErr).Warn("selection failed")
		return false, selErr.Message
	}
	if best.Src == "" {
		selErr := errs.New(errs.ErrorTypeSelection, "no source URL found")
		log.WithError(selErr).Warn("selection failed")
		return false, selErr.Message
	}

	filename := deriveFilename(index, best.Src)
	if err := f.Download(ctx, best.Src, filename, dir, f.cfg.Download.MaxRetries); err != nil {
		log.WithError(err).Error("download failed")
		return false, err.Error()
	}

	return true, filename
}

// Download fetches a URL into dir with retries
func (f *Fapello) Download(ctx context.Context, rawURL, filename, dir string, maxRetries int) error {
	return f.downloader.Fetch(ctx, rawURL, filename, dir, maxRetries)
}
