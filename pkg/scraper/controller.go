package scraper

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"mediascraper/pkg/browser"
	"mediascraper/pkg/config"
	errs "mediascraper/pkg/errors"
	"mediascraper/pkg/logger"
	"mediascraper/pkg/metadata"
	"mediascraper/pkg/ratelimit"
	"mediascraper/pkg/retry"
	"mediascraper/pkg/storage"
)

// minFreeSpace is the disk headroom required before a scrape starts
const minFreeSpace = 500 * 1024 * 1024

// builder constructs a site scraper once the browser session exists
type builder func(Session, *Downloader) Scraper

// Controller runs a whole scrape job: it picks the site implementation
// for the target URL, launches the browser, authenticates when the site
// requires it, and processes every media element sequentially.
type Controller struct {
	cfg      *config.Config
	log      logger.Logger
	progress Progress
	limiter  ratelimit.Limiter

	// newSession is swappable in tests
	newSession func() (Session, error)
}

// NewController creates a controller for one scrape job. progress may be
// nil.
func NewController(cfg *config.Config, log logger.Logger, progress Progress) *Controller {
	c := &Controller{
		cfg:      cfg,
		log:      log,
		progress: progress,
		limiter:  ratelimit.NewTokenBucket(cfg.Scrape.VisitsPerMinute, time.Minute),
	}
	c.newSession = func() (Session, error) {
		return browser.New(&cfg.Browser, log)
	}
	return c
}

// Run scrapes every media element reachable from rawURL into the
// configured download directory and writes a JSON report next to the
// files. Item failures never abort the run; only setup failures do.
func (c *Controller) Run(ctx context.Context, rawURL string) error {
	build, credDomain, err := c.builderFor(rawURL)
	if err != nil {
		return err
	}

	// validation is pure, no browser needed for it
	if ok, msg := build(nil, nil).ValidateURL(rawURL); !ok {
		return errs.New(errs.ErrorTypeValidation, msg)
	}

	dir := c.cfg.Download.Directory
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create download directory: %w", err)
	}
	if err := storage.CheckFreeSpace(dir, minFreeSpace); err != nil {
		return err
	}

	session, err := c.newSession()
	if err != nil {
		return err
	}
	defer session.Close()

	downloader := NewDownloader(
		c.cfg.Download.Timeout,
		c.cfg.Download.RetryBaseDelay,
		c.cfg.Browser.UserAgent,
		c.log,
	)
	scr := build(session, downloader)

	if auth, ok := scr.(Authenticator); ok {
		creds, _ := c.cfg.CredentialsFor(credDomain)
		if err := auth.Authenticate(ctx, creds); err != nil {
			return err
		}
	}

	c.log.WithField("url", rawURL).Info("opening target page")
	if err := session.Navigate(ctx, rawURL); err != nil {
		return errs.New(errs.ErrorTypeNavigation, err.Error())
	}
	if err := retry.Wait(ctx, c.cfg.Browser.PageLoadWait); err != nil {
		return err
	}

	thumbs, err := scr.MediaElements(ctx)
	if err != nil {
		return err
	}
	if len(thumbs) == 0 {
		c.log.Warn("no media elements found")
		return nil
	}

	report := metadata.NewReport(rawURL)
	for i, thumb := range thumbs {
		if err := c.limiter.Wait(ctx); err != nil {
			return err
		}

		success, result := scr.ProcessMediaElement(ctx, thumb, i, dir)
		if success {
			report.Record(i+1, thumb.Src, result, true, "")
		} else {
			report.Record(i+1, thumb.Src, "", false, result)
		}
	}
	report.Finish()

	if err := report.Save(dir); err != nil {
		c.log.WithError(err).Warn("failed to write scrape report")
	}

	c.log.WithFields(map[string]interface{}{
		"total":     report.Total,
		"succeeded": report.Succeeded,
		"directory": dir,
	}).Info("scrape finished")

	return nil
}

// builderFor maps the target URL's host to a site implementation and the
// domain key used for credential lookup.
func (c *Controller) builderFor(rawURL string) (builder, string, error) {
	parsed, err := url.Parse(rawURL)
	if err != nil || parsed.Host == "" {
		return nil, "", errs.New(errs.ErrorTypeValidation, "Invalid URL format")
	}
	host := parsed.Host

	switch {
	case strings.Contains(host, fapelloDomain):
		return func(s Session, d *Downloader) Scraper {
			return NewFapello(s, c.cfg, d, c.log, c.progress)
		}, fapelloDomain, nil

	case strings.Contains(host, config.InstagramDomain):
		return func(s Session, d *Downloader) Scraper {
			return NewInstagram(s, c.cfg, d, c.log, c.progress)
		}, config.InstagramDomain, nil

	case strings.Contains(host, "threads.net"):
		return nil, "", errs.New(errs.ErrorTypeValidation, "threads.net is recognised but not supported yet")

	default:
		return nil, "", errs.New(errs.ErrorTypeValidation, fmt.Sprintf("unsupported domain: %s", host))
	}
}
