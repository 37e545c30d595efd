package scraper

import (
	"context"
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"mediascraper/pkg/browser"
	"mediascraper/pkg/config"
	errs "mediascraper/pkg/errors"
	"mediascraper/pkg/logger"
)

const (
	instagramLoginURL = "https://www.instagram.com/accounts/login/"

	usernameSelector = `input[name="username"]`
	passwordSelector = `input[name="password"]`
)

// usernamePattern matches valid Instagram profile names
var usernamePattern = regexp.MustCompile(`^[A-Za-z0-9._]{1,30}$`)

// validPathPrefixes are the non-profile URL shapes the scraper accepts
var validPathPrefixes = []string{"p", "stories", "reel"}

// loggedInSelectors mark a successful login; any one of them appearing
// within the wait window is accepted.
var loggedInSelectors = []string{
	`svg[aria-label="Home"]`,
	`a[href="/"]`,
	`nav`,
}

// Instagram scrapes media from instagram.com profiles and posts. Unlike
// the gallery site, thumbnails here already carry usable source URLs, so
// no detail tab is opened per element. Most content requires a login
// first.
type Instagram struct {
	session    Session
	cfg        *config.Config
	downloader *Downloader
	log        logger.Logger
	progress   Progress

	total int
}

// NewInstagram creates an Instagram scraper driving the given session.
// progress may be nil.
func NewInstagram(session Session, cfg *config.Config, downloader *Downloader, log logger.Logger, progress Progress) *Instagram {
	return &Instagram{
		session:    session,
		cfg:        cfg,
		downloader: downloader,
		log:        log.WithField("site", "instagram"),
		progress:   progress,
	}
}

// ValidateURL checks that the URL is an HTTP(S) instagram.com address
// pointing at a profile, post, story, or reel.
func (i *Instagram) ValidateURL(rawURL string) (bool, string) {
	parsed, err := url.Parse(rawURL)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return false, "Invalid URL format"
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return false, "URL must use HTTP or HTTPS"
	}
	if !strings.Contains(parsed.Host, config.InstagramDomain) {
		return false, "Not a valid Instagram domain"
	}

	// A bare instagram.com address with no path is fine
	segments := strings.Split(strings.Trim(parsed.Path, "/"), "/")
	if len(segments) == 0 || segments[0] == "" {
		return true, "URL is valid"
	}

	for _, prefix := range validPathPrefixes {
		if segments[0] == prefix {
			return true, "URL is valid"
		}
	}

	if !usernamePattern.MatchString(segments[0]) {
		return false, "Invalid Instagram username format"
	}
	return true, "URL is valid"
}

// Authenticate logs into Instagram through the login form using the
// supplied credentials. Success is detected by waiting for any of the
// post-login page markers.
func (i *Instagram) Authenticate(ctx context.Context, creds config.Credentials) error {
	if creds.Username == "" || creds.Password == "" {
		return errs.New(errs.ErrorTypeAuth, "missing credentials for instagram.com")
	}

	i.log.WithField("username", creds.Username).Info("logging in")

	if err := i.session.Navigate(ctx, instagramLoginURL); err != nil {
		return errs.New(errs.ErrorTypeNavigation, fmt.Sprintf("failed to open login page: %v", err))
	}
	if err := i.session.WaitVisible(ctx, usernameSelector, i.cfg.Scrape.DetailWait); err != nil {
		return errs.New(errs.ErrorTypeNavigation, "login form never appeared")
	}

	if err := i.session.SendKeys(ctx, usernameSelector, creds.Username); err != nil {
		return errs.New(errs.ErrorTypeAuth, fmt.Sprintf("failed to enter username: %v", err))
	}
	if err := i.session.SendKeys(ctx, passwordSelector, creds.Password); err != nil {
		return errs.New(errs.ErrorTypeAuth, fmt.Sprintf("failed to enter password: %v", err))
	}
	if err := i.session.Submit(ctx, passwordSelector); err != nil {
		return errs.New(errs.ErrorTypeAuth, fmt.Sprintf("failed to submit login form: %v", err))
	}

	for _, selector := range loggedInSelectors {
		if err := i.session.WaitVisible(ctx, selector, i.cfg.Scrape.DetailWait); err == nil {
			i.log.Info("login succeeded")
			return nil
		}
	}

	if current, err := i.session.CurrentURL(ctx); err == nil {
		i.log.WithField("url", current).Warn("no post-login marker appeared")
	}
	return errs.New(errs.ErrorTypeAuth, "login failed, check credentials")
}

// MediaElements scrolls the page to load lazy content, then collects
// image elements. The configured selector is tried first, falling back
// to progressively broader ones for layout changes.
func (i *Instagram) MediaElements(ctx context.Context) ([]browser.Thumbnail, error) {
	if err := i.session.ScrollToBottom(ctx, i.cfg.Scrape.ScrollWait); err != nil {
		return nil, fmt.Errorf("failed to load page: %w", err)
	}

	selectors := []string{
		i.cfg.SelectorsFor("instagram").Thumbnails,
		"article img",
		"main img",
	}

	for _, selector := range selectors {
		if selector == "" {
			continue
		}
		thumbs, err := i.session.Thumbnails(ctx, selector)
		if err != nil {
			return nil, err
		}
		if len(thumbs) > 0 {
			i.total = len(thumbs)
			i.log.WithFields(map[string]interface{}{
				"count":    i.total,
				"selector": selector,
			}).Info("collected media elements")
			return thumbs, nil
		}
	}

	i.total = 0
	return nil, nil
}

// ProcessMediaElement downloads one image. Instagram thumbnails already
// reference the rendered media, so the element's own source URL is
// fetched directly. The progress callback fires exactly once.
func (i *Instagram) ProcessMediaElement(ctx context.Context, thumb browser.Thumbnail, index int, dir string) (success bool, result string) {
	log := i.log.WithField("index", index+1)

	defer func() {
		if r := recover(); r != nil {
			success = false
			result = fmt.Sprintf("%v", r)
			log.WithField("panic", result).Error("unexpected failure processing media element")
		}
		if i.progress != nil {
			i.progress(index+1, success, i.total)
		}
	}()

	if thumb.Src == "" {
		log.Warn("no source URL found")
		return false, "no source URL found"
	}

	filename := fmt.Sprintf("instagram_%d%s", index+1, defaultExtension)
	if err := i.Download(ctx, thumb.Src, filename, dir, i.cfg.Download.MaxRetries); err != nil {
		log.WithError(err).Error("download failed")
		return false, err.Error()
	}

	return true, filename
}

// Download fetches a URL into dir with retries
func (i *Instagram) Download(ctx context.Context, rawURL, filename, dir string, maxRetries int) error {
	return i.downloader.Fetch(ctx, rawURL, filename, dir, maxRetries)
}
