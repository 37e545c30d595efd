package scraper

import (
	"context"
	"errors"
	"time"

	"mediascraper/pkg/browser"
	"mediascraper/pkg/config"
	"mediascraper/pkg/logger"
)

func testLogger() logger.Logger {
	l, _ := logger.New(&config.LoggingConfig{Level: "disabled"})
	return l
}

func testConfig() *config.Config {
	cfg := config.DefaultConfig()
	cfg.Scrape.ScrollWait = time.Millisecond
	cfg.Scrape.DetailWait = 10 * time.Millisecond
	cfg.Download.Timeout = time.Second
	cfg.Download.RetryBaseDelay = time.Millisecond
	return cfg
}

// fakeTab is a canned detail-page browsing context
type fakeTab struct {
	images    []browser.Image
	imagesErr error
	waitErr   error
	closed    bool
}

func (t *fakeTab) WaitVisible(ctx context.Context, selector string, timeout time.Duration) error {
	return t.waitErr
}

func (t *fakeTab) Images(ctx context.Context) ([]browser.Image, error) {
	return t.images, t.imagesErr
}

func (t *fakeTab) Close() error {
	t.closed = true
	return nil
}

// fakeSession is a scripted browsing session for pipeline tests
type fakeSession struct {
	navigated []string
	thumbs    []browser.Thumbnail
	thumbsErr error
	tab       *fakeTab
	openErr   error

	// selectors that become visible; nil means everything is visible
	visible map[string]bool

	sent      map[string]string
	submitted []string
	closed    bool
}

func (s *fakeSession) Navigate(ctx context.Context, url string) error {
	s.navigated = append(s.navigated, url)
	return nil
}

func (s *fakeSession) CurrentURL(ctx context.Context) (string, error) {
	if len(s.navigated) == 0 {
		return "", nil
	}
	return s.navigated[len(s.navigated)-1], nil
}

func (s *fakeSession) ScrollToBottom(ctx context.Context, wait time.Duration) error {
	return nil
}

func (s *fakeSession) Thumbnails(ctx context.Context, selector string) ([]browser.Thumbnail, error) {
	return s.thumbs, s.thumbsErr
}

func (s *fakeSession) OpenTab(ctx context.Context, url string, timeout time.Duration) (browser.DetailTab, error) {
	if s.openErr != nil {
		return nil, s.openErr
	}
	return s.tab, nil
}

func (s *fakeSession) WaitVisible(ctx context.Context, selector string, timeout time.Duration) error {
	if s.visible == nil {
		return nil
	}
	if s.visible[selector] {
		return nil
	}
	return errors.New("selector never became visible")
}

func (s *fakeSession) SendKeys(ctx context.Context, selector, value string) error {
	if s.sent == nil {
		s.sent = map[string]string{}
	}
	s.sent[selector] = value
	return nil
}

func (s *fakeSession) Submit(ctx context.Context, selector string) error {
	s.submitted = append(s.submitted, selector)
	return nil
}

func (s *fakeSession) Close() error {
	s.closed = true
	return nil
}

// progressRecorder captures progress callback invocations
type progressRecorder struct {
	calls []progressCall
}

type progressCall struct {
	index   int
	success bool
	total   int
}

func (p *progressRecorder) record(index int, success bool, total int) {
	p.calls = append(p.calls, progressCall{index: index, success: success, total: total})
}
