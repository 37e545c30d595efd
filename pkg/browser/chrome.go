// Package browser wraps a chromedp session behind the small set of
// capabilities the scrapers need: one main window, short-lived detail
// tabs, DOM queries, and form interaction.
package browser

import (
	"context"
	"fmt"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/cdproto/target"
	"github.com/chromedp/chromedp"

	"mediascraper/pkg/config"
	"mediascraper/pkg/logger"
	"mediascraper/pkg/retry"
)

// Chrome is a live browser session. The embedded context is the main
// window; detail tabs are opened as child targets and must be closed via
// Tab.Close before the next element is processed.
type Chrome struct {
	allocCtx    context.Context
	allocCancel context.CancelFunc
	ctx         context.Context
	cancel      context.CancelFunc
	log         logger.Logger
}

// Tab is a detail-page browsing context spawned from the main window
type Tab struct {
	ctx    context.Context
	cancel context.CancelFunc
	log    logger.Logger
}

// New launches a headless Chrome session
func New(cfg *config.BrowserConfig, log logger.Logger) (*Chrome, error) {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", cfg.Headless),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-notifications", true),
		chromedp.WindowSize(cfg.WindowWidth, cfg.WindowHeight),
	)
	if cfg.ExecPath != "" {
		opts = append(opts, chromedp.ExecPath(cfg.ExecPath))
	}
	if cfg.UserAgent != "" {
		opts = append(opts, chromedp.UserAgent(cfg.UserAgent))
	}

	allocCtx, allocCancel := chromedp.NewExecAllocator(context.Background(), opts...)
	ctx, cancel := chromedp.NewContext(allocCtx)

	// Starts the browser process eagerly so launch failures surface here
	// instead of on the first navigation.
	if err := chromedp.Run(ctx); err != nil {
		cancel()
		allocCancel()
		return nil, fmt.Errorf("failed to start browser: %w", err)
	}

	log.Info("browser session started")

	return &Chrome{
		allocCtx:    allocCtx,
		allocCancel: allocCancel,
		ctx:         ctx,
		cancel:      cancel,
		log:         log,
	}, nil
}

// Navigate loads a URL in the main window and waits for the body
func (c *Chrome) Navigate(ctx context.Context, url string) error {
	runCtx, cancel := mergeContext(c.ctx, ctx)
	defer cancel()

	if err := chromedp.Run(runCtx,
		chromedp.Navigate(url),
		chromedp.WaitReady("body", chromedp.ByQuery),
	); err != nil {
		return fmt.Errorf("navigation failed: %w", err)
	}
	return nil
}

// CurrentURL returns the main window's location
func (c *Chrome) CurrentURL(ctx context.Context) (string, error) {
	runCtx, cancel := mergeContext(c.ctx, ctx)
	defer cancel()

	var url string
	if err := chromedp.Run(runCtx, chromedp.Location(&url)); err != nil {
		return "", err
	}
	return url, nil
}

// ScrollToBottom repeatedly scrolls the main window until the document
// height stops growing, waiting between scroll cycles so lazy content can
// load.
func (c *Chrome) ScrollToBottom(ctx context.Context, wait time.Duration) error {
	runCtx, cancel := mergeContext(c.ctx, ctx)
	defer cancel()

	var lastHeight int64
	if err := chromedp.Run(runCtx,
		chromedp.Evaluate(`document.body.scrollHeight`, &lastHeight),
	); err != nil {
		return fmt.Errorf("failed to read page height: %w", err)
	}

	for {
		if err := chromedp.Run(runCtx,
			chromedp.Evaluate(`window.scrollTo(0, document.body.scrollHeight)`, nil),
		); err != nil {
			return fmt.Errorf("scroll failed: %w", err)
		}

		if err := retry.Wait(ctx, wait); err != nil {
			return err
		}

		var height int64
		if err := chromedp.Run(runCtx,
			chromedp.Evaluate(`document.body.scrollHeight`, &height),
		); err != nil {
			return fmt.Errorf("failed to read page height: %w", err)
		}
		if height == lastHeight {
			return nil
		}
		lastHeight = height
	}
}

// Thumbnails collects every element matching the selector in the main
// window, paired with the href of its closest ancestor link.
func (c *Chrome) Thumbnails(ctx context.Context, selector string) ([]Thumbnail, error) {
	runCtx, cancel := mergeContext(c.ctx, ctx)
	defer cancel()

	js := fmt.Sprintf(`Array.from(document.querySelectorAll(%q)).map(function(img) {
		var a = img.closest('a');
		return {
			src: img.getAttribute('src') || '',
			link: a ? a.href : ''
		};
	})`, selector)

	var thumbs []Thumbnail
	if err := chromedp.Run(runCtx, chromedp.Evaluate(js, &thumbs)); err != nil {
		return nil, fmt.Errorf("failed to collect thumbnails: %w", err)
	}
	return thumbs, nil
}

// WaitVisible blocks until the selector is visible in the main window
func (c *Chrome) WaitVisible(ctx context.Context, selector string, timeout time.Duration) error {
	runCtx, cancel := mergeContext(c.ctx, ctx)
	defer cancel()
	runCtx, timeoutCancel := context.WithTimeout(runCtx, timeout)
	defer timeoutCancel()

	return chromedp.Run(runCtx, chromedp.WaitVisible(selector, chromedp.ByQuery))
}

// SendKeys types a value into the element matching the selector
func (c *Chrome) SendKeys(ctx context.Context, selector, value string) error {
	runCtx, cancel := mergeContext(c.ctx, ctx)
	defer cancel()

	return chromedp.Run(runCtx,
		chromedp.WaitVisible(selector, chromedp.ByQuery),
		chromedp.SendKeys(selector, value, chromedp.ByQuery),
	)
}

// Submit submits the form containing the element matching the selector
func (c *Chrome) Submit(ctx context.Context, selector string) error {
	runCtx, cancel := mergeContext(c.ctx, ctx)
	defer cancel()

	return chromedp.Run(runCtx, chromedp.Submit(selector, chromedp.ByQuery))
}

// OpenTab opens a URL in a new browser tab via window.open, detects the
// new target by diffing against the targets that existed before, and
// returns a handle to the new browsing context. The main window stays
// untouched; callers must Close the tab when done with it.
func (c *Chrome) OpenTab(ctx context.Context, url string, timeout time.Duration) (DetailTab, error) {
	ch := chromedp.WaitNewTarget(c.ctx, func(info *target.Info) bool {
		return info.URL != ""
	})

	runCtx, cancel := mergeContext(c.ctx, ctx)
	defer cancel()

	if err := chromedp.Run(runCtx,
		chromedp.Evaluate(fmt.Sprintf(`window.open(%q, '_blank')`, url), nil),
	); err != nil {
		return nil, fmt.Errorf("failed to open new window: %w", err)
	}

	var id target.ID
	select {
	case id = <-ch:
	case <-time.After(timeout):
		return nil, fmt.Errorf("no new window appeared within %v", timeout)
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	tabCtx, tabCancel := chromedp.NewContext(c.ctx, chromedp.WithTargetID(id))
	return &Tab{ctx: tabCtx, cancel: tabCancel, log: c.log}, nil
}

// WaitVisible blocks until the selector is visible in the tab
func (t *Tab) WaitVisible(ctx context.Context, selector string, timeout time.Duration) error {
	runCtx, cancel := mergeContext(t.ctx, ctx)
	defer cancel()
	runCtx, timeoutCancel := context.WithTimeout(runCtx, timeout)
	defer timeoutCancel()

	return chromedp.Run(runCtx, chromedp.WaitVisible(selector, chromedp.ByQuery))
}

// Images inspects every img element in the tab and returns its raw
// attributes for candidate selection.
func (t *Tab) Images(ctx context.Context) ([]Image, error) {
	runCtx, cancel := mergeContext(t.ctx, ctx)
	defer cancel()

	const js = `Array.from(document.getElementsByTagName('img')).map(function(img) {
		return {
			src: img.getAttribute('src') || '',
			class: img.getAttribute('class') || '',
			id: img.getAttribute('id') || '',
			width: img.getAttribute('width') || '',
			height: img.getAttribute('height') || ''
		};
	})`

	var images []Image
	if err := chromedp.Run(runCtx, chromedp.Evaluate(js, &images)); err != nil {
		return nil, fmt.Errorf("failed to inspect images: %w", err)
	}
	return images, nil
}

// Close closes the tab's browser target and releases its context. Safe to
// call from deferred cleanup; failures are logged by the caller.
func (t *Tab) Close() error {
	err := chromedp.Run(t.ctx, page.Close())
	t.cancel()
	if err != nil {
		return fmt.Errorf("failed to close tab: %w", err)
	}
	return nil
}

// Close shuts the whole browser session down
func (c *Chrome) Close() error {
	c.cancel()
	c.allocCancel()
	c.log.Info("browser session closed")
	return nil
}

// mergeContext ties a chromedp context to the caller's cancellation
// without losing the chromedp target attached to the parent.
func mergeContext(chromeCtx, callerCtx context.Context) (context.Context, context.CancelFunc) {
	if callerCtx == nil {
		return chromeCtx, func() {}
	}
	merged, cancel := context.WithCancel(chromeCtx)
	stop := context.AfterFunc(callerCtx, cancel)
	return merged, func() {
		stop()
		cancel()
	}
}
