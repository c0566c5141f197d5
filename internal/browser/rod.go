// Package browser drives Chromium through go-rod and adapts it to the
// resolver and replay collaborator interfaces.
package browser

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"github.com/rs/zerolog"

	"github.com/mrz1836/recforge/internal/constants"
	rferrors "github.com/mrz1836/recforge/internal/errors"
	"github.com/mrz1836/recforge/internal/locator"
	"github.com/mrz1836/recforge/internal/resolver"
)

const pollInterval = 50 * time.Millisecond

// Options configure the launched browser.
type Options struct {
	Headless          bool
	NavigationTimeout time.Duration
	// ControlURL connects to an already running browser instead of launching one.
	ControlURL string
}

// Browser is a single-page Chromium session.
type Browser struct {
	mu      sync.Mutex
	rod     *rod.Browser
	page    *rod.Page
	opts    Options
	logger  zerolog.Logger
	cleanup func()
}

var (
	_ resolver.Browser = (*Browser)(nil)
	_ resolver.Element = (*Element)(nil)
)

// Launch starts (or connects to) Chromium and opens a blank page.
func Launch(ctx context.Context, opts Options, logger zerolog.Logger) (*Browser, error) {
	if opts.NavigationTimeout <= 0 {
		opts.NavigationTimeout = constants.DefaultNavigationTimeout
	}
	logger = logger.With().Str("component", "browser").Logger()

	controlURL := opts.ControlURL
	cleanup := func() {}
	if controlURL == "" {
		l := launcher.New().
			Headless(opts.Headless).
			Set("disable-gpu").
			Set("no-first-run").
			Set("no-default-browser-check")
		u, err := l.Launch()
		if err != nil {
			return nil, rferrors.Wrapf(rferrors.ErrBrowserUnavailable, "launch chromium: %v", err)
		}
		controlURL = u
		cleanup = l.Cleanup
	}

	b := rod.New().ControlURL(controlURL).Context(ctx)
	if err := b.Connect(); err != nil {
		cleanup()
		return nil, rferrors.Wrapf(rferrors.ErrBrowserUnavailable, "connect to %s: %v", controlURL, err)
	}
	page, err := b.Page(proto.TargetCreateTarget{URL: "about:blank"})
	if err != nil {
		_ = b.Close()
		cleanup()
		return nil, rferrors.Wrapf(rferrors.ErrBrowserUnavailable, "open page: %v", err)
	}

	logger.Info().Str("cdp", controlURL).Bool("headless", opts.Headless).Msg("browser connected")
	return &Browser{rod: b, page: page, opts: opts, logger: logger, cleanup: cleanup}, nil
}

// Close shuts the browser down.
func (b *Browser) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.rod == nil {
		return nil
	}
	err := b.rod.Close()
	b.rod, b.page = nil, nil
	b.cleanup()
	return err
}

func (b *Browser) currentPage(ctx context.Context) (*rod.Page, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.page == nil {
		return nil, rferrors.ErrBrowserUnavailable
	}
	return b.page.Context(ctx), nil
}

// Navigate loads url and waits for the load event.
func (b *Browser) Navigate(ctx context.Context, url string) error {
	page, err := b.currentPage(ctx)
	if err != nil {
		return err
	}
	page = page.Timeout(b.opts.NavigationTimeout)
	if err := page.Navigate(url); err != nil {
		return rferrors.Wrapf(err, "navigate to %s", url)
	}
	if err := page.WaitLoad(); err != nil {
		return rferrors.Wrapf(err, "wait for %s to load", url)
	}
	return nil
}

// Count returns the number of current matches without waiting.
func (b *Browser) Count(ctx context.Context, s locator.Strategy) (int, error) {
	els, err := b.query(ctx, s)
	if err != nil {
		return 0, err
	}
	return len(els), nil
}

// Visible returns the first visible match without waiting.
func (b *Browser) Visible(ctx context.Context, s locator.Strategy) (resolver.Element, bool, error) {
	els, err := b.query(ctx, s)
	if err != nil {
		return nil, false, err
	}
	el, ok := firstVisible(els)
	if !ok {
		return nil, false, nil
	}
	return &Element{el: el}, true, nil
}

// WaitVisible polls until a match is visible or timeout passes.
func (b *Browser) WaitVisible(ctx context.Context, s locator.Strategy, timeout time.Duration) (resolver.Element, error) {
	deadline := time.NewTimer(timeout)
	defer deadline.Stop()
	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	for {
		els, err := b.query(ctx, s)
		if err != nil {
			return nil, err
		}
		if el, ok := firstVisible(els); ok {
			return &Element{el: el}, nil
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-deadline.C:
			if len(els) > 0 {
				return nil, resolver.ErrNotVisible
			}
			return nil, resolver.ErrWaitTimeout
		case <-ticker.C:
		}
	}
}

// query evaluates s once; rod's Elements and ElementsX do not wait.
func (b *Browser) query(ctx context.Context, s locator.Strategy) (rod.Elements, error) {
	page, err := b.currentPage(ctx)
	if err != nil {
		return nil, err
	}
	var els rod.Elements
	if s.Query() == locator.QueryXPath {
		els, err = page.ElementsX(s.Expression)
	} else {
		els, err = page.Elements(s.Expression)
	}
	if err != nil && !errors.Is(err, context.Canceled) {
		return nil, rferrors.Wrapf(err, "query %s", s.Query())
	}
	return els, err
}

func firstVisible(els rod.Elements) (*rod.Element, bool) {
	for _, el := range els {
		if ok, err := el.Visible(); err == nil && ok {
			return el, true
		}
	}
	return nil, false
}
