package scraper

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/chromedp/cdproto/dom"
	"github.com/chromedp/chromedp"
	"go.uber.org/zap"
)

// BrowserFetcher fetches pages through a headless Chrome instance. It
// satisfies Fetcher for pages that only render with JavaScript.
type BrowserFetcher struct {
	allocCtx context.Context
	cancel   context.CancelFunc
	timeout  time.Duration
	logger   *zap.Logger
}

// BrowserConfig configures browser behavior
type BrowserConfig struct {
	Headless      bool
	Timeout       time.Duration
	UserAgent     string
	ProxyURL      string
	DisableImages bool
	WindowWidth   int
	WindowHeight  int
}

// DefaultBrowserConfig returns sensible defaults
func DefaultBrowserConfig() *BrowserConfig {
	return &BrowserConfig{
		Headless:      true,
		Timeout:       30 * time.Second,
		UserAgent:     DefaultHeaders().UserAgent,
		DisableImages: true,
		WindowWidth:   1920,
		WindowHeight:  1080,
	}
}

// NewBrowserFetcher creates the browser allocator. Chrome itself starts on
// the first Fetch.
func NewBrowserFetcher(logger *zap.Logger, config *BrowserConfig) *BrowserFetcher {
	if config == nil {
		config = DefaultBrowserConfig()
	}

	opts := []chromedp.ExecAllocatorOption{
		chromedp.NoFirstRun,
		chromedp.NoDefaultBrowserCheck,
		chromedp.DisableGPU,
		chromedp.NoSandbox,
		chromedp.UserAgent(config.UserAgent),
		chromedp.WindowSize(config.WindowWidth, config.WindowHeight),
	}
	if config.Headless {
		opts = append(opts, chromedp.Headless)
	}
	if config.ProxyURL != "" {
		opts = append(opts, chromedp.ProxyServer(config.ProxyURL))
	}
	if config.DisableImages {
		opts = append(opts, chromedp.Flag("blink-settings", "imagesEnabled=false"))
	}

	allocCtx, cancel := chromedp.NewExecAllocator(context.Background(), opts...)

	return &BrowserFetcher{
		allocCtx: allocCtx,
		cancel:   cancel,
		timeout:  config.Timeout,
		logger:   logger,
	}
}

// Close shuts down the browser
func (b *BrowserFetcher) Close() {
	b.cancel()
}

// Fetch navigates to the page and returns its rendered HTML together with
// the main document's HTTP status.
func (b *BrowserFetcher) Fetch(ctx context.Context, rawURL string, params url.Values) (*Response, error) {
	target, err := withParams(rawURL, params)
	if err != nil {
		return nil, err
	}
	b.logger.Debug("Fetching page", zap.String("url", target))

	tabCtx, cancelTab := chromedp.NewContext(b.allocCtx)
	defer cancelTab()
	if b.timeout > 0 {
		var cancelTimeout context.CancelFunc
		tabCtx, cancelTimeout = context.WithTimeout(tabCtx, b.timeout)
		defer cancelTimeout()
	}
	// Tie the tab to the caller's context as well.
	stop := context.AfterFunc(ctx, cancelTab)
	defer stop()

	resp, err := chromedp.RunResponse(tabCtx, chromedp.Navigate(target))
	if err != nil {
		return nil, fmt.Errorf("failed to navigate: %w", err)
	}

	var html string
	err = chromedp.Run(tabCtx,
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.ActionFunc(func(ctx context.Context) error {
			node, err := dom.GetDocument().Do(ctx)
			if err != nil {
				return err
			}
			html, err = dom.GetOuterHTML().WithNodeID(node.NodeID).Do(ctx)
			return err
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to read page: %w", err)
	}

	status := http.StatusOK
	if resp != nil {
		status = int(resp.Status)
	}

	b.logger.Debug("Page fetched", zap.String("url", target), zap.Int("status", status), zap.Int("length", len(html)))
	return &Response{StatusCode: status, Body: []byte(html)}, nil
}
