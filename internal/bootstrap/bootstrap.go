// Package bootstrap turns a loaded Config into wired components.
package bootstrap

import (
	"fmt"
	"net/http"
	"os"

	"go.uber.org/zap"

	"github.com/jobpulse/analyzer/internal/analysis"
	"github.com/jobpulse/analyzer/internal/config"
	"github.com/jobpulse/analyzer/internal/export"
	"github.com/jobpulse/analyzer/internal/scraper"
)

// Fetcher builds the configured fetch primitive. The returned close function
// releases browser resources and is never nil.
func Fetcher(cfg config.ScraperConfig, logger *zap.Logger) (scraper.Fetcher, func()) {
	headers := scraper.Headers{
		UserAgent:      cfg.Headers.UserAgent,
		Accept:         cfg.Headers.Accept,
		AcceptLanguage: cfg.Headers.AcceptLanguage,
		AcceptEncoding: cfg.Headers.AcceptEncoding,
		Connection:     cfg.Headers.Connection,
	}

	if cfg.Fetcher == config.FetcherBrowser {
		browser := scraper.NewBrowserFetcher(logger, &scraper.BrowserConfig{
			Headless:      cfg.Browser.Headless,
			Timeout:       cfg.Browser.Timeout,
			UserAgent:     headers.UserAgent,
			ProxyURL:      cfg.Browser.ProxyURL,
			DisableImages: true,
			WindowWidth:   cfg.Browser.WindowWidth,
			WindowHeight:  cfg.Browser.WindowHeight,
		})
		return browser, browser.Close
	}

	return scraper.NewHTTPFetcher(&http.Client{}, headers, logger), func() {}
}

// Options maps scraper config onto scraper options.
func Options(cfg config.ScraperConfig) scraper.Options {
	opts := scraper.DefaultOptions()
	opts.BaseURL = cfg.BaseURL
	opts.Country = cfg.Country
	opts.GeoID = cfg.GeoID
	opts.CountryCode = cfg.CountryCode
	opts.PageSize = cfg.PageSize
	opts.PageDelay = cfg.PageDelay
	opts.DetailDelay = cfg.DetailDelay
	opts.RecencyWindow = cfg.RecencyWindow
	return opts
}

// Scraper builds the LinkedIn scraper and its fetcher.
func Scraper(cfg *config.Config, logger *zap.Logger) (*scraper.LinkedInScraper, func()) {
	fetcher, closeFn := Fetcher(cfg.Scraper, logger.Named("fetch"))
	return scraper.NewLinkedInScraper(fetcher, Options(cfg.Scraper), logger.Named("linkedin")), closeFn
}

// Aggregator builds the aggregator from analysis config.
func Aggregator(cfg *config.Config) *analysis.Aggregator {
	return analysis.NewAggregator(cfg.Analysis.Skills, cfg.Analysis.TopN)
}

// Charts returns the chart renderers, with the configured echarts script
// inlined when one is set.
func Charts(cfg *config.Config) (map[string]export.RenderFunc, error) {
	if cfg.Output.EChartsScript == "" {
		return export.Renderers, nil
	}
	script, err := os.ReadFile(cfg.Output.EChartsScript)
	if err != nil {
		return nil, fmt.Errorf("failed to read echarts script: %w", err)
	}
	return export.InlineAll(script), nil
}
