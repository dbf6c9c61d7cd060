package scraper

import (
	"context"
	"time"

	"github.com/jobpulse/analyzer/internal/domain"
)

const (
	defaultBaseURL     = "https://www.linkedin.com/jobs/search"
	defaultCountry     = "Portugal"
	defaultGeoID       = "100364837"
	defaultCountryCode = "pt"

	// DefaultPageSize is the result offset step between search pages.
	DefaultPageSize = 25

	DefaultPageDelay   = 2 * time.Second
	DefaultDetailDelay = 1 * time.Second
)

// Searcher runs one search session
type Searcher interface {
	Search(ctx context.Context, keyword, location string, pages int) (*domain.Session, error)
}

// Options configures search behavior
type Options struct {
	BaseURL     string
	Country     string
	GeoID       string
	CountryCode string
	PageSize    int

	// PageDelay is slept after every search page request, DetailDelay after
	// every detail fetch. Both are fixed; there is no backoff.
	PageDelay   time.Duration
	DetailDelay time.Duration

	RecencyWindow time.Duration

	// Now defaults to time.Now.
	Now func() time.Time

	// Sleep waits out PageDelay and DetailDelay. It defaults to a timer that
	// returns early with ctx's error.
	Sleep func(ctx context.Context, d time.Duration) error
}

// DefaultOptions returns options targeting the public LinkedIn guest search
func DefaultOptions() Options {
	return Options{
		BaseURL:       defaultBaseURL,
		Country:       defaultCountry,
		GeoID:         defaultGeoID,
		CountryCode:   defaultCountryCode,
		PageSize:      DefaultPageSize,
		PageDelay:     DefaultPageDelay,
		DetailDelay:   DefaultDetailDelay,
		RecencyWindow: RecencyWindow,
		Now:           time.Now,
		Sleep:         pause,
	}
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.BaseURL == "" {
		o.BaseURL = d.BaseURL
	}
	if o.Country == "" {
		o.Country = d.Country
	}
	if o.PageSize <= 0 {
		o.PageSize = d.PageSize
	}
	if o.RecencyWindow <= 0 {
		o.RecencyWindow = d.RecencyWindow
	}
	if o.Now == nil {
		o.Now = d.Now
	}
	if o.Sleep == nil {
		o.Sleep = d.Sleep
	}
	return o
}

// pause blocks for d or until ctx is done.
func pause(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
