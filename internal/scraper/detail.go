package scraper

import (
	"bytes"
	"context"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"

	"github.com/jobpulse/analyzer/internal/domain"
)

// toggleSelector matches the expand/collapse buttons nested in descriptions.
const toggleSelector = ".show-more-less-button, .show-more-button"

type descriptionSource struct {
	selector string
	extract  func(*goquery.Selection) string
}

// Different detail page variants use different containers. The first
// selector with any match wins.
var descriptionSources = []descriptionSource{
	{selector: "div.show-more-less-html__markup", extract: strippedText},
	{selector: "div.description__text", extract: strippedText},
	{selector: "div.job-description", extract: strippedText},
}

// DetailFetcher retrieves a posting's detail page and extracts the full description
type DetailFetcher struct {
	fetcher Fetcher
	logger  *zap.Logger
}

// NewDetailFetcher creates a new detail fetcher
func NewDetailFetcher(fetcher Fetcher, logger *zap.Logger) *DetailFetcher {
	return &DetailFetcher{
		fetcher: fetcher,
		logger:  logger,
	}
}

// Fetch returns the normalized description of the posting at jobURL, or
// domain.DescriptionUnavailable when the page has no known container. A
// failed fetch returns a *TransportError.
func (d *DetailFetcher) Fetch(ctx context.Context, jobURL string) (string, error) {
	resp, err := d.fetcher.Fetch(ctx, jobURL, nil)
	if err != nil {
		return "", &TransportError{URL: jobURL, Err: err}
	}
	if !resp.OK() {
		return "", &TransportError{URL: jobURL, StatusCode: resp.StatusCode}
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(resp.Body))
	if err != nil {
		return "", &ExtractionError{Field: "description", Err: err}
	}

	description := ExtractDescription(doc.Selection)
	d.logger.Debug("Description extracted", zap.String("url", jobURL), zap.Int("length", len(description)))
	return description, nil
}

// ExtractDescription applies descriptionSources to a parsed detail page.
func ExtractDescription(doc *goquery.Selection) string {
	for _, src := range descriptionSources {
		matches := doc.Find(src.selector)
		if matches.Length() == 0 {
			continue
		}

		parts := make([]string, 0, matches.Length())
		matches.Each(func(_ int, el *goquery.Selection) {
			parts = append(parts, src.extract(el))
		})
		return NormalizeDescription(strings.Join(parts, "\n"))
	}
	return domain.DescriptionUnavailable
}

// strippedText drops toggle buttons from el and returns its newline-joined text.
func strippedText(el *goquery.Selection) string {
	el.Find(toggleSelector).Remove()
	return nodeText(el.Nodes, "\n")
}
