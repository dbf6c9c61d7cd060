package scraper

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jobpulse/analyzer/internal/domain"
)

const (
	cardSelector     = "div.job-search-card"
	titleSelector    = "h3.base-search-card__title"
	employerSelector = "h4.base-search-card__subtitle"
	locationSelector = "span.job-search-card__location"

	bodyPreviewLimit = 500
)

// Card is the data read from one search result card, before detail
// enrichment and recency filtering.
type Card struct {
	Title    string
	Employer string
	Location string
	URL      string
	PostedAt time.Time
}

// PageResult is what one search results page contributed to a session
type PageResult struct {
	Postings []domain.Posting
	Cards    int
	Skipped  int
	TooOld   int
	Errors   []error
}

// LinkedInScraper pages through LinkedIn job search results
type LinkedInScraper struct {
	fetcher Fetcher
	detail  *DetailFetcher
	opts    Options
	logger  *zap.Logger
}

// NewLinkedInScraper creates a new LinkedIn scraper. Detail pages are fetched
// with the same Fetcher as search pages.
func NewLinkedInScraper(fetcher Fetcher, opts Options, logger *zap.Logger) *LinkedInScraper {
	return &LinkedInScraper{
		fetcher: fetcher,
		detail:  NewDetailFetcher(fetcher, logger),
		opts:    opts.withDefaults(),
		logger:  logger,
	}
}

// Name returns the scraper name
func (s *LinkedInScraper) Name() string {
	return "LinkedIn"
}

// Search fetches pages 0..pages-1 one after another and accumulates every
// accepted posting in page order, then card order. Failed pages contribute
// nothing. The only error returned is the context's; the partial session is
// returned with it.
func (s *LinkedInScraper) Search(ctx context.Context, keyword, location string, pages int) (*domain.Session, error) {
	session := domain.NewSession(keyword, FormatLocation(location, s.opts.Country), pages, s.opts.Now())

	s.logger.Info("Starting LinkedIn search",
		zap.String("session", session.ID.String()),
		zap.String("keyword", keyword),
		zap.String("location", session.Location),
		zap.Int("pages", pages),
	)

	finish := func(err error) (*domain.Session, error) {
		session.FinishedAt = s.opts.Now()
		s.logger.Info("LinkedIn search completed",
			zap.String("session", session.ID.String()),
			zap.Int("postings", len(session.Postings)),
			zap.Int("pagesFailed", session.PagesFailed),
			zap.Int("cardsSkipped", session.CardsSkipped),
			zap.Duration("duration", session.Duration()),
		)
		return session, err
	}

	for page := 0; page < pages; page++ {
		if err := ctx.Err(); err != nil {
			return finish(err)
		}

		result, err := s.searchPage(ctx, keyword, session.Location, page)
		if result != nil {
			session.PagesFetched++
			session.CardsSeen += result.Cards
			session.CardsSkipped += result.Skipped
			session.CardsTooOld += result.TooOld
			session.Postings = append(session.Postings, result.Postings...)
			session.Errors = append(session.Errors, result.Errors...)
		}
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return finish(ctxErr)
			}
			session.PagesFailed++
			session.Errors = append(session.Errors, err)
		}

		if page < pages-1 {
			if err := s.opts.Sleep(ctx, s.opts.PageDelay); err != nil {
				return finish(err)
			}
		}
	}

	return finish(nil)
}

// searchPage returns a nil result with a *TransportError when the page could
// not be fetched.
func (s *LinkedInScraper) searchPage(ctx context.Context, keyword, location string, page int) (*PageResult, error) {
	params := s.searchParams(keyword, location, page)

	resp, err := s.fetcher.Fetch(ctx, s.opts.BaseURL, params)
	if err != nil {
		terr := &TransportError{URL: s.opts.BaseURL, Err: err}
		s.logger.Error("Failed to fetch search page", zap.Int("page", page), zap.Error(terr))
		return nil, terr
	}
	if !resp.OK() {
		terr := &TransportError{URL: s.opts.BaseURL, StatusCode: resp.StatusCode}
		s.logger.Warn("Unexpected search page status",
			zap.Int("page", page),
			zap.Int("status", resp.StatusCode),
			zap.String("body", preview(resp.Body, bodyPreviewLimit)),
		)
		return nil, terr
	}

	result, err := s.ParsePage(ctx, resp.Body)
	return &result, err
}

func (s *LinkedInScraper) searchParams(keyword, location string, page int) url.Values {
	params := url.Values{}
	params.Set("keywords", keyword)
	params.Set("location", location)
	params.Set("start", strconv.Itoa(page*s.opts.PageSize))
	if s.opts.GeoID != "" {
		params.Set("geoId", s.opts.GeoID)
	}
	if s.opts.CountryCode != "" {
		params.Set("countryCode", s.opts.CountryCode)
	}
	return params
}

// ParsePage extracts every card from one results page. Cards inside the
// recency window get exactly one detail fetch each, followed by DetailDelay.
// A bad card is logged and skipped; the returned error is non-nil only when
// ctx is done.
func (s *LinkedInScraper) ParsePage(ctx context.Context, content []byte) (PageResult, error) {
	result := PageResult{Postings: make([]domain.Posting, 0)}

	cards, errs := ParseCards(content)
	result.Cards = len(cards) + len(errs)
	result.Skipped = len(errs)
	for _, err := range errs {
		s.logger.Warn("Failed to extract job card", zap.Error(err))
	}
	result.Errors = append(result.Errors, errs...)

	for _, card := range cards {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		elapsed := Elapsed(s.opts.Now(), card.PostedAt)
		if !withinWindow(elapsed, s.opts.RecencyWindow) {
			result.TooOld++
			s.logger.Debug("Skipping old job",
				zap.String("title", card.Title),
				zap.Duration("age", elapsed),
			)
			continue
		}

		posting := domain.Posting{
			ID:       uuid.New(),
			Title:    card.Title,
			Employer: card.Employer,
			Location: card.Location,
			PostedAt: card.PostedAt,
			URL:      card.URL,
			HoursAgo: HoursAgo(elapsed),
		}

		description, err := s.detail.Fetch(ctx, card.URL)
		if err != nil {
			if ctx.Err() != nil {
				return result, ctx.Err()
			}
			s.logger.Error("Failed to fetch job description", zap.String("url", card.URL), zap.Error(err))
			result.Errors = append(result.Errors, err)
		} else {
			posting.Description = &description
		}

		result.Postings = append(result.Postings, posting)
		s.logger.Info("Found job",
			zap.Float64("hoursAgo", posting.HoursAgo),
			zap.String("title", posting.Title),
			zap.String("company", posting.Employer),
		)

		if err := s.opts.Sleep(ctx, s.opts.DetailDelay); err != nil {
			return result, err
		}
	}

	return result, nil
}

// ParseCards reads every result card in content. Cards missing a field come
// back as *ExtractionError values instead of Cards.
func ParseCards(content []byte) ([]Card, []error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(content))
	if err != nil {
		return nil, []error{&ExtractionError{Field: "page", Err: err}}
	}

	var (
		cards []Card
		errs  []error
	)
	doc.Find(cardSelector).Each(func(i int, sel *goquery.Selection) {
		card, err := parseCard(sel)
		if err != nil {
			errs = append(errs, fmt.Errorf("card %d: %w", i, err))
			return
		}
		cards = append(cards, card)
	})
	return cards, errs
}

func parseCard(sel *goquery.Selection) (Card, error) {
	var card Card

	href, ok := sel.Find("a").First().Attr("href")
	if !ok || strings.TrimSpace(href) == "" {
		return card, &ExtractionError{Field: "url", Err: errMissingNode}
	}
	card.URL = CanonicalURL(href)

	datetime, ok := sel.Find("time").First().Attr("datetime")
	if !ok {
		return card, &ExtractionError{Field: "posted_date", Err: errMissingNode}
	}
	postedAt, err := ParsePostedTime(datetime)
	if err != nil {
		return card, &ExtractionError{Field: "posted_date", Err: err}
	}
	card.PostedAt = postedAt

	fields := []struct {
		name     string
		selector string
		dst      *string
	}{
		{"title", titleSelector, &card.Title},
		{"employer", employerSelector, &card.Employer},
		{"location", locationSelector, &card.Location},
	}
	for _, f := range fields {
		node := sel.Find(f.selector).First()
		if node.Length() == 0 {
			return card, &ExtractionError{Field: f.name, Err: errMissingNode}
		}
		*f.dst = strings.TrimSpace(node.Text())
	}

	return card, nil
}

// CanonicalURL drops the query string, which on result cards only carries
// tracking parameters.
func CanonicalURL(href string) string {
	href = strings.TrimSpace(href)
	if i := strings.IndexByte(href, '?'); i >= 0 {
		href = href[:i]
	}
	return href
}

// FormatLocation appends ", <country>" unless location already names it.
func FormatLocation(location, country string) string {
	location = strings.TrimSpace(location)
	if country == "" || strings.Contains(location, country) {
		return location
	}
	if location == "" {
		return country
	}
	return location + ", " + country
}

func preview(body []byte, limit int) string {
	if len(body) > limit {
		body = body[:limit]
	}
	return string(body)
}
