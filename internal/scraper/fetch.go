package scraper

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/andybalholm/brotli"
	"github.com/gocolly/colly/v2"
	"github.com/klauspost/compress/flate"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zlib"
	"go.uber.org/zap"
)

// Fetcher is the inbound fetch primitive used for search and detail pages.
type Fetcher interface {
	Fetch(ctx context.Context, rawURL string, params url.Values) (*Response, error)
}

// Response is a fetched page
type Response struct {
	StatusCode int
	Body       []byte
}

// OK reports a 200 status; anything else is treated as a failed unit.
func (r *Response) OK() bool {
	return r.StatusCode == http.StatusOK
}

// Headers are sent on every request
type Headers struct {
	UserAgent      string
	Accept         string
	AcceptLanguage string
	AcceptEncoding string
	Connection     string
}

// DefaultHeaders returns the browser-like header set
func DefaultHeaders() Headers {
	return Headers{
		UserAgent:      "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36",
		Accept:         "text/html,application/xhtml+xml,application/xml;q=0.9,image/webp,*/*;q=0.8",
		AcceptLanguage: "en-US,en;q=0.9,pt-PT;q=0.8,pt;q=0.7",
		AcceptEncoding: "gzip, deflate, br",
		Connection:     "keep-alive",
	}
}

func (h Headers) apply(header *http.Header) {
	set := func(key, value string) {
		if value != "" {
			header.Set(key, value)
		}
	}
	set("User-Agent", h.UserAgent)
	set("Accept", h.Accept)
	set("Accept-Language", h.AcceptLanguage)
	set("Accept-Encoding", h.AcceptEncoding)
	set("Connection", h.Connection)
}

// HTTPFetcher fetches pages through a colly collector. Non-200 responses are
// parsed like any other so the caller sees the status and body.
type HTTPFetcher struct {
	collector *colly.Collector
	headers   Headers
	logger    *zap.Logger
}

// NewHTTPFetcher creates a fetcher. A nil client keeps colly's default client.
func NewHTTPFetcher(client *http.Client, headers Headers, logger *zap.Logger) *HTTPFetcher {
	c := colly.NewCollector(
		colly.UserAgent(headers.UserAgent),
		colly.AllowURLRevisit(),
		colly.IgnoreRobotsTxt(),
		colly.ParseHTTPErrorResponse(),
	)
	if client != nil {
		c.SetClient(client)
	}
	return &HTTPFetcher{
		collector: c,
		headers:   headers,
		logger:    logger,
	}
}

// Fetch performs a GET with params merged into rawURL's query. Each call runs
// on a clone of the collector bound to ctx.
func (f *HTTPFetcher) Fetch(ctx context.Context, rawURL string, params url.Values) (*Response, error) {
	target, err := withParams(rawURL, params)
	if err != nil {
		return nil, err
	}

	c := f.collector.Clone()
	c.Context = ctx

	var (
		resp      *Response
		decodeErr error
	)
	c.OnRequest(func(r *colly.Request) {
		f.headers.apply(r.Headers)
	})
	c.OnResponse(func(r *colly.Response) {
		body, err := decodeBody(r.Headers.Get("Content-Encoding"), r.Body)
		if err != nil {
			decodeErr = err
			return
		}
		resp = &Response{StatusCode: r.StatusCode, Body: body}
	})
	c.OnError(func(r *colly.Response, err error) {
		f.logger.Debug("Request error",
			zap.String("url", target),
			zap.Int("status", r.StatusCode),
			zap.Error(err),
		)
	})

	start := time.Now()
	if err := c.Visit(target); err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	if decodeErr != nil {
		return nil, fmt.Errorf("failed to read body: %w", decodeErr)
	}
	if resp == nil {
		return nil, fmt.Errorf("request failed: no response for %s", target)
	}

	f.logger.Debug("Page fetched",
		zap.String("url", target),
		zap.Int("status", resp.StatusCode),
		zap.Int("length", len(resp.Body)),
		zap.Duration("duration", time.Since(start)),
	)

	return resp, nil
}

func withParams(rawURL string, params url.Values) (string, error) {
	if len(params) == 0 {
		return rawURL, nil
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("invalid url %q: %w", rawURL, err)
	}
	q := u.Query()
	for key, values := range params {
		for _, v := range values {
			q.Add(key, v)
		}
	}
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// decodeBody undoes the encodings colly leaves alone. colly already inflates
// gzip, so a gzip body is only decoded when it still carries the magic bytes.
func decodeBody(encoding string, body []byte) ([]byte, error) {
	switch strings.ToLower(strings.TrimSpace(encoding)) {
	case "gzip", "x-gzip":
		if !bytes.HasPrefix(body, gzipMagic) {
			return body, nil
		}
		zr, err := gzip.NewReader(bytes.NewReader(body))
		if err != nil {
			return nil, err
		}
		defer zr.Close()
		return io.ReadAll(zr)
	case "deflate":
		// "deflate" is meant to be zlib-wrapped but raw deflate is common.
		if zr, err := zlib.NewReader(bytes.NewReader(body)); err == nil {
			defer zr.Close()
			return io.ReadAll(zr)
		}
		fr := flate.NewReader(bytes.NewReader(body))
		defer fr.Close()
		return io.ReadAll(fr)
	case "br":
		return io.ReadAll(brotli.NewReader(bytes.NewReader(body)))
	default:
		return body, nil
	}
}

var gzipMagic = []byte{0x1f, 0x8b}
