package scraper

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func mustDoc(t *testing.T, html string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	require.NoError(t, err)
	return doc
}

func TestExtractDescription(t *testing.T) {
	tests := []struct {
		name string
		html string
		want string
	}{
		{
			name: "main container with nested buttons",
			html: `<div class="show-more-less-html__markup">
				<p>Build   APIs</p><ul><li>Go</li><li>SQL</li></ul>
				<button class="show-more-less-button">Show more</button>
				<span class="show-more-button">+ See more</span>
			</div>`,
			want: "Build APIs Go SQL",
		},
		{
			name: "first matching selector wins",
			html: `<div class="description__text">Secondary</div>
				<div class="show-more-less-html__markup">Primary</div>`,
			want: "Primary",
		},
		{
			name: "all matches of the winning selector are joined",
			html: `<div class="description__text">Part one</div><div class="description__text">Part two</div>`,
			want: "Part one Part two",
		},
		{
			name: "fallback container",
			html: `<div class="job-description"><p>Fallback text . . .</p></div>`,
			want: "Fallback text...",
		},
		{
			name: "no known container",
			html: `<div class="top-card">Title only</div>`,
			want: "No description available",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := mustDoc(t, "<html><body>"+tt.html+"</body></html>")
			assert.Equal(t, tt.want, ExtractDescription(doc.Selection))
		})
	}
}

func TestDetailFetcher_Fetch(t *testing.T) {
	fetcher := newFakeFetcher()
	fetcher.detail("https://x/ok", detailPage("<p>Kubernetes <strong>and</strong> Docker</p>"))
	fetcher.responses["https://x/gone"] = &Response{StatusCode: 410}
	fetcher.errs["https://x/down"] = errors.New("dial tcp: connection refused")
	d := NewDetailFetcher(fetcher, zap.NewNop())

	desc, err := d.Fetch(context.Background(), "https://x/ok")
	require.NoError(t, err)
	assert.Equal(t, "Kubernetes and Docker", desc)

	_, err = d.Fetch(context.Background(), "https://x/gone")
	var terr *TransportError
	require.True(t, errors.As(err, &terr))
	assert.Equal(t, 410, terr.StatusCode)

	_, err = d.Fetch(context.Background(), "https://x/down")
	assert.ErrorIs(t, err, ErrTransport)
	assert.Contains(t, err.Error(), "connection refused")
}
