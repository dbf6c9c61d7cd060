package scraper

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"
)

var testNow = time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC)

const testBaseURL = "https://jobs.example.com/search"

type fakeFetcher struct {
	responses map[string]*Response
	errs      map[string]error
	calls     []string
	params    []url.Values
}

func newFakeFetcher() *fakeFetcher {
	return &fakeFetcher{
		responses: make(map[string]*Response),
		errs:      make(map[string]error),
	}
}

// pageKey identifies a search page request by its result offset.
func pageKey(start int) string {
	return fmt.Sprintf("%s?start=%d", testBaseURL, start)
}

func (f *fakeFetcher) Fetch(_ context.Context, rawURL string, params url.Values) (*Response, error) {
	key := rawURL
	if params != nil {
		key = rawURL + "?start=" + params.Get("start")
		f.params = append(f.params, params)
	}
	f.calls = append(f.calls, key)
	if err, ok := f.errs[key]; ok {
		return nil, err
	}
	if resp, ok := f.responses[key]; ok {
		return resp, nil
	}
	return &Response{StatusCode: 404}, nil
}

func (f *fakeFetcher) page(start int, body string) {
	f.responses[pageKey(start)] = &Response{StatusCode: 200, Body: []byte(body)}
}

func (f *fakeFetcher) detail(jobURL, body string) {
	f.responses[jobURL] = &Response{StatusCode: 200, Body: []byte(body)}
}

func (f *fakeFetcher) count(key string) int {
	n := 0
	for _, c := range f.calls {
		if c == key {
			n++
		}
	}
	return n
}

type cardSpec struct {
	href     string
	posted   string
	title    string
	employer string
	location string
}

func cardHTML(c cardSpec) string {
	var b strings.Builder
	b.WriteString(`<div class="base-card job-search-card">`)
	if c.href != "" {
		fmt.Fprintf(&b, `<a class="base-card__full-link" href="%s"><span class="sr-only">%s</span></a>`, c.href, c.title)
	}
	b.WriteString(`<div class="base-search-card__info">`)
	if c.title != "" {
		fmt.Fprintf(&b, `<h3 class="base-search-card__title">  %s  </h3>`, c.title)
	}
	fmt.Fprintf(&b, `<h4 class="base-search-card__subtitle"><a>%s</a></h4>`, c.employer)
	fmt.Fprintf(&b, `<div class="base-search-card__metadata"><span class="job-search-card__location">%s</span>`, c.location)
	if c.posted != "" {
		fmt.Fprintf(&b, `<time class="job-search-card__listdate" datetime="%s">1 hour ago</time>`, c.posted)
	}
	b.WriteString(`</div></div></div>`)
	return b.String()
}

func resultsPage(cards ...cardSpec) string {
	var b strings.Builder
	b.WriteString(`<html><body><ul class="jobs-search__results-list">`)
	for _, c := range cards {
		b.WriteString("<li>" + cardHTML(c) + "</li>")
	}
	b.WriteString(`</ul></body></html>`)
	return b.String()
}

func detailPage(text string) string {
	return `<html><body><section class="description"><div class="show-more-less-html__markup">` +
		text + `</div><button class="show-more-less-button">Show more</button></section></body></html>`
}

func postedAgo(d time.Duration) string {
	return testNow.Add(-d).Format("2006-01-02T15:04:05Z")
}

func testOptions() Options {
	opts := DefaultOptions()
	opts.BaseURL = testBaseURL
	opts.PageDelay = 0
	opts.DetailDelay = 0
	opts.Now = func() time.Time { return testNow }
	return opts
}
