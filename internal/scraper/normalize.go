package scraper

import (
	"regexp"
	"strings"

	"golang.org/x/net/html"
)

var (
	// Go's \s is ASCII only; \p{Z} picks up NBSP and friends.
	whitespaceRe = regexp.MustCompile(`[\s\p{Z}]+`)
	toggleRe     = regexp.MustCompile(`(?i)show\s*more|see\s*more|show\s*less`)
	// A "+" that is itself preceded or followed by "+" belongs to the text (C++).
	leadingPlusRe  = regexp.MustCompile(`(?i)(^|[^+])\+\s*(?:show\s*more|see\s*more|show\s*less)`)
	trailingPlusRe = regexp.MustCompile(`(?i)(?:show\s*more|see\s*more|show\s*less)\s*\+([^+]|$)`)
	ellipsisRe     = regexp.MustCompile(`\s*\.(?:\s*\.)+\s*`)
)

// NormalizeDescription cleans text pulled from a description container:
// whitespace runs collapse to one space, show more/see more/show less labels
// (and a "+" glued to them) are dropped, and runs of two or more periods
// become "... ".
func NormalizeDescription(s string) string {
	s = collapseSpace(s)
	s = replaceUntilStable(s, func(s string) string {
		s = leadingPlusRe.ReplaceAllString(s, "$1")
		return trailingPlusRe.ReplaceAllString(s, "$1")
	})
	// Removing a label can splice a new one together ("show show moremore").
	s = replaceUntilStable(s, func(s string) string {
		return toggleRe.ReplaceAllString(s, "")
	})
	s = ellipsisRe.ReplaceAllString(s, "... ")
	return strings.TrimSpace(collapseSpace(s))
}

func replaceUntilStable(s string, replace func(string) string) string {
	for {
		next := replace(s)
		if next == s {
			return s
		}
		s = next
	}
}

func collapseSpace(s string) string {
	return whitespaceRe.ReplaceAllString(s, " ")
}

// nodeText joins the trimmed, non-empty text nodes under nodes with sep.
func nodeText(nodes []*html.Node, sep string) string {
	var parts []string
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		switch n.Type {
		case html.TextNode:
			if t := strings.TrimSpace(n.Data); t != "" {
				parts = append(parts, t)
			}
			return
		case html.ElementNode:
			if n.Data == "script" || n.Data == "style" {
				return
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	for _, n := range nodes {
		walk(n)
	}
	return strings.Join(parts, sep)
}
