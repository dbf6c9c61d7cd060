package scraper

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"
)

// RecencyWindow is the maximum age of a posting kept in a session.
const RecencyWindow = 24 * time.Hour

// IsRecent reports whether a posting that is elapsed old is inside RecencyWindow.
func IsRecent(elapsed time.Duration) bool {
	return withinWindow(elapsed, RecencyWindow)
}

func withinWindow(elapsed, window time.Duration) bool {
	return elapsed <= window
}

// Elapsed measures now against posted in posted's own offset.
func Elapsed(now, posted time.Time) time.Duration {
	return now.In(posted.Location()).Sub(posted)
}

// HoursAgo rounds elapsed to one decimal hour, never below zero.
func HoursAgo(elapsed time.Duration) float64 {
	if elapsed < 0 {
		return 0
	}
	return math.Round(elapsed.Hours()*10) / 10
}

// Layouts tried for a card's datetime attribute. Values without an offset are
// read as UTC.
var postedLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04Z07:00",
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04",
	"2006-01-02",
}

var errEmptyTimestamp = errors.New("empty timestamp")

// ParsePostedTime parses an ISO-8601 publish timestamp. A trailing "Z" is
// rewritten to "+00:00" first.
func ParsePostedTime(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, errEmptyTimestamp
	}
	if strings.HasSuffix(raw, "Z") || strings.HasSuffix(raw, "z") {
		raw = raw[:len(raw)-1] + "+00:00"
	}
	for _, layout := range postedLayouts {
		if t, err := time.ParseInLocation(layout, raw, time.UTC); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", raw)
}
