package domain

import (
	"strconv"
	"time"

	"github.com/google/uuid"
)

// DescriptionUnavailable is stored when a detail page was fetched but none of
// the known description containers were present. A nil Description means the
// detail fetch itself failed.
const DescriptionUnavailable = "No description available"

// PostedDateLayout is the layout used for posted_date in exported tables.
const PostedDateLayout = time.RFC3339

// Columns is the header of the exported posting table, in row order.
var Columns = []string{"title", "employer", "location", "posted_date", "url", "description", "hours_ago"}

// Posting represents a single job listing accepted into a session
type Posting struct {
	ID          uuid.UUID `json:"id"`
	Title       string    `json:"title"`
	Employer    string    `json:"employer"`
	Location    string    `json:"location"`
	PostedAt    time.Time `json:"posted_date"`
	URL         string    `json:"url"`
	Description *string   `json:"description"`
	HoursAgo    float64   `json:"hours_ago"`
}

// HasDescription reports whether the detail page yielded description text.
func (p Posting) HasDescription() bool {
	return p.Description != nil
}

// Row renders the posting as a table row matching Columns.
func (p Posting) Row() []string {
	description := ""
	if p.Description != nil {
		description = *p.Description
	}
	return []string{
		p.Title,
		p.Employer,
		p.Location,
		p.PostedAt.Format(PostedDateLayout),
		p.URL,
		description,
		strconv.FormatFloat(p.HoursAgo, 'f', 1, 64),
	}
}
