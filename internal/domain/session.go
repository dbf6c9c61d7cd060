package domain

import (
	"time"

	"github.com/google/uuid"
)

// Session is the append-only record set of one search invocation
// (one keyword + location + page count).
type Session struct {
	ID       uuid.UUID `json:"id"`
	Keyword  string    `json:"keyword"`
	Location string    `json:"location"`
	Pages    int       `json:"pages"`

	Postings []Posting `json:"postings"`

	PagesFetched int `json:"pages_fetched"`
	PagesFailed  int `json:"pages_failed"`
	CardsSeen    int `json:"cards_seen"`
	CardsSkipped int `json:"cards_skipped"`
	CardsTooOld  int `json:"cards_too_old"`

	Errors []error `json:"-"`

	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
}

// NewSession starts an empty session.
func NewSession(keyword, location string, pages int, startedAt time.Time) *Session {
	return &Session{
		ID:        uuid.New(),
		Keyword:   keyword,
		Location:  location,
		Pages:     pages,
		Postings:  make([]Posting, 0),
		StartedAt: startedAt,
	}
}

// Duration returns how long the session ran
func (s *Session) Duration() time.Duration {
	return s.FinishedAt.Sub(s.StartedAt)
}

// ErrorMessages flattens Errors for serialization.
func (s *Session) ErrorMessages() []string {
	msgs := make([]string, 0, len(s.Errors))
	for _, err := range s.Errors {
		msgs = append(msgs, err.Error())
	}
	return msgs
}
