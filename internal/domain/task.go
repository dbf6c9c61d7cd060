package domain

import (
	"time"

	"github.com/google/uuid"
)

// SearchStatus represents the status of a queued search
type SearchStatus string

const (
	SearchStatusQueued     SearchStatus = "queued"
	SearchStatusInProgress SearchStatus = "in_progress"
	SearchStatusCompleted  SearchStatus = "completed"
	SearchStatusFailed     SearchStatus = "failed"
)

// SearchRequest describes one search invocation
type SearchRequest struct {
	Keyword  string `json:"keyword"`
	Location string `json:"location"`
	Pages    int    `json:"pages"`
}

// SearchTask represents a background search run
type SearchTask struct {
	ID         uuid.UUID     `json:"id"`
	Request    SearchRequest `json:"request"`
	Status     SearchStatus  `json:"status"`
	JobsFound  int           `json:"jobs_found"`
	Error      *string       `json:"error,omitempty"`
	Session    *Session      `json:"-"`
	Summary    *Summary      `json:"summary,omitempty"`
	CreatedAt  time.Time     `json:"created_at"`
	StartedAt  *time.Time    `json:"started_at,omitempty"`
	FinishedAt *time.Time    `json:"finished_at,omitempty"`
}

// Done reports whether the task reached a terminal status.
func (t SearchTask) Done() bool {
	return t.Status == SearchStatusCompleted || t.Status == SearchStatusFailed
}
