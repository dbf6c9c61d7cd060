package search

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jobpulse/analyzer/internal/analysis"
	"github.com/jobpulse/analyzer/internal/domain"
	"github.com/jobpulse/analyzer/internal/scraper"
)

var (
	ErrInvalidRequest = errors.New("invalid search request")
	ErrQueueFull      = errors.New("search queue is full")
)

// Queue runs submitted searches one at a time on a single worker, so fetching
// stays sequential across requests.
type Queue struct {
	searcher   scraper.Searcher
	aggregator *analysis.Aggregator
	maxPages   int
	logger     *zap.Logger

	mu      sync.RWMutex
	tasks   map[uuid.UUID]*domain.SearchTask
	pending chan uuid.UUID
}

// NewQueue creates a queue holding up to capacity pending searches.
func NewQueue(searcher scraper.Searcher, aggregator *analysis.Aggregator, capacity, maxPages int, logger *zap.Logger) *Queue {
	return &Queue{
		searcher:   searcher,
		aggregator: aggregator,
		maxPages:   maxPages,
		logger:     logger,
		tasks:      make(map[uuid.UUID]*domain.SearchTask),
		pending:    make(chan uuid.UUID, capacity),
	}
}

// Run processes queued searches until ctx is done.
func (q *Queue) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case id := <-q.pending:
			q.execute(ctx, id)
		}
	}
}

// Submit validates and queues a search
func (q *Queue) Submit(req domain.SearchRequest) (domain.SearchTask, error) {
	req.Keyword = strings.TrimSpace(req.Keyword)
	req.Location = strings.TrimSpace(req.Location)
	if req.Keyword == "" {
		return domain.SearchTask{}, fmt.Errorf("%w: keyword is required", ErrInvalidRequest)
	}
	if req.Pages == 0 {
		req.Pages = 1
	}
	if req.Pages < 0 || req.Pages > q.maxPages {
		return domain.SearchTask{}, fmt.Errorf("%w: pages must be between 1 and %d", ErrInvalidRequest, q.maxPages)
	}

	task := &domain.SearchTask{
		ID:        uuid.New(),
		Request:   req,
		Status:    domain.SearchStatusQueued,
		CreatedAt: time.Now(),
	}

	q.mu.Lock()
	defer q.mu.Unlock()
	select {
	case q.pending <- task.ID:
	default:
		return domain.SearchTask{}, ErrQueueFull
	}
	q.tasks[task.ID] = task

	q.logger.Info("Search queued",
		zap.String("task", task.ID.String()),
		zap.String("keyword", req.Keyword),
		zap.Int("pages", req.Pages),
	)
	return *task, nil
}

// Get returns a snapshot of a task
func (q *Queue) Get(id uuid.UUID) (domain.SearchTask, bool) {
	q.mu.RLock()
	defer q.mu.RUnlock()
	task, ok := q.tasks[id]
	if !ok {
		return domain.SearchTask{}, false
	}
	return *task, true
}

// Pending returns the number of searches waiting for the worker.
func (q *Queue) Pending() int {
	return len(q.pending)
}

func (q *Queue) execute(ctx context.Context, id uuid.UUID) {
	started := time.Now()
	req, ok := q.update(id, func(t *domain.SearchTask) {
		t.Status = domain.SearchStatusInProgress
		t.StartedAt = &started
	})
	if !ok {
		return
	}

	session, err := q.searcher.Search(ctx, req.Keyword, req.Location, req.Pages)
	finished := time.Now()

	var summary domain.Summary
	if session != nil {
		summary = q.aggregator.Summarize(session.Postings)
	}

	q.update(id, func(t *domain.SearchTask) {
		t.FinishedAt = &finished
		t.Session = session
		if session != nil {
			t.JobsFound = len(session.Postings)
			t.Summary = &summary
		}
		if err != nil {
			msg := err.Error()
			t.Error = &msg
			t.Status = domain.SearchStatusFailed
			return
		}
		t.Status = domain.SearchStatusCompleted
	})

	if err != nil {
		q.logger.Error("Search failed", zap.String("task", id.String()), zap.Error(err))
		return
	}
	q.logger.Info("Search completed",
		zap.String("task", id.String()),
		zap.Int("jobs", len(session.Postings)),
		zap.Duration("duration", finished.Sub(started)),
	)
}

func (q *Queue) update(id uuid.UUID, fn func(*domain.SearchTask)) (domain.SearchRequest, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	task, ok := q.tasks[id]
	if !ok {
		return domain.SearchRequest{}, false
	}
	fn(task)
	return task.Request, true
}
