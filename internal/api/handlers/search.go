package handlers

import (
	"bytes"
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/jobpulse/analyzer/internal/domain"
	"github.com/jobpulse/analyzer/internal/export"
	"github.com/jobpulse/analyzer/internal/search"
)

// SearchService defines the interface for queued search operations
type SearchService interface {
	Submit(req domain.SearchRequest) (domain.SearchTask, error)
	Get(id uuid.UUID) (domain.SearchTask, bool)
	Pending() int
}

// SearchHandler handles search API requests
type SearchHandler struct {
	service SearchService
	charts  map[string]export.RenderFunc
}

// NewSearchHandler creates a new search handler. A nil charts map uses
// export.Renderers.
func NewSearchHandler(service SearchService, charts map[string]export.RenderFunc) *SearchHandler {
	if charts == nil {
		charts = export.Renderers
	}
	return &SearchHandler{service: service, charts: charts}
}

// Create handles POST /api/searches
func (h *SearchHandler) Create(c *fiber.Ctx) error {
	var req domain.SearchRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":   "invalid_request",
			"message": "Invalid request body",
		})
	}

	task, err := h.service.Submit(req)
	switch {
	case errors.Is(err, search.ErrInvalidRequest):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":   "invalid_request",
			"message": err.Error(),
		})
	case errors.Is(err, search.ErrQueueFull):
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"error":   "queue_full",
			"message": "Too many searches queued. Please try again later.",
		})
	case err != nil:
		return err
	}

	return c.Status(fiber.StatusAccepted).JSON(task)
}

// Get handles GET /api/searches/:search_id
func (h *SearchHandler) Get(c *fiber.Ctx) error {
	task, err := h.lookup(c)
	if err != nil {
		return err
	}
	return c.JSON(task)
}

// Postings handles GET /api/searches/:search_id/postings
func (h *SearchHandler) Postings(c *fiber.Ctx) error {
	session, err := h.session(c)
	if err != nil || session == nil {
		return err
	}
	return c.JSON(fiber.Map{
		"session": session,
		"errors":  session.ErrorMessages(),
	})
}

// ExportCSV handles GET /api/searches/:search_id/export.csv
func (h *SearchHandler) ExportCSV(c *fiber.Ctx) error {
	session, err := h.session(c)
	if err != nil || session == nil {
		return err
	}

	var buf bytes.Buffer
	if err := export.WriteCSV(&buf, session.Postings); err != nil {
		return err
	}
	c.Attachment("jobs_data.csv")
	c.Set(fiber.HeaderContentType, "text/csv; charset=utf-8")
	return c.Send(buf.Bytes())
}

// Chart handles GET /api/searches/:search_id/charts/:name
func (h *SearchHandler) Chart(c *fiber.Ctx) error {
	render, ok := h.charts[c.Params("name")]
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error":   "not_found",
			"message": "Unknown chart",
			"charts":  export.ChartNames,
		})
	}

	task, err := h.lookup(c)
	if err != nil {
		return err
	}
	if task.Summary == nil {
		return notReady(c, task)
	}

	var buf bytes.Buffer
	if err := render(&buf, *task.Summary); err != nil {
		return err
	}
	c.Type("html", "utf-8")
	return c.Send(buf.Bytes())
}

// lookup returns a *fiber.Error for a malformed or unknown ID.
func (h *SearchHandler) lookup(c *fiber.Ctx) (domain.SearchTask, error) {
	id, err := uuid.Parse(c.Params("search_id"))
	if err != nil {
		return domain.SearchTask{}, fiber.NewError(fiber.StatusBadRequest, "Invalid search ID format")
	}
	task, ok := h.service.Get(id)
	if !ok {
		return domain.SearchTask{}, fiber.NewError(fiber.StatusNotFound, "Search not found")
	}
	return task, nil
}

// session returns (nil, nil) after writing a 409 when the task has not finished.
func (h *SearchHandler) session(c *fiber.Ctx) (*domain.Session, error) {
	task, err := h.lookup(c)
	if err != nil {
		return nil, err
	}
	if task.Session == nil {
		return nil, notReady(c, task)
	}
	return task.Session, nil
}

func notReady(c *fiber.Ctx, task domain.SearchTask) error {
	return c.Status(fiber.StatusConflict).JSON(fiber.Map{
		"error":   "not_ready",
		"message": "Search has not finished",
		"status":  task.Status,
	})
}
