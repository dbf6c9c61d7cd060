package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jobpulse/analyzer/internal/config"
	"github.com/jobpulse/analyzer/internal/export"
)

const version = "1.0.0"

// HealthCheck returns the health status
func HealthCheck(service SearchService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":           "healthy",
			"version":          version,
			"pending_searches": service.Pending(),
		})
	}
}

// Root returns basic API info
func Root(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"name":     "Job Posting Analyzer API",
			"version":  version,
			"health":   "/health",
			"searches": "/api/searches",
			"country":  cfg.Scraper.Country,
			"charts":   export.ChartNames,
		})
	}
}
