package api

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/jobpulse/analyzer/internal/api/handlers"
	"github.com/jobpulse/analyzer/internal/api/middleware"
	"github.com/jobpulse/analyzer/internal/config"
	"github.com/jobpulse/analyzer/internal/export"
)

// Dependencies holds all service dependencies for handlers
type Dependencies struct {
	Searches handlers.SearchService
	// Charts defaults to export.Renderers.
	Charts map[string]export.RenderFunc
	Logger *zap.Logger
}

// NewApp creates the fiber app with middleware and routes installed
func NewApp(cfg *config.Config, deps *Dependencies) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               "Job Posting Analyzer API",
		ReadTimeout:           cfg.Server.ReadTimeout,
		WriteTimeout:          cfg.Server.WriteTimeout,
		DisableStartupMessage: !cfg.Server.Debug,
		ErrorHandler:          ErrorHandler(deps.Logger),
	})

	middleware.Setup(app, cfg, deps.Logger)
	SetupRoutes(app, cfg, deps)
	return app
}

// SetupRoutes configures all API routes
func SetupRoutes(app *fiber.App, cfg *config.Config, deps *Dependencies) {
	app.Get("/health", handlers.HealthCheck(deps.Searches))
	app.Get("/", handlers.Root(cfg))

	api := app.Group("/api")

	searches := api.Group("/searches")
	searchHandler := handlers.NewSearchHandler(deps.Searches, deps.Charts)
	searches.Post("/", middleware.SearchLimiter(cfg), searchHandler.Create)
	searches.Get("/:search_id", searchHandler.Get)
	searches.Get("/:search_id/postings", searchHandler.Postings)
	searches.Get("/:search_id/export.csv", searchHandler.ExportCSV)
	searches.Get("/:search_id/charts/:name", searchHandler.Chart)
}

// ErrorHandler handles errors globally
func ErrorHandler(log *zap.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		code := fiber.StatusInternalServerError
		message := "Internal server error"

		var fe *fiber.Error
		if errors.As(err, &fe) {
			code = fe.Code
			message = fe.Message
		}

		if code >= fiber.StatusInternalServerError {
			log.Error("Request error",
				zap.Int("status", code),
				zap.String("path", c.Path()),
				zap.Error(err),
			)
		}

		return c.Status(code).JSON(fiber.Map{
			"error":   "request_failed",
			"message": message,
			"path":    c.Path(),
		})
	}
}
